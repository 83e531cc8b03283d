package events

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// DropCounter учитывает события, не доставленные медленным подписчикам
type DropCounter interface {
	IncEventsDropped()
}
