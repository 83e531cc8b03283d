package firestoresync

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// DocumentStore хранилище документов
type DocumentStore interface {
	Set(ctx context.Context, collection, id string, data map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
}

// Subscriber источник событий (*events.Hub)
type Subscriber interface {
	Subscribe(topics ...string) (<-chan events.Event, func())
}
