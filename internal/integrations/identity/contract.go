package identity

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// UserGetter источник учётных записей (*auth.Client)
type UserGetter interface {
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
}
