package identity

import "errors"

var (
	// ErrUserNotFound возвращается, когда учётная запись не найдена у провайдера
	ErrUserNotFound = errors.New("identity client: user not found")

	// ErrUserDisabled возвращается, когда учётная запись заблокирована
	ErrUserDisabled = errors.New("identity client: user disabled")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("identity client: internal error")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Провайдер недоступен или не настроен, бронирование создаётся без профиля клиента
	ErrServiceDegraded = errors.New("identity provider unavailable: graceful degradation applied")
)
