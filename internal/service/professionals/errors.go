package professionals

import "errors"

var (
	// ErrProfessionalNotFound возвращается, когда специалист не найден
	ErrProfessionalNotFound = errors.New("professional not found")

	// ErrProfileAlreadyExists возвращается, когда у пользователя уже есть профиль
	ErrProfileAlreadyExists = errors.New("profile already exists")

	// ErrAccessDenied возвращается, когда пользователь не управляет профилем
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
