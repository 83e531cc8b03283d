package availability

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrProfessionalNotFound возвращается, когда специалист не найден
	ErrProfessionalNotFound = errors.New("professional not found")

	// ErrAccessDenied возвращается, когда пользователь не управляет профилем специалиста
	ErrAccessDenied = errors.New("access denied")

	// ErrSlotBooked возвращается при попытке удалить или отменить забронированный слот
	ErrSlotBooked = errors.New("slot is booked")

	// ErrSlotHasHistory возвращается при удалении слота с историей бронирований; его можно только отменить
	ErrSlotHasHistory = errors.New("slot has booking history")

	// ErrInvalidTimeRange возвращается при некорректном периоде
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
