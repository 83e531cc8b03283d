package change_booking_status

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("change_booking_status: booking not found")

	// ErrForbidden возвращается, когда пользователь не является ни клиентом, ни специалистом бронирования
	ErrForbidden = errors.New("change_booking_status: access denied")

	// ErrInvalidTransition возвращается, когда переход статуса запрещён для этой роли
	ErrInvalidTransition = errors.New("change_booking_status: transition not allowed")

	// ErrStatusConflict возвращается, когда статус изменился конкурентно
	ErrStatusConflict = errors.New("change_booking_status: booking status changed concurrently")

	// ErrCancellationTooLate возвращается, когда клиент отменяет позже, чем разрешает политика
	ErrCancellationTooLate = errors.New("change_booking_status: too late to cancel")

	// ErrTooEarlyToComplete возвращается при попытке завершить приём до его начала
	ErrTooEarlyToComplete = errors.New("change_booking_status: appointment has not started yet")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("change_booking_status: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("change_booking_status: internal error")
)
