package book_slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("book_slot: slot not found")

	// ErrSlotNotAvailable возвращается, когда слот уже забронирован или отменён
	ErrSlotNotAvailable = errors.New("book_slot: slot is not available")

	// ErrSlotInPast возвращается, когда слот уже начался
	ErrSlotInPast = errors.New("book_slot: slot is in the past")

	// ErrOwnSlot возвращается, когда специалист пытается забронировать собственный слот
	ErrOwnSlot = errors.New("book_slot: cannot book own slot")

	// ErrTooLateToBook возвращается, когда до начала приёма меньше минимального времени
	ErrTooLateToBook = errors.New("book_slot: too late to book this slot")

	// ErrDateTooFarInFuture возвращается, когда слот дальше горизонта бронирования
	ErrDateTooFarInFuture = errors.New("book_slot: slot is too far in the future")

	// ErrClientNotAllowed возвращается, когда учётная запись клиента не найдена или заблокирована
	ErrClientNotAllowed = errors.New("book_slot: client account is not allowed to book")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_slot: internal error")
)
