package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrSlotNotAvailable возвращается, когда слот уже забронирован или отменён
	ErrSlotNotAvailable = errors.New("slot.repository: slot not available")

	// ErrSlotBooked возвращается при попытке удалить или отменить забронированный слот
	ErrSlotBooked = errors.New("slot.repository: slot is booked")

	// ErrSlotHasHistory возвращается при попытке удалить слот, на который были бронирования
	ErrSlotHasHistory = errors.New("slot.repository: slot has booking history")

	// ErrSlotNotHeld возвращается, когда слот не удерживается указанным клиентом
	ErrSlotNotHeld = errors.New("slot.repository: slot is not held by client")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
