package create_slots

import "errors"

var (
	// ErrProfessionalNotFound возвращается, когда специалист не найден
	ErrProfessionalNotFound = errors.New("create_slots: professional not found")

	// ErrForbidden возвращается, когда пользователь не управляет профилем специалиста
	ErrForbidden = errors.New("create_slots: user does not manage this professional")

	// ErrSlotInPast возвращается, когда слот начинается в прошлом
	ErrSlotInPast = errors.New("create_slots: slot starts in the past")

	// ErrSlotOverlaps возвращается, когда слот пересекается с существующим
	ErrSlotOverlaps = errors.New("create_slots: slot overlaps an existing slot")

	// ErrTooManySlots возвращается, когда шаблон порождает слишком много слотов
	ErrTooManySlots = errors.New("create_slots: recurrence produces too many slots")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_slots: internal error")
)
