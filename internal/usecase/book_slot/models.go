package book_slot

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// Request модель запроса на бронирование слота
type Request struct {
	ClientID string  // UID клиента
	SlotID   string  // ID слота
	Notes    *string // Заметка для специалиста (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking  *domain.Booking
	Slot     *domain.AvailabilitySlot
	Degraded bool // Профиль клиента не получен, имя и email не заполнены
}
