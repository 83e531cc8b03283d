package change_booking_status

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// Action действие над бронированием
type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// targetStatus статус, в который переводит действие
func (a Action) targetStatus() (domain.BookingStatus, bool) {
	switch a {
	case ActionAccept:
		return domain.StatusConfirmed, true
	case ActionReject:
		return domain.StatusRejected, true
	case ActionComplete:
		return domain.StatusCompleted, true
	case ActionCancel:
		return domain.StatusCancelled, true
	}
	return "", false
}

// Request модель запроса на смену статуса
type Request struct {
	BookingID string
	ActorID   string // UID пользователя
	Action    Action
	Reason    *string // Причина отклонения или отмены (опционально)
}

// Response результат смены статуса
type Response struct {
	Booking      *domain.Booking
	Actor        domain.Actor
	ReleasedSlot *domain.AvailabilitySlot // Слот, освобождённый при отклонении или отмене
}
