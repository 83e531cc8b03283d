package create_slot

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_slots"
)

// CreateSlotRequest HTTP request model
type CreateSlotRequest struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Type      string    `json:"type"` // online, in_person
	Location  *string   `json:"location,omitempty"`
	Price     float64   `json:"price"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateSlotRequest) ToUseCaseRequest(professionalID, userID string) *createSlots.SingleRequest {
	return &createSlots.SingleRequest{
		ActorID:        userID,
		ProfessionalID: professionalID,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		SlotParams: createSlots.SlotParams{
			Type:     domain.SlotType(r.Type),
			Location: r.Location,
			Price:    r.Price,
		},
	}
}
