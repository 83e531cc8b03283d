package firestoresync

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
)

// Collections имена коллекций Firestore
type Collections struct {
	Slots    string
	Bookings string
}

// Mirror зеркалирует изменения слотов и бронирований в Firestore,
// чтобы клиенты, подписанные на документы, получали обновления
type Mirror struct {
	store       DocumentStore
	collections Collections
	timeout     time.Duration
	log         Logger
}

// NewMirror создает зеркало
func NewMirror(store DocumentStore, collections Collections, timeout time.Duration, log Logger) *Mirror {
	return &Mirror{
		store:       store,
		collections: collections,
		timeout:     timeout,
		log:         log,
	}
}

// Run читает события из хаба до отмены ctx или закрытия подписки
func (m *Mirror) Run(ctx context.Context, sub Subscriber) {
	ch, cancel := sub.Subscribe(events.TopicAll)
	defer cancel()

	m.log.Info("Firestore mirror started (slots=%s, bookings=%s)", m.collections.Slots, m.collections.Bookings)

	for {
		select {
		case <-ctx.Done():
			m.log.Info("Firestore mirror stopped")
			return
		case e, ok := <-ch:
			if !ok {
				m.log.Info("Firestore mirror stopped: subscription closed")
				return
			}
			if err := m.Apply(ctx, e); err != nil {
				m.log.Error("Firestore mirror: failed to apply %s (%s): %v", e.ID, e.Type, err)
			}
		}
	}
}

// Apply записывает одно событие
func (m *Mirror) Apply(ctx context.Context, e events.Event) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	switch {
	case e.Type == events.SlotDeleted && e.Slot != nil:
		return m.store.Delete(ctx, m.collections.Slots, e.Slot.ID)
	case e.Slot != nil:
		return m.store.Set(ctx, m.collections.Slots, e.Slot.ID, slotDocument(e.Slot))
	case e.Booking != nil:
		return m.store.Set(ctx, m.collections.Bookings, e.Booking.ID, bookingDocument(e.Booking))
	}

	return nil
}

func slotDocument(s *domain.AvailabilitySlot) map[string]interface{} {
	doc := map[string]interface{}{
		"professionalId": s.ProfessionalID,
		"startDate":      s.StartDate,
		"endDate":        s.EndDate,
		"duration":       s.DurationMinutes,
		"type":           string(s.Type),
		"price":          s.Price,
		"isBooked":       s.IsBooked,
		"isCancelled":    s.IsCancelled,
		"bookedByUid":    nil,
		"location":       nil,
		"recurrenceId":   nil,
		"updatedAt":      s.UpdatedAt,
	}
	if s.BookedByUID != nil {
		doc["bookedByUid"] = *s.BookedByUID
	}
	if s.Location != nil {
		doc["location"] = *s.Location
	}
	if s.RecurrenceID != nil {
		doc["recurrenceId"] = *s.RecurrenceID
	}
	return doc
}

func bookingDocument(b *domain.Booking) map[string]interface{} {
	doc := map[string]interface{}{
		"slotId":          b.SlotID,
		"professionalId":  b.ProfessionalID,
		"clientId":        b.ClientID,
		"appointmentDate": b.AppointmentDate,
		"duration":        b.DurationMinutes,
		"type":            string(b.Type),
		"fee":             b.Fee,
		"status":          string(b.Status),
		"createdAt":       b.CreatedAt,
		"updatedAt":       b.UpdatedAt,
	}
	optional := map[string]*string{
		"location":     b.Location,
		"clientName":   b.ClientName,
		"clientEmail":  b.ClientEmail,
		"notes":        b.Notes,
		"statusReason": b.StatusReason,
	}
	for k, v := range optional {
		if v != nil {
			doc[k] = *v
		} else {
			doc[k] = nil
		}
	}
	return doc
}
