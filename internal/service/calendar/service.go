package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
)

// Service сервис представлений календаря
type Service struct {
	slotRepo         SlotRepository
	bookingRepo      BookingRepository
	professionalRepo ProfessionalRepository
	defaultLocation  *time.Location
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	professionalRepo ProfessionalRepository,
	defaultLocation *time.Location,
	logger Logger,
) *Service {
	if defaultLocation == nil {
		defaultLocation = time.UTC
	}
	return &Service{
		slotRepo:         slotRepo,
		bookingRepo:      bookingRepo,
		professionalRepo: professionalRepo,
		defaultLocation:  defaultLocation,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Get строит запрошенный вид календаря
// Посторонние видят свободные и занятые слоты без данных клиентов и без отменённых слотов,
// владелец профиля видит всё вместе с бронированиями
func (s *Service) Get(ctx context.Context, req *models.Request) (*models.Response, error) {
	s.logger.Info("Calendar: professional=%s, view=%s, date=%s, tz=%s", req.ProfessionalID, req.View, req.Date, req.Timezone)

	loc, err := s.location(req.Timezone)
	if err != nil {
		return nil, err
	}

	professional, err := s.professionalRepo.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			s.logger.Warn("Calendar: professional id=%s not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		s.logger.Error("Calendar: failed to get professional id=%s: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: Get - failed to get professional: %v", ErrInternal, err)
	}
	owner := professional.IsOwnedBy(req.ViewerID)
	now := s.timeProvider.Now()

	view := req.View
	if view == "" {
		view = models.ViewMonth
	}

	resp := &models.Response{View: view}
	switch view {
	case models.ViewMonth:
		year, month, err := parseMonth(req.Date, now, loc)
		if err != nil {
			return nil, err
		}
		from, to := monthGrid(year, month, loc)
		slots, bookings, err := s.load(ctx, req.ProfessionalID, from, to, owner)
		if err != nil {
			return nil, err
		}
		resp.Month = BuildMonth(year, month, loc, now, slots, bookings)
		resp.Month.ProfessionalID = req.ProfessionalID

	case models.ViewDay:
		day, err := parseDay(req.Date, now, loc)
		if err != nil {
			return nil, err
		}
		slots, bookings, err := s.load(ctx, req.ProfessionalID, day, day.AddDate(0, 0, 1), owner)
		if err != nil {
			return nil, err
		}
		resp.Day = BuildDay(day, loc, now, slots, bookings)
		resp.Day.ProfessionalID = req.ProfessionalID

	case models.ViewList:
		day, err := parseDay(req.Date, now, loc)
		if err != nil {
			return nil, err
		}
		days := req.Days
		if days == 0 {
			days = domain.DefaultCalendarListDays
		}
		if days < 1 || days > domain.MaxCalendarListDays {
			return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, domain.MaxCalendarListDays)
		}
		slots, bookings, err := s.load(ctx, req.ProfessionalID, day, day.AddDate(0, 0, days), owner)
		if err != nil {
			return nil, err
		}
		resp.List = BuildList(day, days, loc, now, slots, bookings)
		resp.List.ProfessionalID = req.ProfessionalID

	default:
		return nil, fmt.Errorf("%w: view must be one of: month, day, list", ErrInvalidInput)
	}

	return resp, nil
}

// load загружает слоты и, для владельца, бронирования за период [from, to)
func (s *Service) load(ctx context.Context, professionalID string, from, to time.Time, owner bool) ([]*domain.AvailabilitySlot, []*domain.Booking, error) {
	slots, err := s.slotRepo.List(ctx, domain.SlotFilter{
		ProfessionalID:   professionalID,
		From:             &from,
		To:               &to,
		IncludeCancelled: owner,
	})
	if err != nil {
		s.logger.Error("Calendar: failed to list slots for professional=%s: %v", professionalID, err)
		return nil, nil, fmt.Errorf("%w: load - failed to list slots: %v", ErrInternal, err)
	}

	if !owner {
		return slots, nil, nil
	}

	bookings, err := s.bookingRepo.GetByProfessionalWithFilter(ctx, domain.ProfessionalBookingsFilter{
		ProfessionalID: professionalID,
		From:           &from,
		To:             &to,
	})
	if err != nil {
		s.logger.Error("Calendar: failed to list bookings for professional=%s: %v", professionalID, err)
		return nil, nil, fmt.Errorf("%w: load - failed to list bookings: %v", ErrInternal, err)
	}

	return slots, bookings, nil
}

func (s *Service) location(name string) (*time.Location, error) {
	if name == "" {
		return s.defaultLocation, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// parseMonth принимает YYYY-MM или YYYY-MM-DD; пустая строка означает текущий месяц
func parseMonth(value string, now time.Time, loc *time.Location) (int, time.Month, error) {
	if value == "" {
		local := now.In(loc)
		return local.Year(), local.Month(), nil
	}
	for _, layout := range []string{domain.MonthFormat, domain.DateFormat} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.Year(), t.Month(), nil
		}
	}
	return 0, 0, fmt.Errorf("%w: date must be YYYY-MM or YYYY-MM-DD", ErrInvalidInput)
}

// parseDay принимает YYYY-MM-DD; пустая строка означает сегодня
func parseDay(value string, now time.Time, loc *time.Location) (time.Time, error) {
	if value == "" {
		return startOfDay(now, loc), nil
	}
	t, err := time.ParseInLocation(domain.DateFormat, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return t, nil
}
