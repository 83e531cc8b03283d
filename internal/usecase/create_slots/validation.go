package create_slots

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateSlotParams проверяет тип, место и цену
func validateSlotParams(p SlotParams) error {
	if !p.Type.IsValid() {
		return fmt.Errorf("%w: type must be one of: online, in_person", ErrInvalidInput)
	}

	if p.Type == domain.SlotTypeInPerson && (p.Location == nil || *p.Location == "") {
		return fmt.Errorf("%w: location is required for in_person slots", ErrInvalidInput)
	}

	if p.Location != nil && utf8.RuneCountInString(*p.Location) > domain.MaxLocationLength {
		return fmt.Errorf("%w: location must be at most %d characters", ErrInvalidInput, domain.MaxLocationLength)
	}

	if p.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
	}

	return nil
}

func validateDuration(minutes int) error {
	if minutes < domain.MinSlotDurationMinutes || minutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	return nil
}

// validateSingle валидирует запрос на один слот
func validateSingle(req *SingleRequest, now time.Time) error {
	if req.ActorID == "" || req.ProfessionalID == "" {
		return fmt.Errorf("%w: actor and professional are required", ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	if !req.EndDate.After(req.StartDate) {
		return fmt.Errorf("%w: endDate must be after startDate", ErrInvalidInput)
	}

	length := req.EndDate.Sub(req.StartDate)
	if length%time.Minute != 0 {
		return fmt.Errorf("%w: slot length must be a whole number of minutes", ErrInvalidInput)
	}
	if err := validateDuration(int(length / time.Minute)); err != nil {
		return err
	}

	if !req.StartDate.After(now) {
		return ErrSlotInPast
	}

	return validateSlotParams(req.SlotParams)
}

// validateRecurring валидирует шаблон и возвращает его часовой пояс
func validateRecurring(req *RecurringRequest) (*time.Location, error) {
	if req.ActorID == "" || req.ProfessionalID == "" {
		return nil, fmt.Errorf("%w: actor and professional are required", ErrInvalidInput)
	}

	if len(req.Weekdays) == 0 {
		return nil, fmt.Errorf("%w: at least one weekday is required", ErrInvalidInput)
	}
	seen := make(map[time.Weekday]bool, len(req.Weekdays))
	for _, wd := range req.Weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return nil, fmt.Errorf("%w: invalid weekday %d", ErrInvalidInput, wd)
		}
		if seen[wd] {
			return nil, fmt.Errorf("%w: duplicate weekday %s", ErrInvalidInput, wd)
		}
		seen[wd] = true
	}

	if err := req.StartTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}
	if !req.EndTime.IsAfter(req.StartTime) {
		return nil, fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if err := validateDuration(req.SlotDurationMinutes); err != nil {
		return nil, err
	}
	if req.EndTime.Minutes()-req.StartTime.Minutes() < req.SlotDurationMinutes {
		return nil, fmt.Errorf("%w: daily window is shorter than one slot", ErrInvalidInput)
	}

	if req.BreakMinutes < 0 || req.BreakMinutes > domain.MaxRecurringBreakMinutes {
		return nil, fmt.Errorf("%w: break must be between 0 and %d minutes", ErrInvalidInput, domain.MaxRecurringBreakMinutes)
	}

	if req.FromDate.IsZero() || req.ToDate.IsZero() {
		return nil, fmt.Errorf("%w: fromDate and toDate are required", ErrInvalidInput)
	}
	from, to := dateOnly(req.FromDate), dateOnly(req.ToDate)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: toDate must not be before fromDate", ErrInvalidInput)
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > domain.MaxRecurringRangeDays {
		return nil, fmt.Errorf("%w: date range must be at most %d days", ErrInvalidInput, domain.MaxRecurringRangeDays)
	}

	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, req.Timezone)
	}

	if err := validateSlotParams(req.SlotParams); err != nil {
		return nil, err
	}

	return loc, nil
}

// dateOnly отбрасывает время, сохраняя календарную дату
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
