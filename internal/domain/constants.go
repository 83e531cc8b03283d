package domain

// Default booking policy values
const (
	DefaultMinBookingNoticeMinutes   = 60 // 1 hour
	DefaultAdvanceBookingDays        = 0  // 0 = unlimited
	DefaultAutoConfirm               = false
	DefaultCancellationNoticeMinutes = 0
)

// Business validation constants
const (
	MinSlotDurationMinutes       = 5
	MaxSlotDurationMinutes       = 480 // 8 hours
	MaxRecurringBreakMinutes     = 240
	MaxRecurringRangeDays        = 92
	MaxRecurringSlots            = 500
	MinBookingNoticeMinutes      = 0
	MaxBookingNoticeMinutes      = 10080 // 1 week
	MinAdvanceBookingDays        = 0
	MaxAdvanceBookingDays        = 365
	MaxCancellationNoticeMinutes = 10080
	MaxNotesLength               = 500
	MaxStatusReasonLength        = 500
	MaxLocationLength            = 300
	MaxProfessionalNameLength    = 200
	MaxProfessionalBioLength     = 4000
	MaxProfessionalsPageSize     = 100
	DefaultProfessionalsPageSize = 20
	MaxCalendarListDays          = 62
	DefaultCalendarListDays      = 14
)

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"    // YYYY-MM
)

// InactiveStatuses статусы, не удерживающие слот
var InactiveStatuses = []BookingStatus{
	StatusRejected,
	StatusCancelled,
}

// ActiveStatuses статусы, удерживающие слот
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
