package models

import "time"

// View вид календаря
type View string

const (
	ViewMonth View = "month"
	ViewDay   View = "day"
	ViewList  View = "list"
)

// EntryState состояние слота в календаре
type EntryState string

const (
	StateAvailable EntryState = "available"
	StateBooked    EntryState = "booked"
	StateCancelled EntryState = "cancelled"
	StatePast      EntryState = "past"
)

// Request запрос календаря специалиста
type Request struct {
	ProfessionalID string
	ViewerID       string // Владелец профиля получает детали бронирований
	View           View
	Date           string // YYYY-MM или YYYY-MM-DD; пусто = сегодня
	Timezone       string // IANA имя; пусто = часовой пояс по умолчанию
	Days           int    // Только для списка
}

// DayCell ячейка месячной сетки
type DayCell struct {
	Date              string `json:"date"` // YYYY-MM-DD
	InMonth           bool   `json:"inMonth"`
	IsToday           bool   `json:"isToday"`
	IsPast            bool   `json:"isPast"`
	TotalSlots        int    `json:"totalSlots"`
	AvailableSlots    int    `json:"availableSlots"`
	BookedSlots       int    `json:"bookedSlots"`
	CancelledSlots    int    `json:"cancelledSlots"`
	PendingBookings   int    `json:"pendingBookings"`
	ConfirmedBookings int    `json:"confirmedBookings"`
}

// MonthView месячная сетка, недели начинаются с понедельника
type MonthView struct {
	ProfessionalID string      `json:"professionalId"`
	Month          string      `json:"month"` // YYYY-MM
	Timezone       string      `json:"timezone"`
	Weeks          [][]DayCell `json:"weeks"`
}

// BookingSummary краткие данные бронирования для владельца профиля
type BookingSummary struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	ClientID   string  `json:"clientId"`
	ClientName *string `json:"clientName,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// Entry слот на временной шкале
type Entry struct {
	SlotID          string          `json:"slotId"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	StartTime       string          `json:"startTime"` // HH:MM в часовом поясе запроса
	EndTime         string          `json:"endTime"`
	DurationMinutes int             `json:"durationMinutes"`
	State           EntryState      `json:"state"`
	Type            string          `json:"type"`
	Location        *string         `json:"location,omitempty"`
	Price           float64         `json:"price"`
	Booking         *BookingSummary `json:"booking,omitempty"`
}

// DayView временная шкала одного дня
type DayView struct {
	ProfessionalID string  `json:"professionalId"`
	Date           string  `json:"date"`
	Timezone       string  `json:"timezone"`
	Entries        []Entry `json:"entries"`
}

// DayGroup записи одного дня в списке
type DayGroup struct {
	Date    string  `json:"date"`
	Entries []Entry `json:"entries"`
}

// ListView ближайшие записи, сгруппированные по дням
type ListView struct {
	ProfessionalID string     `json:"professionalId"`
	From           string     `json:"from"`
	Days           int        `json:"days"`
	Timezone       string     `json:"timezone"`
	Groups         []DayGroup `json:"groups"`
}

// Response один из видов календаря
type Response struct {
	View  View       `json:"view"`
	Month *MonthView `json:"month,omitempty"`
	Day   *DayView   `json:"day,omitempty"`
	List  *ListView  `json:"list,omitempty"`
}
