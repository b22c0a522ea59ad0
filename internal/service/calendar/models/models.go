package models

import "time"

// Типы событий календаря
const (
	EventTypeBooking  = "booking"
	EventTypeHold     = "hold"
	EventTypeBlackout = "blackout"
)

// Роли для фильтрации событий
const (
	RoleAll      = "all"
	RoleOwner    = "owner"
	RoleProvider = "provider"
)

// IsValidRole проверяет роль фильтрации
func IsValidRole(role string) bool {
	return role == RoleAll || role == RoleOwner || role == RoleProvider
}

// Request модели

// ListEventsRequest запрос на получение событий календаря
type ListEventsRequest struct {
	UserID   int64
	DateFrom time.Time
	DateTo   time.Time
	Role     string // all | owner | provider
}

// Response модели

// CalendarEvent одно событие объединенного календаря пользователя
type CalendarEvent struct {
	ID         string `json:"id"`   // "cal_booking_42"
	Type       string `json:"type"` // booking | hold | blackout
	Role       string `json:"role"` // owner | provider
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle,omitempty"`
	Date       string `json:"date"`     // "2025-10-15"
	TimeSlot   string `json:"timeSlot"` // "14:00"
	Status     string `json:"status,omitempty"`
	ProviderID int64  `json:"providerId"`
	BookingID  int64  `json:"bookingId,omitempty"`
}

// EventListResponse ответ со списком событий календаря
type EventListResponse struct {
	DateFrom string          `json:"dateFrom"`
	DateTo   string          `json:"dateTo"`
	Events   []CalendarEvent `json:"events"`
}
