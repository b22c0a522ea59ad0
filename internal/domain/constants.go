package domain

import "time"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Service categories
const (
	CategoryDogWalking = "dog_walking"
	CategoryGrooming   = "grooming"
)

// IsValidCategory проверяет, что категория входит в допустимый набор
func IsValidCategory(category string) bool {
	return category == CategoryDogWalking || category == CategoryGrooming
}

// Booking/slot defaults
const (
	// LeadTimeCutoff минимальное время до начала слота, после которого
	// новые холды и бронирования не принимаются
	LeadTimeCutoff = 2 * time.Hour

	// DefaultHoldTTLMinutes время жизни холда по умолчанию
	DefaultHoldTTLMinutes = 15

	// DefaultAvailabilityWindowDays горизонт генерации слотов
	DefaultAvailabilityWindowDays = 14

	// MaxNoteLength максимальная длина заметки
	MaxNoteLength = 500
)

// DailySlotTimes фиксированный дневной набор слотов.
// Календарь генерируется лениво: перед каждым обращением к конкретной дате
// недостающие слоты досоздаются, повторная генерация идемпотентна
var DailySlotTimes = []string{"09:00", "11:00", "14:00", "16:00", "18:00"}

// Quote reminder thresholds
const (
	DefaultQuoteMaxTargets  = 3
	ReminderFirstMinutes    = 15
	ReminderEscalateMinutes = 60
)
