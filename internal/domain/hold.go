package domain

import (
	"time"

	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// Hold короткоживущая мягкая бронь слота на время checkout.
// Пока холд жив, слот нельзя ни захолдировать, ни забронировать другим.
// Фоновой чистки нет: истекшие холды удаляются лениво в начале каждой
// операции, проверяющей занятость слота
type Hold struct {
	ID              int64
	ProviderID      int64
	RequesterUserID int64
	SlotDate        time.Time
	TimeSlot        types.TimeString
	ExpiresAt       time.Time
	CreatedAt       time.Time
}

// IsLive возвращает true, пока холд не истек (now < expires_at)
func (h *Hold) IsLive(now time.Time) bool {
	return now.Before(h.ExpiresAt)
}
