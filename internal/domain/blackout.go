package domain

import (
	"time"

	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// Blackout объявленная владельцем провайдера недоступность слота.
// Не более одного блэкаута на (провайдер, дата, время)
type Blackout struct {
	ID         int64
	ProviderID int64
	SlotDate   time.Time
	TimeSlot   types.TimeString
	Reason     string
	CreatedBy  int64
	CreatedAt  time.Time
}
