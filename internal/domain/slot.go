package domain

import (
	"time"

	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// UnavailableReason причина недоступности слота
type UnavailableReason string

const (
	ReasonBlackout UnavailableReason = "blackout"
	ReasonBooked   UnavailableReason = "booked"
	ReasonHeld     UnavailableReason = "held"
	ReasonCutoff   UnavailableReason = "cutoff"
)

// Slot единица календаря: (провайдер, дата, время).
// Генерируется лениво и никогда не удаляется
type Slot struct {
	ID         int64
	ProviderID int64
	SlotDate   time.Time
	TimeSlot   types.TimeString
	CreatedAt  time.Time
}

// AvailabilitySlot результат проверки доступности одного слота
type AvailabilitySlot struct {
	SlotDate  time.Time
	TimeSlot  types.TimeString
	Available bool
	Reason    *UnavailableReason
}

// SlotOccupancy снимок занятости одного дня: какие слоты закрыты блэкаутом,
// заняты активным бронированием или живым холдом.
// Заполняется репозиториями внутри одной транзакции
type SlotOccupancy struct {
	Blackouts map[types.TimeString]bool
	Booked    map[types.TimeString]bool
	Held      map[types.TimeString]bool
}

// BlockReason возвращает причину блокировки слота в порядке приоритета:
// blackout > booked > held. Cutoff оценивается отдельно, последним,
// чтобы слот рядом с отсечкой получал наиболее специфичную причину
func (o *SlotOccupancy) BlockReason(timeSlot types.TimeString) (UnavailableReason, bool) {
	if o.Blackouts[timeSlot] {
		return ReasonBlackout, true
	}
	if o.Booked[timeSlot] {
		return ReasonBooked, true
	}
	if o.Held[timeSlot] {
		return ReasonHeld, true
	}
	return "", false
}

// IsWithinCutoff возвращает true, если до начала слота осталось меньше
// минимального lead time
func IsWithinCutoff(slotDate time.Time, timeSlot types.TimeString, now time.Time) (bool, error) {
	startsAt, err := timeSlot.At(slotDate)
	if err != nil {
		return false, err
	}
	return startsAt.Sub(now) < LeadTimeCutoff, nil
}
