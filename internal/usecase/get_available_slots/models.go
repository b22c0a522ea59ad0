package get_available_slots

import (
	"time"

	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// Request модель запроса доступности слотов на день
type Request struct {
	ProviderID int64     // ID провайдера
	Date       time.Time // Дата (без времени)
}

// Slot доступность одного слота с причиной блокировки
type Slot struct {
	TimeSlot  types.TimeString // Время начала слота
	Available bool             // Свободен ли слот
	Reason    *string          // blackout | booked | held | cutoff, nil если свободен
}

// Response модель ответа со слотами дня
type Response struct {
	ProviderID int64
	Date       time.Time
	Slots      []Slot
}
