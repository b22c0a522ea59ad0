package update_booking_status

import (
	"time"

	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// Request модель запроса на смену статуса бронирования
type Request struct {
	BookingID   int64   // ID бронирования
	ActorUserID int64   // ID актора, применяющего переход
	NextStatus  string  // Целевой статус
	Note        *string // Новая заметка; nil оставляет прежнюю
}

// Response модель ответа с обновленным бронированием
type Response struct {
	ID          int64
	OwnerUserID int64
	ProviderID  int64
	PetName     string
	Date        time.Time
	TimeSlot    types.TimeString
	Note        string
	Status      string
	UpdatedAt   time.Time

	// Данные для уведомления контрагента; доставка происходит вне usecase,
	// после коммита транзакции
	CounterpartyUserID int64
	ProviderName       string
}
