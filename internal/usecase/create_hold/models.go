package create_hold

import (
	"time"

	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// Request модель запроса на создание холда
type Request struct {
	RequesterUserID int64            // ID запрашивающего пользователя
	ProviderID      int64            // ID провайдера
	Date            time.Time        // Дата слота (без времени)
	TimeSlot        types.TimeString // Время начала слота
	TTLMinutes      int              // Время жизни холда; 0 — значение по умолчанию
}

// Response модель ответа с созданным холдом
type Response struct {
	ID              int64
	ProviderID      int64
	RequesterUserID int64
	Date            time.Time
	TimeSlot        types.TimeString
	ExpiresAt       time.Time
	CreatedAt       time.Time
}
