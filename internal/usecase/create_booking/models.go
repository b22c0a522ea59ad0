package create_booking

import (
	"time"

	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	RequesterUserID int64            // ID владельца питомца
	ProviderID      int64            // ID провайдера
	Date            time.Time        // Дата слота (без времени)
	TimeSlot        types.TimeString // Время начала слота
	PetName         string           // Имя питомца
	Note            string           // Заметка для провайдера (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64
	OwnerUserID int64
	ProviderID  int64
	PetName     string
	Date        time.Time
	TimeSlot    types.TimeString
	Note        string
	Status      string
	CreatedAt   time.Time

	// Данные для уведомления владельца провайдера; доставка происходит
	// вне usecase, после коммита транзакции
	ProviderName        string
	ProviderOwnerUserID int64
}
