package create_quote_request

import "time"

// Request модель запроса на рассылку котировок
type Request struct {
	UserID          int64  // ID запрашивающего пользователя
	Category        string // Категория услуги
	Suburb          string // Район поиска
	PreferredWindow string // Желаемое временное окно
	PetDetails      string // Описание питомца
	Note            string // Заметка (опционально)
	MaxTargets      int    // Максимум целей; 0 — значение по умолчанию
}

// Target одна цель созданного запроса
type Target struct {
	ProviderID   int64
	ProviderName string
	OwnerUserID  int64
	Status       string
	CreatedAt    time.Time
}

// Response модель ответа с созданным запросом и его целями
type Response struct {
	ID              int64
	UserID          int64
	Category        string
	Suburb          string
	PreferredWindow string
	PetDetails      string
	Note            string
	Status          string
	CreatedAt       time.Time
	Targets         []Target
}
