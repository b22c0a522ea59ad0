package models

import (
	"time"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// Request модели

// CreateBlackoutRequest запрос на создание блэкаута
type CreateBlackoutRequest struct {
	ProviderID  int64
	ActorUserID int64
	Date        time.Time
	TimeSlot    types.TimeString
	Reason      string
}

// Response модели

// BlackoutResponse ответ с данными блэкаута
type BlackoutResponse struct {
	ID         int64  `json:"id"`
	ProviderID int64  `json:"providerId"`
	Date       string `json:"date"`     // "2025-10-15"
	TimeSlot   string `json:"timeSlot"` // "14:00"
	Reason     string `json:"reason,omitempty"`
	CreatedBy  int64  `json:"createdBy"`
	CreatedAt  string `json:"createdAt"`
}

// BlackoutListResponse ответ со списком блэкаутов провайдера
type BlackoutListResponse struct {
	ProviderID int64              `json:"providerId"`
	Blackouts  []BlackoutResponse `json:"blackouts"`
}

// FromDomainBlackout конвертирует domain блэкаут в response модель
func FromDomainBlackout(b *domain.Blackout) *BlackoutResponse {
	return &BlackoutResponse{
		ID:         b.ID,
		ProviderID: b.ProviderID,
		Date:       b.SlotDate.Format(domain.DateFormat),
		TimeSlot:   b.TimeSlot.String(),
		Reason:     b.Reason,
		CreatedBy:  b.CreatedBy,
		CreatedAt:  b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// FromDomainBlackoutList конвертирует список domain блэкаутов
func FromDomainBlackoutList(providerID int64, blackouts []*domain.Blackout) *BlackoutListResponse {
	result := &BlackoutListResponse{
		ProviderID: providerID,
		Blackouts:  make([]BlackoutResponse, 0, len(blackouts)),
	}
	for _, b := range blackouts {
		result.Blackouts = append(result.Blackouts, *FromDomainBlackout(b))
	}
	return result
}
