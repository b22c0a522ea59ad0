package models

import (
	"github.com/pawmates/PSV-BookingService/internal/domain"
)

// Роли для фильтрации списка бронирований
const (
	RoleAll      = "all"
	RoleOwner    = "owner"
	RoleProvider = "provider"
)

// IsValidRole проверяет роль фильтрации
func IsValidRole(role string) bool {
	return role == RoleAll || role == RoleOwner || role == RoleProvider
}

// Request модели

// ListUserBookingsRequest запрос на получение бронирований пользователя
type ListUserBookingsRequest struct {
	UserID int64
	Role   string // all | owner | provider
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64  `json:"id"`
	OwnerUserID int64  `json:"ownerUserId"`
	ProviderID  int64  `json:"providerId"`
	PetName     string `json:"petName"`
	BookingDate string `json:"bookingDate"` // "2025-10-15"
	TimeSlot    string `json:"timeSlot"`    // "14:00"
	Note        string `json:"note,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// StatusChangeResponse одна запись истории статусов
type StatusChangeResponse struct {
	ID          int64  `json:"id"`
	BookingID   int64  `json:"bookingId"`
	ActorUserID int64  `json:"actorUserId"`
	FromStatus  string `json:"fromStatus"`
	ToStatus    string `json:"toStatus"`
	Note        string `json:"note,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// StatusHistoryResponse ответ с историей статусов бронирования
type StatusHistoryResponse struct {
	BookingID int64                  `json:"bookingId"`
	History   []StatusChangeResponse `json:"history"`
}

// FromDomainBooking конвертирует domain бронирование в response модель
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:          b.ID,
		OwnerUserID: b.OwnerUserID,
		ProviderID:  b.ProviderID,
		PetName:     b.PetName,
		BookingDate: b.BookingDate.Format(domain.DateFormat),
		TimeSlot:    b.TimeSlot.String(),
		Note:        b.Note,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   b.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// FromDomainBookingList конвертирует список domain бронирований
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		result.Bookings = append(result.Bookings, *FromDomainBooking(b))
	}
	return result
}

// FromDomainHistory конвертирует историю статусов в response модель
func FromDomainHistory(bookingID int64, changes []*domain.BookingStatusChange) *StatusHistoryResponse {
	result := &StatusHistoryResponse{
		BookingID: bookingID,
		History:   make([]StatusChangeResponse, 0, len(changes)),
	}
	for _, change := range changes {
		result.History = append(result.History, StatusChangeResponse{
			ID:          change.ID,
			BookingID:   change.BookingID,
			ActorUserID: change.ActorUserID,
			FromStatus:  string(change.FromStatus),
			ToStatus:    string(change.ToStatus),
			Note:        change.Note,
			CreatedAt:   change.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return result
}
