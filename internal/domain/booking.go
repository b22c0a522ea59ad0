package domain

import (
	"time"

	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusRequested           BookingStatus = "requested"
	StatusProviderConfirmed   BookingStatus = "provider_confirmed"
	StatusProviderDeclined    BookingStatus = "provider_declined"
	StatusInProgress          BookingStatus = "in_progress"
	StatusCompleted           BookingStatus = "completed"
	StatusCancelledByOwner    BookingStatus = "cancelled_by_owner"
	StatusCancelledByProvider BookingStatus = "cancelled_by_provider"
	StatusRescheduleRequested BookingStatus = "reschedule_requested"
	StatusRescheduled         BookingStatus = "rescheduled"

	// StatusNone начальное псевдо-состояние для первой записи в истории статусов
	StatusNone BookingStatus = "none"
)

// AllStatuses все допустимые статусы бронирования
var AllStatuses = []BookingStatus{
	StatusRequested,
	StatusProviderConfirmed,
	StatusProviderDeclined,
	StatusInProgress,
	StatusCompleted,
	StatusCancelledByOwner,
	StatusCancelledByProvider,
	StatusRescheduleRequested,
	StatusRescheduled,
}

// TerminalStatuses статусы, из которых нет дальнейших переходов
var TerminalStatuses = []BookingStatus{
	StatusProviderDeclined,
	StatusCompleted,
	StatusCancelledByOwner,
	StatusCancelledByProvider,
}

// ActiveStatuses статусы, при которых бронирование занимает слот
var ActiveStatuses = []BookingStatus{
	StatusRequested,
	StatusProviderConfirmed,
	StatusInProgress,
	StatusRescheduleRequested,
	StatusRescheduled,
}

// AllowedTransitions таблица допустимых переходов статусов.
// Любой переход, отсутствующий в таблице для текущего статуса, отклоняется
var AllowedTransitions = map[BookingStatus][]BookingStatus{
	StatusRequested:           {StatusProviderConfirmed, StatusProviderDeclined, StatusCancelledByOwner},
	StatusProviderConfirmed:   {StatusInProgress, StatusCancelledByOwner, StatusCancelledByProvider, StatusRescheduleRequested},
	StatusInProgress:          {StatusCompleted, StatusCancelledByProvider},
	StatusRescheduleRequested: {StatusRescheduled, StatusCancelledByOwner, StatusCancelledByProvider},
	StatusRescheduled:         {StatusProviderConfirmed, StatusCancelledByOwner, StatusCancelledByProvider},
}

// IsValid returns true if the status is a known booking status
func (s BookingStatus) IsValid() bool {
	for _, status := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are allowed from the status
func (s BookingStatus) IsTerminal() bool {
	for _, status := range TerminalStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsActive returns true if a booking in this status still occupies its slot
func (s BookingStatus) IsActive() bool {
	for _, status := range ActiveStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CanTransition returns true if the transition from -> to is in the table
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range AllowedTransitions[from] {
		if to == allowed {
			return true
		}
	}
	return false
}

// RequiresProviderActor возвращает true, если статус может применить
// только владелец провайдера
func (s BookingStatus) RequiresProviderActor() bool {
	switch s {
	case StatusProviderConfirmed, StatusProviderDeclined, StatusInProgress,
		StatusCompleted, StatusCancelledByProvider, StatusRescheduled:
		return true
	default:
		return false
	}
}

// RequiresOwnerActor возвращает true, если статус может применить
// только владелец бронирования
func (s BookingStatus) RequiresOwnerActor() bool {
	switch s {
	case StatusCancelledByOwner, StatusRescheduleRequested:
		return true
	default:
		return false
	}
}

// Booking represents a reservation of a provider slot by a pet owner
type Booking struct {
	ID          int64
	OwnerUserID int64
	ProviderID  int64
	PetName     string
	BookingDate time.Time
	TimeSlot    types.TimeString
	Note        string
	Status      BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// IsTerminal returns true if the booking reached a terminal status
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// BookingStatusChange одна запись append-only истории статусов.
// История никогда не изменяется и не удаляется
type BookingStatusChange struct {
	ID          int64
	BookingID   int64
	ActorUserID int64
	FromStatus  BookingStatus
	ToStatus    BookingStatus
	Note        string
	CreatedAt   time.Time
}
