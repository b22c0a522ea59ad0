package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition_AllowedPairs(t *testing.T) {
	tests := []struct {
		name string
		from BookingStatus
		to   BookingStatus
	}{
		{"requested -> provider_confirmed", StatusRequested, StatusProviderConfirmed},
		{"requested -> provider_declined", StatusRequested, StatusProviderDeclined},
		{"requested -> cancelled_by_owner", StatusRequested, StatusCancelledByOwner},
		{"provider_confirmed -> in_progress", StatusProviderConfirmed, StatusInProgress},
		{"provider_confirmed -> cancelled_by_owner", StatusProviderConfirmed, StatusCancelledByOwner},
		{"provider_confirmed -> cancelled_by_provider", StatusProviderConfirmed, StatusCancelledByProvider},
		{"provider_confirmed -> reschedule_requested", StatusProviderConfirmed, StatusRescheduleRequested},
		{"in_progress -> completed", StatusInProgress, StatusCompleted},
		{"in_progress -> cancelled_by_provider", StatusInProgress, StatusCancelledByProvider},
		{"reschedule_requested -> rescheduled", StatusRescheduleRequested, StatusRescheduled},
		{"reschedule_requested -> cancelled_by_owner", StatusRescheduleRequested, StatusCancelledByOwner},
		{"reschedule_requested -> cancelled_by_provider", StatusRescheduleRequested, StatusCancelledByProvider},
		{"rescheduled -> provider_confirmed", StatusRescheduled, StatusProviderConfirmed},
		{"rescheduled -> cancelled_by_owner", StatusRescheduled, StatusCancelledByOwner},
		{"rescheduled -> cancelled_by_provider", StatusRescheduled, StatusCancelledByProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransition_RejectedPairs(t *testing.T) {
	tests := []struct {
		name string
		from BookingStatus
		to   BookingStatus
	}{
		{"self transition from confirmed", StatusProviderConfirmed, StatusProviderConfirmed},
		{"requested -> completed skips confirmation", StatusRequested, StatusCompleted},
		{"requested -> in_progress skips confirmation", StatusRequested, StatusInProgress},
		{"confirmed -> provider_declined", StatusProviderConfirmed, StatusProviderDeclined},
		{"in_progress -> cancelled_by_owner", StatusInProgress, StatusCancelledByOwner},
		{"rescheduled -> in_progress", StatusRescheduled, StatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransition_TerminalStatusesHaveNoExits(t *testing.T) {
	for _, from := range TerminalStatuses {
		for _, to := range AllStatuses {
			assert.False(t, CanTransition(from, to), "%s -> %s must be rejected", from, to)
		}
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusProviderDeclined.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelledByOwner.IsTerminal())
	assert.True(t, StatusCancelledByProvider.IsTerminal())

	assert.False(t, StatusRequested.IsTerminal())
	assert.False(t, StatusProviderConfirmed.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
	assert.False(t, StatusRescheduleRequested.IsTerminal())
	assert.False(t, StatusRescheduled.IsTerminal())
}

func TestBookingStatus_ActiveStatusesOccupySlot(t *testing.T) {
	// Активность и терминальность разбивают статусы без пересечений
	for _, status := range AllStatuses {
		assert.NotEqual(t, status.IsActive(), status.IsTerminal(), "status %s", status)
	}
}

func TestBookingStatus_ActorClasses(t *testing.T) {
	providerOnly := []BookingStatus{
		StatusProviderConfirmed,
		StatusProviderDeclined,
		StatusInProgress,
		StatusCompleted,
		StatusCancelledByProvider,
		StatusRescheduled,
	}
	ownerOnly := []BookingStatus{
		StatusCancelledByOwner,
		StatusRescheduleRequested,
	}

	for _, status := range providerOnly {
		assert.True(t, status.RequiresProviderActor(), "status %s", status)
		assert.False(t, status.RequiresOwnerActor(), "status %s", status)
	}
	for _, status := range ownerOnly {
		assert.True(t, status.RequiresOwnerActor(), "status %s", status)
		assert.False(t, status.RequiresProviderActor(), "status %s", status)
	}
}

func TestBookingStatus_IsValid(t *testing.T) {
	for _, status := range AllStatuses {
		require.True(t, status.IsValid(), "status %s", status)
	}

	assert.False(t, BookingStatus("unknown").IsValid())
	// none псевдо-статус истории, а не статус бронирования
	assert.False(t, StatusNone.IsValid())
}
