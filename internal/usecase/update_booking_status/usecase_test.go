package update_booking_status

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	bookingRepository "github.com/pawmates/PSV-BookingService/internal/infra/storage/booking"
	"github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
	"github.com/pawmates/PSV-BookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeBookingRepo struct {
	booking *domain.Booking
	history []*domain.BookingStatusChange
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if r.booking == nil || r.booking.ID != id {
		return nil, bookingRepository.ErrBookingNotFound
	}
	copied := *r.booking
	return &copied, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus, note *string) error {
	if r.booking == nil || r.booking.ID != id {
		return bookingRepository.ErrBookingNotFound
	}
	r.booking.Status = status
	if note != nil {
		r.booking.Note = *note
	}
	return nil
}

func (r *fakeBookingRepo) AppendHistory(_ context.Context, change *domain.BookingStatusChange) error {
	r.history = append(r.history, change)
	return nil
}

type fakeDirectory struct {
	provider *providerdirectory.Provider
	err      error
}

func (d *fakeDirectory) GetProvider(_ context.Context, _ int64) (*providerdirectory.Provider, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.provider, nil
}

const (
	bookingOwnerID  int64 = 10
	providerOwnerID int64 = 50
	strangerID      int64 = 77
)

func testBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          1,
		OwnerUserID: bookingOwnerID,
		ProviderID:  3,
		PetName:     "Rex",
		BookingDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "11:00",
		Status:      status,
	}
}

func newTestUseCase(repo *fakeBookingRepo) *UseCase {
	directory := &fakeDirectory{provider: &providerdirectory.Provider{
		ID: 3, Name: "Happy Paws", OwnerUserID: providerOwnerID,
	}}
	return NewUseCase(repo, directory, passthroughTxManager{}, nopLogger{})
}

func TestExecute_AllowedTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  domain.BookingStatus
		to    domain.BookingStatus
		actor int64
	}{
		{"provider confirms", domain.StatusRequested, domain.StatusProviderConfirmed, providerOwnerID},
		{"provider declines", domain.StatusRequested, domain.StatusProviderDeclined, providerOwnerID},
		{"owner cancels requested", domain.StatusRequested, domain.StatusCancelledByOwner, bookingOwnerID},
		{"provider starts work", domain.StatusProviderConfirmed, domain.StatusInProgress, providerOwnerID},
		{"owner requests reschedule", domain.StatusProviderConfirmed, domain.StatusRescheduleRequested, bookingOwnerID},
		{"provider completes", domain.StatusInProgress, domain.StatusCompleted, providerOwnerID},
		{"provider finalizes reschedule", domain.StatusRescheduleRequested, domain.StatusRescheduled, providerOwnerID},
		{"provider re-confirms after reschedule", domain.StatusRescheduled, domain.StatusProviderConfirmed, providerOwnerID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeBookingRepo{booking: testBooking(tt.from)}
			uc := newTestUseCase(repo)

			resp, err := uc.Execute(context.Background(), &Request{
				BookingID:   1,
				ActorUserID: tt.actor,
				NextStatus:  string(tt.to),
			})
			require.NoError(t, err)
			assert.Equal(t, string(tt.to), resp.Status)
			assert.Equal(t, tt.to, repo.booking.Status)

			require.Len(t, repo.history, 1)
			assert.Equal(t, tt.from, repo.history[0].FromStatus)
			assert.Equal(t, tt.to, repo.history[0].ToStatus)
			assert.Equal(t, tt.actor, repo.history[0].ActorUserID)
		})
	}
}

func TestExecute_TransitionOutsideTableRejected(t *testing.T) {
	tests := []struct {
		name string
		from domain.BookingStatus
		to   domain.BookingStatus
	}{
		{"confirm is not repeatable", domain.StatusProviderConfirmed, domain.StatusProviderConfirmed},
		{"requested cannot complete", domain.StatusRequested, domain.StatusCompleted},
		{"in_progress cannot be cancelled by owner", domain.StatusInProgress, domain.StatusCancelledByOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeBookingRepo{booking: testBooking(tt.from)}
			uc := newTestUseCase(repo)

			_, err := uc.Execute(context.Background(), &Request{
				BookingID:   1,
				ActorUserID: providerOwnerID,
				NextStatus:  string(tt.to),
			})
			assert.ErrorIs(t, err, ErrInvalidTransition)
			// Статус и история не тронуты
			assert.Equal(t, tt.from, repo.booking.Status)
			assert.Empty(t, repo.history)
		})
	}
}

func TestExecute_TerminalStatusRejected(t *testing.T) {
	terminal := []domain.BookingStatus{
		domain.StatusProviderDeclined,
		domain.StatusCompleted,
		domain.StatusCancelledByOwner,
		domain.StatusCancelledByProvider,
	}

	for _, status := range terminal {
		t.Run(string(status), func(t *testing.T) {
			repo := &fakeBookingRepo{booking: testBooking(status)}
			uc := newTestUseCase(repo)

			_, err := uc.Execute(context.Background(), &Request{
				BookingID:   1,
				ActorUserID: providerOwnerID,
				NextStatus:  string(domain.StatusProviderConfirmed),
			})
			assert.ErrorIs(t, err, ErrBookingTerminal)
		})
	}
}

func TestExecute_ActorPermissions(t *testing.T) {
	tests := []struct {
		name  string
		from  domain.BookingStatus
		to    domain.BookingStatus
		actor int64
	}{
		{"owner cannot confirm", domain.StatusRequested, domain.StatusProviderConfirmed, bookingOwnerID},
		{"provider cannot cancel as owner", domain.StatusRequested, domain.StatusCancelledByOwner, providerOwnerID},
		{"stranger cannot decline", domain.StatusRequested, domain.StatusProviderDeclined, strangerID},
		{"owner cannot finalize reschedule", domain.StatusRescheduleRequested, domain.StatusRescheduled, bookingOwnerID},
		{"provider cannot request reschedule", domain.StatusProviderConfirmed, domain.StatusRescheduleRequested, providerOwnerID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeBookingRepo{booking: testBooking(tt.from)}
			uc := newTestUseCase(repo)

			_, err := uc.Execute(context.Background(), &Request{
				BookingID:   1,
				ActorUserID: tt.actor,
				NextStatus:  string(tt.to),
			})
			assert.ErrorIs(t, err, ErrPermissionDenied)
			assert.Equal(t, tt.from, repo.booking.Status)
			assert.Empty(t, repo.history)
		})
	}
}

func TestExecute_CounterpartyResolution(t *testing.T) {
	// Переход владельца видит провайдер
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusRequested)}
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:   1,
		ActorUserID: bookingOwnerID,
		NextStatus:  string(domain.StatusCancelledByOwner),
	})
	require.NoError(t, err)
	assert.Equal(t, providerOwnerID, resp.CounterpartyUserID)

	// Переход провайдера видит владелец
	repo = &fakeBookingRepo{booking: testBooking(domain.StatusRequested)}
	uc = newTestUseCase(repo)

	resp, err = uc.Execute(context.Background(), &Request{
		BookingID:   1,
		ActorUserID: providerOwnerID,
		NextStatus:  string(domain.StatusProviderConfirmed),
	})
	require.NoError(t, err)
	assert.Equal(t, bookingOwnerID, resp.CounterpartyUserID)
}

func TestExecute_NoteReplacement(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusRequested)}
	repo.booking.Note = "original note"
	uc := newTestUseCase(repo)

	note := "running 10 minutes late"
	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:   1,
		ActorUserID: providerOwnerID,
		NextStatus:  string(domain.StatusProviderConfirmed),
		Note:        ptr.Ptr(note),
	})
	require.NoError(t, err)
	assert.Equal(t, note, resp.Note)
	assert.Equal(t, note, repo.booking.Note)

	require.Len(t, repo.history, 1)
	assert.Equal(t, note, repo.history[0].Note)
}

func TestExecute_BookingNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:   404,
		ActorUserID: providerOwnerID,
		NextStatus:  string(domain.StatusProviderConfirmed),
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{booking: testBooking(domain.StatusRequested)})

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:   1,
		ActorUserID: providerOwnerID,
		NextStatus:  "paused",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// none псевдо-статус истории и как целевой не принимается
	_, err = uc.Execute(context.Background(), &Request{
		BookingID:   1,
		ActorUserID: providerOwnerID,
		NextStatus:  string(domain.StatusNone),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
