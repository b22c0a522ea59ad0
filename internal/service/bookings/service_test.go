package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	bookingRepository "github.com/pawmates/PSV-BookingService/internal/infra/storage/booking"
	"github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
	"github.com/pawmates/PSV-BookingService/internal/service/bookings/models"
	"github.com/pawmates/PSV-BookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	bookings []*domain.Booking
	history  []*domain.BookingStatusChange
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	for _, b := range r.bookings {
		if b.ID == id {
			copied := *b
			return &copied, nil
		}
	}
	return nil, bookingRepository.ErrBookingNotFound
}

func (r *fakeBookingRepo) ListByOwner(_ context.Context, ownerUserID int64) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.OwnerUserID == ownerUserID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) ListByProviders(_ context.Context, providerIDs []int64) ([]*domain.Booking, error) {
	ids := make(map[int64]bool, len(providerIDs))
	for _, id := range providerIDs {
		ids[id] = true
	}
	var result []*domain.Booking
	for _, b := range r.bookings {
		if ids[b.ProviderID] {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) GetHistory(_ context.Context, bookingID int64) ([]*domain.BookingStatusChange, error) {
	var result []*domain.BookingStatusChange
	for _, change := range r.history {
		if change.BookingID == bookingID {
			result = append(result, change)
		}
	}
	return result, nil
}

type fakeDirectory struct {
	providers map[int64]*providerdirectory.Provider
}

func (d *fakeDirectory) GetProvider(_ context.Context, providerID int64) (*providerdirectory.Provider, error) {
	provider, ok := d.providers[providerID]
	if !ok {
		return nil, providerdirectory.ErrProviderNotFound
	}
	return provider, nil
}

func (d *fakeDirectory) ListByOwner(_ context.Context, ownerUserID int64) ([]*providerdirectory.Provider, error) {
	var result []*providerdirectory.Provider
	for _, provider := range d.providers {
		if provider.OwnerUserID == ownerUserID {
			result = append(result, provider)
		}
	}
	return result, nil
}

const (
	// userID одновременно владелец бронирований и владелец провайдера 2
	userID     int64 = 10
	otherOwner int64 = 11
)

func day(d int) time.Time {
	return time.Date(2025, 10, d, 0, 0, 0, 0, time.UTC)
}

func booking(id, owner, provider int64, d int, slot types.TimeString) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		OwnerUserID: owner,
		ProviderID:  provider,
		PetName:     "Rex",
		BookingDate: day(d),
		TimeSlot:    slot,
		Status:      domain.StatusRequested,
	}
}

func newFixture() *Service {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		booking(1, userID, 1, 16, "14:00"),
		booking(2, otherOwner, 2, 15, "11:00"), // чужое бронирование листинга userID
		booking(3, userID, 2, 15, "09:00"),     // владелец и провайдер — один пользователь
		booking(4, otherOwner, 3, 15, "09:00"),
	}}
	directory := &fakeDirectory{providers: map[int64]*providerdirectory.Provider{
		1: {ID: 1, Name: "A", OwnerUserID: 21},
		2: {ID: 2, Name: "B", OwnerUserID: userID},
		3: {ID: 3, Name: "C", OwnerUserID: 23},
	}}
	return NewService(repo, directory, nopLogger{})
}

func TestGetByID_Access(t *testing.T) {
	svc := newFixture()

	// Владелец бронирования
	resp, err := svc.GetByID(context.Background(), 1, userID)
	require.NoError(t, err)
	assert.Equal(t, "requested", resp.Status)
	assert.Equal(t, "2025-10-16", resp.BookingDate)

	// Владелец провайдера
	resp, err = svc.GetByID(context.Background(), 2, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.ID)

	// Посторонний
	_, err = svc.GetByID(context.Background(), 4, userID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newFixture()

	_, err := svc.GetByID(context.Background(), 404, userID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func idsOf(resp *models.BookingListResponse) []int64 {
	ids := make([]int64, 0, len(resp.Bookings))
	for _, b := range resp.Bookings {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestListByUser_Roles(t *testing.T) {
	svc := newFixture()

	// owner: только собственные бронирования
	resp, err := svc.ListByUser(context.Background(), &models.ListUserBookingsRequest{
		UserID: userID, Role: models.RoleOwner,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, idsOf(resp))

	// provider: бронирования листингов пользователя
	resp, err = svc.ListByUser(context.Background(), &models.ListUserBookingsRequest{
		UserID: userID, Role: models.RoleProvider,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2}, idsOf(resp))
}

func TestListByUser_AllMergesWithoutDuplicates(t *testing.T) {
	svc := newFixture()

	// Бронирование 3 попадает в обе роли, но в объединении ровно один раз.
	// Сортировка: дата, затем слот
	resp, err := svc.ListByUser(context.Background(), &models.ListUserBookingsRequest{
		UserID: userID, Role: models.RoleAll,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, idsOf(resp))
}

func TestListByUser_EmptyRoleDefaultsToAll(t *testing.T) {
	svc := newFixture()

	resp, err := svc.ListByUser(context.Background(), &models.ListUserBookingsRequest{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, idsOf(resp))
}

func TestListByUser_InvalidRole(t *testing.T) {
	svc := newFixture()

	_, err := svc.ListByUser(context.Background(), &models.ListUserBookingsRequest{
		UserID: userID, Role: "admin",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetHistory(t *testing.T) {
	svc := newFixture()
	repo := svc.bookingRepo.(*fakeBookingRepo)
	repo.history = []*domain.BookingStatusChange{
		{ID: 1, BookingID: 1, ActorUserID: userID, FromStatus: domain.StatusNone, ToStatus: domain.StatusRequested},
		{ID: 2, BookingID: 1, ActorUserID: 21, FromStatus: domain.StatusRequested, ToStatus: domain.StatusProviderConfirmed},
	}

	resp, err := svc.GetHistory(context.Background(), 1, userID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.BookingID)
	require.Len(t, resp.History, 2)
	assert.Equal(t, "none", resp.History[0].FromStatus)
	assert.Equal(t, "requested", resp.History[0].ToStatus)
	assert.Equal(t, "provider_confirmed", resp.History[1].ToStatus)
}

func TestGetHistory_AccessDenied(t *testing.T) {
	svc := newFixture()

	_, err := svc.GetHistory(context.Background(), 4, userID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}
