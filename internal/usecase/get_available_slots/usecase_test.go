package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
	"github.com/pawmates/PSV-BookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSlotRepo struct {
	ensured     int
	ensuredDays int
	slots       []*domain.Slot
}

func (r *fakeSlotRepo) EnsureRange(_ context.Context, _ int64, _ time.Time, days int) error {
	r.ensured++
	r.ensuredDays = days
	return nil
}

func (r *fakeSlotRepo) GetByProviderAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Slot, error) {
	return r.slots, nil
}

type fakeHoldRepo struct {
	purged int
	held   []types.TimeString
}

func (r *fakeHoldRepo) DeleteExpired(_ context.Context, _ time.Time) error {
	r.purged++
	return nil
}

func (r *fakeHoldRepo) HeldTimes(_ context.Context, _ int64, _ time.Time) ([]types.TimeString, error) {
	return r.held, nil
}

type fakeBookingRepo struct {
	booked []types.TimeString
}

func (r *fakeBookingRepo) ActiveTimes(_ context.Context, _ int64, _ time.Time) ([]types.TimeString, error) {
	return r.booked, nil
}

type fakeBlackoutRepo struct {
	blackouts []types.TimeString
}

func (r *fakeBlackoutRepo) BlackoutTimes(_ context.Context, _ int64, _ time.Time) ([]types.TimeString, error) {
	return r.blackouts, nil
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

func daySlots(date time.Time) []*domain.Slot {
	slots := make([]*domain.Slot, 0, len(domain.DailySlotTimes))
	for i, raw := range domain.DailySlotTimes {
		slots = append(slots, &domain.Slot{
			ID:       int64(i + 1),
			SlotDate: date,
			TimeSlot: types.TimeString(raw),
		})
	}
	return slots
}

func newTestUseCase(slotRepo *fakeSlotRepo, holdRepo *fakeHoldRepo, bookingRepo *fakeBookingRepo, blackoutRepo *fakeBlackoutRepo, directory *fakeDirectory, now time.Time) *UseCase {
	uc := NewUseCase(slotRepo, holdRepo, bookingRepo, blackoutRepo, directory, passthroughTxManager{}, 0, nopLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func reasonOf(t *testing.T, slot Slot) string {
	t.Helper()
	require.NotNil(t, slot.Reason)
	return *slot.Reason
}

func TestExecute_AllSlotsAvailable(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	now := date.Add(-24 * time.Hour)

	slotRepo := &fakeSlotRepo{slots: daySlots(date)}
	holdRepo := &fakeHoldRepo{}
	uc := newTestUseCase(slotRepo, holdRepo, &fakeBookingRepo{}, &fakeBlackoutRepo{},
		&fakeDirectory{provider: &providerdirectory.Provider{ID: 1}}, now)

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 1, Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 5)

	for _, slot := range resp.Slots {
		assert.True(t, slot.Available, "slot %s", slot.TimeSlot)
		assert.Nil(t, slot.Reason, "slot %s", slot.TimeSlot)
	}
	assert.Equal(t, 1, slotRepo.ensured)
	// Нулевая настройка окна означает окно по умолчанию
	assert.Equal(t, domain.DefaultAvailabilityWindowDays, slotRepo.ensuredDays)
	assert.Equal(t, 1, holdRepo.purged, "expired holds must be purged before evaluation")
}

func TestExecute_ConfiguredWindowWidth(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	slotRepo := &fakeSlotRepo{slots: daySlots(date)}

	uc := NewUseCase(slotRepo, &fakeHoldRepo{}, &fakeBookingRepo{}, &fakeBlackoutRepo{},
		&fakeDirectory{provider: &providerdirectory.Provider{ID: 1}}, passthroughTxManager{}, 30, nopLogger{})
	uc.timeProvider = fixedTime{now: date.Add(-24 * time.Hour)}

	_, err := uc.Execute(context.Background(), &Request{ProviderID: 1, Date: date})
	require.NoError(t, err)
	assert.Equal(t, 30, slotRepo.ensuredDays)
}

func TestExecute_ReasonPriority(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	now := date.Add(10 * time.Hour) // 10:00 того же дня

	uc := newTestUseCase(
		&fakeSlotRepo{slots: daySlots(date)},
		&fakeHoldRepo{held: []types.TimeString{"14:00", "16:00"}},
		&fakeBookingRepo{booked: []types.TimeString{"11:00", "16:00"}},
		&fakeBlackoutRepo{blackouts: []types.TimeString{"09:00", "16:00"}},
		&fakeDirectory{provider: &providerdirectory.Provider{ID: 1}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 1, Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 5)

	byTime := make(map[types.TimeString]Slot, len(resp.Slots))
	for _, slot := range resp.Slots {
		byTime[slot.TimeSlot] = slot
	}

	// 09:00 уже в прошлом, но блэкаут специфичнее отсечки
	assert.Equal(t, "blackout", reasonOf(t, byTime["09:00"]))
	// 11:00 внутри отсечки и занят: booked специфичнее cutoff
	assert.Equal(t, "booked", reasonOf(t, byTime["11:00"]))
	assert.Equal(t, "held", reasonOf(t, byTime["14:00"]))
	// 16:00 под всеми тремя блокировками разом: побеждает блэкаут
	assert.Equal(t, "blackout", reasonOf(t, byTime["16:00"]))
	// 18:00 свободен и дальше двух часов от now
	assert.True(t, byTime["18:00"].Available)
}

func TestExecute_CutoffIsEvaluatedLast(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	now := date.Add(13 * time.Hour) // 13:00: слот 14:00 ближе двух часов

	uc := newTestUseCase(
		&fakeSlotRepo{slots: daySlots(date)},
		&fakeHoldRepo{},
		&fakeBookingRepo{},
		&fakeBlackoutRepo{},
		&fakeDirectory{provider: &providerdirectory.Provider{ID: 1}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 1, Date: date})
	require.NoError(t, err)

	byTime := make(map[types.TimeString]Slot, len(resp.Slots))
	for _, slot := range resp.Slots {
		byTime[slot.TimeSlot] = slot
	}

	assert.Equal(t, "cutoff", reasonOf(t, byTime["09:00"]))
	assert.Equal(t, "cutoff", reasonOf(t, byTime["11:00"]))
	assert.Equal(t, "cutoff", reasonOf(t, byTime["14:00"]))
	assert.True(t, byTime["16:00"].Available)
	assert.True(t, byTime["18:00"].Available)
}

func TestExecute_ProviderNotFound(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeSlotRepo{}, &fakeHoldRepo{}, &fakeBookingRepo{}, &fakeBlackoutRepo{},
		&fakeDirectory{err: providerdirectory.ErrProviderNotFound},
		date,
	)

	_, err := uc.Execute(context.Background(), &Request{ProviderID: 404, Date: date})
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(
		&fakeSlotRepo{}, &fakeHoldRepo{}, &fakeBookingRepo{}, &fakeBlackoutRepo{},
		&fakeDirectory{provider: &providerdirectory.Provider{ID: 1}},
		time.Now(),
	)

	_, err := uc.Execute(context.Background(), &Request{ProviderID: 0, Date: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ProviderID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
