package create_hold

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

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSlotRepo struct {
	missing bool
}

func (r *fakeSlotRepo) EnsureRange(_ context.Context, _ int64, _ time.Time, _ int) error {
	return nil
}

func (r *fakeSlotRepo) Exists(_ context.Context, _ int64, _ time.Time, _ types.TimeString) (bool, error) {
	return !r.missing, nil
}

type fakeHoldRepo struct {
	purged  int
	held    []types.TimeString
	created *domain.Hold
}

func (r *fakeHoldRepo) DeleteExpired(_ context.Context, _ time.Time) error {
	r.purged++
	return nil
}

func (r *fakeHoldRepo) HeldTimes(_ context.Context, _ int64, _ time.Time) ([]types.TimeString, error) {
	return r.held, nil
}

func (r *fakeHoldRepo) Create(_ context.Context, hold *domain.Hold) (*domain.Hold, error) {
	hold.ID = 77
	hold.CreatedAt = time.Now().UTC()
	r.created = hold
	return hold, nil
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

var (
	testDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	testNow  = testDate.Add(8 * time.Hour) // 08:00, слот 11:00 вне отсечки
)

func newTestUseCase(slotRepo *fakeSlotRepo, holdRepo *fakeHoldRepo, bookingRepo *fakeBookingRepo, blackoutRepo *fakeBlackoutRepo, directory *fakeDirectory) *UseCase {
	uc := NewUseCase(slotRepo, holdRepo, bookingRepo, blackoutRepo, directory, passthroughTxManager{}, 0, nopLogger{})
	uc.timeProvider = fixedTime{now: testNow}
	return uc
}

func validRequest() *Request {
	return &Request{
		RequesterUserID: 10,
		ProviderID:      1,
		Date:            testDate,
		TimeSlot:        "11:00",
	}
}

func TestExecute_Success_DefaultTTL(t *testing.T) {
	holdRepo := &fakeHoldRepo{}
	uc := newTestUseCase(&fakeSlotRepo{}, holdRepo, &fakeBookingRepo{}, &fakeBlackoutRepo{},
		&fakeDirectory{provider: &providerdirectory.Provider{ID: 1}})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(77), resp.ID)
	assert.Equal(t, testNow.Add(time.Duration(domain.DefaultHoldTTLMinutes)*time.Minute), resp.ExpiresAt)
	assert.Equal(t, 1, holdRepo.purged, "expired holds must be purged first")
	require.NotNil(t, holdRepo.created)
	assert.Equal(t, int64(10), holdRepo.created.RequesterUserID)
}

func TestExecute_Success_ExplicitTTL(t *testing.T) {
	holdRepo := &fakeHoldRepo{}
	uc := newTestUseCase(&fakeSlotRepo{}, holdRepo, &fakeBookingRepo{}, &fakeBlackoutRepo{},
		&fakeDirectory{provider: &providerdirectory.Provider{ID: 1}})

	req := validRequest()
	req.TTLMinutes = 30

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(30*time.Minute), resp.ExpiresAt)
}

func TestExecute_CutoffRejected(t *testing.T) {
	uc := newTestUseCase(&fakeSlotRepo{}, &fakeHoldRepo{}, &fakeBookingRepo{}, &fakeBlackoutRepo{},
		&fakeDirectory{provider: &providerdirectory.Provider{ID: 1}})

	req := validRequest()
	req.TimeSlot = "09:00" // через час от 08:00 — внутри двухчасовой отсечки

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBookingCutoff)
}

func TestExecute_BlockedSlotRejected(t *testing.T) {
	tests := []struct {
		name         string
		holdRepo     *fakeHoldRepo
		bookingRepo  *fakeBookingRepo
		blackoutRepo *fakeBlackoutRepo
	}{
		{
			name:         "blackout",
			holdRepo:     &fakeHoldRepo{},
			bookingRepo:  &fakeBookingRepo{},
			blackoutRepo: &fakeBlackoutRepo{blackouts: []types.TimeString{"11:00"}},
		},
		{
			name:         "active booking",
			holdRepo:     &fakeHoldRepo{},
			bookingRepo:  &fakeBookingRepo{booked: []types.TimeString{"11:00"}},
			blackoutRepo: &fakeBlackoutRepo{},
		},
		{
			name:         "live hold, including the requester's own",
			holdRepo:     &fakeHoldRepo{held: []types.TimeString{"11:00"}},
			bookingRepo:  &fakeBookingRepo{},
			blackoutRepo: &fakeBlackoutRepo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(&fakeSlotRepo{}, tt.holdRepo, tt.bookingRepo, tt.blackoutRepo,
				&fakeDirectory{provider: &providerdirectory.Provider{ID: 1}})

			_, err := uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, ErrSlotBlocked)
			assert.Nil(t, tt.holdRepo.created)
		})
	}
}

func TestExecute_SlotNotInCalendar(t *testing.T) {
	uc := newTestUseCase(&fakeSlotRepo{missing: true}, &fakeHoldRepo{}, &fakeBookingRepo{}, &fakeBlackoutRepo{},
		&fakeDirectory{provider: &providerdirectory.Provider{ID: 1}})

	req := validRequest()
	req.TimeSlot = "12:30"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_ProviderNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeSlotRepo{}, &fakeHoldRepo{}, &fakeBookingRepo{}, &fakeBlackoutRepo{},
		&fakeDirectory{err: providerdirectory.ErrProviderNotFound})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeSlotRepo{}, &fakeHoldRepo{}, &fakeBookingRepo{}, &fakeBlackoutRepo{},
		&fakeDirectory{provider: &providerdirectory.Provider{ID: 1}})

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero requester", func(r *Request) { r.RequesterUserID = 0 }},
		{"zero provider", func(r *Request) { r.ProviderID = 0 }},
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
		{"empty time slot", func(r *Request) { r.TimeSlot = "" }},
		{"malformed time slot", func(r *Request) { r.TimeSlot = "9am" }},
		{"negative ttl", func(r *Request) { r.TTLMinutes = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
