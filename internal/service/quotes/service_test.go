package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	quoteRepository "github.com/pawmates/PSV-BookingService/internal/infra/storage/quotes"
	"github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
	"github.com/pawmates/PSV-BookingService/internal/service/quotes/models"
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

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeQuoteRepo stateful in-memory хранилище: ответы и флаги напоминаний
// видны последующим вызовам, как в настоящем репозитории
type fakeQuoteRepo struct {
	request *domain.QuoteRequest
	targets []*domain.QuoteTarget
}

func (r *fakeQuoteRepo) GetRequest(_ context.Context, id int64) (*domain.QuoteRequest, error) {
	if r.request == nil || r.request.ID != id {
		return nil, quoteRepository.ErrRequestNotFound
	}
	copied := *r.request
	return &copied, nil
}

func (r *fakeQuoteRepo) ListTargets(_ context.Context, quoteRequestID int64) ([]*domain.QuoteTarget, error) {
	result := make([]*domain.QuoteTarget, 0, len(r.targets))
	for _, target := range r.targets {
		if target.QuoteRequestID == quoteRequestID {
			copied := *target
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeQuoteRepo) GetTarget(_ context.Context, quoteRequestID, providerID int64) (*domain.QuoteTarget, error) {
	for _, target := range r.targets {
		if target.QuoteRequestID == quoteRequestID && target.ProviderID == providerID {
			copied := *target
			return &copied, nil
		}
	}
	return nil, quoteRepository.ErrTargetNotFound
}

func (r *fakeQuoteRepo) SetTargetResponse(_ context.Context, quoteRequestID, providerID int64, status domain.QuoteTargetStatus, message string, respondedAt time.Time) error {
	for _, target := range r.targets {
		if target.QuoteRequestID == quoteRequestID && target.ProviderID == providerID {
			target.Status = status
			target.ResponseMessage = message
			at := respondedAt
			target.RespondedAt = &at
			return nil
		}
	}
	return quoteRepository.ErrTargetNotFound
}

func (r *fakeQuoteRepo) UpdateRequestStatus(_ context.Context, id int64, status domain.QuoteRequestStatus) error {
	if r.request == nil || r.request.ID != id {
		return quoteRepository.ErrRequestNotFound
	}
	r.request.Status = status
	return nil
}

func (r *fakeQuoteRepo) ListPendingTargets(_ context.Context) ([]*domain.QuoteTarget, error) {
	result := make([]*domain.QuoteTarget, 0, len(r.targets))
	for _, target := range r.targets {
		if target.Status == domain.QuoteTargetPending && target.RespondedAt == nil {
			copied := *target
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeQuoteRepo) MarkReminderSent(_ context.Context, quoteRequestID, providerID int64, tier domain.ReminderTier) error {
	for _, target := range r.targets {
		if target.QuoteRequestID == quoteRequestID && target.ProviderID == providerID {
			if tier == domain.ReminderTier60 {
				// Часовая ступень гасит и 15-минутную
				target.Reminder60Sent = true
				target.Reminder15Sent = true
			} else {
				target.Reminder15Sent = true
			}
			return nil
		}
	}
	return quoteRepository.ErrTargetNotFound
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

const requesterID int64 = 10

var baseTime = time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

func newFixture(now time.Time) (*Service, *fakeQuoteRepo) {
	repo := &fakeQuoteRepo{
		request: &domain.QuoteRequest{
			ID:       100,
			UserID:   requesterID,
			Category: domain.CategoryGrooming,
			Suburb:   "Newtown",
			Status:   domain.QuoteRequestPending,
		},
		targets: []*domain.QuoteTarget{
			{ID: 1, QuoteRequestID: 100, ProviderID: 1, OwnerUserID: 21, Status: domain.QuoteTargetPending, CreatedAt: baseTime},
			{ID: 2, QuoteRequestID: 100, ProviderID: 2, OwnerUserID: 22, Status: domain.QuoteTargetPending, CreatedAt: baseTime},
			{ID: 3, QuoteRequestID: 100, ProviderID: 3, OwnerUserID: 23, Status: domain.QuoteTargetPending, CreatedAt: baseTime},
		},
	}
	directory := &fakeDirectory{providers: map[int64]*providerdirectory.Provider{
		1: {ID: 1, Name: "A", OwnerUserID: 21},
		2: {ID: 2, Name: "B", OwnerUserID: 22},
		3: {ID: 3, Name: "C", OwnerUserID: 23},
	}}

	svc := NewService(repo, directory, passthroughTxManager{}, nopLogger{})
	svc.timeProvider = fixedTime{now: now}
	return svc, repo
}

func respond(svc *Service, providerID, actorID int64, decision string) (*models.RespondResult, error) {
	return svc.Respond(context.Background(), &models.RespondRequest{
		QuoteRequestID: 100,
		ProviderID:     providerID,
		ActorUserID:    actorID,
		Decision:       decision,
		Message:        "happy to help",
	})
}

func TestRespond_AcceptUpdatesTargetAndRequest(t *testing.T) {
	svc, repo := newFixture(baseTime.Add(5 * time.Minute))

	result, err := respond(svc, 1, 21, "accepted")
	require.NoError(t, err)

	assert.Equal(t, "accepted", result.Status)
	assert.Equal(t, "responded", result.RequestStatus)
	assert.Equal(t, requesterID, result.RequesterUserID)

	target := repo.targets[0]
	assert.Equal(t, domain.QuoteTargetAccepted, target.Status)
	assert.Equal(t, "happy to help", target.ResponseMessage)
	require.NotNil(t, target.RespondedAt)
	assert.Equal(t, domain.QuoteRequestResponded, repo.request.Status)
}

func TestRespond_SecondResponseConflicts(t *testing.T) {
	svc, _ := newFixture(baseTime.Add(5 * time.Minute))

	_, err := respond(svc, 1, 21, "accepted")
	require.NoError(t, err)

	// Любое повторное решение по той же цели отклоняется
	_, err = respond(svc, 1, 21, "accepted")
	assert.ErrorIs(t, err, ErrAlreadyResponded)
	_, err = respond(svc, 1, 21, "declined")
	assert.ErrorIs(t, err, ErrAlreadyResponded)
}

func TestRespond_NonOwnerDenied(t *testing.T) {
	svc, repo := newFixture(baseTime)

	_, err := respond(svc, 1, 99, "accepted")
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.QuoteTargetPending, repo.targets[0].Status)
}

func TestRespond_ProviderIsNotATarget(t *testing.T) {
	svc, _ := newFixture(baseTime)

	_, err := svc.Respond(context.Background(), &models.RespondRequest{
		QuoteRequestID: 100,
		ProviderID:     4,
		ActorUserID:    24,
		Decision:       "accepted",
	})
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestRespond_OwnershipFixedAtFanOut(t *testing.T) {
	// Владелец листинга в справочнике сменился после рассылки:
	// право на ответ остается у владельца, записанного в цель
	svc, repo := newFixture(baseTime.Add(5 * time.Minute))
	directory := &fakeDirectory{providers: map[int64]*providerdirectory.Provider{
		1: {ID: 1, Name: "A", OwnerUserID: 99},
	}}
	svc = NewService(repo, directory, passthroughTxManager{}, nopLogger{})
	svc.timeProvider = fixedTime{now: baseTime.Add(5 * time.Minute)}

	_, err := respond(svc, 1, 99, "accepted")
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.QuoteTargetPending, repo.targets[0].Status)

	result, err := respond(svc, 1, 21, "accepted")
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteTargetAccepted, repo.targets[0].Status)
	assert.Equal(t, "A", result.ProviderName)
}

func TestRespond_DirectoryOutageDoesNotBlockOwner(t *testing.T) {
	// Провайдер удален из справочника: цель все еще отвечаемая,
	// теряется только имя в результате
	svc, repo := newFixture(baseTime.Add(5 * time.Minute))
	svc = NewService(repo, &fakeDirectory{providers: map[int64]*providerdirectory.Provider{}},
		passthroughTxManager{}, nopLogger{})
	svc.timeProvider = fixedTime{now: baseTime.Add(5 * time.Minute)}

	result, err := respond(svc, 1, 21, "accepted")
	require.NoError(t, err)
	assert.Empty(t, result.ProviderName)
	assert.Equal(t, domain.QuoteTargetAccepted, repo.targets[0].Status)
}

func TestRespond_InvalidDecision(t *testing.T) {
	svc, _ := newFixture(baseTime)

	_, err := respond(svc, 1, 21, "maybe")
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestRespond_DerivedStatusProjection(t *testing.T) {
	svc, repo := newFixture(baseTime.Add(time.Minute))

	// Первый отклонил: запрос responded, не closed
	result, err := respond(svc, 1, 21, "declined")
	require.NoError(t, err)
	assert.Equal(t, "responded", result.RequestStatus)

	// Второй принял, третий молчит: по-прежнему responded
	result, err = respond(svc, 2, 22, "accepted")
	require.NoError(t, err)
	assert.Equal(t, "responded", result.RequestStatus)
	assert.Equal(t, domain.QuoteRequestResponded, repo.request.Status)
}

func TestRespond_AllDeclinedClosesRequest(t *testing.T) {
	svc, repo := newFixture(baseTime.Add(time.Minute))

	for providerID, ownerID := range map[int64]int64{1: 21, 2: 22, 3: 23} {
		_, err := respond(svc, providerID, ownerID, "declined")
		require.NoError(t, err)
	}

	assert.Equal(t, domain.QuoteRequestClosed, repo.request.Status)
}

func dispatch(t *testing.T, svc *Service) []models.ReminderDescriptor {
	t.Helper()
	result, err := svc.DispatchReminders(context.Background())
	require.NoError(t, err)
	return result.Dispatched
}

func TestDispatchReminders_FirstTier(t *testing.T) {
	svc, repo := newFixture(baseTime.Add(20 * time.Minute))

	dispatched := dispatch(t, svc)
	require.Len(t, dispatched, 3)
	for _, reminder := range dispatched {
		assert.Equal(t, domain.ReminderTier15, reminder.Tier)
		assert.Equal(t, 20, reminder.ElapsedMinutes)
	}
	for _, target := range repo.targets {
		assert.True(t, target.Reminder15Sent)
		assert.False(t, target.Reminder60Sent)
	}
}

func TestDispatchReminders_IdempotentUnderRepeatedPolling(t *testing.T) {
	svc, _ := newFixture(baseTime.Add(20 * time.Minute))

	require.Len(t, dispatch(t, svc), 3)
	// Повторные вызовы на том же возрасте не дают дублей
	for i := 0; i < 5; i++ {
		assert.Empty(t, dispatch(t, svc))
	}
}

func TestDispatchReminders_EscalationSuppressesFirstTier(t *testing.T) {
	svc, repo := newFixture(baseTime.Add(70 * time.Minute))

	dispatched := dispatch(t, svc)
	require.Len(t, dispatched, 3)
	for _, reminder := range dispatched {
		assert.Equal(t, domain.ReminderTier60, reminder.Tier)
		assert.Equal(t, 70, reminder.ElapsedMinutes)
	}
	// 15-минутная ступень задним числом не отправляется
	for _, target := range repo.targets {
		assert.True(t, target.Reminder15Sent)
		assert.True(t, target.Reminder60Sent)
	}
	assert.Empty(t, dispatch(t, svc))
}

func TestDispatchReminders_TierSequence(t *testing.T) {
	svc, _ := newFixture(baseTime.Add(20 * time.Minute))

	require.Len(t, dispatch(t, svc), 3)

	// Час спустя созревает вторая ступень
	svc.timeProvider = fixedTime{now: baseTime.Add(65 * time.Minute)}
	dispatched := dispatch(t, svc)
	require.Len(t, dispatched, 3)
	for _, reminder := range dispatched {
		assert.Equal(t, domain.ReminderTier60, reminder.Tier)
	}
	assert.Empty(t, dispatch(t, svc))
}

func TestDispatchReminders_RespondedTargetSkipped(t *testing.T) {
	svc, _ := newFixture(baseTime.Add(5 * time.Minute))

	_, err := respond(svc, 1, 21, "accepted")
	require.NoError(t, err)

	svc.timeProvider = fixedTime{now: baseTime.Add(30 * time.Minute)}
	dispatched := dispatch(t, svc)

	require.Len(t, dispatched, 2)
	for _, reminder := range dispatched {
		assert.NotEqual(t, int64(1), reminder.ProviderID)
	}
}

func TestDispatchReminders_FreshTargetsUntouched(t *testing.T) {
	svc, _ := newFixture(baseTime.Add(10 * time.Minute))
	assert.Empty(t, dispatch(t, svc))
}

func TestGet_AccessControl(t *testing.T) {
	svc, _ := newFixture(baseTime)

	// Запрашивающий видит запрос
	resp, err := svc.Get(context.Background(), 100, requesterID)
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Len(t, resp.Targets, 3)

	// Владелец целевого провайдера видит запрос
	_, err = svc.Get(context.Background(), 100, 22)
	require.NoError(t, err)

	// Посторонний — нет
	_, err = svc.Get(context.Background(), 100, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newFixture(baseTime)

	_, err := svc.Get(context.Background(), 404, requesterID)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}
