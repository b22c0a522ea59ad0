package create_quote_request

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeQuoteRepo struct {
	request *domain.QuoteRequest
	targets []*domain.QuoteTarget
}

func (r *fakeQuoteRepo) CreateRequest(_ context.Context, request *domain.QuoteRequest) (*domain.QuoteRequest, error) {
	request.ID = 100
	request.CreatedAt = time.Now().UTC()
	r.request = request
	return request, nil
}

func (r *fakeQuoteRepo) CreateTarget(_ context.Context, target *domain.QuoteTarget) (*domain.QuoteTarget, error) {
	target.ID = int64(len(r.targets) + 1)
	target.CreatedAt = time.Now().UTC()
	r.targets = append(r.targets, target)
	return target, nil
}

// fakeDirectory отдает провайдеров по ключу район; пустой район — весь
// список категории. Справочник возвращает провайдеров по убыванию рейтинга
type fakeDirectory struct {
	bySuburb map[string][]*providerdirectory.Provider
}

func (d *fakeDirectory) ListActive(_ context.Context, _ string, suburb string) ([]*providerdirectory.Provider, error) {
	return d.bySuburb[suburb], nil
}

func provider(id, ownerID int64, name string) *providerdirectory.Provider {
	return &providerdirectory.Provider{ID: id, OwnerUserID: ownerID, Name: name, Status: "active"}
}

func validRequest() *Request {
	return &Request{
		UserID:          10,
		Category:        domain.CategoryDogWalking,
		Suburb:          "Newtown",
		PreferredWindow: "weekday mornings",
		PetDetails:      "border collie, 2yo",
	}
}

func TestExecute_FanOutCapped(t *testing.T) {
	repo := &fakeQuoteRepo{}
	directory := &fakeDirectory{bySuburb: map[string][]*providerdirectory.Provider{
		"Newtown": {
			provider(1, 21, "A"), provider(2, 22, "B"),
			provider(3, 23, "C"), provider(4, 24, "D"),
		},
	}}
	uc := NewUseCase(repo, directory, passthroughTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	// Не больше maxTargets по умолчанию, лучшие по рейтингу первыми
	require.Len(t, resp.Targets, domain.DefaultQuoteMaxTargets)
	assert.Equal(t, int64(1), resp.Targets[0].ProviderID)
	assert.Equal(t, int64(2), resp.Targets[1].ProviderID)
	assert.Equal(t, int64(3), resp.Targets[2].ProviderID)

	require.Len(t, repo.targets, 3)
	for _, target := range repo.targets {
		assert.Equal(t, domain.QuoteTargetPending, target.Status)
		assert.Equal(t, int64(100), target.QuoteRequestID)
	}
}

func TestExecute_ExplicitMaxTargets(t *testing.T) {
	repo := &fakeQuoteRepo{}
	directory := &fakeDirectory{bySuburb: map[string][]*providerdirectory.Provider{
		"Newtown": {provider(1, 21, "A"), provider(2, 22, "B")},
	}}
	uc := NewUseCase(repo, directory, passthroughTxManager{}, nopLogger{})

	req := validRequest()
	req.MaxTargets = 1

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Targets, 1)
	assert.Equal(t, int64(1), resp.Targets[0].ProviderID)
}

func TestExecute_SuburbFallback(t *testing.T) {
	repo := &fakeQuoteRepo{}
	directory := &fakeDirectory{bySuburb: map[string][]*providerdirectory.Provider{
		// В Newtown никого, по категории в целом есть
		"": {provider(5, 25, "E"), provider(6, 26, "F")},
	}}
	uc := NewUseCase(repo, directory, passthroughTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, resp.Targets, 2)
	assert.Equal(t, int64(5), resp.Targets[0].ProviderID)
}

func TestExecute_OwnListingsExcluded(t *testing.T) {
	repo := &fakeQuoteRepo{}
	directory := &fakeDirectory{bySuburb: map[string][]*providerdirectory.Provider{
		"Newtown": {
			provider(1, 10, "Mine"), // листинг самого запрашивающего
			provider(2, 22, "B"),
		},
	}}
	uc := NewUseCase(repo, directory, passthroughTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, resp.Targets, 1)
	assert.Equal(t, int64(2), resp.Targets[0].ProviderID)
}

func TestExecute_OnlyOwnListingTriggersFallback(t *testing.T) {
	repo := &fakeQuoteRepo{}
	directory := &fakeDirectory{bySuburb: map[string][]*providerdirectory.Provider{
		"Newtown": {provider(1, 10, "Mine")},
		"":        {provider(1, 10, "Mine"), provider(7, 27, "G")},
	}}
	uc := NewUseCase(repo, directory, passthroughTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, resp.Targets, 1)
	assert.Equal(t, int64(7), resp.Targets[0].ProviderID)
}

func TestExecute_NoProvidersEvenAfterFallback(t *testing.T) {
	repo := &fakeQuoteRepo{}
	directory := &fakeDirectory{bySuburb: map[string][]*providerdirectory.Provider{}}
	uc := NewUseCase(repo, directory, passthroughTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrNoProvidersFound)
	assert.Nil(t, repo.request)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&fakeQuoteRepo{}, &fakeDirectory{}, passthroughTxManager{}, nopLogger{})

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero user", func(r *Request) { r.UserID = 0 }},
		{"unknown category", func(r *Request) { r.Category = "horse_riding" }},
		{"blank suburb", func(r *Request) { r.Suburb = "  " }},
		{"blank preferred window", func(r *Request) { r.PreferredWindow = "" }},
		{"blank pet details", func(r *Request) { r.PetDetails = "" }},
		{"negative max targets", func(r *Request) { r.MaxTargets = -1 }},
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
