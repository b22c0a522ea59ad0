package create_quote_request

import (
	"context"
	"fmt"
	"strings"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
)

// UseCase use case создания запроса котировок с веерной рассылкой
type UseCase struct {
	quoteRepo    QuoteRepository
	directory    ProviderDirectoryClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	quoteRepo QuoteRepository,
	directory ProviderDirectoryClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		quoteRepo:    quoteRepo,
		directory:    directory,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания запроса котировок.
// Кандидаты берутся из справочника по категории и району; если район
// пустой, выполняется откат к поиску только по категории. Собственные
// листинги запрашивающего исключаются. Справочник возвращает провайдеров
// по убыванию рейтинга, поэтому берутся первые maxTargets из списка
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateQuoteRequest: user=%d, category=%s, suburb=%s",
		req.UserID, req.Category, req.Suburb)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateQuoteRequest: validation failed: %v", err)
		return nil, err
	}

	maxTargets := req.MaxTargets
	if maxTargets == 0 {
		maxTargets = domain.DefaultQuoteMaxTargets
	}

	suburb := strings.TrimSpace(req.Suburb)

	// 2. Подбор кандидатов: сначала категория+район, затем только категория
	candidates, err := uc.selectCandidates(ctx, req.UserID, req.Category, suburb)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		uc.logger.Warn("CreateQuoteRequest: no providers for category=%s, suburb=%s", req.Category, suburb)
		return nil, ErrNoProvidersFound
	}
	if len(candidates) > maxTargets {
		candidates = candidates[:maxTargets]
	}

	var (
		createdRequest *domain.QuoteRequest
		createdTargets []*domain.QuoteTarget
	)

	// 3. Запрос и все цели создаются атомарно
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		quoteRequest := &domain.QuoteRequest{
			UserID:          req.UserID,
			Category:        req.Category,
			Suburb:          suburb,
			PreferredWindow: strings.TrimSpace(req.PreferredWindow),
			PetDetails:      strings.TrimSpace(req.PetDetails),
			Note:            strings.TrimSpace(req.Note),
			Status:          domain.QuoteRequestPending,
		}

		created, err := uc.quoteRepo.CreateRequest(txCtx, quoteRequest)
		if err != nil {
			uc.logger.Error("CreateQuoteRequest: failed to create request: %v", err)
			return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
		}
		createdRequest = created

		for _, provider := range candidates {
			target := &domain.QuoteTarget{
				QuoteRequestID: created.ID,
				ProviderID:     provider.ID,
				OwnerUserID:    provider.OwnerUserID,
				Status:         domain.QuoteTargetPending,
			}
			createdTarget, err := uc.quoteRepo.CreateTarget(txCtx, target)
			if err != nil {
				uc.logger.Error("CreateQuoteRequest: failed to create target for provider=%d: %v",
					provider.ID, err)
				return fmt.Errorf("%w: failed to create target: %v", ErrInternal, err)
			}
			createdTargets = append(createdTargets, createdTarget)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateQuoteRequest: successfully created request id=%d with %d targets",
		createdRequest.ID, len(createdTargets))

	response := &Response{
		ID:              createdRequest.ID,
		UserID:          createdRequest.UserID,
		Category:        createdRequest.Category,
		Suburb:          createdRequest.Suburb,
		PreferredWindow: createdRequest.PreferredWindow,
		PetDetails:      createdRequest.PetDetails,
		Note:            createdRequest.Note,
		Status:          string(createdRequest.Status),
		CreatedAt:       createdRequest.CreatedAt,
	}
	for i, target := range createdTargets {
		response.Targets = append(response.Targets, Target{
			ProviderID:   target.ProviderID,
			ProviderName: candidates[i].Name,
			OwnerUserID:  target.OwnerUserID,
			Status:       string(target.Status),
			CreatedAt:    target.CreatedAt,
		})
	}

	return response, nil
}

// selectCandidates подбирает провайдеров, исключая листинги самого
// запрашивающего. Пустой результат по району не ошибка: повторяем поиск
// по всей категории
func (uc *UseCase) selectCandidates(ctx context.Context, userID int64, category, suburb string) ([]*providerdirectory.Provider, error) {
	providers, err := uc.directory.ListActive(ctx, category, suburb)
	if err != nil {
		uc.logger.Error("CreateQuoteRequest: failed to list providers: %v", err)
		return nil, fmt.Errorf("%w: failed to list providers: %v", ErrInternal, err)
	}

	candidates := excludeOwn(providers, userID)
	if len(candidates) > 0 || suburb == "" {
		return candidates, nil
	}

	uc.logger.Info("CreateQuoteRequest: no providers in suburb=%s, falling back to category-wide search", suburb)

	providers, err = uc.directory.ListActive(ctx, category, "")
	if err != nil {
		uc.logger.Error("CreateQuoteRequest: failed to list providers on fallback: %v", err)
		return nil, fmt.Errorf("%w: failed to list providers: %v", ErrInternal, err)
	}

	return excludeOwn(providers, userID), nil
}

func excludeOwn(providers []*providerdirectory.Provider, userID int64) []*providerdirectory.Provider {
	result := make([]*providerdirectory.Provider, 0, len(providers))
	for _, provider := range providers {
		if provider.OwnerUserID == userID {
			continue
		}
		result = append(result, provider)
	}
	return result
}
