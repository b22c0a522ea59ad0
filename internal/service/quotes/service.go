package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	quoteRepo "github.com/pawmates/PSV-BookingService/internal/infra/storage/quotes"
	directoryClient "github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
	"github.com/pawmates/PSV-BookingService/internal/service/quotes/models"
)

// Service сервис ответов и напоминаний по запросам котировок
type Service struct {
	quoteRepo    QuoteRepository
	directory    ProviderDirectoryClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса котировок
func NewService(
	quoteRepo QuoteRepository,
	directory ProviderDirectoryClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		quoteRepo:    quoteRepo,
		directory:    directory,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Get возвращает запрос котировок с целями.
// Доступ имеют запрашивающий и владельцы целевых провайдеров
func (s *Service) Get(ctx context.Context, quoteRequestID int64, userID int64) (*models.QuoteRequestResponse, error) {
	s.logger.Info("Get: fetching quote request id=%d for user=%d", quoteRequestID, userID)

	request, err := s.quoteRepo.GetRequest(ctx, quoteRequestID)
	if err != nil {
		if errors.Is(err, quoteRepo.ErrRequestNotFound) {
			s.logger.Warn("Get: quote request id=%d not found", quoteRequestID)
			return nil, ErrRequestNotFound
		}
		s.logger.Error("Get: repository error for request id=%d: %v", quoteRequestID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	targets, err := s.quoteRepo.ListTargets(ctx, quoteRequestID)
	if err != nil {
		s.logger.Error("Get: failed to list targets for request id=%d: %v", quoteRequestID, err)
		return nil, fmt.Errorf("%w: Get - failed to list targets: %v", ErrInternal, err)
	}

	if !hasQuoteAccess(request, targets, userID) {
		s.logger.Warn("Get: access denied for user=%d to quote request id=%d", userID, quoteRequestID)
		return nil, ErrAccessDenied
	}

	providerNames := s.resolveProviderNames(ctx, targets)

	s.logger.Info("Get: successfully fetched quote request id=%d with %d targets", quoteRequestID, len(targets))
	return models.FromDomainRequest(request, targets, providerNames), nil
}

// Respond фиксирует ответ провайдера по цели запроса. Принимается ровно
// один ответ: цель вне pending дает конфликт. После ответа статус запроса
// перевычисляется проекцией из статусов всех целей.
// Право на ответ определяет владелец, записанный в цель при рассылке,
// а не текущий владелец в справочнике: смена или удаление листинга
// после рассылки не должны менять адресата
func (s *Service) Respond(ctx context.Context, req *models.RespondRequest) (*models.RespondResult, error) {
	s.logger.Info("Respond: request=%d, provider=%d, decision=%s by user=%d",
		req.QuoteRequestID, req.ProviderID, req.Decision, req.ActorUserID)

	if err := validateRespondRequest(req); err != nil {
		s.logger.Warn("Respond: validation failed: %v", err)
		return nil, err
	}

	// Справочник нужен только для имени провайдера; его недоступность
	// не блокирует ответ, имя просто остается пустым
	var providerName string
	if provider, err := s.directory.GetProvider(ctx, req.ProviderID); err != nil {
		if !errors.Is(err, directoryClient.ErrProviderNotFound) {
			s.logger.Warn("Respond: failed to get provider id=%d: %v", req.ProviderID, err)
		}
	} else {
		providerName = provider.Name
	}

	now := s.timeProvider.Now()
	decision := domain.QuoteTargetStatus(req.Decision)

	var (
		requesterUserID int64
		requestStatus   domain.QuoteRequestStatus
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		request, err := s.quoteRepo.GetRequest(txCtx, req.QuoteRequestID)
		if err != nil {
			if errors.Is(err, quoteRepo.ErrRequestNotFound) {
				s.logger.Warn("Respond: quote request id=%d not found", req.QuoteRequestID)
				return ErrRequestNotFound
			}
			s.logger.Error("Respond: repository error for request id=%d: %v", req.QuoteRequestID, err)
			return fmt.Errorf("%w: Respond - repository error: %v", ErrInternal, err)
		}
		requesterUserID = request.UserID

		target, err := s.quoteRepo.GetTarget(txCtx, req.QuoteRequestID, req.ProviderID)
		if err != nil {
			if errors.Is(err, quoteRepo.ErrTargetNotFound) {
				s.logger.Warn("Respond: provider=%d is not a target of request=%d", req.ProviderID, req.QuoteRequestID)
				return ErrTargetNotFound
			}
			s.logger.Error("Respond: failed to get target: %v", err)
			return fmt.Errorf("%w: Respond - failed to get target: %v", ErrInternal, err)
		}

		if target.OwnerUserID != req.ActorUserID {
			s.logger.Warn("Respond: user=%d is not the owner of target request=%d provider=%d",
				req.ActorUserID, req.QuoteRequestID, req.ProviderID)
			return ErrAccessDenied
		}

		if target.Status != domain.QuoteTargetPending || target.RespondedAt != nil {
			s.logger.Warn("Respond: target request=%d provider=%d already responded (status=%s)",
				req.QuoteRequestID, req.ProviderID, target.Status)
			return ErrAlreadyResponded
		}

		err = s.quoteRepo.SetTargetResponse(txCtx, req.QuoteRequestID, req.ProviderID,
			decision, strings.TrimSpace(req.Message), now)
		if err != nil {
			s.logger.Error("Respond: failed to set target response: %v", err)
			return fmt.Errorf("%w: Respond - failed to set target response: %v", ErrInternal, err)
		}

		targets, err := s.quoteRepo.ListTargets(txCtx, req.QuoteRequestID)
		if err != nil {
			s.logger.Error("Respond: failed to list targets: %v", err)
			return fmt.Errorf("%w: Respond - failed to list targets: %v", ErrInternal, err)
		}

		requestStatus = domain.ProjectQuoteRequestStatus(targets)
		if err := s.quoteRepo.UpdateRequestStatus(txCtx, req.QuoteRequestID, requestStatus); err != nil {
			s.logger.Error("Respond: failed to update request status: %v", err)
			return fmt.Errorf("%w: Respond - failed to update request status: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Respond: request=%d, provider=%d responded %s, request status=%s",
		req.QuoteRequestID, req.ProviderID, decision, requestStatus)

	return &models.RespondResult{
		QuoteRequestID:  req.QuoteRequestID,
		ProviderID:      req.ProviderID,
		Status:          string(decision),
		RequestStatus:   string(requestStatus),
		RequesterUserID: requesterUserID,
		ProviderName:    providerName,
	}, nil
}

// DispatchReminders отмечает и возвращает созревшие напоминания по
// неотвеченным целям. Флаги ступеней выставляются в той же транзакции,
// что и выборка, поэтому повторные вызовы не порождают дублей. Доставка
// выполняется вызывающей стороной после коммита
func (s *Service) DispatchReminders(ctx context.Context) (*models.DispatchResult, error) {
	now := s.timeProvider.Now()

	var due []models.ReminderDescriptor

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		due = due[:0]

		targets, err := s.quoteRepo.ListPendingTargets(txCtx)
		if err != nil {
			s.logger.Error("DispatchReminders: failed to list pending targets: %v", err)
			return fmt.Errorf("%w: DispatchReminders - failed to list pending targets: %v", ErrInternal, err)
		}

		for _, target := range targets {
			tier, ok := target.DueReminder(now)
			if !ok {
				continue
			}

			if err := s.quoteRepo.MarkReminderSent(txCtx, target.QuoteRequestID, target.ProviderID, tier); err != nil {
				s.logger.Error("DispatchReminders: failed to mark reminder request=%d provider=%d: %v",
					target.QuoteRequestID, target.ProviderID, err)
				return fmt.Errorf("%w: DispatchReminders - failed to mark reminder: %v", ErrInternal, err)
			}

			due = append(due, models.ReminderDescriptor{
				QuoteRequestID: target.QuoteRequestID,
				ProviderID:     target.ProviderID,
				OwnerUserID:    target.OwnerUserID,
				Tier:           tier,
				ElapsedMinutes: target.ElapsedMinutes(now),
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(due) > 0 {
		s.logger.Info("DispatchReminders: dispatched %d reminders", len(due))
	}

	return &models.DispatchResult{Dispatched: due}, nil
}

// Вспомогательные методы

// hasQuoteAccess проверяет доступ к запросу котировок: запрашивающий
// либо владелец любого целевого провайдера
func hasQuoteAccess(request *domain.QuoteRequest, targets []*domain.QuoteTarget, userID int64) bool {
	if request.UserID == userID {
		return true
	}
	for _, target := range targets {
		if target.OwnerUserID == userID {
			return true
		}
	}
	return false
}

// resolveProviderNames подтягивает имена провайдеров из справочника.
// Ошибки не фатальны: имя просто остается пустым
func (s *Service) resolveProviderNames(ctx context.Context, targets []*domain.QuoteTarget) map[int64]string {
	names := make(map[int64]string, len(targets))
	for _, target := range targets {
		provider, err := s.directory.GetProvider(ctx, target.ProviderID)
		if err != nil {
			s.logger.Warn("resolveProviderNames: failed to get provider id=%d: %v", target.ProviderID, err)
			continue
		}
		names[target.ProviderID] = provider.Name
	}
	return names
}

// validateRespondRequest валидирует ответ провайдера
func validateRespondRequest(req *models.RespondRequest) error {
	if req.QuoteRequestID <= 0 {
		return fmt.Errorf("%w: quoteRequestID must be positive", ErrInvalidInput)
	}
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}
	if req.ActorUserID <= 0 {
		return fmt.Errorf("%w: actorUserID must be positive", ErrInvalidInput)
	}
	if !domain.IsValidQuoteDecision(req.Decision) {
		return fmt.Errorf("%w: decision must be %s or %s",
			ErrInvalidDecision, domain.QuoteTargetAccepted, domain.QuoteTargetDeclined)
	}
	if len(req.Message) > domain.MaxNoteLength {
		return fmt.Errorf("%w: message must be at most %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}
	return nil
}
