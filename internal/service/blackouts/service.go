package blackouts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	blackoutRepo "github.com/pawmates/PSV-BookingService/internal/infra/storage/blackouts"
	directoryClient "github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
	"github.com/pawmates/PSV-BookingService/internal/service/blackouts/models"
)

// Service сервис блэкаутов провайдера
type Service struct {
	blackoutRepo BlackoutRepository
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	directory    ProviderDirectoryClient
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса блэкаутов
func NewService(
	blackoutRepo BlackoutRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	directory ProviderDirectoryClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		blackoutRepo: blackoutRepo,
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		directory:    directory,
		txManager:    txManager,
		logger:       logger,
	}
}

// Create создает блэкаут слота. Доступно только владельцу провайдера.
// Слот с активным бронированием заблэкаутить нельзя: сначала бронирование
// должно быть отменено или перенесено
func (s *Service) Create(ctx context.Context, req *models.CreateBlackoutRequest) (*models.BlackoutResponse, error) {
	s.logger.Info("Create: blackout for provider=%d, date=%s, time=%s by user=%d",
		req.ProviderID, req.Date.Format(domain.DateFormat), req.TimeSlot, req.ActorUserID)

	if err := validateCreateRequest(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// Проверка владения выполняется до транзакции: внешних вызовов внутри
	// критической секции нет
	provider, err := s.directory.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrProviderNotFound) {
			s.logger.Warn("Create: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		s.logger.Error("Create: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Create - failed to get provider: %v", ErrInternal, err)
	}
	if provider.OwnerUserID != req.ActorUserID {
		s.logger.Warn("Create: user=%d is not the owner of provider=%d", req.ActorUserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	if err := s.slotRepo.EnsureRange(ctx, req.ProviderID, req.Date, 1); err != nil {
		s.logger.Error("Create: failed to ensure slots: %v", err)
		return nil, fmt.Errorf("%w: Create - failed to ensure slots: %v", ErrInternal, err)
	}

	var created *domain.Blackout

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		exists, err := s.slotRepo.Exists(txCtx, req.ProviderID, req.Date, req.TimeSlot)
		if err != nil {
			s.logger.Error("Create: failed to check slot existence: %v", err)
			return fmt.Errorf("%w: Create - failed to check slot existence: %v", ErrInternal, err)
		}
		if !exists {
			s.logger.Warn("Create: slot %s %s not in calendar for provider=%d",
				req.Date.Format(domain.DateFormat), req.TimeSlot, req.ProviderID)
			return ErrInvalidTimeSlot
		}

		booked, err := s.bookingRepo.HasActiveBySlot(txCtx, req.ProviderID, req.Date, req.TimeSlot)
		if err != nil {
			s.logger.Error("Create: failed to check active bookings: %v", err)
			return fmt.Errorf("%w: Create - failed to check active bookings: %v", ErrInternal, err)
		}
		if booked {
			s.logger.Warn("Create: slot %s %s has an active booking for provider=%d",
				req.Date.Format(domain.DateFormat), req.TimeSlot, req.ProviderID)
			return ErrSlotBooked
		}

		blackout := &domain.Blackout{
			ProviderID: req.ProviderID,
			SlotDate:   req.Date,
			TimeSlot:   req.TimeSlot,
			Reason:     strings.TrimSpace(req.Reason),
			CreatedBy:  req.ActorUserID,
		}

		created, err = s.blackoutRepo.Create(txCtx, blackout)
		if err != nil {
			if errors.Is(err, blackoutRepo.ErrBlackoutExists) {
				s.logger.Warn("Create: blackout already exists for provider=%d, slot %s %s",
					req.ProviderID, req.Date.Format(domain.DateFormat), req.TimeSlot)
				return ErrBlackoutExists
			}
			s.logger.Error("Create: repository error: %v", err)
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Create: successfully created blackout id=%d", created.ID)
	return models.FromDomainBlackout(created), nil
}

// List возвращает все блэкауты провайдера
func (s *Service) List(ctx context.Context, providerID int64) (*models.BlackoutListResponse, error) {
	s.logger.Info("List: fetching blackouts for provider=%d", providerID)

	if providerID <= 0 {
		return nil, fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}

	blackouts, err := s.blackoutRepo.ListByProvider(ctx, providerID)
	if err != nil {
		s.logger.Error("List: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d blackouts for provider=%d", len(blackouts), providerID)
	return models.FromDomainBlackoutList(providerID, blackouts), nil
}

// validateCreateRequest валидирует запрос на создание блэкаута
func validateCreateRequest(req *models.CreateBlackoutRequest) error {
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}
	if req.ActorUserID <= 0 {
		return fmt.Errorf("%w: actorUserID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.TimeSlot.Validate(); err != nil {
		return fmt.Errorf("%w: invalid time slot: %v", ErrInvalidInput, err)
	}
	if len(req.Reason) > domain.MaxNoteLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}
	return nil
}
