package create_hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	directoryClient "github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// UseCase use case создания холда (мягкой брони слота на время checkout)
type UseCase struct {
	slotRepo          SlotRepository
	holdRepo          HoldRepository
	bookingRepo       BookingRepository
	blackoutRepo      BlackoutRepository
	directory         ProviderDirectoryClient
	txManager         TransactionManager
	timeProvider      TimeProvider
	defaultTTLMinutes int
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	holdRepo HoldRepository,
	bookingRepo BookingRepository,
	blackoutRepo BlackoutRepository,
	directory ProviderDirectoryClient,
	txManager TransactionManager,
	defaultTTLMinutes int,
	logger Logger,
) *UseCase {
	if defaultTTLMinutes <= 0 {
		defaultTTLMinutes = domain.DefaultHoldTTLMinutes
	}
	return &UseCase{
		slotRepo:          slotRepo,
		holdRepo:          holdRepo,
		bookingRepo:       bookingRepo,
		blackoutRepo:      blackoutRepo,
		directory:         directory,
		txManager:         txManager,
		timeProvider:      &RealTimeProvider{},
		defaultTTLMinutes: defaultTTLMinutes,
		logger:            logger,
	}
}

// Execute выполняет use case создания холда.
// Повторный запрос холда тем же пользователем до истечения прежнего
// не продлевает его, а отклоняется как конфликт: собственный живой холд
// блокирует слот наравне с чужим
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateHold: requester=%d, provider=%d, date=%s, time=%s",
		req.RequesterUserID, req.ProviderID, req.Date.Format(domain.DateFormat), req.TimeSlot)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateHold: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	ttlMinutes := req.TTLMinutes
	if ttlMinutes == 0 {
		ttlMinutes = uc.defaultTTLMinutes
	}

	// 2. Провайдер должен существовать в справочнике
	if _, err := uc.directory.GetProvider(ctx, req.ProviderID); err != nil {
		if errors.Is(err, directoryClient.ErrProviderNotFound) {
			uc.logger.Warn("CreateHold: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("CreateHold: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	// 3. Лениво досоздаем слоты дня
	if err := uc.slotRepo.EnsureRange(ctx, req.ProviderID, req.Date, 1); err != nil {
		uc.logger.Error("CreateHold: failed to ensure slots: %v", err)
		return nil, fmt.Errorf("%w: failed to ensure slots: %v", ErrInternal, err)
	}

	var result *domain.Hold

	// 4. Проверка занятости и вставка в сериализуемой транзакции:
	// из конкурирующих холдов на один слот выживает ровно один
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.holdRepo.DeleteExpired(txCtx, now); err != nil {
			uc.logger.Error("CreateHold: failed to purge expired holds: %v", err)
			return fmt.Errorf("%w: failed to purge expired holds: %v", ErrInternal, err)
		}

		// 4.1. Время должно входить в дневной набор слотов
		exists, err := uc.slotRepo.Exists(txCtx, req.ProviderID, req.Date, req.TimeSlot)
		if err != nil {
			uc.logger.Error("CreateHold: failed to check slot existence: %v", err)
			return fmt.Errorf("%w: failed to check slot existence: %v", ErrInternal, err)
		}
		if !exists {
			uc.logger.Warn("CreateHold: slot %s %s not in calendar for provider=%d",
				req.Date.Format(domain.DateFormat), req.TimeSlot, req.ProviderID)
			return ErrInvalidTimeSlot
		}

		// 4.2. Отсечка по lead time
		withinCutoff, err := domain.IsWithinCutoff(req.Date, req.TimeSlot, now)
		if err != nil {
			return fmt.Errorf("%w: failed to evaluate cutoff: %v", ErrInternal, err)
		}
		if withinCutoff {
			uc.logger.Warn("CreateHold: cutoff applies for slot %s %s",
				req.Date.Format(domain.DateFormat), req.TimeSlot)
			return ErrBookingCutoff
		}

		// 4.3. Слот не должен быть заблокирован
		reason, blocked, err := uc.slotBlockReason(txCtx, req.ProviderID, req.Date, req.TimeSlot)
		if err != nil {
			return err
		}
		if blocked {
			uc.logger.Warn("CreateHold: slot %s %s blocked (%s)",
				req.Date.Format(domain.DateFormat), req.TimeSlot, reason)
			return fmt.Errorf("%w (%s)", ErrSlotBlocked, reason)
		}

		// 4.4. Создаем холд
		hold := &domain.Hold{
			ProviderID:      req.ProviderID,
			RequesterUserID: req.RequesterUserID,
			SlotDate:        req.Date,
			TimeSlot:        req.TimeSlot,
			ExpiresAt:       now.Add(time.Duration(ttlMinutes) * time.Minute),
		}

		created, err := uc.holdRepo.Create(txCtx, hold)
		if err != nil {
			uc.logger.Error("CreateHold: failed to create hold: %v", err)
			return fmt.Errorf("%w: failed to create hold: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateHold: successfully created hold id=%d, expires_at=%s",
		result.ID, result.ExpiresAt.Format(time.RFC3339))

	return &Response{
		ID:              result.ID,
		ProviderID:      result.ProviderID,
		RequesterUserID: result.RequesterUserID,
		Date:            result.SlotDate,
		TimeSlot:        result.TimeSlot,
		ExpiresAt:       result.ExpiresAt,
		CreatedAt:       result.CreatedAt,
	}, nil
}

// slotBlockReason проверяет блокировку слота в приоритетном порядке
// blackout > booked > held
func (uc *UseCase) slotBlockReason(ctx context.Context, providerID int64, date time.Time, timeSlot types.TimeString) (domain.UnavailableReason, bool, error) {
	blackoutTimes, err := uc.blackoutRepo.BlackoutTimes(ctx, providerID, date)
	if err != nil {
		uc.logger.Error("CreateHold: failed to get blackouts: %v", err)
		return "", false, fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
	}

	bookedTimes, err := uc.bookingRepo.ActiveTimes(ctx, providerID, date)
	if err != nil {
		uc.logger.Error("CreateHold: failed to get active bookings: %v", err)
		return "", false, fmt.Errorf("%w: failed to get active bookings: %v", ErrInternal, err)
	}

	heldTimes, err := uc.holdRepo.HeldTimes(ctx, providerID, date)
	if err != nil {
		uc.logger.Error("CreateHold: failed to get holds: %v", err)
		return "", false, fmt.Errorf("%w: failed to get holds: %v", ErrInternal, err)
	}

	occupancy := &domain.SlotOccupancy{
		Blackouts: toTimeSet(blackoutTimes),
		Booked:    toTimeSet(bookedTimes),
		Held:      toTimeSet(heldTimes),
	}

	reason, blocked := occupancy.BlockReason(timeSlot)
	return reason, blocked, nil
}

func toTimeSet(times []types.TimeString) map[types.TimeString]bool {
	set := make(map[types.TimeString]bool, len(times))
	for _, t := range times {
		set[t] = true
	}
	return set
}
