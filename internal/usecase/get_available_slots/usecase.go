package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	directoryClient "github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// UseCase use case получения доступных слотов провайдера на день
type UseCase struct {
	slotRepo     SlotRepository
	holdRepo     HoldRepository
	bookingRepo  BookingRepository
	blackoutRepo BlackoutRepository
	directory    ProviderDirectoryClient
	txManager    TransactionManager
	timeProvider TimeProvider
	windowDays   int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	holdRepo HoldRepository,
	bookingRepo BookingRepository,
	blackoutRepo BlackoutRepository,
	directory ProviderDirectoryClient,
	txManager TransactionManager,
	windowDays int,
	logger Logger,
) *UseCase {
	if windowDays <= 0 {
		windowDays = domain.DefaultAvailabilityWindowDays
	}
	return &UseCase{
		slotRepo:     slotRepo,
		holdRepo:     holdRepo,
		bookingRepo:  bookingRepo,
		blackoutRepo: blackoutRepo,
		directory:    directory,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		windowDays:   windowDays,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Порядок причин недоступности фиксирован: blackout > booked > held > cutoff.
// Отсечка по lead time проверяется последней, чтобы слот рядом с отсечкой
// получал наиболее специфичную причину
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: provider=%d, date=%s",
		req.ProviderID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Провайдер должен существовать в справочнике
	if _, err := uc.directory.GetProvider(ctx, req.ProviderID); err != nil {
		if errors.Is(err, directoryClient.ErrProviderNotFound) {
			uc.logger.Warn("GetAvailableSlots: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	// 3. Лениво досоздаем скользящее окно календаря от запрошенной даты;
	// повторный вызов идемпотентен
	if err := uc.slotRepo.EnsureRange(ctx, req.ProviderID, req.Date, uc.windowDays); err != nil {
		uc.logger.Error("GetAvailableSlots: failed to ensure slots: %v", err)
		return nil, fmt.Errorf("%w: failed to ensure slots: %v", ErrInternal, err)
	}

	var result []Slot

	// 4. Читаем занятость в одной транзакции, чтобы решение было согласованным
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 4.1. Ленивое удаление истекших холдов: ни один читатель
		// не должен увидеть устаревший холд
		if err := uc.holdRepo.DeleteExpired(txCtx, now); err != nil {
			uc.logger.Error("GetAvailableSlots: failed to purge expired holds: %v", err)
			return fmt.Errorf("%w: failed to purge expired holds: %v", ErrInternal, err)
		}

		slots, err := uc.slotRepo.GetByProviderAndDate(txCtx, req.ProviderID, req.Date)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get slots: %v", err)
			return fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
		}

		occupancy, err := uc.loadOccupancy(txCtx, req.ProviderID, req.Date)
		if err != nil {
			return err
		}

		result = make([]Slot, 0, len(slots))
		for _, slot := range slots {
			evaluated, err := evaluateSlot(slot.TimeSlot, req.Date, now, occupancy)
			if err != nil {
				uc.logger.Error("GetAvailableSlots: failed to evaluate slot %s: %v", slot.TimeSlot, err)
				return fmt.Errorf("%w: failed to evaluate slot: %v", ErrInternal, err)
			}
			result = append(result, evaluated)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: evaluated %d slots for provider=%d, date=%s",
		len(result), req.ProviderID, req.Date.Format(domain.DateFormat))

	return &Response{
		ProviderID: req.ProviderID,
		Date:       req.Date,
		Slots:      result,
	}, nil
}

// loadOccupancy собирает снимок занятости дня из трех источников блокировки
func (uc *UseCase) loadOccupancy(ctx context.Context, providerID int64, date time.Time) (*domain.SlotOccupancy, error) {
	blackoutTimes, err := uc.blackoutRepo.BlackoutTimes(ctx, providerID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blackouts: %v", err)
		return nil, fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
	}

	bookedTimes, err := uc.bookingRepo.ActiveTimes(ctx, providerID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get active bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get active bookings: %v", ErrInternal, err)
	}

	heldTimes, err := uc.holdRepo.HeldTimes(ctx, providerID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get holds: %v", err)
		return nil, fmt.Errorf("%w: failed to get holds: %v", ErrInternal, err)
	}

	return &domain.SlotOccupancy{
		Blackouts: toTimeSet(blackoutTimes),
		Booked:    toTimeSet(bookedTimes),
		Held:      toTimeSet(heldTimes),
	}, nil
}

// evaluateSlot вычисляет доступность одного слота.
// Приоритет причин: blackout > booked > held, затем отсечка по lead time
func evaluateSlot(timeSlot types.TimeString, date, now time.Time, occupancy *domain.SlotOccupancy) (Slot, error) {
	if reason, blocked := occupancy.BlockReason(timeSlot); blocked {
		reasonStr := string(reason)
		return Slot{TimeSlot: timeSlot, Available: false, Reason: &reasonStr}, nil
	}

	withinCutoff, err := domain.IsWithinCutoff(date, timeSlot, now)
	if err != nil {
		return Slot{}, err
	}
	if withinCutoff {
		reasonStr := string(domain.ReasonCutoff)
		return Slot{TimeSlot: timeSlot, Available: false, Reason: &reasonStr}, nil
	}

	return Slot{TimeSlot: timeSlot, Available: true}, nil
}

func toTimeSet(times []types.TimeString) map[types.TimeString]bool {
	set := make(map[types.TimeString]bool, len(times))
	for _, t := range times {
		set[t] = true
	}
	return set
}
