package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	directoryClient "github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// UseCase use case создания бронирования
type UseCase struct {
	slotRepo     SlotRepository
	holdRepo     HoldRepository
	bookingRepo  BookingRepository
	blackoutRepo BlackoutRepository
	directory    ProviderDirectoryClient
	txManager    TransactionManager
	timeProvider TimeProvider
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
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		holdRepo:     holdRepo,
		bookingRepo:  bookingRepo,
		blackoutRepo: blackoutRepo,
		directory:    directory,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Собственный холд запрашивающего на этот слот удаляется перед проверкой
// занятости: холд конвертируется в бронирование, а не блокирует его.
// Чужой живой холд по-прежнему дает конфликт
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: requester=%d, provider=%d, date=%s, time=%s",
		req.RequesterUserID, req.ProviderID, req.Date.Format(domain.DateFormat), req.TimeSlot)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Провайдер должен существовать в справочнике
	provider, err := uc.directory.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrProviderNotFound) {
			uc.logger.Warn("CreateBooking: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("CreateBooking: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	// 3. Лениво досоздаем слоты дня
	if err := uc.slotRepo.EnsureRange(ctx, req.ProviderID, req.Date, 1); err != nil {
		uc.logger.Error("CreateBooking: failed to ensure slots: %v", err)
		return nil, fmt.Errorf("%w: failed to ensure slots: %v", ErrInternal, err)
	}

	var result *domain.Booking

	// 4. Вся последовательность проверка-вставка выполняется в сериализуемой
	// транзакции: из конкурирующих попыток на один слот выживает ровно одна
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.holdRepo.DeleteExpired(txCtx, now); err != nil {
			uc.logger.Error("CreateBooking: failed to purge expired holds: %v", err)
			return fmt.Errorf("%w: failed to purge expired holds: %v", ErrInternal, err)
		}

		// 4.1. Время должно входить в дневной набор слотов
		exists, err := uc.slotRepo.Exists(txCtx, req.ProviderID, req.Date, req.TimeSlot)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check slot existence: %v", err)
			return fmt.Errorf("%w: failed to check slot existence: %v", ErrInternal, err)
		}
		if !exists {
			uc.logger.Warn("CreateBooking: slot %s %s not in calendar for provider=%d",
				req.Date.Format(domain.DateFormat), req.TimeSlot, req.ProviderID)
			return ErrInvalidTimeSlot
		}

		// 4.2. Отсечка по lead time
		withinCutoff, err := domain.IsWithinCutoff(req.Date, req.TimeSlot, now)
		if err != nil {
			return fmt.Errorf("%w: failed to evaluate cutoff: %v", ErrInternal, err)
		}
		if withinCutoff {
			uc.logger.Warn("CreateBooking: cutoff applies for slot %s %s",
				req.Date.Format(domain.DateFormat), req.TimeSlot)
			return ErrBookingCutoff
		}

		// 4.3. Конвертация собственного холда: удаляем его до проверки занятости
		err = uc.holdRepo.DeleteByRequesterAndSlot(txCtx, req.RequesterUserID, req.ProviderID, req.Date, req.TimeSlot)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to consume own hold: %v", err)
			return fmt.Errorf("%w: failed to consume own hold: %v", ErrInternal, err)
		}

		// 4.4. Повторная проверка занятости после конвертации холда
		reason, blocked, err := uc.slotBlockReason(txCtx, req.ProviderID, req.Date, req.TimeSlot)
		if err != nil {
			return err
		}
		if blocked {
			uc.logger.Warn("CreateBooking: slot %s %s blocked (%s)",
				req.Date.Format(domain.DateFormat), req.TimeSlot, reason)
			return fmt.Errorf("%w (%s)", ErrSlotBlocked, reason)
		}

		// 4.5. Создаем бронирование в статусе requested
		booking := &domain.Booking{
			OwnerUserID: req.RequesterUserID,
			ProviderID:  req.ProviderID,
			PetName:     strings.TrimSpace(req.PetName),
			BookingDate: req.Date,
			TimeSlot:    req.TimeSlot,
			Note:        strings.TrimSpace(req.Note),
			Status:      domain.StatusRequested,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 4.6. Первая запись истории статусов: none -> requested
		change := &domain.BookingStatusChange{
			BookingID:   created.ID,
			ActorUserID: req.RequesterUserID,
			FromStatus:  domain.StatusNone,
			ToStatus:    domain.StatusRequested,
			Note:        "booking requested",
		}
		if err := uc.bookingRepo.AppendHistory(txCtx, change); err != nil {
			uc.logger.Error("CreateBooking: failed to append status history: %v", err)
			return fmt.Errorf("%w: failed to append status history: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:                  result.ID,
		OwnerUserID:         result.OwnerUserID,
		ProviderID:          result.ProviderID,
		PetName:             result.PetName,
		Date:                result.BookingDate,
		TimeSlot:            result.TimeSlot,
		Note:                result.Note,
		Status:              string(result.Status),
		CreatedAt:           result.CreatedAt,
		ProviderName:        provider.Name,
		ProviderOwnerUserID: provider.OwnerUserID,
	}, nil
}

// slotBlockReason проверяет блокировку слота в приоритетном порядке
// blackout > booked > held
func (uc *UseCase) slotBlockReason(ctx context.Context, providerID int64, date time.Time, timeSlot types.TimeString) (domain.UnavailableReason, bool, error) {
	blackoutTimes, err := uc.blackoutRepo.BlackoutTimes(ctx, providerID, date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get blackouts: %v", err)
		return "", false, fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
	}

	bookedTimes, err := uc.bookingRepo.ActiveTimes(ctx, providerID, date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get active bookings: %v", err)
		return "", false, fmt.Errorf("%w: failed to get active bookings: %v", ErrInternal, err)
	}

	heldTimes, err := uc.holdRepo.HeldTimes(ctx, providerID, date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get holds: %v", err)
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
