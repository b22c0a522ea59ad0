package update_booking_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	bookingRepo "github.com/pawmates/PSV-BookingService/internal/infra/storage/booking"
	directoryClient "github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
)

// UseCase use case перевода бронирования по таблице статусов
type UseCase struct {
	bookingRepo  BookingRepository
	directory    ProviderDirectoryClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	directory ProviderDirectoryClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		directory:    directory,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case смены статуса.
// Порядок проверок фиксирован: существование -> терминальность ->
// таблица переходов -> право актора. Владелец справочника провайдера
// запрашивается до транзакции: внутри критической секции внешних вызовов нет
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBookingStatus: booking=%d, actor=%d, next=%s",
		req.BookingID, req.ActorUserID, req.NextStatus)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBookingStatus: validation failed: %v", err)
		return nil, err
	}

	nextStatus := domain.BookingStatus(req.NextStatus)

	// 2. Предварительное чтение бронирования, чтобы узнать провайдера
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("UpdateBookingStatus: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("UpdateBookingStatus: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 3. Владелец провайдера из справочника (внешний вызов до транзакции)
	provider, err := uc.directory.GetProvider(ctx, booking.ProviderID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrProviderNotFound) {
			uc.logger.Warn("UpdateBookingStatus: provider id=%d not found", booking.ProviderID)
			return nil, fmt.Errorf("%w: provider owner is unknown", ErrPermissionDenied)
		}
		uc.logger.Error("UpdateBookingStatus: failed to get provider id=%d: %v", booking.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	var result *domain.Booking

	// 4. Переход применяется в сериализуемой транзакции с перечитыванием
	// статуса: конкурирующий переход не может проскочить между проверкой
	// и записью
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdateBookingStatus: failed to reread booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to reread booking: %v", ErrInternal, err)
		}

		// 4.1. Терминальный статус не покидается
		if current.Status.IsTerminal() {
			uc.logger.Warn("UpdateBookingStatus: booking id=%d is terminal (%s)", current.ID, current.Status)
			return ErrBookingTerminal
		}

		// 4.2. Переход должен присутствовать в таблице для текущего статуса
		if !domain.CanTransition(current.Status, nextStatus) {
			uc.logger.Warn("UpdateBookingStatus: transition %s -> %s not allowed for booking id=%d",
				current.Status, nextStatus, current.ID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, nextStatus)
		}

		// 4.3. Право актора: часть статусов применяет только владелец
		// провайдера, часть — только владелец бронирования
		if nextStatus.RequiresProviderActor() && req.ActorUserID != provider.OwnerUserID {
			uc.logger.Warn("UpdateBookingStatus: actor=%d is not provider owner for booking id=%d",
				req.ActorUserID, current.ID)
			return fmt.Errorf("%w: only provider owner can apply %s", ErrPermissionDenied, nextStatus)
		}
		if nextStatus.RequiresOwnerActor() && req.ActorUserID != current.OwnerUserID {
			uc.logger.Warn("UpdateBookingStatus: actor=%d is not booking owner for booking id=%d",
				req.ActorUserID, current.ID)
			return fmt.Errorf("%w: only booking owner can apply %s", ErrPermissionDenied, nextStatus)
		}

		// 4.4. Применяем переход и дописываем историю
		if err := uc.bookingRepo.UpdateStatus(txCtx, current.ID, nextStatus, req.Note); err != nil {
			uc.logger.Error("UpdateBookingStatus: failed to update status: %v", err)
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		note := ""
		if req.Note != nil {
			note = *req.Note
		}
		change := &domain.BookingStatusChange{
			BookingID:   current.ID,
			ActorUserID: req.ActorUserID,
			FromStatus:  current.Status,
			ToStatus:    nextStatus,
			Note:        note,
		}
		if err := uc.bookingRepo.AppendHistory(txCtx, change); err != nil {
			uc.logger.Error("UpdateBookingStatus: failed to append status history: %v", err)
			return fmt.Errorf("%w: failed to append status history: %v", ErrInternal, err)
		}

		current.Status = nextStatus
		if req.Note != nil {
			current.Note = *req.Note
		}
		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateBookingStatus: booking id=%d moved to %s", result.ID, result.Status)

	// Уведомляется контрагент актора: переход владельца видит провайдер
	// и наоборот
	counterparty := provider.OwnerUserID
	if req.ActorUserID == provider.OwnerUserID {
		counterparty = result.OwnerUserID
	}

	return &Response{
		ID:                 result.ID,
		OwnerUserID:        result.OwnerUserID,
		ProviderID:         result.ProviderID,
		PetName:            result.PetName,
		Date:               result.BookingDate,
		TimeSlot:           result.TimeSlot,
		Note:               result.Note,
		Status:             string(result.Status),
		UpdatedAt:          result.UpdatedAt,
		CounterpartyUserID: counterparty,
		ProviderName:       provider.Name,
	}, nil
}
