package bookings

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	bookingRepo "github.com/pawmates/PSV-BookingService/internal/infra/storage/booking"
	directoryClient "github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
	"github.com/pawmates/PSV-BookingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	directory   ProviderDirectoryClient
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	directory ProviderDirectoryClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		directory:   directory,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID.
// Доступ имеют владелец бронирования и владелец провайдера
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// ListByUser получает бронирования пользователя в выбранной роли.
// owner — где пользователь владелец бронирования; provider — бронирования
// его листингов из справочника; all — объединение без дублей
func (s *Service) ListByUser(ctx context.Context, req *models.ListUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListByUser: fetching bookings for user=%d, role=%s", req.UserID, req.Role)

	role := req.Role
	if role == "" {
		role = models.RoleAll
	}
	if !models.IsValidRole(role) {
		s.logger.Warn("ListByUser: invalid role=%s for user=%d", req.Role, req.UserID)
		return nil, fmt.Errorf("%w: invalid role", ErrInvalidInput)
	}

	var merged []*domain.Booking
	seen := make(map[int64]bool)

	if role == models.RoleAll || role == models.RoleOwner {
		owned, err := s.bookingRepo.ListByOwner(ctx, req.UserID)
		if err != nil {
			s.logger.Error("ListByUser: repository error for user=%d: %v", req.UserID, err)
			return nil, fmt.Errorf("%w: ListByUser - repository error: %v", ErrInternal, err)
		}
		for _, b := range owned {
			if !seen[b.ID] {
				seen[b.ID] = true
				merged = append(merged, b)
			}
		}
	}

	if role == models.RoleAll || role == models.RoleProvider {
		providerIDs, err := s.userProviderIDs(ctx, req.UserID)
		if err != nil {
			return nil, err
		}

		provided, err := s.bookingRepo.ListByProviders(ctx, providerIDs)
		if err != nil {
			s.logger.Error("ListByUser: repository error for providers of user=%d: %v", req.UserID, err)
			return nil, fmt.Errorf("%w: ListByUser - repository error: %v", ErrInternal, err)
		}
		for _, b := range provided {
			if !seen[b.ID] {
				seen[b.ID] = true
				merged = append(merged, b)
			}
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].BookingDate.Equal(merged[j].BookingDate) {
			return merged[i].BookingDate.Before(merged[j].BookingDate)
		}
		if merged[i].TimeSlot != merged[j].TimeSlot {
			return merged[i].TimeSlot.IsBefore(merged[j].TimeSlot)
		}
		return merged[i].ID < merged[j].ID
	})

	s.logger.Info("ListByUser: successfully fetched %d bookings for user=%d", len(merged), req.UserID)
	return models.FromDomainBookingList(merged), nil
}

// GetHistory получает append-only историю статусов бронирования.
// Права доступа те же, что и у GetByID
func (s *Service) GetHistory(ctx context.Context, bookingID int64, userID int64) (*models.StatusHistoryResponse, error) {
	s.logger.Info("GetHistory: fetching history for booking id=%d, user=%d", bookingID, userID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetHistory: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetHistory: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetHistory - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetHistory: access denied for user=%d to booking id=%d", userID, bookingID)
		return nil, err
	}

	changes, err := s.bookingRepo.GetHistory(ctx, bookingID)
	if err != nil {
		s.logger.Error("GetHistory: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetHistory - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetHistory: successfully fetched %d changes for booking id=%d", len(changes), bookingID)
	return models.FromDomainHistory(bookingID, changes), nil
}

// Вспомогательные методы

// checkUserAccess проверяет доступ к бронированию: владелец бронирования
// либо владелец провайдера
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.OwnerUserID == userID {
		return nil
	}

	provider, err := s.directory.GetProvider(ctx, booking.ProviderID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrProviderNotFound) {
			s.logger.Warn("checkUserAccess: provider id=%d not found", booking.ProviderID)
			return ErrAccessDenied
		}
		s.logger.Error("checkUserAccess: failed to get provider id=%d: %v", booking.ProviderID, err)
		return fmt.Errorf("%w: checkUserAccess - failed to get provider: %v", ErrInternal, err)
	}

	if provider.OwnerUserID != userID {
		return ErrAccessDenied
	}

	return nil
}

// userProviderIDs возвращает ID листингов пользователя в справочнике
func (s *Service) userProviderIDs(ctx context.Context, userID int64) ([]int64, error) {
	providers, err := s.directory.ListByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("userProviderIDs: failed to list providers of user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to list user providers: %v", ErrInternal, err)
	}

	ids := make([]int64, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
