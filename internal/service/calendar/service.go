package calendar

import (
	"context"
	"fmt"
	"sort"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/internal/service/calendar/models"
)

// maxRangeDays предельная ширина запрашиваемого диапазона
const maxRangeDays = 92

// Порядок типов при совпадении даты и времени
var eventTypeOrder = map[string]int{
	models.EventTypeBooking:  0,
	models.EventTypeHold:     1,
	models.EventTypeBlackout: 2,
}

// Service сервис объединенного календаря пользователя
type Service struct {
	bookingRepo  BookingRepository
	holdRepo     HoldRepository
	blackoutRepo BlackoutRepository
	directory    ProviderDirectoryClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	bookingRepo BookingRepository,
	holdRepo HoldRepository,
	blackoutRepo BlackoutRepository,
	directory ProviderDirectoryClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		holdRepo:     holdRepo,
		blackoutRepo: blackoutRepo,
		directory:    directory,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// ListEvents собирает события календаря за диапазон дат: бронирования в
// обеих ролях, живые холды пользователя и блэкауты его провайдеров.
// Истекшие холды удаляются перед выборкой, как на любом читающем пути
func (s *Service) ListEvents(ctx context.Context, req *models.ListEventsRequest) (*models.EventListResponse, error) {
	s.logger.Info("ListEvents: user=%d, range=%s..%s, role=%s",
		req.UserID, req.DateFrom.Format(domain.DateFormat), req.DateTo.Format(domain.DateFormat), req.Role)

	role := req.Role
	if role == "" {
		role = models.RoleAll
	}
	if err := validateListRequest(req, role); err != nil {
		s.logger.Warn("ListEvents: validation failed: %v", err)
		return nil, err
	}

	// Справочник опрашивается до транзакции
	var providerIDs []int64
	if role == models.RoleAll || role == models.RoleProvider {
		providers, err := s.directory.ListByOwner(ctx, req.UserID)
		if err != nil {
			s.logger.Error("ListEvents: failed to list providers of user=%d: %v", req.UserID, err)
			return nil, fmt.Errorf("%w: ListEvents - failed to list user providers: %v", ErrInternal, err)
		}
		for _, p := range providers {
			providerIDs = append(providerIDs, p.ID)
		}
	}

	now := s.timeProvider.Now()
	var events []models.CalendarEvent

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		events = events[:0]

		if err := s.holdRepo.DeleteExpired(txCtx, now); err != nil {
			s.logger.Error("ListEvents: failed to purge expired holds: %v", err)
			return fmt.Errorf("%w: ListEvents - failed to purge expired holds: %v", ErrInternal, err)
		}

		seenBookings := make(map[int64]bool)

		if role == models.RoleAll || role == models.RoleOwner {
			owned, err := s.bookingRepo.ListByOwnerAndRange(txCtx, req.UserID, req.DateFrom, req.DateTo)
			if err != nil {
				s.logger.Error("ListEvents: failed to list owned bookings: %v", err)
				return fmt.Errorf("%w: ListEvents - failed to list owned bookings: %v", ErrInternal, err)
			}
			for _, b := range owned {
				seenBookings[b.ID] = true
				events = append(events, bookingEvent(b, models.RoleOwner))
			}

			holds, err := s.holdRepo.ListByRequesterAndRange(txCtx, req.UserID, req.DateFrom, req.DateTo)
			if err != nil {
				s.logger.Error("ListEvents: failed to list holds: %v", err)
				return fmt.Errorf("%w: ListEvents - failed to list holds: %v", ErrInternal, err)
			}
			for _, h := range holds {
				events = append(events, holdEvent(h))
			}
		}

		if len(providerIDs) > 0 {
			provided, err := s.bookingRepo.ListByProvidersAndRange(txCtx, providerIDs, req.DateFrom, req.DateTo)
			if err != nil {
				s.logger.Error("ListEvents: failed to list provider bookings: %v", err)
				return fmt.Errorf("%w: ListEvents - failed to list provider bookings: %v", ErrInternal, err)
			}
			for _, b := range provided {
				if seenBookings[b.ID] {
					continue
				}
				events = append(events, bookingEvent(b, models.RoleProvider))
			}

			blackoutList, err := s.blackoutRepo.ListByProvidersAndRange(txCtx, providerIDs, req.DateFrom, req.DateTo)
			if err != nil {
				s.logger.Error("ListEvents: failed to list blackouts: %v", err)
				return fmt.Errorf("%w: ListEvents - failed to list blackouts: %v", ErrInternal, err)
			}
			for _, b := range blackoutList {
				events = append(events, blackoutEvent(b))
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sortEvents(events)

	s.logger.Info("ListEvents: successfully collected %d events for user=%d", len(events), req.UserID)

	return &models.EventListResponse{
		DateFrom: req.DateFrom.Format(domain.DateFormat),
		DateTo:   req.DateTo.Format(domain.DateFormat),
		Events:   events,
	}, nil
}

// Вспомогательные методы

func bookingEvent(b *domain.Booking, role string) models.CalendarEvent {
	title := fmt.Sprintf("Booking: %s", b.PetName)
	if role == models.RoleProvider {
		title = fmt.Sprintf("Client booking: %s", b.PetName)
	}
	return models.CalendarEvent{
		ID:         fmt.Sprintf("cal_booking_%d", b.ID),
		Type:       models.EventTypeBooking,
		Role:       role,
		Title:      title,
		Subtitle:   b.Note,
		Date:       b.BookingDate.Format(domain.DateFormat),
		TimeSlot:   b.TimeSlot.String(),
		Status:     string(b.Status),
		ProviderID: b.ProviderID,
		BookingID:  b.ID,
	}
}

func holdEvent(h *domain.Hold) models.CalendarEvent {
	return models.CalendarEvent{
		ID:         fmt.Sprintf("cal_hold_%d", h.ID),
		Type:       models.EventTypeHold,
		Role:       models.RoleOwner,
		Title:      "Pending checkout",
		Subtitle:   fmt.Sprintf("Held until %s", h.ExpiresAt.Format("15:04")),
		Date:       h.SlotDate.Format(domain.DateFormat),
		TimeSlot:   h.TimeSlot.String(),
		ProviderID: h.ProviderID,
	}
}

func blackoutEvent(b *domain.Blackout) models.CalendarEvent {
	return models.CalendarEvent{
		ID:         fmt.Sprintf("cal_blackout_%d", b.ID),
		Type:       models.EventTypeBlackout,
		Role:       models.RoleProvider,
		Title:      "Blocked slot",
		Subtitle:   b.Reason,
		Date:       b.SlotDate.Format(domain.DateFormat),
		TimeSlot:   b.TimeSlot.String(),
		ProviderID: b.ProviderID,
	}
}

// sortEvents упорядочивает события: дата, время слота, тип, ID
func sortEvents(events []models.CalendarEvent) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		if events[i].TimeSlot != events[j].TimeSlot {
			return events[i].TimeSlot < events[j].TimeSlot
		}
		if eventTypeOrder[events[i].Type] != eventTypeOrder[events[j].Type] {
			return eventTypeOrder[events[i].Type] < eventTypeOrder[events[j].Type]
		}
		return events[i].ID < events[j].ID
	})
}

// validateListRequest валидирует запрос событий календаря
func validateListRequest(req *models.ListEventsRequest, role string) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if !models.IsValidRole(role) {
		return fmt.Errorf("%w: invalid role %q", ErrInvalidInput, req.Role)
	}
	if req.DateFrom.IsZero() || req.DateTo.IsZero() {
		return fmt.Errorf("%w: dateFrom and dateTo are required", ErrInvalidDateRange)
	}
	if req.DateTo.Before(req.DateFrom) {
		return fmt.Errorf("%w: dateTo is before dateFrom", ErrInvalidDateRange)
	}
	if int(req.DateTo.Sub(req.DateFrom).Hours()/24) > maxRangeDays {
		return fmt.Errorf("%w: range must be at most %d days", ErrInvalidDateRange, maxRangeDays)
	}
	return nil
}
