package update_booking_status

import (
	"fmt"

	"github.com/pawmates/PSV-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.ActorUserID <= 0 {
		return fmt.Errorf("%w: actorUserID must be positive", ErrInvalidInput)
	}

	// none псевдо-статус первой записи истории и в IsValid не входит
	nextStatus := domain.BookingStatus(req.NextStatus)
	if !nextStatus.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.NextStatus)
	}

	if req.Note != nil && len(*req.Note) > domain.MaxNoteLength {
		return fmt.Errorf("%w: note must be at most %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}

	return nil
}
