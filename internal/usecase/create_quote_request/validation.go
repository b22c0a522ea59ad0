package create_quote_request

import (
	"fmt"
	"strings"

	"github.com/pawmates/PSV-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if !domain.IsValidCategory(req.Category) {
		return fmt.Errorf("%w: invalid category, allowed: %s, %s",
			ErrInvalidInput, domain.CategoryDogWalking, domain.CategoryGrooming)
	}

	if strings.TrimSpace(req.Suburb) == "" {
		return fmt.Errorf("%w: suburb is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.PreferredWindow) == "" {
		return fmt.Errorf("%w: preferredWindow is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.PetDetails) == "" {
		return fmt.Errorf("%w: petDetails are required", ErrInvalidInput)
	}

	if req.MaxTargets < 0 {
		return fmt.Errorf("%w: maxTargets must not be negative", ErrInvalidInput)
	}

	return nil
}
