package create_hold

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("create_hold: provider not found")

	// ErrInvalidTimeSlot возвращается, когда времени нет в дневном наборе слотов
	ErrInvalidTimeSlot = errors.New("create_hold: time slot not available")

	// ErrBookingCutoff возвращается, когда до начала слота осталось
	// меньше минимального lead time
	ErrBookingCutoff = errors.New("create_hold: booking cutoff applies for this slot")

	// ErrSlotBlocked возвращается, когда слот занят блэкаутом, активным
	// бронированием или чужим (либо собственным непогашенным) холдом
	ErrSlotBlocked = errors.New("create_hold: time slot unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_hold: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_hold: internal error")
)
