package blackouts

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден в справочнике
	ErrProviderNotFound = errors.New("provider not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец провайдера
	ErrAccessDenied = errors.New("access denied")

	// ErrBlackoutExists возвращается при повторном блэкауте на тот же слот
	ErrBlackoutExists = errors.New("blackout already exists for this slot")

	// ErrSlotBooked возвращается, когда слот занят активным бронированием
	ErrSlotBooked = errors.New("slot is occupied by an active booking")

	// ErrInvalidTimeSlot возвращается, когда время не входит в дневной набор слотов
	ErrInvalidTimeSlot = errors.New("time slot is not in the daily slot set")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
