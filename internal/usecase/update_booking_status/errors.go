package update_booking_status

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking_status: booking not found")

	// ErrBookingTerminal возвращается при попытке перевести бронирование
	// из терминального статуса
	ErrBookingTerminal = errors.New("update_booking_status: booking is already terminal")

	// ErrInvalidTransition возвращается, когда перехода нет в таблице
	// допустимых переходов для текущего статуса
	ErrInvalidTransition = errors.New("update_booking_status: invalid status transition")

	// ErrPermissionDenied возвращается, когда актор не имеет права
	// применить целевой статус
	ErrPermissionDenied = errors.New("update_booking_status: actor is not allowed to apply this status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking_status: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking_status: internal error")
)
