package quotes

import "errors"

var (
	// ErrRequestNotFound возвращается, когда запрос котировок не найден
	ErrRequestNotFound = errors.New("quote request not found")

	// ErrTargetNotFound возвращается, когда провайдер не входит в запрос
	ErrTargetNotFound = errors.New("quote target not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyResponded возвращается при повторном ответе по цели:
	// покинув pending, цель больше не принимает ответов
	ErrAlreadyResponded = errors.New("quote target already responded")

	// ErrInvalidDecision возвращается при неизвестном решении провайдера
	ErrInvalidDecision = errors.New("invalid quote decision")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
