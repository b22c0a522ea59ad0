package create_quote_request

import "errors"

var (
	// ErrNoProvidersFound возвращается, когда подходящих провайдеров нет
	// даже после отката к поиску только по категории
	ErrNoProvidersFound = errors.New("create_quote_request: no matching providers found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_quote_request: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_quote_request: internal error")
)
