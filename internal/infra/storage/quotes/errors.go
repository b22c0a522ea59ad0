package quotes

import "errors"

var (
	// ErrRequestNotFound возвращается, когда запрос котировок не найден
	ErrRequestNotFound = errors.New("quotes.repository: quote request not found")

	// ErrTargetNotFound возвращается, когда цель запроса не найдена
	ErrTargetNotFound = errors.New("quotes.repository: quote target not found")

	// ErrTargetExists возвращается при повторном добавлении провайдера
	// в один запрос (уникальность quote_request_id + provider_id)
	ErrTargetExists = errors.New("quotes.repository: quote target already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("quotes.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("quotes.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("quotes.repository: failed to scan row")
)
