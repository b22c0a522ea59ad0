package blackouts

import "errors"

var (
	// ErrBlackoutExists возвращается при попытке создать второй блэкаут
	// на тот же слот (уникальность provider_id + slot_date + time_slot)
	ErrBlackoutExists = errors.New("blackouts.repository: blackout already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("blackouts.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("blackouts.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("blackouts.repository: failed to scan row")
)
