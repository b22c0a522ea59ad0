package providerdirectory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент справочника провайдеров.
// Движок бронирований не хранит каталог сам: существование, владелец,
// категория, район и рейтинг провайдера берутся отсюда
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента ProviderDirectory
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetProvider получает провайдера по ID
func (c *Client) GetProvider(ctx context.Context, providerID int64) (*Provider, error) {
	endpoint := fmt.Sprintf("%s/internal/providers/%d", c.baseURL, providerID)

	var provider Provider
	if err := c.getJSON(ctx, endpoint, &provider); err != nil {
		return nil, err
	}
	return &provider, nil
}

// ListActive возвращает активных провайдеров категории, отранжированных
// справочником по рейтингу и числу отзывов (лучшие первыми).
// Пустой suburb снимает фильтр по району
func (c *Client) ListActive(ctx context.Context, category, suburb string) ([]*Provider, error) {
	params := url.Values{}
	params.Set("status", "active")
	params.Set("category", category)
	if suburb != "" {
		params.Set("suburb", suburb)
	}
	endpoint := fmt.Sprintf("%s/internal/providers?%s", c.baseURL, params.Encode())

	providers := make([]*Provider, 0)
	if err := c.getJSON(ctx, endpoint, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

// ListByOwner возвращает провайдеров, принадлежащих пользователю
func (c *Client) ListByOwner(ctx context.Context, ownerUserID int64) ([]*Provider, error) {
	endpoint := fmt.Sprintf("%s/internal/users/%d/providers", c.baseURL, ownerUserID)

	providers := make([]*Provider, 0)
	if err := c.getJSON(ctx, endpoint, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return ErrProviderNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
