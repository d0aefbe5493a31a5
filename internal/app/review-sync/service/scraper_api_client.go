package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"hotelsync/internal/app/review-sync/entity"
)

// Маркер rate limit в тексте ошибки провайдера.
// Классификация по подстроке сознательно простая: провайдер не отдает
// машиночитаемых кодов, а смена формата его ошибок ломает только
// различение rate limit / generic, не сам sync.
const rateLimitMarker = "Rate limit exceeded"

// Коды ошибок провайдера для sync_config.error
const (
	ErrorCodeRateLimited  = "RATE_LIMITED"
	ErrorCodeScraperError = "SCRAPER_ERROR"
)

// ProviderError - ошибка внешнего скрапера с кодом для sync_config.error
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// ScraperAPIClient реализует ScraperClient поверх HTTP API внешнего провайдера.
// Отвечает только за запросы к провайдеру, нормализацией занимаются адаптеры.
type ScraperAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewScraperAPIClient создает новый HTTP клиент скрапера.
// Таймаут ограничивает весь запуск скрапера: без него зависший скрапинг
// держал бы слот гейта бесконечно.
func NewScraperAPIClient(baseURL, apiKey string, timeout time.Duration) *ScraperAPIClient {
	return &ScraperAPIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// scrapeRequest - тело запроса к API скрапера
type scrapeRequest struct {
	Platform string              `json:"platform"`
	URL      string              `json:"url"`
	Config   entity.ScrapeConfig `json:"config"`
}

// scrapeResponse - ответ API скрапера
type scrapeResponse struct {
	Reviews []entity.RawReview `json:"reviews"`
	Error   string             `json:"error,omitempty"`
}

// Run запускает скрапинг отзывов и возвращает сырые записи площадки
func (c *ScraperAPIClient) Run(ctx context.Context, platform entity.Platform, url string, cfg entity.ScrapeConfig) ([]entity.RawReview, error) {
	payload, err := json.Marshal(scrapeRequest{
		Platform: string(platform),
		URL:      url,
		Config:   cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scrape/reviews", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute scrape request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read scraper response: %w", err)
	}

	// 429 от провайдера означает rate limit на целевой площадке
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &ProviderError{
			Code:    ErrorCodeRateLimited,
			Message: fmt.Sprintf("%s: scraper provider throttled platform %s", rateLimitMarker, platform),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			Code:    ErrorCodeScraperError,
			Message: fmt.Sprintf("scraper returned status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var apiResponse scrapeResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scraper response: %w", err)
	}

	// Провайдер может вернуть 200 с ошибкой в теле (включая rate limit площадки)
	if apiResponse.Error != "" {
		code := ErrorCodeScraperError
		if containsRateLimitMarker(apiResponse.Error) {
			code = ErrorCodeRateLimited
		}
		return nil, &ProviderError{Code: code, Message: apiResponse.Error}
	}

	return apiResponse.Reviews, nil
}
