package service

import (
	"context"

	"hotelsync/internal/app/review-sync/entity"
)

// SyncServiceInterface определяет интерфейс движка синхронизации
type SyncServiceInterface interface {
	// SyncIntegration выполняет одну полную синхронизацию интеграции:
	// гейт -> блокировка -> скрапинг -> нормализация -> дедупликация ->
	// сохранение -> обновление статуса -> уведомление.
	// ErrSyncInProgress, если синхронизация этой интеграции уже идет.
	SyncIntegration(ctx context.Context, integration *entity.Integration) (*entity.SyncResult, error)
}

// IntegrationServiceInterface определяет интерфейс управления интеграциями
type IntegrationServiceInterface interface {
	// SetupIntegration создает интеграцию в статусе pending;
	// при req.SyncNow сразу выполняет первую синхронизацию
	SetupIntegration(ctx context.Context, req *entity.SetupIntegrationRequest) (*entity.Integration, error)
	// SyncNow запускает синхронизацию вне расписания; единственный путь,
	// на котором ошибка синхронизации возвращается вызывающему
	SyncNow(ctx context.Context, integrationID string) (*entity.SyncResult, error)
	// GetIntegration получает интеграцию по ID
	GetIntegration(ctx context.Context, integrationID string) (*entity.Integration, error)
	// ListIntegrations получает интеграции отеля
	ListIntegrations(ctx context.Context, hotelID string) ([]entity.Integration, error)
	// UpdateIntegration изменяет настройки и/или статус интеграции
	UpdateIntegration(ctx context.Context, integrationID string, req *entity.UpdateIntegrationRequest) (*entity.Integration, error)
	// DeleteIntegration удаляет интеграцию вместе с ее отзывами
	DeleteIntegration(ctx context.Context, integrationID string) error
	// ListReviews получает сохраненные отзывы отеля, новые сверху
	ListReviews(ctx context.Context, hotelID string, platform entity.Platform, limit int) ([]entity.Review, error)
}

// ScraperClient определяет интерфейс внешнего провайдера скрапинга.
// При rate limit со стороны площадки провайдер обязан вернуть ошибку
// с текстом "Rate limit exceeded" - по этой подстроке оркестратор
// отличает rate limit от остальных сбоев.
type ScraperClient interface {
	// Run запускает скрапинг отзывов страницы url на площадке platform
	Run(ctx context.Context, platform entity.Platform, url string, cfg entity.ScrapeConfig) ([]entity.RawReview, error)
}
