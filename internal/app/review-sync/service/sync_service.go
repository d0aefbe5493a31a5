package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelsync/internal/app/review-sync/adapter"
	"hotelsync/internal/app/review-sync/entity"
	"hotelsync/internal/app/review-sync/infrastructure"
	"hotelsync/internal/app/review-sync/repository"
	"hotelsync/pkg/logger"
	"hotelsync/pkg/metrics"

	"github.com/google/uuid"
)

var (
	// ErrSyncInProgress возвращается, когда single-flight блокировка интеграции занята
	ErrSyncInProgress = errors.New("sync already in progress for this integration")
)

// Код ошибки по умолчанию, когда провайдер не сообщил свой
const errorCodeSyncFailed = "SYNC_FAILED"

// SyncService - оркестратор синхронизации.
// Проводит одну интеграцию через полный цикл: скрапинг, нормализация,
// дедупликация, сохранение, обновление статуса, уведомление владельца.
type SyncService struct {
	integrationRepo repository.IntegrationRepository
	reviewRepo      repository.ReviewRepository
	hotelRepo       repository.HotelRepository
	lockRepo        repository.SyncLockRepository
	scraper         ScraperClient
	adapters        *adapter.Registry
	publisher       infrastructure.MessagePublisher
	gate            *SyncGate
}

// NewSyncService создает оркестратор синхронизации с внедрением зависимостей
func NewSyncService(
	integrationRepo repository.IntegrationRepository,
	reviewRepo repository.ReviewRepository,
	hotelRepo repository.HotelRepository,
	lockRepo repository.SyncLockRepository,
	scraper ScraperClient,
	adapters *adapter.Registry,
	publisher infrastructure.MessagePublisher,
	gate *SyncGate,
) *SyncService {
	return &SyncService{
		integrationRepo: integrationRepo,
		reviewRepo:      reviewRepo,
		hotelRepo:       hotelRepo,
		lockRepo:        lockRepo,
		scraper:         scraper,
		adapters:        adapters,
		publisher:       publisher,
		gate:            gate,
	}
}

// SyncIntegration выполняет одну синхронизацию интеграции.
// Гейт ограничивает одновременные синхронизации на весь процесс, поэтому
// и плановые, и ручные запуски проходят через этот метод. Блокировка в Redis
// не дает двум запускам одной интеграции идти параллельно.
func (s *SyncService) SyncIntegration(ctx context.Context, integration *entity.Integration) (*entity.SyncResult, error) {
	if err := s.gate.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("failed to enter sync gate: %w", err)
	}
	defer s.gate.Release()

	integrationID := integration.ID.Hex()

	acquired, err := s.lockRepo.Acquire(ctx, integrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	if !acquired {
		metrics.SyncsTotal.WithLabelValues(string(integration.Platform), metrics.SyncResultSkipped).Inc()
		return nil, ErrSyncInProgress
	}
	defer func() {
		// Release на не отмененном контексте: упавший или прерванный sync
		// все равно должен отпустить блокировку, TTL - только страховка
		if err := s.lockRepo.Release(context.WithoutCancel(ctx), integrationID); err != nil {
			logger.Warn().Err(err).Str("integration_id", integrationID).Msg("failed to release sync lock")
		}
	}()

	timer := metrics.NewSyncTimer(string(integration.Platform))

	result, err := s.runSync(ctx, integration)
	if err != nil {
		if isRateLimitError(err) {
			timer.Observe(metrics.SyncResultRateLimited)
		} else {
			timer.Observe(metrics.SyncResultError)
		}
		return nil, err
	}

	timer.Observe(metrics.SyncResultSuccess)
	return result, nil
}

// runSync - тело одной синхронизации, уже под гейтом и блокировкой
func (s *SyncService) runSync(ctx context.Context, integration *entity.Integration) (*entity.SyncResult, error) {
	log := logger.WithSync(integration.ID.Hex(), integration.HotelID, string(integration.Platform))
	firstSync := integration.IsFirstSync()

	hotelID, err := uuid.Parse(integration.HotelID)
	if err != nil {
		return nil, s.markFailure(ctx, integration, fmt.Errorf("invalid hotel id %q: %w", integration.HotelID, err))
	}

	hotel, err := s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		return nil, s.markFailure(ctx, integration, fmt.Errorf("failed to resolve hotel: %w", err))
	}

	// Watermark: дата самого свежего сохраненного отзыва пары (hotel, platform).
	// При первой синхронизации его нет - скрапим всю историю.
	var watermark *time.Time
	if !firstSync {
		watermark, err = s.reviewRepo.LatestReviewDate(ctx, integration.HotelID, integration.Platform)
		if err != nil {
			return nil, s.markFailure(ctx, integration, fmt.Errorf("failed to load watermark: %w", err))
		}
	}

	cfg := entity.ScrapeConfig{
		Language:   integration.SyncConfig.Language,
		MaxReviews: integration.SyncConfig.MaxReviews,
		StartDate:  watermark,
	}

	raws, err := s.scraper.Run(ctx, integration.Platform, integration.URL, cfg)
	if err != nil {
		metrics.RecordScraperError(string(integration.Platform), isRateLimitError(err))
		// Ошибку скрапера передаем без обертки: ее текст попадает
		// в sync_config.error.message как есть
		return nil, s.markFailure(ctx, integration, err)
	}

	log.Info().Int("fetched", len(raws)).Bool("first_sync", firstSync).Msg("scraper returned raw reviews")

	platformAdapter, err := s.adapters.Get(integration.Platform)
	if err != nil {
		return nil, s.markFailure(ctx, integration, err)
	}

	newCount := 0
	var latestDate time.Time

	for _, raw := range raws {
		normalized, err := platformAdapter.Normalize(raw)
		if err != nil {
			// Одна кривая запись не должна ронять весь батч
			log.Warn().Err(err).Msg("skipping malformed raw review")
			metrics.RecordSkipped(string(integration.Platform), metrics.SkipReasonNormalize)
			continue
		}

		// Защитный фильтр поверх StartDate: провайдер может игнорировать
		// server-side фильтрацию. Берем только строго новее watermark.
		if watermark != nil && !normalized.Date.After(*watermark) {
			metrics.RecordSkipped(string(integration.Platform), metrics.SkipReasonBeforeWatermark)
			continue
		}

		inserted, err := s.persistReview(ctx, integration, normalized)
		if err != nil {
			log.Error().Err(err).Str("external_review_id", normalized.ExternalID).Msg("failed to persist review, skipping")
			metrics.RecordSkipped(string(integration.Platform), metrics.SkipReasonPersist)
			continue
		}
		if !inserted {
			metrics.RecordSkipped(string(integration.Platform), metrics.SkipReasonDuplicate)
			continue
		}

		newCount++
		if normalized.Date.After(latestDate) {
			latestDate = normalized.Date
		}
	}

	now := time.Now().UTC()

	integration.Status = entity.IntegrationStatusActive
	integration.SyncConfig.LastSync = &now
	integration.SyncConfig.Error = nil
	if integration.SyncConfig.Type == entity.SyncTypeAutomatic {
		next := integration.SyncConfig.Frequency.NextSyncTime(now)
		integration.SyncConfig.NextScheduledSync = &next
	} else {
		// next_scheduled_sync имеет смысл только для автоматических интеграций
		integration.SyncConfig.NextScheduledSync = nil
	}

	integration.Stats.TotalReviews += newCount
	integration.Stats.SyncedReviews += newCount
	if !latestDate.IsZero() {
		if integration.Stats.LastSyncedReviewDate == nil || latestDate.After(*integration.Stats.LastSyncedReviewDate) {
			integration.Stats.LastSyncedReviewDate = &latestDate
		}
	}

	if err := s.integrationRepo.Update(ctx, integration); err != nil {
		return nil, fmt.Errorf("failed to update integration after sync: %w", err)
	}

	metrics.RecordIngested(string(integration.Platform), newCount)

	// Уведомляем владельца о новых отзывах и о первой завершенной синхронизации
	if newCount > 0 || firstSync {
		s.notifyOwner(ctx, integration, hotel, newCount, firstSync)
	}

	log.Info().Int("new_reviews", newCount).Int("fetched", len(raws)).Msg("sync completed")

	return &entity.SyncResult{
		IntegrationID: integration.ID.Hex(),
		Platform:      string(integration.Platform),
		Fetched:       len(raws),
		NewReviews:    newCount,
		FirstSync:     firstSync,
	}, nil
}

// persistReview выполняет идемпотентную вставку одного отзыва.
// false без ошибки означает, что отзыв уже хранится.
func (s *SyncService) persistReview(ctx context.Context, integration *entity.Integration, normalized *entity.NormalizedReview) (bool, error) {
	exists, err := s.reviewRepo.ExistsByExternalID(ctx, integration.HotelID, integration.Platform, normalized.ExternalID)
	if err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}
	if exists {
		return false, nil
	}

	review := &entity.Review{
		HotelID:          integration.HotelID,
		Platform:         integration.Platform,
		ExternalReviewID: normalized.ExternalID,
		Content: entity.ReviewContent{
			Text:          normalized.Text,
			Rating:        normalized.Rating,
			RatingScale:   normalized.RatingScale,
			ReviewerName:  normalized.ReviewerName,
			ReviewerImage: normalized.ReviewerImage,
			Language:      normalized.Language,
			Images:        normalized.Images,
			Likes:         normalized.Likes,
			OriginalURL:   normalized.OriginalURL,
		},
		Metadata: entity.ReviewMetadata{
			OriginalCreatedAt: normalized.Date,
			SyncedAt:          time.Now().UTC(),
			Extra:             normalized.Extra,
		},
	}

	if err := s.reviewRepo.Insert(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewExists) {
			// Гонка с конкурентным писателем: уникальный индекс отработал,
			// отзыв уже в хранилище
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// markFailure классифицирует ошибку синхронизации и обновляет статус интеграции.
// Rate limit со стороны площадки переводит интеграцию в disconnected -
// автоматика останавливается до ручной реактивации. Любая другая ошибка
// дает error: интеграция останется в выборке планировщика и повторится
// на следующем тике своей периодичности.
func (s *SyncService) markFailure(ctx context.Context, integration *entity.Integration, cause error) error {
	if isRateLimitError(cause) {
		integration.Status = entity.IntegrationStatusDisconnected
	} else {
		integration.Status = entity.IntegrationStatusError
	}

	integration.SyncConfig.Error = &entity.SyncError{
		Message:   cause.Error(),
		Code:      providerErrorCode(cause),
		Timestamp: time.Now().UTC(),
	}

	if err := s.integrationRepo.Update(ctx, integration); err != nil {
		logger.Error().Err(err).Str("integration_id", integration.ID.Hex()).Msg("failed to persist sync failure state")
	}

	return cause
}

// notifyOwner публикует событие о новых отзывах. Fire-and-forget:
// сбой публикации логируется и не влияет на результат синхронизации.
func (s *SyncService) notifyOwner(ctx context.Context, integration *entity.Integration, hotel *entity.Hotel, newCount int, firstSync bool) {
	event := entity.ReviewsSyncedEvent{
		EventType:  entity.EventTypeReviewsSynced,
		HotelID:    integration.HotelID,
		HotelName:  hotel.Name,
		OwnerEmail: hotel.OwnerEmail,
		Platform:   integration.Platform,
		NewReviews: newCount,
		FirstSync:  firstSync,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal reviews synced event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, integration.HotelID, payload); err != nil {
		logger.Warn().Err(err).
			Str("integration_id", integration.ID.Hex()).
			Msg("failed to publish reviews synced event")
	}
}

// containsRateLimitMarker проверяет текст на маркер rate limit
func containsRateLimitMarker(message string) bool {
	return strings.Contains(message, rateLimitMarker)
}

// isRateLimitError классифицирует ошибку по подстроке в сообщении
func isRateLimitError(err error) bool {
	return err != nil && containsRateLimitMarker(err.Error())
}

// providerErrorCode возвращает код ошибки провайдера или общий fallback
func providerErrorCode(err error) string {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Code
	}
	if isRateLimitError(err) {
		return ErrorCodeRateLimited
	}
	return errorCodeSyncFailed
}
