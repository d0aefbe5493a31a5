package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hotelsync/internal/app/review-sync/adapter"
	"hotelsync/internal/app/review-sync/entity"
	"hotelsync/internal/app/review-sync/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testHotelID = "5b7f3c1e-8d14-4a14-9c36-2f7a9f6f1234"

func testIntegration(platform entity.Platform, syncType entity.SyncType, frequency entity.SyncFrequency) *entity.Integration {
	return &entity.Integration{
		ID:       primitive.NewObjectID(),
		HotelID:  testHotelID,
		Platform: platform,
		PlaceID:  "place-123",
		URL:      "https://maps.google.com/place-123",
		Status:   entity.IntegrationStatusPending,
		SyncConfig: entity.IntegrationSyncConfig{
			Type:       syncType,
			Frequency:  frequency,
			Language:   "en",
			MaxReviews: 100,
		},
	}
}

func testHotel() *entity.Hotel {
	return &entity.Hotel{
		ID:         uuid.MustParse(testHotelID),
		Name:       "Grand Plaza",
		OwnerEmail: "owner@grandplaza.example",
	}
}

func googleRaw(id string, date time.Time) entity.RawReview {
	return entity.RawReview{
		"review_id":     id,
		"text":          "Great stay, friendly staff",
		"rating":        4.5,
		"reviewer_name": "Alice",
		"language":      "en",
		"published_at":  date.Format(time.RFC3339),
	}
}

type syncServiceFixture struct {
	integrationRepo *mocks.MockIntegrationRepository
	reviewRepo      *mocks.MockReviewRepository
	hotelRepo       *mocks.MockHotelRepository
	lockRepo        *mocks.MockSyncLockRepository
	scraper         *mocks.MockScraperClient
	publisher       *mocks.MockMessagePublisher
	svc             *SyncService
}

func newSyncServiceFixture() *syncServiceFixture {
	f := &syncServiceFixture{
		integrationRepo: new(mocks.MockIntegrationRepository),
		reviewRepo:      new(mocks.MockReviewRepository),
		hotelRepo:       new(mocks.MockHotelRepository),
		lockRepo:        new(mocks.MockSyncLockRepository),
		scraper:         new(mocks.MockScraperClient),
		publisher:       new(mocks.MockMessagePublisher),
	}
	f.svc = NewSyncService(
		f.integrationRepo,
		f.reviewRepo,
		f.hotelRepo,
		f.lockRepo,
		f.scraper,
		adapter.NewRegistry(),
		f.publisher,
		NewSyncGate(5),
	)
	return f
}

func (f *syncServiceFixture) expectLock(integrationID string) {
	f.lockRepo.On("Acquire", mock.Anything, integrationID).Return(true, nil)
	// Release идет на context.WithoutCancel, поэтому матчим любой контекст
	f.lockRepo.On("Release", mock.Anything, integrationID).Return(nil)
}

// ===================== SyncIntegration Tests =====================

func TestSyncIntegration_FirstSync_Success(t *testing.T) {
	// Arrange
	f := newSyncServiceFixture()
	ctx := context.Background()
	integration := testIntegration(entity.PlatformGoogle, entity.SyncTypeAutomatic, entity.SyncFrequencyWeekly)

	raws := make([]entity.RawReview, 0, 10)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		raws = append(raws, googleRaw(fmt.Sprintf("g-%d", i), base.AddDate(0, 0, i)))
	}

	f.expectLock(integration.ID.Hex())
	f.hotelRepo.On("GetByID", ctx, uuid.MustParse(testHotelID)).Return(testHotel(), nil)
	f.scraper.On("Run", ctx, entity.PlatformGoogle, integration.URL, mock.Anything).Return(raws, nil)
	f.reviewRepo.On("ExistsByExternalID", ctx, testHotelID, entity.PlatformGoogle, mock.Anything).Return(false, nil)
	f.reviewRepo.On("Insert", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	f.integrationRepo.On("Update", ctx, integration).Return(nil)
	f.publisher.On("PublishMessage", ctx, testHotelID, mock.Anything).Return(nil)

	// Act
	result, err := f.svc.SyncIntegration(ctx, integration)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 10, result.Fetched)
	assert.Equal(t, 10, result.NewReviews)
	assert.True(t, result.FirstSync)

	assert.Equal(t, entity.IntegrationStatusActive, integration.Status)
	assert.NotNil(t, integration.SyncConfig.LastSync)
	assert.NotNil(t, integration.SyncConfig.NextScheduledSync)
	assert.Nil(t, integration.SyncConfig.Error)
	assert.Equal(t, 10, integration.Stats.TotalReviews)
	assert.Equal(t, 10, integration.Stats.SyncedReviews)

	// Первая синхронизация не читает watermark
	f.reviewRepo.AssertNotCalled(t, "LatestReviewDate", mock.Anything, mock.Anything, mock.Anything)
	f.publisher.AssertCalled(t, "PublishMessage", ctx, testHotelID, mock.Anything)
	f.reviewRepo.AssertNumberOfCalls(t, "Insert", 10)
}

func TestSyncIntegration_Incremental_WatermarkFilter(t *testing.T) {
	// Arrange: watermark D, скрапер вернул D-1, D, D+1, D+2.
	// Сохраниться должны только строго более новые: D+1 и D+2.
	f := newSyncServiceFixture()
	ctx := context.Background()
	integration := testIntegration(entity.PlatformGoogle, entity.SyncTypeAutomatic, entity.SyncFrequencyDaily)
	lastSync := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	integration.SyncConfig.LastSync = &lastSync
	integration.Status = entity.IntegrationStatusActive
	integration.Stats = entity.IntegrationStats{TotalReviews: 5, SyncedReviews: 5}

	watermark := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	raws := []entity.RawReview{
		googleRaw("g-old", watermark.AddDate(0, 0, -1)),
		googleRaw("g-same", watermark),
		googleRaw("g-new1", watermark.AddDate(0, 0, 1)),
		googleRaw("g-new2", watermark.AddDate(0, 0, 2)),
	}

	f.expectLock(integration.ID.Hex())
	f.hotelRepo.On("GetByID", ctx, uuid.MustParse(testHotelID)).Return(testHotel(), nil)
	f.reviewRepo.On("LatestReviewDate", ctx, testHotelID, entity.PlatformGoogle).Return(&watermark, nil)
	f.scraper.On("Run", ctx, entity.PlatformGoogle, integration.URL, mock.MatchedBy(func(cfg entity.ScrapeConfig) bool {
		return cfg.StartDate != nil && cfg.StartDate.Equal(watermark)
	})).Return(raws, nil)
	f.reviewRepo.On("ExistsByExternalID", ctx, testHotelID, entity.PlatformGoogle, mock.Anything).Return(false, nil)
	f.reviewRepo.On("Insert", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	f.integrationRepo.On("Update", ctx, integration).Return(nil)
	f.publisher.On("PublishMessage", ctx, testHotelID, mock.Anything).Return(nil)

	// Act
	result, err := f.svc.SyncIntegration(ctx, integration)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 4, result.Fetched)
	assert.Equal(t, 2, result.NewReviews)
	assert.False(t, result.FirstSync)
	assert.Equal(t, 7, integration.Stats.TotalReviews)
	assert.Equal(t, 7, integration.Stats.SyncedReviews)
	assert.NotNil(t, integration.Stats.LastSyncedReviewDate)
	assert.True(t, integration.Stats.LastSyncedReviewDate.Equal(watermark.AddDate(0, 0, 2)))

	f.reviewRepo.AssertNumberOfCalls(t, "Insert", 2)
	f.reviewRepo.AssertNotCalled(t, "ExistsByExternalID", ctx, testHotelID, entity.PlatformGoogle, "g-old")
	f.reviewRepo.AssertNotCalled(t, "ExistsByExternalID", ctx, testHotelID, entity.PlatformGoogle, "g-same")
}

func TestSyncIntegration_Idempotent_RepeatSkipsStored(t *testing.T) {
	// Arrange: все вернувшиеся отзывы уже в хранилище
	f := newSyncServiceFixture()
	ctx := context.Background()
	integration := testIntegration(entity.PlatformGoogle, entity.SyncTypeAutomatic, entity.SyncFrequencyDaily)
	lastSync := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	integration.SyncConfig.LastSync = &lastSync
	integration.Status = entity.IntegrationStatusActive
	integration.Stats = entity.IntegrationStats{TotalReviews: 3, SyncedReviews: 3}

	raws := []entity.RawReview{
		googleRaw("g-1", time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)),
		googleRaw("g-2", time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)),
	}

	f.expectLock(integration.ID.Hex())
	f.hotelRepo.On("GetByID", ctx, uuid.MustParse(testHotelID)).Return(testHotel(), nil)
	f.reviewRepo.On("LatestReviewDate", ctx, testHotelID, entity.PlatformGoogle).Return(nil, nil)
	f.scraper.On("Run", ctx, entity.PlatformGoogle, integration.URL, mock.Anything).Return(raws, nil)
	f.reviewRepo.On("ExistsByExternalID", ctx, testHotelID, entity.PlatformGoogle, mock.Anything).Return(true, nil)
	f.integrationRepo.On("Update", ctx, integration).Return(nil)

	// Act
	result, err := f.svc.SyncIntegration(ctx, integration)

	// Assert: повтор не создает дубликатов и не меняет статистику
	assert.NoError(t, err)
	assert.Equal(t, 0, result.NewReviews)
	assert.Equal(t, entity.IntegrationStatusActive, integration.Status)
	assert.Equal(t, 3, integration.Stats.TotalReviews)
	assert.Equal(t, 3, integration.Stats.SyncedReviews)

	f.reviewRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncIntegration_ZeroNewReviews_StillSuccess(t *testing.T) {
	// Arrange: скрапер не вернул ничего нового
	f := newSyncServiceFixture()
	ctx := context.Background()
	integration := testIntegration(entity.PlatformGoogle, entity.SyncTypeAutomatic, entity.SyncFrequencyWeekly)
	lastSync := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	integration.SyncConfig.LastSync = &lastSync
	integration.Status = entity.IntegrationStatusError
	integration.SyncConfig.Error = &entity.SyncError{Message: "old failure", Code: "SYNC_FAILED", Timestamp: lastSync}
	integration.Stats = entity.IntegrationStats{TotalReviews: 42, SyncedReviews: 42}

	f.expectLock(integration.ID.Hex())
	f.hotelRepo.On("GetByID", ctx, uuid.MustParse(testHotelID)).Return(testHotel(), nil)
	f.reviewRepo.On("LatestReviewDate", ctx, testHotelID, entity.PlatformGoogle).Return(nil, nil)
	f.scraper.On("Run", ctx, entity.PlatformGoogle, integration.URL, mock.Anything).Return([]entity.RawReview{}, nil)
	f.integrationRepo.On("Update", ctx, integration).Return(nil)

	// Act
	result, err := f.svc.SyncIntegration(ctx, integration)

	// Assert: пустой результат - это успех, статус восстанавливается
	assert.NoError(t, err)
	assert.Equal(t, 0, result.Fetched)
	assert.Equal(t, 0, result.NewReviews)
	assert.Equal(t, entity.IntegrationStatusActive, integration.Status)
	assert.Nil(t, integration.SyncConfig.Error)
	assert.Equal(t, 42, integration.Stats.SyncedReviews)
	assert.NotNil(t, integration.SyncConfig.LastSync)
	assert.True(t, integration.SyncConfig.LastSync.After(lastSync))
}

func TestSyncIntegration_RateLimited_Disconnects(t *testing.T) {
	// Arrange
	f := newSyncServiceFixture()
	ctx := context.Background()
	integration := testIntegration(entity.PlatformBooking, entity.SyncTypeAutomatic, entity.SyncFrequencyDaily)

	providerErr := &ProviderError{
		Code:    ErrorCodeRateLimited,
		Message: "Rate limit exceeded: slow down",
	}

	f.expectLock(integration.ID.Hex())
	f.hotelRepo.On("GetByID", ctx, uuid.MustParse(testHotelID)).Return(testHotel(), nil)
	f.scraper.On("Run", ctx, entity.PlatformBooking, integration.URL, mock.Anything).Return(nil, providerErr)
	f.integrationRepo.On("Update", ctx, integration).Return(nil)

	// Act
	result, err := f.svc.SyncIntegration(ctx, integration)

	// Assert: rate limit переводит интеграцию в disconnected,
	// текст ошибки провайдера сохраняется дословно
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, entity.IntegrationStatusDisconnected, integration.Status)
	assert.NotNil(t, integration.SyncConfig.Error)
	assert.Equal(t, "Rate limit exceeded: slow down", integration.SyncConfig.Error.Message)
	assert.Equal(t, ErrorCodeRateLimited, integration.SyncConfig.Error.Code)

	f.publisher.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncIntegration_ScraperFailure_MarksError(t *testing.T) {
	// Arrange
	f := newSyncServiceFixture()
	ctx := context.Background()
	integration := testIntegration(entity.PlatformGoogle, entity.SyncTypeAutomatic, entity.SyncFrequencyDaily)

	f.expectLock(integration.ID.Hex())
	f.hotelRepo.On("GetByID", ctx, uuid.MustParse(testHotelID)).Return(testHotel(), nil)
	f.scraper.On("Run", ctx, entity.PlatformGoogle, integration.URL, mock.Anything).
		Return(nil, errors.New("network timeout"))
	f.integrationRepo.On("Update", ctx, integration).Return(nil)

	// Act
	result, err := f.svc.SyncIntegration(ctx, integration)

	// Assert: обычная ошибка дает error, не disconnected -
	// планировщик повторит попытку на следующем тике
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, entity.IntegrationStatusError, integration.Status)
	assert.Equal(t, "network timeout", integration.SyncConfig.Error.Message)
	assert.Equal(t, "SYNC_FAILED", integration.SyncConfig.Error.Code)
}

func TestSyncIntegration_PartialBatch_ContinuesOnItemFailure(t *testing.T) {
	// Arrange: вставка второго отзыва падает, остальные должны сохраниться
	f := newSyncServiceFixture()
	ctx := context.Background()
	integration := testIntegration(entity.PlatformGoogle, entity.SyncTypeAutomatic, entity.SyncFrequencyDaily)

	raws := []entity.RawReview{
		googleRaw("g-1", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)),
		googleRaw("g-2", time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)),
		googleRaw("g-3", time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)),
	}

	f.expectLock(integration.ID.Hex())
	f.hotelRepo.On("GetByID", ctx, uuid.MustParse(testHotelID)).Return(testHotel(), nil)
	f.scraper.On("Run", ctx, entity.PlatformGoogle, integration.URL, mock.Anything).Return(raws, nil)
	f.reviewRepo.On("ExistsByExternalID", ctx, testHotelID, entity.PlatformGoogle, mock.Anything).Return(false, nil)
	f.reviewRepo.On("Insert", ctx, mock.MatchedBy(func(r *entity.Review) bool {
		return r.ExternalReviewID == "g-2"
	})).Return(errors.New("write failed"))
	f.reviewRepo.On("Insert", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	f.integrationRepo.On("Update", ctx, integration).Return(nil)
	f.publisher.On("PublishMessage", ctx, testHotelID, mock.Anything).Return(nil)

	// Act
	result, err := f.svc.SyncIntegration(ctx, integration)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 2, result.NewReviews)
	assert.Equal(t, entity.IntegrationStatusActive, integration.Status)
}

func TestSyncIntegration_MalformedRawSkipped(t *testing.T) {
	// Arrange: запись без review_id не должна ронять батч
	f := newSyncServiceFixture()
	ctx := context.Background()
	integration := testIntegration(entity.PlatformGoogle, entity.SyncTypeAutomatic, entity.SyncFrequencyDaily)

	raws := []entity.RawReview{
		{"text": "no id here", "rating": 3.0},
		googleRaw("g-ok", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)),
	}

	f.expectLock(integration.ID.Hex())
	f.hotelRepo.On("GetByID", ctx, uuid.MustParse(testHotelID)).Return(testHotel(), nil)
	f.scraper.On("Run", ctx, entity.PlatformGoogle, integration.URL, mock.Anything).Return(raws, nil)
	f.reviewRepo.On("ExistsByExternalID", ctx, testHotelID, entity.PlatformGoogle, "g-ok").Return(false, nil)
	f.reviewRepo.On("Insert", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	f.integrationRepo.On("Update", ctx, integration).Return(nil)
	f.publisher.On("PublishMessage", ctx, testHotelID, mock.Anything).Return(nil)

	// Act
	result, err := f.svc.SyncIntegration(ctx, integration)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 1, result.NewReviews)
}

func TestSyncIntegration_LockBusy_ReturnsInProgress(t *testing.T) {
	// Arrange
	f := newSyncServiceFixture()
	ctx := context.Background()
	integration := testIntegration(entity.PlatformGoogle, entity.SyncTypeAutomatic, entity.SyncFrequencyDaily)

	f.lockRepo.On("Acquire", mock.Anything, integration.ID.Hex()).Return(false, nil)

	// Act
	result, err := f.svc.SyncIntegration(ctx, integration)

	// Assert: второй одновременный запуск той же интеграции отбрасывается
	assert.ErrorIs(t, err, ErrSyncInProgress)
	assert.Nil(t, result)
	f.scraper.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.lockRepo.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestSyncIntegration_ManualType_NoNextSchedule(t *testing.T) {
	// Arrange
	f := newSyncServiceFixture()
	ctx := context.Background()
	integration := testIntegration(entity.PlatformGoogle, entity.SyncTypeManual, entity.SyncFrequencyWeekly)

	f.expectLock(integration.ID.Hex())
	f.hotelRepo.On("GetByID", ctx, uuid.MustParse(testHotelID)).Return(testHotel(), nil)
	f.scraper.On("Run", ctx, entity.PlatformGoogle, integration.URL, mock.Anything).Return([]entity.RawReview{}, nil)
	f.integrationRepo.On("Update", ctx, integration).Return(nil)
	f.publisher.On("PublishMessage", ctx, testHotelID, mock.Anything).Return(nil)

	// Act
	_, err := f.svc.SyncIntegration(ctx, integration)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, entity.IntegrationStatusActive, integration.Status)
	assert.Nil(t, integration.SyncConfig.NextScheduledSync)
}

func TestSyncIntegration_PublishFailureIgnored(t *testing.T) {
	// Arrange: Kafka недоступна, синхронизация все равно успешна
	f := newSyncServiceFixture()
	ctx := context.Background()
	integration := testIntegration(entity.PlatformGoogle, entity.SyncTypeAutomatic, entity.SyncFrequencyDaily)

	raws := []entity.RawReview{googleRaw("g-1", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))}

	f.expectLock(integration.ID.Hex())
	f.hotelRepo.On("GetByID", ctx, uuid.MustParse(testHotelID)).Return(testHotel(), nil)
	f.scraper.On("Run", ctx, entity.PlatformGoogle, integration.URL, mock.Anything).Return(raws, nil)
	f.reviewRepo.On("ExistsByExternalID", ctx, testHotelID, entity.PlatformGoogle, "g-1").Return(false, nil)
	f.reviewRepo.On("Insert", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	f.integrationRepo.On("Update", ctx, integration).Return(nil)
	f.publisher.On("PublishMessage", ctx, testHotelID, mock.Anything).Return(errors.New("kafka unavailable"))

	// Act
	result, err := f.svc.SyncIntegration(ctx, integration)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 1, result.NewReviews)
}

// blockingScraper держит все запуски до закрытия release
// и считает пиковое число одновременных вызовов
type blockingScraper struct {
	release  chan struct{}
	inFlight atomic.Int64
	peak     atomic.Int64
}

func (s *blockingScraper) Run(ctx context.Context, platform entity.Platform, url string, cfg entity.ScrapeConfig) ([]entity.RawReview, error) {
	current := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	for {
		prev := s.peak.Load()
		if current <= prev || s.peak.CompareAndSwap(prev, current) {
			break
		}
	}

	<-s.release
	return []entity.RawReview{}, nil
}

func TestSyncIntegration_GateBoundsConcurrency(t *testing.T) {
	// Arrange: гейт на 2 слота, 5 одновременных запусков.
	// Скрапер блокируется, поэтому пик одновременных вызовов
	// показывает реальную ширину гейта.
	integrationRepo := new(mocks.MockIntegrationRepository)
	reviewRepo := new(mocks.MockReviewRepository)
	hotelRepo := new(mocks.MockHotelRepository)
	lockRepo := new(mocks.MockSyncLockRepository)
	publisher := new(mocks.MockMessagePublisher)
	scraper := &blockingScraper{release: make(chan struct{})}

	lockRepo.On("Acquire", mock.Anything, mock.Anything).Return(true, nil)
	lockRepo.On("Release", mock.Anything, mock.Anything).Return(nil)
	hotelRepo.On("GetByID", mock.Anything, uuid.MustParse(testHotelID)).Return(testHotel(), nil)
	integrationRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewSyncService(integrationRepo, reviewRepo, hotelRepo, lockRepo, scraper, adapter.NewRegistry(), publisher, NewSyncGate(2))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			integration := testIntegration(entity.PlatformGoogle, entity.SyncTypeManual, entity.SyncFrequencyDaily)
			_, _ = svc.SyncIntegration(context.Background(), integration)
		}()
	}

	// Act: даем запускам упереться в гейт, затем отпускаем
	assert.Eventually(t, func() bool {
		return scraper.inFlight.Load() == 2
	}, 2*time.Second, 10*time.Millisecond)
	close(scraper.release)
	wg.Wait()

	// Assert
	assert.Equal(t, int64(2), scraper.peak.Load())
	assert.Equal(t, int64(0), scraper.inFlight.Load())
}

// ===================== Error Classification Tests =====================

func TestProviderErrorCode_Classification(t *testing.T) {
	// Arrange / Act / Assert
	assert.Equal(t, ErrorCodeRateLimited, providerErrorCode(&ProviderError{Code: ErrorCodeRateLimited, Message: "Rate limit exceeded"}))
	assert.Equal(t, ErrorCodeScraperError, providerErrorCode(&ProviderError{Code: ErrorCodeScraperError, Message: "boom"}))
	assert.Equal(t, "RATE_LIMITED", providerErrorCode(errors.New("upstream said: Rate limit exceeded, try later")))
	assert.Equal(t, "SYNC_FAILED", providerErrorCode(errors.New("network timeout")))
}

func TestIsRateLimitError_MarkerSubstring(t *testing.T) {
	assert.True(t, isRateLimitError(errors.New("Rate limit exceeded: slow down")))
	assert.True(t, isRateLimitError(fmt.Errorf("wrapped: %w", &ProviderError{Code: ErrorCodeRateLimited, Message: "Rate limit exceeded"})))
	assert.False(t, isRateLimitError(errors.New("rate limits are fine")))
	assert.False(t, isRateLimitError(nil))
}
