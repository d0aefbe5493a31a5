package mocks

import (
	"context"
	"time"

	"hotelsync/internal/app/review-sync/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockIntegrationRepository мок для IntegrationRepository
type MockIntegrationRepository struct {
	mock.Mock
}

func (m *MockIntegrationRepository) Create(ctx context.Context, integration *entity.Integration) error {
	args := m.Called(ctx, integration)
	return args.Error(0)
}

func (m *MockIntegrationRepository) GetByID(ctx context.Context, id string) (*entity.Integration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Integration), args.Error(1)
}

func (m *MockIntegrationRepository) ListByHotel(ctx context.Context, hotelID string) ([]entity.Integration, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Integration), args.Error(1)
}

func (m *MockIntegrationRepository) FindDue(ctx context.Context, frequency entity.SyncFrequency, now time.Time) ([]entity.Integration, error) {
	args := m.Called(ctx, frequency, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Integration), args.Error(1)
}

func (m *MockIntegrationRepository) Update(ctx context.Context, integration *entity.Integration) error {
	args := m.Called(ctx, integration)
	return args.Error(0)
}

func (m *MockIntegrationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReviewRepository мок для ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Insert(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) ExistsByExternalID(ctx context.Context, hotelID string, platform entity.Platform, externalID string) (bool, error) {
	args := m.Called(ctx, hotelID, platform, externalID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) LatestReviewDate(ctx context.Context, hotelID string, platform entity.Platform) (*time.Time, error) {
	args := m.Called(ctx, hotelID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockReviewRepository) ListByHotel(ctx context.Context, hotelID string, platform entity.Platform, limit int) ([]entity.Review, error) {
	args := m.Called(ctx, hotelID, platform, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) DeleteByHotelAndPlatform(ctx context.Context, hotelID string, platform entity.Platform) (int64, error) {
	args := m.Called(ctx, hotelID, platform)
	return args.Get(0).(int64), args.Error(1)
}

// MockHotelRepository мок для HotelRepository
type MockHotelRepository struct {
	mock.Mock
}

func (m *MockHotelRepository) GetByID(ctx context.Context, hotelID uuid.UUID) (*entity.Hotel, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Hotel), args.Error(1)
}

// MockSyncLockRepository мок для SyncLockRepository
type MockSyncLockRepository struct {
	mock.Mock
}

func (m *MockSyncLockRepository) Acquire(ctx context.Context, integrationID string) (bool, error) {
	args := m.Called(ctx, integrationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSyncLockRepository) Release(ctx context.Context, integrationID string) error {
	args := m.Called(ctx, integrationID)
	return args.Error(0)
}

func (m *MockSyncLockRepository) ActiveLocks(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockScraperClient мок для ScraperClient
type MockScraperClient struct {
	mock.Mock
}

func (m *MockScraperClient) Run(ctx context.Context, platform entity.Platform, url string, cfg entity.ScrapeConfig) ([]entity.RawReview, error) {
	args := m.Called(ctx, platform, url, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RawReview), args.Error(1)
}

// MockMessagePublisher мок для MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSyncService мок для SyncServiceInterface
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) SyncIntegration(ctx context.Context, integration *entity.Integration) (*entity.SyncResult, error) {
	args := m.Called(ctx, integration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SyncResult), args.Error(1)
}
