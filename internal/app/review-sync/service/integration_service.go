package service

import (
	"context"
	"fmt"

	"hotelsync/internal/app/review-sync/entity"
	"hotelsync/internal/app/review-sync/repository"
	"hotelsync/pkg/logger"

	"github.com/google/uuid"
)

// IntegrationService - управление жизненным циклом интеграций.
// Тонкий слой над репозиториями плюс ручные запуски синхронизации.
type IntegrationService struct {
	integrationRepo   repository.IntegrationRepository
	reviewRepo        repository.ReviewRepository
	hotelRepo         repository.HotelRepository
	syncSvc           SyncServiceInterface
	defaultMaxReviews int
	defaultLanguage   string
}

// NewIntegrationService создает сервис управления интеграциями
func NewIntegrationService(
	integrationRepo repository.IntegrationRepository,
	reviewRepo repository.ReviewRepository,
	hotelRepo repository.HotelRepository,
	syncSvc SyncServiceInterface,
	defaultMaxReviews int,
	defaultLanguage string,
) *IntegrationService {
	return &IntegrationService{
		integrationRepo:   integrationRepo,
		reviewRepo:        reviewRepo,
		hotelRepo:         hotelRepo,
		syncSvc:           syncSvc,
		defaultMaxReviews: defaultMaxReviews,
		defaultLanguage:   defaultLanguage,
	}
}

// SetupIntegration создает интеграцию в статусе pending.
// При req.SyncNow первая синхронизация выполняется сразу и синхронно;
// ее исход виден в статусе и sync_config.error созданной интеграции.
func (s *IntegrationService) SetupIntegration(ctx context.Context, req *entity.SetupIntegrationRequest) (*entity.Integration, error) {
	hotelID, err := uuid.Parse(req.HotelID)
	if err != nil {
		return nil, fmt.Errorf("invalid hotel id: %w", err)
	}

	// Отель должен существовать до создания интеграции
	if _, err := s.hotelRepo.GetByID(ctx, hotelID); err != nil {
		return nil, err
	}

	platform := entity.Platform(req.Platform)
	if !platform.Valid() {
		return nil, fmt.Errorf("unsupported platform %q", req.Platform)
	}

	syncType := entity.SyncType(req.SyncType)
	if syncType == "" {
		syncType = entity.SyncTypeAutomatic
	}

	frequency := entity.SyncFrequency(req.Frequency)
	if frequency == "" {
		frequency = entity.SyncFrequencyWeekly
	}

	language := req.Language
	if language == "" {
		language = s.defaultLanguage
	}

	maxReviews := req.MaxReviews
	if maxReviews <= 0 {
		maxReviews = s.defaultMaxReviews
	}

	integration := &entity.Integration{
		HotelID:  req.HotelID,
		Platform: platform,
		PlaceID:  req.PlaceID,
		URL:      req.URL,
		Status:   entity.IntegrationStatusPending,
		SyncConfig: entity.IntegrationSyncConfig{
			Type:       syncType,
			Frequency:  frequency,
			Language:   language,
			MaxReviews: maxReviews,
		},
	}

	if err := s.integrationRepo.Create(ctx, integration); err != nil {
		return nil, err
	}

	if req.SyncNow {
		// Интеграция уже создана: исход немедленной синхронизации не отменяет
		// создание, он остается в статусе и sync_config.error
		if _, err := s.syncSvc.SyncIntegration(ctx, integration); err != nil {
			logger.Warn().Err(err).
				Str("integration_id", integration.ID.Hex()).
				Msg("initial sync after setup failed")
		}
	}

	return integration, nil
}

// SyncNow запускает синхронизацию вне расписания.
// Единственный путь, на котором ошибка синхронизации доходит до вызывающего.
func (s *IntegrationService) SyncNow(ctx context.Context, integrationID string) (*entity.SyncResult, error) {
	integration, err := s.integrationRepo.GetByID(ctx, integrationID)
	if err != nil {
		return nil, err
	}

	return s.syncSvc.SyncIntegration(ctx, integration)
}

// GetIntegration получает интеграцию по ID
func (s *IntegrationService) GetIntegration(ctx context.Context, integrationID string) (*entity.Integration, error) {
	return s.integrationRepo.GetByID(ctx, integrationID)
}

// ListIntegrations получает интеграции отеля
func (s *IntegrationService) ListIntegrations(ctx context.Context, hotelID string) ([]entity.Integration, error) {
	return s.integrationRepo.ListByHotel(ctx, hotelID)
}

// UpdateIntegration изменяет настройки и/или статус интеграции.
// Ручная установка status=active - единственный выход из error/disconnected
// в этой подсистеме.
func (s *IntegrationService) UpdateIntegration(ctx context.Context, integrationID string, req *entity.UpdateIntegrationRequest) (*entity.Integration, error) {
	integration, err := s.integrationRepo.GetByID(ctx, integrationID)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		integration.Status = entity.IntegrationStatus(req.Status)
		if integration.Status == entity.IntegrationStatusActive {
			// Реактивация стирает последнюю ошибку
			integration.SyncConfig.Error = nil
		}
	}

	if req.SyncType != "" {
		integration.SyncConfig.Type = entity.SyncType(req.SyncType)
	}

	if req.Frequency != "" {
		integration.SyncConfig.Frequency = entity.SyncFrequency(req.Frequency)
	}

	if req.Language != "" {
		integration.SyncConfig.Language = req.Language
	}

	if req.MaxReviews > 0 {
		integration.SyncConfig.MaxReviews = req.MaxReviews
	}

	// Пересчитываем расписание от последней успешной синхронизации
	if integration.SyncConfig.Type == entity.SyncTypeAutomatic && integration.SyncConfig.LastSync != nil {
		next := integration.SyncConfig.Frequency.NextSyncTime(*integration.SyncConfig.LastSync)
		integration.SyncConfig.NextScheduledSync = &next
	} else if integration.SyncConfig.Type == entity.SyncTypeManual {
		integration.SyncConfig.NextScheduledSync = nil
	}

	if err := s.integrationRepo.Update(ctx, integration); err != nil {
		return nil, err
	}

	return integration, nil
}

// DeleteIntegration удаляет интеграцию и каскадно все ее отзывы
func (s *IntegrationService) DeleteIntegration(ctx context.Context, integrationID string) error {
	integration, err := s.integrationRepo.GetByID(ctx, integrationID)
	if err != nil {
		return err
	}

	deleted, err := s.reviewRepo.DeleteByHotelAndPlatform(ctx, integration.HotelID, integration.Platform)
	if err != nil {
		return fmt.Errorf("failed to cascade delete reviews: %w", err)
	}

	if err := s.integrationRepo.Delete(ctx, integrationID); err != nil {
		return err
	}

	logger.Info().
		Str("integration_id", integrationID).
		Str("hotel_id", integration.HotelID).
		Str("platform", string(integration.Platform)).
		Int64("reviews_deleted", deleted).
		Msg("integration deleted")

	return nil
}

// ListReviews получает сохраненные отзывы отеля, новые сверху
func (s *IntegrationService) ListReviews(ctx context.Context, hotelID string, platform entity.Platform, limit int) ([]entity.Review, error) {
	if platform != "" && !platform.Valid() {
		return nil, fmt.Errorf("unsupported platform %q", platform)
	}

	return s.reviewRepo.ListByHotel(ctx, hotelID, platform, limit)
}
