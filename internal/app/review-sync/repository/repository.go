package repository

import (
	"context"
	"errors"
	"time"

	"hotelsync/internal/app/review-sync/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозиториев для обработки в service layer
	ErrIntegrationNotFound = errors.New("integration not found")
	ErrIntegrationExists   = errors.New("integration already exists for hotel and platform")
	ErrReviewExists        = errors.New("review already exists")
	ErrHotelNotFound       = errors.New("hotel not found")
)

// IntegrationRepository - интерфейс для работы с интеграциями в MongoDB
type IntegrationRepository interface {
	// Create создает интеграцию; ErrIntegrationExists при дубликате (hotel_id, platform)
	Create(ctx context.Context, integration *entity.Integration) error

	// GetByID получает интеграцию по ID
	GetByID(ctx context.Context, id string) (*entity.Integration, error)

	// ListByHotel получает все интеграции отеля
	ListByHotel(ctx context.Context, hotelID string) ([]entity.Integration, error)

	// FindDue выбирает интеграции, которым пора синхронизироваться в данном тире периодичности
	FindDue(ctx context.Context, frequency entity.SyncFrequency, now time.Time) ([]entity.Integration, error)

	// Update сохраняет измененную интеграцию целиком
	Update(ctx context.Context, integration *entity.Integration) error

	// Delete удаляет интеграцию (отзывы каскадно удаляет service layer)
	Delete(ctx context.Context, id string) error
}

// ReviewRepository - интерфейс для работы с каноническими отзывами в MongoDB
type ReviewRepository interface {
	// Insert сохраняет новый отзыв; ErrReviewExists при нарушении
	// уникальности (hotel_id, platform, external_review_id)
	Insert(ctx context.Context, review *entity.Review) error

	// ExistsByExternalID проверяет наличие отзыва по ключу дедупликации
	ExistsByExternalID(ctx context.Context, hotelID string, platform entity.Platform, externalID string) (bool, error)

	// LatestReviewDate возвращает дату самого свежего сохраненного отзыва
	// пары (hotel, platform) - watermark для инкрементальной синхронизации.
	// nil без ошибки, если отзывов еще нет.
	LatestReviewDate(ctx context.Context, hotelID string, platform entity.Platform) (*time.Time, error)

	// ListByHotel получает отзывы отеля, новые сверху; platform = "" означает все площадки
	ListByHotel(ctx context.Context, hotelID string, platform entity.Platform, limit int) ([]entity.Review, error)

	// DeleteByHotelAndPlatform удаляет отзывы пары (hotel, platform), возвращает количество
	DeleteByHotelAndPlatform(ctx context.Context, hotelID string, platform entity.Platform) (int64, error)
}

// HotelRepository - интерфейс для чтения справочника отелей из PostgreSQL
type HotelRepository interface {
	// GetByID получает отель по ID; ErrHotelNotFound если отель не существует
	GetByID(ctx context.Context, hotelID uuid.UUID) (*entity.Hotel, error)
}

// SyncLockRepository - интерфейс single-flight блокировок синхронизации в Redis.
// Блокировка на integration id не дает ручному "sync now" и запуску по расписанию
// выполняться для одной интеграции одновременно.
type SyncLockRepository interface {
	// Acquire пытается захватить блокировку; false без ошибки, если она уже занята
	Acquire(ctx context.Context, integrationID string) (bool, error)

	// Release снимает блокировку
	Release(ctx context.Context, integrationID string) error

	// ActiveLocks возвращает integration id всех живых блокировок (для housekeeping)
	ActiveLocks(ctx context.Context) ([]string, error)
}
