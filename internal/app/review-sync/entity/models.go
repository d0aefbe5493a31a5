package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Platform - площадка, с которой собираются отзывы
type Platform string

const (
	PlatformGoogle      Platform = "google"      // Google Maps / Places
	PlatformBooking     Platform = "booking"     // Booking.com
	PlatformTripAdvisor Platform = "tripadvisor" // TripAdvisor
)

// Valid проверяет, что тег площадки известен системе
func (p Platform) Valid() bool {
	switch p {
	case PlatformGoogle, PlatformBooking, PlatformTripAdvisor:
		return true
	}
	return false
}

// RatingScale возвращает нативную шкалу оценок площадки.
// Booking отдает оценки по шкале 1-10, остальные площадки 1-5.
// Шкалы намеренно не приводятся к единой - см. поле rating_scale у отзыва.
func (p Platform) RatingScale() int {
	if p == PlatformBooking {
		return 10
	}
	return 5
}

// IntegrationStatus - статус жизненного цикла интеграции
type IntegrationStatus string

const (
	IntegrationStatusPending      IntegrationStatus = "pending"      // Создана, ни одной успешной синхронизации
	IntegrationStatusActive       IntegrationStatus = "active"       // Последняя синхронизация успешна
	IntegrationStatusError        IntegrationStatus = "error"        // Последняя синхронизация упала, будет повторена по расписанию
	IntegrationStatusDisconnected IntegrationStatus = "disconnected" // Провайдер ответил rate limit, автоматика остановлена
)

// SyncType - способ запуска синхронизации
type SyncType string

const (
	SyncTypeManual    SyncType = "manual"
	SyncTypeAutomatic SyncType = "automatic"
)

// SyncFrequency - периодичность автоматической синхронизации
type SyncFrequency string

const (
	SyncFrequencyDaily   SyncFrequency = "daily"
	SyncFrequencyWeekly  SyncFrequency = "weekly"
	SyncFrequencyMonthly SyncFrequency = "monthly"
)

// Valid проверяет, что периодичность известна системе
func (f SyncFrequency) Valid() bool {
	switch f {
	case SyncFrequencyDaily, SyncFrequencyWeekly, SyncFrequencyMonthly:
		return true
	}
	return false
}

// NextSyncTime вычисляет время следующей синхронизации от переданного момента.
// Календарная арифметика: monthly от 2024-01-01 дает 2024-02-01, а не +30 дней.
func (f SyncFrequency) NextSyncTime(from time.Time) time.Time {
	switch f {
	case SyncFrequencyDaily:
		return from.AddDate(0, 0, 1)
	case SyncFrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case SyncFrequencyMonthly:
		return from.AddDate(0, 1, 0)
	}
	return from.AddDate(0, 0, 1)
}

// SyncError - последняя ошибка синхронизации, хранится внутри sync_config
type SyncError struct {
	Message   string    `json:"message" bson:"message"`
	Code      string    `json:"code" bson:"code"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// IntegrationSyncConfig - настройки синхронизации интеграции
type IntegrationSyncConfig struct {
	Type       SyncType      `json:"type" bson:"type"`
	Frequency  SyncFrequency `json:"frequency" bson:"frequency"`
	Language   string        `json:"language" bson:"language"`
	MaxReviews int           `json:"max_reviews" bson:"max_reviews"`
	// LastSync и NextScheduledSync заполняются после первой успешной синхронизации.
	// NextScheduledSync имеет смысл только при Type = automatic.
	LastSync          *time.Time `json:"last_sync,omitempty" bson:"last_sync,omitempty"`
	NextScheduledSync *time.Time `json:"next_scheduled_sync,omitempty" bson:"next_scheduled_sync,omitempty"`
	Error             *SyncError `json:"error,omitempty" bson:"error,omitempty"`
}

// IntegrationStats - накопленная статистика интеграции
type IntegrationStats struct {
	TotalReviews         int        `json:"total_reviews" bson:"total_reviews"`
	SyncedReviews        int        `json:"synced_reviews" bson:"synced_reviews"`
	LastSyncedReviewDate *time.Time `json:"last_synced_review_date,omitempty" bson:"last_synced_review_date,omitempty"`
}

// Integration - связь отеля с одной площадкой отзывов.
// На пару (hotel_id, platform) может существовать не более одной интеграции,
// это гарантирует уникальный составной индекс в MongoDB.
type Integration struct {
	ID         primitive.ObjectID    `json:"id" bson:"_id,omitempty"`
	HotelID    string                `json:"hotel_id" bson:"hotel_id"` // UUID отеля из PostgreSQL
	Platform   Platform              `json:"platform" bson:"platform"`
	PlaceID    string                `json:"place_id" bson:"place_id"` // Идентификатор объекта на площадке
	URL        string                `json:"url" bson:"url"`           // Страница отеля на площадке, передается скраперу
	Status     IntegrationStatus     `json:"status" bson:"status"`
	SyncConfig IntegrationSyncConfig `json:"sync_config" bson:"sync_config"`
	Stats      IntegrationStats      `json:"stats" bson:"stats"`
	CreatedAt  time.Time             `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at" bson:"updated_at"`
}

// IsFirstSync сообщает, была ли у интеграции хоть одна успешная синхронизация
func (i *Integration) IsFirstSync() bool {
	return i.SyncConfig.LastSync == nil
}

// ReviewImage - фотография, приложенная к отзыву
type ReviewImage struct {
	URL     string `json:"url" bson:"url"`
	Caption string `json:"caption,omitempty" bson:"caption,omitempty"`
}

// ReviewContent - содержимое отзыва в каноническом виде
type ReviewContent struct {
	Text          string        `json:"text" bson:"text"`
	Rating        float64       `json:"rating" bson:"rating"`
	RatingScale   int           `json:"rating_scale" bson:"rating_scale"` // 10 для booking, 5 для остальных
	ReviewerName  string        `json:"reviewer_name" bson:"reviewer_name"`
	ReviewerImage string        `json:"reviewer_image,omitempty" bson:"reviewer_image,omitempty"`
	Language      string        `json:"language" bson:"language"`
	Images        []ReviewImage `json:"images,omitempty" bson:"images,omitempty"`
	Likes         int           `json:"likes" bson:"likes"`
	OriginalURL   string        `json:"original_url,omitempty" bson:"original_url,omitempty"`
}

// ReviewMetadata - служебные данные отзыва
type ReviewMetadata struct {
	OriginalCreatedAt time.Time         `json:"original_created_at" bson:"original_created_at"` // Дата отзыва по данным площадки
	SyncedAt          time.Time         `json:"synced_at" bson:"synced_at"`                     // Момент попадания в наше хранилище
	Extra             map[string]string `json:"extra,omitempty" bson:"extra,omitempty"`         // Платформо-специфичные поля (длительность проживания и т.п.)
}

// Review - каноничный отзыв в MongoDB.
// Ключ дедупликации (hotel_id, platform, external_review_id) закреплен
// уникальным составным индексом, поэтому дубликат не запишется даже
// при конкурентных синхронизациях.
type Review struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	HotelID          string             `json:"hotel_id" bson:"hotel_id"`
	Platform         Platform           `json:"platform" bson:"platform"`
	ExternalReviewID string             `json:"external_review_id" bson:"external_review_id"`
	Content          ReviewContent      `json:"content" bson:"content"`
	Metadata         ReviewMetadata     `json:"metadata" bson:"metadata"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
}

// Hotel - отель в PostgreSQL. Разрешается оркестратором для уведомлений владельцу.
type Hotel struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	OwnerEmail string    `json:"owner_email" gorm:"not null"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName задает имя таблицы отелей
func (Hotel) TableName() string {
	return "hotels"
}

// NormalizedReview - результат работы платформенного адаптера,
// еще не привязанный к конкретному отелю
type NormalizedReview struct {
	ExternalID    string
	Text          string
	Rating        float64
	RatingScale   int
	ReviewerName  string
	ReviewerImage string
	Language      string
	Images        []ReviewImage
	Likes         int
	OriginalURL   string
	Date          time.Time
	Extra         map[string]string
}

// ScrapeConfig - параметры запроса к внешнему скраперу.
// StartDate передается только при инкрементальной синхронизации и равен
// дате самого свежего сохраненного отзыва (watermark).
type ScrapeConfig struct {
	Language   string     `json:"language,omitempty"`
	MaxReviews int        `json:"max_reviews"`
	StartDate  *time.Time `json:"start_date,omitempty"`
}

// RawReview - сырой элемент от скрапера, схема зависит от площадки
type RawReview map[string]interface{}

// EventTypeReviewsSynced - тип события о новых отзывах
const EventTypeReviewsSynced = "REVIEWS_SYNCED"

// ReviewsSyncedEvent - событие в Kafka о завершенной синхронизации с новыми отзывами.
// Публикация fire-and-forget: ошибки логируются и не влияют на результат синхронизации.
type ReviewsSyncedEvent struct {
	EventType  string    `json:"event_type"`
	HotelID    string    `json:"hotel_id"`
	HotelName  string    `json:"hotel_name"`
	OwnerEmail string    `json:"owner_email"`
	Platform   Platform  `json:"platform"`
	NewReviews int       `json:"new_reviews"`
	FirstSync  bool      `json:"first_sync"`
	OccurredAt time.Time `json:"occurred_at"`
}
