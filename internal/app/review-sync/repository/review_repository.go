package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelsync/internal/app/review-sync/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository создает репозиторий канонических отзывов.
// Уникальный составной индекс по ключу дедупликации делает идемпотентную
// вставку надежной даже при конкурентных писателях: повторная вставка
// завершается duplicate key, а не вторым документом.
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	collection := db.Collection("reviews")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dedupIndexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "hotel_id", Value: 1},
			{Key: "platform", Value: 1},
			{Key: "external_review_id", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("dedup_key_uniq"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, dedupIndexModel); err != nil {
		// Логируем ошибку, но не прерываем работу - индекс может уже существовать
		fmt.Printf("Warning: failed to create dedup index: %v\n", err)
	}

	// Индекс под выборку watermark: свежайший отзыв пары (hotel, platform)
	watermarkIndexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "hotel_id", Value: 1},
			{Key: "platform", Value: 1},
			{Key: "metadata.original_created_at", Value: -1},
		},
		Options: options.Index().SetName("watermark_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, watermarkIndexModel); err != nil {
		fmt.Printf("Warning: failed to create watermark index: %v\n", err)
	}

	return &reviewRepository{collection: collection}
}

// Insert сохраняет новый отзыв
func (r *reviewRepository) Insert(ctx context.Context, review *entity.Review) error {
	review.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrReviewExists
		}
		return fmt.Errorf("failed to insert review: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}

	return nil
}

// ExistsByExternalID проверяет наличие отзыва по ключу дедупликации
func (r *reviewRepository) ExistsByExternalID(ctx context.Context, hotelID string, platform entity.Platform, externalID string) (bool, error) {
	filter := bson.M{
		"hotel_id":           hotelID,
		"platform":           platform,
		"external_review_id": externalID,
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}

	return count > 0, nil
}

// LatestReviewDate возвращает watermark пары (hotel, platform)
func (r *reviewRepository) LatestReviewDate(ctx context.Context, hotelID string, platform entity.Platform) (*time.Time, error) {
	filter := bson.M{
		"hotel_id": hotelID,
		"platform": platform,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "metadata.original_created_at", Value: -1}})

	var review entity.Review
	err := r.collection.FindOne(ctx, filter, opts).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Отзывов еще нет - будет полная первичная синхронизация
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest review date: %w", err)
	}

	date := review.Metadata.OriginalCreatedAt
	return &date, nil
}

// ListByHotel получает отзывы отеля, новые сверху
func (r *reviewRepository) ListByHotel(ctx context.Context, hotelID string, platform entity.Platform, limit int) ([]entity.Review, error) {
	filter := bson.M{"hotel_id": hotelID}
	if platform != "" {
		filter["platform"] = platform
	}

	opts := options.Find().SetSort(bson.D{{Key: "metadata.original_created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []entity.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

// DeleteByHotelAndPlatform удаляет все отзывы пары (hotel, platform).
// Вызывается при каскадном удалении интеграции.
func (r *reviewRepository) DeleteByHotelAndPlatform(ctx context.Context, hotelID string, platform entity.Platform) (int64, error) {
	filter := bson.M{
		"hotel_id": hotelID,
		"platform": platform,
	}

	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reviews: %w", err)
	}

	return result.DeletedCount, nil
}
