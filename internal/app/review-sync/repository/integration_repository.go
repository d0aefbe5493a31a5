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

type integrationRepository struct {
	collection *mongo.Collection
}

// NewIntegrationRepository создает репозиторий интеграций.
// Уникальный составной индекс (hotel_id, platform) гарантирует инвариант
// "не более одной интеграции на пару отель-площадка" на уровне хранилища.
func NewIntegrationRepository(db *mongo.Database) IntegrationRepository {
	collection := db.Collection("integrations")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "hotel_id", Value: 1},
			{Key: "platform", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("hotel_platform_uniq"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// Логируем ошибку, но не прерываем работу - индекс может уже существовать
		fmt.Printf("Warning: failed to create index on (hotel_id, platform): %v\n", err)
	}

	// Индекс под выборку должников планировщиком
	dueIndexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "sync_config.type", Value: 1},
			{Key: "sync_config.frequency", Value: 1},
			{Key: "sync_config.next_scheduled_sync", Value: 1},
		},
		Options: options.Index().SetName("due_sync_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, dueIndexModel); err != nil {
		fmt.Printf("Warning: failed to create due sync index: %v\n", err)
	}

	return &integrationRepository{collection: collection}
}

// Create создает новую интеграцию в статусе из переданного документа
func (r *integrationRepository) Create(ctx context.Context, integration *entity.Integration) error {
	integration.CreatedAt = time.Now().UTC()
	integration.UpdatedAt = integration.CreatedAt

	result, err := r.collection.InsertOne(ctx, integration)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrIntegrationExists
		}
		return fmt.Errorf("failed to create integration: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		integration.ID = oid
	}

	return nil
}

// GetByID получает интеграцию по hex ID
func (r *integrationRepository) GetByID(ctx context.Context, id string) (*entity.Integration, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid integration ID: %w", err)
	}

	var integration entity.Integration
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&integration)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrIntegrationNotFound
		}
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}

	return &integration, nil
}

// ListByHotel получает все интеграции отеля
func (r *integrationRepository) ListByHotel(ctx context.Context, hotelID string) ([]entity.Integration, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"hotel_id": hotelID})
	if err != nil {
		return nil, fmt.Errorf("failed to find integrations: %w", err)
	}
	defer cursor.Close(ctx)

	var integrations []entity.Integration
	if err := cursor.All(ctx, &integrations); err != nil {
		return nil, fmt.Errorf("failed to decode integrations: %w", err)
	}

	return integrations, nil
}

// FindDue выбирает должников планировщика для одного тира периодичности.
// Предикат: автоматическая синхронизация + нужная периодичность + статус из
// {pending, active, error} + (pending, или срок подошел, или срок еще не назначен).
// pending без next_scheduled_sync гарантирует первый автоматический запуск
// свежесозданной интеграции; error включен, чтобы политика "повтор на следующем
// тике" действительно работала.
func (r *integrationRepository) FindDue(ctx context.Context, frequency entity.SyncFrequency, now time.Time) ([]entity.Integration, error) {
	filter := bson.M{
		"sync_config.type":      entity.SyncTypeAutomatic,
		"sync_config.frequency": frequency,
		"status": bson.M{"$in": []entity.IntegrationStatus{
			entity.IntegrationStatusPending,
			entity.IntegrationStatusActive,
			entity.IntegrationStatusError,
		}},
		"$or": []bson.M{
			{"status": entity.IntegrationStatusPending},
			{"sync_config.next_scheduled_sync": bson.M{"$lte": now}},
			{"sync_config.next_scheduled_sync": nil},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find due integrations: %w", err)
	}
	defer cursor.Close(ctx)

	var integrations []entity.Integration
	if err := cursor.All(ctx, &integrations); err != nil {
		return nil, fmt.Errorf("failed to decode due integrations: %w", err)
	}

	return integrations, nil
}

// Update сохраняет интеграцию целиком
func (r *integrationRepository) Update(ctx context.Context, integration *entity.Integration) error {
	integration.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": integration.ID}, integration)
	if err != nil {
		return fmt.Errorf("failed to update integration: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrIntegrationNotFound
	}

	return nil
}

// Delete удаляет интеграцию
func (r *integrationRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid integration ID: %w", err)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete integration: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrIntegrationNotFound
	}

	return nil
}
