package repository

import (
	"context"
	"errors"
	"fmt"

	"hotelsync/internal/app/review-sync/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// hotelRepository реализует HotelRepository для работы с PostgreSQL через GORM
type hotelRepository struct {
	db *gorm.DB
}

// NewHotelRepository создает новый репозиторий отелей
func NewHotelRepository(db *gorm.DB) HotelRepository {
	return &hotelRepository{db: db}
}

// GetByID получает отель по ID
func (r *hotelRepository) GetByID(ctx context.Context, hotelID uuid.UUID) (*entity.Hotel, error) {
	var hotel entity.Hotel

	result := r.db.WithContext(ctx).Where("id = ?", hotelID).First(&hotel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to get hotel: %w", result.Error)
	}

	return &hotel, nil
}
