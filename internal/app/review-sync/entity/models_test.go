package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ===================== SyncFrequency Tests =====================

func TestNextSyncTime_Daily(t *testing.T) {
	// Arrange
	from := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)

	// Act
	next := SyncFrequencyDaily.NextSyncTime(from)

	// Assert
	assert.Equal(t, time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC), next)
}

func TestNextSyncTime_Weekly(t *testing.T) {
	// Arrange
	from := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)

	// Act
	next := SyncFrequencyWeekly.NextSyncTime(from)

	// Assert
	assert.Equal(t, time.Date(2024, 1, 8, 3, 0, 0, 0, time.UTC), next)
}

func TestNextSyncTime_Monthly_CalendarArithmetic(t *testing.T) {
	// Arrange / Act / Assert: месяц - календарный, не 30 дней
	from := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 1, 3, 0, 0, 0, time.UTC), SyncFrequencyMonthly.NextSyncTime(from))

	// Переход через конец года
	dec := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), SyncFrequencyMonthly.NextSyncTime(dec))
}

func TestSyncFrequency_Valid(t *testing.T) {
	assert.True(t, SyncFrequencyDaily.Valid())
	assert.True(t, SyncFrequencyWeekly.Valid())
	assert.True(t, SyncFrequencyMonthly.Valid())
	assert.False(t, SyncFrequency("hourly").Valid())
	assert.False(t, SyncFrequency("").Valid())
}

// ===================== Platform Tests =====================

func TestPlatform_Valid(t *testing.T) {
	assert.True(t, PlatformGoogle.Valid())
	assert.True(t, PlatformBooking.Valid())
	assert.True(t, PlatformTripAdvisor.Valid())
	assert.False(t, Platform("yelp").Valid())
}

func TestPlatform_RatingScale(t *testing.T) {
	// Booking отдает оценки 1-10, остальные площадки 1-5
	assert.Equal(t, 10, PlatformBooking.RatingScale())
	assert.Equal(t, 5, PlatformGoogle.RatingScale())
	assert.Equal(t, 5, PlatformTripAdvisor.RatingScale())
}

// ===================== Integration Tests =====================

func TestIntegration_IsFirstSync(t *testing.T) {
	// Arrange
	integration := &Integration{}

	// Act / Assert
	assert.True(t, integration.IsFirstSync())

	now := time.Now().UTC()
	integration.SyncConfig.LastSync = &now
	assert.False(t, integration.IsFirstSync())
}
