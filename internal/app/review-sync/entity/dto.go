package entity

// SetupIntegrationRequest - запрос на подключение площадки к отелю
type SetupIntegrationRequest struct {
	HotelID    string `json:"hotel_id" validate:"required,uuid"`
	Platform   string `json:"platform" validate:"required,oneof=google booking tripadvisor"`
	PlaceID    string `json:"place_id" validate:"required"`
	URL        string `json:"url" validate:"required,url"`
	SyncType   string `json:"sync_type" validate:"omitempty,oneof=manual automatic"`
	Frequency  string `json:"frequency" validate:"omitempty,oneof=daily weekly monthly"`
	Language   string `json:"language" validate:"omitempty,len=2"`
	MaxReviews int    `json:"max_reviews" validate:"omitempty,min=1,max=1000"`
	// SyncNow запускает первую синхронизацию сразу после создания, синхронно
	SyncNow bool `json:"sync_now"`
}

// UpdateIntegrationRequest - запрос на изменение интеграции.
// Поле Status - единственный способ вернуть интеграцию из error/disconnected
// обратно в active (ручная реактивация администратором).
type UpdateIntegrationRequest struct {
	Status     string `json:"status" validate:"omitempty,oneof=active disconnected"`
	SyncType   string `json:"sync_type" validate:"omitempty,oneof=manual automatic"`
	Frequency  string `json:"frequency" validate:"omitempty,oneof=daily weekly monthly"`
	Language   string `json:"language" validate:"omitempty,len=2"`
	MaxReviews int    `json:"max_reviews" validate:"omitempty,min=1,max=1000"`
}

// SyncResult - итог одной синхронизации
type SyncResult struct {
	IntegrationID string `json:"integration_id"`
	Platform      string `json:"platform"`
	Fetched       int    `json:"fetched"`     // Сколько сырых записей вернул скрапер
	NewReviews    int    `json:"new_reviews"` // Сколько прошло дедупликацию и сохранилось
	FirstSync     bool   `json:"first_sync"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// IntegrationListResponse - ответ со списком интеграций
type IntegrationListResponse struct {
	Integrations []Integration `json:"integrations"`
	Total        int           `json:"total"`
}

// ReviewListResponse - ответ со списком отзывов
type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
}
