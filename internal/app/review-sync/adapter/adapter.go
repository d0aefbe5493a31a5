package adapter

import (
	"fmt"
	"strings"
	"time"

	"hotelsync/internal/app/review-sync/entity"
)

// Значения по умолчанию для полей, которые площадки часто не отдают
const (
	defaultReviewerName = "Guest"
	defaultLanguage     = "en"
)

// Adapter приводит сырую запись площадки к каноническому виду отзыва.
// Одна реализация на площадку, чистые функции без состояния.
type Adapter interface {
	// Platform возвращает тег площадки, который обслуживает адаптер
	Platform() entity.Platform

	// Normalize преобразует одну сырую запись скрапера в канонический отзыв.
	// Ошибка означает, что запись непригодна (нет даты или идентификатора);
	// оркестратор логирует такую запись и продолжает батч.
	Normalize(raw entity.RawReview) (*entity.NormalizedReview, error)
}

// Registry - реестр адаптеров по тегу площадки.
// Добавление площадки = регистрация новой реализации, без правок движка.
type Registry struct {
	adapters map[entity.Platform]Adapter
}

// NewRegistry создает реестр со всеми поддерживаемыми площадками
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[entity.Platform]Adapter)}
	r.Register(&GoogleAdapter{})
	r.Register(&BookingAdapter{})
	r.Register(&TripAdvisorAdapter{})
	return r
}

// Register добавляет адаптер в реестр
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Platform()] = a
}

// Get возвращает адаптер для площадки
func (r *Registry) Get(platform entity.Platform) (Adapter, error) {
	a, ok := r.adapters[platform]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for platform %q", platform)
	}
	return a, nil
}

// ===================== Хелперы для доступа к сырым полям =====================

// stringField возвращает первое непустое строковое поле из перечисленных ключей
func stringField(raw entity.RawReview, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// floatField возвращает первое числовое поле из перечисленных ключей.
// JSON декодер отдает числа как float64, но скраперы иногда присылают строки.
func floatField(raw entity.RawReview, keys ...string) float64 {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case string:
			var f float64
			if _, err := fmt.Sscanf(n, "%f", &f); err == nil {
				return f
			}
		}
	}
	return 0
}

// intField возвращает первое целочисленное поле из перечисленных ключей
func intField(raw entity.RawReview, keys ...string) int {
	return int(floatField(raw, keys...))
}

// Форматы дат, встречающиеся у скраперов
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// timeField парсит первое пригодное поле даты из перечисленных ключей.
// Возвращает ошибку, если дата отсутствует: без даты отзыв не пройдет
// watermark-фильтр и не может участвовать в инкрементальной синхронизации.
func timeField(raw entity.RawReview, keys ...string) (time.Time, error) {
	for _, key := range keys {
		s := stringField(raw, key)
		if s == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("review date not found in keys %v", keys)
}

// imageList собирает изображения из сырого поля.
// Поддерживает оба формата: список строк-URL и список объектов {url, caption}.
func imageList(raw entity.RawReview, keys ...string) []entity.ReviewImage {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		items, ok := v.([]interface{})
		if !ok || len(items) == 0 {
			continue
		}

		images := make([]entity.ReviewImage, 0, len(items))
		for _, item := range items {
			switch img := item.(type) {
			case string:
				if img != "" {
					images = append(images, entity.ReviewImage{URL: img})
				}
			case map[string]interface{}:
				image := entity.ReviewImage{
					URL:     stringField(entity.RawReview(img), "url", "image_url", "src"),
					Caption: stringField(entity.RawReview(img), "caption", "title"),
				}
				if image.URL != "" {
					images = append(images, image)
				}
			}
		}
		if len(images) > 0 {
			return images
		}
	}
	return nil
}

// joinNonEmpty склеивает непустые части текста через разделитель
func joinNonEmpty(sep string, parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(p))
		}
	}
	return strings.Join(nonEmpty, sep)
}
