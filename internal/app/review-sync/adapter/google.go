package adapter

import (
	"fmt"

	"hotelsync/internal/app/review-sync/entity"
)

// GoogleAdapter нормализует отзывы Google Maps.
// У Google всегда есть стабильный review_id, оценки по шкале 1-5.
type GoogleAdapter struct{}

func (a *GoogleAdapter) Platform() entity.Platform {
	return entity.PlatformGoogle
}

func (a *GoogleAdapter) Normalize(raw entity.RawReview) (*entity.NormalizedReview, error) {
	externalID := stringField(raw, "review_id", "reviewId", "id")
	if externalID == "" {
		return nil, fmt.Errorf("google review without review_id")
	}

	date, err := timeField(raw, "published_at", "publishedAtDate", "date")
	if err != nil {
		return nil, fmt.Errorf("google review %s: %w", externalID, err)
	}

	reviewerName := stringField(raw, "reviewer_name", "name", "author_name")
	if reviewerName == "" {
		reviewerName = defaultReviewerName
	}

	language := stringField(raw, "language", "original_language")
	if language == "" {
		language = defaultLanguage
	}

	review := &entity.NormalizedReview{
		ExternalID:    externalID,
		Text:          stringField(raw, "text", "review_text", "snippet"),
		Rating:        floatField(raw, "rating", "stars"),
		RatingScale:   entity.PlatformGoogle.RatingScale(),
		ReviewerName:  reviewerName,
		ReviewerImage: stringField(raw, "reviewer_image", "reviewer_photo_url", "profile_photo_url"),
		Language:      language,
		Images:        imageList(raw, "images", "review_image_urls", "photos"),
		Likes:         intField(raw, "likes", "likes_count"),
		OriginalURL:   stringField(raw, "review_url", "link"),
		Date:          date,
	}

	// Ответ владельца Google отдает вместе с отзывом; сохраняем как extra,
	// движок синхронизации сам ответы не обрабатывает
	if ownerResponse := stringField(raw, "owner_response", "response_from_owner_text"); ownerResponse != "" {
		review.Extra = map[string]string{"owner_response": ownerResponse}
	}

	return review, nil
}
