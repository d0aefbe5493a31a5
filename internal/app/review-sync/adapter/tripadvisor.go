package adapter

import (
	"fmt"

	"hotelsync/internal/app/review-sync/entity"
)

// TripAdvisorAdapter нормализует отзывы TripAdvisor.
// Оценки по шкале 1-5, данные автора вложены в объект user.
type TripAdvisorAdapter struct{}

func (a *TripAdvisorAdapter) Platform() entity.Platform {
	return entity.PlatformTripAdvisor
}

func (a *TripAdvisorAdapter) Normalize(raw entity.RawReview) (*entity.NormalizedReview, error) {
	externalID := stringField(raw, "review_id", "id")
	if externalID == "" {
		return nil, fmt.Errorf("tripadvisor review without id")
	}

	date, err := timeField(raw, "published_date", "travel_date", "date")
	if err != nil {
		return nil, fmt.Errorf("tripadvisor review %s: %w", externalID, err)
	}

	reviewerName, reviewerImage := tripAdvisorUser(raw)
	if reviewerName == "" {
		reviewerName = defaultReviewerName
	}

	language := stringField(raw, "lang", "language")
	if language == "" {
		language = defaultLanguage
	}

	text := joinNonEmpty("\n", stringField(raw, "title"), stringField(raw, "text", "review_text"))

	review := &entity.NormalizedReview{
		ExternalID:    externalID,
		Text:          text,
		Rating:        floatField(raw, "rating"),
		RatingScale:   entity.PlatformTripAdvisor.RatingScale(),
		ReviewerName:  reviewerName,
		ReviewerImage: reviewerImage,
		Language:      language,
		Images:        imageList(raw, "photos", "images"),
		Likes:         intField(raw, "helpful_votes", "likes"),
		OriginalURL:   stringField(raw, "url", "review_url"),
		Date:          date,
	}

	if tripType := stringField(raw, "trip_type"); tripType != "" {
		review.Extra = map[string]string{"trip_type": tripType}
	}

	return review, nil
}

// tripAdvisorUser достает имя и аватар автора из вложенного объекта user
// или из плоских полей, в зависимости от формата выдачи скрапера
func tripAdvisorUser(raw entity.RawReview) (name, image string) {
	if v, ok := raw["user"]; ok {
		if user, ok := v.(map[string]interface{}); ok {
			name = stringField(entity.RawReview(user), "username", "name")
			image = stringField(entity.RawReview(user), "avatar", "avatar_url")
		}
	}
	if name == "" {
		name = stringField(raw, "username", "reviewer_name")
	}
	if image == "" {
		image = stringField(raw, "reviewer_image")
	}
	return name, image
}
