package adapter

import (
	"fmt"
	"hash/fnv"

	"hotelsync/internal/app/review-sync/entity"
)

// BookingAdapter нормализует отзывы Booking.com.
// Особенности площадки: оценки по шкале 1-10, текст разбит на плюсы/минусы,
// явного идентификатора отзыва в выдаче скрапера может не быть.
type BookingAdapter struct{}

func (a *BookingAdapter) Platform() entity.Platform {
	return entity.PlatformBooking
}

func (a *BookingAdapter) Normalize(raw entity.RawReview) (*entity.NormalizedReview, error) {
	date, err := timeField(raw, "review_date", "date", "checkout_date")
	if err != nil {
		return nil, fmt.Errorf("booking review: %w", err)
	}

	reviewerName := stringField(raw, "guest_name", "reviewer_name", "username")
	if reviewerName == "" {
		reviewerName = defaultReviewerName
	}

	// Текст отзыва собирается из заголовка и раздельных блоков "понравилось/не понравилось"
	title := stringField(raw, "title", "review_title")
	liked := stringField(raw, "liked", "positive", "pros")
	disliked := stringField(raw, "disliked", "negative", "cons")
	text := joinNonEmpty("\n", title, liked, disliked)

	externalID := stringField(raw, "review_id", "review_hash", "id")
	if externalID == "" {
		// Синтезируем стабильный идентификатор из доступных полей:
		// при повторном скрапинге той же записи он обязан совпасть
		externalID = synthesizeBookingID(reviewerName, text, date.Format("2006-01-02"))
	}

	language := stringField(raw, "language_code", "language")
	if language == "" {
		language = defaultLanguage
	}

	review := &entity.NormalizedReview{
		ExternalID:    externalID,
		Text:          text,
		Rating:        floatField(raw, "average_score", "rating", "score"),
		RatingScale:   entity.PlatformBooking.RatingScale(),
		ReviewerName:  reviewerName,
		ReviewerImage: stringField(raw, "guest_avatar", "reviewer_image"),
		Language:      language,
		Images:        imageList(raw, "photos", "images"),
		Likes:         intField(raw, "helpful_votes", "likes"),
		OriginalURL:   stringField(raw, "review_url", "url"),
		Date:          date,
		Extra:         bookingExtra(raw),
	}

	return review, nil
}

// synthesizeBookingID строит детерминированный идентификатор отзыва
// из имени гостя, текста и даты
func synthesizeBookingID(name, text, date string) string {
	h := fnv.New64a()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(date))
	return fmt.Sprintf("bk-%x", h.Sum64())
}

// bookingExtra собирает платформо-специфичные поля Booking
func bookingExtra(raw entity.RawReview) map[string]string {
	extra := make(map[string]string)

	if nights := intField(raw, "stayed_nights", "nights"); nights > 0 {
		extra["stay_length"] = fmt.Sprintf("%d", nights)
	}
	if travelerType := stringField(raw, "traveler_type", "guest_type"); travelerType != "" {
		extra["traveler_type"] = travelerType
	}
	if country := stringField(raw, "guest_country", "country"); country != "" {
		extra["guest_country"] = country
	}
	if roomType := stringField(raw, "room_type"); roomType != "" {
		extra["room_type"] = roomType
	}

	if len(extra) == 0 {
		return nil
	}
	return extra
}
