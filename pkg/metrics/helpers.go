package metrics

import (
	"time"
)

// Исходы синхронизации для метрики review_syncs_total
const (
	SyncResultSuccess     = "success"
	SyncResultError       = "error"
	SyncResultRateLimited = "rate_limited"
	SyncResultSkipped     = "skipped"
)

// Причины пропуска записи для метрики reviews_skipped_total
const (
	SkipReasonNormalize       = "normalize_error"
	SkipReasonDuplicate       = "duplicate"
	SkipReasonBeforeWatermark = "before_watermark"
	SkipReasonPersist         = "persist_error"
)

// SyncTimer измеряет длительность одной синхронизации
type SyncTimer struct {
	platform string
	start    time.Time
}

// NewSyncTimer запускает таймер синхронизации
func NewSyncTimer(platform string) *SyncTimer {
	return &SyncTimer{
		platform: platform,
		start:    time.Now(),
	}
}

// Observe фиксирует исход и длительность синхронизации
func (t *SyncTimer) Observe(result string) {
	SyncsTotal.WithLabelValues(t.platform, result).Inc()
	SyncDuration.WithLabelValues(t.platform).Observe(time.Since(t.start).Seconds())
}

// RecordIngested фиксирует сохраненные отзывы
func RecordIngested(platform string, count int) {
	if count > 0 {
		ReviewsIngested.WithLabelValues(platform).Add(float64(count))
	}
}

// RecordSkipped фиксирует пропущенную запись
func RecordSkipped(platform, reason string) {
	ReviewsSkipped.WithLabelValues(platform, reason).Inc()
}

// RecordScraperError фиксирует ошибку внешнего скрапера
func RecordScraperError(platform string, rateLimited bool) {
	kind := "generic"
	if rateLimited {
		kind = "rate_limit"
	}
	ScraperErrors.WithLabelValues(platform, kind).Inc()
}

// KafkaProduceTimer измеряет отправку сообщения в Kafka
type KafkaProduceTimer struct {
	service string
	topic   string
	start   time.Time
}

func NewKafkaProduceTimer(service, topic string) *KafkaProduceTimer {
	return &KafkaProduceTimer{
		service: service,
		topic:   topic,
		start:   time.Now(),
	}
}

func (kt *KafkaProduceTimer) Success() {
	KafkaMessagesProduced.WithLabelValues(kt.service, kt.topic).Inc()
	KafkaProduceDuration.WithLabelValues(kt.service, kt.topic).Observe(time.Since(kt.start).Seconds())
}

func (kt *KafkaProduceTimer) Error() {
	KafkaErrors.WithLabelValues(kt.service, kt.topic, "produce").Inc()
}
