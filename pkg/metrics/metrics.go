package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Метрики движка синхронизации
// =============================================================================

// SyncsTotal - завершенные синхронизации по площадке и исходу
// result: success, error, rate_limited, skipped
var SyncsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "review_syncs_total",
		Help: "Total number of completed review syncs",
	},
	[]string{"platform", "result"},
)

// SyncDuration - длительность одной синхронизации end-to-end.
// Бакеты широкие: скрапинг внешней площадки идет десятки секунд.
var SyncDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "review_sync_duration_seconds",
		Help:    "Duration of a single review sync in seconds",
		Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600},
	},
	[]string{"platform"},
)

// SyncsInFlight - синхронизации, занимающие слот гейта прямо сейчас.
// Никогда не должна превышать SYNC_MAX_CONCURRENT.
var SyncsInFlight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "review_syncs_in_flight",
		Help: "Current number of review syncs holding a concurrency gate slot",
	},
)

// ReviewsIngested - отзывы, прошедшие дедупликацию и сохраненные в хранилище
var ReviewsIngested = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reviews_ingested_total",
		Help: "Total number of new reviews persisted to the canonical store",
	},
	[]string{"platform"},
)

// ReviewsSkipped - записи, отброшенные при нормализации или вставке
// reason: normalize_error, duplicate, before_watermark, persist_error
var ReviewsSkipped = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reviews_skipped_total",
		Help: "Total number of raw review records skipped during ingestion",
	},
	[]string{"platform", "reason"},
)

// ScraperErrors - ошибки внешнего скрапера
var ScraperErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "scraper_errors_total",
		Help: "Total number of scraper provider errors",
	},
	[]string{"platform", "kind"}, // kind: rate_limit, generic
)

// SchedulerTicks - тики планировщика по тирам периодичности
var SchedulerTicks = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "scheduler_ticks_total",
		Help: "Total number of scheduler ticks per frequency tier",
	},
	[]string{"tier", "result"}, // result: ok, query_failed
)

// =============================================================================
// Kafka Метрики
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"},
)
