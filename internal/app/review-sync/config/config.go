package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит все настройки Review Sync Service
// Включает конфигурацию MongoDB, PostgreSQL, Redis, Kafka, внешнего скрапера и cron расписаний
type Config struct {
	HTTP         HTTPConfig
	Mongo        MongoConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Scraper      ScraperConfig
	Sync         SyncConfig
	CronSchedule CronScheduleConfig
}

// HTTPConfig - настройки HTTP сервера управления
type HTTPConfig struct {
	Port string // Порт HTTP сервера
}

// MongoConfig - настройки подключения к MongoDB
// Хранилище интеграций и канонических отзывов
type MongoConfig struct {
	URI    string // URI подключения (mongodb://host:port)
	DBName string // Имя базы данных
}

// DatabaseConfig - настройки подключения к PostgreSQL
// Используется для чтения справочника отелей (имя, email владельца)
type DatabaseConfig struct {
	Host     string // Хост PostgreSQL
	Port     string // Порт PostgreSQL
	User     string // Имя пользователя БД
	Password string // Пароль БД
	DBName   string // Имя базы данных
	SSLMode  string // Режим SSL (disable/require/verify-full)
}

// RedisConfig - настройки подключения к Redis
// Используется для single-flight блокировок по интеграциям
type RedisConfig struct {
	Host     string        // Хост Redis
	Port     string        // Порт Redis
	Password string        // Пароль Redis
	DB       int           // Номер БД Redis
	LockTTL  time.Duration // TTL блокировки синхронизации (страховка от зависших задач)
}

// KafkaConfig - настройки Kafka для публикации уведомлений о новых отзывах
type KafkaConfig struct {
	Brokers []string // Список брокеров Kafka (формат: host:port)
	Topic   string   // Топик уведомлений (review_notifications)
}

// ScraperConfig - настройки внешнего провайдера скрапинга
type ScraperConfig struct {
	BaseURL string        // Базовый URL API скрапера
	APIKey  string        // Токен доступа к API
	Timeout time.Duration // Таймаут одного запуска скрапера
}

// SyncConfig - настройки движка синхронизации
type SyncConfig struct {
	MaxConcurrent     int // Глобальный лимит одновременных синхронизаций
	DefaultMaxReviews int // max_reviews по умолчанию для новых интеграций
	DefaultLanguage   string
}

// CronScheduleConfig - cron расписания движка синхронизации.
// Отдельный тик на каждую периодичность плюс ежечасный housekeeping.
type CronScheduleConfig struct {
	Daily        string // Тик для daily интеграций
	Weekly       string // Тик для weekly интеграций
	Monthly      string // Тик для monthly интеграций
	Housekeeping string // Ежечасная уборка (просроченные блокировки, занятость гейта)
}

// Load загружает конфигурацию из переменных окружения
// Возвращает ошибку, если не удалось распарсить значения
func Load() (*Config, error) {
	lockTTLMinutes := getEnvInt("REDIS_SYNC_LOCK_TTL_MINUTES", 30)
	scraperTimeoutMinutes := getEnvInt("SCRAPER_TIMEOUT_MINUTES", 10)

	maxConcurrent := getEnvInt("SYNC_MAX_CONCURRENT", 5)
	if maxConcurrent < 1 {
		return nil, fmt.Errorf("SYNC_MAX_CONCURRENT must be >= 1, got %d", maxConcurrent)
	}

	return &Config{
		HTTP: HTTPConfig{
			Port: getEnv("HTTP_PORT", "8080"),
		},
		Mongo: MongoConfig{
			URI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
			DBName: getEnv("MONGO_DB", "review_sync"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "hotels"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			LockTTL:  time.Duration(lockTTLMinutes) * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "review_notifications"),
		},
		Scraper: ScraperConfig{
			BaseURL: getEnv("SCRAPER_API_URL", "https://api.scraper.example.com/v1"),
			APIKey:  getEnv("SCRAPER_API_KEY", ""),
			// Скрапинг страницы с отзывами может идти минутами,
			// но без верхней границы задача способна занять слот гейта навсегда
			Timeout: time.Duration(scraperTimeoutMinutes) * time.Minute,
		},
		Sync: SyncConfig{
			MaxConcurrent:     maxConcurrent,
			DefaultMaxReviews: getEnvInt("SYNC_DEFAULT_MAX_REVIEWS", 100),
			DefaultLanguage:   getEnv("SYNC_DEFAULT_LANGUAGE", "en"),
		},
		CronSchedule: CronScheduleConfig{
			// Daily тик каждый час: из-за условия next_scheduled_sync <= now
			// интеграция все равно выполнится не чаще раза в сутки
			Daily:        getEnv("CRON_DAILY", "0 * * * *"),
			Weekly:       getEnv("CRON_WEEKLY", "30 2 * * *"),
			Monthly:      getEnv("CRON_MONTHLY", "45 3 * * *"),
			Housekeeping: getEnv("CRON_HOUSEKEEPING", "15 * * * *"),
		},
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
