package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все конфигурационные параметры приложения
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	JWT       JWTConfig
	Scheduler SchedulerConfig
	Template  TemplateConfig
}

// AppConfig содержит общие настройки приложения
type AppConfig struct {
	Name        string
	Context     context.Context
	Environment string
	LogLevel    string
	Debug       bool
}

// HTTPConfig содержит настройки HTTP-сервера
type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	BasePath        string
}

// DatabaseConfig содержит настройки подключения к базе данных
type DatabaseConfig struct {
	Host         string
	Port         string
	Username     string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxLife  time.Duration
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Host       string
	Port       string
	Password   string
	DB         int
	DefaultTTL time.Duration
}

// KafkaConfig содержит настройки для работы с Kafka
type KafkaConfig struct {
	Brokers []string
	Topics  KafkaTopics
}

// KafkaTopics содержит названия топиков Kafka
type KafkaTopics struct {
	TaskCreated     string
	TaskUpdated     string
	TaskDeleted     string
	TemplateApplied string
	VillaProgress   string
}

// JWTConfig содержит настройки проверки JWT-токенов.
// Токены выпускает внешний сервис аутентификации; здесь они только проверяются.
type JWTConfig struct {
	Secret string
	Issuer string
}

// SchedulerConfig содержит настройки для планировщика пересчета статусов
type SchedulerConfig struct {
	ProgressSweepCron string
	TeamStatsCron     string
	SweepConcurrency  int
}

// TemplateConfig содержит значения по умолчанию для применения шаблонов
type TemplateConfig struct {
	DefaultTaskDurationDays   int
	DefaultCategoryWindowDays int
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл, если он существует
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "chantierpro"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		HTTP: HTTPConfig{
			Port:            getEnv("HTTP_PORT", "8080"),
			ReadTimeout:     getEnvAsDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", 20*time.Second),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 5*time.Second),
			BasePath:        getEnv("HTTP_BASE_PATH", "/api"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Username:     getEnv("DB_USER", "chantier"),
			Password:     getEnv("DB_PASSWORD", "chantier"),
			Database:     getEnv("DB_NAME", "chantierpro"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLife:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:       getEnv("REDIS_HOST", "localhost"),
			Port:       getEnv("REDIS_PORT", "6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			DefaultTTL: getEnvAsDuration("REDIS_DEFAULT_TTL", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topics: KafkaTopics{
				TaskCreated:     getEnv("KAFKA_TOPIC_TASK_CREATED", "task_created"),
				TaskUpdated:     getEnv("KAFKA_TOPIC_TASK_UPDATED", "task_updated"),
				TaskDeleted:     getEnv("KAFKA_TOPIC_TASK_DELETED", "task_deleted"),
				TemplateApplied: getEnv("KAFKA_TOPIC_TEMPLATE_APPLIED", "template_applied"),
				VillaProgress:   getEnv("KAFKA_TOPIC_VILLA_PROGRESS", "villa_progress"),
			},
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			Issuer: getEnv("JWT_ISSUER", "chantierpro-auth"),
		},
		Scheduler: SchedulerConfig{
			ProgressSweepCron: getEnv("SCHEDULER_PROGRESS_SWEEP_CRON", "0 0 * * * *"),
			TeamStatsCron:     getEnv("SCHEDULER_TEAM_STATS_CRON", "0 30 * * * *"),
			SweepConcurrency:  getEnvAsInt("SCHEDULER_SWEEP_CONCURRENCY", 4),
		},
		Template: TemplateConfig{
			DefaultTaskDurationDays:   getEnvAsInt("TEMPLATE_DEFAULT_TASK_DURATION_DAYS", 7),
			DefaultCategoryWindowDays: getEnvAsInt("TEMPLATE_DEFAULT_CATEGORY_WINDOW_DAYS", 30),
		},
	}

	return config, nil
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
}

// RedisAddr возвращает адрес подключения к Redis
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Утилитарные функции для получения переменных окружения

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
