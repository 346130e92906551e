package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/chantierpro/chantierpro/internal/messaging"
	"github.com/chantierpro/chantierpro/internal/repository/cache"
	"github.com/chantierpro/chantierpro/internal/repository/postgres"
	"github.com/chantierpro/chantierpro/internal/service"
	redisClient "github.com/chantierpro/chantierpro/pkg/cache"
	"github.com/chantierpro/chantierpro/pkg/config"
	"github.com/chantierpro/chantierpro/pkg/database"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// Repositories содержит все репозитории для работы с хранилищами данных
type Repositories struct {
	ProjectRepository  *postgres.ProjectRepository
	VillaRepository    *postgres.VillaRepository
	CategoryRepository *postgres.CategoryRepository
	TaskRepository     *postgres.TaskRepository
	TeamRepository     *postgres.TeamRepository
	TemplateRepository *postgres.TemplateRepository
	CacheRepository    *cache.RedisRepository
}

// Services содержит все сервисы приложения
type Services struct {
	StatsService    *service.StatsService
	TaskService     *service.TaskService
	CategoryService *service.CategoryService
	VillaService    *service.VillaService
	ProjectService  *service.ProjectService
	TeamService     *service.TeamService
	TemplateService *service.TemplateService
}

// Messaging содержит все клиенты для работы с сообщениями
type Messaging struct {
	Producer *messaging.KafkaProducer
}

// Application содержит все компоненты приложения
type Application struct {
	Config       *config.Config
	DB           *sqlx.DB
	Redis        *redisClient.Redis
	Logger       logger.Logger
	Repositories *Repositories
	Services     *Services
	Messaging    *Messaging
}

// NewApplication создает новое приложение с инициализированными компонентами
func NewApplication(ctx context.Context, cfg *config.Config, log logger.Logger) (*Application, error) {
	postgresDB, err := initPostgres(ctx, &cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	redisCache, err := initRedis(ctx, &cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	repos := initRepositories(postgresDB, redisCache, log, cfg)
	msgClients := initMessaging(cfg, log)
	services := initServices(repos, msgClients, cfg, log)

	return &Application{
		Config:       cfg,
		DB:           postgresDB,
		Redis:        redisCache,
		Logger:       log,
		Repositories: repos,
		Services:     services,
		Messaging:    msgClients,
	}, nil
}

// Close закрывает все соединения с внешними сервисами
func (app *Application) Close() {
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Error closing PostgreSQL connection", err)
		}
	}

	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Error closing Redis connection", err)
		}
	}

	if app.Messaging.Producer != nil {
		if err := app.Messaging.Producer.Close(); err != nil {
			app.Logger.Error("Error closing Kafka producer", err)
		}
	}
}

// Инициализация PostgreSQL
func initPostgres(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*sqlx.DB, error) {
	postgres, err := database.NewPostgres(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return postgres.DB, nil
}

// Инициализация Redis
func initRedis(ctx context.Context, cfg *config.RedisConfig, log logger.Logger) (*redisClient.Redis, error) {
	return redisClient.NewRedis(ctx, cfg, log)
}

// Инициализация репозиториев
func initRepositories(db *sqlx.DB, redis *redisClient.Redis, log logger.Logger, cfg *config.Config) *Repositories {
	return &Repositories{
		ProjectRepository:  postgres.NewProjectRepository(db, log),
		VillaRepository:    postgres.NewVillaRepository(db, log),
		CategoryRepository: postgres.NewCategoryRepository(db, log),
		TaskRepository:     postgres.NewTaskRepository(db, log),
		TeamRepository:     postgres.NewTeamRepository(db, log),
		TemplateRepository: postgres.NewTemplateRepository(db, log),
		CacheRepository:    cache.NewRedisRepository(redis.Client, log, cfg.Redis.DefaultTTL),
	}
}

// Инициализация Kafka
func initMessaging(cfg *config.Config, log logger.Logger) *Messaging {
	topics := map[string]string{
		"task_created":     cfg.Kafka.Topics.TaskCreated,
		"task_updated":     cfg.Kafka.Topics.TaskUpdated,
		"task_deleted":     cfg.Kafka.Topics.TaskDeleted,
		"template_applied": cfg.Kafka.Topics.TemplateApplied,
		"villa_progress":   cfg.Kafka.Topics.VillaProgress,
	}

	return &Messaging{
		Producer: messaging.NewKafkaProducer(cfg.Kafka.Brokers, topics, log),
	}
}

// Инициализация сервисов
func initServices(repos *Repositories, msg *Messaging, cfg *config.Config, log logger.Logger) *Services {
	statsSvc := service.NewStatsService(
		repos.TaskRepository,
		repos.CategoryRepository,
		repos.VillaRepository,
		repos.TeamRepository,
		repos.CacheRepository,
		msg.Producer,
		log,
	)

	taskSvc := service.NewTaskService(
		repos.TaskRepository,
		repos.CategoryRepository,
		repos.VillaRepository,
		repos.TeamRepository,
		repos.CacheRepository,
		msg.Producer,
		statsSvc,
		log,
		cfg.Template.DefaultTaskDurationDays,
	)

	categorySvc := service.NewCategoryService(
		repos.CategoryRepository,
		repos.VillaRepository,
		repos.TaskRepository,
		statsSvc,
		log,
	)

	villaSvc := service.NewVillaService(
		repos.VillaRepository,
		repos.ProjectRepository,
		repos.CategoryRepository,
		repos.TaskRepository,
		repos.CacheRepository,
		log,
	)

	projectSvc := service.NewProjectService(
		repos.ProjectRepository,
		repos.TaskRepository,
		log,
	)

	teamSvc := service.NewTeamService(
		repos.TeamRepository,
		repos.TaskRepository,
		repos.CategoryRepository,
		taskSvc,
		repos.CacheRepository,
		log,
	)

	templateSvc := service.NewTemplateService(
		repos.TemplateRepository,
		repos.CategoryRepository,
		repos.VillaRepository,
		repos.TeamRepository,
		taskSvc,
		msg.Producer,
		log,
		cfg.Template.DefaultTaskDurationDays,
	)

	return &Services{
		StatsService:    statsSvc,
		TaskService:     taskSvc,
		CategoryService: categorySvc,
		VillaService:    villaSvc,
		ProjectService:  projectSvc,
		TeamService:     teamSvc,
		TemplateService: templateSvc,
	}
}
