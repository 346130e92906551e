package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"

	"github.com/chantierpro/chantierpro/internal/api/handlers"
	mw "github.com/chantierpro/chantierpro/internal/api/middleware"
	"github.com/chantierpro/chantierpro/internal/service"
	"github.com/chantierpro/chantierpro/pkg/auth"
	"github.com/chantierpro/chantierpro/pkg/config"
	"github.com/chantierpro/chantierpro/pkg/logger"
	"github.com/chantierpro/chantierpro/pkg/validator"
)

// Server представляет HTTP сервер API
type Server struct {
	router      chi.Router
	httpServer  *http.Server
	logger      logger.Logger
	config      *config.Config
	jwtManager  *auth.JWTManager
	redisClient *redis.Client
	baseHandler handlers.BaseHandler
	services    *Services
}

// Services содержит все сервисы для обработчиков API
type Services struct {
	ProjectService  *service.ProjectService
	VillaService    *service.VillaService
	CategoryService *service.CategoryService
	TaskService     *service.TaskService
	TeamService     *service.TeamService
	TemplateService *service.TemplateService
}

// NewServer создает новый экземпляр сервера API
func NewServer(config *config.Config, logger logger.Logger, jwtManager *auth.JWTManager, redisClient *redis.Client, services *Services) *Server {
	baseHandler := handlers.NewBaseHandler(logger, validator.NewValidator())

	server := &Server{
		router:      chi.NewRouter(),
		logger:      logger,
		config:      config,
		jwtManager:  jwtManager,
		redisClient: redisClient,
		baseHandler: baseHandler,
		services:    services,
	}

	server.setupRoutes()

	return server
}

// setupRoutes настраивает маршруты API
func (s *Server) setupRoutes() {
	projectHandler := handlers.NewProjectHandler(s.baseHandler, s.services.ProjectService)
	villaHandler := handlers.NewVillaHandler(s.baseHandler, s.services.VillaService)
	categoryHandler := handlers.NewCategoryHandler(s.baseHandler, s.services.CategoryService, s.services.TeamService)
	taskHandler := handlers.NewTaskHandler(s.baseHandler, s.services.TaskService)
	teamHandler := handlers.NewTeamHandler(s.baseHandler, s.services.TeamService)
	templateHandler := handlers.NewTemplateHandler(s.baseHandler, s.services.TemplateService)

	authMiddleware := mw.NewAuthMiddleware(s.jwtManager, s.logger)
	loggingMiddleware := mw.NewLoggingMiddleware(s.logger)

	// Rate limiter делит счетчики через Redis между репликами
	rateLimiter := mw.NewRateLimiter(mw.RateLimiterConfig{
		Limit:    100,
		Period:   60,
		Strategy: mw.RateLimitIP,
	}, s.redisClient, s.logger)

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(loggingMiddleware.LogRequest)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(rateLimiter.Limit)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Базовый маршрут для проверки работоспособности API
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK"}`))
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		// Все маршруты требуют токен внешнего сервиса аутентификации
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Маршруты для проектов
			r.Route("/projects", func(r chi.Router) {
				r.Post("/", projectHandler.CreateProject)
				r.Get("/", projectHandler.ListProjects)
				r.Get("/{id}", projectHandler.GetProject)
				r.Put("/{id}", projectHandler.UpdateProject)
				r.Delete("/{id}", projectHandler.DeleteProject)
				r.Get("/{id}/amounts", projectHandler.GetProjectAmounts)
			})

			// Маршруты для вилл
			r.Route("/villas", func(r chi.Router) {
				r.Post("/", villaHandler.CreateVilla)
				r.Get("/", villaHandler.ListVillas)
				r.Get("/{id}", villaHandler.GetVilla)
				r.Get("/{id}/tree", villaHandler.GetVillaTree)
				r.Put("/{id}", villaHandler.UpdateVilla)
				r.Delete("/{id}", villaHandler.DeleteVilla)
			})

			// Маршруты для категорий работ
			r.Route("/categories", func(r chi.Router) {
				r.Post("/", categoryHandler.CreateCategory)
				r.Get("/", categoryHandler.ListCategories)
				r.Get("/{id}", categoryHandler.GetCategory)
				r.Put("/{id}", categoryHandler.UpdateCategory)
				r.Delete("/{id}", categoryHandler.DeleteCategory)
				r.Get("/{id}/teams", categoryHandler.GetCategoryTeams)
				r.Get("/{id}/tasks", categoryHandler.GetCategoryTasks)
				r.Post("/{id}/teams", categoryHandler.AssignTeam)
			})

			// Маршруты для задач
			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", taskHandler.CreateTask)
				r.Get("/", taskHandler.ListTasks)
				r.Get("/unreceived", taskHandler.GetUnreceived)
				r.Get("/unpaid", taskHandler.GetUnpaid)
				r.Get("/{id}", taskHandler.GetTask)
				r.Put("/{id}", taskHandler.UpdateTask)
				r.Put("/{id}/progress", taskHandler.UpdateProgress)
				r.Put("/{id}/received", taskHandler.MarkReceived)
				r.Put("/{id}/paid", taskHandler.MarkPaid)
				r.Delete("/{id}", taskHandler.DeleteTask)
			})

			// Маршруты для бригад
			r.Route("/teams", func(r chi.Router) {
				r.Post("/", teamHandler.CreateTeam)
				r.Get("/", teamHandler.ListTeams)
				r.Get("/{id}", teamHandler.GetTeam)
				r.Put("/{id}", teamHandler.UpdateTeam)
				r.Delete("/{id}", teamHandler.DeleteTeam)
			})

			// Маршруты для шаблонов планирования
			r.Route("/templates", func(r chi.Router) {
				r.Post("/", templateHandler.CreateTemplate)
				r.Get("/", templateHandler.ListTemplates)
				r.Get("/{id}", templateHandler.GetTemplate)
				r.Delete("/{id}", templateHandler.DeleteTemplate)
				r.Post("/{id}/apply", templateHandler.ApplyTemplate)
			})
		})
	})
}

// ServeHTTP реализует интерфейс http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	s.logger.Info("Starting API server", map[string]interface{}{
		"port": s.config.HTTP.Port,
	})

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.HTTP.Port,
		Handler:      s.router,
		ReadTimeout:  s.config.HTTP.ReadTimeout,
		WriteTimeout: s.config.HTTP.WriteTimeout,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown корректно останавливает HTTP сервер, дожидаясь текущих запросов
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
