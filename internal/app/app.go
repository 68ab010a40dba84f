package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"learning_pathway_backend/internal/config"
	"learning_pathway_backend/internal/controller"
	"learning_pathway_backend/internal/repository"
	"learning_pathway_backend/internal/service"
	"learning_pathway_backend/pkg/database"
	"learning_pathway_backend/pkg/logger"
	"learning_pathway_backend/pkg/monitoring"
	"learning_pathway_backend/pkg/security"
	"learning_pathway_backend/pkg/tracing"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	resource    *repository.ResourceRepository
	studyPlan   *repository.StudyPlanRepository
	progress    *repository.ProgressRepository
	quiz        *repository.QuizRepository
	achievement *repository.AchievementRepository
	motivation  *repository.MotivationRepository
}

type services struct {
	ai             *service.AIService
	recommendation *service.RecommendationService
	auth           *service.AuthService
	user           *service.UserService
	storage        *service.StorageService
	studyPlan      *service.StudyPlanService
	progress       *service.ProgressService
	achievement    *service.AchievementService
	quiz           *service.QuizService
	dashboard      *service.DashboardService
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	studyPlan *controller.StudyPlanController
	resource  *controller.ResourceController
	progress  *controller.ProgressController
	quiz      *controller.QuizController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置热更新入口，由文件监听触发
func (a *App) ReloadConfig(cfg *config.Config) {
	cfg.ForceMigrate = a.Config.ForceMigrate
	cfg.MigrateOnly = a.Config.MigrateOnly
	*a.Config = *cfg
	for _, callback := range a.configCallbacks {
		callback(a.Config)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		resource:    repository.NewResourceRepository(db),
		studyPlan:   repository.NewStudyPlanRepository(db),
		progress:    repository.NewProgressRepository(db),
		quiz:        repository.NewQuizRepository(db),
		achievement: repository.NewAchievementRepository(db),
		motivation:  repository.NewMotivationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	s.ai = service.NewAIService(cfg)
	s.recommendation = service.NewRecommendationService(cfg, repos.resource, s.ai, rdb)
	s.auth = service.NewAuthService(cfg, repos.user)
	s.user = service.NewUserService(repos.user, s.recommendation)
	s.achievement = service.NewAchievementService(repos.achievement, repos.studyPlan, repos.progress)
	s.studyPlan = service.NewStudyPlanService(repos.studyPlan, repos.progress, s.recommendation, s.achievement)
	s.progress = service.NewProgressService(repos.progress, repos.studyPlan, s.achievement)
	s.quiz = service.NewQuizService(repos.quiz, repos.studyPlan, s.ai)
	s.dashboard = service.NewDashboardService(repos.user, repos.studyPlan, repos.progress, repos.motivation, repos.achievement, s.recommendation)

	return s, nil
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		user:      controller.NewUserController(s.user, s.storage),
		studyPlan: controller.NewStudyPlanController(s.studyPlan, repos.user),
		resource:  controller.NewResourceController(repos.resource, repos.user, s.recommendation),
		progress:  controller.NewProgressController(s.progress, s.achievement),
		quiz:      controller.NewQuizController(s.quiz),
		dashboard: controller.NewDashboardController(s.dashboard),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
		log.Fatalf("Failed to initialize services: %v", err)
	}
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("learning-pathway", cfg.Tracing.CollectorEndpoint, cfg.Server.Mode); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
