package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hanzi_learn_backend/internal/config"
	"hanzi_learn_backend/internal/controller"
	"hanzi_learn_backend/internal/repository"
	"hanzi_learn_backend/internal/service"
	"hanzi_learn_backend/pkg/configwatcher"
	"hanzi_learn_backend/pkg/csvtable"
	"hanzi_learn_backend/pkg/database"
	"hanzi_learn_backend/pkg/logger"
	"hanzi_learn_backend/pkg/monitoring"
	"hanzi_learn_backend/pkg/security"
	"hanzi_learn_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	Engine          *csvtable.Engine
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	stopSweeper     chan struct{}
}

type repositories struct {
	user      *repository.UserRepository
	character *repository.CharacterRepository
	progress  *repository.ProgressRepository
	history   *repository.QuizHistoryRepository
}

type services struct {
	auth      *service.AuthService
	character *service.CharacterService
	progress  *service.ProgressService
	quiz      *service.QuizService
	history   *service.QuizHistoryService
	dashboard *service.DashboardService
	cache     *service.DashboardCache
}

type controllers struct {
	auth      *controller.AuthController
	character *controller.CharacterController
	progress  *controller.ProgressController
	quiz      *controller.QuizController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(engine *csvtable.Engine) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(engine),
		character: repository.NewCharacterRepository(engine),
		progress:  repository.NewProgressRepository(engine),
		history:   repository.NewQuizHistoryRepository(engine),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.cache = service.NewDashboardCache(rdb)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.character = service.NewCharacterService(repos.character, s.cache)
	s.progress = service.NewProgressService(repos.progress, s.cache)
	s.history = service.NewQuizHistoryService(repos.history)
	s.dashboard = service.NewDashboardService(repos.character, repos.progress, s.cache)
	s.quiz = service.NewQuizService(
		repos.character,
		repos.progress,
		repos.history,
		s.cache,
		cfg.Quiz.AdvanceDelay(),
		cfg.Quiz.SessionTTL(),
	)

	return s
}

func (a *App) initControllers(s *services, engine *csvtable.Engine) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, s.character, s.progress, a.Config),
		character: controller.NewCharacterController(s.character),
		progress:  controller.NewProgressController(s.progress),
		quiz:      controller.NewQuizController(s.quiz, s.history),
		dashboard: controller.NewDashboardController(s.dashboard),
		health:    controller.NewHealthController(engine),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	a.stopSweeper = make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.quiz.SweepIdle()
			case <-a.stopSweeper:
				return
			}
		}
	}()

	go configwatcher.WatchConfig("configs/config.yaml", func(cfg *config.Config) {
		logger.Log.Info("Config reloaded")
		for _, cb := range a.configCallbacks {
			cb(cfg)
		}
	})
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg.Server.Mode)
	logger.Log.Info("Logger initialized successfully")

	engine, err := csvtable.NewEngine(cfg.Storage.DataDir)
	if err != nil {
		logger.Log.Error("Failed to initialize storage engine", zap.Error(err))
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Error("Failed to initialize redis", zap.Error(err))
			return nil, err
		}
	}

	app := &App{
		Config: cfg,
		Engine: engine,
		Redis:  rdb,
	}

	repos := app.initRepositories(engine)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, engine)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("hanzi-learn", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
			return nil, err
		}
	}

	app.registerRoutes(router, controllers, cfg)

	app.startBackgroundTasks(services)

	return app, nil
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.stopSweeper != nil {
		close(a.stopSweeper)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
