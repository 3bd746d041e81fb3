package app

import (
	"context"
	"dsa_tutor_web/internal/config"
	"dsa_tutor_web/internal/controller"
	"dsa_tutor_web/internal/repository"
	"dsa_tutor_web/internal/service"
	"dsa_tutor_web/internal/util"
	"dsa_tutor_web/internal/view"
	"dsa_tutor_web/pkg/configwatcher"
	"dsa_tutor_web/pkg/database"
	"dsa_tutor_web/pkg/logger"
	"dsa_tutor_web/pkg/monitoring"
	"dsa_tutor_web/pkg/security"
	"dsa_tutor_web/pkg/tracing"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

const sweepInterval = time.Minute

type App struct {
	Router   *gin.Engine
	Redis    *redis.Client
	Sessions repository.SessionRepository

	config          atomic.Pointer[config.Config]
	services        *services
	limiter         *security.Limiter
	scheduler       *gocron.Scheduler
	tracer          *sdktrace.TracerProvider
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type services struct {
	api       service.TutorAPI
	quiz      *service.QuizService
	chat      *service.ChatService
	codeEval  *service.CodeEvalService
	history   *service.HistoryService
	analytics *service.AnalyticsService
}

type controllers struct {
	quiz      *controller.QuizController
	chat      *controller.ChatController
	codeEval  *controller.CodeEvalController
	history   *controller.HistoryController
	analytics *controller.AnalyticsController
	health    *controller.HealthController
}

// CurrentConfig 当前生效的配置，热更新后会被替换
func (a *App) CurrentConfig() *config.Config {
	return a.config.Load()
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	a.configCallbacks = append(a.configCallbacks, callback)
	a.mu.Unlock()
}

// ApplyConfig 替换配置并通知回调
func (a *App) ApplyConfig(cfg *config.Config) {
	a.config.Store(cfg)

	a.mu.Lock()
	callbacks := make([]func(*config.Config), len(a.configCallbacks))
	copy(callbacks, a.configCallbacks)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initServices(api service.TutorAPI, cfg *config.Config) *services {
	s := &services{api: api}

	s.quiz = service.NewQuizService(api)
	s.chat = service.NewChatService(api, cfg.Chat.KeywordDisplayLimit)
	s.codeEval = service.NewCodeEvalService(api)
	s.history = service.NewHistoryService(api)
	s.analytics = service.NewAnalyticsService(api, cfg.Analytics.Chronological)

	a.RegisterConfigCallback(func(c *config.Config) {
		s.chat.SetKeywordLimit(c.Chat.KeywordDisplayLimit)
		s.analytics.SetChronological(c.Analytics.Chronological)
	})

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		quiz:      controller.NewQuizController(s.quiz),
		chat:      controller.NewChatController(s.chat),
		codeEval:  controller.NewCodeEvalController(s.codeEval),
		history:   controller.NewHistoryController(s.history),
		analytics: controller.NewAnalyticsController(s.analytics),
		health:    controller.NewHealthController(s.api),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.limiter.Middleware())

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 定时清理空闲会话和限流器条目
func (a *App) startBackgroundTasks() {
	a.scheduler = gocron.NewScheduler(time.Local)
	a.scheduler.SingletonModeAll()

	if _, err := a.scheduler.Every(sweepInterval).Do(a.sweep); err != nil {
		logger.Log.Error("Failed to schedule session sweep", zap.Error(err))
		return
	}
	a.scheduler.StartAsync()
}

func (a *App) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, remaining, err := a.Sessions.Sweep(ctx, a.CurrentConfig().Session.IdleTTL)
	if err != nil {
		logger.Log.Error("Session sweep error", zap.Error(err))
		return
	}
	monitoring.ActiveSessions.Set(float64(remaining))
	if removed > 0 {
		logger.Log.Info("Idle sessions removed", zap.Int("removed", removed), zap.Int("remaining", remaining))
	}

	a.limiter.Cleanup()
}

// New 用给定的后端客户端和会话存储组装应用
func New(cfg *config.Config, api service.TutorAPI, sessions repository.SessionRepository) (*App, error) {
	app := &App{
		Sessions: sessions,
		limiter:  security.NewLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute),
	}
	app.config.Store(cfg)

	services := app.initServices(api, cfg)
	app.services = services
	controllers := app.initControllers(services)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	templates, err := view.Templates()
	if err != nil {
		return nil, err
	}

	router := gin.Default()
	router.SetHTMLTemplate(templates)
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	return app, nil
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	var (
		sessions repository.SessionRepository
		rdb      *redis.Client
	)
	switch cfg.Session.Store {
	case util.SessionStoreRedis:
		var err error
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		sessions = repository.NewRedisSessionRepository(rdb, cfg.Session.IdleTTL)
	default:
		sessions = repository.NewMemorySessionRepository()
	}

	var tp *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		var err error
		tp, err = tracing.InitTracer("dsa-tutor-web", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app, err := New(cfg, service.NewTutorClient(cfg.Backend), sessions)
	if err != nil {
		logger.Log.Fatal("Failed to build application", zap.Error(err))
	}
	app.Redis = rdb
	app.tracer = tp

	return app
}

func (a *App) Run() {
	cfg := a.CurrentConfig()
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: a.Router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.startBackgroundTasks()

	// 配置热更新
	go func() {
		if err := configwatcher.Watch(ctx, cfg.Path, a.ApplyConfig); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()

	go func() {
		logger.Log.Info("Server running", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Backend.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	cancel()
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
