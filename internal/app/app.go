package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sphereview_backend/internal/catalog"
	"sphereview_backend/internal/config"
	"sphereview_backend/internal/controller"
	"sphereview_backend/internal/repository"
	"sphereview_backend/internal/service"
	"sphereview_backend/pkg/configwatcher"
	"sphereview_backend/pkg/database"
	"sphereview_backend/pkg/logger"
	"sphereview_backend/pkg/monitoring"
	"sphereview_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Catalog         *catalog.Catalog
	tracer          *sdktrace.TracerProvider
	services        *services
	configCallbacks []func(*config.Config)
}

// stores 未配置时两个接口都为 nil
type stores struct {
	progress    service.ProgressStore
	reflections service.ReflectionStore
	configured  bool
}

type services struct {
	progress  *service.ProgressService
	stats     *service.StatsService
	dashboard *service.DashboardService
	scripture *service.ScriptureService
	catalog   *service.CatalogService
}

type controllers struct {
	progress  *controller.ProgressController
	stats     *controller.StatsController
	dashboard *controller.DashboardController
	catalog   *controller.CatalogController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initStores(cfg *config.Config) stores {
	switch {
	case a.DB != nil:
		return stores{
			progress:    repository.NewProgressRepository(a.DB),
			reflections: repository.NewReflectionRepository(a.DB),
			configured:  true,
		}
	case cfg.Database.Driver == config.DriverMemory:
		logger.Log.Warn("Using in-memory progress store, data is lost on restart")
		return stores{
			progress:    repository.NewMemoryProgressStore(),
			reflections: repository.NewMemoryReflectionStore(),
			configured:  true,
		}
	default:
		logger.Log.Warn("Progress store unavailable, running in not-configured mode")
		return stores{}
	}
}

func (a *App) initServices(st stores, cfg *config.Config) *services {
	opts := []service.Option{service.WithLocation(cfg.Location())}

	s := &services{}
	s.progress = service.NewProgressService(st.progress, st.reflections, a.Catalog, opts...)
	s.stats = service.NewStatsService(st.progress, a.Catalog, opts...)
	s.dashboard = service.NewDashboardService(s.stats)
	s.scripture = service.NewScriptureService(cfg.Scripture, a.Redis)
	s.catalog = service.NewCatalogService(a.Catalog, s.progress, s.stats, s.scripture)
	return s
}

func (a *App) initControllers(s *services, configured bool) *controllers {
	return &controllers{
		progress:  controller.NewProgressController(s.progress),
		stats:     controller.NewStatsController(s.stats),
		dashboard: controller.NewDashboardController(s.dashboard),
		catalog:   controller.NewCatalogController(s.catalog),
		health:    controller.NewHealthController(a.DB, a.Catalog, configured),
	}
}

// initDatabase 未配置或使用内存存储时返回 nil
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	if !cfg.Database.Configured() || cfg.Database.Driver == config.DriverMemory {
		return nil, nil
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		return nil, err
	}

	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				sqlDB.Close()
			}
			return nil, err
		}
		logger.Log.Info("Database migrated")
	}
	return db, nil
}

func NewApp(cfg *config.Config, configDir string) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	// 数据库不可达时以未配置模式启动：读取返回零值，写入返回 503
	db, err := initDatabase(cfg)
	if err != nil {
		if cfg.MigrateOnly {
			return nil, err
		}
		logger.Log.Warn("Database unreachable, progress writes are disabled",
			zap.String("driver", cfg.Database.Driver),
			zap.Error(err),
		)
		db = nil
	}

	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		DB:        db,
	}
	if cfg.MigrateOnly {
		return app, nil
	}

	if cfg.Redis.Configured() {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Warn("Redis unavailable, scripture cache disabled", zap.Error(err))
		} else {
			app.Redis = rdb
		}
	}

	src, err := catalog.NewSource(cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	app.Catalog, err = catalog.Load(ctx, src)
	if err != nil {
		return nil, err
	}

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	st := app.initStores(cfg)
	app.services = app.initServices(st, cfg)
	controllers := app.initControllers(app.services, st.configured)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	app.Router = gin.New()
	app.setupMiddlewares(app.Router, cfg)
	app.registerRoutes(app.Router, controllers, cfg)

	app.RegisterConfigCallback(app.applyConfig)
	return app, nil
}

// applyConfig 热更新只覆盖日志级别和经文缓存时长，其余配置需重启
func (a *App) applyConfig(cfg *config.Config) {
	logger.SetMode(cfg.Server.Mode)
	if a.services != nil {
		a.services.scripture.SetCacheTTL(cfg.Scripture.CacheTTL())
	}
	logger.Log.Info("Applied reloaded config", zap.String("mode", cfg.Server.Mode))
}

func (a *App) watchConfig(ctx context.Context) {
	err := configwatcher.WatchConfig(ctx, a.ConfigDir, func(cfg *config.Config) {
		for _, callback := range a.configCallbacks {
			callback(cfg)
		}
	})
	if err != nil {
		logger.Log.Warn("Config watcher disabled", zap.Error(err))
	}
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go a.watchConfig(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	// 等待进行中的请求，最多5秒
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	a.Close(shutdownCtx)
	logger.Log.Info("Server exiting")
	return nil
}

func (a *App) Close(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

