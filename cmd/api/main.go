package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/zenwiki/zenwiki-backend/internal/config"
	"github.com/zenwiki/zenwiki-backend/internal/handler"
	"github.com/zenwiki/zenwiki-backend/internal/middleware"
	"github.com/zenwiki/zenwiki-backend/internal/migration"
	"github.com/zenwiki/zenwiki-backend/internal/repository"
	"github.com/zenwiki/zenwiki-backend/internal/routes"
	"github.com/zenwiki/zenwiki-backend/internal/service"
	pkgcache "github.com/zenwiki/zenwiki-backend/pkg/cache"
	"github.com/zenwiki/zenwiki-backend/pkg/jwt"
	pkglogger "github.com/zenwiki/zenwiki-backend/pkg/logger"
	pkgredis "github.com/zenwiki/zenwiki-backend/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           ZenWiki Backend API
// @version         1.0
// @description     Wiki content service with a Discord-authenticated menu and page API
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.GetLogger().Info().
		Str("env", env).
		Strs("env_files", dotenvFiles).
		Msg("starting")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis is optional; without it the cache layer turns into no-ops
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		redisClient = nil
	}
	cacheService := pkgcache.NewService(redisClient)

	jwtManager := jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresDays)*24*time.Hour)

	userRepo := repository.NewUserRepository(db)
	pageRepo := repository.NewPageRepository(db)
	historyRepo := repository.NewPageHistoryRepository(db)
	menuRepo := repository.NewMenuRepository(db)

	pageService := service.NewPageService(pageRepo, historyRepo, cacheService)
	menuService := service.NewMenuService(menuRepo, pageRepo, cacheService)
	authService := service.NewAuthService(userRepo, jwtManager, cfg.Discord)

	pageHandler := handler.NewPageHandler(pageService)
	menuHandler := handler.NewMenuHandler(menuService)
	authHandler := handler.NewAuthHandler(authService, cfg.App.FrontendURL)
	healthHandler := handler.NewHealthHandler(db, cacheService)

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = cfg.App.FrontendURL
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{allowOrigins},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, pageHandler, menuHandler, authHandler, healthHandler, jwtManager)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	pkglogger.GetLogger().Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// initDB opens the configured database, MySQL in deployment and sqlite
// for local work.
func initDB(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	switch cfg.Database.Driver {
	case "mysql":
		return gorm.Open(mysql.Open(cfg.Database.GetDSN()), gormCfg)
	case "sqlite", "":
		return gorm.Open(sqlite.Open(cfg.Database.Path), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
