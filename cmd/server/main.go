package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"rosterup/docs"
	"rosterup/internal/auth"
	"rosterup/internal/cache"
	"rosterup/internal/config"
	"rosterup/internal/db"
	"rosterup/internal/handler"
	"rosterup/internal/metrics"
	"rosterup/internal/model"
	"rosterup/internal/repository"
	"rosterup/internal/router"
	"rosterup/internal/seed"
	"rosterup/internal/service"
)

// @title RosterUp Administrative API
// @version 1.0
// @description Multi-tenant roster administration backend with JWT authentication and role-based access control.
// @BasePath /api/roster-up/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// .env is optional; environment variables win.
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Token{},
		&model.Tenant{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	metrics.Init(cfg.MetricsPrefix)

	// Initialize repositories
	roleRepo := repository.NewRoleRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	tokenRepo := repository.NewTokenRepository(gormDB)
	tenantRepo := repository.NewTenantRepository(gormDB)

	// Bootstrap reference data (roles and the developer user)
	if err := seed.Run(context.Background(), cfg, roleRepo, userRepo); err != nil {
		log.Fatalf("seed reference data: %v", err)
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, tokenRepo, jwtService)
	tenantService := service.NewTenantService(tenantRepo, cacheClient)
	userService := service.NewUserService(userRepo, roleRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	userHandler := handler.NewUserHandler(userService)

	// Register routes
	router.Register(e, cfg, authService, authHandler, tenantHandler, userHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
