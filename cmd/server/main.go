package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "sweetshop/docs" // swagger docs

	"sweetshop/internal/auth"
	"sweetshop/internal/cache"
	"sweetshop/internal/config"
	"sweetshop/internal/db"
	"sweetshop/internal/handler"
	"sweetshop/internal/repository"
	"sweetshop/internal/router"
	"sweetshop/internal/service"
)

// @title Sweet Shop API
// @version 1.0
// @description Inventory management API for a sweet shop with JWT-gated mutations.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	// The pool is built on the first database call, not here, so the server
	// comes up and reports degraded health even when the database is down.
	gateway := db.New(cfg)

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	sweetRepo := repository.NewSweetRepository(gateway)
	userRepo := repository.NewUserRepository(gateway)

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	sweetService := service.NewSweetService(sweetRepo, cacheClient)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)

	sweetHandler := handler.NewSweetHandler(sweetService)
	authHandler := handler.NewAuthHandler(authService)
	healthHandler := handler.NewHealthHandler(gateway)

	router.Register(e, cfg, sweetHandler, authHandler, healthHandler, jwtService, tokenStore)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
