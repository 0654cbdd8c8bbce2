package main

import (
	"context"
	"log"
	"net/http"

	_ "harlos/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"harlos/internal/auth"
	"harlos/internal/cache"
	"harlos/internal/chat"
	"harlos/internal/config"
	"harlos/internal/db"
	"harlos/internal/handler"
	"harlos/internal/repository"
	"harlos/internal/router"
	"harlos/internal/service"
	"harlos/internal/ws"
)

// @title Harlos API
// @version 1.0
// @description Language-learning social backend: cookie-based auth, onboarding, friends, and chat provider tokens.
// @host localhost:5001
// @BasePath /api
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	e := echo.New()

	// the service is non-functional without its store
	mongoClient, err := db.NewMongo(context.Background(), cfg.MongoURI)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	database := mongoClient.Database(cfg.MongoDB)

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	friendRequestRepo := repository.NewFriendRequestRepository(database)

	if err := userRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	// Initialize auth and chat components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	streamClient := chat.NewStreamClient(cfg.StreamAPIKey, cfg.StreamAPISecret)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, streamClient)
	userService := service.NewUserService(userRepo, friendRequestRepo, cacheClient)
	chatService := service.NewChatService(streamClient, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.IsProduction())
	userHandler := handler.NewUserHandler(userService)
	chatHandler := handler.NewChatHandler(chatService)
	notifier := ws.NewNotifier()

	// Register routes
	router.Register(e, cfg, jwtService, authHandler, userHandler, chatHandler, notifier)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
