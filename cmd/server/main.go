package main

import (
	"codepair/internal/cache"
	"codepair/internal/config"
	"codepair/internal/repository"
	"codepair/internal/service"
	"codepair/internal/stream"
	"codepair/internal/transport/rest"
	"codepair/internal/transport/ws"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title CodePair Session API
// @version 1.0
// @description 1:1 pair coding interview sessions with chat and video
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()
	cfg.LogSummary()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Chat/video provider client
	streamClient, err := stream.NewClient(cfg.StreamBaseURL, cfg.StreamAPIKey, cfg.StreamAPISecret)
	if err != nil {
		log.Fatal("Failed to create stream client:", err)
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	sessionRepo := repository.NewSessionRepo(db)
	userRepo := repository.NewUserRepo(db)

	idxCtx, idxCancel := context.WithTimeout(ctx, 10*time.Second)
	defer idxCancel()
	if err := sessionRepo.EnsureIndexes(idxCtx); err != nil {
		log.Fatal("Failed to create session indexes:", err)
	}
	if err := userRepo.EnsureIndexes(idxCtx); err != nil {
		log.Fatal("Failed to create user indexes:", err)
	}

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, streamClient, cfg.JWTSecret)
	sessionSvc := service.NewSessionService(sessionRepo, sessionCache, streamClient, streamClient)
	querySvc := service.NewSessionQueryService(sessionRepo, userRepo, sessionCache)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	sessionSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		SessionService: sessionSvc,
		QueryService:   querySvc,
		WSHub:          wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/register")
		log.Println("  POST /v1/auth/login")
		log.Println("  GET  /v1/auth/me")
		log.Println("  GET  /v1/auth/stream-token")
		log.Println("  POST/GET /v1/sessions")
		log.Println("  POST /v1/sessions/{id}/join|leave|end")
		log.Println("  WS   /v1/ws/lobby")
		log.Println("  WS   /v1/ws/sessions/{id}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
