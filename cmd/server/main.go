package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/devlink/backend/internal/config"
	"github.com/devlink/backend/internal/handlers"
	"github.com/devlink/backend/internal/services"
	"github.com/devlink/backend/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.MongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	db, err := storage.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		_ = storage.Disconnect(context.Background(), db)
	}()

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration)
	userService := services.NewMongoUserService(ctx, db)
	profileService := services.NewMongoProfileService(ctx, db, userService)
	postService := services.NewMongoPostService(ctx, db, userService)
	githubClient := services.NewGithubClient(cfg.GithubClientID, cfg.GithubClientSecret)

	userHandler := handlers.NewUserHandler(userService, tokenService)
	authHandler := handlers.NewAuthHandler(userService, tokenService)
	profileHandler := handlers.NewProfileHandler(profileService, githubClient)
	postHandler := handlers.NewPostHandler(postService)

	r := handlers.NewRouter(userHandler, authHandler, profileHandler, postHandler, tokenService)

	log.Printf("devlink API server starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
