package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mkovac21/accountd/internal/config"
	"github.com/mkovac21/accountd/internal/database"
	mongorepo "github.com/mkovac21/accountd/internal/repository/mongodb"
	"github.com/mkovac21/accountd/internal/service"
	"github.com/mkovac21/accountd/internal/transport/http/handlers"
	"github.com/mkovac21/accountd/internal/transport/http/middleware"
	"github.com/mkovac21/accountd/pkg/imaging"
	"github.com/mkovac21/accountd/pkg/token"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Database
	client, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())
	log.Println("Connected to database")

	// Repositories
	userRepo := mongorepo.NewUserRepo(client.Database(cfg.MongoDB))
	if err := userRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatal(err)
	}

	// Services
	issuer := token.New(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, issuer)
	userService := service.NewUserService(userRepo, imaging.NewNormalizer(cfg.AvatarSize))

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	avatarHandler := handlers.NewAvatarHandler(userService)

	// Auth middleware
	auth := middleware.Auth(authService)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /user", authHandler.Register)
	mux.HandleFunc("POST /user/login", authHandler.Login)
	mux.HandleFunc("GET /user/{id}", userHandler.Get)
	mux.HandleFunc("GET /user/{id}/avatar", avatarHandler.Get)

	// Protected
	mux.Handle("GET /users/my", auth(http.HandlerFunc(userHandler.Me)))
	mux.Handle("PATCH /user/my", auth(http.HandlerFunc(userHandler.Update)))
	mux.Handle("DELETE /user/my", auth(http.HandlerFunc(userHandler.Delete)))
	mux.Handle("POST /user/logout", auth(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("POST /user/logoutAll", auth(http.HandlerFunc(authHandler.LogoutAll)))
	mux.Handle("POST /user/my/avatar", auth(http.HandlerFunc(avatarHandler.Upload)))
	mux.Handle("DELETE /user/my/avatar", auth(http.HandlerFunc(avatarHandler.Delete)))

	// Start server with CORS and graceful shutdown
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	srv := &http.Server{
		Addr:    addr,
		Handler: middleware.CORS(mux),
	}

	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("ERROR shutdown: %v", err)
	}
}
