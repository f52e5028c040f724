package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/sandboxsec/awaretrack/internal/api"
	"github.com/sandboxsec/awaretrack/internal/auth"
	"github.com/sandboxsec/awaretrack/internal/config"
	"github.com/sandboxsec/awaretrack/internal/mailer"
	"github.com/sandboxsec/awaretrack/internal/repository/postgres"
	"github.com/sandboxsec/awaretrack/internal/service/clickstore"
	"github.com/sandboxsec/awaretrack/internal/service/directory"
	"github.com/sandboxsec/awaretrack/internal/service/dispatch"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("database url is required (config or DATABASE_URL)")
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("pinging database: %v", err)
	}
	log.Println("Connected to database")

	userRepo := postgres.NewUserRepo(db)
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			log.Fatal("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
		}
		if err := userRepo.EnsureOperator(context.Background(), email, password); err != nil {
			log.Fatalf("seeding operator account: %v", err)
		}
		log.Printf("Operator account ensured for %s", email)
	}

	var limiter *auth.LoginLimiter
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		limiter = auth.NewLoginLimiter(redisClient, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow())
		log.Printf("Sign-in rate limiting enabled via Redis at %s", cfg.Redis.Addr)
	} else {
		log.Println("Redis disabled, sign-in rate limiting is off")
	}

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("auth jwt_secret is required (config or JWT_SECRET)")
	}
	authManager := auth.NewManager(userRepo, limiter, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry())

	mailStore, err := mailer.NewConfigStore(cfg.Mail.ConfigFile)
	if err != nil {
		log.Fatalf("loading mail config store: %v", err)
	}
	if !mailStore.Snapshot().Configured() && cfg.Mail.Host != "" {
		seed := mailer.Settings{
			Host: cfg.Mail.Host, Port: cfg.Mail.Port,
			User: cfg.Mail.User, Pass: cfg.Mail.Pass, Secure: cfg.Mail.Secure,
		}
		if err := mailStore.Save(seed); err != nil {
			log.Printf("seeding mail config store: %v", err)
		}
	}

	provider := dispatch.TransportProviderFunc(func(ctx context.Context) (mailer.Transport, error) {
		if cfg.Mail.Transport == "ses" && cfg.SES.Enabled {
			return mailer.NewSESTransport(ctx, cfg.SES)
		}
		return mailer.NewSMTPTransport(mailStore.Snapshot(), cfg.Mail.Timeout()), nil
	})

	clicks := clickstore.NewService(postgres.NewClickRepo(db))
	dispatcher := dispatch.NewService(provider, cfg.Mail.Timeout())
	dir := directory.NewService(postgres.NewDirectoryRepo(db))

	handlers := api.NewHandlers(clicks, dispatcher, dir, authManager, mailStore, cfg.Mail.Timeout())
	server := api.NewServer(handlers, authManager, nil)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
