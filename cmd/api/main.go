package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"resumebuilder/internal/api"
	"resumebuilder/internal/auth"
	"resumebuilder/internal/config"
	"resumebuilder/internal/database"
	"resumebuilder/internal/mailer"
	"resumebuilder/internal/pdf"
	"resumebuilder/internal/storage"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	logger.Info("database ready",
		slog.String("host", cfg.Database.Host),
		slog.String("name", cfg.Database.Name),
	)

	privateKeyPEM, err := os.ReadFile(cfg.Auth.PrivateKeyPath)
	if err != nil {
		log.Fatalf("read private key: %v", err)
	}
	publicKeyPEM, err := os.ReadFile(cfg.Auth.PublicKeyPath)
	if err != nil {
		log.Fatalf("read public key: %v", err)
	}
	authService, err := auth.NewAuthService(privateKeyPEM, publicKeyPEM, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}

	uploads, err := storage.NewClient(cfg.Storage)
	if err != nil {
		log.Fatalf("init upload store: %v", err)
	}

	m := mailer.New(cfg.Mail, db, logger)
	if !cfg.Mail.Enabled() {
		logger.Warn("mail transport disabled, no notifications will be sent")
	}

	generator := pdf.NewGenerator(time.Duration(cfg.Render.TimeoutSeconds) * time.Second)

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, db, authService, uploads, m, generator, cfg.Render.TempDir, cfg.Clamd.Addr, logger)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	logger.Info("api listening", slog.String("address", address))
	if err := router.Run(address); err != nil {
		log.Fatalf("start api server: %v", err)
	}
}
