package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	httpcontext "github.com/dtroode/obituary-server/internal/api/http/context"
	"github.com/dtroode/obituary-server/internal/api/http/handler"
	"github.com/dtroode/obituary-server/internal/api/http/router"
	httpserver "github.com/dtroode/obituary-server/internal/api/http/server"
	"github.com/dtroode/obituary-server/internal/api/http/web"
	"github.com/dtroode/obituary-server/internal/config"
	"github.com/dtroode/obituary-server/internal/logger"
	"github.com/dtroode/obituary-server/internal/metrics"
	"github.com/dtroode/obituary-server/internal/model"
	"github.com/dtroode/obituary-server/internal/repository/postgres"
	"github.com/dtroode/obituary-server/internal/server"
	"github.com/dtroode/obituary-server/internal/service"
	"github.com/dtroode/obituary-server/internal/session/redis"
	"github.com/dtroode/obituary-server/internal/storage/attachment"
	"github.com/dtroode/obituary-server/internal/storage/local"
	storage "github.com/dtroode/obituary-server/internal/storage/minio"
	"github.com/dtroode/obituary-server/internal/token"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	redisClient, err := redis.Connect(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Fatal("failed to connect to session store", "error", err)
	}
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	userRepo := postgres.NewUserRepository(db)
	obituaryRepo := postgres.NewObituaryRepository(db)
	sessionStore := redis.NewStore(redisClient)
	tokenIssuer := token.NewJWT(token.Options{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	})

	disk := local.NewDisk(cfg.Uploads.Root)
	attachments := attachment.NewStore(newRemoteStorage(cfg.Storage, logger), disk, m, logger)

	authService := service.NewAuth(userRepo, sessionStore, tokenIssuer, cfg.Session.TTL, logger)
	obituaryService := service.NewObituary(obituaryRepo, attachments, logger)

	if cfg.Seed.Enabled {
		seeder := service.NewSeeder(userRepo, seedAccounts(cfg.Seed), logger)
		if err := seeder.Seed(ctx); err != nil {
			logger.Fatal("failed to seed accounts", "error", err)
		}
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Fatal("failed to parse templates", "error", err)
	}

	r := router.New(
		authService,
		obituaryService,
		httpcontext.NewManager(),
		renderer,
		m,
		map[string]handler.Pinger{
			"postgres": db,
			"redis": handler.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		},
		router.Options{
			CookieName:     cfg.Session.CookieName,
			CookieSecure:   cfg.Session.Secure,
			MaxUploadBytes: cfg.Uploads.MaxBytes,
			UploadsDir:     filepath.Join(disk.Root(), local.UploadsDir),
		},
		logger,
	)

	httpServer := httpserver.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

// newRemoteStorage returns nil when no remote backend is configured or the client
// cannot be built, so attachments go to local disk.
func newRemoteStorage(cfg config.Storage, logger *logger.Logger) model.ObjectStorage {
	if !cfg.Enabled() {
		logger.Info("remote storage not configured, attachments are stored on local disk")
		return nil
	}

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		logger.Warn("failed to create minio client, attachments are stored on local disk", "error", err)
		return nil
	}

	return storage.NewClient(minioClient, cfg.Bucket)
}

func seedAccounts(cfg config.Seed) []service.SeedAccount {
	return []service.SeedAccount{
		{
			Email:     cfg.AdminEmail,
			Password:  cfg.AdminPassword,
			FirstName: "Admin",
			LastName:  "User",
			Role:      model.RoleAdmin,
		},
		{
			Email:     cfg.UserEmail,
			Password:  cfg.UserPassword,
			FirstName: "Regular",
			LastName:  "User",
			Role:      model.RoleUser,
		},
	}
}
