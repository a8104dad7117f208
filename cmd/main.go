package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jhendriks/photoregister/internal/api/http/router"
	httpServer "github.com/jhendriks/photoregister/internal/api/http/server"
	"github.com/jhendriks/photoregister/internal/config"
	"github.com/jhendriks/photoregister/internal/jwe"
	"github.com/jhendriks/photoregister/internal/logger"
	"github.com/jhendriks/photoregister/internal/metrics"
	"github.com/jhendriks/photoregister/internal/model"
	"github.com/jhendriks/photoregister/internal/photostore"
	"github.com/jhendriks/photoregister/internal/repository/postgres"
	"github.com/jhendriks/photoregister/internal/server"
	"github.com/jhendriks/photoregister/internal/service"
	storage "github.com/jhendriks/photoregister/internal/storage/minio"
	"github.com/jhendriks/photoregister/internal/txlog"
	"github.com/jhendriks/photoregister/internal/watermark"
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

	photoStore, transactionLog, closeStores, err := buildStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize stores", "error", err)
	}
	defer closeStores()

	photoService := service.NewPhoto(
		photoStore,
		transactionLog,
		watermark.NewEmbedder(cfg.Watermark.Label, cfg.Watermark.Quality),
		jwe.NewEncrypter(),
		metrics.New(),
		logger,
		cfg.Lookup.Timeout,
	)

	r := router.New(photoService, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

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
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// buildStores wires the photo register and the transaction log. With a
// database DSN configured the register reads postgres metadata and MinIO
// objects; without one it falls back to the seeded in-memory register for
// local development.
func buildStores(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.PhotoStore, model.TransactionLog, func(), error) {
	if cfg.Database.DSN == "" {
		logger.Info("no database configured, serving the seeded in-memory register")
		return photostore.NewMemorySeeded(), txlog.NewMemory(), func() {}, nil
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	store := photostore.New(postgres.NewPhotoRepository(db), storageClient)
	transactionLog := postgres.NewTransactionRepository(db)

	return store, transactionLog, func() { db.Close() }, nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
