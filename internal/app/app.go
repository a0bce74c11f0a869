package app

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/fotoclick/gallerygate/internal/aliasdir"
	"github.com/fotoclick/gallerygate/internal/catalog"
	"github.com/fotoclick/gallerygate/internal/config"
	"github.com/fotoclick/gallerygate/internal/db"
	"github.com/fotoclick/gallerygate/internal/model"
	"github.com/fotoclick/gallerygate/internal/ratelimit"
	"github.com/fotoclick/gallerygate/internal/repository"
	"github.com/fotoclick/gallerygate/internal/service"
	"github.com/fotoclick/gallerygate/internal/storage"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	GalleryService *service.GalleryService
	StaffService   *service.StaffService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	tokenRepository := repository.NewTokenRepository(database)
	assetRepository := repository.NewAssetRepository(database)
	auditRepository := repository.NewAuditRepository(database)

	// Blob storage
	blobStorage, err := storage.NewS3Storage(storage.S3Config{
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Endpoint:  cfg.S3Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Rate limiter: Redis when configured, in-process map otherwise
	var counter ratelimit.Counter
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		counter = ratelimit.NewRedisCounter(client)
		slog.Info("rate limiting via redis", "addr", cfg.RedisAddr)
	} else {
		counter = ratelimit.NewMemoryCounter()
		slog.Info("rate limiting via in-process counter")
	}
	limiter := ratelimit.New(counter, ratelimit.Config{
		Requests: cfg.DefaultRateLimit,
		Window:   cfg.DefaultRateWindow,
	})
	limiter.SetScopeConfig(model.ScopeShare, ratelimit.Config{
		Requests: cfg.ShareRateLimit,
		Window:   cfg.ShareRateWindow,
	})

	// External collaborators
	aliasClient := aliasdir.New(cfg.AliasDirectoryURL, cfg.CollaboratorTimeout)
	var catalogSource service.CatalogSource
	if cfg.CatalogServiceURL != "" {
		catalogSource = catalog.New(cfg.CatalogServiceURL, cfg.CollaboratorTimeout)
	}

	// Services
	logger := slog.Default()
	resolverService := service.NewResolverService(aliasClient, logger)
	accessService := service.NewAccessService(tokenRepository, auditRepository, logger)
	mediaService := service.NewMediaLinkService(blobStorage, service.MediaLinkBuckets{
		Preview:  cfg.PreviewBucket,
		Original: cfg.OriginalBucket,
		Legacy:   cfg.LegacyBucket,
	}, cfg.SignedURLExpiry, logger)
	catalogService := service.NewCatalogService(catalogSource, logger)
	galleryService := service.NewGalleryService(
		resolverService,
		accessService,
		limiter,
		assetRepository,
		mediaService,
		catalogService,
		logger,
	)
	staffService := service.NewStaffService(cfg.JWTSecret, cfg.JWTExpiry)

	return &App{
		Cfg:            cfg,
		DB:             database,
		GalleryService: galleryService,
		StaffService:   staffService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
