package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/brandbot/internal/ai"
	"github.com/xxxsen/brandbot/internal/config"
	"github.com/xxxsen/brandbot/internal/emailcheck"
	"github.com/xxxsen/brandbot/internal/embedcache"
	"github.com/xxxsen/brandbot/internal/filestore"
	"github.com/xxxsen/brandbot/internal/gaps"
	"github.com/xxxsen/brandbot/internal/handler"
	"github.com/xxxsen/brandbot/internal/job"
	"github.com/xxxsen/brandbot/internal/kv"
	"github.com/xxxsen/brandbot/internal/lead"
	"github.com/xxxsen/brandbot/internal/memory"
	"github.com/xxxsen/brandbot/internal/middleware"
	"github.com/xxxsen/brandbot/internal/repo"
	"github.com/xxxsen/brandbot/internal/schedule"
	"github.com/xxxsen/brandbot/internal/service"
	"github.com/xxxsen/brandbot/internal/vectorstore"
)

func main() {
	var configPath string
	var migrationsDir string

	rootCmd := &cobra.Command{
		Use:   "brandbot",
		Short: "brandbot backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run brandbot server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			db, err := repo.Open(cfg.DBDsn)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := repo.ApplyMigrations(db, migrationsDir); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			rdb, err := kv.Open(cfg.Redis)
			if err != nil {
				return fmt.Errorf("open redis: %w", err)
			}
			return runServer(cfg, db, rdb)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	runCmd.Flags().StringVar(&migrationsDir, "migrations", "migrations", "path to sql migrations")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, db *sql.DB, rdb *goredis.Client) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("vector_backend", cfg.VectorStore.Backend),
		zap.String("file_store", cfg.FileStore.Type),
	)

	leadRepo := repo.NewLeadRepo(db)
	gapRepo := repo.NewGapRepo(db)
	chatLogRepo := repo.NewChatLogRepo(db)

	chatProvider, err := ai.NewChatProvider(cfg.AI.Chat.Provider, cfg.AI.Chat.Data)
	if err != nil {
		return fmt.Errorf("init chat provider: %w", err)
	}
	embedProvider, err := ai.NewEmbedProvider(cfg.AI.Embed.Provider, cfg.AI.Embed.Data)
	if err != nil {
		return fmt.Errorf("init embed provider: %w", err)
	}
	embedder := embedcache.WrapLruCacheToEmbedder(
		ai.NewEmbedder(embedProvider, cfg.AI.Embed.Model),
		cfg.AI.EmbedCacheSize,
		time.Duration(cfg.AI.EmbedCacheTTL)*time.Hour,
	)
	manager := ai.NewManager(
		ai.NewCompleter(chatProvider, cfg.AI.Chat.Model),
		embedder,
		ai.ManagerConfig{Timeout: cfg.AI.Timeout, Dimensions: cfg.AI.Dimensions},
	)

	var store vectorstore.Store
	switch cfg.VectorStore.Backend {
	case "pgvector":
		store = vectorstore.NewPGStore(db, rdb)
	default:
		store = vectorstore.NewRedisStore(rdb)
	}

	extractor := lead.NewExtractor(lead.Config{
		Stoplist:          cfg.Lead.Stoplist,
		DisposableDomains: cfg.Lead.DisposableDomains,
	})
	detector := gaps.NewDetector(extractor)
	memStore := memory.NewStore(rdb, cfg.Memory.WindowSize, time.Duration(cfg.Memory.TTLHours)*time.Hour)
	checker := emailcheck.New(cfg.EmailCheck.Endpoint, time.Duration(cfg.EmailCheck.Timeout)*time.Second)

	files, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	chatService := service.NewChatService(manager, store, memStore, extractor, detector,
		leadRepo, gapRepo, chatLogRepo, checker, service.ChatConfig{
			BrandName:       cfg.BrandName,
			TopK:            cfg.VectorStore.TopK,
			ScoreThreshold:  cfg.VectorStore.ScoreThreshold,
			MaxMessageChars: cfg.AI.MaxMessageChars,
		})
	ingestService := service.NewIngestService(manager, store, rdb, files)
	authService := service.NewAuthService(cfg.Admin)
	adminService := service.NewAdminService(gapRepo, leadRepo, chatLogRepo)
	exportService := service.NewExportService(leadRepo, chatLogRepo)

	deps := handler.RouterDeps{
		Auth:          handler.NewAuthHandler(authService),
		Chat:          handler.NewChatHandler(chatService),
		Ingest:        handler.NewIngestHandler(ingestService),
		Gaps:          handler.NewGapHandler(adminService),
		Leads:         handler.NewLeadHandler(adminService, exportService),
		JWTSecret:     []byte(cfg.Admin.JWTSecret),
		ChatRateLimit: time.Duration(cfg.ChatRateLimitMS) * time.Millisecond,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewChatLogRetentionJob(chatLogRepo, cfg.Schedule.ChatLogKeepDays), cfg.Schedule.RetentionSpec); err != nil {
		return err
	}
	if err := scheduler.AddJob(job.NewGapDigestJob(gapRepo), cfg.Schedule.GapDigestSpec); err != nil {
		return err
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
