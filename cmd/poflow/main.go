package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourusername/po-workflow/config"
	"github.com/yourusername/po-workflow/internal/delivery/telegram"
	"github.com/yourusername/po-workflow/internal/domain/repository"
	"github.com/yourusername/po-workflow/internal/domain/schema"
	"github.com/yourusername/po-workflow/internal/infrastructure/journal"
	"github.com/yourusername/po-workflow/internal/infrastructure/sheetstore"
	"github.com/yourusername/po-workflow/internal/usecase"
	"github.com/yourusername/po-workflow/internal/workflow"
	"github.com/yourusername/po-workflow/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Konfiguratsiyani yuklash
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Konfiguratsiya yuklanmadi: %v", err)
	}

	// Logger ni ishga tushirish
	lg, err := logger.Init(cfg.LogDir)
	if err != nil {
		log.Fatalf("❌ Logger ishga tushmadi: %v", err)
	}
	defer logger.Sync()
	lg.Info("🚀 Ilova ishga tushmoqda...", zap.String("backend", cfg.SheetBackend), zap.String("patch_mode", cfg.PatchMode))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Sheet layout va bosqichlar
	layouts := schema.Default()
	defs := workflow.DefaultDefinitions()
	if cfg.StagesFile != "" {
		defs, err = workflow.LoadDefinitions(cfg.StagesFile, layouts)
		if err != nil {
			lg.Fatal("❌ Bosqichlar yuklanmadi", zap.String("file", cfg.StagesFile), zap.Error(err))
		}
	} else if err := defs.Validate(layouts); err != nil {
		lg.Fatal("❌ Standart bosqichlar noto'g'ri", zap.Error(err))
	}
	lg.Info("✅ Bosqichlar tayyor", zap.Int("count", len(defs.Stages)), zap.Int("version", defs.Version))

	// 2. Sheet store (+ ixtiyoriy redis cache)
	store, err := sheetstore.New(ctx, sheetstore.Options{
		Backend: cfg.SheetBackend,
		HTTP: sheetstore.HTTPConfig{
			BaseURL: cfg.SheetAPIURL,
			APIKey:  cfg.SheetAPIKey,
			Timeout: cfg.SheetAPITimeout,
		},
		Google: sheetstore.GoogleConfig{
			SpreadsheetID:   cfg.SpreadsheetID,
			CredentialsFile: cfg.CredentialsFile,
			DriveFolderID:   cfg.DriveFolderID,
		},
		XLSXPath:      cfg.XLSXPath,
		AttachmentDir: cfg.AttachmentDir,
	}, lg)
	if err != nil {
		lg.Fatal("❌ Sheet store yaratilmadi", zap.Error(err))
	}
	store = withCache(ctx, store, cfg, lg)
	lg.Info("✅ Sheet store tayyor", zap.String("backend", cfg.SheetBackend))

	// 3. Yozuvlar jurnali (Postgres yoki memory)
	journalRepo := journal.Open(ctx, journal.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPassword,
		DB:              cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSLMode,
		AdminDSN:        cfg.PostgresAdminDSN,
		ConnectAttempts: cfg.PostgresAttempts,
		RetrySeconds:    cfg.PostgresRetrySeconds,
	}, lg)
	defer journalRepo.Close()

	patchMode, err := workflow.ParsePatchMode(cfg.PatchMode)
	if err != nil {
		lg.Fatal("❌ PATCH_MODE", zap.Error(err))
	}
	dates := workflow.NewDateParser(cfg.DayFirst, cfg.Location)

	if cfg.TelegramToken == "" {
		// ALLOW_EMPTY_SECRETS: bot yo'q, faqat store tekshiruvi
		lg.Warn("TELEGRAM_BOT_TOKEN bo'sh. Bot ishga tushmaydi.")
		uc := usecase.NewWorkflowUseCase(store, defs, layouts, usecase.Options{
			PatchMode: patchMode, NormalizeGrouping: cfg.GroupingNormalize, Dates: dates,
			DriveFolderID: cfg.DriveFolderID, Logger: lg, Journal: journalRepo,
		})
		logPendingCounts(ctx, uc, lg)
		<-ctx.Done()
		return
	}

	// 4. Telegram bot handler (use case uchun notifier ham)
	botHandler, err := telegram.NewBotHandler(cfg.TelegramToken, telegram.Options{
		NotifyChatID:   cfg.NotifyChatID,
		NotifyThreadID: cfg.NotifyThreadID,
		AdminChatIDs:   cfg.AdminChatIDs,
		Dates:          dates,
		Logger:         lg,
	})
	if err != nil {
		lg.Fatal("❌ Bot handler yaratilmadi", zap.Error(err))
	}

	// 5. Use case
	uc := usecase.NewWorkflowUseCase(store, defs, layouts, usecase.Options{
		PatchMode:         patchMode,
		NormalizeGrouping: cfg.GroupingNormalize,
		Dates:             dates,
		DriveFolderID:     cfg.DriveFolderID,
		Logger:            lg,
		Notifier:          botHandler,
		Journal:           journalRepo,
	})
	botHandler.SetWorkflow(uc)
	lg.Info("✅ Use case tayyor")

	if err := botHandler.StartDigest(ctx, cfg.DigestCron, cfg.Location); err != nil {
		lg.Fatal("❌ DIGEST_CRON noto'g'ri", zap.String("cron", cfg.DigestCron), zap.Error(err))
	}

	lg.Info("🤖 Bot ishlayapti. To'xtatish uchun Ctrl+C ni bosing.")
	if err := botHandler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("❌ Bot xatosi", zap.Error(err))
	}
	lg.Info("✅ Bot to'xtatildi.")
}

// withCache REDIS_ADDRESS bo'lsa GetAll ni redis orqali keshlaydi
func withCache(ctx context.Context, store repository.SheetRepository, cfg *config.Config, lg *zap.Logger) repository.SheetRepository {
	if cfg.RedisAddress == "" {
		return store
	}
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := sheetstore.DialRedis(dialCtx, cfg.RedisAddress, cfg.RedisPassword)
	if err != nil {
		lg.Warn("redis ulanmadi, cache o'chiq", zap.String("addr", cfg.RedisAddress), zap.Error(err))
		return store
	}
	lg.Info("✅ Redis cache yoqildi", zap.String("addr", cfg.RedisAddress), zap.Duration("ttl", cfg.CacheTTL))
	return sheetstore.NewCachedStore(store, sheetstore.NewRedisCache(client), cfg.CacheTTL, lg)
}

func logPendingCounts(ctx context.Context, uc usecase.WorkflowUseCase, lg *zap.Logger) {
	counts, err := uc.PendingCounts(ctx)
	if err != nil {
		lg.Warn("pending counts", zap.Error(err))
		return
	}
	for _, st := range uc.Stages() {
		lg.Info("pending", zap.String("stage", st.ID), zap.Int("count", counts[st.ID]))
	}
}
