package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gazet_go/internal/catalog"
	"gazet_go/internal/config"
	"gazet_go/internal/logging"
	"gazet_go/internal/moderation"
	"gazet_go/internal/shop"
	"gazet_go/pkg/storage"
	"gazet_go/pkg/telegram"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(configPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить бота и HTTP-сервер",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := logging.New("SHOP")

	h, err := openCatalog(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer h.Close()
	store := h.store
	var sessionDB *sql.DB
	if h.db != nil {
		sessionDB = h.db.Conn
	}

	botCfg := telegram.Config{
		AppID:       cfg.AppID,
		AppHash:     cfg.AppHash,
		BotToken:    cfg.BotToken,
		SessionFile: cfg.SessionFile,
		DB:          sessionDB,
		Logger:      logging.Transport(cfg.Debug),
	}
	if cfg.ProxyAddr != "" {
		botCfg.Proxy = &telegram.Proxy{Addr: cfg.ProxyAddr, Login: cfg.ProxyLogin, Password: cfg.ProxyPass}
	}
	bot, err := telegram.NewBot(botCfg)
	if err != nil {
		return err
	}

	ledger := storage.NewModerationLedger()
	svc := shop.NewService(shop.Options{
		AdminID:     cfg.AdminID,
		Catalog:     store,
		Selections:  storage.NewMemorySelections(),
		Intake:      storage.NewIntake(),
		Ledger:      ledger,
		Transport:   bot.Transport(),
		ContactText: cfg.ContactText,
		Logger:      logger,
	})

	var (
		srv     *http.Server
		httpErr <-chan error
	)
	if cfg.HTTPPort != "" {
		srv = &http.Server{
			Addr:              ":" + cfg.HTTPPort,
			Handler:           setupRouter(store, ledger, cfg.APIToken),
			ReadHeaderTimeout: 10 * time.Second,
		}
		httpErr = startHTTP(srv, stop)
	}

	logger.Printf("бот запускается, администратор %d", cfg.AdminID)
	runErr := bot.Run(ctx, svc)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("[WARN] остановка HTTP: %v", err)
		}
		if err := <-httpErr; err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	logger.Printf("остановлено")
	return nil
}

// startHTTP запускает сервер в фоне. Если сервер не смог слушать порт, ошибка
// уходит в канал и вызывается stop. Канал закрывается после остановки сервера.
func startHTTP(srv *http.Server, stop func()) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		httpLog := logging.New("HTTP")
		httpLog.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpLog.Printf("Server failed: %v", err)
			errc <- err
			stop()
		}
	}()
	return errc
}

// Настройка маршрутов
func setupRouter(store catalog.Source, ledger moderation.Ledger, apiToken string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	catalog.SetupRoutes(r.Group("/catalog"), store)
	moderation.SetupRoutes(r.Group("/moderation"), ledger, apiToken)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}
