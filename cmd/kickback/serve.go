package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"kickback/internal/adapters/auth"
	"kickback/internal/adapters/eventsapi"
	"kickback/internal/adapters/wallet"
	delivery "kickback/internal/delivery/http"
	"kickback/internal/delivery/http/controllers"
	"kickback/internal/delivery/http/middleware"
	"kickback/internal/domain"
	"kickback/internal/monitoring"
	"kickback/internal/repository/postgres"
	"kickback/internal/services"
)

const (
	purgeInterval   = 10 * time.Minute
	shutdownTimeout = 15 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	client := &http.Client{Timeout: cfg.HTTPTimeout}
	network, err := domain.ParseNetwork(cfg.Network)
	if err != nil {
		return err
	}

	devAddrs := domain.Addresses{Devnet: cfg.ContractAddress}
	if network == domain.NetworkMainnet {
		devAddrs = domain.Addresses{Mainnet: cfg.ContractAddress}
	}
	w, err := wallet.NewWallet(wallet.Config{
		Provider:     cfg.WalletProvider,
		URL:          cfg.WalletURL,
		DevAddresses: devAddrs,
	}, client, logger)
	if err != nil {
		return fmt.Errorf("init wallet: %w", err)
	}

	monitor := monitoring.NewMonitor()
	tokens := auth.NewJWTTokens(cfg.JWTSecret)
	reader := eventsapi.NewHTTPEventReader(client, cfg.EventsAPIURL)
	caller := services.NewContractCaller(w, services.ContractDefaults{
		Network:           network,
		ContractAddress:   cfg.ContractAddress,
		PostConditionMode: domain.PostConditionAllow,
	}, logger, monitor)

	board := services.NewEventBoardService(reader, caller, logger, monitor)
	onboarding := services.NewOnboardingService(caller, board, logger, monitor)
	panel := services.NewParticipantPanelService(reader, caller, logger, monitor)
	gate := services.NewSessionGate(postgres.NewSessionRepository(db), tokens, w, onboarding, board,
		domain.AppDetails{Name: cfg.AppName, IconURL: cfg.AppIconURL}, cfg.SessionTTL, logger, monitor)

	mux := delivery.NewRouter(delivery.Router{
		Session:    controllers.NewSessionController(logger, gate, onboarding),
		Onboarding: controllers.NewOnboardingController(logger, onboarding),
		Events:     controllers.NewEventController(logger, board, panel),
		Auth:       &middleware.SessionAuth{Verifier: tokens, Gate: gate, Logger: logger},
		Metrics:    monitor.Handler(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, monitor, mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go purgeSessions(ctx, gate)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "network", cfg.Network, "wallet", cfg.WalletProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// purgeSessions deletes expired sessions until ctx is done.
func purgeSessions(ctx context.Context, gate domain.SessionGate) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := gate.PurgeExpired(ctx); err != nil {
				logger.ErrorContext(ctx, "purge expired sessions", "err", err)
			}
		}
	}
}
