package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quietbloom/tend/internal/catalog"
	"github.com/quietbloom/tend/internal/chat"
	"github.com/quietbloom/tend/internal/config"
	"github.com/quietbloom/tend/internal/engagement"
	"github.com/quietbloom/tend/internal/llm"
	"github.com/quietbloom/tend/internal/observability"
	"github.com/quietbloom/tend/internal/personalization"
	"github.com/quietbloom/tend/internal/server"
	"github.com/quietbloom/tend/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	log, err := observability.NewLogger(cfg.Env)
	if err != nil {
		return err
	}
	defer log.Sync()

	// Resolve database path
	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := catalog.Seed(db); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	// Reply generation is optional: without a provider the turn endpoint
	// reports a retryable failure instead of the process refusing to start.
	var client llm.Client
	client, err = llm.NewClient(cfg.LLM)
	if err != nil {
		log.Warn("reply generation not configured", zap.Error(err))
		client = nil
	} else {
		log.Info("llm configured", zap.String("provider", cfg.LLM.Provider))
	}

	ledger := engagement.NewLedger(db, log)
	evaluator := engagement.NewEvaluator(db, ledger, log)
	resolver := chat.NewResolver(db, client, ledger, log)
	signals := personalization.NewGenerator(db, ledger)

	srv := server.New(db, ledger, evaluator, resolver, signals, log, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("tend serving", zap.String("addr", addr), zap.String("db", dbPath))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	<-done
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
