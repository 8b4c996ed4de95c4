package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"daftar/internal/auth"
	"daftar/internal/cli"
	"daftar/internal/core"
	apphttp "daftar/internal/http"
	applog "daftar/internal/log"
	"daftar/internal/services"
)

func main() {
	cli.LoadEnvFile()
	slogger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(slogger)

	store := cli.InitStore(slogger, cfg.SQLiteDBPath)
	defer func() {
		if err := store.Close(); err != nil {
			slogger.Error("Failed to close store", "error", err)
		}
	}()

	ledger := services.NewLedger(store)
	gate := auth.NewGate(store)
	logger := applog.New(applog.DefaultConfig())

	// Surface today's reminders at startup, mirroring the login greeting.
	now := time.Now()
	today := core.NewDate(now.Year(), int(now.Month()), now.Day())
	if due, err := ledger.DueToday(context.Background(), today); err != nil {
		slogger.Warn("Failed to check due reminders", "error", err)
	} else {
		for _, rem := range due {
			slogger.Info("Reminder due today", "id", rem.ID, "description", rem.Description)
		}
	}

	srv := apphttp.NewServer(cfg, ledger, gate, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slogger.Info("Starting daftar server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slogger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slogger.Error("Server error", "error", err)
		os.Exit(1)
	}
	slogger.Info("Server stopped gracefully")
}
