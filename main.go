package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/logging"
	"github.com/Zachkp/folio/internal/schedule"
	"github.com/Zachkp/folio/internal/store"
)

func main() {
	boot := logging.Must("info", "dev")
	cfg, err := config.Load(os.Args[1:], boot)
	if err != nil {
		boot.Fatal("cannot load config", zap.Error(err))
	}
	logger := logging.Must(cfg.LogLevel, cfg.Env)
	defer logger.Sync() //nolint:errcheck
	logger.Debug("config", zap.String("dump", cfg.Dump()))

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profile, err := content.Load(cfg.ProfilePath)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	var sub contact.Submitter = &contact.SimulatedSubmitter{Clock: schedule.RealClock{}, Delay: cfg.SubmitDelay}
	if mc := cfg.Mail(); mc.Enabled() {
		sub = contact.NewMailSubmitter(mc)
		logger.Info("contact form delivers by email", zap.String("smtp_host", mc.Host))
	} else {
		logger.Info("contact form submissions are simulated", zap.Duration("delay", cfg.SubmitDelay))
	}

	srv, err := newServer(deps{cfg: cfg, log: logger, profile: profile, store: st, sub: sub})
	if err != nil {
		return err
	}
	engine, err := srv.routes()
	if err != nil {
		return err
	}
	go srv.runCleanup(ctx)

	hs := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", hs.Addr))
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}
