package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/flowguide/internal/api"
	"github.com/dgallion1/flowguide/internal/catalog"
	"github.com/dgallion1/flowguide/internal/config"
	"github.com/dgallion1/flowguide/internal/mount"
	"github.com/dgallion1/flowguide/internal/render"
	"github.com/dgallion1/flowguide/internal/source"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	path := os.Getenv("FLOWGUIDE_CONFIG")
	if path == "" {
		path = "flowguide.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Error("loading configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat := catalog.New(cfg.ContentDir, cfg.ContentGlobs, cfg.Sources, log)
	if err := cat.Reload(); err != nil {
		log.Error("loading catalog", "error", err)
		os.Exit(1)
	}
	fetcher := source.NewFetcher(cfg.FetchTimeout, cfg.MaxDocumentBytes)
	mounts := mount.NewStore(cfg.MountTTL)
	srv := api.NewServer(cat, fetcher, render.New(cfg.SiteTitle), mounts, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting flowguide", "port", cfg.Port, "flowcharts", cat.Len())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		mounts.Run(gctx, cfg.MountSweepInterval, log)
		return nil
	})
	if cfg.Watch {
		g.Go(func() error {
			return cat.Watch(gctx, catalog.DefaultDebounce)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
