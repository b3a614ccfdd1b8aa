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

	"shipping/cmd"
	httpin "shipping/internal/adapters/in/http"
	"shipping/internal/jobs"
	"shipping/internal/metrics"

	"github.com/labstack/gommon/log"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs, err := cmd.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := cmd.NewLogger(configs, os.Stdout)
	if err != nil {
		log.Fatalf("logger setup error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := cmd.OpenDatabase(ctx, configs, logger, 10, time.Second)
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}

	runtime, err := cmd.BuildAdapters(ctx, configs, logger)
	if err != nil {
		log.Fatalf("adapter setup error: %v", err)
	}
	defer func() {
		if closeErr := runtime.Close(); closeErr != nil {
			logger.Error("adapter close error", "error", closeErr)
		}
	}()

	app := cmd.NewCompositionRoot(db, runtime.Adapters, logger)
	if err = cmd.SeedAdmin(ctx, &app, configs, logger); err != nil {
		log.Fatalf("admin seed error: %v", err)
	}

	m := metrics.New()
	var purger jobs.TokenPurger
	if runtime.Purger != nil {
		purger = runtime.Purger
	}
	jobManager := jobs.NewJobManager(
		app.CreateCountOrdersByStatusQueryHandler(),
		app.CreateReferencedImagesQueryHandler(),
		runtime.Adapters.Storage,
		purger,
		m,
		configs.OrphanUploadGrace,
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	doc, err := httpin.LoadAPIDocument(ctx)
	if err != nil {
		log.Fatalf("api document error: %v", err)
	}

	e, err := httpin.NewRouter(app.NewHTTPServer(), httpin.RouterOptions{
		UploadsDir:  configs.UploadsDir,
		CORSOrigins: configs.CORSOrigins,
		Metrics:     m,
		APIDocument: doc,
	})
	if err != nil {
		log.Fatalf("router setup error: %v", err)
	}

	go func() {
		addr := fmt.Sprintf("0.0.0.0:%d", configs.HTTPPort)
		logger.Info("shipping API listening", "addr", addr)
		if startErr := e.Start(addr); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
			logger.Error("listen error", "error", startErr)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down shipping API")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown error", "error", err)
	}
}
