// Command seedadmin creates or refreshes the administrator account from
// ADMIN_* settings and exits.
package main

import (
	"context"
	"os"
	"time"

	"shipping/cmd"

	"github.com/labstack/gommon/log"
)

func main() {
	configs, err := cmd.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if configs.AdminPhone == "" || configs.AdminPassword == "" {
		log.Fatal("ADMIN_PHONE and ADMIN_PASSWORD are required")
	}

	logger, err := cmd.NewLogger(configs, os.Stdout)
	if err != nil {
		log.Fatalf("logger setup error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := cmd.OpenDatabase(ctx, configs, logger, 5, 2*time.Second)
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}

	runtime, err := cmd.BuildAdapters(ctx, configs, logger)
	if err != nil {
		log.Fatalf("adapter setup error: %v", err)
	}
	defer func() { _ = runtime.Close() }()

	app := cmd.NewCompositionRoot(db, runtime.Adapters, logger)
	if err = cmd.SeedAdmin(ctx, &app, configs, logger); err != nil {
		log.Errorf("admin seed error: %v", err)
		_ = runtime.Close()
		os.Exit(1)
	}
}
