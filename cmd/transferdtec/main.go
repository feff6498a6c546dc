package main

import (
	"context"
	"flag"
	"os"

	"github.com/gabriel-softon/transfer-dtec-file/internal/app"
	"github.com/gabriel-softon/transfer-dtec-file/internal/config"
	"github.com/gabriel-softon/transfer-dtec-file/internal/logging"
)

func main() {
	date := flag.String("date", "", "run partition date (YYYYMMDD); defaults to today")
	reconcileOnly := flag.Bool("reconcile-only", false, "only verify remote artifacts, transfer nothing")
	flag.Parse()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application := app.New(cfg, logger)

	opts := app.RunOptions{Date: *date, ReconcileOnly: *reconcileOnly}
	if err := application.Run(ctx, opts); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}
