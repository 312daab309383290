package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aihealth/authcore/internal/buildinfo"
	"github.com/aihealth/authcore/internal/cli"
	"github.com/aihealth/authcore/internal/config"
	"github.com/aihealth/authcore/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, closeStore, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer func() {
		if err := closeStore(ctx); err != nil {
			logger.Error(ctx, "closing store", "error", err.Error())
		}
	}()

	app.Run(ctx)

}
