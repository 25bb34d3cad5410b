// Package main is the entry point for the visaflow command-line tracker.
// It wires the API client, the persisted session and the command set.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkordes/visaflow/internal/cli"
	"github.com/pkordes/visaflow/internal/client"
	"github.com/pkordes/visaflow/internal/config"
	"github.com/pkordes/visaflow/internal/session"
	"github.com/pkordes/visaflow/internal/visa"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 2
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.New(cfg.APIURL)

	scheduler := visa.NewScheduler(cfg.Location)
	scheduler.Hour = cfg.AlertHour
	scheduler.IncludeExpiryDay = cfg.ExpiryDayAlert

	sess := session.New(session.Deps{
		Users:        api,
		Trips:        api,
		Requirements: api,
		Alerts:       api,
		Store:        session.NewFileStore(cfg.SessionFile),
		Logger:       logger,
		Scheduler:    &scheduler,
		ActiveRule:   cfg.ActiveRule,
	})

	app := cli.NewApp(sess, os.Stdin, os.Stdout,
		cli.WithAlertLister(api),
		cli.WithLocation(cfg.Location),
	)
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		switch {
		case errors.Is(err, cli.ErrUsage):
			fmt.Fprintf(os.Stderr, "visaflow: %v\n", err)
			return 2
		case client.IsUnavailable(err):
			fmt.Fprintf(os.Stderr, "visaflow: cannot reach %s: %v\n", cfg.APIURL, err)
		default:
			fmt.Fprintf(os.Stderr, "visaflow: %v\n", err)
		}
		return 1
	}
	return 0
}
