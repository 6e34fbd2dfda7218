// cmd/jamma/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/pi2jamma-input/internal/config"
	"github.com/tamzrod/pi2jamma-input/internal/poller"
	"github.com/tamzrod/pi2jamma-input/internal/sink"
)

func main() {
	log := logrus.New()

	if len(os.Args) < 2 {
		log.Fatal("usage: jamma <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	if err := setupLogger(log, cfg.Log); err != nil {
		log.Fatalf("logger setup failed: %v", err)
	}

	entry := log.WithField("panel", cfg.Panel.Name)

	os.Exit(run(*cfg, entry))
}

// run owns every acquired resource; deferred closers fire before exit.
func run(cfg config.Config, log *logrus.Entry) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- sinks ----
	out, closeSinks, err := sink.Build(cfg, log)
	if err != nil {
		log.WithError(err).Error("sink build failed")
		return 1
	}
	defer func() {
		if err := closeSinks(); err != nil {
			log.WithError(err).Warn("sink close failed")
		}
	}()

	// ---- poller (owns the chain lines) ----
	p, closePoller, err := poller.Build(cfg, out, log)
	if err != nil {
		log.WithError(err).Error("poller build failed")
		return 1
	}
	defer func() {
		if err := closePoller(); err != nil {
			log.WithError(err).Warn("line release failed")
		}
	}()

	if err := p.Run(ctx); err != nil {
		log.WithError(err).Error("polling stopped")
		return 1
	}

	log.Info("shutting down")
	return 0
}

func setupLogger(log *logrus.Logger, c config.LogConfig) error {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if c.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
