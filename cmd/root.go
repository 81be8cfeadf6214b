package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mohammad-safakhou/khobor/config"
	"github.com/mohammad-safakhou/khobor/crawler"
	"github.com/mohammad-safakhou/khobor/engine"
	"github.com/mohammad-safakhou/khobor/internal/telemetry"
	"github.com/mohammad-safakhou/khobor/internal/topics"
	"github.com/mohammad-safakhou/khobor/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func main() {
	var cfgPath string
	var root = &cobra.Command{
		Use:          "khobor",
		Short:        "Bangladeshi news headlines and articles, one conversation at a time",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config/config.json)")

	root.AddCommand(serveCMD(&cfgPath), headlinesCMD(&cfgPath), articleCMD(&cfgPath), chatCMD(&cfgPath))
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// app is everything a command needs, built once from config.
type app struct {
	cfg      *config.Config
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
	crawler  *crawler.Crawler
	store    session.Store
	desk     *engine.Desk
}

// newApp loads config and wires the components. With quiet set, logging is
// discarded unless general.debug asks for it; loggers capture log.Writer()
// when they are built, so this happens before any of them exist.
func newApp(ctx context.Context, cfgPath string, quiet bool) (*app, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if !logsWanted(cfg, !quiet) {
		log.SetOutput(io.Discard)
	}
	a := &app{cfg: cfg}
	if cfg.Telemetry.Enabled {
		a.registry = telemetry.NewRegistry()
		a.metrics = telemetry.NewMetrics(a.registry)
	} else {
		a.metrics = telemetry.NewMetrics(nil)
	}

	a.crawler, err = crawler.NewFromConfig(cfg, a.metrics, log.New(log.Writer(), "[CRAWLER] ", log.LstdFlags))
	if err != nil {
		return nil, fmt.Errorf("crawler: %w", err)
	}
	a.store, err = session.NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	deskLogger := log.New(log.Writer(), "[DESK] ", log.LstdFlags)
	a.desk = engine.NewDesk(a.crawler, a.store, topics.NewMatcher(deskLogger), a.metrics, deskLogger)
	return a, nil
}

// logsWanted reports whether log output should reach stderr.
func logsWanted(cfg *config.Config, debugFlag bool) bool {
	return debugFlag || cfg.General.Debug
}
