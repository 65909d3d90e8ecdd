package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/alvmarrod/linkcheck/internal/config"
	"github.com/alvmarrod/linkcheck/internal/crawler"
	"github.com/alvmarrod/linkcheck/internal/metrics"
	"github.com/alvmarrod/linkcheck/internal/report"
	"github.com/alvmarrod/linkcheck/internal/server"
	"github.com/alvmarrod/linkcheck/internal/storage"
	"github.com/alvmarrod/linkcheck/internal/version"
	"github.com/sirupsen/logrus"
)

type Globals struct {
	Config   string `help:"Path to a JSON or YAML config file." type:"path" short:"c"`
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)." name:"log-level"`
}

type cli struct {
	Globals

	Serve   serveCmd         `cmd:"" help:"Serve the crawl API and frontend."`
	Crawl   crawlCmd         `cmd:"" help:"Crawl one site and print events as NDJSON."`
	Version kong.VersionFlag `help:"Print version and exit."`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("linkcheck"),
		kong.Description("Crawl a website and report broken, outbound and mailto links."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&c.Globals)
	ctx.FatalIfErrorf(err)
}

// setup loads configuration and configures logging
func (g *Globals) setup() (*config.Config, error) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.LoadConfig(g.Config)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if g.LogLevel != "" {
		level = g.LogLevel
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logrus.SetLevel(parsed)

	logrus.Infof("linkcheck v%s starting...", version.Version)
	return cfg, nil
}

// components wires storage, report archive and crawl engine
type components struct {
	store   *storage.Storage
	archive *report.Archive
	engine  *crawler.Engine
}

func build(cfg *config.Config) (*components, error) {
	store, err := storage.NewStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logrus.Infof("Report catalog initialized: %s", cfg.DBPath)

	gen, err := report.NewGenerator(cfg.ReportFormat)
	if err != nil {
		store.Close()
		return nil, err
	}
	archive, err := report.NewArchive(cfg.ReportDir, gen, store, cfg.ReportFooter)
	if err != nil {
		store.Close()
		return nil, err
	}

	engine := crawler.NewEngine(
		crawler.NewCollyFetcher(cfg.UserAgent, nil),
		crawler.GoqueryExtractor{},
		archive,
		crawler.Options{
			PageTimeout:     cfg.PageTimeout(),
			ProbeTimeout:    cfg.ProbeTimeout(),
			ExcludedDomains: cfg.ExcludedDomains,
		},
	)

	return &components{store: store, archive: archive, engine: engine}, nil
}

type serveCmd struct {
	Listen string `help:"Override the configured listen address."`
}

func (s *serveCmd) Run(g *Globals) error {
	cfg, err := g.setup()
	if err != nil {
		return err
	}
	if s.Listen != "" {
		cfg.ListenAddr = s.Listen
	}

	comp, err := build(cfg)
	if err != nil {
		return err
	}
	defer comp.store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(comp.engine, comp.archive, cfg.StaticDir, cfg.EventBuffer)
	if err := srv.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		return err
	}
	logrus.Info("Graceful shutdown complete. Goodbye!")
	return nil
}

type crawlCmd struct {
	URL     string `arg:"" help:"Seed URL; https:// is assumed when no scheme is given."`
	Metrics string `help:"Write crawl metrics as JSON to this file (defaults to metrics_path from config)." type:"path"`
}

func (c *crawlCmd) Run(g *Globals) error {
	cfg, err := g.setup()
	if err != nil {
		return err
	}

	comp, err := build(cfg)
	if err != nil {
		return err
	}
	defer comp.store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracker := metrics.NewTracker()
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)

	summary, crawlErr := comp.engine.Crawl(ctx, c.URL, func(ev crawler.Event) {
		if err := enc.Encode(ev); err != nil {
			logrus.Warnf("Failed to write event: %v", err)
		}
	}, tracker)

	reason := "frontier_empty"
	if errors.Is(crawlErr, context.Canceled) {
		reason = "signal"
	}
	logrus.Info("Final stats: " + tracker.LogProgress())

	metricsPath := c.Metrics
	if metricsPath == "" {
		metricsPath = cfg.MetricsPath
	}
	if metricsPath != "" {
		if err := tracker.WriteToFile(metricsPath, reason); err != nil {
			logrus.Errorf("Failed to write metrics: %v", err)
		} else {
			logrus.Infof("Metrics written to %s", metricsPath)
		}
	}

	if crawlErr != nil {
		return crawlErr
	}
	if path, _, err := comp.archive.Open(ctx, summary.Download); err == nil {
		logrus.Infof("Report saved to %s", path)
	}
	return nil
}
