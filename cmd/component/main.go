package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/framebridge/internal/component"
	"github.com/GriffinCanCode/framebridge/internal/component/layout"
	"github.com/GriffinCanCode/framebridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/framebridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/framebridge/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/framebridge/internal/transport/ws"
)

func main() {
	cfg := config.LoadOrDefault()

	// Flags override environment
	htmlPath := flag.String("html", "", "Component HTML document (fetched from -url when empty)")
	identifier := flag.String("id", cfg.Component.ID, "Component identifier (generated when empty)")
	address := flag.String("url", cfg.Component.URL, "Component address, including tracking query")
	hostURL := flag.String("host", cfg.Component.HostURL, "Host bridge websocket URL")
	selector := flag.String("selector", cfg.Component.Selector, "Content element selector")
	interval := flag.Duration("remeasure", cfg.Component.RemeasureInterval, "Re-measure interval")
	viewport := flag.Int("viewport", 0, "Initial viewport height")
	cards := flag.String("cards", "", "Card visibility samples, e.g. pro=0.4,pro=0.6,basic=1")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development logging")
	flag.Parse()

	logger := logging.FromConfig("component", cfg.Logging.Level, *dev)
	defer logger.Close()

	if err := run(logger, options{
		htmlPath:   *htmlPath,
		identifier: *identifier,
		address:    *address,
		hostURL:    *hostURL,
		selector:   *selector,
		interval:   *interval,
		viewport:   *viewport,
		cards:      *cards,
	}); err != nil {
		logger.Error("Component failed", zap.Error(err))
		os.Exit(1)
	}
}

type options struct {
	htmlPath   string
	identifier string
	address    string
	hostURL    string
	selector   string
	interval   time.Duration
	viewport   int
	cards      string
}

type sample struct {
	card  string
	ratio float64
}

func run(logger *logging.Logger, opts options) error {
	samples, err := parseSamples(opts.cards)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var src layout.Source = layout.FileSource{Path: opts.htmlPath}
	if opts.htmlPath == "" {
		src = layout.NewHTTPSource(opts.address, 0)
	}
	doc, err := layout.Load(ctx, src)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	doc.SetViewport(opts.viewport)

	conn, err := ws.Dial(ctx, opts.hostURL, ws.DefaultConfig(), logger.Logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	content, fallback := component.DocumentMeasurers(doc, opts.selector)
	comp := component.New(component.Config{
		Identifier: opts.identifier,
		URL:        opts.address,
		Content:    content,
		Fallback:   fallback,
		Logger:     logger.Logger,
	}, conn)

	logger.Info("Component connected",
		zap.String("identifier", comp.ID()),
		zap.String("host", opts.hostURL),
		zap.Strings("ctas", doc.CTAs()),
		zap.Strings("cards", doc.Cards()),
	)

	go func() {
		if err := comp.Run(ctx); err != nil {
			logger.Warn("Inbound loop stopped", zap.Error(err))
			stop()
		}
	}()

	comp.Start()
	for _, s := range samples {
		comp.ObserveCard(s.card, s.ratio)
	}

	ticks := make(chan struct{})
	sub := comp.WatchResize(ctx, ticks)
	defer sub.Close()

	if opts.interval <= 0 {
		opts.interval = time.Second
	}
	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := doc.Reload(ctx, src); err != nil && !errors.Is(err, resilience.ErrOpen) {
				logger.Debug("Document reload failed", zap.Error(err))
			}
			select {
			case ticks <- struct{}{}:
			case <-ctx.Done():
			}
		case <-conn.Done():
			return fmt.Errorf("host connection closed")
		case <-ctx.Done():
			comp.SetHidden(true)
			return nil
		}
	}
}

func parseSamples(s string) ([]sample, error) {
	var out []sample
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		card, ratio, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("card sample %q: want card=ratio", part)
		}
		r, err := strconv.ParseFloat(ratio, 64)
		if err != nil {
			return nil, fmt.Errorf("card sample %q: %w", part, err)
		}
		out = append(out, sample{card: card, ratio: r})
	}
	return out, nil
}
