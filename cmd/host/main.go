package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/framebridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/framebridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/framebridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/framebridge/internal/server"
	"github.com/GriffinCanCode/framebridge/internal/shared/origin"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (replaces environment configuration)")
	port := flag.String("port", "", "Server port")
	origins := flag.String("origins", "", "Comma-separated allowed embedding origin patterns")
	watch := flag.String("watch", "", "Comma-separated component identifiers to watch at startup")
	dev := flag.Bool("dev", false, "Development logging")
	printConfig := flag.Bool("print-config", false, "Print the effective configuration and exit")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	// Flags override environment and file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "origins":
			cfg.Bridge.AllowedOrigins = splitList(*origins)
		case "dev":
			cfg.Logging.Development = *dev
		}
	})

	if !origin.Valid(cfg.Bridge.AllowedOrigins) {
		fmt.Fprintf(os.Stderr, "invalid origin pattern in %v\n", cfg.Bridge.AllowedOrigins)
		os.Exit(1)
	}
	if *printConfig {
		out, err := config.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	logger := logging.FromConfig("host", cfg.Logging.Level, cfg.Logging.Development)
	defer logger.Close()

	srv := server.NewServer(cfg, logger, monitoring.NewMetrics(nil))
	for _, identifier := range splitList(*watch) {
		srv.Watch(identifier)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("Server error", zap.Error(err))
	}

	logger.Info("Shutting down gracefully...")
	if err := srv.Close(); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
		os.Exit(1)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
