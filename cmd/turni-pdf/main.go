package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/a3tai/turni-pdf/internal/config"
	"github.com/a3tai/turni-pdf/internal/logging"
	"github.com/a3tai/turni-pdf/internal/mcp"
	"github.com/a3tai/turni-pdf/internal/pdf"
	"github.com/a3tai/turni-pdf/internal/roster"
	"github.com/a3tai/turni-pdf/internal/session"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if version != "dev" {
		cfg.Version = version
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// run wires the roster service into an MCP server and serves until ctx is
// cancelled
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	server, err := newServer(cfg, logger)
	if err != nil {
		return err
	}

	logger.Debug("starting", zap.Stringer("config", cfg))
	if err := server.Run(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func newServer(cfg *config.Config, logger *zap.Logger) (*mcp.Server, error) {
	var layout *roster.Layout
	if cfg.LayoutFile != "" {
		l, err := roster.LoadLayout(cfg.LayoutFile)
		if err != nil {
			return nil, err
		}
		layout = l
		logger.Info("row layout loaded",
			zap.String("file", cfg.LayoutFile),
			zap.String("version", layout.Version),
			zap.Int("slots", len(layout.Slots)))
	}

	service, err := pdf.NewService(pdf.ServiceOptions{
		MaxFileSize:     cfg.MaxFileSize,
		RosterDirectory: cfg.RosterDirectory,
		OutputDirectory: cfg.OutputDirectory,
		Layout:          layout,
		Logger:          logger.Named("roster"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create roster service: %w", err)
	}

	sessions := session.NewManager(cfg.SessionCapacity, logger.Named("sessions"))

	server, err := mcp.NewServer(cfg, service, sessions, logger.Named("mcp"))
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server, nil
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "turni-pdf\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
