package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/bookmarker"
	bmprometheus "github.com/fwojciec/bookmarker/prometheus"
	bmslog "github.com/fwojciec/bookmarker/slog"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// MetadataService replaces the wired extraction pipeline when set.
	// Used for end-to-end testing.
	MetadataService bookmarker.MetadataService

	// Registry collects metrics exposed by the serve command.
	Registry *prometheus.Registry

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Registry: prometheus.NewRegistry(),
	}
}

// Close releases every resource opened by Run, newest first.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments. A failure is reported on
// stderr once, then returned.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	err := m.run(ctx, args, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", errorText(err))
	}
	return err
}

func (m *Main) run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Registry: m.Registry,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("bookmarker"),
		kong.Description("Extract bookmark metadata from web pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
		kong.Vars{"default_db": defaultDBPath()},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'bookmarker --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.logLevel(kongCtx.Command()))

	// Only commands that extract need the pipeline.
	if !strings.HasPrefix(kongCtx.Command(), "normalize") {
		svc, err := m.metadataService(ctx, cli, deps.Logger, stderr)
		if err != nil {
			_ = m.Close()
			return err
		}
		deps.Service = svc
	}
	defer m.Close()

	return kongCtx.Run(deps)
}

// metadataService wires the extraction pipeline and wraps it with logging
// and metrics.
func (m *Main) metadataService(ctx context.Context, cli *CLI, logger *slog.Logger, stderr io.Writer) (bookmarker.MetadataService, error) {
	svc := m.MetadataService
	if svc == nil {
		var err error
		if svc, err = m.buildService(ctx, cli, logger, stderr); err != nil {
			return nil, err
		}
	}

	instrumented, err := bmprometheus.NewMetadataService(bmslog.NewLoggingMetadataService(svc, logger), m.Registry)
	if err != nil {
		return nil, err
	}
	return instrumented, nil
}

// errorText returns the user-facing message of an application error and
// the full text of anything else.
func errorText(err error) string {
	var appErr *bookmarker.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "bookmarker.db"
	}
	return filepath.Join(home, ".bookmarker", "bookmarker.db")
}
