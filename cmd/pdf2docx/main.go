// Command pdf2docx converts a PDF document into an editable Word document,
// or serves the conversion as an MCP tool with --mode=mcp.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/tsawler/pdf2docx"
	"github.com/tsawler/pdf2docx/internal/config"
	"github.com/tsawler/pdf2docx/internal/mcpserver"
	"github.com/tsawler/pdf2docx/logging"
)

var (
	version   = "dev"     // set by build flags
	buildTime = "unknown" // set by build flags
	gitCommit = "unknown" // set by build flags
)

// Exit codes
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitPassword = 3
	exitRange    = 4
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.LoadFromFlags(args)
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Fprint(stdout, config.Usage())
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "pdf2docx: %v\n\n%s", err, config.Usage())
		return exitUsage
	}
	if cfg.ShowVersion {
		printVersion(stdout)
		return exitOK
	}
	cfg.Version = version

	setupLogging(cfg, stderr)

	if cfg.IsMCPMode() {
		return runMCPMode(ctx, cfg, stderr)
	}
	return runCLIMode(ctx, cfg, stdout, stderr)
}

// setupLogging installs a text handler on stderr at the configured level.
// Standard output stays clean for the MCP protocol.
func setupLogging(cfg *config.Config, stderr io.Writer) {
	handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logging.ParseLevel(cfg.LogLevel)})
	logging.SetLogger(slog.New(handler))
}

func runCLIMode(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) int {
	logging.Logger().Debug("starting conversion", "config", cfg.String())
	res, err := cfg.Converter().ConvertTo(ctx, cfg.Output)
	if err != nil {
		fmt.Fprintf(stderr, "pdf2docx: %v\n", err)
		return exitCode(err)
	}
	for _, w := range res.Warnings {
		logging.Logger().Warn(w.Message, "stage", w.Stage, "page", w.Page)
	}
	fmt.Fprintf(stdout, "%s -> %s: %d pages, %d paragraphs, %d words, %d tables, %d images\n",
		cfg.Input, cfg.Output, res.Pages, res.Paragraphs, res.Words, res.Tables, res.Images)
	return exitOK
}

func runMCPMode(ctx context.Context, cfg *config.Config, stderr io.Writer) int {
	server, err := mcpserver.NewServer(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "pdf2docx: %v\n", err)
		return exitFailure
	}
	if err := server.Run(ctx); err != nil {
		logging.Logger().Error("server stopped", "error", err)
		return exitFailure
	}
	return exitOK
}

// exitCode maps conversion errors to distinct exit codes
func exitCode(err error) int {
	var pwErr *pdf2docx.PasswordError
	var rangeErr *pdf2docx.PageRangeError
	switch {
	case errors.As(err, &pwErr):
		return exitPassword
	case errors.As(err, &rangeErr):
		return exitRange
	}
	return exitFailure
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "pdf2docx %s\n", version)
	fmt.Fprintf(w, "Build time: %s\n", buildTime)
	fmt.Fprintf(w, "Git commit: %s\n", gitCommit)
}
