package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/kartew/claude-profiles/internal/ccp"
	"github.com/kartew/claude-profiles/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	baseDir, err := cli.ResolveBaseDir()
	if err != nil {
		return fmt.Errorf("failed to resolve home directory: %w", err)
	}

	mgr, err := ccp.NewManager(afero.NewOsFs(), baseDir, newLogger())
	if err != nil {
		return err
	}

	root := cli.NewRootCommand(mgr, cli.NewPromptUI(), os.Stdout, os.Stderr)
	return root.Execute()
}

func newLogger() *slog.Logger {
	if os.Getenv("CCP_DEBUG") != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
