package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
)

const usage = `Usage: %s <command> [flags]

Commands:
  scan      scan the source tree and write the schema artifacts
  diff      report changes against the committed snapshot without writing
  types     print the TypeScript declarations for the committed snapshot
  validate  check the committed snapshot and OpenAPI document

Run "%s <command> -h" for command flags.
`

type command func(ctx context.Context, env *environment, args []string) error

var commands = map[string]command{
	"scan":     runScan,
	"diff":     runDiff,
	"types":    runTypes,
	"validate": runValidate,
}

// environment carries the process streams so commands stay testable.
type environment struct {
	stdout io.Writer
	stderr io.Writer

	// confirm replaces the interactive prompt when set.
	confirm func(message string) (bool, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env := &environment{stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(run(ctx, env, os.Args[1:]))
}

func run(ctx context.Context, env *environment, args []string) int {
	name := filepath.Base(os.Args[0])
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprintf(env.stderr, usage, name, name)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(env.stderr, "unknown command %q\n\n", args[0])
		fmt.Fprintf(env.stderr, usage, name, name)
		return 2
	}

	if err := cmd(ctx, env, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		var exit exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		fmt.Fprintf(env.stderr, "%s %s: %v\n", name, args[0], err)
		return 1
	}
	return 0
}

// exitError ends a command with a non-zero status without printing an error,
// used when the command already reported its findings.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
