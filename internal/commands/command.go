// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/host"
	"todo/internal/service"
)

// Runtime carries the collaborators a command runs against.
type Runtime struct {
	// Host is the load/save surface over the task store. Always set.
	Host *host.Bridge

	// Exporter is nil unless NeedsAuth() returns true.
	Exporter service.Exporter

	// Log is never nil.
	Log *zap.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// In is read by commands that accept input on stdin.
	In io.Reader
}

// NewRuntime creates a runtime over store.
func NewRuntime(store service.Store, log *zap.Logger) *Runtime {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runtime{
		Host: host.NewBridge(store, log),
		Log:  log,
		Now:  time.Now,
		In:   strings.NewReader(""),
	}
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command talks to Google Tasks.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (data dir, paths).
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, rt *Runtime, args []string, out, errOut io.Writer) int
}

// saveTasks persists tasks and reports a failure the way every mutating
// command does. Returns the exit code.
func saveTasks(cfg *config.Config, rt *Runtime, tasks []service.Task, out, errOut io.Writer) int {
	if err := rt.Host.SaveTasks(tasks); err != nil {
		fmt.Fprintf(errOut, "error: could not save tasks: %v\n", err)
		return exitcode.StoreError
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// misplacedFlag returns the first arg that spells one of the named flags,
// or "". Flag parsing stops at the first positional arg, so a flag typed
// after it would otherwise end up in the task text.
func misplacedFlag(args []string, names ...string) string {
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name, _, _ := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		for _, n := range names {
			if name == n {
				return arg
			}
		}
	}
	return ""
}
