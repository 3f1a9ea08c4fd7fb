package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"todo/internal/backend/googletasks"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/taskstore"
)

// StoreFactory creates the task store for the resolved data directory.
type StoreFactory func(cfg *config.Config, log *zap.Logger) service.Store

// ExporterFactory creates the export backend.
// Only called for commands that need auth.
type ExporterFactory func(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.Exporter, error)

// FileStore is the StoreFactory used by the real program.
func FileStore(cfg *config.Config, log *zap.Logger) service.Store {
	return taskstore.New(cfg.Dir, taskstore.WithLogger(log))
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry  *commands.Registry
	stores    StoreFactory
	exporters ExporterFactory
	in        io.Reader
}

// NewDispatcher creates a new dispatcher. A nil stores factory means FileStore.
func NewDispatcher(registry *commands.Registry, stores StoreFactory, exporters ExporterFactory) *Dispatcher {
	if stores == nil {
		stores = FileStore
	}
	return &Dispatcher{
		registry:  registry,
		stores:    stores,
		exporters: exporters,
		in:        strings.NewReader(""),
	}
}

// SetInput sets the reader commands use for stdin.
func (d *Dispatcher) SetInput(r io.Reader) {
	d.in = r
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> list
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // errors are reported below

	var dataDir string
	var quiet bool
	var debug bool

	fs.StringVar(&dataDir, "data-dir", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", describeFlagError(err))
		return exitcode.UserError
	}

	// A leading "-" left in positionals was meant as a flag. A lone "-" is
	// the stdin marker.
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.Load(dataDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	log := logging.New(errOut, debug)
	defer log.Sync()
	log.Debug("dispatch", zap.String("command", cmd.Name()), zap.String("data_dir", cfg.Dir))

	rt := commands.NewRuntime(d.stores(cfg, log), log)
	rt.In = d.in

	if cmd.NeedsAuth() {
		if d.exporters == nil {
			fmt.Fprintln(errOut, "error: export backend not configured")
			return exitcode.BackendError
		}
		exp, err := d.exporters(ctx, cfg, log)
		if err != nil {
			return reportExporterError(errOut, cfg, err)
		}
		rt.Exporter = exp
	}

	return cmd.Run(ctx, cfg, rt, positionalArgs, out, errOut)
}

// describeFlagError turns flag package errors into the CLI's wording.
func describeFlagError(err error) string {
	errStr := err.Error()

	if strings.HasPrefix(errStr, "flag needs an argument:") {
		return errStr
	}
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimPrefix(errStr, "flag provided but not defined: ")
	}
	return errStr
}

func reportExporterError(errOut io.Writer, cfg *config.Config, err error) int {
	switch {
	case errors.Is(err, googletasks.ErrNoOAuthClient):
		fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n", cfg.Dir)
		return exitcode.AuthError
	case errors.Is(err, googletasks.ErrNotLoggedIn):
		fmt.Fprintln(errOut, "error: not logged in (run: todo login)")
		return exitcode.AuthError
	case strings.Contains(err.Error(), "token") || strings.Contains(err.Error(), "auth"):
		fmt.Fprintf(errOut, "error: auth error: %s\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}
}
