package commands

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/host"
)

func init() {
	Register(&InvokeCmd{})
	Register(&PathCmd{})
}

// InvokeCmd runs a raw host command by name.
type InvokeCmd struct{}

func (c *InvokeCmd) Name() string      { return "invoke" }
func (c *InvokeCmd) Aliases() []string { return nil }
func (c *InvokeCmd) Synopsis() string  { return "Run a host command with JSON arguments" }
func (c *InvokeCmd) Usage() string     { return "todo invoke <load_tasks|save_tasks> [json-args|-]" }
func (c *InvokeCmd) NeedsAuth() bool   { return false }

func (c *InvokeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *InvokeCmd) Run(ctx context.Context, cfg *config.Config, rt *Runtime, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintf(errOut, "error: command name required (one of: %s)\n", strings.Join(rt.Host.Commands(), ", "))
		return exitcode.UserError
	}
	if len(args) > 2 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[2])
		return exitcode.UserError
	}

	var payload json.RawMessage
	if len(args) == 2 {
		if args[1] == "-" {
			data, err := io.ReadAll(rt.In)
			if err != nil {
				fmt.Fprintf(errOut, "error: read arguments: %v\n", err)
				return exitcode.UserError
			}
			payload = data
		} else {
			payload = json.RawMessage(args[1])
		}
	}

	result, err := rt.Host.Invoke(args[0], payload)
	if err != nil {
		var herr *host.Error
		if errors.As(err, &herr) && herr.Kind == host.KindStore {
			fmt.Fprintf(errOut, "error: could not save tasks: %s\n", herr.Message)
			return exitcode.StoreError
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	fmt.Fprintf(out, "%s\n", result)
	return exitcode.Success
}

// PathCmd prints the store file location.
type PathCmd struct{}

func (c *PathCmd) Name() string      { return "path" }
func (c *PathCmd) Aliases() []string { return nil }
func (c *PathCmd) Synopsis() string  { return "Print the tasks file path" }
func (c *PathCmd) Usage() string     { return "todo path" }
func (c *PathCmd) NeedsAuth() bool   { return false }

func (c *PathCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PathCmd) Run(ctx context.Context, cfg *config.Config, rt *Runtime, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, rt.Host.StorePath())
	return exitcode.Success
}
