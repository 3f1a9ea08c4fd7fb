package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"check"} }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "todo done <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return false }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, rt *Runtime, args []string, out, errOut io.Writer) int {
	return setStatus(cfg, rt, args, service.StatusCompleted, out, errOut)
}

// UndoCmd implements the undo command.
type UndoCmd struct{}

func (c *UndoCmd) Name() string      { return "undo" }
func (c *UndoCmd) Aliases() []string { return []string{"uncheck"} }
func (c *UndoCmd) Synopsis() string  { return "Mark a task pending again" }
func (c *UndoCmd) Usage() string     { return "todo undo <ref>" }
func (c *UndoCmd) NeedsAuth() bool   { return false }

func (c *UndoCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UndoCmd) Run(ctx context.Context, cfg *config.Config, rt *Runtime, args []string, out, errOut io.Writer) int {
	return setStatus(cfg, rt, args, service.StatusPending, out, errOut)
}

// setStatus is the shared implementation for done and undo.
func setStatus(cfg *config.Config, rt *Runtime, args []string, status string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}

	tasks := rt.Host.LoadTasks()
	idx, err := ref.Resolve(tasks)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tasks[idx].Status = status
	return saveTasks(cfg, rt, tasks, out, errOut)
}

// isCompleted reports whether a free-text status counts as done.
func isCompleted(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), service.StatusCompleted)
}
