package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&RmCmd{})
	Register(&ClearCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "todo rm <ref>" }
func (c *RmCmd) NeedsAuth() bool   { return false }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, rt *Runtime, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tasks := rt.Host.LoadTasks()
	idx, err := ref.Resolve(tasks)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tasks = append(tasks[:idx], tasks[idx+1:]...)
	return saveTasks(cfg, rt, tasks, out, errOut)
}

// ClearCmd implements the clear command.
type ClearCmd struct {
	completedOnly bool
}

// SetCompletedOnly sets the completed filter (for testing).
func (c *ClearCmd) SetCompletedOnly(v bool) {
	c.completedOnly = v
}

func (c *ClearCmd) Name() string      { return "clear" }
func (c *ClearCmd) Aliases() []string { return nil }
func (c *ClearCmd) Synopsis() string  { return "Delete all (or all completed) tasks" }
func (c *ClearCmd) Usage() string     { return "todo clear [--completed]" }
func (c *ClearCmd) NeedsAuth() bool   { return false }

func (c *ClearCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.completedOnly, "completed", false, "")
}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, rt *Runtime, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	kept := []service.Task{}
	if c.completedOnly {
		for _, t := range rt.Host.LoadTasks() {
			if !isCompleted(t.Status) {
				kept = append(kept, t)
			}
		}
	}
	return saveTasks(cfg, rt, kept, out, errOut)
}
