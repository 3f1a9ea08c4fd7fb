package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	time   optionalString
	status optionalString
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "todo edit [--time <time>] [--status <status>] <ref> [task...]"
}
func (c *EditCmd) NeedsAuth() bool { return false }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.time, c.status = optionalString{}, optionalString{}
	fs.Var(&c.time, "time", "")
	fs.Var(&c.status, "status", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, rt *Runtime, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if arg := misplacedFlag(args[1:], "time", "status"); arg != "" {
		fmt.Fprintf(errOut, "error: flags must come before the task reference: %s\n", arg)
		return exitcode.UserError
	}

	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" && !c.time.set && !c.status.set {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}
	if c.status.set && strings.TrimSpace(c.status.value) == "" {
		fmt.Fprintln(errOut, "error: status must not be empty")
		return exitcode.UserError
	}

	tasks := rt.Host.LoadTasks()
	idx, err := ref.Resolve(tasks)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if text != "" {
		tasks[idx].Task = text
	}
	if c.time.set {
		tasks[idx].Time = strings.TrimSpace(c.time.value)
	}
	if c.status.set {
		tasks[idx].Status = strings.TrimSpace(c.status.value)
	}

	return saveTasks(cfg, rt, tasks, out, errOut)
}

// optionalString is a flag.Value that records whether it was given.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}
