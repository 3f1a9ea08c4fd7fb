package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

// TimeLayout is the layout used for task times the CLI fills in itself.
const TimeLayout = "2006-01-02 15:04"

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	time string
}

// SetTime sets the time flag (for testing).
func (c *AddCmd) SetTime(t string) {
	c.time = t
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "todo add [--time <time>] <task...>" }
func (c *AddCmd) NeedsAuth() bool   { return false }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.time, "time", "", "")
	fs.StringVar(&c.time, "t", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, rt *Runtime, args []string, out, errOut io.Writer) int {
	if arg := misplacedFlag(args, "time", "t"); arg != "" {
		fmt.Fprintf(errOut, "error: flags must come before the task text: %s\n", arg)
		return exitcode.UserError
	}

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		fmt.Fprintln(errOut, "error: task text required")
		return exitcode.UserError
	}

	when := strings.TrimSpace(c.time)
	if when == "" {
		when = rt.Now().Format(TimeLayout)
	}

	task := service.Task{
		ID:     uuid.NewString(),
		Task:   text,
		Time:   when,
		Status: service.StatusPending,
	}

	tasks := append(rt.Host.LoadTasks(), task)
	rt.Log.Debug("adding task", zap.String("id", task.ID), zap.Int("count", len(tasks)))
	return saveTasks(cfg, rt, tasks, out, errOut)
}
