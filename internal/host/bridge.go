// Package host exposes the task store to the host shell as named commands
// exchanging JSON payloads.
package host

import (
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"todo/internal/service"
)

// Command names understood by Invoke.
const (
	CmdLoadTasks = "load_tasks"
	CmdSaveTasks = "save_tasks"
)

// Kind classifies an Error.
type Kind int

const (
	// KindStore means the store could not save the list.
	KindStore Kind = iota
	// KindUnknownCommand means no command has the requested name.
	KindUnknownCommand
	// KindInvalidArgs means the command arguments could not be decoded.
	KindInvalidArgs
)

// Error is the string-described failure returned to the host.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// handler runs one named command.
type handler func(args json.RawMessage) (any, error)

// Bridge dispatches host commands to a store.
type Bridge struct {
	store    service.Store
	log      *zap.Logger
	handlers map[string]handler
}

// NewBridge creates a bridge backed by store.
func NewBridge(store service.Store, log *zap.Logger) *Bridge {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Bridge{store: store, log: log}
	b.handlers = map[string]handler{
		CmdLoadTasks: b.invokeLoad,
		CmdSaveTasks: b.invokeSave,
	}
	return b
}

// Commands returns the registered command names, sorted.
func (b *Bridge) Commands() []string {
	names := make([]string, 0, len(b.handlers))
	for name := range b.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StorePath returns the location of the backing store.
func (b *Bridge) StorePath() string {
	return b.store.Path()
}

// LoadTasks returns the stored list. It never fails.
func (b *Bridge) LoadTasks() []service.Task {
	return b.store.Load()
}

// SaveTasks replaces the stored list. Failures are returned as *Error.
func (b *Bridge) SaveTasks(tasks []service.Task) error {
	if err := b.store.Save(tasks); err != nil {
		b.log.Debug("save_tasks failed", zap.Error(err))
		return &Error{Kind: KindStore, Message: err.Error()}
	}
	return nil
}

// Invoke runs the named command with JSON args and returns the JSON result.
func (b *Bridge) Invoke(name string, args json.RawMessage) (json.RawMessage, error) {
	h, ok := b.handlers[name]
	if !ok {
		return nil, &Error{Kind: KindUnknownCommand, Message: fmt.Sprintf("unknown command: %s", name)}
	}

	result, err := h(args)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, &Error{Kind: KindStore, Message: fmt.Sprintf("encode result: %v", err)}
	}
	return data, nil
}

func (b *Bridge) invokeLoad(json.RawMessage) (any, error) {
	return b.LoadTasks(), nil
}

// saveArgs is the payload of save_tasks.
type saveArgs struct {
	Tasks json.RawMessage `json:"tasks"`
}

func (b *Bridge) invokeSave(args json.RawMessage) (any, error) {
	var in saveArgs
	if len(args) == 0 {
		return nil, &Error{Kind: KindInvalidArgs, Message: "invalid arguments: missing tasks"}
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, &Error{Kind: KindInvalidArgs, Message: fmt.Sprintf("invalid arguments: %v", err)}
	}
	if len(in.Tasks) == 0 {
		return nil, &Error{Kind: KindInvalidArgs, Message: "invalid arguments: missing tasks"}
	}
	// Same record rules as the store file, so whatever is saved loads back.
	tasks, err := service.DecodeTasks(in.Tasks)
	if err != nil {
		return nil, &Error{Kind: KindInvalidArgs, Message: fmt.Sprintf("invalid arguments: tasks: %v", err)}
	}
	if err := b.SaveTasks(tasks); err != nil {
		return nil, err
	}
	return nil, nil
}
