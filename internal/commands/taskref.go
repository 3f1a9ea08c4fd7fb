package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"todo/internal/service"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int    // 1-based position as printed by list; 0 for non-numeric refs
	ID  string // the reference as typed, matched against task ids
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the task reference from the first arg.
// All digits is a position unless a task has exactly that id; anything else
// is taken as a task id.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || args[0] == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	ref := args[0]
	if isAllDigits(ref) {
		num, err := strconv.Atoi(ref)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", ref)
		}
		return TaskRef{Num: num, ID: ref}, nil
	}
	return TaskRef{ID: ref}, nil
}

// Resolve returns the index of the referenced task in tasks.
// An exact id match wins over a position.
func (r TaskRef) Resolve(tasks []service.Task) (int, error) {
	if r.ID != "" {
		for i, t := range tasks {
			if t.ID == r.ID {
				return i, nil
			}
		}
		if !isAllDigits(r.ID) {
			return -1, fmt.Errorf("task not found: %s", r.ID)
		}
	}
	if r.Num < 1 || r.Num > len(tasks) {
		return -1, fmt.Errorf("task number out of range: %d", r.Num)
	}
	return r.Num - 1, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
