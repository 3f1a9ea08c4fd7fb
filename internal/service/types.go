// Package service defines the task model and the interfaces commands depend on.
package service

// Status values assigned by the CLI. The store treats Status as opaque text.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Task represents a single task record.
type Task struct {
	ID     string `json:"id"`
	Task   string `json:"task"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

// RemoteList represents a task list on an export target.
type RemoteList struct {
	ID        string
	Title     string
	IsDefault bool
}

// ExportResult summarizes one export run.
type ExportResult struct {
	Created   int
	Updated   int
	Unchanged int

	// Skipped counts local tasks whose id repeats an earlier task in the
	// list. Only the first task with a given id is exported.
	Skipped int
}
