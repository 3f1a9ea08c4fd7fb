// Package service defines the task model and the interfaces commands depend on.
package service

import "context"

// Store persists the whole task list.
// Commands never touch the tasks file directly.
type Store interface {
	// Load returns the stored list in saved order.
	// It never fails; an unreadable or corrupt store yields an empty list.
	Load() []Task

	// Save replaces the stored list with tasks.
	Save(tasks []Task) error

	// Path returns the location of the backing file.
	Path() string
}

// Exporter mirrors the local list into a remote task service.
type Exporter interface {
	// ListLists returns all remote lists in API order.
	ListLists(ctx context.Context) ([]RemoteList, error)

	// Export mirrors tasks into the named list (default list when empty).
	// Remote tasks not created by a previous export are left alone.
	Export(ctx context.Context, listName string, tasks []Task) (ExportResult, error)
}
