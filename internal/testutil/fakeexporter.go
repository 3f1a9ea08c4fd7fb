package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"todo/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// ErrAmbiguous is returned when multiple matches are found.
var ErrAmbiguous = errors.New("ambiguous")

// FakeExporter is an in-memory implementation of service.Exporter for testing.
type FakeExporter struct {
	mu       sync.Mutex
	lists    []service.RemoteList
	exported map[string][]service.Task // listID -> last exported tasks

	// Error injection for testing
	ListListsErr error
	ExportErr    error
}

// NewFakeExporter creates a FakeExporter with a default list.
func NewFakeExporter() *FakeExporter {
	return &FakeExporter{
		lists:    []service.RemoteList{{ID: "@default", Title: "My Tasks", IsDefault: true}},
		exported: make(map[string][]service.Task),
	}
}

// AddList adds a remote list.
func (f *FakeExporter) AddList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, service.RemoteList{ID: id, Title: title})
}

// Exported returns the tasks last exported to listID.
func (f *FakeExporter) Exported(listID string) []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exported[listID]
}

// ListLists implements service.Exporter.
func (f *FakeExporter) ListLists(ctx context.Context) ([]service.RemoteList, error) {
	if f.ListListsErr != nil {
		return nil, f.ListListsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]service.RemoteList, len(f.lists))
	copy(result, f.lists)
	return result, nil
}

// Export implements service.Exporter. Every task counts as created on first
// export to a list and as unchanged afterwards. Repeated ids are skipped.
func (f *FakeExporter) Export(ctx context.Context, listName string, tasks []service.Task) (service.ExportResult, error) {
	if f.ExportErr != nil {
		return service.ExportResult{}, f.ExportErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	list, err := f.resolve(listName)
	if err != nil {
		return service.ExportResult{}, err
	}

	seen := make(map[string]bool)
	for _, t := range f.exported[list.ID] {
		seen[t.ID] = true
	}

	var res service.ExportResult
	var kept []service.Task
	batch := make(map[string]bool)
	for _, t := range tasks {
		if batch[t.ID] {
			res.Skipped++
			continue
		}
		batch[t.ID] = true
		kept = append(kept, t)
		if seen[t.ID] {
			res.Unchanged++
		} else {
			res.Created++
		}
	}
	f.exported[list.ID] = kept
	return res, nil
}

func (f *FakeExporter) resolve(name string) (service.RemoteList, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	var matches []service.RemoteList
	for _, l := range f.lists {
		if name == "" && l.IsDefault {
			return l, nil
		}
		if name != "" && strings.ToLower(strings.TrimSpace(l.Title)) == name {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return service.RemoteList{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return service.RemoteList{}, ErrAmbiguous
	}
}
