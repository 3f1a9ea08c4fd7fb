package output

import (
	"bytes"
	"testing"

	"todo/internal/service"
	"todo/internal/testutil"
)

func TestFormatTasks_Golden(t *testing.T) {
	tasks := []service.Task{
		{ID: "1", Task: "buy milk", Time: "2024-01-01 09:00", Status: service.StatusPending},
		{ID: "2", Task: "write\nreport", Time: "", Status: service.StatusCompleted},
		{ID: "3", Task: "   ", Time: "tomorrow", Status: "blocked"},
	}

	var buf bytes.Buffer
	FormatTasks(&buf, tasks)
	testutil.Golden(t, "tasks", buf.Bytes())
}

func TestFormatTask_Numbering(t *testing.T) {
	var buf bytes.Buffer
	FormatTask(&buf, 1234, service.Task{Task: "x"})
	if got, want := buf.String(), "1234  [ ] x\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatRemoteList(t *testing.T) {
	var buf bytes.Buffer
	FormatRemoteList(&buf, service.RemoteList{Title: "My Tasks", IsDefault: true})
	FormatRemoteList(&buf, service.RemoteList{Title: "Work"})
	FormatRemoteList(&buf, service.RemoteList{Title: ""})

	want := "My Tasks [default]\nWork\n(untitled)\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatExportResult(t *testing.T) {
	var buf bytes.Buffer
	FormatExportResult(&buf, service.ExportResult{Created: 2, Updated: 1, Unchanged: 5})

	want := "exported: 2 created, 1 updated, 5 unchanged\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatExportResult_Skipped(t *testing.T) {
	var buf bytes.Buffer
	FormatExportResult(&buf, service.ExportResult{Created: 1, Skipped: 2})
	want := "exported: 1 created, 0 updated, 0 unchanged, 2 skipped (duplicate id)\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}
