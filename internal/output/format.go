// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/service"
)

const (
	doneMark = "[x]"
	openMark = "[ ]"
)

// FormatTask formats one task line.
// Format: "{N:>4}  {MARK} {TASK}[  ({TIME})]\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	mark := openMark
	if strings.EqualFold(strings.TrimSpace(task.Status), service.StatusCompleted) {
		mark = doneMark
	}
	line := fmt.Sprintf("%4d  %s %s", num, mark, normalizeTitle(task.Task))
	if t := normalizeInline(task.Time); t != "" {
		line += "  (" + t + ")"
	}
	fmt.Fprintln(w, line)
}

// FormatTasks formats a whole list, numbering from 1.
func FormatTasks(w io.Writer, tasks []service.Task) {
	for i, task := range tasks {
		FormatTask(w, i+1, task)
	}
}

// FormatRemoteList formats a list name for the lists command.
func FormatRemoteList(w io.Writer, list service.RemoteList) {
	title := normalizeTitle(list.Title)
	if list.IsDefault {
		title += " [default]"
	}
	fmt.Fprintln(w, title)
}

// FormatExportResult formats the summary printed after an export.
func FormatExportResult(w io.Writer, res service.ExportResult) {
	fmt.Fprintf(w, "exported: %d created, %d updated, %d unchanged", res.Created, res.Updated, res.Unchanged)
	if res.Skipped > 0 {
		fmt.Fprintf(w, ", %d skipped (duplicate id)", res.Skipped)
	}
	fmt.Fprintln(w)
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = normalizeInline(title)
	if title == "" {
		return "(untitled)"
	}
	return title
}

func normalizeInline(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
