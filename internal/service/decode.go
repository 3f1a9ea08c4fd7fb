package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMissingField marks a record that lacks one of the required keys.
var ErrMissingField = errors.New("missing field")

// record mirrors Task with pointer fields so absent keys are detected.
type record struct {
	ID     *string `json:"id"`
	Task   *string `json:"task"`
	Time   *string `json:"time"`
	Status *string `json:"status"`
}

// DecodeTasks decodes a JSON array of tasks. Every element must be an object
// carrying all four fields as strings; unknown keys are ignored. A null list,
// a null element or data after the array is an error.
func DecodeTasks(data []byte) ([]Task, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var records []*record
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after task list")
	}
	if records == nil {
		return nil, errors.New("task list is null")
	}

	tasks := make([]Task, 0, len(records))
	for i, r := range records {
		if r == nil || r.ID == nil || r.Task == nil || r.Time == nil || r.Status == nil {
			return nil, fmt.Errorf("record %d: %w", i, ErrMissingField)
		}
		tasks = append(tasks, Task{
			ID:     *r.ID,
			Task:   *r.Task,
			Time:   *r.Time,
			Status: *r.Status,
		})
	}
	return tasks, nil
}
