package models

import (
	"fmt"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    int        `json:"priority"`
	Status      TaskStatus `json:"status"`
	IsDaily     bool       `json:"is_daily"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task id cannot be empty")
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("task description cannot be empty")
	}
	switch t.Status {
	case TaskPending:
		if t.CompletedAt != nil {
			return fmt.Errorf("pending task %s must not have a completion time", t.ID)
		}
	case TaskCompleted:
		if t.CompletedAt == nil {
			return fmt.Errorf("completed task %s is missing its completion time", t.ID)
		}
	default:
		return fmt.Errorf("invalid task status %q", t.Status)
	}
	return nil
}

func (t Task) Done() bool {
	return t.Status == TaskCompleted
}

// Mark returns the list marker used when rendering the task
func (t Task) Mark() string {
	if t.Done() {
		return "✓"
	}
	return "○"
}
