// Package task defines the task data model shared by the API client,
// the state managers, and the CLI commands.
package task

import "time"

// Task status values.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Validation lists for user input.
var (
	ValidStatuses   = []string{StatusPending, StatusInProgress, StatusCompleted}
	ValidPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}
)

// Task represents a single task as returned by the API.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// User is the authenticated user's profile. Opaque beyond Email; the server
// may or may not supply the remaining fields.
type User struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// PaginationMeta describes the current page of a larger result set.
// Replaced wholesale on each successful fetch, never merged field by field.
type PaginationMeta struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

// Page is one page of tasks plus its pagination metadata.
type Page struct {
	Tasks []Task         `json:"tasks"`
	Meta  PaginationMeta `json:"meta"`
}

// Normalize fills in defaults for fields the server omitted:
// title "Untitled", status pending, priority medium, empty tag list,
// and now for missing timestamps.
func (t Task) Normalize(now time.Time) Task {
	if t.Title == "" {
		t.Title = "Untitled"
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	return t
}

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ValidPriority reports whether p is a known task priority.
func ValidPriority(p string) bool {
	for _, v := range ValidPriorities {
		if p == v {
			return true
		}
	}
	return false
}
