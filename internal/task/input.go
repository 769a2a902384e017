package task

import (
	"net/url"
	"strconv"
	"time"
)

// CreateInput is the payload for POST /tasks.
type CreateInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// UpdateInput is the payload for PUT /tasks/:id.
// Nil fields are omitted from the request so the server only touches
// what the caller actually set. Tags is never omitted when non-nil:
// an explicit empty list clears the tags.
type UpdateInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tags        []string   `json:"tags"`
}

// Patch holds the fields a mutation response actually returned.
// Used to merge server-confirmed values into a locally held task.
type Patch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Apply merges the patch's present fields into t and stamps a fresh
// update timestamp. Absent (nil) fields leave t unchanged.
func (p Patch) Apply(t Task, now time.Time) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.Tags != nil {
		t.Tags = p.Tags
	}
	if p.CompletedAt != nil {
		t.CompletedAt = p.CompletedAt
	}
	t.UpdatedAt = now
	return t
}

// ListParams are the filter, sort and pagination parameters for GET /tasks.
type ListParams struct {
	Status   string
	Priority string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

// Encode converts the parameters to URL query values, omitting zero values.
func (p ListParams) Encode() url.Values {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Priority != "" {
		q.Set("priority", p.Priority)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}
