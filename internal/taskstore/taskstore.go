// Package taskstore owns the in-memory task collection and its pagination
// metadata. The collection is empty at init, replaced wholesale by
// FetchTasks, patched in place by UpdateTask and shrunk in place by
// DeleteTask; no other component mutates it.
package taskstore

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AlberthYap/mileapp-task/internal/api"
	"github.com/AlberthYap/mileapp-task/internal/task"
)

// Store is the task collection manager.
type Store struct {
	client *api.Client
	now    func() time.Time

	mu      sync.Mutex
	tasks   []task.Task
	meta    task.PaginationMeta
	loading bool
	err     string
}

// New creates an empty store.
func New(client *api.Client) *Store {
	return &Store{
		client: client,
		now:    time.Now,
		meta:   task.PaginationMeta{Page: 1, Limit: 1},
	}
}

// FetchTasks requests a page of tasks matching params. On success both the
// collection and the metadata are replaced wholesale; on failure the prior
// state is left exactly as it was and only the error is set.
func (s *Store) FetchTasks(ctx context.Context, params task.ListParams) {
	s.begin()
	defer s.end()

	page, err := s.client.ListTasks(ctx, params)
	if err != nil {
		s.setError(api.Failed(err, "Failed to fetch tasks").Message)
		return
	}

	tasks := page.Tasks
	if tasks == nil {
		tasks = []task.Task{}
	}
	s.mu.Lock()
	s.tasks = tasks
	s.meta = page.Meta
	s.mu.Unlock()
}

// FetchTaskByID requests one task and returns it normalized. A read-only
// lookup: the owned collection is never touched.
func (s *Store) FetchTaskByID(ctx context.Context, id string) (task.Task, api.Result) {
	s.begin()
	defer s.end()

	t, err := s.client.GetTask(ctx, id)
	if err != nil {
		res := api.Failed(err, "Failed to fetch task")
		s.setError(res.Message)
		return task.Task{}, res
	}
	return t.Normalize(s.now()), api.OK()
}

// CreateTask submits a new task. On success the whole list is re-fetched
// rather than locally appended, so the pagination metadata stays consistent
// with the server.
func (s *Store) CreateTask(ctx context.Context, in task.CreateInput) api.Result {
	s.begin()
	defer s.end()

	if err := s.client.CreateTask(ctx, in); err != nil {
		res := api.Failed(err, "Failed to create task")
		s.setError(res.Message)
		return res
	}

	s.FetchTasks(ctx, task.ListParams{})
	return api.OK()
}

// UpdateTask submits a patch. On success the server-returned fields are
// merged into the matching local record with a fresh update timestamp; when
// no local record matches, the list is left unchanged but the call still
// succeeds because the server accepted it.
func (s *Store) UpdateTask(ctx context.Context, id string, in task.UpdateInput) api.Result {
	s.begin()
	defer s.end()

	patch, err := s.client.UpdateTask(ctx, id, in)
	if err != nil {
		res := api.Failed(err, "Failed to update task")
		s.setError(res.Message)
		return res
	}

	s.mu.Lock()
	found := false
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = patch.Apply(s.tasks[i], s.now())
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		log.Debug().Str("id", id).Msg("updated task not in local list")
	}
	return api.OK()
}

// DeleteTask submits a delete. On success the matching record is removed
// from the local sequence and the total is decremented, never below zero;
// on failure the collection is untouched.
func (s *Store) DeleteTask(ctx context.Context, id string) api.Result {
	s.begin()
	defer s.end()

	if err := s.client.DeleteTask(ctx, id); err != nil {
		res := api.Failed(err, "Failed to delete task")
		s.setError(res.Message)
		return res
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	if s.meta.Total > 0 {
		s.meta.Total--
	}
	s.mu.Unlock()
	return api.OK()
}

// ClearError resets the error to absent.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// Tasks returns a copy of the owned collection.
func (s *Store) Tasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Meta returns the current pagination metadata.
func (s *Store) Meta() task.PaginationMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta
}

// TotalTasks is the server-reported total, defaulting to 0.
func (s *Store) TotalTasks() int64 {
	return s.Meta().Total
}

// CurrentPage is the current page number, defaulting to 1.
func (s *Store) CurrentPage() int {
	if p := s.Meta().Page; p > 0 {
		return p
	}
	return 1
}

// TotalPages is the server-reported page count, defaulting to 0.
func (s *Store) TotalPages() int {
	return s.Meta().TotalPages
}

// Loading reports whether an operation is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the most recent failure message, or "" when there is none.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *Store) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}
