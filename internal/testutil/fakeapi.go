// Package testutil provides testing utilities.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AlberthYap/mileapp-task/internal/task"
)

// Failure forces an endpoint to fail with the given response.
type Failure struct {
	Status  int
	Message string
	Errors  map[string]string
}

// FakeAPI is an in-memory HTTP server speaking the task API's wire
// protocol: JSend envelopes, bearer auth, paginated task lists.
type FakeAPI struct {
	Server *httptest.Server

	// Account accepted by /auth/login.
	Email    string
	Password string
	Token    string

	// User is returned from /auth/login when set; when nil the login
	// response carries no profile (the client synthesizes one).
	User *task.User

	// Limit is the page size when the request does not specify one.
	Limit int

	// Error injection, per endpoint.
	LoginErr  *Failure
	ListErr   *Failure
	GetErr    *Failure
	CreateErr *Failure
	UpdateErr *Failure
	DeleteErr *Failure

	// ForceUnauthorized makes every authenticated route return 401.
	ForceUnauthorized bool

	mu         sync.Mutex
	tasks      []task.Task
	nextID     int
	loggedIn   bool
	authSeen   []string // Authorization header of each request, in order
	logoutHits int
}

// NewFakeAPI starts a fake API with one known account.
func NewFakeAPI() *FakeAPI {
	f := &FakeAPI{
		Email:    "a@b.com",
		Password: "x",
		Token:    "T1",
		Limit:    10,
		nextID:   1,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", f.handleLogin)
	mux.HandleFunc("POST /logout", f.authed(f.handleLogout))
	mux.HandleFunc("GET /verify-token", f.authed(f.handleVerify))
	mux.HandleFunc("GET /tasks", f.authed(f.handleList))
	mux.HandleFunc("POST /tasks", f.authed(f.handleCreate))
	mux.HandleFunc("GET /tasks/{id}", f.authed(f.handleGet))
	mux.HandleFunc("PUT /tasks/{id}", f.authed(f.handleUpdate))
	mux.HandleFunc("DELETE /tasks/{id}", f.authed(f.handleDelete))
	f.Server = httptest.NewServer(mux)
	return f
}

// URL returns the fake API's base address.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// Close shuts the server down.
func (f *FakeAPI) Close() {
	f.Server.Close()
}

// AddTask seeds a task and returns it with its assigned id.
func (f *FakeAPI) AddTask(t task.Task) task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = fmt.Sprintf("task-%d", f.nextID)
		f.nextID++
	}
	if t.Status == "" {
		t.Status = task.StatusPending
	}
	if t.Priority == "" {
		t.Priority = task.PriorityMedium
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	now := time.Now().UTC().Truncate(time.Second)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	f.tasks = append(f.tasks, t)
	return t
}

// TaskByID returns the stored task with the given id.
func (f *FakeAPI) TaskByID(id string) (task.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

// TaskCount returns the number of stored tasks.
func (f *FakeAPI) TaskCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}

// AuthHeaders returns the Authorization header of every request received,
// in order.
func (f *FakeAPI) AuthHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.authSeen))
	copy(out, f.authSeen)
	return out
}

// LogoutHits returns how many times /logout was called.
func (f *FakeAPI) LogoutHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logoutHits
}

func (f *FakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	f.recordAuth(r)
	if f.LoginErr != nil {
		writeFail(w, f.LoginErr)
		return
	}

	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeFail(w, &Failure{Status: http.StatusBadRequest, Message: "Request body required"})
		return
	}
	if creds.Email != f.Email || creds.Password != f.Password {
		writeFail(w, &Failure{Status: http.StatusUnauthorized, Message: "Login failed"})
		return
	}

	f.mu.Lock()
	f.loggedIn = true
	f.mu.Unlock()

	body := map[string]any{
		"status":  "success",
		"message": "Login successful",
		"data":    map[string]string{"token": f.Token},
	}
	if f.User != nil {
		body["user"] = f.User
	}
	writeJSON(w, http.StatusOK, body)
}

func (f *FakeAPI) handleLogout(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.logoutHits++
	f.loggedIn = false
	f.mu.Unlock()
	writeSuccess(w, "Logged out", nil)
}

func (f *FakeAPI) handleVerify(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, "Token valid", map[string]string{"email": f.Email})
}

func (f *FakeAPI) handleList(w http.ResponseWriter, r *http.Request) {
	if f.ListErr != nil {
		writeFail(w, f.ListErr)
		return
	}

	q := r.URL.Query()
	f.mu.Lock()
	var filtered []task.Task
	for _, t := range f.tasks {
		if s := q.Get("status"); s != "" && t.Status != s {
			continue
		}
		if p := q.Get("priority"); p != "" && t.Priority != p {
			continue
		}
		if search := q.Get("search"); search != "" &&
			!strings.Contains(strings.ToLower(t.Title), strings.ToLower(search)) {
			continue
		}
		filtered = append(filtered, t)
	}
	f.mu.Unlock()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = f.Limit
	}

	total := len(filtered)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	pageTasks := filtered[start:end]
	if pageTasks == nil {
		pageTasks = []task.Task{}
	}

	writeSuccess(w, "Tasks retrieved successfully", task.Page{
		Tasks: pageTasks,
		Meta: task.PaginationMeta{
			Page:        page,
			Limit:       limit,
			Total:       int64(total),
			TotalPages:  totalPages,
			HasNextPage: page < totalPages,
			HasPrevPage: page > 1,
		},
	})
}

func (f *FakeAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	if f.GetErr != nil {
		writeFail(w, f.GetErr)
		return
	}
	t, ok := f.TaskByID(r.PathValue("id"))
	if !ok {
		writeFail(w, &Failure{Status: http.StatusNotFound, Message: "Task not found"})
		return
	}
	writeSuccess(w, "Task retrieved successfully", map[string]task.Task{"task": t})
}

func (f *FakeAPI) handleCreate(w http.ResponseWriter, r *http.Request) {
	if f.CreateErr != nil {
		writeFail(w, f.CreateErr)
		return
	}
	var in task.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeFail(w, &Failure{Status: http.StatusBadRequest, Message: "Request body required"})
		return
	}
	if len(in.Title) < 3 {
		writeFail(w, &Failure{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Errors:  map[string]string{"title": "must be at least 3 characters"},
		})
		return
	}

	created := f.AddTask(task.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Tags:        in.Tags,
	})
	writeSuccess(w, "Task created successfully", created)
}

func (f *FakeAPI) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if f.UpdateErr != nil {
		writeFail(w, f.UpdateErr)
		return
	}
	var in task.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeFail(w, &Failure{Status: http.StatusBadRequest, Message: "Request body required"})
		return
	}
	if in.Title != nil && len(*in.Title) < 3 {
		writeFail(w, &Failure{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Errors:  map[string]string{"title": "must be at least 3 characters"},
		})
		return
	}

	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		t := &f.tasks[i]
		if in.Title != nil {
			t.Title = *in.Title
		}
		if in.Description != nil {
			t.Description = *in.Description
		}
		if in.Status != nil {
			t.Status = *in.Status
			if *in.Status == task.StatusCompleted {
				now := time.Now().UTC().Truncate(time.Second)
				t.CompletedAt = &now
			}
		}
		if in.Priority != nil {
			t.Priority = *in.Priority
		}
		if in.DueDate != nil {
			t.DueDate = in.DueDate
		}
		if in.Tags != nil {
			t.Tags = in.Tags
		}
		t.UpdatedAt = time.Now().UTC().Truncate(time.Second)
		writeSuccess(w, "Task updated successfully", *t)
		return
	}
	writeFail(w, &Failure{Status: http.StatusNotFound, Message: "Task not found"})
}

func (f *FakeAPI) handleDelete(w http.ResponseWriter, r *http.Request) {
	if f.DeleteErr != nil {
		writeFail(w, f.DeleteErr)
		return
	}
	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			writeSuccess(w, "Task deleted successfully", nil)
			return
		}
	}
	writeFail(w, &Failure{Status: http.StatusNotFound, Message: "Task not found"})
}

// authed rejects requests whose bearer token is not the issued one.
func (f *FakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.recordAuth(r)
		if f.ForceUnauthorized || r.Header.Get("Authorization") != "Bearer "+f.Token {
			writeFail(w, &Failure{Status: http.StatusUnauthorized, Message: "Unauthorized"})
			return
		}
		next(w, r)
	}
}

func (f *FakeAPI) recordAuth(r *http.Request) {
	f.mu.Lock()
	f.authSeen = append(f.authSeen, r.Header.Get("Authorization"))
	f.mu.Unlock()
}

func writeSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

func writeFail(w http.ResponseWriter, fail *Failure) {
	body := map[string]any{
		"status":  "fail",
		"message": fail.Message,
	}
	if fail.Errors != nil {
		body["errors"] = fail.Errors
	}
	writeJSON(w, fail.Status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
