package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlberthYap/mileapp-task/internal/credstore"
	"github.com/AlberthYap/mileapp-task/internal/task"
	"github.com/AlberthYap/mileapp-task/internal/testutil"
)

func newClient(t *testing.T, f *testutil.FakeAPI) (*Client, credstore.Store, *Gateway) {
	t.Helper()
	store := credstore.NewFileStore(t.TempDir())
	gw, err := NewGateway(f.URL(), 0, store)
	require.NoError(t, err)
	return NewClient(gw), store, gw
}

func authenticate(t *testing.T, store credstore.Store, f *testutil.FakeAPI) {
	t.Helper()
	require.True(t, store.SetAuthData(f.Token, &task.User{Email: f.Email}))
}

func TestGatewayOmitsBearerWhenNoToken(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	client, _, _ := newClient(t, f)

	_, err := client.Login(context.Background(), Credentials{Email: f.Email, Password: f.Password})
	require.NoError(t, err)

	headers := f.AuthHeaders()
	require.Len(t, headers, 1)
	assert.Empty(t, headers[0])
}

func TestGatewayAttachesBearerFromStore(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	client, store, _ := newClient(t, f)
	authenticate(t, store, f)

	_, err := client.ListTasks(context.Background(), task.ListParams{})
	require.NoError(t, err)

	headers := f.AuthHeaders()
	require.Len(t, headers, 1)
	assert.Equal(t, "Bearer "+f.Token, headers[0])
}

func TestGatewaySendsJSONHeadersAndRequestID(t *testing.T) {
	var accept, contentType string
	ids := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		contentType = r.Header.Get("Content-Type")
		ids[r.Header.Get("X-Request-ID")] = true
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	gw, err := NewGateway(srv.URL, 0, credstore.NewFileStore(t.TempDir()))
	require.NoError(t, err)

	_, err = gw.Do(context.Background(), http.MethodGet, "/ping", nil, nil)
	require.NoError(t, err)
	_, err = gw.Do(context.Background(), http.MethodGet, "/ping", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "application/json", accept)
	assert.Equal(t, "application/json", contentType)
	// Each request carries its own correlation id.
	assert.Len(t, ids, 2)
	assert.NotContains(t, ids, "")
}

func TestGatewayUnauthorizedClearsStoreAndNotifies(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	client, store, gw := newClient(t, f)
	authenticate(t, store, f)
	f.ForceUnauthorized = true

	notified := false
	gw.OnUnauthorized = func() { notified = true }

	_, err := client.ListTasks(context.Background(), task.ListParams{})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindUnauthorized, apiErr.Kind)
	assert.True(t, notified)
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
}

func TestGatewayForbiddenKeepsCredentials(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	client, store, _ := newClient(t, f)
	authenticate(t, store, f)
	f.ListErr = &testutil.Failure{Status: http.StatusForbidden, Message: "You do not have access to this resource"}

	_, err := client.ListTasks(context.Background(), task.ListParams{})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindForbidden, apiErr.Kind)
	assert.Equal(t, "You do not have access to this resource", apiErr.Message)
	assert.Equal(t, f.Token, store.Token())
}

func TestGatewayNotFoundKind(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	client, store, _ := newClient(t, f)
	authenticate(t, store, f)

	_, err := client.GetTask(context.Background(), "missing")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNotFound, apiErr.Kind)
	assert.Equal(t, "Task not found", apiErr.Message)
}

func TestGatewayTransportErrorKind(t *testing.T) {
	gw, err := NewGateway("http://127.0.0.1:1", time.Second, credstore.NewFileStore(t.TempDir()))
	require.NoError(t, err)

	_, err = gw.Do(context.Background(), http.MethodGet, "/tasks", nil, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindTransport, apiErr.Kind)
	assert.Contains(t, apiErr.Message, "network error")
}

func TestGatewayFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	gw, err := NewGateway(srv.URL, 0, credstore.NewFileStore(t.TempDir()))
	require.NoError(t, err)

	_, err = gw.Do(context.Background(), http.MethodGet, "/tasks", nil, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestLoginReturnsTokenAndProfile(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	f.User = &task.User{ID: "u1", Email: f.Email, Name: "Alice"}
	client, _, _ := newClient(t, f)

	resp, err := client.Login(context.Background(), Credentials{Email: f.Email, Password: f.Password})

	require.NoError(t, err)
	assert.Equal(t, f.Token, resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Alice", resp.User.Name)
}

func TestLoginWithoutProfileLeavesUserNil(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	client, _, _ := newClient(t, f)

	resp, err := client.Login(context.Background(), Credentials{Email: f.Email, Password: f.Password})

	require.NoError(t, err)
	assert.Equal(t, f.Token, resp.Token)
	assert.Nil(t, resp.User)
}

func TestLoginRejectsMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":{}}`))
	}))
	defer srv.Close()

	gw, err := NewGateway(srv.URL, 0, credstore.NewFileStore(t.TempDir()))
	require.NoError(t, err)
	client := NewClient(gw)

	_, err = client.Login(context.Background(), Credentials{Email: "a@b.com", Password: "x"})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "login response missing token", apiErr.Message)
}

func TestLoginFailureCarriesServerMessage(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	client, _, _ := newClient(t, f)

	_, err := client.Login(context.Background(), Credentials{Email: f.Email, Password: "wrong"})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Login failed", apiErr.Message)
	assert.Equal(t, KindUnauthorized, apiErr.Kind)
}

func TestListTasksDecodesPage(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	f.AddTask(task.Task{Title: "first"})
	f.AddTask(task.Task{Title: "second"})
	client, store, _ := newClient(t, f)
	authenticate(t, store, f)

	page, err := client.ListTasks(context.Background(), task.ListParams{Limit: 1, Page: 2})

	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "second", page.Tasks[0].Title)
	assert.Equal(t, int64(2), page.Meta.Total)
	assert.Equal(t, 2, page.Meta.Page)
	assert.True(t, page.Meta.HasPrevPage)
}

func TestGetTaskUnwrapsEnvelope(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	seeded := f.AddTask(task.Task{Title: "inspect me", Priority: task.PriorityHigh})
	client, store, _ := newClient(t, f)
	authenticate(t, store, f)

	got, err := client.GetTask(context.Background(), seeded.ID)

	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)
	assert.Equal(t, "inspect me", got.Title)
	assert.Equal(t, task.PriorityHigh, got.Priority)
}

func TestCreateTaskValidationErrors(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	client, store, _ := newClient(t, f)
	authenticate(t, store, f)

	err := client.CreateTask(context.Background(), task.CreateInput{Title: "ab"})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Validation failed", apiErr.Message)
	assert.Contains(t, apiErr.Errors, "title")
}

func TestUpdateTaskReturnsConfirmedFields(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	seeded := f.AddTask(task.Task{Title: "slow work"})
	client, store, _ := newClient(t, f)
	authenticate(t, store, f)

	status := task.StatusCompleted
	patch, err := client.UpdateTask(context.Background(), seeded.ID, task.UpdateInput{Status: &status})

	require.NoError(t, err)
	require.NotNil(t, patch.Status)
	assert.Equal(t, task.StatusCompleted, *patch.Status)
}

func TestDeleteTask(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	seeded := f.AddTask(task.Task{Title: "ephemeral"})
	client, store, _ := newClient(t, f)
	authenticate(t, store, f)

	require.NoError(t, client.DeleteTask(context.Background(), seeded.ID))
	assert.Equal(t, 0, f.TaskCount())
}
