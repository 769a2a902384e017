package commands

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlberthYap/mileapp-task/internal/api"
	"github.com/AlberthYap/mileapp-task/internal/config"
	"github.com/AlberthYap/mileapp-task/internal/credstore"
	"github.com/AlberthYap/mileapp-task/internal/exitcode"
	"github.com/AlberthYap/mileapp-task/internal/session"
	"github.com/AlberthYap/mileapp-task/internal/task"
	"github.com/AlberthYap/mileapp-task/internal/taskstore"
	"github.com/AlberthYap/mileapp-task/internal/testutil"
)

// newTestEnv builds a full environment over the fake API. When authed is
// true, credentials are persisted before the session manager is created so
// it starts out logged in.
func newTestEnv(t *testing.T, f *testutil.FakeAPI, authed bool) (*Env, *config.Config) {
	t.Helper()

	dir := t.TempDir()
	store := credstore.NewFileStore(dir)
	if authed {
		require.True(t, store.SetAuthData(f.Token, &task.User{Email: f.Email}))
	}

	gw, err := api.NewGateway(f.URL(), 0, store)
	require.NoError(t, err)
	client := api.NewClient(gw)
	sess := session.New(client, store)
	gw.OnUnauthorized = sess.ClearAuth

	env := &Env{
		Session: sess,
		Tasks:   taskstore.New(client),
		Creds:   store,
	}
	return env, &config.Config{Dir: dir, BaseURL: f.URL()}
}

func run(t *testing.T, cmd Command, cfg *config.Config, env *Env, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := cmd.Run(context.Background(), cfg, env, args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestLoginCmd(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, false)

	cmd := &LoginCmd{}
	cmd.SetCredentials(f.Email, f.Password)
	code, out, _ := run(t, cmd, cfg, env)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "logged in as a@b.com\n", out)
	assert.True(t, env.Session.IsAuthenticated())
	assert.Equal(t, f.Token, env.Creds.Token())
}

func TestLoginCmdWrongPassword(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, false)

	cmd := &LoginCmd{}
	cmd.SetCredentials(f.Email, "wrong")
	code, _, errOut := run(t, cmd, cfg, env)

	assert.Equal(t, exitcode.AuthError, code)
	assert.Equal(t, "error: Login failed\n", errOut)
	assert.False(t, env.Session.IsAuthenticated())
}

func TestLoginCmdRequiresEmailAndPassword(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, false)

	cmd := &LoginCmd{}
	code, _, errOut := run(t, cmd, cfg, env)
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, errOut, "email required")

	cmd = &LoginCmd{}
	cmd.SetCredentials(f.Email, "")
	code, _, errOut = run(t, cmd, cfg, env)
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, errOut, "password required")
}

func TestLoginCmdAlreadyLoggedIn(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, true)

	cmd := &LoginCmd{}
	cmd.SetCredentials(f.Email, f.Password)
	code, out, _ := run(t, cmd, cfg, env)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "already logged in\n", out)
}

func TestLoginCmdTransportError(t *testing.T) {
	f := testutil.NewFakeAPI()
	env, cfg := newTestEnv(t, f, false)
	f.Close() // nothing listens anymore

	cmd := &LoginCmd{}
	cmd.SetCredentials("a@b.com", "x")
	code, _, errOut := run(t, cmd, cfg, env)

	assert.Equal(t, exitcode.BackendError, code)
	assert.Contains(t, errOut, "network error")
}

func TestLogoutCmd(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, true)

	code, out, _ := run(t, &LogoutCmd{}, cfg, env)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", out)
	assert.False(t, env.Session.IsAuthenticated())
	assert.Empty(t, env.Creds.Token())
	assert.Equal(t, 1, f.LogoutHits())
}

func TestLogoutCmdNotLoggedIn(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, false)

	code, out, _ := run(t, &LogoutCmd{}, cfg, env)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "not logged in\n", out)
	assert.Equal(t, 0, f.LogoutHits())
}

func TestWhoamiCmd(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, true)

	code, out, _ := run(t, &WhoamiCmd{}, cfg, env)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "a@b.com\n", out)
}

func TestListCmd(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	f.AddTask(task.Task{Title: "write tests", Priority: task.PriorityHigh})
	env, cfg := newTestEnv(t, f, true)

	code, out, _ := run(t, &ListCmd{}, cfg, env)

	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, out, "write tests")
	assert.Contains(t, out, "High")
	assert.Contains(t, out, "page 1/1 (1 tasks)")
}

func TestListCmdQuietSuppressesFooter(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	f.AddTask(task.Task{Title: "quiet work"})
	env, cfg := newTestEnv(t, f, true)
	cfg.Quiet = true

	code, out, _ := run(t, &ListCmd{}, cfg, env)

	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, out, "quiet work")
	assert.NotContains(t, out, "page ")
}

func TestListCmdNoTasks(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, true)

	code, out, _ := run(t, &ListCmd{}, cfg, env)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "no tasks found\n", out)
}

func TestListCmdInvalidFilter(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, true)

	cmd := &ListCmd{status: "done"}
	code, _, errOut := run(t, cmd, cfg, env)
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, errOut, "invalid status: done")

	cmd = &ListCmd{priority: "urgent"}
	code, _, errOut = run(t, cmd, cfg, env)
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, errOut, "invalid priority: urgent")
}

func TestAddCmd(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, true)

	cmd := &AddCmd{priority: task.PriorityHigh, tags: "home, errands"}
	code, out, _ := run(t, cmd, cfg, env, "buy", "milk")

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", out)
	require.Equal(t, 1, f.TaskCount())
	created, ok := f.TaskByID("task-1")
	require.True(t, ok)
	assert.Equal(t, "buy milk", created.Title)
	assert.Equal(t, task.PriorityHigh, created.Priority)
	assert.Equal(t, []string{"home", "errands"}, created.Tags)
}

func TestAddCmdRequiresTitle(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, true)

	code, _, errOut := run(t, &AddCmd{}, cfg, env)

	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, errOut, "title required")
}

func TestAddCmdServerValidation(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, true)

	code, _, errOut := run(t, &AddCmd{}, cfg, env, "ab")

	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, errOut, "error: Validation failed")
	assert.Contains(t, errOut, "  title: must be at least 3 characters")
	assert.Equal(t, 0, f.TaskCount())
}

func TestAddCmdInvalidDueDate(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, true)

	cmd := &AddCmd{due: "next tuesday"}
	code, _, errOut := run(t, cmd, cfg, env, "plan", "sprint")

	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, errOut, "invalid due date")
}

func TestEditCmd(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	seeded := f.AddTask(task.Task{Title: "old title", Description: "keep"})
	env, cfg := newTestEnv(t, f, true)

	cmd := &EditCmd{title: "new title"}
	cmd.MarkSet("title")
	code, out, _ := run(t, cmd, cfg, env, seeded.ID)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", out)
	updated, ok := f.TaskByID(seeded.ID)
	require.True(t, ok)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "keep", updated.Description)
}

func TestEditCmdNothingToUpdate(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	seeded := f.AddTask(task.Task{Title: "untouched"})
	env, cfg := newTestEnv(t, f, true)

	code, _, errOut := run(t, &EditCmd{}, cfg, env, seeded.ID)

	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, errOut, "nothing to update")
}

func TestEditCmdClearsTags(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	seeded := f.AddTask(task.Task{Title: "tagged", Tags: []string{"a", "b"}})
	env, cfg := newTestEnv(t, f, true)

	cmd := &EditCmd{tags: ""}
	cmd.MarkSet("tags")
	code, _, _ := run(t, cmd, cfg, env, seeded.ID)

	assert.Equal(t, exitcode.Success, code)
	updated, ok := f.TaskByID(seeded.ID)
	require.True(t, ok)
	assert.Empty(t, updated.Tags)
}

func TestDoneCmd(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	seeded := f.AddTask(task.Task{Title: "finish line"})
	env, cfg := newTestEnv(t, f, true)

	code, out, _ := run(t, &DoneCmd{}, cfg, env, seeded.ID)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", out)
	updated, ok := f.TaskByID(seeded.ID)
	require.True(t, ok)
	assert.Equal(t, task.StatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
}

func TestRmCmd(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	seeded := f.AddTask(task.Task{Title: "ephemeral"})
	env, cfg := newTestEnv(t, f, true)

	code, out, _ := run(t, &RmCmd{}, cfg, env, seeded.ID)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", out)
	assert.Equal(t, 0, f.TaskCount())
}

func TestRmCmdNotFound(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, true)

	code, _, errOut := run(t, &RmCmd{}, cfg, env, "missing")

	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, errOut, "Task not found")
}

func TestShowCmd(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	seeded := f.AddTask(task.Task{Title: "inspect", Priority: task.PriorityLow, DueDate: &due})
	env, cfg := newTestEnv(t, f, true)

	code, out, _ := run(t, &ShowCmd{}, cfg, env, seeded.ID)

	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, out, "Title:       inspect")
	assert.Contains(t, out, "Priority:    Low")
	assert.Contains(t, out, "Due:         2026-04-01")
}

func TestShowCmdRequiresID(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, true)

	code, _, errOut := run(t, &ShowCmd{}, cfg, env)

	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, errOut, "task id required")
}

func TestVersionCmd(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, false)

	code, out, _ := run(t, &VersionCmd{}, cfg, env)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "taskcli "+Version+"\n", out)
}

func TestHelpCmd(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	env, cfg := newTestEnv(t, f, false)

	code, out, _ := run(t, &HelpCmd{}, cfg, env)

	assert.Equal(t, exitcode.Success, code)
	testutil.GoldenString(t, "help", out)
}

func TestFailureCodeMapping(t *testing.T) {
	cases := []struct {
		name string
		res  api.Result
		want int
	}{
		{"unauthorized", api.Result{Kind: api.KindUnauthorized}, exitcode.AuthError},
		{"not found", api.Result{Kind: api.KindNotFound}, exitcode.UserError},
		{"transport", api.Result{Kind: api.KindTransport}, exitcode.BackendError},
		{"validation", api.Result{Errors: map[string]string{"title": "too short"}}, exitcode.UserError},
		{"generic", api.Result{}, exitcode.BackendError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, failureCode(tc.res))
		})
	}
}
