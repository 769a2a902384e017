package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/AlberthYap/mileapp-task/internal/api"
	"github.com/AlberthYap/mileapp-task/internal/config"
	"github.com/AlberthYap/mileapp-task/internal/exitcode"
	"github.com/AlberthYap/mileapp-task/internal/output"
	"github.com/AlberthYap/mileapp-task/internal/task"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
type ListCmd struct {
	status   string
	priority string
	search   string
	sort     string
	page     int
	limit    int

	now func() time.Time // injectable for tests
}

// SetNow overrides the clock used for relative dates (for testing).
func (c *ListCmd) SetNow(now func() time.Time) {
	c.now = now
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskcli list [--status <s>] [--priority <p>] [--search <text>] [--sort <field>] [--page <n>] [--limit <n>]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.sort, "sort", "", "")
	fs.IntVar(&c.page, "page", 0, "")
	fs.IntVar(&c.limit, "limit", 0, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if c.status != "" && !task.ValidStatus(c.status) {
		fmt.Fprintf(errOut, "error: invalid status: %s\n", c.status)
		return exitcode.UserError
	}
	if c.priority != "" && !task.ValidPriority(c.priority) {
		fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
		return exitcode.UserError
	}
	if c.page < 0 {
		fmt.Fprintf(errOut, "error: invalid page number: %d\n", c.page)
		return exitcode.UserError
	}

	env.Tasks.FetchTasks(ctx, task.ListParams{
		Status:   c.status,
		Priority: c.priority,
		Search:   c.search,
		Sort:     c.sort,
		Page:     c.page,
		Limit:    c.limit,
	})
	if msg := env.Tasks.Err(); msg != "" {
		printFailure(errOut, api.Result{Message: msg})
		return exitcode.BackendError
	}

	tasks := env.Tasks.Tasks()
	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	now := time.Now()
	if c.now != nil {
		now = c.now()
	}
	if err := output.TaskTable(out, tasks, now); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	if !cfg.Quiet {
		output.MetaFooter(out, env.Tasks.Meta())
	}
	return exitcode.Success
}
