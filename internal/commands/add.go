package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/AlberthYap/mileapp-task/internal/config"
	"github.com/AlberthYap/mileapp-task/internal/exitcode"
	"github.com/AlberthYap/mileapp-task/internal/task"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	desc     string
	status   string
	priority string
	due      string
	tags     string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskcli add [--desc <text>] [--status <s>] [--priority <p>] [--due <date>] [--tags <a,b>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.tags, "tags", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	if c.status != "" && !task.ValidStatus(c.status) {
		fmt.Fprintf(errOut, "error: invalid status: %s\n", c.status)
		return exitcode.UserError
	}
	if c.priority != "" && !task.ValidPriority(c.priority) {
		fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
		return exitcode.UserError
	}

	due, err := parseDue(c.due)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	in := task.CreateInput{
		Title:       title,
		Description: c.desc,
		Status:      c.status,
		Priority:    c.priority,
		DueDate:     due,
		Tags:        splitTags(c.tags),
	}

	res := env.Tasks.CreateTask(ctx, in)
	if !res.Success {
		printFailure(errOut, res)
		return failureCode(res)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// parseDue accepts a date ("2006-01-02") or a full RFC 3339 timestamp.
func parseDue(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return &d, nil
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return &d, nil
	}
	return nil, fmt.Errorf("invalid due date: %s", s)
}

// splitTags splits a comma-separated tag list, dropping empty entries.
func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
