package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/AlberthYap/mileapp-task/internal/config"
	"github.com/AlberthYap/mileapp-task/internal/exitcode"
	"github.com/AlberthYap/mileapp-task/internal/task"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only flags the user actually set are
// sent to the server; everything else keeps its current value.
type EditCmd struct {
	title    string
	desc     string
	status   string
	priority string
	due      string
	tags     string

	set map[string]bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Update a task" }
func (c *EditCmd) Usage() string {
	return "taskcli edit [--title <t>] [--desc <text>] [--status <s>] [--priority <p>] [--due <date>] [--tags <a,b>] <id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.tags, "tags", "", "")

	c.set = make(map[string]bool)
}

// MarkSet records that a flag was explicitly provided (called by the
// dispatcher after parsing, and directly by tests).
func (c *EditCmd) MarkSet(name string) {
	if c.set == nil {
		c.set = make(map[string]bool)
	}
	c.set[name] = true
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}

	in, code := c.buildInput(errOut)
	if code != exitcode.Success {
		return code
	}

	res := env.Tasks.UpdateTask(ctx, args[0], in)
	if !res.Success {
		printFailure(errOut, res)
		return failureCode(res)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func (c *EditCmd) buildInput(errOut io.Writer) (task.UpdateInput, int) {
	var in task.UpdateInput
	changed := false

	if c.set["title"] {
		in.Title = &c.title
		changed = true
	}
	if c.set["desc"] {
		in.Description = &c.desc
		changed = true
	}
	if c.set["status"] {
		if !task.ValidStatus(c.status) {
			fmt.Fprintf(errOut, "error: invalid status: %s\n", c.status)
			return in, exitcode.UserError
		}
		in.Status = &c.status
		changed = true
	}
	if c.set["priority"] {
		if !task.ValidPriority(c.priority) {
			fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
			return in, exitcode.UserError
		}
		in.Priority = &c.priority
		changed = true
	}
	if c.set["due"] {
		due, err := parseDue(c.due)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return in, exitcode.UserError
		}
		in.DueDate = due
		changed = true
	}
	if c.set["tags"] {
		tags := splitTags(c.tags)
		if tags == nil {
			tags = []string{}
		}
		in.Tags = tags
		changed = true
	}

	if !changed {
		fmt.Fprintln(errOut, "error: nothing to update")
		return in, exitcode.UserError
	}
	return in, exitcode.Success
}
