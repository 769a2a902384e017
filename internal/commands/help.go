package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/AlberthYap/mileapp-task/internal/config"
	"github.com/AlberthYap/mileapp-task/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskcli help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskcli list [common flags] [--status <s>] [--priority <p>] [--search <text>] [--sort <field>] [--page <n>] [--limit <n>]
  taskcli show [common flags] <id>
  taskcli add [common flags] [--desc <text>] [--status <s>] [--priority <p>] [--due <date>] [--tags <a,b>] <title...>
  taskcli edit [common flags] [--title <t>] [--desc <text>] [--status <s>] [--priority <p>] [--due <date>] [--tags <a,b>] <id>
  taskcli done [common flags] <id>
  taskcli rm [common flags] <id>
  taskcli login [common flags] --email <email> --password <password>
  taskcli logout [common flags]
  taskcli whoami [common flags]
  taskcli help
  taskcli version

Statuses:   pending, in_progress, completed
Priorities: low, medium, high

Common flags:
  --config <dir>     Override config directory
  --base-url <url>   Override API base URL
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
