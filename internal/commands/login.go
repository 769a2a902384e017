package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/AlberthYap/mileapp-task/internal/api"
	"github.com/AlberthYap/mileapp-task/internal/config"
	"github.com/AlberthYap/mileapp-task/internal/exitcode"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

// SetCredentials sets the login inputs (for testing).
func (c *LoginCmd) SetCredentials(email, password string) {
	c.email = email
	c.password = password
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Authenticate with the task API" }
func (c *LoginCmd) Usage() string     { return "taskcli login --email <email> --password <password>" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if c.email == "" {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}
	if c.password == "" {
		fmt.Fprintln(errOut, "error: password required")
		return exitcode.UserError
	}

	// Already holding a live session for this user: nothing to do.
	if env.Session.IsAuthenticated() {
		if u := env.Session.User(); u != nil && u.Email == c.email {
			if env.Session.Verify(ctx) == nil {
				if !cfg.Quiet {
					fmt.Fprintln(out, "already logged in")
				}
				return exitcode.Success
			}
		}
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}

	res := env.Session.Login(ctx, api.Credentials{Email: c.email, Password: c.password})
	if !res.Success {
		printFailure(errOut, res)
		if res.Kind == api.KindTransport {
			return exitcode.BackendError
		}
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "logged in as %s\n", env.Session.User().Email)
	}
	return exitcode.Success
}
