// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/AlberthYap/mileapp-task/internal/api"
	"github.com/AlberthYap/mileapp-task/internal/config"
	"github.com/AlberthYap/mileapp-task/internal/credstore"
	"github.com/AlberthYap/mileapp-task/internal/exitcode"
	"github.com/AlberthYap/mileapp-task/internal/session"
	"github.com/AlberthYap/mileapp-task/internal/taskstore"
)

// Env bundles the state managers a command runs against.
type Env struct {
	Session *session.Manager
	Tasks   *taskstore.Store
	Creds   credstore.Store
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires stored credentials.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, base URL, flags).
	// env carries the session manager and task store.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int
}

// printFailure writes a manager failure to errOut: the message, then any
// per-field validation errors in field order.
func printFailure(errOut io.Writer, res api.Result) {
	fmt.Fprintf(errOut, "error: %s\n", res.Message)
	fields := make([]string, 0, len(res.Errors))
	for f := range res.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(errOut, "  %s: %s\n", f, res.Errors[f])
	}
}

// failureCode maps a manager failure to an exit code.
func failureCode(res api.Result) int {
	switch res.Kind {
	case api.KindUnauthorized:
		return exitcode.AuthError
	case api.KindNotFound:
		return exitcode.UserError
	case api.KindTransport:
		return exitcode.BackendError
	}
	if len(res.Errors) > 0 {
		return exitcode.UserError
	}
	return exitcode.BackendError
}
