// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, not found, validation).
	UserError = 1

	// AuthError indicates an authentication/credentials error.
	AuthError = 2

	// BackendError indicates an API/network error.
	BackendError = 3
)
