// Package guard decides where navigation lands based on the session state.
// It is the client-side route table: protected routes bounce anonymous
// visitors to the login entry point, and the login page bounces
// already-authenticated visitors to the task list.
package guard

import "strings"

// Well-known paths.
const (
	LoginPath = "/login"
	TasksPath = "/tasks"
)

// Route describes one navigable path.
type Route struct {
	Path                    string
	RequiresAuth            bool
	RedirectIfAuthenticated bool
}

var routes = []Route{
	{Path: LoginPath, RedirectIfAuthenticated: true},
	{Path: TasksPath, RequiresAuth: true},
	{Path: TasksPath + "/:id", RequiresAuth: true},
}

// Routes returns the route table.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// Resolve returns the path navigation should land on when heading to path
// with the given authentication state. Resolving the login path while
// anonymous yields the login path itself, so a forced teardown never
// redirect-loops.
func Resolve(path string, authenticated bool) string {
	if path == "/" || path == "" {
		path = TasksPath
	}

	route, ok := match(path)
	if !ok {
		return path
	}
	if route.RequiresAuth && !authenticated {
		return LoginPath
	}
	if route.RedirectIfAuthenticated && authenticated {
		return TasksPath
	}
	return path
}

func match(path string) (Route, bool) {
	for _, r := range routes {
		if r.Path == path {
			return r, true
		}
		// "/tasks/:id" matches any single segment under /tasks.
		if prefix, ok := strings.CutSuffix(r.Path, "/:id"); ok {
			rest, found := strings.CutPrefix(path, prefix+"/")
			if found && rest != "" && !strings.Contains(rest, "/") {
				return r, true
			}
		}
	}
	return Route{}, false
}
