package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/AlberthYap/mileapp-task/internal/task"
)

// Credentials are the login inputs.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the token, and the user profile when the server
// supplies one.
type LoginResponse struct {
	Token string
	User  *task.User
}

// Client exposes the remote API's endpoints as typed calls.
type Client struct {
	gw *Gateway
}

// NewClient creates a client on top of gw.
func NewClient(gw *Gateway) *Client {
	return &Client{gw: gw}
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	raw, err := c.gw.Do(ctx, http.MethodPost, "/auth/login", nil, creds)
	if err != nil {
		return LoginResponse{}, err
	}

	// The token lives under data; the profile, when present, is a
	// top-level sibling of it.
	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
		User *task.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return LoginResponse{}, &Error{Kind: KindFailure, Message: "malformed login response"}
	}
	if body.Data.Token == "" {
		return LoginResponse{}, &Error{Kind: KindFailure, Message: "login response missing token"}
	}
	return LoginResponse{Token: body.Data.Token, User: body.User}, nil
}

// Logout notifies the server that the session is over. Best effort.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.gw.Do(ctx, http.MethodPost, "/logout", nil, nil)
	return err
}

// VerifyToken checks that the persisted token is still accepted.
func (c *Client) VerifyToken(ctx context.Context) error {
	_, err := c.gw.Do(ctx, http.MethodGet, "/verify-token", nil, nil)
	return err
}

// ListTasks fetches one page of tasks matching params.
func (c *Client) ListTasks(ctx context.Context, params task.ListParams) (task.Page, error) {
	raw, err := c.gw.Do(ctx, http.MethodGet, "/tasks", params.Encode(), nil)
	if err != nil {
		return task.Page{}, err
	}
	var body struct {
		Data task.Page `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return task.Page{}, &Error{Kind: KindFailure, Message: "malformed task list response"}
	}
	return body.Data, nil
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, id string) (task.Task, error) {
	raw, err := c.gw.Do(ctx, http.MethodGet, "/tasks/"+id, nil, nil)
	if err != nil {
		return task.Task{}, err
	}
	var body struct {
		Data struct {
			Task task.Task `json:"task"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return task.Task{}, &Error{Kind: KindFailure, Message: "malformed task response"}
	}
	return body.Data.Task, nil
}

// CreateTask submits a new task.
func (c *Client) CreateTask(ctx context.Context, in task.CreateInput) error {
	_, err := c.gw.Do(ctx, http.MethodPost, "/tasks", nil, in)
	return err
}

// UpdateTask submits a patch and returns the fields the server confirmed.
func (c *Client) UpdateTask(ctx context.Context, id string, in task.UpdateInput) (task.Patch, error) {
	raw, err := c.gw.Do(ctx, http.MethodPut, "/tasks/"+id, nil, in)
	if err != nil {
		return task.Patch{}, err
	}
	var body struct {
		Data task.Patch `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return task.Patch{}, &Error{Kind: KindFailure, Message: "malformed task response"}
	}
	return body.Data, nil
}

// DeleteTask deletes a task by id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.gw.Do(ctx, http.MethodDelete, "/tasks/"+id, nil, nil)
	return err
}
