// Package api talks to the remote task-management API.
//
// The Gateway wraps every outgoing request with the base address, a fixed
// timeout, JSON headers and the persisted bearer token, and centralizes the
// authorization-failure teardown. The Client layers the typed endpoints on
// top of it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/AlberthYap/mileapp-task/internal/credstore"
)

// DefaultTimeout matches the remote API's 60 second request budget.
const DefaultTimeout = 60 * time.Second

// envelope is the JSend-style wire format every response uses.
type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// Gateway sends authenticated requests to the remote API.
type Gateway struct {
	base  *url.URL
	http  *http.Client
	store credstore.Store

	// OnUnauthorized is invoked after the gateway detects an
	// authorization-denied response and clears the credential store.
	// The hosting application decides what navigation, if any, follows.
	OnUnauthorized func()
}

// NewGateway creates a gateway for baseURL. A zero timeout means
// DefaultTimeout.
func NewGateway(baseURL string, timeout time.Duration, store credstore.Store) (*Gateway, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{
		base:  base,
		http:  &http.Client{Timeout: timeout},
		store: store,
	}, nil
}

// Do sends one request and returns the raw response body on success.
// Failures come back as *Error; the response body is never partially
// consumed into caller-visible state.
func (g *Gateway) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	u := *g.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindFailure, Message: "failed to encode request body"}
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), payload)
	if err != nil {
		return nil, &Error{Kind: KindFailure, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := g.store.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("method", method).Str("path", path).Msg("network error")
		return nil, &Error{Kind: KindTransport, Message: "network error: " + err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to read response body")
		return nil, &Error{Kind: KindTransport, Message: "network error: " + err.Error()}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}
	return nil, g.asError(resp.StatusCode, raw, path)
}

// asError converts a non-2xx response into an *Error, applying the
// centralized side effects for authorization failures.
func (g *Gateway) asError(status int, raw []byte, path string) *Error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		env.Message = ""
	}

	apiErr := &Error{
		Kind:    KindFailure,
		Status:  status,
		Message: env.Message,
		Errors:  env.Errors,
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	switch status {
	case http.StatusUnauthorized:
		apiErr.Kind = KindUnauthorized
		log.Warn().Str("path", path).Msg("unauthorized access, clearing stored credentials")
		g.store.ClearAll()
		if g.OnUnauthorized != nil {
			g.OnUnauthorized()
		}
	case http.StatusForbidden:
		apiErr.Kind = KindForbidden
		log.Warn().Str("path", path).Msg("access forbidden")
	case http.StatusNotFound:
		apiErr.Kind = KindNotFound
	}
	return apiErr
}
