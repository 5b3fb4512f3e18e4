package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/activities/internal/domain/model"
)

// client wraps http.Client with the activity routes.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{http: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

func (c *client) do(ctx context.Context, method, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func (c *client) health(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodGet, "/healthz")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	return nil
}

func (c *client) activities(ctx context.Context) (model.Directory, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/activities")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("list activities: status %d", status)
	}
	var dir model.Directory
	if err := json.Unmarshal(body, &dir); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	return dir, nil
}

func (c *client) signup(ctx context.Context, activity, email string) (int, error) {
	status, _, err := c.do(ctx, http.MethodPost, rosterPath(activity, "signup", email))
	return status, err
}

func (c *client) unregister(ctx context.Context, activity, email string) (int, error) {
	status, _, err := c.do(ctx, http.MethodDelete, rosterPath(activity, "unregister", email))
	return status, err
}

func rosterPath(activity, action, email string) string {
	return "/activities/" + url.PathEscape(activity) + "/" + action + "?email=" + url.QueryEscape(email)
}
