package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/graph-structure/internal/httputil"
	"github.com/pdiddy/graph-structure/pkg/types"
)

// HTTPClient implements Platform against a Server's REST API.
type HTTPClient struct {
	cfg    types.PlatformConfig
	client *http.Client
}

// NewHTTPClient returns a client for the platform at cfg.URL.
func NewHTTPClient(cfg types.PlatformConfig) *HTTPClient {
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	return &HTTPClient{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

// do sends a request and decodes a 2xx JSON body into out. notFound is
// returned, wrapped, for a 404.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, notFound error) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.URL+path, r)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.cfg.MaxRetries)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&e)
		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
		case resp.StatusCode == http.StatusNotFound && notFound != nil:
			return fmt.Errorf("%w: %s", notFound, e.Error)
		}
		return fmt.Errorf("%s %s: HTTP %d: %s", method, path, resp.StatusCode, e.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func taskPath(h types.TaskHandle) string {
	return "/api/tasks/" + url.PathEscape(h.ID)
}

// Participants lists the platform's participants.
func (c *HTTPClient) Participants(ctx context.Context) ([]types.Participant, error) {
	var out struct {
		Participants []types.Participant `json:"participants"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/participants", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Participants, nil
}

// Dispatch creates a task on the named participants, or on all of them
// when ids is empty.
func (c *HTTPClient) Dispatch(ctx context.Context, ids []string, req types.TaskRequest) (types.TaskHandle, error) {
	var h types.TaskHandle
	body := DispatchRequest{Participants: ids, Request: req}
	if err := c.do(ctx, http.MethodPost, "/api/tasks", body, &h, ErrUnknownParticipant); err != nil {
		return types.TaskHandle{}, err
	}
	if h.ID == "" {
		return types.TaskHandle{}, fmt.Errorf("platform returned an empty task id")
	}
	return h, nil
}

// Status fetches the task's progress.
func (c *HTTPClient) Status(ctx context.Context, h types.TaskHandle) (types.TaskStatus, error) {
	var st types.TaskStatus
	if err := c.do(ctx, http.MethodGet, taskPath(h), nil, &st, ErrUnknownTask); err != nil {
		return types.TaskStatus{}, err
	}
	return st, nil
}

// Complete reports whether the task has finished.
func (c *HTTPClient) Complete(ctx context.Context, h types.TaskHandle) (bool, error) {
	st, err := c.Status(ctx, h)
	if err != nil {
		return false, err
	}
	return st.Complete, nil
}

// Results fetches and validates every node report of the task.
func (c *HTTPClient) Results(ctx context.Context, h types.TaskHandle) ([]types.NodeResult, error) {
	var out struct {
		Results []types.NodeResult `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, taskPath(h)+"/results", nil, &out, ErrUnknownTask); err != nil {
		return nil, err
	}
	for i, r := range out.Results {
		if err := r.Report.Validate(); err != nil {
			return nil, fmt.Errorf("report from %s: %w", r.ParticipantID, err)
		}
		if r.Report.Structure == nil {
			out.Results[i].Report.Structure = types.TripleSet{}
		}
		if r.Report.URIData == nil {
			out.Results[i].Report.URIData = types.URIData{}
		}
	}
	return out.Results, nil
}
