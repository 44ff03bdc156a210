package node

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/graph-structure/internal/httputil"
	"github.com/pdiddy/graph-structure/pkg/types"
)

// Client calls a remote node's RPC endpoint.
type Client struct {
	baseURL string
	client  *http.Client
	cfg     types.HTTPConfig
}

// NewClient returns a client for the node served at baseURL.
func NewClient(baseURL string, cfg types.HTTPConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
	}
}

// Run implements platform.Runner by POSTing req to the node's /rpc.
func (c *Client) Run(ctx context.Context, req types.TaskRequest) (types.NodeStructureReport, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return types.NodeStructureReport{}, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rpc", bytes.NewReader(body))
	if err != nil {
		return types.NodeStructureReport{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, httpReq, c.cfg.MaxRetries)
	if err != nil {
		return types.NodeStructureReport{}, fmt.Errorf("calling node %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return types.NodeStructureReport{}, fmt.Errorf("node %s: HTTP %d: %s", c.baseURL, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var report types.NodeStructureReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return types.NodeStructureReport{}, fmt.Errorf("decoding report from %s: %w", c.baseURL, err)
	}
	if err := report.Validate(); err != nil {
		return types.NodeStructureReport{}, fmt.Errorf("invalid report from %s: %w", c.baseURL, err)
	}
	if report.Structure == nil {
		report.Structure = types.TripleSet{}
	}
	if report.URIData == nil {
		report.URIData = types.URIData{}
	}
	return report, nil
}
