// Package gazetteer implements the candidate repository over the gazetteer's
// HTTP API: variant search by text and place record lookup by id.
package gazetteer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/gcbaptista/go-reconcile/internal/metrics"
	"github.com/gcbaptista/go-reconcile/model"
)

const (
	// DefaultSearchPath returns up to 100 variants on the first page
	DefaultSearchPath = "/api/Variants/SearchVariants/{query}/100/1"
	// DefaultPlacePath returns the full record of a place
	DefaultPlacePath = "/api/Places/Place/{id}"

	maxResponseBytes = 8 << 20
)

// Options configures a Client
type Options struct {
	BaseURL           string
	SearchPath        string // Must contain {query}
	PlacePath         string // Must contain {id}
	Timeout           time.Duration
	RequestsPerSecond float64 // Zero or negative disables rate limiting
	Burst             int
	HTTPClient        *http.Client
	Logger            *log.Logger
}

// Client talks to the gazetteer. It is safe for concurrent use.
type Client struct {
	baseURL    string
	searchPath string
	placePath  string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// variantHit is one element of the variant search response
type variantHit struct {
	PlaceID json.RawMessage `json:"placeId"`
	Name    *string         `json:"primary_heb_full"`
}

// NewClient validates opts and creates a Client
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("gazetteer base URL is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid gazetteer base URL '%s': %w", opts.BaseURL, err)
	}

	searchPath := opts.SearchPath
	if searchPath == "" {
		searchPath = DefaultSearchPath
	}
	if !strings.Contains(searchPath, "{query}") {
		return nil, fmt.Errorf("search path '%s' must contain {query}", searchPath)
	}
	placePath := opts.PlacePath
	if placePath == "" {
		placePath = DefaultPlacePath
	}
	if !strings.Contains(placePath, "{id}") {
		return nil, fmt.Errorf("place path '%s' must contain {id}", placePath)
	}

	limit := rate.Inf
	burst := opts.Burst
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		if burst <= 0 {
			burst = 1
		}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Client{
		baseURL:    base,
		searchPath: searchPath,
		placePath:  placePath,
		timeout:    opts.Timeout,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
	}, nil
}

// SearchByText returns the places whose name variants match text.
// A non-200 answer is logged and reported as no candidates.
func (c *Client) SearchByText(ctx context.Context, text string) ([]model.CandidateSummary, error) {
	endpoint := c.baseURL + strings.ReplaceAll(c.searchPath, "{query}", url.PathEscape(text))

	var hits []variantHit
	status, err := c.getJSON(ctx, metrics.OperationSearch, endpoint, &hits)
	if err != nil {
		return nil, fmt.Errorf("search '%s': %w", text, err)
	}
	if status != http.StatusOK {
		c.logger.Warn("gazetteer search returned non-success status", "query", text, "status", status)
		return []model.CandidateSummary{}, nil
	}

	candidates := make([]model.CandidateSummary, 0, len(hits))
	for _, hit := range hits {
		id := rawText(hit.PlaceID)
		if id == "" {
			c.logger.Debug("skipping variant without placeId", "query", text)
			continue
		}
		name := ""
		if hit.Name != nil {
			name = *hit.Name
		}
		candidates = append(candidates, model.CandidateSummary{ID: id, DisplayName: name})
	}

	c.logger.Debug("gazetteer search", "query", text, "candidates", len(candidates))
	return candidates, nil
}

// FetchRecord returns the flattened record of a place. Scalar values are kept
// as text, numbers in their literal form; null values are left out.
func (c *Client) FetchRecord(ctx context.Context, id string) (model.Record, error) {
	endpoint := c.baseURL + strings.ReplaceAll(c.placePath, "{id}", url.PathEscape(id))

	var fields map[string]json.RawMessage
	status, err := c.getJSON(ctx, metrics.OperationFetch, endpoint, &fields)
	if err != nil {
		return nil, fmt.Errorf("place '%s': %w", id, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("place '%s': gazetteer returned status %d", id, status)
	}

	record := make(model.Record, len(fields))
	for key, raw := range fields {
		if value := rawText(raw); value != "" || isEmptyString(raw) {
			record[key] = value
		}
	}
	return record, nil
}

// getJSON performs a rate-limited GET and decodes a 200 body into target.
// Other statuses are returned without decoding.
func (c *Client) getJSON(ctx context.Context, operation, endpoint string, target interface{}) (int, error) {
	waitStarted := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	metrics.RecordRateLimitWait(time.Since(waitStarted).Seconds())

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordGazetteerRequest(operation, 0, time.Since(started).Seconds())
		c.logger.Warn("gazetteer request failed", "url", endpoint, "err", err)
		return 0, err
	}
	defer resp.Body.Close()
	metrics.RecordGazetteerRequest(operation, resp.StatusCode, time.Since(started).Seconds())

	c.logger.Debug("gazetteer request", "url", endpoint, "status", resp.StatusCode, "took", time.Since(started))

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return resp.StatusCode, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// rawText renders a JSON scalar as text. Strings are unquoted, numbers and
// booleans keep their literal form, null becomes "". Objects and arrays are
// returned as their JSON text.
func rawText(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
			return s
		}
	}
	return trimmed
}

func isEmptyString(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == `""`
}
