package esi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// AggregateClient wraps the bulk aggregate-price endpoint. Cheaper than an
// order-book scan when it is available; optional (empty host disables it).
type AggregateClient struct {
	host       string
	httpClient *http.Client
}

func NewAggregateClient(httpClient *http.Client, host string) *AggregateClient {
	host = strings.TrimRight(host, "/")
	return &AggregateClient{host: host, httpClient: httpClient}
}

// Enabled reports whether an aggregate endpoint is configured.
func (c *AggregateClient) Enabled() bool {
	return c != nil && c.host != ""
}

// FetchAggregates returns per-type summaries for a region in one call.
func (c *AggregateClient) FetchAggregates(ctx context.Context, regionID int64, typeIDs []int64) (map[int64]Aggregate, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("aggregate endpoint not configured")
	}
	if len(typeIDs) == 0 {
		return map[int64]Aggregate{}, nil
	}
	parts := make([]string, len(typeIDs))
	for i, id := range typeIDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	query := url.Values{}
	query.Set("region", strconv.FormatInt(regionID, 10))
	query.Set("types", strings.Join(parts, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/aggregates/?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	raw := map[string]Aggregate{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse aggregates: %w", err)
	}
	out := make(map[int64]Aggregate, len(raw))
	for k, v := range raw {
		id, perr := strconv.ParseInt(k, 10, 64)
		if perr != nil {
			continue
		}
		out[id] = v
	}
	return out, nil
}
