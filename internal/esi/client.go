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

// Client wraps the regional order-book endpoint. Pages are signaled via
// the X-Pages response header.
type Client struct {
	host       string
	httpClient *http.Client
}

func NewClient(httpClient *http.Client, host string) *Client {
	if host == "" {
		host = "https://esi.evetech.net/latest"
	}
	host = strings.TrimRight(host, "/")
	return &Client{host: host, httpClient: httpClient}
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, http.Header, error) {
	fullURL := c.host + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, resp.Header, nil
}

// FetchOrdersPage fetches one page of the region order book for a type
// and returns the orders plus the total page count from X-Pages.
func (c *Client) FetchOrdersPage(ctx context.Context, regionID, typeID int64, page int) ([]MarketOrder, int, error) {
	query := url.Values{}
	query.Set("order_type", "all")
	query.Set("type_id", strconv.FormatInt(typeID, 10))
	query.Set("page", strconv.Itoa(page))
	body, header, err := c.doRequest(ctx, fmt.Sprintf("/markets/%d/orders/", regionID), query)
	if err != nil {
		return nil, 0, err
	}
	var orders []MarketOrder
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, 0, fmt.Errorf("parse orders page: %w", err)
	}
	pages := 1
	if raw := header.Get("X-Pages"); raw != "" {
		if n, perr := strconv.Atoi(raw); perr == nil && n > 0 {
			pages = n
		}
	}
	return orders, pages, nil
}
