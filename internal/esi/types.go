package esi

import "fmt"

// APIError is a non-2xx response from a market endpoint. Endpoints are
// untrusted and rate-limited; the pricing layer treats any error as a
// signal to fall further down its degradation chain.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Body)
}

// MarketOrder is one row of a regional order book page.
type MarketOrder struct {
	OrderID      int64   `json:"order_id"`
	TypeID       int64   `json:"type_id"`
	IsBuyOrder   bool    `json:"is_buy_order"`
	Price        float64 `json:"price"`
	VolumeRemain int64   `json:"volume_remain"`
	SystemID     int64   `json:"system_id"`
	LocationID   int64   `json:"location_id"`
}

// AggregateSide is one side of a bulk aggregate quote.
type AggregateSide struct {
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	OrderCount int     `json:"order_count"`
}

// Aggregate is the bulk endpoint's per-type summary for a region.
type Aggregate struct {
	Buy  AggregateSide `json:"buy"`
	Sell AggregateSide `json:"sell"`
}
