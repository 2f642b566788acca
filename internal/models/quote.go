package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MarketContext scopes a price lookup. SystemID/StationID of zero mean
// "anywhere in the region".
type MarketContext struct {
	RegionID  int64 `json:"region_id" mapstructure:"region_id"`
	SystemID  int64 `json:"system_id,omitempty" mapstructure:"system_id"`
	StationID int64 `json:"station_id,omitempty" mapstructure:"station_id"`
}

// CacheKey is the canonical cache/store key for a (context, type) pair.
func (m MarketContext) CacheKey(typeID int64) string {
	return fmt.Sprintf("quote:%d:%d:%d:%d", m.RegionID, m.SystemID, m.StationID, typeID)
}

// QuoteSource tags where a quote came from. Anything other than live is
// a degraded quote, surfaced but never treated as an error.
type QuoteSource string

const (
	QuoteSourceLive       QuoteSource = "live"
	QuoteSourceStaleCache QuoteSource = "stale_cache"
	QuoteSourceMock       QuoteSource = "mock"
	QuoteSourceMissing    QuoteSource = "missing"
)

// QuoteMeta carries advisory market-quality signals. Never gates
// correctness.
type QuoteMeta struct {
	OrderCount  int     `json:"order_count"`
	SpreadPct   float64 `json:"spread_pct"`
	Competition float64 `json:"competition"` // 0..100
}

// PriceQuote is the best observed buy/sell for one type in one market
// context. Nil sides mean no order was observed.
type PriceQuote struct {
	TypeID    int64            `json:"type_id"`
	Context   MarketContext    `json:"context"`
	Buy       *decimal.Decimal `json:"buy"`
	Sell      *decimal.Decimal `json:"sell"`
	FetchedAt int64            `json:"fetched_at_ms"` // epoch millis
	Source    QuoteSource      `json:"source"`
	Meta      *QuoteMeta       `json:"meta,omitempty"`
}

// BuyOrZero returns the buy side, or zero when missing.
func (q PriceQuote) BuyOrZero() decimal.Decimal {
	if q.Buy == nil {
		return decimal.Zero
	}
	return *q.Buy
}

// SellOrZero returns the sell side, or zero when missing.
func (q PriceQuote) SellOrZero() decimal.Decimal {
	if q.Sell == nil {
		return decimal.Zero
	}
	return *q.Sell
}

// Side selects one side of the quote by cost basis.
func (q PriceQuote) Side(basis CostBasis) decimal.Decimal {
	if basis == CostBasisBuy {
		return q.BuyOrZero()
	}
	return q.SellOrZero()
}

// MockPrice is one row of the bundled fallback price table.
type MockPrice struct {
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}
