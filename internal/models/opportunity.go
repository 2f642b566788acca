package models

import "github.com/shopspring/decimal"

// MaterialLine is one priced input line, with the market and source that
// actually supplied the price so degraded pricing stays visible.
type MaterialLine struct {
	TypeID    int64           `json:"type_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Market    string          `json:"market"` // "local" or "destination"
	Source    QuoteSource     `json:"source"`
}

// SlotProfile is the per-activity time footprint of one opportunity, in
// hours. Zero means the strategy does not touch that slot type.
type SlotProfile struct {
	MfgHours       float64 `json:"mfg_hours"`
	CopyHours      float64 `json:"copy_hours"`
	InventionHours float64 `json:"invention_hours"`
}

// Metrics: money-like absolutes stay decimal, ratios and throughput stay
// float64. ProfitPerDay and Bottleneck are filled by the ranking engine
// because they depend on slot settings.
type Metrics struct {
	ProfitPerRun    decimal.Decimal `json:"profit_per_run"`
	ProfitPerHour   float64         `json:"profit_per_hour"`
	ProfitPerDay    float64         `json:"profit_per_day"`
	ProfitPerVolume float64         `json:"profit_per_volume"`
	MarginPct       float64         `json:"margin_pct"`
	CapitalRequired decimal.Decimal `json:"capital_required"`
	Competition     float64         `json:"competition"`
}

// MarginSentinel keeps margin-based ranking total when revenue is zero.
const MarginSentinel = -100.0

// InventionBreakdown is the expected-cost-per-success accounting of the
// copy→invent→manufacture chain.
type InventionBreakdown struct {
	Materials      []MaterialLine  `json:"materials"`
	DecryptorCost  decimal.Decimal `json:"decryptor_cost"`
	JobFee         decimal.Decimal `json:"job_fee"`
	Probability    float64         `json:"probability"`
	CostPerSuccess decimal.Decimal `json:"cost_per_success"`
}

// Breakdown is the full cost/revenue ledger of one opportunity.
type Breakdown struct {
	MaterialLines []MaterialLine      `json:"material_lines"`
	JobFee        decimal.Decimal     `json:"job_fee"`
	Revenue       decimal.Decimal     `json:"revenue"`
	Hauling       decimal.Decimal     `json:"hauling"`
	RiskCost      decimal.Decimal     `json:"risk_cost"`
	ExpectedLoss  decimal.Decimal     `json:"expected_loss"`
	SellFees      decimal.Decimal     `json:"sell_fees"`
	Invention     *InventionBreakdown `json:"invention,omitempty"`
}

// Opportunity is one fully costed candidate strategy. Derived
// deterministically from recipe + quotes + settings; never persisted.
type Opportunity struct {
	Seq           int         `json:"seq"` // generation order, ranking tie-break
	StrategyID    string      `json:"strategy_id"`
	Label         string      `json:"label"`
	Estimate      bool        `json:"estimate"` // revenue is a heuristic, not a live-market figure
	ProductTypeID int64       `json:"product_type_id"`
	ProductName   string      `json:"product_name"`
	Runs          int64       `json:"runs"`
	TimeSeconds   float64     `json:"time_seconds"`
	Slots         SlotProfile `json:"slots"`
	Metrics       Metrics     `json:"metrics"`
	Breakdown     Breakdown   `json:"breakdown"`
	Warnings      []string    `json:"warnings,omitempty"`

	// Filled by the ranking engine.
	Score         float64  `json:"score"`
	Bottleneck    string   `json:"bottleneck,omitempty"`
	PassesFilters bool     `json:"passes_filters"`
	FilterReasons []string `json:"filter_reasons,omitempty"`
}
