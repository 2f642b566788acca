package models

// CostBasis selects which side of a quote prices the inputs.
type CostBasis string

const (
	CostBasisBuy  CostBasis = "buy"
	CostBasisSell CostBasis = "sell"
)

// RankMode selects the scoring function of the ranking engine.
type RankMode string

const (
	RankProfitPerRun    RankMode = "profit_run"
	RankProfitPerVolume RankMode = "profit_volume"
	RankMarginPct       RankMode = "margin"
	RankProfitPerDay    RankMode = "profit_day"
)

// SlotSettings describe the parallel production resources available.
type SlotSettings struct {
	MfgSlots             int     `json:"mfg_slots" mapstructure:"mfg_slots"`
	CopySlots            int     `json:"copy_slots" mapstructure:"copy_slots"`
	InventionSlots       int     `json:"invention_slots" mapstructure:"invention_slots"`
	MfgUtilization       float64 `json:"mfg_utilization" mapstructure:"mfg_utilization"`
	CopyUtilization      float64 `json:"copy_utilization" mapstructure:"copy_utilization"`
	InventionUtilization float64 `json:"invention_utilization" mapstructure:"invention_utilization"`
}

// FilterSettings are pass/fail thresholds, independent of ranking.
// Zero-valued ceilings disable the corresponding filter.
type FilterSettings struct {
	MinMarginPct    float64 `json:"min_margin_pct" mapstructure:"min_margin_pct"`
	MinProfitPerRun float64 `json:"min_profit_per_run" mapstructure:"min_profit_per_run"`
	CapitalCeiling  float64 `json:"capital_ceiling" mapstructure:"capital_ceiling"`
	MaxCompetition  float64 `json:"max_competition" mapstructure:"max_competition"`
}

// Settings is the immutable per-analysis snapshot of user policy.
type Settings struct {
	Build       MarketContext `json:"build" mapstructure:"build"`
	Sell        MarketContext `json:"sell" mapstructure:"sell"`
	SellLocally bool          `json:"sell_locally" mapstructure:"sell_locally"`

	CostBasis          CostBasis `json:"cost_basis" mapstructure:"cost_basis"`
	Reprocessing       bool      `json:"reprocessing" mapstructure:"reprocessing"`
	ReprocessingMarket string    `json:"reprocessing_market" mapstructure:"reprocessing_market"` // "local" or "destination"

	JobFeePct    float64 `json:"job_fee_pct" mapstructure:"job_fee_pct"`
	CostIndex    float64 `json:"cost_index" mapstructure:"cost_index"`
	BrokerFeePct float64 `json:"broker_fee_pct" mapstructure:"broker_fee_pct"`
	SalesTaxPct  float64 `json:"sales_tax_pct" mapstructure:"sales_tax_pct"`

	HaulingPerM3     float64 `json:"hauling_per_m3" mapstructure:"hauling_per_m3"`
	RiskPct          float64 `json:"risk_pct" mapstructure:"risk_pct"`
	ExpectedLossPct  float64 `json:"expected_loss_pct" mapstructure:"expected_loss_pct"`
	MaxShipmentM3    float64 `json:"max_shipment_m3" mapstructure:"max_shipment_m3"`
	CopySellFraction float64 `json:"copy_sell_fraction" mapstructure:"copy_sell_fraction"`

	InventionProbability float64 `json:"invention_probability" mapstructure:"invention_probability"`
	DecryptorCost        float64 `json:"decryptor_cost" mapstructure:"decryptor_cost"`
	InventionAnyCategory bool    `json:"invention_any_category" mapstructure:"invention_any_category"`
	InventionCategories  []int64 `json:"invention_categories" mapstructure:"invention_categories"`
	ResearchHorizonDays  float64 `json:"research_horizon_days" mapstructure:"research_horizon_days"`

	Slots   SlotSettings   `json:"slots" mapstructure:"slots"`
	Filters FilterSettings `json:"filters" mapstructure:"filters"`

	RankMode RankMode `json:"rank_mode" mapstructure:"rank_mode"`
}

// Trade hub defaults: The Forge / Jita / Jita IV - Moon 4 CNAP.
const (
	DefaultHubRegionID  = 10000002
	DefaultHubSystemID  = 30000142
	DefaultHubStationID = 60003760
)

// DefaultSettings returns the baseline policy snapshot. Callers copy and
// override; the engine never mutates a Settings value.
func DefaultSettings() Settings {
	return Settings{
		Build:                MarketContext{RegionID: DefaultHubRegionID},
		Sell:                 MarketContext{RegionID: DefaultHubRegionID, SystemID: DefaultHubSystemID, StationID: DefaultHubStationID},
		CostBasis:            CostBasisSell,
		ReprocessingMarket:   "local",
		JobFeePct:            2.0,
		CostIndex:            1.0,
		BrokerFeePct:         1.5,
		SalesTaxPct:          4.5,
		HaulingPerM3:         350,
		RiskPct:              5.0,
		ExpectedLossPct:      2.0,
		CopySellFraction:     0.05,
		InventionProbability: 0.34,
		InventionCategories:  []int64{7, 8, 18}, // module, charge, drone
		ResearchHorizonDays:  30,
		Slots: SlotSettings{
			MfgSlots:             1,
			CopySlots:            1,
			InventionSlots:       1,
			MfgUtilization:       0.9,
			CopyUtilization:      0.9,
			InventionUtilization: 0.9,
		},
		RankMode: RankProfitPerDay,
	}
}
