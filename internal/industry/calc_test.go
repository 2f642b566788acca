package industry

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"indyscope/internal/models"
	"indyscope/internal/sde"
)

func TestAdjustedQuantity(t *testing.T) {
	cases := []struct {
		name string
		qty  int64
		runs int64
		me   int
		want int64
	}{
		{"me0 is exact", 100, 1, 0, 100},
		{"me5 saves five percent", 100, 1, 5, 95},
		{"me10 saves ten percent", 100, 1, 10, 90},
		{"fractional waste rounds up", 3, 1, 5, 3},
		{"multi-run scales before rounding", 100, 10, 10, 900},
		{"floor at one unit per run", 1, 10, 10, 10},
		{"negative me clamps to zero", 100, 1, -3, 100},
		{"me above cap clamps to ten", 100, 1, 99, 90},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AdjustedQuantity(tc.qty, tc.runs, tc.me); got != tc.want {
				t.Fatalf("AdjustedQuantity(%d, %d, %d) = %d, want %d", tc.qty, tc.runs, tc.me, got, tc.want)
			}
		})
	}
}

func TestAdjustedQuantityMonotonic(t *testing.T) {
	prev := AdjustedQuantity(100, 1, 0)
	for me := 1; me <= MaxMELevel; me++ {
		cur := AdjustedQuantity(100, 1, me)
		if cur > prev {
			t.Fatalf("quantity rose from %d to %d at me%d", prev, cur, me)
		}
		prev = cur
	}
	if AdjustedQuantity(100, 1, MaxMELevel) >= AdjustedQuantity(100, 1, 0) {
		t.Fatalf("max ME should strictly reduce a 100-unit bill")
	}
}

func TestAdjustedTime(t *testing.T) {
	cases := []struct {
		name string
		base int64
		runs int64
		te   int
		want float64
	}{
		{"te0 is exact", 3600, 1, 0, 3600},
		{"te20 saves twenty percent", 3600, 1, 20, 2880},
		{"runs scale linearly", 3600, 3, 0, 10800},
		{"te above cap clamps", 3600, 1, 50, 2880},
		{"negative te clamps", 3600, 1, -1, 3600},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AdjustedTime(tc.base, tc.runs, tc.te); got != tc.want {
				t.Fatalf("AdjustedTime(%d, %d, %d) = %v, want %v", tc.base, tc.runs, tc.te, got, tc.want)
			}
		})
	}
}

// stubPrices serves fixed quotes keyed by (region, type).
type stubPrices struct {
	quotes map[int64]map[int64]models.PriceQuote
}

func (s stubPrices) Quote(_ context.Context, typeID int64, mctx models.MarketContext, _ bool) models.PriceQuote {
	if q, ok := s.quotes[mctx.RegionID][typeID]; ok {
		q.TypeID = typeID
		q.Context = mctx
		return q
	}
	return models.PriceQuote{TypeID: typeID, Context: mctx, Source: models.QuoteSourceMissing}
}

func quote(buy, sell float64) models.PriceQuote {
	q := models.PriceQuote{Source: models.QuoteSourceLive}
	if buy > 0 {
		b := decimal.NewFromFloat(buy)
		q.Buy = &b
	}
	if sell > 0 {
		s := decimal.NewFromFloat(sell)
		q.Sell = &s
	}
	return q
}

func calcDataset(t *testing.T) *sde.Dataset {
	t.Helper()
	types := map[int64]models.TypeRecord{
		34:  {TypeID: 34, Name: "Tritanium", PackagedVolume: 0.01, GroupID: MineralGroupID, CategoryID: 4},
		44:  {TypeID: 44, Name: "Construction Blocks", PackagedVolume: 1.5, GroupID: 334, CategoryID: 4},
		603: {TypeID: 603, Name: "Hobgoblin I", PackagedVolume: 5, GroupID: 100, CategoryID: 18},
	}
	d, err := sde.New(types, nil, nil, nil, 9)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	return d
}

func calcSettings() models.Settings {
	s := models.DefaultSettings()
	s.Build = models.MarketContext{RegionID: 1}
	s.Sell = models.MarketContext{RegionID: 2}
	return s
}

func newCalc(t *testing.T, prices stubPrices, settings models.Settings) *Calculator {
	t.Helper()
	return &Calculator{Prices: prices, Data: calcDataset(t), Settings: settings}
}

func TestCostMaterialsLocalBasis(t *testing.T) {
	prices := stubPrices{quotes: map[int64]map[int64]models.PriceQuote{
		1: {34: quote(9, 10)},
	}}
	c := newCalc(t, prices, calcSettings())

	out := c.CostMaterials(context.Background(), []models.ItemQuantity{{TypeID: 34, Quantity: 100}}, 1, 0)
	if !out.Total.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("total = %s, want 1000 (100 units at sell 10)", out.Total)
	}
	if len(out.Lines) != 1 || out.Lines[0].Market != "local" {
		t.Fatalf("lines = %+v", out.Lines)
	}
	if len(out.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", out.Warnings)
	}
}

func TestCostMaterialsDestinationFallback(t *testing.T) {
	prices := stubPrices{quotes: map[int64]map[int64]models.PriceQuote{
		2: {34: quote(9, 12)},
	}}
	c := newCalc(t, prices, calcSettings())

	out := c.CostMaterials(context.Background(), []models.ItemQuantity{{TypeID: 34, Quantity: 10}}, 1, 0)
	if !out.Total.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("total = %s, want 120 from the destination market", out.Total)
	}
	if out.Lines[0].Market != "destination" {
		t.Fatalf("market = %q, want destination", out.Lines[0].Market)
	}
}

func TestCostMaterialsUnpricedWarns(t *testing.T) {
	c := newCalc(t, stubPrices{}, calcSettings())

	out := c.CostMaterials(context.Background(), []models.ItemQuantity{{TypeID: 34, Quantity: 10}}, 1, 0)
	if !out.Total.IsZero() {
		t.Fatalf("total = %s, want zero", out.Total)
	}
	if len(out.Warnings) != 1 {
		t.Fatalf("warnings = %v, want one zero-price warning", out.Warnings)
	}
}

func TestCostMaterialsReprocessingUsesBuySide(t *testing.T) {
	prices := stubPrices{quotes: map[int64]map[int64]models.PriceQuote{
		1: {
			34: quote(9, 10),
			44: quote(50, 60),
		},
	}}
	settings := calcSettings()
	settings.Reprocessing = true
	c := newCalc(t, prices, settings)

	out := c.CostMaterials(context.Background(), []models.ItemQuantity{
		{TypeID: 34, Quantity: 10}, // mineral: buy-side opportunity cost
		{TypeID: 44, Quantity: 1},  // not a mineral: normal basis
	}, 1, 0)

	if !out.Lines[0].UnitPrice.Equal(decimal.NewFromInt(9)) {
		t.Fatalf("mineral unit price = %s, want buy-side 9", out.Lines[0].UnitPrice)
	}
	if !out.Lines[1].UnitPrice.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("non-mineral unit price = %s, want sell-side 60", out.Lines[1].UnitPrice)
	}
}

func TestJobFee(t *testing.T) {
	settings := calcSettings()
	settings.JobFeePct = 2
	settings.CostIndex = 1.5
	c := newCalc(t, stubPrices{}, settings)

	fee := c.JobFee(decimal.NewFromInt(1000))
	if !fee.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("job fee = %s, want 30 (2%% x 1.5 index)", fee)
	}
}

func TestSellFees(t *testing.T) {
	settings := calcSettings()
	settings.BrokerFeePct = 1.5
	settings.SalesTaxPct = 4.5
	c := newCalc(t, stubPrices{}, settings)

	fees := c.SellFees(decimal.NewFromInt(5000))
	if !fees.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("sell fees = %s, want 300", fees)
	}
}

func TestShippingCost(t *testing.T) {
	settings := calcSettings()
	settings.HaulingPerM3 = 350
	settings.RiskPct = 5
	settings.ExpectedLossPct = 2
	c := newCalc(t, stubPrices{}, settings)

	hauling, risk, loss := c.ShippingCost(10)
	if !hauling.Equal(decimal.NewFromInt(3500)) {
		t.Fatalf("hauling = %s, want 3500", hauling)
	}
	if !risk.Equal(decimal.NewFromInt(175)) {
		t.Fatalf("risk = %s, want 175", risk)
	}
	if !loss.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("loss = %s, want 70", loss)
	}
}

func TestShippingCostSellLocally(t *testing.T) {
	settings := calcSettings()
	settings.SellLocally = true
	c := newCalc(t, stubPrices{}, settings)

	hauling, risk, loss := c.ShippingCost(10)
	if !hauling.IsZero() || !risk.IsZero() || !loss.IsZero() {
		t.Fatalf("selling locally must zero all shipping costs: %s %s %s", hauling, risk, loss)
	}
}

func TestShippedVolume(t *testing.T) {
	c := newCalc(t, stubPrices{}, calcSettings())
	if got := c.ShippedVolume(603, 4); got != 20 {
		t.Fatalf("volume = %v, want 20", got)
	}
	if got := c.ShippedVolume(424242, 4); got != 0 {
		t.Fatalf("unknown type volume = %v, want 0", got)
	}
}

func TestSellPriceContext(t *testing.T) {
	prices := stubPrices{quotes: map[int64]map[int64]models.PriceQuote{
		1: {603: quote(0, 4000)},
		2: {603: quote(0, 5000)},
	}}

	c := newCalc(t, prices, calcSettings())
	price, _ := c.SellPrice(context.Background(), 603)
	if !price.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("destination sell = %s, want 5000", price)
	}

	local := calcSettings()
	local.SellLocally = true
	c = newCalc(t, prices, local)
	price, _ = c.SellPrice(context.Background(), 603)
	if !price.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("local sell = %s, want 4000", price)
	}
}
