package strategy

import (
	"context"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"indyscope/internal/models"
	"indyscope/internal/resolver"
	"indyscope/internal/sde"
)

// fixedPrices serves the same quote in every market context.
type fixedPrices struct {
	quotes map[int64]models.PriceQuote
}

func (f fixedPrices) Quote(_ context.Context, typeID int64, mctx models.MarketContext, _ bool) models.PriceQuote {
	if q, ok := f.quotes[typeID]; ok {
		q.TypeID = typeID
		q.Context = mctx
		return q
	}
	return models.PriceQuote{TypeID: typeID, Context: mctx, Source: models.QuoteSourceMissing}
}

func quote(buy, sell float64, source models.QuoteSource) models.PriceQuote {
	q := models.PriceQuote{Source: source}
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

func strategyDataset(t *testing.T) *sde.Dataset {
	t.Helper()
	types := map[int64]models.TypeRecord{
		34:  {TypeID: 34, Name: "Tritanium", PackagedVolume: 0.01, GroupID: 18, CategoryID: 4},
		603: {TypeID: 603, Name: "Hobgoblin I", PackagedVolume: 5, GroupID: 100, CategoryID: 18},
		604: {TypeID: 604, Name: "Hobgoblin I Blueprint", PackagedVolume: 0.01, GroupID: 101, CategoryID: 9},
		605: {TypeID: 605, Name: "Hobgoblin II", PackagedVolume: 5, GroupID: 100, CategoryID: 18},
		606: {TypeID: 606, Name: "Hobgoblin II Blueprint", PackagedVolume: 0.01, GroupID: 101, CategoryID: 9},
	}
	recipes := []models.RecipeRecord{
		{
			BlueprintTypeID: 604,
			Product:         models.ItemQuantity{TypeID: 603, Quantity: 1},
			Manufacturing: &models.ManufacturingActivity{
				TimeSeconds: 3600,
				Materials:   []models.ItemQuantity{{TypeID: 34, Quantity: 100}},
			},
			Copying:          &models.CopyingActivity{TimeSeconds: 1800},
			Invention:        &models.InventionActivity{TimeSeconds: 3000, Materials: []models.ItemQuantity{{TypeID: 34, Quantity: 10}}, ProductBlueprintID: 606, Probability: 0.34},
			ResearchMaterial: &models.ResearchActivity{TimeSeconds: 1000},
			ResearchTime:     &models.ResearchActivity{TimeSeconds: 1000},
			MaxRuns:          10,
		},
		{
			BlueprintTypeID: 606,
			Product:         models.ItemQuantity{TypeID: 605, Quantity: 1},
			Manufacturing: &models.ManufacturingActivity{
				TimeSeconds: 7200,
				Materials:   []models.ItemQuantity{{TypeID: 34, Quantity: 200}},
			},
		},
	}
	d, err := sde.New(types, nil, recipes, nil, 9)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	return d
}

func strategyPrices() fixedPrices {
	return fixedPrices{quotes: map[int64]models.PriceQuote{
		34:  quote(9, 10, models.QuoteSourceLive),
		603: quote(4500, 5000, models.QuoteSourceLive),
		605: quote(11000, 12000, models.QuoteSourceLive),
	}}
}

func resolvedItem(t *testing.T, d *sde.Dataset, blueprintID int64, line models.BuildOrderLine) *resolver.ResolvedItem {
	t.Helper()
	rec, ok := d.RecipeByBlueprint(blueprintID)
	if !ok {
		t.Fatalf("blueprint %d missing", blueprintID)
	}
	return &resolver.ResolvedItem{
		Line:            line,
		BlueprintTypeID: rec.BlueprintTypeID,
		ProductTypeID:   rec.Product.TypeID,
		Recipe:          rec,
	}
}

func findStrategy(opps []models.Opportunity, id string) *models.Opportunity {
	for i := range opps {
		if opps[i].StrategyID == id {
			return &opps[i]
		}
	}
	return nil
}

func TestGenerateAllStrategies(t *testing.T) {
	d := strategyDataset(t)
	gen := &Generator{Prices: strategyPrices(), Data: d}
	item := resolvedItem(t, d, 604, models.BuildOrderLine{Runs: 1})

	opps := gen.Generate(context.Background(), item, models.DefaultSettings())
	if len(opps) != 4 {
		t.Fatalf("got %d opportunities, want all 4 strategies", len(opps))
	}
	for i, opp := range opps {
		if opp.Seq != i {
			t.Fatalf("seq %d at position %d", opp.Seq, i)
		}
	}
	wantOrder := []string{"manufacture", "copy_sell", "research_first", "invention_chain"}
	for i, id := range wantOrder {
		if opps[i].StrategyID != id {
			t.Fatalf("position %d = %s, want %s", i, opps[i].StrategyID, id)
		}
	}
}

func TestManufactureLedger(t *testing.T) {
	d := strategyDataset(t)
	gen := &Generator{Prices: strategyPrices(), Data: d}
	item := resolvedItem(t, d, 604, models.BuildOrderLine{Runs: 1})

	opps := gen.Generate(context.Background(), item, models.DefaultSettings())
	opp := findStrategy(opps, "manufacture")
	if opp == nil {
		t.Fatalf("manufacture opportunity missing")
	}

	// 100 Tritanium at sell 10 = 1000 materials; 2% job fee = 20; 5 m3 at
	// 350/m3 = 1750 hauling, 5% risk = 87.5, 2% loss = 35; revenue 5000,
	// 6% sell fees = 300. Profit = 5000 - 3192.5 = 1807.5.
	if !opp.Metrics.ProfitPerRun.Equal(decimal.NewFromFloat(1807.5)) {
		t.Fatalf("profit/run = %s, want 1807.5", opp.Metrics.ProfitPerRun)
	}
	if !opp.Metrics.CapitalRequired.Equal(decimal.NewFromFloat(2892.5)) {
		t.Fatalf("capital = %s, want 2892.5", opp.Metrics.CapitalRequired)
	}
	if opp.TimeSeconds != 3600 {
		t.Fatalf("time = %v", opp.TimeSeconds)
	}
	if opp.Slots.MfgHours != 1 || opp.Slots.CopyHours != 0 || opp.Slots.InventionHours != 0 {
		t.Fatalf("slots = %+v", opp.Slots)
	}
	if opp.Estimate {
		t.Fatalf("manufacture should not be flagged as estimate")
	}
	if len(opp.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", opp.Warnings)
	}
}

func TestManufactureDegradedSourceWarns(t *testing.T) {
	d := strategyDataset(t)
	prices := strategyPrices()
	prices.quotes[603] = quote(4500, 5000, models.QuoteSourceMock)
	gen := &Generator{Prices: prices, Data: d}
	item := resolvedItem(t, d, 604, models.BuildOrderLine{Runs: 1})

	opps := gen.Generate(context.Background(), item, models.DefaultSettings())
	opp := findStrategy(opps, "manufacture")
	if opp == nil || len(opp.Warnings) == 0 {
		t.Fatalf("degraded sell source should warn: %+v", opp)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	d := strategyDataset(t)
	gen := &Generator{Prices: strategyPrices(), Data: d}
	item := resolvedItem(t, d, 604, models.BuildOrderLine{Runs: 2, MELevel: 3, TELevel: 6})
	settings := models.DefaultSettings()

	first := gen.Generate(context.Background(), item, settings)
	second := gen.Generate(context.Background(), item, settings)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different outputs")
	}
}

func TestCopySellEstimate(t *testing.T) {
	d := strategyDataset(t)
	gen := &Generator{Prices: strategyPrices(), Data: d}
	item := resolvedItem(t, d, 604, models.BuildOrderLine{Runs: 1})

	opps := gen.Generate(context.Background(), item, models.DefaultSettings())
	opp := findStrategy(opps, "copy_sell")
	if opp == nil {
		t.Fatalf("copy_sell opportunity missing")
	}
	if !opp.Estimate {
		t.Fatalf("copy revenue must be flagged as an estimate")
	}
	// 5000 x qty 1 x 10 max runs x 0.05 fraction = 2500 per copy.
	if !opp.Breakdown.Revenue.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("copy revenue = %s, want 2500", opp.Breakdown.Revenue)
	}
	if opp.Slots.CopyHours != 0.5 || opp.Slots.MfgHours != 0 {
		t.Fatalf("slots = %+v", opp.Slots)
	}
}

func TestCopySellGatedOnActivity(t *testing.T) {
	d := strategyDataset(t)
	gen := &Generator{Prices: strategyPrices(), Data: d}
	// The tier-two blueprint has no copying or invention data.
	item := resolvedItem(t, d, 606, models.BuildOrderLine{Runs: 1})

	opps := gen.Generate(context.Background(), item, models.DefaultSettings())
	if findStrategy(opps, "copy_sell") != nil {
		t.Fatalf("copy_sell emitted without a copying activity")
	}
	if findStrategy(opps, "invention_chain") != nil {
		t.Fatalf("invention_chain emitted without invention data")
	}
	if findStrategy(opps, "research_first") != nil {
		t.Fatalf("research_first emitted without research activities")
	}
	if findStrategy(opps, "manufacture") == nil {
		t.Fatalf("manufacture should still be emitted")
	}
}

func TestResearchFirstSkipsMaxedBlueprint(t *testing.T) {
	d := strategyDataset(t)
	gen := &Generator{Prices: strategyPrices(), Data: d}
	item := resolvedItem(t, d, 604, models.BuildOrderLine{Runs: 1, MELevel: 10, TELevel: 20})

	opps := gen.Generate(context.Background(), item, models.DefaultSettings())
	if findStrategy(opps, "research_first") != nil {
		t.Fatalf("research_first emitted for a fully researched blueprint")
	}
}

func TestResearchFirstUsesLabSlot(t *testing.T) {
	d := strategyDataset(t)
	gen := &Generator{Prices: strategyPrices(), Data: d}
	item := resolvedItem(t, d, 604, models.BuildOrderLine{Runs: 1})

	opps := gen.Generate(context.Background(), item, models.DefaultSettings())
	opp := findStrategy(opps, "research_first")
	if opp == nil {
		t.Fatalf("research_first missing; an ME0 blueprint with a material gain should qualify")
	}
	if opp.Slots.InventionHours <= 0 {
		t.Fatalf("research time should occupy the lab slot class: %+v", opp.Slots)
	}
	if opp.Runs < 1 {
		t.Fatalf("expected at least one production run in the horizon")
	}
	if opp.Metrics.ProfitPerRun.LessThanOrEqual(decimal.Zero) {
		t.Fatalf("research_first emitted with non-positive net gain per run")
	}
}

func TestInventionChainLedger(t *testing.T) {
	d := strategyDataset(t)
	gen := &Generator{Prices: strategyPrices(), Data: d}
	item := resolvedItem(t, d, 604, models.BuildOrderLine{Runs: 1})

	opps := gen.Generate(context.Background(), item, models.DefaultSettings())
	opp := findStrategy(opps, "invention_chain")
	if opp == nil {
		t.Fatalf("invention_chain missing")
	}
	if opp.ProductTypeID != 605 {
		t.Fatalf("invention product = %d, want the tier-two 605", opp.ProductTypeID)
	}
	inv := opp.Breakdown.Invention
	if inv == nil {
		t.Fatalf("invention breakdown missing")
	}
	if inv.Probability != 0.34 {
		t.Fatalf("probability = %v", inv.Probability)
	}
	// 10 Tritanium at 10 = 100 materials + 2% job fee = 102 per attempt;
	// expected cost per success = 102 / 0.34 = 300.
	if !inv.CostPerSuccess.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("cost per success = %s, want 300", inv.CostPerSuccess)
	}
	if opp.Slots.MfgHours <= 0 || opp.Slots.CopyHours <= 0 || opp.Slots.InventionHours <= 0 {
		t.Fatalf("invention chain should use all three slot classes: %+v", opp.Slots)
	}
}

func TestInventionChainCategoryGate(t *testing.T) {
	d := strategyDataset(t)
	gen := &Generator{Prices: strategyPrices(), Data: d}
	item := resolvedItem(t, d, 604, models.BuildOrderLine{Runs: 1})

	settings := models.DefaultSettings()
	settings.InventionCategories = []int64{6} // ships only; 605 is a drone
	opps := gen.Generate(context.Background(), item, settings)
	if findStrategy(opps, "invention_chain") != nil {
		t.Fatalf("invention_chain emitted outside the category allow-list")
	}

	settings.InventionAnyCategory = true
	opps = gen.Generate(context.Background(), item, settings)
	if findStrategy(opps, "invention_chain") == nil {
		t.Fatalf("any-category override should re-enable invention")
	}
}
