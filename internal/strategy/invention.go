package strategy

import (
	"context"

	"github.com/shopspring/decimal"

	"indyscope/internal/industry"
	"indyscope/internal/models"
	"indyscope/internal/resolver"
	"indyscope/internal/sde"
)

// InventionChain values copy → invent → manufacture of the second-tier
// product. Gated on invention data and a category allow-list unless the
// settings widen it.
type InventionChain struct {
	Calc *industry.Calculator
	Data *sde.Dataset
}

func (s *InventionChain) Name() string { return "invention_chain" }

func (s *InventionChain) Evaluate(ctx context.Context, item *resolver.ResolvedItem) (*models.Opportunity, error) {
	rec := item.Recipe
	inv := rec.Invention
	if inv == nil {
		return nil, nil
	}
	t2rec, ok := s.Data.RecipeByBlueprint(inv.ProductBlueprintID)
	if !ok || t2rec.Manufacturing == nil {
		return nil, nil
	}
	if !s.categoryAllowed(t2rec.Product.TypeID) {
		return nil, nil
	}

	settings := s.Calc.Settings
	prob := inv.Probability
	if prob <= 0 {
		prob = settings.InventionProbability
	}
	if prob <= 0 {
		return nil, nil
	}

	// Expected cost per invention success.
	bill := s.Calc.CostMaterials(ctx, inv.Materials, 1, 0)
	decryptor := decimal.NewFromFloat(settings.DecryptorCost)
	invJobFee := s.Calc.JobFee(bill.Total)
	attemptCost := bill.Total.Add(decryptor).Add(invJobFee)
	costPerSuccess := attemptCost.Div(decimal.NewFromFloat(prob))

	runs := item.Line.Runs
	core := manufactureCore(ctx, s.Calc, t2rec, runs, item.Line.MELevel, item.Line.TELevel)

	copySeconds := float64(0)
	if rec.Copying != nil {
		copySeconds = float64(rec.Copying.TimeSeconds)
	}
	inventionSeconds := float64(inv.TimeSeconds) / prob // expected attempts
	totalSeconds := copySeconds + inventionSeconds + core.TimeSeconds

	profit := core.Profit.Sub(costPerSuccess)
	capital := core.Capital().Add(costPerSuccess)
	revenue := core.Revenue

	warnings := append([]string(nil), bill.Warnings...)
	warnings = append(warnings, core.Warnings...)

	breakdown := core.Breakdown()
	breakdown.Invention = &models.InventionBreakdown{
		Materials:      bill.Lines,
		DecryptorCost:  decryptor,
		JobFee:         invJobFee,
		Probability:    prob,
		CostPerSuccess: costPerSuccess,
	}

	opp := &models.Opportunity{
		StrategyID:    s.Name(),
		Label:         "Invent & manufacture " + s.Data.TypeName(t2rec.Product.TypeID),
		ProductTypeID: t2rec.Product.TypeID,
		ProductName:   s.Data.TypeName(t2rec.Product.TypeID),
		Runs:          runs,
		TimeSeconds:   totalSeconds,
		Slots: models.SlotProfile{
			MfgHours:       core.TimeSeconds / 3600,
			CopyHours:      copySeconds / 3600,
			InventionHours: inventionSeconds / 3600,
		},
		Metrics:   buildMetrics(profit, revenue, capital, runs, totalSeconds, core.VolumeM3, core.Competition()),
		Breakdown: breakdown,
		Warnings:  warnings,
	}
	return opp, nil
}

func (s *InventionChain) categoryAllowed(productTypeID int64) bool {
	settings := s.Calc.Settings
	if settings.InventionAnyCategory {
		return true
	}
	t, ok := s.Data.TypeByID(productTypeID)
	if !ok {
		return false
	}
	for _, cat := range settings.InventionCategories {
		if t.CategoryID == cat {
			return true
		}
	}
	return false
}
