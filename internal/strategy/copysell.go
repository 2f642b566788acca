package strategy

import (
	"context"

	"github.com/shopspring/decimal"

	"indyscope/internal/industry"
	"indyscope/internal/models"
	"indyscope/internal/resolver"
	"indyscope/internal/sde"
)

// defaultCopyRuns stands in when the dataset does not carry a max-run
// count for the blueprint.
const defaultCopyRuns = 10

// CopySell values selling blueprint copies. There is no live market for
// copies, so revenue is a configured fraction of the max-run output
// value and the result is flagged as an estimate throughout.
type CopySell struct {
	Calc *industry.Calculator
	Data *sde.Dataset
}

func (s *CopySell) Name() string { return "copy_sell" }

func (s *CopySell) Evaluate(ctx context.Context, item *resolver.ResolvedItem) (*models.Opportunity, error) {
	rec := item.Recipe
	if rec.Copying == nil {
		return nil, nil
	}

	maxRuns := rec.MaxRuns
	if maxRuns <= 0 {
		maxRuns = defaultCopyRuns
	}
	runs := item.Line.Runs // one copy per run
	copySeconds := float64(rec.Copying.TimeSeconds * runs)

	unitPrice, quote := s.Calc.SellPrice(ctx, rec.Product.TypeID)
	outputValue := unitPrice.
		Mul(decimal.NewFromInt(rec.Product.Quantity)).
		Mul(decimal.NewFromInt(maxRuns))
	fraction := decimal.NewFromFloat(s.Calc.Settings.CopySellFraction)
	revenue := outputValue.Mul(fraction).Mul(decimal.NewFromInt(runs))

	sellFees := s.Calc.SellFees(revenue)
	profit := revenue.Sub(sellFees)

	warnings := []string{"copy revenue is a heuristic estimate (no live market for blueprint copies)"}
	if quote.Source != models.QuoteSourceLive {
		warnings = append(warnings, sourceWarning("output", quote))
	}

	opp := &models.Opportunity{
		StrategyID:    s.Name(),
		Label:         "Copy & sell " + s.Data.TypeName(rec.BlueprintTypeID),
		Estimate:      true,
		ProductTypeID: rec.Product.TypeID,
		ProductName:   s.Data.TypeName(rec.Product.TypeID),
		Runs:          runs,
		TimeSeconds:   copySeconds,
		Slots:         models.SlotProfile{CopyHours: copySeconds / 3600},
		Metrics:       buildMetrics(profit, revenue, decimal.Zero, runs, copySeconds, 0, 0),
		Breakdown: models.Breakdown{
			Revenue:  revenue,
			SellFees: sellFees,
		},
		Warnings: warnings,
	}
	return opp, nil
}
