package strategy

import (
	"context"
	"math"

	"github.com/shopspring/decimal"

	"indyscope/internal/industry"
	"indyscope/internal/models"
	"indyscope/internal/resolver"
	"indyscope/internal/sde"
)

// ResearchFirst values researching the blueprint one step (+1 ME, +2 TE,
// clamped) before producing. Emitted only when the improvement nets
// positive inside the production horizon and the payback fits in it.
type ResearchFirst struct {
	Calc *industry.Calculator
	Data *sde.Dataset
}

func (s *ResearchFirst) Name() string { return "research_first" }

func (s *ResearchFirst) Evaluate(ctx context.Context, item *resolver.ResolvedItem) (*models.Opportunity, error) {
	rec := item.Recipe
	if rec.Manufacturing == nil {
		return nil, nil
	}
	if rec.ResearchMaterial == nil && rec.ResearchTime == nil {
		return nil, nil
	}

	me, te := item.Line.MELevel, item.Line.TELevel
	nextME := min(me+1, industry.MaxMELevel)
	nextTE := min(te+2, industry.MaxTELevel)
	if nextME == me && nextTE == te {
		return nil, nil // already maxed
	}

	current := manufactureCore(ctx, s.Calc, rec, 1, me, te)
	improved := manufactureCore(ctx, s.Calc, rec, 1, nextME, nextTE)
	gainPerRun := improved.Profit.Sub(current.Profit)
	if gainPerRun.LessThanOrEqual(decimal.Zero) {
		return nil, nil
	}

	var researchSeconds float64
	researchCost := decimal.Zero
	var warnings []string
	for _, act := range []*models.ResearchActivity{rec.ResearchMaterial, rec.ResearchTime} {
		if act == nil {
			continue
		}
		researchSeconds += float64(act.TimeSeconds)
		if len(act.Materials) > 0 {
			bill := s.Calc.CostMaterials(ctx, act.Materials, 1, 0)
			researchCost = researchCost.Add(bill.Total)
			warnings = append(warnings, bill.Warnings...)
		}
	}

	util := s.Calc.Settings.Slots.MfgUtilization
	horizonSeconds := s.Calc.Settings.ResearchHorizonDays * 86400 * util
	available := horizonSeconds - researchSeconds
	if available <= 0 || improved.TimeSeconds <= 0 {
		return nil, nil
	}
	expectedRuns := int64(math.Floor(available / improved.TimeSeconds))
	if expectedRuns < 1 {
		return nil, nil
	}

	netGain := gainPerRun.Mul(decimal.NewFromInt(expectedRuns)).Sub(researchCost)
	if netGain.LessThanOrEqual(decimal.Zero) {
		return nil, nil
	}

	// Payback: runs needed to recoup the research spend must fit in the
	// horizon alongside the research itself.
	paybackRuns := researchCost.Div(gainPerRun).Ceil().IntPart()
	if researchSeconds+float64(paybackRuns)*improved.TimeSeconds > horizonSeconds {
		return nil, nil
	}

	totalSeconds := researchSeconds + float64(expectedRuns)*improved.TimeSeconds
	revenue := improved.Revenue.Mul(decimal.NewFromInt(expectedRuns))
	capital := researchCost.Add(improved.Capital())
	volume := improved.VolumeM3 * float64(expectedRuns)

	warnings = append(warnings, improved.Warnings...)

	opp := &models.Opportunity{
		StrategyID:    s.Name(),
		Label:         "Research then manufacture " + s.Data.TypeName(rec.Product.TypeID),
		ProductTypeID: rec.Product.TypeID,
		ProductName:   s.Data.TypeName(rec.Product.TypeID),
		Runs:          expectedRuns,
		TimeSeconds:   totalSeconds,
		Slots: models.SlotProfile{
			MfgHours: float64(expectedRuns) * improved.TimeSeconds / 3600,
			// Research occupies the lab slot class.
			InventionHours: researchSeconds / 3600,
		},
		Metrics:   buildMetrics(netGain, revenue, capital, expectedRuns, totalSeconds, volume, improved.Competition()),
		Breakdown: improved.Breakdown(),
		Warnings:  warnings,
	}
	return opp, nil
}
