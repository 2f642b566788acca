package strategy

import (
	"context"

	"github.com/shopspring/decimal"

	"indyscope/internal/industry"
	"indyscope/internal/models"
	"indyscope/internal/resolver"
	"indyscope/internal/sde"
)

// Manufacture is the baseline strategy: build the product and sell it.
type Manufacture struct {
	Calc *industry.Calculator
	Data *sde.Dataset
}

func (s *Manufacture) Name() string { return "manufacture" }

func (s *Manufacture) Evaluate(ctx context.Context, item *resolver.ResolvedItem) (*models.Opportunity, error) {
	rec := item.Recipe
	if rec.Manufacturing == nil {
		return nil, nil
	}
	core := manufactureCore(ctx, s.Calc, rec, item.Line.Runs, item.Line.MELevel, item.Line.TELevel)

	opp := &models.Opportunity{
		StrategyID:    s.Name(),
		Label:         "Manufacture " + s.Data.TypeName(rec.Product.TypeID),
		ProductTypeID: rec.Product.TypeID,
		ProductName:   s.Data.TypeName(rec.Product.TypeID),
		Runs:          item.Line.Runs,
		TimeSeconds:   core.TimeSeconds,
		Slots:         models.SlotProfile{MfgHours: core.TimeSeconds / 3600},
		Metrics: buildMetrics(core.Profit, core.Revenue, core.Capital(),
			item.Line.Runs, core.TimeSeconds, core.VolumeM3, core.Competition()),
		Breakdown: core.Breakdown(),
		Warnings:  core.Warnings,
	}
	return opp, nil
}

// mfgCore is the shared manufacture arithmetic; research and invention
// reuse it instead of re-deriving the ledger.
type mfgCore struct {
	Materials   industry.MaterialCost
	JobFee      decimal.Decimal
	Revenue     decimal.Decimal
	SellQuote   models.PriceQuote
	Hauling     decimal.Decimal
	Risk        decimal.Decimal
	Loss        decimal.Decimal
	SellFees    decimal.Decimal
	Profit      decimal.Decimal
	TimeSeconds float64
	OutputUnits int64
	VolumeM3    float64
	Warnings    []string
}

func manufactureCore(ctx context.Context, calc *industry.Calculator, rec models.RecipeRecord, runs int64, me, te int) mfgCore {
	mfg := rec.Manufacturing
	core := mfgCore{
		Materials:   calc.CostMaterials(ctx, mfg.Materials, runs, me),
		TimeSeconds: industry.AdjustedTime(mfg.TimeSeconds, runs, te),
		OutputUnits: rec.Product.Quantity * runs,
	}
	core.Warnings = append(core.Warnings, core.Materials.Warnings...)
	core.JobFee = calc.JobFee(core.Materials.Total)

	unitPrice, quote := calc.SellPrice(ctx, rec.Product.TypeID)
	core.SellQuote = quote
	core.Revenue = unitPrice.Mul(decimal.NewFromInt(core.OutputUnits))
	if quote.Source != models.QuoteSourceLive {
		core.Warnings = append(core.Warnings, sourceWarning("sell", quote))
	}
	if core.Revenue.IsZero() {
		core.Warnings = append(core.Warnings, "no sell price observed; revenue treated as zero")
	}

	core.VolumeM3 = calc.ShippedVolume(rec.Product.TypeID, core.OutputUnits)
	core.Hauling, core.Risk, core.Loss = calc.ShippingCost(core.VolumeM3)
	core.SellFees = calc.SellFees(core.Revenue)

	cost := core.Materials.Total.
		Add(core.JobFee).
		Add(core.Hauling).
		Add(core.Risk).
		Add(core.Loss).
		Add(core.SellFees)
	core.Profit = core.Revenue.Sub(cost)
	return core
}

// Capital is the up-front cash outlay: everything paid before revenue,
// excluding fees netted out of the sale itself.
func (c mfgCore) Capital() decimal.Decimal {
	return c.Materials.Total.Add(c.JobFee).Add(c.Hauling).Add(c.Risk).Add(c.Loss)
}

func (c mfgCore) Competition() float64 {
	if c.SellQuote.Meta == nil {
		return 0
	}
	return c.SellQuote.Meta.Competition
}

func (c mfgCore) Breakdown() models.Breakdown {
	return models.Breakdown{
		MaterialLines: c.Materials.Lines,
		JobFee:        c.JobFee,
		Revenue:       c.Revenue,
		Hauling:       c.Hauling,
		RiskCost:      c.Risk,
		ExpectedLoss:  c.Loss,
		SellFees:      c.SellFees,
	}
}
