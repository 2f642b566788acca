package strategy

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"indyscope/internal/industry"
	"indyscope/internal/models"
	"indyscope/internal/resolver"
	"indyscope/internal/sde"
)

// Evaluator is one candidate production strategy. Evaluate returns
// (nil, nil) when the recipe lacks the activity the strategy needs.
type Evaluator interface {
	Name() string
	Evaluate(ctx context.Context, item *resolver.ResolvedItem) (*models.Opportunity, error)
}

// Generator runs every strategy for a resolved item under one settings
// snapshot. Output is deterministic: fixed evaluator order, Seq assigned
// in generation order, no wall-clock anywhere in the math.
type Generator struct {
	Prices industry.PriceSource
	Data   *sde.Dataset
	Logger *zap.Logger
}

// Generate builds the opportunity list for one resolved line.
func (g *Generator) Generate(ctx context.Context, item *resolver.ResolvedItem, settings models.Settings) []models.Opportunity {
	calc := &industry.Calculator{Prices: g.Prices, Data: g.Data, Settings: settings}
	evaluators := []Evaluator{
		&Manufacture{Calc: calc, Data: g.Data},
		&CopySell{Calc: calc, Data: g.Data},
		&ResearchFirst{Calc: calc, Data: g.Data},
		&InventionChain{Calc: calc, Data: g.Data},
	}

	opps := make([]models.Opportunity, 0, len(evaluators))
	for _, ev := range evaluators {
		opp, err := ev.Evaluate(ctx, item)
		if err != nil {
			if g.Logger != nil {
				g.Logger.Warn("strategy evaluate failed",
					zap.String("strategy", ev.Name()),
					zap.Int64("blueprint", item.BlueprintTypeID),
					zap.Error(err))
			}
			continue
		}
		if opp == nil {
			continue
		}
		opp.Seq = len(opps)
		opps = append(opps, *opp)
	}
	return opps
}

// buildMetrics derives the shared metric block. ProfitPerDay and
// Bottleneck stay zero here; the ranking engine owns them.
func buildMetrics(profit, revenue, capital decimal.Decimal, runs int64, timeSeconds, volumeM3, competition float64) models.Metrics {
	m := models.Metrics{
		CapitalRequired: capital,
		Competition:     competition,
		MarginPct:       models.MarginSentinel,
	}
	if runs > 0 {
		m.ProfitPerRun = profit.Div(decimal.NewFromInt(runs))
	} else {
		m.ProfitPerRun = profit
	}
	profitF, _ := profit.Float64()
	if timeSeconds > 0 {
		m.ProfitPerHour = profitF / (timeSeconds / 3600)
	}
	if volumeM3 > 0 {
		m.ProfitPerVolume = profitF / volumeM3
	}
	if !revenue.IsZero() {
		margin, _ := profit.Div(revenue).Float64()
		m.MarginPct = margin * 100
	}
	return m
}

func sourceWarning(label string, q models.PriceQuote) string {
	return label + " price degraded: source " + string(q.Source)
}
