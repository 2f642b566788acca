package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"indyscope/internal/models"
	"indyscope/internal/pricing"
	"indyscope/internal/rank"
	"indyscope/internal/resolver"
	"indyscope/internal/sde"
	"indyscope/internal/strategy"
)

// LineResult is the per-line output: either a ranked opportunity set or
// a not-found reason. Lines fail independently; a batch never aborts.
type LineResult struct {
	Line     models.BuildOrderLine `json:"line"`
	NotFound string                `json:"not_found,omitempty"`
	Ranked   *rank.Result          `json:"ranked,omitempty"`
}

// Analyzer runs the full pipeline: parse → resolve → prefetch quotes →
// generate strategies → rank.
type Analyzer struct {
	Resolver *resolver.Resolver
	Oracle   *pricing.Oracle
	Data     *sde.Dataset
	Logger   *zap.Logger
}

// AnalyzeText values every line of a pasted build order under one
// immutable settings snapshot.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string, settings models.Settings, forceRefresh bool) []LineResult {
	lines := ParseBuildOrder(text)
	results := make([]LineResult, 0, len(lines))
	resolved, errs := a.Resolver.ResolveAll(lines)

	for i, line := range lines {
		if err := errs[i]; err != nil {
			var nf *resolver.NotFoundError
			reason := err.Error()
			if errors.As(err, &nf) {
				reason = nf.Reason
			}
			results = append(results, LineResult{Line: line, NotFound: reason})
			continue
		}
		results = append(results, LineResult{Line: line})
	}

	a.prefetch(ctx, resolved, settings, forceRefresh)

	gen := &strategy.Generator{Prices: a.Oracle, Data: a.Data, Logger: a.Logger}
	for i := range lines {
		item := resolved[i]
		if item == nil {
			continue
		}
		opps := gen.Generate(ctx, item, settings)
		ranked := rank.Rank(opps, settings)
		results[i].Ranked = &ranked
	}
	return results
}

// prefetch warms both market contexts for every type the batch touches,
// under the oracle's bounded pool, so generation prices from cache.
func (a *Analyzer) prefetch(ctx context.Context, items []*resolver.ResolvedItem, settings models.Settings, forceRefresh bool) {
	var ids []int64
	add := func(more ...models.ItemQuantity) {
		for _, m := range more {
			ids = append(ids, m.TypeID)
		}
	}
	for _, item := range items {
		if item == nil {
			continue
		}
		rec := item.Recipe
		ids = append(ids, rec.Product.TypeID)
		if rec.Manufacturing != nil {
			add(rec.Manufacturing.Materials...)
		}
		if rec.Invention != nil {
			add(rec.Invention.Materials...)
			if t2, ok := a.Data.RecipeByBlueprint(rec.Invention.ProductBlueprintID); ok {
				ids = append(ids, t2.Product.TypeID)
				if t2.Manufacturing != nil {
					add(t2.Manufacturing.Materials...)
				}
			}
		}
		for _, act := range []*models.ResearchActivity{rec.ResearchMaterial, rec.ResearchTime} {
			if act != nil {
				add(act.Materials...)
			}
		}
	}
	if len(ids) == 0 {
		return
	}
	// Inputs are priced locally with a destination fallback, so the sell
	// context is consulted even when selling locally. Warming both covers
	// every path.
	a.Oracle.Prefetch(ctx, ids, settings.Build, forceRefresh)
	if settings.Sell != settings.Build {
		a.Oracle.Prefetch(ctx, ids, settings.Sell, forceRefresh)
	}
}
