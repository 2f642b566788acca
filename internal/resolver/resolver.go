package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"indyscope/internal/models"
	"indyscope/internal/sde"
)

// NotFoundError is the typed per-line failure. It never aborts a batch;
// callers surface Reason and move on.
type NotFoundError struct {
	Query  string
	Reason string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%q: %s", e.Query, e.Reason)
}

const (
	reasonUnknownName   = "no matching item name"
	reasonUnknownTypeID = "unknown type id"
	reasonNoRecipe      = "not included in offline recipe subset"
)

// ResolvedItem binds a build-order line to a concrete recipe.
type ResolvedItem struct {
	Line            models.BuildOrderLine
	BlueprintTypeID int64
	ProductTypeID   int64
	Recipe          models.RecipeRecord
	MatchedName     string
}

type Resolver struct {
	Data   *sde.Dataset
	Logger *zap.Logger
}

// Resolve maps one line to a (blueprint, product, recipe) triple.
// Precedence inside a name search is fixed: exact > prefix > substring,
// shortest key on ties. Category filtering applies after text matching.
func (r *Resolver) Resolve(line models.BuildOrderLine) (*ResolvedItem, error) {
	query := sde.NormalizeName(line.ItemName)
	if query == "" {
		return nil, &NotFoundError{Query: line.RawText, Reason: reasonUnknownName}
	}

	if id, err := strconv.ParseInt(query, 10, 64); err == nil {
		return r.resolveTypeID(line, id)
	}

	base, hasMarker := strings.CutSuffix(query, " blueprint")
	if hasMarker {
		if item, ok := r.searchBlueprint(line, query); ok {
			return item, nil
		}
		if item, ok := r.searchBlueprint(line, base); ok {
			return item, nil
		}
		return nil, r.notFound(line, query)
	}

	if item, ok := r.searchProduct(line, query); ok {
		return item, nil
	}
	// "Widget I" without the word "blueprint" still resolves to its
	// blueprint when no product matched.
	if item, ok := r.searchBlueprint(line, query); ok {
		return item, nil
	}
	return nil, r.notFound(line, query)
}

// ResolveAll resolves a batch, index-aligned with the input. A failed
// line leaves a nil item and its error in errs; the batch never aborts.
func (r *Resolver) ResolveAll(lines []models.BuildOrderLine) (items []*ResolvedItem, errs []error) {
	items = make([]*ResolvedItem, len(lines))
	errs = make([]error, len(lines))
	for i, line := range lines {
		items[i], errs[i] = r.Resolve(line)
	}
	return items, errs
}

func (r *Resolver) resolveTypeID(line models.BuildOrderLine, id int64) (*ResolvedItem, error) {
	if rec, ok := r.Data.RecipeByBlueprint(id); ok {
		return r.build(line, rec), nil
	}
	if rec, ok := r.Data.RecipeByProduct(id); ok {
		return r.build(line, rec), nil
	}
	if _, known := r.Data.TypeByID(id); known {
		return nil, &NotFoundError{Query: line.RawText, Reason: reasonNoRecipe}
	}
	return nil, &NotFoundError{Query: line.RawText, Reason: reasonUnknownTypeID}
}

func (r *Resolver) searchProduct(line models.BuildOrderLine, query string) (*ResolvedItem, bool) {
	ids := r.matchIDs(query, false)
	for _, id := range ids {
		if rec, ok := r.Data.RecipeByProduct(id); ok {
			return r.build(line, rec), true
		}
	}
	return nil, false
}

func (r *Resolver) searchBlueprint(line models.BuildOrderLine, query string) (*ResolvedItem, bool) {
	ids := r.matchIDs(query, true)
	for _, id := range ids {
		if rec, ok := r.Data.RecipeByBlueprint(id); ok {
			return r.build(line, rec), true
		}
	}
	return nil, false
}

// matchIDs returns the category-filtered candidates behind the best
// matching index key, recipe-bearing candidates first.
func (r *Resolver) matchIDs(query string, wantBlueprint bool) []int64 {
	if ids := r.filterCategory(r.Data.NameLookup(query), wantBlueprint); len(ids) > 0 {
		return r.preferRecipes(ids)
	}

	if key, ok := r.scanKeys(query, strings.HasPrefix, wantBlueprint); ok {
		return r.preferRecipes(r.filterCategory(r.Data.NameLookup(key), wantBlueprint))
	}
	if key, ok := r.scanKeys(query, strings.Contains, wantBlueprint); ok {
		return r.preferRecipes(r.filterCategory(r.Data.NameLookup(key), wantBlueprint))
	}
	return nil
}

// scanKeys walks the sorted key list and keeps the shortest key that
// matches and survives the category filter. Sorted order makes the
// lexicographically first key win among equal lengths.
func (r *Resolver) scanKeys(query string, match func(key, query string) bool, wantBlueprint bool) (string, bool) {
	best := ""
	for _, key := range r.Data.NameKeys() {
		if !match(key, query) {
			continue
		}
		if best != "" && len(key) >= len(best) {
			continue
		}
		if len(r.filterCategory(r.Data.NameLookup(key), wantBlueprint)) == 0 {
			continue
		}
		best = key
	}
	return best, best != ""
}

func (r *Resolver) filterCategory(ids []int64, wantBlueprint bool) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if r.Data.IsBlueprint(id) == wantBlueprint {
			out = append(out, id)
		}
	}
	return out
}

// preferRecipes orders candidates so buildable ones come before
// unbuildable homonyms, preserving index order within each group.
func (r *Resolver) preferRecipes(ids []int64) []int64 {
	withRecipe := make([]int64, 0, len(ids))
	without := make([]int64, 0, len(ids))
	for _, id := range ids {
		if r.Data.HasRecipe(id) {
			withRecipe = append(withRecipe, id)
		} else {
			without = append(without, id)
		}
	}
	return append(withRecipe, without...)
}

func (r *Resolver) build(line models.BuildOrderLine, rec models.RecipeRecord) *ResolvedItem {
	item := &ResolvedItem{
		Line:            line,
		BlueprintTypeID: rec.BlueprintTypeID,
		ProductTypeID:   rec.Product.TypeID,
		Recipe:          rec,
		MatchedName:     r.Data.TypeName(rec.Product.TypeID),
	}
	if r.Logger != nil {
		r.Logger.Debug("resolved line",
			zap.String("raw", line.RawText),
			zap.Int64("blueprint", item.BlueprintTypeID),
			zap.Int64("product", item.ProductTypeID))
	}
	return item
}

func (r *Resolver) notFound(line models.BuildOrderLine, query string) *NotFoundError {
	// Distinguish "name known but recipe missing" for a clearer reason.
	for _, wantBlueprint := range []bool{false, true} {
		if len(r.filterCategory(r.Data.NameLookup(query), wantBlueprint)) > 0 {
			return &NotFoundError{Query: line.RawText, Reason: reasonNoRecipe}
		}
	}
	return &NotFoundError{Query: line.RawText, Reason: reasonUnknownName}
}
