package sde

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"indyscope/internal/models"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// NormalizeName mirrors the normalization the dataset build applies to
// name-index keys: trim, collapse whitespace, lowercase, ascii apostrophes.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRE.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.ReplaceAll(s, "‘", "'")
	return s
}

// Dataset is the read-only accessor over the bundled tables. Built once
// at startup; safe for concurrent readers, never mutated afterwards.
type Dataset struct {
	types            map[int64]models.TypeRecord
	nameIndex        map[string][]int64
	nameKeys         []string                      // sorted, for deterministic prefix/substring scans
	recipes          map[int64]models.RecipeRecord // by blueprint type id
	recipesByProduct map[int64]int64               // product type id -> blueprint type id
	mockPrices       map[int64]models.MockPrice
	blueprintCat     int64
}

// New validates and indexes the parsed tables.
func New(types map[int64]models.TypeRecord, nameIndex map[string][]int64, recipes []models.RecipeRecord, mockPrices map[int64]models.MockPrice, blueprintCategoryID int64) (*Dataset, error) {
	d := &Dataset{
		types:            types,
		nameIndex:        make(map[string][]int64, len(nameIndex)),
		recipes:          make(map[int64]models.RecipeRecord, len(recipes)),
		recipesByProduct: make(map[int64]int64, len(recipes)),
		mockPrices:       mockPrices,
		blueprintCat:     blueprintCategoryID,
	}
	if d.mockPrices == nil {
		d.mockPrices = map[int64]models.MockPrice{}
	}
	for name, ids := range nameIndex {
		d.nameIndex[NormalizeName(name)] = ids
	}
	d.nameKeys = make([]string, 0, len(d.nameIndex))
	for name := range d.nameIndex {
		d.nameKeys = append(d.nameKeys, name)
	}
	sort.Strings(d.nameKeys)

	for _, r := range recipes {
		if _, ok := types[r.Product.TypeID]; !ok {
			return nil, fmt.Errorf("recipe %d: product type %d missing from type table", r.BlueprintTypeID, r.Product.TypeID)
		}
		d.recipes[r.BlueprintTypeID] = r
		d.recipesByProduct[r.Product.TypeID] = r.BlueprintTypeID
	}
	return d, nil
}

// TypeByID looks up one type record.
func (d *Dataset) TypeByID(id int64) (models.TypeRecord, bool) {
	t, ok := d.types[id]
	return t, ok
}

// TypeName returns the display name, or a numeric placeholder for types
// outside the bundled subset.
func (d *Dataset) TypeName(id int64) string {
	if t, ok := d.types[id]; ok {
		return t.Name
	}
	return fmt.Sprintf("type %d", id)
}

// IsBlueprint reports whether the type sits in the blueprint category.
func (d *Dataset) IsBlueprint(id int64) bool {
	t, ok := d.types[id]
	return ok && t.CategoryID == d.blueprintCat
}

// BlueprintCategoryID returns the category id the dataset marked as
// "Blueprint".
func (d *Dataset) BlueprintCategoryID() int64 { return d.blueprintCat }

// NameLookup returns the candidate type ids behind one normalized key.
func (d *Dataset) NameLookup(normalized string) []int64 {
	return d.nameIndex[normalized]
}

// NameKeys returns all normalized index keys in sorted order.
func (d *Dataset) NameKeys() []string { return d.nameKeys }

// RecipeByBlueprint looks up a recipe by blueprint type id.
func (d *Dataset) RecipeByBlueprint(blueprintTypeID int64) (models.RecipeRecord, bool) {
	r, ok := d.recipes[blueprintTypeID]
	return r, ok
}

// RecipeByProduct looks up a recipe by the type it manufactures.
func (d *Dataset) RecipeByProduct(productTypeID int64) (models.RecipeRecord, bool) {
	bid, ok := d.recipesByProduct[productTypeID]
	if !ok {
		return models.RecipeRecord{}, false
	}
	return d.recipes[bid], true
}

// HasRecipe reports whether the type participates in any bundled recipe,
// as blueprint or as product.
func (d *Dataset) HasRecipe(typeID int64) bool {
	if _, ok := d.recipes[typeID]; ok {
		return true
	}
	_, ok := d.recipesByProduct[typeID]
	return ok
}

// MockPrice returns the bundled fallback price for a type.
func (d *Dataset) MockPrice(typeID int64) (models.MockPrice, bool) {
	p, ok := d.mockPrices[typeID]
	return p, ok
}
