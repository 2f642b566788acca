package sde

import (
	"testing"

	"indyscope/internal/models"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hobgoblin I", "hobgoblin i"},
		{"  Hobgoblin   I  ", "hobgoblin i"},
		{"HOBGOBLIN\tI", "hobgoblin i"},
		{"Gistii A-Type", "gistii a-type"},
		{"Sansha’s Rage", "sansha's rage"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func testTypes() map[int64]models.TypeRecord {
	return map[int64]models.TypeRecord{
		34:  {TypeID: 34, Name: "Tritanium", PackagedVolume: 0.01, GroupID: 18, CategoryID: 4},
		603: {TypeID: 603, Name: "Hobgoblin I", PackagedVolume: 5, GroupID: 100, CategoryID: 18},
		604: {TypeID: 604, Name: "Hobgoblin I Blueprint", PackagedVolume: 0.01, GroupID: 101, CategoryID: 9},
	}
}

func TestNewIndexesRecipes(t *testing.T) {
	recipes := []models.RecipeRecord{{
		BlueprintTypeID: 604,
		Product:         models.ItemQuantity{TypeID: 603, Quantity: 1},
		Manufacturing:   &models.ManufacturingActivity{TimeSeconds: 3600},
	}}
	nameIndex := map[string][]int64{"Hobgoblin I": {603}}

	d, err := New(testTypes(), nameIndex, recipes, nil, 9)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, ok := d.RecipeByBlueprint(604); !ok {
		t.Fatalf("blueprint 604 not indexed")
	}
	rec, ok := d.RecipeByProduct(603)
	if !ok || rec.BlueprintTypeID != 604 {
		t.Fatalf("product 603 lookup = %+v ok=%v", rec, ok)
	}
	if !d.HasRecipe(603) || !d.HasRecipe(604) {
		t.Fatalf("HasRecipe should cover both blueprint and product ids")
	}
	if d.HasRecipe(34) {
		t.Fatalf("tritanium should have no recipe")
	}
	if !d.IsBlueprint(604) || d.IsBlueprint(603) {
		t.Fatalf("blueprint category check wrong")
	}
	// Index keys are normalized at build time.
	if got := d.NameLookup("hobgoblin i"); len(got) != 1 || got[0] != 603 {
		t.Fatalf("NameLookup = %v", got)
	}
}

func TestNewRejectsUnknownProduct(t *testing.T) {
	recipes := []models.RecipeRecord{{
		BlueprintTypeID: 604,
		Product:         models.ItemQuantity{TypeID: 999, Quantity: 1},
	}}
	if _, err := New(testTypes(), nil, recipes, nil, 9); err == nil {
		t.Fatalf("expected error for recipe product missing from type table")
	}
}

func TestTypeNamePlaceholder(t *testing.T) {
	d, err := New(testTypes(), nil, nil, nil, 9)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := d.TypeName(603); got != "Hobgoblin I" {
		t.Fatalf("TypeName(603) = %q", got)
	}
	if got := d.TypeName(424242); got != "type 424242" {
		t.Fatalf("TypeName placeholder = %q", got)
	}
}
