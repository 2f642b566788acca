package sde

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"indyscope/internal/models"
)

// File names match the output of the dataset build tooling.
const (
	typesFile      = "types.sde.min.json"
	blueprintsFile = "blueprints.sde.min.json"
	nameIndexFile  = "name_index.min.json"
	mockPricesFile = "mock_prices.json"
)

type typesDoc struct {
	Generated           string                       `json:"generated"`
	BlueprintCategoryID int64                        `json:"blueprintCategoryId"`
	Types               map[string]models.TypeRecord `json:"types"`
}

type blueprintRow struct {
	BlueprintTypeID int64     `json:"blueprintTypeId"`
	ProductTypeID   int64     `json:"productTypeId"`
	ProductQty      int64     `json:"productQty"`
	TimeSeconds     int64     `json:"time"`
	Materials       [][]int64 `json:"materials"` // [typeId, quantity] pairs

	MaxRuns          int64                   `json:"maxRuns,omitempty"`
	Copying          *models.CopyingActivity `json:"copying,omitempty"`
	Invention        *inventionRow           `json:"invention,omitempty"`
	ResearchMaterial *researchRow            `json:"researchMaterial,omitempty"`
	ResearchTime     *researchRow            `json:"researchTime,omitempty"`
}

type inventionRow struct {
	TimeSeconds        int64     `json:"time"`
	Materials          [][]int64 `json:"materials"`
	ProductBlueprintID int64     `json:"productBlueprintId"`
	Probability        float64   `json:"probability,omitempty"`
}

type researchRow struct {
	TimeSeconds int64     `json:"time"`
	Materials   [][]int64 `json:"materials,omitempty"`
}

type blueprintsDoc struct {
	Generated  string                  `json:"generated"`
	Blueprints map[string]blueprintRow `json:"blueprints"`
}

type nameIndexDoc struct {
	Generated string             `json:"generated"`
	NameIndex map[string][]int64 `json:"nameIndex"`
}

// Load reads the bundled tables from dir and builds the accessor. The
// mock price file is optional; everything else is required.
func Load(dir string) (*Dataset, error) {
	var tdoc typesDoc
	if err := readJSON(filepath.Join(dir, typesFile), &tdoc); err != nil {
		return nil, fmt.Errorf("load types: %w", err)
	}
	var bdoc blueprintsDoc
	if err := readJSON(filepath.Join(dir, blueprintsFile), &bdoc); err != nil {
		return nil, fmt.Errorf("load blueprints: %w", err)
	}
	var ndoc nameIndexDoc
	if err := readJSON(filepath.Join(dir, nameIndexFile), &ndoc); err != nil {
		return nil, fmt.Errorf("load name index: %w", err)
	}
	mocks := map[int64]models.MockPrice{}
	raw := map[string]models.MockPrice{}
	if err := readJSON(filepath.Join(dir, mockPricesFile), &raw); err == nil {
		for k, v := range raw {
			id, perr := strconv.ParseInt(k, 10, 64)
			if perr != nil {
				continue
			}
			mocks[id] = v
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("load mock prices: %w", err)
	}

	types := make(map[int64]models.TypeRecord, len(tdoc.Types))
	for _, t := range tdoc.Types {
		types[t.TypeID] = t
	}

	recipes := make([]models.RecipeRecord, 0, len(bdoc.Blueprints))
	for _, row := range bdoc.Blueprints {
		recipes = append(recipes, row.toRecord())
	}

	return New(types, ndoc.NameIndex, recipes, mocks, tdoc.BlueprintCategoryID)
}

func (row blueprintRow) toRecord() models.RecipeRecord {
	rec := models.RecipeRecord{
		BlueprintTypeID: row.BlueprintTypeID,
		Product:         models.ItemQuantity{TypeID: row.ProductTypeID, Quantity: row.ProductQty},
		Manufacturing: &models.ManufacturingActivity{
			TimeSeconds: row.TimeSeconds,
			Materials:   pairsToItems(row.Materials),
		},
		Copying: row.Copying,
		MaxRuns: row.MaxRuns,
	}
	if rec.Product.Quantity <= 0 {
		rec.Product.Quantity = 1
	}
	if row.Invention != nil {
		rec.Invention = &models.InventionActivity{
			TimeSeconds:        row.Invention.TimeSeconds,
			Materials:          pairsToItems(row.Invention.Materials),
			ProductBlueprintID: row.Invention.ProductBlueprintID,
			Probability:        row.Invention.Probability,
		}
	}
	if row.ResearchMaterial != nil {
		rec.ResearchMaterial = &models.ResearchActivity{
			TimeSeconds: row.ResearchMaterial.TimeSeconds,
			Materials:   pairsToItems(row.ResearchMaterial.Materials),
		}
	}
	if row.ResearchTime != nil {
		rec.ResearchTime = &models.ResearchActivity{
			TimeSeconds: row.ResearchTime.TimeSeconds,
			Materials:   pairsToItems(row.ResearchTime.Materials),
		}
	}
	return rec
}

func pairsToItems(pairs [][]int64) []models.ItemQuantity {
	items := make([]models.ItemQuantity, 0, len(pairs))
	for _, p := range pairs {
		if len(p) < 2 {
			continue
		}
		items = append(items, models.ItemQuantity{TypeID: p[0], Quantity: p[1]})
	}
	return items
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
