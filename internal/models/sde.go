package models

// TypeRecord is one row of the bundled type table. Immutable after load.
type TypeRecord struct {
	TypeID         int64   `json:"typeId"`
	Name           string  `json:"name"`
	PackagedVolume float64 `json:"volume"`
	GroupID        int64   `json:"groupId"`
	CategoryID     int64   `json:"categoryId"`
}

// ItemQuantity is a (type, quantity) pair used by recipe activities.
type ItemQuantity struct {
	TypeID   int64 `json:"typeId"`
	Quantity int64 `json:"quantity"`
}

// ManufacturingActivity is the build step of a recipe.
type ManufacturingActivity struct {
	TimeSeconds int64          `json:"time"`
	Materials   []ItemQuantity `json:"materials"`
}

// CopyingActivity is present only for blueprints that can be copied.
type CopyingActivity struct {
	TimeSeconds int64 `json:"time"`
}

// InventionActivity is present only for blueprints that can be invented
// from. Probability of zero means "use the configured default".
type InventionActivity struct {
	TimeSeconds        int64          `json:"time"`
	Materials          []ItemQuantity `json:"materials"`
	ProductBlueprintID int64          `json:"productBlueprintId"`
	Probability        float64        `json:"probability"`
}

// ResearchActivity covers both material and time research.
type ResearchActivity struct {
	TimeSeconds int64          `json:"time"`
	Materials   []ItemQuantity `json:"materials"`
}

// RecipeRecord is one blueprint row. Optional activities are nil when the
// blueprint does not support them; strategy generation gates on presence.
type RecipeRecord struct {
	BlueprintTypeID  int64                  `json:"blueprintTypeId"`
	Product          ItemQuantity           `json:"product"`
	Manufacturing    *ManufacturingActivity `json:"manufacturing,omitempty"`
	Copying          *CopyingActivity       `json:"copying,omitempty"`
	Invention        *InventionActivity     `json:"invention,omitempty"`
	ResearchMaterial *ResearchActivity      `json:"researchMaterial,omitempty"`
	ResearchTime     *ResearchActivity      `json:"researchTime,omitempty"`
	MaxRuns          int64                  `json:"maxRuns,omitempty"`
}

// BuildOrderLine is one parsed line of user input. Never mutated after
// parsing.
type BuildOrderLine struct {
	RawText  string `json:"raw_text"`
	ItemName string `json:"item_name"`
	MELevel  int    `json:"me_level"` // 0..10
	TELevel  int    `json:"te_level"` // 0..20
	Runs     int64  `json:"runs"`     // >= 1
}
