package industry

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"indyscope/internal/models"
	"indyscope/internal/sde"
)

// MineralGroupID marks refinable mineral inputs, the ones the
// reprocessing mode reprices at opportunity cost.
const MineralGroupID = 18

// Efficiency bounds.
const (
	MaxMELevel = 10
	MaxTELevel = 20
)

// PriceSource is the slice of the price oracle the calculator needs.
type PriceSource interface {
	Quote(ctx context.Context, typeID int64, mctx models.MarketContext, forceRefresh bool) models.PriceQuote
}

// AdjustedQuantity applies the material-efficiency waste approximation:
// one percent less waste per level, rounded up, never below one unit per
// run. This is a documented approximation of the in-game formula, kept
// as-is on purpose.
func AdjustedQuantity(qty, runs int64, me int) int64 {
	if me < 0 {
		me = 0
	}
	if me > MaxMELevel {
		me = MaxMELevel
	}
	total := float64(qty * runs)
	adjusted := int64(math.Ceil(total * (1 - 0.01*float64(me))))
	if adjusted < runs {
		adjusted = runs
	}
	return adjusted
}

// AdjustedTime applies the time-efficiency approximation: one percent per
// level, multiplier clamped at zero so time can never go negative.
func AdjustedTime(baseSeconds, runs int64, te int) float64 {
	if te < 0 {
		te = 0
	}
	if te > MaxTELevel {
		te = MaxTELevel
	}
	mult := 1 - 0.01*float64(te)
	if mult < 0 {
		mult = 0
	}
	return float64(baseSeconds) * float64(runs) * mult
}

// MaterialCost is the priced bill of materials for one activity.
type MaterialCost struct {
	Total    decimal.Decimal
	Lines    []models.MaterialLine
	Warnings []string
}

// Calculator prices bills of materials and derives job, hauling and
// sell-side fees under one immutable settings snapshot.
type Calculator struct {
	Prices   PriceSource
	Data     *sde.Dataset
	Settings models.Settings
}

// CostMaterials prices each ME-adjusted line. Price source per line:
// local market on the configured basis, destination market when local is
// missing or zero. Reprocessing mode overrides the basis to a buy-side
// opportunity-cost quote for mineral inputs.
func (c *Calculator) CostMaterials(ctx context.Context, materials []models.ItemQuantity, runs int64, me int) MaterialCost {
	out := MaterialCost{Total: decimal.Zero}
	for _, mat := range materials {
		line := c.costLine(ctx, mat, runs, me)
		if line.TotalCost.IsZero() {
			out.Warnings = append(out.Warnings, fmt.Sprintf("no usable price for %s; cost treated as zero", line.Name))
		}
		out.Total = out.Total.Add(line.TotalCost)
		out.Lines = append(out.Lines, line)
	}
	return out
}

func (c *Calculator) costLine(ctx context.Context, mat models.ItemQuantity, runs int64, me int) models.MaterialLine {
	qty := AdjustedQuantity(mat.Quantity, runs, me)
	line := models.MaterialLine{
		TypeID:   mat.TypeID,
		Name:     c.Data.TypeName(mat.TypeID),
		Quantity: qty,
	}

	if c.Settings.Reprocessing && c.isMineral(mat.TypeID) {
		mctx, market := c.reprocessingContext()
		quote := c.Prices.Quote(ctx, mat.TypeID, mctx, false)
		line.UnitPrice = quote.BuyOrZero()
		line.Market = market
		line.Source = quote.Source
		line.TotalCost = line.UnitPrice.Mul(decimal.NewFromInt(qty))
		return line
	}

	basis := c.Settings.CostBasis
	local := c.Prices.Quote(ctx, mat.TypeID, c.Settings.Build, false)
	price := local.Side(basis)
	line.Market = "local"
	line.Source = local.Source
	if price.IsZero() {
		dest := c.Prices.Quote(ctx, mat.TypeID, c.Settings.Sell, false)
		if p := dest.Side(basis); !p.IsZero() {
			price = p
			line.Market = "destination"
			line.Source = dest.Source
		}
	}
	line.UnitPrice = price
	line.TotalCost = price.Mul(decimal.NewFromInt(qty))
	return line
}

func (c *Calculator) isMineral(typeID int64) bool {
	t, ok := c.Data.TypeByID(typeID)
	return ok && t.GroupID == MineralGroupID
}

func (c *Calculator) reprocessingContext() (models.MarketContext, string) {
	if c.Settings.ReprocessingMarket == "destination" {
		return c.Settings.Sell, "destination"
	}
	return c.Settings.Build, "local"
}

// JobFee is input cost × configured percentage × location cost index.
func (c *Calculator) JobFee(materialCost decimal.Decimal) decimal.Decimal {
	pct := decimal.NewFromFloat(c.Settings.JobFeePct).Div(decimal.NewFromInt(100))
	return materialCost.Mul(pct).Mul(decimal.NewFromFloat(c.Settings.CostIndex))
}

// SellFees is revenue × (broker fee + sales tax).
func (c *Calculator) SellFees(revenue decimal.Decimal) decimal.Decimal {
	pct := decimal.NewFromFloat(c.Settings.BrokerFeePct + c.Settings.SalesTaxPct).Div(decimal.NewFromInt(100))
	return revenue.Mul(pct)
}

// ShippingCost covers hauling plus risk and expected-loss surcharges.
// All three collapse to zero when selling locally: nothing ships.
func (c *Calculator) ShippingCost(volumeM3 float64) (hauling, risk, loss decimal.Decimal) {
	if c.Settings.SellLocally || volumeM3 <= 0 {
		return decimal.Zero, decimal.Zero, decimal.Zero
	}
	hauling = decimal.NewFromFloat(volumeM3).Mul(decimal.NewFromFloat(c.Settings.HaulingPerM3))
	risk = hauling.Mul(decimal.NewFromFloat(c.Settings.RiskPct)).Div(decimal.NewFromInt(100))
	loss = hauling.Mul(decimal.NewFromFloat(c.Settings.ExpectedLossPct)).Div(decimal.NewFromInt(100))
	return hauling, risk, loss
}

// ShippedVolume is the packaged m3 leaving the build location.
func (c *Calculator) ShippedVolume(productTypeID, units int64) float64 {
	t, ok := c.Data.TypeByID(productTypeID)
	if !ok {
		return 0
	}
	return t.PackagedVolume * float64(units)
}

// SellPrice is the revenue-side unit price: destination sell quote, or
// the local one when selling locally.
func (c *Calculator) SellPrice(ctx context.Context, typeID int64) (decimal.Decimal, models.PriceQuote) {
	mctx := c.Settings.Sell
	if c.Settings.SellLocally {
		mctx = c.Settings.Build
	}
	quote := c.Prices.Quote(ctx, typeID, mctx, false)
	return quote.SellOrZero(), quote
}
