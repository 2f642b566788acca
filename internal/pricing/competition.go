package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// depthSaturation is the order count at which depth stops adding score.
const depthSaturation = 100

// SpreadPct is the bid/ask spread relative to the ask, clamped to [0,1].
// Returns 1 (maximally wide) when either side is missing.
func SpreadPct(buy, sell *decimal.Decimal) float64 {
	if buy == nil || sell == nil || sell.IsZero() {
		return 1
	}
	spread, _ := sell.Sub(*buy).Div(*sell).Float64()
	if spread < 0 {
		return 0
	}
	if spread > 1 {
		return 1
	}
	return spread
}

// CompetitionScore is a 0-100 advisory signal: 60% normalized spread
// tightness, 40% log-scaled order-count depth. It never gates
// correctness.
func CompetitionScore(buy, sell *decimal.Decimal, orderCount int) float64 {
	spreadScore := 1 - SpreadPct(buy, sell)
	if orderCount < 0 {
		orderCount = 0
	}
	depthScore := math.Log10(1+float64(orderCount)) / math.Log10(1+depthSaturation)
	if depthScore > 1 {
		depthScore = 1
	}
	return 100 * (0.6*spreadScore + 0.4*depthScore)
}
