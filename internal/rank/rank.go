package rank

import (
	"fmt"
	"math"
	"sort"

	"indyscope/internal/models"
)

// Result is the ranked opportunity list plus the "best" selection. Best
// is an index into Opportunities, -1 when the list is empty.
type Result struct {
	Opportunities   []models.Opportunity
	Best            int
	BestFilteredOut bool
	Mode            models.RankMode
}

// Rank scores, filters and stably orders a generated opportunity set.
// Failing opportunities stay in the list, flagged, so callers can explain
// why; they are only excluded from the best-pick. Input order (Seq) is
// the tie-break, so identical input yields identical output.
func Rank(opps []models.Opportunity, settings models.Settings) Result {
	mode := settings.RankMode
	if mode == "" {
		mode = models.RankProfitPerDay
	}
	// A shipment-volume cap makes trip count the binding constraint.
	if settings.MaxShipmentM3 > 0 {
		mode = models.RankProfitPerVolume
	}

	ranked := make([]models.Opportunity, len(opps))
	copy(ranked, opps)
	for i := range ranked {
		applyThroughput(&ranked[i], settings.Slots)
		ranked[i].Score = score(ranked[i], mode)
		applyFilters(&ranked[i], settings.Filters)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Seq < ranked[j].Seq
	})

	res := Result{Opportunities: ranked, Best: -1, Mode: mode}
	for i := range ranked {
		if ranked[i].PassesFilters {
			res.Best = i
			break
		}
	}
	if res.Best == -1 && len(ranked) > 0 {
		// Nothing passes: surface the top scorer anyway, flagged.
		res.Best = 0
		res.BestFilteredOut = true
	}
	return res
}

// applyThroughput fills ProfitPerDay and the bottleneck label from the
// slot profile: batches/day per stage, binding constraint is the minimum
// across stages the strategy actually uses.
func applyThroughput(opp *models.Opportunity, slots models.SlotSettings) {
	type stage struct {
		name  string
		hours float64
		cap   float64 // slot-hours available per day
	}
	stages := []stage{
		{"manufacturing", opp.Slots.MfgHours, float64(slots.MfgSlots) * slots.MfgUtilization * 24},
		{"copying", opp.Slots.CopyHours, float64(slots.CopySlots) * slots.CopyUtilization * 24},
		{"invention", opp.Slots.InventionHours, float64(slots.InventionSlots) * slots.InventionUtilization * 24},
	}

	binding := math.Inf(1)
	bottleneck := ""
	for _, st := range stages {
		if st.hours <= 0 {
			continue
		}
		perDay := st.cap / st.hours
		if perDay < binding {
			binding = perDay
			bottleneck = st.name
		}
	}
	if math.IsInf(binding, 1) {
		opp.Metrics.ProfitPerDay = 0
		opp.Bottleneck = ""
		return
	}

	totalProfit, _ := opp.Metrics.ProfitPerRun.Float64()
	totalProfit *= float64(opp.Runs)
	opp.Metrics.ProfitPerDay = totalProfit * binding
	opp.Bottleneck = bottleneck
}

func score(opp models.Opportunity, mode models.RankMode) float64 {
	switch mode {
	case models.RankProfitPerRun:
		v, _ := opp.Metrics.ProfitPerRun.Float64()
		return v
	case models.RankProfitPerVolume:
		return opp.Metrics.ProfitPerVolume
	case models.RankMarginPct:
		return opp.Metrics.MarginPct
	default:
		return opp.Metrics.ProfitPerDay
	}
}

func applyFilters(opp *models.Opportunity, f models.FilterSettings) {
	var reasons []string
	if opp.Metrics.MarginPct < f.MinMarginPct {
		reasons = append(reasons, fmt.Sprintf("margin %.2f%% below minimum %.2f%%", opp.Metrics.MarginPct, f.MinMarginPct))
	}
	profitPerRun, _ := opp.Metrics.ProfitPerRun.Float64()
	if profitPerRun < f.MinProfitPerRun {
		reasons = append(reasons, fmt.Sprintf("profit/run %.2f below minimum %.2f", profitPerRun, f.MinProfitPerRun))
	}
	if f.CapitalCeiling > 0 {
		capital, _ := opp.Metrics.CapitalRequired.Float64()
		if capital > f.CapitalCeiling {
			reasons = append(reasons, fmt.Sprintf("capital %.2f above ceiling %.2f", capital, f.CapitalCeiling))
		}
	}
	if f.MaxCompetition > 0 && opp.Metrics.Competition > f.MaxCompetition {
		reasons = append(reasons, fmt.Sprintf("competition %.1f above maximum %.1f", opp.Metrics.Competition, f.MaxCompetition))
	}
	opp.PassesFilters = len(reasons) == 0
	opp.FilterReasons = reasons
}
