package planner

import (
	"github.com/samber/lo"

	"github.com/touristique/touristique/internal/app/models"
)

// Normalize reshapes a raw /plan response into a uniform PlanSet.
//
// Policy: when the requested trip duration d is positive, every candidate's
// day list is truncated to at most d entries and candidates whose truncated
// length is not exactly d are discarded. Totals are recomputed as the sum of
// the kept per-day costs; the API-provided total_cost survives only as
// Plan.ReportedTotal. The filter can leave the set empty even when the API
// returned data — callers must render that as "no itinerary found".
//
// A nil response (offline client) normalizes to an empty set.
func Normalize(resp *PlanResponse, durationDays int) models.PlanSet {
	if resp == nil {
		return models.PlanSet{Plans: []models.Plan{}}
	}

	candidates := resp.Candidates()
	if len(candidates) == 0 && len(resp.Itinerary) > 0 {
		// Single-itinerary fallback follows the same truncate-and-filter
		// rules as the multi-plan path.
		candidates = []APICandidate{{Itinerary: resp.Itinerary, TotalCost: resp.TotalCost}}
	}

	plans := lo.FilterMap(candidates, func(c APICandidate, _ int) (models.Plan, bool) {
		return buildPlan(c, durationDays)
	})

	return models.PlanSet{Plans: plans, Selected: 0}
}

func buildPlan(c APICandidate, durationDays int) (models.Plan, bool) {
	days := lo.Map(c.DayList(), func(d APIDay, _ int) models.DayEntry {
		return models.DayEntry{
			Day:   d.Day,
			Place: dayPlace(d),
			Cost:  float64(d.Cost),
		}
	})

	if durationDays > 0 {
		if len(days) > durationDays {
			days = days[:durationDays]
		}
		if len(days) != durationDays {
			return models.Plan{}, false
		}
	}

	total := lo.SumBy(days, func(d models.DayEntry) float64 { return d.Cost })

	plan := models.Plan{
		Days:          days,
		Total:         total,
		ReportedTotal: float64(c.TotalCost),
	}
	if len(days) > 0 {
		plan.Start = days[0].Place
		plan.End = days[len(days)-1].Place
	}
	return plan, true
}

// dayPlace picks the display place for a day: the first entry of a
// non-empty destinations list, falling back to the city field, falling back
// to empty.
func dayPlace(d APIDay) string {
	if len(d.Destinations) > 0 {
		return d.Destinations[0]
	}
	return d.City
}
