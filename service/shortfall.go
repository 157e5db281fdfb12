package service

import (
	"math"
	"time"

	"zistino-api/model"
)

const weightEpsilon = 1e-9

// ApplyCarryOver nets a delivery's weight against the customer's undeducted
// shortfalls, oldest first. The input slice must already be ordered by created_at
// ascending and locked by the caller's transaction. Consumed rows keep their
// original shortfall_kg for audit; only remaining_kg is decremented, and
// is_deducted/deducted_at flip when remaining reaches zero. Returns the net weight
// and the rows that changed.
func ApplyCarryOver(shortfalls []model.WeightShortfall, deliveredKg float64, now time.Time) (float64, []model.WeightShortfall) {
	netKg := deliveredKg
	consumed := []model.WeightShortfall{}
	for _, shortfall := range shortfalls {
		if netKg <= weightEpsilon {
			break
		}
		take := math.Min(netKg, shortfall.RemainingKg)
		if take <= weightEpsilon {
			continue
		}
		netKg -= take
		shortfall.RemainingKg = roundKg(shortfall.RemainingKg - take)
		if shortfall.RemainingKg <= weightEpsilon {
			shortfall.RemainingKg = 0
			shortfall.IsDeducted = true
			deductedAt := now
			shortfall.DeductedAt = &deductedAt
		}
		consumed = append(consumed, shortfall)
	}
	return roundKg(netKg), consumed
}

// ComputeShortfall returns the new deficit of a delivery against its estimated
// range minimum, zero when the net weight meets it.
func ComputeShortfall(minimumKg float64, netKg float64) float64 {
	shortfall := roundKg(minimumKg - netKg)
	if shortfall <= weightEpsilon {
		return 0
	}
	return shortfall
}

// weights are stored as numeric(8,2)
func roundKg(kg float64) float64 {
	return math.Round(kg*100) / 100
}
