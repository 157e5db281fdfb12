package service

import (
	"errors"
	"fmt"
	"math"

	"zistino-api/model"
)

var ErrNoMatchingTier = errors.New("no payout tier matches this visit count")

// ValidateTiers checks a replacement tier table before it is written: every min at
// least 1, max null or not below min, and no visit count covered by two tiers.
func ValidateTiers(tiers []model.PayoutTier) error {
	if len(tiers) == 0 {
		return errors.New("tier table can not be empty")
	}
	for i, tier := range tiers {
		if tier.Min < 1 {
			return fmt.Errorf("tier %d: min must be at least 1", i+1)
		}
		if tier.Max != nil && *tier.Max < tier.Min {
			return fmt.Errorf("tier %d: max is below min", i+1)
		}
		if tier.RatePerKg < 0 {
			return fmt.Errorf("tier %d: rate can not be negative", i+1)
		}
	}
	for i := 0; i < len(tiers); i++ {
		for j := i + 1; j < len(tiers); j++ {
			if tiersOverlap(tiers[i], tiers[j]) {
				return fmt.Errorf("tiers %d and %d overlap", i+1, j+1)
			}
		}
	}
	return nil
}

func tiersOverlap(a, b model.PayoutTier) bool {
	// both unbounded ranges always intersect
	if a.Max == nil && b.Max == nil {
		return true
	}
	if a.Max == nil {
		return b.Max == nil || *b.Max >= a.Min
	}
	if b.Max == nil {
		return *a.Max >= b.Min
	}
	return a.Min <= *b.Max && b.Min <= *a.Max
}

// ResolveTier finds the unique tier covering visitCount. Visit counts are 1-based
// and include the delivery being settled, so a table starting at min=1 with an
// unbounded tail covers every settlement; zero or a configuration gap resolves to
// ErrNoMatchingTier.
func ResolveTier(tiers []model.PayoutTier, visitCount int) (*model.PayoutTier, error) {
	if visitCount < 1 {
		return nil, ErrNoMatchingTier
	}
	for i := range tiers {
		if visitCount >= tiers[i].Min && (tiers[i].Max == nil || visitCount <= *tiers[i].Max) {
			return &tiers[i], nil
		}
	}
	return nil, ErrNoMatchingTier
}

// ComputePayout prices a settled delivery: net weight times the resolved rate,
// rounded to the nearest whole currency unit.
func ComputePayout(tier *model.PayoutTier, netKg float64) int64 {
	return int64(math.Round(netKg * tier.RatePerKg))
}
