package service

import (
	"testing"

	"zistino-api/model"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestValidateTiers(t *testing.T) {
	tests := []struct {
		description string
		tiers       []model.PayoutTier
		wantErr     bool
	}{
		{
			description: "valid two tier table with unbounded tail",
			tiers: []model.PayoutTier{
				{Min: 1, Max: intPtr(100), RatePerKg: 100},
				{Min: 101, Max: nil, RatePerKg: 200},
			},
		},
		{
			description: "empty table",
			tiers:       []model.PayoutTier{},
			wantErr:     true,
		},
		{
			description: "min below 1",
			tiers:       []model.PayoutTier{{Min: 0, Max: intPtr(10), RatePerKg: 50}},
			wantErr:     true,
		},
		{
			description: "max below min",
			tiers:       []model.PayoutTier{{Min: 10, Max: intPtr(5), RatePerKg: 50}},
			wantErr:     true,
		},
		{
			description: "overlapping bounded ranges",
			tiers: []model.PayoutTier{
				{Min: 1, Max: intPtr(100), RatePerKg: 100},
				{Min: 100, Max: intPtr(200), RatePerKg: 150},
			},
			wantErr: true,
		},
		{
			description: "unbounded tier swallowing a later one",
			tiers: []model.PayoutTier{
				{Min: 1, Max: nil, RatePerKg: 100},
				{Min: 50, Max: intPtr(60), RatePerKg: 150},
			},
			wantErr: true,
		},
		{
			description: "two unbounded tiers",
			tiers: []model.PayoutTier{
				{Min: 1, Max: nil, RatePerKg: 100},
				{Min: 200, Max: nil, RatePerKg: 150},
			},
			wantErr: true,
		},
		{
			description: "negative rate",
			tiers:       []model.PayoutTier{{Min: 1, Max: nil, RatePerKg: -1}},
			wantErr:     true,
		},
		{
			description: "gap between tiers is accepted",
			tiers: []model.PayoutTier{
				{Min: 1, Max: intPtr(10), RatePerKg: 100},
				{Min: 20, Max: nil, RatePerKg: 200},
			},
		},
	}
	a := assert.New(t)
	for _, test := range tests {
		err := ValidateTiers(test.tiers)
		if test.wantErr {
			a.Error(err, test.description)
		} else {
			a.NoError(err, test.description)
		}
	}
}

func TestResolveTier(t *testing.T) {
	a := assert.New(t)
	tiers := []model.PayoutTier{
		{Min: 1, Max: intPtr(100), RatePerKg: 100},
		{Min: 101, Max: nil, RatePerKg: 200},
	}

	t.Run("visit count 150 lands in the unbounded tail", func(t *testing.T) {
		tier, err := ResolveTier(tiers, 150)
		a.NoError(err)
		a.Equal(200.0, tier.RatePerKg)
		a.Equal(int64(800), ComputePayout(tier, 4))
	})

	t.Run("boundary values", func(t *testing.T) {
		tier, err := ResolveTier(tiers, 1)
		a.NoError(err)
		a.Equal(100.0, tier.RatePerKg)
		tier, err = ResolveTier(tiers, 100)
		a.NoError(err)
		a.Equal(100.0, tier.RatePerKg)
		tier, err = ResolveTier(tiers, 101)
		a.NoError(err)
		a.Equal(200.0, tier.RatePerKg)
	})

	t.Run("visit count zero is a distinct error", func(t *testing.T) {
		_, err := ResolveTier(tiers, 0)
		a.ErrorIs(err, ErrNoMatchingTier)
	})

	t.Run("every visit count resolves to exactly one tier", func(t *testing.T) {
		for v := 1; v <= 300; v++ {
			matches := 0
			for i := range tiers {
				if v >= tiers[i].Min && (tiers[i].Max == nil || v <= *tiers[i].Max) {
					matches++
				}
			}
			a.Equal(1, matches, "visit count %d", v)
			_, err := ResolveTier(tiers, v)
			a.NoError(err)
		}
	})

	t.Run("configuration gap resolves to ErrNoMatchingTier", func(t *testing.T) {
		gapped := []model.PayoutTier{
			{Min: 1, Max: intPtr(10), RatePerKg: 100},
			{Min: 20, Max: nil, RatePerKg: 200},
		}
		_, err := ResolveTier(gapped, 15)
		a.ErrorIs(err, ErrNoMatchingTier)
	})
}

func TestComputePayoutRounding(t *testing.T) {
	a := assert.New(t)
	tier := &model.PayoutTier{Min: 1, RatePerKg: 150.5}
	a.Equal(int64(376), ComputePayout(tier, 2.5))
	a.Equal(int64(377), ComputePayout(tier, 2.503))
}
