package service

import (
	"testing"
	"time"

	"zistino-api/model"

	"github.com/stretchr/testify/assert"
)

func TestApplyCarryOver(t *testing.T) {
	a := assert.New(t)
	now := time.Now()

	t.Run("prior 2kg shortfall nets a 5kg delivery to 3kg", func(t *testing.T) {
		ledger := []model.WeightShortfall{
			{Id: 1, ShortfallKg: 2, RemainingKg: 2},
		}
		netKg, consumed := ApplyCarryOver(ledger, 5, now)
		a.Equal(3.0, netKg)
		a.Len(consumed, 1)
		a.True(consumed[0].IsDeducted)
		a.Equal(0.0, consumed[0].RemainingKg)
		a.NotNil(consumed[0].DeductedAt)
		a.Equal(2.0, consumed[0].ShortfallKg, "original amount stays for audit")
		// 3kg net against a 3kg minimum leaves no new shortfall
		a.Equal(0.0, ComputeShortfall(3, netKg))
	})

	t.Run("partial consumption decrements remaining only", func(t *testing.T) {
		ledger := []model.WeightShortfall{
			{Id: 1, ShortfallKg: 4, RemainingKg: 4},
		}
		netKg, consumed := ApplyCarryOver(ledger, 1.5, now)
		a.Equal(0.0, netKg)
		a.Len(consumed, 1)
		a.False(consumed[0].IsDeducted)
		a.Nil(consumed[0].DeductedAt)
		a.Equal(2.5, consumed[0].RemainingKg)
	})

	t.Run("oldest shortfall is consumed first", func(t *testing.T) {
		ledger := []model.WeightShortfall{
			{Id: 1, ShortfallKg: 1, RemainingKg: 1},
			{Id: 2, ShortfallKg: 2, RemainingKg: 2},
		}
		netKg, consumed := ApplyCarryOver(ledger, 2, now)
		a.Equal(0.0, netKg)
		a.Len(consumed, 2)
		a.Equal(1, consumed[0].Id)
		a.True(consumed[0].IsDeducted)
		a.Equal(2, consumed[1].Id)
		a.False(consumed[1].IsDeducted)
		a.Equal(1.0, consumed[1].RemainingKg)
	})

	t.Run("no undeducted shortfalls leaves the weight untouched", func(t *testing.T) {
		netKg, consumed := ApplyCarryOver(nil, 4.2, now)
		a.Equal(4.2, netKg)
		a.Empty(consumed)
	})

	t.Run("rows already settled to zero are skipped", func(t *testing.T) {
		ledger := []model.WeightShortfall{
			{Id: 1, ShortfallKg: 2, RemainingKg: 0},
			{Id: 2, ShortfallKg: 1, RemainingKg: 1},
		}
		netKg, consumed := ApplyCarryOver(ledger, 3, now)
		a.Equal(2.0, netKg)
		a.Len(consumed, 1)
		a.Equal(2, consumed[0].Id)
	})
}

func TestComputeShortfall(t *testing.T) {
	a := assert.New(t)
	// the "2-5" bucket with a 3kg minimum and 1.5kg delivered
	a.Equal(1.5, ComputeShortfall(3, 1.5))
	a.Equal(0.0, ComputeShortfall(3, 3))
	a.Equal(0.0, ComputeShortfall(3, 4.7))
	a.Equal(0.0, ComputeShortfall(0, 0))
}
