package service

import (
	"testing"

	"zistino-api/model"

	"github.com/stretchr/testify/assert"
)

func TestPickWinner(t *testing.T) {
	a := assert.New(t)

	t.Run("empty eligible set", func(t *testing.T) {
		_, err := PickWinner(nil)
		a.ErrorIs(err, ErrNoEligibleParticipants)
	})

	t.Run("single participant always wins", func(t *testing.T) {
		eligible := []model.EligibleDriver{{UserId: 7, UserName: "Only One", Points: 12}}
		winner, err := PickWinner(eligible)
		a.NoError(err)
		a.Equal(7, winner.UserId)
	})

	t.Run("winner is always a member of the eligible set", func(t *testing.T) {
		eligible := []model.EligibleDriver{
			{UserId: 1, Points: 5},
			{UserId: 2, Points: 50},
			{UserId: 3, Points: 500},
		}
		seen := map[int]bool{}
		for i := 0; i < 200; i++ {
			winner, err := PickWinner(eligible)
			a.NoError(err)
			a.Contains([]int{1, 2, 3}, winner.UserId)
			seen[winner.UserId] = true
		}
		// uniform draw over 200 rounds hits all three participants
		a.Len(seen, 3)
	})
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{model.LotteryDraft, model.LotteryActive, true},
		{model.LotteryPending, model.LotteryActive, true},
		{model.LotteryActive, model.LotteryDrawn, true},
		{model.LotteryActive, model.LotteryEnded, true},
		{model.LotteryActive, model.LotteryCancelled, true},
		{model.LotteryDraft, model.LotteryCancelled, true},
		{model.LotteryDraft, model.LotteryDrawn, false},
		{model.LotteryDraft, model.LotteryEnded, false},
		{model.LotteryEnded, model.LotteryActive, false},
		{model.LotteryEnded, model.LotteryDrawn, false},
		{model.LotteryDrawn, model.LotteryEnded, false},
		{model.LotteryDrawn, model.LotteryActive, false},
		{model.LotteryCancelled, model.LotteryActive, false},
		{model.LotteryActive, model.LotteryActive, false},
	}
	a := assert.New(t)
	for _, test := range tests {
		a.Equal(test.allowed, CanTransition(test.from, test.to), "%s -> %s", test.from, test.to)
	}
}
