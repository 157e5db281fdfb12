package service

import (
	"errors"
	"math/rand"

	"zistino-api/model"
)

var ErrNoEligibleParticipants = errors.New("no eligible participants for this draw")

// PickWinner selects one driver uniformly at random. Point totals decide
// eligibility only, not the odds: every eligible driver has equal probability.
func PickWinner(eligible []model.EligibleDriver) (*model.EligibleDriver, error) {
	if len(eligible) == 0 {
		return nil, ErrNoEligibleParticipants
	}
	winner := eligible[rand.Intn(len(eligible))]
	return &winner, nil
}

// CanTransition enforces the lottery status machine:
// draft/pending -> active -> drawn | ended | cancelled. Terminal states never move.
func CanTransition(from string, to string) bool {
	switch to {
	case model.LotteryActive:
		return from == model.LotteryDraft || from == model.LotteryPending
	case model.LotteryDrawn, model.LotteryEnded:
		return from == model.LotteryActive
	case model.LotteryCancelled:
		return from == model.LotteryDraft || from == model.LotteryPending || from == model.LotteryActive
	}
	return false
}
