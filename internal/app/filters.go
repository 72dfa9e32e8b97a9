package app

import "duelcore/internal/domain"

// allowedActions is the Action-Filter Registry (spec §4.8): the set of
// action types legal to submit while a match sits in a given phase. This
// is evaluated before a handler ever runs, so a stale or malicious client
// command is rejected uniformly regardless of which handler it names.
var allowedActions = map[domain.MatchPhase]map[ActionType]bool{
	domain.PhaseMatchApproval: {
		ActionApproveMatch: true,
		ActionConcede:      true,
	},
	domain.PhaseDrawingCards: {
		ActionDrawInitialCards: true,
		ActionConcede:          true,
	},
	domain.PhaseSelectActivePokemon: {
		ActionSetActivePokemon: true,
		ActionConcede:          true,
	},
	domain.PhaseSelectBenchPokemon: {
		ActionPlayPokemon:          true,
		ActionCompleteInitialSetup: true,
		ActionConcede:              true,
	},
	domain.PhasePlayerTurn: {
		ActionDrawCard:      true,
		ActionAttachEnergy:  true,
		ActionEvolvePokemon: true,
		ActionPlayTrainer:   true,
		ActionUseAbility:    true,
		ActionRetreat:       true,
		ActionAttack:        true,
		ActionEndTurn:       true,
		ActionConcede:       true,
	},
	domain.PhaseAwaitingCoinFlipApproval: {
		ActionGenerateCoinFlip: true,
		ActionConcede:          true,
	},
	domain.PhaseAwaitingKnockoutSelection: {
		ActionSelectPrize: true,
		ActionConcede:     true,
	},
	domain.PhaseBetweenTurns: {
		ActionConcede: true,
	},
}

// IsActionAllowed reports whether the registry permits an action type
// while the match is in the given phase.
func IsActionAllowed(phase domain.MatchPhase, actionType ActionType) bool {
	byType, ok := allowedActions[phase]
	if !ok {
		return false
	}
	return byType[actionType]
}
