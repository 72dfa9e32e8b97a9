// Package app contains the engine's use-case layer: the Dispatcher and its
// per-action handlers. Grounded on the teacher's internal/app/service.go
// shape (a Service wrapping ports, methods returning ([]Event, error)),
// generalized from three hardcoded methods into a single dispatch table
// per spec §9's redesign guidance.
package app

import (
	"context"
	"fmt"

	"duelcore/internal/domain"
	"duelcore/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// handlerFunc is the signature every action-kind handler implements: given
// the match as it stands and the action to apply, produce the next match
// state plus any events to emit, or an error.
type handlerFunc func(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error)

// dispatchTable is the single source of truth routing an ActionType to its
// handler (spec §9: "single dispatch table" instead of a handler factory +
// registry pair).
var dispatchTable = map[ActionType]handlerFunc{
	ActionApproveMatch:         handleApproveMatch,
	ActionDrawInitialCards:     handleDrawInitialCards,
	ActionSetActivePokemon:     handleSetActivePokemon,
	ActionPlayPokemon:          handlePlayPokemon,
	ActionCompleteInitialSetup: handleCompleteInitialSetup,

	ActionDrawCard:      handleDrawCard,
	ActionAttachEnergy:  handleAttachEnergy,
	ActionEvolvePokemon: handleEvolvePokemon,
	ActionPlayTrainer:   handlePlayTrainer,
	ActionUseAbility:    handleUseAbility,
	ActionRetreat:       handleRetreat,
	ActionEndTurn:       handleEndTurn,
	ActionConcede:       handleConcede,

	ActionAttack:           handleAttack,
	ActionGenerateCoinFlip: handleGenerateCoinFlip,
	ActionSelectPrize:      handleSelectPrize,
}

// Dispatcher executes player actions against persisted match state.
// Execute never logs; WithLogging wraps it with a caller-supplied
// runtime.Logger for a transport adapter that wants observability.
type Dispatcher struct {
	Catalog     ports.CardCatalog
	Decks       ports.DeckRepo
	Tournaments ports.TournamentRepo
	Store       ports.MatchStore
	ShuffleSeed int64
	// Effects maps an Attack's EffectScript key to the data-driven Effect
	// it should run (spec §9's Effect interpreter). Nil or missing keys are
	// treated as "no additional effect beyond raw damage".
	Effects map[string]domain.Effect
}

// NewDispatcher builds a Dispatcher over the given ports.
func NewDispatcher(catalog ports.CardCatalog, decks ports.DeckRepo, tournaments ports.TournamentRepo, store ports.MatchStore, shuffleSeed int64) *Dispatcher {
	return &Dispatcher{Catalog: catalog, Decks: decks, Tournaments: tournaments, Store: store, ShuffleSeed: shuffleSeed, Effects: map[string]domain.Effect{}}
}

// Execute runs the six-step action pipeline from spec §4.2:
//  1. load the match
//  2. verify the actor is a match participant
//  3. verify the action-filter registry permits this action in this phase
//  4. look up the handler in the dispatch table
//  5. invoke the handler to obtain the candidate next state
//  6. check win conditions, persist, and return the emitted events
func (d *Dispatcher) Execute(ctx context.Context, matchID string, action Action) ([]Event, error) {
	match, err := d.Store.LoadMatch(ctx, matchID)
	if err != nil {
		return nil, NewAppError(ErrNotFound, fmt.Sprintf("match %q not found", matchID), err)
	}

	if !match.IsParticipant(action.PlayerID) {
		return nil, unauthorized("player %q is not a participant in match %q", action.PlayerID, matchID)
	}

	if domain.IsTerminal(match.Phase) {
		return nil, invalidState("match %q has already ended", matchID)
	}

	if !IsActionAllowed(match.Phase, action.Type) {
		return nil, invalidAction("action %q is not permitted during phase %q", action.Type, match.Phase)
	}

	handler, ok := dispatchTable[action.Type]
	if !ok {
		return nil, protocolViolation("no handler registered for action %q", action.Type)
	}

	next, events, err := handler(ctx, d, match, action)
	if err != nil {
		return nil, err
	}

	if next.Game != nil {
		record := domain.ActionRecord{
			ActionID:   action.ActionID,
			PlayerID:   action.PlayerID,
			Type:       string(action.Type),
			TurnNumber: next.Game.TurnNumber,
		}
		for _, e := range events {
			if e.Kind == EventAttackFailed {
				record.AttackFailed = true
			}
		}
		next.Game.LastAction = &record
		next.Game.ActionHistory = append(append([]domain.ActionRecord{}, next.Game.ActionHistory...), record)

		outcome := domain.CheckWinConditions(next.Game.Players, next.Game.TurnPlayerID)
		switch next.Phase {
		case domain.PhaseMatchApproval, domain.PhaseDrawingCards, domain.PhaseSelectActivePokemon, domain.PhaseSelectBenchPokemon:
			// No Pokémon is in play yet during setup, so only a concession
			// can end the match before the first turn.
			if outcome.Reason != domain.WinConcede {
				outcome = domain.MatchOutcome{}
			}
		}
		if outcome.Reason != domain.WinNone {
			next.WinnerID = outcome.WinnerID
			next.WinReason = outcome.Reason
			if advanced, ok := next.Advance(domain.PhaseMatchEnded); ok {
				next = advanced
			} else {
				next.Phase = domain.PhaseMatchEnded
			}
			events = append(events, Event{
				Kind: EventMatchEnded,
				Payload: MatchEndedPayload{WinnerID: outcome.WinnerID, Reason: outcome.Reason},
			})
		}
	}

	if err := d.Store.SaveMatch(ctx, next); err != nil {
		return nil, NewAppError(ErrConflict, "failed to persist match state", err)
	}

	return events, nil
}

// logFields builds a structured field map the way the teacher's
// items.LogWithUser helper does, for adapters that want to log around
// Execute with a runtime.Logger.
func logFields(matchID string, action Action) map[string]interface{} {
	return map[string]any{
		"match_id":  matchID,
		"action_id": action.ActionID,
		"player_id": action.PlayerID,
		"type":      string(action.Type),
	}
}

// WithLogging wraps a runtime.Logger call around Execute, matching the
// teacher's split between a silent app/domain layer and a logging
// transport adapter (internal/ports/nakama).
func (d *Dispatcher) WithLogging(ctx context.Context, logger runtime.Logger, matchID string, action Action) ([]Event, error) {
	events, err := d.Execute(ctx, matchID, action)
	if err != nil {
		logger.WithFields(logFields(matchID, action)).Warn("action rejected: %v", err)
		return nil, err
	}
	logger.WithFields(logFields(matchID, action)).Debug("action applied, %d event(s) emitted", len(events))
	return events, nil
}
