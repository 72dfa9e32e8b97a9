package app

import (
	"context"

	"duelcore/internal/domain"
)

// handleAttack implements the ATTACK pipeline's first stages (spec §4.5):
//  1. gate — must be the turn player's active card, one attack per turn
//  2. status gate — ASLEEP/PARALYZED block the attack outright; CONFUSED
//     suspends resolution behind a CoinFlipState(context=STATUS_CHECK)
//     rather than resolving the self-check inline
//  3. coin-flip detection — an attack whose effects require a flip
//     suspends resolution behind AWAITING_COIN_FLIP_APPROVAL and a
//     CoinFlipState(context=ATTACK) instead of applying damage synchronously
//
// An attack that needs neither flip runs the remaining pipeline stages
// (damage, effects, knockout sweep, forced selection) immediately.
func handleAttack(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if err := requireTurnPlayer(match, action.PlayerID); err != nil {
		return match, nil, err
	}
	attacker, err := currentPlayer(match, action.PlayerID)
	if err != nil {
		return match, nil, err
	}
	if attacker.AttackedThisTurn {
		return match, nil, conflict("player %q has already attacked this turn", action.PlayerID)
	}
	if attacker.ActiveCard == nil {
		return match, nil, invalidState("player %q has no active pokemon to attack with", action.PlayerID)
	}

	attackName, ok := action.stringField("attackName")
	if !ok {
		return match, nil, invalidAction("ATTACK requires an attackName")
	}

	attack, found := attacker.ActiveCard.Definition.HasAttack(attackName)
	if !found {
		return match, nil, invalidAction("active pokemon has no attack named %q", attackName)
	}
	if !domain.HasSufficientEnergy(attacker.ActiveCard.AttachedEnergy, attack.Cost) {
		return match, nil, invalidAction("insufficient energy attached for attack %q", attackName)
	}

	source := *attacker.ActiveCard
	if !domain.CanAttackOrRetreat(source, false) {
		return match, nil, invalidAction("active pokemon cannot attack in its current condition")
	}

	defenderID := match.OpponentOf(action.PlayerID)
	events := []Event{{Kind: EventAttackDeclared, Payload: AttackDeclaredPayload{PlayerID: action.PlayerID, SourceInstanceID: source.InstanceID, AttackName: attackName}}}

	if source.HasStatus(domain.StatusConfused) {
		match.Game.PendingAttack = &domain.PendingAttack{
			AttackerID:       action.PlayerID,
			DefenderID:       defenderID,
			SourceInstanceID: source.InstanceID,
			AttackName:       attackName,
		}
		flip := domain.NewCoinFlipState(action.ActionID, action.ActionID, 1, domain.CoinFlipContextStatusCheck)
		match.Game.ActiveCoinFlip = &flip

		advanced, ok := match.Advance(domain.PhaseAwaitingCoinFlipApproval)
		if !ok {
			return match, nil, invalidState("cannot suspend match %q for a confusion check", match.MatchID)
		}
		events = append(events, Event{Kind: EventCoinFlipPending, Payload: CoinFlipPendingPayload{FlipID: action.ActionID, FlipIndex: 0}})
		return advanced, events, nil
	}

	return resolveDeclaredAttack(d, match, action, action.PlayerID, source, attack, defenderID, events)
}

// resolveDeclaredAttack runs the remainder of the ATTACK pipeline once any
// CONFUSED self-check has passed: either it suspends behind a
// GENERATE_COIN_FLIP for a coin-gated attack, or it applies damage
// immediately. attackerID is threaded explicitly rather than read off
// action.PlayerID, since this is also called while resolving a
// GENERATE_COIN_FLIP submitted by either player.
func resolveDeclaredAttack(d *Dispatcher, match domain.Match, action Action, attackerID string, source domain.CardInstance, attack domain.Attack, defenderID string, events []Event) (domain.Match, []Event, error) {
	if attack.RequiresCoin && attack.CoinCount > 0 {
		match.Game.PendingAttack = &domain.PendingAttack{
			AttackerID:       attackerID,
			DefenderID:       defenderID,
			SourceInstanceID: source.InstanceID,
			AttackName:       attack.Name,
		}
		flip := domain.NewCoinFlipState(action.ActionID, action.ActionID, attack.CoinCount, domain.CoinFlipContextAttack)
		match.Game.ActiveCoinFlip = &flip

		advanced, ok := ensurePhase(match, domain.PhaseAwaitingCoinFlipApproval)
		if !ok {
			return match, nil, invalidState("cannot suspend match %q for coin-flip approval", match.MatchID)
		}
		events = append(events, Event{Kind: EventCoinFlipPending, Payload: CoinFlipPendingPayload{FlipID: action.ActionID, FlipIndex: attack.CoinCount}})
		return advanced, events, nil
	}

	match.Game.PendingAttack = nil
	match, dmgEvents, err := applyAttackDamage(d, match, attackerID, defenderID, source, attack, 0)
	if err != nil {
		return match, nil, err
	}
	events = append(events, dmgEvents...)

	attacker := match.Game.Players[attackerID]
	attacker.AttackedThisTurn = true
	match.Game.Players[attackerID] = attacker

	return sweepKnockoutsAndAdvance(match, action, events)
}

// ensurePhase advances to the target phase, unless the match is already
// there: resolving a STATUS_CHECK flip into a follow-on ATTACK flip stays
// within AWAITING_COIN_FLIP_APPROVAL, which the phase table does not list
// as a transition from itself.
func ensurePhase(match domain.Match, to domain.MatchPhase) (domain.Match, bool) {
	if match.Phase == to {
		return match, true
	}
	return match.Advance(to)
}

// handleGenerateCoinFlip implements GENERATE_COIN_FLIP (spec §4.6): either
// player may submit it, and the first submission both computes the
// deterministic flip result and applies every consequence in the same
// step. There is no separate acknowledgement stage; a second submission
// finds no pending flip and is rejected as state the dispatcher has
// already moved past.
func handleGenerateCoinFlip(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if match.Phase != domain.PhaseAwaitingCoinFlipApproval || match.Game == nil || match.Game.ActiveCoinFlip == nil || match.Game.PendingAttack == nil {
		return match, nil, invalidState("match %q has no pending coin flip", match.MatchID)
	}

	flip := *match.Game.ActiveCoinFlip
	pending := *match.Game.PendingAttack

	if flip.Context == domain.CoinFlipContextStatusCheck {
		return resolveStatusCheckFlip(d, match, action, flip, pending)
	}
	return resolveAttackFlip(d, match, action, flip, pending)
}

// resolveStatusCheckFlip resolves a CONFUSED attacker's pre-attack coin
// flip: heads lets the declared attack proceed (including suspending again
// behind its own ATTACK-context flip if it requires one); tails fails the
// attack and deals 30 self-damage (spec §4.5 step 2, §8 scenario #6).
func resolveStatusCheckFlip(d *Dispatcher, match domain.Match, action Action, flip domain.CoinFlipState, pending domain.PendingAttack) (domain.Match, []Event, error) {
	flipped := false
	flipper := func() bool {
		flipped = domain.CoinFlipResult(match.MatchID, match.Game.TurnNumber, flip.ActionID, 0)
		return flipped
	}

	attacker := match.Game.Players[pending.AttackerID]
	if attacker.ActiveCard == nil || attacker.ActiveCard.InstanceID != pending.SourceInstanceID {
		match.Game.ActiveCoinFlip = nil
		match.Game.PendingAttack = nil
		advanced, _ := match.Advance(domain.PhasePlayerTurn)
		return advanced, nil, nil
	}

	proceeds, afterCheck := domain.ConfusionCheck(*attacker.ActiveCard, flipper)
	events := []Event{{Kind: EventCoinFlipResolved, Payload: CoinFlipResolvedPayload{FlipID: flip.FlipID, Heads: flipped}}}

	if !proceeds {
		attacker.ActiveCard = &afterCheck
		attacker.AttackedThisTurn = true
		match.Game.Players[pending.AttackerID] = attacker
		match.Game.ActiveCoinFlip = nil
		match.Game.PendingAttack = nil
		events = append(events,
			Event{Kind: EventDamageApplied, Payload: DamageAppliedPayload{TargetPlayerID: pending.AttackerID, TargetInstanceID: afterCheck.InstanceID, Amount: 30}},
			Event{Kind: EventAttackFailed, Payload: AttackFailedPayload{PlayerID: pending.AttackerID, SourceInstanceID: afterCheck.InstanceID, SelfDamage: 30}},
		)
		return sweepKnockoutsAndAdvance(match, action, events)
	}

	attack, found := attacker.ActiveCard.Definition.HasAttack(pending.AttackName)
	if !found {
		match.Game.ActiveCoinFlip = nil
		match.Game.PendingAttack = nil
		advanced, ok := match.Advance(domain.PhasePlayerTurn)
		if !ok {
			return match, nil, invalidState("cannot resume play for match %q", match.MatchID)
		}
		return advanced, events, nil
	}

	match.Game.ActiveCoinFlip = nil
	return resolveDeclaredAttack(d, match, action, pending.AttackerID, *attacker.ActiveCard, attack, pending.DefenderID, events)
}

// resolveAttackFlip resolves an attack's own damage-scaling coin flip and
// immediately applies its consequences (spec §4.6 single-stage
// completion): damage, effects, and the knockout sweep all happen here.
func resolveAttackFlip(d *Dispatcher, match domain.Match, action Action, flip domain.CoinFlipState, pending domain.PendingAttack) (domain.Match, []Event, error) {
	attacker := match.Game.Players[pending.AttackerID]
	if attacker.ActiveCard == nil || attacker.ActiveCard.InstanceID != pending.SourceInstanceID {
		match.Game.ActiveCoinFlip = nil
		match.Game.PendingAttack = nil
		advanced, _ := match.Advance(domain.PhasePlayerTurn)
		return advanced, nil, nil
	}
	attack, _ := attacker.ActiveCard.Definition.HasAttack(pending.AttackName)

	headsCount := 0
	for i := 0; i < flip.FlipCount; i++ {
		if domain.CoinFlipResult(match.MatchID, match.Game.TurnNumber, flip.ActionID, i+1) {
			headsCount++
		}
	}

	events := []Event{{Kind: EventCoinFlipResolved, Payload: CoinFlipResolvedPayload{FlipID: flip.FlipID, Heads: headsCount*2 >= flip.FlipCount}}}

	match, dmgEvents, err := applyAttackDamage(d, match, pending.AttackerID, pending.DefenderID, *attacker.ActiveCard, attack, headsCount)
	if err != nil {
		return match, nil, err
	}
	events = append(events, dmgEvents...)

	attacker = match.Game.Players[pending.AttackerID]
	attacker.AttackedThisTurn = true
	match.Game.Players[pending.AttackerID] = attacker
	match.Game.ActiveCoinFlip = nil
	match.Game.PendingAttack = nil

	return sweepKnockoutsAndAdvance(match, action, events)
}

// applyAttackDamage computes and applies damage for one attack against the
// defending player's active card (spec §4.5 step 4-5: damage calc, then
// effects). Effects beyond raw damage are resolved via the Dispatcher's
// Effects registry keyed by the attack's EffectScript.
func applyAttackDamage(d *Dispatcher, match domain.Match, attackerID, defenderID string, source domain.CardInstance, attack domain.Attack, headsCount int) (domain.Match, []Event, error) {
	defender, ok := match.Game.Players[defenderID]
	if !ok || defender.ActiveCard == nil {
		return match, nil, invalidState("defending player %q has no active pokemon", defenderID)
	}

	result := domain.CalculateDamage(attack, defender.ActiveCard.Definition, headsCount)

	match, damageDelta, effectEvents := applyAttackEffect(d, match, attackerID, defenderID, attack, headsCount)
	result.FinalDamage += damageDelta
	if result.FinalDamage < 0 {
		result.FinalDamage = 0
	}

	defender = match.Game.Players[defenderID]
	if defender.ActiveCard == nil {
		return match, effectEvents, nil
	}
	damaged := defender.ActiveCard.WithDamage(result.FinalDamage)
	defender.ActiveCard = &damaged
	match.Game.Players[defenderID] = defender

	events := append([]Event{{
		Kind: EventDamageApplied,
		Payload: DamageAppliedPayload{
			TargetPlayerID:   defenderID,
			TargetInstanceID: damaged.InstanceID,
			Amount:           result.FinalDamage,
			DamageResult:     result,
		},
	}}, effectEvents...)

	return match, events, nil
}

// sweepKnockoutsAndAdvance implements spec §4.5 steps 6-7: any card at zero
// HP is knocked out, its owner discards it, and a prize selection is
// granted to the opponent per knockout, sequentially. If the attacker's
// own turn is not otherwise suspended awaiting a forced active selection,
// the match returns to PLAYER_TURN (the win-condition check runs
// afterwards, in the Dispatcher).
func sweepKnockoutsAndAdvance(match domain.Match, action Action, events []Event) (domain.Match, []Event, error) {
	for _, ownerID := range match.PlayerIDs {
		player := match.Game.Players[ownerID]
		opponentID := match.OpponentOf(ownerID)

		if player.ActiveCard != nil && player.ActiveCard.IsKnockedOut() {
			knockedOutID := player.ActiveCard.InstanceID
			events = append(events, Event{Kind: EventCardKnockedOut, Payload: CardKnockedOutPayload{OwnerPlayerID: ownerID, InstanceID: knockedOutID}})
			player.Discard = append(player.Discard, *player.ActiveCard)
			player.ActiveCard = nil
			match.Game.PendingKnockouts = append(match.Game.PendingKnockouts, domain.PendingKnockout{
				OwnerPlayerID: ownerID, InstanceID: knockedOutID, OpponentPlayerID: opponentID,
			})
		}

		survivors := player.BenchCards[:0:0]
		for _, c := range player.BenchCards {
			if c.IsKnockedOut() {
				events = append(events, Event{Kind: EventCardKnockedOut, Payload: CardKnockedOutPayload{OwnerPlayerID: ownerID, InstanceID: c.InstanceID}})
				player.Discard = append(player.Discard, c)
				match.Game.PendingKnockouts = append(match.Game.PendingKnockouts, domain.PendingKnockout{
					OwnerPlayerID: ownerID, InstanceID: c.InstanceID, OpponentPlayerID: opponentID,
				})
				continue
			}
			survivors = append(survivors, c)
		}
		player.BenchCards = survivors
		match.Game.Players[ownerID] = player
	}

	if len(match.Game.PendingKnockouts) > 0 {
		advanced, ok := ensurePhase(match, domain.PhaseAwaitingKnockoutSelection)
		if !ok {
			return match, nil, invalidState("cannot suspend match %q for knockout prize selection", match.MatchID)
		}
		return advanced, events, nil
	}

	if forced, forcedEvents, err := forceActiveSelectionIfNeeded(match); err != nil {
		return match, nil, err
	} else if forced.Phase == domain.PhaseAwaitingKnockoutSelection {
		return forced, append(events, forcedEvents...), nil
	}

	if match.Phase != domain.PhasePlayerTurn {
		advanced, ok := match.Advance(domain.PhasePlayerTurn)
		if !ok {
			return match, nil, invalidState("cannot resume play for match %q", match.MatchID)
		}
		match = advanced
	}

	return match, events, nil
}

// forceActiveSelectionIfNeeded is a placeholder extension point: if a
// player's active card was knocked out and they still have bench cards,
// a real client flow would require them to name a replacement before play
// resumes. This engine represents that as remaining in
// AWAITING_KNOCKOUT_SELECTION (reusing the same phase as prize selection,
// since both require the owner to pick from their own field) until
// SELECT_PRIZE has been called for every pending knockout; no separate
// action type is introduced for it. MatchView.RequiresActivePokemonSelection
// reports this condition to clients directly from GameState.
func forceActiveSelectionIfNeeded(match domain.Match) (domain.Match, []Event, error) {
	return match, nil, nil
}

// handleSelectPrize implements spec §4.5 step 7: the player who scored a
// knockout claims exactly one prize card, resolved sequentially in
// knockout order. Once every pending knockout has a prize claimed, play
// resumes.
func handleSelectPrize(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if match.Phase != domain.PhaseAwaitingKnockoutSelection || match.Game == nil || len(match.Game.PendingKnockouts) == 0 {
		return match, nil, invalidState("match %q has no pending prize selection", match.MatchID)
	}

	next := match.Game.PendingKnockouts[0]
	if next.OpponentPlayerID != action.PlayerID {
		return match, nil, unauthorized("player %q is not owed the next prize selection", action.PlayerID)
	}

	prizeInstanceID, ok := action.stringField("prizeInstanceId")
	if !ok {
		return match, nil, invalidAction("SELECT_PRIZE requires a prizeInstanceId")
	}

	player := match.Game.Players[action.PlayerID]
	prizeIdx := -1
	for i, c := range player.Prizes {
		if c.InstanceID == prizeInstanceID {
			prizeIdx = i
			break
		}
	}
	if prizeIdx == -1 {
		return match, nil, notFound("prize card %q not found for player %q", prizeInstanceID, action.PlayerID)
	}

	claimed := player.Prizes[prizeIdx]
	player.Prizes = append(player.Prizes[:prizeIdx], player.Prizes[prizeIdx+1:]...)
	player.Hand = append(player.Hand, claimed)
	match.Game.Players[action.PlayerID] = player
	match.Game.PendingKnockouts = match.Game.PendingKnockouts[1:]

	events := []Event{{Kind: EventPrizeSelected, Payload: PrizeSelectedPayload{PlayerID: action.PlayerID, InstanceID: claimed.InstanceID}}}

	if len(match.Game.PendingKnockouts) > 0 {
		return match, events, nil
	}

	advanced, ok := match.Advance(domain.PhasePlayerTurn)
	if !ok {
		return match, nil, invalidState("cannot resume play for match %q", match.MatchID)
	}
	return advanced, events, nil
}
