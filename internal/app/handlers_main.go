package app

import (
	"context"

	"duelcore/internal/domain"
)

func currentPlayer(match domain.Match, playerID string) (domain.PlayerGameState, error) {
	if match.Game == nil {
		return domain.PlayerGameState{}, invalidState("match %q has no active game", match.MatchID)
	}
	p, ok := match.Game.Players[playerID]
	if !ok {
		return domain.PlayerGameState{}, notFound("player %q has no game state", playerID)
	}
	return p, nil
}

func requireTurnPlayer(match domain.Match, playerID string) error {
	if match.Game == nil || match.Game.TurnPlayerID != playerID {
		return unauthorized("it is not player %q's turn", playerID)
	}
	return nil
}

// handleDrawCard implements DRAW_CARD: the turn player draws one card,
// once per turn. Drawing from an empty deck is not rejected here — the
// dispatcher's post-handler win check resolves it as DECK_OUT.
func handleDrawCard(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if err := requireTurnPlayer(match, action.PlayerID); err != nil {
		return match, nil, err
	}
	player, err := currentPlayer(match, action.PlayerID)
	if err != nil {
		return match, nil, err
	}
	if player.DrawnThisTurn {
		return match, nil, conflict("player %q has already drawn this turn", action.PlayerID)
	}
	if len(player.Deck) == 0 {
		// Leave state untouched; the dispatcher's win check will end the
		// match on DECK_OUT once this action completes.
		player.DrawnThisTurn = true
		match.Game.Players[action.PlayerID] = player
		return match, []Event{{Kind: EventCardDrawn, Payload: CardDrawnPayload{PlayerID: action.PlayerID}}}, nil
	}

	player.Hand = append(player.Hand, player.Deck[0])
	player.Deck = player.Deck[1:]
	player.DrawnThisTurn = true
	match.Game.Players[action.PlayerID] = player

	return match, []Event{{Kind: EventCardDrawn, Payload: CardDrawnPayload{PlayerID: action.PlayerID}}}, nil
}

// handleAttachEnergy implements ATTACH_ENERGY: one energy card per turn
// moves from hand onto a target card already in play.
func handleAttachEnergy(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if err := requireTurnPlayer(match, action.PlayerID); err != nil {
		return match, nil, err
	}
	player, err := currentPlayer(match, action.PlayerID)
	if err != nil {
		return match, nil, err
	}
	if player.EnergyAttachedThisTurn {
		return match, nil, conflict("player %q has already attached energy this turn", action.PlayerID)
	}

	energyInstanceID, ok := action.stringField("energyInstanceId")
	if !ok {
		return match, nil, invalidAction("ATTACH_ENERGY requires an energyInstanceId")
	}
	targetInstanceID, ok := action.stringField("targetInstanceId")
	if !ok {
		return match, nil, invalidAction("ATTACH_ENERGY requires a targetInstanceId")
	}

	energyCard, zone, found := player.FindInstance(energyInstanceID)
	if !found || zone != "HAND" || energyCard.Definition.Kind != domain.CardKindEnergy {
		return match, nil, notFound("energy card %q is not in player %q's hand", energyInstanceID, action.PlayerID)
	}

	target, attached := attachTo(player, targetInstanceID, energyCard.Definition.EnergyType)
	if !attached {
		return match, nil, notFound("target card %q is not in play for player %q", targetInstanceID, action.PlayerID)
	}

	player = target
	player.Hand, _ = domain.RemoveFromHand(player.Hand, energyInstanceID)
	player.EnergyAttachedThisTurn = true
	match.Game.Players[action.PlayerID] = player

	return match, []Event{{
		Kind: EventEnergyAttached,
		Payload: EnergyAttachedPayload{PlayerID: action.PlayerID, TargetInstanceID: targetInstanceID, EnergyType: energyCard.Definition.EnergyType},
	}}, nil
}

// attachTo attaches an energy type to the named in-play card (active or
// bench), returning the updated player state.
func attachTo(player domain.PlayerGameState, targetInstanceID, energyType string) (domain.PlayerGameState, bool) {
	if player.ActiveCard != nil && player.ActiveCard.InstanceID == targetInstanceID {
		updated := *player.ActiveCard
		updated.AttachedEnergy = append(append([]string{}, updated.AttachedEnergy...), energyType)
		player.ActiveCard = &updated
		return player, true
	}
	for i, c := range player.BenchCards {
		if c.InstanceID == targetInstanceID {
			c.AttachedEnergy = append(append([]string{}, c.AttachedEnergy...), energyType)
			player.BenchCards[i] = c
			return player, true
		}
	}
	return player, false
}

// handleEvolvePokemon implements EVOLVE_POKEMON: a STAGE_1/STAGE_2 card in
// hand replaces the in-play card it evolves from, preserving damage and
// attached energy, so long as the target was not played this same turn.
func handleEvolvePokemon(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if err := requireTurnPlayer(match, action.PlayerID); err != nil {
		return match, nil, err
	}
	player, err := currentPlayer(match, action.PlayerID)
	if err != nil {
		return match, nil, err
	}

	evolutionInstanceID, ok := action.stringField("evolutionInstanceId")
	if !ok {
		return match, nil, invalidAction("EVOLVE_POKEMON requires an evolutionInstanceId")
	}
	targetInstanceID, ok := action.stringField("targetInstanceId")
	if !ok {
		return match, nil, invalidAction("EVOLVE_POKEMON requires a targetInstanceId")
	}

	evolutionCard, zone, found := player.FindInstance(evolutionInstanceID)
	if !found || zone != "HAND" || evolutionCard.Definition.Kind != domain.CardKindCreature {
		return match, nil, notFound("evolution card %q is not in player %q's hand", evolutionInstanceID, action.PlayerID)
	}

	target, targetZone, found := player.FindInstance(targetInstanceID)
	if !found || (targetZone != "ACTIVE" && targetZone != "BENCH") {
		return match, nil, notFound("target card %q is not in play for player %q", targetInstanceID, action.PlayerID)
	}
	if evolutionCard.Definition.EvolvesFrom != target.Definition.CardID {
		return match, nil, invalidAction("card %q does not evolve from %q", evolutionCard.Definition.CardID, target.Definition.CardID)
	}
	if target.TurnPlayed == match.Game.TurnNumber {
		return match, nil, invalidAction("a pokemon cannot evolve the same turn it entered play")
	}

	evolved := evolutionCard
	evolved.CurrentHP = evolutionCard.Definition.MaxHP - target.DamageCounters
	evolved.DamageCounters = target.DamageCounters
	evolved.AttachedEnergy = target.AttachedEnergy
	evolved.EvolvedFromID = target.InstanceID
	evolved.TurnPlayed = target.TurnPlayed

	player.Hand, _ = domain.RemoveFromHand(player.Hand, evolutionInstanceID)
	if targetZone == "ACTIVE" {
		player.ActiveCard = &evolved
	} else {
		for i, c := range player.BenchCards {
			if c.InstanceID == targetInstanceID {
				player.BenchCards[i] = evolved
				break
			}
		}
	}
	match.Game.Players[action.PlayerID] = player

	return match, []Event{{
		Kind: EventPokemonEvolved,
		Payload: PokemonEvolvedPayload{PlayerID: action.PlayerID, FromInstanceID: targetInstanceID, ToInstanceID: evolved.InstanceID},
	}}, nil
}

// handlePlayTrainer implements PLAY_TRAINER: an ITEM may be played any
// number of times per turn, a SUPPORTER only once. The trainer card is
// removed from hand and discarded before its effect runs, so a
// DISCARD_FROM_HAND cost resolved against the action's hand-index target
// can never re-select the trainer card itself. Effect resolution is looked
// up through the Dispatcher's effect registry by the trainer's
// EffectScript; a trainer with no registered effect simply discards.
func handlePlayTrainer(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if err := requireTurnPlayer(match, action.PlayerID); err != nil {
		return match, nil, err
	}
	player, err := currentPlayer(match, action.PlayerID)
	if err != nil {
		return match, nil, err
	}

	instanceID, ok := action.stringField("instanceId")
	if !ok {
		return match, nil, invalidAction("PLAY_TRAINER requires an instanceId")
	}

	card, zone, found := player.FindInstance(instanceID)
	if !found || zone != "HAND" || card.Definition.Kind != domain.CardKindTrainer {
		return match, nil, notFound("trainer card %q is not in player %q's hand", instanceID, action.PlayerID)
	}
	if card.Definition.TrainerClass == "SUPPORTER" {
		if player.SupporterPlayedThisTurn {
			return match, nil, conflict("player %q has already played a supporter this turn", action.PlayerID)
		}
		player.SupporterPlayedThisTurn = true
	}

	player.Hand, _ = domain.RemoveFromHand(player.Hand, instanceID)
	player.Discard = append(player.Discard, card)
	match.Game.Players[action.PlayerID] = player

	events := []Event{{Kind: EventTrainerPlayed, Payload: TrainerPlayedPayload{PlayerID: action.PlayerID, CardID: card.Definition.CardID}}}

	match, effectEvents, err := applyTrainerEffect(d, match, action.PlayerID, card.Definition, action)
	if err != nil {
		return match, nil, err
	}
	events = append(events, effectEvents...)

	return match, events, nil
}

// handleUseAbility implements USE_ABILITY: an activated power on a card
// already in play, independent of the attack pipeline and energy cost. Only
// ACTIVATED abilities may be invoked this way; POKEMON_POWER abilities
// trigger passively and reject a direct USE_ABILITY call. An
// ONCE_PER_TURN ability is tracked per (sourceInstanceId, abilityName) in
// GameState.AbilityUsageThisTurn and cleared every END_TURN.
func handleUseAbility(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if err := requireTurnPlayer(match, action.PlayerID); err != nil {
		return match, nil, err
	}
	player, err := currentPlayer(match, action.PlayerID)
	if err != nil {
		return match, nil, err
	}

	sourceInstanceID, ok := action.stringField("sourceInstanceId")
	if !ok {
		return match, nil, invalidAction("USE_ABILITY requires a sourceInstanceId")
	}
	abilityName, ok := action.stringField("abilityName")
	if !ok {
		return match, nil, invalidAction("USE_ABILITY requires an abilityName")
	}

	source, zone, found := player.FindInstance(sourceInstanceID)
	if !found || (zone != "ACTIVE" && zone != "BENCH") {
		return match, nil, notFound("card %q is not in play for player %q", sourceInstanceID, action.PlayerID)
	}

	var ability domain.Ability
	var hasAbility bool
	for _, ab := range source.Definition.Abilities {
		if ab.Name == abilityName {
			ability = ab
			hasAbility = true
			break
		}
	}
	if !hasAbility {
		return match, nil, invalidAction("card %q has no ability named %q", source.Definition.CardID, abilityName)
	}
	if ability.ActivationType != domain.AbilityActivationActivated {
		return match, nil, invalidAction("ability %q is a pokemon power, not one a player activates directly", abilityName)
	}

	usageKey := sourceInstanceID + ":" + abilityName
	if match.Game.AbilityUsageThisTurn == nil {
		match.Game.AbilityUsageThisTurn = map[string]bool{}
	}
	if ability.UsageLimit == domain.AbilityUsageOncePerTurn && match.Game.AbilityUsageThisTurn[usageKey] {
		return match, nil, conflict("ability %q on card %q has already been used this turn", abilityName, source.Definition.CardID)
	}

	events := []Event{{
		Kind:    EventAbilityUsed,
		Payload: AbilityUsedPayload{PlayerID: action.PlayerID, SourceInstanceID: sourceInstanceID, AbilityName: abilityName},
	}}

	match, effectEvents := applyAbilityEffect(d, match, action.PlayerID, ability)
	events = append(events, effectEvents...)

	if ability.UsageLimit == domain.AbilityUsageOncePerTurn {
		usage := make(map[string]bool, len(match.Game.AbilityUsageThisTurn)+1)
		for k, v := range match.Game.AbilityUsageThisTurn {
			usage[k] = v
		}
		usage[usageKey] = true
		match.Game.AbilityUsageThisTurn = usage
	}

	return match, events, nil
}

// handleRetreat implements RETREAT: the active card swaps places with a
// chosen bench card, paying its retreat cost in discarded energy. Special
// conditions clear from the card that retreats to the bench, matching the
// source game's retreat rule.
func handleRetreat(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if err := requireTurnPlayer(match, action.PlayerID); err != nil {
		return match, nil, err
	}
	player, err := currentPlayer(match, action.PlayerID)
	if err != nil {
		return match, nil, err
	}
	if player.RetreatedThisTurn {
		return match, nil, conflict("player %q has already retreated this turn", action.PlayerID)
	}
	if player.ActiveCard == nil {
		return match, nil, invalidState("player %q has no active pokemon to retreat", action.PlayerID)
	}
	if !domain.CanAttackOrRetreat(*player.ActiveCard, true) {
		return match, nil, invalidAction("active pokemon cannot retreat in its current condition")
	}

	benchInstanceID, ok := action.stringField("benchInstanceId")
	if !ok {
		return match, nil, invalidAction("RETREAT requires a benchInstanceId")
	}

	benchIdx := -1
	for i, c := range player.BenchCards {
		if c.InstanceID == benchInstanceID {
			benchIdx = i
			break
		}
	}
	if benchIdx == -1 {
		return match, nil, notFound("bench card %q not found for player %q", benchInstanceID, action.PlayerID)
	}

	retreating := *player.ActiveCard
	cost := retreating.Definition.RetreatCost
	if len(retreating.AttachedEnergy) < cost {
		return match, nil, invalidAction("not enough attached energy to pay retreat cost")
	}
	retreating.AttachedEnergy = retreating.AttachedEnergy[cost:]
	retreating = retreating.WithoutStatuses(domain.SpecialConditions...)

	newActive := player.BenchCards[benchIdx]
	player.BenchCards[benchIdx] = retreating
	player.ActiveCard = &newActive
	player.RetreatedThisTurn = true
	match.Game.Players[action.PlayerID] = player

	return match, []Event{{Kind: EventRetreated, Payload: RetreatedPayload{PlayerID: action.PlayerID, NewActiveInstanceID: newActive.InstanceID}}}, nil
}

// handleEndTurn implements END_TURN: status effects tick on the ending
// player's field, the turn passes to the opponent, and every once-per-turn
// flag resets. PARALYZED clears automatically at the end of the turn it
// was active for, matching the source game's paralysis duration rule.
func handleEndTurn(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if err := requireTurnPlayer(match, action.PlayerID); err != nil {
		return match, nil, err
	}

	withBetween, ok := match.Advance(domain.PhaseBetweenTurns)
	if !ok {
		return match, nil, invalidState("cannot move match %q between turns", match.MatchID)
	}
	match = withBetween

	player := match.Game.Players[action.PlayerID]
	events := make([]Event, 0, 4)

	if player.ActiveCard != nil {
		flipIndex := 0
		flipper := func() bool {
			flipIndex++
			return domain.CoinFlipResult(match.MatchID, match.Game.TurnNumber, action.ActionID, flipIndex)
		}
		result := domain.ApplyBetweenTurnsStatus(*player.ActiveCard, flipper)
		result.Instance = result.Instance.WithoutStatuses(domain.StatusParalyzed)
		player.ActiveCard = &result.Instance
		if result.DamageDealt > 0 {
			events = append(events, Event{Kind: EventStatusTicked, Payload: StatusTickedPayload{PlayerID: action.PlayerID, InstanceID: result.Instance.InstanceID, DamageDealt: result.DamageDealt}})
		}
	}
	player = player.ResetTurnFlags()
	match.Game.Players[action.PlayerID] = player
	match.Game.AbilityUsageThisTurn = nil

	nextPlayer := match.OpponentOf(action.PlayerID)
	match.Game.TurnPlayerID = nextPlayer
	match.Game.TurnNumber++

	advanced, ok := match.Advance(domain.PhasePlayerTurn)
	if !ok {
		return match, nil, invalidState("cannot resume play for match %q", match.MatchID)
	}
	match = advanced

	events = append(events, Event{Kind: EventTurnEnded, Payload: TurnEndedPayload{NextPlayerID: nextPlayer, TurnNumber: match.Game.TurnNumber}})
	return match, events, nil
}

// handleConcede implements CONCEDE: legal from any non-terminal phase
// (spec §4.8's registry permits it everywhere), it only flags the
// conceding player; the dispatcher's post-handler win check ends the
// match.
func handleConcede(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if match.Game == nil {
		// Conceding before a game exists simply cancels the match.
		cancelled, ok := match.Advance(domain.PhaseCancelled)
		if !ok {
			return match, nil, invalidState("cannot cancel match %q", match.MatchID)
		}
		return cancelled, []Event{{Kind: EventConceded, Payload: ConcededPayload{PlayerID: action.PlayerID}}}, nil
	}

	player, err := currentPlayer(match, action.PlayerID)
	if err != nil {
		return match, nil, err
	}
	player.Conceded = true
	match.Game.Players[action.PlayerID] = player

	return match, []Event{{Kind: EventConceded, Payload: ConcededPayload{PlayerID: action.PlayerID}}}, nil
}
