package app

import (
	"context"

	"duelcore/internal/domain"
)

// handleApproveMatch implements APPROVE_MATCH (spec §4.3): once every
// participant has approved, a deterministic coin toss decides who takes the
// first turn and the match advances from MATCH_APPROVAL to DRAWING_CARDS
// with each player's already-shuffled deck ready to draw from.
func handleApproveMatch(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if match.Phase != domain.PhaseMatchApproval {
		return match, nil, invalidState("match %q is not awaiting approval", match.MatchID)
	}

	if match.Approvals == nil {
		match.Approvals = map[string]bool{}
	}
	next := map[string]bool{}
	for k, v := range match.Approvals {
		next[k] = v
	}
	next[action.PlayerID] = true
	match.Approvals = next

	events := []Event{{Kind: EventMatchApproved, Payload: MatchApprovedPayload{ApprovedBy: action.PlayerID}}}

	allApproved := true
	for _, id := range match.PlayerIDs {
		if !match.Approvals[id] {
			allApproved = false
			break
		}
	}
	if !allApproved {
		return match, events, nil
	}

	if len(match.PlayerIDs) != 2 {
		return match, nil, invalidState("match %q does not have two players to toss a coin for", match.MatchID)
	}
	wonByFirstSeat := domain.CoinTossResult(match.MatchID)
	match.CoinTossResult = wonByFirstSeat
	if wonByFirstSeat {
		match.FirstPlayerID = match.PlayerIDs[0]
	} else {
		match.FirstPlayerID = match.PlayerIDs[1]
	}
	events = append(events, Event{Kind: EventCoinTossResolved, Payload: CoinTossResolvedPayload{FirstPlayerID: match.FirstPlayerID}})

	advanced, ok := match.Advance(domain.PhaseDrawingCards)
	if !ok {
		return match, nil, invalidState("cannot advance match %q out of approval", match.MatchID)
	}
	return advanced, events, nil
}

// handleDrawInitialCards implements DRAW_INITIAL_CARDS: each player draws
// their opening hand (7 cards) from their already-shuffled deck. Once both
// players have drawn, the match advances to SELECT_ACTIVE_POKEMON.
func handleDrawInitialCards(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if match.Phase != domain.PhaseDrawingCards || match.Game == nil {
		return match, nil, invalidState("match %q is not drawing opening hands", match.MatchID)
	}

	const openingHandSize = 7
	player, ok := match.Game.Players[action.PlayerID]
	if !ok {
		return match, nil, notFound("player %q has no game state", action.PlayerID)
	}
	if len(player.Hand) > 0 {
		return match, nil, conflict("player %q has already drawn an opening hand", action.PlayerID)
	}
	if len(player.Deck) < openingHandSize {
		return match, nil, invalidState("player %q does not have enough cards to draw an opening hand", action.PlayerID)
	}

	player.Hand = append(player.Hand, player.Deck[:openingHandSize]...)
	player.Deck = player.Deck[openingHandSize:]
	match.Game.Players[action.PlayerID] = player

	events := []Event{{Kind: EventCardsDrawn, Payload: CardsDrawnPayload{PlayerID: action.PlayerID, Count: openingHandSize}}}

	allDrawn := true
	for _, id := range match.PlayerIDs {
		if len(match.Game.Players[id].Hand) == 0 {
			allDrawn = false
			break
		}
	}
	if !allDrawn {
		return match, events, nil
	}

	advanced, ok := match.Advance(domain.PhaseSelectActivePokemon)
	if !ok {
		return match, nil, invalidState("cannot advance match %q out of drawing cards", match.MatchID)
	}
	return advanced, events, nil
}

// handleSetActivePokemon implements SET_ACTIVE_POKEMON: a player moves a
// BASIC-stage card from hand into the active slot. Once both players have
// done so, the match advances to SELECT_BENCH_POKEMON.
func handleSetActivePokemon(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if match.Phase != domain.PhaseSelectActivePokemon || match.Game == nil {
		return match, nil, invalidState("match %q is not selecting active pokemon", match.MatchID)
	}

	instanceID, ok := action.stringField("instanceId")
	if !ok {
		return match, nil, invalidAction("SET_ACTIVE_POKEMON requires an instanceId")
	}

	player, ok := match.Game.Players[action.PlayerID]
	if !ok {
		return match, nil, notFound("player %q has no game state", action.PlayerID)
	}
	if player.HasSetActive {
		return match, nil, conflict("player %q has already set an active pokemon", action.PlayerID)
	}

	card, zone, found := player.FindInstance(instanceID)
	if !found || zone != "HAND" {
		return match, nil, notFound("card %q is not in player %q's hand", instanceID, action.PlayerID)
	}
	if card.Definition.Kind != domain.CardKindCreature || card.Definition.Stage != domain.StageBasic {
		return match, nil, invalidAction("only a BASIC creature card may be set as active")
	}

	player.Hand, _ = domain.RemoveFromHand(player.Hand, instanceID)
	player.ActiveCard = &card
	player.HasSetActive = true
	match.Game.Players[action.PlayerID] = player

	events := []Event{{Kind: EventActivePokemonSet, Payload: ActivePokemonSetPayload{PlayerID: action.PlayerID, InstanceID: instanceID}}}

	allSet := true
	for _, id := range match.PlayerIDs {
		if !match.Game.Players[id].HasSetActive {
			allSet = false
			break
		}
	}
	if !allSet {
		return match, events, nil
	}

	advanced, ok := match.Advance(domain.PhaseSelectBenchPokemon)
	if !ok {
		return match, nil, invalidState("cannot advance match %q out of active selection", match.MatchID)
	}
	return advanced, events, nil
}

// handlePlayPokemon implements PLAY_POKEMON during bench setup: a BASIC
// creature card moves from hand onto the bench (max 5 bench slots).
func handlePlayPokemon(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if match.Game == nil {
		return match, nil, invalidState("match %q has no active game", match.MatchID)
	}

	instanceID, ok := action.stringField("instanceId")
	if !ok {
		return match, nil, invalidAction("PLAY_POKEMON requires an instanceId")
	}

	player, ok := match.Game.Players[action.PlayerID]
	if !ok {
		return match, nil, notFound("player %q has no game state", action.PlayerID)
	}

	const maxBenchSize = 5
	if len(player.BenchCards) >= maxBenchSize {
		return match, nil, invalidAction("bench is full")
	}

	card, zone, found := player.FindInstance(instanceID)
	if !found || zone != "HAND" {
		return match, nil, notFound("card %q is not in player %q's hand", instanceID, action.PlayerID)
	}
	if card.Definition.Kind != domain.CardKindCreature || card.Definition.Stage != domain.StageBasic {
		return match, nil, invalidAction("only a BASIC creature card may be benched this way")
	}

	player.Hand, _ = domain.RemoveFromHand(player.Hand, instanceID)
	player.BenchCards = append(player.BenchCards, card)
	match.Game.Players[action.PlayerID] = player

	return match, []Event{{Kind: EventPokemonPlayed, Payload: PokemonPlayedPayload{PlayerID: action.PlayerID, InstanceID: instanceID, Zone: "BENCH"}}}, nil
}

// handleCompleteInitialSetup implements COMPLETE_INITIAL_SETUP: a player
// signals they are done benching cards. Once both players have, the match
// advances to PLAYER_TURN with the first turn awarded to whoever won the
// opening coin toss resolved back in APPROVE_MATCH.
func handleCompleteInitialSetup(ctx context.Context, d *Dispatcher, match domain.Match, action Action) (domain.Match, []Event, error) {
	if match.Phase != domain.PhaseSelectBenchPokemon || match.Game == nil {
		return match, nil, invalidState("match %q is not in bench setup", match.MatchID)
	}

	player, ok := match.Game.Players[action.PlayerID]
	if !ok {
		return match, nil, notFound("player %q has no game state", action.PlayerID)
	}
	if player.HasCompletedSetup {
		return match, nil, conflict("player %q has already completed setup", action.PlayerID)
	}
	player.HasCompletedSetup = true
	match.Game.Players[action.PlayerID] = player

	events := []Event{{Kind: EventInitialSetupDone, Payload: nil}}

	allDone := true
	for _, id := range match.PlayerIDs {
		if !match.Game.Players[id].HasCompletedSetup {
			allDone = false
			break
		}
	}
	if !allDone {
		return match, events, nil
	}

	if match.FirstPlayerID == "" {
		return match, nil, invalidState("match %q has no coin-toss winner recorded", match.MatchID)
	}
	match.Game.TurnPlayerID = match.FirstPlayerID
	match.Game.TurnNumber = 1

	advanced, ok := match.Advance(domain.PhasePlayerTurn)
	if !ok {
		return match, nil, invalidState("cannot advance match %q into play", match.MatchID)
	}
	return advanced, events, nil
}
