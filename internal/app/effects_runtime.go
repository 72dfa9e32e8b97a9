package app

import "duelcore/internal/domain"

// applyAttackEffect interprets the Effect registered for an attack's
// EffectScript, if any, against the context of one attack resolution. It
// returns the match with any status/draw consequences already applied, a
// damage delta to merge into the base damage result (positive for bonus
// damage, negative for damage prevention), and any events those
// consequences raise. Grounded on spec §9's data-driven Effect
// interpreter: the dispatcher never branches on a card or attack name,
// only on the EffectAction kinds the catalog supplies.
func applyAttackEffect(d *Dispatcher, match domain.Match, attackerID, defenderID string, attack domain.Attack, headsCount int) (domain.Match, int, []Event) {
	if attack.EffectScript == "" {
		return match, 0, nil
	}
	effect, ok := d.Effects[attack.EffectScript]
	if !ok {
		return match, 0, nil
	}

	attacker := match.Game.Players[attackerID]
	defender := match.Game.Players[defenderID]
	ctx := domain.EffectContext{
		CoinHeads:       headsCount > 0,
		DefenderDamaged: defender.ActiveCard != nil && defender.ActiveCard.DamageCounters > 0,
	}
	if attacker.ActiveCard != nil {
		ctx.AttackerEnergyCount = len(attacker.ActiveCard.AttachedEnergy)
	}
	if !effect.Evaluate(ctx) {
		return match, 0, nil
	}

	var events []Event
	damageDelta := 0
	for _, action := range effect.Actions {
		switch action.Kind {
		case "DEAL_BONUS_DAMAGE":
			damageDelta += action.Amount
		case "PREVENT_DAMAGE":
			damageDelta -= action.Amount
		case "APPLY_STATUS":
			defender = match.Game.Players[defenderID]
			if defender.ActiveCard != nil {
				applied := defender.ActiveCard.WithoutStatuses(domain.SpecialConditions...).WithStatus(action.Status)
				defender.ActiveCard = &applied
				match.Game.Players[defenderID] = defender
				events = append(events, Event{
					Kind:    EventStatusApplied,
					Payload: StatusAppliedPayload{TargetPlayerID: defenderID, TargetInstanceID: applied.InstanceID, Status: action.Status},
				})
			}
		case "DRAW_CARDS":
			attacker = match.Game.Players[attackerID]
			n := action.Amount
			if n > len(attacker.Deck) {
				n = len(attacker.Deck)
			}
			if n > 0 {
				attacker.Hand = append(attacker.Hand, attacker.Deck[:n]...)
				attacker.Deck = attacker.Deck[n:]
			}
			match.Game.Players[attackerID] = attacker
			events = append(events, Event{Kind: EventCardDrawn, Payload: CardDrawnPayload{PlayerID: attackerID}})
		}
	}

	return match, damageDelta, events
}

// applyAbilityEffect interprets the Effect registered for an ability's
// EffectScript against the player who activated it. Unlike an attack, an
// ability has no opposing side to target by default: DRAW_CARDS and
// APPLY_STATUS both act on the activating player's own side (drawing into
// their hand, or conditioning their own active card), matching the source
// game's convention that a power affects its owner unless it names a
// target explicitly.
func applyAbilityEffect(d *Dispatcher, match domain.Match, playerID string, ability domain.Ability) (domain.Match, []Event) {
	if ability.EffectScript == "" {
		return match, nil
	}
	effect, ok := d.Effects[ability.EffectScript]
	if !ok {
		return match, nil
	}

	player := match.Game.Players[playerID]
	ctx := domain.EffectContext{}
	if player.ActiveCard != nil {
		ctx.AttackerEnergyCount = len(player.ActiveCard.AttachedEnergy)
		ctx.DefenderDamaged = player.ActiveCard.DamageCounters > 0
	}
	if !effect.Evaluate(ctx) {
		return match, nil
	}

	var events []Event
	for _, eAction := range effect.Actions {
		switch eAction.Kind {
		case "APPLY_STATUS":
			player = match.Game.Players[playerID]
			if player.ActiveCard != nil {
				applied := player.ActiveCard.WithoutStatuses(domain.SpecialConditions...).WithStatus(eAction.Status)
				player.ActiveCard = &applied
				match.Game.Players[playerID] = player
				events = append(events, Event{Kind: EventStatusApplied, Payload: StatusAppliedPayload{TargetPlayerID: playerID, TargetInstanceID: applied.InstanceID, Status: eAction.Status}})
			}
		case "DRAW_CARDS":
			player = match.Game.Players[playerID]
			n := eAction.Amount
			if n > len(player.Deck) {
				n = len(player.Deck)
			}
			if n > 0 {
				player.Hand = append(player.Hand, player.Deck[:n]...)
				player.Deck = player.Deck[n:]
			}
			match.Game.Players[playerID] = player
			events = append(events, Event{Kind: EventCardDrawn, Payload: CardDrawnPayload{PlayerID: playerID}})
		}
	}

	return match, events
}

// applyTrainerEffect interprets the Effect registered for a trainer card's
// EffectScript against the player who played it. DISCARD_FROM_HAND resolves
// its target from the action's own handCardIndex/handCardId fields, since
// which card to discard is the player's choice at play time, not data the
// catalog can supply; the index is resolved against the hand AFTER the
// trainer card itself has already been removed, so the trainer card can
// never be selected as its own cost.
func applyTrainerEffect(d *Dispatcher, match domain.Match, playerID string, card domain.CardDefinition, action Action) (domain.Match, []Event, error) {
	if card.EffectScript == "" {
		return match, nil, nil
	}
	effect, ok := d.Effects[card.EffectScript]
	if !ok {
		return match, nil, nil
	}

	player := match.Game.Players[playerID]
	ctx := domain.EffectContext{}
	if !effect.Evaluate(ctx) {
		return match, nil, nil
	}

	var events []Event
	for _, eAction := range effect.Actions {
		switch eAction.Kind {
		case "DRAW_CARDS":
			player = match.Game.Players[playerID]
			n := eAction.Amount
			if n > len(player.Deck) {
				n = len(player.Deck)
			}
			if n > 0 {
				player.Hand = append(player.Hand, player.Deck[:n]...)
				player.Deck = player.Deck[n:]
			}
			match.Game.Players[playerID] = player
			events = append(events, Event{Kind: EventCardDrawn, Payload: CardDrawnPayload{PlayerID: playerID}})

		case "APPLY_STATUS":
			player = match.Game.Players[playerID]
			if player.ActiveCard != nil {
				applied := player.ActiveCard.WithoutStatuses(domain.SpecialConditions...).WithStatus(eAction.Status)
				player.ActiveCard = &applied
				match.Game.Players[playerID] = player
				events = append(events, Event{Kind: EventStatusApplied, Payload: StatusAppliedPayload{TargetPlayerID: playerID, TargetInstanceID: applied.InstanceID, Status: eAction.Status}})
			}

		case "DISCARD_FROM_HAND":
			player = match.Game.Players[playerID]
			discardIdx := -1
			if idx, ok := action.intField("handCardIndex"); ok && idx >= 0 && idx < len(player.Hand) {
				discardIdx = idx
			} else if id, ok := action.stringField("handCardId"); ok {
				for i, c := range player.Hand {
					if c.InstanceID == id {
						discardIdx = i
						break
					}
				}
			}
			if discardIdx == -1 {
				return match, nil, invalidAction("%s requires a handCardIndex or handCardId naming a card to discard", card.CardID)
			}
			discarded := player.Hand[discardIdx]
			player.Hand = append(player.Hand[:discardIdx], player.Hand[discardIdx+1:]...)
			player.Discard = append(player.Discard, discarded)
			match.Game.Players[playerID] = player
			events = append(events, Event{Kind: EventCardDiscarded, Payload: CardDiscardedPayload{PlayerID: playerID, InstanceID: discarded.InstanceID}})
		}
	}

	return match, events, nil
}
