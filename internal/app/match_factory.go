package app

import (
	"context"
	"fmt"

	"duelcore/internal/domain"
	"duelcore/internal/ports"
)

// requiredDeckSize is the exact number of cards a registered deck list
// must hold (the strict 60-card convention resolved in DESIGN.md); NewMatch
// rejects a deck of any other size. Zone totals are not checked later.
const requiredDeckSize = 60

const defaultPrizeCount = 6

// NewMatch validates both players' registered decks, stamps CardInstances
// from the catalog, shuffles each deck deterministically from the
// dispatcher's configured seed, deals prize cards, and returns a Match
// sitting in DECK_VALIDATION -> MATCH_APPROVAL (deck validation happens
// inline here rather than as a separate action, since it has no player-
// facing decision to make: either the registered deck is legal or match
// creation fails outright).
func (d *Dispatcher) NewMatch(ctx context.Context, matchID string, player1ID, deck1ID, player2ID, deck2ID, tournamentID string) (domain.Match, error) {
	match := domain.Match{
		MatchID:   matchID,
		Phase:     domain.PhaseWaitingForPlayers,
		PlayerIDs: []string{player1ID, player2ID},
		OwnerID:   player1ID,
	}

	match, ok := match.Advance(domain.PhaseDeckValidation)
	if !ok {
		return domain.Match{}, invalidState("cannot begin deck validation for match %q", matchID)
	}

	prizeCount := defaultPrizeCount
	if tournamentID != "" && d.Tournaments != nil {
		rules, err := d.Tournaments.GetRules(ctx, tournamentID)
		if err != nil {
			return domain.Match{}, NewAppError(ErrNotFound, "failed to load tournament rules", err)
		}
		if rules.PrizeCount > 0 {
			prizeCount = rules.PrizeCount
		}
	}

	p1State, err := d.buildPlayerState(ctx, matchID, player1ID, deck1ID, prizeCount)
	if err != nil {
		return domain.Match{}, err
	}
	p2State, err := d.buildPlayerState(ctx, matchID, player2ID, deck2ID, prizeCount)
	if err != nil {
		return domain.Match{}, err
	}

	match, ok = match.Advance(domain.PhaseMatchApproval)
	if !ok {
		return domain.Match{}, invalidState("cannot move match %q into approval", matchID)
	}

	match.Game = &domain.GameState{
		Players: map[string]domain.PlayerGameState{
			player1ID: p1State,
			player2ID: p2State,
		},
	}
	return match, nil
}

func (d *Dispatcher) buildPlayerState(ctx context.Context, matchID, playerID, deckID string, prizeCount int) (domain.PlayerGameState, error) {
	deckList, err := d.Decks.GetDeck(ctx, deckID)
	if err != nil {
		return domain.PlayerGameState{}, NewAppError(ErrNotFound, fmt.Sprintf("failed to load deck %q", deckID), err)
	}
	if len(deckList.CardIDs) != requiredDeckSize {
		return domain.PlayerGameState{}, invalidAction("deck %q must contain exactly %d cards, has %d", deckID, requiredDeckSize, len(deckList.CardIDs))
	}

	instances := make([]domain.CardInstance, 0, requiredDeckSize)
	for i, cardID := range deckList.CardIDs {
		def, err := d.Catalog.GetCardDefinition(ctx, cardID)
		if err != nil {
			return domain.PlayerGameState{}, NewAppError(ErrNotFound, fmt.Sprintf("unknown card %q in deck %q", cardID, deckID), err)
		}
		instances = append(instances, domain.NewCardInstance(fmt.Sprintf("%s-%d", playerID, i), def, 0))
	}

	seed := domain.ShuffleSeed(matchID, d.ShuffleSeed, playerID)
	shuffled := domain.ShuffleDeck(instances, seed)

	prizes := shuffled[:prizeCount]
	deck := shuffled[prizeCount:]

	return domain.PlayerGameState{
		PlayerID: playerID,
		Type:     domain.PlayerTypeHuman,
		Deck:     deck,
		Prizes:   append([]domain.CardInstance{}, prizes...),
	}, nil
}

// registeredDeck is a convenience constructor used by this package's tests
// to describe a legal deck without needing a real catalog round-trip for
// every card.
func registeredDeck(deckID, ownerID string, cardIDs []string) ports.DeckList {
	return ports.DeckList{DeckID: deckID, OwnerID: ownerID, CardIDs: cardIDs}
}
