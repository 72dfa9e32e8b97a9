package app

import "duelcore/internal/domain"

// MatchView is the player-scoped projection of a match handed back to a
// client: full visibility into the viewer's own zones, but the opponent's
// hand and deck are reduced to counts (spec §6's view projection).
type MatchView struct {
	MatchID                         string
	Phase                           domain.MatchPhase
	ViewerID                        string
	TurnPlayerID                    string
	TurnNumber                      int
	Viewer                          PlayerView
	Opponent                        OpponentView
	WinnerID                        string
	WinReason                       domain.WinReason
	AvailableActions                []ActionType
	CoinFlipState                   *domain.CoinFlipState
	RequiresActivePokemonSelection  bool
	PlayersRequiringActiveSelection []string
	LastAction                      *domain.ActionRecord
}

// PlayerView exposes a viewer's own zones in full.
type PlayerView struct {
	HandCount   int
	Hand        []domain.CardInstance
	DeckCount   int
	PrizeCount  int
	ActiveCard  *domain.CardInstance
	BenchCards  []domain.CardInstance
	DiscardPile []domain.CardInstance
}

// OpponentView exposes only what a real client would legitimately know
// about the opponent's hidden zones.
type OpponentView struct {
	HandCount   int
	DeckCount   int
	PrizeCount  int
	ActiveCard  *domain.CardInstance
	BenchCards  []domain.CardInstance
	DiscardPile []domain.CardInstance
}

// BuildMatchView projects a Match into the view a specific player is
// entitled to see.
func BuildMatchView(match domain.Match, viewerID string) (MatchView, error) {
	view := MatchView{
		MatchID:   match.MatchID,
		Phase:     match.Phase,
		ViewerID:  viewerID,
		WinnerID:  match.WinnerID,
		WinReason: match.WinReason,
	}
	if match.Game == nil {
		return view, nil
	}

	view.TurnPlayerID = match.Game.TurnPlayerID
	view.TurnNumber = match.Game.TurnNumber
	view.CoinFlipState = match.Game.ActiveCoinFlip
	view.LastAction = match.Game.LastAction
	view.AvailableActions = availableActionsFor(match)

	var needActive []string
	for _, id := range match.PlayerIDs {
		p := match.Game.Players[id]
		if p.ActiveCard == nil && len(p.BenchCards) > 0 {
			needActive = append(needActive, id)
		}
	}
	view.PlayersRequiringActiveSelection = needActive
	view.RequiresActivePokemonSelection = len(needActive) > 0

	viewer, ok := match.Game.Players[viewerID]
	if !ok {
		return view, notFound("player %q has no game state in match %q", viewerID, match.MatchID)
	}
	view.Viewer = PlayerView{
		HandCount:   len(viewer.Hand),
		Hand:        viewer.Hand,
		DeckCount:   len(viewer.Deck),
		PrizeCount:  len(viewer.Prizes),
		ActiveCard:  viewer.ActiveCard,
		BenchCards:  viewer.BenchCards,
		DiscardPile: viewer.Discard,
	}

	opponentID := match.OpponentOf(viewerID)
	if opponent, ok := match.Game.Players[opponentID]; ok {
		view.Opponent = OpponentView{
			HandCount:   len(opponent.Hand),
			DeckCount:   len(opponent.Deck),
			PrizeCount:  len(opponent.Prizes),
			ActiveCard:  opponent.ActiveCard,
			BenchCards:  opponent.BenchCards,
			DiscardPile: opponent.Discard,
		}
	}

	return view, nil
}

// availableActionsFor derives the action-kind set the filter registry
// permits in the match's current phase (spec §6). GENERATE_COIN_FLIP is
// withheld from this set while the pending flip is a STATUS_CHECK: spec
// §4.6 treats that resume as an implicit dispatcher path rather than an
// advertised player choice, even though the registry still accepts it.
func availableActionsFor(match domain.Match) []ActionType {
	byType, ok := allowedActions[match.Phase]
	if !ok {
		return nil
	}
	suppressCoinFlip := match.Game.ActiveCoinFlip != nil && match.Game.ActiveCoinFlip.Context == domain.CoinFlipContextStatusCheck

	actions := make([]ActionType, 0, len(byType))
	for actionType, allowed := range byType {
		if !allowed {
			continue
		}
		if suppressCoinFlip && actionType == ActionGenerateCoinFlip {
			continue
		}
		actions = append(actions, actionType)
	}
	for i := 1; i < len(actions); i++ {
		for j := i; j > 0 && actions[j] < actions[j-1]; j-- {
			actions[j], actions[j-1] = actions[j-1], actions[j]
		}
	}
	return actions
}

// MatchSummary is a lightweight lobby-list projection, grounded on the
// teacher's ComputeLabel/LabelPayload helper (internal/domain/helpers.go):
// enough to advertise a match without exposing its full state.
type MatchSummary struct {
	MatchID  string
	Joinable bool
	Phase    domain.MatchPhase
}

// ComputeMatchSummary derives the advertised summary from match state.
func ComputeMatchSummary(match domain.Match) MatchSummary {
	joinable := match.Phase == domain.PhaseWaitingForPlayers && len(match.PlayerIDs) < 2
	return MatchSummary{MatchID: match.MatchID, Joinable: joinable, Phase: match.Phase}
}
