package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// findMatchRequest is the payload a client sends find_match: the opponent
// to duel, the decks each side registered, and an optional tournament.
// Grounded on the teacher's RpcFindMatch request shape (internal/ports/
// nakama/rpc.go), generalized from matchmaker search to a direct-challenge
// create since matchmaking itself is a spec Non-goal.
type findMatchRequest struct {
	OpponentID   string `json:"opponentId"`
	DeckID       string `json:"deckId"`
	OpponentDeck string `json:"opponentDeckId"`
	TournamentID string `json:"tournamentId"`
}

type findMatchResponse struct {
	MatchID string `json:"matchId"`
}

// RpcFindMatch creates a new authoritative match between the caller and
// the named opponent and returns its id, the same create-and-return shape
// as RpcFindMatch's "no open match found" branch, minus the label-query
// search since this engine is always a 1v1 direct challenge rather than an
// open-seat lobby.
func RpcFindMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req findMatchRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		logger.Error("RpcFindMatch [User:%s]: invalid payload: %v", userID, err)
		return "", runtime.NewError("invalid find_match payload", 3)
	}
	if req.OpponentID == "" || req.DeckID == "" || req.OpponentDeck == "" {
		return "", runtime.NewError("opponentId, deckId and opponentDeckId are required", 3)
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameDuel, map[string]interface{}{
		"matchId":      fmt.Sprintf("%s-%s", userID, req.OpponentID),
		"player1Id":    userID,
		"deck1Id":      req.DeckID,
		"player2Id":    req.OpponentID,
		"deck2Id":      req.OpponentDeck,
		"tournamentId": req.TournamentID,
	})
	if err != nil {
		logger.Error("RpcFindMatch [User:%s]: failed to create match: %v", userID, err)
		return "", err
	}

	resp, err := json.Marshal(findMatchResponse{MatchID: matchID})
	if err != nil {
		return "", err
	}
	logger.Info("RpcFindMatch [User:%s]: created match %s against %s", userID, matchID, req.OpponentID)
	return string(resp), nil
}
