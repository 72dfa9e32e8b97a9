package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"duelcore/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchNameDuel is the match handler name registered with Nakama, the way
// the teacher registers MatchNameTienLen.
const MatchNameDuel = "duelcore_match"

const (
	// OpCodeAction carries a JSON-encoded actionEnvelope from a client.
	OpCodeAction int64 = 1
	// OpCodeEvent carries a JSON-encoded eventEnvelope to clients.
	OpCodeEvent int64 = 2
)

// actionEnvelope is the wire shape a client sends: one JSON object per
// submitted app.Action, generalized from the teacher's one-opcode-per-
// protobuf-message transport (match_handler.go) into a single envelope
// since the wire format itself is a Non-goal (spec §6).
type actionEnvelope struct {
	ActionID string         `json:"actionId"`
	Type     string         `json:"type"`
	Data     map[string]any `json:"data"`
}

// eventEnvelope is the wire shape broadcast back to clients for every
// app.Event the dispatcher emits.
type eventEnvelope struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

// MatchState holds the per-node runtime state Nakama keeps for a running
// match. The authoritative domain.Match itself lives behind d.Store (so
// any node can serve any tick); MatchState only tracks presences and the
// match id, the same split the teacher draws between MatchState.Seats and
// MatchState.Game.
type MatchState struct {
	MatchID   string
	Presences map[string]runtime.Presence
}

type matchHandler struct {
	dispatcher *app.Dispatcher
}

// NewMatchFactory returns a runtime.MatchCreateFn bound to a Dispatcher,
// the way the teacher's NewMatch closes over no state (it builds its own
// app.Service per match); here the Dispatcher is shared across matches
// since it is stateless beyond its ports.
func NewMatchFactory(dispatcher *app.Dispatcher) func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return &matchHandler{dispatcher: dispatcher}, nil
	}
}

// MatchInit creates the authoritative match aggregate from the params a
// find_match RPC passed to nk.MatchCreate, then stores it via the
// dispatcher's MatchStore so MatchLoop never needs to special-case the
// first tick.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	matchID, _ := params["matchId"].(string)
	player1ID, _ := params["player1Id"].(string)
	deck1ID, _ := params["deck1Id"].(string)
	player2ID, _ := params["player2Id"].(string)
	deck2ID, _ := params["deck2Id"].(string)
	tournamentID, _ := params["tournamentId"].(string)

	if matchID == "" || player1ID == "" || player2ID == "" {
		logger.Error("MatchInit: missing required params (matchId/player1Id/player2Id)")
		return nil, 0, ""
	}

	match, err := mh.dispatcher.NewMatch(ctx, matchID, player1ID, deck1ID, player2ID, deck2ID, tournamentID)
	if err != nil {
		logger.Error("MatchInit: failed to create match %q: %v", matchID, err)
		return nil, 0, ""
	}
	if err := mh.dispatcher.Store.SaveMatch(ctx, match); err != nil {
		logger.Error("MatchInit: failed to persist match %q: %v", matchID, err)
		return nil, 0, ""
	}

	state := &MatchState{MatchID: matchID, Presences: make(map[string]runtime.Presence)}
	tickRate := 5
	return state, tickRate, ""
}

// MatchJoinAttempt admits only the two players the match was created for.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	match, err := mh.dispatcher.Store.LoadMatch(ctx, matchState.MatchID)
	if err != nil {
		return state, false, "match not found"
	}
	if !match.IsParticipant(presence.GetUserId()) {
		return state, false, "not a participant in this match"
	}
	return state, true, ""
}

// MatchJoin records the presence and pushes a fresh per-viewer snapshot so
// a reconnecting client can resume without replaying every event.
func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	match, err := mh.dispatcher.Store.LoadMatch(ctx, matchState.MatchID)
	if err != nil {
		logger.Error("MatchJoin: failed to load match %q: %v", matchState.MatchID, err)
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		view, err := app.BuildMatchView(match, p.GetUserId())
		if err != nil {
			logger.Warn("MatchJoin: failed to build view for %q: %v", p.GetUserId(), err)
			continue
		}
		mh.send(dispatcher, logger, eventEnvelope{Kind: "MATCH_VIEW", Payload: view}, []runtime.Presence{p})
	}

	return matchState
}

// MatchLeave drops the presence. The match itself survives; matches are
// not torn down on disconnect since deterministic resolution means a
// reconnecting client simply reloads state from the store.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}
	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
	}
	return matchState
}

// MatchLoop decodes every queued actionEnvelope into an app.Action, runs it
// through the dispatcher, and broadcasts whatever events come back. This
// mirrors the opcode switch in the teacher's MatchLoop, collapsed to a
// single opcode since the envelope already names the action type.
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	for _, msg := range messages {
		if msg.GetOpCode() != OpCodeAction {
			logger.Warn("MatchLoop: unknown opcode %d from %s", msg.GetOpCode(), msg.GetUserId())
			continue
		}

		var envelope actionEnvelope
		if err := json.Unmarshal(msg.GetData(), &envelope); err != nil {
			logger.Warn("MatchLoop: invalid action payload from %s: %v", msg.GetUserId(), err)
			continue
		}

		action := app.Action{
			ActionID: envelope.ActionID,
			PlayerID: msg.GetUserId(),
			Type:     app.ActionType(envelope.Type),
			Data:     envelope.Data,
		}

		events, err := mh.dispatcher.WithLogging(ctx, logger, matchState.MatchID, action)
		if err != nil {
			mh.sendError(dispatcher, logger, msg.GetUserId(), matchState, err)
			continue
		}
		for _, ev := range events {
			mh.broadcastEvent(dispatcher, logger, matchState, ev)
		}
	}

	return matchState
}

func (mh *matchHandler) broadcastEvent(dispatcher runtime.MatchDispatcher, logger runtime.Logger, matchState *MatchState, ev app.Event) {
	recipients := mh.resolveRecipients(matchState, ev.Recipients)
	mh.send(dispatcher, logger, eventEnvelope{Kind: string(ev.Kind), Payload: ev.Payload}, recipients)
}

func (mh *matchHandler) sendError(dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, matchState *MatchState, err error) {
	recipients := mh.resolveRecipients(matchState, []string{userID})
	mh.send(dispatcher, logger, eventEnvelope{Kind: "ACTION_REJECTED", Payload: map[string]string{"error": err.Error()}}, recipients)
}

func (mh *matchHandler) resolveRecipients(matchState *MatchState, playerIDs []string) []runtime.Presence {
	if len(playerIDs) == 0 {
		recipients := make([]runtime.Presence, 0, len(matchState.Presences))
		for _, p := range matchState.Presences {
			recipients = append(recipients, p)
		}
		return recipients
	}
	recipients := make([]runtime.Presence, 0, len(playerIDs))
	for _, pid := range playerIDs {
		if p, ok := matchState.Presences[pid]; ok {
			recipients = append(recipients, p)
		}
	}
	return recipients
}

func (mh *matchHandler) send(dispatcher runtime.MatchDispatcher, logger runtime.Logger, envelope eventEnvelope, recipients []runtime.Presence) {
	bytes, err := json.Marshal(envelope)
	if err != nil {
		logger.Error("send: failed to marshal %s: %v", envelope.Kind, err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpCodeEvent, bytes, recipients, nil, true); err != nil {
		logger.Error("send: failed to broadcast %s: %v", envelope.Kind, err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: terminating with grace period %ds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
