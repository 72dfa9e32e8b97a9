package domain

// GameState is the authoritative, turn-scoped state of a duel: the two
// players' field state plus whose turn it is. Modelled as a value type per
// spec §9 (sum types over mutable graphs): every app-layer handler produces
// a new GameState rather than editing one in place.
type GameState struct {
	Players              map[string]PlayerGameState
	TurnPlayerID         string
	TurnNumber           int
	ActiveCoinFlip       *CoinFlipState
	PendingAttack        *PendingAttack
	PendingKnockouts     []PendingKnockout
	AbilityUsageThisTurn map[string]bool // sourceInstanceId+abilityName -> used, cleared every END_TURN
	LastAction           *ActionRecord
	ActionHistory        []ActionRecord
}

// PendingAttack carries the resumption context for an attack suspended
// behind a pending coin flip (spec §4.6): either a CONFUSED self-check that
// must pass before the attack proceeds, or the attack's own damage-scaling
// flip. The flip's own result is only computed once GENERATE_COIN_FLIP is
// actually submitted.
type PendingAttack struct {
	AttackerID       string
	DefenderID       string
	SourceInstanceID string
	AttackName       string
}

// PendingKnockout records a card that has been reduced to zero HP but whose
// prize-card award has not yet been resolved; spec §4.5 step 6-7 requires
// one prize selection be granted per knockout, resolved sequentially.
type PendingKnockout struct {
	OwnerPlayerID    string
	InstanceID       string
	OpponentPlayerID string
}

// ActionRecord is one append-only entry in a match's action history (spec
// §3): every action the dispatcher successfully applies is recorded,
// regardless of whether it changed much state, so a client reconnecting
// mid-match can tell what happened since it last synced. AttackFailed is
// set only for the GENERATE_COIN_FLIP that resolves a failed CONFUSED
// self-check.
type ActionRecord struct {
	ActionID     string
	PlayerID     string
	Type         string
	TurnNumber   int
	AttackFailed bool
}

// Match is the top-level aggregate: lifecycle phase plus the game state
// once play has started. Mirrors the teacher's MatchState/Game split
// (lobby-shaped fields vs. in-play fields) generalized to this spec's
// richer phase list.
type Match struct {
	MatchID        string
	Phase          MatchPhase
	PlayerIDs      []string // stable seat order, length 2
	OwnerID        string
	Game           *GameState // set by NewMatch, already in MATCH_APPROVAL
	WinnerID       string
	WinReason      WinReason
	Approvals      map[string]bool // player id -> approved, during MATCH_APPROVAL
	FirstPlayerID  string          // derived from CoinTossResult once approval completes
	CoinTossResult bool            // true iff PlayerIDs[0] won the opening coin toss
}

// OpponentOf returns the other player id in a two-player match.
func (m Match) OpponentOf(playerID string) string {
	for _, id := range m.PlayerIDs {
		if id != playerID {
			return id
		}
	}
	return ""
}

// IsParticipant reports whether the given id is one of the match's players.
func (m Match) IsParticipant(playerID string) bool {
	for _, id := range m.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// Advance returns a copy of the match moved to a new phase, validating the
// transition against the phase table. Callers that bypass Advance (direct
// field assignment) violate the single-dispatch-table design guidance.
func (m Match) Advance(to MatchPhase) (Match, bool) {
	if !CanTransition(m.Phase, to) {
		return m, false
	}
	m.Phase = to
	return m, true
}
