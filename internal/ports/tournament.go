package ports

import "context"

// TournamentRules carries the subset of tournament configuration the engine
// needs: the prize-count override, if any. It carries no deck validation
// rules.
type TournamentRules struct {
	TournamentID string
	PrizeCount   int // 0 means "use the default of 6"
}

// TournamentRepo resolves tournament-specific rules for a match created
// under a tournament context. A casual (non-tournament) match never calls
// this port.
type TournamentRepo interface {
	GetRules(ctx context.Context, tournamentID string) (TournamentRules, error)
}
