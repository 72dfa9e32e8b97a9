package app

import "duelcore/internal/domain"

// EventKind identifies an emitted domain event, mirroring the teacher's
// EventKind/Event split (internal/app/events.go): the dispatcher reports
// what happened, and a transport adapter decides how to deliver it.
type EventKind string

const (
	EventMatchApproved      EventKind = "MATCH_APPROVED"
	EventCardsDrawn         EventKind = "CARDS_DRAWN"
	EventActivePokemonSet   EventKind = "ACTIVE_POKEMON_SET"
	EventPokemonPlayed      EventKind = "POKEMON_PLAYED"
	EventInitialSetupDone   EventKind = "INITIAL_SETUP_COMPLETE"
	EventCardDrawn          EventKind = "CARD_DRAWN"
	EventEnergyAttached     EventKind = "ENERGY_ATTACHED"
	EventPokemonEvolved     EventKind = "POKEMON_EVOLVED"
	EventTrainerPlayed      EventKind = "TRAINER_PLAYED"
	EventAbilityUsed        EventKind = "ABILITY_USED"
	EventRetreated          EventKind = "RETREATED"
	EventTurnEnded          EventKind = "TURN_ENDED"
	EventConceded           EventKind = "CONCEDED"
	EventAttackDeclared     EventKind = "ATTACK_DECLARED"
	EventCoinFlipPending    EventKind = "COIN_FLIP_PENDING"
	EventCoinFlipResolved   EventKind = "COIN_FLIP_RESOLVED"
	EventDamageApplied      EventKind = "DAMAGE_APPLIED"
	EventCardKnockedOut     EventKind = "CARD_KNOCKED_OUT"
	EventPrizeSelected      EventKind = "PRIZE_SELECTED"
	EventStatusApplied      EventKind = "STATUS_APPLIED"
	EventStatusTicked       EventKind = "STATUS_TICKED"
	EventMatchEnded         EventKind = "MATCH_ENDED"
	EventAttackFailed       EventKind = "ATTACK_FAILED"
	EventCoinTossResolved   EventKind = "COIN_TOSS_RESOLVED"
	EventCardDiscarded      EventKind = "CARD_DISCARDED"
)

// Event is an app/domain event with optional targeted recipients, the same
// shape as the teacher's app.Event (Kind + Payload + Recipients).
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player ids; empty means broadcast to both players
}

type MatchApprovedPayload struct {
	ApprovedBy string
}

type CardsDrawnPayload struct {
	PlayerID string
	Count    int
}

type ActivePokemonSetPayload struct {
	PlayerID   string
	InstanceID string
}

type PokemonPlayedPayload struct {
	PlayerID   string
	InstanceID string
	Zone       string // "ACTIVE" or "BENCH"
}

type CardDrawnPayload struct {
	PlayerID string
}

type EnergyAttachedPayload struct {
	PlayerID         string
	TargetInstanceID string
	EnergyType       string
}

type PokemonEvolvedPayload struct {
	PlayerID      string
	FromInstanceID string
	ToInstanceID  string
}

type TrainerPlayedPayload struct {
	PlayerID string
	CardID   string
}

type AbilityUsedPayload struct {
	PlayerID         string
	SourceInstanceID string
	AbilityName      string
}

type RetreatedPayload struct {
	PlayerID         string
	NewActiveInstanceID string
}

type TurnEndedPayload struct {
	NextPlayerID string
	TurnNumber   int
}

type ConcededPayload struct {
	PlayerID string
}

type AttackDeclaredPayload struct {
	PlayerID         string
	SourceInstanceID string
	AttackName       string
}

type CoinFlipPendingPayload struct {
	FlipID    string
	FlipIndex int
}

type CoinFlipResolvedPayload struct {
	FlipID string
	Heads  bool
}

type DamageAppliedPayload struct {
	TargetPlayerID   string
	TargetInstanceID string
	Amount           int
	domain.DamageResult
}

type CardKnockedOutPayload struct {
	OwnerPlayerID string
	InstanceID    string
}

type PrizeSelectedPayload struct {
	PlayerID   string
	InstanceID string
}

type StatusAppliedPayload struct {
	TargetPlayerID   string
	TargetInstanceID string
	Status           domain.StatusCondition
}

type StatusTickedPayload struct {
	PlayerID   string
	InstanceID string
	DamageDealt int
}

type MatchEndedPayload struct {
	WinnerID string
	Reason   domain.WinReason
}

type AttackFailedPayload struct {
	PlayerID         string
	SourceInstanceID string
	SelfDamage       int
}

type CoinTossResolvedPayload struct {
	FirstPlayerID string
}

type CardDiscardedPayload struct {
	PlayerID   string
	InstanceID string
}
