package domain

// StatusCondition enumerates the five status effects a card can carry.
// Grounded on the teacher's rules.go style of small, named enums operating
// on plain value slices.
type StatusCondition string

const (
	StatusPoisoned  StatusCondition = "POISONED"
	StatusBurned    StatusCondition = "BURNED"
	StatusAsleep    StatusCondition = "ASLEEP"
	StatusParalyzed StatusCondition = "PARALYZED"
	StatusConfused  StatusCondition = "CONFUSED"
)

// StatusTickResult reports what happened to one active card during a
// between-turns status resolution pass.
type StatusTickResult struct {
	Instance       CardInstance
	DamageDealt    int
	WokeUp         bool
	ConfusionSelfHit bool
}

// ApplyBetweenTurnsStatus resolves POISONED/BURNED damage and the ASLEEP
// wake-up roll for one active card, per spec §4.7. Burned cards roll a
// coin: tails clears burn without damage, heads deals damage and burn
// persists. Asleep cards roll a coin to wake up. PARALYZED is left as it
// is here; handleEndTurn removes it from the ending player's active card
// after this call, so paralysis lasts through the afflicted player's turn.
func ApplyBetweenTurnsStatus(card CardInstance, flipHeads func() bool) StatusTickResult {
	result := StatusTickResult{Instance: card}

	if card.HasStatus(StatusPoisoned) {
		result.DamageDealt += 10
	}

	if card.HasStatus(StatusBurned) {
		if flipHeads() {
			result.DamageDealt += 20
		} else {
			result.Instance = result.Instance.WithoutStatuses(StatusBurned)
		}
	}

	if result.Instance.HasStatus(StatusAsleep) {
		if flipHeads() {
			result.Instance = result.Instance.WithoutStatuses(StatusAsleep)
			result.WokeUp = true
		}
	}

	if result.DamageDealt > 0 {
		result.Instance = result.Instance.WithDamage(result.DamageDealt)
	}

	return result
}

// ConfusionCheck resolves the coin flip a confused attacker must take
// before its attack resolves: tails means the attack fails and the
// confused card deals 30 damage to itself instead.
func ConfusionCheck(card CardInstance, flipHeads func() bool) (proceeds bool, selfDamage CardInstance) {
	if !card.HasStatus(StatusConfused) {
		return true, card
	}
	if flipHeads() {
		return true, card
	}
	return false, card.WithDamage(30)
}

// CanAttackOrRetreat reports whether a card with the given statuses is
// permitted to attack or retreat. ASLEEP and PARALYZED cards may do
// neither; CONFUSED cards may attempt both (subject to ConfusionCheck for
// attacking). CONFUSED does not block retreat.
func CanAttackOrRetreat(card CardInstance, wantRetreat bool) bool {
	if card.HasStatus(StatusAsleep) || card.HasStatus(StatusParalyzed) {
		return false
	}
	return true
}
