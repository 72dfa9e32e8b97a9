// Package domain holds the pure, side-effect-free state and rules of a
// duel match: phases, cards, damage, status effects and win conditions. It
// never logs, never performs I/O, and never depends on any port.
package domain

// CardKind distinguishes the three card families a duel is played with.
type CardKind string

const (
	CardKindCreature CardKind = "CREATURE"
	CardKindEnergy   CardKind = "ENERGY"
	CardKindTrainer  CardKind = "TRAINER"
)

// Stage identifies a creature card's evolution stage. Basic cards have no
// prerequisite; Stage1/Stage2 cards evolve from a named prior stage.
type Stage string

const (
	StageBasic  Stage = "BASIC"
	StageStage1 Stage = "STAGE_1"
	StageStage2 Stage = "STAGE_2"
)

// Attack is one of a creature card's attack definitions, referenced by
// name at USE time. Cost lists the energy types required to pay for it.
type Attack struct {
	Name          string
	Cost          []string
	BaseDamage    int
	EffectScript  string // opaque key resolved by the effect interpreter
	RequiresCoin  bool
	CoinCount     int
}

// AbilityActivationType distinguishes a power that triggers passively
// (POKEMON_POWER) from one a player spends a USE_ABILITY action to
// activate (ACTIVATED).
type AbilityActivationType string

const (
	AbilityActivationPokemonPower AbilityActivationType = "POKEMON_POWER"
	AbilityActivationActivated    AbilityActivationType = "ACTIVATED"
)

// AbilityUsageLimit caps how often an ability may be used.
type AbilityUsageLimit string

const (
	AbilityUsageUnlimited   AbilityUsageLimit = "UNLIMITED"
	AbilityUsageOncePerTurn AbilityUsageLimit = "ONCE_PER_TURN"
)

// Ability is a creature card's passive or activated power, distinct from an
// attack: it has no energy cost and is not part of the attack pipeline.
type Ability struct {
	Name           string
	EffectScript   string
	ActivationType AbilityActivationType
	UsageLimit     AbilityUsageLimit
}

// CardDefinition is the catalog-supplied, immutable template a CardInstance
// is stamped from. It never changes after a match starts.
type CardDefinition struct {
	CardID       string
	Name         string
	Kind         CardKind
	Stage        Stage
	EvolvesFrom  string // CardID of the prior stage, empty for BASIC
	EnergyType   string
	MaxHP        int
	Weakness     string // energy type, empty if none
	Resistance   string // energy type, empty if none
	RetreatCost  int
	Attacks      []Attack
	Abilities    []Ability
	TrainerClass string // SUPPORTER, ITEM, STADIUM; only set for CardKindTrainer
	EffectScript string // trainer cards' effect key, resolved the same way Attack.EffectScript is
}

// HasAttack reports whether the definition exposes an attack with the given
// name, returning it when found.
func (d CardDefinition) HasAttack(name string) (Attack, bool) {
	for _, a := range d.Attacks {
		if a.Name == name {
			return a, true
		}
	}
	return Attack{}, false
}
