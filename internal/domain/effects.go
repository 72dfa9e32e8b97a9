package domain

// EffectCondition is a single data-driven predicate an Effect's application
// may be gated on, following spec §9's "data-driven Effect interpreter"
// redesign guidance: conditions and actions are both small tagged values
// interpreted by plain functions rather than modelled as a type hierarchy.
type EffectCondition struct {
	Kind  string // e.g. "DEFENDER_HAS_DAMAGE", "COIN_HEADS", "ENERGY_COUNT_AT_LEAST"
	Value int
	Arg   string
}

// EffectAction is a single data-driven consequence an Effect applies once
// its conditions (if any) are satisfied.
type EffectAction struct {
	Kind   string // e.g. "APPLY_STATUS", "DEAL_BONUS_DAMAGE", "DRAW_CARDS", "PREVENT_DAMAGE", "DISCARD_FROM_HAND"
	Status StatusCondition
	Amount int
}

// Effect is the fully resolved, data-driven description of what an
// attack's EffectScript does. The catalog supplies one Effect per
// EffectScript key; the engine never branches on card names.
type Effect struct {
	Conditions []EffectCondition
	Actions    []EffectAction
}

// EffectContext carries the runtime facts an EffectCondition may test.
type EffectContext struct {
	CoinHeads        bool
	DefenderDamaged  bool
	AttackerEnergyCount int
}

// Evaluate reports whether every condition in the effect holds against ctx.
// An effect with no conditions always applies.
func (e Effect) Evaluate(ctx EffectContext) bool {
	for _, c := range e.Conditions {
		if !evaluateCondition(c, ctx) {
			return false
		}
	}
	return true
}

func evaluateCondition(c EffectCondition, ctx EffectContext) bool {
	switch c.Kind {
	case "COIN_HEADS":
		return ctx.CoinHeads
	case "COIN_TAILS":
		return !ctx.CoinHeads
	case "DEFENDER_HAS_DAMAGE":
		return ctx.DefenderDamaged
	case "ENERGY_COUNT_AT_LEAST":
		return ctx.AttackerEnergyCount >= c.Value
	default:
		return false
	}
}
