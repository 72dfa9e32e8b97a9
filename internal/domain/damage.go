package domain

// DamageResult reports the outcome of resolving one attack's damage against
// a defending card, including the modifiers that applied.
type DamageResult struct {
	BaseDamage      int
	WeaknessApplied bool
	ResistanceApplied bool
	FinalDamage     int
}

// CalculateDamage first applies the "times heads" multiplier for attacks
// whose damage scales with a coin flip run (e.g. "20 damage for each
// heads"), then weakness (x2) and resistance (-30, floored at 0) in that
// order, matching the source game's fixed modifier ordering. For a coin-gated attack, base
// damage is always attack.BaseDamage * headsCount, including the
// all-tails case (headsCount == 0, zero damage); headsCount is ignored for
// attacks that do not require a coin flip at all.
func CalculateDamage(attack Attack, defender CardDefinition, headsCount int) DamageResult {
	base := attack.BaseDamage
	if attack.RequiresCoin {
		base = attack.BaseDamage * headsCount
	}

	result := DamageResult{BaseDamage: base}
	dmg := base

	if defender.Weakness != "" && defender.Weakness == attackEnergyType(attack) {
		dmg *= 2
		result.WeaknessApplied = true
	}

	if defender.Resistance != "" && defender.Resistance == attackEnergyType(attack) {
		dmg -= 30
		result.ResistanceApplied = true
	}

	if dmg < 0 {
		dmg = 0
	}
	result.FinalDamage = dmg
	return result
}

// attackEnergyType resolves the energy type an attack is considered to be
// "of" for weakness/resistance purposes: the first cost entry, matching the
// source game's convention that an attack's type follows its primary cost.
func attackEnergyType(attack Attack) string {
	if len(attack.Cost) == 0 {
		return ""
	}
	return attack.Cost[0]
}

// ApplyDamagePrevention reduces a computed damage amount by a flat
// prevention value (e.g. an in-play effect granting "prevent all damage
// from X"), floored at zero.
func ApplyDamagePrevention(damage, prevent int) int {
	damage -= prevent
	if damage < 0 {
		damage = 0
	}
	return damage
}

// HasSufficientEnergy reports whether the attached energy types on a card
// satisfy an attack's cost. Colorless cost entries ("*") are satisfied by
// any leftover energy of any type.
func HasSufficientEnergy(attached []string, cost []string) bool {
	pool := make(map[string]int, len(attached))
	for _, e := range attached {
		pool[e]++
	}

	var colorless int
	for _, c := range cost {
		if c == "*" {
			colorless++
			continue
		}
		if pool[c] <= 0 {
			return false
		}
		pool[c]--
	}

	var remaining int
	for _, n := range pool {
		remaining += n
	}
	return remaining >= colorless
}
