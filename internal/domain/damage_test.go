package domain

import "testing"

func TestCalculateDamageWeakness(t *testing.T) {
	attack := Attack{Cost: []string{"FIRE"}, BaseDamage: 30}
	defender := CardDefinition{Weakness: "FIRE", MaxHP: 90}

	result := CalculateDamage(attack, defender, 0)
	if !result.WeaknessApplied || result.FinalDamage != 60 {
		t.Fatalf("expected weakness to double damage to 60, got %+v", result)
	}
}

func TestCalculateDamageResistanceFloored(t *testing.T) {
	attack := Attack{Cost: []string{"WATER"}, BaseDamage: 20}
	defender := CardDefinition{Resistance: "WATER", MaxHP: 90}

	result := CalculateDamage(attack, defender, 0)
	if !result.ResistanceApplied || result.FinalDamage != 0 {
		t.Fatalf("expected resistance to floor damage at 0, got %+v", result)
	}
}

func TestCalculateDamageHeadsMultiplier(t *testing.T) {
	attack := Attack{Cost: []string{"COLORLESS"}, BaseDamage: 20, RequiresCoin: true, CoinCount: 3}
	defender := CardDefinition{MaxHP: 90}

	result := CalculateDamage(attack, defender, 3)
	if result.FinalDamage != 60 {
		t.Fatalf("expected 20 damage x3 heads = 60, got %+v", result)
	}
}

func TestHasSufficientEnergy(t *testing.T) {
	cases := []struct {
		name     string
		attached []string
		cost     []string
		want     bool
	}{
		{"exact match", []string{"FIRE", "FIRE"}, []string{"FIRE", "FIRE"}, true},
		{"missing type", []string{"FIRE"}, []string{"WATER"}, false},
		{"colorless satisfied by leftover", []string{"FIRE", "WATER"}, []string{"FIRE", "*"}, true},
		{"colorless insufficient", []string{"FIRE"}, []string{"FIRE", "*"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasSufficientEnergy(tc.attached, tc.cost); got != tc.want {
				t.Fatalf("HasSufficientEnergy(%v, %v) = %v, want %v", tc.attached, tc.cost, got, tc.want)
			}
		})
	}
}
