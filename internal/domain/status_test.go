package domain

import "testing"

func newHealthyCard(maxHP int) CardInstance {
	return CardInstance{
		InstanceID: "c1",
		Definition: CardDefinition{MaxHP: maxHP},
		CurrentHP:  maxHP,
	}
}

func TestApplyBetweenTurnsStatusPoison(t *testing.T) {
	card := newHealthyCard(100).WithStatus(StatusPoisoned)
	result := ApplyBetweenTurnsStatus(card, func() bool { return false })
	if result.DamageDealt != 10 || result.Instance.CurrentHP != 90 {
		t.Fatalf("expected 10 poison damage, got %+v", result)
	}
}

func TestApplyBetweenTurnsStatusBurnTailsClears(t *testing.T) {
	card := newHealthyCard(100).WithStatus(StatusBurned)
	result := ApplyBetweenTurnsStatus(card, func() bool { return false })
	if result.DamageDealt != 0 {
		t.Fatalf("expected tails to deal no burn damage, got %+v", result)
	}
	if result.Instance.HasStatus(StatusBurned) {
		t.Fatalf("expected tails to clear burn")
	}
}

func TestApplyBetweenTurnsStatusBurnHeadsPersists(t *testing.T) {
	card := newHealthyCard(100).WithStatus(StatusBurned)
	result := ApplyBetweenTurnsStatus(card, func() bool { return true })
	if result.DamageDealt != 20 || !result.Instance.HasStatus(StatusBurned) {
		t.Fatalf("expected heads to deal 20 and keep burn, got %+v", result)
	}
}

func TestApplyBetweenTurnsStatusAsleepWakesOnHeads(t *testing.T) {
	card := newHealthyCard(100).WithStatus(StatusAsleep)
	result := ApplyBetweenTurnsStatus(card, func() bool { return true })
	if !result.WokeUp || result.Instance.HasStatus(StatusAsleep) {
		t.Fatalf("expected heads to wake the card, got %+v", result)
	}
}

func TestConfusionCheckTailsSelfDamages(t *testing.T) {
	card := newHealthyCard(100).WithStatus(StatusConfused)
	proceeds, hurt := ConfusionCheck(card, func() bool { return false })
	if proceeds {
		t.Fatalf("expected confused tails to prevent the attack")
	}
	if hurt.CurrentHP != 70 {
		t.Fatalf("expected confused self-hit to deal 30, got hp=%d", hurt.CurrentHP)
	}
}

func TestCanAttackOrRetreat(t *testing.T) {
	asleep := newHealthyCard(100).WithStatus(StatusAsleep)
	if CanAttackOrRetreat(asleep, false) {
		t.Fatalf("asleep cards must not be able to attack")
	}

	confused := newHealthyCard(100).WithStatus(StatusConfused)
	if !CanAttackOrRetreat(confused, false) {
		t.Fatalf("confused cards may attempt to attack")
	}
	if !CanAttackOrRetreat(confused, true) {
		t.Fatalf("confused cards may still retreat")
	}

	paralyzed := newHealthyCard(100).WithStatus(StatusParalyzed)
	if CanAttackOrRetreat(paralyzed, true) {
		t.Fatalf("paralyzed cards must not be able to retreat")
	}
}
