package domain

import "testing"

func basePlayers() map[string]PlayerGameState {
	return map[string]PlayerGameState{
		"p1": {PlayerID: "p1", Prizes: make([]CardInstance, 6), ActiveCard: &CardInstance{}, Deck: make([]CardInstance, 10)},
		"p2": {PlayerID: "p2", Prizes: make([]CardInstance, 6), ActiveCard: &CardInstance{}, Deck: make([]CardInstance, 10)},
	}
}

func TestCheckWinConditionsConcedeTakesPriority(t *testing.T) {
	players := basePlayers()
	p2 := players["p2"]
	p2.HasNoPokemonInPlay()
	p2.Conceded = true
	players["p2"] = p2

	// Also make p2 have no pokemon, to prove CONCEDE still wins priority.
	p2.ActiveCard = nil
	players["p2"] = p2

	outcome := CheckWinConditions(players, "p1")
	if outcome.Reason != WinConcede || outcome.WinnerID != "p1" {
		t.Fatalf("expected concede to win over no-pokemon, got %+v", outcome)
	}
}

func TestCheckWinConditionsNoPokemon(t *testing.T) {
	players := basePlayers()
	p2 := players["p2"]
	p2.ActiveCard = nil
	p2.BenchCards = nil
	players["p2"] = p2

	outcome := CheckWinConditions(players, "p1")
	if outcome.Reason != WinNoPokemon || outcome.WinnerID != "p1" {
		t.Fatalf("expected p1 to win on p2 having no pokemon, got %+v", outcome)
	}
}

func TestCheckWinConditionsPrizeCards(t *testing.T) {
	players := basePlayers()
	p1 := players["p1"]
	p1.Prizes = nil
	players["p1"] = p1

	outcome := CheckWinConditions(players, "p2")
	if outcome.Reason != WinPrizeCards || outcome.WinnerID != "p1" {
		t.Fatalf("expected p1 to win by taking all prizes, got %+v", outcome)
	}
}

func TestCheckWinConditionsDeckOut(t *testing.T) {
	players := basePlayers()
	p1 := players["p1"]
	p1.Deck = nil
	players["p1"] = p1

	outcome := CheckWinConditions(players, "p1")
	if outcome.Reason != WinDeckOut || outcome.WinnerID != "p2" {
		t.Fatalf("expected p2 to win when p1 must draw from an empty deck, got %+v", outcome)
	}
}

func TestCheckWinConditionsNone(t *testing.T) {
	players := basePlayers()
	outcome := CheckWinConditions(players, "p1")
	if outcome.Reason != WinNone {
		t.Fatalf("expected no win condition, got %+v", outcome)
	}
}
