package domain

import "testing"

func TestCanTransitionHappyPath(t *testing.T) {
	path := []MatchPhase{
		PhaseWaitingForPlayers,
		PhaseDeckValidation,
		PhaseMatchApproval,
		PhaseDrawingCards,
		PhaseSelectActivePokemon,
		PhaseSelectBenchPokemon,
		PhasePlayerTurn,
		PhaseBetweenTurns,
		PhasePlayerTurn,
		PhaseMatchEnded,
	}
	for i := 1; i < len(path); i++ {
		if !CanTransition(path[i-1], path[i]) {
			t.Fatalf("expected %s -> %s to be legal", path[i-1], path[i])
		}
	}
}

func TestCanTransitionRejectsSkips(t *testing.T) {
	if CanTransition(PhaseWaitingForPlayers, PhasePlayerTurn) {
		t.Fatalf("expected skipping setup phases to be illegal")
	}
}

func TestTerminalPhasesHaveNoTransitions(t *testing.T) {
	for _, terminal := range []MatchPhase{PhaseMatchEnded, PhaseCancelled} {
		if !IsTerminal(terminal) {
			t.Fatalf("expected %s to be terminal", terminal)
		}
		if CanTransition(terminal, PhasePlayerTurn) {
			t.Fatalf("expected no transitions out of terminal phase %s", terminal)
		}
	}
}

func TestMatchAdvanceRejectsIllegalTransition(t *testing.T) {
	m := Match{Phase: PhaseWaitingForPlayers}
	_, ok := m.Advance(PhaseMatchEnded)
	if ok {
		t.Fatalf("expected illegal advance to be rejected")
	}
}
