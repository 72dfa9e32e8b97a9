package domain

import "testing"

func TestNewCoinFlipStateAttack(t *testing.T) {
	state := NewCoinFlipState("flip-1", "atk-1", 3, CoinFlipContextAttack)

	if state.FlipID != "flip-1" || state.ActionID != "atk-1" || state.FlipCount != 3 {
		t.Fatalf("unexpected state: %+v", state)
	}
	if state.Context != CoinFlipContextAttack {
		t.Fatalf("expected ATTACK context, got %s", state.Context)
	}
}

func TestNewCoinFlipStateStatusCheck(t *testing.T) {
	state := NewCoinFlipState("flip-2", "atk-2", 1, CoinFlipContextStatusCheck)

	if state.Context != CoinFlipContextStatusCheck {
		t.Fatalf("expected STATUS_CHECK context, got %s", state.Context)
	}
}
