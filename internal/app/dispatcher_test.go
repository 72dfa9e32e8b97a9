package app

import (
	"context"
	"testing"

	"duelcore/internal/domain"
	"duelcore/internal/ports"
	"duelcore/internal/ports/memory"
)

const (
	cardBasicID  = "basic-a"
	cardEnergyID = "energy-colorless"
)

func basicCreatureDef() domain.CardDefinition {
	return domain.CardDefinition{
		CardID: cardBasicID,
		Name:   "Basic A",
		Kind:   domain.CardKindCreature,
		Stage:  domain.StageBasic,
		MaxHP:  60,
		Attacks: []domain.Attack{
			{Name: "Tackle", Cost: []string{"*"}, BaseDamage: 60},
		},
	}
}

func energyDef() domain.CardDefinition {
	return domain.CardDefinition{
		CardID:     cardEnergyID,
		Name:       "Colorless Energy",
		Kind:       domain.CardKindEnergy,
		EnergyType: "COLORLESS",
	}
}

// buildDeckCardIDs returns 60 card ids: 20 basics + 40 energy, enough to
// set an active pokemon and attach energy across a short test scenario.
func buildDeckCardIDs() []string {
	ids := make([]string, 0, 60)
	for i := 0; i < 20; i++ {
		ids = append(ids, cardBasicID)
	}
	for i := 0; i < 40; i++ {
		ids = append(ids, cardEnergyID)
	}
	return ids
}

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	catalog := memory.NewCardCatalog([]domain.CardDefinition{basicCreatureDef(), energyDef()})
	decks := memory.NewDeckRepo([]ports.DeckList{
		registeredDeck("deck-p1", "p1", buildDeckCardIDs()),
		registeredDeck("deck-p2", "p2", buildDeckCardIDs()),
	})
	tournaments := memory.NewTournamentRepo(nil)
	store := memory.NewMatchStore()
	return NewDispatcher(catalog, decks, tournaments, store, 42)
}

// advanceThroughSetup drives a freshly created match from MATCH_APPROVAL to
// PLAYER_TURN using only the public dispatch surface, mirroring how a real
// client drives the engine end to end (spec §8's literal scenarios).
func advanceThroughSetup(t *testing.T, d *Dispatcher, matchID string) domain.Match {
	t.Helper()
	ctx := context.Background()

	for _, pid := range []string{"p1", "p2"} {
		if _, err := d.Execute(ctx, matchID, Action{ActionID: "approve-" + pid, PlayerID: pid, Type: ActionApproveMatch}); err != nil {
			t.Fatalf("approve match for %s: %v", pid, err)
		}
	}
	for _, pid := range []string{"p1", "p2"} {
		if _, err := d.Execute(ctx, matchID, Action{ActionID: "draw-" + pid, PlayerID: pid, Type: ActionDrawInitialCards}); err != nil {
			t.Fatalf("draw initial cards for %s: %v", pid, err)
		}
	}

	match, err := d.Store.LoadMatch(ctx, matchID)
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	for _, pid := range []string{"p1", "p2"} {
		basic := findBasicInHand(t, match, pid)
		if _, err := d.Execute(ctx, matchID, Action{ActionID: "setactive-" + pid, PlayerID: pid, Type: ActionSetActivePokemon, Data: map[string]any{"instanceId": basic}}); err != nil {
			t.Fatalf("set active for %s: %v", pid, err)
		}
		match, err = d.Store.LoadMatch(ctx, matchID)
		if err != nil {
			t.Fatalf("reload match: %v", err)
		}
	}
	for _, pid := range []string{"p1", "p2"} {
		if _, err := d.Execute(ctx, matchID, Action{ActionID: "setup-" + pid, PlayerID: pid, Type: ActionCompleteInitialSetup}); err != nil {
			t.Fatalf("complete setup for %s: %v", pid, err)
		}
	}

	match, err = d.Store.LoadMatch(ctx, matchID)
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	return match
}

func findBasicInHand(t *testing.T, match domain.Match, playerID string) string {
	t.Helper()
	for _, c := range match.Game.Players[playerID].Hand {
		if c.Definition.Kind == domain.CardKindCreature && c.Definition.Stage == domain.StageBasic {
			return c.InstanceID
		}
	}
	t.Fatalf("no basic creature found in %s's hand", playerID)
	return ""
}

// turnPlayerAndOpponent returns who holds the turn and the other seat, since
// APPROVE_MATCH now resolves a real coin toss and the outcome is not fixed
// seat order.
func turnPlayerAndOpponent(match domain.Match) (string, string) {
	turn := match.Game.TurnPlayerID
	return turn, match.OpponentOf(turn)
}

func findEnergyInHand(t *testing.T, match domain.Match, playerID string) string {
	t.Helper()
	for _, c := range match.Game.Players[playerID].Hand {
		if c.Definition.Kind == domain.CardKindEnergy {
			return c.InstanceID
		}
	}
	t.Fatalf("no energy card found in %s's hand", playerID)
	return ""
}

func TestFullMatchSetupReachesPlayerTurn(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t)

	match, err := d.NewMatch(ctx, "match-1", "p1", "deck-p1", "p2", "deck-p2", "")
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if err := d.Store.SaveMatch(ctx, match); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}

	final := advanceThroughSetup(t, d, "match-1")
	if final.Phase != domain.PhasePlayerTurn {
		t.Fatalf("expected PLAYER_TURN after setup, got %s", final.Phase)
	}
	if final.FirstPlayerID != "p1" && final.FirstPlayerID != "p2" {
		t.Fatalf("expected the coin toss to record a first player, got %q", final.FirstPlayerID)
	}
	if final.Game.TurnPlayerID != final.FirstPlayerID {
		t.Fatalf("expected the coin-toss winner %q to take the first turn, got %s", final.FirstPlayerID, final.Game.TurnPlayerID)
	}
	wantFirst := final.PlayerIDs[1]
	if final.CoinTossResult {
		wantFirst = final.PlayerIDs[0]
	}
	if final.FirstPlayerID != wantFirst {
		t.Fatalf("expected FirstPlayerID to match CoinTossResult's seat, got %q", final.FirstPlayerID)
	}
}

func TestApproveMatchResolvesCoinTossDeterministically(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t)

	match, err := d.NewMatch(ctx, "match-toss", "p1", "deck-p1", "p2", "deck-p2", "")
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if err := d.Store.SaveMatch(ctx, match); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}

	wantWonByFirstSeat := domain.CoinTossResult("match-toss")

	for _, pid := range []string{"p1", "p2"} {
		if _, err := d.Execute(ctx, "match-toss", Action{ActionID: "approve-" + pid, PlayerID: pid, Type: ActionApproveMatch}); err != nil {
			t.Fatalf("approve match for %s: %v", pid, err)
		}
	}

	final, err := d.Store.LoadMatch(ctx, "match-toss")
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	if final.CoinTossResult != wantWonByFirstSeat {
		t.Fatalf("expected CoinTossResult to match domain.CoinTossResult(matchId), got %v want %v", final.CoinTossResult, wantWonByFirstSeat)
	}
	wantFirst := final.PlayerIDs[1]
	if wantWonByFirstSeat {
		wantFirst = final.PlayerIDs[0]
	}
	if final.FirstPlayerID != wantFirst {
		t.Fatalf("expected FirstPlayerID %q to follow the coin toss, got %q", wantFirst, final.FirstPlayerID)
	}
}

func TestAttackWithoutEnergyIsRejected(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t)

	match, err := d.NewMatch(ctx, "match-2", "p1", "deck-p1", "p2", "deck-p2", "")
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if err := d.Store.SaveMatch(ctx, match); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}
	match = advanceThroughSetup(t, d, "match-2")
	attacker, _ := turnPlayerAndOpponent(match)

	_, err = d.Execute(ctx, "match-2", Action{ActionID: "atk-1", PlayerID: attacker, Type: ActionAttack, Data: map[string]any{"attackName": "Tackle"}})
	appErr, ok := err.(*AppError)
	if !ok || appErr.Kind != ErrInvalidAction {
		t.Fatalf("expected INVALID_ACTION for an attack with no energy, got %v", err)
	}
}

func TestAttackKnocksOutDefenderAndAwardsPrize(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t)

	match, err := d.NewMatch(ctx, "match-3", "p1", "deck-p1", "p2", "deck-p2", "")
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if err := d.Store.SaveMatch(ctx, match); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}
	match = advanceThroughSetup(t, d, "match-3")
	attacker, defender := turnPlayerAndOpponent(match)

	// Bench a spare basic for the defender so the knockout leaves them a
	// Pokémon in play and the match does not end on NO_POKEMON.
	dp := match.Game.Players[defender]
	dp.BenchCards = append(dp.BenchCards, domain.NewCardInstance("bench-guard", basicCreatureDef(), match.Game.TurnNumber))
	match.Game.Players[defender] = dp
	if err := d.Store.SaveMatch(ctx, match); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}

	energyID := findEnergyInHand(t, match, attacker)
	if _, err := d.Execute(ctx, "match-3", Action{ActionID: "energy-1", PlayerID: attacker, Type: ActionAttachEnergy, Data: map[string]any{
		"energyInstanceId": energyID,
		"targetInstanceId": match.Game.Players[attacker].ActiveCard.InstanceID,
	}}); err != nil {
		t.Fatalf("attach energy: %v", err)
	}

	_, err = d.Execute(ctx, "match-3", Action{ActionID: "atk-1", PlayerID: attacker, Type: ActionAttack, Data: map[string]any{"attackName": "Tackle"}})
	if err != nil {
		t.Fatalf("attack: %v", err)
	}

	match, err = d.Store.LoadMatch(ctx, "match-3")
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	if match.Phase != domain.PhaseAwaitingKnockoutSelection {
		t.Fatalf("expected AWAITING_KNOCKOUT_SELECTION after a 60-damage hit on a 60hp defender, got %s", match.Phase)
	}

	prizeID := match.Game.Players[attacker].Prizes[0].InstanceID
	_, err = d.Execute(ctx, "match-3", Action{ActionID: "prize-1", PlayerID: attacker, Type: ActionSelectPrize, Data: map[string]any{"prizeInstanceId": prizeID}})
	if err != nil {
		t.Fatalf("select prize: %v", err)
	}

	match, err = d.Store.LoadMatch(ctx, "match-3")
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	if len(match.Game.Players[attacker].Prizes) != 5 {
		t.Fatalf("expected one prize to be claimed, have %d remaining", len(match.Game.Players[attacker].Prizes))
	}
}

func TestConcedeEndsMatch(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t)

	match, err := d.NewMatch(ctx, "match-4", "p1", "deck-p1", "p2", "deck-p2", "")
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if err := d.Store.SaveMatch(ctx, match); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}
	advanceThroughSetup(t, d, "match-4")

	_, err = d.Execute(ctx, "match-4", Action{ActionID: "concede-1", PlayerID: "p2", Type: ActionConcede})
	if err != nil {
		t.Fatalf("concede: %v", err)
	}

	final, err := d.Store.LoadMatch(ctx, "match-4")
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	if final.Phase != domain.PhaseMatchEnded || final.WinReason != domain.WinConcede || final.WinnerID != "p1" {
		t.Fatalf("expected p1 to win by concede, got phase=%s reason=%s winner=%s", final.Phase, final.WinReason, final.WinnerID)
	}
}

func TestActionFilterRejectsOutOfPhaseAction(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t)

	match, err := d.NewMatch(ctx, "match-5", "p1", "deck-p1", "p2", "deck-p2", "")
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if err := d.Store.SaveMatch(ctx, match); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}

	_, err = d.Execute(ctx, "match-5", Action{ActionID: "bad-1", PlayerID: "p1", Type: ActionAttack})
	appErr, ok := err.(*AppError)
	if !ok || appErr.Kind != ErrInvalidAction {
		t.Fatalf("expected ATTACK to be rejected during MATCH_APPROVAL, got %v", err)
	}
}

// fieryCreatureDef is a second basic whose attack carries an EffectScript,
// used to exercise the Effect interpreter wired into applyAttackDamage.
func fieryCreatureDef() domain.CardDefinition {
	return domain.CardDefinition{
		CardID: "basic-fiery",
		Name:   "Basic Fiery",
		Kind:   domain.CardKindCreature,
		Stage:  domain.StageBasic,
		MaxHP:  100,
		Attacks: []domain.Attack{
			{Name: "Ember", Cost: []string{"*"}, BaseDamage: 10, EffectScript: "ember-bonus"},
		},
	}
}

// fieryDeckCardIDs returns 60 card ids for a deck composed entirely of
// basic-fiery creatures and energy, so whichever basic the shuffle deals
// into the opening hand is guaranteed to be basic-fiery.
func fieryDeckCardIDs() []string {
	ids := make([]string, 0, 60)
	for i := 0; i < 20; i++ {
		ids = append(ids, "basic-fiery")
	}
	for i := 0; i < 40; i++ {
		ids = append(ids, cardEnergyID)
	}
	return ids
}

func TestAttackEffectAddsBonusDamageWhenWired(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewCardCatalog([]domain.CardDefinition{fieryCreatureDef(), basicCreatureDef(), energyDef()})
	decks := memory.NewDeckRepo([]ports.DeckList{
		registeredDeck("deck-p1", "p1", fieryDeckCardIDs()),
		registeredDeck("deck-p2", "p2", buildDeckCardIDs()),
	})
	d := NewDispatcher(catalog, decks, memory.NewTournamentRepo(nil), memory.NewMatchStore(), 42)
	d.Effects["ember-bonus"] = domain.Effect{
		Actions: []domain.EffectAction{{Kind: "DEAL_BONUS_DAMAGE", Amount: 20}},
	}

	match, err := d.NewMatch(ctx, "match-7", "p1", "deck-p1", "p2", "deck-p2", "")
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if err := d.Store.SaveMatch(ctx, match); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}
	match = advanceThroughSetup(t, d, "match-7")

	// The coin toss may hand p2 the first turn; pass once to reach p1's
	// turn, since END_TURN carries no once-per-turn restriction of its own.
	if match.Game.TurnPlayerID != "p1" {
		if _, err := d.Execute(ctx, "match-7", Action{ActionID: "pass-1", PlayerID: match.Game.TurnPlayerID, Type: ActionEndTurn}); err != nil {
			t.Fatalf("pass turn to p1: %v", err)
		}
		match, err = d.Store.LoadMatch(ctx, "match-7")
		if err != nil {
			t.Fatalf("load match: %v", err)
		}
	}

	active := match.Game.Players["p1"].ActiveCard
	if active == nil || active.Definition.CardID != "basic-fiery" {
		t.Fatalf("expected p1's active pokemon to be basic-fiery, got %+v", active)
	}

	energyID := findEnergyInHand(t, match, "p1")
	if _, err := d.Execute(ctx, "match-7", Action{ActionID: "energy-1", PlayerID: "p1", Type: ActionAttachEnergy, Data: map[string]any{
		"energyInstanceId": energyID,
		"targetInstanceId": active.InstanceID,
	}}); err != nil {
		t.Fatalf("attach energy: %v", err)
	}

	if _, err := d.Execute(ctx, "match-7", Action{ActionID: "atk-1", PlayerID: "p1", Type: ActionAttack, Data: map[string]any{"attackName": "Ember"}}); err != nil {
		t.Fatalf("attack: %v", err)
	}

	final, err := d.Store.LoadMatch(ctx, "match-7")
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	defender := final.Game.Players["p2"].ActiveCard
	if defender == nil {
		t.Fatalf("expected p2's active pokemon to survive a 30-damage hit")
	}
	if defender.DamageCounters != 30 {
		t.Fatalf("expected base 10 + 20 bonus = 30 damage counters from the wired effect, got %d", defender.DamageCounters)
	}
}

func TestUnauthorizedPlayerRejected(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t)

	match, err := d.NewMatch(ctx, "match-6", "p1", "deck-p1", "p2", "deck-p2", "")
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if err := d.Store.SaveMatch(ctx, match); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}

	_, err = d.Execute(ctx, "match-6", Action{ActionID: "intruder-1", PlayerID: "intruder", Type: ActionApproveMatch})
	appErr, ok := err.(*AppError)
	if !ok || appErr.Kind != ErrUnauthorized {
		t.Fatalf("expected UNAUTHORIZED for a non-participant, got %v", err)
	}
}
