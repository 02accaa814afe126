package engine_test

import (
	"testing"

	"jester-service/internal/engine"
)

var effectTemplates = map[string]string{
	"effect.chips": "+%d Chips",
	"effect.mult":  "+%d Mult",
	"effect.xmult": "X%d Mult",
}

func testText(key string) string {
	if tpl, ok := effectTemplates[key]; ok {
		return tpl
	}
	return key
}

func mustJoker(t *testing.T, kind engine.JokerKind) engine.Joker {
	t.Helper()
	j, ok := engine.NewJoker(kind)
	if !ok {
		t.Fatalf("unknown joker kind %s", kind)
	}
	return j
}

func scoreCtx() engine.EffectContext {
	return engine.EffectContext{Text: testText}
}

func TestScorePairBaseline(t *testing.T) {
	// Pair of tens plus a kicker: base 10 chips x2 mult, only the pair's
	// chip values count, so 10+10+10 = 30 chips, total 60.
	played := []engine.Card{
		card(engine.Spades, engine.Ten),
		card(engine.Hearts, engine.Ten),
		card(engine.Clubs, engine.Seven),
	}

	result := engine.Score(played, nil, scoreCtx())
	if result.HandType != engine.Pair {
		t.Fatalf("expected Pair, got %s", result.HandType)
	}
	if result.Total != 60 {
		t.Fatalf("expected total 60, got %d", result.Total)
	}
	first := result.Trace[0]
	if first.Chips != 30 || first.Mult != 2 {
		t.Fatalf("unexpected base step: %+v", first)
	}
}

func TestScoreJokerOrderMatters(t *testing.T) {
	played := []engine.Card{
		card(engine.Spades, engine.Ten),
		card(engine.Hearts, engine.Ten),
	}
	flat := mustJoker(t, engine.KindJoker) // +4 mult
	duo := mustJoker(t, engine.KindDuo)    // x2 mult on pairing hands

	flatFirst := engine.Score(played, []engine.Joker{flat, duo}, scoreCtx())
	duoFirst := engine.Score(played, []engine.Joker{duo, flat}, scoreCtx())

	// Base: 30 chips x2 mult. Flat then duo: (2+4)*2=12 mult, 360 total.
	// Duo then flat: 2*2+4=8 mult, 240 total.
	if flatFirst.Total != 360 {
		t.Fatalf("flat-then-duo total = %d, want 360", flatFirst.Total)
	}
	if duoFirst.Total != 240 {
		t.Fatalf("duo-then-flat total = %d, want 240", duoFirst.Total)
	}
	if flatFirst.Total == duoFirst.Total {
		t.Fatal("joker order must change the total")
	}
}

func TestScoreDebuffedCardsGiveNoChips(t *testing.T) {
	tenSpades := card(engine.Spades, engine.Ten)
	tenHearts := card(engine.Hearts, engine.Ten)
	tenSpades.Debuffed = true
	tenHearts.Debuffed = true

	result := engine.Score([]engine.Card{tenSpades, tenHearts}, nil, scoreCtx())
	if result.HandType != engine.Pair {
		t.Fatalf("debuffed pair must still classify as Pair, got %s", result.HandType)
	}
	// Only the base 10 chips remain.
	if result.Trace[0].Chips != 10 {
		t.Fatalf("expected 10 chips from base alone, got %d", result.Trace[0].Chips)
	}
	if result.Total != 20 {
		t.Fatalf("expected total 20, got %d", result.Total)
	}
}

func TestScoreSilentJokersEmitNoStep(t *testing.T) {
	played := []engine.Card{
		card(engine.Spades, engine.Ten),
		card(engine.Hearts, engine.Ten),
	}
	// Droll wants a flush; it stays silent on a pair.
	droll := mustJoker(t, engine.KindDroll)

	result := engine.Score(played, []engine.Joker{droll}, scoreCtx())
	// Base step + terminal step only.
	if len(result.Trace) != 2 {
		t.Fatalf("expected 2 trace steps, got %d", len(result.Trace))
	}
}

func TestScoreTraceTagsJokerSteps(t *testing.T) {
	played := []engine.Card{
		card(engine.Diamonds, engine.Ten),
		card(engine.Diamonds, engine.Four),
	}
	greedy := mustJoker(t, engine.KindGreedy)

	result := engine.Score(played, []engine.Joker{greedy}, scoreCtx())
	if len(result.Trace) != 3 {
		t.Fatalf("expected base, joker and terminal steps, got %d", len(result.Trace))
	}
	step := result.Trace[1]
	if step.JokerID != greedy.ID {
		t.Fatalf("joker step not tagged with instance id: %+v", step)
	}
	if step.Message != "+8 Mult" {
		t.Fatalf("expected formatted message '+8 Mult', got %q", step.Message)
	}
}
