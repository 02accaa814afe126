package engine_test

import (
	"math/rand"
	"testing"

	"jester-service/internal/engine"
)

func TestGenerateBlindsShape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for ante := 1; ante <= 10; ante++ {
		blinds := engine.GenerateBlinds(ante, rng)
		if len(blinds) != 3 {
			t.Fatalf("ante %d: expected 3 blinds, got %d", ante, len(blinds))
		}
		if blinds[0].Type != engine.SmallBlind || blinds[1].Type != engine.BigBlind || blinds[2].Type != engine.BossBlind {
			t.Fatalf("ante %d: wrong order %v %v %v", ante, blinds[0].Type, blinds[1].Type, blinds[2].Type)
		}
		if blinds[0].ScoreMult != 1.0 || blinds[1].ScoreMult != 1.5 {
			t.Fatalf("ante %d: wrong small/big multipliers", ante)
		}
		if blinds[0].Reward != 3 || blinds[1].Reward != 4 || blinds[2].Reward != 5 {
			t.Fatalf("ante %d: wrong rewards", ante)
		}
		boss := blinds[2]
		if boss.Boss == engine.BossNone {
			t.Fatalf("ante %d: boss blind missing a boss type", ante)
		}
		wantMult := 2.0
		if boss.Boss == engine.BossWall {
			wantMult = 4.0
		}
		if boss.ScoreMult != wantMult {
			t.Fatalf("ante %d: boss %s has mult %v, want %v", ante, boss.Boss, boss.ScoreMult, wantMult)
		}
	}
}

func TestAnteBaseScoreTableAndExtrapolation(t *testing.T) {
	tests := []struct {
		ante int
		want int
	}{
		{1, 300},
		{2, 800},
		{8, 50000},
		{9, 900000},
		{12, 1200000},
	}
	for _, tc := range tests {
		if got := engine.AnteBaseScore(tc.ante); got != tc.want {
			t.Fatalf("ante %d: base score %d, want %d", tc.ante, got, tc.want)
		}
	}
}

func TestTargetScoreFloorsMultiplier(t *testing.T) {
	big := engine.Blind{Type: engine.BigBlind, ScoreMult: 1.5}
	if got := engine.TargetScore(1, big); got != 450 {
		t.Fatalf("big blind ante 1 target = %d, want 450", got)
	}
	small := engine.Blind{Type: engine.SmallBlind, ScoreMult: 1.0}
	if got := engine.TargetScore(1, small); got != 300 {
		t.Fatalf("small blind ante 1 target = %d, want 300", got)
	}
}

func TestApplyDebuffsMarksOnlyBossSuit(t *testing.T) {
	hand := []engine.Card{
		card(engine.Spades, engine.Ten),
		card(engine.Hearts, engine.Ten),
		card(engine.Spades, engine.Four),
	}
	goad := engine.Blind{Type: engine.BossBlind, Boss: engine.BossGoad}

	engine.ApplyDebuffs(hand, goad)
	for _, c := range hand {
		if (c.Suit == engine.Spades) != c.Debuffed {
			t.Fatalf("wrong debuff on %s", c)
		}
	}

	// Reapplying against a non-suit boss clears everything: the pass
	// recomputes from scratch rather than patching.
	engine.ApplyDebuffs(hand, engine.Blind{Type: engine.BossBlind, Boss: engine.BossPsychic})
	for _, c := range hand {
		if c.Debuffed {
			t.Fatalf("debuff not cleared on %s", c)
		}
	}
}

func TestApplyDebuffsIdempotent(t *testing.T) {
	hand := []engine.Card{
		card(engine.Clubs, engine.Ten),
		card(engine.Hearts, engine.Two),
	}
	club := engine.Blind{Type: engine.BossBlind, Boss: engine.BossClub}
	engine.ApplyDebuffs(hand, club)
	engine.ApplyDebuffs(hand, club)
	if !hand[0].Debuffed || hand[1].Debuffed {
		t.Fatalf("idempotency broken: %+v", hand)
	}
}
