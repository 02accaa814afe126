package engine_test

import (
	"errors"
	"testing"

	"jester-service/internal/engine"
	appErr "jester-service/pkg/errors"
)

// newTestRun builds a run and pins its hand and blind so outcomes are exact.
func newTestRun(t *testing.T, hand []engine.Card) *engine.Run {
	t.Helper()
	r := engine.NewRun(1, engine.Options{})
	r.Hand = hand
	r.Jokers = nil
	r.CurrentBlind = engine.Blind{
		ID:        "small-1",
		NameKey:   "blind.small",
		Type:      engine.SmallBlind,
		ScoreMult: 1.0,
		Reward:    3,
	}
	r.TargetScore = engine.TargetScore(r.Ante, r.CurrentBlind)
	return r
}

func selectCards(t *testing.T, r *engine.Run, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := r.ToggleSelect(id); err != nil {
			t.Fatalf("select %s: %v", id, err)
		}
	}
}

func TestNewRunInitialState(t *testing.T) {
	r := engine.NewRun(42, engine.Options{})
	if r.Status != engine.StatusPlaying {
		t.Fatalf("expected playing, got %s", r.Status)
	}
	if len(r.Hand) != 8 {
		t.Fatalf("expected 8-card hand, got %d", len(r.Hand))
	}
	if len(r.Deck) != 44 {
		t.Fatalf("expected 44 cards left in deck, got %d", len(r.Deck))
	}
	if r.Ante != 1 || r.Round != 1 {
		t.Fatalf("expected ante 1 round 1, got %d/%d", r.Ante, r.Round)
	}
	if r.HandsLeft != 4 || r.DiscardsLeft != 3 || r.Money != 4 {
		t.Fatalf("wrong starting resources: %d hands %d discards $%d", r.HandsLeft, r.DiscardsLeft, r.Money)
	}
	if len(r.Jokers) != 1 || r.Jokers[0].Kind != engine.KindJoker {
		t.Fatalf("expected the starting joker, got %+v", r.Jokers)
	}
}

func TestNewRunSeedReproducible(t *testing.T) {
	a := engine.NewRun(7, engine.Options{})
	b := engine.NewRun(7, engine.Options{})
	for i := range a.Hand {
		if a.Hand[i].Suit != b.Hand[i].Suit || a.Hand[i].Rank != b.Hand[i].Rank {
			t.Fatalf("same seed must deal the same hand: %s vs %s", a.Hand[i], b.Hand[i])
		}
	}
	if a.CurrentBlind.Boss != b.CurrentBlind.Boss {
		t.Fatal("same seed must pick the same boss")
	}
}

func TestToggleSelectLimit(t *testing.T) {
	r := engine.NewRun(1, engine.Options{})
	for i := 0; i < 5; i++ {
		if err := r.ToggleSelect(r.Hand[i].ID); err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
	}
	if err := r.ToggleSelect(r.Hand[5].ID); !errors.Is(err, appErr.ErrSelectionLimit) {
		t.Fatalf("expected ErrSelectionLimit, got %v", err)
	}
	// Deselecting still works at the cap.
	if err := r.ToggleSelect(r.Hand[0].ID); err != nil {
		t.Fatalf("deselect: %v", err)
	}
}

func TestPlayBelowTargetStaysPlaying(t *testing.T) {
	hand := []engine.Card{
		card(engine.Spades, engine.Ten),
		card(engine.Hearts, engine.Ten),
		card(engine.Clubs, engine.Seven),
		card(engine.Diamonds, engine.Two),
		card(engine.Spades, engine.Three),
		card(engine.Hearts, engine.Four),
		card(engine.Clubs, engine.Five),
		card(engine.Diamonds, engine.Six),
	}
	r := newTestRun(t, hand)
	selectCards(t, r, hand[0].ID, hand[1].ID, hand[2].ID)

	result, err := r.Play(testText)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if result.HandType != engine.Pair || result.Total != 60 {
		t.Fatalf("expected Pair worth 60, got %s worth %d", result.HandType, result.Total)
	}
	if r.Status != engine.StatusPlaying {
		t.Fatalf("60 < 300 must stay playing, got %s", r.Status)
	}
	if r.HandsLeft != 3 {
		t.Fatalf("hands left = %d, want 3", r.HandsLeft)
	}
	if r.Score != 60 {
		t.Fatalf("cumulative score = %d, want 60", r.Score)
	}
	if len(r.Hand) != 8 {
		t.Fatalf("hand must refill to 8, got %d", len(r.Hand))
	}
}

func TestPlayReachingTargetWinsEvenOnLastHand(t *testing.T) {
	hand := []engine.Card{
		card(engine.Spades, engine.Ten),
		card(engine.Hearts, engine.Ten),
	}
	r := newTestRun(t, hand)
	r.HandsLeft = 1
	r.TargetScore = 60 // a pair of tens scores exactly 60
	selectCards(t, r, hand[0].ID, hand[1].ID)

	if _, err := r.Play(testText); err != nil {
		t.Fatalf("play: %v", err)
	}
	if r.Status != engine.StatusWon {
		t.Fatalf("reaching the target must win, got %s", r.Status)
	}
}

func TestPlayExhaustingHandsLoses(t *testing.T) {
	hand := []engine.Card{
		card(engine.Spades, engine.Two),
		card(engine.Hearts, engine.Three),
	}
	r := newTestRun(t, hand)
	r.HandsLeft = 1
	selectCards(t, r, hand[0].ID)

	if _, err := r.Play(testText); err != nil {
		t.Fatalf("play: %v", err)
	}
	if r.Status != engine.StatusLost {
		t.Fatalf("expected lost, got %s", r.Status)
	}
}

func TestPlayRejectionsLeaveStateUntouched(t *testing.T) {
	hand := []engine.Card{
		card(engine.Spades, engine.Ten),
		card(engine.Hearts, engine.Ten),
	}
	r := newTestRun(t, hand)

	// Nothing selected.
	if _, err := r.Play(testText); !errors.Is(err, appErr.ErrNothingSelected) {
		t.Fatalf("expected ErrNothingSelected, got %v", err)
	}

	// Psychic boss demands exactly 5 cards.
	r.CurrentBlind.Boss = engine.BossPsychic
	selectCards(t, r, hand[0].ID, hand[1].ID)
	if _, err := r.Play(testText); !errors.Is(err, appErr.ErrMustPlayFive) {
		t.Fatalf("expected ErrMustPlayFive, got %v", err)
	}
	if r.Score != 0 || r.HandsLeft != 4 || len(r.Hand) != 2 {
		t.Fatal("rejected play must not change state")
	}

	// No hands remaining.
	r.CurrentBlind.Boss = engine.BossNone
	r.HandsLeft = 0
	if _, err := r.Play(testText); !errors.Is(err, appErr.ErrNoHandsLeft) {
		t.Fatalf("expected ErrNoHandsLeft, got %v", err)
	}
}

func TestPsychicAcceptsExactlyFiveCards(t *testing.T) {
	hand := []engine.Card{
		card(engine.Spades, engine.Ten),
		card(engine.Hearts, engine.Ten),
		card(engine.Clubs, engine.Seven),
		card(engine.Diamonds, engine.Two),
		card(engine.Spades, engine.Three),
		card(engine.Hearts, engine.Four),
	}
	r := newTestRun(t, hand)
	r.CurrentBlind.Boss = engine.BossPsychic
	selectCards(t, r, hand[0].ID, hand[1].ID, hand[2].ID, hand[3].ID, hand[4].ID)

	result, err := r.Play(testText)
	if err != nil {
		t.Fatalf("five-card play must satisfy the psychic: %v", err)
	}
	if result.HandType != engine.Pair {
		t.Fatalf("expected Pair, got %s", result.HandType)
	}
	if r.HandsLeft != 3 {
		t.Fatalf("hands left = %d, want 3", r.HandsLeft)
	}
}

func TestWinPaysRewardsAndInterest(t *testing.T) {
	hand := []engine.Card{
		card(engine.Spades, engine.Ten),
		card(engine.Hearts, engine.Ten),
	}
	r := newTestRun(t, hand)
	r.Money = 12
	r.HandsLeft = 4
	r.TargetScore = 1
	r.CurrentBlind.Reward = 5
	selectCards(t, r, hand[0].ID, hand[1].ID)

	if _, err := r.Play(testText); err != nil {
		t.Fatalf("play: %v", err)
	}
	// Rewards: 4 hands remaining + reward 5 = 9. Interest: min(5, (12+9)/5) = 4.
	if r.InterestEarned != 4 {
		t.Fatalf("interest = %d, want 4", r.InterestEarned)
	}
	if r.Money != 25 {
		t.Fatalf("money = %d, want 25", r.Money)
	}
}

func TestInterestCapsAtFive(t *testing.T) {
	hand := []engine.Card{card(engine.Spades, engine.Ace)}
	r := newTestRun(t, hand)
	r.Money = 100
	r.TargetScore = 1
	selectCards(t, r, hand[0].ID)

	if _, err := r.Play(testText); err != nil {
		t.Fatalf("play: %v", err)
	}
	if r.InterestEarned != 5 {
		t.Fatalf("interest = %d, want cap of 5", r.InterestEarned)
	}
}

func TestDiscardSpendsNoHand(t *testing.T) {
	r := engine.NewRun(3, engine.Options{})
	selectCards(t, r, r.Hand[0].ID, r.Hand[1].ID)

	if err := r.Discard(); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if r.DiscardsLeft != 2 {
		t.Fatalf("discards left = %d, want 2", r.DiscardsLeft)
	}
	if r.HandsLeft != 4 {
		t.Fatalf("discard must not consume a hand, got %d", r.HandsLeft)
	}
	if len(r.Hand) != 8 {
		t.Fatalf("hand must refill to 8, got %d", len(r.Hand))
	}

	r.DiscardsLeft = 0
	selectCards(t, r, r.Hand[0].ID)
	if err := r.Discard(); !errors.Is(err, appErr.ErrNoDiscardsLeft) {
		t.Fatalf("expected ErrNoDiscardsLeft, got %v", err)
	}
}

func TestShopBuySellReroll(t *testing.T) {
	r := winShop(t)
	r.Money = 50

	if len(r.ShopJokers) != 3 {
		t.Fatalf("expected 3 offers, got %d", len(r.ShopJokers))
	}
	if r.RerollCost != 5 {
		t.Fatalf("reroll cost = %d, want base 5", r.RerollCost)
	}

	offer := r.ShopJokers[0]
	moneyBefore := r.Money
	if err := r.BuyJoker(offer.ID); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if r.Money != moneyBefore-offer.Price {
		t.Fatalf("price not deducted")
	}
	if r.Jokers[len(r.Jokers)-1].ID != offer.ID {
		t.Fatal("bought joker must append at the end of the collection")
	}
	if len(r.ShopJokers) != 2 {
		t.Fatalf("offer not removed, %d left", len(r.ShopJokers))
	}

	// Sell refunds half, floored.
	owned := r.Jokers[len(r.Jokers)-1]
	moneyBefore = r.Money
	if err := r.SellJoker(owned.ID); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if r.Money != moneyBefore+owned.Price/2 {
		t.Fatalf("refund = %d, want %d", r.Money-moneyBefore, owned.Price/2)
	}

	// Reroll costs grow by one each time.
	if err := r.Reroll(); err != nil {
		t.Fatalf("reroll: %v", err)
	}
	if r.RerollCost != 6 {
		t.Fatalf("reroll cost = %d, want 6", r.RerollCost)
	}
	if err := r.Reroll(); err != nil {
		t.Fatalf("second reroll: %v", err)
	}
	if r.RerollCost != 7 {
		t.Fatalf("reroll cost = %d, want 7", r.RerollCost)
	}

	r.Money = 0
	if err := r.Reroll(); !errors.Is(err, appErr.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestShopCapacityLimit(t *testing.T) {
	r := winShop(t)
	r.Money = 1000
	for len(r.Jokers) < engine.MaxJokers {
		j, _ := engine.NewJoker(engine.KindJoker)
		r.Jokers = append(r.Jokers, j)
	}

	if err := r.BuyJoker(r.ShopJokers[0].ID); !errors.Is(err, appErr.ErrJokerSlotsFull) {
		t.Fatalf("expected ErrJokerSlotsFull, got %v", err)
	}
	if len(r.Jokers) != engine.MaxJokers {
		t.Fatalf("owned count = %d, must stay at %d", len(r.Jokers), engine.MaxJokers)
	}
}

func TestSellRefundFloorsOddPrice(t *testing.T) {
	r := engine.NewRun(1, engine.Options{})
	j, _ := engine.NewJoker(engine.KindGreedy) // price 5
	r.Jokers = append(r.Jokers, j)
	moneyBefore := r.Money

	if err := r.SellJoker(j.ID); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if r.Money != moneyBefore+2 {
		t.Fatalf("refund for price 5 = %d, want 2", r.Money-moneyBefore)
	}
}

func TestSellJokerAllowedAfterBlindWon(t *testing.T) {
	r := engine.NewRun(5, engine.Options{})
	winCurrentBlind(t, r)

	owned := r.Jokers[0]
	moneyBefore := r.Money
	if err := r.SellJoker(owned.ID); err != nil {
		t.Fatalf("sell while won: %v", err)
	}
	if r.Money != moneyBefore+owned.Price/2 {
		t.Fatalf("refund = %d, want %d", r.Money-moneyBefore, owned.Price/2)
	}

	// A lost run is terminal: nothing left to sell.
	j, _ := engine.NewJoker(engine.KindJoker)
	r.Jokers = append(r.Jokers, j)
	r.Status = engine.StatusLost
	if err := r.SellJoker(j.ID); !errors.Is(err, appErr.ErrRunFinished) {
		t.Fatalf("expected ErrRunFinished, got %v", err)
	}
}

func TestAnteProgressionAcrossBlinds(t *testing.T) {
	r := engine.NewRun(9, engine.Options{})
	queueIDs := []string{r.BlindsQueue[0].ID, r.BlindsQueue[1].ID, r.BlindsQueue[2].ID}

	for i := 0; i < 3; i++ {
		if r.CurrentBlind.ID != queueIDs[i] {
			t.Fatalf("blind %d: active %s, want %s", i, r.CurrentBlind.ID, queueIDs[i])
		}
		winCurrentBlind(t, r)
		if err := r.EnterShop(); err != nil {
			t.Fatalf("enter shop: %v", err)
		}
		if err := r.NextRound(); err != nil {
			t.Fatalf("next round: %v", err)
		}
	}

	if r.Ante != 2 {
		t.Fatalf("ante = %d, want 2 after clearing all three blinds", r.Ante)
	}
	if r.Round != 4 {
		t.Fatalf("round = %d, want 4", r.Round)
	}
	if len(r.BlindsQueue) != 3 {
		t.Fatalf("fresh ante must regenerate 3 blinds, got %d", len(r.BlindsQueue))
	}
	if r.TargetScore != engine.TargetScore(2, r.CurrentBlind) {
		t.Fatalf("target %d does not match ante 2 blind", r.TargetScore)
	}
	if r.HandsLeft != 4 || r.DiscardsLeft != 3 {
		t.Fatal("resources must reset for the new blind")
	}
}

// winCurrentBlind forces a victory against whatever blind is active.
func winCurrentBlind(t *testing.T, r *engine.Run) {
	t.Helper()
	r.TargetScore = 1
	r.CurrentBlind.Boss = engine.BossNone
	r.Status = engine.StatusPlaying
	if !r.Hand[0].Selected {
		selectCards(t, r, r.Hand[0].ID)
	}
	if _, err := r.Play(testText); err != nil {
		t.Fatalf("forced win play: %v", err)
	}
	if r.Status != engine.StatusWon {
		t.Fatalf("expected won, got %s", r.Status)
	}
}

func winShop(t *testing.T) *engine.Run {
	t.Helper()
	r := engine.NewRun(5, engine.Options{})
	winCurrentBlind(t, r)
	if err := r.EnterShop(); err != nil {
		t.Fatalf("enter shop: %v", err)
	}
	return r
}
