package engine

import (
	"math/rand"
	"sort"

	appErr "jester-service/pkg/errors"
)

type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
	StatusShop    Status = "shop"
)

const (
	HandSize       = 8
	MaxSelected    = 5
	MaxJokers      = 5
	baseRerollCost = 5
	shopOfferSize  = 3

	defaultHands    = 4
	defaultDiscards = 3
	defaultMoney    = 4
)

// Options override the per-blind resource defaults. Zero values keep the
// built-in constants.
type Options struct {
	Hands    int
	Discards int
	Money    int
}

func (o Options) withDefaults() Options {
	if o.Hands <= 0 {
		o.Hands = defaultHands
	}
	if o.Discards <= 0 {
		o.Discards = defaultDiscards
	}
	if o.Money <= 0 {
		o.Money = defaultMoney
	}
	return o
}

// Run is the whole state of one roguelike run. It is mutated exclusively
// through its methods; every rule violation returns a sentinel error and
// leaves the state untouched.
type Run struct {
	Status Status `json:"status"`

	Deck []Card `json:"-"`
	Hand []Card `json:"hand"`

	DiscardsLeft int `json:"discardsLeft"`
	HandsLeft    int `json:"handsLeft"`
	Money        int `json:"money"`
	Score        int `json:"score"`
	TargetScore  int `json:"targetScore"`
	Round        int `json:"round"`
	Ante         int `json:"ante"`

	Jokers     []Joker `json:"jokers"`
	ShopJokers []Joker `json:"shopJokers"`
	RerollCost int     `json:"rerollCost"`

	CurrentBlind Blind   `json:"currentBlind"`
	BlindsQueue  []Blind `json:"blindsQueue"`

	InterestEarned int      `json:"interestEarned"`
	LastHandType   HandType `json:"lastHandType,omitempty"`
	LastHandScore  int      `json:"lastHandScore"`

	opts Options
	rng  *rand.Rand
}

// NewRun starts a fresh run: shuffled deck, 8-card hand, ante 1, round 1,
// the starting joker granted. The seed makes the whole run reproducible.
func NewRun(seed int64, opts Options) *Run {
	rng := rand.New(rand.NewSource(seed))
	opts = opts.withDefaults()

	blinds := GenerateBlinds(1, rng)
	current := blinds[0]

	deck := NewDeck()
	Shuffle(deck, rng)

	r := &Run{
		Status:       StatusPlaying,
		Deck:         deck,
		DiscardsLeft: opts.Discards,
		HandsLeft:    opts.Hands,
		Money:        opts.Money,
		TargetScore:  TargetScore(1, current),
		Round:        1,
		Ante:         1,
		RerollCost:   baseRerollCost,
		CurrentBlind: current,
		BlindsQueue:  blinds,
		opts:         opts,
		rng:          rng,
	}

	if starter, ok := NewJoker(KindJoker); ok {
		r.Jokers = append(r.Jokers, starter)
	}

	r.drawToHand()
	ApplyDebuffs(r.Hand, r.CurrentBlind)
	return r
}

// ToggleSelect flips a card's selection. At most 5 cards may be selected at
// once; selecting a 6th is rejected, deselecting always succeeds.
func (r *Run) ToggleSelect(cardID string) error {
	if r.Status != StatusPlaying {
		return appErr.ErrNotPlayingPhase
	}
	for i := range r.Hand {
		if r.Hand[i].ID != cardID {
			continue
		}
		if !r.Hand[i].Selected && r.selectedCount() >= MaxSelected {
			return appErr.ErrSelectionLimit
		}
		r.Hand[i].Selected = !r.Hand[i].Selected
		return nil
	}
	return appErr.ErrCardNotInHand
}

// SortHand orders the hand by rank, highest first.
func (r *Run) SortHand() {
	sort.SliceStable(r.Hand, func(i, j int) bool {
		return r.Hand[i].RankValue() > r.Hand[j].RankValue()
	})
}

// SelectedCards returns the current selection in hand order.
func (r *Run) SelectedCards() []Card {
	selected := make([]Card, 0, MaxSelected)
	for _, c := range r.Hand {
		if c.Selected {
			selected = append(selected, c)
		}
	}
	return selected
}

func (r *Run) selectedCount() int {
	return len(r.SelectedCards())
}

// Play scores the current selection and resolves the round outcome. The win
// check runs before the loss check, so reaching the target on the final hand
// still wins. text supplies the locale-bound numeric templates for joker
// messages.
func (r *Run) Play(text func(key string) string) (ScoreResult, error) {
	if r.Status != StatusPlaying {
		return ScoreResult{}, appErr.ErrNotPlayingPhase
	}
	if r.HandsLeft <= 0 {
		return ScoreResult{}, appErr.ErrNoHandsLeft
	}
	selected := r.SelectedCards()
	if len(selected) == 0 {
		return ScoreResult{}, appErr.ErrNothingSelected
	}
	if r.CurrentBlind.Boss == BossPsychic && len(selected) != MaxSelected {
		return ScoreResult{}, appErr.ErrMustPlayFive
	}

	result := Score(selected, r.Jokers, EffectContext{
		DiscardsLeft: r.DiscardsLeft,
		Text:         text,
	})

	r.Score += result.Total
	r.LastHandType = result.HandType
	r.LastHandScore = result.Total

	won := r.Score >= r.TargetScore
	lost := !won && r.HandsLeft-1 <= 0

	r.removeSelected()
	r.drawToHand()
	ApplyDebuffs(r.Hand, r.CurrentBlind)

	switch {
	case won:
		rewards := r.HandsLeft + r.CurrentBlind.Reward
		r.InterestEarned = interest(r.Money + rewards)
		r.Money += rewards + r.InterestEarned
		r.Status = StatusWon
	case lost:
		r.Status = StatusLost
	}
	r.HandsLeft--

	return result, nil
}

// Discard throws away the selection and refills the hand. It spends a discard
// but never a hand.
func (r *Run) Discard() error {
	if r.Status != StatusPlaying {
		return appErr.ErrNotPlayingPhase
	}
	if r.DiscardsLeft <= 0 {
		return appErr.ErrNoDiscardsLeft
	}
	if r.selectedCount() == 0 {
		return appErr.ErrNothingSelected
	}

	r.removeSelected()
	r.drawToHand()
	ApplyDebuffs(r.Hand, r.CurrentBlind)
	r.DiscardsLeft--
	return nil
}

// NextRound leaves the shop and sets up the next blind: the defeated blind is
// popped, the ante advances when its queue empties, and the deck is rebuilt
// and reshuffled.
func (r *Run) NextRound() error {
	if r.Status != StatusShop {
		return appErr.ErrNotShopPhase
	}

	if len(r.BlindsQueue) > 0 && r.BlindsQueue[0].ID == r.CurrentBlind.ID {
		r.BlindsQueue = r.BlindsQueue[1:]
	}
	if len(r.BlindsQueue) == 0 {
		r.Ante++
		r.BlindsQueue = GenerateBlinds(r.Ante, r.rng)
	}
	r.CurrentBlind = r.BlindsQueue[0]

	deck := NewDeck()
	Shuffle(deck, r.rng)
	r.Deck = deck
	r.Hand = nil
	r.drawToHand()
	ApplyDebuffs(r.Hand, r.CurrentBlind)

	r.Score = 0
	r.TargetScore = TargetScore(r.Ante, r.CurrentBlind)
	r.DiscardsLeft = r.opts.Discards
	r.HandsLeft = r.opts.Hands
	r.Round++
	r.InterestEarned = 0
	r.Status = StatusPlaying
	return nil
}

func (r *Run) removeSelected() {
	kept := r.Hand[:0]
	for _, c := range r.Hand {
		if !c.Selected {
			kept = append(kept, c)
		}
	}
	r.Hand = kept
}

func (r *Run) drawToHand() {
	for len(r.Hand) < HandSize && len(r.Deck) > 0 {
		card := r.Deck[0]
		r.Deck = r.Deck[1:]
		card.Selected = false
		card.Debuffed = false
		r.Hand = append(r.Hand, card)
	}
}
