package engine

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityUncommon  Rarity = "Uncommon"
	RarityRare      Rarity = "Rare"
	RarityLegendary Rarity = "Legendary"
)

// TriggerPhase is when a joker's effect is consulted. Only on-play jokers
// exist in the current catalog.
type TriggerPhase string

const (
	TriggerPlay    TriggerPhase = "play"
	TriggerHold    TriggerPhase = "hold"
	TriggerDiscard TriggerPhase = "discard"
)

type JokerKind string

const (
	KindJoker        JokerKind = "joker"
	KindGreedy       JokerKind = "greedy_joker"
	KindLusty        JokerKind = "lusty_joker"
	KindWrathful     JokerKind = "wrathful_joker"
	KindGluttonous   JokerKind = "gluttonous_joker"
	KindDroll        JokerKind = "droll_joker"
	KindBanner       JokerKind = "banner"
	KindHalf         JokerKind = "half_joker"
	KindDuo          JokerKind = "the_duo"
	KindEvenSteven   JokerKind = "even_steven"
	KindOddTodd      JokerKind = "odd_todd"
	KindMysticSummit JokerKind = "mystic_summit"
)

// Joker is an owned or offered modifier card. ID is unique per instance so
// two copies of the same kind can coexist; Kind keys the effect and the
// localization entries.
type Joker struct {
	ID      string       `json:"id"`
	Kind    JokerKind    `json:"kind"`
	Rarity  Rarity       `json:"rarity"`
	Price   int          `json:"price"`
	Trigger TriggerPhase `json:"trigger"`
}

// NameKey and DescKey address the bilingual display strings owned by the
// localization collaborator.
func (j Joker) NameKey() string { return "joker." + string(j.Kind) + ".name" }
func (j Joker) DescKey() string { return "joker." + string(j.Kind) + ".desc" }

var jokerCatalog = []Joker{
	{Kind: KindJoker, Rarity: RarityCommon, Price: 2, Trigger: TriggerPlay},
	{Kind: KindGreedy, Rarity: RarityCommon, Price: 5, Trigger: TriggerPlay},
	{Kind: KindLusty, Rarity: RarityCommon, Price: 5, Trigger: TriggerPlay},
	{Kind: KindWrathful, Rarity: RarityCommon, Price: 5, Trigger: TriggerPlay},
	{Kind: KindGluttonous, Rarity: RarityCommon, Price: 5, Trigger: TriggerPlay},
	{Kind: KindDroll, Rarity: RarityUncommon, Price: 6, Trigger: TriggerPlay},
	{Kind: KindBanner, Rarity: RarityCommon, Price: 5, Trigger: TriggerPlay},
	{Kind: KindHalf, Rarity: RarityCommon, Price: 4, Trigger: TriggerPlay},
	{Kind: KindDuo, Rarity: RarityRare, Price: 8, Trigger: TriggerPlay},
	{Kind: KindEvenSteven, Rarity: RarityCommon, Price: 4, Trigger: TriggerPlay},
	{Kind: KindOddTodd, Rarity: RarityCommon, Price: 4, Trigger: TriggerPlay},
	{Kind: KindMysticSummit, Rarity: RarityCommon, Price: 3, Trigger: TriggerPlay},
}

// CatalogSize is exported for shop sizing checks.
func CatalogSize() int { return len(jokerCatalog) }

// NewJoker mints a fresh instance of a kind, or false for an unknown kind.
func NewJoker(kind JokerKind) (Joker, bool) {
	for _, tpl := range jokerCatalog {
		if tpl.Kind == kind {
			j := tpl
			j.ID = uuid.NewString()
			return j, true
		}
	}
	return Joker{}, false
}

// DrawJokers picks n distinct catalog kinds at random, each as a fresh
// instance. Used for shop offers and rerolls.
func DrawJokers(n int, rng *rand.Rand) []Joker {
	perm := rng.Perm(len(jokerCatalog))
	if n > len(perm) {
		n = len(perm)
	}
	out := make([]Joker, 0, n)
	for _, idx := range perm[:n] {
		j := jokerCatalog[idx]
		j.ID = uuid.NewString()
		out = append(out, j)
	}
	return out
}

// Effect is the outcome of consulting one joker for one play. A zero Effect
// means the joker's condition was not met and no trace step is emitted.
type Effect struct {
	Chips   int    `json:"chips"`
	Mult    int    `json:"mult"`
	XMult   int    `json:"xMult"`
	Message string `json:"message"`
}

func (e Effect) Empty() bool {
	return e.Chips == 0 && e.Mult == 0 && e.XMult == 0
}

// EffectContext is the read-only view a joker effect may consult. Text maps
// a numeric-template key (effect.chips, effect.mult, effect.xmult) to its
// locale-specific format string; the engine owns the number formatting.
type EffectContext struct {
	DiscardsLeft int
	Played       []Card
	HandType     HandType
	Text         func(key string) string
}

func (ctx EffectContext) chipsMsg(n int) string {
	return fmt.Sprintf(ctx.Text("effect.chips"), n)
}

func (ctx EffectContext) multMsg(n int) string {
	return fmt.Sprintf(ctx.Text("effect.mult"), n)
}

func (ctx EffectContext) xMultMsg(n int) string {
	return fmt.Sprintf(ctx.Text("effect.xmult"), n)
}

// Resolve computes a joker's effect against the current play. It is a pure
// function: total, side-effect free, and returns the zero Effect whenever the
// kind's condition is not met.
func Resolve(kind JokerKind, ctx EffectContext) Effect {
	switch kind {
	case KindJoker:
		return Effect{Mult: 4, Message: ctx.multMsg(4)}

	case KindGreedy:
		return suitMult(ctx, Diamonds)
	case KindLusty:
		return suitMult(ctx, Hearts)
	case KindWrathful:
		return suitMult(ctx, Spades)
	case KindGluttonous:
		return suitMult(ctx, Clubs)

	case KindDroll:
		switch ctx.HandType {
		case Flush, StraightFlush, RoyalFlush:
			return Effect{Mult: 10, Message: ctx.multMsg(10)}
		}
		return Effect{}

	case KindBanner:
		if ctx.DiscardsLeft > 0 {
			amount := ctx.DiscardsLeft * 40
			return Effect{Chips: amount, Message: ctx.chipsMsg(amount)}
		}
		return Effect{}

	case KindHalf:
		if len(ctx.Played) <= 3 {
			return Effect{Mult: 20, Message: ctx.multMsg(20)}
		}
		return Effect{}

	case KindDuo:
		switch ctx.HandType {
		case Pair, TwoPair, FullHouse, FourOfAKind:
			return Effect{XMult: 2, Message: ctx.xMultMsg(2)}
		}
		return Effect{}

	case KindEvenSteven:
		count := countRanks(ctx.Played, Two, Four, Six, Eight, Ten)
		if count > 0 {
			amount := count * 4
			return Effect{Mult: amount, Message: ctx.multMsg(amount)}
		}
		return Effect{}

	case KindOddTodd:
		count := countRanks(ctx.Played, Ace, Three, Five, Seven, Nine)
		if count > 0 {
			amount := count * 30
			return Effect{Chips: amount, Message: ctx.chipsMsg(amount)}
		}
		return Effect{}

	case KindMysticSummit:
		if ctx.DiscardsLeft == 0 {
			return Effect{Mult: 15, Message: ctx.multMsg(15)}
		}
		return Effect{}

	default:
		return Effect{}
	}
}

func suitMult(ctx EffectContext, suit Suit) Effect {
	count := 0
	for _, c := range ctx.Played {
		if c.Suit == suit && !c.Debuffed {
			count++
		}
	}
	if count == 0 {
		return Effect{}
	}
	amount := count * 4
	return Effect{Mult: amount, Message: ctx.multMsg(amount)}
}

func countRanks(played []Card, ranks ...Rank) int {
	count := 0
	for _, c := range played {
		if c.Debuffed {
			continue
		}
		for _, r := range ranks {
			if c.Rank == r {
				count++
				break
			}
		}
	}
	return count
}
