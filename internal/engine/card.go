package engine

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

type Suit string

const (
	Spades   Suit = "Spades"
	Hearts   Suit = "Hearts"
	Clubs    Suit = "Clubs"
	Diamonds Suit = "Diamonds"
)

var Suits = []Suit{Spades, Hearts, Clubs, Diamonds}

type Rank string

const (
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var rankValues = map[Rank]int{
	Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7, Eight: 8,
	Nine: 9, Ten: 10, Jack: 11, Queen: 12, King: 13, Ace: 14,
}

// Card is a single playing card. Identity (ID, Suit, Rank) never changes;
// Selected and Debuffed are recomputed wholesale by the run's selection and
// boss-debuff passes.
type Card struct {
	ID       string `json:"id"`
	Suit     Suit   `json:"suit"`
	Rank     Rank   `json:"rank"`
	Selected bool   `json:"selected"`
	Debuffed bool   `json:"debuffed"`
}

// RankValue is the ordering value used for straights and sorting (A high).
func (c Card) RankValue() int {
	return rankValues[c.Rank]
}

// ChipValue is the chip contribution when the card scores: face cards 10,
// ace 11, everything else its pip value. Debuff handling is the scorer's job.
func (c Card) ChipValue() int {
	switch c.Rank {
	case Jack, Queen, King:
		return 10
	case Ace:
		return 11
	default:
		return c.RankValue()
	}
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// NewDeck returns the 52-card deck in suit-then-rank order, unshuffled.
func NewDeck() []Card {
	deck := make([]Card, 0, len(Suits)*len(Ranks))
	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck = append(deck, Card{
				ID:   uuid.NewString(),
				Suit: suit,
				Rank: rank,
			})
		}
	}
	return deck
}

// Shuffle performs an in-place Fisher-Yates shuffle with the caller's random
// source so runs replay identically from the same seed.
func Shuffle(deck []Card, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}
