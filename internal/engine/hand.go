package engine

import "sort"

type HandType string

const (
	HighCard      HandType = "High Card"
	Pair          HandType = "Pair"
	TwoPair       HandType = "Two Pair"
	ThreeOfAKind  HandType = "Three of a Kind"
	Straight      HandType = "Straight"
	Flush         HandType = "Flush"
	FullHouse     HandType = "Full House"
	FourOfAKind   HandType = "Four of a Kind"
	StraightFlush HandType = "Straight Flush"
	RoyalFlush    HandType = "Royal Flush"
)

// HandBase is the starting (chips, mult) pair for a classified hand.
type HandBase struct {
	Chips int `json:"chips"`
	Mult  int `json:"mult"`
}

var handBaseScores = map[HandType]HandBase{
	HighCard:      {Chips: 5, Mult: 1},
	Pair:          {Chips: 10, Mult: 2},
	TwoPair:       {Chips: 20, Mult: 2},
	ThreeOfAKind:  {Chips: 30, Mult: 3},
	Straight:      {Chips: 30, Mult: 4},
	Flush:         {Chips: 35, Mult: 4},
	FullHouse:     {Chips: 40, Mult: 4},
	FourOfAKind:   {Chips: 60, Mult: 7},
	StraightFlush: {Chips: 100, Mult: 8},
	RoyalFlush:    {Chips: 100, Mult: 8},
}

// BaseScore returns the base chips/mult for a hand type.
func BaseScore(t HandType) HandBase {
	return handBaseScores[t]
}

// LocaleKey maps the hand type to its localization key.
func (t HandType) LocaleKey() string {
	return "hand." + string(t)
}

// Evaluate classifies 1-5 selected cards into a poker hand and returns the
// subset that actually scores chips. Debuffed cards participate fully in
// classification; only their chip contribution is zeroed later.
//
// Flush and straight need at least 5 cards; with fewer the classification
// degenerates to multiplicity counts. A-2-3-4-5 counts as a straight even
// though the ace orders high.
func Evaluate(cards []Card) (HandType, []Card) {
	if len(cards) == 0 {
		return HighCard, nil
	}

	sorted := append([]Card(nil), cards...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RankValue() < sorted[j].RankValue()
	})

	isFlush := len(cards) >= 5
	for _, c := range sorted {
		if c.Suit != sorted[0].Suit {
			isFlush = false
			break
		}
	}

	distinct := distinctValues(sorted)
	isStraight := false
	if len(cards) >= 5 && len(distinct) >= 5 {
		for i := 0; i+4 < len(distinct); i++ {
			if distinct[i+4]-distinct[i] == 4 {
				isStraight = true
				break
			}
		}
		if !isStraight && isWheel(distinct) {
			isStraight = true
		}
	}

	if isFlush && isStraight {
		if containsValue(distinct, 14) && containsValue(distinct, 13) {
			return RoyalFlush, cards
		}
		return StraightFlush, cards
	}

	groups := groupByValue(sorted)
	counts := groupSizes(groups)

	switch {
	case counts[0] == 4:
		return FourOfAKind, largestGroup(groups, 4)
	case counts[0] == 3 && len(counts) > 1 && counts[1] >= 2:
		return FullHouse, fullHouseCards(groups)
	case isFlush:
		return Flush, cards
	case isStraight:
		return Straight, cards
	case counts[0] == 3:
		return ThreeOfAKind, largestGroup(groups, 3)
	case counts[0] == 2 && len(counts) > 1 && counts[1] == 2:
		return TwoPair, twoPairCards(groups)
	case counts[0] == 2:
		return Pair, largestGroup(groups, 2)[:2]
	default:
		return HighCard, []Card{sorted[len(sorted)-1]}
	}
}

func distinctValues(sorted []Card) []int {
	values := make([]int, 0, len(sorted))
	for _, c := range sorted {
		v := c.RankValue()
		if len(values) == 0 || values[len(values)-1] != v {
			values = append(values, v)
		}
	}
	return values
}

func isWheel(distinct []int) bool {
	for _, want := range []int{14, 2, 3, 4, 5} {
		if !containsValue(distinct, want) {
			return false
		}
	}
	return true
}

func containsValue(values []int, want int) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// groupByValue buckets cards by rank value, buckets ordered largest first,
// ties broken by higher rank.
func groupByValue(sorted []Card) [][]Card {
	byValue := make(map[int][]Card)
	for _, c := range sorted {
		byValue[c.RankValue()] = append(byValue[c.RankValue()], c)
	}
	groups := make([][]Card, 0, len(byValue))
	for _, g := range byValue {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i]) != len(groups[j]) {
			return len(groups[i]) > len(groups[j])
		}
		return groups[i][0].RankValue() > groups[j][0].RankValue()
	})
	return groups
}

func groupSizes(groups [][]Card) []int {
	sizes := make([]int, len(groups))
	for i, g := range groups {
		sizes[i] = len(g)
	}
	return sizes
}

func largestGroup(groups [][]Card, size int) []Card {
	for _, g := range groups {
		if len(g) == size {
			return g
		}
	}
	return nil
}

func fullHouseCards(groups [][]Card) []Card {
	triple := groups[0]
	pair := groups[1]
	out := append([]Card(nil), triple...)
	return append(out, pair[:2]...)
}

func twoPairCards(groups [][]Card) []Card {
	out := append([]Card(nil), groups[0][:2]...)
	return append(out, groups[1][:2]...)
}
