package engine

import (
	"fmt"
	"math"
	"math/rand"
)

type BlindType string

const (
	SmallBlind BlindType = "Small"
	BigBlind   BlindType = "Big"
	BossBlind  BlindType = "Boss"
)

// BossType identifies the rule modifier attached to a boss blind.
type BossType string

const (
	BossNone    BossType = "None"
	BossWall    BossType = "The Wall"    // doubled target
	BossPsychic BossType = "The Psychic" // must play exactly 5 cards
	BossGoad    BossType = "The Goad"    // spades debuffed
	BossClub    BossType = "The Club"    // clubs debuffed
	BossWindow  BossType = "The Window"  // diamonds debuffed
	BossHead    BossType = "The Head"    // hearts debuffed
)

var bossCatalog = []BossType{BossWall, BossPsychic, BossGoad, BossClub, BossWindow, BossHead}

// DebuffedSuit returns the suit this boss weakens, or false for bosses whose
// rule is not suit based.
func (b BossType) DebuffedSuit() (Suit, bool) {
	switch b {
	case BossGoad:
		return Spades, true
	case BossClub:
		return Clubs, true
	case BossWindow:
		return Diamonds, true
	case BossHead:
		return Hearts, true
	default:
		return "", false
	}
}

// LocaleKey maps the boss type to its description key.
func (b BossType) LocaleKey() string {
	return "boss." + string(b)
}

type Blind struct {
	ID        string    `json:"id"`
	NameKey   string    `json:"nameKey"`
	Type      BlindType `json:"type"`
	Boss      BossType  `json:"boss"`
	ScoreMult float64   `json:"scoreMult"`
	Reward    int       `json:"reward"`
}

var anteBaseScores = []int{300, 800, 2000, 5000, 11000, 20000, 35000, 50000}

// AnteBaseScore looks up the shared base target for an ante. Antes beyond the
// table extrapolate linearly rather than failing.
func AnteBaseScore(ante int) int {
	if ante < 1 {
		ante = 1
	}
	if ante <= len(anteBaseScores) {
		return anteBaseScores[ante-1]
	}
	return 100000 * ante
}

// TargetScore is the score the player must reach to defeat the blind.
func TargetScore(ante int, blind Blind) int {
	return int(math.Floor(float64(AnteBaseScore(ante)) * blind.ScoreMult))
}

// GenerateBlinds builds the fixed [Small, Big, Boss] queue for an ante. The
// boss subtype is drawn uniformly from the catalog; The Wall quadruples the
// base target instead of the usual boss doubling.
func GenerateBlinds(ante int, rng *rand.Rand) []Blind {
	boss := bossCatalog[rng.Intn(len(bossCatalog))]
	bossMult := 2.0
	if boss == BossWall {
		bossMult = 4.0
	}

	return []Blind{
		{
			ID:        fmt.Sprintf("small-%d", ante),
			NameKey:   "blind.small",
			Type:      SmallBlind,
			Boss:      BossNone,
			ScoreMult: 1.0,
			Reward:    3,
		},
		{
			ID:        fmt.Sprintf("big-%d", ante),
			NameKey:   "blind.big",
			Type:      BigBlind,
			Boss:      BossNone,
			ScoreMult: 1.5,
			Reward:    4,
		},
		{
			ID:        fmt.Sprintf("boss-%d", ante),
			NameKey:   boss.LocaleKey(),
			Type:      BossBlind,
			Boss:      boss,
			ScoreMult: bossMult,
			Reward:    5,
		},
	}
}

// ApplyDebuffs recomputes every card's debuff flag from scratch against the
// active blind. It is idempotent and must run after every hand mutation; it
// never patches incrementally.
func ApplyDebuffs(hand []Card, blind Blind) {
	suit, ok := blind.Boss.DebuffedSuit()
	for i := range hand {
		hand[i].Debuffed = ok && hand[i].Suit == suit
	}
}
