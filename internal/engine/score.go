package engine

// TraceStep is one observable step of the scoring pipeline. The UI replays
// the steps one by one; the engine computes them all up front.
type TraceStep struct {
	Chips    int    `json:"chips"`
	Mult     int    `json:"mult"`
	Total    int    `json:"total"`
	LabelKey string `json:"labelKey"`
	Message  string `json:"message,omitempty"`
	JokerID  string `json:"jokerId,omitempty"`
}

// ScoreResult carries the classified hand, the full trace and the folded
// final total.
type ScoreResult struct {
	HandType HandType    `json:"handType"`
	Trace    []TraceStep `json:"trace"`
	Total    int         `json:"total"`
}

// Score runs the full pipeline: base chips/mult for the classified hand,
// chip values of non-debuffed scoring cards, then every on-play joker in
// acquisition order. Per joker the additive deltas apply before the
// multiplicative factor, so joker order changes the result whenever a
// multiplicative joker is held. Jokers with no effect emit no step.
func Score(played []Card, jokers []Joker, ctx EffectContext) ScoreResult {
	handType, scoringCards := Evaluate(played)

	base := BaseScore(handType)
	chips := base.Chips
	mult := base.Mult
	for _, c := range scoringCards {
		if !c.Debuffed {
			chips += c.ChipValue()
		}
	}

	ctx.Played = played
	ctx.HandType = handType

	trace := []TraceStep{{
		Chips:    chips,
		Mult:     mult,
		Total:    chips * mult,
		LabelKey: handType.LocaleKey(),
	}}

	for _, joker := range jokers {
		if joker.Trigger != TriggerPlay {
			continue
		}
		effect := Resolve(joker.Kind, ctx)
		if effect.Empty() {
			continue
		}
		chips += effect.Chips
		mult += effect.Mult
		if effect.XMult != 0 {
			mult *= effect.XMult
		}
		trace = append(trace, TraceStep{
			Chips:    chips,
			Mult:     mult,
			Total:    chips * mult,
			LabelKey: joker.NameKey(),
			Message:  effect.Message,
			JokerID:  joker.ID,
		})
	}

	total := chips * mult
	trace = append(trace, TraceStep{
		Chips:    chips,
		Mult:     mult,
		Total:    total,
		LabelKey: "ui.handScore",
	})

	return ScoreResult{HandType: handType, Trace: trace, Total: total}
}
