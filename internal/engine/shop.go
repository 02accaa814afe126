package engine

import (
	appErr "jester-service/pkg/errors"
)

// interest pays $1 per $5 held, capped at $5. Computed once per victory on
// the balance including that round's rewards.
func interest(money int) int {
	earned := money / 5
	if earned > 5 {
		earned = 5
	}
	return earned
}

// EnterShop moves a defeated-blind run into the shop: three fresh offers and
// the reroll cost back at its base.
func (r *Run) EnterShop() error {
	if r.Status != StatusWon {
		return appErr.ErrNotWonPhase
	}
	r.ShopJokers = DrawJokers(shopOfferSize, r.rng)
	r.RerollCost = baseRerollCost
	r.Score = 0
	r.Status = StatusShop
	return nil
}

// BuyJoker purchases an offered joker. The instance moves to the end of the
// owned collection, which fixes its position in the scoring order.
func (r *Run) BuyJoker(jokerID string) error {
	if r.Status != StatusShop {
		return appErr.ErrNotShopPhase
	}
	idx := -1
	for i, j := range r.ShopJokers {
		if j.ID == jokerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return appErr.ErrJokerNotOffered
	}
	joker := r.ShopJokers[idx]
	if len(r.Jokers) >= MaxJokers {
		return appErr.ErrJokerSlotsFull
	}
	if r.Money < joker.Price {
		return appErr.ErrInsufficientFunds
	}

	r.Money -= joker.Price
	r.ShopJokers = append(r.ShopJokers[:idx], r.ShopJokers[idx+1:]...)
	r.Jokers = append(r.Jokers, joker)
	return nil
}

// SellJoker refunds half the purchase price, rounded down. Selling an owned
// joker works in any live state; only a lost run refuses.
func (r *Run) SellJoker(jokerID string) error {
	if r.Status == StatusLost {
		return appErr.ErrRunFinished
	}
	for i, j := range r.Jokers {
		if j.ID == jokerID {
			r.Money += j.Price / 2
			r.Jokers = append(r.Jokers[:i], r.Jokers[i+1:]...)
			return nil
		}
	}
	return appErr.ErrJokerNotOwned
}

// Reroll replaces the offer with three fresh jokers. Each reroll in the same
// shop visit costs one more than the last.
func (r *Run) Reroll() error {
	if r.Status != StatusShop {
		return appErr.ErrNotShopPhase
	}
	if r.Money < r.RerollCost {
		return appErr.ErrInsufficientFunds
	}
	r.Money -= r.RerollCost
	r.ShopJokers = DrawJokers(shopOfferSize, r.rng)
	r.RerollCost++
	return nil
}
