package errors

import "errors"

// Auth / player errors.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidDeviceID = errors.New("invalid device id")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrPlayerBanned    = errors.New("player banned")
)

// Run lifecycle errors.
var (
	ErrRunNotFound     = errors.New("run not found")
	ErrRunAccessDenied = errors.New("run access denied")
	ErrRunFinished     = errors.New("run already finished")
)

// Rule violations. These are rejections of player actions, not faults:
// the run state is guaranteed unchanged when one is returned.
var (
	ErrNotPlayingPhase   = errors.New("action only allowed while playing")
	ErrNotShopPhase      = errors.New("action only allowed in shop")
	ErrNotWonPhase       = errors.New("blind not yet defeated")
	ErrNothingSelected   = errors.New("no cards selected")
	ErrNoHandsLeft       = errors.New("no hands remaining")
	ErrNoDiscardsLeft    = errors.New("no discards remaining")
	ErrSelectionLimit    = errors.New("at most 5 cards may be selected")
	ErrMustPlayFive      = errors.New("must play exactly 5 cards")
	ErrCardNotInHand     = errors.New("card not in hand")
	ErrInsufficientFunds = errors.New("not enough money")
	ErrJokerSlotsFull    = errors.New("joker slots full")
	ErrJokerNotOffered   = errors.New("joker not offered")
	ErrJokerNotOwned     = errors.New("joker not owned")
)
