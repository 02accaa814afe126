package run

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"jester-service/internal/engine"
	appErr "jester-service/pkg/errors"
	"jester-service/pkg/logger"

	"go.uber.org/zap"
)

const revealStepDelay = 450 * time.Millisecond

// OutgoingMessage is the wire envelope pushed to websocket subscribers.
type OutgoingMessage struct {
	Type string      `json:"type"`
	Seq  int64       `json:"seq"`
	Data interface{} `json:"data"`
}

// RunState is the snapshot sent to clients. Embedding the engine run keeps
// its JSON field names; the deck itself is never exposed.
type RunState struct {
	RunID string `json:"runId"`
	engine.Run
}

// Runtime owns one live run. All mutations go through the mutex; the engine
// state is committed synchronously and only the trace reveal is paced on a
// goroutine, so a crash or a new action can never observe a half-applied
// play.
type Runtime struct {
	runID    string
	playerID int64
	run      *engine.Run

	seq         int64
	subscribers map[int64]chan OutgoingMessage
	nextSubID   int64

	revealCancel chan struct{}

	mu sync.Mutex

	text     func(key string) string
	onPlayed func(rt *Runtime, result engine.ScoreResult)
	onFinish func(rt *Runtime)
}

func newRuntime(runID string, playerID int64, run *engine.Run,
	text func(string) string,
	onPlayed func(*Runtime, engine.ScoreResult),
	onFinish func(*Runtime)) *Runtime {
	return &Runtime{
		runID:       runID,
		playerID:    playerID,
		run:         run,
		subscribers: make(map[int64]chan OutgoingMessage),
		text:        text,
		onPlayed:    onPlayed,
		onFinish:    onFinish,
	}
}

func (rt *Runtime) RunID() string   { return rt.runID }
func (rt *Runtime) PlayerID() int64 { return rt.playerID }

func (rt *Runtime) State() RunState {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.stateLocked()
}

func (rt *Runtime) stateLocked() RunState {
	return RunState{RunID: rt.runID, Run: rt.cloneRunLocked()}
}

// cloneRunLocked copies the run with fresh slice backing. Broadcast messages
// are serialized by the write pump outside the mutex, so a queued snapshot
// must not alias slices that later actions mutate in place.
func (rt *Runtime) cloneRunLocked() engine.Run {
	snapshot := *rt.run
	snapshot.Deck = append([]engine.Card(nil), rt.run.Deck...)
	snapshot.Hand = append([]engine.Card(nil), rt.run.Hand...)
	snapshot.Jokers = append([]engine.Joker(nil), rt.run.Jokers...)
	snapshot.ShopJokers = append([]engine.Joker(nil), rt.run.ShopJokers...)
	snapshot.BlindsQueue = append([]engine.Blind(nil), rt.run.BlindsQueue...)
	return snapshot
}

// Snapshot hands a copy of the engine state to read-only collaborators.
func (rt *Runtime) Snapshot() engine.Run {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.cloneRunLocked()
}

func (rt *Runtime) Subscribe() (int64, chan OutgoingMessage) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.nextSubID++
	id := rt.nextSubID
	ch := make(chan OutgoingMessage, 16)
	rt.subscribers[id] = ch
	rt.pushMessageLocked(id, OutgoingMessage{Type: "state", Seq: rt.nextSeqLocked(), Data: rt.stateLocked()})
	return id, ch
}

func (rt *Runtime) Unsubscribe(subID int64) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if ch, ok := rt.subscribers[subID]; ok {
		delete(rt.subscribers, subID)
		close(ch)
	}
}

// ToggleSelect flips a card selection and broadcasts the new state.
func (rt *Runtime) ToggleSelect(cardID string) (RunState, error) {
	return rt.mutate(func() error { return rt.run.ToggleSelect(cardID) })
}

func (rt *Runtime) SortHand() (RunState, error) {
	return rt.mutate(func() error {
		rt.run.SortHand()
		return nil
	})
}

func (rt *Runtime) Discard() (RunState, error) {
	return rt.mutate(func() error { return rt.run.Discard() })
}

func (rt *Runtime) EnterShop() (RunState, error) {
	return rt.mutate(func() error { return rt.run.EnterShop() })
}

func (rt *Runtime) BuyJoker(jokerID string) (RunState, error) {
	return rt.mutate(func() error { return rt.run.BuyJoker(jokerID) })
}

func (rt *Runtime) SellJoker(jokerID string) (RunState, error) {
	return rt.mutate(func() error { return rt.run.SellJoker(jokerID) })
}

func (rt *Runtime) Reroll() (RunState, error) {
	return rt.mutate(func() error { return rt.run.Reroll() })
}

func (rt *Runtime) NextRound() (RunState, error) {
	return rt.mutate(func() error { return rt.run.NextRound() })
}

// Play scores the selection. The final state is committed before this
// returns; the per-step reveal runs afterwards and is cancelled by any
// subsequent action.
func (rt *Runtime) Play() (RunState, engine.ScoreResult, error) {
	rt.mu.Lock()

	rt.cancelRevealLocked()
	result, err := rt.run.Play(rt.text)
	if err != nil {
		rt.mu.Unlock()
		return RunState{}, engine.ScoreResult{}, err
	}

	state := rt.stateLocked()
	rt.broadcastStateLocked()
	rt.startRevealLocked(result)
	finished := rt.run.Status == engine.StatusLost
	rt.mu.Unlock()

	if rt.onPlayed != nil {
		rt.onPlayed(rt, result)
	}
	if finished && rt.onFinish != nil {
		go rt.onFinish(rt)
	}
	return state, result, nil
}

// HandleAction dispatches a websocket action onto the runtime.
func (rt *Runtime) HandleAction(action string, data json.RawMessage) error {
	switch action {
	case "select":
		var payload struct {
			CardID string `json:"cardId"`
		}
		if err := json.Unmarshal(data, &payload); err != nil || payload.CardID == "" {
			return fmt.Errorf("cardId required")
		}
		_, err := rt.ToggleSelect(payload.CardID)
		return err
	case "sort":
		_, err := rt.SortHand()
		return err
	case "play":
		_, _, err := rt.Play()
		return err
	case "discard":
		_, err := rt.Discard()
		return err
	case "enter_shop":
		_, err := rt.EnterShop()
		return err
	case "buy", "sell":
		var payload struct {
			JokerID string `json:"jokerId"`
		}
		if err := json.Unmarshal(data, &payload); err != nil || payload.JokerID == "" {
			return fmt.Errorf("jokerId required")
		}
		if action == "buy" {
			_, err := rt.BuyJoker(payload.JokerID)
			return err
		}
		_, err := rt.SellJoker(payload.JokerID)
		return err
	case "reroll":
		_, err := rt.Reroll()
		return err
	case "next_round":
		_, err := rt.NextRound()
		return err
	case "rejoin":
		rt.mu.Lock()
		rt.broadcastStateLocked()
		rt.mu.Unlock()
		return nil
	case "ping":
		rt.mu.Lock()
		msg := OutgoingMessage{Type: "pong", Seq: rt.nextSeqLocked(), Data: map[string]string{"message": "pong"}}
		for id := range rt.subscribers {
			rt.pushMessageLocked(id, msg)
		}
		rt.mu.Unlock()
		return nil
	default:
		return fmt.Errorf("unsupported action")
	}
}

func (rt *Runtime) mutate(op func() error) (RunState, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.cancelRevealLocked()
	if err := op(); err != nil {
		return RunState{}, err
	}
	state := rt.stateLocked()
	rt.broadcastStateLocked()
	return state, nil
}

// guard rejects actions on a run owned by someone else.
func (rt *Runtime) CheckOwner(playerID int64) error {
	if rt.playerID != playerID {
		return appErr.ErrRunAccessDenied
	}
	return nil
}

func (rt *Runtime) startRevealLocked(result engine.ScoreResult) {
	cancel := make(chan struct{})
	rt.revealCancel = cancel

	steps := append([]engine.TraceStep(nil), result.Trace...)
	go func() {
		for i, step := range steps {
			select {
			case <-cancel:
				return
			case <-time.After(revealStepDelay):
			}
			rt.mu.Lock()
			rt.broadcastLocked(OutgoingMessage{
				Type: "score_step",
				Seq:  rt.nextSeqLocked(),
				Data: map[string]interface{}{"index": i, "step": step},
			})
			if i == len(steps)-1 {
				rt.broadcastLocked(OutgoingMessage{
					Type: "score_done",
					Seq:  rt.nextSeqLocked(),
					Data: map[string]interface{}{"handType": result.HandType, "total": result.Total},
				})
			}
			rt.mu.Unlock()
		}
	}()
}

func (rt *Runtime) cancelRevealLocked() {
	if rt.revealCancel != nil {
		close(rt.revealCancel)
		rt.revealCancel = nil
	}
}

func (rt *Runtime) broadcastStateLocked() {
	rt.broadcastLocked(OutgoingMessage{Type: "state", Seq: rt.nextSeqLocked(), Data: rt.stateLocked()})
}

func (rt *Runtime) broadcastLocked(msg OutgoingMessage) {
	for id, ch := range rt.subscribers {
		select {
		case ch <- msg:
		default:
			logger.Log.Warn("ws subscriber channel full",
				zap.Int64("subID", id), zap.String("runID", rt.runID))
		}
	}
}

func (rt *Runtime) pushMessageLocked(subID int64, msg OutgoingMessage) {
	if ch, ok := rt.subscribers[subID]; ok {
		select {
		case ch <- msg:
		default:
			logger.Log.Warn("ws subscriber channel full",
				zap.Int64("subID", subID), zap.String("runID", rt.runID))
		}
	}
}

func (rt *Runtime) nextSeqLocked() int64 {
	rt.seq++
	return rt.seq
}
