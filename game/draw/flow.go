// Package draw orchestrates the visible card lifecycle: the draw on
// entry, swipe-triggered redraws with a one-card-ahead prefetch, and the
// keep-item path for ITEM cards.
package draw

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Nam088/drinking-game-v2/client"
	"github.com/Nam088/drinking-game-v2/game/state"
	"github.com/Nam088/drinking-game-v2/model"
	"go.uber.org/zap"
)

// SwipeThreshold is the horizontal displacement a gesture must exceed to
// trigger a redraw.
const SwipeThreshold = 50.0

// Phase is the visible state of the card view.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseShowing Phase = "showing"
	PhaseDrawing Phase = "drawing"
)

var (
	// ErrNoCards signals an empty deck on the initial draw.
	ErrNoCards = errors.New("no cards found in deck")
	// ErrCannotKeep is returned when the shown card is not a flipped ITEM.
	ErrCannotKeep = errors.New("card cannot be kept")
	// ErrUnknownPlayer is returned when Keep names a player id that does
	// not exist and no new player name was given.
	ErrUnknownPlayer = errors.New("unknown player")
)

// Fetcher draws one random card; (nil, nil) means the deck is empty.
// *client.Client satisfies it.
type Fetcher interface {
	Random(ctx context.Context) (*client.Card, error)
}

// Flow is the per-view draw state machine. All methods are safe for
// concurrent use; rapid repeated swipes collapse into a single transition.
type Flow struct {
	fetcher  Fetcher
	prefetch bool
	logger   *zap.Logger

	mu          sync.Mutex
	phase       Phase
	current     *client.Card
	held        *client.Card // prefetched next card
	drawing     bool
	prefetching bool
	flipped     bool
	exitDir     int // -1 swipe left, +1 swipe right
}

// NewFlow creates a Flow. With prefetch enabled, one card is fetched ahead
// after every shown card so a swipe usually needs no network round trip.
func NewFlow(fetcher Fetcher, prefetch bool, logger *zap.Logger) *Flow {
	return &Flow{fetcher: fetcher, prefetch: prefetch, logger: logger, phase: PhaseIdle}
}

// Start performs the mount draw. On an empty deck the view stays card-less
// and ErrNoCards is returned so the caller can show the empty state.
func (f *Flow) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.phase != PhaseIdle {
		f.mu.Unlock()
		return nil
	}
	f.phase = PhaseLoading
	f.mu.Unlock()

	card, err := f.fetcher.Random(ctx)

	f.mu.Lock()
	if err != nil {
		f.phase = PhaseIdle
		f.mu.Unlock()
		f.logger.Warn("initial draw failed", zap.Error(err))
		return err
	}
	if card == nil {
		f.phase = PhaseIdle
		f.mu.Unlock()
		return ErrNoCards
	}
	f.current = card
	f.flipped = false
	f.phase = PhaseShowing
	f.mu.Unlock()

	f.schedulePrefetch(ctx)
	return nil
}

// Swipe handles a completed drag gesture. It reports whether the view
// advanced to a new card. Gestures under the threshold, swipes while a
// draw is already in flight, and fetch failures all leave the current card
// in place.
func (f *Flow) Swipe(ctx context.Context, offsetX float64) bool {
	if offsetX <= SwipeThreshold && offsetX >= -SwipeThreshold {
		return false
	}
	dir := -1
	if offsetX > 0 {
		dir = 1
	}
	return f.advance(ctx, dir)
}

// advance performs the Showing -> Drawing -> Showing transition.
func (f *Flow) advance(ctx context.Context, dir int) bool {
	f.mu.Lock()
	if f.phase != PhaseShowing || f.drawing {
		f.mu.Unlock()
		return false
	}
	f.drawing = true
	f.phase = PhaseDrawing
	f.exitDir = dir
	next := f.held
	f.held = nil
	f.mu.Unlock()

	if next == nil {
		card, err := f.fetcher.Random(ctx)
		if err != nil || card == nil {
			f.mu.Lock()
			f.drawing = false
			f.phase = PhaseShowing
			f.mu.Unlock()
			if err != nil {
				f.logger.Warn("draw failed, keeping current card", zap.Error(err))
			}
			return false
		}
		next = card
	}

	f.mu.Lock()
	f.current = next
	f.flipped = false
	f.drawing = false
	f.phase = PhaseShowing
	f.mu.Unlock()

	f.schedulePrefetch(ctx)
	return true
}

// schedulePrefetch fetches the next card in the background so the upcoming
// swipe can consume it without waiting on the network.
func (f *Flow) schedulePrefetch(ctx context.Context) {
	if !f.prefetch {
		return
	}
	f.mu.Lock()
	if f.prefetching || f.held != nil {
		f.mu.Unlock()
		return
	}
	f.prefetching = true
	f.mu.Unlock()

	go func() {
		card, err := f.fetcher.Random(ctx)

		f.mu.Lock()
		f.prefetching = false
		if err != nil {
			f.mu.Unlock()
			f.logger.Warn("prefetch failed", zap.Error(err))
			return
		}
		f.held = card
		f.mu.Unlock()
	}()
}

// Flip reveals or hides the card face and returns the new flipped state.
func (f *Flow) Flip() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != PhaseShowing || f.current == nil {
		return false
	}
	f.flipped = !f.flipped
	return f.flipped
}

// CanKeep reports whether the shown card currently offers the keep
// affordance: a revealed card of category ITEM.
func (f *Flow) CanKeep() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canKeepLocked()
}

func (f *Flow) canKeepLocked() bool {
	return f.phase == PhaseShowing && f.current != nil && f.flipped &&
		strings.EqualFold(strings.TrimSpace(f.current.Category), model.CategoryItem)
}

// Keep stores the shown ITEM card in the game state, attributed to the
// player with ownerID or to a newly created player when newPlayerName is
// given, then advances as if a swipe had occurred.
func (f *Flow) Keep(ctx context.Context, st *state.Store, ownerID, newPlayerName string) (state.InventoryItem, error) {
	f.mu.Lock()
	if !f.canKeepLocked() {
		f.mu.Unlock()
		return state.InventoryItem{}, ErrCannotKeep
	}
	card := *f.current
	f.mu.Unlock()

	var owner state.Player
	if name := strings.TrimSpace(newPlayerName); name != "" {
		owner = st.AddPlayer(name)
	} else {
		found := false
		for _, p := range st.Players() {
			if p.ID == ownerID {
				owner = p
				found = true
				break
			}
		}
		if !found {
			return state.InventoryItem{}, ErrUnknownPlayer
		}
	}

	item := st.AddItem(state.ItemDraft{
		CardID:     card.ID,
		OwnerID:    owner.ID,
		OwnerName:  owner.Name,
		Content:    card.Content,
		Penalty:    card.Penalty,
		Category:   card.Category,
		Difficulty: card.Difficulty,
	})

	f.advance(ctx, -1)
	return item, nil
}

// Phase returns the current view phase.
func (f *Flow) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Current returns the card being shown, or nil.
func (f *Flow) Current() *client.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Prefetched reports whether a next card is already held.
func (f *Flow) Prefetched() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.held != nil
}

// ExitDirection returns -1 or +1 for the last swipe's exit animation side.
func (f *Flow) ExitDirection() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exitDir
}
