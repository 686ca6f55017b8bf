// Package state is the client-side source of truth for players and kept
// inventory items. It is a reactive store: every mutation is applied
// atomically, persisted to a local JSON blob, and fanned out to observers.
package state

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// Player is a locally tracked participant. Names are free text; nothing
// enforces uniqueness.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InventoryItem is a kept ITEM card snapshot attributed to a player. The
// owner fields are a denormalized copy taken at acquisition time; only
// EditPlayer rewrites OwnerName afterwards.
type InventoryItem struct {
	ID         string `json:"id"`
	CardID     int64  `json:"cardId"`
	OwnerID    string `json:"ownerId"`
	OwnerName  string `json:"ownerName"`
	Content    string `json:"content"`
	Penalty    string `json:"penalty"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	AcquiredAt int64  `json:"acquiredAt"` // unix milliseconds
}

// ItemDraft is an InventoryItem before the store assigns id and timestamp.
type ItemDraft struct {
	CardID     int64
	OwnerID    string
	OwnerName  string
	Content    string
	Penalty    string
	Category   string
	Difficulty string
}

// Snapshot is the full state as persisted and as delivered to observers.
type Snapshot struct {
	Players []Player        `json:"players"`
	Items   []InventoryItem `json:"items"`
}

var namePolicy = bluemonday.StrictPolicy()

func sanitizeName(name string) string {
	return strings.TrimSpace(namePolicy.Sanitize(name))
}

type subscriber struct {
	ch chan Snapshot
}

// Store holds the game state. All mutations are serialized; persistence is
// best-effort (a failed write weakens durability, never the mutation).
type Store struct {
	mu          sync.Mutex
	players     []Player
	items       []InventoryItem
	path        string
	subscribers []*subscriber
	logger      *zap.Logger
}

// Open loads the state blob at path, or starts empty when it is missing or
// unreadable. A corrupt blob is logged and discarded rather than crashing
// the game.
func Open(path string, logger *zap.Logger) *Store {
	s := &Store{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("state blob unreadable, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return s
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logger.Warn("state blob corrupt, starting empty",
			zap.String("path", path), zap.Error(err))
		return s
	}
	s.players = snap.Players
	s.items = snap.Items
	return s
}

// AddPlayer appends a new player with a generated id. Empty or whitespace
// names are the caller's problem; the store only strips HTML and trims.
func (s *Store) AddPlayer(name string) Player {
	p := Player{ID: uuid.NewString(), Name: sanitizeName(name)}

	s.mu.Lock()
	s.players = append(s.players, p)
	s.afterMutationLocked()
	s.mu.Unlock()
	return p
}

// EditPlayer renames a player in place and rewrites OwnerName on every item
// owned by them. This is the only mechanism that keeps item display names
// in sync with a rename. Returns false when the player does not exist.
func (s *Store) EditPlayer(id, newName string) bool {
	newName = sanitizeName(newName)

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.players {
		if s.players[i].ID == id {
			s.players[i].Name = newName
			found = true
			break
		}
	}
	if !found {
		return false
	}
	for i := range s.items {
		if s.items[i].OwnerID == id {
			s.items[i].OwnerName = newName
		}
	}
	s.afterMutationLocked()
	return true
}

// RemovePlayer deletes the player record only. Items attributed to them are
// left untouched and keep the last-known owner snapshot; the no-cascade is
// deliberate.
func (s *Store) RemovePlayer(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.players {
		if s.players[i].ID == id {
			s.players = append(s.players[:i], s.players[i+1:]...)
			s.afterMutationLocked()
			return true
		}
	}
	return false
}

// AddItem stores a kept card with a generated id and acquisition timestamp.
// Items are prepended; display order is the caller's job (ItemsByRecency).
func (s *Store) AddItem(d ItemDraft) InventoryItem {
	item := InventoryItem{
		ID:         uuid.NewString(),
		CardID:     d.CardID,
		OwnerID:    d.OwnerID,
		OwnerName:  d.OwnerName,
		Content:    d.Content,
		Penalty:    d.Penalty,
		Category:   d.Category,
		Difficulty: d.Difficulty,
		AcquiredAt: time.Now().UnixMilli(),
	}

	s.mu.Lock()
	s.items = append([]InventoryItem{item}, s.items...)
	s.afterMutationLocked()
	s.mu.Unlock()
	return item
}

// UseItem removes the item with the given id; no-op when absent.
func (s *Store) UseItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.afterMutationLocked()
			return true
		}
	}
	return false
}

// Players returns a copy of the player list.
func (s *Store) Players() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Player(nil), s.players...)
}

// Items returns a copy of the item list in storage order.
func (s *Store) Items() []InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]InventoryItem(nil), s.items...)
}

// ItemsByRecency returns the items sorted newest-first by AcquiredAt.
func (s *Store) ItemsByRecency() []InventoryItem {
	items := s.Items()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AcquiredAt > items[j].AcquiredAt
	})
	return items
}

// Subscribe returns a channel that receives a snapshot after every
// mutation, and a cancel function. Delivery is non-blocking; a slow
// observer misses snapshots instead of stalling mutations.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	sub := &subscriber{ch: make(chan Snapshot, 16)}

	s.mu.Lock()
	s.subscribers = append(s.subscribers, sub)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, candidate := range s.subscribers {
			if candidate == sub {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				close(sub.ch)
				return
			}
		}
	}
	return sub.ch, cancel
}

// afterMutationLocked persists and notifies. Callers hold s.mu.
func (s *Store) afterMutationLocked() {
	snap := Snapshot{
		Players: append([]Player(nil), s.players...),
		Items:   append([]InventoryItem(nil), s.items...),
	}

	if s.path != "" {
		data, err := json.Marshal(snap)
		if err == nil {
			err = os.WriteFile(s.path, data, 0o644)
		}
		if err != nil {
			s.logger.Warn("state persist failed", zap.String("path", s.path), zap.Error(err))
		}
	}

	for _, sub := range s.subscribers {
		select {
		case sub.ch <- snap:
		default:
			// Drop snapshot if the observer's buffer is full.
		}
	}
}
