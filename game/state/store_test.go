package state_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Nam088/drinking-game-v2/game/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore(t *testing.T) *state.Store {
	t.Helper()
	return state.Open(filepath.Join(t.TempDir(), "state.json"), zap.NewNop())
}

func TestAddPlayer(t *testing.T) {
	s := newStore(t)

	p := s.AddPlayer("Alice")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Alice", p.Name)

	players := s.Players()
	require.Len(t, players, 1)
	assert.Equal(t, p, players[0])
}

func TestAddPlayer_SanitizesName(t *testing.T) {
	s := newStore(t)

	p := s.AddPlayer("  <b>Alice</b>  ")
	assert.Equal(t, "Alice", p.Name)
}

func TestAddPlayer_NoUniqueness(t *testing.T) {
	s := newStore(t)

	a := s.AddPlayer("Alice")
	b := s.AddPlayer("Alice")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, s.Players(), 2)
}

func TestEditPlayer_PropagatesOwnerName(t *testing.T) {
	s := newStore(t)
	alice := s.AddPlayer("Alice")
	bob := s.AddPlayer("Bob")

	s.AddItem(state.ItemDraft{CardID: 1, OwnerID: alice.ID, OwnerName: alice.Name, Content: "Shield", Category: "ITEM"})
	s.AddItem(state.ItemDraft{CardID: 2, OwnerID: bob.ID, OwnerName: bob.Name, Content: "Sword", Category: "ITEM"})

	require.True(t, s.EditPlayer(alice.ID, "Alicia"))

	players := s.Players()
	names := map[string]string{}
	for _, p := range players {
		names[p.ID] = p.Name
	}
	assert.Equal(t, "Alicia", names[alice.ID])
	assert.Equal(t, "Bob", names[bob.ID])

	for _, item := range s.Items() {
		switch item.OwnerID {
		case alice.ID:
			assert.Equal(t, "Alicia", item.OwnerName)
		case bob.ID:
			assert.Equal(t, "Bob", item.OwnerName, "other players' items must be untouched")
		}
	}
}

func TestEditPlayer_Missing(t *testing.T) {
	s := newStore(t)
	assert.False(t, s.EditPlayer("no-such-id", "Nobody"))
}

func TestRemovePlayer_LeavesItemsOrphaned(t *testing.T) {
	s := newStore(t)
	alice := s.AddPlayer("Alice")
	s.AddItem(state.ItemDraft{CardID: 1, OwnerID: alice.ID, OwnerName: alice.Name, Content: "Shield", Category: "ITEM"})

	require.True(t, s.RemovePlayer(alice.ID))
	assert.Empty(t, s.Players())

	// No cascade: the item keeps its stale owner snapshot.
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, alice.ID, items[0].OwnerID)
	assert.Equal(t, "Alice", items[0].OwnerName)
}

func TestAddItem_UseItem_RoundTrip(t *testing.T) {
	s := newStore(t)
	alice := s.AddPlayer("Alice")

	before := s.Items()
	item := s.AddItem(state.ItemDraft{CardID: 7, OwnerID: alice.ID, OwnerName: alice.Name, Content: "Shield", Category: "ITEM", Difficulty: "FUN"})
	assert.NotEmpty(t, item.ID)
	assert.Greater(t, item.AcquiredAt, int64(0))
	require.Len(t, s.Items(), 1)

	require.True(t, s.UseItem(item.ID))
	assert.Equal(t, before, s.Items())
}

func TestUseItem_MissingNoop(t *testing.T) {
	s := newStore(t)
	assert.False(t, s.UseItem("no-such-item"))
}

func TestItemsByRecency_NewestFirst(t *testing.T) {
	s := newStore(t)
	alice := s.AddPlayer("Alice")

	s.AddItem(state.ItemDraft{CardID: 1, OwnerID: alice.ID, OwnerName: alice.Name, Content: "first"})
	s.AddItem(state.ItemDraft{CardID: 2, OwnerID: alice.ID, OwnerName: alice.Name, Content: "second"})
	s.AddItem(state.ItemDraft{CardID: 3, OwnerID: alice.ID, OwnerName: alice.Name, Content: "third"})

	items := s.ItemsByRecency()
	require.Len(t, items, 3)
	assert.Equal(t, "third", items[0].Content)
	assert.Equal(t, "first", items[2].Content)
}

func TestPersistence_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := state.Open(path, zap.NewNop())
	alice := s.AddPlayer("Alice")
	item := s.AddItem(state.ItemDraft{CardID: 1, OwnerID: alice.ID, OwnerName: alice.Name, Content: "Shield", Category: "ITEM"})

	reopened := state.Open(path, zap.NewNop())
	require.Len(t, reopened.Players(), 1)
	assert.Equal(t, alice, reopened.Players()[0])
	require.Len(t, reopened.Items(), 1)
	assert.Equal(t, item, reopened.Items()[0])
}

func TestOpen_CorruptBlobStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{definitely not json"), 0o644))

	s := state.Open(path, zap.NewNop())
	assert.Empty(t, s.Players())
	assert.Empty(t, s.Items())
}

func TestPersistFailure_DoesNotFailMutation(t *testing.T) {
	// Unwritable path: directory that does not exist.
	s := state.Open(filepath.Join(t.TempDir(), "missing-dir", "state.json"), zap.NewNop())

	p := s.AddPlayer("Alice")
	require.Len(t, s.Players(), 1)
	assert.Equal(t, p, s.Players()[0])
}

func TestSubscribe_NotifiesPerMutation(t *testing.T) {
	s := newStore(t)
	ch, cancel := s.Subscribe()
	defer cancel()

	alice := s.AddPlayer("Alice")
	snap := <-ch
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "Alice", snap.Players[0].Name)

	s.AddItem(state.ItemDraft{CardID: 1, OwnerID: alice.ID, OwnerName: alice.Name, Content: "Shield"})
	snap = <-ch
	assert.Len(t, snap.Items, 1)
}

func TestSubscribe_CancelStopsDelivery(t *testing.T) {
	s := newStore(t)
	ch, cancel := s.Subscribe()
	cancel()

	s.AddPlayer("Alice")
	_, open := <-ch
	assert.False(t, open)
}
