package section

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenetworkclub/network-go/internal/collection"
)

type note struct {
	ID        int64
	Text      string
	CreatedAt time.Time
}

// fakeBackend stores notes in a map and can be told to fail.
type fakeBackend struct {
	notes   map[int64]note
	nextID  int64
	failErr error
	lists   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{notes: map[int64]note{}, nextID: 1}
}

func (b *fakeBackend) List(context.Context) ([]note, error) {
	b.lists++
	if b.failErr != nil {
		return nil, b.failErr
	}
	out := make([]note, 0, len(b.notes))
	for _, n := range b.notes {
		out = append(out, n)
	}
	return out, nil
}

func (b *fakeBackend) Create(_ context.Context, n note) (note, error) {
	if b.failErr != nil {
		return note{}, b.failErr
	}
	n.ID = b.nextID
	b.nextID++
	b.notes[n.ID] = n
	return n, nil
}

func (b *fakeBackend) Update(_ context.Context, n note) (note, error) {
	if b.failErr != nil {
		return note{}, b.failErr
	}
	if _, ok := b.notes[n.ID]; !ok {
		return note{}, &BackendError{Op: "update note", Err: errors.New("not found")}
	}
	b.notes[n.ID] = n
	return n, nil
}

func (b *fakeBackend) Delete(_ context.Context, id int64) error {
	if b.failErr != nil {
		return b.failErr
	}
	delete(b.notes, id)
	return nil
}

func newNoteCache() *collection.Cache[note] {
	return collection.New(
		func(n note) int64 { return n.ID },
		func(a, b note) bool { return a.CreatedAt.After(b.CreatedAt) },
	)
}

func TestItemsLoadsOnFirstAccess(t *testing.T) {
	backend := newFakeBackend()
	backend.notes[1] = note{ID: 1, Text: "preexisting", CreatedAt: time.Now()}
	coord := NewCoordinator[note](backend, newNoteCache())

	items, err := coord.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, backend.lists)

	// Second access serves the snapshot without another list call.
	_, err = coord.Items(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, backend.lists)
}

func TestCreateAppliesStoredRow(t *testing.T) {
	backend := newFakeBackend()
	coord := NewCoordinator[note](backend, newNoteCache())
	ctx := context.Background()
	require.NoError(t, coord.Refresh(ctx))

	created, err := coord.Create(ctx, note{Text: "hello", CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID, "snapshot gets the store-assigned ID")

	items, err := coord.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created, items[0])
}

func TestCreateFailureLeavesSnapshotUntouched(t *testing.T) {
	backend := newFakeBackend()
	coord := NewCoordinator[note](backend, newNoteCache())
	ctx := context.Background()
	require.NoError(t, coord.Refresh(ctx))

	backend.failErr = &BackendError{Op: "create note", Err: errors.New("disk full")}
	_, err := coord.Create(ctx, note{Text: "lost"})
	require.Error(t, err)

	items, _ := coord.Items(ctx)
	assert.Empty(t, items, "rejected write must not appear in the snapshot")
}

func TestUpdateAndDelete(t *testing.T) {
	backend := newFakeBackend()
	coord := NewCoordinator[note](backend, newNoteCache())
	ctx := context.Background()
	require.NoError(t, coord.Refresh(ctx))

	created, err := coord.Create(ctx, note{Text: "v1", CreatedAt: time.Now()})
	require.NoError(t, err)

	created.Text = "v2"
	updated, err := coord.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Text)

	got, ok := coord.Cache().Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "v2", got.Text)

	require.NoError(t, coord.Delete(ctx, created.ID))
	_, ok = coord.Cache().Get(created.ID)
	assert.False(t, ok)
}

func TestLastWriteWins(t *testing.T) {
	backend := newFakeBackend()
	coord := NewCoordinator[note](backend, newNoteCache())
	ctx := context.Background()
	require.NoError(t, coord.Refresh(ctx))

	created, err := coord.Create(ctx, note{Text: "original", CreatedAt: time.Now()})
	require.NoError(t, err)

	// Two editors race; the second accepted write is the final state.
	first := created
	first.Text = "editor A"
	second := created
	second.Text = "editor B"

	_, err = coord.Update(ctx, first)
	require.NoError(t, err)
	_, err = coord.Update(ctx, second)
	require.NoError(t, err)

	got, ok := coord.Cache().Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "editor B", got.Text)
}

func TestRefreshDropsLocalState(t *testing.T) {
	backend := newFakeBackend()
	coord := NewCoordinator[note](backend, newNoteCache())
	ctx := context.Background()
	require.NoError(t, coord.Refresh(ctx))

	created, err := coord.Create(ctx, note{Text: "kept", CreatedAt: time.Now()})
	require.NoError(t, err)

	// Another process deletes the row behind our back.
	delete(backend.notes, created.ID)

	require.NoError(t, coord.Refresh(ctx))
	items, _ := coord.Items(ctx)
	assert.Empty(t, items)
}
