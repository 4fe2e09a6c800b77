package outbox

import (
    "context"
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

// recordingApplier accepts or rejects entries by room ID and records
// the order replays arrive in.
type recordingApplier struct {
    rejectRooms map[uint64]bool
    cleanings   []uint64
    incidents   []uint64
}

func (a *recordingApplier) ApplyCleaning(_ context.Context, c PendingCleaning) error {
    if a.rejectRooms[c.RoomID] {
        return errors.New("rejected")
    }
    a.cleanings = append(a.cleanings, c.RoomID)
    return nil
}

func (a *recordingApplier) ApplyIncident(_ context.Context, i PendingIncident) error {
    if a.rejectRooms[i.RoomID] {
        return errors.New("rejected")
    }
    a.incidents = append(a.incidents, i.RoomID)
    return nil
}

func TestReconcileDrainsInOrder(t *testing.T) {
    ctx := context.Background()
    store := NewMemoryStore()
    for _, roomID := range []uint64{10, 20, 30} {
        _, err := store.AddCleaning(ctx, PendingCleaning{RoomID: roomID, UserID: 7, Date: "2026-03-10", CleanedAt: "2026-03-10T08:00:00Z"})
        require.NoError(t, err)
    }
    _, err := store.AddIncident(ctx, PendingIncident{RoomID: 40, UserID: 7, Description: "broken lock"})
    require.NoError(t, err)

    ap := &recordingApplier{}
    res, err := Reconcile(ctx, store, ap)
    require.NoError(t, err)

    assert.Equal(t, Counts{Synced: 3}, res.Cleanings)
    assert.Equal(t, Counts{Synced: 1}, res.Incidents)
    assert.Equal(t, []uint64{10, 20, 30}, ap.cleanings)
    assert.Equal(t, []uint64{40}, ap.incidents)

    left, err := store.Unsynced(ctx)
    require.NoError(t, err)
    assert.Empty(t, left)
}

func TestReconcileLeavesFailedEntriesQueued(t *testing.T) {
    ctx := context.Background()
    store := NewMemoryStore()
    _, err := store.AddCleaning(ctx, PendingCleaning{RoomID: 10, UserID: 7, Date: "2026-03-10", CleanedAt: "2026-03-10T08:00:00Z"})
    require.NoError(t, err)
    _, err = store.AddCleaning(ctx, PendingCleaning{RoomID: 20, UserID: 7, Date: "2026-03-10", CleanedAt: "2026-03-10T08:05:00Z"})
    require.NoError(t, err)
    _, err = store.AddCleaning(ctx, PendingCleaning{RoomID: 30, UserID: 7, Date: "2026-03-10", CleanedAt: "2026-03-10T08:10:00Z"})
    require.NoError(t, err)

    ap := &recordingApplier{rejectRooms: map[uint64]bool{20: true}}
    res, err := Reconcile(ctx, store, ap)
    require.NoError(t, err)

    // The failure neither aborts the pass nor touches its siblings.
    assert.Equal(t, Counts{Synced: 2, Failed: 1}, res.Cleanings)
    assert.Equal(t, []uint64{10, 30}, ap.cleanings)

    left, err := store.Unsynced(ctx)
    require.NoError(t, err)
    require.Len(t, left, 1)
    assert.Equal(t, uint64(20), left[0].Cleaning.RoomID)

    // The next pass picks the survivor up once the server accepts it.
    ap.rejectRooms = nil
    res, err = Reconcile(ctx, store, ap)
    require.NoError(t, err)
    assert.Equal(t, Counts{Synced: 1}, res.Cleanings)

    left, err = store.Unsynced(ctx)
    require.NoError(t, err)
    assert.Empty(t, left)
}
