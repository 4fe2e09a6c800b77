// Package outbox implements the client-resident durable queue of
// housekeeping actions performed while offline, and the reconciler
// that replays them against the authoritative service once
// connectivity returns.  Entries form an append-only log: they are
// read in insertion order and removed one at a time, only after the
// corresponding authoritative write succeeds.
package outbox

import (
    "context"
    "time"
)

// PendingCleaning is an offline "room cleaned" action awaiting sync.
// Date is the service date ("2006-01-02") and CleanedAt the RFC3339
// moment the cleaning actually happened on the device, which the
// server must preserve.
type PendingCleaning struct {
    RoomID    uint64 `json:"room_id"`
    UserID    uint64 `json:"user_id"`
    Date      string `json:"date"`
    CleanedAt string `json:"cleaned_at"`
}

// PendingIncident is an offline defect report awaiting sync.  Photos
// are data-URL or raw base64 strings captured on the device.
type PendingIncident struct {
    RoomID      uint64   `json:"room_id"`
    UserID      uint64   `json:"user_id"`
    Description string   `json:"description"`
    Photos      []string `json:"photos"`
    CreatedAt   string   `json:"created_at"`
}

// Entry is one queued action.  Exactly one of Cleaning/Incident is
// set.  Entries never reference each other; the queue is a flat log
// with delete-on-sync.
type Entry struct {
    ID         uint64           `json:"id"`
    Cleaning   *PendingCleaning `json:"cleaning,omitempty"`
    Incident   *PendingIncident `json:"incident,omitempty"`
    EnqueuedAt time.Time        `json:"enqueued_at"`
}

// Store is the durable queue the client appends to while offline.
// Unsynced returns entries in insertion order; Delete removes a
// single entry after the server accepted it.
type Store interface {
    AddCleaning(ctx context.Context, c PendingCleaning) (uint64, error)
    AddIncident(ctx context.Context, i PendingIncident) (uint64, error)
    Unsynced(ctx context.Context) ([]Entry, error)
    Delete(ctx context.Context, id uint64) error
}
