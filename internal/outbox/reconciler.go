package outbox

import (
    "context"
    "log"
)

// Applier is the authoritative side of a reconciliation: each method
// replays one offline action through the server's transition rules.
// The housekeeping service implements it.
type Applier interface {
    ApplyCleaning(ctx context.Context, c PendingCleaning) error
    ApplyIncident(ctx context.Context, i PendingIncident) error
}

// Counts tallies the outcome for one entry kind.
type Counts struct {
    Synced int `json:"synced"`
    Failed int `json:"failed"`
}

// Results aggregates a reconciliation pass.  The counts are advisory
// telemetry: failed entries stay queued for the next pass.
type Results struct {
    Cleanings Counts `json:"cleanings"`
    Incidents Counts `json:"incidents"`
}

// Reconcile drains the store through the applier.  Entries are split
// by kind, each kind keeping its original insertion order, and applied
// one at a time.  A successfully applied entry is deleted from the
// store before the next entry of its kind is attempted, so a crash
// mid-pass leaves every undelivered entry queued.  A failed entry is
// left in place and counted; it never aborts its siblings.
func Reconcile(ctx context.Context, store Store, ap Applier) (Results, error) {
    var res Results
    entries, err := store.Unsynced(ctx)
    if err != nil {
        return res, err
    }
    for _, e := range entries {
        if e.Cleaning == nil {
            continue
        }
        if err := ap.ApplyCleaning(ctx, *e.Cleaning); err != nil {
            log.Printf("sync: cleaning entry %d failed: %v", e.ID, err)
            res.Cleanings.Failed++
            continue
        }
        if err := store.Delete(ctx, e.ID); err != nil {
            return res, err
        }
        res.Cleanings.Synced++
    }
    for _, e := range entries {
        if e.Incident == nil {
            continue
        }
        if err := ap.ApplyIncident(ctx, *e.Incident); err != nil {
            log.Printf("sync: incident entry %d failed: %v", e.ID, err)
            res.Incidents.Failed++
            continue
        }
        if err := store.Delete(ctx, e.ID); err != nil {
            return res, err
        }
        res.Incidents.Synced++
    }
    return res, nil
}
