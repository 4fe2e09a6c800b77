package model

import "time"

// Cleaning is an immutable fact: a room was cleaned by a user at some
// time.  Rows are append-only; recording the same cleaning twice
// produces two rows and that is tolerated.  Date is the service date
// the cleaning counts toward, CleanedAt the actual wall-clock moment
// (which, for work synced from an offline device, predates the sync).
//
// Fields:
//  ID        – primary key identifier.
//  RoomID    – room that was cleaned.
//  UserID    – housekeeper who cleaned it.
//  Date      – service date (date only, UTC).
//  CleanedAt – actual timestamp of the cleaning.
type Cleaning struct {
    ID        uint64    `json:"id"`         // cleanings.id
    RoomID    uint64    `json:"room_id"`    // cleanings.room_id
    UserID    uint64    `json:"user_id"`    // cleanings.user_id
    Date      time.Time `json:"date"`       // cleanings.date
    CleanedAt time.Time `json:"cleaned_at"` // cleanings.cleaned_at
}

// CleaningDetail is a cleaning hydrated with its room and user for the
// listing and history endpoints.
type CleaningDetail struct {
    Cleaning
    Room Room    `json:"room"`
    User UserRef `json:"user"`
}

// NeedsCleaning implements the derived pending rule: a room counts as
// pending when it has never been cleaned, or when its most recent
// assignment was issued strictly after its most recent cleaning (it was
// reassigned after last being cleaned).  The rule is evaluated at read
// time and never stored.
func NeedsCleaning(lastAssignedAt, lastCleanedAt *time.Time) bool {
    if lastCleanedAt == nil {
        return true
    }
    if lastAssignedAt == nil {
        return false
    }
    return lastAssignedAt.After(*lastCleanedAt)
}
