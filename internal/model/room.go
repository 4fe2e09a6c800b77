package model

import "time"

// RoomStatus enumerates the housekeeping lifecycle states of a room.
// The set is closed: repositories and handlers must reject any other
// value so that illegal states cannot be persisted.
type RoomStatus string

const (
    RoomVacant          RoomStatus = "VACANT"           // no guest, no cleaning due
    RoomOccupied        RoomStatus = "OCCUPIED"         // guest checked in
    RoomCleaningPending RoomStatus = "CLEANING_PENDING" // assigned to a housekeeper
    RoomCheckoutPending RoomStatus = "CHECKOUT_PENDING" // guest left, cleaning not yet assigned
    RoomClean           RoomStatus = "CLEAN"            // cleaned, ready for the next guest
    RoomDisabled        RoomStatus = "DISABLED"         // out of service due to an open incident
)

// Valid reports whether s is one of the known room statuses.
func (s RoomStatus) Valid() bool {
    switch s {
    case RoomVacant, RoomOccupied, RoomCleaningPending, RoomCheckoutPending, RoomClean, RoomDisabled:
        return true
    }
    return false
}

// Room represents a physical hotel room and its housekeeping state.
// The occupancy flag is independent of the status but constrained by
// it: occupancy changes are edge-triggered and force the status (see
// ApplyOccupancy).  Rooms are created by administration and mutated
// only through the housekeeping operations.
//
// Fields:
//  ID         – primary key identifier.
//  Number     – unique display label (e.g. "204").
//  Floor      – optional floor number.
//  Status     – current housekeeping status.
//  IsOccupied – whether a guest currently occupies the room.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Room struct {
    ID         uint64     `json:"id"`          // rooms.id
    Number     string     `json:"number"`      // rooms.number
    Floor      *int       `json:"floor"`       // rooms.floor (nullable)
    Status     RoomStatus `json:"status"`      // rooms.status
    IsOccupied bool       `json:"is_occupied"` // rooms.is_occupied
    CreatedAt  time.Time  `json:"created_at"`  // rooms.created_at
    UpdatedAt  time.Time  `json:"updated_at"`  // rooms.updated_at
}

// ApplyOccupancy returns the status a room must take when its occupancy
// flag flips.  The trigger is edge-based: marking a room occupied always
// forces OCCUPIED and marking it vacated always forces CHECKOUT_PENDING
// regardless of the prior status, so every checkout re-enters the
// cleaning pipeline.  A DISABLED room keeps its status; only the flag
// changes, because resolving the incident is the sole exit from
// DISABLED.
func ApplyOccupancy(cur RoomStatus, occupied bool) RoomStatus {
    if cur == RoomDisabled {
        return RoomDisabled
    }
    if occupied {
        return RoomOccupied
    }
    return RoomCheckoutPending
}

// StatusEditAllowed reports whether a direct status edit from cur to
// next is legal.  The only restriction is leaving DISABLED: that exit
// belongs exclusively to incident resolution.
func StatusEditAllowed(cur, next RoomStatus) bool {
    return cur != RoomDisabled || next == RoomDisabled
}
