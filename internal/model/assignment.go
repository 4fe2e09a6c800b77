package model

import "time"

// Assignment is a work-order record: one housekeeper is responsible
// for cleaning one room on one service date.  The triple
// (RoomID, UserID, Date) is unique; re-assigning the same triple
// refreshes AssignedAt instead of creating a duplicate row.
//
// Fields:
//  ID         – primary key identifier.
//  RoomID     – room to clean.
//  UserID     – responsible housekeeper.
//  Date       – service date (date only, UTC).
//  AssignedAt – when the assignment was (last) issued.
//  Completed  – set once a matching cleaning is recorded.
type Assignment struct {
    ID         uint64    `json:"id"`          // assignments.id
    RoomID     uint64    `json:"room_id"`     // assignments.room_id
    UserID     uint64    `json:"user_id"`     // assignments.user_id
    Date       time.Time `json:"date"`        // assignments.date
    AssignedAt time.Time `json:"assigned_at"` // assignments.assigned_at
    Completed  bool      `json:"completed"`   // assignments.completed
}

// AssignmentDetail is an assignment hydrated with its room and the
// assignee, as returned by the listing endpoints.
type AssignmentDetail struct {
    Assignment
    Room Room    `json:"room"`
    User UserRef `json:"user"`
}
