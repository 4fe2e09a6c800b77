// Package queue defines message payloads exchanged over the message broker.
package queue

// AssignmentCreatedEvent is published once per assignment batch.  It
// carries enough information for downstream consumers to notify the
// housekeeper without querying the primary database.
type AssignmentCreatedEvent struct {
    UserID      uint64   `json:"user_id"`
    RoomNumbers []string `json:"room_numbers"`
    AssignedBy  string   `json:"assigned_by"`
    Date        string   `json:"date"`
    AssignedAt  string   `json:"assigned_at"`
}
