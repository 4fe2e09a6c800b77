package model

import "time"

// IncidentStatus enumerates the lifecycle states of a defect report.
type IncidentStatus string

const (
    IncidentOpen     IncidentStatus = "OPEN"
    IncidentResolved IncidentStatus = "RESOLVED"
)

// Valid reports whether s is a known incident status.
func (s IncidentStatus) Valid() bool {
    return s == IncidentOpen || s == IncidentResolved
}

// MaxIncidentPhotos caps the number of photos attached to one report.
const MaxIncidentPhotos = 3

// Incident is a defect report filed by housekeeping.  Creating one
// takes the room out of service (DISABLED); only reception resolves
// incidents, and resolution is the sole path back out of DISABLED.
//
// Fields:
//  ID          – primary key identifier.
//  RoomID      – affected room.
//  UserID      – reporting user.
//  Description – free-text defect description (never empty).
//  Status      – OPEN or RESOLVED.
//  CreatedAt   – when the report was filed.
//  ResolvedAt  – when it was resolved (nil while open).
//  ResolvedBy  – reception user who resolved it (nil while open).
type Incident struct {
    ID          uint64         `json:"id"`          // incidents.id
    RoomID      uint64         `json:"room_id"`     // incidents.room_id
    UserID      uint64         `json:"user_id"`     // incidents.user_id
    Description string         `json:"description"` // incidents.description
    Status      IncidentStatus `json:"status"`      // incidents.status
    CreatedAt   time.Time      `json:"created_at"`  // incidents.created_at
    ResolvedAt  *time.Time     `json:"resolved_at"` // incidents.resolved_at (nullable)
    ResolvedBy  *uint64        `json:"resolved_by"` // incidents.resolved_by (nullable)
}

// IncidentPhoto associates a stored photo URL with an incident.
type IncidentPhoto struct {
    ID         uint64    `json:"id"`          // incident_photos.id
    IncidentID uint64    `json:"incident_id"` // incident_photos.incident_id
    URL        string    `json:"url"`         // incident_photos.url
    CreatedAt  time.Time `json:"created_at"`  // incident_photos.created_at
}

// IncidentDetail is an incident hydrated with its room, reporter and
// photos for the listing endpoints.  Photos are ordered by creation.
type IncidentDetail struct {
    Incident
    Room   Room            `json:"room"`
    User   UserRef         `json:"user"`
    Photos []IncidentPhoto `json:"photos"`
}
