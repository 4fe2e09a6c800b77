package model

// RoomOverview is the board row returned by the rooms listing: the
// room itself plus the context a client needs to render it for a given
// date.  For reception/admin all assignments for the date are
// included; for a housekeeper only their own.  LastCleaning is the
// most recent cleaning in scope and OpenIncident the newest OPEN
// incident, both nil when absent.
type RoomOverview struct {
    Room
    Assignments  []AssignmentDetail `json:"assignments"`
    LastCleaning *CleaningDetail    `json:"last_cleaning,omitempty"`
    OpenIncident *Incident          `json:"open_incident,omitempty"`
    Pending      bool               `json:"pending"`
}
