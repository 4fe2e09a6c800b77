package service

import (
    "context"
    "errors"
    "fmt"
    "log"
    "strings"
    "time"

    "github.com/iliyamo/hotel-housekeeping/internal/model"
    "github.com/iliyamo/hotel-housekeeping/internal/outbox"
    "github.com/iliyamo/hotel-housekeeping/internal/photo"
    "github.com/iliyamo/hotel-housekeeping/internal/queue"
    "github.com/iliyamo/hotel-housekeeping/internal/repository"
)

// ErrValidation marks malformed input (missing room, empty
// description, too many photos).  Handlers translate it into an HTTP
// 400 response.
var ErrValidation = errors.New("invalid input")

// RoomStore is the slice of room persistence the engine needs.  The
// SQL repository implements it; tests substitute an in-memory fake.
type RoomStore interface {
    GetByID(ctx context.Context, id uint64) (model.Room, error)
    Create(ctx context.Context, room *model.Room) error
    UpdateDetails(ctx context.Context, id uint64, number *string, floor *int) error
    SetStatus(ctx context.Context, id uint64, status model.RoomStatus) error
    SetOccupancy(ctx context.Context, id uint64, occupied bool, status model.RoomStatus) error
    ListForReception(ctx context.Context, date time.Time) ([]model.RoomOverview, error)
    ListForHousekeeper(ctx context.Context, userID uint64, date time.Time) ([]model.RoomOverview, error)
    NumbersByIDs(ctx context.Context, ids []uint64) ([]string, error)
}

// AssignmentStore persists work-order records.  AssignBatch is
// all-or-nothing: every assignment upserted and every room forced to
// CLEANING_PENDING, or nothing at all.
type AssignmentStore interface {
    AssignBatch(ctx context.Context, roomIDs []uint64, userID uint64, date, assignedAt time.Time) ([]model.Assignment, error)
    Delete(ctx context.Context, id uint64) error
    ListByDate(ctx context.Context, date time.Time, userID uint64) ([]model.AssignmentDetail, error)
    MarkCompleted(ctx context.Context, roomID, userID uint64, date time.Time) error
}

// CleaningStore persists the append-only cleaning event log.
type CleaningStore interface {
    Create(ctx context.Context, c *model.Cleaning) error
    List(ctx context.Context, date time.Time, roomID, userID uint64) ([]model.CleaningDetail, error)
    History(ctx context.Context, start, end time.Time, userID uint64) ([]model.CleaningDetail, error)
    LastCleaner(ctx context.Context, roomID uint64) (uint64, error)
}

// IncidentStore persists defect reports and their photos.
type IncidentStore interface {
    Create(ctx context.Context, inc *model.Incident) error
    AddPhoto(ctx context.Context, incidentID uint64, url string) error
    Resolve(ctx context.Context, id, resolvedBy uint64, at time.Time) (model.Incident, error)
    List(ctx context.Context, roomID uint64, status model.IncidentStatus, userID uint64) ([]model.IncidentDetail, error)
    OpenCountForRoom(ctx context.Context, roomID uint64) (int, error)
}

// PhotoStore persists raw photo bytes and returns a public URL.
type PhotoStore interface {
    Save(data []byte, baseName string) (string, error)
}

// Notifier delivers assignment events.  Failures must never abort the
// operation that triggered them.
type Notifier interface {
    AssignmentCreated(ctx context.Context, event queue.AssignmentCreatedEvent) error
}

// Housekeeping is the engine coordinating room state, assignments,
// cleanings, incidents and offline-sync reconciliation.  Every
// operation takes its service date explicitly; the engine never reads
// ambient wall-clock time for scoping, only for generated timestamps
// (via Now, overridable in tests).
type Housekeeping struct {
    Rooms       RoomStore
    Assignments AssignmentStore
    Cleanings   CleaningStore
    Incidents   IncidentStore
    Photos      PhotoStore
    Notifier    Notifier
    Now         func() time.Time
}

// NewHousekeeping wires the engine with its stores and collaborators.
func NewHousekeeping(rooms RoomStore, assignments AssignmentStore, cleanings CleaningStore, incidents IncidentStore, photos PhotoStore, notifier Notifier) *Housekeeping {
    return &Housekeeping{
        Rooms:       rooms,
        Assignments: assignments,
        Cleanings:   cleanings,
        Incidents:   incidents,
        Photos:      photos,
        Notifier:    notifier,
        Now:         func() time.Time { return time.Now().UTC() },
    }
}

// ParseDate parses a service date.  It accepts the plain date form
// used by the clients and full RFC3339 timestamps, truncating the
// latter to their UTC date.
func ParseDate(s string) (time.Time, error) {
    if t, err := time.Parse("2006-01-02", s); err == nil {
        return t, nil
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t.UTC().Truncate(24 * time.Hour), nil
    }
    return time.Time{}, fmt.Errorf("%w: bad date %q", ErrValidation, s)
}

// GetRooms returns the room board for the caller's role.  Housekeepers
// see the rooms assigned to them for the date unless viewAll is set;
// reception and admin always see every room.
func (h *Housekeeping) GetRooms(ctx context.Context, role model.UserRole, actorID uint64, date time.Time, viewAll bool) ([]model.RoomOverview, error) {
    switch role {
    case model.RoleReception, model.RoleAdmin:
        return h.Rooms.ListForReception(ctx, date)
    case model.RoleHousekeeper:
        if viewAll {
            return h.Rooms.ListForReception(ctx, date)
        }
        return h.Rooms.ListForHousekeeper(ctx, actorID, date)
    }
    return nil, repository.ErrForbidden
}

// CreateRoom registers a new room.  Status defaults to VACANT.
func (h *Housekeeping) CreateRoom(ctx context.Context, number string, floor *int, status model.RoomStatus, isOccupied bool) (model.Room, error) {
    number = strings.TrimSpace(number)
    if number == "" {
        return model.Room{}, fmt.Errorf("%w: number required", ErrValidation)
    }
    if status == "" {
        status = model.RoomVacant
    }
    if !status.Valid() {
        return model.Room{}, fmt.Errorf("%w: bad status %q", ErrValidation, status)
    }
    room := model.Room{Number: number, Floor: floor, Status: status, IsOccupied: isOccupied}
    if err := h.Rooms.Create(ctx, &room); err != nil {
        return model.Room{}, err
    }
    return room, nil
}

// UpdateRoomInput carries the optional fields of a room update.  Nil
// fields are left untouched.
type UpdateRoomInput struct {
    ID         uint64
    Number     *string
    Floor      *int
    Status     *model.RoomStatus
    IsOccupied *bool
}

// UpdateRoom applies an administrative room update.  Number and floor
// edits never alter status or occupancy.  Flipping the occupancy flag
// is edge-triggered through the state machine and overrides any status
// field sent alongside it.  A direct status edit cannot leave
// DISABLED; that exit belongs to incident resolution.
func (h *Housekeeping) UpdateRoom(ctx context.Context, in UpdateRoomInput) (model.Room, error) {
    cur, err := h.Rooms.GetByID(ctx, in.ID)
    if err != nil {
        return model.Room{}, err
    }
    if in.Number != nil || in.Floor != nil {
        if in.Number != nil && strings.TrimSpace(*in.Number) == "" {
            return model.Room{}, fmt.Errorf("%w: number required", ErrValidation)
        }
        if err := h.Rooms.UpdateDetails(ctx, in.ID, in.Number, in.Floor); err != nil {
            return model.Room{}, err
        }
    }
    switch {
    case in.IsOccupied != nil && *in.IsOccupied != cur.IsOccupied:
        next := model.ApplyOccupancy(cur.Status, *in.IsOccupied)
        if err := h.Rooms.SetOccupancy(ctx, in.ID, *in.IsOccupied, next); err != nil {
            return model.Room{}, err
        }
    case in.Status != nil:
        if !in.Status.Valid() {
            return model.Room{}, fmt.Errorf("%w: bad status %q", ErrValidation, *in.Status)
        }
        if !model.StatusEditAllowed(cur.Status, *in.Status) {
            return model.Room{}, repository.ErrConflict
        }
        if err := h.Rooms.SetStatus(ctx, in.ID, *in.Status); err != nil {
            return model.Room{}, err
        }
    }
    return h.Rooms.GetByID(ctx, in.ID)
}

// AssignRooms upserts one assignment per room for (userID, date) and
// forces every targeted room to CLEANING_PENDING, atomically.
// Re-assigning an existing (room, user, date) refreshes its
// assigned_at.  One notification is emitted per batch, summarizing the
// assigned room numbers; notification failure never rolls back the
// assignment.
func (h *Housekeeping) AssignRooms(ctx context.Context, roomIDs []uint64, userID uint64, date time.Time, assignedBy string) ([]model.Assignment, error) {
    if len(roomIDs) == 0 || userID == 0 {
        return nil, fmt.Errorf("%w: roomIds and userId required", ErrValidation)
    }
    now := h.Now()
    assignments, err := h.Assignments.AssignBatch(ctx, roomIDs, userID, date, now)
    if err != nil {
        return nil, err
    }
    if h.Notifier != nil {
        numbers, err := h.Rooms.NumbersByIDs(ctx, roomIDs)
        if err != nil {
            log.Printf("notify: load room numbers failed: %v", err)
        } else {
            // Best effort: the publisher logs its own failures.
            _ = h.Notifier.AssignmentCreated(ctx, queue.AssignmentCreatedEvent{
                UserID:      userID,
                RoomNumbers: numbers,
                AssignedBy:  assignedBy,
                Date:        date.Format("2006-01-02"),
                AssignedAt:  now.Format(time.RFC3339),
            })
        }
    }
    return assignments, nil
}

// RemoveAssignment hard-deletes an assignment.
func (h *Housekeeping) RemoveAssignment(ctx context.Context, id uint64) error {
    return h.Assignments.Delete(ctx, id)
}

// ReassignLastCleaner re-assigns a single room for the date.  When
// userID is zero the room's most recent cleaner is looked up, so
// reception can restore the previous cleaner after a recurring
// checkout with one call.
func (h *Housekeeping) ReassignLastCleaner(ctx context.Context, roomID, userID uint64, date time.Time, assignedBy string) ([]model.Assignment, error) {
    if userID == 0 {
        last, err := h.Cleanings.LastCleaner(ctx, roomID)
        if err != nil {
            return nil, err
        }
        userID = last
    }
    return h.AssignRooms(ctx, []uint64{roomID}, userID, date, assignedBy)
}

// ListAssignments returns assignments for the date.  Housekeepers are
// scoped to their own; reception and admin may filter by user.
func (h *Housekeeping) ListAssignments(ctx context.Context, role model.UserRole, actorID uint64, date time.Time, userID uint64) ([]model.AssignmentDetail, error) {
    if role == model.RoleHousekeeper {
        userID = actorID
    }
    return h.Assignments.ListByDate(ctx, date, userID)
}

// RecordCleaning appends a cleaning event, forces the room to CLEAN
// and completes any assignment matching (room, user, date).  The
// operation is deliberately not idempotent: the event log keeps every
// row, and the room status converges to CLEAN either way.  cleanedAt
// is the caller's timestamp so that work synced from an offline device
// keeps its original moment.
func (h *Housekeeping) RecordCleaning(ctx context.Context, roomID, userID uint64, date, cleanedAt time.Time) (model.Cleaning, error) {
    if roomID == 0 || userID == 0 {
        return model.Cleaning{}, fmt.Errorf("%w: roomId required", ErrValidation)
    }
    if _, err := h.Rooms.GetByID(ctx, roomID); err != nil {
        return model.Cleaning{}, err
    }
    cleaning := model.Cleaning{RoomID: roomID, UserID: userID, Date: date, CleanedAt: cleanedAt}
    if err := h.Cleanings.Create(ctx, &cleaning); err != nil {
        return model.Cleaning{}, err
    }
    if err := h.Rooms.SetStatus(ctx, roomID, model.RoomClean); err != nil {
        return model.Cleaning{}, err
    }
    if err := h.Assignments.MarkCompleted(ctx, roomID, userID, date); err != nil {
        return model.Cleaning{}, err
    }
    return cleaning, nil
}

// ListCleanings returns the date's cleanings.  Housekeepers are scoped
// to their own records.
func (h *Housekeeping) ListCleanings(ctx context.Context, role model.UserRole, actorID uint64, date time.Time, roomID, userID uint64) ([]model.CleaningDetail, error) {
    if role == model.RoleHousekeeper {
        userID = actorID
    }
    return h.Cleanings.List(ctx, date, roomID, userID)
}

// CleaningHistory returns cleanings in the inclusive date range.
// Housekeepers see only their own; admins may filter by user.
func (h *Housekeeping) CleaningHistory(ctx context.Context, role model.UserRole, actorID uint64, start, end time.Time, userID uint64) ([]model.CleaningDetail, error) {
    switch role {
    case model.RoleHousekeeper:
        userID = actorID
    case model.RoleReception:
        userID = 0
    }
    return h.Cleanings.History(ctx, start, end, userID)
}

// ReportIncident files a defect report and takes the room out of
// service.  Photos that cannot be stored are skipped individually; the
// incident itself still goes through.
func (h *Housekeeping) ReportIncident(ctx context.Context, roomID, userID uint64, description string, photos [][]byte) (model.Incident, error) {
    description = strings.TrimSpace(description)
    if roomID == 0 || description == "" {
        return model.Incident{}, fmt.Errorf("%w: roomId and description required", ErrValidation)
    }
    if len(photos) > model.MaxIncidentPhotos {
        return model.Incident{}, fmt.Errorf("%w: maximum %d photos allowed", ErrValidation, model.MaxIncidentPhotos)
    }
    if _, err := h.Rooms.GetByID(ctx, roomID); err != nil {
        return model.Incident{}, err
    }
    incident := model.Incident{RoomID: roomID, UserID: userID, Description: description}
    if err := h.Incidents.Create(ctx, &incident); err != nil {
        return model.Incident{}, err
    }
    for i, data := range photos {
        name := fmt.Sprintf("%d-%d-%d", incident.ID, h.Now().UnixMilli(), i)
        url, err := h.Photos.Save(data, name)
        if err != nil {
            log.Printf("incident %d: photo %d skipped: %v", incident.ID, i, err)
            continue
        }
        if err := h.Incidents.AddPhoto(ctx, incident.ID, url); err != nil {
            return model.Incident{}, err
        }
    }
    if err := h.Rooms.SetStatus(ctx, roomID, model.RoomDisabled); err != nil {
        return model.Incident{}, err
    }
    return incident, nil
}

// ResolveIncident marks an incident RESOLVED and returns the room to
// CLEAN.  Only reception resolves incidents.  The room exit is
// unconditional: even with sibling incidents still OPEN the room
// leaves DISABLED, matching the established reception workflow.
func (h *Housekeeping) ResolveIncident(ctx context.Context, role model.UserRole, actorID, incidentID, roomID uint64) (model.Incident, error) {
    if role != model.RoleReception {
        return model.Incident{}, repository.ErrForbidden
    }
    incident, err := h.Incidents.Resolve(ctx, incidentID, actorID, h.Now())
    if err != nil {
        return model.Incident{}, err
    }
    if roomID != 0 {
        if n, err := h.Incidents.OpenCountForRoom(ctx, roomID); err == nil && n > 0 {
            log.Printf("room %d back in service with %d incident(s) still open", roomID, n)
        }
        if err := h.Rooms.SetStatus(ctx, roomID, model.RoomClean); err != nil {
            return model.Incident{}, err
        }
    }
    return incident, nil
}

// ListIncidents returns incidents, optionally narrowed by room and
// status.  Housekeepers see only their own reports.
func (h *Housekeeping) ListIncidents(ctx context.Context, role model.UserRole, actorID, roomID uint64, status model.IncidentStatus) ([]model.IncidentDetail, error) {
    var userID uint64
    if role == model.RoleHousekeeper {
        userID = actorID
    }
    return h.Incidents.List(ctx, roomID, status, userID)
}

// ApplyCleaning replays one offline cleaning through RecordCleaning,
// preserving the entry's own cleanedAt so the history keeps its causal
// order.  It implements outbox.Applier.
func (h *Housekeeping) ApplyCleaning(ctx context.Context, c outbox.PendingCleaning) error {
    date, err := ParseDate(c.Date)
    if err != nil {
        return err
    }
    cleanedAt, err := time.Parse(time.RFC3339, c.CleanedAt)
    if err != nil {
        return fmt.Errorf("%w: bad cleaned_at %q", ErrValidation, c.CleanedAt)
    }
    _, err = h.RecordCleaning(ctx, c.RoomID, c.UserID, date, cleanedAt.UTC())
    return err
}

// ApplyIncident replays one offline incident report.  Individual
// photos that fail to decode are skipped; only the report itself can
// fail the entry.  It implements outbox.Applier.
func (h *Housekeeping) ApplyIncident(ctx context.Context, in outbox.PendingIncident) error {
    photos := make([][]byte, 0, len(in.Photos))
    for i, p := range in.Photos {
        data, err := photo.Decode(p)
        if err != nil {
            log.Printf("sync: incident photo %d skipped: %v", i, err)
            continue
        }
        photos = append(photos, data)
    }
    _, err := h.ReportIncident(ctx, in.RoomID, in.UserID, in.Description, photos)
    return err
}

// SyncBatch replays a batch of offline entries, isolating each entry's
// failure from its siblings, and returns aggregate counts.  Entries
// are applied in the order the client recorded them, one kind at a
// time.
func (h *Housekeeping) SyncBatch(ctx context.Context, cleanings []outbox.PendingCleaning, incidents []outbox.PendingIncident) outbox.Results {
    var res outbox.Results
    for _, c := range cleanings {
        if err := h.ApplyCleaning(ctx, c); err != nil {
            log.Printf("sync: cleaning for room %d failed: %v", c.RoomID, err)
            res.Cleanings.Failed++
            continue
        }
        res.Cleanings.Synced++
    }
    for _, in := range incidents {
        if err := h.ApplyIncident(ctx, in); err != nil {
            log.Printf("sync: incident for room %d failed: %v", in.RoomID, err)
            res.Incidents.Failed++
            continue
        }
        res.Incidents.Synced++
    }
    return res
}
