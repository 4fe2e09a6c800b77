package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/iliyamo/hotel-housekeeping/internal/model"
)

// RoomRepo provides access to the rooms table and the hydrated room
// board used by the listing endpoints.  Status writes are plain
// last-write-wins updates: no version token exists, and concurrent
// reception clients racing on the same room resolve at the storage
// layer.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomCols = "id, number, floor, status, is_occupied, created_at, updated_at"

func scanRoom(row interface{ Scan(...any) error }) (model.Room, error) {
    var r model.Room
    var floor sql.NullInt64
    err := row.Scan(&r.ID, &r.Number, &floor, &r.Status, &r.IsOccupied, &r.CreatedAt, &r.UpdatedAt)
    if err != nil {
        return model.Room{}, err
    }
    if floor.Valid {
        f := int(floor.Int64)
        r.Floor = &f
    }
    return r, nil
}

// Create inserts a new room and populates the generated ID and
// timestamps on the provided record.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
    var floor sql.NullInt64
    if room.Floor != nil {
        floor = sql.NullInt64{Int64: int64(*room.Floor), Valid: true}
    }
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO rooms (number, floor, status, is_occupied) VALUES (?,?,?,?)",
        room.Number, floor, room.Status, room.IsOccupied)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrConflict // duplicate room number
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    fresh, err := r.GetByID(ctx, uint64(id))
    if err != nil {
        return err
    }
    *room = fresh
    return nil
}

// GetByID returns a single room. sql.ErrNoRows is returned when the
// room does not exist.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
    return scanRoom(r.db.QueryRowContext(ctx,
        "SELECT "+roomCols+" FROM rooms WHERE id = ?", id))
}

// UpdateDetails changes a room's display attributes (number, floor).
// Administrative edits never touch status or occupancy; nil fields are
// left unchanged.
func (r *RoomRepo) UpdateDetails(ctx context.Context, id uint64, number *string, floor *int) error {
    sets := make([]string, 0, 2)
    args := make([]any, 0, 3)
    if number != nil {
        sets = append(sets, "number = ?")
        args = append(args, *number)
    }
    if floor != nil {
        sets = append(sets, "floor = ?")
        args = append(args, *floor)
    }
    if len(sets) == 0 {
        return nil
    }
    args = append(args, id)
    res, err := r.db.ExecContext(ctx,
        "UPDATE rooms SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrConflict
        }
        return err
    }
    return requireRow(ctx, r.db, res, id)
}

// SetStatus writes a room's status. sql.ErrNoRows is returned when the
// room does not exist.
func (r *RoomRepo) SetStatus(ctx context.Context, id uint64, status model.RoomStatus) error {
    res, err := r.db.ExecContext(ctx, "UPDATE rooms SET status = ? WHERE id = ?", status, id)
    if err != nil {
        return err
    }
    return requireRow(ctx, r.db, res, id)
}

// SetOccupancy writes the occupancy flag together with the status the
// state machine derived for the flip.
func (r *RoomRepo) SetOccupancy(ctx context.Context, id uint64, occupied bool, status model.RoomStatus) error {
    res, err := r.db.ExecContext(ctx,
        "UPDATE rooms SET is_occupied = ?, status = ? WHERE id = ?", occupied, status, id)
    if err != nil {
        return err
    }
    return requireRow(ctx, r.db, res, id)
}

// requireRow distinguishes "no change" from "no such room" after an
// UPDATE: the MySQL driver reports changed rows, not matched rows, so
// a zero count needs an existence probe before it can become NotFound.
func requireRow(ctx context.Context, db *sql.DB, res sql.Result, id uint64) error {
    n, err := res.RowsAffected()
    if err != nil || n > 0 {
        return err
    }
    var exists uint64
    if err := db.QueryRowContext(ctx, "SELECT id FROM rooms WHERE id = ?", id).Scan(&exists); err != nil {
        return err // sql.ErrNoRows when the room is gone
    }
    return nil
}

// NumbersByIDs returns the display numbers for a set of rooms, for
// notification payloads.
func (r *RoomRepo) NumbersByIDs(ctx context.Context, ids []uint64) ([]string, error) {
    if len(ids) == 0 {
        return nil, nil
    }
    placeholders := make([]string, len(ids))
    args := make([]any, len(ids))
    for i, id := range ids {
        placeholders[i] = "?"
        args[i] = id
    }
    rows, err := r.db.QueryContext(ctx,
        "SELECT number FROM rooms WHERE id IN ("+strings.Join(placeholders, ",")+") ORDER BY number", args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var numbers []string
    for rows.Next() {
        var n string
        if err := rows.Scan(&n); err != nil {
            return nil, err
        }
        numbers = append(numbers, n)
    }
    return numbers, rows.Err()
}

// ListForReception returns every room hydrated with the date's
// assignments, the latest cleaning for the date and the newest OPEN
// incident, ordered by room number.  Pending is derived by comparing
// the latest assignment against the latest cleaning.
func (r *RoomRepo) ListForReception(ctx context.Context, date time.Time) ([]model.RoomOverview, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+roomCols+" FROM rooms ORDER BY number")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    overviews := make([]model.RoomOverview, 0)
    index := make(map[uint64]int)
    for rows.Next() {
        room, err := scanRoom(rows)
        if err != nil {
            return nil, err
        }
        index[room.ID] = len(overviews)
        overviews = append(overviews, model.RoomOverview{Room: room, Assignments: []model.AssignmentDetail{}})
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(overviews) == 0 {
        return overviews, nil
    }
    if err := r.attachAssignments(ctx, overviews, index, date, 0); err != nil {
        return nil, err
    }
    if err := r.attachLatestCleanings(ctx, overviews, index, date, 0); err != nil {
        return nil, err
    }
    if err := r.attachOpenIncidents(ctx, overviews, index); err != nil {
        return nil, err
    }
    derivePending(overviews)
    return overviews, nil
}

// ListForHousekeeper returns the rooms assigned to one housekeeper for
// the date, hydrated with their own latest cleaning and the newest
// OPEN incident, ordered by room number.
func (r *RoomRepo) ListForHousekeeper(ctx context.Context, userID uint64, date time.Time) ([]model.RoomOverview, error) {
    const q = `SELECT r.id, r.number, r.floor, r.status, r.is_occupied, r.created_at, r.updated_at
               FROM assignments a
               JOIN rooms r ON r.id = a.room_id
               WHERE a.user_id = ? AND a.date = ?
               ORDER BY r.number`
    rows, err := r.db.QueryContext(ctx, q, userID, date)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    overviews := make([]model.RoomOverview, 0)
    index := make(map[uint64]int)
    for rows.Next() {
        room, err := scanRoom(rows)
        if err != nil {
            return nil, err
        }
        if _, ok := index[room.ID]; ok {
            continue // a second housekeeper's duplicate never appears here, but the same room may not repeat
        }
        index[room.ID] = len(overviews)
        overviews = append(overviews, model.RoomOverview{Room: room, Assignments: []model.AssignmentDetail{}})
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(overviews) == 0 {
        return overviews, nil
    }
    if err := r.attachAssignments(ctx, overviews, index, date, userID); err != nil {
        return nil, err
    }
    if err := r.attachLatestCleanings(ctx, overviews, index, date, userID); err != nil {
        return nil, err
    }
    if err := r.attachOpenIncidents(ctx, overviews, index); err != nil {
        return nil, err
    }
    derivePending(overviews)
    return overviews, nil
}

// attachAssignments loads the date's assignments (optionally scoped to
// one user) with their assignees and appends them to the overviews.
func (r *RoomRepo) attachAssignments(ctx context.Context, overviews []model.RoomOverview, index map[uint64]int, date time.Time, userID uint64) error {
    q := `SELECT a.id, a.room_id, a.user_id, a.date, a.assigned_at, a.completed, u.name, u.email
          FROM assignments a
          JOIN users u ON u.id = a.user_id
          WHERE a.date = ?`
    args := []any{date}
    if userID != 0 {
        q += " AND a.user_id = ?"
        args = append(args, userID)
    }
    q += " ORDER BY a.assigned_at"
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return err
    }
    defer rows.Close()
    for rows.Next() {
        var d model.AssignmentDetail
        if err := rows.Scan(&d.ID, &d.RoomID, &d.UserID, &d.Date, &d.AssignedAt, &d.Completed, &d.User.Name, &d.User.Email); err != nil {
            return err
        }
        d.User.ID = d.UserID
        idx, ok := index[d.RoomID]
        if !ok {
            continue
        }
        d.Room = overviews[idx].Room
        overviews[idx].Assignments = append(overviews[idx].Assignments, d)
    }
    return rows.Err()
}

// attachLatestCleanings loads, per room, the most recent cleaning for
// the date (optionally scoped to one user).
func (r *RoomRepo) attachLatestCleanings(ctx context.Context, overviews []model.RoomOverview, index map[uint64]int, date time.Time, userID uint64) error {
    q := `SELECT c.id, c.room_id, c.user_id, c.date, c.cleaned_at, u.name
          FROM cleanings c
          JOIN users u ON u.id = c.user_id
          WHERE c.date = ?`
    args := []any{date}
    if userID != 0 {
        q += " AND c.user_id = ?"
        args = append(args, userID)
    }
    q += " ORDER BY c.cleaned_at DESC"
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return err
    }
    defer rows.Close()
    for rows.Next() {
        var d model.CleaningDetail
        if err := rows.Scan(&d.ID, &d.RoomID, &d.UserID, &d.Date, &d.CleanedAt, &d.User.Name); err != nil {
            return err
        }
        d.User.ID = d.UserID
        idx, ok := index[d.RoomID]
        if !ok || overviews[idx].LastCleaning != nil {
            continue // rows arrive newest first; keep only the latest per room
        }
        d.Room = overviews[idx].Room
        c := d
        overviews[idx].LastCleaning = &c
    }
    return rows.Err()
}

// attachOpenIncidents loads the newest OPEN incident per room.
func (r *RoomRepo) attachOpenIncidents(ctx context.Context, overviews []model.RoomOverview, index map[uint64]int) error {
    const q = `SELECT id, room_id, user_id, description, status, created_at
               FROM incidents
               WHERE status = 'OPEN'
               ORDER BY created_at DESC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return err
    }
    defer rows.Close()
    for rows.Next() {
        var inc model.Incident
        if err := rows.Scan(&inc.ID, &inc.RoomID, &inc.UserID, &inc.Description, &inc.Status, &inc.CreatedAt); err != nil {
            return err
        }
        idx, ok := index[inc.RoomID]
        if !ok || overviews[idx].OpenIncident != nil {
            continue
        }
        i := inc
        overviews[idx].OpenIncident = &i
    }
    return rows.Err()
}

// derivePending applies the read-time pending rule to each overview
// from the already hydrated assignments and cleanings.
func derivePending(overviews []model.RoomOverview) {
    for i := range overviews {
        var lastAssigned, lastCleaned *time.Time
        for _, a := range overviews[i].Assignments {
            if lastAssigned == nil || a.AssignedAt.After(*lastAssigned) {
                t := a.AssignedAt
                lastAssigned = &t
            }
        }
        if c := overviews[i].LastCleaning; c != nil {
            t := c.CleanedAt
            lastCleaned = &t
        }
        overviews[i].Pending = model.NeedsCleaning(lastAssigned, lastCleaned)
    }
}
