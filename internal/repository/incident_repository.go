package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/hotel-housekeeping/internal/model"
)

// IncidentRepo provides access to incidents and their photos.
type IncidentRepo struct {
    db *sql.DB
}

// NewIncidentRepo returns a new IncidentRepo bound to the given database.
func NewIncidentRepo(db *sql.DB) *IncidentRepo { return &IncidentRepo{db: db} }

// Create inserts a new OPEN incident and populates the generated ID
// and creation timestamp on the provided record.
func (r *IncidentRepo) Create(ctx context.Context, inc *model.Incident) error {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO incidents (room_id, user_id, description, status) VALUES (?,?,?,?)",
        inc.RoomID, inc.UserID, inc.Description, model.IncidentOpen)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    inc.ID = uint64(id)
    inc.Status = model.IncidentOpen
    return r.db.QueryRowContext(ctx,
        "SELECT created_at FROM incidents WHERE id = ?", inc.ID).Scan(&inc.CreatedAt)
}

// AddPhoto associates a stored photo URL with an incident.
func (r *IncidentRepo) AddPhoto(ctx context.Context, incidentID uint64, url string) error {
    _, err := r.db.ExecContext(ctx,
        "INSERT INTO incident_photos (incident_id, url) VALUES (?,?)", incidentID, url)
    return err
}

// Resolve marks an incident RESOLVED with the resolving user and
// timestamp, and returns the updated row.  sql.ErrNoRows is returned
// when the incident does not exist.
func (r *IncidentRepo) Resolve(ctx context.Context, id, resolvedBy uint64, at time.Time) (model.Incident, error) {
    _, err := r.db.ExecContext(ctx,
        "UPDATE incidents SET status = ?, resolved_at = ?, resolved_by = ? WHERE id = ?",
        model.IncidentResolved, at, resolvedBy, id)
    if err != nil {
        return model.Incident{}, err
    }
    return r.getByID(ctx, id)
}

func (r *IncidentRepo) getByID(ctx context.Context, id uint64) (model.Incident, error) {
    var inc model.Incident
    var resolvedAt sql.NullTime
    var resolvedBy sql.NullInt64
    err := r.db.QueryRowContext(ctx,
        `SELECT id, room_id, user_id, description, status, created_at, resolved_at, resolved_by
         FROM incidents WHERE id = ?`, id).Scan(
        &inc.ID, &inc.RoomID, &inc.UserID, &inc.Description, &inc.Status, &inc.CreatedAt, &resolvedAt, &resolvedBy)
    if err != nil {
        return model.Incident{}, err
    }
    if resolvedAt.Valid {
        t := resolvedAt.Time
        inc.ResolvedAt = &t
    }
    if resolvedBy.Valid {
        u := uint64(resolvedBy.Int64)
        inc.ResolvedBy = &u
    }
    return inc, nil
}

// OpenCountForRoom returns the number of OPEN incidents for a room.
func (r *IncidentRepo) OpenCountForRoom(ctx context.Context, roomID uint64) (int, error) {
    var n int
    err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM incidents WHERE room_id = ? AND status = 'OPEN'", roomID).Scan(&n)
    return n, err
}

// List returns incidents newest first, hydrated with room, reporter
// and photos (photos ordered by creation).  Nonzero roomID, a valid
// status and nonzero userID each narrow the result.
func (r *IncidentRepo) List(ctx context.Context, roomID uint64, status model.IncidentStatus, userID uint64) ([]model.IncidentDetail, error) {
    q := `SELECT i.id, i.room_id, i.user_id, i.description, i.status, i.created_at, i.resolved_at, i.resolved_by,
                 r.id, r.number, r.floor, r.status, r.is_occupied, r.created_at, r.updated_at,
                 u.name, u.email
          FROM incidents i
          JOIN rooms r ON r.id = i.room_id
          JOIN users u ON u.id = i.user_id
          WHERE 1 = 1`
    args := []any{}
    if roomID != 0 {
        q += " AND i.room_id = ?"
        args = append(args, roomID)
    }
    if status != "" {
        q += " AND i.status = ?"
        args = append(args, status)
    }
    if userID != 0 {
        q += " AND i.user_id = ?"
        args = append(args, userID)
    }
    q += " ORDER BY i.created_at DESC"
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]model.IncidentDetail, 0)
    index := make(map[uint64]int)
    for rows.Next() {
        var d model.IncidentDetail
        var resolvedAt sql.NullTime
        var resolvedBy sql.NullInt64
        var floor sql.NullInt64
        if err := rows.Scan(
            &d.ID, &d.RoomID, &d.UserID, &d.Description, &d.Status, &d.CreatedAt, &resolvedAt, &resolvedBy,
            &d.Room.ID, &d.Room.Number, &floor, &d.Room.Status, &d.Room.IsOccupied, &d.Room.CreatedAt, &d.Room.UpdatedAt,
            &d.User.Name, &d.User.Email,
        ); err != nil {
            return nil, err
        }
        if resolvedAt.Valid {
            t := resolvedAt.Time
            d.ResolvedAt = &t
        }
        if resolvedBy.Valid {
            u := uint64(resolvedBy.Int64)
            d.ResolvedBy = &u
        }
        if floor.Valid {
            f := int(floor.Int64)
            d.Room.Floor = &f
        }
        d.User.ID = d.UserID
        d.Photos = []model.IncidentPhoto{}
        index[d.ID] = len(details)
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(details) == 0 {
        return details, nil
    }
    // Hydrate photos for all listed incidents in a single query.
    ids := make([]any, 0, len(details))
    placeholders := ""
    for i, d := range details {
        if i > 0 {
            placeholders += ","
        }
        placeholders += "?"
        ids = append(ids, d.ID)
    }
    prows, err := r.db.QueryContext(ctx,
        `SELECT id, incident_id, url, created_at
         FROM incident_photos
         WHERE incident_id IN (`+placeholders+`)
         ORDER BY created_at ASC`, ids...)
    if err != nil {
        return nil, err
    }
    defer prows.Close()
    for prows.Next() {
        var p model.IncidentPhoto
        if err := prows.Scan(&p.ID, &p.IncidentID, &p.URL, &p.CreatedAt); err != nil {
            return nil, err
        }
        if idx, ok := index[p.IncidentID]; ok {
            details[idx].Photos = append(details[idx].Photos, p)
        }
    }
    return details, prows.Err()
}
