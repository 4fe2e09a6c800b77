package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/hotel-housekeeping/internal/model"
)

// CleaningRepo provides access to the append-only cleanings event log.
// Rows are inserted and read, never updated or deleted.
type CleaningRepo struct {
    db *sql.DB
}

// NewCleaningRepo returns a new CleaningRepo bound to the given database.
func NewCleaningRepo(db *sql.DB) *CleaningRepo { return &CleaningRepo{db: db} }

// Create inserts a cleaning event and populates the generated ID on
// the provided record.  Duplicate events for the same room, user and
// date are permitted; the log is a history, not a set.
func (r *CleaningRepo) Create(ctx context.Context, c *model.Cleaning) error {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO cleanings (room_id, user_id, date, cleaned_at) VALUES (?,?,?,?)",
        c.RoomID, c.UserID, c.Date, c.CleanedAt)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    c.ID = uint64(id)
    return nil
}

// List returns cleanings for a service date hydrated with room and
// user, newest first.  Nonzero roomID/userID narrow the result.
func (r *CleaningRepo) List(ctx context.Context, date time.Time, roomID, userID uint64) ([]model.CleaningDetail, error) {
    q := `SELECT c.id, c.room_id, c.user_id, c.date, c.cleaned_at,
                 r.id, r.number, r.floor, r.status, r.is_occupied, r.created_at, r.updated_at,
                 u.name, u.email
          FROM cleanings c
          JOIN rooms r ON r.id = c.room_id
          JOIN users u ON u.id = c.user_id
          WHERE c.date = ?`
    args := []any{date}
    if roomID != 0 {
        q += " AND c.room_id = ?"
        args = append(args, roomID)
    }
    if userID != 0 {
        q += " AND c.user_id = ?"
        args = append(args, userID)
    }
    q += " ORDER BY c.cleaned_at DESC"
    return r.queryDetails(ctx, q, args...)
}

// History returns cleanings whose service date falls inside the
// inclusive [start, end] range, ordered by date then cleaned_at,
// both descending.  A nonzero userID restricts the range to one
// housekeeper.
func (r *CleaningRepo) History(ctx context.Context, start, end time.Time, userID uint64) ([]model.CleaningDetail, error) {
    q := `SELECT c.id, c.room_id, c.user_id, c.date, c.cleaned_at,
                 r.id, r.number, r.floor, r.status, r.is_occupied, r.created_at, r.updated_at,
                 u.name, u.email
          FROM cleanings c
          JOIN rooms r ON r.id = c.room_id
          JOIN users u ON u.id = c.user_id
          WHERE c.date >= ? AND c.date <= ?`
    args := []any{start, end}
    if userID != 0 {
        q += " AND c.user_id = ?"
        args = append(args, userID)
    }
    q += " ORDER BY c.date DESC, c.cleaned_at DESC"
    return r.queryDetails(ctx, q, args...)
}

// LastCleaner returns the user who most recently cleaned the room.
// sql.ErrNoRows is returned when the room has never been cleaned.
func (r *CleaningRepo) LastCleaner(ctx context.Context, roomID uint64) (uint64, error) {
    var userID uint64
    err := r.db.QueryRowContext(ctx,
        "SELECT user_id FROM cleanings WHERE room_id = ? ORDER BY cleaned_at DESC LIMIT 1",
        roomID).Scan(&userID)
    return userID, err
}

func (r *CleaningRepo) queryDetails(ctx context.Context, q string, args ...any) ([]model.CleaningDetail, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]model.CleaningDetail, 0)
    for rows.Next() {
        var d model.CleaningDetail
        var floor sql.NullInt64
        if err := rows.Scan(
            &d.ID, &d.RoomID, &d.UserID, &d.Date, &d.CleanedAt,
            &d.Room.ID, &d.Room.Number, &floor, &d.Room.Status, &d.Room.IsOccupied, &d.Room.CreatedAt, &d.Room.UpdatedAt,
            &d.User.Name, &d.User.Email,
        ); err != nil {
            return nil, err
        }
        if floor.Valid {
            f := int(floor.Int64)
            d.Room.Floor = &f
        }
        d.User.ID = d.UserID
        details = append(details, d)
    }
    return details, rows.Err()
}
