package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/iliyamo/hotel-housekeeping/internal/model"
)

// AssignmentRepo provides CRUD operations for cleaning assignments.
// An assignment is keyed by (room_id, user_id, date); assigning the
// same triple again refreshes assigned_at instead of inserting a
// duplicate.  All timestamp fields are assumed to be stored in UTC.
type AssignmentRepo struct {
    db *sql.DB
}

// NewAssignmentRepo returns a new AssignmentRepo bound to the given database.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

// AssignBatch upserts one assignment per room for (userID, date) and
// forces every targeted room's status to CLEANING_PENDING, all inside
// a single transaction.  Either every assignment is upserted and every
// room transitions, or none are.  sql.ErrNoRows is returned when any
// referenced room does not exist.  The upserted rows are returned with
// their populated IDs and timestamps.
func (r *AssignmentRepo) AssignBatch(ctx context.Context, roomIDs []uint64, userID uint64, date, assignedAt time.Time) ([]model.Assignment, error) {
    ids := dedupe(roomIDs)
    if len(ids) == 0 {
        return []model.Assignment{}, nil
    }
    placeholders := make([]string, len(ids))
    idArgs := make([]any, len(ids))
    for i, id := range ids {
        placeholders[i] = "?"
        idArgs[i] = id
    }
    in := strings.Join(placeholders, ",")

    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    defer func() { _ = tx.Rollback() }()

    // Verify every targeted room exists before writing anything.
    var count int
    if err := tx.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM rooms WHERE id IN ("+in+")", idArgs...).Scan(&count); err != nil {
        return nil, err
    }
    if count != len(ids) {
        return nil, sql.ErrNoRows
    }

    const upsert = `INSERT INTO assignments (room_id, user_id, date, assigned_at)
                    VALUES (?, ?, ?, ?)
                    ON DUPLICATE KEY UPDATE assigned_at = VALUES(assigned_at)`
    for _, roomID := range ids {
        if _, err := tx.ExecContext(ctx, upsert, roomID, userID, date, assignedAt); err != nil {
            return nil, err
        }
    }

    if _, err := tx.ExecContext(ctx,
        "UPDATE rooms SET status = ? WHERE id IN ("+in+")",
        append([]any{model.RoomCleaningPending}, idArgs...)...); err != nil {
        return nil, err
    }

    // Read back the upserted rows to return populated records.
    selArgs := append([]any{userID, date}, idArgs...)
    rows, err := tx.QueryContext(ctx,
        `SELECT id, room_id, user_id, date, assigned_at, completed
         FROM assignments
         WHERE user_id = ? AND date = ? AND room_id IN (`+in+`)
         ORDER BY room_id`, selArgs...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    assignments := make([]model.Assignment, 0, len(ids))
    for rows.Next() {
        var a model.Assignment
        if err := rows.Scan(&a.ID, &a.RoomID, &a.UserID, &a.Date, &a.AssignedAt, &a.Completed); err != nil {
            return nil, err
        }
        assignments = append(assignments, a)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    return assignments, nil
}

// Delete removes an assignment. sql.ErrNoRows is returned when it
// does not exist.
func (r *AssignmentRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = ?", id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// ListByDate returns assignments for a service date hydrated with room
// and assignee, newest first.  A nonzero userID restricts the list to
// that housekeeper.
func (r *AssignmentRepo) ListByDate(ctx context.Context, date time.Time, userID uint64) ([]model.AssignmentDetail, error) {
    q := `SELECT a.id, a.room_id, a.user_id, a.date, a.assigned_at, a.completed,
                 r.id, r.number, r.floor, r.status, r.is_occupied, r.created_at, r.updated_at,
                 u.name, u.email
          FROM assignments a
          JOIN rooms r ON r.id = a.room_id
          JOIN users u ON u.id = a.user_id
          WHERE a.date = ?`
    args := []any{date}
    if userID != 0 {
        q += " AND a.user_id = ?"
        args = append(args, userID)
    }
    q += " ORDER BY a.assigned_at DESC"
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]model.AssignmentDetail, 0)
    for rows.Next() {
        var d model.AssignmentDetail
        var floor sql.NullInt64
        if err := rows.Scan(
            &d.ID, &d.RoomID, &d.UserID, &d.Date, &d.AssignedAt, &d.Completed,
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

// MarkCompleted flags every assignment matching (roomID, userID, date)
// as completed.  Zero matches is not an error: a cleaning can be
// recorded without a prior formal assignment.
func (r *AssignmentRepo) MarkCompleted(ctx context.Context, roomID, userID uint64, date time.Time) error {
    _, err := r.db.ExecContext(ctx,
        "UPDATE assignments SET completed = 1 WHERE room_id = ? AND user_id = ? AND date = ?",
        roomID, userID, date)
    return err
}

// dedupe returns ids with duplicates removed, preserving order.
func dedupe(ids []uint64) []uint64 {
    seen := make(map[uint64]struct{}, len(ids))
    out := make([]uint64, 0, len(ids))
    for _, id := range ids {
        if _, ok := seen[id]; ok {
            continue
        }
        seen[id] = struct{}{}
        out = append(out, id)
    }
    return out
}
