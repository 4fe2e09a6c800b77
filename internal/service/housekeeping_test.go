package service

import (
    "context"
    "database/sql"
    "encoding/base64"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-housekeeping/internal/model"
    "github.com/iliyamo/hotel-housekeeping/internal/outbox"
    "github.com/iliyamo/hotel-housekeeping/internal/queue"
    "github.com/iliyamo/hotel-housekeeping/internal/repository"
)

// In-memory store fakes mirroring the SQL repositories' observable
// behavior, so the engine's transition rules can be exercised without
// a database.

type fakeRooms struct {
    rooms        map[uint64]model.Room
    receptionHit bool
    keeperHit    bool
}

func newFakeRooms(rooms ...model.Room) *fakeRooms {
    m := make(map[uint64]model.Room)
    for _, r := range rooms {
        m[r.ID] = r
    }
    return &fakeRooms{rooms: m}
}

func (f *fakeRooms) GetByID(_ context.Context, id uint64) (model.Room, error) {
    r, ok := f.rooms[id]
    if !ok {
        return model.Room{}, sql.ErrNoRows
    }
    return r, nil
}

func (f *fakeRooms) Create(_ context.Context, room *model.Room) error {
    room.ID = uint64(len(f.rooms) + 1)
    f.rooms[room.ID] = *room
    return nil
}

func (f *fakeRooms) UpdateDetails(_ context.Context, id uint64, number *string, floor *int) error {
    r, ok := f.rooms[id]
    if !ok {
        return sql.ErrNoRows
    }
    if number != nil {
        r.Number = *number
    }
    if floor != nil {
        r.Floor = floor
    }
    f.rooms[id] = r
    return nil
}

func (f *fakeRooms) SetStatus(_ context.Context, id uint64, status model.RoomStatus) error {
    r, ok := f.rooms[id]
    if !ok {
        return sql.ErrNoRows
    }
    r.Status = status
    f.rooms[id] = r
    return nil
}

func (f *fakeRooms) SetOccupancy(_ context.Context, id uint64, occupied bool, status model.RoomStatus) error {
    r, ok := f.rooms[id]
    if !ok {
        return sql.ErrNoRows
    }
    r.IsOccupied = occupied
    r.Status = status
    f.rooms[id] = r
    return nil
}

func (f *fakeRooms) ListForReception(_ context.Context, _ time.Time) ([]model.RoomOverview, error) {
    f.receptionHit = true
    out := make([]model.RoomOverview, 0, len(f.rooms))
    for _, r := range f.rooms {
        out = append(out, model.RoomOverview{Room: r})
    }
    return out, nil
}

func (f *fakeRooms) ListForHousekeeper(_ context.Context, _ uint64, _ time.Time) ([]model.RoomOverview, error) {
    f.keeperHit = true
    return nil, nil
}

func (f *fakeRooms) NumbersByIDs(_ context.Context, ids []uint64) ([]string, error) {
    out := make([]string, 0, len(ids))
    for _, id := range ids {
        if r, ok := f.rooms[id]; ok {
            out = append(out, r.Number)
        }
    }
    return out, nil
}

type fakeAssignments struct {
    rooms  *fakeRooms
    rows   []model.Assignment
    nextID uint64
}

func (f *fakeAssignments) AssignBatch(ctx context.Context, roomIDs []uint64, userID uint64, date, assignedAt time.Time) ([]model.Assignment, error) {
    for _, id := range roomIDs {
        if _, ok := f.rooms.rooms[id]; !ok {
            return nil, sql.ErrNoRows
        }
    }
    var out []model.Assignment
    for _, roomID := range roomIDs {
        found := false
        for i := range f.rows {
            if f.rows[i].RoomID == roomID && f.rows[i].UserID == userID && f.rows[i].Date.Equal(date) {
                f.rows[i].AssignedAt = assignedAt
                out = append(out, f.rows[i])
                found = true
                break
            }
        }
        if !found {
            f.nextID++
            a := model.Assignment{ID: f.nextID, RoomID: roomID, UserID: userID, Date: date, AssignedAt: assignedAt}
            f.rows = append(f.rows, a)
            out = append(out, a)
        }
        _ = f.rooms.SetStatus(ctx, roomID, model.RoomCleaningPending)
    }
    return out, nil
}

func (f *fakeAssignments) Delete(_ context.Context, id uint64) error {
    for i, a := range f.rows {
        if a.ID == id {
            f.rows = append(f.rows[:i], f.rows[i+1:]...)
            return nil
        }
    }
    return sql.ErrNoRows
}

func (f *fakeAssignments) ListByDate(_ context.Context, date time.Time, userID uint64) ([]model.AssignmentDetail, error) {
    var out []model.AssignmentDetail
    for _, a := range f.rows {
        if !a.Date.Equal(date) || (userID != 0 && a.UserID != userID) {
            continue
        }
        out = append(out, model.AssignmentDetail{Assignment: a})
    }
    return out, nil
}

func (f *fakeAssignments) MarkCompleted(_ context.Context, roomID, userID uint64, date time.Time) error {
    for i := range f.rows {
        if f.rows[i].RoomID == roomID && f.rows[i].UserID == userID && f.rows[i].Date.Equal(date) {
            f.rows[i].Completed = true
        }
    }
    return nil
}

type fakeCleanings struct {
    rows   []model.Cleaning
    nextID uint64
}

func (f *fakeCleanings) Create(_ context.Context, c *model.Cleaning) error {
    f.nextID++
    c.ID = f.nextID
    f.rows = append(f.rows, *c)
    return nil
}

func (f *fakeCleanings) List(_ context.Context, date time.Time, roomID, userID uint64) ([]model.CleaningDetail, error) {
    var out []model.CleaningDetail
    for _, c := range f.rows {
        if !c.Date.Equal(date) {
            continue
        }
        if roomID != 0 && c.RoomID != roomID {
            continue
        }
        if userID != 0 && c.UserID != userID {
            continue
        }
        out = append(out, model.CleaningDetail{Cleaning: c})
    }
    return out, nil
}

func (f *fakeCleanings) History(_ context.Context, start, end time.Time, userID uint64) ([]model.CleaningDetail, error) {
    var out []model.CleaningDetail
    for _, c := range f.rows {
        if c.Date.Before(start) || c.Date.After(end) {
            continue
        }
        if userID != 0 && c.UserID != userID {
            continue
        }
        out = append(out, model.CleaningDetail{Cleaning: c})
    }
    return out, nil
}

func (f *fakeCleanings) LastCleaner(_ context.Context, roomID uint64) (uint64, error) {
    var best *model.Cleaning
    for i, c := range f.rows {
        if c.RoomID != roomID {
            continue
        }
        if best == nil || c.CleanedAt.After(best.CleanedAt) {
            best = &f.rows[i]
        }
    }
    if best == nil {
        return 0, sql.ErrNoRows
    }
    return best.UserID, nil
}

type fakeIncidents struct {
    rows   []model.Incident
    photos map[uint64][]string
    nextID uint64
}

func (f *fakeIncidents) Create(_ context.Context, inc *model.Incident) error {
    f.nextID++
    inc.ID = f.nextID
    inc.Status = model.IncidentOpen
    inc.CreatedAt = time.Now().UTC()
    f.rows = append(f.rows, *inc)
    return nil
}

func (f *fakeIncidents) AddPhoto(_ context.Context, incidentID uint64, url string) error {
    if f.photos == nil {
        f.photos = make(map[uint64][]string)
    }
    f.photos[incidentID] = append(f.photos[incidentID], url)
    return nil
}

func (f *fakeIncidents) Resolve(_ context.Context, id, resolvedBy uint64, at time.Time) (model.Incident, error) {
    for i := range f.rows {
        if f.rows[i].ID == id {
            f.rows[i].Status = model.IncidentResolved
            f.rows[i].ResolvedAt = &at
            f.rows[i].ResolvedBy = &resolvedBy
            return f.rows[i], nil
        }
    }
    return model.Incident{}, sql.ErrNoRows
}

func (f *fakeIncidents) OpenCountForRoom(_ context.Context, roomID uint64) (int, error) {
    n := 0
    for _, inc := range f.rows {
        if inc.RoomID == roomID && inc.Status == model.IncidentOpen {
            n++
        }
    }
    return n, nil
}

func (f *fakeIncidents) List(_ context.Context, roomID uint64, status model.IncidentStatus, userID uint64) ([]model.IncidentDetail, error) {
    var out []model.IncidentDetail
    for _, inc := range f.rows {
        if roomID != 0 && inc.RoomID != roomID {
            continue
        }
        if status != "" && inc.Status != status {
            continue
        }
        if userID != 0 && inc.UserID != userID {
            continue
        }
        out = append(out, model.IncidentDetail{Incident: inc})
    }
    return out, nil
}

type fakePhotos struct {
    saved []string
}

func (f *fakePhotos) Save(data []byte, baseName string) (string, error) {
    f.saved = append(f.saved, baseName)
    return "/uploads/incidents/" + baseName + ".jpg", nil
}

type fakeNotifier struct {
    events []queue.AssignmentCreatedEvent
}

func (f *fakeNotifier) AssignmentCreated(_ context.Context, ev queue.AssignmentCreatedEvent) error {
    f.events = append(f.events, ev)
    return nil
}

type testEnv struct {
    engine      *Housekeeping
    rooms       *fakeRooms
    assignments *fakeAssignments
    cleanings   *fakeCleanings
    incidents   *fakeIncidents
    photos      *fakePhotos
    notifier    *fakeNotifier
}

func newTestEnv(rooms ...model.Room) *testEnv {
    fr := newFakeRooms(rooms...)
    env := &testEnv{
        rooms:       fr,
        assignments: &fakeAssignments{rooms: fr},
        cleanings:   &fakeCleanings{},
        incidents:   &fakeIncidents{},
        photos:      &fakePhotos{},
        notifier:    &fakeNotifier{},
    }
    env.engine = NewHousekeeping(env.rooms, env.assignments, env.cleanings, env.incidents, env.photos, env.notifier)
    return env
}

func day(s string) time.Time {
    t, err := time.Parse("2006-01-02", s)
    if err != nil {
        panic(err)
    }
    return t
}

// jpegPayload is a minimal JPEG header, base64 encoded the way an
// offline client would capture it.
var jpegPayload = base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10})

func TestAssignRoomsRefreshesExisting(t *testing.T) {
    env := newTestEnv(
        model.Room{ID: 1, Number: "101", Status: model.RoomCheckoutPending},
        model.Room{ID: 2, Number: "102", Status: model.RoomVacant},
    )
    date := day("2026-03-10")

    first := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
    env.engine.Now = func() time.Time { return first }
    created, err := env.engine.AssignRooms(context.Background(), []uint64{1, 2}, 7, date, "reception@hotel.test")
    require.NoError(t, err)
    require.Len(t, created, 2)

    second := first.Add(2 * time.Hour)
    env.engine.Now = func() time.Time { return second }
    again, err := env.engine.AssignRooms(context.Background(), []uint64{1}, 7, date, "reception@hotel.test")
    require.NoError(t, err)
    require.Len(t, again, 1)

    // Same triple: no duplicate row, assigned_at refreshed.
    assert.Len(t, env.assignments.rows, 2)
    assert.Equal(t, created[0].ID, again[0].ID)
    assert.True(t, again[0].AssignedAt.Equal(second))

    // Every assigned room enters the cleaning pipeline.
    assert.Equal(t, model.RoomCleaningPending, env.rooms.rooms[1].Status)
    assert.Equal(t, model.RoomCleaningPending, env.rooms.rooms[2].Status)

    require.Len(t, env.notifier.events, 2)
    assert.ElementsMatch(t, []string{"101", "102"}, env.notifier.events[0].RoomNumbers)
}

func TestAssignRoomsValidation(t *testing.T) {
    env := newTestEnv(model.Room{ID: 1, Number: "101", Status: model.RoomVacant})

    _, err := env.engine.AssignRooms(context.Background(), nil, 7, day("2026-03-10"), "x")
    assert.ErrorIs(t, err, ErrValidation)

    _, err = env.engine.AssignRooms(context.Background(), []uint64{1}, 0, day("2026-03-10"), "x")
    assert.ErrorIs(t, err, ErrValidation)

    _, err = env.engine.AssignRooms(context.Background(), []uint64{99}, 7, day("2026-03-10"), "x")
    assert.ErrorIs(t, err, sql.ErrNoRows)
    assert.Empty(t, env.notifier.events)
}

func TestUpdateRoomOccupancyEdges(t *testing.T) {
    env := newTestEnv(
        model.Room{ID: 1, Number: "101", Status: model.RoomClean},
        model.Room{ID: 2, Number: "102", Status: model.RoomOccupied, IsOccupied: true},
        model.Room{ID: 3, Number: "103", Status: model.RoomDisabled, IsOccupied: true},
    )
    ctx := context.Background()
    occupied, vacated := true, false

    // Check-in forces OCCUPIED.
    room, err := env.engine.UpdateRoom(ctx, UpdateRoomInput{ID: 1, IsOccupied: &occupied})
    require.NoError(t, err)
    assert.Equal(t, model.RoomOccupied, room.Status)
    assert.True(t, room.IsOccupied)

    // Checkout forces CHECKOUT_PENDING, never VACANT.
    room, err = env.engine.UpdateRoom(ctx, UpdateRoomInput{ID: 2, IsOccupied: &vacated})
    require.NoError(t, err)
    assert.Equal(t, model.RoomCheckoutPending, room.Status)
    assert.False(t, room.IsOccupied)

    // A disabled room keeps its status when occupancy flips.
    room, err = env.engine.UpdateRoom(ctx, UpdateRoomInput{ID: 3, IsOccupied: &vacated})
    require.NoError(t, err)
    assert.Equal(t, model.RoomDisabled, room.Status)
    assert.False(t, room.IsOccupied)
}

func TestUpdateRoomStatusEdit(t *testing.T) {
    env := newTestEnv(
        model.Room{ID: 1, Number: "101", Status: model.RoomClean},
        model.Room{ID: 2, Number: "102", Status: model.RoomDisabled},
    )
    ctx := context.Background()

    vacant := model.RoomVacant
    room, err := env.engine.UpdateRoom(ctx, UpdateRoomInput{ID: 1, Status: &vacant})
    require.NoError(t, err)
    assert.Equal(t, model.RoomVacant, room.Status)

    // Leaving DISABLED by direct edit is rejected.
    _, err = env.engine.UpdateRoom(ctx, UpdateRoomInput{ID: 2, Status: &vacant})
    assert.ErrorIs(t, err, repository.ErrConflict)

    bad := model.RoomStatus("SPARKLING")
    _, err = env.engine.UpdateRoom(ctx, UpdateRoomInput{ID: 1, Status: &bad})
    assert.ErrorIs(t, err, ErrValidation)

    // Renumbering leaves status and occupancy alone.
    number := "101A"
    room, err = env.engine.UpdateRoom(ctx, UpdateRoomInput{ID: 1, Number: &number})
    require.NoError(t, err)
    assert.Equal(t, "101A", room.Number)
    assert.Equal(t, model.RoomVacant, room.Status)
}

func TestRecordCleaning(t *testing.T) {
    env := newTestEnv(model.Room{ID: 1, Number: "101", Status: model.RoomCleaningPending})
    ctx := context.Background()
    date := day("2026-03-10")

    _, err := env.engine.AssignRooms(ctx, []uint64{1}, 7, date, "x")
    require.NoError(t, err)

    cleanedAt := time.Date(2026, 3, 10, 11, 30, 0, 0, time.UTC)
    cleaning, err := env.engine.RecordCleaning(ctx, 1, 7, date, cleanedAt)
    require.NoError(t, err)
    assert.NotZero(t, cleaning.ID)
    assert.True(t, cleaning.CleanedAt.Equal(cleanedAt))

    assert.Equal(t, model.RoomClean, env.rooms.rooms[1].Status)
    require.Len(t, env.assignments.rows, 1)
    assert.True(t, env.assignments.rows[0].Completed)

    // Recording again appends; the log never dedupes.
    _, err = env.engine.RecordCleaning(ctx, 1, 7, date, cleanedAt.Add(time.Hour))
    require.NoError(t, err)
    assert.Len(t, env.cleanings.rows, 2)

    _, err = env.engine.RecordCleaning(ctx, 99, 7, date, cleanedAt)
    assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestReportIncidentValidation(t *testing.T) {
    env := newTestEnv(model.Room{ID: 1, Number: "101", Status: model.RoomClean})
    ctx := context.Background()

    _, err := env.engine.ReportIncident(ctx, 1, 7, "   ", nil)
    assert.ErrorIs(t, err, ErrValidation)

    four := [][]byte{{1}, {2}, {3}, {4}}
    _, err = env.engine.ReportIncident(ctx, 1, 7, "broken lamp", four)
    assert.ErrorIs(t, err, ErrValidation)

    _, err = env.engine.ReportIncident(ctx, 99, 7, "broken lamp", nil)
    assert.ErrorIs(t, err, sql.ErrNoRows)

    assert.Empty(t, env.incidents.rows)
    assert.Equal(t, model.RoomClean, env.rooms.rooms[1].Status)
}

func TestReportIncidentDisablesRoom(t *testing.T) {
    env := newTestEnv(model.Room{ID: 1, Number: "101", Status: model.RoomOccupied, IsOccupied: true})
    ctx := context.Background()

    inc, err := env.engine.ReportIncident(ctx, 1, 7, "leaking faucet", [][]byte{{0xFF, 0xD8, 0xFF}})
    require.NoError(t, err)
    assert.Equal(t, model.IncidentOpen, inc.Status)
    assert.Equal(t, model.RoomDisabled, env.rooms.rooms[1].Status)
    assert.Len(t, env.incidents.photos[inc.ID], 1)
}

func TestResolveIncidentReceptionOnly(t *testing.T) {
    env := newTestEnv(model.Room{ID: 1, Number: "101", Status: model.RoomClean})
    ctx := context.Background()

    inc, err := env.engine.ReportIncident(ctx, 1, 7, "broken tv", nil)
    require.NoError(t, err)

    _, err = env.engine.ResolveIncident(ctx, model.RoleHousekeeper, 7, inc.ID, 1)
    assert.ErrorIs(t, err, repository.ErrForbidden)

    _, err = env.engine.ResolveIncident(ctx, model.RoleAdmin, 2, inc.ID, 1)
    assert.ErrorIs(t, err, repository.ErrForbidden)

    resolvedAt := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
    env.engine.Now = func() time.Time { return resolvedAt }
    resolved, err := env.engine.ResolveIncident(ctx, model.RoleReception, 3, inc.ID, 1)
    require.NoError(t, err)
    assert.Equal(t, model.IncidentResolved, resolved.Status)
    require.NotNil(t, resolved.ResolvedBy)
    assert.Equal(t, uint64(3), *resolved.ResolvedBy)
    require.NotNil(t, resolved.ResolvedAt)
    assert.True(t, resolved.ResolvedAt.Equal(resolvedAt))
    assert.Equal(t, model.RoomClean, env.rooms.rooms[1].Status)
}

// Resolving one of several open incidents still returns the room to
// CLEAN.  This pins the current reception workflow: the exit from
// DISABLED does not wait for the sibling reports.
func TestResolveIncidentIgnoresSiblings(t *testing.T) {
    env := newTestEnv(model.Room{ID: 1, Number: "101", Status: model.RoomClean})
    ctx := context.Background()

    first, err := env.engine.ReportIncident(ctx, 1, 7, "broken tv", nil)
    require.NoError(t, err)
    second, err := env.engine.ReportIncident(ctx, 1, 8, "stained carpet", nil)
    require.NoError(t, err)
    require.Equal(t, model.RoomDisabled, env.rooms.rooms[1].Status)

    _, err = env.engine.ResolveIncident(ctx, model.RoleReception, 3, first.ID, 1)
    require.NoError(t, err)

    assert.Equal(t, model.RoomClean, env.rooms.rooms[1].Status)
    open, err := env.engine.ListIncidents(ctx, model.RoleReception, 3, 1, model.IncidentOpen)
    require.NoError(t, err)
    require.Len(t, open, 1)
    assert.Equal(t, second.ID, open[0].ID)
}

func TestGetRoomsRoleDispatch(t *testing.T) {
    ctx := context.Background()
    date := day("2026-03-10")

    env := newTestEnv(model.Room{ID: 1, Number: "101", Status: model.RoomVacant})
    _, err := env.engine.GetRooms(ctx, model.RoleReception, 3, date, false)
    require.NoError(t, err)
    assert.True(t, env.rooms.receptionHit)

    env = newTestEnv()
    _, err = env.engine.GetRooms(ctx, model.RoleHousekeeper, 7, date, false)
    require.NoError(t, err)
    assert.True(t, env.rooms.keeperHit)
    assert.False(t, env.rooms.receptionHit)

    env = newTestEnv()
    _, err = env.engine.GetRooms(ctx, model.RoleHousekeeper, 7, date, true)
    require.NoError(t, err)
    assert.True(t, env.rooms.receptionHit)

    _, err = env.engine.GetRooms(ctx, model.UserRole("GUEST"), 1, date, false)
    assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestReassignLastCleaner(t *testing.T) {
    env := newTestEnv(model.Room{ID: 1, Number: "101", Status: model.RoomCheckoutPending})
    ctx := context.Background()

    _, err := env.engine.RecordCleaning(ctx, 1, 7, day("2026-03-09"), time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC))
    require.NoError(t, err)

    created, err := env.engine.ReassignLastCleaner(ctx, 1, 0, day("2026-03-10"), "reception@hotel.test")
    require.NoError(t, err)
    require.Len(t, created, 1)
    assert.Equal(t, uint64(7), created[0].UserID)
    assert.Equal(t, model.RoomCleaningPending, env.rooms.rooms[1].Status)

    env = newTestEnv(model.Room{ID: 2, Number: "102", Status: model.RoomVacant})
    _, err = env.engine.ReassignLastCleaner(ctx, 2, 0, day("2026-03-10"), "x")
    assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSyncBatchIsolatesFailures(t *testing.T) {
    env := newTestEnv(model.Room{ID: 1, Number: "101", Status: model.RoomCleaningPending})

    res := env.engine.SyncBatch(context.Background(),
        []outbox.PendingCleaning{
            {RoomID: 1, UserID: 7, Date: "2026-03-10", CleanedAt: "2026-03-10T09:15:00Z"},
            {RoomID: 1, UserID: 7, Date: "not-a-date", CleanedAt: "2026-03-10T09:20:00Z"},
            {RoomID: 99, UserID: 7, Date: "2026-03-10", CleanedAt: "2026-03-10T09:25:00Z"},
        },
        []outbox.PendingIncident{
            {RoomID: 1, UserID: 7, Description: "cracked mirror", Photos: []string{jpegPayload}},
            {RoomID: 1, UserID: 7, Description: "", Photos: nil},
        },
    )

    assert.Equal(t, outbox.Counts{Synced: 1, Failed: 2}, res.Cleanings)
    assert.Equal(t, outbox.Counts{Synced: 1, Failed: 1}, res.Incidents)

    // The good entries landed despite the bad siblings.
    assert.Len(t, env.cleanings.rows, 1)
    require.Len(t, env.incidents.rows, 1)
    assert.Equal(t, model.RoomDisabled, env.rooms.rooms[1].Status)
}

// A photo that will not decode is dropped from the report; it does not
// fail the incident entry it arrived with.
func TestSyncBatchSkipsMalformedPhoto(t *testing.T) {
    env := newTestEnv(model.Room{ID: 1, Number: "101", Status: model.RoomClean})

    res := env.engine.SyncBatch(context.Background(), nil,
        []outbox.PendingIncident{
            {RoomID: 1, UserID: 7, Description: "scuffed wall", Photos: []string{"!!not-base64!!", jpegPayload}},
        },
    )

    assert.Equal(t, outbox.Counts{Synced: 1, Failed: 0}, res.Incidents)
    require.Len(t, env.incidents.rows, 1)
    assert.Len(t, env.photos.saved, 1)
    assert.Equal(t, model.RoomDisabled, env.rooms.rooms[1].Status)
}

// End to end: actions queued offline drain through the reconciler into
// the engine, the queue empties, and the cleaning keeps the timestamp
// recorded on the device.
func TestOfflineOutboxRoundTrip(t *testing.T) {
    env := newTestEnv(model.Room{ID: 1, Number: "101", Status: model.RoomCleaningPending})
    ctx := context.Background()
    store := outbox.NewMemoryStore()

    offlineAt := "2026-03-10T07:45:00Z"
    _, err := store.AddCleaning(ctx, outbox.PendingCleaning{RoomID: 1, UserID: 7, Date: "2026-03-10", CleanedAt: offlineAt})
    require.NoError(t, err)
    _, err = store.AddIncident(ctx, outbox.PendingIncident{RoomID: 1, UserID: 7, Description: "torn curtain", Photos: []string{jpegPayload}})
    require.NoError(t, err)

    res, err := outbox.Reconcile(ctx, store, env.engine)
    require.NoError(t, err)
    assert.Equal(t, outbox.Counts{Synced: 1}, res.Cleanings)
    assert.Equal(t, outbox.Counts{Synced: 1}, res.Incidents)

    left, err := store.Unsynced(ctx)
    require.NoError(t, err)
    assert.Empty(t, left)

    require.Len(t, env.cleanings.rows, 1)
    want, _ := time.Parse(time.RFC3339, offlineAt)
    assert.True(t, env.cleanings.rows[0].CleanedAt.Equal(want))
    assert.Len(t, env.incidents.rows, 1)
}

func TestListScopesHousekeeperToSelf(t *testing.T) {
    env := newTestEnv(model.Room{ID: 1, Number: "101", Status: model.RoomVacant})
    ctx := context.Background()
    date := day("2026-03-10")

    _, err := env.engine.RecordCleaning(ctx, 1, 7, date, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
    require.NoError(t, err)
    _, err = env.engine.RecordCleaning(ctx, 1, 8, date, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
    require.NoError(t, err)

    // A housekeeper's filter request for another user is overridden.
    mine, err := env.engine.ListCleanings(ctx, model.RoleHousekeeper, 7, date, 0, 8)
    require.NoError(t, err)
    require.Len(t, mine, 1)
    assert.Equal(t, uint64(7), mine[0].UserID)

    all, err := env.engine.ListCleanings(ctx, model.RoleReception, 3, date, 0, 0)
    require.NoError(t, err)
    assert.Len(t, all, 2)

    history, err := env.engine.CleaningHistory(ctx, model.RoleHousekeeper, 8, date, date, 0)
    require.NoError(t, err)
    require.Len(t, history, 1)
    assert.Equal(t, uint64(8), history[0].UserID)
}

func TestParseDate(t *testing.T) {
    d, err := ParseDate("2026-03-10")
    require.NoError(t, err)
    assert.Equal(t, day("2026-03-10"), d)

    d, err = ParseDate("2026-03-10T23:59:00Z")
    require.NoError(t, err)
    assert.Equal(t, day("2026-03-10"), d)

    _, err = ParseDate("10/03/2026")
    assert.ErrorIs(t, err, ErrValidation)
}
