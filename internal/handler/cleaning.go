package handler

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-housekeeping/internal/service"
)

// CleaningHandler exposes the cleaning event log.
type CleaningHandler struct {
    Svc *service.Housekeeping
}

func NewCleaningHandler(svc *service.Housekeeping) *CleaningHandler {
    return &CleaningHandler{Svc: svc}
}

type recordCleaningReq struct {
    RoomID    uint64 `json:"room_id"`
    Date      string `json:"date"`
    CleanedAt string `json:"cleaned_at"` // optional RFC3339; defaults to now
}

// Create records a cleaning by the authenticated housekeeper.  An
// explicit cleaned_at is honored so work done offline keeps its
// original timestamp once it reaches the server.
func (h *CleaningHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req recordCleaningReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    date, err := service.ParseDate(req.Date)
    if err != nil {
        return fail(c, err)
    }
    cleanedAt := time.Now().UTC()
    if req.CleanedAt != "" {
        t, err := time.Parse(time.RFC3339, req.CleanedAt)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad cleaned_at"})
        }
        cleanedAt = t.UTC()
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cleaning, err := h.Svc.RecordCleaning(ctx, req.RoomID, uid, date, cleanedAt)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, cleaning)
}

// List returns the date's cleanings, optionally filtered by room and
// (for reception/admin) by user.
func (h *CleaningHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    date, err := service.ParseDate(c.QueryParam("date"))
    if err != nil {
        return fail(c, err)
    }
    var roomID, userID uint64
    if s := c.QueryParam("room_id"); s != "" {
        roomID, _ = strconv.ParseUint(s, 10, 64)
    }
    if s := c.QueryParam("user_id"); s != "" {
        userID, _ = strconv.ParseUint(s, 10, 64)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    list, err := h.Svc.ListCleanings(ctx, getRole(c), uid, date, roomID, userID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, list)
}

// History returns cleanings in an inclusive date range.
func (h *CleaningHandler) History(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    start, err := service.ParseDate(c.QueryParam("start"))
    if err != nil {
        return fail(c, err)
    }
    end, err := service.ParseDate(c.QueryParam("end"))
    if err != nil {
        return fail(c, err)
    }
    if end.Before(start) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "end before start"})
    }
    var userID uint64
    if s := c.QueryParam("user_id"); s != "" {
        userID, _ = strconv.ParseUint(s, 10, 64)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    list, err := h.Svc.CleaningHistory(ctx, getRole(c), uid, start, end, userID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, list)
}
