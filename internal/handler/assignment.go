package handler

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-housekeeping/internal/service"
)

// AssignmentHandler exposes the assignment ledger (reception/admin
// issue and delete; everyone lists within their scope).
type AssignmentHandler struct {
    Svc *service.Housekeeping
}

func NewAssignmentHandler(svc *service.Housekeeping) *AssignmentHandler {
    return &AssignmentHandler{Svc: svc}
}

type assignReq struct {
    RoomIDs []uint64 `json:"room_ids"`
    UserID  uint64   `json:"user_id"`
    Date    string   `json:"date"`
}

// Create assigns a batch of rooms to one housekeeper for a date.
func (h *AssignmentHandler) Create(c echo.Context) error {
    var req assignReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    date, err := service.ParseDate(req.Date)
    if err != nil {
        return fail(c, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    assignments, err := h.Svc.AssignRooms(ctx, req.RoomIDs, req.UserID, date, getEmail(c))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, assignments)
}

// Delete removes one assignment.
func (h *AssignmentHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid assignment id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Svc.RemoveAssignment(ctx, id); err != nil {
        return fail(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// List returns the date's assignments.  Housekeepers see their own;
// reception and admin may filter with ?user_id=.
func (h *AssignmentHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    date, err := service.ParseDate(c.QueryParam("date"))
    if err != nil {
        return fail(c, err)
    }
    var userID uint64
    if s := c.QueryParam("user_id"); s != "" {
        userID, _ = strconv.ParseUint(s, 10, 64)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    list, err := h.Svc.ListAssignments(ctx, getRole(c), uid, date, userID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, list)
}

type reassignReq struct {
    UserID uint64 `json:"user_id"` // optional; zero means "last cleaner"
    Date   string `json:"date"`
}

// ReassignLast re-assigns one room, defaulting to whoever cleaned it
// last.  Used by reception after a recurring checkout.
func (h *AssignmentHandler) ReassignLast(c echo.Context) error {
    roomID, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    var req reassignReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    date, err := service.ParseDate(req.Date)
    if err != nil {
        return fail(c, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    assignments, err := h.Svc.ReassignLastCleaner(ctx, roomID, req.UserID, date, getEmail(c))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, assignments)
}
