package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-housekeeping/internal/model"
    "github.com/iliyamo/hotel-housekeeping/internal/service"
)

// RoomHandler exposes the room board and administrative room edits.
type RoomHandler struct {
    Svc *service.Housekeeping
}

func NewRoomHandler(svc *service.Housekeeping) *RoomHandler { return &RoomHandler{Svc: svc} }

// List returns the room board for a date.  Housekeepers get their
// assigned rooms; ?all=true shows them the full board (read-only).
// The date query parameter is required so offline clients replaying a
// past day never inherit the server's idea of "today".
func (h *RoomHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    date, err := service.ParseDate(c.QueryParam("date"))
    if err != nil {
        return fail(c, err)
    }
    viewAll := c.QueryParam("all") == "true"

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    rooms, err := h.Svc.GetRooms(ctx, getRole(c), uid, date, viewAll)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, rooms)
}

type createRoomReq struct {
    Number     string           `json:"number"`
    Floor      *int             `json:"floor"`
    Status     model.RoomStatus `json:"status"`
    IsOccupied bool             `json:"is_occupied"`
}

// Create registers a new room (reception/admin).
func (h *RoomHandler) Create(c echo.Context) error {
    var req createRoomReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    room, err := h.Svc.CreateRoom(ctx, req.Number, req.Floor, req.Status, req.IsOccupied)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, room)
}

type updateRoomReq struct {
    Number     *string           `json:"number"`
    Floor      *int              `json:"floor"`
    Status     *model.RoomStatus `json:"status"`
    IsOccupied *bool             `json:"is_occupied"`
}

// Update patches a room.  Occupancy flips run through the state
// machine (check-in/checkout); everything else is a plain edit.
func (h *RoomHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    var req updateRoomReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    room, err := h.Svc.UpdateRoom(ctx, service.UpdateRoomInput{
        ID:         id,
        Number:     req.Number,
        Floor:      req.Floor,
        Status:     req.Status,
        IsOccupied: req.IsOccupied,
    })
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, room)
}
