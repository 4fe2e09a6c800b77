package handler

import (
    "context"
    "io"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-housekeeping/internal/model"
    "github.com/iliyamo/hotel-housekeeping/internal/photo"
    "github.com/iliyamo/hotel-housekeeping/internal/service"
)

// IncidentHandler exposes defect reports.  Photos arrive either as
// multipart file parts (online client) or as base64 strings in a JSON
// body (offline client replay).
type IncidentHandler struct {
    Svc *service.Housekeeping
}

func NewIncidentHandler(svc *service.Housekeeping) *IncidentHandler {
    return &IncidentHandler{Svc: svc}
}

type incidentJSONReq struct {
    RoomID      uint64   `json:"room_id"`
    Description string   `json:"description"`
    Photos      []string `json:"photos"` // data-URL or base64
}

// Create files an incident and takes the room out of service.
func (h *IncidentHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    var (
        roomID      uint64
        description string
        photos      [][]byte
    )
    if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
        var req incidentJSONReq
        if err := c.Bind(&req); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
        }
        roomID = req.RoomID
        description = req.Description
        for _, p := range req.Photos {
            data, err := photo.Decode(p)
            if err != nil {
                return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad photo payload"})
            }
            photos = append(photos, data)
        }
    } else {
        roomID, _ = strconv.ParseUint(c.FormValue("room_id"), 10, 64)
        description = c.FormValue("description")
        form, err := c.MultipartForm()
        if err == nil && form != nil {
            for _, fh := range form.File["photos"] {
                f, err := fh.Open()
                if err != nil {
                    return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad photo upload"})
                }
                data, err := io.ReadAll(f)
                _ = f.Close()
                if err != nil {
                    return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad photo upload"})
                }
                photos = append(photos, data)
            }
        }
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    incident, err := h.Svc.ReportIncident(ctx, roomID, uid, description, photos)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, incident)
}

type resolveReq struct {
    RoomID uint64 `json:"room_id"`
}

// Resolve marks an incident resolved and brings the room back into
// service (reception only).
func (h *IncidentHandler) Resolve(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid incident id"})
    }
    var req resolveReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    incident, err := h.Svc.ResolveIncident(ctx, getRole(c), uid, id, req.RoomID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, incident)
}

// List returns incidents, filterable by ?room_id= and ?status=.
func (h *IncidentHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var roomID uint64
    if s := c.QueryParam("room_id"); s != "" {
        roomID, _ = strconv.ParseUint(s, 10, 64)
    }
    status := model.IncidentStatus(strings.ToUpper(c.QueryParam("status")))
    if status != "" && !status.Valid() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad status"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    list, err := h.Svc.ListIncidents(ctx, getRole(c), uid, roomID, status)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, list)
}
