package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-housekeeping/internal/outbox"
    "github.com/iliyamo/hotel-housekeeping/internal/service"
)

// SyncHandler accepts a batch of actions a client recorded while
// offline and replays them through the engine.  Entries are applied
// independently; the response reports per-kind synced/failed counts
// and a failed entry is expected to stay in the client's outbox for
// the next attempt.
type SyncHandler struct {
    Svc *service.Housekeeping
}

func NewSyncHandler(svc *service.Housekeeping) *SyncHandler { return &SyncHandler{Svc: svc} }

type syncReq struct {
    Cleanings []outbox.PendingCleaning `json:"cleanings"`
    Incidents []outbox.PendingIncident `json:"incidents"`
}

// Batch replays the submitted entries.  The caller's identity
// overrides whatever user the entries claim, so a stolen token cannot
// sync actions as someone else.
func (h *SyncHandler) Batch(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req syncReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    for i := range req.Cleanings {
        req.Cleanings[i].UserID = uid
    }
    for i := range req.Incidents {
        req.Incidents[i].UserID = uid
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
    defer cancel()

    res := h.Svc.SyncBatch(ctx, req.Cleanings, req.Incidents)
    return c.JSON(http.StatusOK, res)
}
