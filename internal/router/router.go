package router // route registration for the housekeeping API

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-housekeeping/internal/handler"
    "github.com/iliyamo/hotel-housekeeping/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only the health check.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid token.
// There is no register endpoint: staff accounts come from the seeder
// or an administrator.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh) // rotates the refresh token
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
    auth.GET("/me", a.Me)
}

// Handlers bundles the domain handlers for route registration.
type Handlers struct {
    Rooms       *handler.RoomHandler
    Assignments *handler.AssignmentHandler
    Cleanings   *handler.CleaningHandler
    Incidents   *handler.IncidentHandler
    Sync        *handler.SyncHandler
}

// RegisterHousekeeping registers the domain endpoints under /v1.  All
// of them require a valid JWT and a known staff role; write access is
// narrowed further per route group.  Role names match the JWT "role"
// claim.
func RegisterHousekeeping(e *echo.Echo, h Handlers, jwtSecret string, extra ...echo.MiddlewareFunc) {
    mws := append([]echo.MiddlewareFunc{
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("ADMIN", "RECEPTION", "HOUSEKEEPER"),
    }, extra...)
    g := e.Group("/v1", mws...)

    // ---- Rooms ----
    g.GET("/rooms", h.Rooms.List)
    front := middleware.RequireRole("ADMIN", "RECEPTION")
    g.POST("/rooms", h.Rooms.Create, front)
    g.PATCH("/rooms/:id", h.Rooms.Update, front)

    // ---- Assignments ----
    g.GET("/assignments", h.Assignments.List)
    g.POST("/assignments", h.Assignments.Create, front)
    g.DELETE("/assignments/:id", h.Assignments.Delete, front)
    g.POST("/rooms/:id/reassign-last", h.Assignments.ReassignLast, front)

    // ---- Cleanings ----
    g.GET("/cleanings", h.Cleanings.List)
    g.GET("/cleanings/history", h.Cleanings.History)
    g.POST("/cleanings", h.Cleanings.Create)

    // ---- Incidents ----
    g.GET("/incidents", h.Incidents.List)
    g.POST("/incidents", h.Incidents.Create)
    // Resolution is reception-only; the engine enforces it too.
    g.PATCH("/incidents/:id/resolve", h.Incidents.Resolve, middleware.RequireRole("RECEPTION"))

    // ---- Offline sync ----
    g.POST("/sync", h.Sync.Batch)
}
