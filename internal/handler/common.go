package handler // HTTP handlers for the housekeeping API

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-housekeeping/internal/model"
    "github.com/iliyamo/hotel-housekeeping/internal/repository"
    "github.com/iliyamo/hotel-housekeeping/internal/service"
)

// getUserID extracts the user_id claim from echo.Context.  JWT numeric
// claims arrive as float64; older tokens may carry strings.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getRole extracts the role claim stored by the JWT middleware.
func getRole(c echo.Context) model.UserRole {
    if s, ok := c.Get("role").(string); ok {
        return model.UserRole(s)
    }
    return ""
}

// getEmail extracts the email claim used as the actor label in
// notifications.
func getEmail(c echo.Context) string {
    if s, ok := c.Get("email").(string); ok {
        return s
    }
    return ""
}

// fail maps an engine error onto the API's error contract.
func fail(c echo.Context, err error) error {
    switch {
    case errors.Is(err, service.ErrValidation):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, sql.ErrNoRows):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// parseID parses a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}
