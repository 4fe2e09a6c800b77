// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation (a housekeeper resolving an
// incident), while ErrConflict signals that an operation cannot
// proceed due to conflicting state (moving a DISABLED room by a
// direct status edit). Absence of a referenced row is reported as
// sql.ErrNoRows throughout.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// their role does not permit. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed
// because of conflicting state, such as editing the status of a
// room that is DISABLED by an open incident. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
