package model

import "time"

// UserRole enumerates the staff roles the service distinguishes.
// Reception and admin act on occupancy, assignments and incident
// resolution; housekeepers record cleanings and report incidents.
type UserRole string

const (
    RoleAdmin       UserRole = "ADMIN"
    RoleReception   UserRole = "RECEPTION"
    RoleHousekeeper UserRole = "HOUSEKEEPER"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
    return r == RoleAdmin || r == RoleReception || r == RoleHousekeeper
}

// User represents a staff account as stored in the `users` table.
// The password is stored as a bcrypt hash; only its hash ever leaves
// the repository layer.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address.
//  Name         – display name shown in notifications and listings.
//  PasswordHash – bcrypt hashed password.
//  Role         – staff role.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    Name         string    // users.name
    PasswordHash string    // users.password_hash
    Role         UserRole  // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// UserRef is the slim user projection embedded in responses that
// reference a user without exposing account details.
type UserRef struct {
    ID    uint64 `json:"id"`
    Name  string `json:"name"`
    Email string `json:"email,omitempty"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only
// the SHA-256 hash of the token value is stored.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
