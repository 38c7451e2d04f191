package model

import "time"

// User represents a credential record in the `users` table.  A user
// authenticates with email and password and carries exactly one role
// (ADMIN, EMPLOYEE or MEMBER).  Employees are assigned to a location;
// members additionally own a Member profile linked via members.user_id.
//
// Fields:
//  ID           - primary key identifier of the user.
//  Email        - unique email address used for login.
//  PasswordHash - bcrypt hashed password.
//  Role         - role name (ADMIN, EMPLOYEE, MEMBER).
//  LocationID   - assigned location for employees (nullable).
//  IsActive     - whether the account is active.
//  CreatedAt    - timestamp of creation.
//  UpdatedAt    - timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	LocationID   *uint64   // users.location_id (nullable, employees only)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        - primary key identifier.
//  UserID    - owner of the token.
//  TokenHash - SHA-256 hex digest of the token value.
//  ExpiresAt - expiration timestamp of the token.
//  RevokedAt - when the token was revoked (null if still active).
//  CreatedAt - timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
