package domain

import "time"

// User models an account. PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID    string
	Email string
	Role  Role
}

// Is reports whether the principal and the user are the same account.
func (p Principal) Is(userID string) bool {
	return p.ID != "" && p.ID == userID
}

// Statistics is the admin dashboard summary.
//
// ActiveSessions is an approximation: the number of users whose record was
// updated in the last ActiveWindow. There is no session store behind it.
type Statistics struct {
	TotalUsers      int64 `json:"totalUsers"`
	TextSubmissions int64 `json:"textSubmissions"`
	ActiveSessions  int64 `json:"activeSessions"`
}

// ActiveWindow is the look-back period for Statistics.ActiveSessions.
const ActiveWindow = 60 * time.Minute
