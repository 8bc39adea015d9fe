package models

// Role is the account category of a user. It decides which profile table
// (doctors or patients) the user may own.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
	RoleDeleted Role = "deleted"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RolePatient, RoleAdmin, RoleDeleted:
		return true
	}
	return false
}

// User is a login account. It maps to the `users` table in SQLite.
// Password holds the hash bundle, never the plain password.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Login    string `db:"login" json:"login"`
	Password string `db:"password" json:"-"`
	Role     Role   `db:"role" json:"role"`
}

// AuthPayload is the identity returned after a successful login or registration.
type AuthPayload struct {
	UserID int64  `json:"user_id"`
	Role   Role   `json:"role"`
	Login  string `json:"login"`
}

// Payload builds the auth payload for u.
func (u *User) Payload() *AuthPayload {
	return &AuthPayload{UserID: u.ID, Role: u.Role, Login: u.Login}
}
