package models

// Admin "inherits" from User via embedding. The distinguishing field is Role.
type Admin struct {
	User
}

// NewAdmin creates an admin model with Role preset to "admin".
// passwordHash must already be a hash bundle.
func NewAdmin(login, passwordHash string) *Admin {
	return &Admin{User: User{Login: login, Password: passwordHash, Role: RoleAdmin}}
}
