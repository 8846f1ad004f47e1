package domain

// Caller is the authenticated actor of a request.
type Caller struct {
	ID   string
	Role Role
}

// CallerFor derives the caller identity of a user.
func CallerFor(u *User) Caller {
	return Caller{ID: u.ID, Role: u.Role}
}
