package models

// User represents a login account.
type User struct {
	// Username is the unique key of the account.
	Username string

	// PasswordHash is the stored credential hash (bcrypt when written by the
	// auth package). The store treats it as an opaque string.
	PasswordHash string
}
