package ports

// PasswordHasher abstracts the one-way hashing of stored credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash.
	Verify(hash, password string) bool
}
