package port

// PasswordHasher hashes and verifies secrets using the configured algorithm.
// Verify reports false for malformed digests rather than failing; a stored
// digest the hasher cannot parse is simply a credential that matches nothing.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}
