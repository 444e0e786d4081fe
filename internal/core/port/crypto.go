package port

// PasswordHasher hashes and verifies secrets using the configured algorithm.
// Verify reports a mismatch as (false, nil); an error is reserved for
// infrastructure failure, never for "wrong secret".
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, encoded string) (bool, error)
}
