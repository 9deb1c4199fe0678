package hash

// Hash digests a plaintext secret and verifies candidates against a digest.
type Hash interface {
	// Hash returns the one-way digest of the input string.
	Hash(str string) ([]byte, error)
	// Verify checks whether the plaintext string matches the given digest.
	Verify(hashed, str string) bool
}
