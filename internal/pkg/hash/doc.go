// Package hash provides helpers for hashing and verifying secrets.
//
// One-time codes are stored only as hashes: generation hashes the plaintext
// before it enters the store, verification hashes the candidate and compares.
// Implementations live behind a small interface so the hashing primitive can
// change without touching the store.
package hash
