// Package entity holds the domain types shared across the otp module.
package entity

import "time"

// Record is an outstanding one-time code for a key.
//
// Only the digest of the code is kept; the plaintext leaves the store exactly
// once, at generation time. ID identifies a single issuance so a late expiry
// timer can tell this record apart from a successor under the same key.
type Record struct {
	ID       int64
	Key      string
	CodeHash []byte
	IssuedAt time.Time
}

// Stats are running totals maintained by the store.
type Stats struct {
	Issued   int64
	Verified int64
	Rejected int64
	Expired  int64
}
