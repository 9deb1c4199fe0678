// Package uid generates process-unique identifiers.
package uid

// StringID generates opaque string identifiers (e.g. correlation IDs).
type StringID interface {
	Generate() string
}

// NumberID generates monotonic-ish numeric identifiers (e.g. issuance IDs).
type NumberID interface {
	Generate() int64
}
