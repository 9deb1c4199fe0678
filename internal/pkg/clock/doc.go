// Package clock abstracts the system clock.
//
// Code that records issuance times depends on the Clocker interface rather
// than time.Now directly, so tests can substitute a fixed clock.
package clock
