// Package config exposes runtime configuration behind a small interface so
// the rest of the application never touches the config library directly.
package config

import (
	"io"
	"time"
)

// Config defines the getters this service needs. Implementations should
// return the zero value when a key is missing or cannot be converted.
type Config interface {
	io.Closer

	// GetBool retrieves the value for key as a bool.
	GetBool(key string) bool

	// GetInt retrieves the value for key as an int.
	GetInt(key string) int

	// GetFloat64 retrieves the value for key as a float64.
	GetFloat64(key string) float64

	// GetString retrieves the value for key as a string.
	GetString(key string) string

	// GetSecond retrieves the value for key as a duration in seconds.
	GetSecond(key string) time.Duration

	// GetArray retrieves the value for key split by commas, entries trimmed
	// and empties removed.
	GetArray(key string) []string
}
