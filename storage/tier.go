// Package storage provides the two key/value tiers the client keeps session
// state in: a persistent tier that survives restarts (the browser's
// localStorage) and a session tier that dies with the process
// (sessionStorage).
package storage

// Tier is a flat string key/value store.
type Tier interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)

	// Set writes value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error

	// Clear deletes every key in the tier.
	Clear() error
}
