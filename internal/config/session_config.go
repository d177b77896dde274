package config

import "time"

type SessionConfig interface {
	GetReloadDelay() time.Duration
	GetForceReload() bool
	GetLegacyIdentitySources() bool
}

type Session struct {
	s Settings
}

var _ SessionConfig = Session{}

func (s Session) GetReloadDelay() time.Duration {
	return s.s.ReloadDelay
}

func (s Session) GetForceReload() bool {
	return s.s.ForceReload
}

// GetLegacyIdentitySources reports whether the plain storage fields and the
// backend cookies are still consulted after the access token.
func (s Session) GetLegacyIdentitySources() bool {
	return s.s.LegacyIdentitySources
}
