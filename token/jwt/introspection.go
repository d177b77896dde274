package jwt

import (
	"time"

	"github.com/connectexe/connectexe-client/internal/utils"
)

// TokenIntrospection describes a stored access token in the shape of an
// OAuth 2.0 introspection reply. It is built locally from the unverified
// payload, so Active only means "well formed and not yet expired".
type TokenIntrospection struct {
	Active    bool     `json:"active"`
	Exp       *int64   `json:"exp,omitempty"`
	Iat       *int64   `json:"iat,omitempty"`
	ExpiresIn int64    `json:"expires_in,omitempty"` // Seconds left, 0 once inactive or without exp
	Sub       *string  `json:"sub,omitempty"`        // The userId claim
	Email     string   `json:"email,omitempty"`
	Name      string   `json:"name,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

// Introspect reports on raw. A malformed token is simply inactive.
func Introspect(raw string) *TokenIntrospection {
	mc, ok := decodePayload(raw)
	if !ok {
		return &TokenIntrospection{Active: false}
	}

	ti := &TokenIntrospection{
		Email: utils.ClaimString(mc["email"]),
		Name:  utils.ClaimString(mc["fullName"]),
	}
	if sub := utils.ClaimString(mc["userId"]); sub != "" {
		ti.Sub = utils.Ptr(sub)
	}
	if iat, ok := utils.ClaimInt64(mc["iat"]); ok {
		ti.Iat = utils.Ptr(iat)
	}
	if exp, ok := utils.ClaimInt64(mc["exp"]); ok {
		ti.Exp = utils.Ptr(exp)
	}

	// Older tokens carry a roles array instead of a single role.
	if role := utils.ClaimString(mc["role"]); role != "" {
		ti.Roles = []string{role}
	} else if roles, ok := mc["roles"].([]any); ok {
		ti.Roles = utils.ToStringSlice(roles)
	}

	if ti.Exp == nil {
		ti.Active = true
		return ti
	}
	now := NowTimeFunc()
	if exp := time.Unix(*ti.Exp, 0); exp.After(now) {
		ti.Active = true
		ti.ExpiresIn = int64(exp.Sub(now) / time.Second)
	}
	return ti
}
