// Package jwt reads access token claims for display. Nothing here verifies a
// signature: the claims are untrusted and only drive what the client shows.
// Every privileged request is authorised again by the backend.
package jwt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	cxerrors "github.com/connectexe/connectexe-client/internal/errors"
	"github.com/connectexe/connectexe-client/internal/utils"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Only the payload segment is read; header and signature are not inspected.
var parser = jwtlib.NewParser(jwtlib.WithPaddingAllowed())

// Claims are the payload fields the backend puts in an access token.
type Claims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	FullName string `json:"fullName"`
	Exp      int64  `json:"exp"`
	Iat      int64  `json:"iat"`
}

// Decode parses the payload segment of raw. It returns false for anything that
// is not three dot-separated segments with a base64url JSON object in the
// middle; a bad token means "no identity", never an error.
func Decode(raw string) (*Claims, bool) {
	mc, ok := decodePayload(raw)
	if !ok {
		return nil, false
	}

	c := &Claims{
		UserID:   utils.ClaimString(mc["userId"]),
		Email:    utils.ClaimString(mc["email"]),
		Role:     utils.ClaimString(mc["role"]),
		FullName: utils.ClaimString(mc["fullName"]),
	}
	c.Exp, _ = utils.ClaimInt64(mc["exp"])
	c.Iat, _ = utils.ClaimInt64(mc["iat"])
	return c, true
}

func decodePayload(raw string) (jwtlib.MapClaims, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}

	segments := strings.Split(raw, ".")
	if len(segments) != 3 || segments[1] == "" {
		return nil, false
	}

	payload, err := parser.DecodeSegment(segments[1])
	if err != nil {
		log.Debug().Err(err).Msg("Error decoding token payload")
		return nil, false
	}

	mc := jwtlib.MapClaims{}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&mc); err != nil {
		log.Debug().Err(err).Msg("Error parsing token payload")
		return nil, false
	}
	return mc, true
}

// Expired reports whether exp lies before now, compared at full clock
// precision. A token without exp never expires on the client; the backend
// still rejects it when it has to.
func (c *Claims) Expired(now time.Time) bool {
	if c == nil {
		return true
	}
	if c.Exp == 0 {
		return false
	}
	return c.ExpiresAt().Before(now)
}

// ExpiresAt is exp as a time.
func (c *Claims) ExpiresAt() time.Time {
	return time.Unix(c.Exp, 0)
}

// IsExpired decodes raw and checks exp against NowTimeFunc. Malformed tokens
// count as expired.
func IsExpired(raw string) bool {
	c, ok := Decode(raw)
	if !ok {
		return true
	}
	return c.Expired(NowTimeFunc())
}

// Valid decodes raw and returns its claims only when it is unexpired.
func Valid(raw string) (*Claims, bool) {
	c, err := Check(raw)
	if err != nil {
		return nil, false
	}
	return c, true
}

// Check is Valid with a reason: ErrInvalidToken when raw does not decode,
// ErrTokenExpired once exp has passed. The claims of an expired token are
// still returned.
func Check(raw string) (*Claims, error) {
	c, ok := Decode(raw)
	if !ok {
		return nil, cxerrors.ErrInvalidToken
	}
	if c.Expired(NowTimeFunc()) {
		return c, fmt.Errorf("%w at %s", cxerrors.ErrTokenExpired, c.ExpiresAt().UTC().Format(time.RFC3339))
	}
	return c, nil
}
