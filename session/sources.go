package session

import (
	"github.com/connectexe/connectexe-client/cookies"
	"github.com/connectexe/connectexe-client/storage"
	"github.com/connectexe/connectexe-client/token"
	"github.com/connectexe/connectexe-client/token/jwt"
	"github.com/rs/zerolog/log"
)

// IdentitySource yields an identity only when every field it needs is set.
type IdentitySource interface {
	Name() Source
	Lookup() (*Identity, bool)
}

// CookieJar is the part of cookies.Jar the session layer uses.
type CookieJar interface {
	Get(name string) (string, bool)
	RemoveAll(names ...string)
}

type tokenSource struct {
	store     *token.Store
	onExpired func()
}

func (tokenSource) Name() Source { return SourceToken }

func (s tokenSource) Lookup() (*Identity, bool) {
	raw, ok := s.store.Get(token.KeyAccessToken)
	if !ok {
		return nil, false
	}

	claims, ok := jwt.Decode(raw)
	if !ok {
		return nil, false
	}
	if claims.Expired(jwt.NowTimeFunc()) {
		log.Warn().Time("exp", claims.ExpiresAt()).Msg("Token is expired")
		if s.onExpired != nil {
			s.onExpired()
		}
		return nil, false
	}

	if claims.UserID == "" || claims.FullName == "" || claims.Role == "" {
		return nil, false
	}
	return &Identity{
		UserID:   claims.UserID,
		FullName: claims.FullName,
		Role:     claims.Role,
		Source:   SourceToken,
	}, true
}

// tierSource reads the plain identity fields a login or OAuth redirect wrote
// into one storage tier. Older builds used fullName/role instead of
// userName/userRole, so both spellings are accepted.
type tierSource struct {
	tier storage.Tier
	name Source
}

func (s tierSource) Name() Source { return s.name }

func (s tierSource) Lookup() (*Identity, bool) {
	id := &Identity{
		UserID:   s.first(token.KeyUserID),
		FullName: s.first(token.KeyUserName, token.KeyFullName),
		Role:     s.first(token.KeyUserRole, token.KeyRole),
		Status:   s.first(token.KeyStatus),
		Source:   s.name,
	}
	if id.UserID == "" || id.FullName == "" || id.Role == "" {
		return nil, false
	}
	return id, true
}

func (s tierSource) first(keys ...string) string {
	for _, k := range keys {
		v, ok, err := s.tier.Get(k)
		if err != nil {
			log.Err(err).Str("key", k).Str("tier", string(s.name)).Msg("Failed to read identity field")
			continue
		}
		if ok && v != "" {
			return v
		}
	}
	return ""
}

// cookieSource reads the cookies the backend sets on a cookie-session login.
type cookieSource struct {
	jar CookieJar
}

func (cookieSource) Name() Source { return SourceCookie }

func (s cookieSource) Lookup() (*Identity, bool) {
	userID, _ := s.jar.Get(cookies.UserID)
	fullName, _ := s.jar.Get(cookies.FullName)
	role, _ := s.jar.Get(cookies.Role)
	status, _ := s.jar.Get(cookies.Status)
	if userID == "" || fullName == "" || role == "" || status == "" {
		return nil, false
	}
	return &Identity{
		UserID:   userID,
		FullName: fullName,
		Role:     role,
		Status:   status,
		Source:   SourceCookie,
	}, true
}
