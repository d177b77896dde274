package token

import (
	cxerrors "github.com/connectexe/connectexe-client/internal/errors"
	"github.com/connectexe/connectexe-client/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

var _ oauth2.TokenSource = (*Store)(nil)

// TokenPair is what a successful login hands back. RefreshToken is optional.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Store places credentials in one of two tiers. A remembered login goes to the
// persistent tier, anything else to the session tier. Reads prefer the
// persistent tier, so when both tiers hold a key the session copy is never seen.
//
// Tier failures are logged and otherwise ignored: a broken tier reads as empty.
type Store struct {
	local   storage.Tier
	session storage.Tier
}

func NewStore(local, session storage.Tier) *Store {
	return &Store{
		local:   local,
		session: session,
	}
}

// Local is the persistent tier.
func (s *Store) Local() storage.Tier {
	return s.local
}

// Session is the session-scoped tier.
func (s *Store) Session() storage.Tier {
	return s.session
}

func (s *Store) tier(remember bool) (storage.Tier, string) {
	if remember {
		return s.local, "local"
	}
	return s.session, "session"
}

// Save writes value to the persistent tier when remember is set, otherwise to
// the session tier. The other tier is left untouched.
func (s *Store) Save(key, value string, remember bool) {
	t, name := s.tier(remember)
	if err := t.Set(key, value); err != nil {
		log.Err(err).Str("key", key).Str("tier", name).Msg("Failed to save storage item")
	}
}

// Get returns the persistent value for key if present, else the session value.
func (s *Store) Get(key string) (string, bool) {
	if v, ok := s.read(s.local, "local", key); ok {
		return v, true
	}
	return s.read(s.session, "session", key)
}

func (s *Store) read(t storage.Tier, name, key string) (string, bool) {
	v, ok, err := t.Get(key)
	if err != nil {
		log.Err(err).Str("key", key).Str("tier", name).Msg("Failed to read storage item")
		return "", false
	}
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Remove deletes key from both tiers.
func (s *Store) Remove(key string) {
	if err := s.local.Remove(key); err != nil {
		log.Err(err).Str("key", key).Str("tier", "local").Msg("Failed to remove storage item")
	}
	if err := s.session.Remove(key); err != nil {
		log.Err(err).Str("key", key).Str("tier", "session").Msg("Failed to remove storage item")
	}
}

func (s *Store) RemoveAll(keys ...string) {
	for _, k := range keys {
		s.Remove(k)
	}
}

// ClearSession drops the whole session tier.
func (s *Store) ClearSession() {
	if err := s.session.Clear(); err != nil {
		log.Err(err).Msg("Failed to clear session storage")
	}
}

func (s *Store) SaveTokens(pair TokenPair, remember bool) {
	if pair.AccessToken != "" {
		s.Save(KeyAccessToken, pair.AccessToken, remember)
	}
	if pair.RefreshToken != "" {
		s.Save(KeyRefreshToken, pair.RefreshToken, remember)
	}
}

func (s *Store) Tokens() TokenPair {
	access, _ := s.Get(KeyAccessToken)
	refresh, _ := s.Get(KeyRefreshToken)
	return TokenPair{AccessToken: access, RefreshToken: refresh}
}

// RemoveTokens deletes the token pair from both tiers.
func (s *Store) RemoveTokens() {
	s.RemoveAll(TokenKeys...)
}

// RememberMe reports the preference stored by the last login.
func (s *Store) RememberMe() bool {
	v, ok := s.read(s.local, "local", KeyRememberMe)
	return ok && v == "true"
}

// RememberedEmail is the address to prefill on the next login.
func (s *Store) RememberedEmail() (string, bool) {
	return s.read(s.local, "local", KeyRememberedEmail)
}

// SetRememberMe stores or clears the remember-me preference. It never touches
// the token pair.
func (s *Store) SetRememberMe(email string, remember bool) {
	if !remember {
		for _, k := range []string{KeyRememberedEmail, KeyRememberMe} {
			if err := s.local.Remove(k); err != nil {
				log.Err(err).Str("key", k).Msg("Failed to clear remember-me")
			}
		}
		return
	}
	if email != "" {
		s.Save(KeyRememberedEmail, email, true)
	}
	s.Save(KeyRememberMe, "true", true)
}

// Token exposes the stored access token as a bearer token.
func (s *Store) Token() (*oauth2.Token, error) {
	access, ok := s.Get(KeyAccessToken)
	if !ok {
		return nil, cxerrors.ErrNoToken
	}
	return &oauth2.Token{AccessToken: access, TokenType: "Bearer"}, nil
}

// AuthHeader is the Authorization header value, or "" when signed out.
func (s *Store) AuthHeader() string {
	access, ok := s.Get(KeyAccessToken)
	if !ok {
		return ""
	}
	return "Bearer " + access
}
