package session

import (
	"net/url"

	"github.com/connectexe/connectexe-client/cookies"
	cxerrors "github.com/connectexe/connectexe-client/internal/errors"
	"github.com/connectexe/connectexe-client/token"
	"github.com/rs/zerolog/log"
)

// Grant is a successful login as reported by the backend, plus the
// remember-me choice made on the form.
type Grant struct {
	Email        string
	UserID       string
	FullName     string
	Role         string
	AccessToken  string
	RefreshToken string
	Verified     *bool
	Remember     bool
}

// SignIn stores a login and returns the route the user lands on. An
// unverified account stores nothing.
func (m *Manager) SignIn(g Grant) (string, error) {
	if g.Verified != nil && !*g.Verified {
		return "", cxerrors.ErrUserNotVerified
	}

	if g.Remember {
		m.store.SetRememberMe(g.Email, true)
	} else {
		m.store.SetRememberMe("", false)
		m.store.ClearSession()
		if m.jar != nil {
			m.jar.RemoveAll(cookies.IdentityCookies...)
		}
	}

	// A login replaces the previous one in both tiers.
	m.store.RemoveAll(token.TokenKeys...)
	m.store.RemoveAll(token.IdentityKeys...)

	if g.AccessToken == "" {
		log.Warn().Msg("No access token received from backend, using storage fallback")
	}
	m.store.SaveTokens(token.TokenPair{AccessToken: g.AccessToken, RefreshToken: g.RefreshToken}, g.Remember)

	for key, value := range map[string]string{
		token.KeyUserID:   g.UserID,
		token.KeyUserName: g.FullName,
		token.KeyUserRole: g.Role,
	} {
		if value != "" {
			m.store.Save(key, value, g.Remember)
		}
	}

	log.Debug().Str("userId", g.UserID).Bool("remember", g.Remember).Msg("Signed in")
	m.broadcaster.NotifyChanged()
	return RouteForRole(g.Role), nil
}

// CaptureOAuthRedirect stores the identity an OAuth redirect carries in its
// query string. It returns false unless userId, fullName and role are all set.
func (m *Manager) CaptureOAuthRedirect(query url.Values) bool {
	userID := query.Get("userId")
	fullName := query.Get("fullName")
	role := query.Get("role")
	if userID == "" || fullName == "" || role == "" {
		return false
	}

	m.store.Save(token.KeyUserID, userID, true)
	m.store.Save(token.KeyUserName, fullName, true)
	m.store.Save(token.KeyUserRole, role, true)
	m.broadcaster.NotifyChanged()
	return true
}
