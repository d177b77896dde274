package session_test

import (
	"net/url"
	"testing"
	"time"

	cxerrors "github.com/connectexe/connectexe-client/internal/errors"
	"github.com/connectexe/connectexe-client/internal/utils"
	"github.com/connectexe/connectexe-client/session"
	"github.com/connectexe/connectexe-client/token"
	"github.com/stretchr/testify/require"
)

func TestSignInRoutesByRole(t *testing.T) {
	tests := []struct {
		role  string
		route string
	}{
		{"ADMIN", session.RouteAdmin},
		{"STUDENT", session.RouteStudent},
		{"TEACHER", session.RouteHome},
		{"", session.RouteHome},
	}

	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			f := setupTestFixture(t)
			route, err := f.manager.SignIn(session.Grant{
				UserID:   "1",
				FullName: "Quản Trị",
				Role:     tc.role,
				Remember: true,
			})
			require.NoError(t, err)
			require.Equal(t, tc.route, route)
		})
	}
}

func TestSignInRememberedSurvivesSessionEnd(t *testing.T) {
	f := setupTestFixture(t)

	changed := 0
	f.manager.Subscribe(func() { changed++ })

	signedIn(t, f, true)
	require.Equal(t, 1, changed)

	f.store.ClearSession()

	id, ok := f.manager.Current()
	require.True(t, ok)
	require.Equal(t, session.SourceToken, id.Source)
	require.Equal(t, "17", id.UserID)
	require.NotEmpty(t, f.manager.AuthHeader())
}

func TestSignInNotRememberedEndsWithSession(t *testing.T) {
	f := setupTestFixture(t)
	signedIn(t, f, false)

	require.Equal(t, 0, f.local.Len(), "nothing persistent for an unremembered login")

	f.store.ClearSession()

	_, ok := f.manager.Current()
	require.False(t, ok)
}

func TestSignInReplacesPreviousLogin(t *testing.T) {
	f := setupTestFixture(t)
	signedIn(t, f, true)

	_, err := f.manager.SignIn(session.Grant{
		UserID:      "2",
		FullName:    "Bình",
		Role:        "ADMIN",
		AccessToken: accessToken(t, "2", "Bình", "ADMIN", fixedNow.Add(time.Hour)),
	})
	require.NoError(t, err)

	id, ok := f.manager.Current()
	require.True(t, ok)
	require.Equal(t, "2", id.UserID)
	require.False(t, f.store.RememberMe())
}

func TestSignInRejectsUnverified(t *testing.T) {
	f := setupTestFixture(t)

	changed := 0
	f.manager.Subscribe(func() { changed++ })

	_, err := f.manager.SignIn(session.Grant{
		UserID:      "1",
		FullName:    "An",
		Role:        "STUDENT",
		AccessToken: accessToken(t, "1", "An", "STUDENT", fixedNow.Add(time.Hour)),
		Verified:    utils.Ptr(false),
		Remember:    true,
	})
	require.ErrorIs(t, err, cxerrors.ErrUserNotVerified)
	require.Zero(t, changed)
	require.Equal(t, 0, f.local.Len())
	require.Equal(t, 0, f.session.Len())
}

func TestSignInWithoutTokenUsesStoredFields(t *testing.T) {
	f := setupTestFixture(t)

	route, err := f.manager.SignIn(session.Grant{
		UserID:   "5",
		FullName: "Cường",
		Role:     "STUDENT",
		Verified: utils.Ptr(true),
	})
	require.NoError(t, err)
	require.Equal(t, session.RouteStudent, route)

	id, ok := f.manager.Current()
	require.True(t, ok)
	require.Equal(t, session.SourceSession, id.Source)
	_, err = f.store.Token()
	require.ErrorIs(t, err, cxerrors.ErrNoToken)
}

func TestSignInNotRememberedDropsCookies(t *testing.T) {
	f := setupTestFixture(t)
	setIdentityCookies(f, "12", "Cường", "ADMIN", "ACTIVE")

	_, err := f.manager.SignIn(session.Grant{
		UserID:      "17",
		FullName:    "An",
		Role:        "STUDENT",
		AccessToken: accessToken(t, "17", "An", "STUDENT", fixedNow.Add(time.Hour)),
	})
	require.NoError(t, err)

	f.store.ClearSession()
	_, ok := f.manager.Current()
	require.False(t, ok, "stale cookies must not resurrect a previous user")
}

func TestCaptureOAuthRedirect(t *testing.T) {
	f := setupTestFixture(t)

	changed := 0
	f.manager.Subscribe(func() { changed++ })

	ok := f.manager.CaptureOAuthRedirect(url.Values{
		"userId":   {"42"},
		"fullName": {"Phạm Thị Dung"},
		"role":     {"STUDENT"},
	})
	require.True(t, ok)
	require.Equal(t, 1, changed)

	id, ok := f.manager.Current()
	require.True(t, ok)
	require.Equal(t, &session.Identity{
		UserID:   "42",
		FullName: "Phạm Thị Dung",
		Role:     "STUDENT",
		Source:   session.SourceLocalStorage,
	}, id)

	v, _ := f.store.Get(token.KeyUserName)
	require.Equal(t, "Phạm Thị Dung", v)
}

func TestCaptureOAuthRedirectIncomplete(t *testing.T) {
	f := setupTestFixture(t)

	ok := f.manager.CaptureOAuthRedirect(url.Values{"userId": {"42"}, "role": {"STUDENT"}})
	require.False(t, ok)
	require.Equal(t, 0, f.local.Len())
}

func TestSubscribeUnsubscribe(t *testing.T) {
	f := setupTestFixture(t)

	changed := 0
	unsubscribe := f.manager.Subscribe(func() { changed++ })
	signedIn(t, f, true)
	unsubscribe()
	signedIn(t, f, true)

	require.Equal(t, 1, changed)
	require.Zero(t, f.manager.Broadcaster().Len())
}
