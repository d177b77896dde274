package session_test

import (
	"testing"
	"time"

	"github.com/connectexe/connectexe-client/cookies"
	"github.com/connectexe/connectexe-client/session"
	"github.com/connectexe/connectexe-client/token"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestAnonymousWhenNothingStored(t *testing.T) {
	f := setupTestFixture(t)

	id, ok := f.manager.Current()
	require.False(t, ok)
	require.Nil(t, id)
}

func TestTokenSourceWins(t *testing.T) {
	f := setupTestFixture(t)

	f.store.Save(token.KeyAccessToken, accessToken(t, "17", "Nguyễn Văn An", "STUDENT", fixedNow.Add(time.Hour)), false)
	f.store.Save(token.KeyUserID, "99", true)
	f.store.Save(token.KeyUserName, "Someone Else", true)
	f.store.Save(token.KeyUserRole, "ADMIN", true)

	id, ok := f.manager.Current()
	require.True(t, ok)
	require.Equal(t, &session.Identity{
		UserID:   "17",
		FullName: "Nguyễn Văn An",
		Role:     "STUDENT",
		Source:   session.SourceToken,
	}, id)
}

func TestExpiredTokenIsAbsent(t *testing.T) {
	f := setupTestFixture(t)

	changed := 0
	f.manager.Subscribe(func() { changed++ })

	f.store.Save(token.KeyAccessToken, accessToken(t, "17", "An", "STUDENT", fixedNow.Add(-time.Minute)), true)
	f.store.Save(token.KeyRefreshToken, "rt", true)
	f.store.Save(token.KeyUserID, "17", true)
	f.store.Save(token.KeyUserName, "An", true)
	f.store.Save(token.KeyUserRole, "STUDENT", true)

	_, ok := f.manager.Current()
	require.False(t, ok, "expired token and the identity stored with it read as anonymous")
	require.Equal(t, 1, changed)
	require.Equal(t, token.TokenPair{}, f.store.Tokens())
	require.Equal(t, 0, f.local.Len())
}

func TestTokenWithoutExpKeepsIdentity(t *testing.T) {
	f := setupTestFixture(t)

	changed := 0
	f.manager.Subscribe(func() { changed++ })

	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"userId":   "17",
		"role":     "STUDENT",
		"fullName": "An",
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	f.store.Save(token.KeyAccessToken, raw, true)
	f.store.Save(token.KeyUserID, "17", true)
	f.store.Save(token.KeyUserName, "An", true)
	f.store.Save(token.KeyUserRole, "STUDENT", true)

	id, ok := f.manager.Current()
	require.True(t, ok)
	require.Equal(t, session.SourceToken, id.Source)
	require.Equal(t, "17", id.UserID)
	require.Zero(t, changed)
	require.Equal(t, 4, f.local.Len())
	require.Equal(t, raw, f.store.Tokens().AccessToken)
}

func TestExpiredTokenFallsThroughToCookies(t *testing.T) {
	f := setupTestFixture(t)

	f.store.Save(token.KeyAccessToken, accessToken(t, "17", "An", "STUDENT", fixedNow.Add(-time.Minute)), true)
	setIdentityCookies(f, "17", "An", "STUDENT", "ACTIVE")

	id, ok := f.manager.Current()
	require.True(t, ok)
	require.Equal(t, session.SourceCookie, id.Source)
}

func TestMalformedTokenFallsThrough(t *testing.T) {
	f := setupTestFixture(t)

	f.store.Save(token.KeyAccessToken, "not-a-jwt", true)
	f.store.Save(token.KeyUserID, "5", false)
	f.store.Save(token.KeyUserName, "Bình", false)
	f.store.Save(token.KeyUserRole, "TEACHER", false)

	id, ok := f.manager.Current()
	require.True(t, ok)
	require.Equal(t, session.SourceSession, id.Source)
	require.Equal(t, "Bình", id.FullName)
}

func TestTokenMissingNameIsPartial(t *testing.T) {
	f := setupTestFixture(t)

	f.store.Save(token.KeyAccessToken, accessToken(t, "17", "", "STUDENT", fixedNow.Add(time.Hour)), true)

	_, ok := f.manager.Current()
	require.False(t, ok)
}

func TestLocalFieldsBeforeSessionFields(t *testing.T) {
	f := setupTestFixture(t)

	f.store.Save(token.KeyUserID, "1", true)
	f.store.Save(token.KeyUserName, "Local User", true)
	f.store.Save(token.KeyUserRole, "ADMIN", true)
	f.store.Save(token.KeyUserID, "2", false)
	f.store.Save(token.KeyUserName, "Session User", false)
	f.store.Save(token.KeyUserRole, "STUDENT", false)

	id, ok := f.manager.Current()
	require.True(t, ok)
	require.Equal(t, session.SourceLocalStorage, id.Source)
	require.Equal(t, "Local User", id.FullName)
	require.True(t, id.IsAdmin())
}

func TestPartialLocalFieldsAreSkipped(t *testing.T) {
	f := setupTestFixture(t)

	f.store.Save(token.KeyUserID, "1", true)
	f.store.Save(token.KeyUserRole, "ADMIN", true)
	f.store.Save(token.KeyUserID, "2", false)
	f.store.Save(token.KeyUserName, "Session User", false)
	f.store.Save(token.KeyUserRole, "STUDENT", false)

	id, ok := f.manager.Current()
	require.True(t, ok)
	require.Equal(t, session.SourceSession, id.Source)
	require.Equal(t, "2", id.UserID)
}

func TestOlderFieldSpellings(t *testing.T) {
	f := setupTestFixture(t)

	f.store.Save(token.KeyUserID, "3", true)
	f.store.Save(token.KeyFullName, "Cường", true)
	f.store.Save(token.KeyRole, "TEACHER", true)
	f.store.Save(token.KeyStatus, "ACTIVE", true)

	id, ok := f.manager.Current()
	require.True(t, ok)
	require.Equal(t, &session.Identity{
		UserID:   "3",
		FullName: "Cường",
		Role:     "TEACHER",
		Status:   "ACTIVE",
		Source:   session.SourceLocalStorage,
	}, id)
}

func TestCookieFallThrough(t *testing.T) {
	f := setupTestFixture(t)
	setIdentityCookies(f, "12", "Lê Văn Cường", "ADMIN", "true")

	id, ok := f.manager.Current()
	require.True(t, ok)
	require.Equal(t, &session.Identity{
		UserID:   "12",
		FullName: "Lê Văn Cường",
		Role:     "ADMIN",
		Status:   "true",
		Source:   session.SourceCookie,
	}, id)
}

func TestCookiesWithoutStatusArePartial(t *testing.T) {
	f := setupTestFixture(t)
	f.jar.Set(cookies.UserID, "12", 3600)
	f.jar.Set(cookies.FullName, "Cường", 3600)
	f.jar.Set(cookies.Role, "ADMIN", 3600)

	_, ok := f.manager.Current()
	require.False(t, ok)
}

func TestLegacySourcesDisabled(t *testing.T) {
	f := setupTestFixture(t, session.WithLegacySources(false))

	f.store.Save(token.KeyUserID, "1", true)
	f.store.Save(token.KeyUserName, "Local User", true)
	f.store.Save(token.KeyUserRole, "ADMIN", true)
	setIdentityCookies(f, "12", "Cường", "ADMIN", "ACTIVE")

	_, ok := f.manager.Current()
	require.False(t, ok)

	f.store.Save(token.KeyAccessToken, accessToken(t, "17", "An", "STUDENT", fixedNow.Add(time.Hour)), true)
	id, ok := f.manager.Current()
	require.True(t, ok)
	require.Equal(t, session.SourceToken, id.Source)
}

func TestReaderWithoutJar(t *testing.T) {
	f := setupTestFixture(t)
	r := session.NewReader(f.store, nil, session.NewBroadcaster())

	require.False(t, r.IsAuthenticated())
	f.store.Save(token.KeyAccessToken, accessToken(t, "17", "An", "STUDENT", fixedNow.Add(time.Hour)), false)
	require.True(t, r.IsAuthenticated())
}

func setIdentityCookies(f *testFixture, userID, fullName, role, status string) {
	f.jar.Set(cookies.UserID, userID, 3600)
	f.jar.Set(cookies.FullName, fullName, 3600)
	f.jar.Set(cookies.Role, role, 3600)
	f.jar.Set(cookies.Status, status, 3600)
}
