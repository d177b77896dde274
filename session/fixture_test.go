package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/connectexe/connectexe-client/cookies"
	"github.com/connectexe/connectexe-client/session"
	"github.com/connectexe/connectexe-client/storage"
	"github.com/connectexe/connectexe-client/token"
	"github.com/connectexe/connectexe-client/token/jwt"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testFixture struct {
	local     *storage.MemoryTier
	session   *storage.MemoryTier
	store     *token.Store
	jar       *cookies.Jar
	remote    *fakeRemote
	navigator *recordingNavigator
	manager   *session.Manager
}

func setupTestFixture(t *testing.T, opts ...session.ManagerOption) *testFixture {
	t.Helper()

	prev := jwt.NowTimeFunc
	jwt.NowTimeFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() { jwt.NowTimeFunc = prev })

	jar, err := cookies.New("http://localhost:8080")
	require.NoError(t, err)

	f := &testFixture{
		local:     storage.NewMemoryTier(),
		session:   storage.NewMemoryTier(),
		jar:       jar,
		remote:    &fakeRemote{},
		navigator: &recordingNavigator{},
	}
	f.store = token.NewStore(f.local, f.session)

	opts = append([]session.ManagerOption{
		session.WithRemote(f.remote),
		session.WithNavigator(f.navigator),
		session.WithReload(true, 0),
	}, opts...)
	f.manager = session.NewManager(f.store, f.jar, opts...)
	return f
}

func accessToken(t *testing.T, userID, fullName, role string, exp time.Time) string {
	t.Helper()
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"userId":   userID,
		"email":    userID + "@connectexe.vn",
		"role":     role,
		"fullName": fullName,
		"iat":      fixedNow.Add(-time.Minute).Unix(),
		"exp":      exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

type fakeRemote struct {
	calls int
	err   error
}

func (r *fakeRemote) Logout(context.Context) error {
	r.calls++
	return r.err
}

var errUnreachable = errors.New("dial tcp: connection refused")

type recordingNavigator struct {
	mu      sync.Mutex
	routes  []string
	reloads int
	events  []string
}

func (n *recordingNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
	n.events = append(n.events, "navigate:"+route)
}

func (n *recordingNavigator) Reload() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reloads++
	n.events = append(n.events, "reload")
}

func (n *recordingNavigator) reloadCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reloads
}
