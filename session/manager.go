package session

import (
	"context"
	"time"

	"github.com/connectexe/connectexe-client/token"
)

// Manager is the one session-state service the rest of the client talks to.
// It reads the identity, stores logins, signs out and lets observers subscribe
// to changes.
type Manager struct {
	store       *token.Store
	jar         CookieJar
	broadcaster *Broadcaster
	reader      *Reader
	coordinator *Coordinator
}

type managerSettings struct {
	remote        Remote
	navigator     Navigator
	forceReload   bool
	reloadDelay   time.Duration
	legacySources bool
}

type ManagerOption func(*managerSettings)

func WithRemote(remote Remote) ManagerOption {
	return func(s *managerSettings) {
		s.remote = remote
	}
}

func WithNavigator(navigator Navigator) ManagerOption {
	return func(s *managerSettings) {
		s.navigator = navigator
	}
}

// WithReload controls the reload at the end of a logout.
func WithReload(force bool, delay time.Duration) ManagerOption {
	return func(s *managerSettings) {
		s.forceReload = force
		s.reloadDelay = delay
	}
}

// WithLegacySources toggles the storage-field and cookie identity sources.
func WithLegacySources(enabled bool) ManagerOption {
	return func(s *managerSettings) {
		s.legacySources = enabled
	}
}

func NewManager(store *token.Store, jar CookieJar, opts ...ManagerOption) *Manager {
	settings := managerSettings{
		forceReload:   true,
		legacySources: true,
	}
	for _, opt := range opts {
		opt(&settings)
	}

	b := NewBroadcaster()

	var readerOpts []ReaderOption
	if !settings.legacySources {
		readerOpts = append(readerOpts, WithoutLegacySources())
	}

	return &Manager{
		store:       store,
		jar:         jar,
		broadcaster: b,
		reader:      NewReader(store, jar, b, readerOpts...),
		coordinator: NewCoordinator(store, jar, b, settings.remote, settings.navigator, settings.forceReload, settings.reloadDelay),
	}
}

// Current is the signed-in identity, or false when anonymous.
func (m *Manager) Current() (*Identity, bool) {
	return m.reader.CurrentUser()
}

// Subscribe registers fn for auth:changed and returns the unsubscribe function.
func (m *Manager) Subscribe(fn func()) func() {
	return m.broadcaster.OnChanged(fn)
}

// SignOut runs the logout sequence.
func (m *Manager) SignOut(ctx context.Context) {
	m.coordinator.Logout(ctx)
}

// AuthHeader is the bearer header for the stored access token, or "".
func (m *Manager) AuthHeader() string {
	return m.store.AuthHeader()
}

func (m *Manager) Store() *token.Store {
	return m.store
}

func (m *Manager) Broadcaster() *Broadcaster {
	return m.broadcaster
}

func (m *Manager) Reader() *Reader {
	return m.reader
}
