package session

import (
	"context"
	"time"

	"github.com/connectexe/connectexe-client/cookies"
	"github.com/connectexe/connectexe-client/token"
	"github.com/rs/zerolog/log"
)

// Remote is the backend half of a logout.
type Remote interface {
	Logout(ctx context.Context) error
}

// Coordinator signs the client out. The local half always completes, whatever
// the backend says.
type Coordinator struct {
	remote      Remote
	store       *token.Store
	jar         CookieJar
	broadcaster *Broadcaster
	navigator   Navigator
	forceReload bool
	reloadDelay time.Duration
}

func NewCoordinator(store *token.Store, jar CookieJar, broadcaster *Broadcaster, remote Remote, navigator Navigator, forceReload bool, reloadDelay time.Duration) *Coordinator {
	if navigator == nil {
		navigator = nopNavigator{}
	}
	return &Coordinator{
		remote:      remote,
		store:       store,
		jar:         jar,
		broadcaster: broadcaster,
		navigator:   navigator,
		forceReload: forceReload,
		reloadDelay: reloadDelay,
	}
}

// Logout runs the sign-out sequence: backend call, storage purge, cookie purge,
// broadcast, navigation to the login route and finally a reload. A zero reload
// delay reloads before returning.
func (c *Coordinator) Logout(ctx context.Context) {
	if c.remote != nil {
		if err := c.remote.Logout(ctx); err != nil {
			log.Err(err).Msg("Logout failed")
		}
	}

	c.store.RemoveAll(token.TokenKeys...)
	c.store.RemoveAll(token.IdentityKeys...)

	if c.jar != nil {
		c.jar.RemoveAll(cookies.IdentityCookies...)
	}

	c.broadcaster.NotifyChanged()
	c.navigator.Navigate(RouteLogin)

	if !c.forceReload {
		return
	}
	if c.reloadDelay <= 0 {
		c.navigator.Reload()
		return
	}
	time.AfterFunc(c.reloadDelay, c.navigator.Reload)
}
