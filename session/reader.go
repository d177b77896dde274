package session

import (
	"github.com/connectexe/connectexe-client/token"
	"github.com/rs/zerolog/log"
)

// Reader answers "who is signed in" from the sources the platform has used
// over time, in fixed priority: the access token, the persistent tier fields,
// the session tier fields, then the backend cookies. The first complete source
// wins.
type Reader struct {
	store       *token.Store
	broadcaster *Broadcaster
	sources     []IdentitySource
}

type ReaderOption func(*Reader)

// WithoutLegacySources makes the access token the only identity source.
func WithoutLegacySources() ReaderOption {
	return func(r *Reader) {
		r.sources = r.sources[:1]
	}
}

func NewReader(store *token.Store, jar CookieJar, broadcaster *Broadcaster, opts ...ReaderOption) *Reader {
	r := &Reader{
		store:       store,
		broadcaster: broadcaster,
	}
	r.sources = []IdentitySource{
		tokenSource{store: store, onExpired: r.expire},
		tierSource{tier: store.Local(), name: SourceLocalStorage},
		tierSource{tier: store.Session(), name: SourceSession},
	}
	if jar != nil {
		r.sources = append(r.sources, cookieSource{jar: jar})
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CurrentUser returns the signed-in identity, or false when anonymous.
func (r *Reader) CurrentUser() (*Identity, bool) {
	for _, src := range r.sources {
		if id, ok := src.Lookup(); ok {
			return id, true
		}
	}
	return nil, false
}

// IsAuthenticated reports whether any source yields an identity.
func (r *Reader) IsAuthenticated() bool {
	_, ok := r.CurrentUser()
	return ok
}

// expire moves an expired session to anonymous: tokens and stored identity
// fields go from both tiers and observers are told.
func (r *Reader) expire() {
	log.Info().Msg("Access token expired, clearing stored session")
	r.store.RemoveAll(token.TokenKeys...)
	r.store.RemoveAll(token.IdentityKeys...)
	if r.broadcaster != nil {
		r.broadcaster.NotifyChanged()
	}
}
