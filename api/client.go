// Package api is the HTTP client for the ConnectEXE backend. Every request
// carries the stored bearer token and the shared cookie jar. A 401 drops the
// stored tokens and sends the user to the session-changed route.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/connectexe/connectexe-client/cookies"
	cxerrors "github.com/connectexe/connectexe-client/internal/errors"
	"github.com/connectexe/connectexe-client/session"
	"github.com/connectexe/connectexe-client/token"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4 << 10
)

// Client talks to the backend on behalf of the signed-in user.
type Client struct {
	baseURL   string
	env       string
	store     *token.Store
	navigator session.Navigator
	http      *http.Client
	validate  *validator.Validate

	onUnauthorized func()
}

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithJar shares the identity cookie jar with the client.
func WithJar(jar *cookies.Jar) Option {
	return func(c *Client) {
		if jar != nil {
			c.http.Jar = jar.HTTPJar()
		}
	}
}

func WithNavigator(navigator session.Navigator) Option {
	return func(c *Client) {
		if navigator != nil {
			c.navigator = navigator
		}
	}
}

// WithUnauthorizedHook runs fn after a rejected session has been purged, so
// listeners can learn about the change.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// WithEnv turns on per-request route logging for DEV.
func WithEnv(env string) Option {
	return func(c *Client) {
		c.env = strings.ToUpper(env)
	}
}

// WithTransport replaces the base transport under the client's middleware.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

func New(baseURL string, store *token.Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, cxerrors.Wrapf(err, "api.New parse %q", baseURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api.New: base url %q must be absolute: %w", baseURL, cxerrors.ErrInvalidRequest)
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		store:     store,
		navigator: discardNavigator{},
		http:      &http.Client{Timeout: defaultTimeout},
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = ChainTransport(base,
		c.LoggingTransport,
		RequestIDTransport,
		c.AuthTransport,
	)
	return c, nil
}

// call describes one backend request.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any

	// anonymous calls treat 401 as bad credentials rather than a lost session.
	anonymous bool

	// errOut, when set, also receives the body of a 400 reply.
	errOut any
}

func (c *Client) do(ctx context.Context, cl call) error {
	var body io.Reader
	if cl.body != nil {
		if err := c.validate.Struct(cl.body); err != nil {
			return fmt.Errorf("%s %s: %w: %s", cl.method, cl.path, cxerrors.ErrInvalidRequest, err)
		}
		b, err := json.Marshal(cl.body)
		if err != nil {
			return cxerrors.Wrapf(err, "marshal %s body", cl.path)
		}
		body = bytes.NewReader(b)
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return cxerrors.Wrapf(err, "http.NewRequest %s", cl.path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return cxerrors.Wrapf(err, "%s %s", cl.method, cl.path)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, cl); err != nil {
		return err
	}

	if cl.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return fmt.Errorf("decode %s %s: %w: %s", cl.method, cl.path, cxerrors.ErrUnexpectedReply, err)
	}
	return nil
}

func (c *Client) checkStatus(resp *http.Response, cl call) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := errorMessage(body)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if cl.anonymous {
			return cxerrors.ErrInvalidCredentials
		}
		log.Warn().Str("path", cl.path).Msg("Session rejected by backend")
		c.store.RemoveTokens()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		c.navigator.Navigate(session.RouteSessionChanged)
		return cxerrors.ErrUnauthorized
	case http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", cl.method, cl.path, cxerrors.ErrForbidden)
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", cl.method, cl.path, cxerrors.ErrNotFound)
	case http.StatusBadRequest:
		if cl.errOut != nil {
			_ = json.Unmarshal(body, cl.errOut)
		}
		return fmt.Errorf("%s %s: %w: %s", cl.method, cl.path, cxerrors.ErrInvalidRequest, msg)
	default:
		return fmt.Errorf("%s %s: status %d: %w: %s", cl.method, cl.path, resp.StatusCode, cxerrors.ErrUnexpectedReply, msg)
	}
}

// errorMessage pulls "message" out of an error envelope, or returns the
// start of the raw body.
func errorMessage(b []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &envelope) == nil && envelope.Message != "" {
		return envelope.Message
	}
	return strings.TrimSpace(string(b))
}

type discardNavigator struct{}

func (discardNavigator) Navigate(string) {}
func (discardNavigator) Reload()         {}
