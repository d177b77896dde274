package api

import (
	"fmt"
	"net/http"

	"github.com/connectexe/connectexe-client/token"
	"github.com/connectexe/connectexe-client/token/jwt"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	requestIDHeader = "X-Request-Id"

	// userIDHeader is still read by forum endpoints on older backends.
	userIDHeader = "userId"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// ChainTransport wraps base so that mw[0] sees the request first.
func ChainTransport(base http.RoundTripper, mw ...func(http.RoundTripper) http.RoundTripper) http.RoundTripper {
	chained := base
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chained = mw[i](chained)
	}
	return chained
}

// AuthTransport sets the bearer header from the token store. Without a token
// it falls back to the stored userId so older forum endpoints still know who
// is asking.
func (c *Client) AuthTransport(next http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		req = req.Clone(req.Context())

		tok, err := c.store.Token()
		if err == nil {
			tok.SetAuthHeader(req)
			if claims, ok := jwt.Decode(tok.AccessToken); ok && claims.UserID != "" {
				req.Header.Set(userIDHeader, claims.UserID)
			}
		} else if userID, ok := c.store.Get(token.KeyUserID); ok {
			req.Header.Set(userIDHeader, userID)
		}
		return next.RoundTrip(req)
	})
}

func RequestIDTransport(next http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get(requestIDHeader) == "" {
			req = req.Clone(req.Context())
			req.Header.Set(requestIDHeader, uuid.NewString())
		}
		return next.RoundTrip(req)
	})
}

func (c *Client) LoggingTransport(next http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := next.RoundTrip(req)
		if err != nil {
			log.Err(err).Str("method", req.Method).Str("path", req.URL.Path).Msg("Request failed")
			return nil, err
		}
		if c.env == "DEV" {
			logRoute(req.Method, req.URL.Path, resp.StatusCode)
		}
		return resp, nil
	})
}

var (
	methodColors = map[string]*color.Color{
		http.MethodGet:    color.New(color.FgGreen),
		http.MethodPost:   color.New(color.FgBlue),
		http.MethodPut:    color.New(color.FgCyan),
		http.MethodDelete: color.New(color.FgYellow),
		http.MethodPatch:  color.New(color.FgMagenta),
	}
	otherMethodColor = color.New(color.FgHiBlack)

	statusOK          = color.New(color.FgGreen)
	statusClientError = color.New(color.FgYellow)
	statusServerError = color.New(color.FgRed)
)

func logRoute(method, path string, status int) {
	log.Debug().Msg(routeLine(method, path, status))
}

// routeLine renders "[ GET    ] /path 200" with the method and status coloured.
func routeLine(method, path string, status int) string {
	c, ok := methodColors[method]
	if !ok {
		c = otherMethodColor
	}
	return fmt.Sprintf("[%s] %s %s", c.Sprintf(" %-7s", method), path, statusColor(status))
}

func statusColor(status int) string {
	c := statusOK
	switch {
	case status >= 500:
		c = statusServerError
	case status >= 400:
		c = statusClientError
	}
	return c.Sprint(status)
}
