// Package cookies exposes the backend's identity cookies. The same jar is
// installed on the API client, so cookies set by login responses and OAuth
// redirects are visible here.
package cookies

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Identity cookies written by the backend's cookie-session login.
const (
	UserID     = "userId"
	FullName   = "fullName"
	Role       = "role"
	Status     = "status"
	IsVerified = "isVerified"
)

// IdentityCookies are removed on logout and on a non-remembered login.
var IdentityCookies = []string{UserID, FullName, Role, Status, IsVerified}

// Jar is a cookie jar scoped to the backend origin.
type Jar struct {
	jar    http.CookieJar
	origin *url.URL
}

func New(apiBaseURL string) (*Jar, error) {
	origin, err := url.Parse(apiBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", apiBaseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Jar{
		jar:    jar,
		origin: &url.URL{Scheme: origin.Scheme, Host: origin.Host, Path: "/"},
	}, nil
}

// HTTPJar is the jar to install on an http.Client.
func (j *Jar) HTTPJar() http.CookieJar {
	return j.jar
}

// Get returns the decoded value of a non-empty cookie.
func (j *Jar) Get(name string) (string, bool) {
	for _, c := range j.jar.Cookies(j.origin) {
		if c.Name == name && c.Value != "" {
			return decodeValue(c.Value), true
		}
	}
	return "", false
}

// Set stores a cookie the way the backend does: form-encoded, path "/".
func (j *Jar) Set(name, value string, maxAge int) {
	j.jar.SetCookies(j.origin, []*http.Cookie{{
		Name:   name,
		Value:  url.QueryEscape(value),
		Path:   "/",
		MaxAge: maxAge,
	}})
}

// Remove expires the cookie.
func (j *Jar) Remove(name string) {
	j.jar.SetCookies(j.origin, []*http.Cookie{{
		Name:   name,
		Path:   "/",
		MaxAge: -1,
	}})
}

func (j *Jar) RemoveAll(names ...string) {
	for _, n := range names {
		j.Remove(n)
	}
}

// decodeValue undoes form encoding: '+' is a space, then percent-escapes.
// Values that do not unescape are returned as stored.
func decodeValue(v string) string {
	v = strings.ReplaceAll(v, "+", " ")
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
