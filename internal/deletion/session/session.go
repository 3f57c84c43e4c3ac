// Package session produces authenticated HTTP sessions for a Teams site,
// either from an interactive browser login or from a cached earlier login.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
)

var (
	ErrAuthentication = errors.New("authentication failed")
	ErrNoSession      = errors.New("no cached session")
)

// Cookie is the persisted form of one authentication cookie.
type Cookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain,omitempty"`
	Path     string    `json:"path,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"http_only,omitempty"`
}

// Session is an authenticated login on one site.
type Session struct {
	BaseURL   string    `json:"base_url"`
	Cookies   []Cookie  `json:"cookies"`
	CreatedAt time.Time `json:"created_at"`
}

// Provider produces a session for baseURL, reusing one when it can.
type Provider interface {
	Provide(ctx context.Context, baseURL string) (*Session, error)
}

// HTTPClient returns a client whose jar sends the session cookies to the
// session host. Cookies are scoped to the host like the browser handed
// them over, whatever domain attribute they carried.
func (s *Session) HTTPClient() (*http.Client, error) {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	cookies := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		if c.Name == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	jar.SetCookies(u, cookies)
	return &http.Client{Jar: jar}, nil
}
