package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"so4tdelete/internal/deletion/util"
)

// Store persists one session between runs.
type Store interface {
	Load() (*Session, error)
	Save(sess *Session) error
}

// Validator probes the site to tell whether a session is still logged in.
type Validator func(ctx context.Context, sess *Session) (bool, error)

// CachingProvider reuses the stored session when it belongs to the same site
// and still validates; otherwise it logs in through Login and stores the result.
type CachingProvider struct {
	Store    Store
	Login    Provider
	Validate Validator
	Logger   *slog.Logger
}

func NewCachingProvider(store Store, login Provider, validate Validator) *CachingProvider {
	return &CachingProvider{
		Store:    store,
		Login:    login,
		Validate: validate,
		Logger:   util.GetLogger(),
	}
}

func (p *CachingProvider) Provide(ctx context.Context, baseURL string) (*Session, error) {
	cached, err := p.Store.Load()
	switch {
	case err == nil && cached.BaseURL == baseURL:
		ok, verr := p.validate(ctx, cached)
		if verr == nil && ok {
			p.Logger.Info("Successfully authenticated Stack Overflow for Teams", "base_url", baseURL, "cached", true)
			return cached, nil
		}
		p.Logger.Info("Cached session is no longer valid", "base_url", baseURL, "error", verr)
	case err == nil:
		p.Logger.Info("Cached session belongs to another site", "cached_url", cached.BaseURL, "base_url", baseURL)
	case !errors.Is(err, ErrNoSession):
		p.Logger.Warn("Ignoring unreadable session cache", "error", err)
	}

	fresh, err := p.Login.Provide(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	ok, err := p.validate(ctx, fresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: error authenticating Stack Overflow for Teams", ErrAuthentication)
	}
	p.Logger.Info("Successfully authenticated Stack Overflow for Teams", "base_url", baseURL, "cached", false)

	if err := p.Store.Save(fresh); err != nil {
		p.Logger.Warn("Failed to cache session", "error", err)
	}
	return fresh, nil
}

func (p *CachingProvider) validate(ctx context.Context, sess *Session) (bool, error) {
	if p.Validate == nil {
		return true, nil
	}
	return p.Validate(ctx, sess)
}
