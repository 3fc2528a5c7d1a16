package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/statuspanel/pkg"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultCookieName = "statuspanel_session"
	DefaultTTL        = 24 * time.Hour

	tokenLength = 35
)

type AuthorityParams struct {
	Store        Store
	Secret       string
	TTL          time.Duration
	SecureCookie bool
}

// Authority issues, resolves and destroys browser sessions.
type Authority struct {
	store        Store
	codec        tokenCodec
	cookieName   string
	ttl          time.Duration
	secureCookie bool
	// ability to inject random string generator func for tokens (for unit testing)
	RandStringFunc func(s int) (string, error)
	NowFunc        func() time.Time
}

func NewAuthority(params AuthorityParams) *Authority {
	ttl := params.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Authority{
		store:          params.Store,
		codec:          tokenCodec{secret: []byte(params.Secret)},
		cookieName:     DefaultCookieName,
		ttl:            ttl,
		secureCookie:   params.SecureCookie,
		RandStringFunc: pkg.GenerateRandomString,
		NowFunc:        time.Now,
	}
}

func (a *Authority) CookieName() string {
	return a.cookieName
}

// Create stores sess under a fresh token and sets the session cookie on w.
func (a *Authority) Create(ctx context.Context, w http.ResponseWriter, sess *Session) (string, error) {
	token, err := a.RandStringFunc(tokenLength)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	if err := a.store.Save(ctx, token, sess, a.ttl); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	now := a.NowFunc()
	cookieValue, err := a.codec.sign(token, now, a.ttl)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    cookieValue,
		Path:     "/",
		Expires:  now.Add(a.ttl),
		MaxAge:   int(a.ttl / time.Second),
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	return token, nil
}

// Resolve returns the session of the request, or nil when there is none (no cookie,
// tampered or expired cookie, unknown token). An error means the table itself failed.
func (a *Authority) Resolve(r *http.Request) (*Session, error) {
	token, ok := a.tokenFromRequest(r)
	if !ok {
		return nil, nil
	}

	sess, err := a.store.Get(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Destroy removes the session of the request (if any) and expires the cookie.
func (a *Authority) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	token, ok := a.tokenFromRequest(r)
	if !ok {
		return nil
	}
	if err := a.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (a *Authority) tokenFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(a.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	token, err := a.codec.parse(cookie.Value)
	if err != nil {
		log.Tracef("session cookie rejected: %s", err)
		return "", false
	}
	return token, true
}
