// Package sessions stores authenticated sessions in HTTP-only cookies.
//
// Two actor kinds exist and their sessions are independent: an organization
// (admin) session and an employee session can coexist in the same browser
// under different cookie namespaces, and clearing one never touches the
// other.
package sessions

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/staffdesk/staffdesk/hrapi"
	errs "github.com/staffdesk/staffdesk/internal/errors"
)

// Kind is the actor kind a session belongs to.
type Kind string

const (
	KindOrganization Kind = "organization"
	KindEmployee     Kind = "employee"
)

// Cookie names per kind. The organization namespace predates the employee
// one, which is why it has the unprefixed names.
func (k Kind) TokenCookie() string {
	if k == KindEmployee {
		return "employee_token"
	}
	return "token"
}

func (k Kind) UserCookie() string {
	if k == KindEmployee {
		return "employee_user"
	}
	return "user"
}

// Session is one authenticated actor: the bearer token accepted by the HR
// backend plus a snapshot of the identity it was issued to. The snapshot is
// a display convenience only; the backend re-validates the token on every
// call and a 401 always wins over the cached identity.
type Session struct {
	Kind  Kind       `json:"kind"`
	Token string     `json:"-"`
	User  hrapi.User `json:"user"`
}

// Manager reads and writes session cookies. TTL is the fixed session
// lifetime; when the bearer token is a JWT with an earlier expiry, the
// cookie lifetime is shortened to match so the cookie never outlives the
// token.
type Manager struct {
	ttl     time.Duration
	nowTime func() time.Time
}

// ManagerOption modifies a Manager during construction.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

func NewManager(ttl time.Duration, options ...ManagerOption) *Manager {
	m := &Manager{
		ttl:     ttl,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Issue writes the cookie pair for kind: the bearer token and the encoded
// identity snapshot. A JWT whose expiry is already past is refused with
// ErrSessionExpired and no cookies are written.
func (m *Manager) Issue(w http.ResponseWriter, r *http.Request, kind Kind, token string, user hrapi.User) error {
	snapshot, err := json.Marshal(user)
	if err != nil {
		return errs.Wrapf(err, "sessions: encode identity snapshot")
	}

	life := m.lifetime(token)
	if life <= 0 {
		return errs.ErrSessionExpired
	}
	maxAge := int(life.Seconds())
	secure := isSecure(r)

	http.SetCookie(w, &http.Cookie{
		Name:     kind.TokenCookie(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     kind.UserCookie(),
		Value:    base64.RawURLEncoding.EncodeToString(snapshot),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
	return nil
}

// Get returns the session of the given kind, or ErrSessionNotFound when
// either cookie of the pair is missing or unreadable.
func (m *Manager) Get(r *http.Request, kind Kind) (*Session, error) {
	tokenCookie, err := r.Cookie(kind.TokenCookie())
	if err != nil || tokenCookie.Value == "" {
		return nil, errs.ErrSessionNotFound
	}
	userCookie, err := r.Cookie(kind.UserCookie())
	if err != nil || userCookie.Value == "" {
		return nil, errs.ErrSessionNotFound
	}

	snapshot, err := base64.RawURLEncoding.DecodeString(userCookie.Value)
	if err != nil {
		return nil, errs.ErrSessionNotFound
	}
	var user hrapi.User
	if err := json.Unmarshal(snapshot, &user); err != nil {
		return nil, errs.ErrSessionNotFound
	}
	if user.ID == "" {
		return nil, errs.ErrSessionNotFound
	}

	return &Session{
		Kind:  kind,
		Token: tokenCookie.Value,
		User:  user,
	}, nil
}

// Clear expires exactly the cookie pair belonging to kind. An organization
// logout must not affect an active employee session, and vice versa.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request, kind Kind) {
	secure := isSecure(r)
	for _, name := range []string{kind.TokenCookie(), kind.UserCookie()} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

// lifetime returns the configured TTL, shortened to the token's own expiry
// when the token is a JWT that expires sooner. The token is inspected
// unverified: signature validation is the backend's job, this only prevents
// a cookie from outliving a token that is already known to be shorter-lived.
// A token whose expiry is already past yields zero so no cookie is issued
// for it.
func (m *Manager) lifetime(token string) time.Duration {
	exp, ok := tokenExpiry(token)
	if !ok {
		return m.ttl
	}
	remaining := exp.Sub(m.nowTime())
	if remaining <= 0 {
		return 0
	}
	if remaining < m.ttl {
		return remaining
	}
	return m.ttl
}

func isSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
