package server

import (
	"context"
	"net/http"

	"github.com/staffdesk/staffdesk/hrapi"
	errs "github.com/staffdesk/staffdesk/internal/errors"
	"github.com/staffdesk/staffdesk/sessions"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the authenticated session
	ContextKeySession ContextKey = "session"
	// ContextKeyRequestID stores the request correlation id
	ContextKeyRequestID ContextKey = "request_id"
)

// RequireSession gates a route on a valid session of the given kind. A
// missing, garbled, or expired session cookie never renders the page: the
// request is redirected to the login screen instead.
func (s *Server) RequireSession(kind sessions.Kind) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			session, err := s.sessions.Get(r, kind)
			if err != nil {
				redirectWithError(w, r, RouteLogin, "Please log in to continue")
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next(w, r.WithContext(ctx))
		}
	}
}

// sessionFrom retrieves the session injected by RequireSession.
func sessionFrom(r *http.Request) *sessions.Session {
	session, _ := r.Context().Value(ContextKeySession).(*sessions.Session)
	return session
}

// expireSession discards a session the backend no longer honours. Only the
// cookies of the failing session's kind are cleared; a coexisting session of
// the other kind stays logged in.
func (s *Server) expireSession(w http.ResponseWriter, r *http.Request, session *sessions.Session) {
	s.sessions.Clear(w, r, session.Kind)
	redirectWithError(w, r, RouteLogin, "Your session has expired. Please log in again.")
}

// failRedirect turns a service error into a redirect. A backend 401 means
// the token behind the session is dead, so the session is invalidated;
// everything else redirects back to backPath with a user-facing message.
func (s *Server) failRedirect(w http.ResponseWriter, r *http.Request, session *sessions.Session, backPath string, err error) {
	if errs.Is(err, errs.ErrUnauthorized) && session != nil {
		s.expireSession(w, r, session)
		return
	}
	redirectWithError(w, r, backPath, userMessage(err))
}

// userMessage maps an error to the text shown to the user. Raw wrapped
// error chains never reach the page.
func userMessage(err error) string {
	var apiErr *hrapi.APIError
	if errs.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	switch {
	case errs.Is(err, errs.ErrValidation):
		return trimSentinel(err, errs.ErrValidation)
	case errs.Is(err, errs.ErrInvalidState):
		return "This leave request has already been decided."
	case errs.Is(err, errs.ErrNotFound):
		return "The requested record could not be found."
	case errs.Is(err, errs.ErrUnavailable):
		return "The service is temporarily unavailable. Please try again."
	default:
		return "An unexpected error occurred. Please try again."
	}
}

// trimSentinel strips the sentinel prefix from errors built as
// fmt.Errorf("%w: detail", sentinel), leaving only the detail.
func trimSentinel(err error, sentinel error) string {
	full := err.Error()
	prefix := sentinel.Error() + ": "
	if len(full) > len(prefix) && full[:len(prefix)] == prefix {
		return full[len(prefix):]
	}
	return full
}
