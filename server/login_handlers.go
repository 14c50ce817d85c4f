package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/staffdesk/staffdesk/hrapi"
	errs "github.com/staffdesk/staffdesk/internal/errors"
	"github.com/staffdesk/staffdesk/sessions"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName string
	Error   string
	Email   string // Preserve email on error
	Role    string
}

// IndexHandler routes the bare domain to whichever surface the visitor is
// already logged in to, or to the login page otherwise.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.sessions.Get(r, sessions.KindOrganization); err == nil {
			http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
			return
		}
		if _, err := s.sessions.Get(r, sessions.KindEmployee); err == nil {
			http.Redirect(w, r, RouteProfile, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	loginTmpl := mustParseTemplate("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		data := LoginPageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
			Email:   r.URL.Query().Get("email"),
			Role:    r.URL.Query().Get("role"),
		}
		renderPage(w, loginTmpl, data)
	}
}

// LoginSubmitHandler processes the login form submission. On success a
// session of the kind matching the account's role is issued and the user
// lands on that role's home page.
func (s *Server) LoginSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		role := r.FormValue("role")

		if email == "" || password == "" {
			s.renderLoginError(w, r, "Email and password are required", email, role)
			return
		}

		result, err := s.api.Login(r.Context(), email, password)
		if err != nil {
			s.renderLoginError(w, r, loginFailureMessage(err), email, role)
			return
		}

		kind := sessions.KindOrganization
		home := RouteDashboard
		if result.User.Role == "employee" {
			kind = sessions.KindEmployee
			home = RouteProfile
		}

		if err := s.sessions.Issue(w, r, kind, result.Token, result.User); err != nil {
			s.renderLoginError(w, r, "Could not start a session. Please try again.", email, role)
			return
		}
		redirectSuccess(w, r, home)
	}
}

// RegisterPageData contains data for rendering the registration page
type RegisterPageData struct {
	AppName string
	Error   string
	Name    string
	Email   string
}

// RegisterPageHandler displays the organization sign-up page (GET /register)
func (s *Server) RegisterPageHandler() http.HandlerFunc {
	registerTmpl := mustParseTemplate("register.html")

	return func(w http.ResponseWriter, r *http.Request) {
		data := RegisterPageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
			Name:    r.URL.Query().Get("name"),
			Email:   r.URL.Query().Get("email"),
		}
		renderPage(w, registerTmpl, data)
	}
}

// RegisterSubmitHandler creates an organization account and logs it in.
func (s *Server) RegisterSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		name := strings.TrimSpace(r.FormValue("name"))
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")

		if name == "" || email == "" || password == "" {
			s.renderRegisterError(w, r, "Name, email and password are required", name, email)
			return
		}
		if len(password) < 6 {
			s.renderRegisterError(w, r, "Password must be at least 6 characters", name, email)
			return
		}

		result, err := s.api.Register(r.Context(), name, email, password)
		if err != nil {
			s.renderRegisterError(w, r, userMessage(err), name, email)
			return
		}

		if err := s.sessions.Issue(w, r, sessions.KindOrganization, result.Token, result.User); err != nil {
			s.renderRegisterError(w, r, "Could not start a session. Please try again.", name, email)
			return
		}
		redirectSuccess(w, r, RouteDashboard)
	}
}

// LogoutHandler clears the cookies of exactly one session kind. Logging out
// of the organization surface leaves a coexisting employee session intact,
// and vice versa.
func (s *Server) LogoutHandler(kind sessions.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.sessions.Clear(w, r, kind)
		redirectSuccess(w, r, RouteLogin)
	}
}

// loginFailureMessage distinguishes a credential the backend rejected from
// a backend that could not be reached at all. Only an explicit rejection
// reads as bad credentials.
func loginFailureMessage(err error) string {
	var apiErr *hrapi.APIError
	if errs.As(err, &apiErr) {
		return "Invalid email or password"
	}
	return "An unexpected error occurred. Please try again."
}

// renderLoginError redirects to login page with an error message
func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, errorMsg, email, role string) {
	redirectURL := RouteLogin + "?error=" + url.QueryEscape(errorMsg)
	if email != "" {
		redirectURL += "&email=" + url.QueryEscape(email)
	}
	if role != "" {
		redirectURL += "&role=" + url.QueryEscape(role)
	}
	redirectSuccess(w, r, redirectURL)
}

func (s *Server) renderRegisterError(w http.ResponseWriter, r *http.Request, errorMsg, name, email string) {
	redirectURL := RouteRegister + "?error=" + url.QueryEscape(errorMsg)
	if name != "" {
		redirectURL += "&name=" + url.QueryEscape(name)
	}
	if email != "" {
		redirectURL += "&email=" + url.QueryEscape(email)
	}
	redirectSuccess(w, r, redirectURL)
}
