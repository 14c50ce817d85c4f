package server

import (
	"net/http"

	"github.com/staffdesk/staffdesk/hrapi"
	errs "github.com/staffdesk/staffdesk/internal/errors"
	"github.com/staffdesk/staffdesk/leave"
)

// ProfilePageData contains data for rendering the employee's own profile
type ProfilePageData struct {
	AppName  string
	Error    string
	Employee *hrapi.Employee
}

// ProfileHandler renders the logged-in employee's own record. The id always
// comes from the session, never from the request.
func (s *Server) ProfileHandler() http.HandlerFunc {
	profileTmpl := mustParseTemplate("profile.html")

	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		data := ProfilePageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
		}

		employee, err := s.directory.GetEmployee(r.Context(), session, session.User.ID)
		if err != nil {
			if errs.Is(err, errs.ErrUnauthorized) {
				s.expireSession(w, r, session)
				return
			}
			data.Error = userMessage(err)
			renderPage(w, profileTmpl, data)
			return
		}

		data.Employee = employee
		renderPage(w, profileTmpl, data)
	}
}

// LeavePageData contains data for rendering the employee leave page
type LeavePageData struct {
	AppName       string
	Error         string
	LeaveRequests []hrapi.LeaveRequest
}

// LeavePageHandler lists the employee's own leave requests next to the
// submission form.
func (s *Server) LeavePageHandler() http.HandlerFunc {
	leaveTmpl := mustParseTemplate("leave.html")

	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		data := LeavePageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
		}

		leaveRequests, err := s.leave.List(r.Context(), session, session.User.ID)
		if err != nil {
			if errs.Is(err, errs.ErrUnauthorized) {
				s.expireSession(w, r, session)
				return
			}
			data.Error = userMessage(err)
			renderPage(w, leaveTmpl, data)
			return
		}

		data.LeaveRequests = leaveRequests
		renderPage(w, leaveTmpl, data)
	}
}

// LeaveSubmitHandler processes the leave-request form (POST /leave).
func (s *Server) LeaveSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		input := leave.SubmitInput{
			StartDate: r.FormValue("startDate"),
			EndDate:   r.FormValue("endDate"),
			Reason:    r.FormValue("reason"),
		}
		if _, err := s.leave.Submit(r.Context(), session, input); err != nil {
			s.failRedirect(w, r, session, RouteLeave, err)
			return
		}
		redirectSuccess(w, r, RouteLeave)
	}
}
