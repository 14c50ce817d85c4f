package server

import (
	"net/http"

	"github.com/staffdesk/staffdesk/directory"
	"github.com/staffdesk/staffdesk/hrapi"
	errs "github.com/staffdesk/staffdesk/internal/errors"
)

// DepartmentsPageData contains data for rendering the department list
type DepartmentsPageData struct {
	AppName     string
	Error       string
	Departments []hrapi.Department
}

// DepartmentsHandler lists departments with their headcounts.
func (s *Server) DepartmentsHandler() http.HandlerFunc {
	departmentsTmpl := mustParseTemplate("departments.html")

	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		data := DepartmentsPageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
		}

		departments, err := s.directory.ListDepartments(r.Context(), session)
		if err != nil {
			if errs.Is(err, errs.ErrUnauthorized) {
				s.expireSession(w, r, session)
				return
			}
			data.Error = userMessage(err)
			renderPage(w, departmentsTmpl, data)
			return
		}

		data.Departments = departments
		renderPage(w, departmentsTmpl, data)
	}
}

// DepartmentCreateHandler processes the new-department form.
func (s *Server) DepartmentCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		input := directory.CreateDepartmentInput{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
		}
		if _, err := s.directory.CreateDepartment(r.Context(), session, input); err != nil {
			s.failRedirect(w, r, session, RouteDepartments, err)
			return
		}
		redirectSuccess(w, r, RouteDepartments)
	}
}
