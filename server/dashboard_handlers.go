package server

import (
	"net/http"
	"sync"

	"github.com/staffdesk/staffdesk/directory"
	"github.com/staffdesk/staffdesk/hrapi"
	errs "github.com/staffdesk/staffdesk/internal/errors"
)

// DashboardPageData contains data for rendering the dashboard
type DashboardPageData struct {
	AppName  string
	UserName string
	Error    string
	Stats    directory.Stats
}

// DashboardHandler renders the organization dashboard: headcount and
// per-department breakdowns built from the full directory. Employees and
// departments are fetched concurrently since neither depends on the other.
func (s *Server) DashboardHandler() http.HandlerFunc {
	dashboardTmpl := mustParseTemplate("dashboard.html")

	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		data := DashboardPageData{
			AppName:  s.config.GetAppName(),
			UserName: session.User.Name,
			Error:    r.URL.Query().Get("error"),
		}

		var (
			wg          sync.WaitGroup
			employees   []hrapi.Employee
			departments []hrapi.Department
			empErr      error
			deptErr     error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			employees, empErr = s.directory.ListEmployees(r.Context(), session, "")
		}()
		go func() {
			defer wg.Done()
			departments, deptErr = s.directory.ListDepartments(r.Context(), session)
		}()
		wg.Wait()

		if err := firstError(empErr, deptErr); err != nil {
			if errs.Is(err, errs.ErrUnauthorized) {
				s.expireSession(w, r, session)
				return
			}
			data.Error = userMessage(err)
			renderPage(w, dashboardTmpl, data)
			return
		}

		data.Stats = directory.BuildStats(employees, departments)
		renderPage(w, dashboardTmpl, data)
	}
}

func firstError(errors ...error) error {
	for _, err := range errors {
		if err != nil {
			return err
		}
	}
	return nil
}
