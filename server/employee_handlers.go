package server

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/staffdesk/staffdesk/ai"
	"github.com/staffdesk/staffdesk/directory"
	"github.com/staffdesk/staffdesk/hrapi"
	errs "github.com/staffdesk/staffdesk/internal/errors"
)

// EmployeesPageData contains data for rendering the employee list
type EmployeesPageData struct {
	AppName   string
	Error     string
	Query     string
	Employees []hrapi.Employee
}

// EmployeesHandler lists the directory, optionally filtered by a search
// query that the backend matches against name, email and position.
func (s *Server) EmployeesHandler() http.HandlerFunc {
	employeesTmpl := mustParseTemplate("employees.html")

	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		data := EmployeesPageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
			Query:   r.URL.Query().Get("q"),
		}

		employees, err := s.directory.ListEmployees(r.Context(), session, data.Query)
		if err != nil {
			if errs.Is(err, errs.ErrUnauthorized) {
				s.expireSession(w, r, session)
				return
			}
			data.Error = userMessage(err)
			renderPage(w, employeesTmpl, data)
			return
		}

		data.Employees = employees
		renderPage(w, employeesTmpl, data)
	}
}

// EmployeeDetailPageData contains data for rendering one employee record
type EmployeeDetailPageData struct {
	AppName         string
	Error           string
	Employee        *hrapi.Employee
	LeaveRequests   []hrapi.LeaveRequest
	FeedbackSummary *ai.FeedbackSummary
}

// EmployeeDetailHandler renders one employee together with their leave
// history. The record and the leave list live behind different backend
// endpoints, so both are fetched concurrently and joined here.
func (s *Server) EmployeeDetailHandler() http.HandlerFunc {
	detailTmpl := mustParseTemplate("employee_detail.html")

	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		id := r.PathValue("id")

		employee, leaveRequests, err := s.fetchEmployeeDetail(r, id)
		if err != nil {
			if errs.Is(err, errs.ErrUnauthorized) {
				s.expireSession(w, r, session)
				return
			}
			if errs.Is(err, errs.ErrNotFound) {
				redirectWithError(w, r, RouteEmployees, "Employee not found")
				return
			}
			redirectWithError(w, r, RouteEmployees, userMessage(err))
			return
		}

		data := EmployeeDetailPageData{
			AppName:       s.config.GetAppName(),
			Error:         r.URL.Query().Get("error"),
			Employee:      employee,
			LeaveRequests: leaveRequests,
		}
		renderPage(w, detailTmpl, data)
	}
}

func (s *Server) fetchEmployeeDetail(r *http.Request, id string) (*hrapi.Employee, []hrapi.LeaveRequest, error) {
	session := sessionFrom(r)

	var (
		wg            sync.WaitGroup
		employee      *hrapi.Employee
		leaveRequests []hrapi.LeaveRequest
		empErr        error
		leaveErr      error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		employee, empErr = s.directory.GetEmployee(r.Context(), session, id)
	}()
	go func() {
		defer wg.Done()
		leaveRequests, leaveErr = s.leave.List(r.Context(), session, id)
	}()
	wg.Wait()

	if err := firstError(empErr, leaveErr); err != nil {
		return nil, nil, err
	}
	return employee, leaveRequests, nil
}

// EmployeeFormPageData contains data for rendering the new-employee form
type EmployeeFormPageData struct {
	AppName     string
	Error       string
	Draft       ai.ProfileDraft
	Salary      string
	Departments []hrapi.Department
}

// EmployeeNewHandler renders the form for creating an employee. The form
// can be pre-filled by the profile-draft flow.
func (s *Server) EmployeeNewHandler() http.HandlerFunc {
	formTmpl := mustParseTemplate("employee_new.html")

	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		data := EmployeeFormPageData{
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
			renderPage(w, formTmpl, data)
			return
		}

		data.Departments = departments
		renderPage(w, formTmpl, data)
	}
}

// EmployeeCreateHandler processes the new-employee form (POST /employees).
func (s *Server) EmployeeCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		salary, _ := strconv.ParseInt(strings.TrimSpace(r.FormValue("salary")), 10, 64)
		input := directory.CreateEmployeeInput{
			Name:       r.FormValue("name"),
			Email:      r.FormValue("email"),
			Password:   r.FormValue("password"),
			Position:   r.FormValue("position"),
			Department: r.FormValue("department"),
			Salary:     salary,
		}

		created, err := s.directory.CreateEmployee(r.Context(), session, input)
		if err != nil {
			s.failRedirect(w, r, session, RouteEmployeeNew, err)
			return
		}
		redirectSuccess(w, r, RouteEmployees+"/"+created.ID)
	}
}

// EmployeeDraftHandler runs the profile-draft flow over a free-text
// description and re-renders the new-employee form pre-filled with the
// result. A flow failure leaves the form usable with an error banner.
func (s *Server) EmployeeDraftHandler() http.HandlerFunc {
	formTmpl := mustParseTemplate("employee_new.html")

	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		data := EmployeeFormPageData{AppName: s.config.GetAppName()}

		departments, err := s.directory.ListDepartments(r.Context(), session)
		if err != nil {
			if errs.Is(err, errs.ErrUnauthorized) {
				s.expireSession(w, r, session)
				return
			}
			data.Error = userMessage(err)
			renderPage(w, formTmpl, data)
			return
		}
		data.Departments = departments

		draft, err := s.flows.GenerateEmployeeProfile(r.Context(), r.FormValue("description"))
		if err != nil {
			data.Error = userMessage(err)
			renderPage(w, formTmpl, data)
			return
		}

		data.Draft = *draft
		renderPage(w, formTmpl, data)
	}
}

// EmployeeEditPageData contains data for rendering the edit form
type EmployeeEditPageData struct {
	AppName  string
	Error    string
	Employee *hrapi.Employee
}

// EmployeeEditHandler renders the edit form pre-filled from the record.
func (s *Server) EmployeeEditHandler() http.HandlerFunc {
	editTmpl := mustParseTemplate("employee_edit.html")

	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		id := r.PathValue("id")

		employee, err := s.directory.GetEmployee(r.Context(), session, id)
		if err != nil {
			if errs.Is(err, errs.ErrUnauthorized) {
				s.expireSession(w, r, session)
				return
			}
			redirectWithError(w, r, RouteEmployees, userMessage(err))
			return
		}

		data := EmployeeEditPageData{
			AppName:  s.config.GetAppName(),
			Error:    r.URL.Query().Get("error"),
			Employee: employee,
		}
		renderPage(w, editTmpl, data)
	}
}

// EmployeeUpdateHandler applies a partial update (POST /employees/{id}).
// Only fields present in the submitted form are touched; everything else on
// the record is left as-is.
func (s *Server) EmployeeUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		id := r.PathValue("id")
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		input := directory.UpdateEmployeeInput{
			Name:     formField(r, "name"),
			Email:    formField(r, "email"),
			Position: formField(r, "position"),
			Status:   formField(r, "status"),
			Salary:   formInt(r, "salary"),

			DateOfBirth:   formField(r, "dateOfBirth"),
			Gender:        formField(r, "gender"),
			MaritalStatus: formField(r, "maritalStatus"),
			Nationality:   formField(r, "nationality"),

			Street:     formField(r, "street"),
			City:       formField(r, "city"),
			State:      formField(r, "state"),
			PostalCode: formField(r, "postalCode"),
			Country:    formField(r, "country"),

			Languages: formField(r, "languages"),
			Phones:    formField(r, "phones"),

			EmergencyName:         formField(r, "emergencyName"),
			EmergencyRelationship: formField(r, "emergencyRelationship"),
			EmergencyPhone:        formField(r, "emergencyPhone"),
		}

		if _, err := s.directory.UpdateEmployee(r.Context(), session, id, input); err != nil {
			s.failRedirect(w, r, session, RouteEmployees+"/"+id+"/edit", err)
			return
		}
		redirectSuccess(w, r, RouteEmployees+"/"+id)
	}
}

// FeedbackSummaryHandler runs the feedback-summary flow over the text
// submitted from the detail page and re-renders the page with the result.
func (s *Server) FeedbackSummaryHandler() http.HandlerFunc {
	detailTmpl := mustParseTemplate("employee_detail.html")

	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		id := r.PathValue("id")
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		employee, leaveRequests, err := s.fetchEmployeeDetail(r, id)
		if err != nil {
			if errs.Is(err, errs.ErrUnauthorized) {
				s.expireSession(w, r, session)
				return
			}
			redirectWithError(w, r, RouteEmployees, userMessage(err))
			return
		}

		data := EmployeeDetailPageData{
			AppName:       s.config.GetAppName(),
			Employee:      employee,
			LeaveRequests: leaveRequests,
		}

		feedback := r.FormValue("feedback")
		if strings.TrimSpace(feedback) == "" {
			feedback = employee.PerformanceReview
		}

		summary, err := s.flows.SummarizeEmployeeFeedback(r.Context(), feedback)
		if err != nil {
			data.Error = userMessage(err)
			renderPage(w, detailTmpl, data)
			return
		}

		data.FeedbackSummary = summary
		renderPage(w, detailTmpl, data)
	}
}

// LeaveDecideHandler approves or rejects a pending leave request
// (POST /employees/{employeeID}/leave/{leaveRequestID}).
func (s *Server) LeaveDecideHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		employeeID := r.PathValue("employeeID")
		leaveRequestID := r.PathValue("leaveRequestID")
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		status := hrapi.LeaveStatus(r.FormValue("status"))
		backPath := RouteEmployees + "/" + employeeID

		if _, err := s.leave.Decide(r.Context(), session, employeeID, leaveRequestID, status); err != nil {
			s.failRedirect(w, r, session, backPath, err)
			return
		}
		redirectSuccess(w, r, backPath)
	}
}

// formField returns a pointer to the field's value when the form submitted
// it, nil when it did not. The distinction drives partial updates.
func formField(r *http.Request, name string) *string {
	values, ok := r.PostForm[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func formInt(r *http.Request, name string) *int64 {
	raw := formField(r, name)
	if raw == nil {
		return nil
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(*raw), 10, 64)
	if err != nil {
		parsed = -1 // fails validation downstream rather than silently dropping the field
	}
	return &parsed
}
