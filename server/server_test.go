package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/staffdesk/staffdesk/ai"
	"github.com/staffdesk/staffdesk/hrapi"
	"github.com/staffdesk/staffdesk/hrapi/hrapifake"
	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/server"
)

type fakeFlows struct {
	draft   *ai.ProfileDraft
	summary *ai.FeedbackSummary
	err     error
}

func (f *fakeFlows) GenerateEmployeeProfile(_ context.Context, _ string) (*ai.ProfileDraft, error) {
	return f.draft, f.err
}

func (f *fakeFlows) SummarizeEmployeeFeedback(_ context.Context, _ string) (*ai.FeedbackSummary, error) {
	return f.summary, f.err
}

type testFixture struct {
	server     *server.Server
	api        *hrapifake.FakeClient
	flows      *fakeFlows
	adminToken string
	empToken   string
	employee   *hrapi.Employee
	department *hrapi.Department
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	cfg, err := config.New()
	require.NoError(t, err)

	api := hrapifake.NewFakeClient()
	flows := &fakeFlows{
		draft: &ai.ProfileDraft{
			Name:       "Dana Reyes",
			Email:      "dana.reyes@example.com",
			Role:       "Backend Engineer",
			Department: "Engineering",
			Status:     "active",
		},
		summary: &ai.FeedbackSummary{Summary: "Solid quarter.", KeyAreasForImprovement: "Estimation."},
	}

	dept := api.SeedDepartment(hrapi.Department{Name: "Engineering"})
	emp := api.SeedEmployee(hrapi.Employee{
		Name:       "Jordan Miles",
		Email:      "jordan.miles@example.com",
		Position:   "Engineer",
		Status:     hrapi.StatusActive,
		Salary:     9000000,
		Department: &hrapi.DepartmentRef{ID: dept.ID, Name: dept.Name},
	})

	adminToken := api.AddAccount("admin@example.com", "admin-password", hrapi.User{
		Name: "Admin", Email: "admin@example.com", Role: "organization",
	})
	empToken := api.AddAccount("jordan.miles@example.com", "emp-password", hrapi.User{
		ID: emp.ID, Name: emp.Name, Email: emp.Email, Role: "employee",
	})

	srv, err := server.New(cfg, api, flows)
	require.NoError(t, err)

	return &testFixture{
		server:     srv,
		api:        api,
		flows:      flows,
		adminToken: adminToken,
		empToken:   empToken,
		employee:   emp,
		department: dept,
	}
}

func (f *testFixture) do(method, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func (f *testFixture) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()
	rec := f.do(http.MethodPost, "/login", url.Values{
		"email":    {email},
		"password": {password},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	return rec.Result().Cookies()
}

func locationError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	return loc.Query().Get("error")
}

func TestLoginIssuesOrganizationSession(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(http.MethodPost, "/login", url.Values{
		"email":    {"admin@example.com"},
		"password": {"admin-password"},
	}, nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))

	names := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		names[c.Name] = true
		require.True(t, c.HttpOnly, "cookie %s must be HttpOnly", c.Name)
	}
	require.True(t, names["token"])
	require.True(t, names["user"])
	require.False(t, names["employee_token"])
}

func TestEmployeeLoginRedirectsToProfile(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(http.MethodPost, "/login", url.Values{
		"email":    {"jordan.miles@example.com"},
		"password": {"emp-password"},
	}, nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/profile", rec.Header().Get("Location"))

	names := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		names[c.Name] = true
	}
	require.True(t, names["employee_token"])
	require.True(t, names["employee_user"])
	require.False(t, names["token"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(http.MethodPost, "/login", url.Values{
		"email":    {"admin@example.com"},
		"password": {"wrong"},
	}, nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "/login?")
	require.Equal(t, "Invalid email or password", locationError(t, rec))
	require.Empty(t, rec.Result().Cookies())
}

// unreachableBackend forces a transport-level failure on Login while
// delegating everything else to the fake backend.
type unreachableBackend struct {
	*hrapifake.FakeClient
}

func (u *unreachableBackend) Login(_ context.Context, _, _ string) (*hrapi.LoginResult, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestLoginBackendOutageIsNotBlamedOnCredentials(t *testing.T) {
	cfg, err := config.New()
	require.NoError(t, err)

	srv, err := server.New(cfg, &unreachableBackend{FakeClient: hrapifake.NewFakeClient()}, &fakeFlows{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	form := url.Values{"email": {"admin@example.com"}, "password": {"admin-password"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "An unexpected error occurred. Please try again.", locationError(t, rec))
	require.Empty(t, rec.Result().Cookies())
}

func TestGateRedirectsWithoutSession(t *testing.T) {
	f := setupTestFixture(t)

	for _, target := range []string{"/dashboard", "/employees", "/departments", "/profile", "/leave"} {
		rec := f.do(http.MethodGet, target, nil, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code, "route %s must be gated", target)
		require.Contains(t, rec.Header().Get("Location"), "/login", "route %s must redirect to login", target)
	}
}

func TestEmployeeSessionCannotOpenOrganizationPages(t *testing.T) {
	f := setupTestFixture(t)
	cookies := f.login(t, "jordan.miles@example.com", "emp-password")

	rec := f.do(http.MethodGet, "/dashboard", nil, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "/login")
}

func TestDashboardRenders(t *testing.T) {
	f := setupTestFixture(t)
	cookies := f.login(t, "admin@example.com", "admin-password")

	rec := f.do(http.MethodGet, "/dashboard", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Engineering")
	require.Contains(t, rec.Body.String(), "Welcome")
}

func TestBackendUnauthorizedInvalidatesSession(t *testing.T) {
	f := setupTestFixture(t)
	cookies := f.login(t, "admin@example.com", "admin-password")

	f.api.RevokeToken(f.adminToken)

	rec := f.do(http.MethodGet, "/employees", nil, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "/login")
	require.Contains(t, locationError(t, rec), "session has expired")

	cleared := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			cleared[c.Name] = true
		}
	}
	require.True(t, cleared["token"])
	require.True(t, cleared["user"])
}

func TestLogoutClearsOnlyOrganizationCookies(t *testing.T) {
	f := setupTestFixture(t)
	orgCookies := f.login(t, "admin@example.com", "admin-password")
	empCookies := f.login(t, "jordan.miles@example.com", "emp-password")
	all := append(append([]*http.Cookie{}, orgCookies...), empCookies...)

	rec := f.do(http.MethodPost, "/logout", url.Values{}, all)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	for _, c := range rec.Result().Cookies() {
		require.NotEqual(t, "employee_token", c.Name)
		require.NotEqual(t, "employee_user", c.Name)
		require.True(t, c.MaxAge < 0 || c.Value == "")
	}

	// The employee session still works.
	profile := f.do(http.MethodGet, "/profile", nil, empCookies)
	require.Equal(t, http.StatusOK, profile.Code)
}

func TestLeaveSubmitAndDecide(t *testing.T) {
	f := setupTestFixture(t)
	empCookies := f.login(t, "jordan.miles@example.com", "emp-password")
	orgCookies := f.login(t, "admin@example.com", "admin-password")

	rec := f.do(http.MethodPost, "/leave", url.Values{
		"startDate": {"2026-09-07"},
		"endDate":   {"2026-09-11"},
		"reason":    {"Family trip"},
	}, empCookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/leave", rec.Header().Get("Location"))

	list, err := f.api.ListLeaveRequests(context.Background(), f.adminToken, f.employee.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, hrapi.LeavePending, list[0].Status)

	decide := f.do(http.MethodPost, "/employees/"+f.employee.ID+"/leave/"+list[0].ID,
		url.Values{"status": {"approved"}}, orgCookies)
	require.Equal(t, http.StatusSeeOther, decide.Code)
	require.Equal(t, "/employees/"+f.employee.ID, decide.Header().Get("Location"))

	list, err = f.api.ListLeaveRequests(context.Background(), f.adminToken, f.employee.ID)
	require.NoError(t, err)
	require.Equal(t, hrapi.LeaveApproved, list[0].Status)
}

func TestDecidingTerminalRequestFails(t *testing.T) {
	f := setupTestFixture(t)
	orgCookies := f.login(t, "admin@example.com", "admin-password")

	lr := f.api.SeedLeaveRequest(f.employee.ID, hrapi.LeaveRequest{
		StartDate: "2026-09-01", EndDate: "2026-09-02", Reason: "Moving", Status: hrapi.LeaveApproved,
	})

	rec := f.do(http.MethodPost, "/employees/"+f.employee.ID+"/leave/"+lr.ID,
		url.Values{"status": {"rejected"}}, orgCookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, locationError(t, rec), "already been decided")

	list, err := f.api.ListLeaveRequests(context.Background(), f.adminToken, f.employee.ID)
	require.NoError(t, err)
	require.Equal(t, hrapi.LeaveApproved, list[0].Status)
}

func TestLeaveSubmitRejectsEmptyReason(t *testing.T) {
	f := setupTestFixture(t)
	empCookies := f.login(t, "jordan.miles@example.com", "emp-password")

	rec := f.do(http.MethodPost, "/leave", url.Values{
		"startDate": {"2026-09-07"},
		"endDate":   {"2026-09-11"},
		"reason":    {"   "},
	}, empCookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, locationError(t, rec), "reason")

	list, err := f.api.ListLeaveRequests(context.Background(), f.adminToken, f.employee.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestEmployeeCreateRejectsNonPositiveSalary(t *testing.T) {
	f := setupTestFixture(t)
	orgCookies := f.login(t, "admin@example.com", "admin-password")

	rec := f.do(http.MethodPost, "/employees", url.Values{
		"name":       {"New Person"},
		"email":      {"new.person@example.com"},
		"password":   {"secret-pass"},
		"position":   {"Analyst"},
		"department": {f.department.ID},
		"salary":     {"0"},
	}, orgCookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "/employees/new?")
	require.Contains(t, locationError(t, rec), "salary")
}

func TestEmployeeDetailShowsLeaveHistory(t *testing.T) {
	f := setupTestFixture(t)
	orgCookies := f.login(t, "admin@example.com", "admin-password")

	f.api.SeedLeaveRequest(f.employee.ID, hrapi.LeaveRequest{
		StartDate: "2026-10-01", EndDate: "2026-10-03", Reason: "Conference", Status: hrapi.LeavePending,
	})

	rec := f.do(http.MethodGet, "/employees/"+f.employee.ID, nil, orgCookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Jordan Miles")
	require.Contains(t, rec.Body.String(), "Conference")
	require.Contains(t, rec.Body.String(), "Approve")
}

func TestProfileDraftPrefillsForm(t *testing.T) {
	f := setupTestFixture(t)
	orgCookies := f.login(t, "admin@example.com", "admin-password")

	rec := f.do(http.MethodPost, "/employees/draft", url.Values{
		"description": {"senior backend engineer"},
	}, orgCookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Dana Reyes")
	require.Contains(t, rec.Body.String(), "dana.reyes@example.com")
}

func TestFeedbackSummaryRendersOnDetailPage(t *testing.T) {
	f := setupTestFixture(t)
	orgCookies := f.login(t, "admin@example.com", "admin-password")

	rec := f.do(http.MethodPost, "/employees/"+f.employee.ID+"/feedback-summary", url.Values{
		"feedback": {"ships fast, estimates poorly"},
	}, orgCookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Solid quarter.")
	require.Contains(t, rec.Body.String(), "Estimation.")
}

func TestRegisterCreatesOrganizationAccount(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(http.MethodPost, "/register", url.Values{
		"name":     {"Acme Corp"},
		"email":    {"owner@acme.example"},
		"password": {"strong-password"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))

	names := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		names[c.Name] = true
	}
	require.True(t, names["token"])
	require.True(t, names["user"])
}

func TestIndexRoutesBySession(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	orgCookies := f.login(t, "admin@example.com", "admin-password")
	rec = f.do(http.MethodGet, "/", nil, orgCookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))

	empCookies := f.login(t, "jordan.miles@example.com", "emp-password")
	rec = f.do(http.MethodGet, "/", nil, empCookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/profile", rec.Header().Get("Location"))
}

func TestDepartmentCreateAndList(t *testing.T) {
	f := setupTestFixture(t)
	orgCookies := f.login(t, "admin@example.com", "admin-password")

	rec := f.do(http.MethodPost, "/departments", url.Values{
		"name":        {"Sales"},
		"description": {"Field sales"},
	}, orgCookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/departments", rec.Header().Get("Location"))

	page := f.do(http.MethodGet, "/departments", nil, orgCookies)
	require.Equal(t, http.StatusOK, page.Code)
	require.Contains(t, page.Body.String(), "Sales")
	require.Contains(t, page.Body.String(), "Engineering")
}
