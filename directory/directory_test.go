package directory_test

import (
	"context"
	"testing"

	"github.com/staffdesk/staffdesk/directory"
	"github.com/staffdesk/staffdesk/hrapi"
	"github.com/staffdesk/staffdesk/hrapi/hrapifake"
	errs "github.com/staffdesk/staffdesk/internal/errors"
	"github.com/staffdesk/staffdesk/internal/utils"
	"github.com/staffdesk/staffdesk/sessions"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	backend *hrapifake.FakeClient
	service *directory.Service

	admin    *sessions.Session
	employee *sessions.Session
}

func setup(t *testing.T) *fixture {
	t.Helper()

	backend := hrapifake.NewFakeClient()
	service, err := directory.NewService(backend)
	require.NoError(t, err)

	adminUser := hrapi.User{ID: "org-1", Name: "Olivia Ops", Email: "ops@example.com", Role: "organization"}
	adminToken := backend.AddAccount("ops@example.com", "secret123", adminUser)

	empUser := hrapi.User{ID: "emp-1", Name: "Eve Adams", Email: "eve@example.com", Role: "employee"}
	empToken := backend.AddAccount("eve@example.com", "secret123", empUser)

	return &fixture{
		backend:  backend,
		service:  service,
		admin:    &sessions.Session{Kind: sessions.KindOrganization, Token: adminToken, User: adminUser},
		employee: &sessions.Session{Kind: sessions.KindEmployee, Token: empToken, User: empUser},
	}
}

func TestCreateEmployeeRejectsNonPositiveSalaryBeforeAnyNetworkCall(t *testing.T) {
	f := setup(t)
	f.backend.RevokeToken(f.admin.Token) // any network call would 401

	for _, salary := range []int64{0, -1} {
		_, err := f.service.CreateEmployee(context.Background(), f.admin, directory.CreateEmployeeInput{
			Name: "Bob Williams", Email: "bob.w@example.com", Password: "secret123",
			Position: "Marketing Manager", Department: "d2", Salary: salary,
		})
		require.True(t, errs.Is(err, errs.ErrValidation))
		require.False(t, errs.Is(err, errs.ErrUnauthorized))
	}
}

func TestCreateEmployeeAggregatesFieldErrors(t *testing.T) {
	f := setup(t)

	_, err := f.service.CreateEmployee(context.Background(), f.admin, directory.CreateEmployeeInput{
		Email: "not-an-email", Salary: 0,
	})
	require.True(t, errs.Is(err, errs.ErrValidation))
	require.Contains(t, err.Error(), "name is required")
	require.Contains(t, err.Error(), "a valid email is required")
	require.Contains(t, err.Error(), "position is required")
	require.Contains(t, err.Error(), "salary must be a positive number")
}

func TestCreateEmployeeSurfacesBackendMessage(t *testing.T) {
	f := setup(t)
	f.backend.SeedEmployee(hrapi.Employee{Email: "bob.w@example.com", Status: hrapi.StatusActive})

	_, err := f.service.CreateEmployee(context.Background(), f.admin, directory.CreateEmployeeInput{
		Name: "Bob Williams", Email: "bob.w@example.com", Password: "secret123",
		Position: "Marketing Manager", Department: "d2", Salary: 7500000,
	})
	require.Error(t, err)

	var apiErr *hrapi.APIError
	require.True(t, errs.As(err, &apiErr))
	require.Equal(t, "An employee with this email already exists.", apiErr.UserMessage())
}

func TestListEmployeesRequiresOrganizationSession(t *testing.T) {
	f := setup(t)

	_, err := f.service.ListEmployees(context.Background(), f.employee, "")
	require.True(t, errs.Is(err, errs.ErrUnauthorized))

	_, err = f.service.ListEmployees(context.Background(), nil, "")
	require.True(t, errs.Is(err, errs.ErrUnauthorized))
}

func TestListEmployeesFailsOnceTokenIsRevoked(t *testing.T) {
	f := setup(t)
	f.backend.SeedEmployee(hrapi.Employee{Name: "Alice Johnson", Status: hrapi.StatusActive})

	first, err := f.service.ListEmployees(context.Background(), f.admin, "")
	require.NoError(t, err)
	require.Len(t, first, 1)

	f.backend.RevokeToken(f.admin.Token)

	_, err = f.service.ListEmployees(context.Background(), f.admin, "")
	require.True(t, errs.Is(err, errs.ErrUnauthorized),
		"a warm view must not survive the backend revoking the session token")
}

func TestListEmployeesRejectsTokenTheBackendNeverIssued(t *testing.T) {
	f := setup(t)
	f.backend.SeedEmployee(hrapi.Employee{Name: "Alice Johnson", Status: hrapi.StatusActive})

	// Populate a view under the legitimate session first.
	_, err := f.service.ListEmployees(context.Background(), f.admin, "")
	require.NoError(t, err)

	intruder := &sessions.Session{
		Kind:  sessions.KindOrganization,
		Token: "never-issued-token",
		User:  hrapi.User{ID: "org-2", Name: "Someone Else", Email: "other@example.com", Role: "organization"},
	}
	_, err = f.service.ListEmployees(context.Background(), intruder, "")
	require.True(t, errs.Is(err, errs.ErrUnauthorized),
		"another session must not be served data fetched under a different token")
}

func TestCreateEmployeeIsVisibleInNextList(t *testing.T) {
	f := setup(t)
	f.backend.SeedDepartment(hrapi.Department{ID: "d1", Name: "Engineering"})

	before, err := f.service.ListEmployees(context.Background(), f.admin, "")
	require.NoError(t, err)
	require.Empty(t, before)

	_, err = f.service.CreateEmployee(context.Background(), f.admin, directory.CreateEmployeeInput{
		Name: "Alice Johnson", Email: "alice.j@example.com", Password: "secret123",
		Position: "Lead Software Engineer", Department: "d1", Salary: 9500000,
	})
	require.NoError(t, err)

	after, err := f.service.ListEmployees(context.Background(), f.admin, "")
	require.NoError(t, err)
	require.Len(t, after, 1, "a created employee must appear in the next listing")
	require.Equal(t, "Alice Johnson", after[0].Name)
}

func TestUpdateEmployeeIsVisibleInNextGet(t *testing.T) {
	f := setup(t)
	seeded := f.backend.SeedEmployee(hrapi.Employee{
		Name: "Charlie Brown", Email: "charlie.b@example.com", Status: hrapi.StatusActive, Salary: 6400000,
	})

	first, err := f.service.GetEmployee(context.Background(), f.admin, seeded.ID)
	require.NoError(t, err)
	require.Equal(t, "Charlie Brown", first.Name)

	_, err = f.service.UpdateEmployee(context.Background(), f.admin, seeded.ID, directory.UpdateEmployeeInput{
		Name: utils.Ptr("Charles Brown"),
	})
	require.NoError(t, err)

	second, err := f.service.GetEmployee(context.Background(), f.admin, seeded.ID)
	require.NoError(t, err)
	require.Equal(t, "Charles Brown", second.Name)
}

func TestUpdateEmployeeExpandsCommaLists(t *testing.T) {
	f := setup(t)
	seeded := f.backend.SeedEmployee(hrapi.Employee{
		Name: "Eve Adams", Email: "eve@example.com", Status: hrapi.StatusActive, Salary: 7200000,
	})

	updated, err := f.service.UpdateEmployee(context.Background(), f.admin, seeded.ID, directory.UpdateEmployeeInput{
		Languages: utils.Ptr(" English , Hindi ,, Tamil "),
		Phones:    utils.Ptr("555-0101, 555-0102"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"English", "Hindi", "Tamil"}, updated.PersonalDetails.LanguagesSpoken)
	require.Equal(t, []string{"555-0101", "555-0102"}, updated.Contacts.Phone)
}

func TestUpdateEmployeeValidatesSubmittedFields(t *testing.T) {
	f := setup(t)

	_, err := f.service.UpdateEmployee(context.Background(), f.admin, "e1", directory.UpdateEmployeeInput{
		Status: utils.Ptr("retired"),
	})
	require.True(t, errs.Is(err, errs.ErrValidation))

	_, err = f.service.UpdateEmployee(context.Background(), f.admin, "e1", directory.UpdateEmployeeInput{
		Salary: utils.Ptr(int64(-5)),
	})
	require.True(t, errs.Is(err, errs.ErrValidation))
}

func TestGetEmployeeScopesEmployeeSessionsToOwnRecord(t *testing.T) {
	f := setup(t)
	own := f.backend.SeedEmployee(hrapi.Employee{ID: "emp-1", Name: "Eve Adams", Status: hrapi.StatusActive})
	other := f.backend.SeedEmployee(hrapi.Employee{ID: "emp-2", Name: "Bob Williams", Status: hrapi.StatusActive})

	got, err := f.service.GetEmployee(context.Background(), f.employee, own.ID)
	require.NoError(t, err)
	require.Equal(t, "Eve Adams", got.Name)

	_, err = f.service.GetEmployee(context.Background(), f.employee, other.ID)
	require.True(t, errs.Is(err, errs.ErrForbidden))
}

func TestCreateDepartmentIsVisibleInNextList(t *testing.T) {
	f := setup(t)

	before, err := f.service.ListDepartments(context.Background(), f.admin)
	require.NoError(t, err)
	require.Empty(t, before)

	_, err = f.service.CreateDepartment(context.Background(), f.admin, directory.CreateDepartmentInput{
		Name: "Engineering", Description: "Builds the product",
	})
	require.NoError(t, err)

	after, err := f.service.ListDepartments(context.Background(), f.admin)
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.Equal(t, "Engineering", after[0].Name)
}

func TestCreateDepartmentRequiresName(t *testing.T) {
	f := setup(t)

	_, err := f.service.CreateDepartment(context.Background(), f.admin, directory.CreateDepartmentInput{Name: "   "})
	require.True(t, errs.Is(err, errs.ErrValidation))
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"English", "Hindi", "Tamil"}, directory.SplitList("English, Hindi ,, Tamil "))
	require.Equal(t, []string{"solo"}, directory.SplitList("solo"))
	require.Empty(t, directory.SplitList("  ,  , "))
	require.Empty(t, directory.SplitList(""))
}
