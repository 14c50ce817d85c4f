// Package directory owns the employee and department records as consumed
// from the HR backend: listing, creation, and partial updates, with
// boundary validation before any network call.
//
// Reads are never cached across requests. Every view is fetched under the
// calling session's bearer token, so a token the backend has revoked fails
// on its next read and data fetched under one token is never served to
// another.
package directory

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/pkg/errors"
	"github.com/staffdesk/staffdesk/hrapi"
	errs "github.com/staffdesk/staffdesk/internal/errors"
	"github.com/staffdesk/staffdesk/internal/utils"
	"github.com/staffdesk/staffdesk/sessions"
)

type Service struct {
	api hrapi.API
}

func NewService(api hrapi.API) (*Service, error) {
	if api == nil {
		return nil, errors.New("[directory NewService] api client is required")
	}
	return &Service{api: api}, nil
}

// ListEmployees returns the employee directory, optionally filtered by a
// free-text query matched against name and email. Organization sessions only.
func (s *Service) ListEmployees(ctx context.Context, session *sessions.Session, query string) ([]hrapi.Employee, error) {
	if session == nil || session.Kind != sessions.KindOrganization {
		return nil, errs.ErrUnauthorized
	}

	list, err := s.api.ListEmployees(ctx, session.Token, query)
	if err != nil {
		return nil, errors.Wrap(err, "[ListEmployees] fetch")
	}
	return list, nil
}

// GetEmployee fetches one employee record. Organization sessions may fetch
// any record; an employee session may only fetch its own.
func (s *Service) GetEmployee(ctx context.Context, session *sessions.Session, id string) (*hrapi.Employee, error) {
	if session == nil {
		return nil, errs.ErrUnauthorized
	}
	if session.Kind == sessions.KindEmployee && session.User.ID != id {
		return nil, errs.ErrForbidden
	}

	employee, err := s.api.GetEmployee(ctx, session.Token, id)
	if err != nil {
		return nil, errors.Wrap(err, "[GetEmployee] fetch")
	}
	return employee, nil
}

// CreateEmployeeInput carries the admin-supplied fields for a new employee.
type CreateEmployeeInput struct {
	Name       string
	Email      string
	Password   string
	Position   string
	Department string
	Salary     int64
}

// CreateEmployee creates a directory record and its login account. Field
// errors are collected into one aggregate validation message and reported
// before any network call.
func (s *Service) CreateEmployee(ctx context.Context, session *sessions.Session, in CreateEmployeeInput) (*hrapi.Employee, error) {
	if session == nil || session.Kind != sessions.KindOrganization {
		return nil, errs.ErrUnauthorized
	}

	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		problems = append(problems, "a valid email is required")
	}
	if len(in.Password) < 6 {
		problems = append(problems, "password must be at least 6 characters")
	}
	if strings.TrimSpace(in.Position) == "" {
		problems = append(problems, "position is required")
	}
	if strings.TrimSpace(in.Department) == "" {
		problems = append(problems, "department is required")
	}
	if in.Salary <= 0 {
		problems = append(problems, "salary must be a positive number")
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrValidation, strings.Join(problems, "; "))
	}

	created, err := s.api.CreateEmployee(ctx, session.Token, hrapi.CreateEmployeeRequest{
		Name:       strings.TrimSpace(in.Name),
		Email:      in.Email,
		Password:   in.Password,
		Position:   strings.TrimSpace(in.Position),
		Department: in.Department,
		Salary:     in.Salary,
	})
	if err != nil {
		return nil, errors.Wrap(err, "[CreateEmployee] create")
	}
	return created, nil
}

// UpdateEmployeeInput is a partial update: nil fields are left untouched.
// Phones and Languages arrive as comma-delimited text and are expanded into
// ordered string slices.
type UpdateEmployeeInput struct {
	Name     *string
	Email    *string
	Position *string
	Status   *string
	Salary   *int64

	DateOfBirth   *string
	Gender        *string
	MaritalStatus *string
	Nationality   *string

	Street     *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string

	Languages *string
	Phones    *string

	EmergencyName         *string
	EmergencyRelationship *string
	EmergencyPhone        *string
}

// UpdateEmployee applies a partial update to an employee record.
// Organization sessions only.
func (s *Service) UpdateEmployee(ctx context.Context, session *sessions.Session, id string, in UpdateEmployeeInput) (*hrapi.Employee, error) {
	if session == nil || session.Kind != sessions.KindOrganization {
		return nil, errs.ErrUnauthorized
	}
	if id == "" {
		return nil, fmt.Errorf("%w: employee id required", errs.ErrValidation)
	}

	var problems []string
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		problems = append(problems, "name cannot be empty")
	}
	if in.Email != nil {
		if _, err := mail.ParseAddress(*in.Email); err != nil {
			problems = append(problems, "a valid email is required")
		}
	}
	if in.Status != nil && *in.Status != string(hrapi.StatusActive) && *in.Status != string(hrapi.StatusInactive) {
		problems = append(problems, "status must be active or inactive")
	}
	if in.Salary != nil && *in.Salary <= 0 {
		problems = append(problems, "salary must be a positive number")
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrValidation, strings.Join(problems, "; "))
	}

	req := buildUpdateRequest(in)
	updated, err := s.api.UpdateEmployee(ctx, session.Token, id, req)
	if err != nil {
		return nil, errors.Wrap(err, "[UpdateEmployee] update")
	}
	return updated, nil
}

// ListDepartments returns all departments. Organization sessions only.
func (s *Service) ListDepartments(ctx context.Context, session *sessions.Session) ([]hrapi.Department, error) {
	if session == nil || session.Kind != sessions.KindOrganization {
		return nil, errs.ErrUnauthorized
	}

	list, err := s.api.ListDepartments(ctx, session.Token)
	if err != nil {
		return nil, errors.Wrap(err, "[ListDepartments] fetch")
	}
	return list, nil
}

// CreateDepartmentInput carries the fields for a new department.
type CreateDepartmentInput struct {
	Name        string
	Description string
}

func (s *Service) CreateDepartment(ctx context.Context, session *sessions.Session, in CreateDepartmentInput) (*hrapi.Department, error) {
	if session == nil || session.Kind != sessions.KindOrganization {
		return nil, errs.ErrUnauthorized
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", errs.ErrValidation)
	}

	created, err := s.api.CreateDepartment(ctx, session.Token, hrapi.CreateDepartmentRequest{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	})
	if err != nil {
		return nil, errors.Wrap(err, "[CreateDepartment] create")
	}
	return created, nil
}

// buildUpdateRequest maps the flat form input onto the backend's nested
// PATCH payload, materializing sub-structures only when one of their fields
// was actually submitted.
func buildUpdateRequest(in UpdateEmployeeInput) hrapi.UpdateEmployeeRequest {
	req := hrapi.UpdateEmployeeRequest{
		Name:     trimmed(in.Name),
		Email:    in.Email,
		Position: trimmed(in.Position),
		Salary:   in.Salary,
	}
	if in.Status != nil {
		req.Status = utils.Ptr(hrapi.EmployeeStatus(*in.Status))
	}

	address := &hrapi.Address{
		Street:     utils.Value(in.Street),
		City:       utils.Value(in.City),
		State:      utils.Value(in.State),
		PostalCode: utils.Value(in.PostalCode),
		Country:    utils.Value(in.Country),
	}
	hasAddress := anySet(in.Street, in.City, in.State, in.PostalCode, in.Country)

	if anySet(in.DateOfBirth, in.Gender, in.MaritalStatus, in.Nationality, in.Languages) || hasAddress {
		details := &hrapi.PersonalDetails{
			DateOfBirth:   utils.Value(in.DateOfBirth),
			Gender:        utils.Value(in.Gender),
			MaritalStatus: utils.Value(in.MaritalStatus),
			Nationality:   utils.Value(in.Nationality),
		}
		if hasAddress {
			details.Address = address
		}
		if in.Languages != nil {
			details.LanguagesSpoken = SplitList(*in.Languages)
		}
		req.PersonalDetails = details
	}

	if anySet(in.Phones, in.EmergencyName, in.EmergencyRelationship, in.EmergencyPhone) {
		contacts := &hrapi.Contacts{}
		if in.Phones != nil {
			contacts.Phone = SplitList(*in.Phones)
		}
		if anySet(in.EmergencyName, in.EmergencyRelationship, in.EmergencyPhone) {
			contacts.EmergencyContact = &hrapi.EmergencyContact{
				Name:         utils.Value(in.EmergencyName),
				Relationship: utils.Value(in.EmergencyRelationship),
				Phone:        utils.Value(in.EmergencyPhone),
			}
		}
		req.Contacts = contacts
	}

	return req
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	return utils.Ptr(strings.TrimSpace(*s))
}

func anySet(fields ...*string) bool {
	for _, f := range fields {
		if f != nil {
			return true
		}
	}
	return false
}

// SplitList expands delimited form text ("English, Hindi , ,Tamil") into an
// ordered slice of trimmed, non-empty strings.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmedPart := strings.TrimSpace(p); trimmedPart != "" {
			list = append(list, trimmedPart)
		}
	}
	return list
}
