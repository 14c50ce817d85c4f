// Package hrapifake is an in-memory stand-in for the HR backend, used by
// service and handler tests. It enforces the same token and ownership rules
// the real backend does so 401 paths can be exercised without a network.
package hrapifake

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/staffdesk/staffdesk/hrapi"
)

var _ hrapi.API = (*FakeClient)(nil)

type account struct {
	password string
	user     hrapi.User
	token    string
}

type FakeClient struct {
	lock sync.RWMutex

	accounts    map[string]*account // keyed by email
	tokens      map[string]*account // keyed by issued token
	employees   map[string]*hrapi.Employee
	departments map[string]*hrapi.Department
	leaves      map[string][]*hrapi.LeaveRequest // keyed by employee id

	// RejectCreateEmployeeWith, when set, makes CreateEmployee fail with a
	// backend message (e.g. duplicate email scenarios).
	RejectCreateEmployeeWith string
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		accounts:    make(map[string]*account),
		tokens:      make(map[string]*account),
		employees:   make(map[string]*hrapi.Employee),
		departments: make(map[string]*hrapi.Department),
		leaves:      make(map[string][]*hrapi.LeaveRequest),
	}
}

// AddAccount registers a login-able identity and returns the token it will
// be issued.
func (f *FakeClient) AddAccount(email, password string, user hrapi.User) string {
	f.lock.Lock()
	defer f.lock.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	token := "fake-token-" + uuid.New().String()
	acct := &account{password: password, user: user, token: token}
	f.accounts[email] = acct
	f.tokens[token] = acct
	return token
}

// RevokeToken makes every subsequent authenticated call with token fail
// with a 401, mimicking backend-side token expiry.
func (f *FakeClient) RevokeToken(token string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	delete(f.tokens, token)
}

// SeedEmployee inserts an employee record directly.
func (f *FakeClient) SeedEmployee(e hrapi.Employee) *hrapi.Employee {
	f.lock.Lock()
	defer f.lock.Unlock()

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	stored := e
	f.employees[e.ID] = &stored
	return &stored
}

// SeedDepartment inserts a department record directly.
func (f *FakeClient) SeedDepartment(d hrapi.Department) *hrapi.Department {
	f.lock.Lock()
	defer f.lock.Unlock()

	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	stored := d
	f.departments[d.ID] = &stored
	return &stored
}

// SeedLeaveRequest inserts a leave request for an employee directly.
func (f *FakeClient) SeedLeaveRequest(employeeID string, lr hrapi.LeaveRequest) *hrapi.LeaveRequest {
	f.lock.Lock()
	defer f.lock.Unlock()

	if lr.ID == "" {
		lr.ID = uuid.New().String()
	}
	lr.EmployeeID = employeeID
	stored := lr
	f.leaves[employeeID] = append(f.leaves[employeeID], &stored)
	return &stored
}

func (f *FakeClient) authorize(token string) (*account, error) {
	acct, ok := f.tokens[token]
	if !ok {
		return nil, &hrapi.APIError{StatusCode: http.StatusUnauthorized, Message: "invalid or expired token"}
	}
	return acct, nil
}

func (f *FakeClient) Login(_ context.Context, email, password string) (*hrapi.LoginResult, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	acct, ok := f.accounts[email]
	if !ok || acct.password != password {
		return nil, &hrapi.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid email or password."}
	}
	return &hrapi.LoginResult{Token: acct.token, User: acct.user}, nil
}

func (f *FakeClient) Register(_ context.Context, name, email, password string) (*hrapi.LoginResult, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, exists := f.accounts[email]; exists {
		return nil, &hrapi.APIError{StatusCode: http.StatusConflict, Message: "An account with this email already exists."}
	}
	token := "fake-token-" + uuid.New().String()
	acct := &account{
		password: password,
		user:     hrapi.User{ID: uuid.New().String(), Name: name, Email: email, Role: "organization"},
		token:    token,
	}
	f.accounts[email] = acct
	f.tokens[token] = acct
	return &hrapi.LoginResult{Token: acct.token, User: acct.user}, nil
}

func (f *FakeClient) ListEmployees(_ context.Context, token, query string) ([]hrapi.Employee, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	if _, err := f.authorize(token); err != nil {
		return nil, err
	}

	var list []hrapi.Employee
	needle := strings.ToLower(query)
	for _, e := range f.employees {
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Name), needle) &&
			!strings.Contains(strings.ToLower(e.Email), needle) {
			continue
		}
		list = append(list, *e)
	}
	return list, nil
}

func (f *FakeClient) GetEmployee(_ context.Context, token, id string) (*hrapi.Employee, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	if _, err := f.authorize(token); err != nil {
		return nil, err
	}
	e, ok := f.employees[id]
	if !ok {
		return nil, &hrapi.APIError{StatusCode: http.StatusNotFound, Message: "employee not found"}
	}
	copied := *e
	return &copied, nil
}

func (f *FakeClient) CreateEmployee(_ context.Context, token string, req hrapi.CreateEmployeeRequest) (*hrapi.Employee, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, err := f.authorize(token); err != nil {
		return nil, err
	}
	if f.RejectCreateEmployeeWith != "" {
		return nil, &hrapi.APIError{StatusCode: http.StatusConflict, Message: f.RejectCreateEmployeeWith}
	}
	for _, e := range f.employees {
		if e.Email == req.Email {
			return nil, &hrapi.APIError{StatusCode: http.StatusConflict, Message: "An employee with this email already exists."}
		}
	}

	e := &hrapi.Employee{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Email:    req.Email,
		Position: req.Position,
		Status:   hrapi.StatusActive,
		Salary:   req.Salary,
	}
	if req.Department != "" {
		if d, ok := f.departments[req.Department]; ok {
			e.Department = &hrapi.DepartmentRef{ID: d.ID, Name: d.Name}
		} else {
			e.Department = &hrapi.DepartmentRef{ID: req.Department}
		}
	}
	f.employees[e.ID] = e
	copied := *e
	return &copied, nil
}

func (f *FakeClient) UpdateEmployee(_ context.Context, token, id string, req hrapi.UpdateEmployeeRequest) (*hrapi.Employee, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, err := f.authorize(token); err != nil {
		return nil, err
	}
	e, ok := f.employees[id]
	if !ok {
		return nil, &hrapi.APIError{StatusCode: http.StatusNotFound, Message: "employee not found"}
	}

	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Email != nil {
		e.Email = *req.Email
	}
	if req.Position != nil {
		e.Position = *req.Position
	}
	if req.Status != nil {
		e.Status = *req.Status
	}
	if req.Salary != nil {
		e.Salary = *req.Salary
	}
	if req.PersonalDetails != nil {
		e.PersonalDetails = req.PersonalDetails
	}
	if req.Contacts != nil {
		e.Contacts = req.Contacts
	}
	copied := *e
	return &copied, nil
}

func (f *FakeClient) ListDepartments(_ context.Context, token string) ([]hrapi.Department, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	if _, err := f.authorize(token); err != nil {
		return nil, err
	}
	var list []hrapi.Department
	for _, d := range f.departments {
		list = append(list, *d)
	}
	return list, nil
}

func (f *FakeClient) CreateDepartment(_ context.Context, token string, req hrapi.CreateDepartmentRequest) (*hrapi.Department, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, err := f.authorize(token); err != nil {
		return nil, err
	}
	d := &hrapi.Department{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
	}
	f.departments[d.ID] = d
	copied := *d
	return &copied, nil
}

func (f *FakeClient) ListLeaveRequests(_ context.Context, token, employeeID string) ([]hrapi.LeaveRequest, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	if _, err := f.authorize(token); err != nil {
		return nil, err
	}
	var list []hrapi.LeaveRequest
	for _, lr := range f.leaves[employeeID] {
		list = append(list, *lr)
	}
	return list, nil
}

func (f *FakeClient) CreateLeaveRequest(_ context.Context, token string, req hrapi.CreateLeaveRequest) (*hrapi.LeaveRequest, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	acct, err := f.authorize(token)
	if err != nil {
		return nil, err
	}

	lr := &hrapi.LeaveRequest{
		ID:         uuid.New().String(),
		EmployeeID: acct.user.ID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Reason:     req.Reason,
		Status:     hrapi.LeavePending,
	}
	f.leaves[acct.user.ID] = append(f.leaves[acct.user.ID], lr)
	copied := *lr
	return &copied, nil
}

func (f *FakeClient) UpdateLeaveStatus(_ context.Context, token, employeeID, leaveRequestID string, status hrapi.LeaveStatus) (*hrapi.LeaveRequest, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, err := f.authorize(token); err != nil {
		return nil, err
	}
	for _, lr := range f.leaves[employeeID] {
		if lr.ID != leaveRequestID {
			continue
		}
		if lr.Status.Terminal() {
			return nil, &hrapi.APIError{StatusCode: http.StatusConflict, Message: "leave request has already been decided"}
		}
		lr.Status = status
		copied := *lr
		return &copied, nil
	}
	return nil, &hrapi.APIError{StatusCode: http.StatusNotFound, Message: "leave request not found"}
}
