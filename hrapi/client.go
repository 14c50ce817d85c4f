// Package hrapi is a typed client for the HR backend, the system of record
// for all persisted entities. All authenticated calls carry a bearer token;
// a 401 from any endpoint means the token is no longer valid and the caller's
// session must be discarded.
package hrapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// API is the backend surface consumed by the application. The concrete
// Client talks HTTP; hrapifake provides an in-memory implementation for tests.
type API interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, name, email, password string) (*LoginResult, error)

	ListEmployees(ctx context.Context, token, query string) ([]Employee, error)
	GetEmployee(ctx context.Context, token, id string) (*Employee, error)
	CreateEmployee(ctx context.Context, token string, req CreateEmployeeRequest) (*Employee, error)
	UpdateEmployee(ctx context.Context, token, id string, req UpdateEmployeeRequest) (*Employee, error)

	ListDepartments(ctx context.Context, token string) ([]Department, error)
	CreateDepartment(ctx context.Context, token string, req CreateDepartmentRequest) (*Department, error)

	ListLeaveRequests(ctx context.Context, token, employeeID string) ([]LeaveRequest, error)
	CreateLeaveRequest(ctx context.Context, token string, req CreateLeaveRequest) (*LeaveRequest, error)
	UpdateLeaveStatus(ctx context.Context, token, employeeID, leaveRequestID string, status LeaveStatus) (*LeaveRequest, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ API = &Client{}

// ClientOption modifies a Client during construction.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := c.do(ctx, "", http.MethodPost, "/api/users/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an organization account. The backend logs the new
// account in, so the result carries a usable token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*LoginResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var result LoginResult
	if err := c.do(ctx, "", http.MethodPost, "/api/users/register", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListEmployees(ctx context.Context, token, query string) ([]Employee, error) {
	path := "/api/employees"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var envelope struct {
		Data struct {
			Employees []Employee `json:"employees"`
		} `json:"data"`
	}
	if err := c.do(ctx, token, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.Employees, nil
}

func (c *Client) GetEmployee(ctx context.Context, token, id string) (*Employee, error) {
	var envelope struct {
		Employee *Employee `json:"employee"`
	}
	if err := c.do(ctx, token, http.MethodGet, "/api/employees/"+url.PathEscape(id), nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Employee == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "employee not found"}
	}
	return envelope.Employee, nil
}

func (c *Client) CreateEmployee(ctx context.Context, token string, req CreateEmployeeRequest) (*Employee, error) {
	var envelope struct {
		Employee *Employee `json:"employee"`
	}
	if err := c.do(ctx, token, http.MethodPost, "/api/users/create-employee", req, &envelope); err != nil {
		return nil, err
	}
	return envelope.Employee, nil
}

func (c *Client) UpdateEmployee(ctx context.Context, token, id string, req UpdateEmployeeRequest) (*Employee, error) {
	var envelope struct {
		Employee *Employee `json:"employee"`
	}
	if err := c.do(ctx, token, http.MethodPatch, "/api/employees/"+url.PathEscape(id), req, &envelope); err != nil {
		return nil, err
	}
	return envelope.Employee, nil
}

func (c *Client) ListDepartments(ctx context.Context, token string) ([]Department, error) {
	var envelope struct {
		Departments []Department `json:"departments"`
	}
	if err := c.do(ctx, token, http.MethodGet, "/api/departments", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Departments, nil
}

func (c *Client) CreateDepartment(ctx context.Context, token string, req CreateDepartmentRequest) (*Department, error) {
	var envelope struct {
		Department *Department `json:"department"`
	}
	if err := c.do(ctx, token, http.MethodPost, "/api/departments", req, &envelope); err != nil {
		return nil, err
	}
	return envelope.Department, nil
}

func (c *Client) ListLeaveRequests(ctx context.Context, token, employeeID string) ([]LeaveRequest, error) {
	var envelope struct {
		LeaveRequests []LeaveRequest `json:"leaveRequests"`
	}
	path := "/api/employees/leave-requests/" + url.PathEscape(employeeID)
	if err := c.do(ctx, token, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.LeaveRequests, nil
}

func (c *Client) CreateLeaveRequest(ctx context.Context, token string, req CreateLeaveRequest) (*LeaveRequest, error) {
	var envelope struct {
		LeaveRequest *LeaveRequest `json:"leaveRequest"`
	}
	if err := c.do(ctx, token, http.MethodPost, "/api/employees/leave-requests", req, &envelope); err != nil {
		return nil, err
	}
	return envelope.LeaveRequest, nil
}

func (c *Client) UpdateLeaveStatus(ctx context.Context, token, employeeID, leaveRequestID string, status LeaveStatus) (*LeaveRequest, error) {
	var envelope struct {
		LeaveRequest *LeaveRequest `json:"leaveRequest"`
	}
	path := fmt.Sprintf("/api/employees/leave-requests/%s/%s",
		url.PathEscape(employeeID), url.PathEscape(leaveRequestID))
	body := map[string]LeaveStatus{"status": status}
	if err := c.do(ctx, token, http.MethodPatch, path, body, &envelope); err != nil {
		return nil, err
	}
	return envelope.LeaveRequest, nil
}

// do performs one request against the backend. No retries: a failed read is
// rendered as unavailable by the caller and a failed write leaves prior
// state unchanged.
func (c *Client) do(ctx context.Context, token, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("hrapi: encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("hrapi: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.clientFor(token).Do(req)
	if err != nil {
		return fmt.Errorf("hrapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("hrapi: decode %s %s: %w", method, path, err)
	}
	return nil
}

// clientFor wraps the base HTTP client with a bearer-token transport when a
// token is present. oauth2's static source sets the Authorization header on
// every request it carries.
func (c *Client) clientFor(token string) *http.Client {
	if token == "" {
		return c.httpClient
	}
	return oauth2StaticClient(c.httpClient, token)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}
