// Package leave owns the leave-request workflow: employees submit requests,
// organization actors decide them. The state machine is small and strict:
// pending is the only initial state, approved and rejected are terminal, and
// a terminal record never transitions again.
package leave

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/staffdesk/staffdesk/hrapi"
	errs "github.com/staffdesk/staffdesk/internal/errors"
	"github.com/staffdesk/staffdesk/sessions"
)

// Service enforces the approval workflow and visibility rules on top of the
// backend, which stores the records and arbitrates concurrent writes.
type Service struct {
	api hrapi.API
}

func NewService(api hrapi.API) (*Service, error) {
	if api == nil {
		return nil, errors.New("[leave NewService] api client is required")
	}
	return &Service{api: api}, nil
}

// SubmitInput carries the employee-supplied fields of a new request. The
// owning employee is never part of the input: it is derived from the session.
type SubmitInput struct {
	StartDate string
	EndDate   string
	Reason    string
}

// Submit creates a new pending leave request attributed to the session's
// employee identity. Validation failures are reported before any network
// call is made.
func (s *Service) Submit(ctx context.Context, session *sessions.Session, in SubmitInput) (*hrapi.LeaveRequest, error) {
	if session == nil || session.Kind != sessions.KindEmployee {
		return nil, errs.ErrUnauthorized
	}

	var missing []string
	if strings.TrimSpace(in.StartDate) == "" {
		missing = append(missing, "start date")
	}
	if strings.TrimSpace(in.EndDate) == "" {
		missing = append(missing, "end date")
	}
	if strings.TrimSpace(in.Reason) == "" {
		missing = append(missing, "reason")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s required", errs.ErrValidation, strings.Join(missing, ", "))
	}

	start, err := parseDate(in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date", errs.ErrValidation)
	}
	end, err := parseDate(in.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date", errs.ErrValidation)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date cannot be after end date", errs.ErrValidation)
	}

	created, err := s.api.CreateLeaveRequest(ctx, session.Token, hrapi.CreateLeaveRequest{
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Reason:    strings.TrimSpace(in.Reason),
	})
	if err != nil {
		return nil, errors.Wrap(err, "[Submit] create leave request")
	}
	return created, nil
}

// Decide transitions a pending request to approved or rejected. Only an
// organization session may decide, and the current state is re-checked
// server-side: the UI hiding decision buttons on terminal records is a
// convenience, not a security boundary.
func (s *Service) Decide(ctx context.Context, session *sessions.Session, employeeID, leaveRequestID string, status hrapi.LeaveStatus) (*hrapi.LeaveRequest, error) {
	if session == nil || session.Kind != sessions.KindOrganization {
		return nil, errs.ErrUnauthorized
	}
	if employeeID == "" || leaveRequestID == "" {
		return nil, fmt.Errorf("%w: employee and leave request ids required", errs.ErrValidation)
	}
	if status != hrapi.LeaveApproved && status != hrapi.LeaveRejected {
		return nil, fmt.Errorf("%w: status must be approved or rejected", errs.ErrValidation)
	}

	current, err := s.find(ctx, session.Token, employeeID, leaveRequestID)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, fmt.Errorf("%w: leave request already %s", errs.ErrInvalidState, current.Status)
	}

	updated, err := s.api.UpdateLeaveStatus(ctx, session.Token, employeeID, leaveRequestID, status)
	if err != nil {
		return nil, errors.Wrap(err, "[Decide] update leave status")
	}
	return updated, nil
}

// List returns leave requests scoped to the caller. An employee session
// only ever sees its own records regardless of the employeeID argument; an
// organization session may list any employee's records.
func (s *Service) List(ctx context.Context, session *sessions.Session, employeeID string) ([]hrapi.LeaveRequest, error) {
	if session == nil {
		return nil, errs.ErrUnauthorized
	}

	switch session.Kind {
	case sessions.KindEmployee:
		// Identity comes from the validated session, never the caller.
		employeeID = session.User.ID
	case sessions.KindOrganization:
		if employeeID == "" {
			return nil, fmt.Errorf("%w: employee id required", errs.ErrValidation)
		}
	default:
		return nil, errs.ErrUnauthorized
	}

	list, err := s.api.ListLeaveRequests(ctx, session.Token, employeeID)
	if err != nil {
		return nil, errors.Wrap(err, "[List] list leave requests")
	}
	return list, nil
}

func (s *Service) find(ctx context.Context, token, employeeID, leaveRequestID string) (*hrapi.LeaveRequest, error) {
	list, err := s.api.ListLeaveRequests(ctx, token, employeeID)
	if err != nil {
		return nil, errors.Wrap(err, "[Decide] fetch current state")
	}
	for i := range list {
		if list[i].ID == leaveRequestID {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("%w: leave request %s", errs.ErrNotFound, leaveRequestID)
}

// parseDate accepts the two formats the forms produce: a plain date and a
// full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
