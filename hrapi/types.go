package hrapi

import "encoding/json"

// EmployeeStatus is the employment status of an employee record.
type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "active"
	StatusInactive EmployeeStatus = "inactive"
)

// LeaveStatus is the workflow state of a leave request.
// pending is the initial state; approved and rejected are terminal.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// Terminal reports whether no further transition is permitted from s.
func (s LeaveStatus) Terminal() bool {
	return s == LeaveApproved || s == LeaveRejected
}

// User is the identity record returned by the login endpoint.
//
// The backend is inconsistent about the id key: organization logins return
// "_id" while employee logins return "id". UnmarshalJSON normalizes both
// into ID so nothing downstream has to care.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string `json:"id"`
		MongoID  string `json:"_id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		FullName string `json:"fullName"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.ID = raw.ID
	if u.ID == "" {
		u.ID = raw.MongoID
	}
	u.Name = raw.Name
	if u.Name == "" {
		u.Name = raw.FullName
	}
	u.Email = raw.Email
	u.Role = raw.Role
	return nil
}

// DepartmentRef is the embedded department reference on an employee record.
type DepartmentRef struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

type Education struct {
	Degree       string `json:"degree"`
	Institution  string `json:"institution"`
	FieldOfStudy string `json:"fieldOfStudy"`
	StartYear    int    `json:"startYear"`
	EndYear      int    `json:"endYear"`
	Grade        string `json:"grade,omitempty"`
}

type WorkExperience struct {
	CompanyName      string   `json:"companyName"`
	Position         string   `json:"position"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Location         string   `json:"location,omitempty"`
}

type PersonalDetails struct {
	DateOfBirth            string           `json:"dateOfBirth,omitempty"`
	Gender                 string           `json:"gender,omitempty"`
	MaritalStatus          string           `json:"maritalStatus,omitempty"`
	Nationality            string           `json:"nationality,omitempty"`
	Address                *Address         `json:"address,omitempty"`
	LanguagesSpoken        []string         `json:"languagesSpoken,omitempty"`
	EducationHistory       []Education      `json:"educationHistory,omitempty"`
	PreviousWorkExperience []WorkExperience `json:"previousWorkExperience,omitempty"`
}

type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

type Contacts struct {
	Phone            []string          `json:"phone,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
}

// Employee is an employee directory record. Employees are never hard-deleted;
// departures flip Status to inactive.
type Employee struct {
	ID                string           `json:"_id"`
	Name              string           `json:"name"`
	Email             string           `json:"email"`
	Role              string           `json:"role,omitempty"`
	Position          string           `json:"position,omitempty"`
	Department        *DepartmentRef   `json:"department"`
	Status            EmployeeStatus   `json:"status"`
	AvatarURL         string           `json:"avatarUrl,omitempty"`
	Salary            int64            `json:"salary"`
	PerformanceReview string           `json:"performanceReview,omitempty"`
	PersonalDetails   *PersonalDetails `json:"personalDetails,omitempty"`
	Contacts          *Contacts        `json:"contacts,omitempty"`
}

type Department struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	EmployeeCount int    `json:"employeeCount,omitempty"`
}

type LeaveRequest struct {
	ID         string      `json:"_id"`
	EmployeeID string      `json:"employeeId,omitempty"`
	StartDate  string      `json:"startDate"`
	EndDate    string      `json:"endDate"`
	Reason     string      `json:"reason"`
	Status     LeaveStatus `json:"status"`
	CreatedAt  string      `json:"createdAt,omitempty"`
}

// LoginResult is the payload of a successful POST /api/users/login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateEmployeeRequest is the body of POST /api/users/create-employee.
type CreateEmployeeRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Salary     int64  `json:"salary"`
}

// UpdateEmployeeRequest is the body of PATCH /api/employees/{id}.
// Nil fields are omitted so the backend treats the update as partial.
type UpdateEmployeeRequest struct {
	Name            *string          `json:"name,omitempty"`
	Email           *string          `json:"email,omitempty"`
	Position        *string          `json:"position,omitempty"`
	Status          *EmployeeStatus  `json:"status,omitempty"`
	Salary          *int64           `json:"salary,omitempty"`
	PersonalDetails *PersonalDetails `json:"personalDetails,omitempty"`
	Contacts        *Contacts        `json:"contacts,omitempty"`
}

// CreateDepartmentRequest is the body of POST /api/departments.
type CreateDepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateLeaveRequest is the body of POST /api/employees/leave-requests.
// The owning employee is derived server-side from the bearer token.
type CreateLeaveRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}
