package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Public routes
	RouteLogin    = "/login"
	RouteRegister = "/register"

	// Logout routes - each clears exactly one session kind
	RouteLogout         = "/logout"
	RouteEmployeeLogout = "/employee/logout"

	// Organization routes
	RouteDashboard        = "/dashboard"
	RouteEmployees        = "/employees"
	RouteEmployeeNew      = "/employees/new"
	RouteEmployeeDraft    = "/employees/draft"
	RouteEmployeeDetail   = "/employees/{id}"
	RouteEmployeeEdit     = "/employees/{id}/edit"
	RouteEmployeeFeedback = "/employees/{id}/feedback-summary"
	RouteLeaveDecision    = "/employees/{employeeID}/leave/{leaveRequestID}"
	RouteDepartments      = "/departments"

	// Employee routes
	RouteProfile = "/profile"
	RouteLeave   = "/leave"
)
