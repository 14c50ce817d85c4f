package server

import (
	"github.com/staffdesk/staffdesk/sessions"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleware()...))

	// LOGIN / REGISTER
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginSubmitHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteRegister, ChainMiddleware(s.RegisterPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteRegister, ChainMiddleware(s.RegisterSubmitHandler(), s.HTMLMiddleware()...))

	// LOGOUT - one route per session kind, each clears only its own cookies
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(sessions.KindOrganization), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteEmployeeLogout, ChainMiddleware(s.LogoutHandler(sessions.KindEmployee), s.HTMLMiddleware()...))

	// Organization routes (require an organization session)
	org := s.RequireSession(sessions.KindOrganization)
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleware(org)...))
	s.RegisterRouteHandler("GET "+RouteEmployees, ChainMiddleware(s.EmployeesHandler(), s.HTMLMiddleware(org)...))
	s.RegisterRouteHandler("GET "+RouteEmployeeNew, ChainMiddleware(s.EmployeeNewHandler(), s.HTMLMiddleware(org)...))
	s.RegisterRouteHandler("POST "+RouteEmployees, ChainMiddleware(s.EmployeeCreateHandler(), s.HTMLMiddleware(org)...))
	s.RegisterRouteHandler("POST "+RouteEmployeeDraft, ChainMiddleware(s.EmployeeDraftHandler(), s.HTMLMiddleware(org)...))
	s.RegisterRouteHandler("GET "+RouteEmployeeDetail, ChainMiddleware(s.EmployeeDetailHandler(), s.HTMLMiddleware(org)...))
	s.RegisterRouteHandler("GET "+RouteEmployeeEdit, ChainMiddleware(s.EmployeeEditHandler(), s.HTMLMiddleware(org)...))
	s.RegisterRouteHandler("POST "+RouteEmployeeDetail, ChainMiddleware(s.EmployeeUpdateHandler(), s.HTMLMiddleware(org)...))
	s.RegisterRouteHandler("POST "+RouteEmployeeFeedback, ChainMiddleware(s.FeedbackSummaryHandler(), s.HTMLMiddleware(org)...))
	s.RegisterRouteHandler("POST "+RouteLeaveDecision, ChainMiddleware(s.LeaveDecideHandler(), s.HTMLMiddleware(org)...))
	s.RegisterRouteHandler("GET "+RouteDepartments, ChainMiddleware(s.DepartmentsHandler(), s.HTMLMiddleware(org)...))
	s.RegisterRouteHandler("POST "+RouteDepartments, ChainMiddleware(s.DepartmentCreateHandler(), s.HTMLMiddleware(org)...))

	// Employee routes (require an employee session)
	employee := s.RequireSession(sessions.KindEmployee)
	s.RegisterRouteHandler("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), s.HTMLMiddleware(employee)...))
	s.RegisterRouteHandler("GET "+RouteLeave, ChainMiddleware(s.LeavePageHandler(), s.HTMLMiddleware(employee)...))
	s.RegisterRouteHandler("POST "+RouteLeave, ChainMiddleware(s.LeaveSubmitHandler(), s.HTMLMiddleware(employee)...))
}
