package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/staffdesk/staffdesk/ai"
	"github.com/staffdesk/staffdesk/directory"
	"github.com/staffdesk/staffdesk/hrapi"
	"github.com/staffdesk/staffdesk/internal/config"
	"github.com/staffdesk/staffdesk/leave"
	"github.com/staffdesk/staffdesk/sessions"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config

	api       hrapi.API
	sessions  *sessions.Manager
	directory *directory.Service
	leave     *leave.Service
	flows     ai.Flows
}

func New(config config.Config, api hrapi.API, flows ai.Flows) (*Server, error) {
	directoryService, err := directory.NewService(api)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create directory service: %w", err)
	}
	leaveService, err := leave.NewService(api)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create leave service: %w", err)
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    config,
		api:       api,
		sessions:  sessions.NewManager(config.GetSessionTTL()),
		directory: directoryService,
		leave:     leaveService,
		flows:     flows,
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
