package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/invoclear/go-extract-server/access"
	"github.com/invoclear/go-extract-server/extraction"
	"github.com/invoclear/go-extract-server/internal/config"
	"github.com/invoclear/go-extract-server/sessions"
	"github.com/invoclear/go-extract-server/trial"
	"github.com/invoclear/go-extract-server/users"
)

// Deps holds all collaborator dependencies for the Server.
type Deps struct {
	Credentials users.Repo         // administrative records, read-only here
	Sessions    *sessions.Store    // session lifecycle
	Trial       *trial.Codec       // caller-held trial counter codec
	Guard       *access.Guard      // per-request authorization
	Gateway     extraction.Gateway // outbound extraction call
}

type Server struct {
	env    string
	mux    *http.ServeMux
	routes []string
	config config.Config
	deps   Deps
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Credentials == nil {
		return nil, fmt.Errorf("[server.New] credentials repo is required")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("[server.New] session store is required")
	}
	if deps.Trial == nil {
		return nil, fmt.Errorf("[server.New] trial codec is required")
	}
	if deps.Guard == nil {
		return nil, fmt.Errorf("[server.New] access guard is required")
	}
	if deps.Gateway == nil {
		return nil, fmt.Errorf("[server.New] extraction gateway is required")
	}

	s := &Server{
		env:    cfg.GetEnv(),
		mux:    http.NewServeMux(),
		config: cfg,
		deps:   deps,
	}
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

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Info().Str("method", parts[0]).Str("path", parts[1]).Msg("route")
		} else {
			log.Info().Str("path", parts[0]).Msg("route")
		}
	}
}
