package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/invoclear/go-extract-server/internal/errors"
	"github.com/invoclear/go-extract-server/users"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	OK       bool   `json:"ok"`
	Username string `json:"username"`
}

// LoginHandler validates credentials and issues a session. Every failed
// check except an expired account collapses to the same invalid_credentials
// outcome so callers cannot enumerate accounts; the real cause is only
// logged.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "missing_fields", "username and password are required")
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "missing_fields", "username and password are required")
			return
		}

		credential, err := s.deps.Credentials.Get(r.Context(), req.Username)
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrNotFound) {
				log.Error().Err(err).Msg("credential lookup failed")
			}
			s.rejectLogin(w, req.Username, "unknown user")
			return
		}
		if credential.Disabled() {
			s.rejectLogin(w, req.Username, "account disabled")
			return
		}
		if credential.Expired(time.Now()) {
			log.Info().Str("username", req.Username).Msg("login rejected: account expired")
			writeError(w, http.StatusForbidden, "account_expired", "account has expired")
			return
		}
		if !users.VerifyPassword(req.Password, credential) {
			s.rejectLogin(w, req.Username, "password mismatch")
			return
		}

		session, err := s.deps.Sessions.Create(r.Context(), credential.Username, credential.Roles)
		if err != nil {
			log.Error().Err(err).Msg("session creation failed")
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to create session")
			return
		}

		s.setSessionCookie(w, session.Token)
		s.clearTrialCookie(w)
		writeJSON(w, http.StatusOK, loginResponse{OK: true, Username: credential.Username})
	}
}

func (s *Server) rejectLogin(w http.ResponseWriter, username, cause string) {
	log.Info().Str("username", username).Str("cause", cause).Msg("login rejected")
	writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
}
