package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// LogoutHandler destroys the caller's session and clears the carrier.
// Always answers 200: logging out without a session is not an error.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := cookieValue(r, sessionCookieName)
		if err := s.deps.Sessions.Destroy(r.Context(), token); err != nil {
			log.Warn().Err(err).Msg("session destroy failed")
		}
		s.clearSessionCookie(w)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
