package server

import (
	"net/http"
)

// Cookie names for the two credential carriers. Both are httpOnly and
// SameSite=None: the browser client lives on a different origin and sends
// them cross-site with credentials.
const (
	sessionCookieName = "ie_session"
	trialCookieName   = "ie_trial"
)

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		Path:     "/",
		MaxAge:   int(s.config.GetSessionTTL().Seconds()),
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func (s *Server) setTrialCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     trialCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		Path:     "/",
		MaxAge:   int(s.config.GetTrialTTL().Seconds()),
	})
}

// clearTrialCookie drops the anonymous counter entirely. Issued on login so
// the trial counter cannot resurrect across logout/relogin cycles; the next
// anonymous visit starts fresh at zero.
func (s *Server) clearTrialCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     trialCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
