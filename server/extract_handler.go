package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/invoclear/go-extract-server/access"
	"github.com/invoclear/go-extract-server/extraction"
)

const maxMultipartMemory = 32 << 20

// ExtractHandler guards and forwards an extraction request. The multipart
// form carries repeated "images" fields (data URLs produced client-side)
// and an optional "text" field.
func (s *Server) ExtractHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_form", "malformed multipart form")
			return
		}
		images := r.MultipartForm.Value["images"]
		text := r.FormValue("text")
		if len(images) == 0 && text == "" {
			writeError(w, http.StatusBadRequest, "missing_fields", "at least one image or a text field is required")
			return
		}

		decision, err := s.deps.Guard.Authorize(r.Context(),
			cookieValue(r, sessionCookieName),
			cookieValue(r, trialCookieName),
			len(images))
		if err != nil {
			s.writeGuardError(w, err)
			return
		}

		// Trial responses always carry the incremented counter, whether or
		// not the upstream call below succeeds.
		if decision.Mode == access.ModeTrial {
			s.setTrialCookie(w, decision.NextToken)
		}

		result, err := s.deps.Gateway.Extract(r.Context(), extraction.Request{
			Images: images,
			Text:   text,
		})
		if err != nil {
			s.writeUpstreamError(w, err)
			return
		}
		writeRawJSON(w, http.StatusOK, result)
	}
}

func (s *Server) writeGuardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, access.ErrTrialExhausted):
		writeError(w, http.StatusTooManyRequests, "trial_exhausted", "free trial exhausted, please log in")
	case errors.Is(err, access.ErrTrialPageLimit):
		writeError(w, http.StatusForbidden, "trial_one_page_only", "trial mode allows a single page per request, please log in")
	case errors.Is(err, access.ErrTooManyPages):
		writeError(w, http.StatusBadRequest, "too_many_pages",
			fmt.Sprintf("a request may contain at most %d pages", s.deps.Guard.MaxPages()))
	default:
		log.Error().Err(err).Msg("access guard failure")
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) writeUpstreamError(w http.ResponseWriter, err error) {
	var upstream *extraction.UpstreamError
	switch {
	case errors.Is(err, extraction.ErrUpstreamTimeout):
		writeError(w, http.StatusBadGateway, "upstream_timeout", "extraction service timed out")
	case errors.As(err, &upstream):
		writeError(w, http.StatusBadGateway, "upstream_error",
			fmt.Sprintf("extraction service returned status %d: %s", upstream.Status, upstream.Body))
	case errors.Is(err, extraction.ErrMalformedUpstream):
		writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
	default:
		log.Error().Err(err).Msg("extraction call failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
