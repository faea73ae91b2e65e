// Package access decides, per request, whether an extraction call may
// proceed and under which quota. The guard is stateless: it re-evaluates
// from scratch on every call and attaches any trial-counter mutation to the
// decision itself, never to a server-side store.
package access

import (
	"context"
	"errors"

	apperrors "github.com/invoclear/go-extract-server/internal/errors"
	"github.com/invoclear/go-extract-server/sessions"
	"github.com/invoclear/go-extract-server/trial"
)

// Mode says which quota a request was authorized under.
type Mode string

const (
	// ModeSession is account-level access: page count capped only by the
	// hard global maximum.
	ModeSession Mode = "session"

	// ModeTrial is anonymous access: one page per call, counted against
	// the caller-held trial token.
	ModeTrial Mode = "trial"
)

const trialMaxPages = 1

var (
	ErrTrialExhausted = errors.New("trial exhausted")
	ErrTrialPageLimit = errors.New("trial allows a single page per request")
	ErrTooManyPages   = errors.New("too many pages")
)

// Decision is the outcome of a successful authorization.
type Decision struct {
	Mode    Mode
	Session *sessions.Session // set when Mode == ModeSession

	// TrialCount and NextToken are set when Mode == ModeTrial: NextToken
	// is the re-signed counter (already incremented) that must ride the
	// outgoing response.
	TrialCount int
	NextToken  string
}

// Guard composes the session store and the trial codec.
type Guard struct {
	sessions *sessions.Store
	trial    *trial.Codec
	maxPages int
}

func NewGuard(sessionStore *sessions.Store, trialCodec *trial.Codec, maxPages int) (*Guard, error) {
	if sessionStore == nil {
		return nil, errors.New("[access.NewGuard] session store is required")
	}
	if trialCodec == nil {
		return nil, errors.New("[access.NewGuard] trial codec is required")
	}
	if maxPages < 1 {
		return nil, errors.New("[access.NewGuard] maxPages must be positive")
	}
	return &Guard{sessions: sessionStore, trial: trialCodec, maxPages: maxPages}, nil
}

// Authorize runs the per-request state machine: session check, then trial
// check, then payload validation. pageCount is the number of images/pages in
// the request. Rejections carry one of the package error values; rejected
// requests mutate nothing.
func (g *Guard) Authorize(ctx context.Context, sessionToken, trialToken string, pageCount int) (Decision, error) {
	session, err := g.sessions.Lookup(ctx, sessionToken)
	if err != nil && !errors.Is(err, apperrors.ErrSessionNotFound) {
		return Decision{}, err
	}

	if session != nil {
		if pageCount > g.maxPages {
			return Decision{}, ErrTooManyPages
		}
		return Decision{Mode: ModeSession, Session: session}, nil
	}

	count := g.trial.Read(trialToken)
	if g.trial.Exceeded(count) {
		return Decision{}, ErrTrialExhausted
	}
	if pageCount > g.maxPages {
		return Decision{}, ErrTooManyPages
	}
	if pageCount > trialMaxPages {
		return Decision{}, ErrTrialPageLimit
	}

	next, err := g.trial.Issue(count + 1)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Mode: ModeTrial, TrialCount: count + 1, NextToken: next}, nil
}

// MaxPages returns the hard global page ceiling.
func (g *Guard) MaxPages() int {
	return g.maxPages
}
