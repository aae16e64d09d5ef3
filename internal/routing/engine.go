package routing

import (
	"context"
	"fmt"
	"time"

	"session-gate/internal/token"
	"session-gate/pkg/logger"
)

// Zone identifies the destination a session is routed to.
type Zone int

const (
	// ZoneLogin sends the visitor to authenticate with the identity provider.
	ZoneLogin Zone = iota
	// ZoneApp admits the visitor into the application.
	ZoneApp
	// ZoneWaitlist parks an authenticated visitor who is not yet admitted.
	ZoneWaitlist
)

func (z Zone) String() string {
	switch z {
	case ZoneApp:
		return "app"
	case ZoneWaitlist:
		return "waitlist"
	default:
		return "login"
	}
}

// Client-facing routes for the two holding zones
const (
	WaitlistRoute = "/waitlist"
	LoginRoute    = "/login"
)

// DefaultLookupTimeout bounds a single allowlist lookup
const DefaultLookupTimeout = 2 * time.Second

// Outcome is the result of a routing decision. Token is non-empty only when
// a fresh session token was minted for this request.
type Outcome struct {
	Zone  Zone
	Token string
}

// Allowlist answers membership questions about admitted emails
type Allowlist interface {
	Contains(ctx context.Context, email string) (bool, error)
}

// Engine decides which zone a session belongs in. Every decision is a pure
// function of the presented token and a single allowlist answer; nothing is
// shared between requests.
type Engine struct {
	codec         *token.Codec
	allowlist     Allowlist
	log           *logger.Logger
	lookupTimeout time.Duration
}

// NewEngine creates a routing engine
func NewEngine(codec *token.Codec, allowlist Allowlist, log *logger.Logger, lookupTimeout time.Duration) *Engine {
	if lookupTimeout <= 0 {
		lookupTimeout = DefaultLookupTimeout
	}

	return &Engine{
		codec:         codec,
		allowlist:     allowlist,
		log:           log.WithComponent("routing"),
		lookupTimeout: lookupTimeout,
	}
}

// Decide routes a raw session token to a zone. A missing or untrusted token
// degrades toward ZoneLogin; the only error returned is a failure to mint a
// replacement token, which callers should surface as a server fault.
func (e *Engine) Decide(ctx context.Context, rawToken string) (*Outcome, error) {
	// No token at all: nothing to verify, nothing to mint.
	if rawToken == "" {
		e.log.Debug("no session token presented, routing to login")
		return &Outcome{Zone: ZoneLogin}, nil
	}

	// Trusted fast path: route straight off a verified claim without
	// touching the allowlist or minting anything.
	claims, status := e.codec.Verify(rawToken)
	if status == token.Verified {
		switch {
		case claims.Authenticated && claims.Valid:
			e.log.Debug("trusted session, routing to app")
			return &Outcome{Zone: ZoneApp}, nil
		case claims.Authenticated:
			e.log.Debug("trusted session without membership, routing to waitlist")
			return &Outcome{Zone: ZoneWaitlist}, nil
		default:
			// We never mint authenticated=false, but a claim saying so
			// still verifies; honor it rather than repair it.
			e.log.Debug("trusted unauthenticated session, routing to login")
			return &Outcome{Zone: ZoneLogin}, nil
		}
	}

	// Recovery: the token is foreign, tampered with or expired. The only
	// thing it is still good for is naming an email to look up.
	email, ok := token.ExtractEmail(rawToken)
	if !ok {
		e.log.Debug("%s token carries no email, routing to login", status)
		return &Outcome{Zone: ZoneLogin}, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	found, err := e.allowlist.Contains(lookupCtx, email)
	if err != nil {
		// Fail closed; a lookup error is never retried within a request.
		e.log.Error("allowlist lookup failed: %v", err)
		return &Outcome{Zone: ZoneLogin}, nil
	}

	minted, err := e.codec.Mint(true, found)
	if err != nil {
		return nil, fmt.Errorf("mint session token: %w", err)
	}

	if found {
		e.log.Debug("allowlisted session recovered, routing to app")
		return &Outcome{Zone: ZoneApp, Token: minted}, nil
	}

	e.log.Debug("authenticated session not on allowlist, routing to waitlist")
	return &Outcome{Zone: ZoneWaitlist, Token: minted}, nil
}
