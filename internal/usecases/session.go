package usecases

import (
	"context"

	"go.uber.org/zap"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
	"github.com/pro324test/store-sub001/pkg/logger"
)

// SessionState names the phase a client-held session is in
type SessionState string

const (
	StateAnonymous      SessionState = "ANONYMOUS"
	StateAuthenticating SessionState = "AUTHENTICATING"
	StateAuthenticated  SessionState = "AUTHENTICATED"
	StateRefreshing     SessionState = "REFRESHING"
)

// sessionTransition defines a valid state change and the event that causes it
type sessionTransition struct {
	From  SessionState
	To    SessionState
	Event string
}

// validSessionTransitions is the authoritative state machine definition. The
// single REFRESHING row out of AUTHENTICATED, with failure going straight to
// ANONYMOUS, is what makes "exactly one refresh attempt" structural: there is
// no edge from a failed refresh back into REFRESHING.
var validSessionTransitions = []sessionTransition{
	{From: StateAnonymous, To: StateAuthenticating, Event: "login"},
	{From: StateAnonymous, To: StateAuthenticating, Event: "register"},
	{From: StateAnonymous, To: StateAuthenticating, Event: "resume"},
	{From: StateAuthenticating, To: StateAuthenticated, Event: "credentials_ok"},
	{From: StateAuthenticating, To: StateAnonymous, Event: "credentials_rejected"},
	{From: StateAuthenticating, To: StateRefreshing, Event: "identity_stale"},
	{From: StateAuthenticated, To: StateRefreshing, Event: "access_expired"},
	{From: StateRefreshing, To: StateAuthenticated, Event: "rotated"},
	{From: StateRefreshing, To: StateAnonymous, Event: "rotation_failed"},
	{From: StateAuthenticated, To: StateAnonymous, Event: "logout"},
}

type sessionTransitionKey struct {
	From  SessionState
	To    SessionState
	Event string
}

var sessionTransitionMap = func() map[sessionTransitionKey]bool {
	m := make(map[sessionTransitionKey]bool)
	for _, t := range validSessionTransitions {
		m[sessionTransitionKey{t.From, t.To, t.Event}] = true
	}
	return m
}()

// Session is the explicit per-client session object. Callers hold one and
// pass it to each call site; there is no ambient current-user global.
type Session struct {
	auth *AuthUsecase

	state        SessionState
	user         *entities.User
	accessToken  string
	refreshToken string
}

// NewSession creates a session in the anonymous state
func NewSession(auth *AuthUsecase) *Session {
	return &Session{auth: auth, state: StateAnonymous}
}

// State returns the current session state
func (s *Session) State() SessionState { return s.state }

// User returns the authenticated user, or nil when anonymous
func (s *Session) User() *entities.User { return s.user }

// AccessToken returns the current access token, empty when anonymous
func (s *Session) AccessToken() string { return s.accessToken }

// RefreshToken returns the current refresh token, empty when anonymous
func (s *Session) RefreshToken() string { return s.refreshToken }

func (s *Session) transition(ctx context.Context, to SessionState, event string) {
	key := sessionTransitionKey{From: s.state, To: to, Event: event}
	if !sessionTransitionMap[key] {
		// The transition table is the contract; an invalid edge is a
		// programming error, logged loudly rather than silently applied.
		logger.Error(ctx, "invalid session transition",
			zap.String("from", string(s.state)),
			zap.String("to", string(to)),
			zap.String("event", event))
	}
	s.state = to
}

func (s *Session) establish(resp *entities.AuthResponse) {
	s.user = resp.User
	s.accessToken = resp.AccessToken
	s.refreshToken = resp.RefreshToken
}

func (s *Session) clear() {
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
}

// Login authenticates with phone and password
func (s *Session) Login(ctx context.Context, input *entities.LoginInput) error {
	s.transition(ctx, StateAuthenticating, "login")
	resp, err := s.auth.Login(ctx, input)
	if err != nil {
		s.transition(ctx, StateAnonymous, "credentials_rejected")
		s.clear()
		return err
	}
	s.establish(resp)
	s.transition(ctx, StateAuthenticated, "credentials_ok")
	return nil
}

// Register creates the account and authenticates in one step
func (s *Session) Register(ctx context.Context, input *entities.RegisterInput) error {
	s.transition(ctx, StateAuthenticating, "register")
	resp, err := s.auth.Register(ctx, input)
	if err != nil {
		s.transition(ctx, StateAnonymous, "credentials_rejected")
		s.clear()
		return err
	}
	s.establish(resp)
	s.transition(ctx, StateAuthenticated, "credentials_ok")
	return nil
}

// Resume rebuilds the session from stored tokens on process start. It tries
// to resolve the identity from the access token; on failure it attempts
// exactly one refresh rotation, and a rotation failure terminates in
// ANONYMOUS. There is no path from a failed rotation back to another attempt.
func (s *Session) Resume(ctx context.Context, accessToken, refreshToken string) error {
	s.transition(ctx, StateAuthenticating, "resume")
	s.accessToken = accessToken
	s.refreshToken = refreshToken

	user, err := s.auth.Me(ctx, accessToken)
	if err == nil {
		s.user = user
		s.transition(ctx, StateAuthenticated, "credentials_ok")
		return nil
	}

	s.transition(ctx, StateRefreshing, "identity_stale")

	pair, err := s.auth.RefreshTokens(ctx, refreshToken)
	if err != nil {
		s.transition(ctx, StateAnonymous, "rotation_failed")
		s.clear()
		return domainerrors.ErrUnauthorized
	}

	user, err = s.auth.Me(ctx, pair.AccessToken)
	if err != nil {
		s.transition(ctx, StateAnonymous, "rotation_failed")
		s.clear()
		return domainerrors.ErrUnauthorized
	}

	s.user = user
	s.accessToken = pair.AccessToken
	s.refreshToken = pair.RefreshToken
	s.transition(ctx, StateAuthenticated, "rotated")
	return nil
}

// Refresh rotates the token pair for an authenticated session. On failure
// the session falls back to anonymous; the caller must re-login.
func (s *Session) Refresh(ctx context.Context) error {
	s.transition(ctx, StateRefreshing, "access_expired")
	pair, err := s.auth.RefreshTokens(ctx, s.refreshToken)
	if err != nil {
		s.transition(ctx, StateAnonymous, "rotation_failed")
		s.clear()
		return err
	}
	s.accessToken = pair.AccessToken
	s.refreshToken = pair.RefreshToken
	s.transition(ctx, StateAuthenticated, "rotated")
	return nil
}

// Logout revokes the refresh token best-effort and always ends anonymous.
// Logging out an anonymous session is a no-op.
func (s *Session) Logout(ctx context.Context) {
	if s.state == StateAnonymous {
		return
	}
	s.auth.Logout(ctx, s.refreshToken)
	s.transition(ctx, StateAnonymous, "logout")
	s.clear()
}
