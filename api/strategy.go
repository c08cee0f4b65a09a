package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jmcleod/gatehouse/auth"
	"github.com/jmcleod/gatehouse/session"
)

// errNoCredentials signals that a request carried no usable credential at
// all, as opposed to carrying one that failed to verify.
var errNoCredentials = errors.New("no credentials provided")

// Strategy decides how requests are authenticated and how login sessions
// are issued and revoked.
//
// ResolveIdentity returns errNoCredentials when the request carries no
// credential, auth.ErrNotFound when the credential does not verify, and
// other errors for storage faults. CreateSession returns the session id to
// hand to the client, or "" for stateless strategies. DestroySession
// returns auth.ErrNotFound when the request has no active session.
type Strategy interface {
	ResolveIdentity(ctx context.Context, r *http.Request) (*auth.User, error)
	CreateSession(ctx context.Context, user *auth.User) (string, error)
	DestroySession(ctx context.Context, r *http.Request) error
}

// BasicStrategy authenticates every request from its Authorization header.
// No session state is kept.
type BasicStrategy struct {
	svc *auth.Service
}

var _ Strategy = (*BasicStrategy)(nil)

// NewBasicStrategy creates a BasicStrategy backed by svc.
func NewBasicStrategy(svc *auth.Service) *BasicStrategy {
	return &BasicStrategy{svc: svc}
}

func (s *BasicStrategy) ResolveIdentity(ctx context.Context, r *http.Request) (*auth.User, error) {
	payload, ok := auth.ExtractBasicPayload(r.Header.Get("Authorization"))
	if !ok {
		return nil, errNoCredentials
	}
	decoded, ok := auth.DecodeBasicPayload(payload)
	if !ok {
		return nil, fmt.Errorf("authorization header: %w", auth.ErrNotFound)
	}
	email, password, ok := auth.SplitCredentials(decoded)
	if !ok {
		return nil, fmt.Errorf("authorization header: %w", auth.ErrNotFound)
	}
	return s.svc.UserByCredentials(ctx, email, password)
}

func (s *BasicStrategy) CreateSession(ctx context.Context, user *auth.User) (string, error) {
	return "", nil
}

func (s *BasicStrategy) DestroySession(ctx context.Context, r *http.Request) error {
	return fmt.Errorf("no session to destroy: %w", auth.ErrNotFound)
}

// SessionStrategy authenticates requests from a session cookie resolved
// against an injected session store.
type SessionStrategy struct {
	svc        *auth.Service
	store      session.Store
	cookieName string
}

var _ Strategy = (*SessionStrategy)(nil)

// NewSessionStrategy creates a SessionStrategy using the given store and
// session cookie name.
func NewSessionStrategy(svc *auth.Service, store session.Store, cookieName string) *SessionStrategy {
	return &SessionStrategy{svc: svc, store: store, cookieName: cookieName}
}

func (s *SessionStrategy) ResolveIdentity(ctx context.Context, r *http.Request) (*auth.User, error) {
	sid, ok := sessionCookie(r, s.cookieName)
	if !ok {
		return nil, errNoCredentials
	}
	userID, ok := s.store.Lookup(sid)
	if !ok {
		return nil, fmt.Errorf("session %q: %w", sid, auth.ErrNotFound)
	}
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("session %q: malformed user id: %w", sid, auth.ErrNotFound)
	}
	return s.svc.UserByID(ctx, id)
}

func (s *SessionStrategy) CreateSession(ctx context.Context, user *auth.User) (string, error) {
	sid, ok := s.store.Create(strconv.FormatInt(user.ID, 10))
	if !ok {
		return "", fmt.Errorf("creating session: %w", auth.ErrInvalidArgument)
	}
	return sid, nil
}

func (s *SessionStrategy) DestroySession(ctx context.Context, r *http.Request) error {
	sid, ok := sessionCookie(r, s.cookieName)
	if !ok {
		return fmt.Errorf("no session cookie: %w", auth.ErrNotFound)
	}
	if !s.store.Destroy(sid) {
		return fmt.Errorf("session %q: %w", sid, auth.ErrNotFound)
	}
	return nil
}

// ServiceStrategy authenticates requests from a session cookie resolved
// through the auth service, which keeps the session id on the user record.
type ServiceStrategy struct {
	svc        *auth.Service
	cookieName string
}

var _ Strategy = (*ServiceStrategy)(nil)

// NewServiceStrategy creates a ServiceStrategy using the given session
// cookie name.
func NewServiceStrategy(svc *auth.Service, cookieName string) *ServiceStrategy {
	return &ServiceStrategy{svc: svc, cookieName: cookieName}
}

func (s *ServiceStrategy) ResolveIdentity(ctx context.Context, r *http.Request) (*auth.User, error) {
	sid, ok := sessionCookie(r, s.cookieName)
	if !ok {
		return nil, errNoCredentials
	}
	return s.svc.ResolveSession(ctx, sid)
}

func (s *ServiceStrategy) CreateSession(ctx context.Context, user *auth.User) (string, error) {
	return s.svc.CreateSession(ctx, user.Email)
}

func (s *ServiceStrategy) DestroySession(ctx context.Context, r *http.Request) error {
	sid, ok := sessionCookie(r, s.cookieName)
	if !ok {
		return fmt.Errorf("no session cookie: %w", auth.ErrNotFound)
	}
	user, err := s.svc.ResolveSession(ctx, sid)
	if err != nil {
		return err
	}
	return s.svc.DestroySession(ctx, user.ID)
}

// sessionCookie extracts the session id from the request cookie with the
// given name. An unset cookie name never matches.
func sessionCookie(r *http.Request, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
