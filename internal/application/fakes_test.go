package application

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/clubstack/crm-cli/internal/domain"
)

type fakeAuthAPI struct {
	loginFn   func(ctx context.Context, email, password string) (domain.Session, error)
	refreshFn func(ctx context.Context, refreshToken string) (domain.Session, error)
	logoutFn  func(ctx context.Context, refreshToken string) error

	loginCalls   atomic.Int32
	refreshCalls atomic.Int32
	logoutCalls  atomic.Int32
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (domain.Session, error) {
	f.loginCalls.Add(1)
	return f.loginFn(ctx, email, password)
}

func (f *fakeAuthAPI) Refresh(ctx context.Context, refreshToken string) (domain.Session, error) {
	f.refreshCalls.Add(1)
	return f.refreshFn(ctx, refreshToken)
}

func (f *fakeAuthAPI) Logout(ctx context.Context, refreshToken string) error {
	f.logoutCalls.Add(1)
	if f.logoutFn == nil {
		return nil
	}
	return f.logoutFn(ctx, refreshToken)
}

type memTokenStore struct {
	mu      sync.Mutex
	session domain.Session
	held    bool

	saveErr    error
	saveCalls  int
	clearCalls int
}

func (s *memTokenStore) Load(context.Context) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.held {
		return domain.Session{}, domain.ErrNoSession
	}
	return s.session, nil
}

func (s *memTokenStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.session = session
	s.held = true
	return nil
}

func (s *memTokenStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCalls++
	s.session = domain.Session{}
	s.held = false
	return nil
}

func (s *memTokenStore) snapshot() (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, s.held
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type fakeExportAPI struct {
	rowsFn func(ctx context.Context, accessToken string, req domain.ExportRequest) ([]domain.ExportRow, error)
	calls  atomic.Int32

	mu      sync.Mutex
	lastReq domain.ExportRequest
}

func (f *fakeExportAPI) ExportRows(ctx context.Context, accessToken string, req domain.ExportRequest) ([]domain.ExportRow, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastReq = req
	f.mu.Unlock()
	return f.rowsFn(ctx, accessToken, req)
}

func (f *fakeExportAPI) last() domain.ExportRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

type fakeAssistantAPI struct {
	askFn func(ctx context.Context, accessToken, question string) (string, error)
	calls atomic.Int32
}

func (f *fakeAssistantAPI) Ask(ctx context.Context, accessToken, question string) (string, error) {
	f.calls.Add(1)
	return f.askFn(ctx, accessToken, question)
}

func validSession(now time.Time) domain.Session {
	return domain.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         domain.User{ID: "user-9", Email: "ada@club.example"},
		ExpiresAt:    now.Add(time.Hour),
	}
}
