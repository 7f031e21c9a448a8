package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/clubstack/crm-cli/internal/domain"
	"github.com/clubstack/crm-cli/internal/ports"
)

// DefaultRefreshSkew is how close to expiry an access token may get before a
// proactive refresh kicks in.
const DefaultRefreshSkew = 30 * time.Second

// SessionService is the single source of truth for "is the user signed in"
// and the only component that mutates the session. Concurrent callers that
// hit an expired token all wait on one in-flight refresh; refresh tokens are
// single use on the server, so racing refreshes would invalidate each other.
type SessionService struct {
	api         ports.AuthAPI
	store       ports.TokenStore
	clock       ports.Clock
	logger      zerolog.Logger
	refreshSkew time.Duration

	mu       sync.RWMutex
	session  domain.Session
	restored bool

	group singleflight.Group
}

func NewSessionService(api ports.AuthAPI, store ports.TokenStore, clock ports.Clock, logger zerolog.Logger) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &SessionService{
		api:         api,
		store:       store,
		clock:       clock,
		logger:      logger,
		refreshSkew: DefaultRefreshSkew,
	}
}

// Current returns a snapshot of the in-memory session, if one is held.
func (s *SessionService) Current() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.session.HasTokens()
}

// Restored reports whether the silent startup restore has completed, in
// either direction.
func (s *SessionService) Restored() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restored
}

// Login exchanges credentials for a session. On any failure the prior state
// is left untouched; on success the new pair is persisted and adopted.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	session, err := s.api.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}

	if err := s.store.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("persist session: %w", err)
	}

	s.adopt(session)
	s.logger.Info().Str("user", session.User.Email).Msg("signed in")
	return session, nil
}

// Logout revokes the refresh token remotely on a best-effort basis and clears
// local state unconditionally, even when the remote call fails.
func (s *SessionService) Logout(ctx context.Context) error {
	session, ok := s.Current()
	if !ok {
		if loaded, err := s.store.Load(ctx); err == nil {
			session = loaded
		}
	}

	if session.RefreshToken != "" {
		if err := s.api.Logout(ctx, session.RefreshToken); err != nil {
			s.logger.Warn().Err(err).Msg("remote token revocation failed; clearing local session anyway")
		}
	}

	s.clear()
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear token store: %w", err)
	}

	s.logger.Info().Msg("signed out")
	return nil
}

// Restore silently resumes a persisted session on startup. A pair that is
// still comfortably valid is adopted as-is; an expiring one goes through a
// refresh before the user is ever declared unauthenticated.
func (s *SessionService) Restore(ctx context.Context) (domain.Session, error) {
	result, err, _ := s.group.Do("restore", func() (any, error) {
		defer s.markRestored()

		if session, ok := s.Current(); ok {
			return session, nil
		}

		session, err := s.store.Load(ctx)
		if err != nil {
			return domain.Session{}, err
		}

		if !session.ExpiringSoon(s.clock.Now(), s.refreshSkew) {
			s.adopt(session)
			return session, nil
		}

		// Joins the shared refresh flight, so a startup restore and a
		// 401-triggered refresh never race two exchanges of the same token.
		return s.Refresh(ctx, "")
	})
	if err != nil {
		return domain.Session{}, err
	}

	return result.(domain.Session), nil
}

// Refresh exchanges the refresh token for a new pair. Concurrent calls share
// one flight: a caller whose stale token was already replaced by the time it
// gets here resumes with the fresh session instead of issuing another
// exchange. A rejected token clears the session and signs the user out;
// transport failures leave the stored pair in place for a retry.
func (s *SessionService) Refresh(ctx context.Context, staleAccessToken string) (domain.Session, error) {
	result, err, _ := s.group.Do("refresh", func() (any, error) {
		current, ok := s.Current()
		if ok && staleAccessToken != "" && current.AccessToken != staleAccessToken {
			return current, nil
		}

		refreshToken := current.RefreshToken
		if refreshToken == "" {
			session, err := s.store.Load(ctx)
			if err != nil {
				return domain.Session{}, err
			}
			refreshToken = session.RefreshToken
		}

		return s.refreshWith(ctx, refreshToken)
	})
	if err != nil {
		return domain.Session{}, err
	}

	return result.(domain.Session), nil
}

// AccessToken returns a token expected to outlive the next request,
// restoring or refreshing as needed.
func (s *SessionService) AccessToken(ctx context.Context) (string, error) {
	session, ok := s.Current()
	if !ok {
		restored, err := s.Restore(ctx)
		if err != nil {
			return "", err
		}
		session = restored
	}

	if session.ExpiringSoon(s.clock.Now(), s.refreshSkew) {
		refreshed, err := s.Refresh(ctx, session.AccessToken)
		if err != nil {
			return "", err
		}
		session = refreshed
	}

	return session.AccessToken, nil
}

// WithAccessToken runs fn with a valid access token and absorbs a mid-flight
// expiry: on domain.ErrSessionExpired it refreshes once and retries once.
func (s *SessionService) WithAccessToken(ctx context.Context, fn func(ctx context.Context, accessToken string) error) error {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return err
	}

	err = fn(ctx, token)
	if err == nil || !errors.Is(err, domain.ErrSessionExpired) {
		return err
	}

	refreshed, refreshErr := s.Refresh(ctx, token)
	if refreshErr != nil {
		return refreshErr
	}

	return fn(ctx, refreshed.AccessToken)
}

func (s *SessionService) refreshWith(ctx context.Context, refreshToken string) (domain.Session, error) {
	session, err := s.api.Refresh(ctx, refreshToken)
	if err != nil {
		// Only a server rejection spends the pair. A transport failure may
		// never have reached the server, and the persisted tokens must stay
		// usable for a retry.
		if errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, domain.ErrInvalidCredentials) {
			s.clear()
			if clearErr := s.store.Clear(ctx); clearErr != nil {
				s.logger.Warn().Err(clearErr).Msg("clear token store after rejected refresh")
			}
		}
		return domain.Session{}, err
	}

	if err := s.store.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("persist refreshed session: %w", err)
	}

	s.adopt(session)
	s.logger.Debug().Time("expires_at", session.ExpiresAt).Msg("session refreshed")
	return session, nil
}

func (s *SessionService) adopt(session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.restored = true
}

func (s *SessionService) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = domain.Session{}
}

func (s *SessionService) markRestored() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restored = true
}
