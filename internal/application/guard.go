package application

import (
	"context"
	"errors"

	"github.com/clubstack/crm-cli/internal/domain"
)

type GuardState string

const (
	GuardChecking        GuardState = "checking"
	GuardAuthenticated   GuardState = "authenticated"
	GuardUnauthenticated GuardState = "unauthenticated"
)

// Guard gates protected commands on authentication state. It never declares
// the user unauthenticated while a restore or refresh could still confirm a
// persisted session: Resolve awaits the actual in-flight operation instead of
// guessing with a delay.
type Guard struct {
	sessions *SessionService
}

func NewGuard(sessions *SessionService) *Guard {
	return &Guard{sessions: sessions}
}

// Peek reports the state without blocking. Before the startup restore has
// finished the answer is GuardChecking.
func (g *Guard) Peek() GuardState {
	if _, ok := g.sessions.Current(); ok {
		return GuardAuthenticated
	}
	if !g.sessions.Restored() {
		return GuardChecking
	}
	return GuardUnauthenticated
}

// Resolve settles the state, waiting on the silent restore when tokens may
// still be usable. Unauthenticated is returned only once no usable tokens
// remain; transport failures surface as errors so the caller can retry
// rather than bounce a possibly valid session to sign-in.
func (g *Guard) Resolve(ctx context.Context) (GuardState, error) {
	if _, ok := g.sessions.Current(); ok {
		return GuardAuthenticated, nil
	}

	_, err := g.sessions.Restore(ctx)
	if err == nil {
		return GuardAuthenticated, nil
	}
	if errors.Is(err, domain.ErrNoSession) || errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, domain.ErrInvalidCredentials) {
		return GuardUnauthenticated, nil
	}

	return GuardChecking, err
}
