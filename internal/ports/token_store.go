package ports

import (
	"context"

	"github.com/clubstack/crm-cli/internal/domain"
)

// TokenStore persists the current session between process runs. Save replaces
// the whole session atomically: a reader never observes an access token from
// one pair next to a refresh token from another.
type TokenStore interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}
