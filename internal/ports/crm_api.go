package ports

import (
	"context"

	"github.com/clubstack/crm-cli/internal/domain"
)

// AuthAPI is the remote authentication surface. Refresh and Login return a
// complete session; implementations map a rejected credential or refresh
// token to domain.ErrInvalidCredentials / domain.ErrSessionExpired.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Refresh(ctx context.Context, refreshToken string) (domain.Session, error)
	Logout(ctx context.Context, refreshToken string) error
}

// ExportAPI fetches raw rows for one module over a date range. The row shape
// is module-dependent and opaque to callers.
type ExportAPI interface {
	ExportRows(ctx context.Context, accessToken string, req domain.ExportRequest) ([]domain.ExportRow, error)
}

// AssistantAPI answers a free-text question over the caller's CRM data.
type AssistantAPI interface {
	Ask(ctx context.Context, accessToken, question string) (string, error)
}

// RecordsAPI fetches full detail records for the detail views.
type RecordsAPI interface {
	ContractByID(ctx context.Context, accessToken, id string) (domain.Contract, error)
	InvoiceByID(ctx context.Context, accessToken, id string) (domain.Invoice, error)
}
