package toml

import (
	"fmt"
	"time"

	"github.com/clubstack/crm-cli/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version int           `toml:"version"`
	Session sessionSchema `toml:"session"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type sessionSchema struct {
	AccessToken  string     `toml:"access_token"`
	RefreshToken string     `toml:"refresh_token"`
	ExpiresAt    string     `toml:"expires_at,omitempty"`
	User         userSchema `toml:"user"`
}

type userSchema struct {
	ID        string `toml:"id"`
	Email     string `toml:"email"`
	FirstName string `toml:"first_name,omitempty"`
	LastName  string `toml:"last_name,omitempty"`
}

func toSchema(session domain.Session) sessionSchema {
	encoded := sessionSchema{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User: userSchema{
			ID:        session.User.ID,
			Email:     session.User.Email,
			FirstName: session.User.FirstName,
			LastName:  session.User.LastName,
		},
	}
	if !session.ExpiresAt.IsZero() {
		encoded.ExpiresAt = session.ExpiresAt.Format(time.RFC3339Nano)
	}

	return encoded
}

func fromSchema(encoded sessionSchema) domain.Session {
	session := domain.Session{
		AccessToken:  encoded.AccessToken,
		RefreshToken: encoded.RefreshToken,
		User: domain.User{
			ID:        encoded.User.ID,
			Email:     encoded.User.Email,
			FirstName: encoded.User.FirstName,
			LastName:  encoded.User.LastName,
		},
	}
	if encoded.ExpiresAt != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, encoded.ExpiresAt); err == nil {
			session.ExpiresAt = parsed
		}
	}

	return session
}
