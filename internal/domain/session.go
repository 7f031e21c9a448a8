package domain

import (
	"strings"
	"time"
)

type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Session is the authenticated user's current token pair and identity.
// Only the session service mutates it; everything else gets copies.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         User
	ExpiresAt    time.Time
}

func (s Session) HasTokens() bool {
	return strings.TrimSpace(s.AccessToken) != "" && strings.TrimSpace(s.RefreshToken) != ""
}

// ExpiringSoon reports whether the access token expires within skew of now.
// Sessions without a known expiry are never treated as expiring.
func (s Session) ExpiringSoon(now time.Time, skew time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !s.ExpiresAt.After(now.Add(skew))
}
