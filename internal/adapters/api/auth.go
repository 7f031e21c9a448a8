package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clubstack/crm-cli/internal/domain"
	"github.com/clubstack/crm-cli/internal/ports"
)

var _ ports.AuthAPI = (*Client)(nil)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// authPayload is shared by the login and refresh endpoints. Some deployments
// wrap it in the ApiResponse envelope and some return it bare, so decoding
// probes for the envelope marker first.
type authPayload struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
	UserID       string `json:"userId"`
	ExpiresIn    int64  `json:"expiresIn"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.Session, error) {
	payload, err := c.roundTrip(ctx, http.MethodPost, "/auth/login", "", loginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return domain.Session{}, fmt.Errorf("%w: the server rejected this email and password", domain.ErrInvalidCredentials)
		}
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}

	session, err := c.sessionFromAuthBody(payload)
	if err != nil {
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}
	return session, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (domain.Session, error) {
	payload, err := c.roundTrip(ctx, http.MethodPost, "/auth/refresh", "", refreshRequest{
		RefreshToken: refreshToken,
	})
	if err != nil {
		var serverErr *ServerError
		if errors.As(err, &serverErr) {
			return domain.Session{}, fmt.Errorf("%w: %s", domain.ErrSessionExpired, serverErr.Error())
		}
		return domain.Session{}, fmt.Errorf("refresh session: %w", err)
	}

	session, err := c.sessionFromAuthBody(payload)
	if err != nil {
		return domain.Session{}, fmt.Errorf("refresh session: %w", err)
	}
	return session, nil
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	_, err := c.roundTrip(ctx, http.MethodPost, "/auth/logout", "", refreshRequest{
		RefreshToken: refreshToken,
	})
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (c *Client) sessionFromAuthBody(body []byte) (domain.Session, error) {
	data := json.RawMessage(body)

	var probe struct {
		IsSuccess *bool `json:"isSuccess"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && probe.IsSuccess != nil {
		unwrapped, err := decodeEnvelope(body)
		if err != nil {
			return domain.Session{}, err
		}
		data = unwrapped
	}

	var payload authPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.Session{}, fmt.Errorf("decode auth payload: %w", err)
	}
	if strings.TrimSpace(payload.Token) == "" || strings.TrimSpace(payload.RefreshToken) == "" {
		return domain.Session{}, errors.New("auth payload missing token pair")
	}

	session := domain.Session{
		AccessToken:  payload.Token,
		RefreshToken: payload.RefreshToken,
		User: domain.User{
			ID:        payload.UserID,
			Email:     payload.Email,
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
		},
	}

	if payload.ExpiresIn > 0 {
		session.ExpiresAt = c.now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	} else {
		session.ExpiresAt = accessTokenExpiry(payload.Token)
	}

	if session.User.Email == "" || session.User.ID == "" {
		fillIdentityFromToken(&session.User, payload.Token)
	}

	return session, nil
}

type accessTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// accessTokenExpiry recovers the expiry from the JWT exp claim when the auth
// endpoint omits expiresIn. The token is not verified here; the server
// remains the authority on validity.
func accessTokenExpiry(token string) time.Time {
	claims := &accessTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

func fillIdentityFromToken(user *domain.User, token string) {
	claims := &accessTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return
	}
	if user.Email == "" {
		user.Email = claims.Email
	}
	if user.ID == "" {
		user.ID = claims.Subject
	}
}
