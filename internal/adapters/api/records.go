package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/clubstack/crm-cli/internal/domain"
	"github.com/clubstack/crm-cli/internal/ports"
)

var _ ports.RecordsAPI = (*Client)(nil)

type contractPayload struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	ClientName string    `json:"clientName"`
	Value      float64   `json:"value"`
	Currency   string    `json:"currency"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes"`
}

type invoicePayload struct {
	ID         string     `json:"id"`
	Number     string     `json:"number"`
	ClientName string     `json:"clientName"`
	Amount     float64    `json:"amount"`
	Currency   string     `json:"currency"`
	IssuedAt   time.Time  `json:"issuedAt"`
	DueAt      time.Time  `json:"dueAt"`
	Status     string     `json:"status"`
	PaidAt     *time.Time `json:"paidAt"`
}

func (c *Client) ContractByID(ctx context.Context, accessToken, id string) (domain.Contract, error) {
	data, err := c.fetchRecord(ctx, accessToken, "/contracts/", id)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("fetch contract %s: %w", id, err)
	}

	var payload contractPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.Contract{}, fmt.Errorf("decode contract %s: %w", id, err)
	}

	return domain.Contract{
		ID:         payload.ID,
		Title:      payload.Title,
		ClientName: payload.ClientName,
		Value:      payload.Value,
		Currency:   payload.Currency,
		StartDate:  payload.StartDate,
		EndDate:    payload.EndDate,
		Status:     payload.Status,
		Notes:      payload.Notes,
	}, nil
}

func (c *Client) InvoiceByID(ctx context.Context, accessToken, id string) (domain.Invoice, error) {
	data, err := c.fetchRecord(ctx, accessToken, "/invoices/", id)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("fetch invoice %s: %w", id, err)
	}

	var payload invoicePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.Invoice{}, fmt.Errorf("decode invoice %s: %w", id, err)
	}

	return domain.Invoice{
		ID:         payload.ID,
		Number:     payload.Number,
		ClientName: payload.ClientName,
		Amount:     payload.Amount,
		Currency:   payload.Currency,
		IssuedAt:   payload.IssuedAt,
		DueAt:      payload.DueAt,
		Status:     payload.Status,
		PaidAt:     payload.PaidAt,
	}, nil
}

func (c *Client) fetchRecord(ctx context.Context, accessToken, pathPrefix, id string) (json.RawMessage, error) {
	payload, err := c.roundTrip(ctx, http.MethodGet, pathPrefix+url.PathEscape(id), accessToken, nil)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(payload)
}
