package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/clubstack/crm-cli/internal/domain"
	"github.com/clubstack/crm-cli/internal/ports"
)

var _ ports.AssistantAPI = (*Client)(nil)

type askRequest struct {
	Query string `json:"query"`
}

type askPayload struct {
	Answer string `json:"answer"`
}

func (c *Client) Ask(ctx context.Context, accessToken, question string) (string, error) {
	payload, err := c.roundTrip(ctx, http.MethodPost, "/ai/ask", accessToken, askRequest{
		Query: question,
	})
	if err != nil {
		return "", fmt.Errorf("ask assistant: %w", err)
	}

	data, err := decodeEnvelope(payload)
	if err != nil {
		return "", err
	}

	var answer askPayload
	if err := json.Unmarshal(data, &answer); err != nil {
		return "", fmt.Errorf("decode assistant answer: %w", err)
	}
	if strings.TrimSpace(answer.Answer) == "" {
		return "", domain.ErrNoAnswer
	}

	return answer.Answer, nil
}
