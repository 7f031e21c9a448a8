package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// envelope is the ApiResponse wrapper used by every CRM endpoint.
type envelope struct {
	IsSuccess    bool            `json:"isSuccess"`
	Message      string          `json:"message"`
	Data         json.RawMessage `json:"data"`
	Errors       []string        `json:"errors"`
	ResponseCode int             `json:"responseCode"`
}

// ServerError is a business failure the server reported inside an envelope
// (isSuccess false). Data accompanying one must not be read.
type ServerError struct {
	Message      string
	Errors       []string
	ResponseCode int
}

func (e *ServerError) Error() string {
	message := strings.TrimSpace(e.Message)
	if message == "" && len(e.Errors) > 0 {
		message = strings.Join(e.Errors, "; ")
	}
	if message == "" {
		message = "the server reported an error"
	}
	return message
}

// decodeEnvelope unwraps an ApiResponse body and returns its data payload.
// A failed envelope becomes a *ServerError regardless of any data present.
func decodeEnvelope(payload []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}

	if !env.IsSuccess {
		return nil, &ServerError{
			Message:      env.Message,
			Errors:       env.Errors,
			ResponseCode: env.ResponseCode,
		}
	}

	return env.Data, nil
}

// decodeServerError recovers an envelope-shaped error from a non-2xx body.
// Returns nil when the body is not an envelope.
func decodeServerError(payload []byte, statusCode int) *ServerError {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil
	}
	if env.Message == "" && len(env.Errors) == 0 {
		return nil
	}

	responseCode := env.ResponseCode
	if responseCode == 0 {
		responseCode = statusCode
	}

	return &ServerError{
		Message:      env.Message,
		Errors:       env.Errors,
		ResponseCode: responseCode,
	}
}
