package application

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/clubstack/crm-cli/internal/domain"
	"github.com/clubstack/crm-cli/internal/ports"
)

// FallbackAnswer stands in for the assistant whenever the remote call fails
// or comes back without a usable answer.
const FallbackAnswer = "Sorry, I couldn't find an answer to that right now. Please try asking again."

// ChatService drives the AI Ideas assistant. The transcript is append-only
// and lives only for this process: the user's message stays visible whatever
// happens to the remote call, and nothing is retried automatically.
type ChatService struct {
	api      ports.AssistantAPI
	sessions *SessionService
	clock    ports.Clock
	newID    func() string

	mu         sync.Mutex
	transcript []domain.ChatMessage
}

func NewChatService(api ports.AssistantAPI, sessions *SessionService, clock ports.Clock) *ChatService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &ChatService{
		api:      api,
		sessions: sessions,
		clock:    clock,
		newID:    uuid.NewString,
	}
}

// Send appends the user's message optimistically, then awaits the remote
// answer. On success the assistant's reply is appended and returned; on any
// failure a fixed fallback message is appended instead and the error comes
// back for the caller's transient banner. The transcript is never rolled
// back.
func (c *ChatService) Send(ctx context.Context, text string) (domain.ChatMessage, error) {
	c.append(domain.ChatRoleUser, text)

	var answer string
	err := c.sessions.WithAccessToken(ctx, func(ctx context.Context, accessToken string) error {
		got, askErr := c.api.Ask(ctx, accessToken, text)
		if askErr != nil {
			return askErr
		}
		answer = got
		return nil
	})
	if err != nil {
		return c.append(domain.ChatRoleAssistant, FallbackAnswer), err
	}

	return c.append(domain.ChatRoleAssistant, answer), nil
}

// Transcript returns the ordered conversation so far.
func (c *ChatService) Transcript() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	transcript := make([]domain.ChatMessage, len(c.transcript))
	copy(transcript, c.transcript)
	return transcript
}

func (c *ChatService) append(role domain.ChatRole, content string) domain.ChatMessage {
	message := domain.ChatMessage{
		ID:        c.newID(),
		Role:      role,
		Content:   content,
		CreatedAt: c.clock.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript = append(c.transcript, message)
	return message
}
