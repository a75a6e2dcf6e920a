package advisor

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyMessage is returned by Chat.Send for blank input.
var ErrEmptyMessage = errors.New("message is empty")

// IntroMessage opens every chat.
const IntroMessage = "Cheers. I'm your AI Impulse Coach. Ask me anything, or let me talk you out of your next purchase."

const (
	chatFallback = "I'm speechless. (Error)"
	chatApology  = "My brain is on a tea break. (API Error or Missing Key)"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one entry of a chat transcript.
type Message struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Chat is a conversation with the assistant persona. Sends on one Chat are
// serialized so the transcript keeps question/answer order.
type Chat struct {
	session ChatSession
	newID   func() string

	mu      sync.Mutex
	history []Message
}

// NewChat starts a conversation. When the backend is missing or refuses to
// open a session the chat still works but every reply is an apology.
func (a *Advisor) NewChat(ctx context.Context) *Chat {
	c := &Chat{
		newID:   uuid.NewString,
		history: []Message{{ID: "intro", Role: RoleModel, Text: IntroMessage}},
	}
	if a.backend == nil {
		return c
	}
	session, err := a.backend.StartChat(ctx, ChatModel, SystemInstruction)
	if err != nil {
		zctx.From(ctx).Error("Start chat session", zap.Error(err))
		return c
	}
	c.session = session
	return c
}

// Send records message, asks the model and records the reply, which is
// also returned.
func (c *Chat) Send(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = append(c.history, Message{ID: c.newID(), Role: RoleUser, Text: message})
	reply := c.reply(ctx, message)
	c.history = append(c.history, Message{ID: c.newID(), Role: RoleModel, Text: reply})
	return reply, nil
}

func (c *Chat) reply(ctx context.Context, message string) string {
	if c.session == nil {
		return chatApology
	}
	text, err := c.session.Send(ctx, message)
	if err != nil {
		zctx.From(ctx).Error("Send chat message", zap.Error(err))
		return chatApology
	}
	if text == "" {
		return chatFallback
	}
	return text
}

// History returns a copy of the transcript, intro first.
func (c *Chat) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.history)
}
