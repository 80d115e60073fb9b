package completion

import (
	"context"
	"errors"

	"github.com/young1lin/shopassist/internal/models"
)

// ErrEmptyRequest is returned when a request has neither a prompt nor messages
var ErrEmptyRequest = errors.New("completion request has no prompt and no messages")

// Request is one call to the completion service.
// Exactly one of Prompt or Messages is used; Messages wins when both are set.
type Request struct {
	Model     string
	WebSearch bool
	Prompt    string
	Messages  []models.ChatMessage
}

// Service turns a prompt or a conversation into generated text
type Service interface {
	// Name returns the provider name
	Name() string

	// Complete performs a single call and returns the output text
	Complete(ctx context.Context, req *Request) (string, error)
}
