package converter

import (
	"fmt"

	"github.com/young1lin/shopassist/internal/models"
)

// ChatSystemPrompt returns the system message that frames a follow-up conversation
func ChatSystemPrompt(item string) string {
	return fmt.Sprintf("You are a helpful shopping assistant. The user is asking follow-up questions about this item: %s. "+
		"Answer concisely and honestly, and say so when you are not sure.", item)
}

// BuildConversation prepends the synthesized system message to the caller's messages.
// The caller's slice is not modified.
func BuildConversation(item string, messages []models.ChatMessage) []models.ChatMessage {
	conversation := make([]models.ChatMessage, 0, len(messages)+1)
	conversation = append(conversation, models.ChatMessage{
		Role:    "system",
		Content: ChatSystemPrompt(item),
	})
	return append(conversation, messages...)
}
