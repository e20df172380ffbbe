package chat

import (
	"fmt"
	"strings"
)

const (
	ChatRoleUser   = "user"      // Detective asking the question
	ChatRoleAgent  = "assistant" // Guest answering in character
	ChatRoleSystem = "system"    // Character sheet and instructions
)

// ChatMessage represents a single chat message sent to a text generator.
// The shape follows the Ollama and Anthropic chat APIs.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatResponse is the raw text returned by a generator backend.
type ChatResponse struct {
	Message string `json:"message,omitempty"`
}

// Transcript renders messages as "role: content" lines, mostly for debug logs.
func Transcript(messages []ChatMessage) string {
	var sb strings.Builder
	for i, m := range messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s: %s", m.Role, m.Content)
	}
	return sb.String()
}
