package genai

import (
	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/interstream"
)

// normalizeReasoningContent re-routes inline "<think>...</think>" markers
// out of text content and into reasoning content. Some providers (DeepSeek
// models served through Ollama, among others) don't separate reasoning
// into its own response field; they inline it as literal tags in the text
// stream instead. interstream.ExtractOnce is idempotent, so this is safe
// to run even on content that never contained a think block.
func normalizeReasoningContent(content chat.MessageContent, reasoning string) (chat.MessageContent, string) {
	out := make(chat.MessageContent, 0, len(content))
	for _, part := range content {
		text, ok := part.(chat.TextPart)
		if !ok {
			out = append(out, part)
			continue
		}
		kept, extracted := interstream.ExtractOnce(text.Text)
		if extracted != "" {
			reasoning += extracted
		}
		if kept != "" {
			out = append(out, chat.TextPart{Text: kept})
		}
	}
	return out, reasoning
}
