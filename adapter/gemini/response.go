package gemini

import (
	"github.com/tidwall/gjson"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/webtransport"
)

func parseChatResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (chat.ChatResponse, error) {
	parsed := gjson.ParseBytes(resp.Body)
	candidates := parsed.Get("candidates")
	if !candidates.Exists() || len(candidates.Array()) == 0 {
		return chat.ChatResponse{}, gaierr.ErrNoChatResponse
	}

	content, reasoning := translateParts(candidates.Array()[0].Get("content.parts"))
	if len(content) == 0 && reasoning == "" {
		return chat.ChatResponse{}, gaierr.ErrNoChatResponse
	}

	usage := parsed.Get("usageMetadata")
	out := chat.ChatResponse{
		Content:           content,
		ReasoningContent:  reasoning,
		ModelIden:         target.Model,
		ProviderModelIden: chat.ModelIden{AdapterKind: chat.AdapterGemini, ModelName: chat.ModelName(parsed.Get("modelVersion").String())},
		Usage: chat.AddGeminiUsage(
			int(usage.Get("promptTokenCount").Int()),
			int(usage.Get("cachedContentTokenCount").Int()),
			int(usage.Get("candidatesTokenCount").Int()),
			int(usage.Get("totalTokenCount").Int()),
			int(usage.Get("thoughtsTokenCount").Int()),
		),
	}
	if captureRawBody {
		out.CapturedRawBody = resp.Body
	}
	return out, nil
}

// translateParts walks a candidate's content.parts array. gjson is used
// here rather than a struct because a Gemini part is a union keyed by
// whichever field is present (text, functionCall, thought) with no shared
// discriminator field to switch on.
func translateParts(parts gjson.Result) (chat.MessageContent, string) {
	var content chat.MessageContent
	var reasoning string

	for _, part := range parts.Array() {
		switch {
		case part.Get("thought").Bool():
			reasoning += part.Get("text").String()
		case part.Get("functionCall").Exists():
			fc := part.Get("functionCall")
			var args map[string]any
			if a, ok := fc.Get("args").Value().(map[string]any); ok {
				args = a
			}
			content = append(content, chat.ToolCallPart{ToolCall: chat.ToolCall{
				// Gemini correlates a tool response to its call by
				// function name, not an opaque id; using the name itself
				// as CallID lets the canonical ToolResponse.CallID field
				// round-trip into the right functionResponse.name.
				CallID: fc.Get("name").String(),
				FnName: fc.Get("name").String(),
				FnArgs: args,
			}})
		case part.Get("text").Exists():
			if text := part.Get("text").String(); text != "" {
				content = append(content, chat.TextPart{Text: text})
			}
		case part.Get("thoughtSignature").Exists():
			content = append(content, chat.ThoughtSignaturePart{Signature: part.Get("thoughtSignature").String()})
		}
	}
	return content, reasoning
}
