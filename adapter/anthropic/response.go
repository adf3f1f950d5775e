package anthropic

import (
	"encoding/json"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/webtransport"
)

// wireMessage mirrors the Messages API response shape this adapter reads.
// Declared locally rather than unmarshaled into sdk.Message: the SDK's
// response types are designed around its own request/response round trip
// and their union-decoding assumes the SDK's client did the request: a
// plain struct mirroring the documented wire shape is the more reliable
// target for decoding a body this module fetched itself.
type wireMessage struct {
	Model      string             `json:"model"`
	StopReason string             `json:"stop_reason"`
	Content    []wireContentBlock `json:"content"`
	Usage      wireUsage          `json:"usage"`
}

type wireContentBlock struct {
	Type string `json:"type"`

	// text blocks
	Text string `json:"text"`

	// tool_use blocks
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`

	// thinking / redacted_thinking blocks
	Thinking  string `json:"thinking"`
	Signature string `json:"signature"`
	Data      string `json:"data"`
}

type wireUsage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
}

func parseChatResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (chat.ChatResponse, error) {
	var wire wireMessage
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return chat.ChatResponse{}, &gaierr.ErrChatResponseGeneration{ResponseBody: resp.Body, Cause: err}
	}

	content, reasoning, err := translateBlocks(wire.Content)
	if err != nil {
		return chat.ChatResponse{}, err
	}
	if len(content) == 0 && reasoning == "" {
		return chat.ChatResponse{}, gaierr.ErrNoChatResponse
	}

	out := chat.ChatResponse{
		Content:           content,
		ReasoningContent:  reasoning,
		ModelIden:         target.Model,
		ProviderModelIden: chat.ModelIden{AdapterKind: chat.AdapterAnthropic, ModelName: chat.ModelName(wire.Model)},
		Usage: chat.AddAnthropicCacheUsage(
			wire.Usage.InputTokens,
			wire.Usage.CacheCreationInputTokens,
			wire.Usage.CacheReadInputTokens,
			wire.Usage.OutputTokens,
		),
	}
	if captureRawBody {
		out.CapturedRawBody = resp.Body
	}
	return out, nil
}

func translateBlocks(blocks []wireContentBlock) (chat.MessageContent, string, error) {
	var content chat.MessageContent
	var reasoning string

	for _, b := range blocks {
		switch b.Type {
		case "text":
			if b.Text != "" {
				content = append(content, chat.TextPart{Text: b.Text})
			}
		case "thinking":
			reasoning += b.Thinking
			if b.Signature != "" {
				content = append(content, chat.ThoughtSignaturePart{Signature: b.Signature})
			}
		case "redacted_thinking":
			if b.Data != "" {
				content = append(content, chat.ThoughtSignaturePart{Signature: b.Data})
			}
		case "tool_use":
			var args map[string]any
			raw := ""
			if len(b.Input) > 0 {
				if err := json.Unmarshal(b.Input, &args); err != nil {
					raw = string(b.Input)
				}
			}
			content = append(content, chat.ToolCallPart{ToolCall: chat.ToolCall{
				CallID:    b.ID,
				FnName:    b.Name,
				FnArgs:    args,
				RawFnArgs: raw,
			}})
		}
	}
	return content, reasoning, nil
}
