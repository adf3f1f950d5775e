package cohere

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/webtransport"
)

func parseChatResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (chat.ChatResponse, error) {
	parsed := gjson.ParseBytes(resp.Body)
	message := parsed.Get("message")
	if !message.Exists() {
		return chat.ChatResponse{}, gaierr.ErrNoChatResponse
	}

	content := translateContent(message.Get("content"))
	content = append(content, translateToolCalls(message.Get("tool_calls"))...)
	if len(content) == 0 {
		return chat.ChatResponse{}, gaierr.ErrNoChatResponse
	}

	billed := parsed.Get("usage.billed_units")
	out := chat.ChatResponse{
		Content:           content,
		ModelIden:         target.Model,
		ProviderModelIden: target.Model,
		Usage: chat.Usage{
			PromptTokens:     int(billed.Get("input_tokens").Int()),
			CompletionTokens: int(billed.Get("output_tokens").Int()),
		}.CompactDetails(),
	}
	out.Usage.TotalTokens = out.Usage.PromptTokens + out.Usage.CompletionTokens
	if captureRawBody {
		out.CapturedRawBody = resp.Body
	}
	return out, nil
}

// translateContent walks a message's content array. Used by gjson rather
// than a struct for the same reason as Gemini's parts: Cohere's content
// elements are a union keyed by "type" with no fields shared across
// variants this adapter doesn't otherwise need.
func translateContent(content gjson.Result) chat.MessageContent {
	var out chat.MessageContent
	for _, c := range content.Array() {
		if c.Get("type").String() == "text" {
			if text := c.Get("text").String(); text != "" {
				out = append(out, chat.TextPart{Text: text})
			}
		}
	}
	return out
}

func translateToolCalls(toolCalls gjson.Result) chat.MessageContent {
	var out chat.MessageContent
	for _, tc := range toolCalls.Array() {
		var args map[string]any
		raw := ""
		argsStr := tc.Get("function.arguments").String()
		if argsStr != "" {
			if err := json.Unmarshal([]byte(argsStr), &args); err != nil {
				raw = argsStr
			}
		}
		out = append(out, chat.ToolCallPart{ToolCall: chat.ToolCall{
			CallID:    tc.Get("id").String(),
			FnName:    tc.Get("function.name").String(),
			FnArgs:    args,
			RawFnArgs: raw,
		}})
	}
	return out
}
