package bedrock

import (
	"github.com/tidwall/gjson"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/webtransport"
)

// parseChatResponse decodes a unary Converse response. The raw body is
// parsed with gjson rather than unmarshaled into *bedrockruntime.
// ConverseOutput: that SDK type is only populated by the SDK's own Smithy
// protocol decoder, which this adapter bypasses in favor of the module's
// own transport (see package doc).
func parseChatResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (chat.ChatResponse, error) {
	parsed := gjson.ParseBytes(resp.Body)
	message := parsed.Get("output.message")
	if !message.Exists() {
		return chat.ChatResponse{}, gaierr.ErrNoChatResponse
	}

	content := translateContentBlocks(message.Get("content"))
	if len(content) == 0 {
		return chat.ChatResponse{}, gaierr.ErrNoChatResponse
	}

	out := chat.ChatResponse{
		Content:           content,
		ModelIden:         target.Model,
		ProviderModelIden: target.Model,
		Usage:             translateUsage(parsed.Get("usage")),
	}
	if captureRawBody {
		out.CapturedRawBody = resp.Body
	}
	return out, nil
}

// translateContentBlocks walks a message's content array. Like Gemini's
// parts, each Converse content block is a union keyed by whichever field
// is present (text, toolUse, reasoningContent) with no shared discriminator.
func translateContentBlocks(blocks gjson.Result) chat.MessageContent {
	var content chat.MessageContent
	for _, b := range blocks.Array() {
		switch {
		case b.Get("text").Exists():
			if text := b.Get("text").String(); text != "" {
				content = append(content, chat.TextPart{Text: text})
			}
		case b.Get("toolUse").Exists():
			tu := b.Get("toolUse")
			var args map[string]any
			if a, ok := tu.Get("input").Value().(map[string]any); ok {
				args = a
			}
			content = append(content, chat.ToolCallPart{ToolCall: chat.ToolCall{
				CallID: tu.Get("toolUseId").String(),
				FnName: tu.Get("name").String(),
				FnArgs: args,
			}})
		case b.Get("reasoningContent").Exists():
			rc := b.Get("reasoningContent")
			if sig := rc.Get("reasoningText.signature").String(); sig != "" {
				content = append(content, chat.ThoughtSignaturePart{Signature: sig})
			}
		}
	}
	return content
}

func translateUsage(u gjson.Result) chat.Usage {
	if !u.Exists() {
		return chat.Usage{}
	}
	usage := chat.Usage{
		PromptTokens:     int(u.Get("inputTokens").Int()),
		CompletionTokens: int(u.Get("outputTokens").Int()),
		TotalTokens:      int(u.Get("totalTokens").Int()),
	}
	if cached := int(u.Get("cacheReadInputTokens").Int()); cached != 0 {
		usage.PromptTokensDetails = &chat.PromptTokensDetails{Cached: cached}
	}
	if created := int(u.Get("cacheWriteInputTokens").Int()); created != 0 {
		if usage.PromptTokensDetails == nil {
			usage.PromptTokensDetails = &chat.PromptTokensDetails{}
		}
		usage.PromptTokensDetails.CacheCreation = created
	}
	return usage.CompactDetails()
}
