package ollama

import (
	"encoding/json"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/webtransport"
)

type wireToolCall struct {
	Function struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"function"`
}

type wireMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []wireToolCall `json:"tool_calls"`
}

type wireResponse struct {
	Model           string      `json:"model"`
	Message         wireMessage `json:"message"`
	Done            bool        `json:"done"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
}

// parseChatResponse leaves <think>...</think> tags inline in the returned
// text; Ollama has no separate reasoning channel on the wire, so splitting
// it out under normalize_reasoning_content is done once, generically, by
// the root client for every provider that interleaves reasoning this way,
// rather than duplicated per adapter.
func parseChatResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (chat.ChatResponse, error) {
	var wire wireResponse
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return chat.ChatResponse{}, &gaierr.ErrInvalidJsonResponseElement{Element: "message", Cause: err}
	}
	if wire.Message.Content == "" && len(wire.Message.ToolCalls) == 0 {
		return chat.ChatResponse{}, gaierr.ErrNoChatResponse
	}

	var content chat.MessageContent
	if wire.Message.Content != "" {
		content = append(content, chat.TextPart{Text: wire.Message.Content})
	}
	for _, tc := range wire.Message.ToolCalls {
		content = append(content, chat.ToolCallPart{ToolCall: chat.ToolCall{
			FnName: tc.Function.Name,
			FnArgs: tc.Function.Arguments,
		}})
	}

	out := chat.ChatResponse{
		Content:           content,
		ModelIden:         target.Model,
		ProviderModelIden: chat.ModelIden{AdapterKind: chat.AdapterOllama, ModelName: chat.ModelName(wire.Model)},
	}
	// A model that reports no eval counts (e.g. a pure tool-call turn with
	// no generation) leaves Usage absent rather than a zeroed struct.
	if wire.PromptEvalCount != 0 || wire.EvalCount != 0 {
		u := chat.Usage{PromptTokens: wire.PromptEvalCount, CompletionTokens: wire.EvalCount}
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
		out.Usage = u
	}
	if captureRawBody {
		out.CapturedRawBody = resp.Body
	}
	return out, nil
}
