package openairesp

import (
	"encoding/json"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/webtransport"
)

type wireResponse struct {
	Model  string            `json:"model"`
	Output []wireOutputItem  `json:"output"`
	Usage  wireResponseUsage `json:"usage"`
}

type wireOutputItem struct {
	Type string `json:"type"`

	// message items
	Role    string              `json:"role"`
	Content []wireOutputContent `json:"content"`

	// function_call items
	CallID    string `json:"call_id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`

	// reasoning items
	Summary []wireOutputContent `json:"summary"`
}

type wireOutputContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type wireResponseUsage struct {
	InputTokens         int `json:"input_tokens"`
	OutputTokens        int `json:"output_tokens"`
	TotalTokens         int `json:"total_tokens"`
	InputTokensDetails  struct {
		CachedTokens int `json:"cached_tokens"`
	} `json:"input_tokens_details"`
	OutputTokensDetails struct {
		ReasoningTokens int `json:"reasoning_tokens"`
	} `json:"output_tokens_details"`
}

func parseChatResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (chat.ChatResponse, error) {
	var wire wireResponse
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return chat.ChatResponse{}, &gaierr.ErrChatResponseGeneration{ResponseBody: resp.Body, Cause: err}
	}

	content, reasoning, err := translateOutput(wire.Output)
	if err != nil {
		return chat.ChatResponse{}, err
	}
	if len(content) == 0 && reasoning == "" {
		return chat.ChatResponse{}, gaierr.ErrNoChatResponse
	}

	usage := chat.Usage{
		PromptTokens:     wire.Usage.InputTokens,
		CompletionTokens: wire.Usage.OutputTokens,
		TotalTokens:      wire.Usage.TotalTokens,
	}
	if wire.Usage.InputTokensDetails.CachedTokens != 0 {
		usage.PromptTokensDetails = &chat.PromptTokensDetails{Cached: wire.Usage.InputTokensDetails.CachedTokens}
	}
	if wire.Usage.OutputTokensDetails.ReasoningTokens != 0 {
		usage.CompletionTokensDetails = &chat.CompletionTokensDetails{Reasoning: wire.Usage.OutputTokensDetails.ReasoningTokens}
	}

	out := chat.ChatResponse{
		Content:           content,
		ReasoningContent:  reasoning,
		ModelIden:         target.Model,
		ProviderModelIden: chat.ModelIden{AdapterKind: chat.AdapterOpenAIResp, ModelName: chat.ModelName(wire.Model)},
		Usage:             usage.CompactDetails(),
	}
	if captureRawBody {
		out.CapturedRawBody = resp.Body
	}
	return out, nil
}

func translateOutput(items []wireOutputItem) (chat.MessageContent, string, error) {
	var content chat.MessageContent
	var reasoning string

	for _, item := range items {
		switch item.Type {
		case "message":
			for _, c := range item.Content {
				if c.Type == "output_text" && c.Text != "" {
					content = append(content, chat.TextPart{Text: c.Text})
				}
			}
		case "reasoning":
			for _, s := range item.Summary {
				reasoning += s.Text
			}
		case "function_call":
			var args map[string]any
			raw := ""
			if item.Arguments != "" {
				if err := json.Unmarshal([]byte(item.Arguments), &args); err != nil {
					raw = item.Arguments
				}
			}
			content = append(content, chat.ToolCallPart{ToolCall: chat.ToolCall{
				CallID:    item.CallID,
				FnName:    item.Name,
				FnArgs:    args,
				RawFnArgs: raw,
			}})
		}
	}
	return content, reasoning, nil
}
