package cohere

import (
	"encoding/json"
	"fmt"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/webtransport"
)

func buildChatRequest(target chat.ServiceTarget, req chat.ChatRequest, opts chat.ChatOptions, stream bool) (webtransport.RequestData, error) {
	if len(req.Messages) == 0 {
		return webtransport.RequestData{}, gaierr.ErrChatReqHasNoMessages
	}

	messages, err := encodeMessages(req)
	if err != nil {
		return webtransport.RequestData{}, err
	}

	body := map[string]any{
		"model":    string(target.Model.ModelName),
		"messages": messages,
	}
	if stream {
		body["stream"] = true
	}
	if tools := encodeTools(req.Tools); len(tools) > 0 {
		body["tools"] = tools
	}
	if req.ToolChoice != nil {
		if tc := encodeToolChoice(*req.ToolChoice); tc != "" {
			body["tool_choice"] = tc
		}
	}
	if opts.Temperature != nil {
		body["temperature"] = *opts.Temperature
	}
	if opts.TopP != nil {
		body["p"] = *opts.TopP
	}
	if opts.MaxTokens != nil {
		body["max_tokens"] = *opts.MaxTokens
	}
	if len(opts.StopSequences) > 0 {
		body["stop_sequences"] = opts.StopSequences
	}
	if opts.Seed != nil {
		body["seed"] = *opts.Seed
	}
	if opts.ResponseFormat != nil {
		switch opts.ResponseFormat.Kind {
		case chat.ResponseFormatJSONMode:
			body["response_format"] = map[string]any{"type": "json_object"}
		case chat.ResponseFormatJSONSpec:
			body["response_format"] = map[string]any{"type": "json_object", "json_schema": opts.ResponseFormat.Schema}
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return webtransport.RequestData{}, fmt.Errorf("cohere: marshal chat request: %w", err)
	}

	reqData := webtransport.RequestData{
		Method:  "POST",
		URL:     requestURL(target, "/chat"),
		Headers: authHeaders(target.Auth),
		Body:    payload,
	}
	for k, v := range opts.ExtraHeaders {
		reqData = reqData.WithHeader(k, v)
	}
	return reqData, nil
}

// encodeMessages translates canonical messages into Cohere's v2 messages
// array. System messages stay inline as role "system" entries (unlike
// Anthropic/Gemini, Cohere v2 keeps system turns in the same array rather
// than a separate top-level field).
func encodeMessages(req chat.ChatRequest) ([]map[string]any, error) {
	var out []map[string]any
	if req.System != "" {
		out = append(out, map[string]any{"role": "system", "content": req.System})
	}

	for _, m := range req.Messages {
		switch m.Role {
		case chat.RoleSystem:
			out = append(out, map[string]any{"role": "system", "content": m.Content.FirstText()})
		case chat.RoleUser:
			out = append(out, map[string]any{"role": "user", "content": m.Content.FirstText()})
		case chat.RoleAssistant:
			msg := map[string]any{"role": "assistant"}
			if text := m.Content.FirstText(); text != "" {
				msg["content"] = text
			}
			if calls := encodeToolCalls(m.Content.ToolCalls()); len(calls) > 0 {
				msg["tool_calls"] = calls
			}
			out = append(out, msg)
		case chat.RoleTool:
			for _, part := range m.Content {
				tr, ok := part.(chat.ToolResponsePart)
				if !ok {
					continue
				}
				out = append(out, map[string]any{
					"role":        "tool",
					"tool_call_id": tr.ToolResponse.CallID,
					"content":     tr.ToolResponse.Content,
				})
			}
		default:
			return nil, &gaierr.ErrUnsupportedRole{Adapter: string(chat.AdapterCohere), Role: string(m.Role)}
		}
	}
	return out, nil
}

func encodeToolCalls(calls []chat.ToolCall) []map[string]any {
	if len(calls) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(calls))
	for _, c := range calls {
		args := c.RawFnArgs
		if args == "" {
			raw, err := json.Marshal(c.FnArgs)
			if err == nil {
				args = string(raw)
			}
		}
		out = append(out, map[string]any{
			"id":   c.CallID,
			"type": "function",
			"function": map[string]any{
				"name":      c.FnName,
				"arguments": args,
			},
		})
	}
	return out
}

func encodeTools(tools []chat.Tool) []map[string]any {
	if len(tools) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		out = append(out, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  t.Schema,
			},
		})
	}
	return out
}

func encodeToolChoice(tc chat.ToolChoice) string {
	switch tc.Mode {
	case chat.ToolChoiceNone:
		return "NONE"
	case chat.ToolChoiceAny, chat.ToolChoiceName:
		return "REQUIRED"
	default:
		return ""
	}
}
