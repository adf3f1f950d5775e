package openairesp

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

	input, err := encodeInput(req.Messages)
	if err != nil {
		return webtransport.RequestData{}, err
	}

	body := map[string]any{
		"model": string(target.Model.ModelName),
		"input": input,
	}
	if req.System != "" {
		body["instructions"] = req.System
	}
	if tools := encodeTools(req.Tools); len(tools) > 0 {
		body["tools"] = tools
	}
	if req.ToolChoice != nil {
		body["tool_choice"] = encodeToolChoice(*req.ToolChoice)
	}
	if opts.Temperature != nil {
		body["temperature"] = *opts.Temperature
	}
	if opts.TopP != nil {
		body["top_p"] = *opts.TopP
	}
	if opts.MaxTokens != nil {
		body["max_output_tokens"] = *opts.MaxTokens
	}
	if opts.ReasoningEffort != nil && opts.ReasoningEffort.Keyword != chat.ReasoningNone && opts.ReasoningEffort.Keyword != chat.ReasoningBudget {
		body["reasoning"] = map[string]any{"effort": string(opts.ReasoningEffort.Keyword)}
	}
	if opts.Verbosity != nil {
		body["text"] = map[string]any{"verbosity": string(*opts.Verbosity)}
	}
	if opts.ResponseFormat != nil {
		format := map[string]any{}
		switch opts.ResponseFormat.Kind {
		case chat.ResponseFormatJSONMode:
			format["type"] = "json_object"
		case chat.ResponseFormatJSONSpec:
			format["type"] = "json_schema"
			format["name"] = opts.ResponseFormat.Name
			format["schema"] = opts.ResponseFormat.Schema
			format["strict"] = true
		}
		if text, ok := body["text"].(map[string]any); ok {
			text["format"] = format
		} else {
			body["text"] = map[string]any{"format": format}
		}
	}
	if stream {
		body["stream"] = true
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return webtransport.RequestData{}, fmt.Errorf("openairesp: marshal chat request: %w", err)
	}

	reqData := webtransport.RequestData{
		Method:  "POST",
		URL:     requestURL(target),
		Headers: authHeaders(target.Auth),
		Body:    payload,
	}
	for k, v := range opts.ExtraHeaders {
		reqData = reqData.WithHeader(k, v)
	}
	return reqData, nil
}

// encodeInput translates canonical messages into the Responses API's flat
// input-item list. Unlike Chat Completions, tool calls and their results
// are siblings of message items rather than nested inside one: a prior
// assistant tool call becomes its own "function_call" item and a tool
// result becomes its own "function_call_output" item.
func encodeInput(msgs []chat.ChatMessage) ([]map[string]any, error) {
	var out []map[string]any

	for _, m := range msgs {
		if m.Role == chat.RoleSystem {
			// Folded into the request's top-level "instructions" field by
			// the caller instead of an input item.
			continue
		}

		var content []map[string]any
		for _, part := range m.Content {
			switch v := part.(type) {
			case chat.TextPart:
				if v.Text == "" {
					continue
				}
				textType := "input_text"
				if m.Role == chat.RoleAssistant {
					textType = "output_text"
				}
				content = append(content, map[string]any{"type": textType, "text": v.Text})
			case chat.ToolCallPart:
				args := v.ToolCall.RawFnArgs
				if args == "" {
					raw, err := json.Marshal(v.ToolCall.FnArgs)
					if err != nil {
						return nil, fmt.Errorf("openairesp: marshal tool call arguments: %w", err)
					}
					args = string(raw)
				}
				out = append(out, map[string]any{
					"type":      "function_call",
					"call_id":   v.ToolCall.CallID,
					"name":      v.ToolCall.FnName,
					"arguments": args,
				})
			case chat.ToolResponsePart:
				out = append(out, map[string]any{
					"type":    "function_call_output",
					"call_id": v.ToolResponse.CallID,
					"output":  v.ToolResponse.Content,
				})
			case chat.ThoughtSignaturePart:
				// No re-encodable slot on a follow-up request; the
				// Responses API threads reasoning continuity through its
				// own response IDs instead of a client-echoed signature.
			case chat.BinaryPart:
				return nil, &gaierr.ErrUnsupportedContent{Adapter: string(chat.AdapterOpenAIResp), Kind: "binary"}
			}
		}
		if len(content) == 0 {
			continue
		}

		role := "user"
		switch m.Role {
		case chat.RoleUser, chat.RoleTool:
			role = "user"
		case chat.RoleAssistant:
			role = "assistant"
		default:
			return nil, &gaierr.ErrUnsupportedRole{Adapter: string(chat.AdapterOpenAIResp), Role: string(m.Role)}
		}
		out = append(out, map[string]any{"role": role, "content": content})
	}
	if len(out) == 0 {
		return nil, gaierr.ErrChatReqHasNoMessages
	}
	return out, nil
}

func encodeTools(tools []chat.Tool) []map[string]any {
	if len(tools) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		out = append(out, map[string]any{
			"type":        "function",
			"name":        t.Name,
			"description": t.Description,
			"parameters":  t.Schema,
		})
	}
	return out
}

func encodeToolChoice(tc chat.ToolChoice) any {
	switch tc.Mode {
	case chat.ToolChoiceNone:
		return "none"
	case chat.ToolChoiceAny:
		return "required"
	case chat.ToolChoiceName:
		return map[string]any{"type": "function", "name": tc.Name}
	default:
		return "auto"
	}
}
