package ollama

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
		"stream":   stream,
	}
	if tools := encodeTools(req.Tools); len(tools) > 0 {
		body["tools"] = tools
	}
	if opts.ResponseFormat != nil {
		switch opts.ResponseFormat.Kind {
		case chat.ResponseFormatJSONMode:
			body["format"] = "json"
		case chat.ResponseFormatJSONSpec:
			body["format"] = opts.ResponseFormat.Schema
		}
	}

	modelOpts := map[string]any{}
	if opts.Temperature != nil {
		modelOpts["temperature"] = *opts.Temperature
	}
	if opts.TopP != nil {
		modelOpts["top_p"] = *opts.TopP
	}
	if opts.MaxTokens != nil {
		modelOpts["num_predict"] = *opts.MaxTokens
	}
	if len(opts.StopSequences) > 0 {
		modelOpts["stop"] = opts.StopSequences
	}
	if opts.Seed != nil {
		modelOpts["seed"] = *opts.Seed
	}
	if len(modelOpts) > 0 {
		body["options"] = modelOpts
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return webtransport.RequestData{}, fmt.Errorf("ollama: marshal chat request: %w", err)
	}

	reqData := webtransport.RequestData{
		Method:  "POST",
		URL:     requestURL(target, "/api/chat"),
		Headers: authHeaders(target.Auth),
		Body:    payload,
	}
	for k, v := range opts.ExtraHeaders {
		reqData = reqData.WithHeader(k, v)
	}
	return reqData, nil
}

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
			msg := map[string]any{"role": "assistant", "content": m.Content.FirstText()}
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
				out = append(out, map[string]any{"role": "tool", "content": tr.ToolResponse.Content})
			}
		default:
			return nil, &gaierr.ErrUnsupportedRole{Adapter: string(chat.AdapterOllama), Role: string(m.Role)}
		}
	}
	return out, nil
}

// encodeToolCalls emits Ollama's tool_calls shape, which (unlike OpenAI)
// carries function.arguments as a JSON object, not a string.
func encodeToolCalls(calls []chat.ToolCall) []map[string]any {
	if len(calls) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(calls))
	for _, c := range calls {
		out = append(out, map[string]any{"function": map[string]any{
			"name":      c.FnName,
			"arguments": c.FnArgs,
		}})
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
