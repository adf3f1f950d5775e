package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/webtransport"
)

func buildChatRequest(target chat.ServiceTarget, req chat.ChatRequest, opts chat.ChatOptions, stream bool) (webtransport.RequestData, error) {
	if len(req.Messages) == 0 {
		return webtransport.RequestData{}, gaierr.ErrChatReqHasNoMessages
	}

	contents, system, err := encodeContents(req.Messages)
	if err != nil {
		return webtransport.RequestData{}, err
	}

	body := map[string]any{"contents": contents}
	if system != "" {
		body["systemInstruction"] = map[string]any{"parts": []map[string]any{{"text": system}}}
	}
	if tools := encodeTools(req.Tools); len(tools) > 0 {
		body["tools"] = tools
	}
	if req.ToolChoice != nil {
		body["toolConfig"] = encodeToolChoice(*req.ToolChoice)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return webtransport.RequestData{}, fmt.Errorf("gemini: marshal chat request: %w", err)
	}

	// generationConfig's optional knobs are patched in with sjson rather
	// than accumulated on the map above: most requests set none of them,
	// and path-based sets keep the zero-value/omitted distinction explicit
	// without an ad hoc "omit if nil" struct tag per field.
	if opts.Temperature != nil {
		payload, err = sjson.SetBytes(payload, "generationConfig.temperature", *opts.Temperature)
		if err != nil {
			return webtransport.RequestData{}, fmt.Errorf("gemini: set temperature: %w", err)
		}
	}
	if opts.TopP != nil {
		payload, err = sjson.SetBytes(payload, "generationConfig.topP", *opts.TopP)
		if err != nil {
			return webtransport.RequestData{}, fmt.Errorf("gemini: set topP: %w", err)
		}
	}
	if opts.MaxTokens != nil {
		payload, err = sjson.SetBytes(payload, "generationConfig.maxOutputTokens", *opts.MaxTokens)
		if err != nil {
			return webtransport.RequestData{}, fmt.Errorf("gemini: set maxOutputTokens: %w", err)
		}
	}
	if len(opts.StopSequences) > 0 {
		payload, err = sjson.SetBytes(payload, "generationConfig.stopSequences", opts.StopSequences)
		if err != nil {
			return webtransport.RequestData{}, fmt.Errorf("gemini: set stopSequences: %w", err)
		}
	}
	if opts.ReasoningEffort != nil {
		budget := thinkingBudget(*opts.ReasoningEffort)
		payload, err = sjson.SetBytes(payload, "generationConfig.thinkingConfig.thinkingBudget", budget)
		if err != nil {
			return webtransport.RequestData{}, fmt.Errorf("gemini: set thinkingBudget: %w", err)
		}
	}
	if opts.ResponseFormat != nil {
		switch opts.ResponseFormat.Kind {
		case chat.ResponseFormatJSONMode:
			payload, err = sjson.SetBytes(payload, "generationConfig.responseMimeType", "application/json")
		case chat.ResponseFormatJSONSpec:
			payload, err = sjson.SetBytes(payload, "generationConfig.responseMimeType", "application/json")
			if err == nil {
				payload, err = sjson.SetBytes(payload, "generationConfig.responseSchema", opts.ResponseFormat.Schema)
			}
		}
		if err != nil {
			return webtransport.RequestData{}, fmt.Errorf("gemini: set response format: %w", err)
		}
	}

	method := "generateContent"
	if stream {
		method = "streamGenerateContent"
	}
	reqData := webtransport.RequestData{
		Method:  "POST",
		URL:     requestURL(target, method),
		Headers: authHeaders(target.Auth),
		Body:    payload,
	}
	for k, v := range opts.ExtraHeaders {
		reqData = reqData.WithHeader(k, v)
	}
	return reqData, nil
}

// thinkingBudget maps a symbolic reasoning level onto Gemini's numeric
// thinkingConfig.thinkingBudget, per the 1k/8k/24k keyword mapping;
// Minimal/None map to 0 (thinking disabled) and Budget passes its literal
// value through unchanged.
func thinkingBudget(re chat.ReasoningEffort) int {
	if re.Keyword == chat.ReasoningBudget {
		return re.Budget
	}
	switch re.Keyword {
	case chat.ReasoningLow:
		return 1024
	case chat.ReasoningMedium:
		return 8192
	case chat.ReasoningHigh:
		return 24576
	default:
		return 0
	}
}

// encodeContents translates canonical messages into Gemini's contents
// array. System messages are pulled out into the separate return value
// rather than encoded as a content entry, since Gemini carries system
// text in its own top-level systemInstruction field.
func encodeContents(msgs []chat.ChatMessage) ([]map[string]any, string, error) {
	var out []map[string]any
	var system string

	for _, m := range msgs {
		if m.Role == chat.RoleSystem {
			system += m.Content.FirstText()
			continue
		}

		var parts []map[string]any
		for _, part := range m.Content {
			switch v := part.(type) {
			case chat.TextPart:
				if v.Text != "" {
					parts = append(parts, map[string]any{"text": v.Text})
				}
			case chat.ToolCallPart:
				args := v.ToolCall.FnArgs
				if args == nil {
					args = map[string]any{}
				}
				parts = append(parts, map[string]any{"functionCall": map[string]any{
					"name": v.ToolCall.FnName,
					"args": args,
				}})
			case chat.ToolResponsePart:
				parts = append(parts, map[string]any{"functionResponse": map[string]any{
					"name":     v.ToolResponse.CallID,
					"response": map[string]any{"result": v.ToolResponse.Content},
				}})
			case chat.ThoughtSignaturePart:
				if v.Signature != "" {
					parts = append(parts, map[string]any{"thoughtSignature": v.Signature})
				}
			case chat.BinaryPart:
				p, err := encodeBinaryPart(v.Binary)
				if err != nil {
					return nil, "", err
				}
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}

		role := "user"
		if m.Role == chat.RoleAssistant {
			role = "model"
		}
		out = append(out, map[string]any{"role": role, "parts": parts})
	}
	if len(out) == 0 {
		return nil, "", gaierr.ErrChatReqHasNoMessages
	}
	return out, system, nil
}

func encodeBinaryPart(b chat.Binary) (map[string]any, error) {
	if b.Source.Base64 == "" {
		return nil, &gaierr.ErrUnsupportedContent{Adapter: string(chat.AdapterGemini), Kind: "binary_url"}
	}
	return map[string]any{"inlineData": map[string]any{
		"mimeType": string(b.ContentType),
		"data":     b.Source.Base64,
	}}, nil
}

func encodeTools(tools []chat.Tool) []map[string]any {
	if len(tools) == 0 {
		return nil
	}
	decls := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"parameters":  t.Schema,
		})
	}
	return []map[string]any{{"functionDeclarations": decls}}
}

func encodeToolChoice(tc chat.ToolChoice) map[string]any {
	mode := "AUTO"
	switch tc.Mode {
	case chat.ToolChoiceNone:
		mode = "NONE"
	case chat.ToolChoiceAny:
		mode = "ANY"
	case chat.ToolChoiceName:
		return map[string]any{"functionCallingConfig": map[string]any{
			"mode":                 "ANY",
			"allowedFunctionNames": []string{tc.Name},
		}}
	}
	return map[string]any{"functionCallingConfig": map[string]any{"mode": mode}}
}
