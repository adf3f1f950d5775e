package bedrock

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/webtransport"
)

func buildChatRequest(target chat.ServiceTarget, req chat.ChatRequest, opts chat.ChatOptions, stream bool) (webtransport.RequestData, error) {
	if len(req.Messages) == 0 {
		return webtransport.RequestData{}, gaierr.ErrChatReqHasNoMessages
	}

	toolConfig, canonToSan, err := encodeTools(req.Tools, req.ToolChoice)
	if err != nil {
		return webtransport.RequestData{}, err
	}

	messages, system, err := encodeMessages(req, canonToSan)
	if err != nil {
		return webtransport.RequestData{}, err
	}

	body := map[string]any{"messages": toWireMessages(messages)}
	if len(system) > 0 {
		body["system"] = toWireSystemBlocks(system)
	}
	if toolConfig != nil {
		body["toolConfig"] = toWireToolConfig(toolConfig)
	}

	inference := map[string]any{}
	if opts.MaxTokens != nil {
		inference["maxTokens"] = *opts.MaxTokens
	}
	if opts.Temperature != nil {
		inference["temperature"] = *opts.Temperature
	}
	if opts.TopP != nil {
		inference["topP"] = *opts.TopP
	}
	if len(opts.StopSequences) > 0 {
		inference["stopSequences"] = opts.StopSequences
	}
	if len(inference) > 0 {
		body["inferenceConfig"] = inference
	}

	if opts.ReasoningEffort != nil && opts.ReasoningEffort.Keyword != chat.ReasoningNone {
		budget := thinkingBudget(*opts.ReasoningEffort)
		if budget > 0 {
			body["additionalModelRequestFields"] = map[string]any{
				"thinking": map[string]any{"type": "enabled", "budget_tokens": budget},
			}
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return webtransport.RequestData{}, fmt.Errorf("bedrock: marshal chat request: %w", err)
	}

	reqData := webtransport.RequestData{
		Method:  "POST",
		URL:     requestURL(target, stream),
		Headers: authHeaders(target.Auth),
		Body:    payload,
	}
	for k, v := range opts.ExtraHeaders {
		reqData = reqData.WithHeader(k, v)
	}
	return reqData, nil
}

// thinkingBudget maps a keyword reasoning effort onto Anthropic-on-Bedrock's
// thinking token budget, mirroring the keyword tiers used for Gemini's
// thinkingConfig since Bedrock's Claude models share the same concept.
func thinkingBudget(re chat.ReasoningEffort) int {
	switch re.Keyword {
	case chat.ReasoningLow:
		return 1024
	case chat.ReasoningMedium:
		return 8192
	case chat.ReasoningHigh:
		return 24576
	case chat.ReasoningBudget:
		return re.Budget
	default:
		return 0
	}
}

// encodeMessages translates canonical chat messages into Bedrock Converse
// Message/SystemContentBlock values, following the same assembly shape as
// a SigV4-signed client would build (github.com/aws/aws-sdk-go-v2/service/
// bedrockruntime/types). canonToSan maps a tool's canonical name to the
// sanitized name Bedrock requires ([a-zA-Z0-9_-]+, <=64 chars).
func encodeMessages(req chat.ChatRequest, canonToSan map[string]string) ([]brtypes.Message, []brtypes.SystemContentBlock, error) {
	var system []brtypes.SystemContentBlock
	if req.System != "" {
		system = append(system, &brtypes.SystemContentBlockMemberText{Value: req.System})
	}

	messages := make([]brtypes.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == chat.RoleSystem {
			if text := m.Content.FirstText(); text != "" {
				system = append(system, &brtypes.SystemContentBlockMemberText{Value: text})
			}
			continue
		}

		var blocks []brtypes.ContentBlock
		for _, part := range m.Content {
			switch v := part.(type) {
			case chat.TextPart:
				if v.Text != "" {
					blocks = append(blocks, &brtypes.ContentBlockMemberText{Value: v.Text})
				}
			case chat.ToolCallPart:
				name := v.ToolCall.FnName
				if sanitized, ok := canonToSan[name]; ok {
					name = sanitized
				}
				blocks = append(blocks, &brtypes.ContentBlockMemberToolUse{Value: brtypes.ToolUseBlock{
					ToolUseId: strPtr(v.ToolCall.CallID),
					Name:      strPtr(name),
					Input:     argsDocument(v.ToolCall.FnArgs),
				}})
			case chat.ToolResponsePart:
				status := brtypes.ToolResultStatusSuccess
				if v.ToolResponse.IsError {
					status = brtypes.ToolResultStatusError
				}
				blocks = append(blocks, &brtypes.ContentBlockMemberToolResult{Value: brtypes.ToolResultBlock{
					ToolUseId: strPtr(v.ToolResponse.CallID),
					Status:    status,
					Content:   []brtypes.ToolResultContentBlock{&brtypes.ToolResultContentBlockMemberText{Value: v.ToolResponse.Content}},
				}})
			case chat.ThoughtSignaturePart:
				// Bedrock requires a reasoningContent block to carry both
				// text and signature together; this canonical content part
				// carries only the signature, with nothing to pair it with
				// on the way back into a request, so it is dropped here.
			case chat.BinaryPart:
				return nil, nil, &gaierr.ErrUnsupportedContent{Adapter: string(chat.AdapterBedrock), Kind: "binary"}
			}
		}
		if len(blocks) == 0 {
			continue
		}
		if m.Cache.Enabled {
			blocks = append(blocks, &brtypes.ContentBlockMemberCachePoint{Value: brtypes.CachePointBlock{Type: brtypes.CachePointTypeDefault}})
		}

		role := brtypes.ConversationRoleUser
		if m.Role == chat.RoleAssistant {
			role = brtypes.ConversationRoleAssistant
		}
		messages = append(messages, brtypes.Message{Role: role, Content: blocks})
	}
	if len(messages) == 0 {
		return nil, nil, gaierr.ErrChatReqHasNoMessages
	}
	return messages, system, nil
}

func encodeTools(toolDefs []chat.Tool, choice *chat.ToolChoice) (*brtypes.ToolConfiguration, map[string]string, error) {
	if len(toolDefs) == 0 {
		return nil, nil, nil
	}
	canonToSan := make(map[string]string, len(toolDefs))
	sanToCanon := make(map[string]string, len(toolDefs))
	tools := make([]brtypes.Tool, 0, len(toolDefs))
	for _, t := range toolDefs {
		sanitized := sanitizeToolName(t.Name)
		if prev, ok := sanToCanon[sanitized]; ok && prev != t.Name {
			return nil, nil, fmt.Errorf("bedrock: tool name %q sanitizes to %q which collides with %q", t.Name, sanitized, prev)
		}
		sanToCanon[sanitized] = t.Name
		canonToSan[t.Name] = sanitized
		tools = append(tools, &brtypes.ToolMemberToolSpec{Value: brtypes.ToolSpecification{
			Name:        strPtr(sanitized),
			Description: strPtr(t.Description),
			InputSchema: &brtypes.ToolInputSchemaMemberJson{Value: argsDocument(t.Schema)},
		}})
	}

	cfg := &brtypes.ToolConfiguration{Tools: tools}
	if choice != nil {
		switch choice.Mode {
		case chat.ToolChoiceAuto, "":
		case chat.ToolChoiceAny:
			cfg.ToolChoice = &brtypes.ToolChoiceMemberAny{Value: brtypes.AnyToolChoice{}}
		case chat.ToolChoiceName:
			sanitized := canonToSan[choice.Name]
			if sanitized == "" {
				return nil, nil, fmt.Errorf("bedrock: tool choice name %q does not match any tool", choice.Name)
			}
			cfg.ToolChoice = &brtypes.ToolChoiceMemberTool{Value: brtypes.SpecificToolChoice{Name: strPtr(sanitized)}}
		}
	}
	return cfg, canonToSan, nil
}

// sanitizeToolName maps a tool name to Bedrock's required character set
// ([a-zA-Z0-9_-]+, <=64 chars), truncating with a stable hash suffix when
// the name is too long.
func sanitizeToolName(in string) string {
	if in == "" {
		return ""
	}
	const maxLen = 64
	out := make([]rune, 0, len(in))
	for _, r := range in {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	sanitized := string(out)
	if len(sanitized) <= maxLen {
		return sanitized
	}
	sum := sha256.Sum256([]byte(in))
	suffix := hex.EncodeToString(sum[:])[:8]
	prefixLen := maxLen - 9
	return sanitized[:prefixLen] + "_" + suffix
}

func strPtr(s string) *string { return &s }

func argsDocument(m map[string]any) document.Interface {
	if m == nil {
		m = map[string]any{}
	}
	var v any = m
	return document.NewLazyDocument(&v)
}

// toWireMessages, toWireSystemBlocks, and toWireToolConfig translate the
// typed brtypes assembly into the Converse REST JSON shape by hand: these
// SDK types implement Smithy's document protocol, not encoding/json struct
// tags, so json.Marshal on them directly would not produce valid wire JSON.
func toWireMessages(msgs []brtypes.Message) []map[string]any {
	out := make([]map[string]any, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, map[string]any{
			"role":    strings.ToLower(string(m.Role)),
			"content": toWireContentBlocks(m.Content),
		})
	}
	return out
}

func toWireContentBlocks(blocks []brtypes.ContentBlock) []map[string]any {
	out := make([]map[string]any, 0, len(blocks))
	for _, b := range blocks {
		switch v := b.(type) {
		case *brtypes.ContentBlockMemberText:
			out = append(out, map[string]any{"text": v.Value})
		case *brtypes.ContentBlockMemberToolUse:
			out = append(out, map[string]any{"toolUse": map[string]any{
				"toolUseId": derefStr(v.Value.ToolUseId),
				"name":      derefStr(v.Value.Name),
				"input":     documentValue(v.Value.Input),
			}})
		case *brtypes.ContentBlockMemberToolResult:
			out = append(out, map[string]any{"toolResult": map[string]any{
				"toolUseId": derefStr(v.Value.ToolUseId),
				"status":    string(v.Value.Status),
				"content":   toWireToolResultContent(v.Value.Content),
			}})
		case *brtypes.ContentBlockMemberCachePoint:
			out = append(out, map[string]any{"cachePoint": map[string]any{"type": string(v.Value.Type)}})
		}
	}
	return out
}

func toWireToolResultContent(blocks []brtypes.ToolResultContentBlock) []map[string]any {
	out := make([]map[string]any, 0, len(blocks))
	for _, b := range blocks {
		if v, ok := b.(*brtypes.ToolResultContentBlockMemberText); ok {
			out = append(out, map[string]any{"text": v.Value})
		}
	}
	return out
}

func toWireSystemBlocks(blocks []brtypes.SystemContentBlock) []map[string]any {
	out := make([]map[string]any, 0, len(blocks))
	for _, b := range blocks {
		switch v := b.(type) {
		case *brtypes.SystemContentBlockMemberText:
			out = append(out, map[string]any{"text": v.Value})
		case *brtypes.SystemContentBlockMemberCachePoint:
			out = append(out, map[string]any{"cachePoint": map[string]any{"type": string(v.Value.Type)}})
		}
	}
	return out
}

func toWireToolConfig(cfg *brtypes.ToolConfiguration) map[string]any {
	wire := map[string]any{}
	tools := make([]map[string]any, 0, len(cfg.Tools))
	for _, t := range cfg.Tools {
		spec, ok := t.(*brtypes.ToolMemberToolSpec)
		if !ok {
			continue
		}
		var schema any
		if js, ok := spec.Value.InputSchema.(*brtypes.ToolInputSchemaMemberJson); ok {
			schema = documentValue(js.Value)
		}
		tools = append(tools, map[string]any{
			"toolSpec": map[string]any{
				"name":        derefStr(spec.Value.Name),
				"description": derefStr(spec.Value.Description),
				"inputSchema": map[string]any{"json": schema},
			},
		})
	}
	wire["tools"] = tools
	switch c := cfg.ToolChoice.(type) {
	case *brtypes.ToolChoiceMemberAny:
		wire["toolChoice"] = map[string]any{"any": map[string]any{}}
	case *brtypes.ToolChoiceMemberTool:
		wire["toolChoice"] = map[string]any{"tool": map[string]any{"name": derefStr(c.Value.Name)}}
	}
	return wire
}

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func documentValue(doc document.Interface) any {
	if doc == nil {
		return map[string]any{}
	}
	data, err := doc.MarshalSmithyDocument()
	if err != nil {
		return map[string]any{}
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return map[string]any{}
	}
	return v
}
