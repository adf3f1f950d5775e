package anthropic

import (
	"encoding/json"
	"fmt"
	"regexp"

	sdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/webtransport"
)

func buildChatRequest(target chat.ServiceTarget, req chat.ChatRequest, opts chat.ChatOptions, stream bool) (webtransport.RequestData, error) {
	if len(req.Messages) == 0 {
		return webtransport.RequestData{}, gaierr.ErrChatReqHasNoMessages
	}

	canonToSan, sanToCanon, tools, err := encodeTools(req.Tools)
	if err != nil {
		return webtransport.RequestData{}, err
	}
	msgs, system, err := encodeMessages(req.Messages, canonToSan)
	if err != nil {
		return webtransport.RequestData{}, err
	}

	maxTokens := defaultMaxTokens
	if opts.MaxTokens != nil {
		maxTokens = *opts.MaxTokens
	}

	params := sdk.MessageNewParams{
		MaxTokens: int64(maxTokens),
		Messages:  msgs,
		Model:     sdk.Model(target.Model.ModelName),
		Stream:    sdk.Bool(stream),
	}
	if system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}
	if len(tools) > 0 {
		params.Tools = tools
	}
	if opts.Temperature != nil {
		params.Temperature = sdk.Float(*opts.Temperature)
	}
	if opts.TopP != nil {
		params.TopP = sdk.Float(*opts.TopP)
	}
	if len(opts.StopSequences) > 0 {
		params.StopSequences = opts.StopSequences
	}
	if opts.ReasoningEffort != nil {
		budget := int64(opts.ReasoningEffort.Budget)
		if budget <= 0 {
			budget = budgetForKeyword(opts.ReasoningEffort.Keyword)
		}
		if budget > 0 {
			if budget >= int64(maxTokens) {
				budget = int64(maxTokens) - 1
			}
			params.Thinking = sdk.ThinkingConfigParamOfEnabled(budget)
		}
	}
	if req.ToolChoice != nil {
		tc, err := encodeToolChoice(*req.ToolChoice, canonToSan)
		if err != nil {
			return webtransport.RequestData{}, err
		}
		params.ToolChoice = tc
	}

	payload, err := json.Marshal(params)
	if err != nil {
		return webtransport.RequestData{}, fmt.Errorf("anthropic: marshal chat request: %w", err)
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
	// sanToCanon round-trips tool names through the response parser; it
	// has no wire representation, so it isn't threaded through reqData.
	_ = sanToCanon
	return reqData, nil
}

// budgetForKeyword maps a symbolic reasoning level onto a thinking token
// budget. Anthropic has no native keyword levels, only a raw budget, so
// this picks representative values; callers that need an exact budget
// should set ReasoningEffort.Budget directly.
func budgetForKeyword(kw chat.ReasoningKeyword) int64 {
	switch kw {
	case chat.ReasoningMinimal, chat.ReasoningLow:
		return 1024
	case chat.ReasoningMedium:
		return 4096
	case chat.ReasoningHigh:
		return 16384
	default:
		return 0
	}
}

func encodeMessages(msgs []chat.ChatMessage, canonToSan map[string]string) ([]sdk.MessageParam, string, error) {
	conversation := make([]sdk.MessageParam, 0, len(msgs))
	var system string

	for _, m := range msgs {
		if m.Role == chat.RoleSystem {
			system += m.Content.FirstText()
			continue
		}

		blocks := make([]sdk.ContentBlockParamUnion, 0, len(m.Content))
		for _, part := range m.Content {
			switch v := part.(type) {
			case chat.TextPart:
				if v.Text != "" {
					blocks = append(blocks, sdk.NewTextBlock(v.Text))
				}
			case chat.ToolCallPart:
				name, ok := canonToSan[v.ToolCall.FnName]
				if !ok {
					name = sanitizeToolName(v.ToolCall.FnName)
				}
				input := v.ToolCall.FnArgs
				if input == nil {
					input = map[string]any{}
				}
				blocks = append(blocks, sdk.NewToolUseBlock(v.ToolCall.CallID, input, name))
			case chat.ToolResponsePart:
				blocks = append(blocks, sdk.NewToolResultBlock(v.ToolResponse.CallID, v.ToolResponse.Content, v.ToolResponse.IsError))
			case chat.ThoughtSignaturePart:
				// Anthropic threads thought signatures through the
				// redacted-thinking/thinking blocks it itself emitted;
				// there is no re-encodable slot for a bare signature on
				// a follow-up request, so it's dropped here.
			case chat.BinaryPart:
				return nil, "", &gaierr.ErrUnsupportedContent{Adapter: string(chat.AdapterAnthropic), Kind: "binary"}
			}
		}
		if len(blocks) == 0 {
			continue
		}
		if m.Cache.Enabled {
			applyCacheControl(blocks[len(blocks)-1])
		}

		switch m.Role {
		case chat.RoleUser, chat.RoleTool:
			conversation = append(conversation, sdk.NewUserMessage(blocks...))
		case chat.RoleAssistant:
			conversation = append(conversation, sdk.NewAssistantMessage(blocks...))
		default:
			return nil, "", &gaierr.ErrUnsupportedRole{Adapter: string(chat.AdapterAnthropic), Role: string(m.Role)}
		}
	}
	if len(conversation) == 0 {
		return nil, "", gaierr.ErrChatReqHasNoMessages
	}
	return conversation, system, nil
}

func encodeTools(toolDefs []chat.Tool) (canonToSan map[string]string, sanToCanon map[string]string, out []sdk.ToolUnionParam, err error) {
	if len(toolDefs) == 0 {
		return nil, nil, nil, nil
	}
	canonToSan = make(map[string]string, len(toolDefs))
	sanToCanon = make(map[string]string, len(toolDefs))
	out = make([]sdk.ToolUnionParam, 0, len(toolDefs))

	for _, t := range toolDefs {
		sanitized := sanitizeToolName(t.Name)
		if prev, ok := sanToCanon[sanitized]; ok && prev != t.Name {
			return nil, nil, nil, fmt.Errorf("anthropic: tool name %q sanitizes to %q which collides with %q", t.Name, sanitized, prev)
		}
		canonToSan[t.Name] = sanitized
		sanToCanon[sanitized] = t.Name

		u := sdk.ToolUnionParamOfTool(sdk.ToolInputSchemaParam{ExtraFields: t.Schema}, sanitized)
		if u.OfTool != nil {
			u.OfTool.Description = sdk.String(t.Description)
		}
		out = append(out, u)
	}
	return canonToSan, sanToCanon, out, nil
}

func encodeToolChoice(tc chat.ToolChoice, canonToSan map[string]string) (sdk.ToolChoiceUnionParam, error) {
	switch tc.Mode {
	case "", chat.ToolChoiceAuto:
		return sdk.ToolChoiceUnionParam{}, nil
	case chat.ToolChoiceNone:
		none := sdk.NewToolChoiceNoneParam()
		return sdk.ToolChoiceUnionParam{OfNone: &none}, nil
	case chat.ToolChoiceAny:
		return sdk.ToolChoiceUnionParam{OfAny: &sdk.ToolChoiceAnyParam{}}, nil
	case chat.ToolChoiceName:
		sanitized, ok := canonToSan[tc.Name]
		if !ok {
			return sdk.ToolChoiceUnionParam{}, fmt.Errorf("anthropic: tool choice name %q does not match any declared tool", tc.Name)
		}
		return sdk.ToolChoiceParamOfTool(sanitized), nil
	default:
		return sdk.ToolChoiceUnionParam{}, fmt.Errorf("anthropic: unsupported tool choice mode %q", tc.Mode)
	}
}

// applyCacheControl marks the last content block of a message as a
// prompt-caching checkpoint. Mutates through the union's pointer fields, so
// it must be called on a block still held in the slice being sent.
func applyCacheControl(block sdk.ContentBlockParamUnion) {
	cc := sdk.NewCacheControlEphemeralParam()
	switch {
	case block.OfText != nil:
		block.OfText.CacheControl = cc
	case block.OfToolUse != nil:
		block.OfToolUse.CacheControl = cc
	case block.OfToolResult != nil:
		block.OfToolResult.CacheControl = cc
	}
}

var unsafeToolNameChar = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// sanitizeToolName replaces any character Anthropic's tool-name constraint
// disallows with '_'. Anthropic tool names are limited to
// [a-zA-Z0-9_-]{1,64}.
func sanitizeToolName(name string) string {
	if name == "" {
		return name
	}
	out := unsafeToolNameChar.ReplaceAllString(name, "_")
	if len(out) > 64 {
		out = out[:64]
	}
	return out
}
