package compat

import (
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
)

// encodeMessages translates a ChatRequest's system prompt and message
// history into OpenAI wire messages. ToolCallPart/ToolResponsePart content
// translate to the assistant tool_calls / standalone tool-role message
// shapes OpenAI expects; a RawFnArgs fallback (malformed upstream JSON) is
// re-emitted verbatim rather than round-tripped through a map.
func encodeMessages(req chat.ChatRequest) ([]openai.ChatCompletionMessage, error) {
	out := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		msgs, err := encodeMessage(m)
		if err != nil {
			return nil, err
		}
		out = append(out, msgs...)
	}
	return out, nil
}

func encodeMessage(m chat.ChatMessage) ([]openai.ChatCompletionMessage, error) {
	role, err := encodeRole(m.Role)
	if err != nil {
		return nil, err
	}

	var text string
	var toolCalls []openai.ToolCall
	var toolMsgs []openai.ChatCompletionMessage
	for _, part := range m.Content {
		switch v := part.(type) {
		case chat.TextPart:
			text += v.Text
		case chat.ToolCallPart:
			args := v.ToolCall.RawFnArgs
			if args == "" {
				raw, err := json.Marshal(v.ToolCall.FnArgs)
				if err != nil {
					return nil, fmt.Errorf("compat: encode tool call arguments: %w", err)
				}
				args = string(raw)
			}
			toolCalls = append(toolCalls, openai.ToolCall{
				ID:   v.ToolCall.CallID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      v.ToolCall.FnName,
					Arguments: args,
				},
			})
		case chat.ToolResponsePart:
			toolMsgs = append(toolMsgs, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: v.ToolResponse.CallID,
				Content:    v.ToolResponse.Content,
			})
		case chat.ThoughtSignaturePart:
			// OpenAI's wire format has no slot for an opaque reasoning
			// signature; it is carried only for providers that require
			// continuity (Gemini, Anthropic), so it is dropped here.
		case chat.BinaryPart:
			return nil, &gaierr.ErrUnsupportedContent{Adapter: "openai-compatible", Kind: "binary"}
		}
	}

	msgs := make([]openai.ChatCompletionMessage, 0, 1+len(toolMsgs))
	if text != "" || len(toolCalls) > 0 || (len(m.Content) == 0 && role != openai.ChatMessageRoleTool) {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: text, ToolCalls: toolCalls})
	}
	msgs = append(msgs, toolMsgs...)
	return msgs, nil
}

func encodeRole(r chat.Role) (string, error) {
	switch r {
	case chat.RoleSystem:
		return openai.ChatMessageRoleSystem, nil
	case chat.RoleUser:
		return openai.ChatMessageRoleUser, nil
	case chat.RoleAssistant:
		return openai.ChatMessageRoleAssistant, nil
	case chat.RoleTool:
		return openai.ChatMessageRoleTool, nil
	default:
		return "", &gaierr.ErrUnsupportedRole{Adapter: "openai-compatible", Role: string(r)}
	}
}

// encodeTools translates declared Tools into OpenAI's function-tool wire
// shape.
func encodeTools(tools []chat.Tool) ([]openai.Tool, error) {
	if len(tools) == 0 {
		return nil, nil
	}
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Schema,
			},
		})
	}
	return out, nil
}

// encodeToolChoice translates a ToolChoice into the value go-openai expects
// for ChatCompletionRequest.ToolChoice: either one of the literal strings
// "auto"/"none"/"required", or a structured {type, function{name}} value
// when a specific tool is pinned.
func encodeToolChoice(tc chat.ToolChoice) any {
	switch tc.Mode {
	case chat.ToolChoiceNone:
		return "none"
	case chat.ToolChoiceAny:
		return "required"
	case chat.ToolChoiceName:
		return openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: tc.Name},
		}
	default:
		return "auto"
	}
}

// applySamplingOptions copies ChatOptions' sampling/structure knobs onto an
// outbound ChatCompletionRequest, leaving provider defaults in place for
// anything unset.
func applySamplingOptions(body *openai.ChatCompletionRequest, opts chat.ChatOptions) {
	if opts.Temperature != nil {
		body.Temperature = float32(*opts.Temperature)
	}
	if opts.TopP != nil {
		body.TopP = float32(*opts.TopP)
	}
	if opts.MaxTokens != nil {
		body.MaxTokens = *opts.MaxTokens
	}
	if len(opts.StopSequences) > 0 {
		body.Stop = opts.StopSequences
	}
	if opts.Seed != nil {
		seed := int(*opts.Seed)
		body.Seed = &seed
	}
	if opts.ReasoningEffort != nil {
		switch opts.ReasoningEffort.Keyword {
		case chat.ReasoningMinimal:
			body.ReasoningEffort = "minimal"
		case chat.ReasoningLow:
			body.ReasoningEffort = "low"
		case chat.ReasoningMedium:
			body.ReasoningEffort = "medium"
		case chat.ReasoningHigh:
			body.ReasoningEffort = "high"
		}
	}
	if opts.ResponseFormat != nil && opts.ResponseFormat.Kind == chat.ResponseFormatJSONMode {
		body.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}
	// ResponseFormatJSONSpec (a named schema) is injected as raw JSON
	// after marshaling in BuildChatRequest, via sjson: go-openai's
	// ChatCompletionResponseFormatJSONSchema.Schema type wants its own
	// jsonschema.Definition, which doesn't accept an arbitrary
	// map[string]any, so patching the marshaled bytes directly sidesteps
	// the mismatch without inventing a conversion.
	// ServiceTier has no dedicated go-openai struct field as of the
	// version this module pins; BuildChatRequest patches it onto the
	// marshaled body directly, the same way it handles a JSON-schema
	// response format.
}

// translateChoice maps the first choice of an OpenAI Chat Completions
// response into normalized content, splitting out a standalone reasoning
// field when the provider echoes one back (DeepSeek-R1's reasoning_content,
// surfaced by go-openai as ChatCompletionMessage.ReasoningContent).
func translateChoice(choice openai.ChatCompletionChoice) (chat.MessageContent, string, error) {
	var content chat.MessageContent
	if choice.Message.Content != "" {
		content = append(content, chat.TextPart{Text: choice.Message.Content})
	}
	for _, tc := range choice.Message.ToolCalls {
		fnArgs, rawArgs := parseToolArguments(tc.Function.Arguments)
		content = append(content, chat.ToolCallPart{ToolCall: chat.ToolCall{
			CallID:    tc.ID,
			FnName:    tc.Function.Name,
			FnArgs:    fnArgs,
			RawFnArgs: rawArgs,
		}})
	}
	return content, choice.Message.ReasoningContent, nil
}

// parseToolArguments tolerantly parses a tool call's argument string. On
// success it returns the parsed object and an empty raw string; on failure
// (the provider emitted malformed or partial JSON) it returns a nil map and
// preserves the original string in RawFnArgs.
func parseToolArguments(raw string) (map[string]any, string) {
	if raw == "" {
		return map[string]any{}, ""
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, raw
	}
	return parsed, ""
}
