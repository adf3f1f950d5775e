package anthropic_test

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowline-ai/genai/adapter/anthropic"
	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/webtransport"
)

func testTarget() chat.ServiceTarget {
	return chat.ServiceTarget{
		Endpoint: "https://api.anthropic.com/v1",
		Auth:     chat.WithKey("sk-ant-test"),
		Model:    chat.ModelIden{AdapterKind: chat.AdapterAnthropic, ModelName: "claude-3-5-sonnet-20241022"},
	}
}

func TestBuildChatRequest_EncodesSystemToolsAndMaxTokens(t *testing.T) {
	p := anthropic.New()
	req := chat.ChatRequest{
		System:   "be terse",
		Messages: []chat.ChatMessage{chat.NewTextMessage(chat.RoleUser, "hello")},
		Tools: []chat.Tool{{
			Name:        "toolset.lookup_docs",
			Description: "search docs",
			Schema:      map[string]any{"type": "object"},
		}},
	}

	reqData, err := p.BuildChatRequest(testTarget(), req, chat.ChatOptions{}, false)
	require.NoError(t, err)
	require.Equal(t, "https://api.anthropic.com/v1/messages", reqData.URL)
	require.Equal(t, "sk-ant-test", reqData.Headers["x-api-key"])
	require.Equal(t, "2023-06-01", reqData.Headers["anthropic-version"])

	var wire map[string]any
	require.NoError(t, json.Unmarshal(reqData.Body, &wire))
	require.Equal(t, "claude-3-5-sonnet-20241022", wire["model"])
	require.EqualValues(t, 4096, wire["max_tokens"])
	system := wire["system"].([]any)
	require.Equal(t, "be terse", system[0].(map[string]any)["text"])
	tools := wire["tools"].([]any)
	require.Len(t, tools, 1)
	require.Equal(t, "toolset_lookup_docs", tools[0].(map[string]any)["name"])
}

func TestBuildChatRequest_ReasoningEffortSetsThinkingBudget(t *testing.T) {
	p := anthropic.New()
	req := chat.ChatRequest{Messages: []chat.ChatMessage{chat.NewTextMessage(chat.RoleUser, "hi")}}
	opts := chat.ChatOptions{ReasoningEffort: &chat.ReasoningEffort{Keyword: chat.ReasoningHigh}}

	reqData, err := p.BuildChatRequest(testTarget(), req, opts, false)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(reqData.Body, &wire))
	thinking := wire["thinking"].(map[string]any)
	require.Equal(t, "enabled", thinking["type"])
	// High maps to 16384, but the budget is clamped below max_tokens, which
	// defaults to 4096 here.
	require.EqualValues(t, 4095, thinking["budget_tokens"])
}

func TestParseChatResponse_NormalizesCacheUsage(t *testing.T) {
	p := anthropic.New()
	body := []byte(`{
		"model": "claude-3-5-sonnet-20241022",
		"stop_reason": "end_turn",
		"content": [{"type": "text", "text": "hi there"}],
		"usage": {"input_tokens": 10, "output_tokens": 5, "cache_creation_input_tokens": 2, "cache_read_input_tokens": 3}
	}`)

	resp, err := p.ParseChatResponse(testTarget(), webtransport.Response{Status: 200, Body: body}, false)
	require.NoError(t, err)
	require.Equal(t, "hi there", resp.FirstText())
	require.Equal(t, 15, resp.Usage.PromptTokens)
	require.Equal(t, 5, resp.Usage.CompletionTokens)
	require.Equal(t, 2, resp.Usage.PromptTokensDetails.CacheCreation)
	require.Equal(t, 3, resp.Usage.PromptTokensDetails.Cached)
}

func TestParseChatResponse_ToolUseBlockBecomesToolCall(t *testing.T) {
	p := anthropic.New()
	body := []byte(`{
		"model": "claude-3-5-sonnet-20241022",
		"content": [{"type": "tool_use", "id": "toolu_1", "name": "lookup_docs", "input": {"query": "docs"}}],
		"usage": {"input_tokens": 1, "output_tokens": 1}
	}`)

	resp, err := p.ParseChatResponse(testTarget(), webtransport.Response{Status: 200, Body: body}, false)
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls(), 1)
	require.Equal(t, "lookup_docs", resp.ToolCalls()[0].FnName)
	require.Equal(t, "docs", resp.ToolCalls()[0].FnArgs["query"])
}

func TestBuildChatStream_AssemblesTextThinkingAndToolCall(t *testing.T) {
	p := anthropic.New()
	frames := []string{
		`data: {"type":"content_block_delta","index":0,"delta":{"type":"thinking_delta","thinking":"let me think"}}`,
		`data: {"type":"content_block_delta","index":1,"delta":{"type":"text_delta","text":"hel"}}`,
		`data: {"type":"content_block_delta","index":1,"delta":{"type":"text_delta","text":"lo"}}`,
		`data: {"type":"content_block_start","index":2,"content_block":{"type":"tool_use","id":"toolu_1","name":"lookup_docs"}}`,
		`data: {"type":"content_block_delta","index":2,"delta":{"type":"input_json_delta","partial_json":"{\"q\":"}}`,
		`data: {"type":"content_block_delta","index":2,"delta":{"type":"input_json_delta","partial_json":"1}"}}`,
		`data: {"type":"content_block_stop","index":2}`,
		`data: {"type":"message_delta","delta":{"stop_reason":"tool_use"},"usage":{"input_tokens":10,"output_tokens":4}}`,
		`data: {"type":"message_stop"}`,
	}
	body := io.NopCloser(strings.NewReader(strings.Join(frames, "\n\n") + "\n\n"))

	stream, err := p.BuildChatStream(testTarget(), body, chat.ChatOptions{})
	require.NoError(t, err)

	var text, reasoning string
	var toolCallSeen bool
	var usage *chat.Usage
	for {
		ev, ok, err := stream.Next()
		if !ok {
			require.ErrorIs(t, err, io.EOF)
			break
		}
		require.NoError(t, err)
		switch ev.Kind {
		case "chunk":
			text += ev.Text
		case "reasoning_chunk":
			reasoning += ev.Text
		case "tool_call_chunk":
			toolCallSeen = true
			require.Equal(t, "lookup_docs", ev.ToolCall.FnName)
		case "end":
			usage = ev.End.CapturedUsage
		}
	}
	require.Equal(t, "hello", text)
	require.Equal(t, "let me think", reasoning)
	require.True(t, toolCallSeen)
	require.NotNil(t, usage)
	require.Equal(t, 4, usage.CompletionTokens)
}
