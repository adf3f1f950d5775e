package cohere_test

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowline-ai/genai/adapter/cohere"
	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/embed"
	"github.com/flowline-ai/genai/webtransport"
)

func testTarget() chat.ServiceTarget {
	return chat.ServiceTarget{
		Endpoint: "https://api.cohere.com/v2",
		Auth:     chat.WithKey("co-test"),
		Model:    chat.ModelIden{AdapterKind: chat.AdapterCohere, ModelName: "command-r"},
	}
}

func TestBuildChatRequest_EncodesSystemAndTools(t *testing.T) {
	p := cohere.New()
	req := chat.ChatRequest{
		System:   "be terse",
		Messages: []chat.ChatMessage{chat.NewTextMessage(chat.RoleUser, "hello")},
		Tools:    []chat.Tool{{Name: "lookup_docs", Description: "search docs", Schema: map[string]any{"type": "object"}}},
	}

	reqData, err := p.BuildChatRequest(testTarget(), req, chat.ChatOptions{}, false)
	require.NoError(t, err)
	require.Equal(t, "https://api.cohere.com/v2/chat", reqData.URL)
	require.Equal(t, "Bearer co-test", reqData.Headers["Authorization"])

	var wire map[string]any
	require.NoError(t, json.Unmarshal(reqData.Body, &wire))
	messages := wire["messages"].([]any)
	require.Equal(t, "system", messages[0].(map[string]any)["role"])
	require.Equal(t, "user", messages[1].(map[string]any)["role"])
	tools := wire["tools"].([]any)
	require.Equal(t, "lookup_docs", tools[0].(map[string]any)["function"].(map[string]any)["name"])
}

func TestParseChatResponse_ExtractsTextToolCallAndUsage(t *testing.T) {
	p := cohere.New()
	body := []byte(`{
		"message": {"role": "assistant", "content": [{"type": "text", "text": "hi there"}],
			"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "lookup_docs", "arguments": "{\"query\":\"docs\"}"}}]},
		"usage": {"billed_units": {"input_tokens": 10, "output_tokens": 4}}
	}`)

	resp, err := p.ParseChatResponse(testTarget(), webtransport.Response{Status: 200, Body: body}, false)
	require.NoError(t, err)
	require.Equal(t, "hi there", resp.FirstText())
	require.Len(t, resp.ToolCalls(), 1)
	require.Equal(t, "lookup_docs", resp.ToolCalls()[0].FnName)
	require.Equal(t, "docs", resp.ToolCalls()[0].FnArgs["query"])
	require.Equal(t, 10, resp.Usage.PromptTokens)
	require.Equal(t, 4, resp.Usage.CompletionTokens)
}

func TestBuildChatStream_AssemblesTextAndToolCall(t *testing.T) {
	p := cohere.New()
	frames := []string{
		`data: {"type":"content-delta","delta":{"message":{"content":{"text":"hel"}}}}`,
		`data: {"type":"content-delta","delta":{"message":{"content":{"text":"lo"}}}}`,
		`data: {"type":"tool-call-start","delta":{"message":{"tool_calls":{"id":"call_1","function":{"name":"lookup_docs"}}}}}`,
		`data: {"type":"tool-call-delta","delta":{"message":{"tool_calls":{"function":{"arguments":"{\"q\":1}"}}}}}`,
		`data: {"type":"tool-call-end"}`,
		`data: {"type":"message-end","delta":{"usage":{"billed_units":{"input_tokens":8,"output_tokens":3}}}}`,
	}
	body := io.NopCloser(strings.NewReader(strings.Join(frames, "\n\n") + "\n\n"))

	stream, err := p.BuildChatStream(testTarget(), body, chat.ChatOptions{})
	require.NoError(t, err)

	var text string
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
		case "tool_call_chunk":
			toolCallSeen = true
			require.Equal(t, "lookup_docs", ev.ToolCall.FnName)
		case "end":
			usage = ev.End.CapturedUsage
		}
	}
	require.Equal(t, "hello", text)
	require.True(t, toolCallSeen)
	require.NotNil(t, usage)
	require.Equal(t, 3, usage.CompletionTokens)
}

func TestBuildEmbedRequest_DefaultsInputTypeToSearchDocument(t *testing.T) {
	p := cohere.New()
	reqData, err := p.BuildEmbedRequest(testTarget(), embed.EmbedRequest{Input: embed.Single("hello")})
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(reqData.Body, &wire))
	require.Equal(t, "search_document", wire["input_type"])
}

func TestParseEmbedResponse_ExtractsFloatVectors(t *testing.T) {
	p := cohere.New()
	body := []byte(`{"embeddings": {"float": [[0.1, 0.2]]}, "meta": {"billed_units": {"input_tokens": 3}}}`)
	resp, err := p.ParseEmbedResponse(testTarget(), webtransport.Response{Status: 200, Body: body}, false)
	require.NoError(t, err)
	require.Len(t, resp.Embeddings, 1)
	require.Equal(t, []float64{0.1, 0.2}, resp.Embeddings[0].Vector)
	require.Equal(t, 3, resp.Usage.PromptTokens)
}
