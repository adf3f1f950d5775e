package ollama_test

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowline-ai/genai/adapter/ollama"
	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/embed"
	"github.com/flowline-ai/genai/interstream"
	"github.com/flowline-ai/genai/webtransport"
)

func testTarget() chat.ServiceTarget {
	return chat.ServiceTarget{
		Endpoint: "http://localhost:11434",
		Auth:     chat.AuthData{},
		Model:    chat.ModelIden{AdapterKind: chat.AdapterOllama, ModelName: "deepseek-r1"},
	}
}

func TestDefaultAuth_IsZeroValue(t *testing.T) {
	p := ollama.New()
	require.Equal(t, chat.AuthData{}, p.DefaultAuth())
	require.Nil(t, p.ListStaticModels())
}

func TestBuildChatRequest_EncodesMessagesToolsAndOptions(t *testing.T) {
	p := ollama.New()
	temp := 0.5
	req := chat.ChatRequest{
		System:   "be terse",
		Messages: []chat.ChatMessage{chat.NewTextMessage(chat.RoleUser, "hello")},
		Tools:    []chat.Tool{{Name: "lookup_docs", Description: "search docs", Schema: map[string]any{"type": "object"}}},
	}
	opts := chat.ChatOptions{Temperature: &temp}

	reqData, err := p.BuildChatRequest(testTarget(), req, opts, false)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:11434/api/chat", reqData.URL)
	require.Equal(t, "application/json", reqData.Headers["Content-Type"])
	require.NotContains(t, reqData.Headers, "Authorization")

	var wire map[string]any
	require.NoError(t, json.Unmarshal(reqData.Body, &wire))
	require.Equal(t, "deepseek-r1", wire["model"])
	require.Equal(t, false, wire["stream"])
	messages := wire["messages"].([]any)
	require.Equal(t, "system", messages[0].(map[string]any)["role"])
	require.Equal(t, "user", messages[1].(map[string]any)["role"])
	tools := wire["tools"].([]any)
	require.Equal(t, "lookup_docs", tools[0].(map[string]any)["function"].(map[string]any)["name"])
	require.EqualValues(t, 0.5, wire["options"].(map[string]any)["temperature"])
}

func TestBuildChatRequest_WithAPIKeySetsBearerHeader(t *testing.T) {
	p := ollama.New()
	target := testTarget()
	target.Auth = chat.WithKey("local-secret")
	req := chat.ChatRequest{Messages: []chat.ChatMessage{chat.NewTextMessage(chat.RoleUser, "hi")}}

	reqData, err := p.BuildChatRequest(target, req, chat.ChatOptions{}, false)
	require.NoError(t, err)
	require.Equal(t, "Bearer local-secret", reqData.Headers["Authorization"])
}

func TestParseChatResponse_ExtractsTextToolCallAndUsage(t *testing.T) {
	p := ollama.New()
	body := []byte(`{
		"model": "deepseek-r1",
		"message": {"role": "assistant", "content": "hi there",
			"tool_calls": [{"function": {"name": "lookup_docs", "arguments": {"query": "docs"}}}]},
		"done": true, "prompt_eval_count": 10, "eval_count": 4
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

func TestParseChatResponse_ZeroEvalCountsLeaveUsageAbsent(t *testing.T) {
	p := ollama.New()
	body := []byte(`{"model": "deepseek-r1", "message": {"role": "assistant", "content": "hi"}, "done": true, "prompt_eval_count": 0, "eval_count": 0}`)

	resp, err := p.ParseChatResponse(testTarget(), webtransport.Response{Status: 200, Body: body}, false)
	require.NoError(t, err)
	require.True(t, resp.Usage.IsZero())
}

// TestThinkTagExtraction_IsIdempotent exercises the generic reasoning
// extraction the root client layer applies to inline <think> content, not
// the adapter itself; it is covered here because Ollama/DeepSeek-R1 is the
// scenario that motivates it.
func TestThinkTagExtraction_IsIdempotent(t *testing.T) {
	text, reasoning := interstream.ExtractOnce("<think>plan</think>answer")
	require.Equal(t, "answer", text)
	require.Equal(t, "plan", reasoning)

	text2, reasoning2 := interstream.ExtractOnce(text)
	require.Equal(t, text, text2)
	require.Equal(t, "", reasoning2)
}

func TestBuildChatStream_AssemblesTextToolCallAndUsage(t *testing.T) {
	p := ollama.New()
	lines := []string{
		`{"model":"deepseek-r1","message":{"role":"assistant","content":"hel"},"done":false}`,
		`{"model":"deepseek-r1","message":{"role":"assistant","content":"lo"},"done":false}`,
		`{"model":"deepseek-r1","message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"lookup_docs","arguments":{"q":1}}}]},"done":false}`,
		`{"model":"deepseek-r1","message":{"role":"assistant","content":""},"done":true,"prompt_eval_count":8,"eval_count":3}`,
	}
	body := io.NopCloser(strings.NewReader(strings.Join(lines, "\n") + "\n"))

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
		case interstream.Chunk:
			text += ev.Text
		case interstream.ToolCallChunk:
			toolCallSeen = true
			require.Equal(t, "lookup_docs", ev.ToolCall.FnName)
		case interstream.End:
			usage = ev.End.CapturedUsage
		}
	}
	require.Equal(t, "hello", text)
	require.True(t, toolCallSeen)
	require.NotNil(t, usage)
	require.Equal(t, 3, usage.CompletionTokens)
}

func TestBuildChatStream_FinalLineWithZeroCountsLeavesUsageNil(t *testing.T) {
	p := ollama.New()
	lines := []string{
		`{"model":"deepseek-r1","message":{"role":"assistant","content":"hi"},"done":false}`,
		`{"model":"deepseek-r1","message":{"role":"assistant","content":""},"done":true,"prompt_eval_count":0,"eval_count":0}`,
	}
	body := io.NopCloser(strings.NewReader(strings.Join(lines, "\n") + "\n"))

	stream, err := p.BuildChatStream(testTarget(), body, chat.ChatOptions{})
	require.NoError(t, err)

	var usage *chat.Usage
	var sawEnd bool
	for {
		ev, ok, err := stream.Next()
		if !ok {
			require.ErrorIs(t, err, io.EOF)
			break
		}
		require.NoError(t, err)
		if ev.Kind == interstream.End {
			sawEnd = true
			usage = ev.End.CapturedUsage
		}
	}
	require.True(t, sawEnd)
	require.Nil(t, usage)
}

func TestBuildEmbedRequest_SingleInputUnwrapped(t *testing.T) {
	p := ollama.New()
	reqData, err := p.BuildEmbedRequest(testTarget(), embed.EmbedRequest{Input: embed.Single("hello")})
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(reqData.Body, &wire))
	require.Equal(t, "hello", wire["input"])
}

func TestBuildEmbedRequest_BatchInputIsArray(t *testing.T) {
	p := ollama.New()
	reqData, err := p.BuildEmbedRequest(testTarget(), embed.EmbedRequest{Input: embed.Batch([]string{"a", "b"})})
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(reqData.Body, &wire))
	inputs := wire["input"].([]any)
	require.Equal(t, []any{"a", "b"}, inputs)
}

func TestParseEmbedResponse_ExtractsVectorsAndUsage(t *testing.T) {
	p := ollama.New()
	body := []byte(`{"model": "nomic-embed-text", "embeddings": [[0.1, 0.2]], "prompt_eval_count": 5}`)
	resp, err := p.ParseEmbedResponse(testTarget(), webtransport.Response{Status: 200, Body: body}, false)
	require.NoError(t, err)
	require.Len(t, resp.Embeddings, 1)
	require.Equal(t, []float64{0.1, 0.2}, resp.Embeddings[0].Vector)
	require.Equal(t, 5, resp.Usage.PromptTokens)
}
