package bedrock_test

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws/protocol/eventstream"
	"github.com/stretchr/testify/require"

	"github.com/flowline-ai/genai/adapter/bedrock"
	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/embed"
	"github.com/flowline-ai/genai/webtransport"
)

func testTarget() chat.ServiceTarget {
	return chat.ServiceTarget{
		Endpoint: "https://bedrock-runtime.us-east-1.amazonaws.com",
		Auth:     chat.WithKey("bedrock-test-token"),
		Model:    chat.ModelIden{AdapterKind: chat.AdapterBedrock, ModelName: "anthropic.claude-sonnet-4-20250514-v1:0"},
	}
}

func TestBuildChatRequest_EncodesSystemToolsAndCache(t *testing.T) {
	p := bedrock.New()
	req := chat.ChatRequest{
		System: "be terse",
		Messages: []chat.ChatMessage{
			{Role: chat.RoleUser, Content: chat.MessageContent{chat.TextPart{Text: "hello"}}, Cache: chat.CacheControl{Enabled: true}},
		},
		Tools: []chat.Tool{{Name: "toolset.lookup docs!", Description: "search docs", Schema: map[string]any{"type": "object"}}},
	}

	reqData, err := p.BuildChatRequest(testTarget(), req, chat.ChatOptions{}, false)
	require.NoError(t, err)
	require.Equal(t, "https://bedrock-runtime.us-east-1.amazonaws.com/model/anthropic.claude-sonnet-4-20250514-v1%3A0/converse", reqData.URL)
	require.Equal(t, "Bearer bedrock-test-token", reqData.Headers["Authorization"])

	var wire map[string]any
	require.NoError(t, json.Unmarshal(reqData.Body, &wire))
	system := wire["system"].([]any)
	require.Equal(t, "be terse", system[0].(map[string]any)["text"])

	messages := wire["messages"].([]any)
	content := messages[0].(map[string]any)["content"].([]any)
	require.Equal(t, "hello", content[0].(map[string]any)["text"])
	require.Contains(t, content[1].(map[string]any), "cachePoint")

	tools := wire["toolConfig"].(map[string]any)["tools"].([]any)
	toolSpec := tools[0].(map[string]any)["toolSpec"].(map[string]any)
	// Disallowed characters (space, '!') are sanitized to underscores.
	require.Equal(t, "toolset_lookup_docs_", toolSpec["name"])
}

func TestBuildChatRequest_StreamUsesConverseStreamPath(t *testing.T) {
	p := bedrock.New()
	req := chat.ChatRequest{Messages: []chat.ChatMessage{chat.NewTextMessage(chat.RoleUser, "hi")}}

	reqData, err := p.BuildChatRequest(testTarget(), req, chat.ChatOptions{}, true)
	require.NoError(t, err)
	require.Contains(t, reqData.URL, "/converse-stream")
}

func TestParseChatResponse_ExtractsTextToolCallAndUsage(t *testing.T) {
	p := bedrock.New()
	body := []byte(`{
		"output": {"message": {"role": "assistant", "content": [
			{"text": "hi there"},
			{"toolUse": {"toolUseId": "call_1", "name": "lookup_docs", "input": {"query": "docs"}}}
		]}},
		"usage": {"inputTokens": 10, "outputTokens": 4, "totalTokens": 14, "cacheReadInputTokens": 3}
	}`)

	resp, err := p.ParseChatResponse(testTarget(), webtransport.Response{Status: 200, Body: body}, false)
	require.NoError(t, err)
	require.Equal(t, "hi there", resp.FirstText())
	require.Len(t, resp.ToolCalls(), 1)
	require.Equal(t, "lookup_docs", resp.ToolCalls()[0].FnName)
	require.Equal(t, "docs", resp.ToolCalls()[0].FnArgs["query"])
	require.Equal(t, 10, resp.Usage.PromptTokens)
	require.Equal(t, 4, resp.Usage.CompletionTokens)
	require.NotNil(t, resp.Usage.PromptTokensDetails)
	require.Equal(t, 3, resp.Usage.PromptTokensDetails.Cached)
}

func TestParseChatResponse_NonSuccessStatusReturnsTypedError(t *testing.T) {
	p := bedrock.New()
	_, err := p.ParseChatResponse(testTarget(), webtransport.Response{Status: 429, Body: []byte(`{}`)}, false)
	require.Error(t, err)
}

// writeEventStreamFrame encodes one application/vnd.amazon.eventstream
// frame using the same encoder the real client would, so this test
// exercises the exact framing bedrock.stream decodes.
func writeEventStreamFrame(w *bytes.Buffer, eventType string, payload []byte) {
	enc := eventstream.NewEncoder()
	_ = enc.Encode(w, eventstream.Message{
		Headers: eventstream.Headers{
			{Name: ":message-type", Value: eventstream.StringValue("event")},
			{Name: ":event-type", Value: eventstream.StringValue(eventType)},
		},
		Payload: payload,
	})
}

func TestBuildChatStream_AssemblesTextToolCallAndUsage(t *testing.T) {
	p := bedrock.New()
	var buf bytes.Buffer
	writeEventStreamFrame(&buf, "contentBlockDelta", []byte(`{"contentBlockIndex":0,"delta":{"text":"hello"}}`))
	writeEventStreamFrame(&buf, "contentBlockStart", []byte(`{"contentBlockIndex":1,"start":{"toolUse":{"toolUseId":"call_1","name":"lookup_docs"}}}`))
	writeEventStreamFrame(&buf, "contentBlockDelta", []byte(`{"contentBlockIndex":1,"delta":{"toolUse":{"input":"{\"q\":1}"}}}`))
	writeEventStreamFrame(&buf, "contentBlockStop", []byte(`{"contentBlockIndex":1}`))
	writeEventStreamFrame(&buf, "metadata", []byte(`{"usage":{"inputTokens":8,"outputTokens":3,"totalTokens":11}}`))

	body := io.NopCloser(&buf)
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

func TestBuildEmbedRequest_AlwaysUnsupported(t *testing.T) {
	p := bedrock.New()
	_, err := p.BuildEmbedRequest(testTarget(), embed.EmbedRequest{Input: embed.Single("hello")})
	require.Error(t, err)
}
