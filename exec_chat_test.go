package genai_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	genai "github.com/flowline-ai/genai"
	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
)

func testTarget(serverURL string) chat.ServiceTarget {
	return chat.ServiceTarget{
		Endpoint: chat.Endpoint(serverURL),
		Model:    chat.ModelIden{AdapterKind: chat.AdapterOllama, ModelName: "llama3"},
	}
}

func TestExecChat_NoMessagesReturnsTypedError(t *testing.T) {
	c, err := genai.NewClient()
	require.NoError(t, err)
	_, err = c.ExecChat(context.Background(), genai.Bare("gpt-4o"), chat.ChatRequest{})
	require.ErrorIs(t, err, gaierr.ErrChatReqHasNoMessages)
}

func TestExecChat_ParsesSuccessfulResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"hi there"},"done":true,"prompt_eval_count":5,"eval_count":2}`))
	}))
	defer srv.Close()

	c, err := genai.NewClient()
	require.NoError(t, err)

	req := chat.ChatRequest{Messages: []chat.ChatMessage{chat.NewTextMessage(chat.RoleUser, "hello")}}
	resp, err := c.ExecChat(context.Background(), genai.FromTarget(testTarget(srv.URL)), req)
	require.NoError(t, err)
	require.Equal(t, "hi there", resp.FirstText())
	require.Equal(t, 5, resp.Usage.PromptTokens)
	require.Equal(t, 2, resp.Usage.CompletionTokens)
}

func TestExecChat_NonSuccessStatusReturnsTypedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	c, err := genai.NewClient()
	require.NoError(t, err)

	req := chat.ChatRequest{Messages: []chat.ChatMessage{chat.NewTextMessage(chat.RoleUser, "hello")}}
	_, err = c.ExecChat(context.Background(), genai.FromTarget(testTarget(srv.URL)), req)
	require.Error(t, err)
	var failed *gaierr.ErrResponseFailedStatus
	require.ErrorAs(t, err, &failed)
	require.Equal(t, http.StatusTooManyRequests, failed.Status)
}

func TestExecChat_RequestIDHeaderStampedWhenEnabled(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-Id")
		w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"ok"},"done":true}`))
	}))
	defer srv.Close()

	c, err := genai.NewClient(genai.WithRequestID())
	require.NoError(t, err)

	req := chat.ChatRequest{Messages: []chat.ChatMessage{chat.NewTextMessage(chat.RoleUser, "hello")}}
	_, err = c.ExecChat(context.Background(), genai.FromTarget(testTarget(srv.URL)), req)
	require.NoError(t, err)
	require.NotEmpty(t, seen)
}

func TestExecChat_NormalizeReasoningContentExtractsThinkTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"<think>pondering</think>the answer is 4"},"done":true}`))
	}))
	defer srv.Close()

	c, err := genai.NewClient()
	require.NoError(t, err)

	req := chat.ChatRequest{
		Messages: []chat.ChatMessage{chat.NewTextMessage(chat.RoleUser, "2+2?")},
		Options:  chat.ChatOptions{NormalizeReasoningContent: true},
	}
	resp, err := c.ExecChat(context.Background(), genai.FromTarget(testTarget(srv.URL)), req)
	require.NoError(t, err)
	require.Equal(t, "the answer is 4", resp.FirstText())
	require.Equal(t, "pondering", resp.ReasoningContent)
}

func TestExecChat_UnknownAdapterKindFromTargetReturnsTypedError(t *testing.T) {
	c, err := genai.NewClient()
	require.NoError(t, err)

	target := chat.ServiceTarget{Model: chat.ModelIden{AdapterKind: "not-a-real-adapter", ModelName: "x"}}
	req := chat.ChatRequest{Messages: []chat.ChatMessage{chat.NewTextMessage(chat.RoleUser, "hi")}}
	_, err = c.ExecChat(context.Background(), genai.FromTarget(target), req)
	require.Error(t, err)
	var notSupported *gaierr.ErrAdapterNotSupported
	require.ErrorAs(t, err, &notSupported)
}
