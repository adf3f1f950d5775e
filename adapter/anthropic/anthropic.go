// Package anthropic implements the Claude Messages API adapter. Requests
// are built with github.com/anthropics/anthropic-sdk-go's param types for
// wire fidelity (tool blocks, content blocks, thinking config); the actual
// HTTP call goes through this module's own webtransport package rather
// than the SDK's client, so Anthropic's SSE framing is parsed by the same
// generic stream machinery every other adapter uses.
package anthropic

import (
	"io"
	"strings"

	"github.com/flowline-ai/genai/adapter"
	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/embed"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/interstream"
	"github.com/flowline-ai/genai/webtransport"
)

const defaultEndpoint chat.Endpoint = "https://api.anthropic.com/v1"
const defaultEnvVar = "ANTHROPIC_API_KEY"
const apiVersion = "2023-06-01"

// defaultMaxTokens is used when a request sets no MaxTokens, since
// Anthropic's Messages API requires max_tokens on every call.
const defaultMaxTokens = 4096

var staticModels = []chat.ModelName{
	"claude-opus-4-1-20250805",
	"claude-opus-4-20250514",
	"claude-sonnet-4-5-20250929",
	"claude-sonnet-4-20250514",
	"claude-3-7-sonnet-20250219",
	"claude-3-5-sonnet-20241022",
	"claude-3-5-haiku-20241022",
	"claude-3-haiku-20240307",
}

// Provider is the stateless Anthropic adapter.
type Provider struct{}

// New returns the Anthropic adapter.
func New() *Provider { return &Provider{} }

var _ adapter.Adapter = (*Provider)(nil)

// Kind returns AdapterAnthropic.
func (p *Provider) Kind() chat.AdapterKind { return chat.AdapterAnthropic }

// DefaultEndpoint returns Anthropic's default base URL.
func (p *Provider) DefaultEndpoint() chat.Endpoint { return defaultEndpoint }

// DefaultAuth returns FromEnv(ANTHROPIC_API_KEY).
func (p *Provider) DefaultAuth() chat.AuthData { return chat.FromEnv(defaultEnvVar) }

// ListStaticModels returns the compiled-in known Claude model names.
func (p *Provider) ListStaticModels() []chat.ModelName { return staticModels }

// BuildChatRequest translates a ChatRequest into an Anthropic Messages API
// request body.
func (p *Provider) BuildChatRequest(target chat.ServiceTarget, req chat.ChatRequest, opts chat.ChatOptions, stream bool) (webtransport.RequestData, error) {
	return buildChatRequest(target, req, opts, stream)
}

// ParseChatResponse translates an Anthropic Messages API response body
// into a ChatResponse.
func (p *Provider) ParseChatResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (chat.ChatResponse, error) {
	if resp.Status < 200 || resp.Status >= 300 {
		return chat.ChatResponse{}, &gaierr.ErrResponseFailedStatus{Status: resp.Status, Body: resp.Body, Headers: resp.Headers}
	}
	return parseChatResponse(target, resp, captureRawBody)
}

// BuildChatStream wraps a live Anthropic Messages SSE body into the
// normalized internal event stream.
func (p *Provider) BuildChatStream(target chat.ServiceTarget, body io.ReadCloser, opts chat.ChatOptions) (interstream.Stream, error) {
	return newStream(body), nil
}

// BuildEmbedRequest always fails: Anthropic exposes no embeddings
// endpoint.
func (p *Provider) BuildEmbedRequest(target chat.ServiceTarget, req embed.EmbedRequest) (webtransport.RequestData, error) {
	return webtransport.RequestData{}, &gaierr.ErrAdapterNotSupported{Adapter: string(chat.AdapterAnthropic), Feature: "embed"}
}

// ParseEmbedResponse always fails: Anthropic exposes no embeddings
// endpoint.
func (p *Provider) ParseEmbedResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (embed.EmbedResponse, error) {
	return embed.EmbedResponse{}, &gaierr.ErrAdapterNotSupported{Adapter: string(chat.AdapterAnthropic), Feature: "embed"}
}

func authHeaders(auth chat.AuthData) map[string]string {
	headers := map[string]string{"anthropic-version": apiVersion, "Content-Type": "application/json"}
	switch auth.Kind {
	case chat.AuthKindRequestOverride:
		for k, v := range auth.OverrideHeaders {
			headers[k] = v
		}
	case chat.AuthKindKey:
		headers["x-api-key"] = auth.Key
	}
	return headers
}

func requestURL(target chat.ServiceTarget) string {
	if target.Auth.Kind == chat.AuthKindRequestOverride && target.Auth.OverrideURL != "" {
		return target.Auth.OverrideURL
	}
	return strings.TrimRight(string(target.Endpoint), "/") + "/messages"
}
