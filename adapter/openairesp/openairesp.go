// Package openairesp implements OpenAI's Responses API, the newer
// request/response shape OpenAI is migrating some models onto (notably the
// codex family). It is a distinct adapter from adapter/compat's Chat
// Completions wire format rather than a branch inside it, since the
// request/response/stream shapes don't line up field for field: "messages"
// becomes "input", "choices" becomes "output", and streaming is a sequence
// of named "response.*" events instead of incremental choice deltas.
//
// No example repo carries a Go type set for this API, so requests and
// responses are hand-marshaled with encoding/json.
package openairesp

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

const defaultEndpoint chat.Endpoint = "https://api.openai.com/v1"
const defaultEnvVar = "OPENAI_API_KEY"

var staticModels = []chat.ModelName{
	"gpt-5-codex",
	"gpt-5-pro",
	"codex-mini-latest",
}

// Provider is the stateless OpenAI Responses API adapter.
type Provider struct{}

// New returns the OpenAI Responses API adapter.
func New() *Provider { return &Provider{} }

var _ adapter.Adapter = (*Provider)(nil)

// Kind returns AdapterOpenAIResp.
func (p *Provider) Kind() chat.AdapterKind { return chat.AdapterOpenAIResp }

// DefaultEndpoint returns OpenAI's default base URL.
func (p *Provider) DefaultEndpoint() chat.Endpoint { return defaultEndpoint }

// DefaultAuth returns FromEnv(OPENAI_API_KEY).
func (p *Provider) DefaultAuth() chat.AuthData { return chat.FromEnv(defaultEnvVar) }

// ListStaticModels returns the compiled-in known Responses-only model
// names.
func (p *Provider) ListStaticModels() []chat.ModelName { return staticModels }

// BuildChatRequest translates a ChatRequest into a Responses API request
// body.
func (p *Provider) BuildChatRequest(target chat.ServiceTarget, req chat.ChatRequest, opts chat.ChatOptions, stream bool) (webtransport.RequestData, error) {
	return buildChatRequest(target, req, opts, stream)
}

// ParseChatResponse translates a Responses API response body into a
// ChatResponse.
func (p *Provider) ParseChatResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (chat.ChatResponse, error) {
	if resp.Status < 200 || resp.Status >= 300 {
		return chat.ChatResponse{}, &gaierr.ErrResponseFailedStatus{Status: resp.Status, Body: resp.Body, Headers: resp.Headers}
	}
	return parseChatResponse(target, resp, captureRawBody)
}

// BuildChatStream wraps a live Responses API SSE body into the normalized
// internal event stream.
func (p *Provider) BuildChatStream(target chat.ServiceTarget, body io.ReadCloser, opts chat.ChatOptions) (interstream.Stream, error) {
	return newStream(body), nil
}

// BuildEmbedRequest always fails: the Responses API has no embeddings
// endpoint of its own; use adapter/openai for embeddings.
func (p *Provider) BuildEmbedRequest(target chat.ServiceTarget, req embed.EmbedRequest) (webtransport.RequestData, error) {
	return webtransport.RequestData{}, &gaierr.ErrAdapterNotSupported{Adapter: string(chat.AdapterOpenAIResp), Feature: "embed"}
}

// ParseEmbedResponse always fails, matching BuildEmbedRequest.
func (p *Provider) ParseEmbedResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (embed.EmbedResponse, error) {
	return embed.EmbedResponse{}, &gaierr.ErrAdapterNotSupported{Adapter: string(chat.AdapterOpenAIResp), Feature: "embed"}
}

func requestURL(target chat.ServiceTarget) string {
	if target.Auth.Kind == chat.AuthKindRequestOverride && target.Auth.OverrideURL != "" {
		return target.Auth.OverrideURL
	}
	return strings.TrimRight(string(target.Endpoint), "/") + "/responses"
}

func authHeaders(auth chat.AuthData) map[string]string {
	headers := map[string]string{"Content-Type": "application/json"}
	switch auth.Kind {
	case chat.AuthKindRequestOverride:
		for k, v := range auth.OverrideHeaders {
			headers[k] = v
		}
	case chat.AuthKindKey:
		headers["Authorization"] = "Bearer " + auth.Key
	}
	return headers
}
