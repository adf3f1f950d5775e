// Package cohere implements Cohere's Chat v2 API adapter. As with Gemini,
// no example repo carries a Go SDK exposing raw request/response bodies
// for this wire format, so requests are hand-built with encoding/json and
// responses are read with github.com/tidwall/gjson, since a Cohere message
// content element is a union keyed by its "type" field the way Gemini's
// parts are.
package cohere

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

const defaultEndpoint chat.Endpoint = "https://api.cohere.com/v2"
const defaultEnvVar = "COHERE_API_KEY"

var staticModels = []chat.ModelName{
	"command-r-plus",
	"command-r",
	"command-a-03-2025",
	"command-light",
	"embed-english-v3.0",
	"embed-multilingual-v3.0",
}

// Provider is the stateless Cohere adapter.
type Provider struct{}

// New returns the Cohere adapter.
func New() *Provider { return &Provider{} }

var _ adapter.Adapter = (*Provider)(nil)

// Kind returns AdapterCohere.
func (p *Provider) Kind() chat.AdapterKind { return chat.AdapterCohere }

// DefaultEndpoint returns Cohere's default base URL.
func (p *Provider) DefaultEndpoint() chat.Endpoint { return defaultEndpoint }

// DefaultAuth returns FromEnv(COHERE_API_KEY).
func (p *Provider) DefaultAuth() chat.AuthData { return chat.FromEnv(defaultEnvVar) }

// ListStaticModels returns the compiled-in known Cohere model names.
func (p *Provider) ListStaticModels() []chat.ModelName { return staticModels }

// BuildChatRequest translates a ChatRequest into a Chat v2 request body.
func (p *Provider) BuildChatRequest(target chat.ServiceTarget, req chat.ChatRequest, opts chat.ChatOptions, stream bool) (webtransport.RequestData, error) {
	return buildChatRequest(target, req, opts, stream)
}

// ParseChatResponse translates a Chat v2 response body into a ChatResponse.
func (p *Provider) ParseChatResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (chat.ChatResponse, error) {
	if resp.Status < 200 || resp.Status >= 300 {
		return chat.ChatResponse{}, &gaierr.ErrResponseFailedStatus{Status: resp.Status, Body: resp.Body, Headers: resp.Headers}
	}
	return parseChatResponse(target, resp, captureRawBody)
}

// BuildChatStream wraps a live Chat v2 SSE body into the normalized
// internal event stream.
func (p *Provider) BuildChatStream(target chat.ServiceTarget, body io.ReadCloser, opts chat.ChatOptions) (interstream.Stream, error) {
	return newStream(body), nil
}

// BuildEmbedRequest translates an EmbedRequest into a v2 embed request
// body.
func (p *Provider) BuildEmbedRequest(target chat.ServiceTarget, req embed.EmbedRequest) (webtransport.RequestData, error) {
	return buildEmbedRequest(target, req)
}

// ParseEmbedResponse translates a v2 embed response body into an
// EmbedResponse.
func (p *Provider) ParseEmbedResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (embed.EmbedResponse, error) {
	if resp.Status < 200 || resp.Status >= 300 {
		return embed.EmbedResponse{}, &gaierr.ErrResponseFailedStatus{Status: resp.Status, Body: resp.Body, Headers: resp.Headers}
	}
	return parseEmbedResponse(target, resp, captureRawBody)
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

func requestURL(target chat.ServiceTarget, path string) string {
	if target.Auth.Kind == chat.AuthKindRequestOverride && target.Auth.OverrideURL != "" {
		return target.Auth.OverrideURL
	}
	return strings.TrimRight(string(target.Endpoint), "/") + path
}
