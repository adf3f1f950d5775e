// Package gemini implements Google's Generative Language API adapter. No
// example repo carries a Go SDK that exposes raw request/response bodies
// for this wire format (the Gemini SDKs in the pack own their own
// transport), so requests and responses are hand-built/parsed with
// encoding/json plus github.com/tidwall/gjson and github.com/tidwall/sjson
// for the deeply nested, variable-shaped fields (generationConfig.*,
// candidates[].content.parts[]).
package gemini

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

const defaultEndpoint chat.Endpoint = "https://generativelanguage.googleapis.com/v1beta"
const defaultEnvVar = "GEMINI_API_KEY"

var staticModels = []chat.ModelName{
	"gemini-2.5-pro",
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
	"text-embedding-004",
}

// Provider is the stateless Gemini adapter.
type Provider struct{}

// New returns the Gemini adapter.
func New() *Provider { return &Provider{} }

var _ adapter.Adapter = (*Provider)(nil)

// Kind returns AdapterGemini.
func (p *Provider) Kind() chat.AdapterKind { return chat.AdapterGemini }

// DefaultEndpoint returns Gemini's default base URL.
func (p *Provider) DefaultEndpoint() chat.Endpoint { return defaultEndpoint }

// DefaultAuth returns FromEnv(GEMINI_API_KEY).
func (p *Provider) DefaultAuth() chat.AuthData { return chat.FromEnv(defaultEnvVar) }

// ListStaticModels returns the compiled-in known Gemini model names.
func (p *Provider) ListStaticModels() []chat.ModelName { return staticModels }

// BuildChatRequest translates a ChatRequest into a generateContent/
// streamGenerateContent request body.
func (p *Provider) BuildChatRequest(target chat.ServiceTarget, req chat.ChatRequest, opts chat.ChatOptions, stream bool) (webtransport.RequestData, error) {
	return buildChatRequest(target, req, opts, stream)
}

// ParseChatResponse translates a generateContent response body into a
// ChatResponse.
func (p *Provider) ParseChatResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (chat.ChatResponse, error) {
	if resp.Status < 200 || resp.Status >= 300 {
		return chat.ChatResponse{}, &gaierr.ErrResponseFailedStatus{Status: resp.Status, Body: resp.Body, Headers: resp.Headers}
	}
	return parseChatResponse(target, resp, captureRawBody)
}

// BuildChatStream wraps a live streamGenerateContent body (a JSON array
// written incrementally, not SSE) into the normalized internal event
// stream.
func (p *Provider) BuildChatStream(target chat.ServiceTarget, body io.ReadCloser, opts chat.ChatOptions) (interstream.Stream, error) {
	return newStream(body), nil
}

// BuildEmbedRequest translates an EmbedRequest into a batchEmbedContents
// request body.
func (p *Provider) BuildEmbedRequest(target chat.ServiceTarget, req embed.EmbedRequest) (webtransport.RequestData, error) {
	return buildEmbedRequest(target, req)
}

// ParseEmbedResponse translates a batchEmbedContents response body into an
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
		headers["x-goog-api-key"] = auth.Key
	}
	return headers
}

// requestURL builds the model-and-method-in-path URL Gemini uses; method
// is "generateContent", "streamGenerateContent", or "batchEmbedContents".
// streamGenerateContent returns a single JSON array written incrementally
// rather than an SSE stream, so no alt=sse query is added.
func requestURL(target chat.ServiceTarget, method string) string {
	if target.Auth.Kind == chat.AuthKindRequestOverride && target.Auth.OverrideURL != "" {
		return target.Auth.OverrideURL
	}
	return strings.TrimRight(string(target.Endpoint), "/") + "/models/" + string(target.Model.ModelName) + ":" + method
}
