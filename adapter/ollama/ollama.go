// Package ollama implements the adapter for a locally or self-hosted
// Ollama server. Like Gemini and Cohere, no example repo carries a
// matching Go SDK exposing raw bodies, so requests/responses are
// hand-built with encoding/json; streaming is newline-delimited JSON
// rather than SSE, read through webtransport's Delimiter("\n") ByteStream.
package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/flowline-ai/genai/adapter"
	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/embed"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/interstream"
	"github.com/flowline-ai/genai/webtransport"
)

const defaultEndpoint chat.Endpoint = "http://localhost:11434"

// Provider is the stateless Ollama adapter.
type Provider struct{}

// New returns the Ollama adapter.
func New() *Provider { return &Provider{} }

var _ adapter.Adapter = (*Provider)(nil)
var _ adapter.ModelLister = (*Provider)(nil)

// Kind returns AdapterOllama.
func (p *Provider) Kind() chat.AdapterKind { return chat.AdapterOllama }

// DefaultEndpoint returns the conventional local Ollama server address.
func (p *Provider) DefaultEndpoint() chat.Endpoint { return defaultEndpoint }

// DefaultAuth returns a zero AuthData: Ollama requires no key by default.
func (p *Provider) DefaultAuth() chat.AuthData { return chat.AuthData{} }

// ListStaticModels returns an empty list: Ollama has no fixed catalog,
// only whatever models an operator has pulled locally. Callers wanting
// the real catalog use ListModelsLive.
func (p *Provider) ListStaticModels() []chat.ModelName { return nil }

// ListModelsLive fetches the set of models actually pulled on the target
// server via GET /api/tags.
func (p *Provider) ListModelsLive(endpoint chat.Endpoint, auth chat.AuthData) ([]chat.ModelName, error) {
	url := strings.TrimRight(string(endpoint), "/") + "/api/tags"
	resp, err := webtransport.Do(context.Background(), http.DefaultClient, webtransport.RequestData{
		Method:  "GET",
		URL:     url,
		Headers: authHeaders(auth),
	})
	if err != nil {
		return nil, err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return nil, &gaierr.ErrResponseFailedStatus{Status: resp.Status, Body: resp.Body, Headers: resp.Headers}
	}

	var wire struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return nil, &gaierr.ErrInvalidJsonResponseElement{Element: "models", Cause: err}
	}
	out := make([]chat.ModelName, 0, len(wire.Models))
	for _, m := range wire.Models {
		out = append(out, chat.ModelName(m.Name))
	}
	return out, nil
}

// BuildChatRequest translates a ChatRequest into an /api/chat request
// body.
func (p *Provider) BuildChatRequest(target chat.ServiceTarget, req chat.ChatRequest, opts chat.ChatOptions, stream bool) (webtransport.RequestData, error) {
	return buildChatRequest(target, req, opts, stream)
}

// ParseChatResponse translates an /api/chat unary response body into a
// ChatResponse.
func (p *Provider) ParseChatResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (chat.ChatResponse, error) {
	if resp.Status < 200 || resp.Status >= 300 {
		return chat.ChatResponse{}, &gaierr.ErrResponseFailedStatus{Status: resp.Status, Body: resp.Body, Headers: resp.Headers}
	}
	return parseChatResponse(target, resp, captureRawBody)
}

// BuildChatStream wraps a live /api/chat NDJSON body into the normalized
// internal event stream.
func (p *Provider) BuildChatStream(target chat.ServiceTarget, body io.ReadCloser, opts chat.ChatOptions) (interstream.Stream, error) {
	return newStream(body, opts), nil
}

// BuildEmbedRequest translates an EmbedRequest into an /api/embed request
// body.
func (p *Provider) BuildEmbedRequest(target chat.ServiceTarget, req embed.EmbedRequest) (webtransport.RequestData, error) {
	return buildEmbedRequest(target, req)
}

// ParseEmbedResponse translates an /api/embed response body into an
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
