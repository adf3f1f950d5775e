// Package compat implements the shared OpenAI-wire-compatible adapter used
// by OpenAI itself and every OpenAI-compatible provider (Groq, xAI,
// DeepSeek, Together, Fireworks, Nebius, Zhipu, Z.AI, Mimo, OpenRouter).
// Requests and responses are marshaled/unmarshaled through
// github.com/sashabaranov/go-openai's struct types for wire fidelity;
// transport goes through this module's own webtransport package rather
// than go-openai's built-in HTTP client, so the byte-level stream framing
// stays uniform across every adapter.
package compat

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/sjson"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/embed"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/interstream"
	"github.com/flowline-ai/genai/webtransport"
)

// applyJSONSchemaResponseFormat patches a marshaled chat completion body to
// add response_format.json_schema, since go-openai's own struct field for
// this wants a concrete jsonschema.Definition rather than an arbitrary
// map[string]any.
func applyJSONSchemaResponseFormat(payload []byte, rf chat.ResponseFormat) ([]byte, error) {
	var err error
	payload, err = sjson.SetBytes(payload, "response_format.type", "json_schema")
	if err != nil {
		return nil, fmt.Errorf("compat: set response_format.type: %w", err)
	}
	payload, err = sjson.SetBytes(payload, "response_format.json_schema.name", rf.Name)
	if err != nil {
		return nil, fmt.Errorf("compat: set response_format.json_schema.name: %w", err)
	}
	if rf.Description != "" {
		payload, err = sjson.SetBytes(payload, "response_format.json_schema.description", rf.Description)
		if err != nil {
			return nil, fmt.Errorf("compat: set response_format.json_schema.description: %w", err)
		}
	}
	payload, err = sjson.SetBytes(payload, "response_format.json_schema.strict", true)
	if err != nil {
		return nil, fmt.Errorf("compat: set response_format.json_schema.strict: %w", err)
	}
	payload, err = sjson.SetBytes(payload, "response_format.json_schema.schema", rf.Schema)
	if err != nil {
		return nil, fmt.Errorf("compat: set response_format.json_schema.schema: %w", err)
	}
	return payload, nil
}

// Provider is a stateless OpenAI-wire-compatible adapter, parameterized at
// construction time by the facts that differ per provider (AdapterKind,
// default endpoint/env var, static model list). It carries no per-instance
// mutable state.
type Provider struct {
	kind         chat.AdapterKind
	endpoint     chat.Endpoint
	defaultEnv   string
	staticModels []chat.ModelName

	// SupportsEmbeddings reports whether this provider exposes an
	// /embeddings endpoint; most OpenAI-compatible chat-only providers
	// (Groq, xAI, OpenRouter, ...) do not.
	SupportsEmbeddings bool
}

// New constructs a compat Provider.
func New(kind chat.AdapterKind, endpoint chat.Endpoint, defaultEnv string, staticModels []chat.ModelName, supportsEmbeddings bool) *Provider {
	return &Provider{
		kind:               kind,
		endpoint:           endpoint,
		defaultEnv:         defaultEnv,
		staticModels:       staticModels,
		SupportsEmbeddings: supportsEmbeddings,
	}
}

// Kind returns the AdapterKind this Provider instance serves.
func (p *Provider) Kind() chat.AdapterKind { return p.kind }

// DefaultEndpoint returns the provider's default base URL.
func (p *Provider) DefaultEndpoint() chat.Endpoint { return p.endpoint }

// DefaultAuth returns FromEnv(defaultEnv).
func (p *Provider) DefaultAuth() chat.AuthData { return chat.FromEnv(p.defaultEnv) }

// ListStaticModels returns the compiled-in known model names for this
// provider.
func (p *Provider) ListStaticModels() []chat.ModelName { return p.staticModels }

// BuildChatRequest translates a ChatRequest into an OpenAI Chat Completions
// wire body.
func (p *Provider) BuildChatRequest(target chat.ServiceTarget, req chat.ChatRequest, opts chat.ChatOptions, stream bool) (webtransport.RequestData, error) {
	messages, err := encodeMessages(req)
	if err != nil {
		return webtransport.RequestData{}, err
	}
	tools, err := encodeTools(req.Tools)
	if err != nil {
		return webtransport.RequestData{}, err
	}

	body := openai.ChatCompletionRequest{
		Model:    string(target.Model.ModelName),
		Messages: messages,
		Tools:    tools,
		Stream:   stream,
	}
	applySamplingOptions(&body, opts)
	if req.ToolChoice != nil {
		body.ToolChoice = encodeToolChoice(*req.ToolChoice)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return webtransport.RequestData{}, fmt.Errorf("compat: marshal chat request: %w", err)
	}
	if opts.ResponseFormat != nil && opts.ResponseFormat.Kind == chat.ResponseFormatJSONSpec {
		payload, err = applyJSONSchemaResponseFormat(payload, *opts.ResponseFormat)
		if err != nil {
			return webtransport.RequestData{}, err
		}
	}
	if opts.ServiceTier != nil {
		payload, err = sjson.SetBytes(payload, "service_tier", string(*opts.ServiceTier))
		if err != nil {
			return webtransport.RequestData{}, fmt.Errorf("compat: set service_tier: %w", err)
		}
	}

	reqData := webtransport.RequestData{
		Method:  "POST",
		URL:     requestURL(target, "/chat/completions"),
		Headers: authHeaders(target.Auth),
		Body:    payload,
	}
	for k, v := range opts.ExtraHeaders {
		reqData = reqData.WithHeader(k, v)
	}
	reqData = reqData.WithHeader("Content-Type", "application/json")
	return reqData, nil
}

// ParseChatResponse translates an OpenAI Chat Completions response body
// into a ChatResponse.
//
// Usage is copied through verbatim for every compat provider, including
// xAI and Groq. Both are known to sometimes report a completion_tokens
// total that already folds in reasoning tokens inconsistently across
// model versions, which would call for a per-provider correction before
// this met OpenAI's "completion_tokens includes reasoning_tokens exactly
// once" convention; that correction isn't applied here and the wire
// number is trusted as-is.
func (p *Provider) ParseChatResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (chat.ChatResponse, error) {
	if resp.Status < 200 || resp.Status >= 300 {
		return chat.ChatResponse{}, &gaierr.ErrResponseFailedStatus{Status: resp.Status, Body: resp.Body, Headers: resp.Headers}
	}

	var wire openai.ChatCompletionResponse
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return chat.ChatResponse{}, &gaierr.ErrChatResponseGeneration{ResponseBody: resp.Body, Cause: err}
	}
	if len(wire.Choices) == 0 {
		return chat.ChatResponse{}, gaierr.ErrNoChatResponse
	}

	content, reasoning, err := translateChoice(wire.Choices[0])
	if err != nil {
		return chat.ChatResponse{}, err
	}

	out := chat.ChatResponse{
		Content:           content,
		ReasoningContent:  reasoning,
		ModelIden:         target.Model,
		ProviderModelIden: chat.ModelIden{AdapterKind: p.kind, ModelName: chat.ModelName(wire.Model)},
		Usage: chat.Usage{
			PromptTokens:     wire.Usage.PromptTokens,
			CompletionTokens: wire.Usage.CompletionTokens,
			TotalTokens:      wire.Usage.TotalTokens,
		}.CompactDetails(),
	}
	if captureRawBody {
		out.CapturedRawBody = resp.Body
	}
	return out, nil
}

// BuildChatStream wraps an OpenAI-compatible SSE response body into the
// normalized internal event stream.
func (p *Provider) BuildChatStream(target chat.ServiceTarget, body io.ReadCloser, opts chat.ChatOptions) (interstream.Stream, error) {
	return newStream(body), nil
}

// BuildEmbedRequest translates an EmbedRequest into an OpenAI Embeddings
// wire body. Returns *gaierr.ErrAdapterNotSupported for providers that
// don't expose an embeddings endpoint.
func (p *Provider) BuildEmbedRequest(target chat.ServiceTarget, req embed.EmbedRequest) (webtransport.RequestData, error) {
	if !p.SupportsEmbeddings {
		return webtransport.RequestData{}, &gaierr.ErrAdapterNotSupported{Adapter: string(p.kind), Feature: "embed"}
	}
	body := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(target.Model.ModelName),
		Input: req.Input.AsTexts(),
		User:  req.Options.User,
	}
	if req.Options.Dimensions != nil {
		body.Dimensions = *req.Options.Dimensions
	}
	if req.Options.EncodingFormat != "" {
		body.EncodingFormat = openai.EmbeddingEncodingFormat(req.Options.EncodingFormat)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return webtransport.RequestData{}, fmt.Errorf("compat: marshal embed request: %w", err)
	}
	reqData := webtransport.RequestData{
		Method:  "POST",
		URL:     requestURL(target, "/embeddings"),
		Headers: authHeaders(target.Auth),
		Body:    payload,
	}
	return reqData.WithHeader("Content-Type", "application/json"), nil
}

// ParseEmbedResponse translates an OpenAI Embeddings response body into an
// EmbedResponse.
func (p *Provider) ParseEmbedResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (embed.EmbedResponse, error) {
	if resp.Status < 200 || resp.Status >= 300 {
		return embed.EmbedResponse{}, &gaierr.ErrResponseFailedStatus{Status: resp.Status, Body: resp.Body, Headers: resp.Headers}
	}
	var wire struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
		Model string `json:"model"`
		Usage struct {
			PromptTokens int `json:"prompt_tokens"`
			TotalTokens  int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return embed.EmbedResponse{}, &gaierr.ErrInvalidJsonResponseElement{Element: "embedding_response", Cause: err}
	}
	embeddings := make([]embed.Embedding, 0, len(wire.Data))
	for _, d := range wire.Data {
		embeddings = append(embeddings, embed.Embedding{Index: d.Index, Vector: d.Embedding})
	}
	out := embed.EmbedResponse{
		Embeddings:        embeddings,
		ModelIden:         target.Model,
		ProviderModelIden: chat.ModelIden{AdapterKind: p.kind, ModelName: chat.ModelName(wire.Model)},
		Usage: chat.Usage{
			PromptTokens: wire.Usage.PromptTokens,
			TotalTokens:  wire.Usage.TotalTokens,
		}.CompactDetails(),
	}
	if captureRawBody {
		out.CapturedRawBody = resp.Body
	}
	return out, nil
}

// requestURL honors an AuthKindRequestOverride's OverrideURL, since that
// variant replaces the computed URL entirely; otherwise it joins the
// target's resolved endpoint with path.
func requestURL(target chat.ServiceTarget, path string) string {
	if target.Auth.Kind == chat.AuthKindRequestOverride && target.Auth.OverrideURL != "" {
		return target.Auth.OverrideURL
	}
	return strings.TrimRight(string(target.Endpoint), "/") + path
}

func authHeaders(auth chat.AuthData) map[string]string {
	headers := make(map[string]string, 2)
	switch auth.Kind {
	case chat.AuthKindRequestOverride:
		for k, v := range auth.OverrideHeaders {
			headers[k] = v
		}
	case chat.AuthKindKey:
		headers["Authorization"] = "Bearer " + auth.Key
	case chat.AuthKindFromEnv, chat.AuthKindMultiKeys:
		// resolver.Resolve materializes FromEnv into AuthKindKey before an
		// adapter ever sees the target; a caller that bypasses the
		// resolver (tests, direct adapter use) gets no Authorization
		// header rather than a panic. No compat provider uses MultiKeys.
	}
	return headers
}
