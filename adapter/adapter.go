// Package adapter defines the stateless per-provider translation interface
// and the AdapterKind dispatch table. Every concrete adapter lives in its
// own sub-package (adapter/openai, adapter/anthropic, ...) and is a set of
// plain functions closed over no state; Dispatch just looks up which
// function set to call for a given chat.AdapterKind.
package adapter

import (
	"io"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/embed"
	"github.com/flowline-ai/genai/interstream"
	"github.com/flowline-ai/genai/webtransport"
)

// Adapter is the full per-provider translation surface. Implementations
// carry no per-instance state: every method is a pure function of its
// arguments and, for ListModelsLive, of the HTTP call it's allowed to make.
// This mirrors the "closed variant + static dispatcher" design the library
// commits to over long-lived per-instance client objects.
type Adapter interface {
	// Kind returns the AdapterKind this implementation serves.
	Kind() chat.AdapterKind

	// DefaultEndpoint returns the provider's default base URL.
	DefaultEndpoint() chat.Endpoint

	// DefaultAuth returns the provider's default auth strategy, usually
	// FromEnv of a provider-specific API key variable.
	DefaultAuth() chat.AuthData

	// ListStaticModels returns the adapter's compiled-in known model
	// names.
	ListStaticModels() []chat.ModelName

	// BuildChatRequest translates a ChatRequest into the provider's wire
	// request. stream selects the streaming vs. unary request shape
	// where they differ.
	BuildChatRequest(target chat.ServiceTarget, req chat.ChatRequest, opts chat.ChatOptions, stream bool) (webtransport.RequestData, error)

	// ParseChatResponse translates a provider's unary response body into
	// a ChatResponse.
	ParseChatResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (chat.ChatResponse, error)

	// BuildChatStream wraps a live response body into the adapter's
	// normalized internal event stream.
	BuildChatStream(target chat.ServiceTarget, body io.ReadCloser, opts chat.ChatOptions) (interstream.Stream, error)

	// BuildEmbedRequest translates an EmbedRequest into the provider's
	// wire request. Adapters that don't support embeddings return
	// *gaierr.ErrAdapterNotSupported.
	BuildEmbedRequest(target chat.ServiceTarget, req embed.EmbedRequest) (webtransport.RequestData, error)

	// ParseEmbedResponse translates a provider's embedding response body
	// into an EmbedResponse.
	ParseEmbedResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (embed.EmbedResponse, error)
}

// ModelLister is implemented by adapters that can enumerate their models
// via a live network call in addition to a static list (Ollama's
// /api/tags).
type ModelLister interface {
	ListModelsLive(endpoint chat.Endpoint, auth chat.AuthData) ([]chat.ModelName, error)
}
