// Package bedrock implements the adapter for AWS Bedrock's Converse API,
// reached over the simplified bearer-token path (AWS_BEARER_TOKEN_BEDROCK)
// rather than full SigV4 signing, so every call is a plain signed-free HTTP
// request like every other adapter in this module. Request/response shapes
// are assembled through github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types
// exactly as a SigV4-signed client would build them, then translated to the
// Converse REST JSON wire shape by hand, since those SDK types use Smithy's
// document protocol rather than encoding/json struct tags. Streaming
// responses are framed as application/vnd.amazon.eventstream and decoded
// with the SDK's own aws/protocol/eventstream package; only the Converse
// JSON payload inside each frame is parsed by hand.
package bedrock

import (
	"io"
	"net/url"
	"strings"

	"github.com/flowline-ai/genai/adapter"
	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/embed"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/interstream"
	"github.com/flowline-ai/genai/webtransport"
)

const (
	defaultEndpoint chat.Endpoint = "https://bedrock-runtime.us-east-1.amazonaws.com"
	defaultEnvVar                 = "AWS_BEARER_TOKEN_BEDROCK"
)

var staticModels = []chat.ModelName{
	"anthropic.claude-opus-4-1-20250805-v1:0",
	"anthropic.claude-sonnet-4-20250514-v1:0",
	"anthropic.claude-3-5-haiku-20241022-v1:0",
	"amazon.nova-pro-v1:0",
	"amazon.nova-lite-v1:0",
	"amazon.nova-micro-v1:0",
}

// Provider is the stateless Bedrock Converse adapter.
type Provider struct{}

// New returns the Bedrock adapter.
func New() *Provider { return &Provider{} }

var _ adapter.Adapter = (*Provider)(nil)

// Kind returns AdapterBedrock.
func (p *Provider) Kind() chat.AdapterKind { return chat.AdapterBedrock }

// DefaultEndpoint returns the us-east-1 Bedrock runtime endpoint.
func (p *Provider) DefaultEndpoint() chat.Endpoint { return defaultEndpoint }

// DefaultAuth resolves the bearer token from AWS_BEARER_TOKEN_BEDROCK.
func (p *Provider) DefaultAuth() chat.AuthData { return chat.FromEnv(defaultEnvVar) }

// ListStaticModels returns a small set of well-known Bedrock model IDs.
func (p *Provider) ListStaticModels() []chat.ModelName { return staticModels }

// BuildChatRequest translates a ChatRequest into a Converse/ConverseStream
// request body.
func (p *Provider) BuildChatRequest(target chat.ServiceTarget, req chat.ChatRequest, opts chat.ChatOptions, stream bool) (webtransport.RequestData, error) {
	return buildChatRequest(target, req, opts, stream)
}

// ParseChatResponse translates a unary Converse response body into a
// ChatResponse.
func (p *Provider) ParseChatResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (chat.ChatResponse, error) {
	if resp.Status < 200 || resp.Status >= 300 {
		return chat.ChatResponse{}, &gaierr.ErrResponseFailedStatus{Status: resp.Status, Body: resp.Body, Headers: resp.Headers}
	}
	return parseChatResponse(target, resp, captureRawBody)
}

// BuildChatStream wraps a live ConverseStream body, framed as
// application/vnd.amazon.eventstream, into the normalized internal event
// stream.
func (p *Provider) BuildChatStream(target chat.ServiceTarget, body io.ReadCloser, opts chat.ChatOptions) (interstream.Stream, error) {
	return newStream(body), nil
}

// BuildEmbedRequest is unsupported: Bedrock embeddings (Titan) go through
// the separate InvokeModel API rather than Converse, which this adapter
// does not implement.
func (p *Provider) BuildEmbedRequest(target chat.ServiceTarget, req embed.EmbedRequest) (webtransport.RequestData, error) {
	return webtransport.RequestData{}, &gaierr.ErrAdapterNotSupported{Adapter: string(chat.AdapterBedrock), Feature: "embed"}
}

// ParseEmbedResponse is unsupported; see BuildEmbedRequest.
func (p *Provider) ParseEmbedResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (embed.EmbedResponse, error) {
	return embed.EmbedResponse{}, &gaierr.ErrAdapterNotSupported{Adapter: string(chat.AdapterBedrock), Feature: "embed"}
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

func requestURL(target chat.ServiceTarget, stream bool) string {
	if target.Auth.Kind == chat.AuthKindRequestOverride && target.Auth.OverrideURL != "" {
		return target.Auth.OverrideURL
	}
	op := "converse"
	if stream {
		op = "converse-stream"
	}
	return strings.TrimRight(string(target.Endpoint), "/") + "/model/" + strings.ReplaceAll(url.PathEscape(string(target.Model.ModelName)), ":", "%3A") + "/" + op
}
