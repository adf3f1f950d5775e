// Package embed defines the canonical, provider-agnostic embedding request
// and response types, mirroring package chat's role for chat completions.
package embed

import "github.com/flowline-ai/genai/chat"

// InputKind discriminates the EmbedRequest.Input variant.
type InputKind string

const (
	InputSingle InputKind = "single"
	InputBatch  InputKind = "batch"
)

// Input is a tagged variant: exactly one of Text or Texts is meaningful,
// selected by Kind.
type Input struct {
	Kind  InputKind
	Text  string
	Texts []string
}

// Single builds a single-text Input.
func Single(text string) Input { return Input{Kind: InputSingle, Text: text} }

// Batch builds a multi-text Input.
func Batch(texts []string) Input { return Input{Kind: InputBatch, Texts: texts} }

// AsTexts returns the input as a slice regardless of Kind, so callers can
// treat single and batch inputs uniformly.
func (in Input) AsTexts() []string {
	if in.Kind == InputBatch {
		return in.Texts
	}
	return []string{in.Text}
}

// EmbeddingType requests a provider-specific embedding variant (e.g.
// Cohere's search_document vs search_query distinction).
type EmbeddingType string

// EmbedOptions carries every optional, provider-agnostic tuning knob for an
// EmbedRequest.
type EmbedOptions struct {
	Dimensions     *int
	EncodingFormat string
	User           string
	EmbeddingType  EmbeddingType
	Truncate       string
	Headers        chat.Headers

	CaptureRawBody bool
	CaptureUsage   bool
}

// Merge layers req's non-zero fields over base, returning a new
// EmbedOptions where a field set on req wins and everything else falls
// back to base, mirroring chat.ChatOptions.Merge's composition rule.
func (base EmbedOptions) Merge(req EmbedOptions) EmbedOptions {
	out := base
	if req.Dimensions != nil {
		out.Dimensions = req.Dimensions
	}
	if req.EncodingFormat != "" {
		out.EncodingFormat = req.EncodingFormat
	}
	if req.User != "" {
		out.User = req.User
	}
	if req.EmbeddingType != "" {
		out.EmbeddingType = req.EmbeddingType
	}
	if req.Truncate != "" {
		out.Truncate = req.Truncate
	}
	if req.Headers != nil {
		if out.Headers == nil {
			out.Headers = chat.Headers{}
		}
		for k, v := range req.Headers {
			out.Headers[k] = v
		}
	}
	if req.CaptureRawBody {
		out.CaptureRawBody = true
	}
	if req.CaptureUsage {
		out.CaptureUsage = true
	}
	return out
}

// EmbedRequest is the canonical, provider-agnostic embedding request.
type EmbedRequest struct {
	Input   Input
	Options EmbedOptions
}

// Embedding is a single embedding vector, positioned at Index within the
// request's batch.
type Embedding struct {
	Index  int
	Vector []float64
}

// EmbedResponse is the canonical, normalized result of an embedding call.
// Embeddings is ordered to match the request's input order.
type EmbedResponse struct {
	Embeddings []Embedding

	ModelIden         chat.ModelIden
	ProviderModelIden chat.ModelIden

	Usage chat.Usage

	CapturedRawBody []byte
}
