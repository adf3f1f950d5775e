package chat

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ContentPart is a marker interface implemented by every concrete message
// part. Order among parts in a MessageContent is load-bearing: providers
// that bind thought signatures to tool calls (Gemini, Anthropic) require
// the ThoughtSignaturePart to precede its associated ToolCallPart.
type ContentPart interface {
	isContentPart()
}

// TextPart is a plain-text content block.
type TextPart struct {
	Text string
}

// MIME identifies the media type of a Binary part's content.
type MIME string

// BinarySource is a tagged variant: exactly one of URL or Base64 is set.
type BinarySource struct {
	URL    string
	Base64 string
}

// Binary carries non-text content (images, documents, audio) either as a
// remote URL or inline base64-encoded bytes.
type Binary struct {
	ContentType MIME
	Source      BinarySource
	Name        string
}

// BinaryPart wraps a Binary value as a content part.
type BinaryPart struct {
	Binary Binary
}

// ToolCallPart carries an assistant-issued tool invocation.
type ToolCallPart struct {
	ToolCall ToolCall
}

// ToolResponsePart carries a caller-supplied tool result keyed by CallID.
type ToolResponsePart struct {
	ToolResponse ToolResponse
}

// ThoughtSignaturePart carries an opaque provider reasoning trace that must
// be echoed back verbatim with subsequent tool-call messages for
// continuity (Gemini, Anthropic).
type ThoughtSignaturePart struct {
	Signature string
}

func (TextPart) isContentPart()             {}
func (BinaryPart) isContentPart()           {}
func (ToolCallPart) isContentPart()         {}
func (ToolResponsePart) isContentPart()     {}
func (ThoughtSignaturePart) isContentPart() {}

// MessageContent is an ordered sequence of content parts. It is kept as a
// slice, never collapsed into a string, so multipart ordering survives
// JSON round trips.
type MessageContent []ContentPart

// FirstText returns the first TextPart's text, or "" if none is present.
func (c MessageContent) FirstText() string {
	for _, p := range c {
		if t, ok := p.(TextPart); ok {
			return t.Text
		}
	}
	return ""
}

// ToolCalls returns every ToolCall carried by this content, in order.
func (c MessageContent) ToolCalls() []ToolCall {
	var out []ToolCall
	for _, p := range c {
		if tc, ok := p.(ToolCallPart); ok {
			out = append(out, tc.ToolCall)
		}
	}
	return out
}

// partKind discriminators used for JSON encoding. Kept distinct from Go type
// names so the wire format is stable across refactors.
const (
	kindText             = "text"
	kindBinary           = "binary"
	kindToolCall         = "tool_call"
	kindToolResponse     = "tool_response"
	kindThoughtSignature = "thought_signature"
)

// MarshalJSON encodes a MessageContent preserving order and concrete part
// type via an explicit "kind" discriminator.
func (c MessageContent) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(c))
	for i, p := range c {
		enc, err := encodePart(p)
		if err != nil {
			return nil, fmt.Errorf("chat: encode content[%d]: %w", i, err)
		}
		out = append(out, enc)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a MessageContent, materializing concrete
// ContentPart implementations in their original order.
func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	parts := make(MessageContent, 0, len(raws))
	for i, raw := range raws {
		p, err := decodePart(raw)
		if err != nil {
			return fmt.Errorf("chat: decode content[%d]: %w", i, err)
		}
		parts = append(parts, p)
	}
	*c = parts
	return nil
}

func encodePart(p ContentPart) (json.RawMessage, error) {
	switch v := p.(type) {
	case TextPart:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			TextPart
		}{kindText, v})
	case BinaryPart:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			BinaryPart
		}{kindBinary, v})
	case ToolCallPart:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			ToolCallPart
		}{kindToolCall, v})
	case ToolResponsePart:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			ToolResponsePart
		}{kindToolResponse, v})
	case ThoughtSignaturePart:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			ThoughtSignaturePart
		}{kindThoughtSignature, v})
	default:
		return nil, fmt.Errorf("chat: unknown content part type %T", p)
	}
}

func decodePart(raw json.RawMessage) (ContentPart, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}
	switch head.Kind {
	case kindText:
		var v TextPart
		err := json.Unmarshal(raw, &v)
		return v, err
	case kindBinary:
		var v BinaryPart
		err := json.Unmarshal(raw, &v)
		return v, err
	case kindToolCall:
		var v ToolCallPart
		err := json.Unmarshal(raw, &v)
		return v, err
	case kindToolResponse:
		var v ToolResponsePart
		err := json.Unmarshal(raw, &v)
		return v, err
	case kindThoughtSignature:
		var v ThoughtSignaturePart
		err := json.Unmarshal(raw, &v)
		return v, err
	case "":
		return nil, errors.New("chat: content part missing kind discriminator")
	default:
		return nil, fmt.Errorf("chat: unknown content part kind %q", head.Kind)
	}
}
