// Package interstream defines the adapter-internal normalized event stream
// that sits between a provider's raw byte/SSE transport and the public
// chat.ChatStream the root client hands callers. Every per-provider stream
// parser emits this type; the client then wraps it into the public
// stream, annotating the terminal End with the resolved model identity
// (and, when reasoning normalization is on, splitting a text chunk into
// text and reasoning events).
package interstream

import "github.com/flowline-ai/genai/chat"

// EventKind discriminates the Event variant.
type EventKind string

const (
	Start           EventKind = "start"
	Chunk           EventKind = "chunk"
	ReasoningChunk  EventKind = "reasoning_chunk"
	ThoughtSigChunk EventKind = "thought_signature_chunk"
	ToolCallChunk   EventKind = "tool_call_chunk"
	End             EventKind = "end"
)

// Event is one item of the internal stream. Exactly one payload field is
// meaningful, selected by Kind; Start carries none.
type Event struct {
	Kind     EventKind
	Text     string
	ToolCall chat.ToolCall
	End      StreamEnd
}

// StreamEnd mirrors chat.StreamEnd but without the ModelIden stamp, which
// is only known to the client wrapping this stream, not to the adapter
// producing it.
type StreamEnd struct {
	CapturedUsage            *chat.Usage
	CapturedContent          chat.MessageContent
	CapturedReasoningContent string
	CapturedRawBody          []byte
}

// Stream is a single-consumer, strictly ordered sequence produced by a
// per-adapter parser. Start precedes all content events; End, if reached,
// is the last event. A transport error surfaces via Next's error return
// with no End emitted.
type Stream interface {
	Next() (Event, bool, error)
	Close() error
}
