package chat

import "context"

// ChatStreamEventKind discriminates the ChatStreamEvent variant.
type ChatStreamEventKind string

const (
	StreamEventStart           ChatStreamEventKind = "start"
	StreamEventChunk           ChatStreamEventKind = "chunk"
	StreamEventReasoningChunk  ChatStreamEventKind = "reasoning_chunk"
	StreamEventThoughtSigChunk ChatStreamEventKind = "thought_signature_chunk"
	StreamEventToolCallChunk   ChatStreamEventKind = "tool_call_chunk"
	StreamEventEnd             ChatStreamEventKind = "end"
)

// StreamEnd carries whatever was accumulated over the course of a stream,
// populated according to the capture_* options in effect for the request
// that produced it.
type StreamEnd struct {
	CapturedUsage            *Usage
	CapturedContent          MessageContent
	CapturedReasoningContent string
	CapturedRawBody          []byte

	// ModelIden is the resolved model identity for the call that produced
	// this stream, stamped on by the client when wrapping the adapter's
	// internal stream into the public ChatStreamEvent sequence.
	ModelIden ModelIden
}

// ChatStreamEvent is one item of a public chat stream. Exactly one of the
// payload fields is meaningful, selected by Kind. Start carries no payload;
// Chunk/ReasoningChunk/ThoughtSignatureChunk carry Text; ToolCallChunk
// carries ToolCall; End carries End.
type ChatStreamEvent struct {
	Kind     ChatStreamEventKind
	Text     string
	ToolCall ToolCall
	End      StreamEnd
}

// ChatStream is a single-consumer, strictly ordered sequence of
// ChatStreamEvents. Start precedes all content events; End, if reached, is
// the last event. A transport error terminates the stream via Next
// returning that error, with no End event. Dropping the stream (calling
// Close before Next returns a terminal value) cancels the underlying
// connection.
type ChatStream interface {
	// Next blocks until the next event is available, the stream ends, or
	// ctx is canceled. ok is false once the stream is exhausted after an
	// End event; callers should stop calling Next at that point.
	Next(ctx context.Context) (event ChatStreamEvent, ok bool, err error)

	// Close releases the underlying transport. Safe to call more than
	// once and safe to call before the stream reaches its End event, in
	// which case any partially captured state is discarded.
	Close() error
}

// ChatStreamResponse pairs a ChatStream with the model identity resolved
// for the call that produced it.
type ChatStreamResponse struct {
	Stream    ChatStream
	ModelIden ModelIden
}

// ToAssistantMessage converts a stream's captured content into the
// assistant ChatMessage a caller appends to its transcript before
// re-sending for a subsequent turn. It preserves CapturedContent's
// existing order verbatim, which is what keeps ThoughtSignature parts
// ahead of their associated ToolCall parts for providers that require it.
func ToAssistantMessage(end StreamEnd) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: end.CapturedContent}
}
