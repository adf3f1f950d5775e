package interstream

import (
	"encoding/json"
	"strings"

	"github.com/flowline-ai/genai/chat"
)

// ToolAssembler buffers per-index tool-call fragments as a provider streams
// them and produces a fully assembled chat.ToolCall once the provider
// signals completion for that index. It generalizes the pattern every
// provider adapter needs: OpenAI splits tool_calls[i].function.arguments
// across multiple deltas; Anthropic accumulates input_json_delta the same
// way. Null/empty fragments are tolerated and simply ignored.
type ToolAssembler struct {
	buffers map[int]*toolBuffer
}

type toolBuffer struct {
	callID    string
	name      string
	fragments []string
}

// NewToolAssembler constructs an empty assembler.
func NewToolAssembler() *ToolAssembler {
	return &ToolAssembler{buffers: make(map[int]*toolBuffer)}
}

// Start registers the identity of a tool call at the given stream index.
// Safe to call more than once for the same index; later calls only fill in
// fields that were previously empty, since some providers send the id/name
// in a start event separate from the argument deltas.
func (a *ToolAssembler) Start(index int, callID, name string) {
	tb := a.buffers[index]
	if tb == nil {
		tb = &toolBuffer{}
		a.buffers[index] = tb
	}
	if callID != "" {
		tb.callID = callID
	}
	if name != "" {
		tb.name = name
	}
}

// AddFragment appends an argument-string fragment at the given index.
// Empty fragments are ignored.
func (a *ToolAssembler) AddFragment(index int, fragment string) {
	if fragment == "" {
		return
	}
	tb := a.buffers[index]
	if tb == nil {
		tb = &toolBuffer{}
		a.buffers[index] = tb
	}
	tb.fragments = append(tb.fragments, fragment)
}

// Finish assembles and removes the buffer at index, returning the
// completed ToolCall. ok is false if no buffer was ever started at that
// index. The joined argument string is parsed as JSON into FnArgs when
// it parses; otherwise RawFnArgs preserves the original text and
// FnArgs is left nil, matching the "tolerant parse" policy adapters use
// for malformed tool-call arguments.
func (a *ToolAssembler) Finish(index int) (chat.ToolCall, bool) {
	tb := a.buffers[index]
	if tb == nil {
		return chat.ToolCall{}, false
	}
	delete(a.buffers, index)

	joined := strings.Join(tb.fragments, "")
	if strings.TrimSpace(joined) == "" {
		joined = "{}"
	}

	tc := chat.ToolCall{CallID: tb.callID, FnName: tb.name}
	var args map[string]any
	if err := json.Unmarshal([]byte(joined), &args); err != nil {
		tc.RawFnArgs = joined
	} else {
		tc.FnArgs = args
	}
	return tc, true
}

// Reset discards every in-flight buffer, used at message-start boundaries
// (e.g. Anthropic's message_start event) where a new turn invalidates any
// partially assembled state from a prior turn.
func (a *ToolAssembler) Reset() {
	a.buffers = make(map[int]*toolBuffer)
}
