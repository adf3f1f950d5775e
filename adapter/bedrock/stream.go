package bedrock

import (
	"io"

	"github.com/aws/aws-sdk-go-v2/aws/protocol/eventstream"
	"github.com/tidwall/gjson"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/interstream"
)

// stream adapts a Bedrock ConverseStream body, framed as
// application/vnd.amazon.eventstream, into the normalized internal event
// stream. The framing itself is decoded by the AWS SDK's own eventstream
// package rather than a hand-rolled reader; only the Converse-specific
// JSON payload and the :event-type/:message-type headers are interpreted
// here, since *bedrockruntime.ConverseStreamOutput is only populated by
// the SDK's Smithy protocol stack, which this adapter bypasses (see
// package doc).
//
// Tool-use input arrives fragmented across contentBlockDelta events keyed
// by contentBlockIndex, exactly like OpenAI/Anthropic fragment streaming,
// so interstream.ToolAssembler applies unchanged.
type stream struct {
	body    io.ReadCloser
	dec     *eventstream.Decoder
	tools   *interstream.ToolAssembler
	content chat.MessageContent
	usage   *chat.Usage
	ended   bool
	started bool
}

func newStream(body io.ReadCloser) *stream {
	return &stream{body: body, dec: eventstream.NewDecoder(), tools: interstream.NewToolAssembler()}
}

func (s *stream) Next() (interstream.Event, bool, error) {
	if !s.started {
		s.started = true
		return interstream.Event{Kind: interstream.Start}, true, nil
	}
	if s.ended {
		return interstream.Event{}, false, io.EOF
	}

	for {
		msg, err := s.dec.Decode(s.body, nil)
		if err == io.EOF {
			return s.finish(), true, nil
		}
		if err != nil {
			return interstream.Event{}, false, err
		}
		if headerString(msg.Headers, ":message-type") == "exception" {
			return interstream.Event{}, false, &bedrockStreamException{
				Type: headerString(msg.Headers, ":exception-type"),
				Body: msg.Payload,
			}
		}

		wire := gjson.ParseBytes(msg.Payload)
		switch headerString(msg.Headers, ":event-type") {
		case "contentBlockStart":
			idx := int(wire.Get("contentBlockIndex").Int())
			if tu := wire.Get("start.toolUse"); tu.Exists() {
				s.tools.Start(idx, tu.Get("toolUseId").String(), tu.Get("name").String())
			}
		case "contentBlockDelta":
			idx := int(wire.Get("contentBlockIndex").Int())
			delta := wire.Get("delta")
			if text := delta.Get("text").String(); text != "" {
				s.content = append(s.content, chat.TextPart{Text: text})
				return interstream.Event{Kind: interstream.Chunk, Text: text}, true, nil
			}
			if frag := delta.Get("toolUse.input").String(); frag != "" {
				s.tools.AddFragment(idx, frag)
			}
			if reasoning := delta.Get("reasoningContent.text").String(); reasoning != "" {
				return interstream.Event{Kind: interstream.ReasoningChunk, Text: reasoning}, true, nil
			}
		case "contentBlockStop":
			idx := int(wire.Get("contentBlockIndex").Int())
			if tc, ok := s.tools.Finish(idx); ok {
				s.content = append(s.content, chat.ToolCallPart{ToolCall: tc})
				return interstream.Event{Kind: interstream.ToolCallChunk, ToolCall: tc}, true, nil
			}
		case "messageStop":
			continue
		case "metadata":
			if u := wire.Get("usage"); u.Exists() {
				usage := translateUsage(u)
				s.usage = &usage
			}
			return s.finish(), true, nil
		}
	}
}

func (s *stream) finish() interstream.Event {
	s.ended = true
	return interstream.Event{Kind: interstream.End, End: interstream.StreamEnd{
		CapturedUsage:   s.usage,
		CapturedContent: s.content,
	}}
}

func (s *stream) Close() error { return s.body.Close() }

// bedrockStreamException reports a Bedrock-specific exception frame
// (modelStreamErrorException, throttlingException, ...) surfaced inline in
// the event stream rather than as an HTTP error status.
type bedrockStreamException struct {
	Type string
	Body []byte
}

func (e *bedrockStreamException) Error() string {
	return "bedrock: stream exception " + e.Type + ": " + string(e.Body)
}
