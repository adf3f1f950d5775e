package webtransport

import (
	"bufio"
	"bytes"
	"io"
)

// ByteStream yields successive framed chunks of a streamed HTTP body. Each
// provider's stream parser wraps a ByteStream to turn framed byte chunks
// into its own interstream.Event sequence.
type ByteStream interface {
	// Next returns the next framed chunk, or ok=false with io.EOF (or
	// another terminal error) once the stream is exhausted.
	Next() (chunk []byte, ok bool, err error)
	Close() error
}

// NewDelimiterStream returns a ByteStream that splits body on occurrences
// of delim, the framing OpenAI/Groq/xAI/DeepSeek-family SSE and
// newline-delimited-JSON transports use (delim is "\n\n" for SSE, "\n" for
// NDJSON).
func NewDelimiterStream(body io.ReadCloser, delim []byte) ByteStream {
	return &delimiterStream{body: body, scanner: newDelimScanner(body, delim)}
}

type delimiterStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

func (d *delimiterStream) Next() ([]byte, bool, error) {
	if !d.scanner.Scan() {
		if err := d.scanner.Err(); err != nil {
			return nil, false, err
		}
		return nil, false, io.EOF
	}
	return d.scanner.Bytes(), true, nil
}

func (d *delimiterStream) Close() error { return d.body.Close() }

func newDelimScanner(r io.Reader, delim []byte) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	scanner.Split(func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		if i := bytes.Index(data, delim); i >= 0 {
			return i + len(delim), data[:i], nil
		}
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	})
	return scanner
}

// NewPrettyJSONArrayStream returns a ByteStream that reads a single
// top-level JSON array emitted incrementally (Gemini's streamGenerateContent
// response shape: "[ {...}, {...}, ... ]" written progressively, sometimes
// pretty-printed), emitting one chunk per top-level array element as soon
// as its closing brace is seen. It tracks brace/bracket depth and string
// state by hand rather than buffering the whole array, since the body may
// never be valid JSON until the connection closes.
func NewPrettyJSONArrayStream(body io.ReadCloser) ByteStream {
	return &prettyJSONArrayStream{body: body, reader: bufio.NewReaderSize(body, 64*1024)}
}

type prettyJSONArrayStream struct {
	body   io.ReadCloser
	reader *bufio.Reader

	seenOpenBracket bool
	depth           int
	inString        bool
	escaped         bool
	buf             bytes.Buffer
	done            bool
}

func (p *prettyJSONArrayStream) Next() ([]byte, bool, error) {
	if p.done {
		return nil, false, io.EOF
	}
	for {
		b, err := p.reader.ReadByte()
		if err != nil {
			p.done = true
			if err == io.EOF && p.buf.Len() == 0 {
				return nil, false, io.EOF
			}
			return nil, false, err
		}

		if !p.seenOpenBracket {
			if b == '[' {
				p.seenOpenBracket = true
			}
			continue
		}

		if p.inString {
			p.buf.WriteByte(b)
			if p.escaped {
				p.escaped = false
			} else if b == '\\' {
				p.escaped = true
			} else if b == '"' {
				p.inString = false
			}
			continue
		}

		switch b {
		case '"':
			p.inString = true
			p.buf.WriteByte(b)
		case '{', '[':
			p.depth++
			p.buf.WriteByte(b)
		case '}', ']':
			p.depth--
			p.buf.WriteByte(b)
			if p.depth == 0 && p.buf.Len() > 0 {
				out := append([]byte(nil), bytes.TrimSpace(p.buf.Bytes())...)
				p.buf.Reset()
				if len(out) == 0 {
					continue
				}
				return out, true, nil
			}
		case ',', ' ', '\n', '\r', '\t':
			if p.depth > 0 {
				p.buf.WriteByte(b)
			}
			// top-level separators/whitespace between elements are dropped
		default:
			p.buf.WriteByte(b)
		}
	}
}

func (p *prettyJSONArrayStream) Close() error { return p.body.Close() }
