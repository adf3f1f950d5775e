// Package webtransport is the sole place in this module that performs
// network I/O. Adapters build a provider-specific RequestData as a pure
// function of their inputs and hand it to Do or DoStream; the byte-level
// streaming framing (SSE, newline-delimited JSON, incrementally-emitted
// JSON arrays) is also implemented here so every adapter's stream parser
// can work against a uniform ByteStream regardless of provider transport.
package webtransport
