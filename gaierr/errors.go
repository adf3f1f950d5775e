// Package gaierr defines the typed error taxonomy surfaced by the client
// and its adapters. Every error here wraps with %w so errors.Is/errors.As
// work across the boundary; the core never retries, so every error
// reaching a caller is meant to be inspected and acted on, not swallowed.
package gaierr

import (
	"errors"
	"fmt"
)

// ErrChatReqHasNoMessages is returned when a ChatRequest carries zero
// messages at execution time.
var ErrChatReqHasNoMessages = errors.New("gaierr: chat request has no messages")

// ErrNoChatResponse is returned when a provider's 2xx response body parses
// but carries no usable content (protocol error, may indicate a bug).
var ErrNoChatResponse = errors.New("gaierr: provider returned no chat response")

// ErrResolverCustom wraps a caller-supplied resolver hook's own error
// (ModelMapper, AuthResolver, ServiceTargetResolver), since the library
// treats that as a caller error, not a library bug.
type ErrResolverCustom struct {
	Hook  string
	Cause error
}

func (e *ErrResolverCustom) Error() string {
	return fmt.Sprintf("gaierr: resolver hook %q failed: %v", e.Hook, e.Cause)
}

func (e *ErrResolverCustom) Unwrap() error { return e.Cause }

// ErrAPIKeyEnvNotFound is returned when AuthData.FromEnv names an
// environment variable that isn't set.
type ErrAPIKeyEnvNotFound struct {
	EnvName string
}

func (e *ErrAPIKeyEnvNotFound) Error() string {
	return fmt.Sprintf("gaierr: environment variable %q is not set", e.EnvName)
}

// ErrAdapterNotSupported is returned when a request asks an adapter for a
// capability it doesn't implement (e.g. embeddings on a chat-only
// adapter).
type ErrAdapterNotSupported struct {
	Adapter string
	Feature string
}

func (e *ErrAdapterNotSupported) Error() string {
	return fmt.Sprintf("gaierr: adapter %q does not support %q", e.Adapter, e.Feature)
}

// ErrResponseFailedStatus is returned when a provider replies with a
// non-2xx HTTP status. Body and Headers are preserved verbatim for
// diagnostics.
type ErrResponseFailedStatus struct {
	Status  int
	Body    []byte
	Headers map[string][]string
}

func (e *ErrResponseFailedStatus) Error() string {
	return fmt.Sprintf("gaierr: provider responded with status %d", e.Status)
}

// ErrChatResponseGeneration wraps a failure encountered while translating a
// provider's response body into a ChatResponse (protocol error). The
// original request payload and response body are preserved for
// diagnostics.
type ErrChatResponseGeneration struct {
	RequestPayload []byte
	ResponseBody   []byte
	Cause          error
}

func (e *ErrChatResponseGeneration) Error() string {
	return fmt.Sprintf("gaierr: failed to generate chat response: %v", e.Cause)
}

func (e *ErrChatResponseGeneration) Unwrap() error { return e.Cause }

// ErrInvalidJsonResponseElement is returned when a provider's response body
// (or one element of a streamed body) does not parse into the shape the
// adapter expects.
type ErrInvalidJsonResponseElement struct {
	Element string
	Cause   error
}

func (e *ErrInvalidJsonResponseElement) Error() string {
	return fmt.Sprintf("gaierr: invalid json response element %q: %v", e.Element, e.Cause)
}

func (e *ErrInvalidJsonResponseElement) Unwrap() error { return e.Cause }

// ErrUnsupportedRole is returned when a ChatMessage's role is not valid for
// the target adapter (e.g. a provider that doesn't accept a standalone
// tool-role message).
type ErrUnsupportedRole struct {
	Adapter string
	Role    string
}

func (e *ErrUnsupportedRole) Error() string {
	return fmt.Sprintf("gaierr: adapter %q does not support role %q", e.Adapter, e.Role)
}

// ErrUnsupportedContent is returned when a ChatMessage carries a content
// part kind the target adapter cannot translate (e.g. a Binary part sent
// to a text-only adapter).
type ErrUnsupportedContent struct {
	Adapter string
	Kind    string
}

func (e *ErrUnsupportedContent) Error() string {
	return fmt.Sprintf("gaierr: adapter %q does not support content kind %q", e.Adapter, e.Kind)
}

// As is a thin generic errors.As wrapper that returns the matched error
// value together with whether it matched.
func As[E error](err error) (E, bool) {
	var target E
	ok := errors.As(err, &target)
	return target, ok
}
