package webtransport

import (
	"io"
	"strings"
	"testing"
)

func TestSSEStream_ParsesEventAndDataFields(t *testing.T) {
	body := nopCloser{strings.NewReader("event: message\ndata: hello\n\ndata: [DONE]\n\n")}
	s := NewSSEStream(body)

	ev, ok, err := s.Next()
	if !ok || err != nil {
		t.Fatalf("expected first event, got ok=%v err=%v", ok, err)
	}
	if ev.Event != "message" || ev.Data != "hello" {
		t.Fatalf("unexpected event: %+v", ev)
	}

	ev, ok, err = s.Next()
	if !ok || err != nil {
		t.Fatalf("expected second event, got ok=%v err=%v", ok, err)
	}
	if !IsDone(ev) {
		t.Fatalf("expected [DONE] sentinel, got %+v", ev)
	}

	_, ok, err = s.Next()
	if ok || err != io.EOF {
		t.Fatalf("expected EOF, got ok=%v err=%v", ok, err)
	}
}

func TestSSEStream_MultilineDataJoinedWithNewline(t *testing.T) {
	body := nopCloser{strings.NewReader("data: line one\ndata: line two\n\n")}
	s := NewSSEStream(body)

	ev, ok, err := s.Next()
	if !ok || err != nil {
		t.Fatalf("expected an event, got ok=%v err=%v", ok, err)
	}
	if ev.Data != "line one\nline two" {
		t.Fatalf("unexpected joined data: %q", ev.Data)
	}
}

func TestSSEStream_CommentLinesIgnored(t *testing.T) {
	body := nopCloser{strings.NewReader(": keep-alive\ndata: hi\n\n")}
	s := NewSSEStream(body)

	ev, ok, err := s.Next()
	if !ok || err != nil {
		t.Fatalf("expected an event, got ok=%v err=%v", ok, err)
	}
	if ev.Data != "hi" {
		t.Fatalf("expected comment line to be ignored, got data=%q", ev.Data)
	}
}
