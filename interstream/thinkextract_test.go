package interstream

import "testing"

func TestExtractOnce_SplitsThinkBlock(t *testing.T) {
	text, reasoning := ExtractOnce("<think>plan</think>answer")
	if text != "answer" {
		t.Fatalf("expected text %q, got %q", "answer", text)
	}
	if reasoning != "plan" {
		t.Fatalf("expected reasoning %q, got %q", "plan", reasoning)
	}
}

func TestExtractOnce_Idempotent(t *testing.T) {
	text1, reasoning1 := ExtractOnce("<think>plan</think>answer")
	text2, reasoning2 := ExtractOnce(text1)
	if text1 != text2 || reasoning2 != "" {
		t.Fatalf("expected idempotent extraction, got (%q,%q) then (%q,%q)", text1, reasoning1, text2, reasoning2)
	}
}

func TestExtractOnce_NoThinkBlockPassesThrough(t *testing.T) {
	text, reasoning := ExtractOnce("just plain text")
	if text != "just plain text" || reasoning != "" {
		t.Fatalf("unexpected split: text=%q reasoning=%q", text, reasoning)
	}
}

func TestThinkExtractor_TagSplitAcrossChunkBoundary(t *testing.T) {
	var e ThinkExtractor
	var text, reasoning string

	r1 := e.Feed("hello <thi")
	text += r1.Text
	reasoning += r1.Reasoning

	r2 := e.Feed("nk>secret</think> world")
	text += r2.Text
	reasoning += r2.Reasoning

	if text != "hello  world" {
		t.Fatalf("expected text %q, got %q", "hello  world", text)
	}
	if reasoning != "secret" {
		t.Fatalf("expected reasoning %q, got %q", "secret", reasoning)
	}
}

func TestThinkExtractor_MultipleChunksOfReasoning(t *testing.T) {
	var e ThinkExtractor
	var reasoning string

	reasoning += e.Feed("<think>part one ").Reasoning
	reasoning += e.Feed("part two</think>").Reasoning

	if reasoning != "part one part two" {
		t.Fatalf("expected concatenated reasoning, got %q", reasoning)
	}
}
