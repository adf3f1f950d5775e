package interstream

import "testing"

func TestToolAssembler_AssemblesFragmentedArguments(t *testing.T) {
	a := NewToolAssembler()
	a.Start(0, "call_1", "get_weather")
	a.AddFragment(0, `{"loc`)
	a.AddFragment(0, `ation":"`)
	a.AddFragment(0, `NYC"}`)

	tc, ok := a.Finish(0)
	if !ok {
		t.Fatalf("expected a buffer at index 0")
	}
	if tc.CallID != "call_1" || tc.FnName != "get_weather" {
		t.Fatalf("unexpected call identity: %+v", tc)
	}
	if tc.FnArgs["location"] != "NYC" {
		t.Fatalf("expected parsed location argument, got %+v", tc.FnArgs)
	}
	if tc.RawFnArgs != "" {
		t.Fatalf("expected no RawFnArgs fallback on valid JSON, got %q", tc.RawFnArgs)
	}
}

func TestToolAssembler_EmptyFragmentsDefaultToEmptyObject(t *testing.T) {
	a := NewToolAssembler()
	a.Start(0, "call_1", "ping")

	tc, ok := a.Finish(0)
	if !ok {
		t.Fatalf("expected a buffer at index 0")
	}
	if len(tc.FnArgs) != 0 {
		t.Fatalf("expected empty arguments, got %+v", tc.FnArgs)
	}
}

func TestToolAssembler_MalformedJSONFallsBackToRaw(t *testing.T) {
	a := NewToolAssembler()
	a.Start(0, "call_1", "broken")
	a.AddFragment(0, `{not json`)

	tc, ok := a.Finish(0)
	if !ok {
		t.Fatalf("expected a buffer at index 0")
	}
	if tc.FnArgs != nil {
		t.Fatalf("expected nil Arguments on parse failure, got %+v", tc.FnArgs)
	}
	if tc.RawFnArgs != `{not json` {
		t.Fatalf("expected RawFnArgs to preserve original text, got %q", tc.RawFnArgs)
	}
}

func TestToolAssembler_NullFragmentsTolerated(t *testing.T) {
	a := NewToolAssembler()
	a.Start(0, "call_1", "noop")
	a.AddFragment(0, "")
	a.AddFragment(0, `{}`)
	a.AddFragment(0, "")

	tc, ok := a.Finish(0)
	if !ok {
		t.Fatalf("expected a buffer at index 0")
	}
	if tc.FnName != "noop" {
		t.Fatalf("unexpected name: %q", tc.FnName)
	}
}

func TestToolAssembler_UnknownIndexReturnsNotOK(t *testing.T) {
	a := NewToolAssembler()
	if _, ok := a.Finish(5); ok {
		t.Fatalf("expected ok=false for an index that was never started")
	}
}

func TestToolAssembler_ResetDiscardsInFlightBuffers(t *testing.T) {
	a := NewToolAssembler()
	a.Start(0, "call_1", "tool")
	a.AddFragment(0, `{"a":1}`)
	a.Reset()

	if _, ok := a.Finish(0); ok {
		t.Fatalf("expected buffers to be discarded after Reset")
	}
}
