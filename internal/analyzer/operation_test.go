package analyzer

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseOperation_RoundTrip(t *testing.T) {
	for _, op := range Operations() {
		parsed, err := ParseOperation(op.String())
		if err != nil {
			t.Fatalf("ParseOperation(%q) failed: %v", op.String(), err)
		}
		if parsed != op {
			t.Errorf("ParseOperation(%q) = %v, expected %v", op.String(), parsed, op)
		}
	}
}

func TestParseOperation_Unknown(t *testing.T) {
	for _, name := range []string{"", "wordfreq", "WORD-FREQ", "grep"} {
		if _, err := ParseOperation(name); !errors.Is(err, ErrUnknownOperation) {
			t.Errorf("ParseOperation(%q) error = %v, expected ErrUnknownOperation", name, err)
		}
	}
}

func TestOperation_JSON(t *testing.T) {
	var payload struct {
		Op Operation `json:"op"`
	}
	if err := json.Unmarshal([]byte(`{"op":"line-count"}`), &payload); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if payload.Op != LineCount {
		t.Errorf("Expected LineCount, got %v", payload.Op)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"op":"line-count"}` {
		t.Errorf("Unexpected JSON %s", data)
	}

	if err := json.Unmarshal([]byte(`{"op":"nope"}`), &payload); err == nil {
		t.Error("Expected error for unknown operation name")
	}
}

func TestOperation_UsesCase(t *testing.T) {
	expected := map[Operation]bool{
		WordFreq:      true,
		RegexFilter:   true,
		ExtractEmails: false,
		LineCount:     false,
		UniqueWords:   true,
	}
	for op, want := range expected {
		if got := op.UsesCase(); got != want {
			t.Errorf("%v.UsesCase() = %v, expected %v", op, got, want)
		}
	}
}
