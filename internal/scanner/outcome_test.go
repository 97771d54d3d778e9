package scanner

import (
	"encoding/json"
	"testing"
)

func TestOutcomeStates(t *testing.T) {
	found := Found("value")
	if !found.IsFound() || found.IsNotFound() || found.IsFailed() {
		t.Fatalf("Found outcome reported wrong state")
	}
	if v, ok := found.Value(); !ok || v != "value" {
		t.Fatalf("Found.Value() = (%q, %v), want (value, true)", v, ok)
	}
	if found.Err() != "" {
		t.Fatalf("Found.Err() = %q, want empty", found.Err())
	}

	missing := NotFound[string]()
	if !missing.IsNotFound() || missing.IsFound() || missing.IsFailed() {
		t.Fatalf("NotFound outcome reported wrong state")
	}
	if _, ok := missing.Value(); ok {
		t.Fatal("NotFound.Value() reported ok")
	}

	failed := Failed[string]("boom")
	if !failed.IsFailed() || failed.IsFound() || failed.IsNotFound() {
		t.Fatalf("Failed outcome reported wrong state")
	}
	if failed.Err() != "boom" {
		t.Fatalf("Failed.Err() = %q, want boom", failed.Err())
	}
	if _, ok := failed.Value(); ok {
		t.Fatal("Failed.Value() reported ok")
	}
}

func TestOutcomeZeroValueIsNotFound(t *testing.T) {
	var o Outcome[int]
	if !o.IsNotFound() {
		t.Fatal("zero-value outcome should be NotFound")
	}
}

func TestOutcomeMarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome[string]
		want    string
	}{
		{"found", Found("v=spf1 -all"), `{"status":"found","value":"v=spf1 -all"}`},
		{"not found", NotFound[string](), `{"status":"not_found"}`},
		{"failed", Failed[string]("timeout"), `{"status":"failed","error":"timeout"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.outcome)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("marshal = %s, want %s", got, tt.want)
			}
		})
	}
}
