package auth

import (
	"encoding/hex"
	"testing"
)

func TestNewState_Format(t *testing.T) {
	state, err := NewState()
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	if len(state) != 64 {
		t.Errorf("len(state) = %d, want 64", len(state))
	}
	if _, err := hex.DecodeString(state); err != nil {
		t.Errorf("state %q is not hex: %v", state, err)
	}
}

func TestNewState_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		state, err := NewState()
		if err != nil {
			t.Fatalf("NewState() error = %v", err)
		}
		if seen[state] {
			t.Fatalf("NewState() repeated %q", state)
		}
		seen[state] = true
	}
}

func TestStateMatches(t *testing.T) {
	tests := []struct {
		name     string
		returned string
		stored   string
		want     bool
	}{
		{"equal", "abc123", "abc123", true},
		{"different", "abc123", "abc124", false},
		{"different length", "abc", "abc123", false},
		{"nothing stored", "abc123", "", false},
		{"nothing returned", "", "abc123", false},
		{"both empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateMatches(tt.returned, tt.stored); got != tt.want {
				t.Errorf("StateMatches(%q, %q) = %v, want %v", tt.returned, tt.stored, got, tt.want)
			}
		})
	}
}
