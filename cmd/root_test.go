package cmd

import (
	"testing"
	"time"
)

func TestResolveDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
		err   bool
	}{
		{"2024-01-05", "2024-01-05", false},
		{"2024-12-31", "2024-12-31", false},
		{"2024-1-5", "", true},
		{"yesterday", "", true},
		{"2024-13-01", "", true},
	}

	for _, tt := range tests {
		got, err := resolveDate(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("resolveDate(%q): expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("resolveDate(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolveDateDefaultsToToday(t *testing.T) {
	got, err := resolveDate("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != time.Now().Format("2006-01-02") {
		t.Errorf("expected today's date, got %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.input); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
