package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain string", input: "Jane Doe", want: "Jane Doe"},
		{name: "surrounding whitespace", input: "  Jane Doe  ", want: "Jane Doe"},
		{name: "interior runs collapse", input: "Jane   \t Doe", want: "Jane Doe"},
		{name: "newlines collapse", input: "Jane\nDoe", want: "Jane Doe"},
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: "   \t\n ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{" Jane.Doe@Example.COM ", "jane.doe@example.com"},
		{"user@host.org", "user@host.org"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeSlice(t *testing.T) {
	got := SanitizeSlice(
		[]string{" 09:00:00 ", "09:30:00", "09:00:00", "  ", ""},
		NormalizeSlotLabel,
	)

	want := []string{"09:00:00", "09:30:00"}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
