package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "us national format", input: "(212) 555-0123", want: "+12125550123"},
		{name: "already e164", input: "+12125550123", want: "+12125550123"},
		{name: "with spaces", input: " 212 555 0123 ", want: "+12125550123"},
		{name: "empty", input: "", want: ""},
		{name: "garbage", input: "not-a-phone", want: ""},
		{name: "too short", input: "12345", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
