package serverurl

import (
	"strings"
	"testing"
)

func TestHostFromURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"bare host", "example", "example"},
		{"uppercase", "EXAMPLE", "example"},
		{"full url with path and query", "https://example.chat.platrum.ru/path?x=1", "example"},
		{"http scheme", "http://example.chat.platrum.ru", "example"},
		{"suffix without scheme", "example.chat.platrum.ru", "example"},
		{"port stripped", "example.chat.platrum.ru:8065", "example"},
		{"fragment stripped", "example.chat.platrum.ru#channel", "example"},
		{"foreign domain kept", "chat.example.com", "chat.example.com"},
		{"surrounding whitespace", "  example  ", "example"},
		{"scheme only", "https://", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HostFromURL(tt.input); got != tt.want {
				t.Errorf("HostFromURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestURLFromHost(t *testing.T) {
	if got := URLFromHost(""); got != "" {
		t.Errorf("URLFromHost(\"\") = %q, want empty string", got)
	}

	if got, want := URLFromHost("example"), "https://example.chat.platrum.ru"; got != want {
		t.Errorf("URLFromHost(\"example\") = %q, want %q", got, want)
	}
}

// Normalization must be a fixed point: once an input has been reduced to a
// host, rebuilding the URL and reducing again changes nothing.
func TestHostFromURLIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"example",
		"https://example.chat.platrum.ru/path?x=1",
		"EXAMPLE.chat.platrum.ru:443",
		"chat.example.com/team",
	}

	for _, input := range inputs {
		host := HostFromURL(input)
		again := HostFromURL(URLFromHost(host))
		if again != host {
			t.Errorf("normalization of %q not stable: first pass %q, second pass %q", input, host, again)
		}
	}
}

func TestValidHostLabel(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"a", true},
		{"example", true},
		{"team-42", true},
		{"0numeric", true},
		{"", false},
		{"-a", false},
		{"a-", false},
		{"UPPER", false},
		{"under_score", false},
		{"dot.ted", false},
		{strings.Repeat("a", 63), true},
		{strings.Repeat("a", 64), false},
	}

	for _, tt := range tests {
		if got := ValidHostLabel(tt.host); got != tt.want {
			t.Errorf("ValidHostLabel(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}
