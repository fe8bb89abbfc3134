package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"Night Drive":        "Night Drive",
		"a/b:c*d":            "a-b-c-d",
		`what? "quotes" <x>`: "what quotes x",
		"  padded  ":         "padded",
		"":                   "",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	cases := map[string]string{
		"Deep House":  "deep_house",
		"lo-fi":       "lo-fi",
		"":            "unknown",
		"!!!":         "unknown",
		"Techno 2024": "techno_2024",
	}
	for in, want := range cases {
		if got := SanitizeToken(in); got != want {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}
