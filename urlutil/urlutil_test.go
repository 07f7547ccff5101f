package urlutil

import (
	"strings"
	"testing"
)

func TestIsAbsolute(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"https://ya.ru/promo", true},
		{"http://example.com", true},
		{"https://example.com/?a=b#frag", true},
		{"ya.ru/promo", false},
		{"/relative/path", false},
		{"", false},
		{"https://", false},
		{"::::", false},
	}
	for _, tc := range cases {
		if got := IsAbsolute(tc.raw); got != tc.want {
			t.Errorf("IsAbsolute(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestInjectUTMAddsMissing(t *testing.T) {
	got, err := InjectUTM("https://example.com/landing#top", "20250830_bot", "leto")
	if err != nil {
		t.Fatalf("InjectUTM: %v", err)
	}
	if !strings.Contains(got, "utm_source=20250830_bot") {
		t.Errorf("utm_source missing in %q", got)
	}
	if !strings.Contains(got, "utm_campaign=leto") {
		t.Errorf("utm_campaign missing in %q", got)
	}
	if !strings.HasSuffix(got, "#top") {
		t.Errorf("fragment lost in %q", got)
	}
}

func TestInjectUTMNeverOverwrites(t *testing.T) {
	got, err := InjectUTM("https://x.com/?utm_source=keep", "20250830_bot", "leto")
	if err != nil {
		t.Fatalf("InjectUTM: %v", err)
	}
	if !strings.Contains(got, "utm_source=keep") {
		t.Errorf("existing utm_source was overwritten: %q", got)
	}
	if strings.Contains(got, "utm_source=20250830_bot") {
		t.Errorf("injected value appeared next to existing one: %q", got)
	}
	if !strings.Contains(got, "utm_campaign=leto") {
		t.Errorf("missing utm_campaign was not added: %q", got)
	}
}

func TestInjectUTMEncodesValues(t *testing.T) {
	got, err := InjectUTM("https://x.com/?q=два слова", "src", "camp")
	if err != nil {
		t.Fatalf("InjectUTM: %v", err)
	}
	if strings.Contains(got, " ") {
		t.Errorf("query not re-encoded: %q", got)
	}
}

func TestJoin(t *testing.T) {
	cases := []struct {
		base   string
		params string
		want   string
	}{
		{"https://yandex.go.link/", "adj_t=x", "https://yandex.go.link/?adj_t=x"},
		{"https://yandex.go.link/route?tariffClass=econom", "adj_t=x", "https://yandex.go.link/route?tariffClass=econom&adj_t=x"},
		{"base", "", "base"},
	}
	for _, tc := range cases {
		if got := Join(tc.base, tc.params); got != tc.want {
			t.Errorf("Join(%q, %q) = %q, want %q", tc.base, tc.params, got, tc.want)
		}
	}
}
