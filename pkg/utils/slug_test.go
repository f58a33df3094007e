package utils

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ceramic Mug", "ceramic-mug"},
		{"Home & Kitchen", "home-kitchen"},
		{"  Trimmed  ", "trimmed"},
		{"UPPER case", "upper-case"},
		{"hyphen--run!!", "hyphen-run"},
		{"أدوات المطبخ", "أدوات-المطبخ"},
		{"قهوة Arabica 250g", "قهوة-arabica-250g"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugOrFallback(t *testing.T) {
	if got := SlugOrFallback("Ceramic Mug", "product"); got != "ceramic-mug" {
		t.Errorf("SlugOrFallback = %q, want ceramic-mug", got)
	}

	got := SlugOrFallback("!!!", "product")
	if !strings.HasPrefix(got, "product-") {
		t.Errorf("fallback slug %q should start with product-", got)
	}
	if len(got) <= len("product-") {
		t.Errorf("fallback slug %q missing timestamp", got)
	}
}

func TestRandomString(t *testing.T) {
	s := RandomString(8, OrderNumberAlphabet)
	if len(s) != 8 {
		t.Fatalf("len = %d, want 8", len(s))
	}
	for _, r := range s {
		if !strings.ContainsRune(OrderNumberAlphabet, r) {
			t.Errorf("character %q not in the order number alphabet", r)
		}
	}

	// ambiguous characters must never appear
	for _, r := range "01OI" {
		if strings.ContainsRune(OrderNumberAlphabet, r) {
			t.Errorf("alphabet contains ambiguous character %q", r)
		}
	}
}
