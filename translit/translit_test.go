package translit

import "testing"

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Тестовая1", "testovaya1"},
		{"Лето", "leto"},
		{"promo2025", "promo2025"},
		{"Чёрная Пятница!", "chyornayapyatnitsa"},
		{"съёмка", "syomka"},
		{"___", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Slug(tc.in); got != tc.want {
			t.Errorf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugAlphabet(t *testing.T) {
	out := Slug("Привет, world 42 — ΩΩΩ")
	for _, r := range out {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			t.Fatalf("Slug produced %q outside [a-z0-9] in %q", r, out)
		}
	}
}

func TestSlugIdempotent(t *testing.T) {
	inputs := []string{"Тестовая1", "Лето", "скидка50", "Black Friday"}
	for _, in := range inputs {
		once := Slug(in)
		if twice := Slug(once); twice != once {
			t.Errorf("Slug not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}
