package dialog

import (
	"testing"

	"github.com/m3rciful/linkbot/catalog"
)

func goEntry(t *testing.T) catalog.Entry {
	t.Helper()
	e, ok := catalog.Builtin().Get("Яндекс Go")
	if !ok {
		t.Fatal("flagship entry missing from builtin catalog")
	}
	return e
}

func TestTariffBase(t *testing.T) {
	entry := goEntry(t)
	cases := []struct {
		label string
		want  string
		ok    bool
	}{
		{"Эконом", "yandextaxi://route?tariffClass=econom", true},
		{"Комфорт", "yandextaxi://route?tariffClass=comfort", true},
		{"Комфорт+", "yandextaxi://route?tariffClass=comfortplus", true},
		{"Бизнес", "yandextaxi://route?tariffClass=business", true},
		{"Межгород", "yandextaxi://intercity", true},
		{"Ультима", "", false},
	}
	for _, tc := range cases {
		got, ok := tariffBase(entry, tc.label)
		if ok != tc.ok || got != tc.want {
			t.Errorf("tariffBase(%q) = %q, %v; want %q, %v", tc.label, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRouteDeeplink(t *testing.T) {
	base := "yandextaxi://route?tariffClass=econom"
	cases := []struct {
		start, end string
		want       string
	}{
		{"", "", base},
		{"Арбат 1", "", base + "&start=%D0%90%D1%80%D0%B1%D0%B0%D1%82+1"},
		{"", "Тверская 7", base + "&end=%D0%A2%D0%B2%D0%B5%D1%80%D1%81%D0%BA%D0%B0%D1%8F+7"},
		{"a", "b", base + "&start=a&end=b"},
	}
	for _, tc := range cases {
		if got := routeDeeplink(base, tc.start, tc.end); got != tc.want {
			t.Errorf("routeDeeplink(%q, %q) = %q, want %q", tc.start, tc.end, got, tc.want)
		}
	}

	// Intercity base has no query yet; the first parameter opens one.
	if got := routeDeeplink("yandextaxi://intercity", "a", ""); got != "yandextaxi://intercity?start=a" {
		t.Errorf("intercity route = %q", got)
	}
}

func TestEatsShopDeeplink(t *testing.T) {
	entry := goEntry(t)

	got, err := eatsShopDeeplink(entry, true, "https://eda.yandex.ru/moscow/shop/vkusvill")
	if err != nil {
		t.Fatalf("via service: %v", err)
	}
	want := "yandextaxi://external?service=eats&href=%2Fmoscow%2Fshop%2Fvkusvill"
	if got != want {
		t.Fatalf("via service = %q, want %q", got, want)
	}

	got, err = eatsShopDeeplink(entry, false, "https://eda.yandex.ru/moscow/shop/vkusvill")
	if err != nil {
		t.Fatalf("direct: %v", err)
	}
	if got != "yandextaxi://shop?path=%2Fmoscow%2Fshop%2Fvkusvill" {
		t.Fatalf("direct = %q", got)
	}

	for _, bad := range []string{
		"https://example.com/moscow/shop/vkusvill", // wrong host
		"https://eda.yandex.ru/moscow/vkusvill",    // no shop marker
		"eda.yandex.ru/moscow/shop/vkusvill",       // not absolute
	} {
		if _, err := eatsShopDeeplink(entry, true, bad); err == nil {
			t.Errorf("eatsShopDeeplink(%q) accepted", bad)
		}
	}
}

func TestEatsPlaceDeeplink(t *testing.T) {
	entry := goEntry(t)

	got, err := eatsPlaceDeeplink(entry, true, "https://eda.yandex.ru/moscow?placeSlug=teremok")
	if err != nil {
		t.Fatalf("via service: %v", err)
	}
	if got != "yandextaxi://external?service=eats&href=%2Frestaurant%2Fteremok" {
		t.Fatalf("via service = %q", got)
	}

	got, err = eatsPlaceDeeplink(entry, false, "https://eda.yandex.ru/moscow?placeSlug=teremok")
	if err != nil {
		t.Fatalf("direct: %v", err)
	}
	if got != "yandextaxi://restaurant/teremok" {
		t.Fatalf("direct = %q", got)
	}

	if _, err := eatsPlaceDeeplink(entry, true, "https://eda.yandex.ru/moscow"); err == nil {
		t.Error("url without placeSlug accepted")
	}
}

func TestLooksEncoded(t *testing.T) {
	encoded := []string{"a%20b", "x%3Ay", "%2Fpath", "q%3F", "a%26b", "k%3Dv"}
	for _, v := range encoded {
		if !looksEncoded(v) {
			t.Errorf("looksEncoded(%q) = false", v)
		}
	}
	plain := []string{"hello world", "a/b:c", "", "%2Gnot-a-marker"}
	for _, v := range plain {
		if looksEncoded(v) {
			t.Errorf("looksEncoded(%q) = true", v)
		}
	}
}

func TestEnsureEncodedHref(t *testing.T) {
	const scheme = "yandextaxi://"
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no query",
			in:   scheme + "banner",
			want: scheme + "banner",
		},
		{
			name: "no href",
			in:   scheme + "banner?id=1",
			want: scheme + "banner?id=1",
		},
		{
			name: "spaces",
			in:   scheme + "external?service=eats&href=hello world",
			want: scheme + "external?service=eats&href=hello%20world",
		},
		{
			name: "full url value",
			in:   scheme + "external?service=eats&href=https://a/b",
			want: scheme + "external?service=eats&href=https%3A%2F%2Fa%2Fb",
		},
		{
			name: "already encoded untouched",
			in:   scheme + "external?service=eats&href=hello%20world",
			want: scheme + "external?service=eats&href=hello%20world",
		},
		{
			name: "plain value untouched",
			in:   scheme + "external?service=eats&href=promo",
			want: scheme + "external?service=eats&href=promo",
		},
		{
			name: "trailing params preserved",
			in:   scheme + "external?href=a b&service=eats",
			want: scheme + "external?href=a%20b&service=eats",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ensureEncodedHref(tc.in, scheme)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
