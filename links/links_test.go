package links

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/m3rciful/linkbot/catalog"
)

var composeDate = time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

func newComposer(t *testing.T) *Composer {
	t.Helper()
	return NewComposer(catalog.Builtin())
}

func TestComposeOpenAppScenario(t *testing.T) {
	set := newComposer(t).Compose(Request{
		App:      "Яндекс Go",
		Policy:   catalog.PolicyDormant,
		Window:   catalog.WindowUnlimited,
		Campaign: "Лето",
		Deeplink: "yandextaxi://",
	}, composeDate)

	want := "https://yandex.go.link/?adj_t=1mhvvs05_1mztz3nz&adj_campaign=20250830_bot&adj_adgroup=leto"
	if set.Deeplink != want {
		t.Errorf("Deeplink =\n%s\nwant\n%s", set.Deeplink, want)
	}
}

func TestComposeStripsSchemeExactlyOnce(t *testing.T) {
	c := newComposer(t)
	for _, name := range catalog.Builtin().Names() {
		entry := catalog.Builtin().Resolve(name)
		set := c.Compose(Request{
			App:      name,
			Campaign: "x",
			Deeplink: entry.Scheme + "some/path",
		}, composeDate)
		if strings.Contains(set.Deeplink, entry.Scheme) {
			t.Errorf("%s: scheme prefix survived in %s", name, set.Deeplink)
		}
		if !strings.HasPrefix(set.Deeplink, entry.BaseHost+"some/path") {
			t.Errorf("%s: path lost in %s", name, set.Deeplink)
		}
	}
}

func TestComposeSeparatorRule(t *testing.T) {
	c := newComposer(t)

	noQuery := c.Compose(Request{App: "Яндекс Go", Campaign: "x", Deeplink: "yandextaxi://couponcode"}, composeDate)
	if !strings.Contains(noQuery.Deeplink, "couponcode?adj_t=") {
		t.Errorf("expected '?' separator, got %s", noQuery.Deeplink)
	}

	withQuery := c.Compose(Request{App: "Яндекс Go", Campaign: "x", Deeplink: "yandextaxi://route?tariffClass=econom"}, composeDate)
	if !strings.Contains(withQuery.Deeplink, "tariffClass=econom&adj_t=") {
		t.Errorf("expected '&' separator, got %s", withQuery.Deeplink)
	}
}

func TestComposeUnknownAppUsesFallback(t *testing.T) {
	set := newComposer(t).Compose(Request{
		App:      "неизвестное приложение",
		Campaign: "x",
		Deeplink: "yandextaxi://",
	}, composeDate)
	if !strings.HasPrefix(set.Deeplink, "https://yandex.go.link/") {
		t.Errorf("unknown app did not fall back to flagship: %s", set.Deeplink)
	}
}

func TestComposeUnknownTupleUsesFirstTracker(t *testing.T) {
	first := catalog.Builtin().Default().Trackers[0].Template
	set := newComposer(t).Compose(Request{
		App:      "Яндекс Go",
		Policy:   "другая политика",
		Window:   "другое окно",
		Campaign: "x",
		Deeplink: "yandextaxi://",
	}, composeDate)
	if !strings.Contains(set.Deeplink, "adj_t="+first) {
		t.Errorf("tuple fallback broken: %s", set.Deeplink)
	}
}

func TestComposeDesktopFallback(t *testing.T) {
	set := newComposer(t).Compose(Request{
		App:        "Яндекс Go",
		Campaign:   "Лето",
		Deeplink:   "yandextaxi://",
		DesktopURL: "https://x.com/?utm_source=keep",
	}, composeDate)

	if !strings.Contains(set.Deeplink, "adj_fallback=") || !strings.Contains(set.Deeplink, "adj_redirect_macos=") {
		t.Fatalf("fallback params missing: %s", set.Deeplink)
	}

	// Both parameters carry the identical doubly-encoded value.
	q := set.Deeplink[strings.Index(set.Deeplink, "?")+1:]
	vals, err := url.ParseQuery(q)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	fb := vals.Get("adj_fallback")
	if fb == "" || fb != vals.Get("adj_redirect_macos") {
		t.Errorf("fallback and macos redirect differ: %q vs %q", fb, vals.Get("adj_redirect_macos"))
	}
	// Existing utm_source survived, utm_campaign was injected.
	if !strings.Contains(fb, "utm_source=keep") {
		t.Errorf("existing utm_source overwritten: %q", fb)
	}
	if !strings.Contains(fb, "utm_campaign=leto") {
		t.Errorf("utm_campaign not injected: %q", fb)
	}
}

func TestComposeRedirectCarriesQualifiedDeeplink(t *testing.T) {
	set := newComposer(t).Compose(Request{
		App:      "Яндекс Go",
		Policy:   catalog.PolicyAll,
		Window:   catalog.WindowUnlimited,
		Campaign: "Лето",
		Deeplink: "yandextaxi://route?tariffClass=econom",
	}, composeDate)

	if !strings.HasPrefix(set.Redirect, "https://app.adjust.com/1md8ai4n_1mztz3nz?deeplink=") {
		t.Errorf("redirect shape wrong: %s", set.Redirect)
	}
	if !strings.Contains(set.Redirect, url.QueryEscape("yandextaxi://route?tariffClass=econom")) {
		t.Errorf("redirect lost the scheme-qualified deeplink: %s", set.Redirect)
	}
	if !strings.Contains(set.Redirect, "campaign=20250830_bot") || !strings.Contains(set.Redirect, "adgroup=leto") {
		t.Errorf("redirect tracking params missing: %s", set.Redirect)
	}
}

func TestComposeStatsURL(t *testing.T) {
	set := newComposer(t).Compose(Request{
		App:      "Яндекс Go",
		Campaign: "Лето",
		Deeplink: "yandextaxi://",
	}, composeDate)

	if !strings.HasPrefix(set.Stats, "https://suite.adjust.com/datascape/report?") {
		t.Fatalf("stats host wrong: %s", set.Stats)
	}
	u, err := url.Parse(set.Stats)
	if err != nil {
		t.Fatalf("stats not parseable: %v", err)
	}
	q := u.Query()
	if q.Get("app_token__in") != "4vkqpmcz3gqo" {
		t.Errorf("app token = %q", q.Get("app_token__in"))
	}
	if q.Get("campaign_network__in") != `"20250830_bot"` {
		t.Errorf("campaign filter = %q", q.Get("campaign_network__in"))
	}
	if q.Get("adgroup_network__in") != `"leto"` {
		t.Errorf("adgroup filter = %q", q.Get("adgroup_network__in"))
	}
}

func TestComposeDeterministic(t *testing.T) {
	req := Request{App: "Яндекс Go", Campaign: "Тест", Deeplink: "yandextaxi://", DesktopURL: "https://x.com/"}
	a := newComposer(t).Compose(req, composeDate)
	b := newComposer(t).Compose(req, composeDate)
	if a != b {
		t.Errorf("compose not deterministic:\n%+v\n%+v", a, b)
	}
}
