package dialog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/m3rciful/linkbot/catalog"
	"github.com/m3rciful/linkbot/urlutil"
)

const (
	eatsHostMarker     = "eda.yandex"
	eatsShopPathMarker = "/shop/"
	eatsPlaceParam     = "placeSlug"
)

// serviceCodes maps service menu labels to external service codes. The food
// delivery service has no code here because it branches into its own
// submenu instead of producing a link directly.
var serviceCodes = map[string]string{
	"Лавка": "grocery",
	"Драйв": "drive",
}

const serviceEats = "Еда"

func serviceMenu() []string { return []string{serviceEats, "Лавка", "Драйв"} }

const (
	eatsSectionHome  = "Главный экран"
	eatsSectionShop  = "Магазин по ссылке"
	eatsSectionPlace = "Ресторан по ссылке"
)

func eatsMenu() []string {
	return []string{eatsSectionHome, eatsSectionShop, eatsSectionPlace}
}

// tariffCodes maps tariff labels to tariffClass values. Междугородние
// поездки живут на отдельном пути без tariffClass.
var tariffCodes = map[string]string{
	"Эконом":   "econom",
	"Комфорт":  "comfort",
	"Комфорт+": "comfortplus",
	"Бизнес":   "business",
}

const tariffIntercity = "Межгород"

func tariffMenu() []string {
	return []string{"Эконом", "Комфорт", "Комфорт+", "Бизнес", tariffIntercity}
}

// tariffBase returns the scheme-qualified base deep-link for a tariff label,
// pending route endpoints.
func tariffBase(entry catalog.Entry, label string) (string, bool) {
	if label == tariffIntercity {
		return entry.Scheme + "intercity", true
	}
	code, ok := tariffCodes[label]
	if !ok {
		return "", false
	}
	return entry.Scheme + "route?tariffClass=" + code, true
}

// routeDeeplink merges optional start/end addresses onto the tariff base.
// Each address is independently optional; the separator follows whether the
// base already carries a query component.
func routeDeeplink(base, start, end string) string {
	var params []string
	if start != "" {
		params = append(params, "start="+url.QueryEscape(start))
	}
	if end != "" {
		params = append(params, "end="+url.QueryEscape(end))
	}
	return urlutil.Join(base, strings.Join(params, "&"))
}

// serviceDeeplink builds the generic external-service form.
func serviceDeeplink(entry catalog.Entry, code string) string {
	return entry.Scheme + "external?service=" + code
}

// promoDeeplink wraps a promo code into the fixed activation link.
func promoDeeplink(entry catalog.Entry, code string) string {
	return entry.Scheme + "addpromocode?code=" + url.QueryEscape(code)
}

// bannerDeeplink wraps a banner identifier into the fixed banner link.
func bannerDeeplink(entry catalog.Entry, id string) string {
	return entry.Scheme + "banner?id=" + url.QueryEscape(id)
}

// Food delivery sections are reachable two ways: from the flagship app via
// the external-service form, and from the food app directly. viaService
// selects the shape.

func eatsHomeDeeplink(entry catalog.Entry, viaService bool) string {
	if viaService {
		return serviceDeeplink(entry, "eats")
	}
	return entry.Scheme
}

// eatsShopDeeplink converts a web shop page URL into a deep-link. The URL
// must point at the food delivery site and contain the shop path marker.
func eatsShopDeeplink(entry catalog.Entry, viaService bool, raw string) (string, error) {
	u, err := parseEatsURL(raw)
	if err != nil {
		return "", err
	}
	if !strings.Contains(u.Path, eatsShopPathMarker) {
		return "", fmt.Errorf("eats shop url: path %q lacks %s", u.Path, eatsShopPathMarker)
	}
	if viaService {
		return serviceDeeplink(entry, "eats") + "&href=" + url.QueryEscape(u.Path), nil
	}
	return entry.Scheme + "shop?path=" + url.QueryEscape(u.Path), nil
}

// eatsPlaceDeeplink converts a restaurant page URL into a deep-link by
// lifting its placeSlug query parameter into a path segment.
func eatsPlaceDeeplink(entry catalog.Entry, viaService bool, raw string) (string, error) {
	u, err := parseEatsURL(raw)
	if err != nil {
		return "", err
	}
	slug := u.Query().Get(eatsPlaceParam)
	if slug == "" {
		return "", fmt.Errorf("eats place url: missing %s parameter", eatsPlaceParam)
	}
	if viaService {
		return serviceDeeplink(entry, "eats") + "&href=" + url.QueryEscape("/restaurant/"+slug), nil
	}
	return entry.Scheme + "restaurant/" + slug, nil
}

func parseEatsURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if !urlutil.IsAbsolute(raw) {
		return nil, fmt.Errorf("eats url: not absolute: %q", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("eats url: %w", err)
	}
	if !strings.Contains(u.Host, eatsHostMarker) {
		return nil, fmt.Errorf("eats url: host %q is not %s", u.Host, eatsHostMarker)
	}
	return u, nil
}

// encodedMarkers are the percent-triplets whose literal presence makes an
// href value count as already encoded. This is a known-fuzzy heuristic, not
// a parser; mixed encodings pass through unchanged.
var encodedMarkers = []string{"%20", "%3A", "%2F", "%3F", "%26", "%3D"}

func looksEncoded(value string) bool {
	for _, m := range encodedMarkers {
		if strings.Contains(value, m) {
			return true
		}
	}
	return false
}

// ensureEncodedHref accepts a custom deep-link and, when it carries an
// href parameter whose value looks unencoded, rewrites that value
// percent-encoded in place. Any internal fault surfaces as an error so the
// caller can degrade to a validation re-prompt without mutating state.
func ensureEncodedHref(deeplink, scheme string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("href rewrite: %v", r)
		}
	}()

	rest := strings.TrimPrefix(deeplink, scheme)
	qpos := strings.Index(rest, "?")
	if qpos < 0 {
		return deeplink, nil
	}
	query := rest[qpos+1:]
	hpos := strings.Index(query, "href=")
	if hpos < 0 {
		return deeplink, nil
	}
	value := query[hpos+len("href="):]
	if amp := strings.Index(value, "&"); amp >= 0 {
		value = value[:amp]
	}
	if value == "" || looksEncoded(value) || !strings.ContainsAny(value, " :/?&=") {
		return deeplink, nil
	}
	encoded := strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
	return strings.Replace(deeplink, "href="+value, "href="+encoded, 1), nil
}
