// Package links turns a completed answer set into the final tracked
// deep-link, the web redirector link, and the analytics dashboard link.
// Everything here is a pure function of the answers and the current date.
package links

import (
	"context"
	"net/url"
	"strings"
	"time"

	"log/slog"

	"github.com/m3rciful/linkbot/catalog"
	"github.com/m3rciful/linkbot/core/logger"
	"github.com/m3rciful/linkbot/translit"
	"github.com/m3rciful/linkbot/urlutil"
)

const campaignSuffix = "_bot"

// Request carries the answers the composer consumes.
type Request struct {
	App        string
	Policy     string
	Window     string
	Campaign   string
	Deeplink   string
	DesktopURL string
}

// Set is the composer output: three absolute URLs.
type Set struct {
	Deeplink string
	Redirect string
	Stats    string
}

// Composer resolves apps against a loaded catalog. It holds no mutable state.
type Composer struct {
	catalog *catalog.Catalog
}

// NewComposer returns a composer over the given catalog.
func NewComposer(cat *catalog.Catalog) *Composer {
	return &Composer{catalog: cat}
}

// Compose builds the link set. Unknown apps resolve to the catalog fallback
// and unknown tracker tuples to the first configured row; Compose never
// fails.
func (c *Composer) Compose(req Request, now time.Time) Set {
	entry := c.catalog.Resolve(req.App)

	stripped := strings.TrimPrefix(req.Deeplink, entry.Scheme)
	campaignValue := now.Format("20060102") + campaignSuffix
	adgroupValue := translit.Slug(req.Campaign)
	template := entry.Tracker(req.Policy, req.Window)

	params := []string{
		"adj_t=" + template,
		"adj_campaign=" + campaignValue,
		"adj_adgroup=" + adgroupValue,
	}
	if req.DesktopURL != "" {
		enc := url.QueryEscape(desktopFallback(req.DesktopURL, campaignValue, adgroupValue))
		params = append(params,
			"adj_fallback="+enc,
			"adj_redirect_macos="+enc,
		)
	}

	set := Set{
		Deeplink: urlutil.Join(entry.BaseHost+stripped, strings.Join(params, "&")),
		Redirect: entry.RedirectBase + template +
			"?deeplink=" + url.QueryEscape(req.Deeplink) +
			"&campaign=" + campaignValue +
			"&adgroup=" + adgroupValue,
		Stats: statsURL(entry.AnalyticsToken, campaignValue, adgroupValue),
	}

	logger.Debug(context.Background(), "service.links", "links.compose",
		slog.String("app", entry.Name),
		slog.String("campaign", campaignValue),
	)
	return set
}

// desktopFallback injects the derived UTM parameters into the desktop URL.
// The URL was validated on entry; should parsing still fail, the original
// value is used untouched rather than surfacing an error.
func desktopFallback(raw, campaignValue, adgroupValue string) string {
	injected, err := urlutil.InjectUTM(raw, campaignValue, adgroupValue)
	if err != nil {
		return raw
	}
	return injected
}

// statsURL renders the fixed dashboard query with the app token and the
// quoted campaign/adgroup dimension filters.
func statsURL(token, campaignValue, adgroupValue string) string {
	q := url.Values{}
	q.Set("app_token__in", token)
	q.Set("utc_offset", "+03:00")
	q.Set("date_period", "-30d:-0d")
	q.Set("cohort_maturity", "immature")
	q.Set("sort", "-installs")
	q.Set("metrics", "installs,clicks,sessions")
	q.Set("dimensions", "campaign_network,adgroup_network")
	q.Set("campaign_network__in", `"`+campaignValue+`"`)
	q.Set("adgroup_network__in", `"`+adgroupValue+`"`)
	return "https://suite.adjust.com/datascape/report?" + q.Encode()
}
