// Package catalog holds the immutable application table the bot builds
// links for. Entries can come from Postgres, a YAML file, or the built-in
// defaults; after load the catalog is read-only.
package catalog

import (
	"fmt"
	"strings"
)

// Action identifies what a composed link should do when clicked.
type Action string

const (
	// ActionOpenApp opens the application with no extra payload.
	ActionOpenApp Action = "open_app"
	// ActionService deep-links into one of the embedded services.
	ActionService Action = "service"
	// ActionPromoCode applies a promo code on open.
	ActionPromoCode Action = "promo_code"
	// ActionTariff opens the order screen with a preselected tariff.
	ActionTariff Action = "tariff"
	// ActionBanner opens a promo banner by its identifier.
	ActionBanner Action = "banner"
	// ActionCustom accepts a hand-written deep-link.
	ActionCustom Action = "custom"
	// ActionEatsSection deep-links into a food-delivery section.
	ActionEatsSection Action = "eats_section"
)

var actionLabels = map[Action]string{
	ActionOpenApp:     "Просто открыть приложение",
	ActionService:     "Диплинк сервиса",
	ActionPromoCode:   "Промокод",
	ActionTariff:      "Тариф",
	ActionBanner:      "Баннер",
	ActionCustom:      "Свой диплинк",
	ActionEatsSection: "Раздел Еды",
}

// Label returns the human-readable button text for the action.
func (a Action) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}

// ActionByLabel resolves a button text back to its action code.
func ActionByLabel(label string) (Action, bool) {
	label = strings.TrimSpace(label)
	for a, l := range actionLabels {
		if l == label {
			return a, true
		}
	}
	return "", false
}

// Reattribution policy and temporary attribution window values as the user
// sees them on the keyboard. The tracker table is keyed by this pair.
const (
	PolicyAll     = "Реатрибуция всех"
	PolicyDormant = "Только спящие 30+ дней"

	WindowUnlimited = "Безлимитное"
	Window30Days    = "30 дней"
)

// Policies lists the selectable reattribution policies in display order.
func Policies() []string { return []string{PolicyAll, PolicyDormant} }

// Windows lists the selectable attribution windows in display order.
func Windows() []string { return []string{WindowUnlimited, Window30Days} }

// Tracker binds one (policy, window) pair to the opaque tracking template
// identifier the attribution provider should apply.
type Tracker struct {
	Policy   string `yaml:"policy" db:"policy"`
	Window   string `yaml:"window" db:"window"`
	Template string `yaml:"template" db:"template"`
}

// Entry describes a single application.
type Entry struct {
	Name           string    `yaml:"name" db:"name"`
	Scheme         string    `yaml:"scheme" db:"scheme"`
	BaseHost       string    `yaml:"base_host" db:"base_host"`
	RedirectBase   string    `yaml:"redirect_base" db:"redirect_base"`
	AnalyticsToken string    `yaml:"analytics_token" db:"analytics_token"`
	Trackers       []Tracker `yaml:"trackers"`
	Actions        []Action  `yaml:"actions"`
}

// Tracker resolves the template id for the (policy, window) pair. An unknown
// pair deterministically falls back to the first configured row; the tracker
// table is never empty after validation.
func (e Entry) Tracker(policy, window string) string {
	for _, t := range e.Trackers {
		if t.Policy == policy && t.Window == window {
			return t.Template
		}
	}
	return e.Trackers[0].Template
}

// Allows reports whether the action is exposed for this application.
func (e Entry) Allows(a Action) bool {
	for _, allowed := range e.Actions {
		if allowed == a {
			return true
		}
	}
	return false
}

// Catalog is a validated, ordered, read-only set of entries. The first entry
// is the fallback application.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// New validates entries and builds a catalog. The slice order is preserved;
// entry zero becomes the fallback app.
func New(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog: no entries")
	}
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		if err := validateEntry(e); err != nil {
			return nil, fmt.Errorf("catalog: entry %q: %w", e.Name, err)
		}
		if _, dup := index[e.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate entry %q", e.Name)
		}
		index[e.Name] = i
	}
	return &Catalog{entries: entries, index: index}, nil
}

func validateEntry(e Entry) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("empty name")
	}
	if !strings.HasSuffix(e.Scheme, "://") {
		return fmt.Errorf("scheme %q must end with ://", e.Scheme)
	}
	if !strings.HasPrefix(e.BaseHost, "http://") && !strings.HasPrefix(e.BaseHost, "https://") {
		return fmt.Errorf("base host %q is not absolute", e.BaseHost)
	}
	if len(e.Trackers) == 0 {
		return fmt.Errorf("no tracker rows")
	}
	for _, t := range e.Trackers {
		if t.Template == "" {
			return fmt.Errorf("tracker (%s, %s) has empty template", t.Policy, t.Window)
		}
	}
	if len(e.Actions) == 0 {
		return fmt.Errorf("no allowed actions")
	}
	for _, a := range e.Actions {
		if _, ok := actionLabels[a]; !ok {
			return fmt.Errorf("unknown action %q", a)
		}
	}
	return nil
}

// Get returns the entry by name.
func (c *Catalog) Get(name string) (Entry, bool) {
	i, ok := c.index[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Resolve returns the entry by name, or the fallback app when the name is
// unknown or empty. It never fails.
func (c *Catalog) Resolve(name string) Entry {
	if e, ok := c.Get(name); ok {
		return e
	}
	return c.entries[0]
}

// Default returns the fallback application.
func (c *Catalog) Default() Entry { return c.entries[0] }

// Names returns the app names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Len reports the number of loaded entries.
func (c *Catalog) Len() int { return len(c.entries) }
