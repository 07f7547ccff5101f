package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/m3rciful/linkbot/core/telegram/format"
)

const defaultRedirectBase = "https://app.adjust.com/"

type yamlFile struct {
	Apps []yamlEntry `yaml:"apps"`
}

type yamlEntry struct {
	Name           string    `yaml:"name"`
	Scheme         string    `yaml:"scheme"`
	BaseHost       string    `yaml:"base_host"`
	RedirectBase   *string   `yaml:"redirect_base"`
	AnalyticsToken *string   `yaml:"analytics_token"`
	Trackers       []Tracker `yaml:"trackers"`
	Actions        []Action  `yaml:"actions"`
}

// LoadYAML reads and validates a catalog from a YAML file.
func LoadYAML(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return ParseYAML(data)
}

// ParseYAML builds a catalog from raw YAML content.
func ParseYAML(data []byte) (*Catalog, error) {
	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}
	entries := make([]Entry, 0, len(file.Apps))
	for _, a := range file.Apps {
		entries = append(entries, Entry{
			Name:           a.Name,
			Scheme:         a.Scheme,
			BaseHost:       a.BaseHost,
			RedirectBase:   format.DerefString(a.RedirectBase, defaultRedirectBase),
			AnalyticsToken: format.DerefString(a.AnalyticsToken, ""),
			Trackers:       a.Trackers,
			Actions:        a.Actions,
		})
	}
	return New(entries)
}
