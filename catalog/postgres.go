package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"github.com/m3rciful/linkbot/core/logger"
)

type appRow struct {
	Name           string `db:"name"`
	Scheme         string `db:"scheme"`
	BaseHost       string `db:"base_host"`
	RedirectBase   string `db:"redirect_base"`
	AnalyticsToken string `db:"analytics_token"`
}

type trackerRow struct {
	AppName  string `db:"app_name"`
	Policy   string `db:"policy"`
	Window   string `db:"window"`
	Template string `db:"template"`
}

type actionRow struct {
	AppName string `db:"app_name"`
	Action  string `db:"action"`
}

// LoadPostgres assembles a catalog from the seeded catalog tables. The row
// order (position columns) defines the display order and the tuple fallback
// order.
func LoadPostgres(ctx context.Context, db *sqlx.DB) (*Catalog, error) {
	if db == nil {
		return nil, fmt.Errorf("catalog: nil db")
	}
	start := time.Now()

	var apps []appRow
	if err := db.SelectContext(ctx, &apps,
		`SELECT name, scheme, base_host, redirect_base, analytics_token
		 FROM app_catalog ORDER BY position`); err != nil {
		return nil, fmt.Errorf("catalog: select apps: %w", err)
	}

	var trackers []trackerRow
	if err := db.SelectContext(ctx, &trackers,
		`SELECT app_name, policy, "window", template
		 FROM app_trackers ORDER BY app_name, position`); err != nil {
		return nil, fmt.Errorf("catalog: select trackers: %w", err)
	}

	var actions []actionRow
	if err := db.SelectContext(ctx, &actions,
		`SELECT app_name, action
		 FROM app_actions ORDER BY app_name, position`); err != nil {
		return nil, fmt.Errorf("catalog: select actions: %w", err)
	}

	entries := make([]Entry, 0, len(apps))
	for _, a := range apps {
		e := Entry{
			Name:           a.Name,
			Scheme:         a.Scheme,
			BaseHost:       a.BaseHost,
			RedirectBase:   a.RedirectBase,
			AnalyticsToken: a.AnalyticsToken,
		}
		for _, t := range trackers {
			if t.AppName == a.Name {
				e.Trackers = append(e.Trackers, Tracker{Policy: t.Policy, Window: t.Window, Template: t.Template})
			}
		}
		for _, act := range actions {
			if act.AppName == a.Name {
				e.Actions = append(e.Actions, Action(act.Action))
			}
		}
		entries = append(entries, e)
	}

	cat, err := New(entries)
	if err != nil {
		return nil, err
	}
	logger.SVCCatalog.Info("catalog loaded",
		slog.String("event", "catalog.load"),
		slog.String("source", "postgres"),
		slog.Int("apps", cat.Len()),
		slog.Duration("duration", logger.Took(start)),
	)
	return cat, nil
}
