package catalog

import "testing"

func TestBuiltinValid(t *testing.T) {
	c := Builtin()
	if c.Len() == 0 {
		t.Fatal("builtin catalog is empty")
	}
	if c.Default().Name != "Яндекс Go" {
		t.Errorf("fallback app = %q, want flagship", c.Default().Name)
	}
	for _, name := range c.Names() {
		e, ok := c.Get(name)
		if !ok {
			t.Fatalf("Get(%q) lost an entry", name)
		}
		if !e.Allows(ActionOpenApp) {
			t.Errorf("%q does not allow open_app", name)
		}
	}
}

func TestResolveUnknownFallsBack(t *testing.T) {
	c := Builtin()
	if got := c.Resolve("нет такого"); got.Name != c.Default().Name {
		t.Errorf("Resolve(unknown) = %q, want default %q", got.Name, c.Default().Name)
	}
	if got := c.Resolve(""); got.Name != c.Default().Name {
		t.Errorf("Resolve(empty) = %q, want default", got.Name)
	}
}

func TestTrackerTupleFallback(t *testing.T) {
	e := Builtin().Resolve("Яндекс Лавка")
	first := e.Trackers[0].Template
	got := e.Tracker("несуществующая политика", "окно")
	if got != first {
		t.Errorf("unknown tuple resolved to %q, want first row %q", got, first)
	}
	// Deterministic: same input, same output.
	if again := e.Tracker("несуществующая политика", "окно"); again != got {
		t.Errorf("fallback not deterministic: %q vs %q", got, again)
	}
}

func TestTrackerExactTuple(t *testing.T) {
	e := Builtin().Default()
	got := e.Tracker(PolicyDormant, WindowUnlimited)
	if got != "1mhvvs05_1mztz3nz" {
		t.Errorf("Tracker(dormant, unlimited) = %q", got)
	}
}

func TestNewRejectsBrokenEntries(t *testing.T) {
	cases := []struct {
		name    string
		entries []Entry
	}{
		{"empty", nil},
		{"no scheme suffix", []Entry{{
			Name: "x", Scheme: "x", BaseHost: "https://x/",
			Trackers: []Tracker{{Template: "t"}}, Actions: []Action{ActionOpenApp},
		}}},
		{"relative host", []Entry{{
			Name: "x", Scheme: "x://", BaseHost: "x.link/",
			Trackers: []Tracker{{Template: "t"}}, Actions: []Action{ActionOpenApp},
		}}},
		{"no trackers", []Entry{{
			Name: "x", Scheme: "x://", BaseHost: "https://x/",
			Actions: []Action{ActionOpenApp},
		}}},
		{"no actions", []Entry{{
			Name: "x", Scheme: "x://", BaseHost: "https://x/",
			Trackers: []Tracker{{Template: "t"}},
		}}},
		{"unknown action", []Entry{{
			Name: "x", Scheme: "x://", BaseHost: "https://x/",
			Trackers: []Tracker{{Template: "t"}}, Actions: []Action{"fly_to_moon"},
		}}},
	}
	for _, tc := range cases {
		if _, err := New(tc.entries); err == nil {
			t.Errorf("New accepted %s", tc.name)
		}
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
apps:
  - name: Тест
    scheme: "testapp://"
    base_host: "https://test.go.link/"
    trackers:
      - policy: "Реатрибуция всех"
        window: "Безлимитное"
        template: "abc_def"
    actions: [open_app, custom]
`)
	c, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	e := c.Default()
	if e.Name != "Тест" || e.Scheme != "testapp://" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.RedirectBase != defaultRedirectBase {
		t.Errorf("redirect base default not applied: %q", e.RedirectBase)
	}
	if !e.Allows(ActionCustom) || e.Allows(ActionTariff) {
		t.Errorf("action list wrong: %+v", e.Actions)
	}
}

func TestActionByLabel(t *testing.T) {
	a, ok := ActionByLabel("Свой диплинк")
	if !ok || a != ActionCustom {
		t.Errorf("ActionByLabel = %v %v", a, ok)
	}
	if _, ok := ActionByLabel("что-то"); ok {
		t.Error("unknown label was resolved")
	}
}
