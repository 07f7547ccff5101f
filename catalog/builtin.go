package catalog

// Builtin returns the compiled-in catalog used when neither the database nor
// a YAML file provides one. The first entry is the flagship app and the
// fallback for unknown selections.
func Builtin() *Catalog {
	c, err := New(builtinEntries())
	if err != nil {
		// The builtin table is covered by tests; reaching this means the
		// binary itself is broken.
		panic(err)
	}
	return c
}

func builtinEntries() []Entry {
	return []Entry{
		{
			Name:           "Яндекс Go",
			Scheme:         "yandextaxi://",
			BaseHost:       "https://yandex.go.link/",
			RedirectBase:   "https://app.adjust.com/",
			AnalyticsToken: "4vkqpmcz3gqo",
			Trackers: []Tracker{
				{Policy: PolicyAll, Window: WindowUnlimited, Template: "1md8ai4n_1mztz3nz"},
				{Policy: PolicyAll, Window: Window30Days, Template: "1md8ai4n_1n2c4dwb"},
				{Policy: PolicyDormant, Window: WindowUnlimited, Template: "1mhvvs05_1mztz3nz"},
				{Policy: PolicyDormant, Window: Window30Days, Template: "1mhvvs05_1n2c4dwb"},
			},
			Actions: []Action{
				ActionOpenApp, ActionService, ActionPromoCode,
				ActionTariff, ActionBanner, ActionCustom,
			},
		},
		{
			Name:           "Яндекс Еда",
			Scheme:         "yandexeats://",
			BaseHost:       "https://eats.go.link/",
			RedirectBase:   "https://app.adjust.com/",
			AnalyticsToken: "7hwm2qrf9ac1",
			Trackers: []Tracker{
				{Policy: PolicyAll, Window: WindowUnlimited, Template: "1nf3kz7c_1mztz3nz"},
				{Policy: PolicyDormant, Window: WindowUnlimited, Template: "1ng8vb2d_1mztz3nz"},
			},
			Actions: []Action{
				ActionOpenApp, ActionEatsSection, ActionPromoCode, ActionCustom,
			},
		},
		{
			Name:           "Яндекс Лавка",
			Scheme:         "yandexlavka://",
			BaseHost:       "https://lavka.go.link/",
			RedirectBase:   "https://app.adjust.com/",
			AnalyticsToken: "9zpd4kty2wb8",
			Trackers: []Tracker{
				{Policy: PolicyAll, Window: WindowUnlimited, Template: "1np2xw4m_1mztz3nz"},
			},
			Actions: []Action{ActionOpenApp, ActionCustom},
		},
	}
}
