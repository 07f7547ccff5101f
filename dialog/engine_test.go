package dialog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/m3rciful/linkbot/catalog"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	clock := func() time.Time {
		return time.Date(2025, time.August, 30, 12, 0, 0, 0, time.UTC)
	}
	return NewEngine(NewMemoryStore(), catalog.Builtin(), WithClock(clock))
}

func walk(t *testing.T, e *Engine, userID int64, inputs ...string) Result {
	t.Helper()
	var res Result
	for _, in := range inputs {
		res = e.Process(context.Background(), userID, in)
	}
	return res
}

func TestEngineOpenAppWalk(t *testing.T) {
	e := testEngine(t)
	res := e.Start(context.Background(), 1, "")
	if res.State != StateSelectApp {
		t.Fatalf("start state = %q, want %q", res.State, StateSelectApp)
	}
	if res.AllowBack {
		t.Fatal("back offered on the first question")
	}

	res = walk(t, e, 1,
		"Яндекс Go",
		"Только спящие 30+ дней",
		"Безлимитное",
		"Лето",
		"Просто открыть приложение",
		"Пропустить",
	)
	if res.Kind != KindTerminal {
		t.Fatalf("kind = %v, want terminal; messages: %v", res.Kind, res.Messages)
	}
	if res.Links == nil {
		t.Fatal("terminal result has no links")
	}
	want := "https://yandex.go.link/?adj_t=1mhvvs05_1mztz3nz&adj_campaign=20250830_bot&adj_adgroup=leto"
	if res.Links.Deeplink != want {
		t.Fatalf("deeplink = %q, want %q", res.Links.Deeplink, want)
	}
	if res.App != "Яндекс Go" {
		t.Fatalf("terminal app = %q", res.App)
	}
	if e.Active(1) {
		t.Fatal("session survived terminal step")
	}
}

func TestEngineStateProgression(t *testing.T) {
	e := testEngine(t)
	e.Start(context.Background(), 7, "")

	steps := []struct {
		input string
		state State
	}{
		{"Яндекс Go", StateSelectPolicy},
		{"Реатрибуция всех", StateSelectWindow},
		{"30 дней", StateCampaignName},
		{"Осень", StateSelectAction},
		{"Тариф", StateSelectTariff},
		{"Комфорт+", StateRouteStart},
		{"Пропустить", StateRouteEnd},
		{"Льва Толстого 16", StateDesktopURL},
	}
	for _, step := range steps {
		res := e.Process(context.Background(), 7, step.input)
		if res.Kind != KindAdvance {
			t.Fatalf("input %q: kind = %v, messages: %v", step.input, res.Kind, res.Messages)
		}
		if res.State != step.state {
			t.Fatalf("input %q: state = %q, want %q", step.input, res.State, step.state)
		}
	}

	sess, _ := e.store.Get(7)
	wantDL := "yandextaxi://route?tariffClass=comfortplus&end=" + "%D0%9B%D1%8C%D0%B2%D0%B0+%D0%A2%D0%BE%D0%BB%D1%81%D1%82%D0%BE%D0%B3%D0%BE+16"
	if sess.Answers.Deeplink != wantDL {
		t.Fatalf("route deeplink = %q, want %q", sess.Answers.Deeplink, wantDL)
	}
}

func TestEngineBackResetsAnswers(t *testing.T) {
	e := testEngine(t)
	e.Start(context.Background(), 2, "")
	walk(t, e, 2,
		"Яндекс Go",
		"Реатрибуция всех",
		"Безлимитное",
		"Зима",
		"Баннер",
		"promo2025",
	)

	res := e.Process(context.Background(), 2, BackLabel)
	if res.Kind != KindAdvance {
		t.Fatalf("back kind = %v", res.Kind)
	}
	if res.State != StateBannerID {
		t.Fatalf("back state = %q, want %q", res.State, StateBannerID)
	}
	sess, ok := e.store.Get(2)
	if !ok {
		t.Fatal("session gone after back")
	}
	if sess.Answers.Deeplink != "" {
		t.Fatalf("deeplink not reset on back: %q", sess.Answers.Deeplink)
	}
	if sess.Answers.Campaign != "Зима" {
		t.Fatalf("earlier answer lost on back: %q", sess.Answers.Campaign)
	}

	// Re-answer and finish as usual.
	res = walk(t, e, 2, "winter1", "Пропустить")
	if res.Kind != KindTerminal {
		t.Fatalf("kind after redo = %v, messages: %v", res.Kind, res.Messages)
	}
	if !strings.Contains(res.Links.Deeplink, "banner%3Fid%3Dwinter1") &&
		!strings.Contains(res.Links.Deeplink, "banner?id=winter1") {
		t.Fatalf("redone banner id missing from deeplink: %q", res.Links.Deeplink)
	}
}

func TestEngineBackIgnoredAtFirstQuestion(t *testing.T) {
	e := testEngine(t)
	e.Start(context.Background(), 3, "")
	res := e.Process(context.Background(), 3, BackLabel)
	if res.Kind != KindReprompt {
		t.Fatalf("kind = %v, want reprompt", res.Kind)
	}
	if res.State != StateSelectApp {
		t.Fatalf("state = %q, want %q", res.State, StateSelectApp)
	}
}

func TestEngineRejectsDisallowedAction(t *testing.T) {
	e := testEngine(t)
	e.Start(context.Background(), 4, "")
	res := walk(t, e, 4,
		"Яндекс Лавка",
		"Реатрибуция всех",
		"Безлимитное",
		"Тест",
		"Тариф",
	)
	if res.Kind != KindReprompt {
		t.Fatalf("kind = %v, want reprompt", res.Kind)
	}
	if res.State != StateSelectAction {
		t.Fatalf("state = %q, want %q", res.State, StateSelectAction)
	}
	for _, opt := range res.Options {
		if opt == catalog.ActionTariff.Label() {
			t.Fatalf("disallowed action offered in options: %v", res.Options)
		}
	}
}

func TestEngineCampaignValidation(t *testing.T) {
	e := testEngine(t)
	e.Start(context.Background(), 5, "")
	res := walk(t, e, 5, "Яндекс Go", "Реатрибуция всех", "Безлимитное", "два слова")
	if res.Kind != KindReprompt {
		t.Fatalf("kind = %v, want reprompt", res.Kind)
	}
	if res.State != StateCampaignName {
		t.Fatalf("state = %q", res.State)
	}
	sess, _ := e.store.Get(5)
	if sess.Answers.Campaign != "" {
		t.Fatalf("invalid campaign stored: %q", sess.Answers.Campaign)
	}
}

func TestEngineCustomDeeplinkEncodesHref(t *testing.T) {
	e := testEngine(t)
	e.Start(context.Background(), 6, "")
	res := walk(t, e, 6,
		"Яндекс Go",
		"Реатрибуция всех",
		"Безлимитное",
		"Кастом",
		"Свой диплинк",
		"yandextaxi://external?service=eats&href=hello world",
		"Пропустить",
	)
	if res.Kind != KindTerminal {
		t.Fatalf("kind = %v, messages: %v", res.Kind, res.Messages)
	}
	if !strings.Contains(res.Links.Deeplink, "href=hello%20world") {
		t.Fatalf("href not percent-encoded: %q", res.Links.Deeplink)
	}
}

func TestEngineCustomDeeplinkSchemeRequired(t *testing.T) {
	e := testEngine(t)
	e.Start(context.Background(), 8, "")
	res := walk(t, e, 8,
		"Яндекс Go",
		"Реатрибуция всех",
		"Безлимитное",
		"Кастом",
		"Свой диплинк",
		"https://example.com/page",
	)
	if res.Kind != KindReprompt {
		t.Fatalf("kind = %v, want reprompt", res.Kind)
	}
	if res.State != StateCustomDeeplink {
		t.Fatalf("state = %q", res.State)
	}
}

func TestEngineDesktopURLValidation(t *testing.T) {
	e := testEngine(t)
	e.Start(context.Background(), 9, "")
	res := walk(t, e, 9,
		"Яндекс Go",
		"Реатрибуция всех",
		"Безлимитное",
		"Весна",
		"Просто открыть приложение",
		"not-a-url",
	)
	if res.Kind != KindReprompt {
		t.Fatalf("kind = %v, want reprompt", res.Kind)
	}

	res = e.Process(context.Background(), 9, "https://taxi.yandex.ru/")
	if res.Kind != KindTerminal {
		t.Fatalf("kind = %v, messages: %v", res.Kind, res.Messages)
	}
	if !strings.Contains(res.Links.Deeplink, "adj_fallback=") {
		t.Fatalf("desktop fallback missing: %q", res.Links.Deeplink)
	}
	if !strings.Contains(res.Links.Deeplink, "adj_redirect_macos=") {
		t.Fatalf("macos redirect missing: %q", res.Links.Deeplink)
	}
}

func TestEngineEatsViaServiceSubmenu(t *testing.T) {
	e := testEngine(t)
	e.Start(context.Background(), 10, "")
	res := walk(t, e, 10,
		"Яндекс Go",
		"Реатрибуция всех",
		"Безлимитное",
		"Еда",
		"Диплинк сервиса",
		"Еда",
		"Ресторан по ссылке",
		"https://eda.yandex.ru/moscow?placeSlug=teremok_arbat",
		"Пропустить",
	)
	if res.Kind != KindTerminal {
		t.Fatalf("kind = %v, messages: %v", res.Kind, res.Messages)
	}
	// Reached through the flagship, so the link keeps the flagship scheme
	// form and carries the restaurant path in href.
	if !strings.Contains(res.Links.Deeplink, "external?service=eats") {
		t.Fatalf("service form missing: %q", res.Links.Deeplink)
	}
	if !strings.Contains(res.Links.Deeplink, "href=%2Frestaurant%2Fteremok_arbat") {
		t.Fatalf("restaurant href missing: %q", res.Links.Deeplink)
	}
}

func TestEngineEatsDirectApp(t *testing.T) {
	e := testEngine(t)
	e.Start(context.Background(), 11, "")
	res := walk(t, e, 11,
		"Яндекс Еда",
		"Реатрибуция всех",
		"Безлимитное",
		"Обед",
		"Раздел Еды",
		"Магазин по ссылке",
		"https://eda.yandex.ru/moscow/shop/vkusvill",
		"Пропустить",
	)
	if res.Kind != KindTerminal {
		t.Fatalf("kind = %v, messages: %v", res.Kind, res.Messages)
	}
	if !strings.Contains(res.Links.Deeplink, "shop?path=%2Fmoscow%2Fshop%2Fvkusvill") {
		t.Fatalf("shop path missing: %q", res.Links.Deeplink)
	}
}

func TestEngineEatsShopURLRejected(t *testing.T) {
	e := testEngine(t)
	e.Start(context.Background(), 12, "")
	res := walk(t, e, 12,
		"Яндекс Еда",
		"Реатрибуция всех",
		"Безлимитное",
		"Обед",
		"Раздел Еды",
		"Магазин по ссылке",
		"https://example.com/shop/vkusvill",
	)
	if res.Kind != KindReprompt {
		t.Fatalf("kind = %v, want reprompt", res.Kind)
	}
	if res.State != StateEatsShopURL {
		t.Fatalf("state = %q", res.State)
	}
}

func TestEnginePreselectApp(t *testing.T) {
	e := testEngine(t)
	res := e.Start(context.Background(), 13, "Яндекс Еда")
	if res.State != StateSelectPolicy {
		t.Fatalf("state = %q, want %q", res.State, StateSelectPolicy)
	}
	if !res.AllowBack {
		t.Fatal("back not offered after preselect")
	}

	res = e.Process(context.Background(), 13, BackLabel)
	if res.State != StateSelectApp {
		t.Fatalf("back state = %q, want %q", res.State, StateSelectApp)
	}
	sess, _ := e.store.Get(13)
	if sess.Answers.App != "" {
		t.Fatalf("preselected app not reset on back: %q", sess.Answers.App)
	}
}

func TestEnginePreselectUnknownApp(t *testing.T) {
	e := testEngine(t)
	res := e.Start(context.Background(), 14, "Неизвестное приложение")
	if res.State != StateSelectApp {
		t.Fatalf("state = %q, want %q", res.State, StateSelectApp)
	}
}

func TestEngineNoSession(t *testing.T) {
	e := testEngine(t)
	res := e.Process(context.Background(), 99, "привет")
	if res.Kind != KindReprompt {
		t.Fatalf("kind = %v, want reprompt", res.Kind)
	}
	if len(res.Messages) == 0 || !strings.Contains(res.Messages[0], "/start") {
		t.Fatalf("no restart hint: %v", res.Messages)
	}
}

func TestEngineSessionIsolation(t *testing.T) {
	e := testEngine(t)
	e.Start(context.Background(), 20, "")
	e.Start(context.Background(), 21, "")

	e.Process(context.Background(), 20, "Яндекс Go")
	res := e.Process(context.Background(), 21, "Яндекс Лавка")
	if res.State != StateSelectPolicy {
		t.Fatalf("state = %q", res.State)
	}

	a, _ := e.store.Get(20)
	b, _ := e.store.Get(21)
	if a.Answers.App == b.Answers.App {
		t.Fatalf("sessions share answers: %q", a.Answers.App)
	}
}

func TestEngineAbort(t *testing.T) {
	e := testEngine(t)
	e.Start(context.Background(), 30, "")
	if !e.Active(30) {
		t.Fatal("session not active after start")
	}
	e.Abort(30)
	if e.Active(30) {
		t.Fatal("session active after abort")
	}
}

func TestEngineTerminalMentionsAllLinks(t *testing.T) {
	e := testEngine(t)
	e.Start(context.Background(), 40, "")
	res := walk(t, e, 40,
		"Яндекс Go",
		"Реатрибуция всех",
		"Безлимитное",
		"Финал",
		"Просто открыть приложение",
		"Пропустить",
	)
	joined := strings.Join(res.Messages, "\n")
	for _, part := range []string{res.Links.Deeplink, res.Links.Redirect, res.Links.Stats, "/start"} {
		if !strings.Contains(joined, part) {
			t.Fatalf("terminal messages lack %q:\n%s", part, joined)
		}
	}
}
