package dialog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/m3rciful/linkbot/catalog"
	"github.com/m3rciful/linkbot/core/logger"
	"github.com/m3rciful/linkbot/links"
)

// Reserved reply tokens. Back is recognised in every state that has a
// predecessor; Skip only where a question is optional.
const (
	BackLabel = "⬅️ Назад"
	SkipLabel = "Пропустить"
)

const restartHint = "🤖 Привет! Чтобы собрать ссылку, отправь команду /start"

func isBack(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return t == strings.ToLower(BackLabel) || t == "назад"
}

func isSkip(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), SkipLabel)
}

// Engine drives the questionnaire over an injected session store. It is
// safe for concurrent use across users; a single user's messages are
// processed sequentially by the transport layer.
type Engine struct {
	store    Store
	catalog  *catalog.Catalog
	composer *links.Composer
	now      func() time.Time
}

// Option tweaks engine construction.
type Option func(*Engine)

// WithClock overrides the date source used by the link composer.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an engine over the store and catalog.
func NewEngine(store Store, cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		catalog:  cat,
		composer: links.NewComposer(cat),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Active reports whether the user has a session in flight.
func (e *Engine) Active(userID int64) bool {
	_, ok := e.store.Get(userID)
	return ok
}

// Abort discards the user's session, if any.
func (e *Engine) Abort(userID int64) {
	e.store.Delete(userID)
}

// Start opens a fresh session. When preselectApp names a known catalog
// entry the first question is skipped and the app is taken as answered.
func (e *Engine) Start(ctx context.Context, userID int64, preselectApp string) Result {
	sess := &Session{State: StateSelectApp}
	if preselectApp != "" {
		if _, ok := e.catalog.Get(preselectApp); ok {
			sess.Answers.App = preselectApp
			sess.History = append(sess.History, StateSelectApp)
			sess.State = StateSelectPolicy
		}
	}
	e.store.Put(userID, sess)
	logger.Debug(ctx, "service.dialog", "fsm.start",
		slog.Int64("user_id", userID),
		slog.String("state", string(sess.State)),
		slog.String("app", sess.Answers.App),
	)
	greeting := "🚗 Привет! Я помогу собрать трекинговую ссылку на приложение."
	return e.promptResult(KindAdvance, sess, "", greeting)
}

// Process consumes one user message for the session's current state and
// returns what to render. Invalid input never mutates the session.
func (e *Engine) Process(ctx context.Context, userID int64, text string) Result {
	sess, ok := e.store.Get(userID)
	if !ok {
		return Result{Kind: KindReprompt, Messages: []string{restartHint}}
	}
	text = strings.TrimSpace(text)
	from := sess.State

	if isBack(text) && len(sess.History) > 0 {
		prev := sess.History[len(sess.History)-1]
		sess.History = sess.History[:len(sess.History)-1]
		resetAnswer(&sess.Answers, sess.State)
		resetAnswer(&sess.Answers, prev)
		sess.State = prev
		e.store.Put(userID, sess)
		logger.Debug(ctx, "service.dialog", "fsm.back",
			slog.Int64("user_id", userID),
			slog.String("prev_state", string(from)),
			slog.String("state", string(prev)),
		)
		return e.promptResult(KindAdvance, sess, "")
	}

	res := e.dispatch(sess, text)

	if res.Kind == KindTerminal {
		e.store.Delete(userID)
	} else {
		e.store.Put(userID, sess)
	}

	logger.Debug(ctx, "service.dialog", "fsm.step",
		slog.Int64("user_id", userID),
		slog.String("prev_state", string(from)),
		slog.String("state", string(res.State)),
		slog.Int("outcome_kind", int(res.Kind)),
	)
	return res
}

func (e *Engine) dispatch(sess *Session, text string) Result {
	switch sess.State {
	case StateSelectApp:
		return e.handleSelectApp(sess, text)
	case StateSelectPolicy:
		return e.handleSelectPolicy(sess, text)
	case StateSelectWindow:
		return e.handleSelectWindow(sess, text)
	case StateCampaignName:
		return e.handleCampaignName(sess, text)
	case StateSelectAction:
		return e.handleSelectAction(sess, text)
	case StateSelectService:
		return e.handleSelectService(sess, text)
	case StateEatsSection:
		return e.handleEatsSection(sess, text)
	case StateEatsShopURL:
		return e.handleEatsShopURL(sess, text)
	case StateEatsPlaceURL:
		return e.handleEatsPlaceURL(sess, text)
	case StatePromoCode:
		return e.handlePromoCode(sess, text)
	case StateSelectTariff:
		return e.handleSelectTariff(sess, text)
	case StateBannerID:
		return e.handleBannerID(sess, text)
	case StateCustomDeeplink:
		return e.handleCustomDeeplink(sess, text)
	case StateRouteStart:
		return e.handleRouteStart(sess, text)
	case StateRouteEnd:
		return e.handleRouteEnd(sess, text)
	case StateDesktopURL:
		return e.handleDesktopURL(sess, text)
	default:
		// Unknown persisted state; restart the questionnaire rather than
		// trap the user.
		sess.State = StateSelectApp
		sess.History = nil
		sess.Answers = Answers{}
		return e.promptResult(KindAdvance, sess, "")
	}
}

func (e *Engine) entry(sess *Session) catalog.Entry {
	return e.catalog.Resolve(sess.Answers.App)
}

// advance pushes the current state onto the history and moves to next.
func (e *Engine) advance(sess *Session, next State, confirms ...string) Result {
	sess.History = append(sess.History, sess.State)
	sess.State = next
	return e.promptResult(KindAdvance, sess, "", confirms...)
}

// reject re-prompts the current state with an error annotation. The session
// stays untouched.
func (e *Engine) reject(sess *Session, reason string) Result {
	return e.promptResult(KindReprompt, sess, reason)
}

func (e *Engine) promptResult(kind Kind, sess *Session, errMsg string, confirms ...string) Result {
	text, options := e.promptFor(sess)
	msgs := make([]string, 0, len(confirms)+2)
	if errMsg != "" {
		msgs = append(msgs, errMsg)
	}
	msgs = append(msgs, confirms...)
	msgs = append(msgs, text)
	return Result{
		Kind:      kind,
		State:     sess.State,
		Messages:  msgs,
		Options:   options,
		AllowBack: len(sess.History) > 0,
	}
}

func (e *Engine) promptFor(sess *Session) (string, []string) {
	switch sess.State {
	case StateSelectApp:
		return "Выбери приложение, на которое ведём ссылку:", e.catalog.Names()
	case StateSelectPolicy:
		return "Выбери политику реатрибуции:", catalog.Policies()
	case StateSelectWindow:
		return "Выбери окно временной атрибуции:", catalog.Windows()
	case StateCampaignName:
		return "Опиши одним словом название кампании, для которой делается ссылка:", nil
	case StateSelectAction:
		entry := e.entry(sess)
		labels := make([]string, len(entry.Actions))
		for i, a := range entry.Actions {
			labels[i] = a.Label()
		}
		return "✅ Отлично! Теперь выбери, что должно происходить при клике на ссылку:", labels
	case StateSelectService:
		return "Выбери сервис:", serviceMenu()
	case StateEatsSection:
		return "Выбери раздел Еды:", eatsMenu()
	case StateEatsShopURL:
		return "🛒 Пришли ссылку на страницу магазина (адрес вида https://eda.yandex.ru/…/shop/…):", nil
	case StateEatsPlaceURL:
		return "🍔 Пришли ссылку на страницу ресторана (в адресе должен быть параметр placeSlug):", nil
	case StatePromoCode:
		return "🎟 Введи промокод одним словом:", nil
	case StateSelectTariff:
		return "🚕 Выбери тариф:", tariffMenu()
	case StateBannerID:
		return "🪧 Введи идентификатор баннера:", nil
	case StateCustomDeeplink:
		return fmt.Sprintf("🔗 Введи свой диплинк в формате %smydeeplink:", e.entry(sess).Scheme), nil
	case StateRouteStart:
		return "🚩 Введи адрес отправления (или нажми «Пропустить», если не нужен):", []string{SkipLabel}
	case StateRouteEnd:
		return "🎯 Введи адрес назначения (или нажми «Пропустить», если не нужен):", []string{SkipLabel}
	case StateDesktopURL:
		return "💻 Введи URL для открытия с десктопа (опционально).\nИли нажми «Пропустить», если не нужен:", []string{SkipLabel}
	}
	return restartHint, nil
}

// resetAnswer clears the fields a state owns, used when navigating back
// over it.
func resetAnswer(a *Answers, st State) {
	switch st {
	case StateSelectApp:
		a.App = ""
	case StateSelectPolicy:
		a.Policy = ""
	case StateSelectWindow:
		a.Window = ""
	case StateCampaignName:
		a.Campaign = ""
	case StateSelectAction:
		a.Action = ""
		a.Deeplink = ""
	case StateSelectService:
		a.Deeplink = ""
	case StateEatsSection:
		a.EatsSection = ""
		a.Deeplink = ""
	case StateEatsShopURL, StateEatsPlaceURL, StatePromoCode, StateBannerID, StateCustomDeeplink:
		a.Deeplink = ""
	case StateSelectTariff:
		a.TariffBase = ""
	case StateRouteStart:
		a.RouteStart = ""
	case StateRouteEnd:
		a.RouteEnd = ""
		a.Deeplink = ""
	case StateDesktopURL:
		a.DesktopURL = ""
	}
}
