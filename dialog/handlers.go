package dialog

import (
	"fmt"
	"strings"

	"github.com/m3rciful/linkbot/catalog"
	"github.com/m3rciful/linkbot/links"
	"github.com/m3rciful/linkbot/urlutil"
)

func singleWord(text string) bool {
	return text != "" && len(strings.Fields(text)) == 1
}

func (e *Engine) handleSelectApp(sess *Session, text string) Result {
	if _, ok := e.catalog.Get(text); !ok {
		return e.reject(sess, "❌ Пожалуйста, выбери приложение из списка.")
	}
	sess.Answers.App = text
	return e.advance(sess, StateSelectPolicy)
}

func (e *Engine) handleSelectPolicy(sess *Session, text string) Result {
	if !contains(catalog.Policies(), text) {
		return e.reject(sess, "❌ Пожалуйста, выбери один из предложенных вариантов.")
	}
	sess.Answers.Policy = text
	return e.advance(sess, StateSelectWindow)
}

func (e *Engine) handleSelectWindow(sess *Session, text string) Result {
	if !contains(catalog.Windows(), text) {
		return e.reject(sess, "❌ Пожалуйста, выбери один из предложенных вариантов.")
	}
	sess.Answers.Window = text
	return e.advance(sess, StateCampaignName)
}

func (e *Engine) handleCampaignName(sess *Session, text string) Result {
	if !singleWord(text) {
		return e.reject(sess, "❌ Название кампании должно быть одним словом без пробелов. Попробуй ещё раз:")
	}
	sess.Answers.Campaign = text
	return e.advance(sess, StateSelectAction)
}

func (e *Engine) handleSelectAction(sess *Session, text string) Result {
	entry := e.entry(sess)
	act, ok := catalog.ActionByLabel(text)
	if !ok {
		return e.reject(sess, "❌ Пожалуйста, выбери один из предложенных вариантов.")
	}
	if !entry.Allows(act) {
		return e.reject(sess, fmt.Sprintf("❌ Для «%s» это действие недоступно. Выбери вариант из списка.", entry.Name))
	}
	sess.Answers.Action = act
	switch act {
	case catalog.ActionOpenApp:
		sess.Answers.Deeplink = entry.Scheme
		return e.advance(sess, StateDesktopURL)
	case catalog.ActionService:
		return e.advance(sess, StateSelectService)
	case catalog.ActionPromoCode:
		return e.advance(sess, StatePromoCode)
	case catalog.ActionTariff:
		return e.advance(sess, StateSelectTariff)
	case catalog.ActionBanner:
		return e.advance(sess, StateBannerID)
	case catalog.ActionCustom:
		return e.advance(sess, StateCustomDeeplink)
	case catalog.ActionEatsSection:
		return e.advance(sess, StateEatsSection)
	}
	return e.reject(sess, "❌ Пожалуйста, выбери один из предложенных вариантов.")
}

func (e *Engine) handleSelectService(sess *Session, text string) Result {
	if text == serviceEats {
		return e.advance(sess, StateEatsSection)
	}
	code, ok := serviceCodes[text]
	if !ok {
		return e.reject(sess, "❌ Пожалуйста, выбери один из предложенных сервисов.")
	}
	sess.Answers.Deeplink = serviceDeeplink(e.entry(sess), code)
	return e.advance(sess, StateDesktopURL)
}

func (e *Engine) handleEatsSection(sess *Session, text string) Result {
	switch text {
	case eatsSectionHome:
		sess.Answers.Deeplink = eatsHomeDeeplink(e.entry(sess), e.viaService(sess))
		return e.advance(sess, StateDesktopURL)
	case eatsSectionShop:
		sess.Answers.EatsSection = text
		return e.advance(sess, StateEatsShopURL)
	case eatsSectionPlace:
		sess.Answers.EatsSection = text
		return e.advance(sess, StateEatsPlaceURL)
	}
	return e.reject(sess, "❌ Пожалуйста, выбери один из предложенных разделов.")
}

func (e *Engine) handleEatsShopURL(sess *Session, text string) Result {
	dl, err := eatsShopDeeplink(e.entry(sess), e.viaService(sess), text)
	if err != nil {
		return e.reject(sess, "❌ Нужна ссылка на страницу магазина Еды (адрес вида https://eda.yandex.ru/…/shop/…). Попробуй ещё раз:")
	}
	sess.Answers.Deeplink = dl
	return e.advance(sess, StateDesktopURL)
}

func (e *Engine) handleEatsPlaceURL(sess *Session, text string) Result {
	dl, err := eatsPlaceDeeplink(e.entry(sess), e.viaService(sess), text)
	if err != nil {
		return e.reject(sess, "❌ Нужна ссылка на страницу ресторана с параметром placeSlug в адресе. Попробуй ещё раз:")
	}
	sess.Answers.Deeplink = dl
	return e.advance(sess, StateDesktopURL)
}

func (e *Engine) handlePromoCode(sess *Session, text string) Result {
	if !singleWord(text) {
		return e.reject(sess, "❌ Промокод должен быть одним словом без пробелов. Попробуй ещё раз:")
	}
	sess.Answers.Deeplink = promoDeeplink(e.entry(sess), text)
	return e.advance(sess, StateDesktopURL)
}

func (e *Engine) handleBannerID(sess *Session, text string) Result {
	if !singleWord(text) {
		return e.reject(sess, "❌ Идентификатор баннера должен быть одним словом без пробелов. Попробуй ещё раз:")
	}
	sess.Answers.Deeplink = bannerDeeplink(e.entry(sess), text)
	return e.advance(sess, StateDesktopURL)
}

func (e *Engine) handleSelectTariff(sess *Session, text string) Result {
	base, ok := tariffBase(e.entry(sess), text)
	if !ok {
		return e.reject(sess, "❌ Пожалуйста, выбери один из предложенных тарифов.")
	}
	sess.Answers.TariffBase = base
	return e.advance(sess, StateRouteStart)
}

func (e *Engine) handleRouteStart(sess *Session, text string) Result {
	if !isSkip(text) {
		sess.Answers.RouteStart = text
	}
	return e.advance(sess, StateRouteEnd)
}

func (e *Engine) handleRouteEnd(sess *Session, text string) Result {
	if !isSkip(text) {
		sess.Answers.RouteEnd = text
	}
	sess.Answers.Deeplink = routeDeeplink(sess.Answers.TariffBase, sess.Answers.RouteStart, sess.Answers.RouteEnd)
	return e.advance(sess, StateDesktopURL)
}

func (e *Engine) handleCustomDeeplink(sess *Session, text string) Result {
	entry := e.entry(sess)
	if !strings.HasPrefix(text, entry.Scheme) {
		return e.reject(sess, fmt.Sprintf("❌ Диплинк должен начинаться с %s. Попробуй ещё раз:", entry.Scheme))
	}
	dl, err := ensureEncodedHref(text, entry.Scheme)
	if err != nil {
		return e.reject(sess, "❌ Не получилось разобрать диплинк. Проверь формат и попробуй ещё раз:")
	}
	sess.Answers.Deeplink = dl
	return e.advance(sess, StateDesktopURL)
}

func (e *Engine) handleDesktopURL(sess *Session, text string) Result {
	if !isSkip(text) {
		if !urlutil.IsAbsolute(text) {
			return e.reject(sess, "❌ Введи корректный URL (он должен начинаться с http:// или https://). Попробуй ещё раз:")
		}
		sess.Answers.DesktopURL = text
	}
	set := e.composer.Compose(links.Request{
		App:        sess.Answers.App,
		Policy:     sess.Answers.Policy,
		Window:     sess.Answers.Window,
		Campaign:   sess.Answers.Campaign,
		Deeplink:   sess.Answers.Deeplink,
		DesktopURL: sess.Answers.DesktopURL,
	}, e.now())
	return Result{
		Kind:     KindTerminal,
		State:    sess.State,
		Messages: terminalMessages(set),
		App:      sess.Answers.App,
		Links:    &set,
	}
}

// viaService reports whether Eats questions were reached through the
// flagship's service submenu rather than the Eats app itself.
func (e *Engine) viaService(sess *Session) bool {
	return sess.Answers.Action == catalog.ActionService
}

func terminalMessages(set links.Set) []string {
	return []string{
		"🎉 Готово! Твоя ссылка:\n\n" + set.Deeplink,
		"🌐 Веб-редирект, если приложение не установлено:\n" + set.Redirect +
			"\n\n📊 Статистика по кампании:\n" + set.Stats +
			"\n\nЧтобы собрать новую ссылку, отправь /start",
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
