package bot

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/linkbot/core/telegram/helpers"
	"github.com/m3rciful/linkbot/core/telegram/ui"
)

var _ ui.FallbackProvider = (*App)(nil)

// UnknownText nudges a user without an active dialog towards /start.
func (a *App) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, "🤖 Я собираю трекинговые ссылки. Отправь /start, чтобы начать.")
	}
}

// UnknownDocument explains that the bot works with text only.
func (a *App) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, "Мне нужен текст, файлы я не разбираю. Отправь /start, чтобы собрать ссылку.")
	}
}

// UnknownCallback answers presses of stale inline buttons.
func (a *App) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "Эта кнопка устарела"})
	}
}
