package bot

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/linkbot/core/telegram"
	"github.com/m3rciful/linkbot/core/telegram/callbacks"
	"github.com/m3rciful/linkbot/core/telegram/commands"
	"github.com/m3rciful/linkbot/core/telegram/format"
	tghelpers "github.com/m3rciful/linkbot/core/telegram/helpers"
	"github.com/m3rciful/linkbot/core/telegram/keyboard"
	"github.com/m3rciful/linkbot/core/telegram/router"
	"github.com/m3rciful/linkbot/dialog"
)

var _ router.FSM = (*App)(nil)

// restartCallbackKey identifies the inline "build another" button. Its
// payload optionally carries an app name to preselect.
const restartCallbackKey = "link_restart"

func (a *App) registerCommands(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Собрать новую трекинговую ссылку",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.handleCancel,
		Description: "Прервать текущий сценарий",
		Aliases:     []string{"stop"},
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: "Что умеет бот",
	})
	reg.RegisterCommand("/apps", commands.Command{
		Handler:     a.handleApps,
		Description: "Список приложений в каталоге",
		AdminOnly:   true,
		Hidden:      true,
	})
}

func (a *App) registerCallbacks(reg *tg.Registry) {
	_ = reg.RegisterCallback(restartCallbackKey, a.handleRestart)
}

// InProgress reports whether the sender has an active questionnaire.
func (a *App) InProgress(userID int64) bool {
	return a.engine.Active(userID)
}

// ManagerHandler feeds an in-dialog message to the questionnaire engine.
func (a *App) ManagerHandler(c tele.Context) error {
	res := a.engine.Process(tghelpers.BuildContext(c), c.Sender().ID, c.Text())
	return a.render(c, res)
}

func (a *App) handleStart(c tele.Context) error {
	res := a.engine.Start(tghelpers.BuildContext(c), c.Sender().ID, "")
	return a.render(c, res)
}

func (a *App) handleCancel(c tele.Context) error {
	userID := c.Sender().ID
	if !a.engine.Active(userID) {
		return tghelpers.SendText(c, "Сейчас нечего отменять. Отправь /start, чтобы собрать ссылку.")
	}
	a.engine.Abort(userID)
	return tghelpers.SendText(c, "❌ Сценарий прерван. Отправь /start, чтобы начать заново.",
		&tele.SendOptions{ReplyMarkup: keyboard.RemoveKeyboard()})
}

func (a *App) handleHelp(c tele.Context) error {
	text := "Я собираю трекинговые ссылки на мобильные приложения.\n\n" +
		"Отвечаешь на несколько вопросов — получаешь диплинк с метками, " +
		"веб-редирект для тех, у кого приложение не установлено, и ссылку на статистику кампании.\n\n" +
		"/start — собрать ссылку\n" +
		"/cancel — прервать текущий сценарий"
	return tghelpers.SendText(c, text)
}

func (a *App) handleApps(c tele.Context) error {
	var b strings.Builder
	b.WriteString("*Приложения в каталоге:*\n")
	for _, name := range a.catalog.Names() {
		entry, _ := a.catalog.Get(name)
		escaped, err := format.EscapeMarkdown(name, format.MarkdownV1, "")
		if err != nil {
			escaped = name
		}
		fmt.Fprintf(&b, "• %s — `%s` → %s\n", escaped, entry.Scheme, entry.BaseHost)
	}
	return tghelpers.SendMD(c, b.String())
}

func (a *App) handleRestart(c tele.Context) error {
	preselect := callbacks.CallbackPayload(c)
	res := a.engine.Start(tghelpers.BuildContext(c), c.Sender().ID, preselect)
	return a.render(c, res)
}

// render delivers the engine result: every message as its own send, the
// keyboard attached to the last one. Terminal results drop the reply
// keyboard with the first message and finish with an inline restart
// button.
func (a *App) render(c tele.Context, res dialog.Result) error {
	msgs := res.Messages
	if len(msgs) == 0 {
		return nil
	}
	markup := markupFor(res)
	for i, text := range msgs {
		var opts *tele.SendOptions
		switch {
		case i == len(msgs)-1:
			opts = &tele.SendOptions{ReplyMarkup: markup}
		case i == 0 && res.Kind == dialog.KindTerminal:
			opts = &tele.SendOptions{ReplyMarkup: keyboard.RemoveKeyboard()}
		}
		var err error
		if opts != nil {
			err = tghelpers.SendText(c, text, opts)
		} else {
			err = tghelpers.SendText(c, text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func markupFor(res dialog.Result) *tele.ReplyMarkup {
	if res.Kind == dialog.KindTerminal {
		return keyboard.InlineButtons([]keyboard.InlineBtn{{
			Text:   "🔁 Собрать ещё одну",
			Unique: restartCallbackKey,
			Data:   res.App,
		}})
	}
	if len(res.Options) == 0 && !res.AllowBack {
		return keyboard.RemoveKeyboard()
	}
	rows := make([][]string, 0, len(res.Options)+1)
	for _, opt := range res.Options {
		rows = append(rows, []string{opt})
	}
	if res.AllowBack {
		rows = append(rows, []string{dialog.BackLabel})
	}
	return keyboard.ReplyButtons(rows...)
}
