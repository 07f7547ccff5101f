package bot

import (
	"testing"

	"github.com/m3rciful/linkbot/dialog"
	"github.com/m3rciful/linkbot/links"
)

func TestMarkupForPrompt(t *testing.T) {
	res := dialog.Result{
		Kind:      dialog.KindAdvance,
		Options:   []string{"Эконом", "Комфорт"},
		AllowBack: true,
	}
	markup := markupFor(res)
	if markup.ReplyKeyboard == nil {
		t.Fatal("no reply keyboard")
	}
	// One option per row plus the back row.
	if got := len(markup.ReplyKeyboard); got != 3 {
		t.Fatalf("rows = %d, want 3", got)
	}
	last := markup.ReplyKeyboard[2]
	if len(last) != 1 || last[0].Text != dialog.BackLabel {
		t.Fatalf("last row = %+v", last)
	}
}

func TestMarkupForFreeText(t *testing.T) {
	res := dialog.Result{Kind: dialog.KindAdvance, AllowBack: true}
	markup := markupFor(res)
	if len(markup.ReplyKeyboard) != 1 {
		t.Fatalf("rows = %d, want back row only", len(markup.ReplyKeyboard))
	}
}

func TestMarkupForTerminal(t *testing.T) {
	res := dialog.Result{Kind: dialog.KindTerminal, App: "Яндекс Go", Links: &links.Set{}}
	markup := markupFor(res)
	if len(markup.InlineKeyboard) != 1 || len(markup.InlineKeyboard[0]) != 1 {
		t.Fatalf("inline keyboard = %+v", markup.InlineKeyboard)
	}
	btn := markup.InlineKeyboard[0][0]
	if btn.Unique != restartCallbackKey {
		t.Fatalf("restart unique = %q", btn.Unique)
	}
	if btn.Data != "Яндекс Go" {
		t.Fatalf("restart payload = %q", btn.Data)
	}
}

func TestMarkupForNoSessionHint(t *testing.T) {
	res := dialog.Result{Kind: dialog.KindReprompt}
	markup := markupFor(res)
	if !markup.RemoveKeyboard {
		t.Fatal("expected keyboard removal for sessionless reprompt")
	}
}
