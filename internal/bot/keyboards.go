package bot

import (
	"fmt"
	"strconv"

	"github.com/m3rciful/dealbot/core/telegram/callbacks"
	"github.com/m3rciful/dealbot/core/telegram/keyboard"
	"github.com/m3rciful/dealbot/internal/model"

	tele "gopkg.in/telebot.v4"
)

func idPayload(n model.Notification) string {
	return callbacks.Encode(callbacks.Vars{cbVarID: strconv.FormatInt(n.ID, 10)})
}

func flag(on bool, label string) string {
	if on {
		return "✅ " + label
	}
	return "❌ " + label
}

func startKeyboard(list []model.Notification) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(list)+2)
	for _, n := range list {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   fmt.Sprintf("🔍 %s (%s)", n.Query, priceRange(n)),
			Unique: actShow,
			Data:   idPayload(n),
		}})
	}
	rows = append(rows,
		[]keyboard.InlineBtn{{Text: "➕ New alert", Unique: actAdd}},
		[]keyboard.InlineBtn{
			{Text: "⚙️ Settings", Unique: actSettings},
			{Text: "❓ Help", Unique: actHelp},
		},
	)
	return keyboard.InlineButtonsRows(rows...)
}

func overviewKeyboard(n model.Notification) *tele.ReplyMarkup {
	data := idPayload(n)
	hotLabel := "🔥 Hot deals only: off"
	if n.SearchOnlyHot {
		hotLabel = "🔥 Hot deals only: on"
	}
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "✏️ Search phrase", Unique: actEditQuery, Data: data}},
		[]keyboard.InlineBtn{
			{Text: "💰 Min price", Unique: actEditMin, Data: data},
			{Text: "💰 Max price", Unique: actEditMax, Data: data},
		},
		[]keyboard.InlineBtn{{Text: hotLabel, Unique: actToggleHot, Data: data}},
		[]keyboard.InlineBtn{
			{Text: "🗑 Delete", Unique: actDelete, Data: data},
			{Text: "🏠 Home", Unique: actHome},
		},
	)
}

func settingsKeyboard(u model.User) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: flag(u.SearchMydealz, "mydealz"), Unique: actMydealz}},
		[]keyboard.InlineBtn{{Text: flag(u.SearchMindstar, "MindStar"), Unique: actMindstar}},
		[]keyboard.InlineBtn{{Text: flag(u.SearchPreisjaeger, "Preisjäger"), Unique: actPreisjaeger}},
		[]keyboard.InlineBtn{{Text: "🏠 Home", Unique: actHome}},
	)
}

func cancelKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "❌ Cancel", Unique: actCancel}},
	)
}

func addSuggestKeyboard(query string) *tele.ReplyMarkup {
	safe := callbacks.SafeValueFor(actAddConfirm, cbVarQuery, query)
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{
			Text:   "✅ Yes, add it",
			Unique: actAddConfirm,
			Data:   callbacks.Encode(callbacks.Vars{cbVarQuery: safe}),
		}},
		[]keyboard.InlineBtn{{Text: "🏠 Home", Unique: actHome}},
	)
}

func notFoundKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🏠 Home", Unique: actHome}},
	)
}
