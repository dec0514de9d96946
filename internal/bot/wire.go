package bot

import (
	tg "github.com/m3rciful/dealbot/core/telegram"
	"github.com/m3rciful/dealbot/core/telegram/commands"
	"github.com/m3rciful/dealbot/core/telegram/state"
	"github.com/m3rciful/dealbot/core/telegram/ui"
	"github.com/m3rciful/dealbot/internal/storage"
)

// Register wires commands, callbacks, dialogue states, and the idle-text
// fallback into the registry. The command set mirrors what SetupCommands
// publishes to the Telegram menu.
func Register(reg *tg.Registry, h *Handlers) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start(),
		Description: "Overview of your alerts",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     h.Help(),
		Description: "How the bot works",
	})
	reg.RegisterCommand("/settings", commands.Command{
		Handler:     h.Settings(),
		Description: "Choose deal sources",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     h.Cancel(),
		Description: "Abort the current dialogue",
		Hidden:      true,
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     h.Stats(),
		Description: "Store totals",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(actHome, h.Home())
	_ = reg.RegisterCallback(actHelp, h.Help())
	_ = reg.RegisterCallback(actSettings, h.Settings())
	_ = reg.RegisterCallback(actShow, h.Show())
	_ = reg.RegisterCallback(actAdd, h.Add())
	_ = reg.RegisterCallback(actAddConfirm, h.AddConfirm())
	_ = reg.RegisterCallback(actEditQuery, h.EditQuery())
	_ = reg.RegisterCallback(actEditMin, h.EditMinPrice())
	_ = reg.RegisterCallback(actEditMax, h.EditMaxPrice())
	_ = reg.RegisterCallback(actToggleHot, h.ToggleOnlyHot())
	_ = reg.RegisterCallback(actDelete, h.Delete())
	_ = reg.RegisterCallback(actMydealz, h.ToggleSource(storage.UserFieldMydealz))
	_ = reg.RegisterCallback(actMindstar, h.ToggleSource(storage.UserFieldMindstar))
	_ = reg.RegisterCallback(actPreisjaeger, h.ToggleSource(storage.UserFieldPreisjaeger))
	_ = reg.RegisterCallback(actCancel, h.Cancel())

	reg.SetTextFallback(h.UnknownText())
	reg.SetCallbackNotFound(h.UnknownCallback())
}

// Fallbacks exposes the handler set as the shared fallback provider.
func Fallbacks(h *Handlers) ui.FallbackProvider { return h }

// RegisterStates binds each dialogue state to its text handler.
func RegisterStates(h *Handlers) {
	state.RegisterHandler(StateAwaitQuery, h.AwaitQuery())
	state.RegisterHandler(StateAwaitMinPrice, h.AwaitMinPrice())
	state.RegisterHandler(StateAwaitMaxPrice, h.AwaitMaxPrice())
}
