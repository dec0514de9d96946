package bot

import (
	"fmt"
	"strings"

	"github.com/m3rciful/dealbot/core/telegram/format"
	"github.com/m3rciful/dealbot/internal/model"
)

// Message texts. Rendered with Markdown (V1), so free text that ends up in a
// message body goes through md first.

func md(text string) string {
	out, err := format.EscapeMarkdown(text, format.MarkdownV1, "")
	if err != nil {
		return text
	}
	return out
}

func startText(u model.User, count int) string {
	name := u.FirstName
	if name == "" {
		name = u.Username
	}
	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + md(name)
	}
	if count == 0 {
		return greeting + "! 👋\n\nYou have no keyword alerts yet. Add one and I will message you as soon as a matching deal shows up."
	}
	return fmt.Sprintf("%s! 👋\n\nYour keyword alerts (%d). Tap one to view or change it.", greeting, count)
}

func helpText() string {
	return strings.Join([]string{
		"*How this works*",
		"",
		"I watch deal feeds and message you when an offer matches one of your keyword alerts.",
		"",
		"*Alerts*",
		"An alert is a search phrase plus an optional price range. Use the buttons under an alert to change its phrase, prices, or hot-deals filter.",
		"",
		"*Prices*",
		"When asked for a price, send a number like `20` or `12,50`. Send /remove to drop the limit again.",
		"",
		"*Commands*",
		"/start - overview of your alerts",
		"/settings - choose deal sources",
		"/cancel - abort the current dialogue",
	}, "\n")
}

func settingsText() string {
	return "*Settings*\n\nChoose which deal sources your alerts search. A crossed-out source is skipped for all alerts."
}

func queryPromptAdd() string {
	return "What should I look for? Send me the search phrase for the new alert."
}

func queryPromptEdit(n model.Notification) string {
	return fmt.Sprintf("Current search phrase: *%s*\n\nSend me the new one.", md(n.Query))
}

func pricePrompt(bound string, current int) string {
	cur := "not set"
	if current > 0 {
		cur = fmt.Sprintf("%d €", current)
	}
	return fmt.Sprintf("Send me the new %s price (currently %s).\n\nSend /remove to drop the limit.", bound, cur)
}

func invalidPriceText() string {
	return "That does not look like a price. Send a number like `20` or `12,50`, or /remove to drop the limit."
}

func invalidQueryText() string {
	return "The search phrase cannot be empty. Send me some text."
}

func notFoundText() string {
	return "This alert no longer exists."
}

func priceRange(n model.Notification) string {
	switch {
	case n.MinPrice > 0 && n.MaxPrice > 0:
		return fmt.Sprintf("%d € - %d €", n.MinPrice, n.MaxPrice)
	case n.MinPrice > 0:
		return fmt.Sprintf("from %d €", n.MinPrice)
	case n.MaxPrice > 0:
		return fmt.Sprintf("up to %d €", n.MaxPrice)
	default:
		return "any price"
	}
}

func overviewText(n model.Notification) string {
	hot := "off"
	if n.SearchOnlyHot {
		hot = "on"
	}
	return fmt.Sprintf("🔍 *%s*\n\nPrice range: %s\nHot deals only: %s", md(n.Query), priceRange(n), hot)
}

func savedText(n model.Notification) string {
	return fmt.Sprintf("Saved. ✅\n\n%s", overviewText(n))
}

func deletedText(n model.Notification) string {
	return fmt.Sprintf("Alert *%s* deleted.", md(n.Query))
}

func addSuggestText(query string) string {
	return fmt.Sprintf("I did not get that. Do you want a new alert for *%s*?", md(query))
}
