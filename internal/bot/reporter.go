package bot

import (
	"fmt"

	"github.com/m3rciful/dealbot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Reporter forwards unhandled handler failures to the admin chat so they are
// seen even when nobody is tailing the logs. A zero AdminID disables delivery;
// the error is still logged either way.
type Reporter struct {
	AdminID int64
}

// Report logs err with full update context and, when an admin chat is
// configured, sends a plain-text summary there. Delivery failures are logged
// and swallowed: reporting must never take the update down with it.
func (r *Reporter) Report(c tele.Context, err error, stack []byte) {
	ctx := buildCtx(c)

	attrs := []slog.Attr{
		slog.String("err", err.Error()),
	}
	if len(stack) > 0 {
		attrs = append(attrs, slog.String("stack", string(stack)))
	}
	logger.Error(ctx, "tg", "tg.unhandled", attrs...)

	if r == nil || r.AdminID == 0 {
		return
	}
	bot := c.Bot()
	if bot == nil {
		return
	}

	upd := c.Update()
	var userID int64
	if s := c.Sender(); s != nil {
		userID = s.ID
	}
	text := fmt.Sprintf("⚠️ Unhandled error\n\nupdate: %d\nuser: %d\ntext: %s\nerror: %s",
		upd.ID, userID, logger.SanitizeLimit(c.Text(), 256), err)
	if len(stack) > 0 {
		text += "\n\n" + logger.SanitizeLimit(string(stack), 2048)
	}

	if _, sendErr := bot.Send(&tele.User{ID: r.AdminID}, text); sendErr != nil {
		logger.Warn(ctx, "tg", "tg.report_failed",
			slog.String("err", sendErr.Error()),
		)
	}
}
