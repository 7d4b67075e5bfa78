package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Spok95/qc-tracker/internal/access"
	"github.com/Spok95/qc-tracker/internal/apperr"
	"github.com/Spok95/qc-tracker/internal/ctxutil"
	"github.com/Spok95/qc-tracker/internal/export"
	"github.com/Spok95/qc-tracker/internal/metrics"
	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/observability"
	"github.com/Spok95/qc-tracker/internal/service"
	"github.com/Spok95/qc-tracker/internal/store"
	"github.com/Spok95/qc-tracker/internal/tg"
)

const (
	myScoreDays = 7
	exportDays  = 30
)

type Dispatcher struct {
	svc   *service.Service
	bot   tg.Bot
	log   *zap.Logger
	chats *store.Keyed[int64]
}

func NewDispatcher(svc *service.Service, bot tg.Bot, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{svc: svc, bot: bot, log: log, chats: store.NewKeyed[int64]()}
}

// Run handles updates until ctx ends or the channel is closed, then waits
// for the handlers in flight.
func (d *Dispatcher) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			if upd.Message == nil {
				continue
			}
			metrics.BotUpdates.Inc()
			msg := upd.Message
			wg.Add(1)
			go func() {
				defer wg.Done()
				d.HandleMessage(ctx, msg)
			}()
		}
	}
}

func (d *Dispatcher) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	defer observability.RecoverAs("bot message")
	chatID := msg.Chat.ID
	// one command per chat at a time
	unlock := d.chats.Lock(chatID)
	defer unlock()

	user, err := d.svc.Users.ByTelegramID(ctx, chatID)
	if err != nil {
		if !apperr.Is(err, apperr.NotFound) {
			d.fail(chatID, err)
			return
		}
		d.reply(chatID, "⚠️ This chat is not linked to a QC Tracker user. Ask an admin to link it.")
		return
	}
	ctx = ctxutil.WithUserID(ctx, user.ID)
	ctx = ctxutil.WithOp(ctx, "bot")

	switch command(msg.Text) {
	case "/start":
		m := tgbotapi.NewMessage(chatID, fmt.Sprintf("Hi %s (%s). Pick an action:", user.Name, user.Role))
		m.ReplyMarkup = roleMenu(user.Role)
		_, _ = tg.Send(d.bot, m)
	case "/myscore", btnMyScore:
		d.myScore(ctx, chatID, user)
	case "/today", btnToday:
		d.today(ctx, chatID, user)
	case "/export", btnExport:
		d.export(ctx, chatID, user)
	default:
		d.reply(chatID, "⚠️ Unknown command. Use /start")
	}
}

// command strips a bot mention (/today@qc_bot) and trailing arguments.
func command(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	if i := strings.IndexByte(text, ' '); i >= 0 {
		text = text[:i]
	}
	if i := strings.IndexByte(text, '@'); i >= 0 {
		text = text[:i]
	}
	return text
}

func (d *Dispatcher) myScore(ctx context.Context, chatID int64, u *models.User) {
	if u.Role != models.Agent {
		d.reply(chatID, "Only agents have a QC score.")
		return
	}
	s, err := d.svc.AgentSummary(ctx, u, myScoreDays)
	if err != nil {
		d.fail(chatID, err)
		return
	}
	if s.Count == 0 {
		d.reply(chatID, fmt.Sprintf("📊 No audits in the last %d days.", myScoreDays))
		return
	}
	d.reply(chatID, fmt.Sprintf("📊 Last %d days: %.1f%% over %d audit(s).", myScoreDays, s.Score, s.Count))
}

func (d *Dispatcher) today(ctx context.Context, chatID int64, u *models.User) {
	if u.Role == models.Agent {
		d.reply(chatID, "⛔ Staff only.")
		return
	}
	date := d.svc.Today()
	scores, err := d.svc.DayAverages(ctx, date)
	if err != nil {
		d.fail(chatID, err)
		return
	}
	if len(scores) == 0 {
		d.reply(chatID, fmt.Sprintf("📅 %s: no audits yet.", date))
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s\n", date)
	for _, s := range scores {
		fmt.Fprintf(&b, "▫️ %s: %.1f%% (%d)\n", s.Agent, s.Score, s.Count)
	}
	d.reply(chatID, strings.TrimRight(b.String(), "\n"))
}

func (d *Dispatcher) export(ctx context.Context, chatID int64, u *models.User) {
	if !access.CanExport(u) {
		d.reply(chatID, "⛔ Only admins and managers can export.")
		return
	}
	now := d.svc.Now()
	q := service.RecordQuery{
		From: now.AddDate(0, 0, -(exportDays - 1)).Format(models.DateLayout),
		To:   now.Format(models.DateLayout),
	}
	recs, err := d.svc.ExportRecords(ctx, u, q)
	if err != nil {
		d.fail(chatID, err)
		return
	}
	if len(recs) == 0 {
		d.reply(chatID, fmt.Sprintf("No audits between %s and %s.", q.From, q.To))
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, recs); err != nil {
		d.fail(chatID, err)
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: export.Filename(now, "xlsx"), Bytes: buf.Bytes()})
	doc.Caption = fmt.Sprintf("QC report %s .. %s (%d records)", q.From, q.To, len(recs))
	_, _ = tg.Send(d.bot, doc)
}

func (d *Dispatcher) reply(chatID int64, text string) {
	_, _ = tg.Send(d.bot, tgbotapi.NewMessage(chatID, text))
}

// fail reports user-facing errors verbatim and hides internal ones.
func (d *Dispatcher) fail(chatID int64, err error) {
	if apperr.KindOf(err) != apperr.Internal {
		d.reply(chatID, "❌ "+err.Error())
		return
	}
	metrics.HandlerErrors.Inc()
	d.log.Error("bot command failed", zap.Int64("chat_id", chatID), zap.Error(err))
	observability.CaptureErr(err)
	d.reply(chatID, "❌ Something went wrong. Try again later.")
}
