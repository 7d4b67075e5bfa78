package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/repository"
	"github.com/Spok95/qc-tracker/internal/service"
	"github.com/Spok95/qc-tracker/internal/tg"
)

// BotNotifier tells agents with a linked chat about changes to their records.
type BotNotifier struct {
	users *repository.Users
	bot   tg.Bot
	log   *zap.Logger
}

func NewBotNotifier(users *repository.Users, bot tg.Bot, log *zap.Logger) *BotNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &BotNotifier{users: users, bot: bot, log: log}
}

func (n *BotNotifier) RecordSaved(ctx context.Context, rec models.QCRecord, kind string) {
	n.send(ctx, rec, savedText(rec, kind))
}

func (n *BotNotifier) RecordDeleted(ctx context.Context, rec models.QCRecord) {
	n.send(ctx, rec, fmt.Sprintf("🗑 Your QC audit for %s (%s, %s) was removed.", rec.Date, rec.TimeSlot, rec.ProjectName))
}

func (n *BotNotifier) send(ctx context.Context, rec models.QCRecord, text string) {
	if rec.AgentID == "" {
		return
	}
	u, err := n.users.Get(ctx, rec.AgentID)
	if err != nil {
		n.log.Debug("notify: agent lookup failed", zap.String("agent_id", rec.AgentID), zap.Error(err))
		return
	}
	if u.TelegramID == nil {
		return
	}
	if _, err := tg.Send(n.bot, tgbotapi.NewMessage(*u.TelegramID, text)); err != nil {
		n.log.Warn("notify: send failed", zap.String("agent_id", rec.AgentID), zap.Error(err))
	}
}

func savedText(rec models.QCRecord, kind string) string {
	where := fmt.Sprintf("%s (%s, %s)", rec.Date, rec.TimeSlot, rec.ProjectName)
	score := fmt.Sprintf("%.1f%%", rec.AvgScore)
	if rec.NoWork {
		score = "no work"
	}
	switch kind {
	case service.SaveRework:
		orig := rec.OriginalOrAvg()
		return fmt.Sprintf("🔁 Rework audit for %s: %s (original %.1f%%).", where, score, orig)
	case service.SaveEdit:
		return fmt.Sprintf("✏️ Your QC audit for %s was updated: %s.", where, score)
	default:
		return fmt.Sprintf("📝 New QC audit for %s: %s.", where, score)
	}
}
