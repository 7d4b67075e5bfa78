package jobs

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/qc-tracker/internal/analytics"
	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/service"
	"github.com/Spok95/qc-tracker/internal/tg"
)

// Digest sends yesterday's QC averages to every linked chat: the team table
// to admins and managers, the own line to agents.
func Digest(svc *service.Service, bot tg.Bot) Job {
	return func(ctx context.Context) error {
		date := svc.Now().AddDate(0, 0, -1).Format(models.DateLayout)
		scores, err := svc.DayAverages(ctx, date)
		if err != nil {
			return err
		}
		users, err := svc.LinkedUsers(ctx)
		if err != nil {
			return err
		}
		var failed int
		for _, u := range users {
			text := DigestText(u, date, scores)
			if text == "" {
				continue
			}
			if _, err := tg.Send(bot, tgbotapi.NewMessage(*u.TelegramID, text)); err != nil {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("digest: %d of %d messages failed", failed, len(users))
		}
		return nil
	}
}

// DigestText renders the message for u, or "" when u has nothing to read.
func DigestText(u models.User, date string, scores []analytics.AgentScore) string {
	switch u.Role {
	case models.Admin, models.Manager:
		if len(scores) == 0 {
			return fmt.Sprintf("QC digest %s: no audits.", date)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "QC digest %s\n", date)
		for _, s := range scores {
			fmt.Fprintf(&b, "%s: %.1f%% (%d)\n", s.Agent, s.Score, s.Count)
		}
		return strings.TrimRight(b.String(), "\n")
	case models.Agent:
		for _, s := range scores {
			if models.SameName(s.Agent, u.Name) {
				return fmt.Sprintf("Your QC average for %s: %.1f%% over %d audit(s).", date, s.Score, s.Count)
			}
		}
	}
	return ""
}
