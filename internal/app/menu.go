package app

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/qc-tracker/internal/models"
)

const (
	btnMyScore = "📊 My score"
	btnToday   = "📅 Today"
	btnExport  = "📥 Export"
)

// roleMenu is the reply keyboard shown after /start.
func roleMenu(role models.Role) tgbotapi.ReplyKeyboardMarkup {
	switch role {
	case models.Admin, models.Manager:
		return tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnToday)),
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnExport)),
		)
	case models.QCAgent:
		return tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnToday)),
		)
	default:
		return tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnMyScore)),
		)
	}
}
