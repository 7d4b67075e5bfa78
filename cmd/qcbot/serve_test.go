package main

import (
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/goleak"
)

func TestServe_BadBotTokenStartsNothing(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent(), goleak.IgnoreAnyFunction("os/signal.loop"))

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("HTTP_ADDR", "127.0.0.1:0")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("BOT_TOKEN", "bad-token")

	calls := 0
	orig := newBotAPI
	newBotAPI = func(token string) (*tgbotapi.BotAPI, error) {
		calls++
		return nil, errors.New("Not Found")
	}
	t.Cleanup(func() { newBotAPI = orig })

	_, err := runCLI(t, "serve")
	if err == nil || !strings.Contains(err.Error(), "telegram bot: Not Found") {
		t.Fatalf("serve error = %v", err)
	}
	if calls != 1 {
		t.Fatalf("bot created %d times", calls)
	}
}
