package app

import (
	"context"
	"strings"
	"testing"
)

func TestBotNotifier_MessagesLinkedAgent(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	bot := newFakeBot()
	svc.SetNotifier(NewBotNotifier(svc.Users, bot, nil))

	rec := saveAudit(t, svc)
	if got := bot.last(jashChat); !strings.Contains(got, "New QC audit") || !strings.Contains(got, "95.0%") {
		t.Fatalf("saved = %q", got)
	}

	if err := svc.DeleteRecord(ctx, checker, rec.ID); err != nil {
		t.Fatal(err)
	}
	if got := bot.last(jashChat); !strings.Contains(got, "was removed") {
		t.Fatalf("deleted = %q", got)
	}
	if len(bot.texts[managerChat]) != 0 {
		t.Fatalf("manager should not be notified: %v", bot.texts[managerChat])
	}
}
