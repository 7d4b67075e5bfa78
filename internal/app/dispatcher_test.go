package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/qc-tracker/internal/catalog"
	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/service"
	"github.com/Spok95/qc-tracker/internal/store"
)

type fakeBot struct {
	mu    sync.Mutex
	texts map[int64][]string
	docs  map[int64][]string
}

func newFakeBot() *fakeBot {
	return &fakeBot{texts: map[int64][]string{}, docs: map[int64][]string{}}
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		b.texts[m.ChatID] = append(b.texts[m.ChatID], m.Text)
	case tgbotapi.DocumentConfig:
		b.docs[m.ChatID] = append(b.docs[m.ChatID], m.Caption)
	}
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) last(chatID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	xs := b.texts[chatID]
	if len(xs) == 0 {
		return ""
	}
	return xs[len(xs)-1]
}

var (
	admin   = &models.User{ID: "u10", Name: "Admin User", Role: models.Admin}
	checker = &models.User{ID: "u3", Name: "Jimil", Role: models.QCAgent}
)

const (
	jashChat    int64 = 55
	managerChat int64 = 77
)

func newService(t *testing.T) *service.Service {
	t.Helper()
	ctx := context.Background()
	svc := service.New(store.NewMemory(), catalog.Default(), nil, service.Config{Location: time.UTC})
	for id, chat := range map[string]int64{"u5": jashChat, "u1": managerChat} {
		c := chat
		if _, err := svc.LinkTelegram(ctx, admin, id, &c); err != nil {
			t.Fatal(err)
		}
	}
	return svc
}

func saveAudit(t *testing.T, svc *service.Service) *models.QCRecord {
	t.Helper()
	rec, err := svc.SaveRecord(context.Background(), checker, models.QCRecord{
		Date:             svc.Today(),
		TimeSlot:         "12 PM",
		AgentID:          "u5",
		ProjectName:      "Altrum",
		TaskName:         "Batch A",
		Notes:            "checked",
		QCCodeRangeStart: "Altrum/01",
		QCCodeRangeEnd:   "Altrum/10",
		SubSamples:       []models.SubSampleRecord{{QCCode: "Altrum/03", Errors: []string{"fmt1"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func message(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}, Text: text}
}

func TestDispatcher_UnlinkedChat(t *testing.T) {
	bot := newFakeBot()
	d := NewDispatcher(newService(t), bot, nil)
	d.HandleMessage(context.Background(), message(1, "/start"))
	if got := bot.last(1); !strings.Contains(got, "not linked") {
		t.Fatalf("reply = %q", got)
	}
}

func TestDispatcher_AgentCommands(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	bot := newFakeBot()
	d := NewDispatcher(svc, bot, nil)

	d.HandleMessage(ctx, message(jashChat, "/myscore"))
	if got := bot.last(jashChat); !strings.Contains(got, "No audits") {
		t.Fatalf("empty score = %q", got)
	}

	saveAudit(t, svc)
	d.HandleMessage(ctx, message(jashChat, btnMyScore))
	if got := bot.last(jashChat); !strings.Contains(got, "95.0% over 1 audit") {
		t.Fatalf("score = %q", got)
	}

	d.HandleMessage(ctx, message(jashChat, "/today"))
	if got := bot.last(jashChat); !strings.Contains(got, "Staff only") {
		t.Fatalf("agent /today = %q", got)
	}
	d.HandleMessage(ctx, message(jashChat, "/export"))
	if got := bot.last(jashChat); !strings.Contains(got, "Only admins and managers") {
		t.Fatalf("agent /export = %q", got)
	}
}

func TestDispatcher_ManagerCommands(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	bot := newFakeBot()
	d := NewDispatcher(svc, bot, nil)

	d.HandleMessage(ctx, message(managerChat, "/today@qc_tracker_bot"))
	if got := bot.last(managerChat); !strings.Contains(got, "no audits yet") {
		t.Fatalf("empty day = %q", got)
	}
	d.HandleMessage(ctx, message(managerChat, "/export"))
	if got := bot.last(managerChat); !strings.Contains(got, "No audits between") {
		t.Fatalf("empty export = %q", got)
	}

	saveAudit(t, svc)
	d.HandleMessage(ctx, message(managerChat, "/today"))
	if got := bot.last(managerChat); !strings.Contains(got, "Jash: 95.0% (1)") {
		t.Fatalf("today = %q", got)
	}
	d.HandleMessage(ctx, message(managerChat, "/export"))
	if docs := bot.docs[managerChat]; len(docs) != 1 || !strings.Contains(docs[0], "1 records") {
		t.Fatalf("docs = %v", docs)
	}
	d.HandleMessage(ctx, message(managerChat, "hello"))
	if got := bot.last(managerChat); !strings.Contains(got, "Unknown command") {
		t.Fatalf("unknown = %q", got)
	}
}

func TestDispatcher_RunStopsOnClose(t *testing.T) {
	bot := newFakeBot()
	d := NewDispatcher(newService(t), bot, nil)
	updates := make(chan tgbotapi.Update, 2)
	updates <- tgbotapi.Update{Message: message(jashChat, "/start")}
	updates <- tgbotapi.Update{}
	close(updates)
	if err := d.Run(context.Background(), updates); err != nil {
		t.Fatal(err)
	}
	if got := bot.last(jashChat); !strings.Contains(got, "Hi Jash (AGENT)") {
		t.Fatalf("start = %q", got)
	}
}

func TestCommand(t *testing.T) {
	cases := map[string]string{
		"/today":       "/today",
		" /today@bot ": "/today",
		"/export last": "/export",
		btnMyScore:     btnMyScore,
	}
	for in, want := range cases {
		if got := command(in); got != want {
			t.Errorf("command(%q) = %q, want %q", in, got, want)
		}
	}
}
