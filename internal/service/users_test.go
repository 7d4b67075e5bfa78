package service

import (
	"context"
	"testing"
	"time"

	"github.com/Spok95/qc-tracker/internal/apperr"
	"github.com/Spok95/qc-tracker/internal/models"
)

func TestUsers_AdminOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.CreateUser(ctx, manager, "Ravi", models.Agent); !apperr.Is(err, apperr.Forbidden) {
		t.Fatalf("manager create: %v", err)
	}
	if err := f.DeleteUser(ctx, manager, "u5"); !apperr.Is(err, apperr.Forbidden) {
		t.Fatalf("manager delete: %v", err)
	}
}

func TestUsers_CreateUniqueName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, err := f.CreateUser(ctx, admin, " Ravi ", models.Agent)
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "Ravi" || u.Role != models.Agent {
		t.Fatalf("got %+v", u)
	}
	if _, err := f.CreateUser(ctx, admin, "ravi", models.QCAgent); !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("duplicate name: %v", err)
	}
	if _, err := f.CreateUser(ctx, admin, "X", "OWNER"); !apperr.Is(err, apperr.Invalid) {
		t.Fatalf("bad role: %v", err)
	}
	users, _ := f.ListUsers(ctx)
	if len(users) != 11 {
		t.Fatalf("want seed + 1 users, got %d", len(users))
	}
}

func TestUsers_LastAdminProtected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	other := &models.User{ID: "u1", Name: "Mohsin", Role: models.Admin}

	if _, err := f.SetRole(ctx, admin, "u10", models.Manager); !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("demote last admin: %v", err)
	}
	if err := f.DeleteUser(ctx, other, "u10"); !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("delete last admin: %v", err)
	}
	if err := f.DeleteUser(ctx, admin, "u10"); !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("self delete: %v", err)
	}

	if _, err := f.SetRole(ctx, admin, "u1", models.Admin); err != nil {
		t.Fatal(err)
	}
	if _, err := f.SetRole(ctx, admin, "u10", models.Manager); err != nil {
		t.Fatalf("demote with a second admin present: %v", err)
	}
}

func TestUsers_DeleteKeepsRecords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rec, err := f.SaveRecord(ctx, checker, submission())
	if err != nil {
		t.Fatal(err)
	}
	if err := f.DeleteUser(ctx, admin, "u5"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.GetRecord(ctx, manager, rec.ID); err != nil {
		t.Fatalf("record lost with its agent: %v", err)
	}
}

func TestUsers_LinkTelegram(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	chat := int64(777)
	u, err := f.LinkTelegram(ctx, admin, "u5", &chat)
	if err != nil || u.TelegramID == nil || *u.TelegramID != 777 {
		t.Fatalf("link: %+v %v", u, err)
	}
	if _, err := f.LinkTelegram(ctx, admin, "u8", &chat); !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("chat reuse: %v", err)
	}
	linked, _ := f.LinkedUsers(ctx)
	if len(linked) != 1 || linked[0].ID != "u5" {
		t.Fatalf("linked: %+v", linked)
	}
	if _, err := f.LinkTelegram(ctx, admin, "u5", nil); err != nil {
		t.Fatal(err)
	}
	if linked, _ := f.LinkedUsers(ctx); len(linked) != 0 {
		t.Fatalf("unlink: %+v", linked)
	}
}

func TestSessions_LoginLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, _, err := f.Login(ctx, "", "nobody"); !apperr.Is(err, apperr.Unauthorized) {
		t.Fatalf("unknown user: %v", err)
	}
	sess, u, err := f.Login(ctx, "", " jash")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != "u5" || sess.UserID != "u5" {
		t.Fatalf("login by name: %+v", sess)
	}
	got, _, err := f.Authenticate(ctx, sess.ID)
	if err != nil || got.ID != "u5" {
		t.Fatalf("authenticate: %+v %v", got, err)
	}
	if err := f.Logout(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.Authenticate(ctx, sess.ID); !apperr.Is(err, apperr.Unauthorized) {
		t.Fatalf("after logout: %v", err)
	}
}

func TestSessions_Expire(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sess, _, err := f.Login(ctx, "u1", "")
	if err != nil {
		t.Fatal(err)
	}
	f.advance(2 * time.Hour)
	if _, _, err := f.Authenticate(ctx, sess.ID); !apperr.Is(err, apperr.Unauthorized) {
		t.Fatalf("expired session: %v", err)
	}
}

func TestSessions_DeletedUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sess, _, err := f.Login(ctx, "u5", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := f.DeleteUser(ctx, admin, "u5"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.Authenticate(ctx, sess.ID); !apperr.Is(err, apperr.Unauthorized) {
		t.Fatalf("deleted user: %v", err)
	}
}
