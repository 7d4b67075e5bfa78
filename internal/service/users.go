package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Spok95/qc-tracker/internal/access"
	"github.com/Spok95/qc-tracker/internal/apperr"
	"github.com/Spok95/qc-tracker/internal/logging"
	"github.com/Spok95/qc-tracker/internal/models"
)

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Users.List(ctx)
}

// SeedUsers persists the catalog's initial users if no user list exists yet.
func (s *Service) SeedUsers(ctx context.Context) (bool, error) {
	return s.Users.Seed(ctx)
}

func (s *Service) CreateUser(ctx context.Context, actor *models.User, name string, role models.Role) (*models.User, error) {
	if !access.CanManageUsers(actor) {
		return nil, apperr.Forbiddenf("only admins can manage users")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalidf("name is required")
	}
	if !role.Valid() {
		return nil, apperr.Invalidf("unknown role %q", role)
	}
	u := models.User{ID: s.newID(), Name: name, Role: role}
	err := s.Users.Update(ctx, func(users []models.User) ([]models.User, error) {
		for _, x := range users {
			if models.SameName(x.Name, name) {
				return nil, apperr.Conflictf("a user named %s already exists", x.Name)
			}
		}
		return append(users, u), nil
	})
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx, s.log).Info("user created", zap.String("id", u.ID), zap.String("role", string(role)), zap.String("by", actor.ID))
	return &u, nil
}

// SetRole changes a user's role. The last admin cannot be demoted.
func (s *Service) SetRole(ctx context.Context, actor *models.User, id string, role models.Role) (*models.User, error) {
	if !access.CanManageUsers(actor) {
		return nil, apperr.Forbiddenf("only admins can manage users")
	}
	if !role.Valid() {
		return nil, apperr.Invalidf("unknown role %q", role)
	}
	var out models.User
	err := s.Users.Update(ctx, func(users []models.User) ([]models.User, error) {
		idx := indexUser(users, id)
		if idx < 0 {
			return nil, apperr.NotFoundf("user %s not found", id)
		}
		if users[idx].Role == models.Admin && role != models.Admin && countRole(users, models.Admin) == 1 {
			return nil, apperr.Conflictf("cannot demote the last admin")
		}
		users[idx].Role = role
		out = users[idx]
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LinkTelegram binds a chat to a user; nil unlinks. A chat belongs to one user.
func (s *Service) LinkTelegram(ctx context.Context, actor *models.User, id string, chatID *int64) (*models.User, error) {
	if !access.CanManageUsers(actor) {
		return nil, apperr.Forbiddenf("only admins can manage users")
	}
	var out models.User
	err := s.Users.Update(ctx, func(users []models.User) ([]models.User, error) {
		idx := indexUser(users, id)
		if idx < 0 {
			return nil, apperr.NotFoundf("user %s not found", id)
		}
		if chatID != nil {
			for _, u := range users {
				if u.ID != id && u.TelegramID != nil && *u.TelegramID == *chatID {
					return nil, apperr.Conflictf("chat %d is already linked to %s", *chatID, u.Name)
				}
			}
		}
		users[idx].TelegramID = chatID
		out = users[idx]
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes a user; their records stay. The last admin and the
// caller's own account cannot be deleted.
func (s *Service) DeleteUser(ctx context.Context, actor *models.User, id string) error {
	if !access.CanManageUsers(actor) {
		return apperr.Forbiddenf("only admins can manage users")
	}
	if actor.ID == id {
		return apperr.Conflictf("you cannot delete your own account")
	}
	err := s.Users.Update(ctx, func(users []models.User) ([]models.User, error) {
		idx := indexUser(users, id)
		if idx < 0 {
			return nil, apperr.NotFoundf("user %s not found", id)
		}
		if users[idx].Role == models.Admin && countRole(users, models.Admin) == 1 {
			return nil, apperr.Conflictf("cannot delete the last admin")
		}
		return append(users[:idx], users[idx+1:]...), nil
	})
	if err != nil {
		return err
	}
	logging.FromContext(ctx, s.log).Info("user deleted", zap.String("id", id), zap.String("by", actor.ID))
	return nil
}

func indexUser(users []models.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

func countRole(users []models.User, role models.Role) int {
	n := 0
	for _, u := range users {
		if u.Role == role {
			n++
		}
	}
	return n
}
