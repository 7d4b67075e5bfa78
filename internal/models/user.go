package models

import "strings"

type Role string

const (
	Admin   Role = "ADMIN"
	Manager Role = "MANAGER"
	QCAgent Role = "QC_AGENT"
	Agent   Role = "AGENT"
)

func (r Role) Valid() bool {
	switch r {
	case Admin, Manager, QCAgent, Agent:
		return true
	}
	return false
}

// Elevated roles may touch records from previous days.
func (r Role) Elevated() bool {
	return r == Admin || r == Manager
}

type User struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Role       Role   `json:"role" yaml:"role"`
	TelegramID *int64 `json:"telegramId,omitempty" yaml:"telegramId,omitempty"`
}

// SameName compares user names the way the UI did: trimmed and case-insensitive.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
