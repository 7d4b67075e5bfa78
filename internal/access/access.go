// Package access holds the role predicates that gate every user action.
package access

import "github.com/Spok95/qc-tracker/internal/models"

func CanCreateRecord(u *models.User) bool {
	return u != nil && u.Role.Valid() && u.Role != models.Agent
}

// CanViewRecord: agents only see audits about themselves.
func CanViewRecord(u *models.User, r *models.QCRecord) bool {
	if u == nil {
		return false
	}
	if u.Role == models.Agent {
		return IsRecordAgent(u, r)
	}
	return u.Role.Valid()
}

// CanEditRecord: anyone but agents may edit; records from previous days only
// by admins and managers.
func CanEditRecord(u *models.User, r *models.QCRecord, today string) bool {
	if !CanCreateRecord(u) {
		return false
	}
	return r.Date == today || u.Role.Elevated()
}

func CanDeleteRecord(u *models.User, r *models.QCRecord, today string) bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case models.Admin, models.Manager:
		return true
	case models.QCAgent:
		return r.Date == today
	}
	return false
}

// CanReviewRecord lets the audited agent acknowledge or dispute the result.
func CanReviewRecord(u *models.User, r *models.QCRecord) bool {
	return u != nil && u.Role == models.Agent && IsRecordAgent(u, r)
}

func CanExport(u *models.User) bool {
	return u != nil && u.Role.Elevated()
}

func CanManageUsers(u *models.User) bool {
	return u != nil && u.Role == models.Admin
}

// CanModifyProduction: same-day entries are open to their owner, older ones only
// to admins and managers.
func CanModifyProduction(u *models.User, recordDate, today string) bool {
	if u == nil {
		return false
	}
	return recordDate == today || u.Role.Elevated()
}

func CanLogProductionFor(u *models.User, userID string) bool {
	if u == nil {
		return false
	}
	return u.ID == userID || u.Role.Elevated()
}

func IsRecordAgent(u *models.User, r *models.QCRecord) bool {
	if r.AgentID != "" {
		return r.AgentID == u.ID
	}
	return models.SameName(r.AgentName, u.Name)
}
