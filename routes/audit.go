package routes

import (
	"encoding/json"

	"github.com/foremostprojects1/Locatex-final-backend/models"
	"github.com/foremostprojects1/Locatex-final-backend/storage"
	"github.com/foremostprojects1/Locatex-final-backend/utils"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// audit records an admin mutation with before/after snapshots. Audit
// failures never fail the request they describe.
func audit(ctx iris.Context, action, resourceType string, resourceID uint, before interface{}, after interface{}) {
	var adminID uint
	var adminRole string
	if tok := jwt.Get(ctx); tok != nil {
		if at, ok := tok.(*utils.AccessToken); ok {
			adminID = at.ID
			adminRole = at.Role
		}
	}

	entry := buildAuditEntry(adminID, adminRole, action, resourceType, resourceID, utils.ClientIP(ctx), before, after)
	if err := storage.DB.Create(&entry).Error; err != nil {
		utils.Logger.Error().Err(err).Str("action", action).Msg("write audit log")
	}
}

// buildAuditEntry assembles the row. Moderation rejections carry their
// reason in a dedicated column so the activity feed can show it without
// parsing the after snapshot.
func buildAuditEntry(adminID uint, adminRole, action, resourceType string, resourceID uint, ip string, before, after interface{}) models.AuditLog {
	var beforeStr, afterStr string
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			beforeStr = string(b)
		}
	}
	if after != nil {
		if a, err := json.Marshal(after); err == nil {
			afterStr = string(a)
		}
	}

	var reason string
	switch v := after.(type) {
	case models.Property:
		reason = v.RejectionReason
	case *models.Property:
		if v != nil {
			reason = v.RejectionReason
		}
	}

	return models.AuditLog{
		AdminUserID:  adminID,
		AdminRole:    adminRole,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Reason:       reason,
		BeforeJSON:   beforeStr,
		AfterJSON:    afterStr,
		IPAddress:    ip,
	}
}
