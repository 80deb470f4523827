package routes

import (
	"strings"
	"time"

	"github.com/foremostprojects1/Locatex-final-backend/models"
	"github.com/foremostprojects1/Locatex-final-backend/storage"
	"github.com/foremostprojects1/Locatex-final-backend/utils"
	"github.com/kataras/iris/v12"
)

func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	q := storage.DB.Model(&models.User{})
	if role := ctx.URLParam("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if search := strings.TrimSpace(ctx.URLParam("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(email) LIKE ? OR mobile LIKE ?", like, like, like)
	}

	var total int64
	q.Count(&total)

	var users []models.User
	err := q.Offset((page - 1) * perPage).Limit(perPage).
		Order("created_at DESC").Find(&users).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// AdminChangeUserRole reassigns a user's role. Promoting to agent ensures
// a directory profile exists; it is created unverified so the user still
// goes through directory review before appearing publicly.
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user ID.", ctx)
		return
	}

	var input ChangeRoleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	user, err := getUserByID(id)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if user == nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := *user
	user.Role = input.Role
	if err := storage.DB.Save(user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if input.Role == "agent" {
		if err := ensureAgentProfile(user.ID); err != nil {
			utils.Logger.Error().Err(err).Uint("user", user.ID).
				Msg("agent profile creation failed during role change")
		}
	}

	audit(ctx, "user.role", "user", user.ID, before, *user)
	utils.JSONSuccess(ctx, user)
}

func AdminSetUserStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user ID.", ctx)
		return
	}

	var input SetUserStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	user, err := getUserByID(id)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if user == nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := *user
	user.IsActive = input.IsActive
	if err := storage.DB.Save(user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	action := "user.deactivate"
	if input.IsActive != nil && *input.IsActive {
		action = "user.activate"
	}
	audit(ctx, action, "user", user.ID, before, *user)
	utils.JSONSuccess(ctx, user)
}

// AdminDeleteUser removes the account and its agent profile. Listings and
// messages keep their rows; their owner references simply stop resolving.
func AdminDeleteUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user ID.", ctx)
		return
	}

	user, err := getUserByID(id)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if user == nil {
		utils.CreateNotFound(ctx)
		return
	}

	var agent models.Agent
	agentQuery := storage.DB.Where("user_id = ?", user.ID).Limit(1).Find(&agent)
	if agentQuery.Error == nil && agentQuery.RowsAffected > 0 {
		storage.DB.Where("agent_id = ?", agent.ID).Delete(&models.AgentReview{})
		storage.DB.Delete(&models.Agent{}, agent.ID)
	}

	if err := storage.DB.Delete(&models.User{}, user.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	audit(ctx, "user.delete", "user", user.ID, *user, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

// AdminStats is the dashboard snapshot: moderation and inbox backlogs
// plus recent growth.
func AdminStats(ctx iris.Context) {
	now := time.Now()
	week := now.AddDate(0, 0, -7)
	month := now.AddDate(0, 0, -30)

	var pendingProperties, unreadMessages, pendingAgents int64
	storage.DB.Model(&models.Property{}).
		Where("approval_status = ?", models.ApprovalPending).Count(&pendingProperties)
	storage.DB.Model(&models.Message{}).Where("is_read = ?", false).Count(&unreadMessages)
	storage.DB.Model(&models.Agent{}).Where("is_verified = ?", false).Count(&pendingAgents)

	var usersWeek, usersMonth, listingsWeek, listingsMonth int64
	storage.DB.Model(&models.User{}).Where("created_at >= ?", week).Count(&usersWeek)
	storage.DB.Model(&models.User{}).Where("created_at >= ?", month).Count(&usersMonth)
	storage.DB.Model(&models.Property{}).Where("created_at >= ?", week).Count(&listingsWeek)
	storage.DB.Model(&models.Property{}).Where("created_at >= ?", month).Count(&listingsMonth)

	utils.JSONSuccess(ctx, iris.Map{
		"pendingProperties":    pendingProperties,
		"unreadMessages":       unreadMessages,
		"pendingAgentRequests": pendingAgents,
		"newUsers7d":           usersWeek,
		"newUsers30d":          usersMonth,
		"newListings7d":        listingsWeek,
		"newListings30d":       listingsMonth,
	})
}

// AdminActivity returns the most recent audit entries.
func AdminActivity(ctx iris.Context) {
	var entries []models.AuditLog
	err := storage.DB.Order("created_at DESC").Limit(100).Find(&entries).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, entries)
}

// ensureAgentProfile creates an unverified agent record if none exists.
func ensureAgentProfile(userID uint) error {
	var existing models.Agent
	result := storage.DB.Where("user_id = ?", userID).Limit(1).Find(&existing)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	verified := false
	active := false
	agent := models.Agent{
		UserID:     userID,
		IsVerified: &verified,
		IsActive:   &active,
	}
	return storage.DB.Create(&agent).Error
}

type ChangeRoleInput struct {
	Role string `json:"role" validate:"required,oneof=user agent admin"`
}

type SetUserStatusInput struct {
	IsActive *bool `json:"isActive" validate:"required"`
}
