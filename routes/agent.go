package routes

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/foremostprojects1/Locatex-final-backend/models"
	"github.com/foremostprojects1/Locatex-final-backend/storage"
	"github.com/foremostprojects1/Locatex-final-backend/utils"
	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
)

// ListAgents is the public directory: verified, active agents only.
func ListAgents(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}

	q := storage.DB.Model(&models.Agent{}).
		Where("is_verified = ? AND is_active = ?", true, true)

	if search := strings.TrimSpace(ctx.URLParam("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Joins("JOIN users ON users.id = agents.user_id").
			Where("lower(users.name) LIKE ? OR lower(agents.bio) LIKE ?", like, like)
	}
	if specialty := strings.TrimSpace(ctx.URLParam("specialty")); specialty != "" {
		q = q.Where("specialties::text ILIKE ?", "%"+specialty+"%")
	}
	if language := strings.TrimSpace(ctx.URLParam("language")); language != "" {
		q = q.Where("languages::text ILIKE ?", "%"+language+"%")
	}

	var total int64
	q.Count(&total)

	var agents []models.Agent
	err := q.Preload("User").Offset((page - 1) * perPage).Limit(perPage).
		Order("rating_average DESC, rating_count DESC").Find(&agents).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, agents, page, perPage, total)
}

func GetAgent(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid agent ID.", ctx)
		return
	}

	var agent models.Agent
	result := storage.DB.Preload("User").Preload("Reviews").Preload("Reviews.User").First(&agent, id)
	if result.Error != nil {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONSuccess(ctx, &agent)
}

// RequestAgentRegistration files a directory request for the caller. At
// most one Agent record may exist per user, verified or not; a pending
// record still counts, so this is checked here and not left to the index.
func RequestAgentRegistration(ctx iris.Context) {
	userID := utils.ActingUserID(ctx)

	var input AgentRegistrationInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing models.Agent
	existsQuery := storage.DB.Where("user_id = ?", userID).Limit(1).Find(&existing)
	if existsQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if existsQuery.RowsAffected > 0 {
		utils.CreateError(iris.StatusBadRequest, "Conflict", "An agent profile already exists for this account.", ctx)
		return
	}

	specialtiesJSON, _ := json.Marshal([]string(input.Specialties))
	languagesJSON, _ := json.Marshal([]string(input.Languages))
	companyJSON, _ := json.Marshal(map[string]string(input.Company))
	socialJSON, _ := json.Marshal(map[string]string(input.SocialMedia))

	verified := false
	active := false
	agent := models.Agent{
		UserID:          userID,
		Bio:             input.Bio,
		Specialties:     datatypes.JSON(specialtiesJSON),
		Languages:       datatypes.JSON(languagesJSON),
		ExperienceYears: input.ExperienceYears,
		Company:         datatypes.JSON(companyJSON),
		SocialMedia:     datatypes.JSON(socialJSON),
		IsVerified:      &verified,
		IsActive:        &active,
		ResponseTime:    input.ResponseTime,
	}

	if err := storage.DB.Create(&agent).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if input.Avatar != "" {
		publicID := fmt.Sprintf("agent_%d_%d", agent.ID, time.Now().UnixMilli())
		if url := storage.UploadBase64Image(input.Avatar, publicID); url != "" {
			if err := storage.DB.Model(&models.User{}).Where("id = ?", userID).
				Update("avatar_url", url).Error; err != nil {
				utils.Logger.Warn().Err(err).Uint("user", userID).Msg("agent avatar save failed")
			}
		}
	}

	utils.JSONSuccess(ctx, &agent)
}

// UpdateAgent edits an agent profile. Profile fields require ownership or
// admin; the verification and active flags are admin-only. Flipping
// isVerified false->true promotes the linked user to the agent role as a
// best-effort secondary write: a failure there is logged, never rolled
// back into the verification itself.
func UpdateAgent(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid agent ID.", ctx)
		return
	}

	var agent models.Agent
	if err := storage.DB.First(&agent, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if !utils.OwnerOrAdmin(ctx, agent.UserID) {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdateAgentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := agent
	wasVerified := agent.IsVerified != nil && *agent.IsVerified

	if input.Bio != nil {
		agent.Bio = *input.Bio
	}
	if input.Specialties != nil {
		raw, _ := json.Marshal([]string(input.Specialties))
		agent.Specialties = datatypes.JSON(raw)
	}
	if input.Languages != nil {
		raw, _ := json.Marshal([]string(input.Languages))
		agent.Languages = datatypes.JSON(raw)
	}
	if input.ExperienceYears != nil {
		agent.ExperienceYears = *input.ExperienceYears
	}
	if input.Company != nil {
		raw, _ := json.Marshal(map[string]string(input.Company))
		agent.Company = datatypes.JSON(raw)
	}
	if input.SocialMedia != nil {
		raw, _ := json.Marshal(map[string]string(input.SocialMedia))
		agent.SocialMedia = datatypes.JSON(raw)
	}
	if input.ResponseTime != nil {
		agent.ResponseTime = *input.ResponseTime
	}

	role, _ := ctx.Values().Get("userRole").(string)
	if role == "admin" {
		if input.IsVerified != nil {
			agent.IsVerified = input.IsVerified
		}
		if input.IsActive != nil {
			agent.IsActive = input.IsActive
		}
	}

	if err := saveAgentWithRating(&agent); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	nowVerified := agent.IsVerified != nil && *agent.IsVerified
	if !wasVerified && nowVerified {
		audit(ctx, "agent.verify", "agent", agent.ID, before, agent)
		promoteUserToAgent(agent.UserID)
	}

	utils.JSONSuccess(ctx, &agent)
}

// DeleteAgent removes a directory profile (admin only; route-gated).
func DeleteAgent(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid agent ID.", ctx)
		return
	}

	var agent models.Agent
	if err := storage.DB.First(&agent, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Where("agent_id = ?", agent.ID).Delete(&models.AgentReview{}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if err := storage.DB.Delete(&models.Agent{}, agent.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	audit(ctx, "agent.delete", "agent", agent.ID, agent, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

// GET /api/admin/agents, including pending registration requests.
func AdminListAgents(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	q := storage.DB.Model(&models.Agent{})
	if verified := ctx.URLParam("verified"); verified != "" {
		q = q.Where("is_verified = ?", verified == "true")
	}

	var total int64
	q.Count(&total)

	var agents []models.Agent
	err := q.Preload("User").Offset((page - 1) * perPage).Limit(perPage).
		Order("created_at DESC").Find(&agents).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, agents, page, perPage, total)
}

// saveAgentWithRating is the single persistence path for agents: the
// stored aggregate is rederived from the review collection on every save,
// so it can never drift or be set directly.
func saveAgentWithRating(agent *models.Agent) error {
	var reviews []models.AgentReview
	if err := storage.DB.Where("agent_id = ?", agent.ID).Find(&reviews).Error; err != nil {
		return err
	}
	agent.SyncRating(reviews)
	return storage.DB.Save(agent).Error
}

// promoteUserToAgent is the secondary write behind agent verification.
func promoteUserToAgent(userID uint) {
	err := storage.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("role", "agent").Error
	if err != nil {
		utils.Logger.Error().Err(err).Uint("user", userID).
			Msg("agent verified but user role promotion failed")
		return
	}
	utils.Logger.Info().Uint("user", userID).Msg("user promoted to agent role")
}

type AgentRegistrationInput struct {
	Bio             string                   `json:"bio" validate:"max=2000"`
	Specialties     utils.FlexibleStringList `json:"specialties"`
	Languages       utils.FlexibleStringList `json:"languages"`
	ExperienceYears int                      `json:"experienceYears" validate:"gte=0,lte=80"`
	Company         utils.FlexibleStringMap  `json:"company"`
	SocialMedia     utils.FlexibleStringMap  `json:"socialMedia"`
	ResponseTime    string                   `json:"responseTime" validate:"omitempty,oneof=within_hour within_day within_week"`
	Avatar          string                   `json:"avatar"`
}

type UpdateAgentInput struct {
	Bio             *string                  `json:"bio" validate:"omitempty,max=2000"`
	Specialties     utils.FlexibleStringList `json:"specialties"`
	Languages       utils.FlexibleStringList `json:"languages"`
	ExperienceYears *int                     `json:"experienceYears" validate:"omitempty,gte=0,lte=80"`
	Company         utils.FlexibleStringMap  `json:"company"`
	SocialMedia     utils.FlexibleStringMap  `json:"socialMedia"`
	ResponseTime    *string                  `json:"responseTime" validate:"omitempty,oneof=within_hour within_day within_week"`
	IsVerified      *bool                    `json:"isVerified"`
	IsActive        *bool                    `json:"isActive"`
}
