package routes

import (
	"github.com/foremostprojects1/Locatex-final-backend/models"
	"github.com/foremostprojects1/Locatex-final-backend/storage"
	"github.com/foremostprojects1/Locatex-final-backend/utils"
	"github.com/kataras/iris/v12"
)

func ListAgentReviews(ctx iris.Context) {
	agentID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid agent ID.", ctx)
		return
	}

	var agent models.Agent
	if err := storage.DB.First(&agent, agentID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var reviews []models.AgentReview
	result := storage.DB.Where("agent_id = ?", agentID).Preload("User").
		Order("created_at DESC").Find(&reviews)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, reviews)
}

// CreateAgentReview posts a review. One review per (agent, reviewer) pair;
// a second attempt is a conflict, not an overwrite.
func CreateAgentReview(ctx iris.Context) {
	agentID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid agent ID.", ctx)
		return
	}
	userID := utils.ActingUserID(ctx)

	var agent models.Agent
	if err := storage.DB.First(&agent, agentID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input AgentReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing []models.AgentReview
	if err := storage.DB.Where("agent_id = ?", agentID).Find(&existing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if models.HasReviewFrom(existing, userID) {
		utils.CreateError(iris.StatusBadRequest, "Conflict", "You have already reviewed this agent.", ctx)
		return
	}

	review := models.AgentReview{
		AgentID: agentID,
		UserID:  userID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := storage.DB.Create(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := syncAgentRating(agentID); err != nil {
		utils.Logger.Error().Err(err).Uint("agent", agentID).Msg("rating resync failed")
	}

	utils.JSONSuccess(ctx, &review)
}

func UpdateAgentReview(ctx iris.Context) {
	reviewID, err := ctx.Params().GetUint("reviewID")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid review ID.", ctx)
		return
	}
	userID := utils.ActingUserID(ctx)

	var review models.AgentReview
	if err := storage.DB.First(&review, reviewID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	// Only the author can edit; admins moderate by deleting instead.
	if review.UserID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	var input AgentReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	review.Rating = input.Rating
	review.Comment = input.Comment
	if err := storage.DB.Save(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := syncAgentRating(review.AgentID); err != nil {
		utils.Logger.Error().Err(err).Uint("agent", review.AgentID).Msg("rating resync failed")
	}

	utils.JSONSuccess(ctx, &review)
}

func DeleteAgentReview(ctx iris.Context) {
	reviewID, err := ctx.Params().GetUint("reviewID")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid review ID.", ctx)
		return
	}

	var review models.AgentReview
	if err := storage.DB.First(&review, reviewID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if !utils.OwnerOrAdmin(ctx, review.UserID) {
		utils.CreateForbidden(ctx)
		return
	}

	if err := storage.DB.Delete(&models.AgentReview{}, review.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	role, _ := ctx.Values().Get("userRole").(string)
	if role == "admin" && review.UserID != utils.ActingUserID(ctx) {
		audit(ctx, "agent_review.delete", "agent_review", review.ID, review, nil)
	}

	if err := syncAgentRating(review.AgentID); err != nil {
		utils.Logger.Error().Err(err).Uint("agent", review.AgentID).Msg("rating resync failed")
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// syncAgentRating rederives the stored aggregate from the current review
// rows. Called after every review mutation.
func syncAgentRating(agentID uint) error {
	var agent models.Agent
	if err := storage.DB.First(&agent, agentID).Error; err != nil {
		return err
	}
	return saveAgentWithRating(&agent)
}

type AgentReviewInput struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}
