package routes

import (
	"errors"
	"strings"
	"time"

	"github.com/foremostprojects1/Locatex-final-backend/models"
	"github.com/foremostprojects1/Locatex-final-backend/storage"
	"github.com/foremostprojects1/Locatex-final-backend/utils"
	"github.com/kataras/iris/v12"
)

// GET /api/admin/properties, any approval status, with filters.
func AdminListProperties(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	q := storage.DB.Model(&models.Property{})
	if status := strings.TrimSpace(ctx.URLParam("approvalStatus")); status != "" {
		q = q.Where("approval_status = ?", status)
	}
	if ownerID := strings.TrimSpace(ctx.URLParam("owner_id")); ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	if search := strings.TrimSpace(ctx.URLParam("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(title) LIKE ? OR lower(description) LIKE ? OR lower(city) LIKE ?", like, like, like)
	}
	if createdFrom := ctx.URLParam("created_from"); createdFrom != "" {
		if t, err := time.Parse(time.RFC3339, createdFrom); err == nil {
			q = q.Where("created_at >= ?", t)
		}
	}
	if createdTo := ctx.URLParam("created_to"); createdTo != "" {
		if t, err := time.Parse(time.RFC3339, createdTo); err == nil {
			q = q.Where("created_at <= ?", t)
		}
	}

	var total int64
	q.Count(&total)

	var properties []models.Property
	err := q.Preload("Owner").Offset((page - 1) * perPage).Limit(perPage).
		Order("created_at DESC").Find(&properties).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, properties, page, perPage, total)
}

// POST /api/admin/properties/:id/approve
// Approving publishes the listing; approving an already-approved listing
// is a conflict and leaves it untouched.
func ApproveProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid property ID.", ctx)
		return
	}

	adminID := utils.ActingUserID(ctx)

	var property models.Property
	if err := storage.DB.First(&property, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := property
	if err := property.Approve(adminID); err != nil {
		if errors.Is(err, models.ErrAlreadyApproved) {
			utils.CreateError(iris.StatusBadRequest, "Conflict", "Property is already approved.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Save(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	audit(ctx, "property.approve", "property", property.ID, before, property)
	utils.Logger.Info().
		Uint("property", property.ID).
		Uint("admin", adminID).
		Str("from", before.ApprovalStatus).
		Msg("property approved")

	notifyOwnerOfModeration(&property)

	utils.JSONSuccess(ctx, &property)
}

// POST /api/admin/properties/:id/reject {reason}
// A non-empty reason is mandatory; rejecting unpublishes the listing even
// if it was live.
func RejectProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid property ID.", ctx)
		return
	}

	var body RejectPropertyInput
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	adminID := utils.ActingUserID(ctx)

	var property models.Property
	if err := storage.DB.First(&property, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := property
	if err := property.Reject(adminID, strings.TrimSpace(body.Reason)); err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyReason):
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Rejection reason is required.", ctx)
		case errors.Is(err, models.ErrAlreadyRejected):
			utils.CreateError(iris.StatusBadRequest, "Conflict", "Property is already rejected.", ctx)
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	if err := storage.DB.Save(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	audit(ctx, "property.reject", "property", property.ID, before, property)
	utils.Logger.Info().
		Uint("property", property.ID).
		Uint("admin", adminID).
		Str("from", before.ApprovalStatus).
		Str("reason", property.RejectionReason).
		Msg("property rejected")

	notifyOwnerOfModeration(&property)

	utils.JSONSuccess(ctx, &property)
}

// notifyOwnerOfModeration emails the listing owner about the outcome.
// Best-effort: the transition has already been persisted.
func notifyOwnerOfModeration(property *models.Property) {
	var owner models.User
	if err := storage.DB.First(&owner, property.OwnerID).Error; err != nil || owner.Email == "" {
		return
	}

	subject := "Your listing was " + property.ApprovalStatus
	html := "<p>Your listing <strong>" + property.Title + "</strong> was " + property.ApprovalStatus + "."
	if property.RejectionReason != "" {
		html += " Reason: " + property.RejectionReason
	}
	html += "</p>"

	go func() {
		if _, err := utils.SendMail(owner.Email, subject, html); err != nil {
			utils.Logger.Warn().Err(err).Uint("property", property.ID).Msg("moderation email failed")
		}
	}()
}

type RejectPropertyInput struct {
	Reason string `json:"reason"`
}
