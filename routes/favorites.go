package routes

import (
	"errors"
	"strconv"

	"github.com/foremostprojects1/Locatex-final-backend/models"
	"github.com/foremostprojects1/Locatex-final-backend/storage"
	"github.com/foremostprojects1/Locatex-final-backend/utils"
	"github.com/kataras/iris/v12"
)

// GetUserFavorites returns the user's bookmarked properties, resolved to
// full listings. Dangling references (deleted properties) are skipped.
func GetUserFavorites(ctx iris.Context) {
	userID := utils.ActingUserID(ctx)

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ids := user.FavoriteIDs()
	properties := []models.Property{}
	if len(ids) > 0 {
		if err := storage.DB.Where("id IN ?", ids).Find(&properties).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	utils.JSONSuccess(ctx, properties)
}

// AddFavorite bookmarks a property. Adding an existing favorite is an
// explicit conflict, not a silent no-op.
func AddFavorite(ctx iris.Context) {
	userID := utils.ActingUserID(ctx)

	var req AlterFavoriteInput
	err := ctx.ReadJSON(&req)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	propertyID := strconv.FormatUint(uint64(req.PropertyID), 10)
	if property := getPropertyByID(propertyID, ctx); property == nil {
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := user.AddFavoriteID(req.PropertyID); err != nil {
		if errors.Is(err, models.ErrDuplicateFavorite) {
			utils.CreateError(iris.StatusBadRequest, "Conflict", "Property is already in favorites.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Model(&user).Update("favorites", user.Favorites).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// RemoveFavorite is idempotent: removing an absent favorite is a no-op.
// The set is filtered into a fresh slice and reassigned.
func RemoveFavorite(ctx iris.Context) {
	userID := utils.ActingUserID(ctx)

	propertyID, err := ctx.Params().GetUint("propertyID")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid property ID.", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if _, err := user.RemoveFavoriteID(propertyID); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Model(&user).Update("favorites", user.Favorites).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

type AlterFavoriteInput struct {
	PropertyID uint `json:"propertyID" validate:"required"`
}
