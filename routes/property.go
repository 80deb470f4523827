package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/foremostprojects1/Locatex-final-backend/models"
	"github.com/foremostprojects1/Locatex-final-backend/storage"
	"github.com/foremostprojects1/Locatex-final-backend/utils"
	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateProperty creates a listing for the authenticated user. Approval
// status and publish flag are forced server-side regardless of payload;
// every new listing starts pending and unpublished.
func CreateProperty(ctx iris.Context) {
	userID := utils.ActingUserID(ctx)

	var input CreateListingInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	address := input.Address
	if address == "" {
		address = composeAddress(input.Village, input.Taluka, input.District, input.City)
	}

	amenitiesJSON, _ := json.Marshal(input.Amenities)
	disadvantagesJSON, _ := json.Marshal(input.Disadvantages)

	images := uploadListingImages(input.Images, 0)
	imagesJSON, _ := json.Marshal(models.NormalizeImages(images))

	documents := uploadListingDocuments(ctx, input.Documents)
	documentsJSON, _ := json.Marshal(documents)

	published := false
	property := models.Property{
		OwnerID:        userID,
		Title:          input.Title,
		Description:    input.Description,
		Price:          input.Price,
		Status:         input.Status,
		PropertyType:   input.PropertyType,
		Bedrooms:       input.Bedrooms,
		Bathrooms:      input.Bathrooms,
		Area:           input.Area,
		AreaUnit:       input.AreaUnit,
		Address:        address,
		City:           input.City,
		District:       input.District,
		Taluka:         input.Taluka,
		Village:        input.Village,
		Lat:            input.Lat,
		Lng:            input.Lng,
		Amenities:      datatypes.JSON(amenitiesJSON),
		Disadvantages:  datatypes.JSON(disadvantagesJSON),
		Images:         datatypes.JSON(imagesJSON),
		Documents:      datatypes.JSON(documentsJSON),
		ContactName:    input.ContactName,
		ContactPhone:   input.ContactPhone,
		ContactEmail:   input.ContactEmail,
		IsPublished:    &published,
		ApprovalStatus: models.ApprovalPending,
	}

	applyLandRecord(&property, input.PropertyType, input.LandRecord)

	// Agents list under their directory profile automatically
	if role, ok := ctx.Values().Get("userRole").(string); ok && role == "agent" {
		var agent models.Agent
		if err := storage.DB.Where("user_id = ?", userID).First(&agent).Error; err == nil {
			agentID := agent.ID
			property.AgentID = &agentID
		}
	}

	if err := storage.DB.Create(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, &property)
}

// GetProperty serves a listing by id. Unpublished, unapproved listings are
// only visible to their owner or an admin. The view counter increments
// best-effort off the request path; a failed increment never fails the read.
func GetProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	property := getPropertyByID(id, ctx)
	if property == nil {
		return
	}

	if !property.PubliclyVisible() {
		actingID := utils.ActingUserID(ctx)
		role, _ := ctx.Values().Get("userRole").(string)
		if actingID != property.OwnerID && role != "admin" {
			utils.CreateNotFound(ctx)
			return
		}
	}

	propertyID := property.ID
	go func() {
		err := storage.DB.Model(&models.Property{}).Where("id = ?", propertyID).
			UpdateColumn("views", gorm.Expr("views + 1")).Error
		if err != nil {
			utils.Logger.Warn().Err(err).Uint("property", propertyID).Msg("view increment failed")
		}
	}()

	utils.JSONSuccess(ctx, property)
}

// GetMyProperties lists the caller's own properties, including pending and
// rejected ones.
func GetMyProperties(ctx iris.Context) {
	userID := utils.ActingUserID(ctx)

	var properties []models.Property
	result := storage.DB.Where("owner_id = ?", userID).Order("created_at DESC").Find(&properties)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, properties)
}

func UpdateProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	property := getPropertyByID(id, ctx)
	if property == nil {
		return
	}

	if !utils.OwnerOrAdmin(ctx, property.OwnerID) {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdateListingInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	amenitiesJSON, _ := json.Marshal(input.Amenities)
	disadvantagesJSON, _ := json.Marshal(input.Disadvantages)

	// New uploads append to the existing list. The first image only
	// becomes primary when the property had none before.
	existingImages := property.ImageList()
	newImages := uploadListingImages(input.Images, property.ID)
	merged := append(existingImages, newImages...)

	property.Title = input.Title
	property.Description = input.Description
	property.Price = input.Price
	property.Status = input.Status
	property.PropertyType = input.PropertyType
	property.Bedrooms = input.Bedrooms
	property.Bathrooms = input.Bathrooms
	property.Area = input.Area
	property.AreaUnit = input.AreaUnit
	property.Address = input.Address
	property.City = input.City
	property.District = input.District
	property.Taluka = input.Taluka
	property.Village = input.Village
	property.Lat = input.Lat
	property.Lng = input.Lng
	property.Amenities = datatypes.JSON(amenitiesJSON)
	property.Disadvantages = datatypes.JSON(disadvantagesJSON)
	property.ContactName = input.ContactName
	property.ContactPhone = input.ContactPhone
	property.ContactEmail = input.ContactEmail

	applyLandRecord(property, input.PropertyType, input.LandRecord)

	if err := property.SetImageList(merged); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Save(property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, property)
}

func DeleteProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	property := getPropertyByID(id, ctx)
	if property == nil {
		return
	}

	if !utils.OwnerOrAdmin(ctx, property.OwnerID) {
		utils.CreateForbidden(ctx)
		return
	}

	if err := storage.DB.Delete(&models.Property{}, property.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Stored documents are private; drop them once the row is gone.
	var documents map[string]string
	if property.Documents != nil && json.Unmarshal(property.Documents, &documents) == nil {
		bg := context.Background()
		for category, key := range documents {
			if err := storage.RemoveDocument(bg, key); err != nil {
				utils.Logger.Warn().Err(err).Str("category", category).
					Uint("property", property.ID).Msg("document cleanup failed")
			}
		}
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// DeletePropertyImage removes a single image from a listing by URL. The
// list is filtered into a fresh slice and reassigned; CDN deletion is
// best-effort once the DB no longer references the image.
func DeletePropertyImage(ctx iris.Context) {
	propertyIDStr := ctx.URLParam("propertyID")
	imageURL := ctx.URLParam("imageURL")

	if propertyIDStr == "" || imageURL == "" {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "propertyID and imageURL are required.", ctx)
		return
	}

	property := getPropertyByID(propertyIDStr, ctx)
	if property == nil {
		return
	}

	if !utils.OwnerOrAdmin(ctx, property.OwnerID) {
		utils.CreateForbidden(ctx)
		return
	}

	images := property.ImageList()
	var remaining []models.PropertyImage
	found := false
	for _, img := range images {
		if img.URL == imageURL {
			found = true
			continue
		}
		remaining = append(remaining, img)
	}

	if !found {
		utils.CreateNotFound(ctx)
		return
	}

	if err := property.SetImageList(remaining); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Model(property).Update("images", property.Images).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !storage.DeleteImage(imageURL) {
		utils.Logger.Warn().Str("url", imageURL).Msg("image removed from listing but CDN deletion failed")
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func getPropertyByID(id string, ctx iris.Context) *models.Property {
	var property models.Property
	propertyExists := storage.DB.Find(&property, id)

	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}

	return &property
}

// uploadListingImages pushes base64 payloads to the image CDN and keeps
// already-hosted URLs as-is. Failed uploads are skipped.
func uploadListingImages(inputs []ListingImageInput, propertyID uint) []models.PropertyImage {
	var images []models.PropertyImage
	for i, in := range inputs {
		if in.Source == "" {
			continue
		}
		url := in.Source
		if !isHostedImageURL(in.Source) {
			publicID := fmt.Sprintf("property_%d_%d", time.Now().UnixMilli(), i)
			if propertyID != 0 {
				publicID = fmt.Sprintf("property/%d/%s", propertyID, publicID)
			}
			url = storage.UploadBase64Image(in.Source, publicID)
			if url == "" {
				utils.Logger.Warn().Int("index", i).Msg("listing image upload failed, skipping")
				continue
			}
		}
		images = append(images, models.PropertyImage{URL: url, Alt: in.Alt, IsPrimary: in.IsPrimary})
	}
	return images
}

// uploadListingDocuments stores categorized documents in the private
// bucket and returns category -> object reference.
func uploadListingDocuments(ctx iris.Context, docs map[string]string) map[string]string {
	out := map[string]string{}
	for category, payload := range docs {
		if payload == "" {
			continue
		}
		key := storage.UploadDocument(ctx.Request().Context(), category, payload)
		if key == "" {
			utils.Logger.Warn().Str("category", category).Msg("document upload failed, skipping")
			continue
		}
		out[category] = key
	}
	return out
}

func isHostedImageURL(s string) bool {
	return len(s) > 8 && (s[:8] == "https://" || s[:7] == "http://")
}

// applyLandRecord keeps the government land paperwork in step with the
// listing type. Only land listings carry one; switching a listing to any
// other type clears the record.
func applyLandRecord(property *models.Property, propertyType string, record utils.FlexibleStringMap) {
	if propertyType != "land" {
		property.LandRecord = nil
		return
	}
	if record != nil {
		landRecordJSON, _ := json.Marshal(map[string]string(record))
		property.LandRecord = datatypes.JSON(landRecordJSON)
	}
}

func composeAddress(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}

// ListingImageInput carries either a base64 payload or an already-hosted
// URL in Source.
type ListingImageInput struct {
	Source    string `json:"source"`
	Alt       string `json:"alt" validate:"max=256"`
	IsPrimary bool   `json:"isPrimary"`
}

type CreateListingInput struct {
	Title        string  `json:"title" validate:"required,max=256"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" validate:"required,gte=0"`
	Status       string  `json:"status" validate:"required,oneof=for-sale for-rent sold rented"`
	PropertyType string  `json:"propertyType" validate:"required,oneof=apartment house commercial industrial land"`
	Bedrooms     int     `json:"bedrooms" validate:"gte=0,lte=20"`
	Bathrooms    int     `json:"bathrooms" validate:"gte=0,lte=20"`
	Area         float64 `json:"area" validate:"gte=0"`
	AreaUnit     string  `json:"areaUnit" validate:"omitempty,oneof=sqft sqm acre guntha"`

	Address  string  `json:"address" validate:"max=512"`
	City     string  `json:"city" validate:"required,max=256"`
	District string  `json:"district" validate:"max=256"`
	Taluka   string  `json:"taluka" validate:"max=256"`
	Village  string  `json:"village" validate:"max=256"`
	Lat      float32 `json:"lat"`
	Lng      float32 `json:"lng"`

	Amenities     utils.FlexibleStringList `json:"amenities"`
	Disadvantages utils.FlexibleStringList `json:"disadvantages"`
	LandRecord    utils.FlexibleStringMap  `json:"landRecord"`
	Images        []ListingImageInput      `json:"images" validate:"max=10"`
	Documents     map[string]string        `json:"documents" validate:"max=5"`

	ContactName  string `json:"contactName" validate:"max=256"`
	ContactPhone string `json:"contactPhone" validate:"max=32"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
}

type UpdateListingInput struct {
	Title        string  `json:"title" validate:"required,max=256"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" validate:"required,gte=0"`
	Status       string  `json:"status" validate:"required,oneof=for-sale for-rent sold rented"`
	PropertyType string  `json:"propertyType" validate:"required,oneof=apartment house commercial industrial land"`
	Bedrooms     int     `json:"bedrooms" validate:"gte=0,lte=20"`
	Bathrooms    int     `json:"bathrooms" validate:"gte=0,lte=20"`
	Area         float64 `json:"area" validate:"gte=0"`
	AreaUnit     string  `json:"areaUnit" validate:"omitempty,oneof=sqft sqm acre guntha"`

	Address  string  `json:"address" validate:"max=512"`
	City     string  `json:"city" validate:"required,max=256"`
	District string  `json:"district" validate:"max=256"`
	Taluka   string  `json:"taluka" validate:"max=256"`
	Village  string  `json:"village" validate:"max=256"`
	Lat      float32 `json:"lat"`
	Lng      float32 `json:"lng"`

	Amenities     utils.FlexibleStringList `json:"amenities"`
	Disadvantages utils.FlexibleStringList `json:"disadvantages"`
	LandRecord    utils.FlexibleStringMap  `json:"landRecord"`
	Images        []ListingImageInput      `json:"images" validate:"max=10"`

	ContactName  string `json:"contactName" validate:"max=256"`
	ContactPhone string `json:"contactPhone" validate:"max=32"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
}
