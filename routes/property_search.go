package routes

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/foremostprojects1/Locatex-final-backend/models"
	"github.com/foremostprojects1/Locatex-final-backend/storage"
	"github.com/foremostprojects1/Locatex-final-backend/utils"
	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

const (
	cityAggregatesKey = "locatex:agg:cities"
	typeAggregatesKey = "locatex:agg:types"
	aggregatesTTL     = 5 * time.Minute
)

// publiclyVisibleScope is the anonymous visibility filter: published, or
// approved by moderation.
func publiclyVisibleScope(db *gorm.DB) *gorm.DB {
	return db.Where("is_published = ? OR approval_status = ?", true, models.ApprovalApproved)
}

// ListProperties is the public catalog: filters compose as an implicit
// AND, visibility is always enforced, results are paginated.
func ListProperties(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 10)
	if perPage <= 0 || perPage > 100 {
		perPage = 10
	}

	q := storage.DB.Model(&models.Property{}).Scopes(publiclyVisibleScope)

	if minPrice, err := ctx.URLParamFloat64("minPrice"); err == nil && minPrice > 0 {
		q = q.Where("price >= ?", minPrice)
	}
	if maxPrice, err := ctx.URLParamFloat64("maxPrice"); err == nil && maxPrice > 0 {
		q = q.Where("price <= ?", maxPrice)
	}
	if pType := strings.TrimSpace(ctx.URLParam("propertyType")); pType != "" {
		q = q.Where("property_type = ?", pType)
	}
	if status := strings.TrimSpace(ctx.URLParam("status")); status != "" {
		q = q.Where("status = ?", status)
	}
	if city := strings.TrimSpace(ctx.URLParam("city")); city != "" {
		q = q.Where("lower(city) LIKE ?", "%"+strings.ToLower(city)+"%")
	}
	if district := strings.TrimSpace(ctx.URLParam("district")); district != "" {
		q = q.Where("lower(district) LIKE ?", "%"+strings.ToLower(district)+"%")
	}
	if village := strings.TrimSpace(ctx.URLParam("village")); village != "" {
		q = q.Where("lower(village) LIKE ?", "%"+strings.ToLower(village)+"%")
	}
	if bedrooms, err := ctx.URLParamInt("bedrooms"); err == nil && bedrooms > 0 {
		q = q.Where("bedrooms = ?", bedrooms)
	}
	if bathrooms, err := ctx.URLParamInt("bathrooms"); err == nil && bathrooms > 0 {
		q = q.Where("bathrooms = ?", bathrooms)
	}
	if minArea, err := ctx.URLParamFloat64("minArea"); err == nil && minArea > 0 {
		q = q.Where("area >= ?", minArea)
	}
	if maxArea, err := ctx.URLParamFloat64("maxArea"); err == nil && maxArea > 0 {
		q = q.Where("area <= ?", maxArea)
	}

	switch strings.ToLower(strings.TrimSpace(ctx.URLParam("sort"))) {
	case "price_low":
		q = q.Order("price ASC").Order("id DESC")
	case "price_high":
		q = q.Order("price DESC").Order("id DESC")
	case "area_low":
		q = q.Order("area ASC").Order("id DESC")
	case "area_high":
		q = q.Order("area DESC").Order("id DESC")
	case "oldest":
		q = q.Order("created_at ASC")
	default:
		q = q.Order("created_at DESC")
	}

	var total int64
	q.Count(&total)

	var properties []models.Property
	if err := q.Offset((page - 1) * perPage).Limit(perPage).Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, properties, page, perPage, total)
}

// SearchProperties runs relevance-ranked full-text search over title,
// description and location fields, restricted to visible listings.
func SearchProperties(ctx iris.Context) {
	query := strings.TrimSpace(ctx.URLParam("q"))
	if query == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Search query is required.", ctx)
		return
	}

	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}

	document := "to_tsvector('simple', coalesce(title,'') || ' ' || coalesce(description,'') || ' ' || " +
		"coalesce(city,'') || ' ' || coalesce(district,'') || ' ' || coalesce(village,'') || ' ' || coalesce(address,''))"

	base := storage.DB.Model(&models.Property{}).Scopes(publiclyVisibleScope).
		Where(document+" @@ plainto_tsquery('simple', ?)", query)

	var total int64
	base.Count(&total)

	var properties []models.Property
	err := base.
		Select("*, ts_rank("+document+", plainto_tsquery('simple', ?)) AS rank", query).
		Order("rank DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&properties).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, properties, page, perPage, total)
}

// GetFeaturedProperties returns visible listings flagged as featured.
func GetFeaturedProperties(ctx iris.Context) {
	limit := ctx.URLParamIntDefault("limit", 10)
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var properties []models.Property
	err := storage.DB.Scopes(publiclyVisibleScope).
		Where("is_featured = ?", true).
		Order("created_at DESC").Limit(limit).
		Find(&properties).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, properties)
}

type locationAggregate struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// GetCityAggregates returns visible-listing counts per city, cached in
// redis for a few minutes. Cache failures fall through to the database.
func GetCityAggregates(ctx iris.Context) {
	serveAggregates(ctx, cityAggregatesKey, "city")
}

// GetTypeAggregates returns visible-listing counts per property type.
func GetTypeAggregates(ctx iris.Context) {
	serveAggregates(ctx, typeAggregatesKey, "property_type")
}

func serveAggregates(ctx iris.Context, cacheKey, column string) {
	bg := context.Background()

	if storage.Redis != nil {
		if cached, err := storage.Redis.Get(bg, cacheKey).Result(); err == nil {
			var aggregates []locationAggregate
			if json.Unmarshal([]byte(cached), &aggregates) == nil {
				utils.JSONSuccess(ctx, aggregates)
				return
			}
		}
	}

	var aggregates []locationAggregate
	err := storage.DB.Model(&models.Property{}).Scopes(publiclyVisibleScope).
		Select(column + " AS label, COUNT(*) AS count").
		Where(column + " <> ''").
		Group(column).
		Order("count DESC").
		Scan(&aggregates).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if storage.Redis != nil {
		if raw, err := json.Marshal(aggregates); err == nil {
			if err := storage.Redis.Set(bg, cacheKey, raw, aggregatesTTL).Err(); err != nil {
				utils.Logger.Warn().Err(err).Str("key", cacheKey).Msg("aggregate cache write failed")
			}
		}
	}

	utils.JSONSuccess(ctx, aggregates)
}
