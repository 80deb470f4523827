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

// CreateContact is the public contact form. The message is routed to the
// first active admin; without one the inbox has no owner and the request
// cannot be accepted.
func CreateContact(ctx iris.Context) {
	var input ContactInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	admin, err := firstActiveAdmin()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if admin == nil {
		utils.CreateError(iris.StatusInternalServerError, "Dependency Error",
			"No recipient is available for contact messages.", ctx)
		return
	}

	message := models.Message{
		GuestName:   strings.TrimSpace(input.Name),
		GuestEmail:  strings.ToLower(strings.TrimSpace(input.Email)),
		RecipientID: admin.ID,
		Subject:     input.Subject,
		Body:        input.Body,
		Type:        input.messageType(),
		Priority:    "normal",
		Status:      models.MessageStatusNew,
		Metadata:    contactMetadata("contact_form", utils.ClientIP(ctx), ctx.GetHeader("User-Agent"), input.PropertyID),
	}
	if input.PropertyID != nil {
		message.Type = "property_inquiry"
	}

	if err := storage.DB.Create(&message).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, &message)
}

// CreateMessage is the authenticated variant of the contact form: the
// sender is taken from the token, not the payload.
func CreateMessage(ctx iris.Context) {
	userID := utils.ActingUserID(ctx)

	var input MessageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	sender, err := getUserByID(userID)
	if err != nil || sender == nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	admin, err := firstActiveAdmin()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if admin == nil {
		utils.CreateError(iris.StatusInternalServerError, "Dependency Error",
			"No recipient is available for contact messages.", ctx)
		return
	}

	message := models.Message{
		SenderID:    &userID,
		GuestName:   sender.Name,
		GuestEmail:  sender.Email,
		RecipientID: admin.ID,
		Subject:     input.Subject,
		Body:        input.Body,
		Type:        input.messageType(),
		Priority:    "normal",
		Status:      models.MessageStatusNew,
		Metadata:    contactMetadata("account", utils.ClientIP(ctx), ctx.GetHeader("User-Agent"), nil),
	}

	if err := storage.DB.Create(&message).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, &message)
}

func AdminListMessages(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	q := storage.DB.Model(&models.Message{})
	if status := ctx.URLParam("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if msgType := ctx.URLParam("type"); msgType != "" {
		q = q.Where("type = ?", msgType)
	}
	if priority := ctx.URLParam("priority"); priority != "" {
		q = q.Where("priority = ?", priority)
	}

	var total int64
	q.Count(&total)

	var messages []models.Message
	err := q.Preload("Sender").Offset((page - 1) * perPage).Limit(perPage).
		Order("created_at DESC").Find(&messages).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, messages, page, perPage, total)
}

// ReplyMessage creates a reply row linked back to the original through
// metadata and flips the original to replied. The email copy to the
// sender is best-effort.
func ReplyMessage(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid message ID.", ctx)
		return
	}
	adminID := utils.ActingUserID(ctx)

	var original models.Message
	if err := storage.DB.First(&original, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input ReplyMessageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	reply := buildReply(original, adminID, input.Body)
	if err := storage.DB.Create(&reply).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	original.Status = models.MessageStatusReplied
	if err := storage.DB.Save(&original).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if original.GuestEmail != "" {
		go func(to, subject, body string) {
			html := fmt.Sprintf("<p>%s</p>", body)
			if _, err := utils.SendMail(to, subject, html); err != nil {
				utils.Logger.Warn().Err(err).Str("to", to).Msg("reply email failed")
			}
		}(original.GuestEmail, reply.Subject, input.Body)
	}

	utils.JSONSuccess(ctx, &reply)
}

// MarkMessageRead is idempotent: re-reading an already read message is a
// no-op success.
func MarkMessageRead(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid message ID.", ctx)
		return
	}

	var message models.Message
	if err := storage.DB.First(&message, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if !message.IsRead {
		now := time.Now()
		message.IsRead = true
		message.ReadAt = &now
		if message.Status == models.MessageStatusNew {
			message.Status = models.MessageStatusRead
		}
		if err := storage.DB.Save(&message).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	utils.JSONSuccess(ctx, &message)
}

func UpdateMessageTriage(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid message ID.", ctx)
		return
	}

	var message models.Message
	if err := storage.DB.First(&message, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input TriageMessageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Status != nil {
		message.Status = *input.Status
	}
	if input.Priority != nil {
		message.Priority = *input.Priority
	}
	if err := storage.DB.Save(&message).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, &message)
}

func DeleteMessage(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid message ID.", ctx)
		return
	}

	var message models.Message
	if err := storage.DB.First(&message, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&models.Message{}, message.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	audit(ctx, "message.delete", "message", message.ID, message, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

// MessageStats reports inbox counts: by status, type and priority, the
// unread backlog, and rolling 30-day volume.
func MessageStats(ctx iris.Context) {
	byStatus, err := countMessagesBy("status")
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	byType, err := countMessagesBy("type")
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	byPriority, err := countMessagesBy("priority")
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var unread int64
	storage.DB.Model(&models.Message{}).Where("is_read = ?", false).Count(&unread)

	var last30Days int64
	storage.DB.Model(&models.Message{}).
		Where("created_at >= ?", time.Now().AddDate(0, 0, -30)).Count(&last30Days)

	utils.JSONSuccess(ctx, iris.Map{
		"byStatus":   byStatus,
		"byType":     byType,
		"byPriority": byPriority,
		"unread":     unread,
		"last30Days": last30Days,
	})
}

func countMessagesBy(column string) (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := storage.DB.Model(&models.Message{}).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Key] = r.Count
	}
	return counts, nil
}

// contactMetadata captures the request context of an inbound message.
// Property inquiries carry the listing they are about so triage can jump
// to it.
func contactMetadata(source, ip, userAgent string, propertyID *uint) datatypes.JSON {
	meta := map[string]interface{}{
		"source":    source,
		"ip":        ip,
		"userAgent": userAgent,
	}
	if propertyID != nil {
		meta["propertyID"] = *propertyID
	}
	raw, _ := json.Marshal(meta)
	return datatypes.JSON(raw)
}

// buildReply assembles the reply row: addressed to the original sender,
// linked back through metadata.replyTo. Guest originals keep a zero
// recipient; the guest is reached by email only.
func buildReply(original models.Message, adminID uint, body string) models.Message {
	metadata, _ := json.Marshal(map[string]interface{}{
		"replyTo": original.ID,
	})

	reply := models.Message{
		SenderID:   &adminID,
		GuestEmail: original.GuestEmail,
		Subject:    "Re: " + original.Subject,
		Body:       body,
		Type:       original.Type,
		Priority:   original.Priority,
		Status:     models.MessageStatusClosed,
		Metadata:   datatypes.JSON(metadata),
	}
	if original.SenderID != nil {
		reply.RecipientID = *original.SenderID
	}
	return reply
}

func firstActiveAdmin() (*models.User, error) {
	var admin models.User
	result := storage.DB.Where("role = ? AND is_active = ?", "admin", true).
		Order("id ASC").Limit(1).Find(&admin)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &admin, nil
}

type ContactInput struct {
	Name       string `json:"name" validate:"required,max=256"`
	Email      string `json:"email" validate:"required,email"`
	Subject    string `json:"subject" validate:"required,max=512"`
	Body       string `json:"body" validate:"required,max=10000"`
	Type       string `json:"type" validate:"omitempty,oneof=general property_inquiry agent_contact support"`
	PropertyID *uint  `json:"propertyID"`
}

func (i ContactInput) messageType() string {
	if i.Type == "" {
		return "general"
	}
	return i.Type
}

type MessageInput struct {
	Subject string `json:"subject" validate:"required,max=512"`
	Body    string `json:"body" validate:"required,max=10000"`
	Type    string `json:"type" validate:"omitempty,oneof=general property_inquiry agent_contact support"`
}

func (i MessageInput) messageType() string {
	if i.Type == "" {
		return "general"
	}
	return i.Type
}

type ReplyMessageInput struct {
	Body string `json:"body" validate:"required,max=10000"`
}

type TriageMessageInput struct {
	Status   *string `json:"status" validate:"omitempty,oneof=new read replied closed"`
	Priority *string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}
