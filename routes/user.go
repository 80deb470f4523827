package routes

import (
	"fmt"
	"strings"
	"time"

	"github.com/foremostprojects1/Locatex-final-backend/models"
	"github.com/foremostprojects1/Locatex-final-backend/storage"
	"github.com/foremostprojects1/Locatex-final-backend/utils"
	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
)

func Register(ctx iris.Context) {
	var userInput RegisterUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if userInput.Email == "" && userInput.Mobile == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Either email or mobile is required.", ctx)
		return
	}

	var existing models.User
	userExists, userExistsErr := getAndHandleUserExists(&existing, userInput.Email, userInput.Mobile)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if userExists {
		utils.CreateAccountAlreadyRegistered(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	role := userInput.Role
	if role == "" {
		role = "user"
	}

	newUser := models.User{
		Name:     userInput.Name,
		Email:    strings.ToLower(userInput.Email),
		Mobile:   userInput.Mobile,
		Password: hashedPassword,
		Role:     role,
	}

	if err := storage.DB.Create(&newUser).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	returnUser(newUser, ctx)
}

func Login(ctx iris.Context) {
	var userInput LoginUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if userInput.Email == "" && userInput.Mobile == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Either email or mobile is required.", ctx)
		return
	}

	var existingUser models.User
	errorMsg := "Invalid credentials."
	userExists, userExistsErr := getAndHandleUserExists(&existingUser, userInput.Email, userInput.Mobile)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !userExists {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(userInput.Password))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	if existingUser.IsActive != nil && !*existingUser.IsActive {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Account is deactivated.", ctx)
		return
	}

	returnUser(existingUser, ctx)
}

// UpdatePassword verifies the current password before setting the new one
// and hands back a fresh access token. Previously issued tokens stay valid
// until they expire since tokens are stateless.
func UpdatePassword(ctx iris.Context) {
	userID := utils.ActingUserID(ctx)

	var input UpdatePasswordInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Credentials Error", "Current password is incorrect.", ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(input.NewPassword)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Model(&user).Update("password", hashedPassword).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	token, tokenErr := utils.CreateAccessToken(user.ID, user.Role)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.Map{"accessToken": token})
}

func ForgotPassword(ctx iris.Context) {
	var emailInput EmailRegisteredInput
	err := ctx.ReadJSON(&emailInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	userExists, userExistsErr := getAndHandleUserExists(&user, emailInput.Email, "")
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !userExists {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Invalid email.", ctx)
		return
	}

	// Single-use token: the cleartext goes in the email, only its hash and
	// an expiry are stored.
	token := utils.GenerateShortToken(32)
	if token == "" {
		utils.CreateInternalServerError(ctx)
		return
	}

	expiry := time.Now().Add(15 * time.Minute)
	updates := map[string]interface{}{
		"reset_token_hash":   utils.HashResetToken(token),
		"reset_token_expiry": expiry,
	}
	if err := storage.DB.Model(&user).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	link := strings.TrimSuffix(ctx.GetHeader("Origin"), "/") + "/resetpassword/" + token
	subject := "Forgot Your Password?"
	html := `
	<p>It looks like you forgot your password.
	If you did, please click the link below to reset it.
	If you did not, disregard this email. Please update your password
	within 15 minutes, otherwise you will have to repeat this
	process. <a href=` + link + `>Click to Reset Password</a>
	</p><br />`

	emailSent, emailSentErr := utils.SendMail(user.Email, subject, html)
	if emailSentErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.Map{"emailSent": emailSent})
}

func ResetPassword(ctx iris.Context) {
	var input ResetPasswordInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	result := storage.DB.Where("reset_token_hash = ?", utils.HashResetToken(input.Token)).
		Where("reset_token_hash <> ''").First(&user)
	if result.Error != nil || user.ResetTokenExpiry == nil || user.ResetTokenExpiry.Before(time.Now()) {
		utils.CreateError(iris.StatusBadRequest, "Token Error", "Reset token is invalid or expired.", ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(input.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	updates := map[string]interface{}{
		"password":           hashedPassword,
		"reset_token_hash":   "",
		"reset_token_expiry": nil,
	}
	if err := storage.DB.Model(&user).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.Map{"passwordReset": true})
}

func GetProfile(ctx iris.Context) {
	userID := utils.ActingUserID(ctx)

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONSuccess(ctx, &user)
}

// UpdateProfile changes name and avatar. Email and mobile are credentials,
// not profile fields, and stay immutable here.
func UpdateProfile(ctx iris.Context) {
	userID := utils.ActingUserID(ctx)

	var input UpdateProfileInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Avatar != "" {
		publicID := fmt.Sprintf("avatar_%d_%d", user.ID, time.Now().UnixMilli())
		if url := storage.UploadBase64Image(input.Avatar, publicID); url != "" {
			user.AvatarURL = url
		}
	}

	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, &user)
}

// getAndHandleUserExists matches on lowered email or exact mobile; either
// may be empty.
func getAndHandleUserExists(user *models.User, email string, mobile string) (exists bool, err error) {
	query := storage.DB
	switch {
	case email != "" && mobile != "":
		query = query.Where("email = ? OR mobile = ?", strings.ToLower(email), mobile)
	case email != "":
		query = query.Where("email = ?", strings.ToLower(email))
	case mobile != "":
		query = query.Where("mobile = ?", mobile)
	default:
		return false, nil
	}

	userExistsQuery := query.Limit(1).Find(user)
	if userExistsQuery.Error != nil {
		return false, userExistsQuery.Error
	}

	return userExistsQuery.RowsAffected > 0, nil
}

func hashAndSaltPassword(password string) (hashedPassword string, err error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func returnUser(user models.User, ctx iris.Context) {
	token, tokenErr := utils.CreateAccessToken(user.ID, user.Role)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.Map{
		"user":        &user,
		"accessToken": token,
	})
}

type RegisterUserInput struct {
	Name     string `json:"name" validate:"required,max=256"`
	Email    string `json:"email" validate:"omitempty,email"`
	Mobile   string `json:"mobile" validate:"omitempty,min=7,max=15"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	Role     string `json:"role" validate:"omitempty,oneof=user agent"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Mobile   string `json:"mobile" validate:"omitempty,min=7,max=15"`
	Password string `json:"password" validate:"required"`
}

type UpdatePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=256"`
}

type EmailRegisteredInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

type UpdateProfileInput struct {
	Name   string `json:"name" validate:"omitempty,max=256"`
	Avatar string `json:"avatar"`
}
