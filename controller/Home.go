package controller

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"zistino-api/config"
	"zistino-api/model"
	"zistino-api/utils"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

var Validate = validator.New()
var ctx = context.Background()

func init() {
	// Register the custom validation function
	err := Validate.RegisterValidation("regex", utils.RegexValidation)
	if err != nil {
		utils.LogMessage(utils.CRITICAL, "Init: Error registering regex validation", config.ServiceName)
		panic("Init: Error registering regex validation")
	}
	err = Validate.RegisterValidation("strong_password", utils.IsStrongPassword)
	if err != nil {
		utils.LogMessage(utils.CRITICAL, "Init: Error registering strong_password validation", config.ServiceName)
		panic("Init: Error registering strong_password validation")
	}
}

func Index(c *fiber.Ctx) error {
	c.Accepts("text/plain", "application/json")
	return c.JSON(fiber.Map{"status": 200,
		"message": "Zistino back-office API",
	})
}

func ServiceStatusCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": 200, "message": "This API service is running!"})
}

func LoginWithEmail(c *fiber.Ctx) error {
	type UserData struct {
		Email    string `json:"email" binding:"required" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	responseStatus := 200
	userData := new(UserData)
	if err := c.BodyParser(userData); err != nil || userData.Email == "" {
		responseStatus = 400
		c.SendStatus(responseStatus)
		return c.JSON(fiber.Map{"status": responseStatus, "message": "Please provide all required data", "details": err})
	}
	if err := Validate.Struct(userData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "Provided data are not valid")
	}
	userData.Email = strings.ToLower(userData.Email)
	//check user data
	UserProfile := model.UserProfile{}
	err := config.DB.QueryRow(ctx,
		`select u.id,u.fname,u.lname,u.department_id,d.title as department_title,u.email_verified,u.phone_verified,u.avatar_url,u.status,
	u.can_manage_tiers,u.can_trigger_draw,u.can_record_payments,u.can_add_user,u.phone from users u inner join departments d on u.department_id = d.id
	where email = $1 and password = crypt($2, password)`, userData.Email, userData.Password).
		Scan(&UserProfile.Id, &UserProfile.Fname, &UserProfile.Lname, &UserProfile.Department.Id, &UserProfile.Department.Title, &UserProfile.EmailVerified,
			&UserProfile.PhoneVerified, &UserProfile.AvatarUrl, &UserProfile.Status,
			&UserProfile.CanManageTiers, &UserProfile.CanTriggerDraw, &UserProfile.CanRecordPayments, &UserProfile.CanAddUser, &UserProfile.Phone)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			utils.LogMessage(utils.CRITICAL, fmt.Sprintf("LoginWithEmail: Unable to get user data, Email:%s, err:%v", userData.Email, err), config.ServiceName)
		}
		responseStatus = 403
		c.SendStatus(responseStatus)
		return c.JSON(fiber.Map{"status": responseStatus, "message": "Invalid credentials"})
	} else if UserProfile.Status != "OKAY" {
		responseStatus = 403
		c.SendStatus(responseStatus)
		return c.JSON(fiber.Map{"status": responseStatus, "message": "Your account has been deactivated"})
	}
	UserProfile.Email = userData.Email
	//Generate and save access token
	token, err := generateAccesstoken(UserProfile)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Login failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	c.SendStatus(responseStatus)
	return c.JSON(fiber.Map{"status": responseStatus, "message": "Login completed", "data": UserProfile, "accessToken": token})
}

func generateAccesstoken(userData model.UserProfile) (string, error) {
	payloadData, err := json.Marshal(userData)
	if err != nil {
		return "", fmt.Errorf("unable to marshal payload data for user %d , error: %s", userData.Id, err.Error())
	}
	token := base64.RawStdEncoding.EncodeToString([]byte(fmt.Sprintf("token_%v_%v", userData.Id, time.Now().UnixMilli())))
	if err := config.Redis.Set(ctx, token, payloadData, utils.SessionExpirationTime*time.Minute).Err(); err != nil {
		return "", fmt.Errorf("unable to save user access token for user %d , error: %s", userData.Id, err.Error())
	}
	return token, nil
}

func GetUserProfile(c *fiber.Ctx) error {
	userPayload, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	UserProfile := model.UserProfile{}
	err = config.DB.QueryRow(ctx,
		`select u.id,u.fname,u.lname,u.email,u.phone,u.department_id,d.title as department_title,u.email_verified,u.phone_verified,u.avatar_url,u.status,
	u.can_manage_tiers,u.can_trigger_draw,u.can_record_payments,u.can_add_user from users u inner join departments d on u.department_id = d.id where u.id = $1`, userPayload.Id).
		Scan(&UserProfile.Id, &UserProfile.Fname, &UserProfile.Lname, &UserProfile.Email, &UserProfile.Phone, &UserProfile.Department.Id, &UserProfile.Department.Title,
			&UserProfile.EmailVerified, &UserProfile.PhoneVerified, &UserProfile.AvatarUrl, &UserProfile.Status,
			&UserProfile.CanManageTiers, &UserProfile.CanTriggerDraw, &UserProfile.CanRecordPayments, &UserProfile.CanAddUser)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get user profile failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     "GetUserProfile: Unable to verify user info, error: " + err.Error(),
				ServiceName: config.ServiceName,
			})
		}
		return utils.JsonErrorResponse(c, fiber.StatusForbidden, "User data is not valid")
	} else if UserProfile.Status != "OKAY" {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, "Your account is not active")
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "data": UserProfile})
}

func AddUser(c *fiber.Ctx) error {
	userPayload, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	if !userPayload.CanAddUser {
		return utils.JsonErrorResponse(c, fiber.StatusForbidden, "You are not allowed to add users")
	}
	type FormData struct {
		Fname             string `json:"fname" binding:"required" validate:"required,regex=^[a-zA-Z0-9 ]*$"`
		Lname             string `json:"lname" binding:"required" validate:"required,regex=^[a-zA-Z0-9 ]*$"`
		Phone             string `json:"phone" binding:"required" validate:"required,min=10,max=16,regex=^\\+?[0-9]+$"`
		Email             string `json:"email" binding:"required" validate:"required,email"`
		Department        int    `json:"department" binding:"required" validate:"required,number"`
		CanManageTiers    bool   `json:"can_manage_tiers" validate:"boolean"`
		CanTriggerDraw    bool   `json:"can_trigger_draw" validate:"boolean"`
		CanRecordPayments bool   `json:"can_record_payments" validate:"boolean"`
		CanAddUser        bool   `json:"can_add_user" validate:"boolean"`
	}
	responseStatus := 200
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil || formData.Fname == "" {
		responseStatus = 400
		c.SendStatus(responseStatus)
		return c.JSON(fiber.Map{"status": responseStatus, "message": "Please provide all required data", "details": err})
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Provided data are not valid")
	}
	invalidKeys := utils.ValidateStruct(formData, []string{"@", ".", "+"}, []string{})
	errorMessage := utils.ValidateStructText(invalidKeys)
	if errorMessage != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, *errorMessage)
	}
	//insert user data, password is set on first login through the OTP reset flow
	_, err = config.DB.Exec(ctx,
		`insert into users (fname,lname,email,phone,department_id,password,can_manage_tiers,can_trigger_draw,can_record_payments,can_add_user,status,operator)
		values ($1, $2, $3, $4, $5, '-', $6, $7, $8, $9, 'OKAY', $10)`,
		formData.Fname, formData.Lname, strings.ToLower(formData.Email), formData.Phone, formData.Department,
		formData.CanManageTiers, formData.CanTriggerDraw, formData.CanRecordPayments, formData.CanAddUser, userPayload.Id)
	if err != nil {
		if ok, key := utils.IsErrDuplicate(err); ok {
			return utils.JsonErrorResponse(c, fiber.StatusConflict, fmt.Sprintf("Unable to save data, %s already exists", key))
		} else if ok, key := utils.IsForeignKeyErr(err); ok {
			return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, fmt.Sprintf("Unable to save data, %s is invalid", key))
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("AddUser: Unable to save data, Email:%s, err:%v", formData.Email, err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": responseStatus, "message": "User added successfully"})
}

func GetUsers(c *fiber.Ctx) error {
	_, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	users := []model.UserProfile{}
	rows, err := config.DB.Query(ctx,
		`select u.id,u.fname,u.lname,u.email,u.phone,u.department_id,d.title as department_title,u.email_verified,u.phone_verified,u.avatar_url,u.status,
			u.can_manage_tiers,u.can_trigger_draw,u.can_record_payments,u.can_add_user from users u inner join departments d on u.department_id = d.id order by u.id`)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get users data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "GetUsers: Unable to get users data, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	for rows.Next() {
		user := model.UserProfile{}
		err = rows.Scan(&user.Id, &user.Fname, &user.Lname, &user.Email, &user.Phone, &user.Department.Id, &user.Department.Title, &user.EmailVerified,
			&user.PhoneVerified, &user.AvatarUrl, &user.Status, &user.CanManageTiers, &user.CanTriggerDraw, &user.CanRecordPayments, &user.CanAddUser)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get users data failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     "GetUsers: Unable to get users data, error: " + err.Error(),
				ServiceName: config.ServiceName,
			})
		}
		users = append(users, user)
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "data": users})
}

func ChangeUserStatus(c *fiber.Ctx) error {
	userPayload, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	if !userPayload.CanAddUser {
		return utils.JsonErrorResponse(c, fiber.StatusForbidden, "You are not allowed to manage users")
	}
	userId, err := c.ParamsInt("userId")
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "Please provide a valid user id")
	}
	type FormData struct {
		Status string `json:"status" validate:"required,oneof=OKAY inactive"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "Please provide all required data")
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Provided data are not valid")
	}
	tag, err := config.DB.Exec(ctx, `update users set status=$1, updated_at=now() where id=$2`, formData.Status, userId)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Change user status failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("ChangeUserStatus: Unable to update user %d, err:%v", userId, err),
			ServiceName: config.ServiceName,
		})
	}
	if tag.RowsAffected() == 0 {
		return utils.JsonErrorResponse(c, fiber.StatusNotFound, "user id provided is not valid")
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "User status updated successfully"})
}

func GetDepartments(c *fiber.Ctx) error {
	_, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	departments := []model.Department{}
	rows, err := config.DB.Query(ctx, `select id,title,created_at from departments order by id`)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get departments failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "GetDepartments: Unable to get departments, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	for rows.Next() {
		department := model.Department{}
		if err = rows.Scan(&department.Id, &department.Title, &department.CreatedAt); err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Get departments failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     "GetDepartments: Unable to get departments, error: " + err.Error(),
				ServiceName: config.ServiceName,
			})
		}
		departments = append(departments, department)
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "data": departments})
}

func ChangePassword(c *fiber.Ctx) error {
	userPayload, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, err.Error())
	}
	type FormData struct {
		OldPassword string `json:"current_password" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8,max=50,strong_password"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "Please provide all required data")
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "provided password is not strong")
	}
	var password, status string
	err = config.DB.QueryRow(ctx, "select password,status from users where id=$1", userPayload.Id).
		Scan(&password, &status)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Change password failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     "ChangePassword: Unable to verify user info, error: " + err.Error(),
				ServiceName: config.ServiceName,
			})
		}
		return utils.JsonErrorResponse(c, fiber.StatusForbidden, "User data is not valid")
	} else if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(formData.OldPassword)); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Old password is incorrect")
	} else if status != "OKAY" {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, "Your account is not active")
	}
	_, err = config.DB.Exec(ctx, "update users set password=crypt($1, gen_salt('bf')), updated_at=now() where id=$2", formData.NewPassword, userPayload.Id)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Change password failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("ChangePassword: Unable to change password for %d! Err: %s", userPayload.Id, err.Error()),
			ServiceName: config.ServiceName,
		})
	}
	c.SendStatus(200)
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": fmt.Sprintf("Dear %s, your password changed successfully", userPayload.Fname)})
}

func ForgotPassword(c *fiber.Ctx) error {
	type FormData struct {
		Email string `json:"email" validate:"required,email"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "Please provide all required data")
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "Please provide all required data")
	}
	uniqueResetTokenKey := base64.RawStdEncoding.EncodeToString([]byte(formData.Email + utils.RandString(20)))
	//send a success message even when the email is unknown to protect from email guessing
	successResponse := c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "You will receive an SMS if we found an account match with this email",
		"reset_key": uniqueResetTokenKey, "email": formData.Email})
	var id, status, fname, phone string
	err := config.DB.QueryRow(ctx, "select id,status,fname,phone from users where email=$1 limit 1", strings.ToLower(formData.Email)).
		Scan(&id, &status, &fname, &phone)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Reset password failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     "ForgotPassword: Unable to verify user info, error: " + err.Error(),
				ServiceName: config.ServiceName,
			})
		}
		return successResponse
	} else if status != "OKAY" {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, "Your account is not active")
	}
	otp, err := utils.GenerateOTP(6)
	if utils.IsTestMode {
		otp = "123456"
	}
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Reset password failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     "ForgotPassword: Unable to generate otp, error: " + err.Error(),
			ServiceName: config.ServiceName,
		})
	}
	otpData, err := json.Marshal(map[string]any{
		"otp":        otp,
		"email":      formData.Email,
		"phone":      phone,
		"userId":     id,
		"fname":      fname,
		"created_at": time.Now(),
	})
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Reset password failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("ForgotPassword: unable to marshal payload data for email %s, error:%s ", formData.Email, err.Error()),
			ServiceName: config.ServiceName,
		})
	}
	err = config.Redis.Set(c.Context(), uniqueResetTokenKey, otpData, time.Minute*20).Err()
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Reset password failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("ForgotPassword: unable to save redis data for email %s, error:%s ", formData.Email, err.Error()),
			ServiceName: config.ServiceName,
		})
	}
	go utils.SendSMS(phone, fmt.Sprintf("Dear %s, %s is the OTP for resetting your password. don't share it with anyone.", fname, otp),
		viper.GetString("sender_id"), config.ServiceName, "reset_password_otp", config.SMSTx)
	return successResponse
}

func ValidateOTP(c *fiber.Ctx) error {
	type FormData struct {
		Otp      string `json:"otp" validate:"required"`
		ResetKey string `json:"reset_key" validate:"required"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "Please provide all required data")
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "Please provide all required data with a valid format")
	}
	otpTxtData, err := config.Redis.Get(c.Context(), formData.ResetKey).Result()
	if err == redis.Nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Invalid or expired OTP provided")
	} else if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Reset password failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("ValidateOTP: unable to fetch otp data from redis, reset_key: %s, error:%s ", formData.ResetKey, err.Error()),
			ServiceName: config.ServiceName,
		})
	}
	otpData := make(map[string]any)
	err = json.Unmarshal([]byte(otpTxtData), &otpData)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Reset password failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("ValidateOTP: unable to unmarshal payload data, Data: %s, error:%s ", otpTxtData, err.Error()),
			ServiceName: config.ServiceName,
		})
	}
	if otpData["otp"].(string) != formData.Otp {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Invalid OTP provided")
	}
	uniqueResetTokenKey := base64.RawStdEncoding.EncodeToString([]byte(otpData["email"].(string) + utils.RandString(20)))
	resetPasswordData, err := json.Marshal(map[string]any{
		"email":      otpData["email"],
		"phone":      otpData["phone"],
		"userId":     otpData["userId"],
		"fname":      otpData["fname"],
		"created_at": time.Now(),
	})
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Reset password failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("ValidateOTP: unable to marshal payload data for email %s, error:%s ", otpData["email"], err.Error()),
			ServiceName: config.ServiceName,
		})
	}
	err = config.Redis.Set(c.Context(), uniqueResetTokenKey, resetPasswordData, time.Minute*20).Err()
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Validate OTP failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("ValidateOTP: unable to save redis data for email %s, error:%s ", otpData["email"], err.Error()),
			ServiceName: config.ServiceName,
		})
	}
	err = config.Redis.Del(c.Context(), formData.ResetKey).Err()
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Validate OTP failed, please restart the action again", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("ValidateOTP: unable to delete redis data for email %s, error:%s ", otpData["email"], err.Error()),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "OTP is valid, set your new password", "reset_key": uniqueResetTokenKey,
		"email": otpData["email"]})
}

func SetNewPassword(c *fiber.Ctx) error {
	type FormData struct {
		Password string `json:"password" validate:"required,min=8,max=50,strong_password"`
		ResetKey string `json:"reset_key" validate:"required"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "Please provide all required data")
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, "provided password is not strong")
	}
	otpTxtData, err := config.Redis.Get(c.Context(), formData.ResetKey).Result()
	if err == redis.Nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, "Unable to reset password, invalid verify key")
	} else if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Reset password failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("SetNewPassword: unable to fetch reset password data from redis, reset_key: %s, error:%s ", formData.ResetKey, err.Error()),
			ServiceName: config.ServiceName,
		})
	}
	resetData := make(map[string]any)
	err = json.Unmarshal([]byte(otpTxtData), &resetData)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Reset password failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("SetNewPassword: unable to unmarshal payload data, Data: %s, error:%s ", otpTxtData, err.Error()),
			ServiceName: config.ServiceName,
		})
	}
	//update password
	_, err = config.DB.Exec(ctx, "update users set password=crypt($1, gen_salt('bf')), updated_at=now() where id=$2", formData.Password, resetData["userId"])
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, "Reset password failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("SetNewPassword: unable to update password, Email: %s, userId: %s, error:%s ", resetData["email"], resetData["userId"], err.Error()),
			ServiceName: config.ServiceName,
		})
	}
	config.Redis.Del(c.Context(), formData.ResetKey)
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "Password reset completed", "email": resetData["email"]})
}
