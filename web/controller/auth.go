// Package controller provides the HTTP handlers of the user panel API.
package controller

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"user-panel/database/model"
	"user-panel/logger"
	"user-panel/util/common"
	"user-panel/web/entity"
	"user-panel/web/service"

	"github.com/gin-gonic/gin"
)

// maxProfilePictureSize caps uploaded profile pictures.
const maxProfilePictureSize = 2 << 20

// AuthController handles registration, login and password-reset requests.
type AuthController struct {
	userService   service.UserService
	notifyService *service.NotifyService
}

// NewAuthController creates the controller and registers its routes.
func NewAuthController(g *gin.RouterGroup, notifyService *service.NotifyService) *AuthController {
	a := &AuthController{notifyService: notifyService}
	a.initRouter(g)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup) {
	g.POST("/register", a.register)
	g.POST("/login", a.login)
	g.POST("/forgot-password", a.forgotPassword)
}

type registerForm struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
	Level           string `form:"userLevel"`
	Status          string `form:"status"`
}

// register creates an account from a multipart form with an optional
// profile picture.
func (a *AuthController) register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid form data")
		return
	}
	if form.Username == "" || form.Email == "" || form.Password == "" || form.ConfirmPassword == "" {
		jsonError(c, http.StatusBadRequest, "all fields are required")
		return
	}

	picture, err := a.readProfilePicture(c)
	if err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}

	user := &model.User{
		Username:       form.Username,
		Email:          form.Email,
		Password:       form.Password,
		Level:          form.Level,
		Status:         form.Status,
		ProfilePicture: picture,
	}
	if err := a.userService.Register(user, form.ConfirmPassword); err != nil {
		jsonServiceError(c, err)
		return
	}

	logger.Infof("user %q registered from %s", form.Username, getRemoteIp(c))
	jsonMessage(c, http.StatusCreated, "User registered successfully!")
}

// readProfilePicture returns the uploaded picture base64-encoded, or empty
// when the field is absent.
func (a *AuthController) readProfilePicture(c *gin.Context) (string, error) {
	fileHeader, err := c.FormFile("profile_picture")
	if err != nil {
		return "", nil
	}

	if fileHeader.Size > maxProfilePictureSize {
		return "", common.NewErrorf("profile picture exceeds %s", common.FormatSize(maxProfilePictureSize))
	}
	if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
		return "", common.NewError("only image files are allowed")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", common.NewError("could not read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxProfilePictureSize+1))
	if err != nil {
		return "", common.NewError("could not read uploaded file")
	}
	if len(data) > maxProfilePictureSize {
		return "", common.NewErrorf("profile picture exceeds %s", common.FormatSize(maxProfilePictureSize))
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// login verifies credentials and returns a bearer token.
func (a *AuthController) login(c *gin.Context) {
	var form entity.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid form data")
		return
	}
	if form.Identifier() == "" {
		jsonError(c, http.StatusBadRequest, "username or email is required")
		return
	}
	if form.Password == "" {
		jsonError(c, http.StatusBadRequest, "password is required")
		return
	}

	tokenString, err := a.userService.Authenticate(form.Identifier(), form.Password)
	if err != nil {
		logger.Warningf("failed login for %q from %s: %v", form.Identifier(), getRemoteIp(c), err)
		jsonServiceError(c, err)
		return
	}

	logger.Infof("%q logged in successfully from %s", form.Identifier(), getRemoteIp(c))
	c.JSON(http.StatusOK, entity.TokenResponse{Token: tokenString})
}

// forgotPassword confirms the account exists and hands the notification to
// the fire-and-forget mail queue. Delivery failures never affect the
// response.
func (a *AuthController) forgotPassword(c *gin.Context) {
	var form entity.ForgotPasswordForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "email is required")
		return
	}

	user, err := a.userService.GetUserByEmail(form.Email)
	if err != nil {
		jsonServiceError(c, err)
		return
	}

	requestId := a.notifyService.EnqueueResetRequest(user.Email)
	logger.Infof("password reset requested for %s (request %s)", user.Email, requestId)
	jsonMessage(c, http.StatusOK, "Password reset request sent to Admin.")
}
