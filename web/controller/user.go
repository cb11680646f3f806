package controller

import (
	"net/http"
	"strconv"

	"user-panel/database/model"
	"user-panel/logger"
	"user-panel/web/entity"
	"user-panel/web/middleware"
	"user-panel/web/service"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// UserController exposes the account endpoints: the authenticated user's
// own profile plus administrative CRUD over all accounts.
type UserController struct {
	userService service.UserService
}

// NewUserController creates the controller and registers its routes.
func NewUserController(g *gin.RouterGroup) *UserController {
	a := &UserController{}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	me := g.Group("/me")
	me.Use(middleware.TokenAuth())
	{
		me.GET("", a.me)
	}

	users := g.Group("/users")
	users.Use(middleware.TokenAuth(), middleware.LevelRequired(model.LevelAdmin, model.LevelSuperUser))
	{
		users.GET("", a.list)
		users.POST("", a.create)
		users.GET("/:id", a.read)
		users.PUT("/:id", a.update)
		users.DELETE("/:id", a.delete)
		users.GET("/:id/picture", a.picture)
	}
}

// me returns the profile of the token's subject.
func (a *UserController) me(c *gin.Context) {
	userId := c.GetInt(middleware.ContextUserId)

	user, err := a.userService.GetUser(userId)
	if err != nil {
		jsonServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.NewUserView(user))
}

func (a *UserController) list(c *gin.Context) {
	users, err := a.userService.ListUsers()
	if err != nil {
		jsonServiceError(c, err)
		return
	}

	views := make([]entity.UserView, 0, len(users))
	for i := range users {
		views = append(views, entity.NewUserView(&users[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (a *UserController) create(c *gin.Context) {
	var form entity.CreateUserForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "username, email and password are required")
		return
	}

	user := &model.User{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		Level:    form.Level,
		Status:   form.Status,
	}
	if err := a.userService.CreateUser(user); err != nil {
		jsonServiceError(c, err)
		return
	}

	logger.Infof("user %q created by %q", form.Username, c.GetString(middleware.ContextUsername))
	jsonMessage(c, http.StatusCreated, "User created successfully!")
}

func (a *UserController) read(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := a.userService.GetUser(id)
	if err != nil {
		jsonServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.NewUserView(user))
}

func (a *UserController) update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var form entity.UpdateUserForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid form data")
		return
	}

	if err := a.userService.UpdateUser(id, form.Username, form.Email, form.Level, form.Status); err != nil {
		jsonServiceError(c, err)
		return
	}
	jsonMessage(c, http.StatusOK, "User updated successfully!")
}

func (a *UserController) delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := a.userService.DeleteUser(id); err != nil {
		jsonServiceError(c, err)
		return
	}

	logger.Infof("user %d deleted by %q", id, c.GetString(middleware.ContextUsername))
	jsonMessage(c, http.StatusOK, "User deleted successfully!")
}

// picture streams the stored profile picture as a data URI. Marshalled
// with goccy since payloads run to megabytes.
func (a *UserController) picture(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	picture, err := a.userService.ProfilePicture(id)
	if err != nil {
		jsonServiceError(c, err)
		return
	}

	payload, err := json.Marshal(gin.H{"profile_picture": "data:image/jpeg;base64," + picture})
	if err != nil {
		jsonServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
