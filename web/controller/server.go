package controller

import (
	"net/http"
	"strconv"

	"user-panel/database/model"
	"user-panel/logger"
	"user-panel/web/middleware"
	"user-panel/web/service"

	"github.com/gin-gonic/gin"
)

// ServerController exposes panel operations to administrators: system
// status and recent logs.
type ServerController struct {
	serverService service.ServerService
}

// NewServerController creates the controller and registers its routes.
func NewServerController(g *gin.RouterGroup) *ServerController {
	a := &ServerController{}
	a.initRouter(g)
	return a
}

func (a *ServerController) initRouter(g *gin.RouterGroup) {
	server := g.Group("/server")
	server.Use(middleware.TokenAuth(), middleware.LevelRequired(model.LevelAdmin, model.LevelSuperUser))
	{
		server.GET("/status", a.status)
		server.GET("/logs", a.logs)
	}
}

func (a *ServerController) status(c *gin.Context) {
	c.JSON(http.StatusOK, a.serverService.GetStatus())
}

func (a *ServerController) logs(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "50"))
	if err != nil || count <= 0 {
		count = 50
	}
	level := c.DefaultQuery("level", "INFO")

	c.JSON(http.StatusOK, logger.GetLogs(count, level))
}
