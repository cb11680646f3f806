// Package web provides the HTTP server of the user panel: routing,
// middleware, controllers and background job scheduling.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"user-panel/config"
	"user-panel/logger"
	"user-panel/util/common"
	"user-panel/web/controller"
	"user-panel/web/job"
	"user-panel/web/middleware"
	"user-panel/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

// shutdownTimeout bounds how long Stop waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// Server is the panel web server with its controllers, notification worker
// and scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	auth   *controller.AuthController
	user   *controller.UserController
	server *controller.ServerController

	notifyService *service.NotifyService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		notifyService: service.NewNotifyService(),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// initRouter initializes Gin, registers middleware and controllers and
// returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	if webDomain := config.GetWebDomain(); webDomain != "" {
		engine.Use(middleware.DomainValidatorMiddleware(webDomain))
	}

	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	api := engine.Group("/api")
	{
		s.auth = controller.NewAuthController(api, s.notifyService)
		s.user = controller.NewUserController(api)
		s.server = controller.NewServerController(api)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return engine, nil
}

// startTask schedules the background maintenance jobs.
func (s *Server) startTask() {
	s.cron.AddJob("@daily", job.NewClearLogsJob())
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	s.notifyService.Start()

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the web server, cron jobs and the
// notification worker.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err1 = s.httpServer.Shutdown(shutdownCtx)
		cancel()
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	// After the HTTP server is down no handler can enqueue anymore.
	if s.notifyService != nil {
		s.notifyService.Stop()
	}
	return common.Combine(err1, err2)
}
