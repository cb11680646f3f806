package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"user-panel/config"
	"user-panel/database"
	"user-panel/logger"
	"user-panel/util/random"
	"user-panel/web"
	"user-panel/web/token"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
)

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}

	secret := config.GetJWTSecret()
	if secret == "" {
		// Tokens will not survive a restart without a provisioned secret.
		logger.Warning("PANEL_JWT_SECRET not set, generating a random secret")
		secret = random.Seq(32)
	}
	if err := token.Init(secret); err != nil {
		log.Fatal(err)
	}

	if err := database.InitDB(config.GetDBPath()); err != nil {
		log.Fatal(err)
	}

	server := web.NewServer()
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			_ = server.Stop()
			if err := database.CloseDB(); err != nil {
				logger.Warning("close database err:", err)
			}
			logger.CloseLogger()
			return
		}
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded:", err)
	}
	runWebServer()
}
