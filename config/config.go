package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("PANEL_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("PANEL_DEBUG") == "true"
}

func GetListen() string {
	return os.Getenv("PANEL_LISTEN")
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("PANEL_PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return 8080
	}
	return port
}

func GetWebDomain() string {
	return os.Getenv("PANEL_WEB_DOMAIN")
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("PANEL_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/user-panel"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("PANEL_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

// GetJWTSecret returns the token signing secret. Empty means no secret was
// provisioned; the caller decides the fallback.
func GetJWTSecret() string {
	return os.Getenv("PANEL_JWT_SECRET")
}

func GetSMTPHost() string {
	return os.Getenv("SMTP_HOST")
}

func GetSMTPPort() int {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return 587
	}
	return port
}

func GetSMTPUser() string {
	return os.Getenv("SMTP_USER")
}

func GetSMTPPass() string {
	return os.Getenv("SMTP_PASS")
}

// GetAdminEmail is the recipient for password reset notifications.
func GetAdminEmail() string {
	adminEmail := os.Getenv("PANEL_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}
	return adminEmail
}
