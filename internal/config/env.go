package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr        string
	GinMode        string
	DBUser         string
	DBPassword     string
	DBHost         string
	DBName         string
	JWTSecret      string
	PlanFlushDelay time.Duration
}

// LoadEnv reads .env (when present) then the process environment.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env tidak terbaca: %v", err)
	}

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	dbUser := strings.TrimSpace(os.Getenv("DB_USER"))
	if dbUser == "" {
		dbUser = "root"
	}
	dbHost := strings.TrimSpace(os.Getenv("DB_HOST"))
	if dbHost == "" {
		dbHost = "127.0.0.1:3306"
	}
	dbName := strings.TrimSpace(os.Getenv("DB_NAME"))
	if dbName == "" {
		dbName = "travel_app"
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		jwtSecret = "super-secret-key-change-me"
	}

	// debounce window for plan persistence
	flushDelay := 20 * time.Second
	if raw := strings.TrimSpace(os.Getenv("PLAN_FLUSH_DELAY_SECONDS")); raw != "" {
		if sec, err := strconv.Atoi(raw); err == nil && sec > 0 {
			flushDelay = time.Duration(sec) * time.Second
		} else {
			log.Printf("warning: PLAN_FLUSH_DELAY_SECONDS tidak valid (%q), pakai default 20s", raw)
		}
	}

	return Env{
		AppAddr:        appAddr,
		GinMode:        strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBUser:         dbUser,
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBHost:         dbHost,
		DBName:         dbName,
		JWTSecret:      jwtSecret,
		PlanFlushDelay: flushDelay,
	}
}
