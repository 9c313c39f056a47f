package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	MongoURL string
	DBName   string

	// Identity Exchange
	IdentitySessionDataURL string
	IdentityTimeout        time.Duration

	// Session
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	// Portfolio
	StartingCashBalance float64

	// Rate Limit
	RateLimitGeneral int
	RateLimitTrading int
	RateLimitLogin   int
	RateLimitGlobal  int

	// Server
	ServerPort string

	// Cookie
	CookieDomain string

	// CORS
	CORSOrigins []string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.MongoURL = os.Getenv("MONGO_URL")
	if cfg.MongoURL == "" {
		missing = append(missing, "MONGO_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.DBName = getEnvString("DB_NAME", "zodic_trading")
	cfg.IdentitySessionDataURL = getEnvString("IDENTITY_SESSION_DATA_URL",
		"https://demobackend.emergentagent.com/auth/v1/env/oauth/session-data")
	cfg.IdentityTimeout = getEnvDuration("IDENTITY_TIMEOUT", 10*time.Second)
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", 7*24*time.Hour)
	cfg.SessionSweepInterval = getEnvDuration("SESSION_SWEEP_INTERVAL", time.Hour)
	cfg.StartingCashBalance = getEnvFloat("STARTING_CASH_BALANCE", 10000)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitTrading = getEnvInt("RATE_LIMIT_TRADING", 30)
	cfg.RateLimitLogin = getEnvInt("RATE_LIMIT_LOGIN", 10)
	cfg.RateLimitGlobal = getEnvInt("RATE_LIMIT_GLOBAL", 300)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8001")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSOrigins = splitOrigins(getEnvString("CORS_ORIGINS", "*"))

	return cfg, nil
}

// splitOrigins はカンマ区切りのオリジン指定をリストに分解する。
// 空要素は無視する。
func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
