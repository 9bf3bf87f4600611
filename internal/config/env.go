package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr        string
	GinMode        string
	DBDSN          string
	JWTSecret      string
	JWTExpiryHours int
	OTPDevMode     bool

	PNRAPIKey      string
	PNRAPIBaseURL  string
	PNRAPIProvider string // "indianrail" or "rapidapi"
	RapidAPIHost   string

	UploadsDir string
}

func LoadEnv() Env {
	// .env is optional; deployments set real environment variables.
	_ = godotenv.Load()

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = "root:@tcp(127.0.0.1:3306)/trainbuddy?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		secret = "super-secret-key-change-me"
	}

	expiry := 168 // hours; 7-day sessions like the mobile client expects
	if v := strings.TrimSpace(os.Getenv("JWT_EXPIRES_HOURS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			expiry = n
		}
	}

	provider := strings.TrimSpace(os.Getenv("PNR_API_PROVIDER"))
	if provider == "" {
		provider = "indianrail"
	}

	baseURL := strings.TrimSpace(os.Getenv("PNR_API_BASE_URL"))
	if baseURL == "" {
		if provider == "rapidapi" {
			baseURL = "https://irctc1.p.rapidapi.com"
		} else {
			baseURL = "https://indianrailapi.com/api/v2"
		}
	}

	rapidHost := strings.TrimSpace(os.Getenv("RAPIDAPI_HOST"))
	if rapidHost == "" {
		rapidHost = "irctc1.p.rapidapi.com"
	}

	uploads := strings.TrimSpace(os.Getenv("UPLOADS_DIR"))
	if uploads == "" {
		uploads = "uploads"
	}

	return Env{
		AppAddr:        appAddr,
		GinMode:        strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBDSN:          dsn,
		JWTSecret:      secret,
		JWTExpiryHours: expiry,
		OTPDevMode:     os.Getenv("OTP_DEV_MODE") == "true",
		PNRAPIKey:      strings.TrimSpace(os.Getenv("PNR_API_KEY")),
		PNRAPIBaseURL:  baseURL,
		PNRAPIProvider: provider,
		RapidAPIHost:   rapidHost,
		UploadsDir:     uploads,
	}
}
