package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	Log      string
	LogLevel string
	LogDir   string
	Env      string // dev|prod

	JWTSecret      string
	AccessTokenTTL string

	// API_TOKENS: "token=role:userId:name,...": статический allow-list bearer-токенов
	APITokens []StaticToken

	AdminEmail        string
	AdminPasswordHash string

	SiteURL     string
	SeedData    bool
	MaxPageSize int
}

type StaticToken struct {
	Token  string
	Role   string
	UserID string
	Name   string
}

// Моковые токены, которыми пользовался фронт до появления логина.
var defaultTokens = "mock-admin-token=admin:1:Admin,mock-author-token=author:2:Jane Developer,mock-user-token=user:100:Reader"

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует, чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	tokens, err := ParseTokens(def(os.Getenv("API_TOKENS"), defaultTokens))
	if err != nil {
		return nil, err
	}

	maxPage, err := strconv.Atoi(def(os.Getenv("MAX_PAGE_SIZE"), "100"))
	if err != nil || maxPage <= 0 {
		return nil, fmt.Errorf("invalid MAX_PAGE_SIZE %q", os.Getenv("MAX_PAGE_SIZE"))
	}

	cfg := &Config{
		Port: def(os.Getenv("PORT"), "8080"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		LogDir:   def(os.Getenv("LOG_DIR"), "logs"),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: def(os.Getenv("ACCESS_TOKEN_TTL"), "15m"),

		APITokens: tokens,

		AdminEmail:        strings.ToLower(os.Getenv("ADMIN_EMAIL")),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		SiteURL:     strings.TrimRight(def(os.Getenv("SITE_URL"), "http://localhost:3000"), "/"),
		SeedData:    strings.ToLower(def(os.Getenv("SEED_DATA"), "true")) != "false",
		MaxPageSize: maxPage,
	}

	return cfg, nil
}

// ParseTokens разбирает список вида "token=role:userId:name".
func ParseTokens(csv string) ([]StaticToken, error) {
	var out []StaticToken
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tok, rest, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(tok) == "" {
			return nil, fmt.Errorf("invalid API_TOKENS entry %q", part)
		}
		fields := strings.SplitN(rest, ":", 3)
		if len(fields) < 2 {
			return nil, fmt.Errorf("invalid API_TOKENS entry %q: want token=role:userId[:name]", part)
		}
		st := StaticToken{
			Token:  strings.TrimSpace(tok),
			Role:   strings.TrimSpace(fields[0]),
			UserID: strings.TrimSpace(fields[1]),
		}
		if len(fields) == 3 {
			st.Name = strings.TrimSpace(fields[2])
		}
		out = append(out, st)
	}
	return out, nil
}

// TokenTTL: ACCESS_TOKEN_TTL как time.Duration, с откатом на 15 минут.
func (c *Config) TokenTTL() time.Duration {
	d, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	if c.Port == "" {
		return nil, fmt.Errorf("PORT is empty")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		warnings = append(warnings, "JWT_SECRET is empty, JWT login is disabled")
	}

	if c.AdminEmail == "" || c.AdminPasswordHash == "" {
		warnings = append(warnings, "ADMIN_EMAIL/ADMIN_PASSWORD_HASH are not set, login is disabled")
	}

	if len(c.APITokens) == 0 {
		warnings = append(warnings, "API_TOKENS is empty, only JWT auth is available")
	}

	if _, perr := time.ParseDuration(c.AccessTokenTTL); perr != nil {
		warnings = append(warnings, "ACCESS_TOKEN_TTL is invalid, using 15m")
	}

	return warnings, nil
}
