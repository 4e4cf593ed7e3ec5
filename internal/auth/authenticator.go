package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"devblog/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator проверяет bearer-credential и возвращает пользователя.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (*Principal, bool)
}

// StaticTokens: allow-list заранее выданных токенов (API_TOKENS).
type StaticTokens struct {
	tokens []config.StaticToken
}

func NewStaticTokens(tokens []config.StaticToken) *StaticTokens {
	return &StaticTokens{tokens: tokens}
}

func (s *StaticTokens) Authenticate(_ context.Context, credential string) (*Principal, bool) {
	for _, t := range s.tokens {
		if subtle.ConstantTimeCompare([]byte(t.Token), []byte(credential)) == 1 {
			return &Principal{UserID: t.UserID, Name: t.Name, Role: t.Role}, true
		}
	}
	return nil, false
}

// JWT выпускает и проверяет HS256 access-токены.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	return &JWT{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (j *JWT) Enabled() bool {
	return len(j.secret) > 0
}

// Issue создаёт access-токен для пользователя.
func (j *JWT) Issue(p Principal) (string, time.Time, error) {
	if !j.Enabled() {
		return "", time.Time{}, errors.New("jwt secret is not configured")
	}
	now := j.now()
	exp := now.Add(j.ttl)
	claims := jwt.MapClaims{
		"sub":        p.UserID,
		"name":       p.Name,
		"role":       p.Role,
		"exp":        exp.Unix(),
		"iat":        now.Unix(),
		"token_type": "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (j *JWT) Authenticate(_ context.Context, credential string) (*Principal, bool) {
	if !j.Enabled() {
		return nil, false
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil || !token.Valid {
		return nil, false
	}

	sub, ok1 := claims["sub"].(string)
	role, ok2 := claims["role"].(string)
	if !ok1 || !ok2 || sub == "" {
		return nil, false
	}
	if tt, _ := claims["token_type"].(string); tt != "access" {
		return nil, false
	}
	name, _ := claims["name"].(string)
	return &Principal{UserID: sub, Name: name, Role: role}, true
}

// Chain опрашивает аутентификаторы по порядку, первый успешный выигрывает.
type Chain []Authenticator

func (c Chain) Authenticate(ctx context.Context, credential string) (*Principal, bool) {
	if credential == "" {
		return nil, false
	}
	for _, a := range c {
		if p, ok := a.Authenticate(ctx, credential); ok {
			return p, true
		}
	}
	return nil, false
}

// AdminCredentials: логин администратора из конфигурации (ADMIN_EMAIL / ADMIN_PASSWORD_HASH).
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

// Check сравнивает email и пароль с bcrypt-хешем.
func (a AdminCredentials) Check(email, password string) (Principal, error) {
	if a.Email == "" || a.PasswordHash == "" {
		return Principal{}, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(a.Email), []byte(email)) != 1 {
		return Principal{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{UserID: "1", Name: "Admin", Role: RoleAdmin}, nil
}
