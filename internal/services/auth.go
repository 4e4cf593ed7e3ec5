package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"devblog/internal/auth"
	"devblog/internal/logger"

	"go.uber.org/zap"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string         `json:"accessToken"`
	TokenType   string         `json:"tokenType"`
	ExpiresAt   time.Time      `json:"expiresAt"`
	User        auth.Principal `json:"user"`
}

type AuthService struct {
	admin auth.AdminCredentials
	jwt   *auth.JWT
}

func NewAuthService(admin auth.AdminCredentials, jwt *auth.JWT) *AuthService {
	return &AuthService{admin: admin, jwt: jwt}
}

// Login проверяет учётные данные администратора и выпускает access-токен.
func (s *AuthService) Login(_ context.Context, req LoginRequest) (TokenResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	logger.Log.Info("Сервис: вход администратора", zap.String("email", req.Email))

	if err := validateStruct(req); err != nil {
		return TokenResponse{}, err
	}
	if !s.jwt.Enabled() {
		return TokenResponse{}, fmt.Errorf("login is disabled: %w", ErrUnauthorized)
	}

	p, err := s.admin.Check(req.Email, req.Password)
	if err != nil {
		logger.Log.Warn("Сервис: неверные учётные данные", zap.String("email", req.Email))
		return TokenResponse{}, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	token, exp, err := s.jwt.Issue(p)
	if err != nil {
		logger.Log.Error("Сервис: ошибка генерации токена", zap.Error(err))
		return TokenResponse{}, err
	}

	logger.Log.Info("Сервис: администратор вошёл", zap.String("user_id", p.UserID))
	return TokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp, User: p}, nil
}
