package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/airneis/airneis-api/internal/apperr"
	"github.com/airneis/airneis-api/internal/config"
	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/model"
	"github.com/airneis/airneis-api/internal/repository"
)

// AuthService issues and verifies the access/refresh token pair. Both
// tokens are HS256 JWTs carrying the user id, signed with distinct
// secrets so one can never stand in for the other.
type AuthService struct {
	userRepo repository.UserRepository
	cfg      config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, cfg config.JWTConfig) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg}
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenPair, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("Email is already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Email is already in use")
		}
		return nil, err
	}

	return s.generateTokens(user.ID)
}

// Login authenticates by email and password. An unknown email and a bad
// password produce the exact same error so callers cannot probe which
// accounts exist.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	return s.generateTokens(user.ID)
}

// Refresh exchanges a valid refresh token for a brand new pair. Every
// failure mode collapses into the same 401.
func (s *AuthService) Refresh(ctx context.Context, token string) (*dto.TokenPair, error) {
	userID, err := s.parseToken(token, s.cfg.RefreshSecret)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	return s.generateTokens(user.ID)
}

// VerifyAccessToken returns the user id carried by a valid access token.
func (s *AuthService) VerifyAccessToken(token string) (int64, error) {
	return s.parseToken(token, s.cfg.Secret)
}

func (s *AuthService) generateTokens(userID int64) (*dto.TokenPair, error) {
	access, err := s.signToken(userID, s.cfg.Secret, s.cfg.Expiration)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(userID, s.cfg.RefreshSecret, s.cfg.RefreshExpiration)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) signToken(userID int64, secret string, expiration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(expiration).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString, secret string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("unexpected claims type")
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0, fmt.Errorf("missing id claim")
	}
	return int64(id), nil
}
