package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"findash-api/internal/models"
	"findash-api/internal/repository"
	"findash-api/internal/utils"
)

type AuthService struct {
	users         *repository.UserRepository
	jwtSecret     string
	accessExpire  time.Duration
	refreshExpire time.Duration
}

func NewAuthService(users *repository.UserRepository, jwtSecret string, accessExpire, refreshExpire time.Duration) *AuthService {
	return &AuthService{
		users:         users,
		jwtSecret:     jwtSecret,
		accessExpire:  accessExpire,
		refreshExpire: refreshExpire,
	}
}

func (s *AuthService) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindByEmail(req.Email)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.IsActive || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(*user)
}

// Register creates the user together with a fresh company. The first user of
// a company is its admin.
func (s *AuthService) Register(req models.RegisterRequest) (*models.LoginResponse, error) {
	if _, err := s.users.FindByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNoRows) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		CompanyID:    uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         "admin",
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	return s.issueTokens(*user)
}

func (s *AuthService) Refresh(refreshToken string) (*models.LoginResponse, error) {
	claims, err := utils.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByID(claims.UserID)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(*user)
}

func (s *AuthService) issueTokens(user models.User) (*models.LoginResponse, error) {
	access, err := utils.GenerateAccessToken(user, s.jwtSecret, s.accessExpire)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.GenerateRefreshToken(user, s.jwtSecret, s.refreshExpire)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}
