package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/andinetd/assignment-helper/internal/models"
	"github.com/andinetd/assignment-helper/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) error
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	ParseToken(tokenString string) (string, error)
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type authService struct {
	studentRepo repository.StudentRepository
	config      AuthConfig
	logger      zerolog.Logger
}

func NewAuthService(studentRepo repository.StudentRepository, config AuthConfig, logger zerolog.Logger) AuthService {
	return &authService{
		studentRepo: studentRepo,
		config:      config,
		logger:      logger,
	}
}

func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) error {
	taken, err := s.studentRepo.Exists(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to check existing student: %w", err)
	}
	if taken {
		return ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	student := &models.Student{
		Email:         req.Email,
		PasswordHash:  string(passwordHash),
		FullName:      req.Name,
		StudentNumber: uuid.New().String()[:8],
		CreatedAt:     time.Now(),
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info().
		Int64("student_id", student.ID).
		Str("email", student.Email).
		Msg("Student registered")

	return nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	student, err := s.studentRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": student.Email,
		"exp": time.Now().Add(s.config.TokenTTL).Unix(),
		"iat": time.Now().Unix(),
	})

	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken: signed,
		TokenType:   "bearer",
	}, nil
}

// ParseToken validates a bearer token and returns the student email it was
// issued for.
func (s *authService) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}

	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return "", errors.New("token missing subject")
	}

	return email, nil
}
