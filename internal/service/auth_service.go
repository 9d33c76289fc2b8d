package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/rongwang/finance-tracker-server/internal/models"
	"github.com/rongwang/finance-tracker-server/internal/repository"
)

// AuthService registers users, issues bearer tokens and resolves them back to users
type AuthService struct {
	repo          repository.UserRepository
	jwtSecret     []byte
	tokenDuration time.Duration
	logger        *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(repo repository.UserRepository, jwtSecret string, tokenDuration time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		repo:          repo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: tokenDuration,
		logger:        logger.With("component", "auth"),
	}
}

// bcrypt refuses passwords longer than this many bytes
const maxPasswordBytes = 72

// Register creates a user account. A taken username is a Conflict.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if len(req.Password) > maxPasswordBytes {
		return nil, invalidArgument("Password must be at most %d bytes", maxPasswordBytes)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Password: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, newError(ErrConflict, "Username already exists")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "operation", "create", "user_id", user.ID)
	return user, nil
}

// Login checks the credentials and issues a signed token
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	user, err := s.repo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, newError(ErrUnauthenticated, "Incorrect username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, newError(ErrUnauthenticated, "Incorrect username or password")
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokenDuration.Seconds()),
	}, nil
}

// Authenticate verifies a bearer token and resolves its subject to a user.
// A valid token for a user that no longer exists is NotFound.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, newError(ErrUnauthenticated, "Invalid token")
	}

	username, err := token.Claims.GetSubject()
	if err != nil || username == "" {
		return nil, newError(ErrUnauthenticated, "Invalid token subject")
	}

	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return nil, notFound("User")
	}
	return user, nil
}

// GetProfile returns the caller's own account
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return nil, notFound("User")
	}
	return user, nil
}

// UpdateProfile applies the supplied profile fields
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.AvatarPath != nil {
		user.AvatarPath = req.AvatarPath
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return user, nil
}

func (s *AuthService) generateJWT(user *models.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub": user.Username,
		"exp": now.Add(s.tokenDuration).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
