package service

import (
	"codepair/internal/model"
	"codepair/internal/repository"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and token validation. Every
// registered account is mirrored to the chat/video provider so it can be
// added to channels and calls.
type AuthService struct {
	userRepo  repository.UserRepo
	users     UserProvider
	jwtSecret []byte
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepo, users UserProvider, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		users:     users,
		jwtSecret: []byte(jwtSecret),
	}
}

// Register creates an account and returns a logged-in response.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.LoginResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		ProfileImage: req.ProfileImage,
		StreamID:     "user_" + uuid.New().String()[:8],
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Mirror to the provider. Failure is logged, not fatal: the account
	// exists either way and the mirror is retried on next channel use.
	if err := s.users.UpsertUser(ctx, user.StreamID, user.Name, user.ProfileImage); err != nil {
		log.Printf("[Auth] Failed to upsert provider user %s: %v", user.StreamID, err)
	}

	return s.loginResponse(user)
}

// Login validates credentials and returns a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.loginResponse(user)
}

// ValidateToken validates an API bearer token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Me returns the authenticated user's profile.
func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID) (*model.UserSummary, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user.Summary(), nil
}

// StreamToken mints a provider-side token for the authenticated user.
func (s *AuthService) StreamToken(streamID string) (*model.StreamTokenResponse, error) {
	token, err := s.users.UserToken(streamID)
	if err != nil {
		return nil, fmt.Errorf("failed to mint stream token: %w", err)
	}

	return &model.StreamTokenResponse{Token: token, StreamID: streamID}, nil
}

func (s *AuthService) loginResponse(user *model.User) (*model.LoginResponse, error) {
	claims := &model.UserClaims{
		UserID:   user.ID.Hex(),
		StreamID: user.StreamID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{Token: tokenString, User: user.Summary()}, nil
}
