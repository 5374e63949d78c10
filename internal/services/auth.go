package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"takatrack-backend/internal/models"
	"takatrack-backend/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

// bcrypt ignores input past this length and GenerateFromPassword rejects it.
const maxPasswordBytes = 72

// AuthService registers accounts and issues and verifies bearer tokens.
type AuthService struct {
	store  store.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(s store.Store, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{
		store:  s,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (a *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.UserResponse, error) {
	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || req.Password == "" || name == "" {
		return nil, invalidInput("Email, password, and name are required")
	}
	if len(req.Password) > maxPasswordBytes {
		return nil, invalidInput("Password must be at most %d bytes", maxPasswordBytes)
	}

	role := req.Role
	if role == "" {
		role = models.RoleResident
	}
	if !models.ValidRole(role) {
		return nil, invalidInput("Role must be one of resident, driver, admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Phone:        req.Phone,
		Role:         role,
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, CodedError(ErrDuplicateEmail, "Email already registered")
		}
		return nil, err
	}

	zap.S().Infow("👤 user registered", "user_id", user.ID, "role", user.Role)

	resp := user.ToUserResponse()
	return &resp, nil
}

func (a *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, invalidInput("Email and password are required")
	}

	user, err := a.store.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, CodedError(ErrInvalidCredentials, "Invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, CodedError(ErrInvalidCredentials, "Invalid email or password")
	}

	token, err := a.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token: token,
		User:  user.ToUserResponse(),
	}, nil
}

// IssueToken signs an HS256 token whose subject is userID.
func (a *AuthService) IssueToken(userID int64) (string, error) {
	issued := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(a.ttl)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Identity resolves a bearer token to the user id it was issued for.
func (a *AuthService) Identity(tokenString string) (int64, error) {
	if tokenString == "" {
		return 0, CodedError(ErrUnauthenticated, "Authorization token is required")
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return 0, CodedError(ErrUnauthenticated, "Invalid or expired token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, CodedError(ErrUnauthenticated, "Invalid or expired token")
	}
	return userID, nil
}

func (a *AuthService) Me(ctx context.Context, userID int64) (*models.UserResponse, error) {
	user, err := a.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, CodedError(ErrNotFound, "User not found")
		}
		return nil, err
	}

	resp := user.ToUserResponse()
	return &resp, nil
}
