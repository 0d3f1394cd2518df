package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/CristianCureu/fitness-app-api/internal/apierr"
	"github.com/CristianCureu/fitness-app-api/internal/logger"
	"github.com/CristianCureu/fitness-app-api/internal/normalization"
	"github.com/CristianCureu/fitness-app-api/internal/repos"
	"github.com/CristianCureu/fitness-app-api/internal/requestdata"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

type AuthTokens struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         *types.User `json:"user"`
}

type tokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthTokens, error)
	Login(ctx context.Context, email, password string) (*AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, accessToken string) error
	// SetContextFromToken validates the bearer token and attaches the caller's
	// identity to the request context.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db              *gorm.DB
	log             *logger.Logger
	userRepo        repos.UserRepo
	tokenRepo       repos.UserTokenRepo
	jwtSecret       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, tokenRepo repos.UserTokenRepo, jwtSecret string, accessTokenTTL, refreshTokenTTL time.Duration) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:              db,
		log:             serviceLog,
		userRepo:        userRepo,
		tokenRepo:       tokenRepo,
		jwtSecret:       []byte(jwtSecret),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

func (as *authService) signToken(userID uuid.UUID, role string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	claims := tokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(as.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("Failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (as *authService) parseToken(tokenString string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return as.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apierr.Unauthorized("Invalid or expired token")
	}
	return claims, nil
}

func (as *authService) issueTokens(ctx context.Context, tx *gorm.DB, user *types.User) (*AuthTokens, error) {
	accessToken, expiresAt, err := as.signToken(user.ID, user.Role, as.accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, _, err := as.signToken(user.ID, user.Role, as.refreshTokenTTL)
	if err != nil {
		return nil, err
	}

	row := &types.UserToken{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}
	if _, err := as.tokenRepo.Create(ctx, tx, []*types.UserToken{row}); err != nil {
		return nil, fmt.Errorf("Failed to persist tokens: %w", err)
	}

	return &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         user,
	}, nil
}

func (as *authService) Register(ctx context.Context, input RegisterInput) (*AuthTokens, error) {
	email := normalization.ParseInputString(input.Email)
	if email == "" || input.Password == "" {
		return nil, apierr.Validation("Email and password are required")
	}
	if len(input.Password) < 8 {
		return nil, apierr.Validation("Password must be at least 8 characters")
	}
	role := input.Role
	switch role {
	case types.RoleTrainer, types.RoleClient:
	case "":
		role = types.RoleTrainer
	default:
		return nil, apierr.Validation("Invalid role: %s", input.Role)
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("Failed to check email: %w", err)
	}
	if exists {
		return nil, apierr.Conflict("An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("Failed to hash password: %w", err)
	}

	var tokens *AuthTokens
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := &types.User{
			Email:     email,
			Password:  string(hash),
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Role:      role,
		}
		users, err := as.userRepo.Create(ctx, tx, []*types.User{user})
		if err != nil {
			return fmt.Errorf("Failed to create user: %w", err)
		}
		tokens, err = as.issueTokens(ctx, tx, users[0])
		return err
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*AuthTokens, error) {
	email = normalization.ParseInputString(email)
	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return nil, fmt.Errorf("Failed to load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.Unauthorized("Invalid email or password")
	}
	user := users[0]

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apierr.Unauthorized("Invalid email or password")
		}
		return nil, fmt.Errorf("Failed to verify password: %w", err)
	}

	return as.issueTokens(ctx, nil, user)
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	claims, err := as.parseToken(refreshToken)
	if err != nil {
		return nil, err
	}

	stored, err := as.tokenRepo.GetByRefreshToken(ctx, nil, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("Failed to load refresh token: %w", err)
	}
	if stored == nil {
		return nil, apierr.Unauthorized("Refresh token revoked")
	}

	users, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{claims.UserID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.Unauthorized("Account no longer exists")
	}

	var tokens *AuthTokens
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.tokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{stored.ID}); err != nil {
			return fmt.Errorf("Failed to rotate tokens: %w", err)
		}
		tokens, err = as.issueTokens(ctx, tx, users[0])
		return err
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (as *authService) Logout(ctx context.Context, accessToken string) error {
	stored, err := as.tokenRepo.GetByAccessToken(ctx, nil, accessToken)
	if err != nil {
		return fmt.Errorf("Failed to load token: %w", err)
	}
	if stored == nil {
		return nil
	}
	if err := as.tokenRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{stored.ID}); err != nil {
		return fmt.Errorf("Failed to revoke token: %w", err)
	}
	return nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims, err := as.parseToken(tokenString)
	if err != nil {
		return ctx, err
	}

	stored, err := as.tokenRepo.GetByAccessToken(ctx, nil, tokenString)
	if err != nil {
		return ctx, fmt.Errorf("Failed to load token: %w", err)
	}
	if stored == nil {
		return ctx, apierr.Unauthorized("Token revoked")
	}

	data := &requestdata.RequestData{
		TokenString:  tokenString,
		RefreshToken: stored.RefreshToken,
		UserID:       claims.UserID,
		Role:         claims.Role,
	}
	return requestdata.WithRequestData(ctx, data), nil
}
