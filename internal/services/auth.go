package services

import (
	"context"
	"fmt"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/placeshare-backend/internal/data/repos"
	types "github.com/yungbote/placeshare-backend/internal/domain"
	pkgerrors "github.com/yungbote/placeshare-backend/internal/pkg/errors"
	"github.com/yungbote/placeshare-backend/internal/platform/gcp"
	"github.com/yungbote/placeshare-backend/internal/platform/logger"
)

const tokenTTL = time.Hour

// AuthService owns signup, login and token verification.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*types.User, string, error)
	Login(ctx context.Context, email, password string) (*types.User, string, error)
	VerifyToken(tokenString string) (uuid.UUID, string, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	// Image is the raw uploaded avatar; when empty an initials avatar is
	// generated instead.
	Image []byte
}

type authClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	avatarService AvatarService
	bucketService gcp.BucketService
	jwtSecret     []byte
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	avatarService AvatarService,
	bucketService gcp.BucketService,
) (AuthService, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		avatarService: avatarService,
		bucketService: bucketService,
		jwtSecret:     []byte(secret),
	}, nil
}

func (as *authService) Register(ctx context.Context, input RegisterInput) (*types.User, string, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if name == "" {
		return nil, "", fmt.Errorf("name is required: %w", pkgerrors.ErrInvalidArgument)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", fmt.Errorf("invalid email %q: %w", email, pkgerrors.ErrInvalidArgument)
	}
	if len(input.Password) < 6 {
		return nil, "", fmt.Errorf("password must be at least 6 characters: %w", pkgerrors.ErrInvalidArgument)
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, "", fmt.Errorf("check email: %w: %v", pkgerrors.ErrPersistence, err)
	}
	if exists {
		return nil, "", fmt.Errorf("email %q already registered: %w", email, pkgerrors.ErrInvalidArgument)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	newUser := &types.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}

	// Avatar blob goes out first so the row never points at a missing object.
	if err := as.avatarService.AttachAvatar(ctx, newUser, input.Image); err != nil {
		return nil, "", fmt.Errorf("attach avatar: %w: %v", pkgerrors.ErrStorage, err)
	}

	txErr := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := as.userRepo.Create(ctx, tx, []*types.User{newUser})
		return err
	})
	if txErr != nil {
		as.cleanupBlob(ctx, newUser.ImageKey)
		return nil, "", fmt.Errorf("create user: %w: %v", pkgerrors.ErrPersistence, txErr)
	}

	token, err := as.signToken(newUser)
	if err != nil {
		return nil, "", err
	}
	as.log.Info("user registered", "user_id", newUser.ID, "email", newUser.Email)
	return newUser, token, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("email and password are required: %w", pkgerrors.ErrInvalidArgument)
	}

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return nil, "", fmt.Errorf("load user: %w: %v", pkgerrors.ErrPersistence, err)
	}
	if len(users) == 0 {
		return nil, "", fmt.Errorf("invalid credentials: %w", pkgerrors.ErrUnauthorized)
	}
	existing := users[0]

	if err := bcrypt.CompareHashAndPassword([]byte(existing.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", pkgerrors.ErrUnauthorized)
	}

	token, err := as.signToken(existing)
	if err != nil {
		return nil, "", err
	}
	return existing, token, nil
}

func (as *authService) VerifyToken(tokenString string) (uuid.UUID, string, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return as.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", fmt.Errorf("invalid token: %w", pkgerrors.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid token subject: %w", pkgerrors.ErrUnauthorized)
	}
	return userID, claims.Email, nil
}

func (as *authService) signToken(u *types.User) (string, error) {
	now := time.Now()
	claims := authClaims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(as.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (as *authService) cleanupBlob(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := as.bucketService.DeleteFile(ctx, key); err != nil {
		as.log.Error("orphaned blob cleanup failed", "key", key, "error", err)
	}
}
