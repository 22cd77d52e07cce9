// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"englishku_backend/internals/configs"
)

// Webhooks called by third parties carry no JWT.
var skipPaths = map[string]struct{}{
	"/api/payments/midtrans/notification": {},
}

var ErrUserInactive = errors.New("user inactive")

// SessionStore answers the two per-request questions the middleware asks
// the database.
type SessionStore interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	// EnsureActive returns gorm.ErrRecordNotFound for unknown users and
	// ErrUserInactive for disabled ones.
	EnsureActive(ctx context.Context, userID uuid.UUID) error
}

type gormSessionStore struct{ db *gorm.DB }

func NewGormSessionStore(db *gorm.DB) SessionStore { return &gormSessionStore{db: db} }

func (s *gormSessionStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Table("token_blacklist").
		Where("token = ? AND deleted_at IS NULL", token).
		Count(&n).Error
	return n > 0, err
}

func (s *gormSessionStore) EnsureActive(ctx context.Context, userID uuid.UUID) error {
	var row struct{ UserIsActive bool }
	if err := s.db.WithContext(ctx).
		Table("users").
		Select("user_is_active").
		Where("user_id = ?", userID).
		Take(&row).Error; err != nil {
		return err
	}
	if !row.UserIsActive {
		return ErrUserInactive
	}
	return nil
}

func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return NewAuthMiddleware(NewGormSessionStore(db), configs.JWTSecret)
}

// NewAuthMiddleware validates the bearer token (header or access_token
// cookie) and stores user_id and userRole in Locals.
func NewAuthMiddleware(store SessionStore, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := skipPaths[c.Path()]; ok {
			return c.Next()
		}

		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		if secret == "" {
			log.Println("[ERROR] JWT_SECRET is empty")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		ctx := c.UserContext()
		blacklisted, err := store.IsBlacklisted(ctx, tokenString)
		if err != nil {
			log.Println("[ERROR] blacklist lookup:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}
		if blacklisted {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		}); err != nil {
			log.Println("[ERROR] token parse:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		if err := validateTokenExpiry(claims, time.Now(), 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		userID, err := extractUserID(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}

		if err := store.EnsureActive(ctx, userID); err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
			case errors.Is(err, ErrUserInactive):
				return fiber.NewError(fiber.StatusForbidden, "Your account has been deactivated")
			default:
				log.Println("[ERROR] active check:", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
		}

		c.Locals("user_id", userID.String())
		c.Locals("access_token", tokenString)
		storeClaimsToLocals(c, claims)
		return c.Next()
	}
}
