package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"englishku_backend/internals/constants"
	xp "englishku_backend/internals/features/progress/xp/service"
	"englishku_backend/internals/features/users/auth/dto"
	"englishku_backend/internals/features/users/auth/repository"
	"englishku_backend/internals/features/users/user/model"
	userRepo "englishku_backend/internals/features/users/user/repository"
	"englishku_backend/internals/helpers/dbtime"
)

const DefaultTokenTTL = 72 * time.Hour

var (
	ErrInvalidIDToken = errors.New("invalid google id token")
	ErrEmailTaken     = errors.New("email linked to another google account")
	ErrUserInactive   = errors.New("user inactive")
	ErrMissingToken   = errors.New("missing access token")
	ErrMissingSecret  = errors.New("jwt secret not configured")
)

// Identity is what a verified Google ID token tells us about the caller.
type Identity struct {
	GoogleID string
	Email    string
	Name     string
}

type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// GoogleVerifier checks signature, issuer, expiry and audience against
// Google's published certificates.
type GoogleVerifier struct {
	ClientID string
}

func (g GoogleVerifier) Verify(_ context.Context, idToken string) (*Identity, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.ClientID}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	claims, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	if claims.Sub == "" || claims.Email == "" {
		return nil, ErrInvalidIDToken
	}
	return &Identity{GoogleID: claims.Sub, Email: claims.Email, Name: claims.Name}, nil
}

// UserStore is the subset of the user repository sign-in needs.
type UserStore interface {
	userRepo.Repository
	FindByGoogleID(ctx context.Context, googleID string) (*model.UserModel, error)
	FindByEmail(ctx context.Context, email string) (*model.UserModel, error)
	Create(ctx context.Context, u *model.UserModel) error
}

type LoginBonus interface {
	LoginBonus(ctx context.Context, userID uuid.UUID) (*xp.GrantResult, error)
}

type Service struct {
	Users     UserStore
	Verifier  IDTokenVerifier
	Blacklist repository.Blacklist
	Bonus     LoginBonus
	Secret    string
	TTL       time.Duration
	Clock     dbtime.Clock
}

func NewService(users UserStore, verifier IDTokenVerifier, blacklist repository.Blacklist, bonus LoginBonus, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		Users:     users,
		Verifier:  verifier,
		Blacklist: blacklist,
		Bonus:     bonus,
		Secret:    secret,
		TTL:       ttl,
		Clock:     dbtime.SystemClock,
	}
}

type SignInResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.UserModel
	IsNew     bool
	Bonus     *xp.GrantResult
}

// SignInWithGoogle verifies the ID token, finds or creates the user and
// issues an access token. The daily login bonus runs on every sign-in; a
// bonus failure is logged and does not block the login.
func (s *Service) SignInWithGoogle(ctx context.Context, req dto.GoogleLoginRequest) (*SignInResult, error) {
	if s.Secret == "" {
		return nil, ErrMissingSecret
	}
	id, err := s.Verifier.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, err
	}

	u, isNew, err := s.upsert(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if !u.UserIsActive {
		return nil, ErrUserInactive
	}

	res := &SignInResult{User: u, IsNew: isNew}
	if s.Bonus != nil {
		bonus, err := s.Bonus.LoginBonus(ctx, u.UserID)
		if err != nil {
			log.Printf("[WARN] login bonus user=%s: %v", u.UserID, err)
		} else {
			res.Bonus = bonus
			if fresh, err := s.Users.Get(ctx, u.UserID); err == nil {
				res.User = fresh
			}
		}
	}

	res.Token, res.ExpiresAt, err = s.IssueToken(res.User)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) upsert(ctx context.Context, id *Identity, req dto.GoogleLoginRequest) (*model.UserModel, bool, error) {
	u, err := s.Users.FindByGoogleID(ctx, id.GoogleID)
	switch {
	case err == nil:
		if !hasOnboarding(req) {
			return u, false, nil
		}
		u, err = s.Users.Mutate(ctx, u.UserID, func(u *model.UserModel) error {
			applyOnboarding(u, req)
			return nil
		})
		return u, false, err
	case !errors.Is(err, userRepo.ErrUserNotFound):
		return nil, false, err
	}

	// An account created before Google sign-in (e.g. a seeded admin) is
	// linked on first login by email.
	existing, err := s.Users.FindByEmail(ctx, id.Email)
	switch {
	case err == nil:
		if existing.UserGoogleID != nil && *existing.UserGoogleID != id.GoogleID {
			return nil, false, ErrEmailTaken
		}
		u, err = s.Users.Mutate(ctx, existing.UserID, func(u *model.UserModel) error {
			gid := id.GoogleID
			u.UserGoogleID = &gid
			applyOnboarding(u, req)
			return nil
		})
		return u, false, err
	case !errors.Is(err, userRepo.ErrUserNotFound):
		return nil, false, err
	}

	gid := id.GoogleID
	name := strings.TrimSpace(id.Name)
	if name == "" {
		name = strings.Split(id.Email, "@")[0]
	}
	u = &model.UserModel{
		UserID:          uuid.New(),
		UserEmail:       strings.ToLower(id.Email),
		UserDisplayName: name,
		UserGoogleID:    &gid,
		UserRole:        constants.RoleUser,
		UserIsActive:    true,
		UserLevel:       1,
		UserDailyGoal:   constants.DefaultDailyLessonGoal,
	}
	applyOnboarding(u, req)
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, false, err
	}
	log.Printf("[AUTH] new user=%s via google", u.UserID)
	return u, true, nil
}

func hasOnboarding(req dto.GoogleLoginRequest) bool {
	return nonEmpty(req.NativeLanguage) || nonEmpty(req.Motivation) || nonEmpty(req.EnglishLevel)
}

func applyOnboarding(u *model.UserModel, req dto.GoogleLoginRequest) {
	if nonEmpty(req.NativeLanguage) {
		v := *req.NativeLanguage
		u.UserNativeLanguage = &v
	}
	if nonEmpty(req.Motivation) {
		v := *req.Motivation
		u.UserMotivation = &v
	}
	if nonEmpty(req.EnglishLevel) {
		v := *req.EnglishLevel
		u.UserEnglishLevel = &v
	}
}

func nonEmpty(p *string) bool { return p != nil && strings.TrimSpace(*p) != "" }

// IssueToken signs an HS256 access token carrying sub, role, name, iat and exp.
func (s *Service) IssueToken(u *model.UserModel) (string, time.Time, error) {
	if s.Secret == "" {
		return "", time.Time{}, ErrMissingSecret
	}
	now := s.Clock()
	exp := now.Add(s.TTL)
	claims := jwt.MapClaims{
		"sub":  u.UserID.String(),
		"role": u.UserRole,
		"name": u.UserDisplayName,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Logout blacklists the token until its own expiry.
func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingToken
	}
	return s.Blacklist.Add(ctx, token, s.tokenExpiry(token))
}

// tokenExpiry reads exp without verifying; the auth middleware has already
// checked the signature. Unreadable tokens are kept for a full TTL.
func (s *Service) tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			return time.Unix(int64(exp), 0)
		}
	}
	return s.Clock().Add(s.TTL)
}
