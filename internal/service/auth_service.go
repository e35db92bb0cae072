package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"eventdesk/internal/apierror"
	"eventdesk/internal/config"
	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"eventdesk/internal/repository"
	"eventdesk/internal/token"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

var errBadCredentials = apierror.Unauthorized("No active account found with the given credentials")

// RevocationStore records refresh tokens that have been rotated out.
type RevocationStore interface {
	// Revoke reports false when jti was already revoked.
	Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Token(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
}

type authService struct {
	repo       repository.UserRepository
	revoked    RevocationStore
	cfg        *config.Config
	validate   *validator.Validate
	bcryptCost int
}

func NewAuthService(repo repository.UserRepository, revoked RevocationStore, cfg *config.Config) AuthService {
	return &authService{
		repo:       repo,
		revoked:    revoked,
		cfg:        cfg,
		validate:   validator.New(),
		bcryptCost: 12,
	}
}

// Register checks every rule before failing so the caller gets the full list.
// When the only violations are duplicates the error is a Conflict.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	var invalid, taken []string

	username := strings.TrimSpace(req.Username)
	switch {
	case username == "":
		invalid = append(invalid, "username: this field is required")
	case utf8.RuneCountInString(username) > 150:
		invalid = append(invalid, "username: must be at most 150 characters")
	default:
		exists, err := s.repo.UsernameTaken(ctx, username)
		if err != nil {
			return nil, err
		}
		if exists {
			taken = append(taken, "username: a user with that username already exists")
		}
	}

	switch {
	case req.Password == "":
		invalid = append(invalid, "password: this field is required")
	case utf8.RuneCountInString(req.Password) < minPasswordLength:
		invalid = append(invalid, "password: must be at least 8 characters")
	}

	var email *string
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		e := strings.TrimSpace(*req.Email)
		if err := s.validate.Var(e, "email"); err != nil {
			invalid = append(invalid, "email: enter a valid email address")
		} else {
			exists, err := s.repo.EmailTaken(ctx, e)
			if err != nil {
				return nil, err
			}
			if exists {
				taken = append(taken, "email: a user with that email already exists")
			}
		}
		email = &e
	}

	if len(invalid) > 0 {
		return nil, apierror.Validation("Registration failed", append(invalid, taken...)...)
	}
	if len(taken) > 0 {
		return nil, apierror.Conflict("Registration failed", taken...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("Registration failed", "username: a user with that username already exists")
		}
		return nil, err
	}

	log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return &dto.RegisterResponse{
		Message:  "User created successfully",
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}

func (s *authService) Token(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errBadCredentials
	}
	return s.issuePair(user)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := token.Parse(s.cfg.JWTSecret, refreshToken, token.TypeRefresh)
	if err != nil {
		return nil, apierror.Unauthorized("Token is invalid or expired")
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apierror.Unauthorized("Token is blacklisted")
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil || !user.Active {
		return nil, apierror.Unauthorized("User not found or inactive")
	}

	// Only one of several concurrent refreshes with the same token wins.
	won, err := s.revoked.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apierror.Unauthorized("Token is blacklisted")
	}
	return s.issuePair(user)
}

func (s *authService) issuePair(user *model.User) (*dto.TokenResponse, error) {
	access, _, err := token.Issue(s.cfg.JWTSecret, user.ID, user.Username, token.TypeAccess,
		time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, _, err := token.Issue(s.cfg.JWTSecret, user.ID, user.Username, token.TypeRefresh,
		time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Access:    access,
		Refresh:   refresh,
		TokenType: "Bearer",
		ExpiresIn: s.cfg.JWTExpirationHours * 3600,
	}, nil
}
