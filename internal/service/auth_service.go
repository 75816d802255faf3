package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"etshoes/internal/auth"
	apperrors "etshoes/internal/errors"
	"etshoes/internal/mailer"
	"etshoes/internal/model"
	"etshoes/internal/repository"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when trying to register an existing email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrInvalidResetToken is returned when a password reset link is unknown, used or expired.
	ErrInvalidResetToken = errors.New("invalid or expired reset link")
)

// PasswordResetMessage is the only answer a reset request ever gets.
const PasswordResetMessage = "If an account exists for that email, a reset link has been sent."

// RegisterSellerInput is the self-registration form of a shop.
type RegisterSellerInput struct {
	Email         string
	Password      string
	ShopName      string
	Phone         string
	WhatsApp      string
	City          string
	Address       string
	AgreedToTerms bool
}

// LoginResult carries the tokens of a new session and where to send the user.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Profile      *model.Profile
	Redirect     string
}

// AuthService handles authentication operations.
type AuthService interface {
	RegisterSeller(ctx context.Context, in RegisterSellerInput) (*model.Profile, *model.Seller, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken, accessTokenID string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password, confirm string) error
	Profile(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}

type authService struct {
	profileRepo repository.ProfileRepository
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
	mailer      mailer.Mailer
	baseURL     string
}

// NewAuthService creates a new authentication service. baseURL is the public
// site address used in password reset links.
func NewAuthService(profileRepo repository.ProfileRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, m mailer.Mailer, baseURL string) AuthService {
	return &authService{
		profileRepo: profileRepo,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
		mailer:      m,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// RedirectFor returns the landing page of a role after login.
func RedirectFor(role model.Role) string {
	if role == model.RoleAdmin {
		return "/admin"
	}
	return "/seller"
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterSeller creates the profile and its pending, unverified seller in one transaction.
func (s *authService) RegisterSeller(ctx context.Context, in RegisterSellerInput) (*model.Profile, *model.Seller, error) {
	if !in.AgreedToTerms {
		return nil, nil, fmt.Errorf("%w: you must agree to the terms", apperrors.ErrValidation)
	}
	if len(in.Password) < minPasswordLength {
		return nil, nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}
	email := normalizeEmail(in.Email)

	existing, err := s.profileRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("check profile existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &model.Profile{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleSeller,
	}
	seller := &model.Seller{
		ShopName: strings.TrimSpace(in.ShopName),
		Phone:    strings.TrimSpace(in.Phone),
		WhatsApp: strings.TrimSpace(in.WhatsApp),
		City:     strings.TrimSpace(in.City),
		Address:  strings.TrimSpace(in.Address),
		Status:   model.SellerStatusPending,
	}

	err = s.profileRepo.WithTransaction(ctx, func(ctx context.Context, profiles repository.ProfileRepository, sellers repository.SellerRepository) error {
		if err := profiles.Create(ctx, profile); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		seller.ID = profile.ID
		if err := sellers.Create(ctx, seller); err != nil {
			return fmt.Errorf("create seller: %w", err)
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost a race with a concurrent registration of the same email
		return nil, nil, ErrUserAlreadyExists
	}
	if err != nil {
		return nil, nil, err
	}

	zap.L().Info("seller registered", zap.String("seller_id", seller.ID.String()), zap.String("shop", seller.ShopName))
	return profile, seller, nil
}

// Login authenticates a profile and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	_, accessToken, err := s.jwtService.GenerateAccessToken(profile.ID, profile.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(profile.ID, profile.Role)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, profile.ID, profile.Role, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Profile:      profile,
		Redirect:     RedirectFor(profile.Role),
	}, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedRole, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedRole != claims.Role {
		return "", ErrInvalidRefreshToken
	}

	_, accessToken, err := s.jwtService.GenerateAccessToken(claims.UserID, claims.Role)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token and, when known, the current access token.
func (s *authService) Logout(ctx context.Context, refreshToken, accessTokenID string) error {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	if accessTokenID != "" {
		if err := s.tokenStore.BlacklistAccessToken(ctx, accessTokenID, auth.AccessTokenExpiry); err != nil {
			return fmt.Errorf("blacklist access token: %w", err)
		}
	}
	return nil
}

// RequestPasswordReset mails a reset link when the email belongs to a
// profile. The caller cannot tell whether it did: failures are logged only.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	profile, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Warn("password reset lookup failed", zap.Error(err))
		}
		return nil
	}

	token, err := auth.NewResetToken()
	if err != nil {
		zap.L().Error("password reset token", zap.Error(err))
		return nil
	}
	if err := s.tokenStore.StoreResetToken(ctx, token, profile.ID, auth.ResetTokenExpiry); err != nil {
		zap.L().Error("store password reset token", zap.Error(err))
		return nil
	}

	link := s.baseURL + "/auth/update-password?token=" + url.QueryEscape(token)
	if err := s.mailer.SendPasswordReset(ctx, profile.Email, link); err != nil {
		zap.L().Error("send password reset mail", zap.String("profile_id", profile.ID.String()), zap.Error(err))
	}
	return nil
}

// ResetPassword sets a new password for the owner of a reset token.
func (s *authService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", apperrors.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}

	profileID, err := s.tokenStore.ConsumeResetToken(ctx, token)
	if err != nil {
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.profileRepo.UpdatePassword(ctx, profileID, string(hashedPassword)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Profile returns the profile behind a session.
func (s *authService) Profile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return profile, nil
}
