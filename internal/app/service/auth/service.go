package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/internal/platform/mail"
	"github.com/comunidadhq/backend/internal/platform/redisstore"
	"github.com/comunidadhq/backend/pkg/logctx"
	"github.com/comunidadhq/backend/pkg/tool"
	"github.com/comunidadhq/backend/pkg/types"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailNotVerified is distinct from bad credentials so the client can
	// route the user to the verification prompt instead of a generic error.
	ErrEmailNotVerified = errors.New("email not verified")
	ErrEmailTaken       = errors.New("email already registered")
	ErrInvalidCode      = errors.New("invalid or expired verification code")
	ErrProfileNotFound  = errors.New("profile not found")
)

const (
	verificationPurpose = "signup"
	verificationTTL     = 10 * time.Minute
	codeDigits          = 6
)

type Service struct {
	db       *gorm.DB
	sessions *redisstore.SessionStore
	codes    *redisstore.CodeStore
	mailer   *mail.Mailer
	issuer   *TokenIssuer
	log      *zap.SugaredLogger
}

func NewService(db *gorm.DB, sessions *redisstore.SessionStore, codes *redisstore.CodeStore, mailer *mail.Mailer, issuer *TokenIssuer, log *zap.SugaredLogger) *Service {
	return &Service{db: db, sessions: sessions, codes: codes, mailer: mailer, issuer: issuer, log: log}
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

// SignUp creates an unconfirmed profile and emails a verification code.
func (s *Service) SignUp(ctx context.Context, req *SignUpRequest) (*models.Profile, error) {
	var existing models.Profile
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		ID:           tool.GenerateUUIDV7(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         types.PlatformRoleUser,
	}
	if err := s.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if err := s.sendVerificationCode(ctx, profile.Email); err != nil {
		// The profile exists; the code can be re-requested.
		logctx.FromCtx(ctx, s.log).Warnw("failed to send verification code", "email", profile.Email, "err", err)
	}
	return profile, nil
}

func (s *Service) sendVerificationCode(ctx context.Context, email string) error {
	code, err := tool.RandDigits(codeDigits)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	if err := s.codes.Put(ctx, verificationPurpose, email, code); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}
	return s.mailer.Send(email, "Verifica tu correo", mail.VerificationHTML(code, verificationTTL))
}

// ResendVerification issues a fresh code for an unconfirmed profile.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	profile, err := s.profileByEmail(ctx, email)
	if err != nil {
		return err
	}
	if profile.EmailConfirmed() {
		return nil
	}
	return s.sendVerificationCode(ctx, email)
}

// VerifyEmail redeems a signup code and confirms the profile.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) error {
	stored, err := s.codes.Get(ctx, verificationPurpose, email)
	if err != nil || stored == "" || stored != code {
		return ErrInvalidCode
	}

	now := time.Now()
	res := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("email = ? AND email_confirmed_at IS NULL", email).
		Update("email_confirmed_at", now)
	if res.Error != nil {
		return fmt.Errorf("failed to confirm email: %w", res.Error)
	}
	_ = s.codes.Delete(ctx, verificationPurpose, email)
	return nil
}

type LoginResult struct {
	Profile *models.Profile `json:"profile"`
	Tokens  *Pair           `json:"tokens"`
}

// Login verifies credentials, requires a confirmed email, and establishes
// the single active session for the profile.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	profile, err := s.profileByEmail(ctx, email)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !profile.EmailConfirmed() {
		return nil, ErrEmailNotVerified
	}

	pair, err := s.issuer.GeneratePair(profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	if err := s.sessions.Put(ctx, profile.ID, pair.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return &LoginResult{Profile: profile, Tokens: pair}, nil
}

// Logout invalidates the active session; the access token stops working
// immediately even though it has not expired.
func (s *Service) Logout(ctx context.Context, profileID string) error {
	return s.sessions.Delete(ctx, profileID)
}

// Refresh rotates the token pair and the stored session.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Pair, error) {
	claims, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	pair, err := s.issuer.GeneratePair(claims.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	if err := s.sessions.Put(ctx, claims.ProfileID, pair.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return pair, nil
}

func (s *Service) ProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return &profile, nil
}

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio"`
}

func (s *Service) UpdateProfile(ctx context.Context, profileID string, req *UpdateProfileRequest) (*models.Profile, error) {
	updates := map[string]any{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", profileID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return s.ProfileByID(ctx, profileID)
}

func (s *Service) profileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile by email: %w", err)
	}
	return &profile, nil
}
