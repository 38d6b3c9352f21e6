package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/favorite"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/visit"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is temporarily locked due to multiple failed login attempts")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrEmailTaken         = errors.New("an account with this email already exists")
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateLoginAttempt(ctx context.Context, id uuid.UUID, success bool) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type AuthService struct {
	userRepo     UserRepository
	visitRepo    visit.Repository
	favoriteRepo favorite.Repository
	jwtManager   *auth.JWTManager
	auditSvc     *AuditService
	log          *zap.Logger
}

func NewAuthService(
	userRepo UserRepository,
	visitRepo visit.Repository,
	favoriteRepo favorite.Repository,
	jwtManager *auth.JWTManager,
	auditSvc *AuditService,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		visitRepo:    visitRepo,
		favoriteRepo: favoriteRepo,
		jwtManager:   jwtManager,
		auditSvc:     auditSvc,
		log:          log,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, &ValidationError{Fields: []string{"email is required"}}
	}
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(name),
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		s.log.Error("failed to create user", zap.Error(err))
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", u.ID.String()))
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string, ip string) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Use bcrypt dummy hash to prevent timing-based user enumeration.
		// An attacker measuring response time should not be able to determine
		// whether the email exists in the system.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if user.IsLocked() {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		// Record failed attempt; lock if threshold exceeded
		_ = s.userRepo.UpdateLoginAttempt(ctx, user.ID, false)
		s.log.Warn("failed login attempt",
			zap.String("email", email),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	_ = s.userRepo.UpdateLoginAttempt(ctx, user.ID, true)

	claims := &domain.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}

	pair, err := s.jwtManager.GenerateTokenPair(claims)
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       user.ID.String(),
		Action:       "login",
		ResourceType: "session",
		IPAddress:    ip,
	})

	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("ip", ip),
	)

	return pair, nil
}

// RefreshToken issues a new access token given a valid refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Re-validate user is still active
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	updatedClaims := &domain.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}

	return s.jwtManager.GenerateTokenPair(updatedClaims)
}

// ChangePassword verifies the current password before setting the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, current, newPassword string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, id, string(hash)); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       userID,
		Action:       "update",
		ResourceType: "password",
	})

	s.log.Info("password changed", zap.String("user_id", userID))
	return nil
}

// DeleteAccount removes the user and everything they own: visits (with their
// procedures), then favorites, then the user row itself.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string, ip string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return ErrInvalidCredentials
	}

	if err := s.visitRepo.DeleteAllForUser(ctx, userID); err != nil {
		s.log.Error("failed to delete user visits", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("deleting account visits: %w", err)
	}

	if err := s.favoriteRepo.DeleteAllForUser(ctx, userID); err != nil {
		s.log.Error("failed to delete user favorites", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("deleting account favorites: %w", err)
	}

	if err := s.userRepo.DeleteAccount(ctx, id); err != nil {
		s.log.Error("failed to delete account", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("deleting account: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       userID,
		Action:       "delete",
		ResourceType: "account",
		ResourceID:   userID,
		IPAddress:    ip,
	})

	s.log.Info("account deleted", zap.String("user_id", userID))
	return nil
}

func validatePasswordStrength(password string) error {
	if len(password) < 12 {
		return &ValidationError{Fields: []string{"password must be at least 12 characters"}}
	}
	return nil
}
