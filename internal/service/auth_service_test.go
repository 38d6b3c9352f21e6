package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/config"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/auth"
)

type fakeUserRepo struct {
	users    map[string]*domain.User
	attempts []bool
	deleted  uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	u.ID = uuid.New()
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateLoginAttempt(ctx context.Context, id uuid.UUID, success bool) error {
	f.attempts = append(f.attempts, success)
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return nil
}

func (f *fakeUserRepo) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	f.deleted = id
	return nil
}

func newAuthService(repo UserRepository) *AuthService {
	return newAuthServiceWith(repo, &fakeVisitRepo{}, &fakeFavoriteRepo{})
}

func newAuthServiceWith(repo UserRepository, visits *fakeVisitRepo, favorites *fakeFavoriteRepo) *AuthService {
	jwtManager := auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-that-is-long-enough-123",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "rvutrack-test",
	})
	audit := NewAuditService(nopAuditRepo{}, zap.NewNop(), nil)
	return NewAuthService(repo, visits, favorites, jwtManager, audit, zap.NewNop())
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	repo.users[email] = u
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Doc@Example.com", "a-long-enough-password", "Doc")
	require.NoError(t, err)
	assert.Equal(t, "doc@example.com", u.Email)

	pair, err := svc.Login(ctx, "doc@example.com", "a-long-enough-password", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, []bool{true}, repo.attempts)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), "doc@example.com", "short", "Doc")

	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
	assert.Contains(t, validErr.Fields[0], "at least 12 characters")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "doc@example.com", "a-long-enough-password")
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), "doc@example.com", "a-long-enough-password", "Doc")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginUnknownEmailReturnsInvalidCredentials(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever-password", "127.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWrongPasswordRecordsFailedAttempt(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "doc@example.com", "a-long-enough-password")
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), "doc@example.com", "wrong-password", "127.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, []bool{false}, repo.attempts)
}

func TestLoginLockedAccountRejected(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "doc@example.com", "a-long-enough-password")
	until := time.Now().Add(10 * time.Minute)
	u.LockedUntil = &until
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), "doc@example.com", "a-long-enough-password", "127.0.0.1")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestLoginInactiveAccountRejected(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "doc@example.com", "a-long-enough-password")
	u.IsActive = false
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), "doc@example.com", "a-long-enough-password", "127.0.0.1")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "doc@example.com", "a-long-enough-password")
	svc := newAuthService(repo)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "doc@example.com", "a-long-enough-password", "127.0.0.1")
	require.NoError(t, err)

	fresh, err := svc.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
}

func TestRefreshWithAccessTokenRejected(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "doc@example.com", "a-long-enough-password")
	svc := newAuthService(repo)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "doc@example.com", "a-long-enough-password", "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePasswordRequiresCurrentPassword(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "doc@example.com", "a-long-enough-password")
	svc := newAuthService(repo)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, u.ID.String(), "wrong-password", "another-long-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, u.ID.String(), "a-long-enough-password", "short")
	var validErr *ValidationError
	assert.ErrorAs(t, err, &validErr)

	err = svc.ChangePassword(ctx, u.ID.String(), "a-long-enough-password", "another-long-password")
	assert.NoError(t, err)
}

func TestDeleteAccountWipesOwnedData(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "doc@example.com", "a-long-enough-password")
	visits := &fakeVisitRepo{}
	favorites := &fakeFavoriteRepo{}
	svc := newAuthServiceWith(repo, visits, favorites)

	require.NoError(t, svc.DeleteAccount(context.Background(), u.ID.String(), "127.0.0.1"))
	assert.Equal(t, u.ID.String(), visits.wipedUser)
	assert.Equal(t, u.ID.String(), favorites.wipedUser)
	assert.Equal(t, u.ID, repo.deleted)
}

func TestDeleteAccountKeepsUserWhenWipeFails(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "doc@example.com", "a-long-enough-password")
	visits := &fakeVisitRepo{err: errors.New("boom")}
	svc := newAuthServiceWith(repo, visits, &fakeFavoriteRepo{})

	err := svc.DeleteAccount(context.Background(), u.ID.String(), "127.0.0.1")
	require.Error(t, err)
	assert.Equal(t, uuid.Nil, repo.deleted)
}
