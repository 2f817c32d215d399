package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/careops/as-service/internal/config"
	"github.com/careops/as-service/internal/domain"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	seq     int
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	stored := *user
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 30,
		BcryptCost:            4,
	}, repo)
	return svc, repo
}

func TestRegisterUserAndLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, err := svc.RegisterUser(context.Background(), "관리자", "admin@example.com", "secret-pw", domain.UserRoleAdmin, nil)
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, domain.UserRoleAdmin, user.Role)
	require.NotEqual(t, "secret-pw", user.PasswordHash)

	loggedIn, token, _, err := svc.Login(context.Background(), "admin@example.com", "secret-pw")
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.SubjectID)
}

func TestRegisterUserDefaultsToAgent(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, err := svc.RegisterUser(context.Background(), "상담원", "agent@example.com", "pw123456", "", nil)
	require.NoError(t, err)
	require.Equal(t, domain.UserRoleAgent, user.Role)
}

func TestRegisterUserRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.RegisterUser(context.Background(), "첫번째", "dup@example.com", "pw123456", domain.UserRoleAgent, nil)
	require.NoError(t, err)

	_, err = svc.RegisterUser(context.Background(), "두번째", "dup@example.com", "pw123456", domain.UserRoleAgent, nil)
	require.Error(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.RegisterUser(context.Background(), "유저", "user@example.com", "right-pw", domain.UserRoleAgent, nil)
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "user@example.com", "wrong-pw")
	require.Error(t, err)

	_, _, _, err = svc.Login(context.Background(), "nobody@example.com", "right-pw")
	require.Error(t, err)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc, repo := newAuthFixture(t)

	user, err := svc.RegisterUser(context.Background(), "정지유저", "frozen@example.com", "pw123456", domain.UserRoleAgent, nil)
	require.NoError(t, err)

	user.Status = domain.UserStatusDisabled
	require.NoError(t, repo.Update(context.Background(), user))

	_, _, _, err = svc.Login(context.Background(), "frozen@example.com", "pw123456")
	require.Error(t, err)
}
