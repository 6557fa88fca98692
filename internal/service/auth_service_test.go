package service

import (
	"context"
	"testing"
	"time"

	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func memUserRepo() *mockUserRepo {
	users := map[string]*domain.User{}
	nextID := 1
	return &mockUserRepo{
		createFn: func(ctx context.Context, user *domain.User) (*domain.User, error) {
			if _, ok := users[user.Username]; ok {
				return nil, repository.ErrDuplicateEntry
			}
			user.ID = nextID
			nextID++
			copied := *user
			users[user.Username] = &copied
			return user, nil
		},
		findByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			u, ok := users[username]
			if !ok {
				return nil, repository.ErrNotFound
			}
			copied := *u
			return &copied, nil
		},
		findAllFn: func(ctx context.Context) ([]domain.User, error) {
			out := []domain.User{}
			for _, u := range users {
				out = append(out, *u)
			}
			return out, nil
		},
	}
}

func TestAuthService_RegisterAssignsRoles(t *testing.T) {
	svc := NewAuthService(memUserRepo(), "secret", time.Hour, []string{"owner"})
	ctx := context.Background()

	ownerUser, err := svc.Register(ctx, domain.RegisterUserDTO{Username: "owner", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, ownerUser.Role)
	assert.Empty(t, ownerUser.Password)

	user, err := svc.Register(ctx, domain.RegisterUserDTO{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)

	_, err = svc.Register(ctx, domain.RegisterUserDTO{Username: "alice", Password: "other123"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_NoOwnersConfigured(t *testing.T) {
	svc := NewAuthService(memUserRepo(), "secret", time.Hour, nil)

	user, err := svc.Register(context.Background(), domain.RegisterUserDTO{Username: "owner", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)

	resp, err := svc.Login(context.Background(), domain.LoginUserDTO{Username: "owner", Password: "secret123"})
	require.NoError(t, err)
	identity, err := svc.IdentityFromToken(resp.Token)
	require.NoError(t, err)
	assert.False(t, identity.IsOwner())
}

func TestAuthService_LoginAndIdentity(t *testing.T) {
	repo := memUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, nil)
	ctx := context.Background()
	_, err := svc.Register(ctx, domain.RegisterUserDTO{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginUserDTO{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, domain.LoginUserDTO{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := svc.Login(ctx, domain.LoginUserDTO{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	identity, err := svc.IdentityFromToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{UserID: "1", Username: "alice", Role: domain.RoleUser}, identity)
}

func TestAuthService_RejectsBadTokens(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockUserRepo{findByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
		return &domain.User{ID: 5, Username: username, Password: string(hash), Role: domain.RoleUser}, nil
	}}
	svc := NewAuthService(repo, "secret", time.Hour, nil)

	_, err = svc.IdentityFromToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	other := NewAuthService(repo, "another-secret", time.Hour, nil)
	resp, err := other.Login(context.Background(), domain.LoginUserDTO{Username: "bob", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.IdentityFromToken(resp.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	svc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	resp, err = svc.Login(context.Background(), domain.LoginUserDTO{Username: "bob", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.IdentityFromToken(resp.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAuthService_ListUsersHidesPasswords(t *testing.T) {
	repo := &mockUserRepo{findAllFn: func(ctx context.Context) ([]domain.User, error) {
		return []domain.User{{ID: 1, Username: "alice", Password: "hash"}}, nil
	}}
	svc := NewAuthService(repo, "secret", time.Hour, nil)

	users, err := svc.ListUsers(context.Background())

	require.NoError(t, err)
	assert.Empty(t, users[0].Password)
}
