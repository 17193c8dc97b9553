package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/auth/domain"
	"github.com/finbooks/salesdesk/internal/auth/repository"
	"github.com/finbooks/salesdesk/internal/clock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (*Service, *clock.FakeClock) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.User{}, &domain.Group{}, &domain.Session{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC))
	svc := &Service{
		db:         conn,
		log:        zap.NewNop(),
		genID:      node,
		clock:      fake,
		repo:       repository.Provide(),
		sessionTTL: time.Hour,
	}
	return svc, fake
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), domain.LoginRequest{Username: "jdoe", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, domain.RoleAppUser, resp.User.Role)

	me, err := svc.Authenticate(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", me.Username)

	require.NoError(t, svc.Logout(context.Background(), resp.Token))
	_, err = svc.Authenticate(context.Background(), resp.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{Username: "jdoe", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), domain.LoginRequest{Username: "jdoe", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), domain.LoginRequest{Username: "nobody", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSessionExpiry(t *testing.T) {
	svc, fake := setupService(t)

	_, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{Username: "jdoe", Password: "correct-horse"})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), domain.LoginRequest{Username: "jdoe", Password: "correct-horse"})
	require.NoError(t, err)

	fake.Advance(2 * time.Hour)
	_, err = svc.Authenticate(context.Background(), resp.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestRoleDerivation(t *testing.T) {
	svc, _ := setupService(t)

	view, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{Username: "plain", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAppUser, view.Role)

	// Promote through admin group membership.
	user, err := svc.repo.FindUserByUsername(context.Background(), svc.db, "plain")
	require.NoError(t, err)
	group, err := svc.ensureGroup(context.Background(), svc.db, domain.GroupAppAdmin)
	require.NoError(t, err)
	require.NoError(t, svc.repo.AddUserToGroup(context.Background(), svc.db, user, group))

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.RoleAppAdmin, users[0].Role)
}

func TestSuperuserIsAdmin(t *testing.T) {
	user := &domain.User{IsSuperuser: true}
	assert.Equal(t, domain.RoleAppAdmin, user.Role())
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrInvalidUsername)

	_, err = svc.CreateUser(context.Background(), domain.CreateUserRequest{Username: "jdoe", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	_, err = svc.CreateUser(context.Background(), domain.CreateUserRequest{Username: "jdoe", Password: "password1"})
	require.NoError(t, err)
	_, err = svc.CreateUser(context.Background(), domain.CreateUserRequest{Username: "jdoe", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestDeleteUserRevokesSessions(t *testing.T) {
	svc, _ := setupService(t)

	view, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{Username: "jdoe", Password: "password1"})
	require.NoError(t, err)
	resp, err := svc.Login(context.Background(), domain.LoginRequest{Username: "jdoe", Password: "password1"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), view.ID))
	_, err = svc.Authenticate(context.Background(), resp.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
