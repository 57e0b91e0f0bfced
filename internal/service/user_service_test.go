package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Nova_Community/internal/pkg"
	"Nova_Community/internal/repository/memory"
)

func TestRegisterAndLogin(t *testing.T) {
	pkg.SetSecrets("test-access", "test-refresh")
	store := memory.NewStore()
	svc := NewUserService(store)

	id, err := svc.Register("alice", "s3cret", "a@example.com", "", []string{"go"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	// 库里存的是哈希，不是明文
	u, err := svc.GetUser(id)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", u.Password)

	gotID, pair, err := svc.Login("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := pkg.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	pkg.SetSecrets("test-access", "test-refresh")
	store := memory.NewStore()
	svc := NewUserService(store)

	_, err := svc.Register("alice", "s3cret", "a@example.com", "", nil)
	require.NoError(t, err)

	_, _, err = svc.Login("alice", "wrong")
	assert.ErrorIs(t, err, pkg.ErrInvalidCredential)

	_, _, err = svc.Login("nobody", "s3cret")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestRegisterValidation(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store)

	_, err := svc.Register("", "pw", "", "", nil)
	assert.Error(t, err)
	_, err = svc.Register("alice", "", "", "", nil)
	assert.Error(t, err)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store)

	_, err := svc.Register("alice", "pw", "", "", nil)
	require.NoError(t, err)
	_, err = svc.Register("alice", "pw2", "", "", nil)
	assert.ErrorIs(t, err, pkg.ErrDuplicateUsername)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	pkg.SetSecrets("test-access", "test-refresh")
	store := memory.NewStore()
	svc := NewUserService(store)

	id, err := svc.Register("alice", "s3cret", "", "", nil)
	require.NoError(t, err)
	_, pair, err := svc.Login("alice", "s3cret")
	require.NoError(t, err)

	next, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	claims, err := pkg.ParseAccess(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)

	_, err = svc.Refresh("not-a-token")
	assert.Error(t, err)
}
