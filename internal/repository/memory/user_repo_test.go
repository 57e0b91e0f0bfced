package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Nova_Community/internal/pkg"
)

func newTestUsers(t *testing.T, store *Store, names ...string) []int64 {
	t.Helper()
	repo := &UserRepository{Store: store}
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := repo.Create(name, name+"@example.com", "hash", "", nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	store := NewStore()
	ids := newTestUsers(t, store, "alice", "bob", "carol")
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestCreateRejectsDuplicateUsername(t *testing.T) {
	store := NewStore()
	repo := &UserRepository{Store: store}

	_, err := repo.Create("alice", "a@example.com", "hash", "", nil)
	require.NoError(t, err)

	_, err = repo.Create("alice", "other@example.com", "hash", "", nil)
	assert.ErrorIs(t, err, pkg.ErrDuplicateUsername)
}

func TestFindByID(t *testing.T) {
	store := NewStore()
	repo := &UserRepository{Store: store}
	newTestUsers(t, store, "alice")

	u, err := repo.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = repo.FindByID(42)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestFindByIDReturnsCopy(t *testing.T) {
	store := NewStore()
	repo := &UserRepository{Store: store}
	newTestUsers(t, store, "alice")

	u, err := repo.FindByID(1)
	require.NoError(t, err)
	u.Username = "mallory"
	u.Tags = append(u.Tags, "hacked")

	again, err := repo.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)
	assert.Empty(t, again.Tags)
}

func TestUpdateProfile(t *testing.T) {
	store := NewStore()
	repo := &UserRepository{Store: store}
	newTestUsers(t, store, "alice")

	err := repo.UpdateProfile(1, "new@example.com", "http://img", []string{"go", "graphs"})
	require.NoError(t, err)

	u, err := repo.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, []string{"go", "graphs"}, u.Tags)

	assert.ErrorIs(t, repo.UpdateProfile(99, "x", "y", nil), pkg.ErrNotFound)
}

func TestSearch(t *testing.T) {
	store := NewStore()
	repo := &UserRepository{Store: store}
	newTestUsers(t, store, "alice", "alina", "bob")
	require.NoError(t, repo.UpdateProfile(3, "b@example.com", "", []string{"go"}))

	byName := repo.Search("ali", "")
	require.Len(t, byName, 2)
	assert.Equal(t, "alice", byName[0].Username)
	assert.Equal(t, "alina", byName[1].Username)

	byTag := repo.Search("", "go")
	require.Len(t, byTag, 1)
	assert.Equal(t, "bob", byTag[0].Username)
}
