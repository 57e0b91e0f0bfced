package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Nova_Community/internal/model"
	"Nova_Community/internal/pkg"
)

func TestDirectChatSend(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice", "bob")
	repo := &DirectChatRepository{Store: store}

	m, err := repo.Send(1, 2, "hi bob", model.NoReply, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.ID)
	assert.Equal(t, int64(1), m.SenderID)
	assert.False(t, m.IsSeen)

	// 双方看到的是同一个会话
	m2, err := repo.Send(2, 1, "hi alice", model.NoReply, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), m2.ID)
}

func TestDirectChatSendNormalizesType(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice", "bob")
	repo := &DirectChatRepository{Store: store}

	m, err := repo.Send(1, 2, "pic", model.NoReply, "image", "http://img/x.png")
	require.NoError(t, err)
	assert.Equal(t, model.MsgTypeImage, m.Type)

	m, err = repo.Send(1, 2, "payload", model.NoReply, "gif|http://evil", "http://real")
	require.NoError(t, err)
	assert.Equal(t, model.MsgTypeText, m.Type)
	assert.Equal(t, "http://real", m.MediaURL)
}

func TestDirectChatSendValidation(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice")
	repo := &DirectChatRepository{Store: store}

	_, err := repo.Send(1, 1, "me myself", model.NoReply, "", "")
	assert.ErrorIs(t, err, pkg.ErrInvalidState)
	_, err = repo.Send(1, 42, "ghost", model.NoReply, "", "")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestDirectChatListMarksSeen(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice", "bob")
	repo := &DirectChatRepository{Store: store}

	_, err := repo.Send(1, 2, "hello", model.NoReply, "", "")
	require.NoError(t, err)

	// bob 读取后 alice 的消息标记已读
	out, err := repo.List(2, 1, 0, 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].IsSeen)

	// alice 自己读不会把自己发的标成已读之外的状态
	out, err = repo.List(1, 2, 0, 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestDirectChatReact(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice", "bob")
	repo := &DirectChatRepository{Store: store}

	m, err := repo.Send(1, 2, "react to this", model.NoReply, "", "")
	require.NoError(t, err)

	require.NoError(t, repo.React(2, 1, m.ID, "👍"))
	out, err := repo.List(1, 2, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "👍", out[0].Reaction)

	assert.ErrorIs(t, repo.React(2, 1, 99, "x"), pkg.ErrNotFound)
}

func TestDirectChatDeleteSenderOnly(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice", "bob")
	repo := &DirectChatRepository{Store: store}

	m, err := repo.Send(1, 2, "oops", model.NoReply, "", "")
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Delete(2, 1, m.ID), pkg.ErrForbidden)
	require.NoError(t, repo.Delete(1, 2, m.ID))

	out, err := repo.List(1, 2, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestActiveChats(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice", "bob", "carol")
	repo := &DirectChatRepository{Store: store}

	_, err := repo.Send(1, 3, "hi", model.NoReply, "", "")
	require.NoError(t, err)
	_, err = repo.Send(2, 1, "hey", model.NoReply, "", "")
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 3}, repo.ActiveChats(1))
	assert.Equal(t, []int64{1}, repo.ActiveChats(2))
	assert.Empty(t, repo.ActiveChats(42))
}
