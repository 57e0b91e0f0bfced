package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Nova_Community/internal/model"
	"Nova_Community/internal/pkg"
)

func TestPostMessage(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice", "bob")
	c := newTestCommunity(t, store, 1)
	repo := &MessageRepository{Store: store}

	m, res := repo.Post(c.ID, 1, "hello", "", "", model.NoReply)
	require.Equal(t, model.ModOK, res)
	assert.Equal(t, int64(1), m.ID)
	assert.Equal(t, "alice", m.SenderName)
	assert.Equal(t, model.MsgTypeText, m.Type)
	assert.Equal(t, int64(model.NoReply), m.ReplyToID)

	m2, res := repo.Post(c.ID, 1, "again", "", "", model.NoReply)
	require.Equal(t, model.ModOK, res)
	assert.Equal(t, int64(2), m2.ID)
}

func TestPostNonMemberDenied(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice", "bob")
	c := newTestCommunity(t, store, 1)
	repo := &MessageRepository{Store: store}

	m, res := repo.Post(c.ID, 2, "let me in", "", "", model.NoReply)
	assert.Equal(t, model.ModDenied, res)
	assert.Nil(t, m)

	history, err := repo.History(c.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPostNormalizesMessageType(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice")
	c := newTestCommunity(t, store, 1)
	repo := &MessageRepository{Store: store}

	m, res := repo.Post(c.ID, 1, "pic", "image", "http://img/x.png", model.NoReply)
	require.Equal(t, model.ModOK, res)
	assert.Equal(t, model.MsgTypeImage, m.Type)

	// 带分隔符的类型串不能进模型，归一成文本
	m, res = repo.Post(c.ID, 1, "payload", "image|http://evil", "http://real", model.NoReply)
	require.Equal(t, model.ModOK, res)
	assert.Equal(t, model.MsgTypeText, m.Type)
	assert.Equal(t, "http://real", m.MediaURL)

	// poll 类型只能由 CreatePoll 产生
	m, res = repo.Post(c.ID, 1, "not a poll", model.MsgTypePoll, "", model.NoReply)
	require.Equal(t, model.ModOK, res)
	assert.Equal(t, model.MsgTypeText, m.Type)
	assert.Nil(t, m.Poll)
}

func TestPostReplyToMissingMessageNormalized(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice")
	c := newTestCommunity(t, store, 1)
	repo := &MessageRepository{Store: store}

	m, res := repo.Post(c.ID, 1, "orphan reply", "", "", 99)
	require.Equal(t, model.ModOK, res)
	assert.Equal(t, int64(model.NoReply), m.ReplyToID)
}

func TestMessageIDsStayMonotonicAfterDelete(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice")
	c := newTestCommunity(t, store, 1)
	repo := &MessageRepository{Store: store}

	m1, _ := repo.Post(c.ID, 1, "one", "", "", model.NoReply)
	repo.Post(c.ID, 1, "two", "", "", model.NoReply)
	require.Equal(t, model.ModOK, repo.Delete(c.ID, 1, m1.ID))

	m3, res := repo.Post(c.ID, 1, "three", "", "", model.NoReply)
	require.Equal(t, model.ModOK, res)
	// 删除不回收 id
	assert.Equal(t, int64(3), m3.ID)
}

func TestUpvoteIdempotentKarma(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice", "bob")
	c := newTestCommunity(t, store, 1)
	comms := &CommunityRepository{Store: store}
	repo := &MessageRepository{Store: store}
	users := &UserRepository{Store: store}

	require.Equal(t, model.ModOK, comms.Join(2, c.ID))

	m, _ := repo.Post(c.ID, 1, "upvote me", "", "", model.NoReply)
	require.NoError(t, repo.Upvote(c.ID, 2, m.ID))
	require.NoError(t, repo.Upvote(c.ID, 2, m.ID))

	u, err := users.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, 5, u.Karma)

	history, err := repo.History(c.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Len(t, history[0].Upvoters, 1)
}

func TestTogglePinModeratorOnly(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice", "bob")
	c := newTestCommunity(t, store, 1)
	comms := &CommunityRepository{Store: store}
	repo := &MessageRepository{Store: store}

	require.Equal(t, model.ModOK, comms.Join(2, c.ID))
	m, _ := repo.Post(c.ID, 1, "pin me", "", "", model.NoReply)

	assert.Equal(t, model.ModDenied, repo.TogglePin(c.ID, 2, m.ID))
	assert.Equal(t, model.ModOK, repo.TogglePin(c.ID, 1, m.ID))

	history, err := repo.History(c.ID, 0, 10)
	require.NoError(t, err)
	assert.True(t, history[0].IsPinned)

	// 再切一次取消置顶
	assert.Equal(t, model.ModOK, repo.TogglePin(c.ID, 1, m.ID))
	history, err = repo.History(c.ID, 0, 10)
	require.NoError(t, err)
	assert.False(t, history[0].IsPinned)
}

func TestDeleteMessage(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice", "bob")
	c := newTestCommunity(t, store, 1)
	comms := &CommunityRepository{Store: store}
	repo := &MessageRepository{Store: store}

	require.Equal(t, model.ModOK, comms.Join(2, c.ID))
	m, _ := repo.Post(c.ID, 1, "delete me", "", "", model.NoReply)

	assert.Equal(t, model.ModDenied, repo.Delete(c.ID, 2, m.ID))
	assert.Equal(t, model.ModOK, repo.Delete(c.ID, 1, m.ID))
	assert.Equal(t, model.ModNotFound, repo.Delete(c.ID, 1, m.ID))
}

func TestCreatePollAssignsOptionIDs(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice")
	c := newTestCommunity(t, store, 1)
	repo := &MessageRepository{Store: store}

	m, res := repo.CreatePoll(c.ID, 1, "tabs or spaces?", false, []string{"tabs", "spaces"})
	require.Equal(t, model.ModOK, res)
	assert.Equal(t, model.MsgTypePoll, m.Type)
	require.NotNil(t, m.Poll)
	require.Len(t, m.Poll.Options, 2)
	assert.Equal(t, int64(0), m.Poll.Options[0].ID)
	assert.Equal(t, "tabs", m.Poll.Options[0].Text)
	assert.Equal(t, int64(1), m.Poll.Options[1].ID)
}

func TestCreatePollValidation(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice", "bob")
	c := newTestCommunity(t, store, 1)
	repo := &MessageRepository{Store: store}

	_, res := repo.CreatePoll(c.ID, 1, "", false, []string{"a"})
	assert.Equal(t, model.ModInvalid, res)
	_, res = repo.CreatePoll(c.ID, 1, "q?", false, nil)
	assert.Equal(t, model.ModInvalid, res)
	_, res = repo.CreatePoll(c.ID, 2, "q?", false, []string{"a"})
	assert.Equal(t, model.ModDenied, res)
}

// pollVoters 取指定选项当前的投票人数
func pollVoters(t *testing.T, repo *MessageRepository, commID, msgID int64) []*model.PollOption {
	t.Helper()
	history, err := repo.History(commID, 0, 50)
	require.NoError(t, err)
	for _, m := range history {
		if m.ID == msgID {
			require.NotNil(t, m.Poll)
			return m.Poll.Options
		}
	}
	t.Fatalf("poll message %d not found", msgID)
	return nil
}

func TestSingleChoicePollHoldsAtMostOneVote(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice")
	c := newTestCommunity(t, store, 1)
	repo := &MessageRepository{Store: store}

	m, _ := repo.CreatePoll(c.ID, 1, "pick one", false, []string{"a", "b", "c"})

	require.NoError(t, repo.ToggleVote(c.ID, 1, m.ID, 0))
	opts := pollVoters(t, repo, c.ID, m.ID)
	assert.Len(t, opts[0].VoterIDs, 1)

	// 改投 b 会先撤掉 a 上的票
	require.NoError(t, repo.ToggleVote(c.ID, 1, m.ID, 1))
	opts = pollVoters(t, repo, c.ID, m.ID)
	assert.Empty(t, opts[0].VoterIDs)
	assert.Len(t, opts[1].VoterIDs, 1)

	// 再点同一项是撤票
	require.NoError(t, repo.ToggleVote(c.ID, 1, m.ID, 1))
	opts = pollVoters(t, repo, c.ID, m.ID)
	assert.Empty(t, opts[1].VoterIDs)
}

func TestMultiChoicePollTogglesIndependently(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice")
	c := newTestCommunity(t, store, 1)
	repo := &MessageRepository{Store: store}

	m, _ := repo.CreatePoll(c.ID, 1, "pick any", true, []string{"a", "b"})

	require.NoError(t, repo.ToggleVote(c.ID, 1, m.ID, 0))
	require.NoError(t, repo.ToggleVote(c.ID, 1, m.ID, 1))
	opts := pollVoters(t, repo, c.ID, m.ID)
	assert.Len(t, opts[0].VoterIDs, 1)
	assert.Len(t, opts[1].VoterIDs, 1)

	require.NoError(t, repo.ToggleVote(c.ID, 1, m.ID, 0))
	opts = pollVoters(t, repo, c.ID, m.ID)
	assert.Empty(t, opts[0].VoterIDs)
	assert.Len(t, opts[1].VoterIDs, 1)
}

func TestToggleVoteErrors(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice", "bob")
	c := newTestCommunity(t, store, 1)
	repo := &MessageRepository{Store: store}

	text, _ := repo.Post(c.ID, 1, "not a poll", "", "", model.NoReply)
	poll, _ := repo.CreatePoll(c.ID, 1, "q?", false, []string{"a"})

	assert.ErrorIs(t, repo.ToggleVote(c.ID, 1, text.ID, 0), pkg.ErrInvalidState)
	assert.ErrorIs(t, repo.ToggleVote(c.ID, 2, poll.ID, 0), pkg.ErrForbidden)
	assert.ErrorIs(t, repo.ToggleVote(c.ID, 1, poll.ID, 9), pkg.ErrNotFound)
	assert.ErrorIs(t, repo.ToggleVote(c.ID, 1, 99, 0), pkg.ErrNotFound)
}

func TestHistoryTailWindow(t *testing.T) {
	store := NewStore()
	newTestUsers(t, store, "alice")
	c := newTestCommunity(t, store, 1)
	repo := &MessageRepository{Store: store}

	for i := 0; i < 5; i++ {
		_, res := repo.Post(c.ID, 1, "msg", "", "", model.NoReply)
		require.Equal(t, model.ModOK, res)
	}

	// 最近两条
	out, err := repo.History(c.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(4), out[0].ID)
	assert.Equal(t, int64(5), out[1].ID)

	// 跳过最近两条再取两条
	out, err = repo.History(c.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(2), out[0].ID)
	assert.Equal(t, int64(3), out[1].ID)

	// offset 越界给空
	out, err = repo.History(c.ID, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, out)
}
