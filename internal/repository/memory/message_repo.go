package memory

import (
	"Nova_Community/internal/model"
	"Nova_Community/internal/pkg"
)

// upvoteKarma 每个首次点赞给发送者加的 karma
const upvoteKarma = 5

// MessageRepository 社区消息与投票。消息一律按稳定 id 寻址。
type MessageRepository struct {
	Store *Store
}

// Post 发消息。发送者必须是成员（非成员静默失败）。
// senderName 取发送时的用户名快照，之后改名不回溯历史。
func (r *MessageRepository) Post(commID, senderID int64, content, msgType, mediaURL string, replyToID int64) (*model.Message, model.ModResult) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[commID]
	if !ok {
		return nil, model.ModNotFound
	}
	if !c.IsMember(senderID) {
		return nil, model.ModDenied
	}
	// 类型走白名单：投票消息只能经 CreatePoll 产生，
	// 未知或空类型一律归一成文本，不让调用方的字符串进落盘格式
	if msgType != model.MsgTypeImage {
		msgType = model.MsgTypeText
	}
	// 回复指向不存在的消息时归一成非回复，而不是拒绝
	if replyToID != model.NoReply && c.FindMessage(replyToID) == nil {
		replyToID = model.NoReply
	}

	m := &model.Message{
		ID:         c.NextMsgID,
		SenderID:   senderID,
		SenderName: s.displayName(senderID),
		Content:    content,
		Timestamp:  clockNow(),
		Upvoters:   make(map[int64]struct{}),
		ReplyToID:  replyToID,
		Type:       msgType,
		MediaURL:   mediaURL,
	}
	c.NextMsgID++
	c.ChatHistory = append(c.ChatHistory, m)
	s.touch()
	return copyMessage(m), model.ModOK
}

// Upvote 点赞。幂等：同一用户重复点不再生效，
// 只有首次点赞给发送者 +5 karma。
func (r *MessageRepository) Upvote(commID, userID, msgID int64) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[commID]
	if !ok {
		return pkg.ErrNotFound
	}
	m := c.FindMessage(msgID)
	if m == nil {
		return pkg.ErrNotFound
	}
	if _, voted := m.Upvoters[userID]; voted {
		return nil
	}
	m.Upvoters[userID] = struct{}{}
	if sender, ok := s.users[m.SenderID]; ok {
		sender.Karma += upvoteKarma
	}
	s.touch()
	return nil
}

// TogglePin 置顶开关，仅版主可用
func (r *MessageRepository) TogglePin(commID, actorID, msgID int64) model.ModResult {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[commID]
	if !ok {
		return model.ModNotFound
	}
	if !c.IsModerator(actorID) {
		return model.ModDenied
	}
	m := c.FindMessage(msgID)
	if m == nil {
		return model.ModNotFound
	}
	m.IsPinned = !m.IsPinned
	s.touch()
	return model.ModOK
}

// Delete 删消息，仅版主可用。按 id 删，不按下标。
func (r *MessageRepository) Delete(commID, actorID, msgID int64) model.ModResult {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[commID]
	if !ok {
		return model.ModNotFound
	}
	if !c.IsModerator(actorID) {
		return model.ModDenied
	}
	for i, m := range c.ChatHistory {
		if m.ID == msgID {
			c.ChatHistory = append(c.ChatHistory[:i], c.ChatHistory[i+1:]...)
			s.touch()
			return model.ModOK
		}
	}
	return model.ModNotFound
}

// CreatePoll 发投票消息，选项 id 按 0..n-1 固定分配
func (r *MessageRepository) CreatePoll(commID, senderID int64, question string, allowMultiple bool, options []string) (*model.Message, model.ModResult) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[commID]
	if !ok {
		return nil, model.ModNotFound
	}
	if !c.IsMember(senderID) {
		return nil, model.ModDenied
	}
	if question == "" || len(options) == 0 {
		return nil, model.ModInvalid
	}

	poll := &model.PollData{
		Question:      question,
		AllowMultiple: allowMultiple,
	}
	for i, text := range options {
		poll.Options = append(poll.Options, &model.PollOption{
			ID:       int64(i),
			Text:     text,
			VoterIDs: make(map[int64]struct{}),
		})
	}

	m := &model.Message{
		ID:         c.NextMsgID,
		SenderID:   senderID,
		SenderName: s.displayName(senderID),
		Content:    question,
		Timestamp:  clockNow(),
		Upvoters:   make(map[int64]struct{}),
		ReplyToID:  model.NoReply,
		Type:       model.MsgTypePoll,
		Poll:       poll,
	}
	c.NextMsgID++
	c.ChatHistory = append(c.ChatHistory, m)
	s.touch()
	return copyMessage(m), model.ModOK
}

// ToggleVote 投票开关。单选时给 B 投票会先撤掉该用户在 A 上的票；
// 多选时每个选项独立幂等切换。
func (r *MessageRepository) ToggleVote(commID, userID, msgID, optionID int64) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[commID]
	if !ok {
		return pkg.ErrNotFound
	}
	if !c.IsMember(userID) {
		return pkg.ErrForbidden
	}
	m := c.FindMessage(msgID)
	if m == nil {
		return pkg.ErrNotFound
	}
	if m.Type != model.MsgTypePoll || m.Poll == nil {
		return pkg.ErrInvalidState
	}
	opt := m.Poll.Option(optionID)
	if opt == nil {
		return pkg.ErrNotFound
	}

	if _, voted := opt.VoterIDs[userID]; voted {
		delete(opt.VoterIDs, userID)
		s.touch()
		return nil
	}
	if !m.Poll.AllowMultiple {
		for _, o := range m.Poll.Options {
			delete(o.VoterIDs, userID)
		}
	}
	opt.VoterIDs[userID] = struct{}{}
	s.touch()
	return nil
}

// History 按 offset/limit 从尾部取聊天记录（最近的在最后）
func (r *MessageRepository) History(commID int64, offset, limit int) ([]*model.Message, error) {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.communities[commID]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	if limit <= 0 {
		limit = 50
	}

	total := len(c.ChatHistory)
	end := total - offset
	if end < 0 {
		end = 0
	}
	start := end - limit
	if start < 0 {
		start = 0
	}

	out := make([]*model.Message, 0, end-start)
	for _, m := range c.ChatHistory[start:end] {
		out = append(out, copyMessage(m))
	}
	return out, nil
}

func copyMessage(m *model.Message) *model.Message {
	c := *m
	c.Upvoters = copySet(m.Upvoters)
	if m.Poll != nil {
		poll := &model.PollData{
			Question:      m.Poll.Question,
			AllowMultiple: m.Poll.AllowMultiple,
		}
		for _, o := range m.Poll.Options {
			poll.Options = append(poll.Options, &model.PollOption{
				ID:       o.ID,
				Text:     o.Text,
				VoterIDs: copySet(o.VoterIDs),
			})
		}
		c.Poll = poll
	}
	return &c
}
