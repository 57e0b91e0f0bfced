package memory

import (
	"sort"
	"strconv"
	"strings"

	"Nova_Community/internal/model"
	"Nova_Community/internal/pkg"
)

// DirectChatRepository 私聊会话，key 与参与者顺序无关，
// 消息 id 在会话内独立递增。
type DirectChatRepository struct {
	Store *Store
}

// Send 发私聊消息，会话不存在时懒创建
func (r *DirectChatRepository) Send(senderID, receiverID int64, content string, replyToID int64, msgType, mediaURL string) (*model.DirectMessage, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	if senderID == receiverID {
		return nil, pkg.ErrInvalidState
	}
	if _, ok := s.users[senderID]; !ok {
		return nil, pkg.ErrNotFound
	}
	if _, ok := s.users[receiverID]; !ok {
		return nil, pkg.ErrNotFound
	}

	key := model.ChatKey(senderID, receiverID)
	chat, ok := s.chats[key]
	if !ok {
		chat = &model.DirectChat{ChatKey: key, NextMsgID: 1}
		s.chats[key] = chat
	}

	// 类型白名单，同社区消息：未知类型归一成文本
	if msgType != model.MsgTypeImage {
		msgType = model.MsgTypeText
	}
	if replyToID != model.NoReply && chat.FindMessage(replyToID) == nil {
		replyToID = model.NoReply
	}

	m := &model.DirectMessage{
		ID:        chat.NextMsgID,
		SenderID:  senderID,
		Content:   content,
		Timestamp: clockNow(),
		ReplyToID: replyToID,
		Type:      msgType,
		MediaURL:  mediaURL,
	}
	chat.NextMsgID++
	chat.Messages = append(chat.Messages, m)
	s.touch()

	c := *m
	return &c, nil
}

// React 给消息贴表情，仅会话参与者可操作
func (r *DirectChatRepository) React(userID, friendID, msgID int64, reaction string) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[model.ChatKey(userID, friendID)]
	if !ok {
		return pkg.ErrNotFound
	}
	m := chat.FindMessage(msgID)
	if m == nil {
		return pkg.ErrNotFound
	}
	m.Reaction = reaction
	s.touch()
	return nil
}

// Delete 删私聊消息，只允许删自己发的
func (r *DirectChatRepository) Delete(userID, friendID, msgID int64) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[model.ChatKey(userID, friendID)]
	if !ok {
		return pkg.ErrNotFound
	}
	for i, m := range chat.Messages {
		if m.ID == msgID {
			if m.SenderID != userID {
				return pkg.ErrForbidden
			}
			chat.Messages = append(chat.Messages[:i], chat.Messages[i+1:]...)
			s.touch()
			return nil
		}
	}
	return pkg.ErrNotFound
}

// List 按 offset/limit 从尾部取消息，同时把发给 viewer 的消息标记已读
func (r *DirectChatRepository) List(viewerID, friendID int64, offset, limit int) ([]*model.DirectMessage, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[model.ChatKey(viewerID, friendID)]
	if !ok {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	total := len(chat.Messages)
	end := total - offset
	if end < 0 {
		end = 0
	}
	start := end - limit
	if start < 0 {
		start = 0
	}

	out := make([]*model.DirectMessage, 0, end-start)
	for _, m := range chat.Messages[start:end] {
		if m.SenderID == friendID && !m.IsSeen {
			m.IsSeen = true
			s.touch()
		}
		c := *m
		out = append(out, &c)
	}
	return out, nil
}

// ActiveChats 有过私聊往来的对端 id 列表（升序）
func (r *DirectChatRepository) ActiveChats(userID int64) []int64 {
	s := r.Store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []int64
	for key, chat := range s.chats {
		if len(chat.Messages) == 0 {
			continue
		}
		a, b, ok := splitChatKey(key)
		if !ok {
			continue
		}
		if a == userID {
			out = append(out, b)
		} else if b == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func splitChatKey(key string) (int64, int64, bool) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	a, err1 := strconv.ParseInt(parts[0], 10, 64)
	b, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}
