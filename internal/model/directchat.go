package model

import "fmt"

// DirectMessage 私聊消息，id 在每个会话内独立递增
type DirectMessage struct {
	ID        int64  `json:"id"`
	SenderID  int64  `json:"sender_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	ReplyToID int64  `json:"reply_to_id"`
	Reaction  string `json:"reaction"`
	IsSeen    bool   `json:"is_seen"`
	Type      string `json:"type"`
	MediaURL  string `json:"media_url"`
}

// DirectChat 两人会话，key 与参与者顺序无关
type DirectChat struct {
	ChatKey   string           `json:"chat_key"`
	Messages  []*DirectMessage `json:"messages"`
	NextMsgID int64            `json:"-"`
}

// ChatKey 生成顺序无关的会话 key，如 "3_17"
func ChatKey(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

func (d *DirectChat) FindMessage(msgID int64) *DirectMessage {
	for _, m := range d.Messages {
		if m.ID == msgID {
			return m
		}
	}
	return nil
}
