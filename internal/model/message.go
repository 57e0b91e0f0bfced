package model

// 消息类型
const (
	MsgTypeText  = "text"
	MsgTypeImage = "image"
	MsgTypePoll  = "poll"
)

// NoReply 表示消息不是回复
const NoReply int64 = -1

// SystemSenderID 系统公告消息的发送者 id（接管、继任通知）
const SystemSenderID int64 = 0

// Message 社区消息，id 在社区内单调递增
type Message struct {
	ID         int64  `json:"id"`
	SenderID   int64  `json:"sender_id"`
	SenderName string `json:"sender_name"` // 发送时的用户名快照，改名不回溯
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp"`

	// Upvoters 已点赞用户集合，保证点赞幂等
	Upvoters map[int64]struct{} `json:"-"`

	IsPinned  bool   `json:"is_pinned"`
	ReplyToID int64  `json:"reply_to_id"`
	Type      string `json:"type"`
	MediaURL  string `json:"media_url"`

	Poll *PollData `json:"poll,omitempty"`
}

func (m *Message) UpvotedBy(userID int64) bool {
	_, ok := m.Upvoters[userID]
	return ok
}

// PollData 投票消息的附加数据
type PollData struct {
	Question      string        `json:"question"`
	AllowMultiple bool          `json:"allow_multiple"`
	Options       []*PollOption `json:"options"`
}

// PollOption 投票选项，id 创建时按 0..n-1 分配且不再变动
type PollOption struct {
	ID       int64              `json:"id"`
	Text     string             `json:"text"`
	VoterIDs map[int64]struct{} `json:"-"`
}

func (p *PollData) Option(optionID int64) *PollOption {
	for _, o := range p.Options {
		if o.ID == optionID {
			return o
		}
	}
	return nil
}
