package model

// 社区 id 从 100 起分配，避开历史数据里的小数字 id
const FirstCommunityID int64 = 100

// Community 社区实体，聊天记录按插入顺序即时间顺序保存
type Community struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CoverURL    string   `json:"cover_url"`
	Tags        []string `json:"tags"`

	// 角色集合，约束：admins ⊆ moderators ⊆ members，banned 与 members 互斥
	Members     map[int64]struct{} `json:"-"`
	Moderators  map[int64]struct{} `json:"-"`
	Admins      map[int64]struct{} `json:"-"`
	BannedUsers map[int64]struct{} `json:"-"`

	ChatHistory []*Message `json:"-"`
	NextMsgID   int64      `json:"-"`
}

func (c *Community) IsMember(id int64) bool {
	_, ok := c.Members[id]
	return ok
}

func (c *Community) IsModerator(id int64) bool {
	_, ok := c.Moderators[id]
	return ok
}

func (c *Community) IsAdmin(id int64) bool {
	_, ok := c.Admins[id]
	return ok
}

func (c *Community) IsBanned(id int64) bool {
	_, ok := c.BannedUsers[id]
	return ok
}

// FindMessage 按稳定 id 查消息，不按下标（删除会移动下标）
func (c *Community) FindMessage(msgID int64) *Message {
	for _, m := range c.ChatHistory {
		if m.ID == msgID {
			return m
		}
	}
	return nil
}
