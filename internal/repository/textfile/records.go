package textfile

import (
	"strings"

	"Nova_Community/internal/model"
)

// 各表的行格式。用户/图用 ','，社区/消息/私聊用 '|'。
// 新字段只追加在行尾，老文件靠宽容解析兼容：
//
//	users.txt        id,username,email,password,avatarUrl,tags,karma,pending
//	graph.txt        id,friend1,friend2,...
//	communities.txt  id|name|desc|tags|members|moderators|admins|banned|coverUrl|nextMsgId
//	messages.txt     commId|msgId|senderId|senderName|timestamp|content|type|mediaUrl|replyToId|pinned|upvoters|allowMultiple|options
//	dms.txt          chatKey|msgId|senderId|timestamp|content|replyToId|reaction|seen|type|mediaUrl
//
// 投票选项编码成 id^text^voter;voter，多个选项用 '~' 连接。

func parseUserLine(line string) *model.User {
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return nil
	}
	return &model.User{
		ID:              intAt(parts, 0, 0),
		Username:        parts[1],
		Email:           fieldAt(parts, 2, ""),
		Password:        fieldAt(parts, 3, ""),
		AvatarURL:       fieldAt(parts, 4, ""),
		Tags:            parseStringList(fieldAt(parts, 5, nullToken), ";"),
		Karma:           int(intAt(parts, 6, 0)),
		PendingRequests: idSetFromList(parseIDList(fieldAt(parts, 7, nullToken), ";")),
	}
}

func writeUserLine(b *strings.Builder, u *model.User) {
	fields := []string{
		formatInt(u.ID),
		sanitizeComma(u.Username),
		sanitizeComma(u.Email),
		sanitizeComma(u.Password),
		sanitizeComma(u.AvatarURL),
		stringListToField(sanitizeTags(u.Tags, sanitizeComma), ";"),
		formatInt(int64(u.Karma)),
		idSetToField(u.PendingRequests, ";"),
	}
	b.WriteString(strings.Join(fields, ","))
	b.WriteByte('\n')
}

// parseGraphLine 装载时顺手清洗：去自环，重边靠 Import 的集合语义去掉
func parseGraphLine(line string) (int64, []int64, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 1 || parts[0] == "" {
		return 0, nil, false
	}
	id := intAt(parts, 0, 0)
	var friends []int64
	for _, f := range parseIDList(strings.Join(parts[1:], ","), ",") {
		if f != id {
			friends = append(friends, f)
		}
	}
	return id, friends, true
}

// writeGraphLine 邻接表已排序去重，保证插入顺序无关的规范输出
func writeGraphLine(b *strings.Builder, id int64, friends []int64) {
	b.WriteString(formatInt(id))
	for _, f := range friends {
		b.WriteByte(',')
		b.WriteString(formatInt(f))
	}
	b.WriteByte('\n')
}

func parseCommunityLine(line string) *model.Community {
	parts := strings.Split(line, "|")
	if len(parts) < 3 {
		return nil
	}
	return &model.Community{
		ID:          intAt(parts, 0, 0),
		Name:        parts[1],
		Description: parts[2],
		Tags:        parseStringList(fieldAt(parts, 3, nullToken), ","),
		Members:     idSetFromList(parseIDList(fieldAt(parts, 4, nullToken), ",")),
		Moderators:  idSetFromList(parseIDList(fieldAt(parts, 5, nullToken), ",")),
		Admins:      idSetFromList(parseIDList(fieldAt(parts, 6, nullToken), ",")),
		BannedUsers: idSetFromList(parseIDList(fieldAt(parts, 7, nullToken), ",")),
		CoverURL:    fieldAt(parts, 8, ""),
		NextMsgID:   intAt(parts, 9, 0),
	}
}

func writeCommunityLine(b *strings.Builder, c *model.Community) {
	fields := []string{
		formatInt(c.ID),
		sanitize(c.Name),
		sanitize(c.Description),
		stringListToField(sanitizeTags(c.Tags, sanitizeListItem), ","),
		idSetToField(c.Members, ","),
		idSetToField(c.Moderators, ","),
		idSetToField(c.Admins, ","),
		idSetToField(c.BannedUsers, ","),
		sanitize(c.CoverURL),
		formatInt(c.NextMsgID),
	}
	b.WriteString(strings.Join(fields, "|"))
	b.WriteByte('\n')
}

func parseMessageLine(line string) (int64, *model.Message) {
	parts := strings.Split(line, "|")
	if len(parts) < 6 {
		return 0, nil
	}
	commID := intAt(parts, 0, 0)
	m := &model.Message{
		ID:         intAt(parts, 1, 0),
		SenderID:   intAt(parts, 2, 0),
		SenderName: parts[3],
		Timestamp:  parts[4],
		Content:    parts[5],
		Type:       fieldAt(parts, 6, model.MsgTypeText),
		MediaURL:   fieldAt(parts, 7, ""),
		ReplyToID:  intAt(parts, 8, model.NoReply),
		IsPinned:   boolAt(parts, 9, false),
		Upvoters:   idSetFromList(parseIDList(fieldAt(parts, 10, nullToken), ",")),
	}
	if m.Type == model.MsgTypePoll {
		m.Poll = &model.PollData{
			Question:      m.Content,
			AllowMultiple: boolAt(parts, 11, false),
			Options:       parsePollOptions(fieldAt(parts, 12, nullToken)),
		}
	}
	return commID, m
}

func writeMessageLine(b *strings.Builder, commID int64, m *model.Message) {
	allowMultiple := false
	options := nullToken
	if m.Poll != nil {
		allowMultiple = m.Poll.AllowMultiple
		options = formatPollOptions(m.Poll.Options)
	}
	fields := []string{
		formatInt(commID),
		formatInt(m.ID),
		formatInt(m.SenderID),
		sanitize(m.SenderName),
		sanitize(m.Timestamp),
		sanitize(m.Content),
		sanitize(m.Type),
		sanitize(m.MediaURL),
		formatInt(m.ReplyToID),
		boolField(m.IsPinned),
		idSetToField(m.Upvoters, ","),
		boolField(allowMultiple),
		options,
	}
	b.WriteString(strings.Join(fields, "|"))
	b.WriteByte('\n')
}

func parsePollOptions(field string) []*model.PollOption {
	if field == "" || field == nullToken {
		return nil
	}
	var out []*model.PollOption
	for _, chunk := range strings.Split(field, "~") {
		sub := strings.SplitN(chunk, "^", 3)
		if len(sub) < 2 {
			continue
		}
		out = append(out, &model.PollOption{
			ID:       intAt(sub, 0, 0),
			Text:     sub[1],
			VoterIDs: idSetFromList(parseIDList(fieldAt(sub, 2, nullToken), ";")),
		})
	}
	return out
}

var optionSanitizer = strings.NewReplacer("|", " ", "~", " ", "^", " ", ";", " ", "\n", " ", "\r", " ")

func formatPollOptions(options []*model.PollOption) string {
	if len(options) == 0 {
		return nullToken
	}
	chunks := make([]string, 0, len(options))
	for _, o := range options {
		chunks = append(chunks, formatInt(o.ID)+"^"+optionSanitizer.Replace(o.Text)+"^"+idSetToField(o.VoterIDs, ";"))
	}
	return strings.Join(chunks, "~")
}

func parseDMLine(line string) (string, *model.DirectMessage) {
	parts := strings.Split(line, "|")
	if len(parts) < 5 {
		return "", nil
	}
	m := &model.DirectMessage{
		ID:        intAt(parts, 1, 0),
		SenderID:  intAt(parts, 2, 0),
		Timestamp: parts[3],
		Content:   parts[4],
		ReplyToID: intAt(parts, 5, model.NoReply),
		Reaction:  fieldAt(parts, 6, ""),
		IsSeen:    boolAt(parts, 7, false),
		Type:      fieldAt(parts, 8, model.MsgTypeText),
		MediaURL:  fieldAt(parts, 9, ""),
	}
	return parts[0], m
}

func writeDMLine(b *strings.Builder, chatKey string, m *model.DirectMessage) {
	fields := []string{
		chatKey,
		formatInt(m.ID),
		formatInt(m.SenderID),
		sanitize(m.Timestamp),
		sanitize(m.Content),
		formatInt(m.ReplyToID),
		sanitize(m.Reaction),
		boolField(m.IsSeen),
		sanitize(m.Type),
		sanitize(m.MediaURL),
	}
	b.WriteString(strings.Join(fields, "|"))
	b.WriteByte('\n')
}

// sanitizeListItem 用于 '|' 字段内部的 ',' 列表项
var listItemSanitizer = strings.NewReplacer("|", " ", ",", " ", "\n", " ", "\r", " ")

func sanitizeListItem(s string) string {
	return listItemSanitizer.Replace(s)
}

func sanitizeTags(tags []string, clean func(string) string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, clean(t))
	}
	return out
}
