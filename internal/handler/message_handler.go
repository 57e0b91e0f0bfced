package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"Nova_Community/internal/middleware"
	"Nova_Community/internal/model"
	"Nova_Community/internal/pkg"
	"Nova_Community/internal/service"
)

type MessageHandler struct {
	svc *service.MessageService
}

type PostMessageReq struct {
	Content   string `json:"content"`
	Type      string `json:"type"`
	MediaURL  string `json:"media_url"`
	ReplyToID *int64 `json:"reply_to_id"`
}

type CreatePollReq struct {
	Question      string   `json:"question"`
	AllowMultiple bool     `json:"allow_multiple"`
	Options       []string `json:"options"`
}

func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Post 社区发消息
func (h *MessageHandler) Post(c *gin.Context) {
	userID := middleware.UserID(c)
	commID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	var req PostMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	replyTo := model.NoReply
	if req.ReplyToID != nil {
		replyTo = *req.ReplyToID
	}

	m, res, err := h.svc.Post(commID, userID, req.Content, req.Type, req.MediaURL, replyTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	if res != model.ModOK {
		// 非成员发言静默丢弃，沿用旧行为
		c.JSON(http.StatusOK, gin.H{"msg": "ok", "result": res.String()})
		return
	}
	c.JSON(http.StatusOK, messageView(m))
}

// History 聊天记录分页（offset 从尾部数）
func (h *MessageHandler) History(c *gin.Context) {
	commID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	offset, _ := strconv.Atoi(c.Query("offset"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.svc.History(commID, offset, limit)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "community not found"})
		return
	}

	out := make([]gin.H, 0, len(list))
	for _, m := range list {
		out = append(out, messageView(m))
	}
	c.JSON(http.StatusOK, gin.H{"list": out})
}

// Upvote 点赞（幂等）
func (h *MessageHandler) Upvote(c *gin.Context) {
	userID := middleware.UserID(c)
	commID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	msgID, _ := strconv.ParseInt(c.Param("msgId"), 10, 64)

	if err := h.svc.Upvote(commID, userID, msgID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// TogglePin 置顶开关（版主）
func (h *MessageHandler) TogglePin(c *gin.Context) {
	userID := middleware.UserID(c)
	commID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	msgID, _ := strconv.ParseInt(c.Param("msgId"), 10, 64)

	res := h.svc.TogglePin(commID, userID, msgID)
	c.JSON(http.StatusOK, gin.H{"msg": "ok", "result": res.String()})
}

// Delete 删消息（版主）
func (h *MessageHandler) Delete(c *gin.Context) {
	userID := middleware.UserID(c)
	commID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	msgID, _ := strconv.ParseInt(c.Param("msgId"), 10, 64)

	res := h.svc.Delete(commID, userID, msgID)
	c.JSON(http.StatusOK, gin.H{"msg": "ok", "result": res.String()})
}

// CreatePoll 发投票
func (h *MessageHandler) CreatePoll(c *gin.Context) {
	userID := middleware.UserID(c)
	commID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	var req CreatePollReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	m, res, err := h.svc.CreatePoll(commID, userID, req.Question, req.AllowMultiple, req.Options)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	if res != model.ModOK {
		c.JSON(http.StatusOK, gin.H{"msg": "ok", "result": res.String()})
		return
	}
	c.JSON(http.StatusOK, messageView(m))
}

// ToggleVote 投票开关
func (h *MessageHandler) ToggleVote(c *gin.Context) {
	userID := middleware.UserID(c)
	commID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	msgID, _ := strconv.ParseInt(c.Param("msgId"), 10, 64)
	optionID, _ := strconv.ParseInt(c.Param("optionId"), 10, 64)

	if err := h.svc.ToggleVote(commID, userID, msgID, optionID); err != nil {
		switch {
		case errors.Is(err, pkg.ErrInvalidState):
			c.JSON(http.StatusBadRequest, gin.H{"msg": "not a poll message"})
		case errors.Is(err, pkg.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"msg": "not a member"})
		default:
			c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func messageView(m *model.Message) gin.H {
	view := gin.H{
		"id":          m.ID,
		"sender_id":   m.SenderID,
		"sender":      m.SenderName,
		"content":     m.Content,
		"time":        m.Timestamp,
		"votes":       len(m.Upvoters),
		"is_pinned":   m.IsPinned,
		"reply_to_id": m.ReplyToID,
		"type":        m.Type,
		"media_url":   m.MediaURL,
	}
	if m.Poll != nil {
		options := make([]gin.H, 0, len(m.Poll.Options))
		for _, o := range m.Poll.Options {
			options = append(options, gin.H{"id": o.ID, "text": o.Text, "votes": len(o.VoterIDs)})
		}
		view["poll"] = gin.H{
			"question":       m.Poll.Question,
			"allow_multiple": m.Poll.AllowMultiple,
			"options":        options,
		}
	}
	return view
}
