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

type DirectChatHandler struct {
	svc *service.DirectChatService
}

type SendDMReq struct {
	Content  string `json:"content"`
	Type     string `json:"type"`
	MediaURL string `json:"media_url"`
	ReplyTo  *int64 `json:"reply_to_id"`
}

type ReactReq struct {
	Reaction string `json:"reaction"`
}

func NewDirectChatHandler(svc *service.DirectChatService) *DirectChatHandler {
	return &DirectChatHandler{svc: svc}
}

// Send 发私聊
func (h *DirectChatHandler) Send(c *gin.Context) {
	userID := middleware.UserID(c)
	friendID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	var req SendDMReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	replyTo := model.NoReply
	if req.ReplyTo != nil {
		replyTo = *req.ReplyTo
	}

	m, err := h.svc.Send(userID, friendID, req.Content, replyTo, req.Type, req.MediaURL)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "user not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dmView(m))
}

// List 私聊记录，读取时顺带标记已读
func (h *DirectChatHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)
	friendID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	offset, _ := strconv.Atoi(c.Query("offset"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.svc.List(userID, friendID, offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(list))
	for _, m := range list {
		out = append(out, dmView(m))
	}
	c.JSON(http.StatusOK, gin.H{"list": out})
}

// React 给消息贴表情
func (h *DirectChatHandler) React(c *gin.Context) {
	userID := middleware.UserID(c)
	friendID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	msgID, _ := strconv.ParseInt(c.Param("msgId"), 10, 64)

	var req ReactReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.React(userID, friendID, msgID, req.Reaction); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Delete 删自己发的私聊消息
func (h *DirectChatHandler) Delete(c *gin.Context) {
	userID := middleware.UserID(c)
	friendID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	msgID, _ := strconv.ParseInt(c.Param("msgId"), 10, 64)

	if err := h.svc.Delete(userID, friendID, msgID); err != nil {
		if errors.Is(err, pkg.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"msg": "can only delete own messages"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Active 有私聊往来的用户列表
func (h *DirectChatHandler) Active(c *gin.Context) {
	userID := middleware.UserID(c)
	c.JSON(http.StatusOK, gin.H{"list": userViews(h.svc.ActiveChats(userID))})
}

func dmView(m *model.DirectMessage) gin.H {
	return gin.H{
		"id":          m.ID,
		"sender_id":   m.SenderID,
		"content":     m.Content,
		"time":        m.Timestamp,
		"reply_to_id": m.ReplyToID,
		"reaction":    m.Reaction,
		"is_seen":     m.IsSeen,
		"type":        m.Type,
		"media_url":   m.MediaURL,
	}
}
