package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"Nova_Community/internal/middleware"
	"Nova_Community/internal/service"
)

type GraphHandler struct {
	svc *service.GraphService
}

func NewGraphHandler(svc *service.GraphService) *GraphHandler {
	return &GraphHandler{svc: svc}
}

// SendRequest 发好友请求
func (h *GraphHandler) SendRequest(c *gin.Context) {
	userID := middleware.UserID(c)
	targetID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	if err := h.svc.SendRequest(userID, targetID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// AcceptRequest 接受请求，成为好友
func (h *GraphHandler) AcceptRequest(c *gin.Context) {
	userID := middleware.UserID(c)
	requesterID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	if err := h.svc.AcceptRequest(userID, requesterID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// DeclineRequest 拒绝请求
func (h *GraphHandler) DeclineRequest(c *gin.Context) {
	userID := middleware.UserID(c)
	requesterID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	if err := h.svc.DeclineRequest(userID, requesterID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Pending 待处理的好友请求
func (h *GraphHandler) Pending(c *gin.Context) {
	userID := middleware.UserID(c)

	users, err := h.svc.PendingRequests(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": userViews(users)})
}

// RemoveFriend 删好友（双向）
func (h *GraphHandler) RemoveFriend(c *gin.Context) {
	userID := middleware.UserID(c)
	friendID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	h.svc.RemoveFriendship(userID, friendID)
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Friends 好友列表
func (h *GraphHandler) Friends(c *gin.Context) {
	userID := middleware.UserID(c)
	c.JSON(http.StatusOK, gin.H{"list": userViews(h.svc.FriendList(userID))})
}

// Status 和目标用户的关系状态
func (h *GraphHandler) Status(c *gin.Context) {
	userID := middleware.UserID(c)
	targetID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	c.JSON(http.StatusOK, gin.H{"status": h.svc.RelationStatus(userID, targetID)})
}

// Degree 两人间的分离度，3 度以外为 -1
func (h *GraphHandler) Degree(c *gin.Context) {
	userID := middleware.UserID(c)
	targetID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	c.JSON(http.StatusOK, gin.H{"degree": h.svc.RelationDegree(userID, targetID)})
}

// Connections 恰好 n 度的联系人
func (h *GraphHandler) Connections(c *gin.Context) {
	userID := middleware.UserID(c)
	degree, _ := strconv.Atoi(c.Query("degree"))

	users := h.svc.ConnectionsByDegree(userID, degree)
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{"id": u.ID, "name": u.Username, "degree": degree})
	}
	c.JSON(http.StatusOK, gin.H{"list": out})
}

// Recommend 按共同好友数推荐
func (h *GraphHandler) Recommend(c *gin.Context) {
	userID := middleware.UserID(c)
	c.JSON(http.StatusOK, gin.H{"list": h.svc.Recommend(userID)})
}
