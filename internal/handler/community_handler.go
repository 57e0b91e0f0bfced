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

type CommunityHandler struct {
	svc *service.CommunityService
}

type CommunityCreateReq struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CoverURL    string   `json:"cover_url"`
}

// ModerationReq 治理操作统一请求体
type ModerationReq struct {
	TargetID int64 `json:"target_id"`
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

func (h *CommunityHandler) Create(c *gin.Context) {
	userID := middleware.UserID(c)

	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	community, err := h.svc.Create(req.Name, req.Description, req.Tags, userID, req.CoverURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, communityView(community))
}

func (h *CommunityHandler) Join(c *gin.Context) {
	userID := middleware.UserID(c)
	commID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	// 治理语义：没权限/被封禁不回错误，对调用方保持旧的静默行为
	res := h.svc.Join(userID, commID)
	c.JSON(http.StatusOK, gin.H{"msg": "ok", "result": res.String()})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	userID := middleware.UserID(c)
	commID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	res := h.svc.Leave(userID, commID)
	c.JSON(http.StatusOK, gin.H{"msg": "ok", "result": res.String()})
}

func (h *CommunityHandler) Ban(c *gin.Context) {
	h.moderate(c, h.svc.Ban)
}

func (h *CommunityHandler) Unban(c *gin.Context) {
	h.moderate(c, h.svc.Unban)
}

func (h *CommunityHandler) PromoteAdmin(c *gin.Context) {
	h.moderate(c, h.svc.PromoteAdmin)
}

func (h *CommunityHandler) DemoteAdmin(c *gin.Context) {
	h.moderate(c, h.svc.DemoteAdmin)
}

func (h *CommunityHandler) TransferOwnership(c *gin.Context) {
	h.moderate(c, h.svc.TransferOwnership)
}

// moderate 治理接口的公共壳：解析参数，结果一律 200
func (h *CommunityHandler) moderate(c *gin.Context, op func(commID, actorID, targetID int64) model.ModResult) {
	actorID := middleware.UserID(c)
	commID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	var req ModerationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	res := op(commID, actorID, req.TargetID)
	c.JSON(http.StatusOK, gin.H{"msg": "ok", "result": res.String()})
}

func (h *CommunityHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"list": communityViews(h.svc.List())})
}

func (h *CommunityHandler) Popular(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"list": communityViews(h.svc.Popular())})
}

func (h *CommunityHandler) Joined(c *gin.Context) {
	userID := middleware.UserID(c)
	c.JSON(http.StatusOK, gin.H{"list": communityViews(h.svc.Joined(userID))})
}

func (h *CommunityHandler) Recommend(c *gin.Context) {
	userID := middleware.UserID(c)
	c.JSON(http.StatusOK, gin.H{"list": communityViews(h.svc.Recommend(userID))})
}

func (h *CommunityHandler) Get(c *gin.Context) {
	userID := middleware.UserID(c)
	commID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	community, err := h.svc.Get(commID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "community not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}

	view := communityView(community)
	view["is_member"] = community.IsMember(userID)
	view["is_moderator"] = community.IsModerator(userID)
	view["is_banned"] = community.IsBanned(userID)
	c.JSON(http.StatusOK, view)
}

func (h *CommunityHandler) Members(c *gin.Context) {
	commID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	users, err := h.svc.Members(commID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "community not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": userViews(users)})
}

func communityView(cm *model.Community) gin.H {
	return gin.H{
		"id":          cm.ID,
		"name":        cm.Name,
		"description": cm.Description,
		"cover_url":   cm.CoverURL,
		"tags":        cm.Tags,
		"members":     len(cm.Members),
	}
}

func communityViews(list []*model.Community) []gin.H {
	out := make([]gin.H, 0, len(list))
	for _, cm := range list {
		out = append(out, communityView(cm))
	}
	return out
}
