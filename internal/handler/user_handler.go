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

type UserHandler struct {
	svc *service.UserService
}

// RegisterReq 注册请求体
type RegisterReq struct {
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	Email     string   `json:"email"`
	AvatarURL string   `json:"avatar_url"`
	Tags      []string `json:"tags"`
}

type UpdateProfileReq struct {
	Email     string   `json:"email"`
	AvatarURL string   `json:"avatar_url"`
	Tags      []string `json:"tags"`
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register 注册接口
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	id, err := h.svc.Register(req.Username, req.Password, req.Email, req.AvatarURL, req.Tags)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// Login 登录接口
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	id, token, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           id,
		"AccessToken":  token.AccessToken,
		"RefreshToken": token.RefreshToken,
	})
}

// TokenRefresh 利用 refresh 换新 access
func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	token, err := h.svc.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"AccessToken": token.AccessToken, "RefreshToken": token.RefreshToken})
}

// Get 按 id 查用户
func (h *UserHandler) Get(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	user, err := h.svc.GetUser(id)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, userView(user))
}

// UpdateProfile 更新个人资料
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.UserID(c)

	var req UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.UpdateProfile(userID, req.Email, req.AvatarURL, req.Tags); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "user not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Search 按用户名/标签搜索
func (h *UserHandler) Search(c *gin.Context) {
	query := c.Query("q")
	tag := c.Query("tag")

	users := h.svc.Search(query, tag)
	c.JSON(http.StatusOK, gin.H{"list": userViews(users)})
}

func userView(u *model.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Username,
		"email":      u.Email,
		"avatar_url": u.AvatarURL,
		"tags":       u.Tags,
		"karma":      u.Karma,
	}
}

func userViews(users []*model.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userView(u))
	}
	return out
}
