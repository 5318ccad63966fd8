package user

import (
	"blogging-backend/internal/errors"
	"blogging-backend/internal/model"
	"blogging-backend/internal/service"
	"blogging-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler 处理用户资料相关的HTTP请求
type ProfileHandler struct {
	userService service.UserServiceInterface
}

// NewProfileHandler 创建一个新的 ProfileHandler 实例
func NewProfileHandler(userService service.UserServiceInterface) *ProfileHandler {
	return &ProfileHandler{userService}
}

// ChangePassword 修改当前用户的密码
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var passwordData struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}

	if err := c.ShouldBindJSON(&passwordData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if !util.IsPasswordValid(passwordData.CurrentPassword) || !util.IsPasswordValid(passwordData.NewPassword) {
		errors.HandleError(c, errors.New(errors.ErrWeakPassword,
			"密码需为6-20位，且包含数字、大写和小写字母"))
		return
	}

	userID := c.GetInt("user_id")
	if err := h.userService.ChangePassword(userID, passwordData.CurrentPassword, passwordData.NewPassword); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "密码修改成功")
}

// UpdateProfileImage 更新当前用户的头像
func (h *ProfileHandler) UpdateProfileImage(c *gin.Context) {
	var imageData struct {
		URL string `json:"url" binding:"required"`
	}

	if err := c.ShouldBindJSON(&imageData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	userID := c.GetInt("user_id")
	if err := h.userService.UpdateProfileImage(userID, imageData.URL); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"profile_img": imageData.URL}, "头像更新成功")
}

// UpdateProfile 更新当前用户的用户名、简介和社交链接
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var profileData struct {
		Username    string            `json:"username" binding:"required"`
		Bio         string            `json:"bio"`
		SocialLinks model.SocialLinks `json:"social_links"`
	}

	if err := c.ShouldBindJSON(&profileData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	userID := c.GetInt("user_id")
	username, err := h.userService.UpdateProfile(userID, profileData.Username, profileData.Bio, profileData.SocialLinks)
	if err != nil {
		util.Logger.Warn("更新资料失败", zap.Int("user_id", userID), zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"username": username}, "资料更新成功")
}

// GetProfile 获取指定用户的公开资料
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	var profileData struct {
		Username string `json:"username" binding:"required"`
	}

	if err := c.ShouldBindJSON(&profileData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user, err := h.userService.GetProfile(profileData.Username)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, user, "")
}

// SearchUsers 按用户名搜索用户
func (h *ProfileHandler) SearchUsers(c *gin.Context) {
	var searchData struct {
		Query string `json:"query" binding:"required"`
	}

	if err := c.ShouldBindJSON(&searchData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	users, err := h.userService.SearchUsers(searchData.Query)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"users": users}, "")
}
