package blog

import (
	"blogging-backend/internal/errors"
	"blogging-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler 处理点赞与通知相关的HTTP请求
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler 创建一个新的 NotificationHandler 实例
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService}
}

// LikeBlog 切换当前用户对博客的点赞状态
func (h *NotificationHandler) LikeBlog(c *gin.Context) {
	var likeData struct {
		BlogID        int  `json:"_id" binding:"required"`
		IsLikedByUser bool `json:"islikedByUser"`
	}

	if err := c.ShouldBindJSON(&likeData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	userID := c.GetInt("user_id")
	liked, err := h.notificationService.ToggleLike(likeData.BlogID, userID, likeData.IsLikedByUser)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"liked_by_user": liked}, "")
}

// IsLikedByUser 查询当前用户是否点赞过某博客
func (h *NotificationHandler) IsLikedByUser(c *gin.Context) {
	var likeData struct {
		BlogID int `json:"_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&likeData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	userID := c.GetInt("user_id")
	liked, err := h.notificationService.HasLiked(likeData.BlogID, userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"result": liked}, "")
}

// NewNotification 检查当前用户是否有未读通知
func (h *NotificationHandler) NewNotification(c *gin.Context) {
	userID := c.GetInt("user_id")
	unseen, err := h.notificationService.HasUnseen(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"new_notification_available": unseen}, "")
}

// Notifications 分页返回当前用户的通知并标记为已读
func (h *NotificationHandler) Notifications(c *gin.Context) {
	var listData struct {
		Page            int    `json:"page"`
		Filter          string `json:"filter"`
		DeletedDocCount int    `json:"deletedDocCount"`
	}

	if err := c.ShouldBindJSON(&listData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}
	if listData.Page < 1 {
		listData.Page = 1
	}

	userID := c.GetInt("user_id")
	notifications, err := h.notificationService.ListNotifications(userID, listData.Page,
		listData.Filter, listData.DeletedDocCount)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"notifications": notifications}, "")
}

// AllNotificationsCount 统计当前用户的通知总数
func (h *NotificationHandler) AllNotificationsCount(c *gin.Context) {
	var countData struct {
		Filter string `json:"filter"`
	}

	if err := c.ShouldBindJSON(&countData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	userID := c.GetInt("user_id")
	count, err := h.notificationService.CountNotifications(userID, countData.Filter)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"totalDocs": count}, "")
}
