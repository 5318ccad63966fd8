package blog

import (
	"blogging-backend/internal/errors"
	"blogging-backend/internal/service"
	"blogging-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommentHandler 处理评论相关的HTTP请求
type CommentHandler struct {
	commentService *service.CommentService
}

// NewCommentHandler 创建一个新的 CommentHandler 实例
func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService}
}

// AddComment 提交顶级评论或回复
// replying_to 存在时表示回复，notification_id 用于把回复挂回来源通知。
func (h *CommentHandler) AddComment(c *gin.Context) {
	var commentData struct {
		BlogID         int    `json:"_id" binding:"required"`
		Comment        string `json:"comment" binding:"required"`
		ReplyingTo     *int   `json:"replying_to"`
		NotificationID *int   `json:"notification_id"`
	}

	if err := c.ShouldBindJSON(&commentData); err != nil {
		util.Logger.Warn("提交评论失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	userID := c.GetInt("user_id")
	comment, err := h.commentService.SubmitComment(commentData.BlogID, userID,
		commentData.Comment, commentData.ReplyingTo, commentData.NotificationID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, comment, "")
}

// GetBlogComments 分页返回博客的顶级评论
func (h *CommentHandler) GetBlogComments(c *gin.Context) {
	var listData struct {
		BlogID int `json:"blog_id" binding:"required"`
		Skip   int `json:"skip"`
	}

	if err := c.ShouldBindJSON(&listData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	comments, err := h.commentService.GetBlogComments(listData.BlogID, listData.Skip)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, comments, "")
}

// GetReplies 分页返回某评论的直接回复
func (h *CommentHandler) GetReplies(c *gin.Context) {
	var listData struct {
		CommentID int `json:"_id" binding:"required"`
		Skip      int `json:"skip"`
	}

	if err := c.ShouldBindJSON(&listData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	replies, err := h.commentService.GetReplies(listData.CommentID, listData.Skip)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"replies": replies}, "")
}

// DeleteComment 级联删除评论及其全部后代
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	var deleteData struct {
		CommentID int `json:"_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&deleteData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	userID := c.GetInt("user_id")
	if err := h.commentService.DeleteComment(deleteData.CommentID, userID); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"status": "done"}, "评论删除成功")
}
