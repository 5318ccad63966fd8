package interfaces

import "blogging-backend/internal/model"

// NotificationFilter 通知列表查询条件
type NotificationFilter struct {
	NotificationFor int
	Type            string // "all" 表示不过滤类型
}

// NotificationRepository 接口定义了通知仓库应该实现的方法
type NotificationRepository interface {
	Create(n *model.Notification) error
	// ExistsLike 检查 (用户, 博客) 的存活点赞通知
	ExistsLike(userID, blogID int) (bool, error)
	DeleteLike(userID, blogID int) error
	// DeleteByComment 删除 comment 字段指向该评论的通知
	DeleteByComment(commentID int) error
	// ClearReply 清除（而非删除）reply 字段指向该评论的反向链接
	ClearReply(commentID int) error
	// SetReply 设置通知的 reply 反向链接
	SetReply(notificationID, commentID int) error
	DeleteByBlog(blogID int) error
	// List 按时间倒序返回通知，带关联的博客、触发者和评论文本
	List(filter NotificationFilter, skip, pageSize int) ([]*model.NotificationView, error)
	Count(filter NotificationFilter) (int, error)
	// MarkSeen 批量将指定通知置为已读
	MarkSeen(ids []int) error
	// HasUnseen 检查接收者是否有未读通知（排除自己触发的）
	HasUnseen(userID int) (bool, error)
}
