package model

import "time"

// NotificationType 通知类型
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationReply   NotificationType = "reply"
)

// Notification 结构体表示一条通知记录
// like 通知是存活的切换记录：某用户当前点赞某博客时恰好存在一条。
// comment/reply 通知是历史记录，但在其引用的评论被删除时必须删除；
// Reply 反向链接指向已删除评论时只清除链接，不删除通知。
type Notification struct {
	ID               int              `json:"_id"`
	Type             NotificationType `json:"type"`
	BlogID           int              `json:"blog"`
	NotificationFor  int              `json:"notification_for"` // 接收者
	UserID           int              `json:"user"`             // 触发者
	CommentID        *int             `json:"comment,omitempty"`
	RepliedOnComment *int             `json:"replied_on_comment,omitempty"`
	ReplyID          *int             `json:"reply,omitempty"`
	Seen             bool             `json:"seen"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// NewLikeNotification 创建点赞通知，字段按类型约束填充
func NewLikeNotification(blogID, actorID, blogAuthorID int) *Notification {
	return &Notification{
		Type:            NotificationLike,
		BlogID:          blogID,
		NotificationFor: blogAuthorID,
		UserID:          actorID,
	}
}

// NewCommentNotification 创建顶级评论通知，接收者为博客作者
func NewCommentNotification(blogID, actorID, blogAuthorID, commentID int) *Notification {
	return &Notification{
		Type:            NotificationComment,
		BlogID:          blogID,
		NotificationFor: blogAuthorID,
		UserID:          actorID,
		CommentID:       &commentID,
	}
}

// NewReplyNotification 创建回复通知，接收者为父评论作者
func NewReplyNotification(blogID, actorID, parentAuthorID, commentID, parentID int) *Notification {
	return &Notification{
		Type:             NotificationReply,
		BlogID:           blogID,
		NotificationFor:  parentAuthorID,
		UserID:           actorID,
		CommentID:        &commentID,
		RepliedOnComment: &parentID,
	}
}

// NotificationView 通知列表中带关联数据的展示结构
type NotificationView struct {
	Notification
	Blog             *BlogRef `json:"blog_info,omitempty"`
	ActorProfile     *Profile `json:"user_info,omitempty"`
	CommentText      string   `json:"comment_text,omitempty"`
	RepliedOnText    string   `json:"replied_on_comment_text,omitempty"`
	ReplyCommentText string   `json:"reply_text,omitempty"`
}

// BlogRef 通知中引用的博客摘要
type BlogRef struct {
	ID     int    `json:"id"`
	BlogID string `json:"blog_id"`
	Title  string `json:"title"`
}
