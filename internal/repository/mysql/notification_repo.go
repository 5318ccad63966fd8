package mysql

import (
	"blogging-backend/internal/model"
	"blogging-backend/internal/repository/interfaces"
	"blogging-backend/internal/util"
	"database/sql"
	"strings"

	"go.uber.org/zap"
)

// notificationRepository 实现了 NotificationRepository 接口
type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository 创建一个新的 notificationRepository 实例
func NewNotificationRepository(db *sql.DB) *notificationRepository {
	return &notificationRepository{db}
}

// Create 创建通知
func (r *notificationRepository) Create(n *model.Notification) error {
	query := `INSERT INTO notifications
        (type, blog_id, notification_for, user_id, comment_id, replied_on_comment_id, reply_id, seen, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, false, NOW())`
	result, err := r.db.Exec(query, n.Type, n.BlogID, n.NotificationFor, n.UserID,
		n.CommentID, n.RepliedOnComment, n.ReplyID)
	if err != nil {
		util.Logger.Error("创建通知失败", zap.Error(err),
			zap.String("type", string(n.Type)),
			zap.Int("blog_id", n.BlogID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = int(id)

	util.Logger.Info("通知创建成功",
		zap.Int("notification_id", n.ID),
		zap.String("type", string(n.Type)))
	return nil
}

// ExistsLike 检查 (用户, 博客) 是否存在存活的点赞通知
func (r *notificationRepository) ExistsLike(userID, blogID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM notifications
            WHERE user_id = ? AND blog_id = ? AND type = 'like'
        )`, userID, blogID).Scan(&exists)
	return exists, err
}

// DeleteLike 删除 (用户, 博客) 的点赞通知
func (r *notificationRepository) DeleteLike(userID, blogID int) error {
	_, err := r.db.Exec(`DELETE FROM notifications WHERE user_id = ? AND blog_id = ? AND type = 'like'`,
		userID, blogID)
	if err != nil {
		util.Logger.Error("删除点赞通知失败", zap.Error(err),
			zap.Int("user_id", userID), zap.Int("blog_id", blogID))
	}
	return err
}

// DeleteByComment 删除 comment 字段指向该评论的通知
func (r *notificationRepository) DeleteByComment(commentID int) error {
	_, err := r.db.Exec(`DELETE FROM notifications WHERE comment_id = ?`, commentID)
	if err != nil {
		util.Logger.Error("删除评论通知失败", zap.Error(err), zap.Int("comment_id", commentID))
	}
	return err
}

// ClearReply 清除 reply 字段指向该评论的反向链接，通知本身保留
func (r *notificationRepository) ClearReply(commentID int) error {
	_, err := r.db.Exec(`UPDATE notifications SET reply_id = NULL WHERE reply_id = ?`, commentID)
	if err != nil {
		util.Logger.Error("清除回复链接失败", zap.Error(err), zap.Int("comment_id", commentID))
	}
	return err
}

// SetReply 设置通知的 reply 反向链接
func (r *notificationRepository) SetReply(notificationID, commentID int) error {
	_, err := r.db.Exec(`UPDATE notifications SET reply_id = ? WHERE id = ?`, commentID, notificationID)
	if err != nil {
		util.Logger.Error("设置回复链接失败", zap.Error(err),
			zap.Int("notification_id", notificationID))
	}
	return err
}

// DeleteByBlog 删除某博客的全部通知
func (r *notificationRepository) DeleteByBlog(blogID int) error {
	_, err := r.db.Exec(`DELETE FROM notifications WHERE blog_id = ?`, blogID)
	if err != nil {
		util.Logger.Error("删除博客通知失败", zap.Error(err), zap.Int("blog_id", blogID))
	}
	return err
}

func buildNotificationWhere(filter interfaces.NotificationFilter) (string, []interface{}) {
	// 排除自己触发的通知
	where := `n.notification_for = ? AND n.user_id != ?`
	args := []interface{}{filter.NotificationFor, filter.NotificationFor}
	if filter.Type != "" && filter.Type != "all" {
		where += ` AND n.type = ?`
		args = append(args, filter.Type)
	}
	return where, args
}

// List 按时间倒序返回通知，关联博客、触发者和评论文本
func (r *notificationRepository) List(filter interfaces.NotificationFilter, skip, pageSize int) ([]*model.NotificationView, error) {
	where, args := buildNotificationWhere(filter)
	query := `
        SELECT n.id, n.type, n.blog_id, n.notification_for, n.user_id,
               n.comment_id, n.replied_on_comment_id, n.reply_id, n.seen, n.created_at,
               b.blog_id, b.title,
               u.fullname, u.username, u.profile_img,
               c.content, rc.content, rp.content
        FROM notifications n
        LEFT JOIN blogs b ON n.blog_id = b.id
        LEFT JOIN users u ON n.user_id = u.id
        LEFT JOIN comments c ON n.comment_id = c.id
        LEFT JOIN comments rc ON n.replied_on_comment_id = rc.id
        LEFT JOIN comments rp ON n.reply_id = rp.id
        WHERE ` + where + `
        ORDER BY n.created_at DESC
        LIMIT ? OFFSET ?`
	args = append(args, pageSize, skip)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		util.Logger.Error("查询通知列表失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var views []*model.NotificationView
	for rows.Next() {
		var v model.NotificationView
		var blogSlug, blogTitle sql.NullString
		var actor model.Profile
		var commentText, repliedOnText, replyText sql.NullString
		err := rows.Scan(
			&v.ID, &v.Type, &v.BlogID, &v.NotificationFor, &v.UserID,
			&v.CommentID, &v.RepliedOnComment, &v.ReplyID, &v.Seen, &v.CreatedAt,
			&blogSlug, &blogTitle,
			&actor.Fullname, &actor.Username, &actor.ProfileImg,
			&commentText, &repliedOnText, &replyText,
		)
		if err != nil {
			return nil, err
		}
		if blogSlug.Valid {
			v.Blog = &model.BlogRef{ID: v.BlogID, BlogID: blogSlug.String, Title: blogTitle.String}
		}
		v.ActorProfile = &actor
		v.CommentText = commentText.String
		v.RepliedOnText = repliedOnText.String
		v.ReplyCommentText = replyText.String
		views = append(views, &v)
	}
	return views, rows.Err()
}

// Count 统计符合条件的通知总数
func (r *notificationRepository) Count(filter interfaces.NotificationFilter) (int, error) {
	where, args := buildNotificationWhere(filter)
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications n WHERE `+where, args...).Scan(&count)
	return count, err
}

// MarkSeen 批量置为已读
func (r *notificationRepository) MarkSeen(ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := r.db.Exec(`UPDATE notifications SET seen = true WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		util.Logger.Error("标记通知已读失败", zap.Error(err), zap.Int("count", len(ids)))
	}
	return err
}

// HasUnseen 检查接收者是否有未读通知
func (r *notificationRepository) HasUnseen(userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM notifications
            WHERE notification_for = ? AND seen = false AND user_id != ?
        )`, userID, userID).Scan(&exists)
	return exists, err
}
