package service

import (
	"blogging-backend/internal/errors"
	"blogging-backend/internal/model"
	"blogging-backend/internal/repository/interfaces"
	"blogging-backend/internal/util"

	"go.uber.org/zap"
)

const notificationPageSize = 10

// NotificationService 处理互动事件的通知派生与回收
type NotificationService struct {
	notificationRepo interfaces.NotificationRepository
	blogRepo         interfaces.BlogRepository
}

// NewNotificationService 创建一个新的 NotificationService 实例
func NewNotificationService(notificationRepo interfaces.NotificationRepository, blogRepo interfaces.BlogRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		blogRepo:         blogRepo,
	}
}

// ToggleLike 切换点赞状态
// 未点赞时：点赞数+1并创建点赞通知；已点赞时：点赞数-1并删除对应通知。
// currentlyLiked 由调用方通过 HasLiked 获取，这里不重复校验，属于切换而非幂等设置。
func (s *NotificationService) ToggleLike(blogID, userID int, currentlyLiked bool) (bool, error) {
	delta := 1
	if currentlyLiked {
		delta = -1
	}

	blog, err := s.blogRepo.FindByID(blogID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "查询博客失败", err)
	}
	if blog == nil {
		return false, errors.New(errors.ErrBlogNotFound, "博客不存在")
	}

	if err := s.blogRepo.ApplyActivityDelta(blogID, model.ActivityDelta{Likes: delta}); err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "更新点赞计数失败", err)
	}

	if !currentlyLiked {
		like := model.NewLikeNotification(blogID, userID, blog.AuthorID)
		if err := s.notificationRepo.Create(like); err != nil {
			return false, errors.Wrap(errors.ErrDatabase, "创建点赞通知失败", err)
		}
		return true, nil
	}

	if err := s.notificationRepo.DeleteLike(userID, blogID); err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "删除点赞通知失败", err)
	}
	return false, nil
}

// HasLiked 检查用户是否已点赞某博客
func (s *NotificationService) HasLiked(blogID, userID int) (bool, error) {
	liked, err := s.notificationRepo.ExistsLike(userID, blogID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "查询点赞状态失败", err)
	}
	return liked, nil
}

// NotifyComment 为新评论派生通知
// 顶级评论通知博客作者；回复通知父评论作者并记录被回复的评论。
// 若请求携带了来源通知ID，则把该通知的 reply 反向链接指向新评论。
func (s *NotificationService) NotifyComment(blog *model.Blog, actorID, commentID int, parent *model.Comment, notificationID *int) error {
	var n *model.Notification
	if parent == nil {
		n = model.NewCommentNotification(blog.ID, actorID, blog.AuthorID, commentID)
	} else {
		n = model.NewReplyNotification(blog.ID, actorID, parent.CommentedBy, commentID, parent.ID)
		if notificationID != nil {
			if err := s.notificationRepo.SetReply(*notificationID, commentID); err != nil {
				// 反向链接失败不阻断通知创建
				util.Logger.Error("设置通知回复链接失败", zap.Error(err),
					zap.Int("notification_id", *notificationID))
			}
		}
	}

	return s.notificationRepo.Create(n)
}

// ListNotifications 返回通知列表并批量标记为已读
func (s *NotificationService) ListNotifications(userID, page int, filter string, deletedDocCount int) ([]*model.NotificationView, error) {
	skip := (page-1)*notificationPageSize - deletedDocCount
	if skip < 0 {
		skip = 0
	}

	views, err := s.notificationRepo.List(interfaces.NotificationFilter{
		NotificationFor: userID,
		Type:            filter,
	}, skip, notificationPageSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询通知列表失败", err)
	}

	ids := make([]int, 0, len(views))
	for _, v := range views {
		if !v.Seen {
			ids = append(ids, v.ID)
		}
	}
	if err := s.notificationRepo.MarkSeen(ids); err != nil {
		// 已读标记失败只记录，不影响列表返回
		util.Logger.Error("标记通知已读失败", zap.Error(err), zap.Int("user_id", userID))
	}

	if views == nil {
		views = []*model.NotificationView{}
	}
	return views, nil
}

// CountNotifications 统计通知总数
func (s *NotificationService) CountNotifications(userID int, filter string) (int, error) {
	count, err := s.notificationRepo.Count(interfaces.NotificationFilter{
		NotificationFor: userID,
		Type:            filter,
	})
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, "统计通知失败", err)
	}
	return count, nil
}

// HasUnseen 检查是否有未读通知
func (s *NotificationService) HasUnseen(userID int) (bool, error) {
	unseen, err := s.notificationRepo.HasUnseen(userID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "查询未读通知失败", err)
	}
	return unseen, nil
}
