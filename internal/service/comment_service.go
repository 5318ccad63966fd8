package service

import (
	"strings"
	"time"

	"blogging-backend/internal/common"
	"blogging-backend/internal/errors"
	"blogging-backend/internal/model"
	"blogging-backend/internal/repository/interfaces"
	"blogging-backend/internal/util"

	"go.uber.org/zap"
)

const commentPageSize = 5

// CommentService 维护评论树与博客计数器的一致性
type CommentService struct {
	commentRepo         interfaces.CommentRepository
	blogRepo            interfaces.BlogRepository
	notificationRepo    interfaces.NotificationRepository
	notificationService *NotificationService
}

// NewCommentService 创建一个新的 CommentService 实例
func NewCommentService(
	commentRepo interfaces.CommentRepository,
	blogRepo interfaces.BlogRepository,
	notificationRepo interfaces.NotificationRepository,
	notificationService *NotificationService,
) *CommentService {
	return &CommentService{
		commentRepo:         commentRepo,
		blogRepo:            blogRepo,
		notificationRepo:    notificationRepo,
		notificationService: notificationService,
	}
}

// SubmitComment 提交顶级评论或回复
// 落库顺序：先写评论，再更新博客计数器，最后派生通知。
// 通知派生是尽力而为的，失败只记录日志，评论和计数器不回滚。
func (s *CommentService) SubmitComment(blogID, userID int, content string, replyingTo *int, notificationID *int) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New(errors.ErrValidation, "评论内容不能为空")
	}

	blog, err := s.blogRepo.FindByID(blogID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询博客失败", err)
	}
	if blog == nil {
		return nil, errors.New(errors.ErrBlogNotFound, "博客不存在")
	}

	var parent *model.Comment
	if replyingTo != nil {
		parent, err = s.commentRepo.FindByID(*replyingTo)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "查询父评论失败", err)
		}
		if parent == nil {
			return nil, errors.New(errors.ErrCommentNotFound, "被回复的评论不存在")
		}
		if parent.BlogID != blogID {
			return nil, errors.New(errors.ErrValidation, "父评论不属于该博客")
		}
	}

	comment := &model.Comment{
		BlogID:       blogID,
		BlogAuthorID: blog.AuthorID,
		CommentedBy:  userID,
		Content:      content,
		ParentID:     replyingTo,
		IsReply:      replyingTo != nil,
		CommentedAt:  time.Now(),
		Children:     []int{},
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建评论失败", err)
	}

	delta := model.ActivityDelta{Comments: 1}
	if parent == nil {
		delta.ParentComments = 1
	}
	if err := s.blogRepo.ApplyActivityDelta(blogID, delta); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "更新评论计数失败", err)
	}

	if err := s.notificationService.NotifyComment(blog, userID, comment.ID, parent, notificationID); err != nil {
		util.Logger.Error("评论通知派生失败", zap.Error(err),
			zap.Int("comment_id", comment.ID),
			zap.Int("blog_id", blogID))
	}

	return comment, nil
}

// GetBlogComments 分页返回博客的顶级评论
func (s *CommentService) GetBlogComments(blogID, skip int) ([]*model.Comment, error) {
	comments, err := s.commentRepo.ListTopLevel(blogID, skip, commentPageSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询评论列表失败", err)
	}
	if comments == nil {
		comments = []*model.Comment{}
	}
	return comments, nil
}

// GetReplies 分页返回某评论的直接回复
func (s *CommentService) GetReplies(commentID, skip int) ([]*model.Comment, error) {
	parent, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询父评论失败", err)
	}
	if parent == nil {
		return nil, errors.New(errors.ErrCommentNotFound, "评论不存在")
	}

	replies, err := s.commentRepo.ListReplies(commentID, skip, commentPageSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询回复列表失败", err)
	}
	if replies == nil {
		replies = []*model.Comment{}
	}
	return replies, nil
}

// DeleteComment 级联删除评论及其全部后代
// 仅评论作者或博客作者可删除。遍历用工作列表迭代完成，
// 每个节点先捕获子评论ID再删除自身，保证后代不会因父节点先消失而遗漏。
// 每删除一个节点都会同步递减博客计数器并回收其通知。
func (s *CommentService) DeleteComment(commentID, userID int) error {
	root, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询评论失败", err)
	}
	if root == nil {
		return errors.New(errors.ErrCommentNotFound, "评论不存在")
	}
	if userID != root.CommentedBy && userID != root.BlogAuthorID {
		return errors.New(errors.ErrForbidden, "无权删除该评论")
	}

	worklist := []int{commentID}
	for len(worklist) > 0 {
		id := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		node, err := s.commentRepo.FindByID(id)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "查询评论失败", err)
		}
		if node == nil {
			continue
		}

		// 先捕获子ID再删除本节点
		worklist = append(worklist, node.Children...)

		if err := s.commentRepo.Delete(id); err != nil {
			return errors.Wrap(errors.ErrDatabase, "删除评论失败", err)
		}

		// 通知回收和计数更新是尽力而为的，失败不中断级联
		if err := common.WithRetry(func() error {
			return s.notificationRepo.DeleteByComment(id)
		}, 3); err != nil {
			util.Logger.Error("回收评论通知失败", zap.Error(err), zap.Int("comment_id", id))
		}
		if err := common.WithRetry(func() error {
			return s.notificationRepo.ClearReply(id)
		}, 3); err != nil {
			util.Logger.Error("清除回复链接失败", zap.Error(err), zap.Int("comment_id", id))
		}

		delta := model.ActivityDelta{Comments: -1}
		if node.ParentID == nil {
			delta.ParentComments = -1
		}
		if err := s.blogRepo.ApplyActivityDelta(node.BlogID, delta); err != nil {
			util.Logger.Error("递减评论计数失败", zap.Error(err),
				zap.Int("comment_id", id),
				zap.Int("blog_id", node.BlogID))
		}
	}

	util.Logger.Info("评论级联删除完成", zap.Int("comment_id", commentID), zap.Int("user_id", userID))
	return nil
}
