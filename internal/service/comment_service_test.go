package service

import (
	"errors"
	"testing"

	apperrors "blogging-backend/internal/errors"
	"blogging-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCommentService(commentRepo *MockCommentRepo, blogRepo *MockBlogRepo, notificationRepo *MockNotificationRepo) *CommentService {
	notificationService := NewNotificationService(notificationRepo, blogRepo)
	return NewCommentService(commentRepo, blogRepo, notificationRepo, notificationService)
}

// TestSubmitTopLevelComment 顶级评论：两个计数器都加一，通知发给博客作者
func TestSubmitTopLevelComment(t *testing.T) {
	commentRepo := new(MockCommentRepo)
	blogRepo := new(MockBlogRepo)
	notificationRepo := new(MockNotificationRepo)
	svc := newCommentService(commentRepo, blogRepo, notificationRepo)

	blog := &model.Blog{ID: 1, AuthorID: 9}
	blogRepo.On("FindByID", 1).Return(blog, nil)
	commentRepo.On("Create", mock.AnythingOfType("*model.Comment")).Run(func(args mock.Arguments) {
		args.Get(0).(*model.Comment).ID = 100
	}).Return(nil)
	blogRepo.On("ApplyActivityDelta", 1, model.ActivityDelta{Comments: 1, ParentComments: 1}).Return(nil)
	notificationRepo.On("Create", mock.MatchedBy(func(n *model.Notification) bool {
		return n.Type == model.NotificationComment && n.NotificationFor == 9 &&
			n.UserID == 5 && n.CommentID != nil && *n.CommentID == 100
	})).Return(nil)

	comment, err := svc.SubmitComment(1, 5, "nice post", nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, 100, comment.ID)
	assert.False(t, comment.IsReply)
	assert.False(t, comment.CommentedAt.IsZero())
	commentRepo.AssertExpectations(t)
	blogRepo.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
}

// TestSubmitReply 回复：只有总评论数加一，通知发给父评论作者
func TestSubmitReply(t *testing.T) {
	commentRepo := new(MockCommentRepo)
	blogRepo := new(MockBlogRepo)
	notificationRepo := new(MockNotificationRepo)
	svc := newCommentService(commentRepo, blogRepo, notificationRepo)

	blog := &model.Blog{ID: 1, AuthorID: 9}
	parent := &model.Comment{ID: 50, BlogID: 1, CommentedBy: 7}
	blogRepo.On("FindByID", 1).Return(blog, nil)
	commentRepo.On("FindByID", 50).Return(parent, nil)
	commentRepo.On("Create", mock.AnythingOfType("*model.Comment")).Run(func(args mock.Arguments) {
		args.Get(0).(*model.Comment).ID = 101
	}).Return(nil)
	blogRepo.On("ApplyActivityDelta", 1, model.ActivityDelta{Comments: 1}).Return(nil)
	notificationRepo.On("Create", mock.MatchedBy(func(n *model.Notification) bool {
		return n.Type == model.NotificationReply && n.NotificationFor == 7 &&
			n.RepliedOnComment != nil && *n.RepliedOnComment == 50
	})).Return(nil)

	parentID := 50
	comment, err := svc.SubmitComment(1, 5, "I agree", &parentID, nil)

	assert.NoError(t, err)
	assert.True(t, comment.IsReply)
	blogRepo.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
}

// TestSubmitReplyLinksSourceNotification 回复携带来源通知ID时写入反向链接
func TestSubmitReplyLinksSourceNotification(t *testing.T) {
	commentRepo := new(MockCommentRepo)
	blogRepo := new(MockBlogRepo)
	notificationRepo := new(MockNotificationRepo)
	svc := newCommentService(commentRepo, blogRepo, notificationRepo)

	blog := &model.Blog{ID: 1, AuthorID: 9}
	parent := &model.Comment{ID: 50, BlogID: 1, CommentedBy: 7}
	blogRepo.On("FindByID", 1).Return(blog, nil)
	commentRepo.On("FindByID", 50).Return(parent, nil)
	commentRepo.On("Create", mock.AnythingOfType("*model.Comment")).Run(func(args mock.Arguments) {
		args.Get(0).(*model.Comment).ID = 101
	}).Return(nil)
	blogRepo.On("ApplyActivityDelta", 1, model.ActivityDelta{Comments: 1}).Return(nil)
	notificationRepo.On("SetReply", 77, 101).Return(nil)
	notificationRepo.On("Create", mock.AnythingOfType("*model.Notification")).Return(nil)

	parentID, sourceNotification := 50, 77
	_, err := svc.SubmitComment(1, 5, "thanks", &parentID, &sourceNotification)

	assert.NoError(t, err)
	notificationRepo.AssertExpectations(t)
}

// TestSubmitCommentEmpty 空白内容在任何写入前被拒绝
func TestSubmitCommentEmpty(t *testing.T) {
	commentRepo := new(MockCommentRepo)
	blogRepo := new(MockBlogRepo)
	notificationRepo := new(MockNotificationRepo)
	svc := newCommentService(commentRepo, blogRepo, notificationRepo)

	_, err := svc.SubmitComment(1, 5, "   ", nil, nil)

	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	commentRepo.AssertNotCalled(t, "Create", mock.Anything)
	blogRepo.AssertNotCalled(t, "ApplyActivityDelta", mock.Anything, mock.Anything)
}

// TestSubmitCommentNotificationFailure 通知派生失败不影响评论落库
func TestSubmitCommentNotificationFailure(t *testing.T) {
	commentRepo := new(MockCommentRepo)
	blogRepo := new(MockBlogRepo)
	notificationRepo := new(MockNotificationRepo)
	svc := newCommentService(commentRepo, blogRepo, notificationRepo)

	blog := &model.Blog{ID: 1, AuthorID: 9}
	blogRepo.On("FindByID", 1).Return(blog, nil)
	commentRepo.On("Create", mock.AnythingOfType("*model.Comment")).Return(nil)
	blogRepo.On("ApplyActivityDelta", 1, mock.Anything).Return(nil)
	notificationRepo.On("Create", mock.Anything).Return(errors.New("db down"))

	comment, err := svc.SubmitComment(1, 5, "still works", nil, nil)

	assert.NoError(t, err)
	assert.NotNil(t, comment)
}

// TestDeleteCommentCascade 级联删除整棵子树并逐节点更新计数器
// 树结构：1 -> [2, 3]，2 -> [4]
func TestDeleteCommentCascade(t *testing.T) {
	commentRepo := new(MockCommentRepo)
	blogRepo := new(MockBlogRepo)
	notificationRepo := new(MockNotificationRepo)
	svc := newCommentService(commentRepo, blogRepo, notificationRepo)

	parentOf := func(id int) *int { return &id }
	root := &model.Comment{ID: 1, BlogID: 10, CommentedBy: 5, BlogAuthorID: 9, Children: []int{2, 3}}
	child2 := &model.Comment{ID: 2, BlogID: 10, CommentedBy: 7, BlogAuthorID: 9, ParentID: parentOf(1), IsReply: true, Children: []int{4}}
	child3 := &model.Comment{ID: 3, BlogID: 10, CommentedBy: 8, BlogAuthorID: 9, ParentID: parentOf(1), IsReply: true, Children: []int{}}
	child4 := &model.Comment{ID: 4, BlogID: 10, CommentedBy: 5, BlogAuthorID: 9, ParentID: parentOf(2), IsReply: true, Children: []int{}}

	commentRepo.On("FindByID", 1).Return(root, nil)
	commentRepo.On("FindByID", 2).Return(child2, nil)
	commentRepo.On("FindByID", 3).Return(child3, nil)
	commentRepo.On("FindByID", 4).Return(child4, nil)
	for _, id := range []int{1, 2, 3, 4} {
		commentRepo.On("Delete", id).Return(nil)
		notificationRepo.On("DeleteByComment", id).Return(nil)
		notificationRepo.On("ClearReply", id).Return(nil)
	}
	blogRepo.On("ApplyActivityDelta", 10, model.ActivityDelta{Comments: -1, ParentComments: -1}).Return(nil).Once()
	blogRepo.On("ApplyActivityDelta", 10, model.ActivityDelta{Comments: -1}).Return(nil).Times(3)

	err := svc.DeleteComment(1, 5)

	assert.NoError(t, err)
	commentRepo.AssertExpectations(t)
	blogRepo.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
}

// TestDeleteCommentByBlogAuthor 博客作者可以删除他人的评论
func TestDeleteCommentByBlogAuthor(t *testing.T) {
	commentRepo := new(MockCommentRepo)
	blogRepo := new(MockBlogRepo)
	notificationRepo := new(MockNotificationRepo)
	svc := newCommentService(commentRepo, blogRepo, notificationRepo)

	comment := &model.Comment{ID: 1, BlogID: 10, CommentedBy: 5, BlogAuthorID: 9, Children: []int{}}
	commentRepo.On("FindByID", 1).Return(comment, nil)
	commentRepo.On("Delete", 1).Return(nil)
	notificationRepo.On("DeleteByComment", 1).Return(nil)
	notificationRepo.On("ClearReply", 1).Return(nil)
	blogRepo.On("ApplyActivityDelta", 10, model.ActivityDelta{Comments: -1, ParentComments: -1}).Return(nil)

	err := svc.DeleteComment(1, 9)

	assert.NoError(t, err)
	commentRepo.AssertExpectations(t)
}

// TestDeleteCommentForbidden 无关用户删除时不发生任何变更
func TestDeleteCommentForbidden(t *testing.T) {
	commentRepo := new(MockCommentRepo)
	blogRepo := new(MockBlogRepo)
	notificationRepo := new(MockNotificationRepo)
	svc := newCommentService(commentRepo, blogRepo, notificationRepo)

	comment := &model.Comment{ID: 1, BlogID: 10, CommentedBy: 5, BlogAuthorID: 9, Children: []int{}}
	commentRepo.On("FindByID", 1).Return(comment, nil)

	err := svc.DeleteComment(1, 99)

	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	commentRepo.AssertNotCalled(t, "Delete", mock.Anything)
	blogRepo.AssertNotCalled(t, "ApplyActivityDelta", mock.Anything, mock.Anything)
	notificationRepo.AssertNotCalled(t, "DeleteByComment", mock.Anything)
}

// TestDeleteCommentNotFound 评论不存在
func TestDeleteCommentNotFound(t *testing.T) {
	commentRepo := new(MockCommentRepo)
	blogRepo := new(MockBlogRepo)
	notificationRepo := new(MockNotificationRepo)
	svc := newCommentService(commentRepo, blogRepo, notificationRepo)

	commentRepo.On("FindByID", 1).Return(nil, nil)

	err := svc.DeleteComment(1, 5)

	assert.True(t, apperrors.Is(err, apperrors.ErrCommentNotFound))
}

// TestGetRepliesParentMissing 查询不存在评论的回复
func TestGetRepliesParentMissing(t *testing.T) {
	commentRepo := new(MockCommentRepo)
	blogRepo := new(MockBlogRepo)
	notificationRepo := new(MockNotificationRepo)
	svc := newCommentService(commentRepo, blogRepo, notificationRepo)

	commentRepo.On("FindByID", 404).Return(nil, nil)

	_, err := svc.GetReplies(404, 0)

	assert.True(t, apperrors.Is(err, apperrors.ErrCommentNotFound))
}
