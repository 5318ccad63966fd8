package service

import (
	"testing"

	apperrors "blogging-backend/internal/errors"
	"blogging-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newBlogService(blogRepo *MockBlogRepo, userRepo *MockUserRepo, commentRepo *MockCommentRepo, notificationRepo *MockNotificationRepo) *BlogService {
	return NewBlogService(blogRepo, userRepo, commentRepo, notificationRepo)
}

// TestCreateBlogPublish 发布新博客：生成可读标识并递增作者发文数
func TestCreateBlogPublish(t *testing.T) {
	blogRepo := new(MockBlogRepo)
	userRepo := new(MockUserRepo)
	svc := newBlogService(blogRepo, userRepo, new(MockCommentRepo), new(MockNotificationRepo))

	blogRepo.On("Create", mock.MatchedBy(func(b *model.Blog) bool {
		return b.BlogID != "" && b.Tags[0] == "golang" && !b.Draft && b.AuthorID == 5
	})).Return(nil)
	userRepo.On("ApplyAccountDelta", 5, 1, 0).Return(nil)

	blogID, err := svc.CreateOrUpdateBlog(5, &BlogInput{
		Title:   "Hello World",
		Des:     "a short description",
		Banner:  "https://example.com/banner.jpeg",
		Content: "{\"blocks\":[]}",
		Tags:    []string{"GoLang"},
	})

	assert.NoError(t, err)
	assert.Contains(t, blogID, "Hello-World")
	blogRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

// TestCreateBlogDraftSkipsValidation 草稿只要求标题，不计入发文数
func TestCreateBlogDraftSkipsValidation(t *testing.T) {
	blogRepo := new(MockBlogRepo)
	userRepo := new(MockUserRepo)
	svc := newBlogService(blogRepo, userRepo, new(MockCommentRepo), new(MockNotificationRepo))

	blogRepo.On("Create", mock.AnythingOfType("*model.Blog")).Return(nil)

	_, err := svc.CreateOrUpdateBlog(5, &BlogInput{Title: "wip", Draft: true})

	assert.NoError(t, err)
	userRepo.AssertNotCalled(t, "ApplyAccountDelta", mock.Anything, mock.Anything, mock.Anything)
}

// TestCreateBlogPublishValidation 发布态缺少必填项被拒绝
func TestCreateBlogPublishValidation(t *testing.T) {
	blogRepo := new(MockBlogRepo)
	svc := newBlogService(blogRepo, new(MockUserRepo), new(MockCommentRepo), new(MockNotificationRepo))

	cases := []BlogInput{
		{Title: "t", Des: "d", Content: "c", Tags: []string{"a"}},              // 缺封面
		{Title: "t", Des: "d", Banner: "b", Tags: []string{"a"}},               // 缺正文
		{Title: "t", Des: "d", Banner: "b", Content: "c"},                      // 缺标签
		{Title: "t", Banner: "b", Content: "c", Tags: []string{"a"}},           // 缺简介
		{Des: "d", Banner: "b", Content: "c", Tags: []string{"a"}},             // 缺标题
	}
	for _, input := range cases {
		in := input
		_, err := svc.CreateOrUpdateBlog(5, &in)
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	}
	blogRepo.AssertNotCalled(t, "Create", mock.Anything)
}

// TestUpdateBlogByID 带标识的请求走更新路径，不影响发文数
func TestUpdateBlogByID(t *testing.T) {
	blogRepo := new(MockBlogRepo)
	userRepo := new(MockUserRepo)
	svc := newBlogService(blogRepo, userRepo, new(MockCommentRepo), new(MockNotificationRepo))

	blogRepo.On("UpdateByBlogID", "hello-abc123", mock.AnythingOfType("*model.Blog")).Return(nil)

	blogID, err := svc.CreateOrUpdateBlog(5, &BlogInput{
		BlogID:  "hello-abc123",
		Title:   "Hello v2",
		Des:     "updated",
		Banner:  "b",
		Content: "c",
		Tags:    []string{"go"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "hello-abc123", blogID)
	userRepo.AssertNotCalled(t, "ApplyAccountDelta", mock.Anything, mock.Anything, mock.Anything)
}

// TestGetBlogIncrementsReads 普通读取递增博客和作者的阅读计数
func TestGetBlogIncrementsReads(t *testing.T) {
	blogRepo := new(MockBlogRepo)
	userRepo := new(MockUserRepo)
	svc := newBlogService(blogRepo, userRepo, new(MockCommentRepo), new(MockNotificationRepo))

	blog := &model.Blog{ID: 1, BlogID: "post-x", AuthorID: 9}
	blogRepo.On("FindByBlogID", "post-x").Return(blog, nil)
	blogRepo.On("ApplyActivityDelta", 1, model.ActivityDelta{Reads: 1}).Return(nil)
	userRepo.On("ApplyAccountDelta", 9, 0, 1).Return(nil)

	got, err := svc.GetBlog("post-x", "", false)

	assert.NoError(t, err)
	assert.Equal(t, 1, got.Activity.TotalReads)
	blogRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

// TestGetBlogEditMode 编辑模式读取不触发计数
func TestGetBlogEditMode(t *testing.T) {
	blogRepo := new(MockBlogRepo)
	userRepo := new(MockUserRepo)
	svc := newBlogService(blogRepo, userRepo, new(MockCommentRepo), new(MockNotificationRepo))

	blog := &model.Blog{ID: 1, BlogID: "post-x", AuthorID: 9, Draft: true}
	blogRepo.On("FindByBlogID", "post-x").Return(blog, nil)

	_, err := svc.GetBlog("post-x", "edit", true)

	assert.NoError(t, err)
	blogRepo.AssertNotCalled(t, "ApplyActivityDelta", mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "ApplyAccountDelta", mock.Anything, mock.Anything, mock.Anything)
}

// TestGetBlogDraftGuard 草稿不能通过普通入口访问
func TestGetBlogDraftGuard(t *testing.T) {
	blogRepo := new(MockBlogRepo)
	userRepo := new(MockUserRepo)
	svc := newBlogService(blogRepo, userRepo, new(MockCommentRepo), new(MockNotificationRepo))

	blog := &model.Blog{ID: 1, BlogID: "post-x", AuthorID: 9, Draft: true}
	blogRepo.On("FindByBlogID", "post-x").Return(blog, nil)
	blogRepo.On("ApplyActivityDelta", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("ApplyAccountDelta", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.GetBlog("post-x", "", false)

	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

// TestDeleteBlog 删除博客及其衍生数据并递减发文数
func TestDeleteBlog(t *testing.T) {
	blogRepo := new(MockBlogRepo)
	userRepo := new(MockUserRepo)
	commentRepo := new(MockCommentRepo)
	notificationRepo := new(MockNotificationRepo)
	svc := newBlogService(blogRepo, userRepo, commentRepo, notificationRepo)

	blog := &model.Blog{ID: 1, BlogID: "post-x", AuthorID: 5}
	blogRepo.On("FindByBlogID", "post-x").Return(blog, nil)
	blogRepo.On("Delete", 1).Return(nil)
	notificationRepo.On("DeleteByBlog", 1).Return(nil)
	commentRepo.On("DeleteByBlog", 1).Return(nil)
	userRepo.On("ApplyAccountDelta", 5, -1, 0).Return(nil)

	err := svc.DeleteBlog("post-x", 5)

	assert.NoError(t, err)
	blogRepo.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
	commentRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

// TestDeleteBlogForbidden 非作者不能删除博客
func TestDeleteBlogForbidden(t *testing.T) {
	blogRepo := new(MockBlogRepo)
	svc := newBlogService(blogRepo, new(MockUserRepo), new(MockCommentRepo), new(MockNotificationRepo))

	blog := &model.Blog{ID: 1, BlogID: "post-x", AuthorID: 5}
	blogRepo.On("FindByBlogID", "post-x").Return(blog, nil)

	err := svc.DeleteBlog("post-x", 99)

	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	blogRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

// TestUserWrittenBlogsSkip 翻页偏移扣除已删除文档数
func TestUserWrittenBlogsSkip(t *testing.T) {
	blogRepo := new(MockBlogRepo)
	svc := newBlogService(blogRepo, new(MockUserRepo), new(MockCommentRepo), new(MockNotificationRepo))

	blogRepo.On("ListByAuthor", 5, false, "", 3, 5).Return([]*model.Blog{}, nil)

	// 第二页，已删除2条：skip = 5 - 2 = 3
	_, err := svc.UserWrittenBlogs(5, 2, false, "", 2)

	assert.NoError(t, err)
	blogRepo.AssertExpectations(t)
}
