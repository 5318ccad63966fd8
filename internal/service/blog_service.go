package service

import (
	"database/sql"
	"strings"

	"blogging-backend/internal/errors"
	"blogging-backend/internal/model"
	"blogging-backend/internal/repository/interfaces"
	"blogging-backend/internal/util"

	"go.uber.org/zap"
)

const (
	blogPageSize     = 5
	trendingPageSize = 5
	maxDesLength     = 200
	maxTags          = 10
)

// BlogInput 博客创建或更新的入参
type BlogInput struct {
	BlogID  string
	Title   string
	Des     string
	Banner  string
	Content string
	Tags    []string
	Draft   bool
}

// BlogService 处理博客的发布、检索与删除
type BlogService struct {
	blogRepo         interfaces.BlogRepository
	userRepo         interfaces.UserRepository
	commentRepo      interfaces.CommentRepository
	notificationRepo interfaces.NotificationRepository
}

// NewBlogService 创建一个新的 BlogService 实例
func NewBlogService(
	blogRepo interfaces.BlogRepository,
	userRepo interfaces.UserRepository,
	commentRepo interfaces.CommentRepository,
	notificationRepo interfaces.NotificationRepository,
) *BlogService {
	return &BlogService{
		blogRepo:         blogRepo,
		userRepo:         userRepo,
		commentRepo:      commentRepo,
		notificationRepo: notificationRepo,
	}
}

// validatePublish 发布态博客的完整性校验，草稿只要求标题
func validatePublish(input *BlogInput) error {
	if len(input.Des) == 0 || len(input.Des) > maxDesLength {
		return errors.New(errors.ErrValidation, "简介不能为空且不超过200字符")
	}
	if input.Banner == "" {
		return errors.New(errors.ErrValidation, "发布前必须上传封面图")
	}
	if input.Content == "" {
		return errors.New(errors.ErrValidation, "正文内容不能为空")
	}
	if len(input.Tags) == 0 || len(input.Tags) > maxTags {
		return errors.New(errors.ErrValidation, "标签数量必须在1到10之间")
	}
	return nil
}

// CreateOrUpdateBlog 创建或更新博客，返回可读标识
// 入参携带 blog_id 时按标识更新，否则生成新标识创建。
// 新发布（非草稿）会同步递增作者的累计发文数。
func (s *BlogService) CreateOrUpdateBlog(authorID int, input *BlogInput) (string, error) {
	if strings.TrimSpace(input.Title) == "" {
		return "", errors.New(errors.ErrValidation, "标题不能为空")
	}
	if !input.Draft {
		if err := validatePublish(input); err != nil {
			return "", err
		}
	}

	tags := make([]string, 0, len(input.Tags))
	for _, tag := range input.Tags {
		tags = append(tags, strings.ToLower(tag))
	}

	if input.BlogID != "" {
		blog := &model.Blog{
			Title:   input.Title,
			Des:     input.Des,
			Banner:  input.Banner,
			Content: input.Content,
			Tags:    tags,
			Draft:   input.Draft,
		}
		if err := s.blogRepo.UpdateByBlogID(input.BlogID, blog); err != nil {
			if err == sql.ErrNoRows {
				return "", errors.New(errors.ErrBlogNotFound, "博客不存在")
			}
			return "", errors.Wrap(errors.ErrDatabase, "更新博客失败", err)
		}
		return input.BlogID, nil
	}

	blog := &model.Blog{
		BlogID:   util.GenerateBlogID(input.Title),
		Title:    input.Title,
		Des:      input.Des,
		Banner:   input.Banner,
		Content:  input.Content,
		Tags:     tags,
		AuthorID: authorID,
		Draft:    input.Draft,
	}
	if err := s.blogRepo.Create(blog); err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "创建博客失败", err)
	}

	if !input.Draft {
		if err := s.userRepo.ApplyAccountDelta(authorID, 1, 0); err != nil {
			util.Logger.Error("更新作者发文数失败", zap.Error(err), zap.Int("author_id", authorID))
		}
	}

	return blog.BlogID, nil
}

// GetBlog 通过可读标识获取博客
// 非编辑模式下阅读计数加一，博客和作者侧同步递增。
// 草稿只有编辑入口（draft=true）可以访问。
func (s *BlogService) GetBlog(blogID, mode string, draft bool) (*model.Blog, error) {
	blog, err := s.blogRepo.FindByBlogID(blogID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询博客失败", err)
	}
	if blog == nil {
		return nil, errors.New(errors.ErrBlogNotFound, "博客不存在")
	}

	if mode != "edit" {
		if err := s.blogRepo.ApplyActivityDelta(blog.ID, model.ActivityDelta{Reads: 1}); err != nil {
			util.Logger.Error("更新阅读计数失败", zap.Error(err), zap.String("blog_id", blogID))
		}
		if err := s.userRepo.ApplyAccountDelta(blog.AuthorID, 0, 1); err != nil {
			util.Logger.Error("更新作者阅读数失败", zap.Error(err), zap.Int("author_id", blog.AuthorID))
		}
		blog.Activity.TotalReads++
	}

	if blog.Draft && !draft {
		return nil, errors.New(errors.ErrForbidden, "不能访问草稿博客")
	}

	return blog, nil
}

// LatestBlogs 分页返回最新发布的博客
func (s *BlogService) LatestBlogs(page int) ([]*model.Blog, error) {
	blogs, err := s.blogRepo.ListLatest(page, blogPageSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询最新博客失败", err)
	}
	if blogs == nil {
		blogs = []*model.Blog{}
	}
	return blogs, nil
}

// TrendingBlogs 返回热门博客
func (s *BlogService) TrendingBlogs() ([]*model.Blog, error) {
	blogs, err := s.blogRepo.ListTrending(trendingPageSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询热门博客失败", err)
	}
	if blogs == nil {
		blogs = []*model.Blog{}
	}
	return blogs, nil
}

// SearchBlogs 按标签、标题或作者搜索博客
func (s *BlogService) SearchBlogs(filter interfaces.BlogSearchFilter, page, limit int) ([]*model.Blog, error) {
	if limit <= 0 {
		limit = blogPageSize
	}
	blogs, err := s.blogRepo.Search(filter, page, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "搜索博客失败", err)
	}
	if blogs == nil {
		blogs = []*model.Blog{}
	}
	return blogs, nil
}

// CountLatestBlogs 统计已发布博客总数
func (s *BlogService) CountLatestBlogs() (int, error) {
	count, err := s.blogRepo.CountPublished()
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, "统计博客失败", err)
	}
	return count, nil
}

// CountSearchBlogs 统计搜索结果总数
func (s *BlogService) CountSearchBlogs(filter interfaces.BlogSearchFilter) (int, error) {
	count, err := s.blogRepo.CountSearch(filter)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, "统计搜索结果失败", err)
	}
	return count, nil
}

// UserWrittenBlogs 返回当前用户的博客（草稿或已发布）
func (s *BlogService) UserWrittenBlogs(userID, page int, draft bool, query string, deletedDocCount int) ([]*model.Blog, error) {
	skip := (page-1)*blogPageSize - deletedDocCount
	if skip < 0 {
		skip = 0
	}
	blogs, err := s.blogRepo.ListByAuthor(userID, draft, query, skip, blogPageSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户博客失败", err)
	}
	if blogs == nil {
		blogs = []*model.Blog{}
	}
	return blogs, nil
}

// CountUserWrittenBlogs 统计当前用户的博客数
func (s *BlogService) CountUserWrittenBlogs(userID int, draft bool, query string) (int, error) {
	count, err := s.blogRepo.CountByAuthor(userID, draft, query)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, "统计用户博客失败", err)
	}
	return count, nil
}

// DeleteBlog 删除博客及其衍生数据
// 删除顺序：博客本体、全部通知、全部评论，最后递减作者发文数。
// 衍生数据的清理失败只记录日志。
func (s *BlogService) DeleteBlog(blogID string, userID int) error {
	blog, err := s.blogRepo.FindByBlogID(blogID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询博客失败", err)
	}
	if blog == nil {
		return errors.New(errors.ErrBlogNotFound, "博客不存在")
	}
	if blog.AuthorID != userID {
		return errors.New(errors.ErrForbidden, "无权删除该博客")
	}

	if err := s.blogRepo.Delete(blog.ID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除博客失败", err)
	}

	if err := s.notificationRepo.DeleteByBlog(blog.ID); err != nil {
		util.Logger.Error("删除博客通知失败", zap.Error(err), zap.Int("blog_id", blog.ID))
	}
	if err := s.commentRepo.DeleteByBlog(blog.ID); err != nil {
		util.Logger.Error("删除博客评论失败", zap.Error(err), zap.Int("blog_id", blog.ID))
	}
	if err := s.userRepo.ApplyAccountDelta(userID, -1, 0); err != nil {
		util.Logger.Error("递减作者发文数失败", zap.Error(err), zap.Int("author_id", userID))
	}

	util.Logger.Info("博客删除成功", zap.String("blog_id", blogID), zap.Int("user_id", userID))
	return nil
}
