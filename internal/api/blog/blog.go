package blog

import (
	"blogging-backend/internal/errors"
	"blogging-backend/internal/repository/interfaces"
	"blogging-backend/internal/service"
	"blogging-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BlogHandler 处理博客相关的HTTP请求
type BlogHandler struct {
	blogService *service.BlogService
}

// NewBlogHandler 创建一个新的 BlogHandler 实例
func NewBlogHandler(blogService *service.BlogService) *BlogHandler {
	return &BlogHandler{blogService}
}

// CreateBlog 创建或更新博客
// 请求携带 id 时表示按可读标识更新已有博客。
func (h *BlogHandler) CreateBlog(c *gin.Context) {
	var blogData struct {
		ID      string   `json:"id"`
		Title   string   `json:"title" binding:"required"`
		Des     string   `json:"des"`
		Banner  string   `json:"banner"`
		Content string   `json:"content"`
		Tags    []string `json:"tags" binding:"taglist"`
		Draft   bool     `json:"draft"`
	}

	if err := c.ShouldBindJSON(&blogData); err != nil {
		util.Logger.Warn("创建博客失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	userID := c.GetInt("user_id")
	blogID, err := h.blogService.CreateOrUpdateBlog(userID, &service.BlogInput{
		BlogID:  blogData.ID,
		Title:   blogData.Title,
		Des:     blogData.Des,
		Banner:  blogData.Banner,
		Content: blogData.Content,
		Tags:    blogData.Tags,
		Draft:   blogData.Draft,
	})
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"id": blogID}, "")
}

// LatestBlogs 分页返回最新博客
func (h *BlogHandler) LatestBlogs(c *gin.Context) {
	var pageData struct {
		Page int `json:"page"`
	}
	if err := c.ShouldBindJSON(&pageData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}
	if pageData.Page < 1 {
		pageData.Page = 1
	}

	blogs, err := h.blogService.LatestBlogs(pageData.Page)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"blogs": blogs}, "")
}

// TrendingBlogs 返回热门博客
func (h *BlogHandler) TrendingBlogs(c *gin.Context) {
	blogs, err := h.blogService.TrendingBlogs()
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"blogs": blogs}, "")
}

type searchRequest struct {
	Tag           string `json:"tag"`
	Query         string `json:"query"`
	Author        int    `json:"author"`
	Page          int    `json:"page"`
	Limit         int    `json:"limit"`
	EliminateBlog string `json:"eliminate_blog"`
}

func (r *searchRequest) toFilter() interfaces.BlogSearchFilter {
	return interfaces.BlogSearchFilter{
		Tag:           r.Tag,
		Query:         r.Query,
		AuthorID:      r.Author,
		EliminateBlog: r.EliminateBlog,
	}
}

// SearchBlogs 按标签、标题或作者搜索博客
func (h *BlogHandler) SearchBlogs(c *gin.Context) {
	var searchData searchRequest
	if err := c.ShouldBindJSON(&searchData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}
	if searchData.Page < 1 {
		searchData.Page = 1
	}

	blogs, err := h.blogService.SearchBlogs(searchData.toFilter(), searchData.Page, searchData.Limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"blogs": blogs}, "")
}

// AllLatestBlogsCount 统计已发布博客总数
func (h *BlogHandler) AllLatestBlogsCount(c *gin.Context) {
	count, err := h.blogService.CountLatestBlogs()
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"totalDocs": count}, "")
}

// SearchBlogsCount 统计搜索结果总数
func (h *BlogHandler) SearchBlogsCount(c *gin.Context) {
	var searchData searchRequest
	if err := c.ShouldBindJSON(&searchData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	count, err := h.blogService.CountSearchBlogs(searchData.toFilter())
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"totalDocs": count}, "")
}

// GetBlog 获取单篇博客，非编辑模式下会递增阅读计数
func (h *BlogHandler) GetBlog(c *gin.Context) {
	var blogData struct {
		BlogID string `json:"blog_id" binding:"required"`
		Draft  bool   `json:"draft"`
		Mode   string `json:"mode"`
	}
	if err := c.ShouldBindJSON(&blogData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	blog, err := h.blogService.GetBlog(blogData.BlogID, blogData.Mode, blogData.Draft)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"blog": blog}, "")
}

// UserWrittenBlogs 返回当前用户的博客（草稿或已发布）
func (h *BlogHandler) UserWrittenBlogs(c *gin.Context) {
	var listData struct {
		Page            int    `json:"page"`
		Draft           bool   `json:"draft"`
		Query           string `json:"query"`
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
	blogs, err := h.blogService.UserWrittenBlogs(userID, listData.Page, listData.Draft, listData.Query, listData.DeletedDocCount)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"blogs": blogs}, "")
}

// UserWrittenBlogsCount 统计当前用户的博客数
func (h *BlogHandler) UserWrittenBlogsCount(c *gin.Context) {
	var countData struct {
		Draft bool   `json:"draft"`
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&countData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	userID := c.GetInt("user_id")
	count, err := h.blogService.CountUserWrittenBlogs(userID, countData.Draft, countData.Query)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"totalDocs": count}, "")
}

// DeleteBlog 删除当前用户的博客及其衍生数据
func (h *BlogHandler) DeleteBlog(c *gin.Context) {
	var blogData struct {
		BlogID string `json:"blog_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&blogData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	userID := c.GetInt("user_id")
	if err := h.blogService.DeleteBlog(blogData.BlogID, userID); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"status": "done"}, "博客删除成功")
}
