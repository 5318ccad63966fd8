package interfaces

import "blogging-backend/internal/model"

// BlogSearchFilter 博客搜索条件，与路由层字段对应
type BlogSearchFilter struct {
	Tag           string
	Query         string
	AuthorID      int
	EliminateBlog string // 结果中排除的 blog_id
}

// BlogRepository 接口定义了博客仓库应该实现的方法
type BlogRepository interface {
	Create(blog *model.Blog) error
	UpdateByBlogID(blogID string, blog *model.Blog) error
	FindByBlogID(blogID string) (*model.Blog, error)
	FindByID(id int) (*model.Blog, error)
	Delete(id int) error
	ListLatest(page, pageSize int) ([]*model.Blog, error)
	ListTrending(limit int) ([]*model.Blog, error)
	Search(filter BlogSearchFilter, page, pageSize int) ([]*model.Blog, error)
	CountPublished() (int, error)
	CountSearch(filter BlogSearchFilter) (int, error)
	ListByAuthor(authorID int, draft bool, query string, skip, pageSize int) ([]*model.Blog, error)
	CountByAuthor(authorID int, draft bool, query string) (int, error)
	// ApplyActivityDelta 以原子增量方式变更博客活动计数器，
	// 计数器永远不做读-改-写，只做增量更新
	ApplyActivityDelta(blogID int, delta model.ActivityDelta) error
}
