package interfaces

import "blogging-backend/internal/model"

// CommentRepository 接口定义了评论仓库应该实现的方法
type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(id int) (*model.Comment, error)
	// ListTopLevel 按时间倒序返回某博客的顶级评论，带评论者摘要
	ListTopLevel(blogID, skip, pageSize int) ([]*model.Comment, error)
	// ListReplies 按时间倒序返回某评论的直接子评论，带评论者摘要
	ListReplies(parentID, skip, pageSize int) ([]*model.Comment, error)
	// ChildIDs 返回某评论的全部直接子评论ID，级联删除前捕获
	ChildIDs(parentID int) ([]int, error)
	Delete(id int) error
	DeleteByBlog(blogID int) error
	CountByBlog(blogID int) (int, error)
}
