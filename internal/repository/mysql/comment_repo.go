package mysql

import (
	"blogging-backend/internal/model"
	"blogging-backend/internal/util"
	"database/sql"

	"go.uber.org/zap"
)

// commentRepository 实现了 CommentRepository 接口
type commentRepository struct {
	db *sql.DB
}

// NewCommentRepository 创建一个新的 commentRepository 实例
func NewCommentRepository(db *sql.DB) *commentRepository {
	return &commentRepository{db}
}

// Create 创建评论
func (r *commentRepository) Create(comment *model.Comment) error {
	query := `INSERT INTO comments (blog_id, blog_author_id, commented_by, content, parent_id, is_reply, commented_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query, comment.BlogID, comment.BlogAuthorID, comment.CommentedBy,
		comment.Content, comment.ParentID, comment.IsReply, comment.CommentedAt)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err),
			zap.Int("blog_id", comment.BlogID),
			zap.Any("parent_id", comment.ParentID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新评论ID失败", zap.Error(err))
		return err
	}
	comment.ID = int(id)

	util.Logger.Info("评论创建成功",
		zap.Int("comment_id", comment.ID),
		zap.Bool("is_reply", comment.IsReply))
	return nil
}

// FindByID 通过ID查找评论
func (r *commentRepository) FindByID(id int) (*model.Comment, error) {
	query := `
        SELECT id, blog_id, blog_author_id, commented_by, content, parent_id, is_reply, commented_at
        FROM comments
        WHERE id = ?`

	var comment model.Comment
	err := r.db.QueryRow(query, id).Scan(
		&comment.ID, &comment.BlogID, &comment.BlogAuthorID, &comment.CommentedBy,
		&comment.Content, &comment.ParentID, &comment.IsReply, &comment.CommentedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	children, err := r.ChildIDs(id)
	if err != nil {
		return nil, err
	}
	comment.Children = children
	return &comment, nil
}

func (r *commentRepository) listComments(query string, args ...interface{}) ([]*model.Comment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		var comment model.Comment
		var user model.Profile
		err := rows.Scan(
			&comment.ID, &comment.BlogID, &comment.BlogAuthorID, &comment.CommentedBy,
			&comment.Content, &comment.ParentID, &comment.IsReply, &comment.CommentedAt,
			&user.Fullname, &user.Username, &user.ProfileImg,
		)
		if err != nil {
			return nil, err
		}
		comment.User = &user
		comment.Children = []int{}
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 填充直接子评论ID
	for _, comment := range comments {
		children, err := r.ChildIDs(comment.ID)
		if err != nil {
			return nil, err
		}
		comment.Children = children
	}
	return comments, nil
}

// ListTopLevel 按时间倒序返回博客的顶级评论
func (r *commentRepository) ListTopLevel(blogID, skip, pageSize int) ([]*model.Comment, error) {
	query := `
        SELECT c.id, c.blog_id, c.blog_author_id, c.commented_by, c.content, c.parent_id, c.is_reply, c.commented_at,
               u.fullname, u.username, u.profile_img
        FROM comments c
        LEFT JOIN users u ON c.commented_by = u.id
        WHERE c.blog_id = ? AND c.is_reply = false
        ORDER BY c.commented_at DESC
        LIMIT ? OFFSET ?`
	return r.listComments(query, blogID, pageSize, skip)
}

// ListReplies 按时间倒序返回某评论的直接子评论
func (r *commentRepository) ListReplies(parentID, skip, pageSize int) ([]*model.Comment, error) {
	query := `
        SELECT c.id, c.blog_id, c.blog_author_id, c.commented_by, c.content, c.parent_id, c.is_reply, c.commented_at,
               u.fullname, u.username, u.profile_img
        FROM comments c
        LEFT JOIN users u ON c.commented_by = u.id
        WHERE c.parent_id = ?
        ORDER BY c.commented_at DESC
        LIMIT ? OFFSET ?`
	return r.listComments(query, parentID, pageSize, skip)
}

// ChildIDs 返回某评论全部直接子评论的ID
func (r *commentRepository) ChildIDs(parentID int) ([]int, error) {
	rows, err := r.db.Query(`SELECT id FROM comments WHERE parent_id = ? ORDER BY commented_at ASC`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete 删除单条评论
func (r *commentRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除评论失败", zap.Error(err), zap.Int("comment_id", id))
		return err
	}
	return nil
}

// DeleteByBlog 删除某博客的全部评论
func (r *commentRepository) DeleteByBlog(blogID int) error {
	_, err := r.db.Exec(`DELETE FROM comments WHERE blog_id = ?`, blogID)
	if err != nil {
		util.Logger.Error("删除博客评论失败", zap.Error(err), zap.Int("blog_id", blogID))
	}
	return err
}

// CountByBlog 统计某博客的存活评论数
func (r *commentRepository) CountByBlog(blogID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM comments WHERE blog_id = ?`, blogID).Scan(&count)
	return count, err
}
