package mysql

import (
	"blogging-backend/internal/model"
	"blogging-backend/internal/repository/interfaces"
	"blogging-backend/internal/util"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// blogRepository 实现了 BlogRepository 接口
type blogRepository struct {
	db *sql.DB
}

// NewBlogRepository 创建一个新的 blogRepository 实例
func NewBlogRepository(db *sql.DB) *blogRepository {
	return &blogRepository{db}
}

// Create 创建博客并写入标签
func (r *blogRepository) Create(blog *model.Blog) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO blogs (blog_id, title, des, banner, content, author_id, draft, published_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	result, err := tx.Exec(query, blog.BlogID, blog.Title, blog.Des, blog.Banner,
		blog.Content, blog.AuthorID, blog.Draft)
	if err != nil {
		util.Logger.Error("创建博客失败", zap.Error(err), zap.String("blog_id", blog.BlogID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新博客ID失败", zap.Error(err))
		return err
	}
	blog.ID = int(id)

	for _, tag := range blog.Tags {
		if _, err := tx.Exec(`INSERT INTO blog_tags (blog_id, tag) VALUES (?, ?)`, blog.ID, tag); err != nil {
			util.Logger.Error("写入博客标签失败", zap.Error(err), zap.String("tag", tag))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return err
	}

	util.Logger.Info("博客创建成功", zap.Int("id", blog.ID), zap.String("blog_id", blog.BlogID))
	return nil
}

// UpdateByBlogID 按可读标识更新博客内容并重写标签
func (r *blogRepository) UpdateByBlogID(blogID string, blog *model.Blog) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE blogs
		SET title = ?, des = ?, banner = ?, content = ?, draft = ?, updated_at = ?
		WHERE blog_id = ?`,
		blog.Title, blog.Des, blog.Banner, blog.Content, blog.Draft, time.Now(), blogID)
	if err != nil {
		util.Logger.Error("更新博客失败", zap.Error(err), zap.String("blog_id", blogID))
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	var internalID int
	if err := tx.QueryRow(`SELECT id FROM blogs WHERE blog_id = ?`, blogID).Scan(&internalID); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM blog_tags WHERE blog_id = ?`, internalID); err != nil {
		return err
	}
	for _, tag := range blog.Tags {
		if _, err := tx.Exec(`INSERT INTO blog_tags (blog_id, tag) VALUES (?, ?)`, internalID, tag); err != nil {
			return err
		}
	}

	return tx.Commit()
}

const blogColumns = `b.id, b.blog_id, b.title, b.des, b.banner, b.content, b.author_id, b.draft,
               b.total_likes, b.total_reads, b.total_comments, b.total_parent_comments,
               b.published_at, b.updated_at,
               u.fullname, u.username, u.profile_img`

func (r *blogRepository) scanBlogs(rows *sql.Rows) ([]*model.Blog, error) {
	var blogs []*model.Blog
	for rows.Next() {
		var blog model.Blog
		var author model.Profile
		err := rows.Scan(
			&blog.ID, &blog.BlogID, &blog.Title, &blog.Des, &blog.Banner, &blog.Content,
			&blog.AuthorID, &blog.Draft,
			&blog.Activity.TotalLikes, &blog.Activity.TotalReads,
			&blog.Activity.TotalComments, &blog.Activity.TotalParentComments,
			&blog.PublishedAt, &blog.UpdatedAt,
			&author.Fullname, &author.Username, &author.ProfileImg,
		)
		if err != nil {
			return nil, err
		}
		blog.Author = &author
		tags, err := r.tagsFor(blog.ID)
		if err != nil {
			return nil, err
		}
		blog.Tags = tags
		blogs = append(blogs, &blog)
	}
	return blogs, rows.Err()
}

func (r *blogRepository) tagsFor(blogID int) ([]string, error) {
	rows, err := r.db.Query(`SELECT tag FROM blog_tags WHERE blog_id = ?`, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *blogRepository) findOne(query string, arg interface{}) (*model.Blog, error) {
	rows, err := r.db.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs, err := r.scanBlogs(rows)
	if err != nil {
		return nil, err
	}
	if len(blogs) == 0 {
		return nil, nil
	}
	return blogs[0], nil
}

// FindByBlogID 通过可读标识查找博客，带作者摘要
func (r *blogRepository) FindByBlogID(blogID string) (*model.Blog, error) {
	query := `SELECT ` + blogColumns + `
        FROM blogs b LEFT JOIN users u ON b.author_id = u.id
        WHERE b.blog_id = ?`
	return r.findOne(query, blogID)
}

// FindByID 通过内部ID查找博客
func (r *blogRepository) FindByID(id int) (*model.Blog, error) {
	query := `SELECT ` + blogColumns + `
        FROM blogs b LEFT JOIN users u ON b.author_id = u.id
        WHERE b.id = ?`
	return r.findOne(query, id)
}

// Delete 删除博客及其标签
func (r *blogRepository) Delete(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM blog_tags WHERE blog_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM blogs WHERE id = ?`, id); err != nil {
		util.Logger.Error("删除博客失败", zap.Error(err), zap.Int("id", id))
		return err
	}
	return tx.Commit()
}

// ListLatest 按发布时间倒序返回已发布博客
func (r *blogRepository) ListLatest(page, pageSize int) ([]*model.Blog, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + blogColumns + `
        FROM blogs b LEFT JOIN users u ON b.author_id = u.id
        WHERE b.draft = false
        ORDER BY b.published_at DESC
        LIMIT ? OFFSET ?`
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanBlogs(rows)
}

// ListTrending 按阅读数、点赞数和发布时间返回热门博客
func (r *blogRepository) ListTrending(limit int) ([]*model.Blog, error) {
	query := `SELECT ` + blogColumns + `
        FROM blogs b LEFT JOIN users u ON b.author_id = u.id
        WHERE b.draft = false
        ORDER BY b.total_reads DESC, b.total_likes DESC, b.published_at DESC
        LIMIT ?`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanBlogs(rows)
}

func buildSearchWhere(filter interfaces.BlogSearchFilter) (string, []interface{}) {
	where := `b.draft = false`
	var args []interface{}

	if filter.Tag != "" {
		where += ` AND b.id IN (SELECT blog_id FROM blog_tags WHERE tag = ?)`
		args = append(args, filter.Tag)
	} else if filter.Query != "" {
		where += ` AND b.title LIKE CONCAT('%', ?, '%')`
		args = append(args, filter.Query)
	} else if filter.AuthorID != 0 {
		where += ` AND b.author_id = ?`
		args = append(args, filter.AuthorID)
	}

	if filter.EliminateBlog != "" {
		where += ` AND b.blog_id != ?`
		args = append(args, filter.EliminateBlog)
	}

	return where, args
}

// Search 按标签、标题或作者搜索已发布博客
func (r *blogRepository) Search(filter interfaces.BlogSearchFilter, page, pageSize int) ([]*model.Blog, error) {
	where, args := buildSearchWhere(filter)
	query := `SELECT ` + blogColumns + `
        FROM blogs b LEFT JOIN users u ON b.author_id = u.id
        WHERE ` + where + `
        ORDER BY b.published_at DESC
        LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		util.Logger.Error("搜索博客失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return r.scanBlogs(rows)
}

// CountPublished 统计已发布博客总数
func (r *blogRepository) CountPublished() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM blogs WHERE draft = false`).Scan(&count)
	return count, err
}

// CountSearch 统计搜索结果总数
func (r *blogRepository) CountSearch(filter interfaces.BlogSearchFilter) (int, error) {
	where, args := buildSearchWhere(filter)
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM blogs b WHERE `+where, args...).Scan(&count)
	return count, err
}

// ListByAuthor 返回某作者的博客（草稿或已发布），按标题过滤
func (r *blogRepository) ListByAuthor(authorID int, draft bool, query string, skip, pageSize int) ([]*model.Blog, error) {
	q := `SELECT ` + blogColumns + `
        FROM blogs b LEFT JOIN users u ON b.author_id = u.id
        WHERE b.author_id = ? AND b.draft = ? AND b.title LIKE CONCAT('%', ?, '%')
        ORDER BY b.published_at DESC
        LIMIT ? OFFSET ?`
	rows, err := r.db.Query(q, authorID, draft, query, pageSize, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanBlogs(rows)
}

// CountByAuthor 统计某作者的博客数
func (r *blogRepository) CountByAuthor(authorID int, draft bool, query string) (int, error) {
	var count int
	err := r.db.QueryRow(`
        SELECT COUNT(*) FROM blogs
        WHERE author_id = ? AND draft = ? AND title LIKE CONCAT('%', ?, '%')`,
		authorID, draft, query).Scan(&count)
	return count, err
}

// ApplyActivityDelta 以原子增量变更博客活动计数器
// 并发的点赞、评论和阅读互不覆盖
func (r *blogRepository) ApplyActivityDelta(blogID int, delta model.ActivityDelta) error {
	_, err := r.db.Exec(`
		UPDATE blogs
		SET total_likes = total_likes + ?,
		    total_reads = total_reads + ?,
		    total_comments = total_comments + ?,
		    total_parent_comments = total_parent_comments + ?
		WHERE id = ?`,
		delta.Likes, delta.Reads, delta.Comments, delta.ParentComments, blogID)
	if err != nil {
		util.Logger.Error("更新博客计数器失败", zap.Error(err), zap.Int("blog_id", blogID))
	}
	return err
}
