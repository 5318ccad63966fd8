package model

import "time"

// Blog 结构体表示博客文章
type Blog struct {
	ID          int       `json:"id"`
	BlogID      string    `json:"blog_id"` // 可读的唯一标识（标题+随机后缀）
	Title       string    `json:"title"`
	Des         string    `json:"des"`
	Banner      string    `json:"banner"`
	Content     string    `json:"content"`
	Tags        []string  `json:"tags"`
	AuthorID    int       `json:"author_id"`
	Draft       bool      `json:"draft"`
	Activity    Activity  `json:"activity"`
	PublishedAt time.Time `json:"publishedAt"`
	UpdatedAt   time.Time `json:"updated_at"`
	Author      *Profile  `json:"author,omitempty"`
}

// Activity 博客活动计数器
// 不变量：TotalComments == 该博客所有存活评论数；TotalParentComments == 顶级评论数。
// 只能通过 BlogRepository.ApplyActivityDelta 以增量方式变更。
type Activity struct {
	TotalLikes          int `json:"total_likes"`
	TotalReads          int `json:"total_reads"`
	TotalComments       int `json:"total_comments"`
	TotalParentComments int `json:"total_parent_comments"`
}

// ActivityDelta 一次原子的计数器增量
type ActivityDelta struct {
	Likes          int
	Reads          int
	Comments       int
	ParentComments int
}
