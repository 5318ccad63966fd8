package model

import "time"

// Comment 结构体表示评论树中的一个节点
// 树不变量：IsReply 与 ParentID 是否存在保持一致；
// 顶级评论挂在博客下，回复挂在父评论下，二者互斥。
type Comment struct {
	ID           int       `json:"_id"`
	BlogID       int       `json:"blog_id"`
	BlogAuthorID int       `json:"blog_author"` // 冗余存储，用于删除鉴权
	Content      string    `json:"comment"`
	CommentedBy  int       `json:"commented_by"`
	ParentID     *int      `json:"parent,omitempty"`
	IsReply      bool      `json:"isReply"`
	CommentedAt  time.Time `json:"commentedAt"`
	Children     []int     `json:"children"`
	User         *Profile  `json:"commented_by_user,omitempty"`
}
