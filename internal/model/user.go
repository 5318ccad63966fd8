package model

import "time"

// User 结构体表示用户模型
type User struct {
	ID           int         `json:"id"`
	Fullname     string      `json:"fullname"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"` // 密码哈希不应在JSON中暴露
	GoogleAuth   bool        `json:"google_auth"`
	ProfileImg   string      `json:"profile_img"`
	Bio          string      `json:"bio"`
	Role         string      `json:"role"`
	SocialLinks  SocialLinks `json:"social_links"`
	AccountInfo  AccountInfo `json:"account_info"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// SocialLinks 用户社交链接
type SocialLinks struct {
	Youtube   string `json:"youtube"`
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Github    string `json:"github"`
	Website   string `json:"website"`
}

// AccountInfo 用户聚合计数器，只能通过 ApplyAccountDelta 变更
type AccountInfo struct {
	TotalPosts int `json:"total_posts"`
	TotalReads int `json:"total_reads"`
}

// Profile 用于列表和通知中的作者摘要
type Profile struct {
	Fullname   string `json:"fullname"`
	Username   string `json:"username"`
	ProfileImg string `json:"profile_img"`
}

// ToProfile 返回用户的公开摘要
func (u *User) ToProfile() Profile {
	return Profile{
		Fullname:   u.Fullname,
		Username:   u.Username,
		ProfileImg: u.ProfileImg,
	}
}
