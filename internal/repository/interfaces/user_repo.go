package interfaces

import "blogging-backend/internal/model"

// UserRepository 接口定义了用户仓库应该实现的方法
type UserRepository interface {
	Create(user *model.User) error
	FindByID(id int) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	UsernameExists(username string) (bool, error)
	UpdateProfile(userID int, username, bio string, links model.SocialLinks) error
	UpdateProfileImage(userID int, url string) error
	UpdatePassword(userID int, passwordHash string) error
	SearchByUsername(query string, limit int) ([]*model.User, error)
	// ApplyAccountDelta 以原子增量方式变更用户聚合计数器
	ApplyAccountDelta(userID, totalPosts, totalReads int) error
}
