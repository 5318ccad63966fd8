package mysql

import (
	"blogging-backend/internal/model"
	"blogging-backend/internal/util"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	db *sql.DB
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

const userColumns = `id, fullname, username, email, password_hash, google_auth, profile_img, bio, role,
              youtube, instagram, facebook, twitter, github, website,
              total_posts, total_reads, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	var passwordHash sql.NullString
	err := row.Scan(
		&user.ID, &user.Fullname, &user.Username, &user.Email, &passwordHash, &user.GoogleAuth,
		&user.ProfileImg, &user.Bio, &user.Role,
		&user.SocialLinks.Youtube, &user.SocialLinks.Instagram, &user.SocialLinks.Facebook,
		&user.SocialLinks.Twitter, &user.SocialLinks.Github, &user.SocialLinks.Website,
		&user.AccountInfo.TotalPosts, &user.AccountInfo.TotalReads,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = passwordHash.String
	return &user, nil
}

// Create 创建一个新用户
func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (fullname, username, email, password_hash, google_auth, profile_img, bio)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	var passwordHash interface{}
	if user.PasswordHash != "" {
		passwordHash = user.PasswordHash
	}
	result, err := r.db.Exec(query, user.Fullname, user.Username, user.Email, passwordHash,
		user.GoogleAuth, user.ProfileImg, user.Bio)
	if err != nil {
		util.Logger.Error("创建用户失败", zap.Error(err), zap.String("email", user.Email))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新用户ID失败", zap.Error(err))
		return err
	}
	user.ID = int(id)
	user.Role = "user" // 设置默认角色
	util.Logger.Info("用户创建成功", zap.Int("user_id", user.ID))
	return nil
}

// FindByID 通过ID查找用户
func (r *userRepository) FindByID(id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := scanUser(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// FindByEmail 通过邮箱查找用户
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	user, err := scanUser(r.db.QueryRow(query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// FindByUsername 通过用户名查找用户
func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	user, err := scanUser(r.db.QueryRow(query, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// UsernameExists 检查用户名是否已被占用
func (r *userRepository) UsernameExists(username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, username).Scan(&exists)
	return exists, err
}

// UpdateProfile 更新用户资料与社交链接
func (r *userRepository) UpdateProfile(userID int, username, bio string, links model.SocialLinks) error {
	_, err := r.db.Exec(`
		UPDATE users
		SET username = ?, bio = ?, youtube = ?, instagram = ?, facebook = ?,
		    twitter = ?, github = ?, website = ?, updated_at = ?
		WHERE id = ?`,
		username, bio, links.Youtube, links.Instagram, links.Facebook,
		links.Twitter, links.Github, links.Website, time.Now(), userID)
	if err != nil {
		util.Logger.Error("更新用户资料失败", zap.Error(err), zap.Int("user_id", userID))
	}
	return err
}

// UpdateProfileImage 更新用户头像地址
func (r *userRepository) UpdateProfileImage(userID int, url string) error {
	_, err := r.db.Exec(`UPDATE users SET profile_img = ?, updated_at = ? WHERE id = ?`,
		url, time.Now(), userID)
	return err
}

// UpdatePassword 更新密码哈希
func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	_, err := r.db.Exec(`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now(), userID)
	return err
}

// SearchByUsername 按用户名模糊搜索用户
func (r *userRepository) SearchByUsername(query string, limit int) ([]*model.User, error) {
	rows, err := r.db.Query(`
        SELECT id, fullname, username, profile_img
        FROM users
        WHERE username LIKE CONCAT('%', ?, '%')
        LIMIT ?`, query, limit)
	if err != nil {
		util.Logger.Error("搜索用户失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Fullname, &user.Username, &user.ProfileImg); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// ApplyAccountDelta 以原子增量变更用户计数器，避免读-改-写竞争
func (r *userRepository) ApplyAccountDelta(userID, totalPosts, totalReads int) error {
	_, err := r.db.Exec(`
		UPDATE users
		SET total_posts = total_posts + ?, total_reads = total_reads + ?
		WHERE id = ?`,
		totalPosts, totalReads, userID)
	if err != nil {
		util.Logger.Error("更新用户计数器失败", zap.Error(err), zap.Int("user_id", userID))
	}
	return err
}
