package service

import (
	"context"
	"net/url"
	"strings"

	"blogging-backend/internal/errors"
	"blogging-backend/internal/identity"
	"blogging-backend/internal/model"
	"blogging-backend/internal/repository/interfaces"
	"blogging-backend/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	usernameSuffixLength = 5
	searchUserLimit      = 50
	maxBioLength         = 150
)

// UserServiceInterface 定义用户服务接口，便于测试替换
type UserServiceInterface interface {
	Signup(fullname, email, password string) (*model.User, error)
	Signin(email, password string) (*model.User, error)
	GoogleAuth(ctx context.Context, accessToken string) (*model.User, error)
	ChangePassword(userID int, currentPassword, newPassword string) error
	UpdateProfileImage(userID int, imageURL string) error
	UpdateProfile(userID int, username, bio string, links model.SocialLinks) (string, error)
	GetProfile(username string) (*model.User, error)
	SearchUsers(query string) ([]*model.User, error)
}

// UserService 提供用户注册、登录与资料管理
type UserService struct {
	userRepo interfaces.UserRepository
	verifier identity.Verifier
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, verifier identity.Verifier) *UserService {
	return &UserService{
		userRepo: userRepo,
		verifier: verifier,
	}
}

// generateUniqueUsername 从邮箱前缀生成用户名，冲突时追加随机后缀
func (s *UserService) generateUniqueUsername(email string) (string, error) {
	username := util.GenerateUsername(email)
	exists, err := s.userRepo.UsernameExists(username)
	if err != nil {
		return "", err
	}
	if exists {
		username += util.RandomSuffix(usernameSuffixLength)
	}
	return username, nil
}

// Signup 注册新用户
func (s *UserService) Signup(fullname, email, password string) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if existing != nil {
		return nil, errors.New(errors.ErrUserExists, "该邮箱已被注册")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "密码加密失败", err)
	}

	username, err := s.generateUniqueUsername(email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "生成用户名失败", err)
	}

	user := &model.User{
		Fullname:     fullname,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return nil, errors.New(errors.ErrUserExists, "该邮箱已被注册")
		}
		return nil, errors.Wrap(errors.ErrDatabase, "创建用户失败", err)
	}

	util.Logger.Info("用户注册成功", zap.Int("user_id", user.ID), zap.String("username", username))
	return user, nil
}

// Signin 邮箱密码登录
// Google 账户没有本地密码，必须走联合登录。
func (s *UserService) Signin(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "该邮箱未注册")
	}
	if user.GoogleAuth {
		return nil, errors.New(errors.ErrGoogleAuth, "该账户使用Google注册，请通过Google登录")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "密码错误")
	}

	util.Logger.Info("用户登录成功", zap.Int("user_id", user.ID))
	return user, nil
}

// GoogleAuth 联合登录：校验令牌后登录已有账户或创建新账户
// 已用密码注册的邮箱拒绝走联合登录。
func (s *UserService) GoogleAuth(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := s.verifier.Verify(ctx, accessToken)
	if err != nil {
		return nil, errors.Wrap(errors.ErrGoogleAuth, "Google身份校验失败", err)
	}

	// 替换为高分辨率头像
	picture := strings.Replace(claims.Picture, "s96-c", "s384-c", 1)

	user, err := s.userRepo.FindByEmail(claims.Email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user != nil {
		if !user.GoogleAuth {
			return nil, errors.New(errors.ErrGoogleAuth, "该邮箱已使用密码注册，请使用密码登录")
		}
		return user, nil
	}

	username, err := s.generateUniqueUsername(claims.Email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "生成用户名失败", err)
	}

	user = &model.User{
		Fullname:   claims.Name,
		Username:   username,
		Email:      claims.Email,
		ProfileImg: picture,
		GoogleAuth: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建用户失败", err)
	}

	util.Logger.Info("Google用户注册成功", zap.Int("user_id", user.ID))
	return user, nil
}

// ChangePassword 修改密码
// Google 账户没有本地密码，不允许修改。
func (s *UserService) ChangePassword(userID int, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	if user.GoogleAuth {
		return errors.New(errors.ErrGoogleAuth, "Google账户无法修改密码")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return errors.New(errors.ErrInvalidCredentials, "当前密码错误")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "密码加密失败", err)
	}
	if err := s.userRepo.UpdatePassword(userID, string(hash)); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新密码失败", err)
	}

	util.Logger.Info("密码修改成功", zap.Int("user_id", userID))
	return nil
}

// UpdateProfileImage 更新头像地址
func (s *UserService) UpdateProfileImage(userID int, imageURL string) error {
	if err := s.userRepo.UpdateProfileImage(userID, imageURL); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新头像失败", err)
	}
	return nil
}

// validateSocialLinks 校验社交链接域名
// 除个人网站外，链接域名必须匹配对应平台。
func validateSocialLinks(links model.SocialLinks) error {
	platforms := map[string]string{
		"youtube":   links.Youtube,
		"instagram": links.Instagram,
		"facebook":  links.Facebook,
		"twitter":   links.Twitter,
		"github":    links.Github,
	}
	for platform, link := range platforms {
		if link == "" {
			continue
		}
		parsed, err := url.Parse(link)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return errors.New(errors.ErrValidation, "社交链接必须是完整的http(s)地址")
		}
		if !strings.Contains(parsed.Hostname(), platform+".com") {
			return errors.New(errors.ErrValidation, platform+" 链接域名不正确")
		}
	}
	if links.Website != "" {
		parsed, err := url.Parse(links.Website)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return errors.New(errors.ErrValidation, "社交链接必须是完整的http(s)地址")
		}
	}
	return nil
}

// UpdateProfile 更新用户名、简介和社交链接，返回保存后的用户名
func (s *UserService) UpdateProfile(userID int, username, bio string, links model.SocialLinks) (string, error) {
	if len(username) < 3 {
		return "", errors.New(errors.ErrValidation, "用户名至少3个字符")
	}
	if len(bio) > maxBioLength {
		return "", errors.New(errors.ErrValidation, "简介不能超过150字符")
	}
	if err := validateSocialLinks(links); err != nil {
		return "", err
	}

	existing, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "查询用户名失败", err)
	}
	if existing != nil && existing.ID != userID {
		return "", errors.New(errors.ErrUserExists, "用户名已被占用")
	}

	if err := s.userRepo.UpdateProfile(userID, username, bio, links); err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return "", errors.New(errors.ErrUserExists, "用户名已被占用")
		}
		return "", errors.Wrap(errors.ErrDatabase, "更新资料失败", err)
	}
	return username, nil
}

// GetProfile 通过用户名获取公开资料
func (s *UserService) GetProfile(username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	return user, nil
}

// SearchUsers 按用户名前缀搜索用户
func (s *UserService) SearchUsers(query string) ([]*model.User, error) {
	users, err := s.userRepo.SearchByUsername(query, searchUserLimit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "搜索用户失败", err)
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}
