package user

import (
	"blogging-backend/internal/errors"
	"blogging-backend/internal/model"
	"blogging-backend/internal/service"
	"blogging-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 处理与认证相关的HTTP请求
type AuthHandler struct {
	userService service.UserServiceInterface
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService}
}

// authPayload 登录成功后返回给前端的会话数据
func authPayload(user *model.User) (gin.H, error) {
	token, err := util.GenerateToken(user.ID, user.Role == "admin")
	if err != nil {
		return nil, err
	}
	return gin.H{
		"access_token": token,
		"profile_img":  user.ProfileImg,
		"username":     user.Username,
		"fullname":     user.Fullname,
	}, nil
}

// Signup 处理用户注册请求
func (h *AuthHandler) Signup(c *gin.Context) {
	var signupData struct {
		Fullname string `json:"fullname" binding:"required,min=3"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&signupData); err != nil {
		util.Logger.Warn("注册失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if !util.IsPasswordValid(signupData.Password) {
		errors.HandleError(c, errors.New(errors.ErrWeakPassword,
			"密码需为6-20位，且包含数字、大写和小写字母"))
		return
	}

	user, err := h.userService.Signup(signupData.Fullname, signupData.Email, signupData.Password)
	if err != nil {
		util.Logger.Warn("注册失败", zap.String("email", signupData.Email), zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	payload, err := authPayload(user)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成令牌失败", err))
		return
	}
	errors.HandleSuccess(c, payload, "注册成功")
}

// Signin 处理用户登录请求
func (h *AuthHandler) Signin(c *gin.Context) {
	var signinData struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&signinData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user, err := h.userService.Signin(signinData.Email, signinData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	payload, err := authPayload(user)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成令牌失败", err))
		return
	}
	errors.HandleSuccess(c, payload, "登录成功")
}

// GoogleAuth 处理Google联合登录
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	var authData struct {
		AccessToken string `json:"access_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&authData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user, err := h.userService.GoogleAuth(c.Request.Context(), authData.AccessToken)
	if err != nil {
		util.Logger.Warn("Google登录失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	payload, err := authPayload(user)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成令牌失败", err))
		return
	}
	errors.HandleSuccess(c, payload, "登录成功")
}
