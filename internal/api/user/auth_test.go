package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	apperrors "blogging-backend/internal/errors"
	"blogging-backend/internal/model"
	"blogging-backend/internal/service"
	"blogging-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	util.InitLogger("error")
	os.Exit(m.Run())
}

// MockUserService 是 UserServiceInterface 的模拟实现
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Signup(fullname, email, password string) (*model.User, error) {
	args := m.Called(fullname, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Signin(email, password string) (*model.User, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GoogleAuth(ctx context.Context, accessToken string) (*model.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ChangePassword(userID int, currentPassword, newPassword string) error {
	args := m.Called(userID, currentPassword, newPassword)
	return args.Error(0)
}

func (m *MockUserService) UpdateProfileImage(userID int, imageURL string) error {
	args := m.Called(userID, imageURL)
	return args.Error(0)
}

func (m *MockUserService) UpdateProfile(userID int, username, bio string, links model.SocialLinks) (string, error) {
	args := m.Called(userID, username, bio, links)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) GetProfile(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) SearchUsers(query string) ([]*model.User, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

// 确保 MockUserService 实现了 UserServiceInterface
var _ service.UserServiceInterface = (*MockUserService)(nil)

func postJSON(router *gin.Engine, path string, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestSignup 测试注册处理器
func TestSignup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/signup", handler.Signup)

	// 模拟成功注册
	mockUser := &model.User{ID: 1, Fullname: "Test User", Username: "test", Email: "test@example.com"}
	mockService.On("Signup", "Test User", "test@example.com", "Password1").Return(mockUser, nil)

	body := []byte(`{"fullname": "Test User", "email": "test@example.com", "password": "Password1"}`)
	w := postJSON(router, "/signup", body)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].(map[string]interface{})
	assert.Contains(t, data, "access_token")
	assert.Equal(t, "test", data["username"])
	mockService.AssertExpectations(t)

	// 弱密码在进入服务层前被拒绝
	body = []byte(`{"fullname": "Test User", "email": "test@example.com", "password": "weak"}`)
	w = postJSON(router, "/signup", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Signup", "Test User", "test@example.com", "weak")

	// 邮箱已注册
	mockService.On("Signup", "Test User", "dup@example.com", "Password1").
		Return(nil, apperrors.New(apperrors.ErrUserExists, "该邮箱已被注册"))

	body = []byte(`{"fullname": "Test User", "email": "dup@example.com", "password": "Password1"}`)
	w = postJSON(router, "/signup", body)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

// TestSignin 测试登录处理器
func TestSignin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/signin", handler.Signin)

	// 模拟成功登录
	mockUser := &model.User{ID: 1, Username: "test", Email: "test@example.com"}
	mockService.On("Signin", "test@example.com", "Password1").Return(mockUser, nil)

	body := []byte(`{"email": "test@example.com", "password": "Password1"}`)
	w := postJSON(router, "/signin", body)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].(map[string]interface{})
	assert.Contains(t, data, "access_token")
	mockService.AssertExpectations(t)

	// 模拟密码错误
	mockService.On("Signin", "test@example.com", "WrongPass1").
		Return(nil, apperrors.New(apperrors.ErrInvalidCredentials, "密码错误"))

	body = []byte(`{"email": "test@example.com", "password": "WrongPass1"}`)
	w = postJSON(router, "/signin", body)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Google账户走密码登录被拒绝
	mockService.On("Signin", "google@example.com", "Password1").
		Return(nil, apperrors.New(apperrors.ErrGoogleAuth, "该账户使用Google注册"))

	body = []byte(`{"email": "google@example.com", "password": "Password1"}`)
	w = postJSON(router, "/signin", body)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertExpectations(t)
}

// TestGoogleAuth 测试联合登录处理器
func TestGoogleAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/google-auth", handler.GoogleAuth)

	mockUser := &model.User{ID: 3, Username: "carol", GoogleAuth: true}
	mockService.On("GoogleAuth", mock.Anything, "valid-token").Return(mockUser, nil)

	body := []byte(`{"access_token": "valid-token"}`)
	w := postJSON(router, "/google-auth", body)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "carol", data["username"])
	mockService.AssertExpectations(t)

	// 缺少令牌
	w = postJSON(router, "/google-auth", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
