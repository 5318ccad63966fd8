package identity

import (
	"context"

	"blogging-backend/internal/util"

	"go.uber.org/zap"
	"google.golang.org/api/idtoken"
)

// Claims 联合登录令牌中携带的用户信息
type Claims struct {
	Email   string
	Name    string
	Picture string
}

// Verifier 校验联合登录令牌并提取用户信息
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// googleVerifier 基于 Google 公钥校验 ID token
type googleVerifier struct {
	clientID string
}

// NewGoogleVerifier 创建一个新的 Google 令牌校验器
func NewGoogleVerifier(clientID string) Verifier {
	return &googleVerifier{clientID: clientID}
}

func (v *googleVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		util.Logger.Error("Google令牌校验失败", zap.Error(err))
		return nil, err
	}

	claims := &Claims{}
	if email, ok := payload.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		claims.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		claims.Picture = picture
	}
	return claims, nil
}
