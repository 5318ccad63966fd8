package util

import (
	"blogging-backend/config"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// GenerateToken 为用户签发访问令牌，admin 标记写入声明
func GenerateToken(userID int, isAdmin bool) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"admin":   isAdmin,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ValidateToken 校验令牌并返回用户ID与admin标记
func ValidateToken(tokenString string) (int, bool, error) {
	if tokenString == "" {
		return 0, false, errors.New("令牌为空")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return 0, false, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID, ok := claims["user_id"].(float64)
		if !ok {
			return 0, false, errors.New("无效的用户ID")
		}
		isAdmin, _ := claims["admin"].(bool)
		return int(userID), isAdmin, nil
	}

	return 0, false, errors.New("无效的令牌")
}
