package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/nsxzhou1114/posttag-api/internal/config"
)

// RoleAdmin 管理员角色
const RoleAdmin = "admin"

var (
	// ErrTokenRevoked 令牌已被撤销
	ErrTokenRevoked = errors.New("令牌已被撤销")
	// ErrTokenInvalid 令牌无效
	ErrTokenInvalid = errors.New("无效的令牌")
)

// Claims 自定义JWT声明结构体，令牌唯一ID放在标准声明的jti中
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// GenerateToken 生成访问令牌
func GenerateToken(userID uint, role string, expiration time.Duration) (string, *Claims, error) {
	cfg := config.GetConfig().JWT
	if expiration <= 0 {
		expiration = time.Duration(cfg.AccessExpireSeconds) * time.Second
	}

	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			ExpiresAt: now.Add(expiration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    cfg.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.SecretKey))
	if err != nil {
		return "", nil, fmt.Errorf("签名令牌失败: %w", err)
	}
	return tokenString, claims, nil
}

// parse 只校验签名和有效期
func parse(tokenString string) (*Claims, error) {
	secret := []byte(config.GetConfig().JWT.SecretKey)
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("不支持的签名算法: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseToken 解析JWT令牌，已撤销的令牌返回ErrTokenRevoked
func ParseToken(ctx context.Context, tokenString string) (*Claims, error) {
	revoked, err := GetBlacklist().IsBlacklisted(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return parse(tokenString)
}

// RevokeToken 撤销令牌，黑名单记录保留到令牌过期
func RevokeToken(ctx context.Context, tokenString string) error {
	claims, err := parse(tokenString)
	if err != nil {
		return err
	}
	return GetBlacklist().AddToBlacklist(ctx, tokenString, time.Unix(claims.ExpiresAt, 0))
}
