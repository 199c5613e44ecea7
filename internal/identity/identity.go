// Package identity 身份边界：access token 校验与身份服务的瘦客户端。
// 账号与令牌的签发由外部身份服务负责，本服务只消费。
package identity

import "context"

// Identity 一次请求的已验证身份
type Identity struct {
	ID    string
	Email string
}

// TokenVerifier 校验 bearer token 并还原身份
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// Session 身份服务签发的会话
type Session struct {
	UserID      string
	Email       string
	AccessToken string
}

// Provider 身份服务需要的最小操作面
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// DeleteUser 仅用于注册失败后的补偿清理
	DeleteUser(ctx context.Context, userID string) error
}
