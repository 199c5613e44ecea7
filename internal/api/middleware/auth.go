package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/jam/internal/identity"
	"github.com/d60-Lab/jam/internal/presence"
	"github.com/d60-Lab/jam/pkg/logger"
	"github.com/d60-Lab/jam/pkg/response"
)

const identityKey = "identity"

// Auth 强制鉴权：没有或校验失败直接 401。
// 通过后顺带向 presence 打一次在线心跳。
func Auth(verifier identity.TokenVerifier, tracker *presence.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "No token provided")
			return
		}
		ident, err := verifier.Verify(token)
		if err != nil {
			response.Unauthorized(c, "Invalid token")
			return
		}
		c.Set(identityKey, ident)
		heartbeat(c, tracker, ident.ID)
		c.Next()
	}
}

// OptionalAuth 可选鉴权：无 token 或校验失败按匿名放行
func OptionalAuth(verifier identity.TokenVerifier, tracker *presence.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if ok {
			if ident, err := verifier.Verify(token); err == nil {
				c.Set(identityKey, ident)
				heartbeat(c, tracker, ident.ID)
			}
		}
		c.Next()
	}
}

// Identity 取当前请求身份，匿名返回 nil
func Identity(c *gin.Context) *identity.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	ident, _ := v.(*identity.Identity)
	return ident
}

// UserID 取当前用户 ID，匿名返回空串
func UserID(c *gin.Context) string {
	if ident := Identity(c); ident != nil {
		return ident.ID
	}
	return ""
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(h, "Bearer "), true
}

func heartbeat(c *gin.Context, tracker *presence.Tracker, userID string) {
	if err := tracker.Heartbeat(c.Request.Context(), userID); err != nil {
		logger.Warn("presence heartbeat failed", zap.String("user_id", userID), zap.Error(err))
	}
}
