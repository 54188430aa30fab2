package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionCookie 是管理员会话 cookie 的名称。
const SessionCookie = "admin_session"

// sessionValue 是管理员主体的固定标识，签名后作为会话令牌。
const sessionValue = "admin"

// SignToken 返回 value + "." + base64(HMAC-SHA256(value, secret))。
func SignToken(value, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	return value + "." + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyToken 重算 HMAC 并以常数时间比较。
// 缺少分隔符的令牌直接判为不合法。
func VerifyToken(token, secret string) bool {
	idx := strings.LastIndex(token, ".")
	if idx < 0 {
		return false
	}
	expected := SignToken(token[:idx], secret)
	if len(token) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1
}

// CheckPassword 校验管理员口令。口令或配置任一为空均判失败。
func CheckPassword(password, expected string) bool {
	if password == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(expected)) == 1
}

// NewSessionToken 在登录成功后签发管理员会话令牌。
func NewSessionToken(secret string) string {
	return SignToken(sessionValue, secret)
}

// IsAuthenticated 读取并校验会话 cookie，缺失或校验失败一律返回 false。
func IsAuthenticated(c *gin.Context, secret string) bool {
	token, err := c.Cookie(SessionCookie)
	if err != nil || token == "" {
		return false
	}
	return VerifyToken(token, secret)
}

// AdminRequired 拦截未通过会话校验的请求。
// 鉴权只在请求边界做一次，service 层不再重复检查。
func AdminRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c, secret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.Next()
	}
}

// RoomToken 为通过 PIN 校验的客户端签发房间访问令牌，
// 供 websocket 订阅私有房间时出示。
func RoomToken(roomID, secret string) string {
	return SignToken("room:"+roomID, secret)
}

// VerifyRoomToken 校验令牌签名且令牌确实属于指定房间。
func VerifyRoomToken(token, roomID, secret string) bool {
	if !strings.HasPrefix(token, "room:"+roomID+".") {
		return false
	}
	return VerifyToken(token, secret)
}
