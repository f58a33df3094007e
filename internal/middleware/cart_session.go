package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Anonymous visitors are tied to their cart through a long-lived cookie.
const (
	CartSessionCookie = "cart_session"
	ContextKeyCartKey = "cart_session_key"

	cartSessionMaxAge = 60 * 60 * 24 * 30 // 30 days
)

// CartSession ensures every request carries a cart session key, minting a
// new one for first-time visitors. Registered users keep the cookie too;
// cart resolution prefers their identity over the key.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := c.Cookie(CartSessionCookie)
		if err != nil || key == "" {
			key = uuid.NewString()
			c.SetCookie(CartSessionCookie, key, cartSessionMaxAge, "/", "", false, true)
		}
		c.Set(ContextKeyCartKey, key)
		c.Next()
	}
}

// GetCartSessionKey session key from context
func GetCartSessionKey(c *gin.Context) string {
	if key, exists := c.Get(ContextKeyCartKey); exists {
		return key.(string)
	}
	return ""
}
