package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greendrake/storefront/internal/captcha"
)

// CaptchaMiddleware verifies the X-Captcha-Token header on routes exposed to
// anonymous traffic. The verifier passes everything through when no secret is
// configured.
func CaptchaMiddleware(verifier captcha.IVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Captcha-Token")
		ok, err := verifier.Verify(c.Request.Context(), token, c.ClientIP())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Captcha verification unavailable"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Captcha verification failed"})
			return
		}
		c.Next()
	}
}
