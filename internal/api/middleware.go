package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"synthesized/web/internal/domain"
	"synthesized/web/internal/service"
)

// Constants for context and cookie keys.
const (
	ContextUserKey    = "currentUser"
	SessionCookieName = "sb_session"
)

// RequireUser creates a Gin middleware that resolves the current user from
// the session cookie. Unauthenticated requests are redirected to the login
// page, never answered with an error page. On success the resolved user is
// attached to the request context for downstream handlers.
func RequireUser(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil {
			redirectToLogin(c)
			return
		}

		user, err := authService.GetUserBySession(c.Request.Context(), token)
		if err != nil {
			redirectToLogin(c)
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// redirectToLogin aborts the request with a redirect. POSTs get 303 so the
// browser re-requests the login page with GET.
func redirectToLogin(c *gin.Context) {
	status := http.StatusFound
	if c.Request.Method != http.MethodGet {
		status = http.StatusSeeOther
	}
	c.Redirect(status, "/login")
	c.Abort()
}

// Session cookie attributes per the hosted-auth convention: path=/,
// httpOnly, secure in production, sameSite=lax.
func setSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", "", secure, true)
}

func clearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}

// currentUser returns the user attached by RequireUser.
func currentUser(c *gin.Context) (*domain.User, error) {
	raw, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, errors.New("user not found in context")
	}
	user, ok := raw.(*domain.User)
	if !ok {
		return nil, errors.New("invalid user type in context")
	}
	return user, nil
}
