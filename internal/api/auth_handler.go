package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"synthesized/web/internal/service"
)

// AuthHandler serves the login page, the magic-link request and the
// link-confirmation callback.
type AuthHandler struct {
	authService   service.AuthService
	secureCookies bool
	sessionTTL    time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, secureCookies bool, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
		sessionTTL:    sessionTTL,
	}
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	notice, errMsg := flash(c)
	c.HTML(http.StatusOK, "login.tmpl", gin.H{
		"Title":  "Synthesized | Login",
		"Sent":   c.Query("sent") != "",
		"Notice": notice,
		"Error":  errMsg,
	})
}

// RequestMagicLink handles the login form submission. Sign-in and
// registration are the same flow; a fresh email gets an account on the fly.
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	email := c.PostForm("email")

	err := h.authService.SignInWithOtp(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			redirectWithError(c, "/login", "Not a valid email address")
			return
		}
		log.Printf("ERROR: magic link request: %v", err)
		redirectWithError(c, "/login", "Sending the sign-in link failed. Please try again later")
		return
	}

	c.Redirect(http.StatusSeeOther, "/login?sent=1")
}

// ConfirmLogin verifies the token from the emailed link and establishes the
// session cookie. Any failure lands back on the login page.
func (h *AuthHandler) ConfirmLogin(c *gin.Context) {
	tokenHash := c.Query("token_hash")
	if tokenHash == "" {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	sessionToken, _, err := h.authService.VerifyOtp(c.Request.Context(), tokenHash)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidToken) {
			log.Printf("ERROR: OTP verification: %v", err)
		}
		c.Redirect(http.StatusFound, "/login")
		return
	}

	setSessionCookie(c, sessionToken, h.sessionTTL, h.secureCookies)
	c.Redirect(http.StatusFound, "/logbook")
}
