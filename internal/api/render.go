package api

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// The POST handlers answer with a redirect carrying the user-facing message
// as a query parameter; the target page template renders it inline.

func redirectWithError(c *gin.Context, path, message string) {
	c.Redirect(http.StatusSeeOther, path+"?error="+url.QueryEscape(message))
}

func redirectWithNotice(c *gin.Context, path, message string) {
	c.Redirect(http.StatusSeeOther, path+"?notice="+url.QueryEscape(message))
}

// flash pulls the inline messages for a page render.
func flash(c *gin.Context) (notice, errMsg string) {
	return c.Query("notice"), c.Query("error")
}
