package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"synthesized/web/internal/service"
)

// AccountHandler serves the account settings page and its actions: logout,
// bulk data clear and account deletion.
type AccountHandler struct {
	accountService service.AccountService
	secureCookies  bool
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService service.AccountService, secureCookies bool) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		secureCookies:  secureCookies,
	}
}

// Show renders the account page.
func (h *AccountHandler) Show(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		redirectToLogin(c)
		return
	}

	notice, errMsg := flash(c)
	c.HTML(http.StatusOK, "account.tmpl", gin.H{
		"Title":        "Synthesized | Account Settings",
		"User":         user,
		"CreatedAt":    user.CreatedAt.Format(time.DateOnly),
		"LastSignInAt": user.LastSignInAt.Format("2006-01-02 15:04"),
		"Notice":       notice,
		"Error":        errMsg,
	})
}

// Action multiplexes the account page forms on the submitted fetcher value,
// mirroring the three actions the page offers.
func (h *AccountHandler) Action(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		redirectToLogin(c)
		return
	}

	switch c.PostForm("fetcher") {
	case "logoutFetcher":
		clearSessionCookie(c, h.secureCookies)
		c.Redirect(http.StatusSeeOther, "/login")

	case "clearDataFetcher":
		if err := h.accountService.ClearData(c.Request.Context(), user.ID); err != nil {
			log.Printf("ERROR: clearing data for %s: %v", user.ID, err)
			redirectWithError(c, "/account", err.Error())
			return
		}
		redirectWithNotice(c, "/account", "Data cleared successfully")

	case "deleteAccountFetcher":
		if err := h.accountService.DeleteAccount(c.Request.Context(), user.ID); err != nil {
			log.Printf("ERROR: deleting account %s: %v", user.ID, err)
			redirectWithError(c, "/account", "Deleting your account failed. Please try again later")
			return
		}
		clearSessionCookie(c, h.secureCookies)
		c.Redirect(http.StatusSeeOther, "/")

	default:
		redirectWithError(c, "/account", "Unknown account action")
	}
}
