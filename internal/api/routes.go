package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"synthesized/web/internal/service"
)

// SetupRoutes wires every page and form action onto the Gin engine.
func SetupRoutes(
	router *gin.Engine,
	authService service.AuthService,
	logbookService service.LogbookService,
	accountService service.AccountService,
	secureCookies bool,
	sessionTTL time.Duration,
) {
	pagesHandler := NewPagesHandler()
	authHandler := NewAuthHandler(authService, secureCookies, sessionTTL)
	logbookHandler := NewLogbookHandler(logbookService)
	accountHandler := NewAccountHandler(accountService, secureCookies)

	// Public pages.
	router.GET("/", pagesHandler.Home)
	router.GET("/wiki", pagesHandler.Wiki)
	router.GET("/wiki/front", pagesHandler.WikiFront)
	router.GET("/wiki/back", pagesHandler.WikiBack)
	router.GET("/login", authHandler.ShowLogin)
	router.POST("/login", authHandler.RequestMagicLink)
	router.GET("/login-confirm", authHandler.ConfirmLogin)

	// Everything below requires a signed-in user.
	protected := router.Group("")
	protected.Use(RequireUser(authService))
	{
		protected.GET("/logbook", logbookHandler.List)
		protected.POST("/logbook", logbookHandler.CreateSession)
		protected.POST("/logbook/edit", logbookHandler.EditSessionExercise)
		protected.POST("/logbook/delete", logbookHandler.DeleteSessionExercise)
		protected.GET("/logbook/:sessionId", logbookHandler.ShowSession)
		protected.POST("/logbook/:sessionId", logbookHandler.SessionAction)

		protected.GET("/account", accountHandler.Show)
		protected.POST("/account", accountHandler.Action)
	}
}
