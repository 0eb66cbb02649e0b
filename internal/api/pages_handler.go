package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PagesHandler serves the static content pages: home and the muscle wiki.
type PagesHandler struct{}

func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

func (h *PagesHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.tmpl", gin.H{
		"Title": "Synthesized | Train with knowledge",
	})
}

func (h *PagesHandler) Wiki(c *gin.Context) {
	c.HTML(http.StatusOK, "wiki.tmpl", gin.H{
		"Title": "Synthesized | Muscle Wiki",
	})
}

func (h *PagesHandler) WikiFront(c *gin.Context) {
	c.HTML(http.StatusOK, "wiki_front.tmpl", gin.H{
		"Title": "Synthesized | Muscle Wiki - Front",
	})
}

func (h *PagesHandler) WikiBack(c *gin.Context) {
	c.HTML(http.StatusOK, "wiki_back.tmpl", gin.H{
		"Title": "Synthesized | Muscle Wiki - Back",
	})
}
