package route

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// NewUIRouter serves the note editor: index.html at / and assets under /static.
// Unknown routes answer with a JSON 404.
func NewUIRouter(r *gin.Engine, staticDir string) {
	if staticDir != "" {
		r.Static("/static", staticDir)

		index := filepath.Join(staticDir, "index.html")
		r.GET("/", func(c *gin.Context) {
			c.File(index)
		})
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}
