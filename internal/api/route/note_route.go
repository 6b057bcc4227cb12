package route

import (
	"time"

	"github.com/bassista/go_notes/internal/api/controller"
	"github.com/bassista/go_notes/internal/api/middleware"
	"github.com/bassista/go_notes/internal/repository"
	"github.com/gin-gonic/gin"
)

func NewNoteRouter(timeout time.Duration, group *gin.RouterGroup, store repository.NoteStore) {
	group.Use(middleware.RequestTimeout(timeout))
	controller.NewNoteController(store).RegisterRoutes(group)
}
