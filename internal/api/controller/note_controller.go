package controller

import (
	"github.com/bassista/go_notes/internal/logger"
	"github.com/bassista/go_notes/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// NoteController handles note-related HTTP endpoints using the generic CRUD controller.
type NoteController struct {
	crud *CrudController[repository.Note, NotePayload]
}

// NewNoteController creates a new NoteController backed by the given store.
func NewNoteController(store repository.NoteStore) *NoteController {
	useJSONFieldNamesForBinding()

	v := validator.New()
	useJSONFieldNames(v)

	return &NoteController{
		crud: &CrudController[repository.Note, NotePayload]{
			Service:   &NoteCrudService{Store: store},
			Validator: &NoteCrudValidator{validator: v},
			NotFound:  repository.ErrNoteNotFound,
			Resource:  "note",
		},
	}
}

// AllNotes handles GET /api/notes - returns all notes.
func (nc *NoteController) AllNotes(c *gin.Context) {
	logger.WithComponent("note-controller").Debugf("GET /notes handler called")
	nc.crud.GetAll(c)
}

// GetNote handles GET /api/notes/:id - returns a single note.
func (nc *NoteController) GetNote(c *gin.Context) {
	logger.WithComponent("note-controller").Debugf("GET /notes/%s handler called", c.Param("id"))
	nc.crud.Get(c)
}

// CreateOrUpdateNote handles POST /api/notes - creates a note, or replaces the note with the given id.
func (nc *NoteController) CreateOrUpdateNote(c *gin.Context) {
	logger.WithComponent("note-controller").Debugf("POST /notes handler called")
	nc.crud.CreateOrUpdate(c)
}

// RegisterRoutes mounts the note endpoints on rg.
func (nc *NoteController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notes", nc.AllNotes)
	rg.GET("/notes/:id", nc.GetNote)
	rg.POST("/notes", nc.CreateOrUpdateNote)
}
