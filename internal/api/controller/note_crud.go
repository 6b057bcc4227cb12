package controller

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/bassista/go_notes/internal/repository"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NotePayload is the POST /api/notes body. Content is a pointer so that an
// empty string is accepted while a missing field is rejected. Side notes are
// pointers for the same reason: a null entry is rejected, "" is kept.
type NotePayload struct {
	ID        *string   `json:"id"`
	Title     string    `json:"title" binding:"required"`
	Content   *string   `json:"content" binding:"required"`
	SideNotes []*string `json:"side_notes" binding:"omitempty,dive,required"`
}

func (p NotePayload) ToModel() repository.Note {
	n := repository.Note{Title: p.Title}
	if p.ID != nil {
		n.ID = *p.ID
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.SideNotes != nil {
		n.SideNotes = make([]string, 0, len(p.SideNotes))
		for _, s := range p.SideNotes {
			if s != nil {
				n.SideNotes = append(n.SideNotes, *s)
			}
		}
	}
	n.ApplyDefaults()
	return n
}

// NoteCrudService implements CrudService for notes.
type NoteCrudService struct {
	Store repository.NoteStore
}

func (s *NoteCrudService) All(ctx context.Context) ([]repository.Note, error) {
	return s.Store.List(ctx)
}

func (s *NoteCrudService) Get(ctx context.Context, id string) (repository.Note, error) {
	note, err := s.Store.Get(ctx, id)
	if err != nil {
		return repository.Note{}, err
	}
	return *note, nil
}

func (s *NoteCrudService) Save(ctx context.Context, item repository.Note) (repository.Note, error) {
	return s.Store.Save(ctx, item)
}

// NoteCrudValidator implements CrudValidator for notes.
type NoteCrudValidator struct {
	validator *validator.Validate
}

func (v *NoteCrudValidator) Validate(item repository.Note) error {
	return v.validator.Struct(item)
}

var registerBindingTagNames sync.Once

// useJSONFieldNames makes validation errors report json field names.
func useJSONFieldNames(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
}

func useJSONFieldNamesForBinding() {
	registerBindingTagNames.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			useJSONFieldNames(v)
		}
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
