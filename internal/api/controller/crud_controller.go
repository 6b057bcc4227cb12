package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bassista/go_notes/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CrudService defines the minimal interface required for CRUD operations.
type CrudService[T any] interface {
	All(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Save(ctx context.Context, item T) (T, error)
}

// CrudValidator defines the interface for validating a resource.
type CrudValidator[T any] interface {
	Validate(item T) error
}

// Payload is the inbound JSON shape of a resource.
type Payload[T any] interface {
	ToModel() T
}

// CrudController provides generic CRUD handlers for resources.
// Payloads are bound into P, checked with gin's binding tags, converted to T and
// checked again by Validator.
type CrudController[T any, P Payload[T]] struct {
	Service   CrudService[T]
	Validator CrudValidator[T]
	// NotFound is the error Service.Get returns for unknown ids.
	NotFound error
	Resource string
}

// GetAll handles GET requests to list all resources.
func (cc *CrudController[T, P]) GetAll(c *gin.Context) {
	items, err := cc.Service.All(c.Request.Context())
	if err != nil {
		logger.WithComponent("crud-controller").Errorf("list %s: %v", cc.Resource, err)
		storeFailure(c, err, "failed to read resource list")
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get handles GET requests for a single resource by id.
func (cc *CrudController[T, P]) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing resource id"})
		return
	}
	item, err := cc.Service.Get(c.Request.Context(), id)
	if err != nil {
		if cc.NotFound != nil && errors.Is(err, cc.NotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": cc.Resource + " not found"})
			return
		}
		logger.WithComponent("crud-controller").Errorf("get %s %s: %v", cc.Resource, id, err)
		storeFailure(c, err, "failed to read resource")
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateOrUpdate handles POST requests to create or update a resource.
func (cc *CrudController[T, P]) CreateOrUpdate(c *gin.Context) {
	var payload P
	if err := c.ShouldBindWith(&payload, strictJSON); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid payload", "details": validationDetails(err)})
		return
	}
	item := payload.ToModel()
	if cc.Validator != nil {
		if err := cc.Validator.Validate(item); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid payload", "details": validationDetails(err)})
			return
		}
	}
	saved, err := cc.Service.Save(c.Request.Context(), item)
	if err != nil {
		logger.WithComponent("crud-controller").Errorf("save %s: %v", cc.Resource, err)
		storeFailure(c, err, "failed to update resource")
		return
	}
	c.JSON(http.StatusOK, saved)
}

// storeFailure answers a failed store call. A store that ran past the request
// deadline gets 504, anything else 500 with msg.
func storeFailure(c *gin.Context, err error, msg string) {
	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timeout"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// validationDetails turns binding and validation errors into client-facing messages.
func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fmt.Sprintf("%s: failed on the '%s' rule", fe.Field(), fe.Tag()))
		}
		return details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []string{fmt.Sprintf("%s: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []string{fmt.Sprintf("malformed json at offset %d", syntaxErr.Offset)}
	}

	return []string{err.Error()}
}
