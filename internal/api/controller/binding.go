package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin/binding"
)

var errTrailingData = errors.New("unexpected data after the json document")

// strictJSON binds a request body holding exactly one JSON document.
// gin's binding.JSON stops after the first value and ignores what follows.
var strictJSON binding.Binding = strictJSONBinding{}

type strictJSONBinding struct{}

func (strictJSONBinding) Name() string {
	return "json"
}

func (strictJSONBinding) Bind(req *http.Request, obj any) error {
	if req == nil || req.Body == nil {
		return errors.New("invalid request")
	}
	dec := json.NewDecoder(req.Body)
	if err := dec.Decode(obj); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	if binding.Validator == nil {
		return nil
	}
	return binding.Validator.ValidateStruct(obj)
}
