package server

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors name fields as they appear in the body.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// fieldError is a failed binding tag. It matches ErrInvalidRequest.
type fieldError struct {
	field string
	tag   string
}

func (e fieldError) Error() string {
	if e.tag == "required" {
		return e.field + " is required"
	}
	return e.field + " is invalid"
}

func (e fieldError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// bindJSON decodes the body into dst. Malformed JSON aborts with ErrInvalidJSON,
// a failed binding tag with a fieldError naming the first offending field.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		AbortWithError(c, fieldError{field: verrs[0].Field(), tag: verrs[0].Tag()})
		return false
	}
	AbortWithError(c, ErrInvalidJSON)
	return false
}
