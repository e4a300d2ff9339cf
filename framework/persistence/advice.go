package persistence

import (
	"errors"

	gohttp "github.com/km-arc/go-force/framework/http"
)

// NotFoundAdvice answers 404 for any error wrapping ErrNotFound.
type NotFoundAdvice struct{}

func (NotFoundAdvice) ExceptionHandlers() []gohttp.ExceptionHandler {
	return []gohttp.ExceptionHandler{
		gohttp.OnError(ErrNotFound, func(err error) *gohttp.ResponseView {
			return gohttp.NotFound(map[string]string{"message": err.Error()})
		}),
	}
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
