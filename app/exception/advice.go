// Package exception holds the application's global exception handlers.
package exception

import (
	"errors"
	"io"
	"io/fs"

	gohttp "github.com/km-arc/go-force/framework/http"
)

// IOErrorCode tags every IO failure reported to clients.
const IOErrorCode = "#8x0008"

// ErrorView is the body of an IO failure.
type ErrorView struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Advice answers 400 with an ErrorView for IO failures and 409 with the error
// text for anything else. Errors that carry their own status keep it.
type Advice struct{}

func (Advice) ExceptionHandlers() []gohttp.ExceptionHandler {
	return []gohttp.ExceptionHandler{
		gohttp.On(func(err *fs.PathError) *gohttp.ResponseView { return ioFailure(err) }),
		gohttp.OnError(io.ErrUnexpectedEOF, ioFailure),
		gohttp.OnAny(func(err error) *gohttp.ResponseView {
			var sc gohttp.StatusCoder
			if errors.As(err, &sc) {
				return gohttp.DefaultErrorView(err)
			}
			return gohttp.Conflict(err.Error())
		}),
	}
}

func ioFailure(err error) *gohttp.ResponseView {
	return gohttp.BadRequest(ErrorView{Message: err.Error(), Code: IOErrorCode})
}
