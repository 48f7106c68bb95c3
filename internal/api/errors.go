package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/arthur-theuer/signaleditor/internal/resolver"
	"github.com/arthur-theuer/signaleditor/internal/routestore"
)

// ErrResponse is the JSON error body of every failed request.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText    string   `json:"status"`
	ErrorText     string   `json:"error,omitempty"`
	MessageText   string   `json:"message,omitempty"`
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func errResponse(err error, code int, status string) render.Renderer {
	return &ErrResponse{Err: err, HTTPStatusCode: code, StatusText: status, ErrorText: err.Error()}
}

func ErrInvalidRequest(err error) render.Renderer {
	return errResponse(err, http.StatusBadRequest, "Invalid request.")
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrUnauthorized(err error) render.Renderer {
	return errResponse(err, http.StatusUnauthorized, "Unauthorized.")
}

func ErrNotFound(err error) render.Renderer {
	return errResponse(err, http.StatusNotFound, "Resource not found.")
}

func ErrConflict(err error) render.Renderer {
	return errResponse(err, http.StatusConflict, "Conflict.")
}

func ErrUnprocessable(err error) render.Renderer {
	return errResponse(err, http.StatusUnprocessableEntity, "Unprocessable entity.")
}

func ErrUnavailable(err error) render.Renderer {
	return errResponse(err, http.StatusServiceUnavailable, "Service unavailable.")
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return errResponse(err, http.StatusInternalServerError, "Internal server error.")
}

// ErrResolve answers a failed resolution with the editor text attached.
func ErrResolve(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Unprocessable entity.",
		ErrorText:      err.Error(),
		MessageText:    resolver.Message(err),
	}
}

// ErrStore maps a storage error to its response.
func ErrStore(err error) render.Renderer {
	switch {
	case errors.Is(err, routestore.ErrNotFound):
		return ErrNotFound(err)
	case errors.Is(err, routestore.ErrInvalidName):
		return ErrInvalidRequest(err)
	case routestore.IsRetryable(err):
		return errResponse(err, http.StatusBadGateway, "Storage unavailable.")
	}
	return ErrInternalServerErrorRend(err)
}
