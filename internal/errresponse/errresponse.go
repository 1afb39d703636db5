// Package errresponse is the single place where errors become HTTP
// responses. Handlers hand every failure to Respond.
package errresponse

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/bollywood/internal/logging"
	"github.com/SergeyParamoshkin/bollywood/internal/store"
	"github.com/SergeyParamoshkin/bollywood/internal/validation"
)

// ErrResponse renderer type for handling all sorts of errors.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	Message   string            `json:"message"`          // user-level status message
	ErrorText string            `json:"error,omitempty"`  // application-level error message, for debugging
	Fields    map[string]string `json:"fields,omitempty"` // per field validation failures
}

func (e *ErrResponse) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return e.Message
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)

	return nil
}

func ErrInvalidRequest(err error) *ErrResponse {
	resp := &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		Message:        "Invalid request.",
		ErrorText:      err.Error(),
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}

	return resp
}

func ErrConflict(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusConflict,
		Message:        "Slug already exists",
		ErrorText:      err.Error(),
	}
}

func ErrTimeout(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusGatewayTimeout,
		Message:        "Store timeout",
		ErrorText:      err.Error(),
	}
}

func ErrTooLarge(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusRequestEntityTooLarge,
		Message:        "Request body too large",
		ErrorText:      err.Error(),
	}
}

func ErrInternal(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		Message:        "Something went wrong",
		ErrorText:      err.Error(),
	}
}

func ErrRender(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		Message:        "Error rendering response.",
		ErrorText:      err.Error(),
	}
}

// nolint
var (
	ErrNotFound         = &ErrResponse{HTTPStatusCode: http.StatusNotFound, Message: "News not found"}
	ErrRouteNotFound    = &ErrResponse{HTTPStatusCode: http.StatusNotFound, Message: "Route not found"}
	ErrMethodNotAllowed = &ErrResponse{HTTPStatusCode: http.StatusMethodNotAllowed, Message: "Method not allowed"}
	ErrTooManyRequests  = &ErrResponse{HTTPStatusCode: http.StatusTooManyRequests, Message: "Too many requests"}
)

// badRequest marks a payload error that never reached the store.
type badRequest struct {
	err error
}

func (b *badRequest) Error() string { return b.err.Error() }
func (b *badRequest) Unwrap() error { return b.err }

// BadRequest marks err as the client's fault so Respond answers 400.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return &badRequest{err: err}
}

// FromError maps err onto a response.
func FromError(err error) *ErrResponse {
	var (
		resp     *ErrResponse
		tooLarge *http.MaxBytesError
		bad      *badRequest
		verr     *validation.Error
	)

	switch {
	case errors.As(err, &resp):
		return resp
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrDuplicateSlug):
		return ErrConflict(err)
	case errors.As(err, &tooLarge):
		return ErrTooLarge(err)
	case errors.As(err, &bad), errors.As(err, &verr):
		return ErrInvalidRequest(err)
	case errors.Is(err, store.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout(err)
	default:
		return ErrInternal(err)
	}
}

// Respond logs err and writes the matching JSON body.
func Respond(w http.ResponseWriter, r *http.Request, err error) {
	resp := FromError(err)

	logger := logging.From(r.Context()).With(
		"status", resp.HTTPStatusCode,
		"method", r.Method,
		"path", r.URL.Path,
	)
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		logger = logger.With("route", rctx.RoutePattern())
	}

	if resp.HTTPStatusCode >= http.StatusInternalServerError {
		logger.Errorw("request failed", "error", err)
	} else {
		logger.Debugw("request rejected", "error", err)
	}

	if rerr := render.Render(w, r, resp); rerr != nil {
		logger.Errorw("render error response", "error", rerr)
	}
}

// NotFound answers requests no route matches.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Respond(w, r, ErrRouteNotFound)
}

// MethodNotAllowed answers requests for a known path with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Respond(w, r, ErrMethodNotAllowed)
}
