package response

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/the-web-girl/My-Library-App/http/request"
	"github.com/the-web-girl/My-Library-App/log"
	"github.com/the-web-girl/My-Library-App/model"
)

const contentTypeHeader = `application/json; charset=utf-8`

// OK creates a new JSON response with a 200 status code.
func OK(w http.ResponseWriter, r *http.Request, body interface{}) {
	builder := New(w, r)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSON(body))
	builder.Write()
}

// Created sends a created response to the client.
func Created(w http.ResponseWriter, r *http.Request, body interface{}) {
	builder := New(w, r)
	builder.WithStatus(http.StatusCreated)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSON(body))
	builder.Write()
}

// NoContent sends a no content response to the client.
func NoContent(w http.ResponseWriter, r *http.Request) {
	builder := New(w, r)
	builder.WithStatus(http.StatusNoContent)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.Write()
}

// ServerError sends an internal error to the client.
func ServerError(w http.ResponseWriter, r *http.Request, err error) {
	logFailure(http.StatusInternalServerError, r, err)
	writeError(w, r, http.StatusInternalServerError, err)
}

// BadRequest sends a bad request error to the client.
func BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	logFailure(http.StatusBadRequest, r, err)
	writeError(w, r, http.StatusBadRequest, err)
}

// NotFound sends a resource not found error to the client.
func NotFound(w http.ResponseWriter, r *http.Request, err error) {
	logFailure(http.StatusNotFound, r, err)
	writeError(w, r, http.StatusNotFound, err)
}

// BadGateway reports an upstream provider or backend failure.
func BadGateway(w http.ResponseWriter, r *http.Request, err error) {
	logFailure(http.StatusBadGateway, r, err)
	writeError(w, r, http.StatusBadGateway, err)
}

// Err dispatches on the model error taxonomy so handlers never map
// sentinels to status codes themselves.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrInvalid):
		BadRequest(w, r, err)
	case errors.Is(err, model.ErrNotFound):
		NotFound(w, r, err)
	case errors.Is(err, model.ErrUpstream):
		BadGateway(w, r, err)
	default:
		ServerError(w, r, err)
	}
}

func logFailure(status int, r *http.Request, err error) {
	log.Warn(http.StatusText(status),
		zap.Error(err),
		zap.String("client_ip", request.ClientIP(r)),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
		zap.String("request.user_agent", r.UserAgent()),
		zap.Int("response.status_code", status),
	)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	builder := New(w, r)
	builder.WithStatus(status)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSONError(err))
	builder.Write()
}

func toJSONError(err error) []byte {
	// The historical client contract expects {"error": "..."}.
	type errorMsg struct {
		Error string `json:"error"`
	}

	return toJSON(errorMsg{Error: err.Error()})
}

func toJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error("Unable to marshal JSON response", zap.Any("error", err))
		return []byte("")
	}

	return b
}
