package handlers

import (
	"net/http"
	"sync/atomic"

	apperrors "github.com/namelens/namesmith/internal/errors"
)

// ErrorResponder writes err to w as an error response.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

var errorResponder atomic.Pointer[ErrorResponder]

// SetHTTPErrorResponder routes handler errors through responder. The server
// installs its central handler here; nil restores the plain envelope writer.
func SetHTTPErrorResponder(responder ErrorResponder) {
	if responder == nil {
		errorResponder.Store(nil)
		return
	}
	errorResponder.Store(&responder)
}

func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	if responder := errorResponder.Load(); responder != nil {
		(*responder)(w, r, err)
		return
	}
	apperrors.RespondWithError(w, r, err)
}
