package types

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
)

// Request-scoped error taxonomy. Every error raised by the webhook
// pipeline that should change the HTTP response carries exactly one of
// these tags; untagged errors fall through to the default error render.
var (
	// ErrTagBadRequest marks malformed or misdirected caller input
	ErrTagBadRequest = goerr.NewTag("bad_request")

	// ErrTagInternal marks unexpected failures unrelated to caller input
	ErrTagInternal = goerr.NewTag("internal_server_error")
)

// HTTPStatus maps a tagged error to its response status. It returns 0
// for errors outside the taxonomy; callers must keep the default render
// for those rather than forcing them into a known kind.
func HTTPStatus(err error) int {
	switch {
	case goerr.HasTag(err, ErrTagBadRequest):
		return http.StatusBadRequest
	case goerr.HasTag(err, ErrTagInternal):
		return http.StatusInternalServerError
	default:
		return 0
	}
}
