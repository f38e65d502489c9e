package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// errorKind is the closed set of failures the API reports to clients.
type errorKind int

const (
	errUnexpected errorKind = iota
	errAuthMissing
	errAuthInvalid
	errUserExists
	errInvalidCredentials
	errLeadNotFound
	errBadRequest
	errRouteNotFound
)

var errorKinds = map[errorKind]struct {
	status int
	msg    string
}{
	errUnexpected:         {http.StatusInternalServerError, "Server error"},
	errAuthMissing:        {http.StatusUnauthorized, "No token"},
	errAuthInvalid:        {http.StatusForbidden, "Invalid token"},
	errUserExists:         {http.StatusBadRequest, "User exists"},
	errInvalidCredentials: {http.StatusBadRequest, "Invalid credentials"},
	errLeadNotFound:       {http.StatusBadRequest, "Lead not found"},
	errBadRequest:         {http.StatusBadRequest, "Invalid JSON"},
	errRouteNotFound:      {http.StatusNotFound, "Not found"},
}

func (k errorKind) status() int {
	if e, ok := errorKinds[k]; ok {
		return e.status
	}
	return http.StatusInternalServerError
}

func (k errorKind) message() string {
	if e, ok := errorKinds[k]; ok {
		return e.msg
	}
	return errorKinds[errUnexpected].msg
}

// fail writes the client-facing body for kind. The cause, if any, only
// goes to the log.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, kind errorKind, cause error) {
	if cause != nil {
		lvl := s.logger.Debug
		if kind == errUnexpected {
			lvl = s.logger.Error
		}
		lvl("request failed",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Int("status", kind.status()),
			zap.Error(cause),
		)
	}
	writeError(w, kind.status(), kind.message())
}
